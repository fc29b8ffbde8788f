package auth

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	authservice "github.com/zenGate-Global/portfolio-pro-saas/domains/auth/be/service"
	principalsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/repo"
	principalsservice "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	tenantsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/repo"
	platformauth "github.com/zenGate-Global/portfolio-pro-saas/platform/go/auth"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// tokenCommand logs in with stored credentials and prints a session token accepted by the API.
// The secret and issuer must match the API server's JWT_SECRET and JWT_ISSUER.
func tokenCommand() *cobra.Command {
	var (
		databaseURL string
		secret      string
		issuer      string
		ttl         time.Duration
		username    string
		plain       string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Log in with username/password and print a session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL, ApplicationName: "portfolio-cli", MaxConns: 2})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			tenantStore, err := persistence.NewTenantStore(ctx, pool)
			if err != nil {
				return fmt.Errorf("init tenant store: %w", err)
			}
			principalStore, err := persistence.NewPrincipalStore(ctx, pool)
			if err != nil {
				return fmt.Errorf("init principal store: %w", err)
			}

			tenantRepo := tenantsrepo.NewPostgresRepository(tenantStore)
			principals := principalsservice.New(
				principalsrepo.NewPostgresRepository(principalStore),
				tenantRepo,
				password.NewHasher(0),
			)
			tokens := platformauth.NewTokenIssuer(secret, platformauth.WithIssuer(issuer), platformauth.WithTTL(ttl))

			res, err := authservice.New(principals, tenantRepo, tokens).Login(ctx, username, plain)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&secret, "jwt-secret", "", "HS256 signing secret (JWT_SECRET of the API)")
	cmd.Flags().StringVar(&issuer, "jwt-issuer", "portfolio-pro-saas", "iss claim (JWT_ISSUER of the API)")
	cmd.Flags().DurationVar(&ttl, "ttl", platformauth.DefaultTokenTTL, "token lifetime (e.g. 30m, 2h)")
	cmd.Flags().StringVar(&username, "username", "", "principal username")
	cmd.Flags().StringVar(&plain, "password", "", "principal password")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full login result as JSON")

	_ = cmd.MarkFlagRequired("database-url")
	_ = cmd.MarkFlagRequired("jwt-secret")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
