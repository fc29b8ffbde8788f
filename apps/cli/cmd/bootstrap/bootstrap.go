package bootstrap

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	principalsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/repo"
	principalsservice "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	tenantsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/repo"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
)

// Command groups bootstrap helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap platform resources (schema, platform admin)",
	}

	cmd.AddCommand(platformCommand())
	return cmd
}

func platformCommand() *cobra.Command {
	var (
		databaseURL string
		username    string
		plain       string
		bcryptCost  int
		schemaOnly  bool
	)

	c := &cobra.Command{
		Use:   "platform",
		Short: "Apply the platform DDL and seed the platform admin",
		Long: "Applies the embedded DDL (idempotent) and creates the single PLATFORM_ADMIN when none exists. " +
			"An existing platform admin is never modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL, ApplicationName: "portfolio-cli", MaxConns: 2})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.BootstrapSchema(ctx, pool); err != nil {
				return fmt.Errorf("bootstrap schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema applied.")
			if schemaOnly {
				return nil
			}

			if strings.TrimSpace(username) == "" || plain == "" {
				return fmt.Errorf("--username and --password are required unless --schema-only is set")
			}

			tenantStore, err := persistence.NewTenantStore(ctx, pool)
			if err != nil {
				return fmt.Errorf("init tenant store: %w", err)
			}
			principalStore, err := persistence.NewPrincipalStore(ctx, pool)
			if err != nil {
				return fmt.Errorf("init principal store: %w", err)
			}

			svc := principalsservice.New(
				principalsrepo.NewPostgresRepository(principalStore),
				tenantsrepo.NewPostgresRepository(tenantStore),
				password.NewHasher(bcryptCost),
			)

			admin, created, err := svc.EnsurePlatformAdmin(ctx, username, plain)
			if err != nil {
				return fmt.Errorf("seed platform admin: %w", err)
			}

			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Platform admin created: %s (%s)\n", admin.Username, admin.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Platform admin already present: %s (%s)\n", admin.Username, admin.ID)
			}
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&username, "username", "superadmin", "Platform admin username")
	c.Flags().StringVar(&plain, "password", "", "Platform admin password (used only when creating)")
	c.Flags().IntVar(&bcryptCost, "bcrypt-cost", 0, "bcrypt cost; 0 uses the library default")
	c.Flags().BoolVar(&schemaOnly, "schema-only", false, "Apply the DDL without seeding the platform admin")

	_ = c.MarkFlagRequired("database-url")

	return c
}
