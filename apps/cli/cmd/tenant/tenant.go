package tenantcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	principalsrepo "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/repo"
	principalsservice "github.com/zenGate-Global/portfolio-pro-saas/domains/principals/be/service"
	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/provisioning"
	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/repo"
	"github.com/zenGate-Global/portfolio-pro-saas/domains/tenants/be/service"
	platformlogging "github.com/zenGate-Global/portfolio-pro-saas/platform/go/logging"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/password"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/persistence"
	"github.com/zenGate-Global/portfolio-pro-saas/platform/go/storage"
)

// Command groups tenant-related helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Tenant utilities (create)",
	}

	cmd.AddCommand(createCommand())
	return cmd
}

func createCommand() *cobra.Command {
	var (
		databaseURL   string
		envKey        string
		companyName   string
		slug          string
		adminName     string
		adminEmail    string
		adminPassword string
		localDir      string
		logLevel      string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant together with its first tenant admin",
		Long: "Creates an ACTIVE tenant and its first TENANT_ADMIN. When the admin cannot be created " +
			"the tenant is left INACTIVE. With --storage-local-dir the tenant asset prefix is prepared on disk.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			logger, err := platformlogging.NewLogger(platformlogging.Config{
				Component: "cli",
				Level:     logLevel,
				Console:   true,
				Output:    cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

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

			tenantRepo := repo.NewPostgresRepository(tenantStore)
			principals := principalsservice.New(
				principalsrepo.NewPostgresRepository(principalStore),
				tenantRepo,
				password.NewHasher(0),
			)

			var deps service.ProvisioningDeps
			if strings.TrimSpace(localDir) != "" {
				deps.Storage = provisioning.NewStorageProvisioner(storage.NewLocalStore(localDir, ""))
			}

			svc := service.New(tenantRepo, principalsservice.NewAdminProvisioner(principals), envKey, deps, logger)

			client, err := svc.CreateClient(ctx, service.CreateClientInput{
				CompanyName:   companyName,
				Slug:          slug,
				AdminName:     adminName,
				AdminEmail:    adminEmail,
				AdminPassword: adminPassword,
			})
			if err != nil {
				return fmt.Errorf("create tenant: %w", err)
			}

			logger.Info("tenant created",
				zap.String("tenant_id", client.Tenant.ID.String()),
				zap.String("admin_id", client.Admin.ID.String()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Tenant created: %s (%s) | Admin: %s (%s)\n",
				client.Tenant.Slug, client.Tenant.ID, client.Admin.Username, client.Admin.ID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string")
	c.Flags().StringVar(&envKey, "env-key", "dev", "Environment key prefix (e.g. dev, stg, prod)")
	c.Flags().StringVar(&companyName, "company-name", "", "Tenant company name")
	c.Flags().StringVar(&slug, "slug", "", "Public tenant slug")
	c.Flags().StringVar(&adminName, "admin-name", "", "Tenant admin display name")
	c.Flags().StringVar(&adminEmail, "admin-email", "", "Tenant admin email; also the login username")
	c.Flags().StringVar(&adminPassword, "admin-password", "", "Tenant admin password")
	c.Flags().StringVar(&localDir, "storage-local-dir", "", "Prepare the tenant asset prefix below this directory")
	c.Flags().StringVar(&logLevel, "log-level", "warn", "Log level")

	for _, name := range []string{"database-url", "company-name", "slug", "admin-name", "admin-email", "admin-password"} {
		_ = c.MarkFlagRequired(name)
	}

	return c
}
