// Command seed installs the first admin account and a sample site. Running it
// again changes nothing that already exists.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/config"
	"github.com/lexpage/landing-service/internal/observability"
	"github.com/lexpage/landing-service/internal/persistence"
	"github.com/lexpage/landing-service/internal/repository"
	"github.com/lexpage/landing-service/internal/service"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		siteID        string
		skipMigrate   bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin and sample site content",
		Long: `Creates the admin account from ADMIN_EMAIL/ADMIN_PASSWORD and the sample
content for DEFAULT_SITE_ID. Flags override the environment.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("admin-email") {
				cfg.Seed.AdminEmail = adminEmail
			}
			if cmd.Flags().Changed("admin-password") {
				cfg.Seed.AdminPassword = adminPassword
			}
			if cmd.Flags().Changed("site-id") {
				cfg.Seed.DefaultSiteID = siteID
			}
			if skipMigrate {
				cfg.Postgres.RunMigrations = false
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			return runSeed(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "admin email (default $ADMIN_EMAIL)")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "admin password (default $ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&siteID, "site-id", "", "site to create sample content for (default $DEFAULT_SITE_ID)")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrations", false, "do not apply SQL migrations first")
	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	store, mongo, err := persistence.OpenContentStore(ctx, cfg, pg.Pool, logger)
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	if mongo != nil {
		defer mongo.Close(context.Background())
	}

	contentService := service.NewContentService(service.ContentDependencies{Store: store, Logger: logger})
	seeder := service.NewSeedService(
		repository.NewUserRepository(pg.Pool),
		contentService,
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		logger,
	)

	report, err := seeder.Seed(ctx, service.SeedInput{
		AdminEmail:    cfg.Seed.AdminEmail,
		AdminPassword: cfg.Seed.AdminPassword,
		SiteID:        cfg.Seed.DefaultSiteID,
	})
	if err != nil {
		return err
	}
	logger.Info("seed complete",
		zap.Bool("admin_created", report.AdminCreated),
		zap.Bool("admin_skipped", report.AdminSkipped),
		zap.Bool("content_created", report.ContentCreated))
	return nil
}
