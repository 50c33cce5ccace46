package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/cartquote-backend/pkg/config"
	"github.com/angelmondragon/cartquote-backend/pkg/db"
	"github.com/angelmondragon/cartquote-backend/pkg/db/models"
	"github.com/angelmondragon/cartquote-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date when running in dev with the
// auto-migrate flag on. Postgres goes through goose; SQLite is migrated from the
// GORM models since the SQL files target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "running GORM auto-migration (sqlite)")
		if err := AutoMigrateModels(client); err != nil {
			return err
		}
		logg.Info(ctx, "GORM auto-migration completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "dir", DefaultDir)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates the cart tables from the GORM models.
func AutoMigrateModels(client *db.Client) error {
	if err := client.DB().AutoMigrate(&models.Cart{}, &models.CartItem{}, &models.AppliedPromotion{}); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}
