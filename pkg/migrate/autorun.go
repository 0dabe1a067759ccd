package migrate

import (
	"context"
	"fmt"

	"github.com/aminzare2005/vlonefarsi/pkg/config"
	"github.com/aminzare2005/vlonefarsi/pkg/db"
)

// MaybeRunDev applies pending migrations on boot when running in dev with the
// auto-migrate flag on. Production deploys run the migrate binary explicitly.
func MaybeRunDev(ctx context.Context, cfg *config.Config, client *db.Client) (bool, error) {
	if cfg == nil || client == nil {
		return false, nil
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return false, nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return false, fmt.Errorf("migrate: acquiring sql.DB: %w", err)
	}
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return false, err
	}
	return true, nil
}
