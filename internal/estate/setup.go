package estate

import (
	"fmt"

	"github.com/melvinsclub/club-backend/internal/platform/config"
	"github.com/melvinsclub/club-backend/internal/platform/database"
)

// PrimeCachedDB migrates the estate tables and applies card tuning from the
// loaded configuration.
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	ConfigureModule(config.Cfg.Club.Cards)
	return nil
}

func migrateDB() error {
	err := database.DB.AutoMigrate(
		&TeaEstate{},
		&EstateCollection{},
		&EstateCard{},
		&UserCard{},
		&CollectionCompletion{},
		&CardGift{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate estate tables: %w", err)
	}
	return nil
}
