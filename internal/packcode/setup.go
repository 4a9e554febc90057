package packcode

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/melvinsclub/club-backend/internal/platform/config"
	"github.com/melvinsclub/club-backend/internal/platform/database"
)

// PrimeCachedDB migrates the pack-code tables, applies scan-rate tuning and
// rebuilds the Redis counters from SQLite.
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	ConfigureModule(config.Cfg.Club.Scans)
	return RebuildScanCache()
}

// ConfigureModule applies scan-rate tuning from the loaded configuration.
func ConfigureModule(cfg config.ScanConfig) {
	if cfg.MaxPerWindow > 0 {
		maxScansPerWindow = int64(cfg.MaxPerWindow)
	}
	if cfg.WindowHours > 0 {
		scanWindow = time.Duration(cfg.WindowHours) * time.Hour
	}
}

func migrateDB() error {
	if err := database.DB.AutoMigrate(&PackCode{}, &Scan{}); err != nil {
		return fmt.Errorf("failed to migrate pack code tables: %w", err)
	}
	return nil
}

// GenerateCodes mints a batch of unused pack codes.
func GenerateCodes(count, points int, sku string) ([]PackCode, error) {
	codes := make([]PackCode, 0, count)
	for i := 0; i < count; i++ {
		u := uuid.New()
		codes = append(codes, PackCode{
			Code:   fmt.Sprintf("%x", u[:]),
			SKU:    sku,
			Points: points,
		})
	}
	if err := database.DB.Create(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to create pack codes: %w", err)
	}
	return codes, nil
}
