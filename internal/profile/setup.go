package profile

import (
	"fmt"

	"github.com/melvinsclub/club-backend/internal/platform/database"
)

// PrimeCachedDB migrates the profile tables and warms the leaderboard cache.
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	return WarmupLeaderboard()
}

func migrateDB() error {
	if err := database.DB.AutoMigrate(&Profile{}, &Referral{}); err != nil {
		return fmt.Errorf("failed to migrate profile tables: %w", err)
	}
	fmt.Println("Profile tables migrated.")
	return nil
}
