package challenge

import (
	"fmt"

	"github.com/melvinsclub/club-backend/internal/platform/database"
)

// PrimeCachedDB migrates the challenge tables.
func PrimeCachedDB() error {
	err := database.DB.AutoMigrate(&Challenge{}, &ChallengeWinner{}, &ChallengeEntry{})
	if err != nil {
		return fmt.Errorf("failed to migrate challenge tables: %w", err)
	}
	return nil
}
