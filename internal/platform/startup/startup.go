package startup

import (
	"fmt"

	"github.com/melvinsclub/club-backend/internal/challenge"
	"github.com/melvinsclub/club-backend/internal/estate"
	"github.com/melvinsclub/club-backend/internal/packcode"
	"github.com/melvinsclub/club-backend/internal/profile"
)

// InitializeApplication migrates every domain and warms the Redis caches.
// Runs once at startup, after the database connections are established.
func InitializeApplication() error {
	fmt.Println("Starting application initialization...")

	if err := profile.PrimeCachedDB(); err != nil {
		return err
	}
	if err := packcode.PrimeCachedDB(); err != nil {
		return err
	}
	if err := estate.PrimeCachedDB(); err != nil {
		return err
	}
	if err := challenge.PrimeCachedDB(); err != nil {
		return err
	}

	fmt.Println("Application initialization complete.")
	return nil
}

// RebuildCache restores all Redis state from SQLite. Called by the health
// checker when it detects a Redis restart.
func RebuildCache() error {
	fmt.Println("Starting cache rebuild...")

	if err := profile.WarmupLeaderboard(); err != nil {
		return err
	}
	if err := packcode.RebuildScanCache(); err != nil {
		return err
	}

	fmt.Println("Cache rebuild complete.")
	return nil
}
