package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/platform/startup"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// getRedisRunID extracts the server run_id from Redis INFO. A changed run_id
// means the server restarted and lost the caches.
func getRedisRunID() (string, error) {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	info, err := database.RDB.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("run_id not found in Redis INFO")
	}
	return matches[1], nil
}

// InitializeRunID runs once at startup to capture the initial run_id.
func InitializeRunID() {
	fmt.Println("Fetching initial Redis run ID...")
	runID, err := getRedisRunID()
	if err != nil {
		panic(fmt.Sprintf("cannot fetch Redis run ID at startup, check the Redis service: %v", err))
	}
	database.SetInitialRunID(runID)
	fmt.Printf("Initial Redis run ID: %s\n", runID)
}

// triggerAtomicRebuild performs one self-verifying cache rebuild. The rebuild
// only counts if Redis did not restart again while it ran.
func triggerAtomicRebuild(idBeforeRebuild string) bool {
	fmt.Println("Health check: triggering cache rebuild...")
	if err := startup.RebuildCache(); err != nil {
		fmt.Printf("health check error: cache rebuild failed: %v\n", err)
		return false
	}

	idAfterRebuild, err := getRedisRunID()
	if err != nil {
		fmt.Println("health check error: Redis unreachable after rebuild, rebuild void.")
		return false
	}
	if idBeforeRebuild != idAfterRebuild {
		fmt.Printf("health check error: Redis restarted during rebuild (run_id: %s -> %s), rebuild void.\n", idBeforeRebuild, idAfterRebuild)
		return false
	}

	fmt.Println("Health check: cache rebuild succeeded and passed the atomicity check.")
	return true
}

// PerformCheck runs one full health check plus any needed repair.
func PerformCheck() {
	currentRunID, err := getRedisRunID()
	if err != nil {
		database.UpdateStatus(false, "")
		return
	}

	lastKnownRunID := database.GetLastKnownRunID()

	if currentRunID != lastKnownRunID {
		// A restarted Redis dropped the leaderboard and scan counters.
		if triggerAtomicRebuild(currentRunID) {
			database.UpdateStatus(true, currentRunID)
		} else {
			database.UpdateStatus(false, "")
		}
	} else {
		database.UpdateStatus(true, currentRunID)
	}
}

// StartRedisHealthCheck loops the health check in the calling goroutine.
func StartRedisHealthCheck() {
	fmt.Println("Redis health checker started.")
	timer := time.NewTimer(checkInterval)
	defer timer.Stop()

	for {
		<-timer.C
		PerformCheck()
		timer.Reset(checkInterval)
	}
}
