package database

import (
	"fmt"
	"sync"
)

// statusManager tracks Redis availability for the rest of the application.
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
	lastKnownRunID string
}

var globalStatus = &statusManager{
	isRedisHealthy: true,
}

// IsRedisHealthy reports whether Redis is currently considered available.
// Callers that mirror state into Redis (leaderboard, scan limiter) consult
// this before touching the cache.
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// SetInitialRunID records the Redis run_id observed at startup.
func SetInitialRunID(runID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.lastKnownRunID = runID
}

// UpdateStatus updates the health flag, logging only on transitions. The
// known run_id advances only while healthy, so a restart is still detected
// after an outage.
func UpdateStatus(isHealthy bool, newRunID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			fmt.Println("health: Redis marked [available]")
		} else {
			fmt.Println("health warning: Redis marked [unavailable]")
		}
	}

	if isHealthy {
		globalStatus.lastKnownRunID = newRunID
	}
}

// GetLastKnownRunID returns the last run_id observed while healthy.
func GetLastKnownRunID() string {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.lastKnownRunID
}
