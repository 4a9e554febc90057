package packcode

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// ScanCompensator wraps the rollback for one scan-counter increment. Deferred
// by the redeem flow so a failed SQLite transaction undoes the Redis count.
type ScanCompensator struct {
	profileID uint
	member    string
	committed bool
}

const scanKeyPrefix = "club:scans:"

// Scan-rate tuning. Overridable through config; applied by ConfigureModule.
var (
	maxScansPerWindow int64 = 10
	scanWindow              = 24 * time.Hour
)

// scanKeyTTL keeps keys slightly past the window as a buffer.
func scanKeyTTL() time.Duration { return scanWindow + time.Hour }

// ErrScanLimitReached means the profile hit its scan quota for the window.
var ErrScanLimitReached = errors.New("packcode: scan limit reached for this window")

// The write lock is only taken by the cache rebuild; increments run
// concurrently under the read lock.
var scanMutex sync.RWMutex

func scanKey(profileID uint) string {
	return fmt.Sprintf("%s%d", scanKeyPrefix, profileID)
}

func deleteKeysByPrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	var cursor uint64
	matchPattern := prefix + "*"
	const batchSize = 500

	for {
		keys, nextCursor, err := rdb.Scan(ctx, cursor, matchPattern, batchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return nil
}

// generateUniqueID builds a 16-byte collision-resistant member ID:
// [ 8-byte nanosecond timestamp (big endian) | 8 random bytes ].
func generateUniqueID(t time.Time) (string, error) {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], uint64(t.UnixNano()))
	if _, err := rand.Read(b[8:16]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// RebuildScanCache restores the per-profile scan counters from SQLite. Also
// runs at startup and whenever Redis comes back after a restart.
func RebuildScanCache() error {
	fmt.Println("Rebuilding scan-rate cache from SQLite...")

	scanMutex.Lock()
	defer scanMutex.Unlock()

	var recentScans []Scan
	beginTime := time.Now().Add(-scanWindow)
	err := database.DB.Model(&Scan{}).Where("created_at > ?", beginTime).
		Select("profile_id", "created_at").Find(&recentScans).Error
	if err != nil {
		return fmt.Errorf("failed to read recent scans from SQLite: %w", err)
	}

	if len(recentScans) == 0 {
		fmt.Println("Scan-rate limit: no recent scans to restore.")
		return nil
	}

	scanMap := make(map[string][]redis.Z)
	for _, s := range recentScans {
		key := scanKey(s.ProfileID)
		memberID, err := generateUniqueID(s.CreatedAt)
		if err != nil {
			fmt.Printf("failed to generate member ID: %v\n", err)
			continue
		}
		scanMap[key] = append(scanMap[key], redis.Z{
			Score:  float64(s.CreatedAt.UnixMicro()),
			Member: memberID,
		})
	}

	if err := deleteKeysByPrefix(database.Ctx, database.RDB, scanKeyPrefix); err != nil {
		return fmt.Errorf("failed to delete stale scan keys: %w", err)
	}

	pipe := database.RDB.Pipeline()
	for key, members := range scanMap {
		pipe.ZAdd(database.Ctx, key, members...)
		pipe.Expire(database.Ctx, key, scanKeyTTL())
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("failed to write scan counters back to Redis: %w", err)
	}

	fmt.Printf("Scan-rate limit: restored counters for %d profiles.\n", len(scanMap))
	return nil
}

// IncrementScanCount atomically records one scan attempt for a profile and
// returns the count inside the sliding window plus a compensator handle. The
// handle is nil when an error is returned.
func IncrementScanCount(profileID uint, scanTime time.Time) (int64, *ScanCompensator, error) {
	key := scanKey(profileID)
	minTimestamp := float64(scanTime.Add(-scanWindow).UnixMicro())

	scoreTime := float64(scanTime.UnixMicro())
	memberID, err := generateUniqueID(scanTime)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to generate member ID: %w", err)
	}

	// The read lock is held until the compensator resolves so a cache
	// rebuild cannot interleave with an in-flight redemption.
	scanMutex.RLock()

	if !database.IsRedisHealthy() {
		scanMutex.RUnlock()
		return 0, nil, errors.New("service temporarily unavailable, cannot check scan rate")
	}

	pipe := database.RDB.TxPipeline()
	pipe.ZRemRangeByScore(database.Ctx, key, "-inf", fmt.Sprintf("(%f", minTimestamp))
	pipe.ZAdd(database.Ctx, key, redis.Z{Score: scoreTime, Member: memberID})
	pipe.Expire(database.Ctx, key, scanKeyTTL())
	countCmd := pipe.ZCard(database.Ctx, key)

	if _, err := pipe.Exec(database.Ctx); err != nil {
		scanMutex.RUnlock()
		return 0, nil, fmt.Errorf("failed to execute scan-count transaction: %w", err)
	}

	count, err := countCmd.Result()
	if err != nil {
		database.RDB.ZRem(database.Ctx, key, memberID)
		scanMutex.RUnlock()
		return 0, nil, fmt.Errorf("failed to read scan-count result: %w", err)
	}

	return count, &ScanCompensator{profileID: profileID, member: memberID}, nil
}

// Commit marks the enclosing business transaction as successful, blocking the
// deferred rollback.
func (c *ScanCompensator) Commit() {
	c.committed = true
}

// RollbackUnlessCommitted reverses the counter increment if Commit was never
// called. Intended for defer.
func (c *ScanCompensator) RollbackUnlessCommitted() {
	defer scanMutex.RUnlock()

	if c.committed {
		return
	}

	if !database.IsRedisHealthy() {
		fmt.Printf("warning: Redis unhealthy during scan-count compensation. Profile: %d, Member: %s\n", c.profileID, c.member)
	}

	err := database.RDB.ZRem(database.Ctx, scanKey(c.profileID), c.member).Err()
	if err != nil {
		fmt.Printf("warning: scan-count compensation failed! Profile: %d, Member: %s, error: %v\n", c.profileID, c.member, err)
	}
}
