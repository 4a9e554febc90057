package profile

import (
	"fmt"

	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// LeaderboardKey is a Redis Sorted Set mirroring member point balances.
// Score: points. Member: profile ID (decimal string).
const LeaderboardKey = "club:leaderboard"

// GetByID loads a profile through the given gorm handle (a transaction when
// called from an engine).
func GetByID(tx *gorm.DB, id uint) (*Profile, error) {
	var p Profile
	if err := tx.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByPhone loads a profile by its phone identity.
func GetByPhone(tx *gorm.DB, phone string) (*Profile, error) {
	var p Profile
	if err := tx.Where("phone = ?", phone).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreditPoints applies a point delta to a profile inside the caller's
// transaction. The balance is updated with a relative expression so two
// serialized transactions never lose an increment.
func CreditPoints(tx *gorm.DB, profileID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	result := tx.Model(&Profile{}).Where("id = ?", profileID).
		Update("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to credit %d points to profile %d: %w", delta, profileID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("profile %d not found for point credit", profileID)
	}
	return nil
}

// SuccessfulReferralCount returns how many referrals by this profile have
// qualified. Challenge weights read this live at draw time.
func SuccessfulReferralCount(tx *gorm.DB, profileID uint) (int64, error) {
	var count int64
	err := tx.Model(&Referral{}).
		Where("referrer_id = ? AND successful = ?", profileID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals for profile %d: %w", profileID, err)
	}
	return count, nil
}

// SyncLeaderboard mirrors a profile's balance into the Redis leaderboard.
// Best-effort: the SQLite balance is the source of truth and the full
// leaderboard is rebuilt from it whenever Redis restarts.
func SyncLeaderboard(profileID uint, points int) {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return
	}
	err := database.RDB.ZAdd(database.Ctx, LeaderboardKey, redis.Z{
		Score:  float64(points),
		Member: fmt.Sprintf("%d", profileID),
	}).Err()
	if err != nil {
		fmt.Printf("warning: leaderboard sync failed for profile %d: %v\n", profileID, err)
	}
}

// WarmupLeaderboard rebuilds the Redis leaderboard from SQLite.
func WarmupLeaderboard() error {
	var profiles []Profile
	if err := database.DB.Select("id", "points").Find(&profiles).Error; err != nil {
		return fmt.Errorf("failed to load profiles for leaderboard warmup: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, LeaderboardKey)
	for _, p := range profiles {
		pipe.ZAdd(database.Ctx, LeaderboardKey, redis.Z{
			Score:  float64(p.Points),
			Member: fmt.Sprintf("%d", p.ID),
		})
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("failed to warm up leaderboard: %w", err)
	}

	fmt.Printf("Leaderboard warmed up with %d profiles.\n", len(profiles))
	return nil
}

// TopBalances returns the highest point balances as (profileID, points)
// pairs straight from the leaderboard cache.
func TopBalances(limit int64) ([]redis.Z, error) {
	return database.RDB.ZRevRangeWithScores(database.Ctx, LeaderboardKey, 0, limit-1).Result()
}
