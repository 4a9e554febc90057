package packcode

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/melvinsclub/club-backend/internal/estate"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/profile"
	"github.com/melvinsclub/club-backend/pkg/sampler"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCode means the code does not exist.
	ErrInvalidCode = errors.New("packcode: invalid code")

	// ErrCodeAlreadyUsed means someone redeemed the code first.
	ErrCodeAlreadyUsed = errors.New("packcode: code already used")
)

// RedeemResult is the outcome of one scan: the credited points plus the card
// reveal, when a collection campaign is running.
type RedeemResult struct {
	Scan          Scan
	PointsAwarded int

	// Reveal is nil when no campaign is active or the pool is empty. A scan
	// without a card is still a valid scan.
	Reveal *estate.RevealOutcome
}

// globalSource adapts the shared math/rand/v2 generator, which is safe for
// concurrent redemptions.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }
func (globalSource) IntN(n int) int   { return rand.IntN(n) }

// Redeem processes one QR scan end to end: rate limit, one-time code
// redemption, point credit, referral qualification on the first scan, then
// the card reveal. The Redis counter increment is compensated if the SQLite
// transaction fails.
func Redeem(profileID uint, code string) (*RedeemResult, error) {
	now := time.Now()

	count, compensator, err := IncrementScanCount(profileID, now)
	if err != nil {
		return nil, err
	}
	defer compensator.RollbackUnlessCommitted()

	if count > maxScansPerWindow {
		return nil, ErrScanLimitReached
	}

	result, err := redeemCode(globalSource{}, profileID, code, now)
	if err != nil {
		return nil, err
	}
	compensator.Commit()
	return result, nil
}

// redeemCode is the SQLite half of the redemption: mark the code used, record
// the scan, credit points, qualify the referral, then reveal a card.
func redeemCode(rng sampler.Source, profileID uint, code string, now time.Time) (*RedeemResult, error) {
	result := RedeemResult{}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var pc PackCode
		if err := tx.Where("code = ?", code).First(&pc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidCode
			}
			return fmt.Errorf("failed to look up pack code: %w", err)
		}
		if pc.Used {
			return ErrCodeAlreadyUsed
		}

		pc.Used = true
		pc.UsedByID = &profileID
		pc.UsedAt = &now
		if err := tx.Save(&pc).Error; err != nil {
			return fmt.Errorf("failed to mark code used: %w", err)
		}

		scan := Scan{
			ProfileID:     profileID,
			PackCodeID:    pc.ID,
			PointsAwarded: pc.Points,
		}
		if err := tx.Create(&scan).Error; err != nil {
			return fmt.Errorf("failed to record scan: %w", err)
		}

		if err := profile.CreditPoints(tx, profileID, pc.Points); err != nil {
			return err
		}

		var totalScans int64
		if err := tx.Model(&Scan{}).Where("profile_id = ?", profileID).Count(&totalScans).Error; err != nil {
			return fmt.Errorf("failed to count scans: %w", err)
		}
		// The referrer's reward qualifies on the referred member's first
		// scan.
		if totalScans == 1 {
			if err := profile.QualifyReferral(tx, profileID); err != nil {
				return err
			}
		}

		result.Scan = scan
		result.PointsAwarded = pc.Points
		return nil
	})
	if err != nil {
		return nil, err
	}

	syncBalance(profileID)

	// The reveal runs in its own transaction after the scan has committed. A
	// scan without a card is still a valid scan, so reveal problems never
	// fail the redemption.
	reveal, err := estate.RevealCard(rng, profileID, &result.Scan.ID)
	if err != nil {
		if !errors.Is(err, estate.ErrNoActiveCollection) && !errors.Is(err, estate.ErrEmptyCardPool) {
			fmt.Printf("warning: card reveal failed for scan %d: %v\n", result.Scan.ID, err)
		}
		return &result, nil
	}
	result.Reveal = reveal
	result.PointsAwarded += reveal.PointsAwarded
	return &result, nil
}

func syncBalance(profileID uint) {
	p, err := profile.GetByID(database.DB, profileID)
	if err != nil {
		return
	}
	profile.SyncLeaderboard(p.ID, p.Points)
}
