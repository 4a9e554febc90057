package challenge

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/profile"
	"github.com/melvinsclub/club-backend/pkg/sampler"
	"gorm.io/gorm"
)

// ErrChallengeNotEnded means a draw was requested before the challenge
// closed.
var ErrChallengeNotEnded = errors.New("challenge: draw requested before end date")

// InsufficientCandidatesError reports a draw that cannot fill every winner
// slot. The challenge stays drawable so the draw can rerun once more members
// qualify.
type InsufficientCandidatesError struct {
	Needed    int
	Available int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("challenge: not enough eligible participants, need %d, have %d", e.Needed, e.Available)
}

// SelectWinners runs the weighted draw for a closed challenge. The draw is
// idempotent: once winners are selected, re-invocations return the stored
// result and never reroll.
func SelectWinners(rng sampler.Source, challengeID uint) ([]ChallengeWinner, error) {
	var winners []ChallengeWinner

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var c Challenge
		if err := tx.First(&c, challengeID).Error; err != nil {
			return err
		}

		if c.Status == StatusWinnersSelected {
			return tx.Where("challenge_id = ?", c.ID).
				Order("position asc").Find(&winners).Error
		}
		if c.Status != StatusEnded {
			return ErrChallengeNotEnded
		}

		pool, err := EligibleProfiles(tx, &c)
		if err != nil {
			return err
		}
		if len(pool) < c.NumberOfWinners {
			return &InsufficientCandidatesError{Needed: c.NumberOfWinners, Available: len(pool)}
		}

		type candidate struct {
			profile   profile.Profile
			referrals int
			weight    float64
		}
		candidates := make([]candidate, 0, len(pool))
		for i := range pool {
			referrals, err := profile.SuccessfulReferralCount(tx, pool[i].ID)
			if err != nil {
				return err
			}
			candidates = append(candidates, candidate{
				profile:   pool[i],
				referrals: int(referrals),
				weight:    EntryWeight(&c, pool[i].Points, int(referrals)),
			})
		}

		// Heaviest first. The stable sort keeps the query order as the tie
		// break so equal weights draw deterministically for a fixed source.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].weight > candidates[j].weight
		})

		entries := make([]ChallengeEntry, 0, len(candidates))
		for _, cand := range candidates {
			entries = append(entries, ChallengeEntry{
				ChallengeID:      c.ID,
				ProfileID:        cand.profile.ID,
				EntryWeight:      cand.weight,
				PointsAtEntry:    cand.profile.Points,
				ReferralsAtEntry: cand.referrals,
			})
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("failed to snapshot entries: %w", err)
			}
		}

		weights := make([]float64, len(candidates))
		for i := range candidates {
			weights[i] = candidates[i].weight
		}
		picked, err := sampler.WithoutReplacement(rng, weights, c.NumberOfWinners)
		if err != nil {
			return fmt.Errorf("winner draw failed: %w", err)
		}

		now := time.Now()
		for position, index := range picked {
			winner := ChallengeWinner{
				ChallengeID:  c.ID,
				ProfileID:    candidates[index].profile.ID,
				Position:     position + 1,
				EntryWeight:  candidates[index].weight,
				TotalEntries: len(candidates),
			}
			if err := tx.Create(&winner).Error; err != nil {
				return fmt.Errorf("failed to record winner: %w", err)
			}
			winners = append(winners, winner)
		}

		return tx.Model(&c).Updates(map[string]interface{}{
			"status":              StatusWinnersSelected,
			"winners_selected_at": &now,
			"total_entries":       len(candidates),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return winners, nil
}

// Winners returns the stored draw result in position order.
func Winners(tx *gorm.DB, challengeID uint) ([]ChallengeWinner, error) {
	var winners []ChallengeWinner
	err := tx.Where("challenge_id = ?", challengeID).
		Order("position asc").Find(&winners).Error
	if err != nil {
		return nil, err
	}
	return winners, nil
}

// AdvanceStatuses moves challenges through their date-driven lifecycle:
// upcoming challenges activate at their start date, active ones end at their
// end date. Returns the IDs that just ended so the caller can draw them.
func AdvanceStatuses(now time.Time) ([]uint, error) {
	err := database.DB.Model(&Challenge{}).
		Where("status = ? AND active = ? AND start_date <= ? AND end_date >= ?",
			StatusUpcoming, true, now, now).
		Update("status", StatusActive).Error
	if err != nil {
		return nil, fmt.Errorf("failed to activate challenges: %w", err)
	}

	var ending []Challenge
	err = database.DB.Where("status = ? AND end_date < ?", StatusActive, now).
		Find(&ending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load ending challenges: %w", err)
	}

	ended := make([]uint, 0, len(ending))
	for _, c := range ending {
		err := database.DB.Model(&Challenge{}).Where("id = ?", c.ID).
			Update("status", StatusEnded).Error
		if err != nil {
			return nil, fmt.Errorf("failed to end challenge %d: %w", c.ID, err)
		}
		ended = append(ended, c.ID)
	}
	return ended, nil
}

// PendingDraws lists every ended challenge still waiting for a successful
// draw.
func PendingDraws() ([]uint, error) {
	var ids []uint
	err := database.DB.Model(&Challenge{}).Where("status = ?", StatusEnded).
		Order("id asc").Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
