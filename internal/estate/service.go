package estate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/profile"
	"github.com/melvinsclub/club-backend/pkg/sampler"
	"gorm.io/gorm"
)

var (
	// ErrNoActiveCollection means no campaign is currently running. The scan
	// flow treats it as "no reveal this time", not a failure.
	ErrNoActiveCollection = errors.New("estate: no active collection")

	// ErrEmptyCardPool means the active collection has no drawable cards.
	ErrEmptyCardPool = errors.New("estate: active collection has no cards")

	// ErrGiftAlreadyClaimed means the gift token was used before.
	ErrGiftAlreadyClaimed = errors.New("estate: gift already claimed")
)

// RevealOutcome describes one completed card reveal.
type RevealOutcome struct {
	Card                EstateCard
	Collection          EstateCollection
	IsDuplicate         bool
	PointsAwarded       int
	MilestoneReached    bool
	CollectionCompleted bool
}

// RevealCard draws one card from the active collection's pool for the
// profile and applies the reward ledger: the card entry itself, the card or
// duplicate points, the 3-unique-cards milestone, and the one-time
// collection-completion bonus. Everything, including the point credit, is
// committed in a single transaction.
func RevealCard(rng sampler.Source, profileID uint, scanID *uint) (*RevealOutcome, error) {
	var outcome *RevealOutcome

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		collection, err := ActiveCollection(tx, time.Now())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveCollection
			}
			return fmt.Errorf("failed to look up active collection: %w", err)
		}

		cards, err := ActiveCards(tx, collection.ID)
		if err != nil {
			return err
		}
		if len(cards) == 0 {
			return ErrEmptyCardPool
		}

		weights := make([]float64, len(cards))
		for i := range cards {
			weights[i] = EffectiveWeight(&cards[i])
		}
		index, err := sampler.One(rng, weights)
		if err != nil {
			return fmt.Errorf("card draw failed: %w", err)
		}
		selected := cards[index]

		isDuplicate, err := OwnsOriginal(tx, profileID, selected.ID)
		if err != nil {
			return fmt.Errorf("failed to check for duplicate: %w", err)
		}

		entry := UserCard{
			ProfileID:   profileID,
			CardID:      selected.ID,
			ScanID:      scanID,
			IsDuplicate: isDuplicate,
			IsNew:       true,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record revealed card: %w", err)
		}

		points := 0
		if isDuplicate {
			points += duplicateBonusPoints
		} else {
			points += selected.RewardPoints
		}

		out := RevealOutcome{
			Card:        selected,
			Collection:  *collection,
			IsDuplicate: isDuplicate,
		}

		// Milestones only move when a new unique card arrives.
		if !isDuplicate {
			uniqueCount, err := DistinctCardCount(tx, profileID, collection.ID)
			if err != nil {
				return err
			}

			if uniqueCount == int64(milestoneCardCount) {
				points += milestoneBonusPoints
				out.MilestoneReached = true
			}

			if uniqueCount >= int64(collection.TotalCards) {
				awarded, err := awardCompletion(tx, profileID, collection)
				if err != nil {
					return err
				}
				if awarded {
					points += collection.CompletionRewardPoints
					out.CollectionCompleted = true
				}
			}
		}

		if err := profile.CreditPoints(tx, profileID, points); err != nil {
			return err
		}
		out.PointsAwarded = points
		outcome = &out
		return nil
	})
	if err != nil {
		return nil, err
	}

	syncBalance(profileID)
	return outcome, nil
}

// awardCompletion inserts the completion ledger row for (profile,
// collection). The unique index on the pair makes the bonus one-time even
// when two reveals race: the loser sees a duplicated-key error and awards
// nothing.
func awardCompletion(tx *gorm.DB, profileID uint, collection *EstateCollection) (bool, error) {
	var existing CollectionCompletion
	err := tx.Where("profile_id = ? AND collection_id = ?", profileID, collection.ID).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check completion ledger: %w", err)
	}

	now := time.Now()
	completion := CollectionCompletion{
		ProfileID:       profileID,
		CollectionID:    collection.ID,
		PointsAwarded:   collection.CompletionRewardPoints,
		RewardClaimedAt: &now,
	}
	if err := tx.Create(&completion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record completion: %w", err)
	}
	return true, nil
}

// ActivateCollection flags one collection active and deactivates all others
// in the same transaction, keeping the single-active-campaign invariant.
func ActivateCollection(collectionID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&EstateCollection{}).Where("id = ?", collectionID).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&EstateCollection{}).Where("id <> ?", collectionID).
			Update("is_active", false).Error
	})
}

// CreateGift issues a share token for a card the sender actually owns.
func CreateGift(senderID, cardID uint) (*CardGift, error) {
	var gift *CardGift
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		owns, err := OwnsOriginal(tx, senderID, cardID)
		if err != nil {
			return err
		}
		if !owns {
			return gorm.ErrRecordNotFound
		}

		u := uuid.New()
		g := CardGift{
			SenderID: senderID,
			CardID:   cardID,
			Token:    fmt.Sprintf("%x", u[:]),
		}
		if err := tx.Create(&g).Error; err != nil {
			return fmt.Errorf("failed to create gift: %w", err)
		}
		gift = &g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gift, nil
}

// ClaimGift adds the gifted card to the claimant's ledger. Claiming a card
// the claimant already owns records a duplicate entry, same as a reveal.
func ClaimGift(token string, profileID uint) (*UserCard, error) {
	var claimed *UserCard
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var gift CardGift
		if err := tx.Where("token = ?", token).First(&gift).Error; err != nil {
			return err
		}
		if gift.IsClaimed {
			return ErrGiftAlreadyClaimed
		}

		isDuplicate, err := OwnsOriginal(tx, profileID, gift.CardID)
		if err != nil {
			return err
		}
		entry := UserCard{
			ProfileID:   profileID,
			CardID:      gift.CardID,
			IsDuplicate: isDuplicate,
			IsNew:       true,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record gifted card: %w", err)
		}

		now := time.Now()
		gift.ReceiverID = &profileID
		gift.IsClaimed = true
		gift.ClaimedAt = &now
		if err := tx.Save(&gift).Error; err != nil {
			return fmt.Errorf("failed to mark gift claimed: %w", err)
		}

		claimed = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// syncBalance refreshes the Redis leaderboard after a committed credit.
func syncBalance(profileID uint) {
	p, err := profile.GetByID(database.DB, profileID)
	if err != nil {
		return
	}
	profile.SyncLeaderboard(p.ID, p.Points)
}
