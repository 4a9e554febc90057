package estate

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ActiveCollection returns the single collection that is flagged active and
// whose validity window contains now. gorm.ErrRecordNotFound means no
// campaign is currently running.
func ActiveCollection(tx *gorm.DB, now time.Time) (*EstateCollection, error) {
	var collection EstateCollection
	err := tx.Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, now, now).
		First(&collection).Error
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// ActiveCards returns the drawable card pool for a collection.
func ActiveCards(tx *gorm.DB, collectionID uint) ([]EstateCard, error) {
	var cards []EstateCard
	err := tx.Where("collection_id = ? AND active = ?", collectionID, true).
		Order("card_number asc").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cards for collection %d: %w", collectionID, err)
	}
	return cards, nil
}

// OwnsOriginal reports whether the profile already holds a non-duplicate
// copy of the card.
func OwnsOriginal(tx *gorm.DB, profileID, cardID uint) (bool, error) {
	var count int64
	err := tx.Model(&UserCard{}).
		Where("profile_id = ? AND card_id = ? AND is_duplicate = ?", profileID, cardID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DistinctCardCount counts the distinct non-duplicate cards the profile owns
// within a collection. Recomputed fresh on every reveal; the enclosing
// transaction makes the recomputation race-safe.
func DistinctCardCount(tx *gorm.DB, profileID, collectionID uint) (int64, error) {
	var count int64
	err := tx.Model(&UserCard{}).
		Joins("JOIN estate_cards ON estate_cards.id = user_cards.card_id").
		Where("user_cards.profile_id = ? AND user_cards.is_duplicate = ? AND estate_cards.collection_id = ?",
			profileID, false, collectionID).
		Distinct("user_cards.card_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct cards: %w", err)
	}
	return count, nil
}

// OwnedCards lists a profile's ledger entries for a collection, newest first.
func OwnedCards(tx *gorm.DB, profileID, collectionID uint) ([]UserCard, error) {
	var entries []UserCard
	err := tx.
		Joins("JOIN estate_cards ON estate_cards.id = user_cards.card_id").
		Where("user_cards.profile_id = ? AND estate_cards.collection_id = ?", profileID, collectionID).
		Order("user_cards.created_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
