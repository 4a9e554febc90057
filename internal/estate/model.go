package estate

import (
	"time"

	"gorm.io/gorm"
)

// TeaEstate is a real tea-growing region featured on collectible cards.
type TeaEstate struct {
	gorm.Model

	Name          string `gorm:"uniqueIndex" json:"name"`
	Region        string `gorm:"index" json:"region"`
	Description   string `json:"description"`
	Elevation     string `json:"elevation"`
	TastingNotes  string `json:"tasting_notes"`
	BrewingTips   string `json:"brewing_tips"`
	HarvestSeason string `json:"harvest_season"`
	Active        bool   `json:"active"`
}

// EstateCollection is a themed card campaign with a validity window. At most
// one collection is active at a time; Activate performs the transactional
// swap that maintains the invariant.
type EstateCollection struct {
	gorm.Model

	Name        string    `json:"name"`
	Theme       string    `json:"theme"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `gorm:"index" json:"is_active"`

	// CompletionRewardPoints is paid once when a member owns every card.
	CompletionRewardPoints int `json:"completion_reward_points"`

	// TotalCards is the number of distinct cards a member must own to
	// complete the collection.
	TotalCards int `json:"total_cards"`
}

// Rarity tiers for estate cards.
const (
	RarityCommon   = "common"
	RarityUncommon = "uncommon"
	RarityRare     = "rare"
)

// EstateCard is one collectible card inside a collection.
type EstateCard struct {
	gorm.Model

	EstateID     uint   `gorm:"index" json:"estate_id"`
	CollectionID uint   `gorm:"index;uniqueIndex:idx_collection_card_number" json:"collection_id"`
	Rarity       string `json:"rarity"`

	// CardNumber is the card's position in the collection (1 of 12).
	CardNumber int `gorm:"uniqueIndex:idx_collection_card_number" json:"card_number"`

	Title      string `json:"title"`
	FlavorText string `json:"flavor_text"`

	// DropMultiplier skews this card's frequency within its rarity tier
	// without changing the tier's aggregate share.
	DropMultiplier float64 `gorm:"default:1" json:"drop_multiplier"`

	// RewardPoints is credited when a member first obtains this card.
	RewardPoints int `gorm:"default:10" json:"reward_points"`

	Active bool `json:"active"`
}

// UserCard is one ledger entry of a member obtaining a card. Duplicates are
// recorded as separate rows, never merged.
type UserCard struct {
	gorm.Model

	ProfileID uint  `gorm:"index" json:"profile_id"`
	CardID    uint  `gorm:"index" json:"card_id"`
	ScanID    *uint `json:"scan_id"`

	// IsDuplicate marks reveals of a card the member already owned.
	IsDuplicate bool `json:"is_duplicate"`

	// IsNew is cleared once the member has viewed the card.
	IsNew bool `json:"is_new"`
}

// CollectionCompletion records the one-time completion bonus per
// (profile, collection). The unique index is what makes the award idempotent
// under concurrent reveals.
type CollectionCompletion struct {
	gorm.Model

	ProfileID    uint `gorm:"uniqueIndex:idx_profile_collection" json:"profile_id"`
	CollectionID uint `gorm:"uniqueIndex:idx_profile_collection" json:"collection_id"`

	PointsAwarded   int        `json:"points_awarded"`
	RewardClaimedAt *time.Time `json:"reward_claimed_at"`
}

// CardGift lets a member share a card with a friend via a unique token.
type CardGift struct {
	gorm.Model

	SenderID   uint   `gorm:"index" json:"sender_id"`
	ReceiverID *uint  `json:"receiver_id"`
	CardID     uint   `json:"card_id"`
	Token      string `gorm:"uniqueIndex;type:varchar(40)" json:"token"`

	IsClaimed bool       `json:"is_claimed"`
	ClaimedAt *time.Time `json:"claimed_at"`
}
