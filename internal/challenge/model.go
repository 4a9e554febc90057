package challenge

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Challenge lifecycle states.
const (
	StatusUpcoming        = "upcoming"
	StatusActive          = "active"
	StatusEnded           = "ended"
	StatusWinnersSelected = "winners_selected"
)

// Challenge frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyOneTime = "one_time"
)

// Challenge is a prize competition with a weighted draw at the end.
type Challenge struct {
	gorm.Model

	Title       string `json:"title"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	NumberOfWinners   int    `gorm:"default:1" json:"number_of_winners"`
	RewardType        string `gorm:"default:points" json:"reward_type"`
	RewardValue       string `json:"reward_value"`
	RewardDescription string `json:"reward_description"`

	// PointsWeight and ReferralsWeight tune how much balance and referrals
	// tilt a member's odds.
	PointsWeight    float64 `gorm:"default:1" json:"points_weight"`
	ReferralsWeight float64 `gorm:"default:1" json:"referrals_weight"`

	MinPointsRequired int `json:"min_points_required"`
	MinScansRequired  int `json:"min_scans_required"`

	// CountiesEligible is a comma-separated allow list. Empty means all
	// counties qualify.
	CountiesEligible string `gorm:"type:varchar(500)" json:"counties_eligible"`

	Status   string `gorm:"index;default:upcoming" json:"status"`
	Active   bool   `gorm:"default:true" json:"active"`
	Featured bool   `json:"featured"`

	// TotalEntries is frozen at draw time to the eligible pool size.
	TotalEntries      int        `json:"total_entries"`
	WinnersSelectedAt *time.Time `json:"winners_selected_at"`
	IsPublicResults   bool       `json:"is_public_results"`
}

// IsRunning reports whether the challenge is currently accepting entries.
func (c *Challenge) IsRunning(now time.Time) bool {
	return c.Status == StatusActive && !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// EligibleCounties parses the comma-separated allow list. A nil result
// means no county restriction.
func (c *Challenge) EligibleCounties() []string {
	if c.CountiesEligible == "" {
		return nil
	}
	var counties []string
	for _, raw := range strings.Split(c.CountiesEligible, ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			counties = append(counties, trimmed)
		}
	}
	return counties
}

// ChallengeWinner records one drawn winner. The unique (challenge, profile)
// index enforces distinct winners per draw.
type ChallengeWinner struct {
	gorm.Model

	ChallengeID uint `gorm:"uniqueIndex:idx_challenge_profile" json:"challenge_id"`
	ProfileID   uint `gorm:"uniqueIndex:idx_challenge_profile" json:"profile_id"`

	// Position is the draw order, 1 for the first name out of the hat.
	Position int `json:"position"`

	// EntryWeight is the weight the profile carried into the draw.
	EntryWeight float64 `json:"entry_weight"`

	// TotalEntries is the eligible pool size at draw time.
	TotalEntries int `json:"total_entries"`

	PrizeClaimed   bool       `json:"prize_claimed"`
	PrizeClaimedAt *time.Time `json:"prize_claimed_at"`
	NotifiedAt     *time.Time `json:"notified_at"`
}

// ChallengeEntry snapshots a member's standing when they entered.
type ChallengeEntry struct {
	gorm.Model

	ChallengeID uint `gorm:"uniqueIndex:idx_challenge_entry" json:"challenge_id"`
	ProfileID   uint `gorm:"uniqueIndex:idx_challenge_entry" json:"profile_id"`

	EntryWeight      float64 `json:"entry_weight"`
	PointsAtEntry    int     `json:"points_at_entry"`
	ReferralsAtEntry int     `json:"referrals_at_entry"`
}

// MaskPhone hides the middle digits of a winner's phone for public result
// pages.
func MaskPhone(phone string) string {
	if len(phone) > 6 {
		return phone[:7] + "XXX" + phone[len(phone)-3:]
	}
	if len(phone) > 3 {
		return phone[:3] + "XXX"
	}
	return phone + "XXX"
}

// DisplayName builds a privacy-preserving winner name.
func DisplayName(firstName, secondName string) string {
	switch {
	case firstName != "" && secondName != "":
		return fmt.Sprintf("%s %s.", firstName, secondName[:1])
	case firstName != "":
		if len(firstName) > 3 {
			return firstName[:3] + "***"
		}
		return firstName + "***"
	default:
		return "Winner"
	}
}
