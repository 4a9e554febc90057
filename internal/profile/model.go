package profile

import (
	"time"

	"gorm.io/gorm"
)

// Profile is a club member. The points balance is the shared counter that
// scans, reveals and challenge rewards all credit; every mutation goes
// through CreditPoints inside a transaction.
type Profile struct {
	gorm.Model

	// Phone is the member's identity within the club.
	Phone string `gorm:"uniqueIndex;type:varchar(24)" json:"phone"`

	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`

	// County is used by challenge eligibility allow-lists.
	County string `gorm:"index" json:"county"`

	// Points is the member's current loyalty balance.
	Points int `json:"points"`

	// ProfileCompleted gates challenge participation.
	ProfileCompleted bool `json:"profile_completed"`

	// ReferralCode is the member's shareable 6-character code.
	ReferralCode string `gorm:"uniqueIndex;type:varchar(6)" json:"referral_code"`
}

// Referral links a referred member to their referrer. A referral counts
// toward challenge entry weight once it is marked successful.
type Referral struct {
	gorm.Model

	ReferrerID uint `gorm:"index" json:"referrer_id"`

	// ReferredID is unique: a member can be referred at most once.
	ReferredID uint `gorm:"uniqueIndex" json:"referred_id"`

	Successful  bool       `json:"successful"`
	QualifiedAt *time.Time `json:"qualified_at"`
}
