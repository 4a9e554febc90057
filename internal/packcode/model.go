package packcode

import (
	"time"

	"gorm.io/gorm"
)

// PackCode is the QR payload printed inside a tea pack. Each code redeems
// exactly once.
type PackCode struct {
	gorm.Model

	Code string `gorm:"uniqueIndex;type:varchar(128)" json:"code"`
	SKU  string `gorm:"default:Melvins" json:"sku"`

	// Points credited to whoever scans the code first.
	Points int `gorm:"default:10" json:"points"`

	Used     bool       `gorm:"index" json:"used"`
	UsedByID *uint      `json:"used_by_id"`
	UsedAt   *time.Time `json:"used_at"`
}

// Scan is the permanent record of a redeemed pack code. Challenge
// eligibility counts these rows.
type Scan struct {
	gorm.Model

	ProfileID  uint `gorm:"index" json:"profile_id"`
	PackCodeID uint `gorm:"index" json:"pack_code_id"`

	PointsAwarded int `json:"points_awarded"`
}
