package challenge

import (
	"fmt"

	"github.com/melvinsclub/club-backend/internal/packcode"
	"github.com/melvinsclub/club-backend/internal/profile"
	"gorm.io/gorm"
)

// IsEligible applies a challenge's entry rules to one member. The scan count
// is passed in so the predicate stays pure and testable.
func IsEligible(c *Challenge, p *profile.Profile, scanCount int64) bool {
	if !p.ProfileCompleted {
		return false
	}
	if c.MinPointsRequired > 0 && p.Points < c.MinPointsRequired {
		return false
	}
	if c.MinScansRequired > 0 && scanCount < int64(c.MinScansRequired) {
		return false
	}
	counties := c.EligibleCounties()
	if counties == nil {
		return true
	}
	for _, county := range counties {
		if p.County == county {
			return true
		}
	}
	return false
}

// EligibleProfiles returns every member who qualifies for the challenge,
// filtered in SQL so the draw pool never materializes ineligible rows.
func EligibleProfiles(tx *gorm.DB, c *Challenge) ([]profile.Profile, error) {
	query := tx.Model(&profile.Profile{}).Where("profile_completed = ?", true)

	if c.MinPointsRequired > 0 {
		query = query.Where("points >= ?", c.MinPointsRequired)
	}
	if c.MinScansRequired > 0 {
		scanned := tx.Session(&gorm.Session{NewDB: true}).
			Model(&packcode.Scan{}).
			Select("profile_id").
			Group("profile_id").
			Having("COUNT(*) >= ?", c.MinScansRequired)
		query = query.Where("id IN (?)", scanned)
	}
	if counties := c.EligibleCounties(); counties != nil {
		query = query.Where("county IN ?", counties)
	}

	var profiles []profile.Profile
	if err := query.Order("id asc").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to load eligible profiles: %w", err)
	}
	return profiles, nil
}
