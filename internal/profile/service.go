package profile

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/melvinsclub/club-backend/internal/platform/database"
	"gorm.io/gorm"
)

const referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateReferralCode produces a random 6-character shareable code.
func generateReferralCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	for i := range b {
		b[i] = referralCodeAlphabet[int(b[i])%len(referralCodeAlphabet)]
	}
	return string(b), nil
}

// Register creates a new profile, assigning it a unique referral code and
// recording a pending referral when the new member arrived through one.
func Register(phone, firstName, secondName, county, referredByCode string) (*Profile, error) {
	var created *Profile

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var referrer *Profile
		if referredByCode != "" {
			var r Profile
			if err := tx.Where("referral_code = ?", referredByCode).First(&r).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				// Unknown codes are ignored rather than blocking signup.
			} else {
				referrer = &r
			}
		}

		// Retry on the rare code collision.
		var p Profile
		for attempt := 0; attempt < 5; attempt++ {
			code, err := generateReferralCode()
			if err != nil {
				return err
			}
			p = Profile{
				Phone:        phone,
				FirstName:    firstName,
				SecondName:   secondName,
				County:       county,
				ReferralCode: code,
			}
			if err := tx.Create(&p).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < 4 {
					continue
				}
				return fmt.Errorf("failed to create profile: %w", err)
			}
			break
		}

		if referrer != nil {
			referral := Referral{ReferrerID: referrer.ID, ReferredID: p.ID}
			if err := tx.Create(&referral).Error; err != nil {
				return fmt.Errorf("failed to record referral: %w", err)
			}
		}

		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	SyncLeaderboard(created.ID, created.Points)
	return created, nil
}

// QualifyReferral marks the referral that brought in this member as
// successful. Called on the member's first scan; later calls are no-ops.
func QualifyReferral(tx *gorm.DB, referredID uint) error {
	now := time.Now()
	err := tx.Model(&Referral{}).
		Where("referred_id = ? AND successful = ?", referredID, false).
		Updates(map[string]interface{}{"successful": true, "qualified_at": &now}).Error
	if err != nil {
		return fmt.Errorf("failed to qualify referral for profile %d: %w", referredID, err)
	}
	return nil
}

// MarkCompleted flags the profile as complete, making it eligible for
// challenge draws.
func MarkCompleted(profileID uint) error {
	result := database.DB.Model(&Profile{}).Where("id = ?", profileID).
		Update("profile_completed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
