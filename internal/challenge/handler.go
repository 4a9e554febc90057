package challenge

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/profile"
	"gorm.io/gorm"
)

// ListChallenges handles GET /api/challenges. Returns active and upcoming
// challenges, newest start first.
func ListChallenges(c *gin.Context) {
	var challenges []Challenge
	err := database.DB.
		Where("active = ? AND status IN ?", true, []string{StatusUpcoming, StatusActive}).
		Order("start_date desc").
		Find(&challenges).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load challenges"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// GetChallenge handles GET /api/challenges/:id.
func GetChallenge(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	var challenge Challenge
	if err := database.DB.First(&challenge, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load challenge"})
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// winnerView is the privacy-preserving public shape of a draw result.
type winnerView struct {
	Position    int     `json:"position"`
	DisplayName string  `json:"displayName"`
	MaskedPhone string  `json:"maskedPhone"`
	County      string  `json:"county"`
	EntryWeight float64 `json:"entryWeight"`
	SelectedAt  string  `json:"selectedAt"`
}

// GetWinners handles GET /api/challenges/:id/winners.
func GetWinners(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	var challenge Challenge
	if err := database.DB.First(&challenge, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load challenge"})
		return
	}
	if challenge.Status != StatusWinnersSelected {
		c.JSON(http.StatusConflict, gin.H{"error": "winners not selected yet"})
		return
	}

	winners, err := Winners(database.DB, challenge.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load winners"})
		return
	}

	views := make([]winnerView, 0, len(winners))
	for _, w := range winners {
		p, err := profile.GetByID(database.DB, w.ProfileID)
		if err != nil {
			continue
		}
		views = append(views, winnerView{
			Position:    w.Position,
			DisplayName: DisplayName(p.FirstName, p.SecondName),
			MaskedPhone: MaskPhone(p.Phone),
			County:      p.County,
			EntryWeight: w.EntryWeight,
			SelectedAt:  w.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"challenge":    challenge.Title,
		"totalEntries": challenge.TotalEntries,
		"winners":      views,
	})
}

// DrawWinners handles POST /api/challenges/:id/draw, the manual trigger for
// an ended challenge's draw.
func DrawWinners(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid challenge id"})
		return
	}

	winners, err := SelectWinners(schedulerSource{}, uint(id))
	if err != nil {
		var insufficient *InsufficientCandidatesError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
		case errors.Is(err, ErrChallengeNotEnded):
			c.JSON(http.StatusConflict, gin.H{"error": "challenge has not ended"})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "not enough eligible participants",
				"needed":    insufficient.Needed,
				"available": insufficient.Available,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to draw winners"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners})
}
