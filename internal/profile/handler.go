package profile

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"gorm.io/gorm"
)

type registerRequest struct {
	Phone        string `json:"phone" binding:"required"`
	FirstName    string `json:"firstName"`
	SecondName   string `json:"secondName"`
	County       string `json:"county"`
	ReferralCode string `json:"referralCode"`
}

type profileResponse struct {
	ID           uint   `json:"id"`
	Phone        string `json:"phone"`
	FirstName    string `json:"firstName"`
	County       string `json:"county"`
	Points       int    `json:"points"`
	ReferralCode string `json:"referralCode"`
	Completed    bool   `json:"completed"`
}

func toResponse(p *Profile) profileResponse {
	return profileResponse{
		ID:           p.ID,
		Phone:        p.Phone,
		FirstName:    p.FirstName,
		County:       p.County,
		Points:       p.Points,
		ReferralCode: p.ReferralCode,
		Completed:    p.ProfileCompleted,
	}
}

// RegisterProfile handles POST /api/profiles.
func RegisterProfile(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := Register(req.Phone, req.FirstName, req.SecondName, req.County, req.ReferralCode)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register profile"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(p))
}

// GetProfile handles GET /api/profiles/:id.
func GetProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	p, err := GetByID(database.DB, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, toResponse(p))
}

// GetLeaderboard handles GET /api/leaderboard.
func GetLeaderboard(c *gin.Context) {
	entries, err := TopBalances(20)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard unavailable"})
		return
	}

	type entry struct {
		ProfileID string  `json:"profileId"`
		Points    float64 `json:"points"`
	}
	out := make([]entry, 0, len(entries))
	for _, z := range entries {
		out = append(out, entry{ProfileID: z.Member.(string), Points: z.Score})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}
