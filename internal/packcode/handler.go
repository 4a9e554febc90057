package packcode

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type scanRequest struct {
	ProfileID uint   `json:"profileId" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

// ScanCode handles POST /api/scan, the app's core loop: scan a pack, earn
// points, maybe reveal a card.
func ScanCode(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := Redeem(req.ProfileID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrScanLimitReached):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "scan limit reached, try again later"})
		case errors.Is(err, ErrInvalidCode):
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid code"})
		case errors.Is(err, ErrCodeAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{"error": "code already used"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process scan"})
		}
		return
	}

	resp := gin.H{
		"scanId":        result.Scan.ID,
		"pointsAwarded": result.PointsAwarded,
	}
	if result.Reveal != nil {
		resp["card"] = gin.H{
			"id":          result.Reveal.Card.ID,
			"title":       result.Reveal.Card.Title,
			"rarity":      result.Reveal.Card.Rarity,
			"cardNumber":  result.Reveal.Card.CardNumber,
			"isDuplicate": result.Reveal.IsDuplicate,
			"milestone":   result.Reveal.MilestoneReached,
			"completed":   result.Reveal.CollectionCompleted,
		}
	}
	c.JSON(http.StatusOK, resp)
}
