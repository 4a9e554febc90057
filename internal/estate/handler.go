package estate

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"gorm.io/gorm"
)

// GetActiveCollection handles GET /api/cards/collection. It returns the
// running campaign and its card list, or 404 outside any campaign window.
func GetActiveCollection(c *gin.Context) {
	collection, err := ActiveCollection(database.DB, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active collection"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	cards, err := ActiveCards(database.DB, collection.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection, "cards": cards})
}

// GetOwnedCards handles GET /api/cards/owned/:profileId for the active
// collection.
func GetOwnedCards(c *gin.Context) {
	profileID, err := strconv.ParseUint(c.Param("profileId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	collection, err := ActiveCollection(database.DB, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"cards": []UserCard{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	entries, err := OwnedCards(database.DB, uint(profileID), collection.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cards"})
		return
	}

	distinct, err := DistinctCardCount(database.DB, uint(profileID), collection.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cards":         entries,
		"distinctOwned": distinct,
		"totalCards":    collection.TotalCards,
	})
}

// ActivateCollectionHandler handles POST /api/cards/collections/:id/activate.
func ActivateCollectionHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection id"})
		return
	}

	if err := ActivateCollection(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to activate collection"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "activated"})
}

type createGiftRequest struct {
	SenderID uint `json:"senderId" binding:"required"`
	CardID   uint `json:"cardId" binding:"required"`
}

// CreateGiftHandler handles POST /api/cards/gifts.
func CreateGiftHandler(c *gin.Context) {
	var req createGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	gift, err := CreateGift(req.SenderID, req.CardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not owned by sender"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create gift"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": gift.Token})
}

type claimGiftRequest struct {
	ProfileID uint `json:"profileId" binding:"required"`
}

// ClaimGiftHandler handles POST /api/cards/gifts/:token/claim.
func ClaimGiftHandler(c *gin.Context) {
	var req claimGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := ClaimGift(c.Param("token"), req.ProfileID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "gift not found"})
		case errors.Is(err, ErrGiftAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "gift already claimed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim gift"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": entry})
}
