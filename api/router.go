package api

import (
	"github.com/gin-gonic/gin"
	"github.com/melvinsclub/club-backend/internal/challenge"
	"github.com/melvinsclub/club-backend/internal/estate"
	"github.com/melvinsclub/club-backend/internal/packcode"
	"github.com/melvinsclub/club-backend/internal/profile"
)

// SetupRoutes registers every API route.
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Membership
		api.POST("/profiles", profile.RegisterProfile)
		api.GET("/profiles/:id", profile.GetProfile)
		api.GET("/leaderboard", profile.GetLeaderboard)

		// The core loop: scan a pack code
		api.POST("/scan", packcode.ScanCode)

		// Estate card collection
		cards := api.Group("/cards")
		{
			cards.GET("/collection", estate.GetActiveCollection)
			cards.GET("/owned/:profileId", estate.GetOwnedCards)
			cards.POST("/collections/:id/activate", estate.ActivateCollectionHandler)
			cards.POST("/gifts", estate.CreateGiftHandler)
			cards.POST("/gifts/:token/claim", estate.ClaimGiftHandler)
		}

		// Challenges and draws
		challenges := api.Group("/challenges")
		{
			challenges.GET("", challenge.ListChallenges)
			challenges.GET("/:id", challenge.GetChallenge)
			challenges.GET("/:id/winners", challenge.GetWinners)
			challenges.POST("/:id/draw", challenge.DrawWinners)
		}
	}
}
