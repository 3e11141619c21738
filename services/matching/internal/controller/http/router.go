package http

import (
	"donorseeker/pkg/jwt"
	"donorseeker/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Listings     *ListingHandler
	Requests     *RequestHandler
	Transactions *TransactionHandler
}

// RegisterRoutes mounts the engine API on an already authenticated group.
func RegisterRoutes(api *gin.RouterGroup, h Handlers) {
	listings := api.Group("/listings")
	{
		listings.POST("", h.Listings.CreateListing)
		listings.GET("/mine", h.Listings.GetMyListings)
		listings.GET("/:id", h.Listings.GetListing)
		listings.DELETE("/:id", h.Listings.DeleteListing)

		listings.POST("/:id/requests", h.Requests.CreateRequest)
		listings.GET("/:id/requests", h.Requests.GetPendingRequests)
		listings.POST("/:id/requests/:rid/accept", h.Requests.AcceptRequest)
		listings.POST("/:id/requests/:rid/reject", h.Requests.RejectRequest)
	}

	requests := api.Group("/requests")
	{
		requests.GET("/mine", h.Requests.GetMyRequests)
		requests.GET("/:rid", h.Requests.GetRequest)
		requests.DELETE("/:rid", h.Requests.CancelRequest)
	}

	transactions := api.Group("/transactions")
	{
		transactions.GET("", h.Transactions.GetMyTransactions)
		transactions.GET("/:tid", h.Transactions.GetTransaction)
		transactions.POST("/:tid/receive", h.Transactions.ConfirmReceived)
		transactions.POST("/:tid/feedback", h.Transactions.SubmitFeedback)
		transactions.GET("/:tid/feedback", h.Transactions.GetFeedback)
	}

	api.GET("/users/:uid/reputation", h.Transactions.GetReputation)

	moderation := api.Group("/moderation")
	moderation.Use(middleware.RequireRole(jwt.RoleModerator))
	{
		moderation.GET("/listings", h.Listings.GetModerationQueue)
		moderation.PATCH("/listings/:id", h.Listings.SetApproval)
	}
}
