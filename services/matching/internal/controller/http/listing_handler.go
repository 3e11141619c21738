package http

import (
	"net/http"
	"strconv"

	"donorseeker/pkg/jwt"
	"donorseeker/pkg/logger"
	"donorseeker/pkg/middleware"
	"donorseeker/services/matching/internal/entity"
	"donorseeker/services/matching/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase usecase.ListingUseCase
	logger         *logger.Logger
}

func NewListingHandler(listingUseCase usecase.ListingUseCase, logger *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		logger:         logger,
	}
}

type createListingRequest struct {
	Kind        entity.ListingKind `json:"kind" binding:"required" example:"DONATION"`
	Title       string             `json:"title" binding:"required" example:"Winter coat, size M"`
	Description string             `json:"description"`
	Category    string             `json:"category" binding:"required" example:"clothing"`
	Condition   string             `json:"condition" example:"used"`
	Urgency     string             `json:"urgency" example:"high"`
}

type listingResponse struct {
	*entity.Listing
	Requestable bool `json:"requestable"`
}

type setApprovalRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// CreateListing godoc
// @Summary      Create a listing
// @Description  Create a donation or requirement listing. New listings wait for moderation.
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        listing body createListingRequest true "Listing"
// @Success      201  {object}  entity.Listing
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /listings [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.listingUseCase.CreateListing(c.Request.Context(), userID, entity.ListingAttrs{
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Urgency:     req.Urgency,
	})
	if err != nil {
		writeError(c, h.logger, "create listing", err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// GetListing godoc
// @Summary      Get a listing
// @Description  Get a listing and whether it currently accepts requests
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Router       /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	id := c.Param("id")

	listing, err := h.listingUseCase.GetListing(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "get listing", err)
		return
	}

	requestable, err := h.listingUseCase.IsRequestable(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, "check requestable", err)
		return
	}

	c.JSON(http.StatusOK, listingResponse{Listing: listing, Requestable: requestable})
}

// GetMyListings godoc
// @Summary      List my listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  errorResponse
// @Router       /listings/mine [get]
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	listings, err := h.listingUseCase.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "list listings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings)})
}

// DeleteListing godoc
// @Summary      Delete a listing
// @Description  Owner or moderator only; refused once a request was accepted
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /listings/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	isModerator := c.GetString(middleware.ContextRole) == jwt.RoleModerator

	if err := h.listingUseCase.DeleteListing(c.Request.Context(), c.Param("id"), userID, isModerator); err != nil {
		writeError(c, h.logger, "delete listing", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}

// GetModerationQueue godoc
// @Summary      Listings awaiting moderation
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (max 100)"
// @Param        offset query int false "Offset for pagination"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  errorResponse
// @Router       /moderation/listings [get]
func (h *ListingHandler) GetModerationQueue(c *gin.Context) {
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	listings, err := h.listingUseCase.ListPendingModeration(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, h.logger, "list moderation queue", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings), "offset": offset})
}

// SetApproval godoc
// @Summary      Approve or reject a listing
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        decision body setApprovalRequest true "Decision"
// @Success      200  {object}  entity.Listing
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /moderation/listings/{id} [patch]
func (h *ListingHandler) SetApproval(c *gin.Context) {
	var req setApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	listing, err := h.listingUseCase.SetApproval(c.Request.Context(), c.Param("id"), *req.Approved)
	if err != nil {
		writeError(c, h.logger, "set approval", err)
		return
	}

	h.logger.Info("[HTTP] Moderator %s set listing %s approved=%t", c.GetString(middleware.ContextUserID), listing.ID, *req.Approved)
	c.JSON(http.StatusOK, listing)
}
