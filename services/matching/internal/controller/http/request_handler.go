package http

import (
	"net/http"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestUseCase  usecase.RequestUseCase
	matchingUseCase usecase.MatchingUseCase
	logger          *logger.Logger
}

func NewRequestHandler(requestUseCase usecase.RequestUseCase, matchingUseCase usecase.MatchingUseCase, logger *logger.Logger) *RequestHandler {
	return &RequestHandler{
		requestUseCase:  requestUseCase,
		matchingUseCase: matchingUseCase,
		logger:          logger,
	}
}

type createRequestRequest struct {
	Message string `json:"message" example:"My kids need warm clothes this winter"`
}

// CreateRequest godoc
// @Summary      Request a donation
// @Description  Ask for an approved donation listing. One pending request per seeker and listing.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body createRequestRequest false "Message to the donor"
// @Success      201  {object}  entity.Request
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /listings/{id}/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createRequestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	request, err := h.requestUseCase.CreateRequest(c.Request.Context(), c.Param("id"), userID, req.Message)
	if err != nil {
		writeError(c, h.logger, "create request", err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetPendingRequests godoc
// @Summary      Pending requests on my listing
// @Description  Oldest first, each with an advisory neediness score
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /listings/{id}/requests [get]
func (h *RequestHandler) GetPendingRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.requestUseCase.ListPending(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, h.logger, "list pending requests", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

// AcceptRequest godoc
// @Summary      Accept a request
// @Description  Marks the listing donated, rejects every other pending request and opens a transaction
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        rid path string true "Request ID"
// @Success      200  {object}  entity.Transaction
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /listings/{id}/requests/{rid}/accept [post]
func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tx, err := h.matchingUseCase.AcceptRequest(c.Request.Context(), c.Param("id"), c.Param("rid"), userID)
	if err != nil {
		writeError(c, h.logger, "accept request", err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// RejectRequest godoc
// @Summary      Reject a request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        rid path string true "Request ID"
// @Success      200  {object}  entity.Request
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /listings/{id}/requests/{rid}/reject [post]
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	request, err := h.matchingUseCase.RejectRequest(c.Request.Context(), c.Param("id"), c.Param("rid"), userID)
	if err != nil {
		writeError(c, h.logger, "reject request", err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetMyRequests godoc
// @Summary      List my requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /requests/mine [get]
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.requestUseCase.ListBySeeker(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "list requests", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
}

// GetRequest godoc
// @Summary      Get a request
// @Description  Visible to the seeker and the listing owner
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        rid path string true "Request ID"
// @Success      200  {object}  entity.Request
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /requests/{rid} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	request, err := h.requestUseCase.GetRequest(c.Request.Context(), c.Param("rid"), userID)
	if err != nil {
		writeError(c, h.logger, "get request", err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// CancelRequest godoc
// @Summary      Withdraw my request
// @Description  Only while the request is still pending
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        rid path string true "Request ID"
// @Success      200  {object}  entity.Request
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /requests/{rid} [delete]
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	request, err := h.requestUseCase.CancelRequest(c.Request.Context(), c.Param("rid"), userID)
	if err != nil {
		writeError(c, h.logger, "cancel request", err)
		return
	}

	c.JSON(http.StatusOK, request)
}
