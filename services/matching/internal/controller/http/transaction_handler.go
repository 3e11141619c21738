package http

import (
	"net/http"

	"donorseeker/pkg/logger"
	"donorseeker/services/matching/internal/usecase"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionUseCase usecase.TransactionUseCase
	feedbackUseCase    usecase.FeedbackUseCase
	logger             *logger.Logger
}

func NewTransactionHandler(transactionUseCase usecase.TransactionUseCase, feedbackUseCase usecase.FeedbackUseCase, logger *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionUseCase: transactionUseCase,
		feedbackUseCase:    feedbackUseCase,
		logger:             logger,
	}
}

type submitFeedbackRequest struct {
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment" example:"Exactly as described, thank you!"`
}

// GetMyTransactions godoc
// @Summary      List my transactions
// @Description  Transactions where I am the donor or the receiver
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /transactions [get]
func (h *TransactionHandler) GetMyTransactions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	txs, err := h.transactionUseCase.ListByParticipant(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, "list transactions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}

// GetTransaction godoc
// @Summary      Get a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        tid path string true "Transaction ID"
// @Success      200  {object}  entity.Transaction
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{tid} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tx, err := h.transactionUseCase.GetTransaction(c.Request.Context(), c.Param("tid"), userID)
	if err != nil {
		writeError(c, h.logger, "get transaction", err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// ConfirmReceived godoc
// @Summary      Confirm the donation arrived
// @Description  Receiver only; safe to repeat
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        tid path string true "Transaction ID"
// @Success      200  {object}  entity.Transaction
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /transactions/{tid}/receive [post]
func (h *TransactionHandler) ConfirmReceived(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tx, err := h.transactionUseCase.ConfirmReceived(c.Request.Context(), c.Param("tid"), userID)
	if err != nil {
		writeError(c, h.logger, "confirm received", err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// SubmitFeedback godoc
// @Summary      Rate the donor
// @Description  Once per transaction, after receipt
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tid path string true "Transaction ID"
// @Param        feedback body submitFeedbackRequest true "Rating 1-5 and optional comment"
// @Success      201  {object}  entity.Feedback
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /transactions/{tid}/feedback [post]
func (h *TransactionHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	feedback, err := h.feedbackUseCase.SubmitFeedback(c.Request.Context(), c.Param("tid"), userID, req.Rating, req.Comment)
	if err != nil {
		writeError(c, h.logger, "submit feedback", err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// GetFeedback godoc
// @Summary      Get feedback on a transaction
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        tid path string true "Transaction ID"
// @Success      200  {object}  entity.Feedback
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{tid}/feedback [get]
func (h *TransactionHandler) GetFeedback(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackUseCase.GetFeedback(c.Request.Context(), c.Param("tid"), userID)
	if err != nil {
		writeError(c, h.logger, "get feedback", err)
		return
	}

	c.JSON(http.StatusOK, feedback)
}

// GetReputation godoc
// @Summary      User reputation
// @Description  Completed donations and average rating received
// @Tags         feedback
// @Produce      json
// @Security     BearerAuth
// @Param        uid path string true "User ID"
// @Success      200  {object}  entity.Reputation
// @Failure      404  {object}  errorResponse
// @Router       /users/{uid}/reputation [get]
func (h *TransactionHandler) GetReputation(c *gin.Context) {
	rep, err := h.feedbackUseCase.GetReputation(c.Request.Context(), c.Param("uid"))
	if err != nil {
		writeError(c, h.logger, "get reputation", err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
