package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/piresc/settlement/internal/pkg/logger"
	"github.com/piresc/settlement/internal/pkg/models"
	nr "github.com/piresc/settlement/internal/pkg/newrelic"
	"github.com/piresc/settlement/internal/utils"
	"github.com/piresc/settlement/services/transaction"
)

// TransactionHandler handles HTTP requests for transaction settlement
type TransactionHandler struct {
	transactionUC transaction.TransactionUC
}

// NewTransactionHandler creates a new transaction HTTP handler
func NewTransactionHandler(transactionUC transaction.TransactionUC) *TransactionHandler {
	return &TransactionHandler{
		transactionUC: transactionUC,
	}
}

// RegisterRoutes registers the transaction handler routes
func (h *TransactionHandler) RegisterRoutes(e *echo.Echo) {
	transactionGroup := e.Group("/transaction")
	transactionGroup.POST("", nr.TraceHandler("transaction.create", h.CreateTransaction))
	transactionGroup.POST("/webhook", nr.TraceHandler("transaction.webhook", h.Webhook))
	transactionGroup.POST("/webhook/:id", nr.TraceHandler("transaction.webhook", h.WebhookByID))
	transactionGroup.GET("/:id", nr.TraceHandler("transaction.get", h.GetTransaction))
}

// CreateTransaction registers a transaction and returns its current record
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req models.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	if msg := invalidID(req.ID); msg != "" {
		return utils.BadRequestResponse(c, msg)
	}

	ctx := c.Request().Context()
	tx, err := h.transactionUC.Create(ctx, req.ID)
	if err != nil {
		if errors.Is(err, transaction.ErrDuplicateTransaction) {
			return utils.ConflictResponse(c, "Duplicate request")
		}
		logger.ErrorCtx(ctx, "Failed to create transaction",
			logger.String("transaction_id", req.ID),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, tx)
}

// Webhook applies a status pushed by the processor
func (h *TransactionHandler) Webhook(c echo.Context) error {
	var req models.WebhookRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	return h.applyWebhook(c, req.ID, req.Status)
}

// WebhookByID is the path parameter form of Webhook
func (h *TransactionHandler) WebhookByID(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	return h.applyWebhook(c, c.Param("id"), req.Status)
}

func (h *TransactionHandler) applyWebhook(c echo.Context, id, status string) error {
	if msg := invalidID(id); msg != "" {
		return utils.BadRequestResponse(c, msg)
	}

	ctx := c.Request().Context()
	if err := h.transactionUC.ApplyWebhook(ctx, id, status); err != nil {
		if errors.Is(err, transaction.ErrUnknownStatus) {
			return utils.BadRequestResponse(c, err.Error())
		}
		logger.ErrorCtx(ctx, "Failed to apply webhook",
			logger.String("transaction_id", id),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to apply webhook")
	}

	return c.NoContent(http.StatusOK)
}

// GetTransaction returns the stored transaction
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id := c.Param("id")

	ctx := c.Request().Context()
	tx, err := h.transactionUC.Get(ctx, id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return utils.NotFoundResponse(c, "Transaction not found")
		}
		logger.ErrorCtx(ctx, "Failed to get transaction",
			logger.String("transaction_id", id),
			logger.Err(err))
		return utils.InternalServerErrorResponse(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, tx)
}

// invalidID returns the 400 message for an id that is missing or not a UUID
func invalidID(id string) string {
	if id == "" {
		return "Transaction ID is required"
	}
	if _, err := uuid.Parse(id); err != nil {
		return transaction.ErrInvalidTransactionID.Error()
	}
	return ""
}
