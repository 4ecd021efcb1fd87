package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/berry-ledger/internal/domain/posting"
	"github.com/berry-ledger/internal/domain/shared"
	"github.com/berry-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	ledgerService ledger.Service
	logger        *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, ledgerService ledger.Service) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create handles creation of a new transaction. Both referenced accounts must
// exist; a missing one maps to 422 rather than 404 because the posting itself
// is the requested resource.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid amount: "+req.Amount)
		return
	}

	sourceID, err := uuid.Parse(req.SourceAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid source account ID")
		return
	}
	destinationID, err := uuid.Parse(req.DestinationAccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	createReq, err := posting.NewCreateRequest(req.Title, amount, sourceID, destinationID, req.Category, req.PostingDate)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	p, err := h.ledgerService.CreateTransaction(c.Request.Context(), createReq)
	if err != nil {
		var sourceNotFound posting.ErrSourceAccountNotFound
		if errors.As(err, &sourceNotFound) {
			RespondUnprocessableEntity(c, "Source account does not exist: "+sourceNotFound.AccountID.String())
			return
		}
		var destinationNotFound posting.ErrDestinationAccountNotFound
		if errors.As(err, &destinationNotFound) {
			RespondUnprocessableEntity(c, "Destination account does not exist: "+destinationNotFound.AccountID.String())
			return
		}
		h.logger.Error("Failed to create transaction", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapPostingToResponse(p))
}

// List returns transactions newest first, paginated via page and per_page
func (h *TransactionHandler) List(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	page := shared.NewPagination(params.Page, params.PerPage)
	postings, err := h.ledgerService.ListTransactions(c.Request.Context(), &page)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(postings))
	for _, p := range postings {
		responses = append(responses, mapPostingToResponse(p))
	}
	RespondWithPaginatedData(c, http.StatusOK, responses, params.Page, int(page.Limit))
}

// GetByID retrieves a transaction by its ID, returning 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	p, err := h.ledgerService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		var notFound posting.ErrPostingNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapPostingToResponse(p))
}

// Delete removes a transaction and reverses its effect on both account balances
func (h *TransactionHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), id); err != nil {
		var notFound posting.ErrPostingNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to delete transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}
