package handler

import (
	"errors"
	"log/slog"

	"github.com/berry-ledger/internal/domain/account"
	"github.com/berry-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	ledgerService ledger.Service
	logger        *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, ledgerService ledger.Service) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create handles creation of a new account, rejecting blank and duplicate names
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.ledgerService.CreateAccount(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, account.ErrEmptyAccountName) {
			RespondBadRequest(c, "Account name cannot be empty")
			return
		}
		var duplicateErr account.ErrDuplicateAccountName
		if errors.As(err, &duplicateErr) {
			h.logger.Warn("Attempt to create account with duplicate name", "name", duplicateErr.Name)
			RespondConflict(c, "Account with this name already exists")
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// List returns every account
func (h *AccountHandler) List(c *gin.Context) {
	accs, err := h.ledgerService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AccountResponse, 0, len(accs))
	for _, acc := range accs {
		responses = append(responses, mapAccountToResponse(acc))
	}
	RespondOK(c, responses)
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.ledgerService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// FindByName retrieves an account by its exact name via the name query parameter
func (h *AccountHandler) FindByName(c *gin.Context) {
	name := c.Query("name")

	acc, err := h.ledgerService.GetAccountByName(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, account.ErrEmptyAccountName) {
			RespondBadRequest(c, "Query parameter name is required")
			return
		}
		var notFound account.ErrAccountNameNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to find account by name", "name", name, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Rename changes an account's name, rejecting blank and duplicate names
func (h *AccountHandler) Rename(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req RenameAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.ledgerService.RenameAccount(c.Request.Context(), id, req.Name); err != nil {
		if errors.Is(err, account.ErrEmptyAccountName) {
			RespondBadRequest(c, "Account name cannot be empty")
			return
		}
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		var duplicateErr account.ErrDuplicateAccountName
		if errors.As(err, &duplicateErr) {
			RespondConflict(c, "Account with this name already exists")
			return
		}
		h.logger.Error("Failed to rename account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// Delete removes an account. Postings that reference it are left in place.
func (h *AccountHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.ledgerService.DeleteAccount(c.Request.Context(), id); err != nil {
		var notFound account.ErrAccountNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to delete account", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}
