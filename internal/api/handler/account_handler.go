package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/ledger"
	"github.com/bankcore-ledger/internal/money"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles HTTP requests for account reads and administrative
// account creation
type AccountHandler struct {
	ledgerService LedgerService
	logger        *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, ledgerService LedgerService) *AccountHandler {
	return &AccountHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// CreateAccountRequest represents an administrative account creation request
type CreateAccountRequest struct {
	Username string `json:"username" binding:"required"`
}

// Create provisions a zero-balance account without credentials. Regular
// users arrive through signup instead.
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.ledgerService.CreateAccount(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, account.ErrAccountAlreadyExists{}) {
			h.logger.Warn("Attempt to create duplicate account", "username", req.Username)
			RespondConflict(c, "Account with this username already exists")
			return
		}
		h.logger.Error("Failed to create account", "username", req.Username, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetBalance returns the current committed balance for an account
func (h *AccountHandler) GetBalance(c *gin.Context) {
	username := c.Param("username")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get balance", "username", username, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, BalanceResponse{
		Username: username,
		Balance:  money.FormatAmount(balance),
	})
}

// GetHistory returns an account's ledger entries ordered by id ascending.
// Presentation order (e.g. newest first) is the caller's concern.
func (h *AccountHandler) GetHistory(c *gin.Context) {
	username := c.Param("username")

	entries, err := h.ledgerService.GetHistory(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get history", "username", username, "error", err)
		RespondInternalError(c)
		return
	}

	response := HistoryResponse{
		Username: username,
		Entries:  make([]EntryResponse, 0, len(entries)),
	}
	for _, entry := range entries {
		response.Entries = append(response.Entries, mapEntryToResponse(entry))
	}

	RespondOK(c, response)
}

// List returns every account with its balance, ordered by username ascending
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.ledgerService.ListAccounts(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list accounts", "error", err)
		RespondInternalError(c)
		return
	}

	response := AccountListResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acc := range accounts {
		response.Accounts = append(response.Accounts, mapAccountToResponse(acc))
	}

	RespondOK(c, response)
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		Username:  acc.Username,
		Balance:   money.FormatAmount(acc.Balance),
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: acc.UpdatedAt.Format(time.RFC3339),
	}
}

// mapEntryToResponse maps a ledger entry to an entry response DTO
func mapEntryToResponse(entry *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		OperationID:  entry.OperationID.String(),
		Username:     entry.Username,
		Kind:         string(entry.Kind),
		Amount:       money.FormatAmount(entry.Amount),
		Counterparty: entry.Counterparty,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
}
