package handler

import (
	"errors"
	"log/slog"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/ledger"
	"github.com/bankcore-ledger/internal/money"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles HTTP requests for money movement
type LedgerHandler struct {
	ledgerService LedgerService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Deposit credits the account named in the path
func (h *LedgerHandler) Deposit(c *gin.Context) {
	username := c.Param("username")

	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.Deposit(c.Request.Context(), username, amount)
	if err != nil {
		h.respondLedgerError(c, err, "deposit", username)
		return
	}

	RespondCreated(c, mapEntryToResponse(entry))
}

// Withdraw debits the account named in the path
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	username := c.Param("username")

	amount, ok := h.bindAmount(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.Withdraw(c.Request.Context(), username, amount)
	if err != nil {
		h.respondLedgerError(c, err, "withdraw", username)
		return
	}

	RespondCreated(c, mapEntryToResponse(entry))
}

// Transfer moves money between two accounts and returns both ledger legs
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Amount must be a positive decimal with at most two decimal places")
		return
	}

	out, in, err := h.ledgerService.Transfer(c.Request.Context(), req.Sender, req.Receiver, amount)
	if err != nil {
		h.respondLedgerError(c, err, "transfer", req.Sender)
		return
	}

	RespondCreated(c, TransferResponse{
		Out: mapEntryToResponse(out),
		In:  mapEntryToResponse(in),
	})
}

// bindAmount reads and converts the amount field of the request body
func (h *LedgerHandler) bindAmount(c *gin.Context) (int64, bool) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return 0, false
	}

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Amount must be a positive decimal with at most two decimal places")
		return 0, false
	}

	return amount, true
}

// respondLedgerError maps engine errors to HTTP responses without leaking
// storage internals
func (h *LedgerHandler) respondLedgerError(c *gin.Context, err error, op, username string) {
	switch {
	case errors.Is(err, account.ErrInvalidAmount):
		RespondBadRequest(c, "Amount must be positive")
	case errors.Is(err, ledger.ErrSameAccount):
		RespondBadRequest(c, "Cannot transfer to the same account")
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, account.ErrInsufficientFunds):
		RespondUnprocessable(c, "INSUFFICIENT_FUNDS", "Insufficient funds")
	default:
		h.logger.Error("Ledger operation failed", "op", op, "username", username, "error", err)
		RespondInternalError(c)
	}
}
