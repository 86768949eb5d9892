package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bankcore-ledger/internal/domain/account"
	"github.com/bankcore-ledger/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerHandler_Deposit(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		entry := &ledger.Entry{
			ID:          1,
			OperationID: uuid.New(),
			Username:    "alice",
			Kind:        ledger.KindDeposit,
			Amount:      10050,
			CreatedAt:   time.Now().UTC(),
		}
		mockService.On("Deposit", mock.Anything, "alice", int64(10050)).Return(entry, nil)

		router := setupTestRouter()
		router.POST("/accounts/:username/deposits", handler.Deposit)

		jsonBody, _ := json.Marshal(AmountRequest{Amount: "100.50"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts/alice/deposits", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		responseBody := decodeData[EntryResponse](t, rr.Body.Bytes())
		assert.Equal(t, "DEPOSIT", responseBody.Kind)
		assert.Equal(t, "100.50", responseBody.Amount)
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedAmount", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/accounts/:username/deposits", handler.Deposit)

		for _, amount := range []string{"abc", "-5.00", "0", "0.001"} {
			jsonBody, _ := json.Marshal(AmountRequest{Amount: amount})
			req, _ := http.NewRequest(http.MethodPost, "/accounts/alice/deposits", bytes.NewBuffer(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, "amount %q should be rejected", amount)
		}
		mockService.AssertExpectations(t) // No service calls for rejected amounts
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		mockService.On("Deposit", mock.Anything, "ghost", int64(100)).
			Return(nil, account.ErrAccountNotFound{Username: "ghost"})

		router := setupTestRouter()
		router.POST("/accounts/:username/deposits", handler.Deposit)

		jsonBody, _ := json.Marshal(AmountRequest{Amount: "1.00"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts/ghost/deposits", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestLedgerHandler_Withdraw(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		entry := &ledger.Entry{
			ID:          2,
			OperationID: uuid.New(),
			Username:    "alice",
			Kind:        ledger.KindWithdrawal,
			Amount:      2500,
			CreatedAt:   time.Now().UTC(),
		}
		mockService.On("Withdraw", mock.Anything, "alice", int64(2500)).Return(entry, nil)

		router := setupTestRouter()
		router.POST("/accounts/:username/withdrawals", handler.Withdraw)

		jsonBody, _ := json.Marshal(AmountRequest{Amount: "25.00"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts/alice/withdrawals", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		responseBody := decodeData[EntryResponse](t, rr.Body.Bytes())
		assert.Equal(t, "WITHDRAWAL", responseBody.Kind)
		assert.Equal(t, "25.00", responseBody.Amount)
		mockService.AssertExpectations(t)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		mockService.On("Withdraw", mock.Anything, "alice", int64(100000)).
			Return(nil, account.ErrInsufficientFunds)

		router := setupTestRouter()
		router.POST("/accounts/:username/withdrawals", handler.Withdraw)

		jsonBody, _ := json.Marshal(AmountRequest{Amount: "1000.00"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts/alice/withdrawals", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		errInfo := decodeError(t, rr.Body.Bytes())
		assert.Equal(t, "INSUFFICIENT_FUNDS", errInfo.Code)
		mockService.AssertExpectations(t)
	})
}

func TestLedgerHandler_Transfer(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		opID := uuid.New()
		now := time.Now().UTC()
		out := &ledger.Entry{ID: 3, OperationID: opID, Username: "alice", Kind: ledger.KindTransferOut, Amount: 5000, Counterparty: "bob", CreatedAt: now}
		in := &ledger.Entry{ID: 4, OperationID: opID, Username: "bob", Kind: ledger.KindTransferIn, Amount: 5000, Counterparty: "alice", CreatedAt: now}
		mockService.On("Transfer", mock.Anything, "alice", "bob", int64(5000)).Return(out, in, nil)

		router := setupTestRouter()
		router.POST("/transfers", handler.Transfer)

		jsonBody, _ := json.Marshal(TransferRequest{Sender: "alice", Receiver: "bob", Amount: "50.00"})
		req, _ := http.NewRequest(http.MethodPost, "/transfers", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		responseBody := decodeData[TransferResponse](t, rr.Body.Bytes())
		assert.Equal(t, "TRANSFER_OUT", responseBody.Out.Kind)
		assert.Equal(t, "TRANSFER_IN", responseBody.In.Kind)
		assert.Equal(t, responseBody.Out.OperationID, responseBody.In.OperationID)
		require.Equal(t, "50.00", responseBody.Out.Amount)
		mockService.AssertExpectations(t)
	})

	t.Run("SameAccount", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		mockService.On("Transfer", mock.Anything, "alice", "alice", int64(100)).
			Return(nil, nil, ledger.ErrSameAccount)

		router := setupTestRouter()
		router.POST("/transfers", handler.Transfer)

		jsonBody, _ := json.Marshal(TransferRequest{Sender: "alice", Receiver: "alice", Amount: "1.00"})
		req, _ := http.NewRequest(http.MethodPost, "/transfers", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/transfers", handler.Transfer)

		jsonBody, _ := json.Marshal(map[string]string{"sender": "alice", "amount": "1.00"})
		req, _ := http.NewRequest(http.MethodPost, "/transfers", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownReceiver", func(t *testing.T) {
		mockService := new(MockLedgerService)
		handler := NewLedgerHandler(logger, mockService)

		mockService.On("Transfer", mock.Anything, "alice", "ghost", int64(100)).
			Return(nil, nil, account.ErrAccountNotFound{Username: "ghost"})

		router := setupTestRouter()
		router.POST("/transfers", handler.Transfer)

		jsonBody, _ := json.Marshal(TransferRequest{Sender: "alice", Receiver: "ghost", Amount: "1.00"})
		req, _ := http.NewRequest(http.MethodPost, "/transfers", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}
