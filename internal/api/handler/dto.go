package handler

// Amounts cross the API as decimal strings ("100.00") and are converted to
// integer minor units at the boundary; no floating point JSON numbers.

// SignupRequest represents a request to create a new user
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AmountRequest represents a deposit or withdrawal
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// TransferRequest represents a transfer between two accounts
type TransferRequest struct {
	Sender   string `json:"sender" binding:"required"`
	Receiver string `json:"receiver" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	Username  string `json:"username"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// BalanceResponse represents a balance query result
type BalanceResponse struct {
	Username string `json:"username"`
	Balance  string `json:"balance"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID           int64  `json:"id"`
	OperationID  string `json:"operation_id"`
	Username     string `json:"username"`
	Kind         string `json:"kind"`
	Amount       string `json:"amount"`
	Counterparty string `json:"counterparty,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// TransferResponse carries both legs of a committed transfer
type TransferResponse struct {
	Out EntryResponse `json:"out"`
	In  EntryResponse `json:"in"`
}

// HistoryResponse represents an account's ledger history
type HistoryResponse struct {
	Username string          `json:"username"`
	Entries  []EntryResponse `json:"entries"`
}

// AccountListResponse represents the administrative account listing
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
