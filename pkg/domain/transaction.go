package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionID uniquely identifies a wallet transaction.
type TransactionID uuid.UUID

// TransactionType classifies a wallet transaction.
type TransactionType string

const (
	// TransactionTypeDeposit is a direct wallet credit.
	TransactionTypeDeposit TransactionType = "deposit"
	// TransactionTypeWithdraw is a direct wallet debit.
	TransactionTypeWithdraw TransactionType = "withdraw"
	// TransactionTypeInvestment is a debit placed into a project.
	TransactionTypeInvestment TransactionType = "investment"
	// TransactionTypeMoMoDeposit is a mobile-money deposit routed to the
	// platform's collection number.
	TransactionTypeMoMoDeposit TransactionType = "momo_deposit"
	// TransactionTypeMobileWithdrawal is a payout sent to the user's
	// mobile-money number.
	TransactionTypeMobileWithdrawal TransactionType = "mobile_withdrawal"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is a single entry in a user's wallet ledger.
// Amount is in minor units of XAF and is always positive; Type determines
// the direction.
type Transaction struct {
	ID     TransactionID `json:"id"`
	UserID UserID        `json:"userId"`

	Type   TransactionType   `json:"type"`
	Status TransactionStatus `json:"status"`
	Amount int64             `json:"amount"`

	// ProjectID and ProjectTitle are set for investment transactions.
	ProjectID    ProjectID `json:"projectId,omitempty"`
	ProjectTitle string    `json:"projectTitle,omitempty"`

	// Provider and PhoneNumber are set for mobile-money transactions.
	Provider    MoMoProvider `json:"provider,omitempty"`
	PhoneNumber string       `json:"phoneNumber,omitempty"`
	// Reference is the human-facing transfer reference (e.g. WFD20240101093000).
	Reference string `json:"reference,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"-"`
}

// MoMoProvider identifies a mobile-money rail.
type MoMoProvider string

const (
	MoMoProviderMPesa       MoMoProvider = "mpesa"
	MoMoProviderOrangeMoney MoMoProvider = "orange_money"
	MoMoProviderMTNMoney    MoMoProvider = "mtn_money"
)

// ValidMoMoProvider reports whether p names a supported rail.
func ValidMoMoProvider(p MoMoProvider) bool {
	switch p {
	case MoMoProviderMPesa, MoMoProviderOrangeMoney, MoMoProviderMTNMoney:
		return true
	}

	return false
}

// TransferID uniquely identifies a mobile-money transfer record.
type TransferID uuid.UUID

// TransferDirection distinguishes money flowing into the collection number
// from money flowing out of it.
type TransferDirection string

const (
	// TransferDirectionIn is a user deposit into the platform's number.
	TransferDirectionIn TransferDirection = "in"
	// TransferDirectionOut is a payout or a sweep to the bank.
	TransferDirectionOut TransferDirection = "out"
)

// Transfer records the movement of funds over a mobile-money rail, always
// with the platform's collection number on one side.
type Transfer struct {
	ID     TransferID `json:"id"`
	UserID UserID     `json:"userId,omitempty"`

	Direction TransferDirection `json:"direction"`
	FromPhone string            `json:"fromPhone"`
	ToPhone   string            `json:"toPhone"`
	Amount    int64             `json:"amount"`
	Provider  MoMoProvider      `json:"provider"`
	Reference string            `json:"reference"`
	Status    TransactionStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`

	CreatedAt   time.Time `json:"createdAt"`
	ProcessedAt time.Time `json:"processedAt,omitempty"`
}
