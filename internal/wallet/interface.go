package wallet

import (
	"context"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/momo"
	"wefund/pkg/storage"
)

// Notifier delivers in-app notifications raised by wallet events.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
}

// MoMoStats summarizes the money that has moved over the collection number.
type MoMoStats struct {
	TotalIn      int64 `json:"totalIn"`
	TotalOut     int64 `json:"totalOut"`
	Net          int64 `json:"net"`
	PendingCount int64 `json:"pendingCount"`
}

//go:generate mockgen -package mockwallet -source=interface.go -destination=mock/mockwallet.go *
type Wallet interface {
	// Deposit credits the wallet directly and records a completed transaction.
	Deposit(ctx context.Context, user domain.User, amount int64) (*domain.Transaction, error)
	// Withdraw debits the wallet directly and records a completed transaction.
	Withdraw(ctx context.Context, user domain.User, amount int64) (*domain.Transaction, error)
	// Transactions returns a page of the user's ledger, newest first,
	// optionally narrowed to the given types.
	Transactions(ctx context.Context, userID domain.UserID,
		types []domain.TransactionType, cursor time.Time, limit uint) (storage.TransactionPage, error)

	// MoMoDeposit starts a mobile-money deposit: it records a pending
	// transaction plus its transfer and returns the instructions for sending
	// the money to the collection number. The wallet is only credited once an
	// admin confirms the money arrived.
	MoMoDeposit(ctx context.Context, user domain.User, amount int64,
		phoneNumber string, provider domain.MoMoProvider) (*domain.Transaction, momo.DepositInstructions, error)
	// MoMoWithdraw starts a mobile-money payout: the wallet is debited up
	// front and the payout is queued for processing.
	MoMoWithdraw(ctx context.Context, user domain.User, amount int64,
		phoneNumber string, provider domain.MoMoProvider) (*domain.Transaction, error)
	// DepositInstructions returns the generic instructions for sending money
	// to the collection number, before any deposit is started.
	DepositInstructions(ctx context.Context) (momo.DepositInstructions, error)

	// ConfirmMoMo settles a pending mobile-money transaction by reference.
	// Deposits credit the wallet at this point, exactly once.
	ConfirmMoMo(ctx context.Context, reference, notes string) (*domain.Transaction, error)
	// RejectMoMo fails a pending mobile-money transaction by reference.
	// Withdrawals are refunded to the wallet.
	RejectMoMo(ctx context.Context, reference, notes string) (*domain.Transaction, error)

	// MoMoTransfers lists transfer records for the admin surface.
	MoMoTransfers(ctx context.Context, direction domain.TransferDirection,
		cursor time.Time, limit uint) ([]domain.Transfer, error)
	// MoMoStats totals completed transfers per direction.
	MoMoStats(ctx context.Context) (MoMoStats, error)
	// TransferToBank records a sweep from the collection number to the bank.
	// Disabled unless bank transfers are enabled in config.
	TransferToBank(ctx context.Context, amount int64, notes string) (*domain.Transfer, error)
}
