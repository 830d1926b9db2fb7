package storage

import (
	"context"
	"time"

	"wefund/pkg/domain"
)

// TransactionFilter narrows transaction queries. Zero-valued fields are
// ignored.
type TransactionFilter struct {
	UserID domain.UserID
	Types  []domain.TransactionType
	Status domain.TransactionStatus
	// Since and Until bound CreatedAt, half-open [Since, Until).
	Since time.Time
	Until time.Time
}

// TransactionPage groups a page of transactions together with an optional
// NextCursor used for pagination.
type TransactionPage struct {
	Transactions []domain.Transaction
	NextCursor   *time.Time
}

// TransactionStorage defines the wallet ledger and mobile-money transfer
// persistence. MarkTransactionCompleted is the only settlement mutation and
// is conditional, so pending deposits can be confirmed at most once.
type TransactionStorage interface {
	// StoreTransaction inserts a new ledger entry and returns the stored row.
	// Returns ErrDuplicate when the reference is already taken.
	StoreTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	// TransactionByReference fetches a transaction by its reference. Returns nil
	// when not found.
	TransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	// MarkTransactionCompleted flips a pending transaction to completed and
	// returns the updated row. The update only applies while the transaction is
	// pending; nil is returned otherwise.
	MarkTransactionCompleted(ctx context.Context, ID domain.TransactionID, notes string) (*domain.Transaction, error)
	// MarkTransactionFailed flips a pending transaction to failed, with the same
	// conditional semantics as MarkTransactionCompleted.
	MarkTransactionFailed(ctx context.Context, ID domain.TransactionID, notes string) (*domain.Transaction, error)
	// Transactions returns a page of transactions matching the filter, newest
	// first.
	Transactions(ctx context.Context, filter TransactionFilter, cursor time.Time, limit uint) (TransactionPage, error)
	// SumTransactions returns the total amount and count of transactions
	// matching the filter.
	SumTransactions(ctx context.Context, filter TransactionFilter) (total int64, count int64, err error)
	// FinancialSeries buckets completed transactions by period and returns one
	// bucket per period that has activity, oldest first.
	FinancialSeries(ctx context.Context, period domain.FinancialPeriod, since time.Time) ([]domain.FinancialBucket, error)

	// StoreTransfer records a mobile-money transfer.
	StoreTransfer(ctx context.Context, transfer domain.Transfer) (*domain.Transfer, error)
	// MarkTransferProcessed settles a pending transfer by reference and returns
	// the updated row. The update only applies while the transfer is pending;
	// nil is returned otherwise.
	MarkTransferProcessed(ctx context.Context, reference string, status domain.TransactionStatus) (*domain.Transfer, error)
	// Transfers returns transfers in the given direction, newest first, or all
	// directions when direction is empty.
	Transfers(ctx context.Context, direction domain.TransferDirection, cursor time.Time, limit uint) ([]domain.Transfer, error)
	// SumTransfers returns the total amount of completed transfers in the given
	// direction.
	SumTransfers(ctx context.Context, direction domain.TransferDirection) (int64, error)
}
