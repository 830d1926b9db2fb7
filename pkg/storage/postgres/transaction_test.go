package postgres_test

import (
	"context"
	"testing"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_MarkTransactionCompleted_OnlyOnce(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "momo@example.com", 0)

	tx, err := pg.StoreTransaction(ctx, domain.Transaction{
		UserID:      user.ID,
		Type:        domain.TransactionTypeMoMoDeposit,
		Status:      domain.TransactionStatusPending,
		Amount:      1500,
		Provider:    domain.MoMoProviderMTNMoney,
		PhoneNumber: "670000001",
		Reference:   "WFD20240101093000",
	})
	require.NoError(t, err)
	require.NotNil(t, tx)

	completed, err := pg.MarkTransactionCompleted(ctx, tx.ID, "confirmed")
	require.NoError(t, err)
	require.NotNil(t, completed)
	require.Equal(t, domain.TransactionStatusCompleted, completed.Status)
	require.Equal(t, "confirmed", completed.Notes)

	// a second confirmation does not apply
	completed, err = pg.MarkTransactionCompleted(ctx, tx.ID, "again")
	require.NoError(t, err)
	require.Nil(t, completed)
}

func TestPgSQL_StoreTransaction_DuplicateReference(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "ref@example.com", 0)

	base := domain.Transaction{
		UserID:    user.ID,
		Type:      domain.TransactionTypeMoMoDeposit,
		Status:    domain.TransactionStatusPending,
		Amount:    1000,
		Reference: "WFD20240101100000",
	}

	_, err := pg.StoreTransaction(ctx, base)
	require.NoError(t, err)

	_, err = pg.StoreTransaction(ctx, base)
	require.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestPgSQL_Transactions_FilterByType(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "filter@example.com", 0)

	for _, txType := range []domain.TransactionType{
		domain.TransactionTypeDeposit,
		domain.TransactionTypeWithdraw,
		domain.TransactionTypeDeposit,
	} {
		_, err := pg.StoreTransaction(ctx, domain.Transaction{
			UserID: user.ID,
			Type:   txType,
			Status: domain.TransactionStatusCompleted,
			Amount: 100,
		})
		require.NoError(t, err)
	}

	page, err := pg.Transactions(ctx, storage.TransactionFilter{
		UserID: user.ID,
		Types:  []domain.TransactionType{domain.TransactionTypeDeposit},
	}, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	for _, tx := range page.Transactions {
		require.Equal(t, domain.TransactionTypeDeposit, tx.Type)
	}
}

func TestPgSQL_SumTransactions(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "sum@example.com", 0)

	for _, amount := range []int64{100, 250, 400} {
		_, err := pg.StoreTransaction(ctx, domain.Transaction{
			UserID: user.ID,
			Type:   domain.TransactionTypeDeposit,
			Status: domain.TransactionStatusCompleted,
			Amount: amount,
		})
		require.NoError(t, err)
	}

	total, count, err := pg.SumTransactions(ctx, storage.TransactionFilter{
		Types:  []domain.TransactionType{domain.TransactionTypeDeposit},
		Status: domain.TransactionStatusCompleted,
	})
	require.NoError(t, err)
	require.EqualValues(t, 750, total)
	require.EqualValues(t, 3, count)
}

func TestPgSQL_FinancialSeries_Monthly(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "series@example.com", 0)

	_, err := pg.StoreTransaction(ctx, domain.Transaction{
		UserID: user.ID,
		Type:   domain.TransactionTypeDeposit,
		Status: domain.TransactionStatusCompleted,
		Amount: 500,
	})
	require.NoError(t, err)
	_, err = pg.StoreTransaction(ctx, domain.Transaction{
		UserID: user.ID,
		Type:   domain.TransactionTypeInvestment,
		Status: domain.TransactionStatusCompleted,
		Amount: 200,
	})
	require.NoError(t, err)

	buckets, err := pg.FinancialSeries(ctx, domain.FinancialPeriodMonthly, time.Time{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.EqualValues(t, 500, buckets[0].Deposits)
	require.EqualValues(t, 200, buckets[0].Investments)
	require.EqualValues(t, 2, buckets[0].TransactionCount)
}

func TestPgSQL_MarkTransferProcessed_OnlyWhilePending(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "transfer@example.com", 0)

	stored, err := pg.StoreTransfer(ctx, domain.Transfer{
		UserID:    user.ID,
		Direction: domain.TransferDirectionIn,
		FromPhone: "670000001",
		ToPhone:   "678394294",
		Amount:    2500,
		Provider:  domain.MoMoProviderMTNMoney,
		Reference: "WFD20240102110000",
		Status:    domain.TransactionStatusPending,
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	processed, err := pg.MarkTransferProcessed(ctx, stored.Reference, domain.TransactionStatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, processed)
	require.Equal(t, domain.TransactionStatusCompleted, processed.Status)
	require.False(t, processed.ProcessedAt.IsZero())

	// settled transfers stay settled
	processed, err = pg.MarkTransferProcessed(ctx, stored.Reference, domain.TransactionStatusFailed)
	require.NoError(t, err)
	require.Nil(t, processed)

	// unknown references are a no-op
	processed, err = pg.MarkTransferProcessed(ctx, "WFD00000000000000", domain.TransactionStatusCompleted)
	require.NoError(t, err)
	require.Nil(t, processed)
}
