package postgres_test

import (
	"context"
	"testing"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_StoreUser_DuplicateEmail(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	storeTestUser(t, pg, "dup@example.com", 0)

	_, err := pg.StoreUser(context.Background(), domain.User{
		Name:              "Other User",
		Email:             "dup@example.com",
		PasswordHash:      "x",
		Age:               30,
		Role:              domain.RoleMember,
		KYCStatus:         domain.KYCStatusNotSubmitted,
		VerificationLevel: domain.VerificationLevelUnverified,
	})
	require.ErrorIs(t, err, storage.ErrDuplicate)
}

func TestPgSQL_UserByEmail_NotFound(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := pg.UserByEmail(context.Background(), "missing@example.com")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestPgSQL_DebitWallet_InsufficientBalance(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "debit@example.com", 500)

	// covered debit succeeds
	updated, err := pg.DebitWallet(ctx, user.ID, 300)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.EqualValues(t, 200, updated.WalletBalance)

	// uncovered debit does not apply
	updated, err = pg.DebitWallet(ctx, user.ID, 300)
	require.NoError(t, err)
	require.Nil(t, updated)

	// balance unchanged
	fresh, err := pg.UserByID(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 200, fresh.WalletBalance)
}

func TestPgSQL_CreditWallet(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "credit@example.com", 100)

	updated, err := pg.CreditWallet(ctx, user.ID, 400)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.EqualValues(t, 500, updated.WalletBalance)
}

func TestPgSQL_ApplyInvestment(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "invest@example.com", 1000)

	updated, err := pg.ApplyInvestment(ctx, user.ID, 600, 0)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.EqualValues(t, 400, updated.WalletBalance)
	require.EqualValues(t, 600, updated.TotalInvested)

	// second investment above the remaining balance does not apply
	updated, err = pg.ApplyInvestment(ctx, user.ID, 600, 0)
	require.NoError(t, err)
	require.Nil(t, updated)
}

func TestPgSQL_ApplyInvestment_CapCondition(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "capped@example.com", 10_000)

	// within the cap
	updated, err := pg.ApplyInvestment(ctx, user.ID, 600, 1_000)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.EqualValues(t, 600, updated.TotalInvested)

	// the balance covers this one, but the cap does not
	updated, err = pg.ApplyInvestment(ctx, user.ID, 600, 1_000)
	require.NoError(t, err)
	require.Nil(t, updated)

	// neither the balance nor the total moved
	fresh, err := pg.UserByID(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 9_400, fresh.WalletBalance)
	require.EqualValues(t, 600, fresh.TotalInvested)

	// zero cap means unlimited
	updated, err = pg.ApplyInvestment(ctx, user.ID, 600, 0)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.EqualValues(t, 1_200, updated.TotalInvested)
}

func TestPgSQL_UpdateUser_PartialFields(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "update@example.com", 0)

	blocked := true
	updated, err := pg.UpdateUser(ctx, user.ID, storage.UserUpdates{Blocked: &blocked})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.True(t, updated.Blocked)
	// untouched fields survive
	require.Equal(t, user.Email, updated.Email)
	require.Equal(t, user.Name, updated.Name)
}

func TestPgSQL_Users_Pagination(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		storeTestUser(t, pg, email, 0)
	}

	page, err := pg.Users(ctx, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, page.Users, 2)
	require.NotNil(t, page.NextCursor)

	rest, err := pg.Users(ctx, *page.NextCursor, 2)
	require.NoError(t, err)
	require.NotEmpty(t, rest.Users)
	require.Nil(t, rest.NextCursor)
}
