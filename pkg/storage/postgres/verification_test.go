package postgres_test

import (
	"context"
	"testing"
	"time"

	"wefund/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestPgSQL_ConsumeToken_SingleUse(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "verify@example.com", 0)

	_, err := pg.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindEmail,
		Token:     "abc123",
		ExpiresAt: time.Now().Add(domain.EmailTokenTTL),
	})
	require.NoError(t, err)

	consumed, err := pg.ConsumeToken(ctx, domain.VerificationKindEmail, "abc123")
	require.NoError(t, err)
	require.NotNil(t, consumed)
	require.Equal(t, user.ID, consumed.UserID)

	// second redemption fails
	consumed, err = pg.ConsumeToken(ctx, domain.VerificationKindEmail, "abc123")
	require.NoError(t, err)
	require.Nil(t, consumed)
}

func TestPgSQL_ConsumeToken_Expired(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "expired@example.com", 0)

	_, err := pg.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindPhone,
		Token:     "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	consumed, err := pg.ConsumeToken(ctx, domain.VerificationKindPhone, "123456")
	require.NoError(t, err)
	require.Nil(t, consumed)
}

func TestPgSQL_StoreVerificationToken_InvalidatesPrevious(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "resend@example.com", 0)

	_, err := pg.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindPhone,
		Token:     "111111",
		ExpiresAt: time.Now().Add(domain.PhoneCodeTTL),
	})
	require.NoError(t, err)

	_, err = pg.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindPhone,
		Token:     "222222",
		ExpiresAt: time.Now().Add(domain.PhoneCodeTTL),
	})
	require.NoError(t, err)

	// the old code no longer works
	consumed, err := pg.ConsumeToken(ctx, domain.VerificationKindPhone, "111111")
	require.NoError(t, err)
	require.Nil(t, consumed)

	// the new one does
	consumed, err = pg.ConsumeToken(ctx, domain.VerificationKindPhone, "222222")
	require.NoError(t, err)
	require.NotNil(t, consumed)
}

func TestPgSQL_IncrementTokenAttempts(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := storeTestUser(t, pg, "attempts@example.com", 0)

	token, err := pg.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindPhone,
		Token:     "333333",
		ExpiresAt: time.Now().Add(domain.PhoneCodeTTL),
	})
	require.NoError(t, err)

	for i := 1; i <= domain.MaxCodeAttempts; i++ {
		attempts, err := pg.IncrementTokenAttempts(ctx, token.ID)
		require.NoError(t, err)
		require.Equal(t, i, attempts)
	}

	// burned after too many wrong attempts
	consumed, err := pg.ConsumeToken(ctx, domain.VerificationKindPhone, "333333")
	require.NoError(t, err)
	require.Nil(t, consumed)
}
