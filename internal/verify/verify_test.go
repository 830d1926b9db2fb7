package verify_test

import (
	"context"
	"testing"
	"time"

	"wefund/internal/storagetest"
	"wefund/internal/verify"
	"wefund/pkg/domain"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to, subject, body string
}

// emailRecorder captures outbound email instead of enqueueing it.
type emailRecorder struct {
	sent []sentEmail
}

func (r *emailRecorder) Email(_ context.Context, to, subject, body string) error {
	r.sent = append(r.sent, sentEmail{to: to, subject: subject, body: body})

	return nil
}

func testOptions() verify.Options {
	return verify.Options{VerifyURL: "https://wefund.example/v1/verification/email"}
}

func TestVerifier_SendEmailVerification(t *testing.T) {
	var stored *domain.VerificationToken
	fake := &storagetest.FakeStorage{
		StoreVerificationTokenFunc: func(_ context.Context,
			token domain.VerificationToken,
		) (*domain.VerificationToken, error) {
			stored = &token

			return &token, nil
		},
	}
	recorder := &emailRecorder{}
	v := verify.New(fake, recorder, testOptions())

	err := v.SendEmailVerification(context.Background(), domain.User{
		ID:    domain.UserID(uuid.New()),
		Name:  "Jane",
		Email: "jane@example.com",
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	require.Equal(t, domain.VerificationKindEmail, stored.Kind)
	require.Len(t, stored.Token, 64)

	require.Len(t, recorder.sent, 1)
	require.Equal(t, "jane@example.com", recorder.sent[0].to)
	// the link must carry the token as a query parameter, which is how the
	// confirm endpoint reads it
	require.Contains(t, recorder.sent[0].body, testOptions().VerifyURL+"?token="+stored.Token)
}

func TestVerifier_SendEmailVerification_AlreadyVerified(t *testing.T) {
	v := verify.New(&storagetest.FakeStorage{}, &emailRecorder{}, testOptions())

	err := v.SendEmailVerification(context.Background(), domain.User{EmailVerified: true})
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestVerifier_SendEmailVerification_Cooldown(t *testing.T) {
	fake := &storagetest.FakeStorage{
		LatestTokenFunc: func(context.Context,
			domain.UserID, domain.VerificationKind,
		) (*domain.VerificationToken, error) {
			return &domain.VerificationToken{CreatedAt: time.Now().Add(-10 * time.Second)}, nil
		},
	}
	v := verify.New(fake, &emailRecorder{}, testOptions())

	err := v.SendEmailVerification(context.Background(), domain.User{Email: "jane@example.com"})
	require.ErrorIs(t, err, serrors.ErrRateLimited)
}

func TestVerifier_ConfirmEmail(t *testing.T) {
	userID := domain.UserID(uuid.New())
	fake := &storagetest.FakeStorage{
		ConsumeTokenFunc: func(_ context.Context,
			kind domain.VerificationKind, token string,
		) (*domain.VerificationToken, error) {
			if kind == domain.VerificationKindEmail && token == "good-token" {
				return &domain.VerificationToken{UserID: userID}, nil
			}

			return nil, nil
		},
		UpdateUserFunc: func(_ context.Context,
			id domain.UserID, updates storage.UserUpdates,
		) (*domain.User, error) {
			require.Equal(t, userID, id)
			require.NotNil(t, updates.EmailVerified)
			require.True(t, *updates.EmailVerified)

			return &domain.User{ID: id, EmailVerified: true}, nil
		},
	}
	v := verify.New(fake, &emailRecorder{}, testOptions())

	user, err := v.ConfirmEmail(context.Background(), "good-token")
	require.NoError(t, err)
	require.True(t, user.EmailVerified)

	_, err = v.ConfirmEmail(context.Background(), "bad-token")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestVerifier_ConfirmPhoneCode(t *testing.T) {
	userID := domain.UserID(uuid.New())
	tokenID := domain.VerificationTokenID(uuid.New())
	attempts := 0

	fake := &storagetest.FakeStorage{
		LatestTokenFunc: func(context.Context,
			domain.UserID, domain.VerificationKind,
		) (*domain.VerificationToken, error) {
			return &domain.VerificationToken{
				ID:        tokenID,
				UserID:    userID,
				Kind:      domain.VerificationKindPhone,
				Token:     "123456",
				Attempts:  attempts,
				ExpiresAt: time.Now().Add(domain.PhoneCodeTTL),
			}, nil
		},
		IncrementTokenAttemptsFunc: func(context.Context, domain.VerificationTokenID) (int, error) {
			attempts++

			return attempts, nil
		},
		ConsumeTokenFunc: func(_ context.Context,
			_ domain.VerificationKind, token string,
		) (*domain.VerificationToken, error) {
			if token == "123456" {
				return &domain.VerificationToken{UserID: userID}, nil
			}

			return nil, nil
		},
		UpdateUserFunc: func(_ context.Context,
			id domain.UserID, updates storage.UserUpdates,
		) (*domain.User, error) {
			require.NotNil(t, updates.PhoneVerified)

			return &domain.User{ID: id, PhoneVerified: true}, nil
		},
	}
	v := verify.New(fake, &emailRecorder{}, testOptions())

	_, err := v.ConfirmPhoneCode(context.Background(), userID, "000000")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Equal(t, 1, attempts)

	user, err := v.ConfirmPhoneCode(context.Background(), userID, "123456")
	require.NoError(t, err)
	require.True(t, user.PhoneVerified)
}

func TestVerifier_ConfirmPhoneCode_AttemptBudget(t *testing.T) {
	userID := domain.UserID(uuid.New())
	fake := &storagetest.FakeStorage{
		LatestTokenFunc: func(context.Context,
			domain.UserID, domain.VerificationKind,
		) (*domain.VerificationToken, error) {
			return &domain.VerificationToken{
				UserID:    userID,
				Token:     "123456",
				Attempts:  domain.MaxCodeAttempts - 1,
				ExpiresAt: time.Now().Add(time.Minute),
			}, nil
		},
		IncrementTokenAttemptsFunc: func(context.Context, domain.VerificationTokenID) (int, error) {
			return domain.MaxCodeAttempts, nil
		},
	}
	v := verify.New(fake, &emailRecorder{}, testOptions())

	_, err := v.ConfirmPhoneCode(context.Background(), userID, "999999")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
	require.Contains(t, err.Error(), "too many wrong codes")
}

func TestVerifier_ConfirmPhoneCode_Expired(t *testing.T) {
	fake := &storagetest.FakeStorage{
		LatestTokenFunc: func(context.Context,
			domain.UserID, domain.VerificationKind,
		) (*domain.VerificationToken, error) {
			return &domain.VerificationToken{
				Token:     "123456",
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil
		},
	}
	v := verify.New(fake, &emailRecorder{}, testOptions())

	_, err := v.ConfirmPhoneCode(context.Background(), domain.UserID(uuid.New()), "123456")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestVerifier_Status(t *testing.T) {
	userID := domain.UserID(uuid.New())
	fake := &storagetest.FakeStorage{
		UserByIDFunc: func(context.Context, domain.UserID) (*domain.User, error) {
			return &domain.User{
				ID:                userID,
				EmailVerified:     true,
				KYCStatus:         domain.KYCStatusApproved,
				VerificationLevel: domain.VerificationLevelVerified,
			}, nil
		},
	}
	v := verify.New(fake, &emailRecorder{}, testOptions())

	status, err := v.Status(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, status.EmailVerified)
	require.False(t, status.PhoneVerified)
	require.Equal(t, domain.VerificationLevelVerified, status.Level)
}
