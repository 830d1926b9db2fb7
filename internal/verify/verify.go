// Package verify implements email and phone verification: issuing tokens,
// delivering them and confirming them.
package verify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"wefund/internal/config"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"go.uber.org/zap"
)

// resendCooldown throttles how often a fresh token can be requested.
const resendCooldown = time.Minute

// Options contains the configurable parameters of the verifier.
type Options struct {
	// VerifyURL is the base link embedded in verification emails; the token
	// is appended as a query parameter.
	VerifyURL string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		VerifyURL: cfg.PublicBaseURL + "/v1/verification/email",
	}
}

type verifier struct {
	storage storage.Storage
	email   EmailSender
	options Options
}

func (v *verifier) SendEmailVerification(ctx context.Context, user domain.User) error {
	if user.EmailVerified {
		return serrors.With(serrors.ErrConflict, "email is already verified")
	}
	if err := v.checkCooldown(ctx, user.ID, domain.VerificationKindEmail); err != nil {
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("could not generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	_, err := v.storage.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindEmail,
		Token:     token,
		ExpiresAt: time.Now().Add(domain.EmailTokenTTL),
	})
	if err != nil {
		return fmt.Errorf("could not store verification token: %w", err)
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nConfirm your email address by opening the link below:\n\n%s?token=%s\n\n"+
			"The link expires in 24 hours. If you did not create an account, ignore this email.",
		user.Name, v.options.VerifyURL, token)

	return v.email.Email(ctx, user.Email, "Verify your WeFund email", body)
}

func (v *verifier) ConfirmEmail(ctx context.Context, token string) (*domain.User, error) {
	consumed, err := v.storage.ConsumeToken(ctx, domain.VerificationKindEmail, token)
	if err != nil {
		return nil, fmt.Errorf("could not consume token: %w", err)
	}
	if consumed == nil {
		return nil, serrors.With(serrors.ErrBadRequest, "invalid or expired verification link")
	}

	verified := true
	user, err := v.storage.UpdateUser(ctx, consumed.UserID, storage.UserUpdates{EmailVerified: &verified})
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}

	return user, nil
}

func (v *verifier) SendPhoneCode(ctx context.Context, user domain.User) error {
	if user.PhoneNumber == "" {
		return serrors.With(serrors.ErrBadRequest, "no phone number on file")
	}
	if user.PhoneVerified {
		return serrors.With(serrors.ErrConflict, "phone is already verified")
	}
	if err := v.checkCooldown(ctx, user.ID, domain.VerificationKindPhone); err != nil {
		return err
	}

	code, err := sixDigitCode()
	if err != nil {
		return fmt.Errorf("could not generate code: %w", err)
	}

	_, err = v.storage.StoreVerificationToken(ctx, domain.VerificationToken{
		UserID:    user.ID,
		Kind:      domain.VerificationKindPhone,
		Token:     code,
		ExpiresAt: time.Now().Add(domain.PhoneCodeTTL),
	})
	if err != nil {
		return fmt.Errorf("could not store verification code: %w", err)
	}

	// No SMS rail is wired up yet, so the code only lands in the logs.
	// TODO: deliver the code through an SMS provider once one is contracted.
	logger.Info(ctx, "phone verification code issued",
		zap.String("phone", user.PhoneNumber))

	return nil
}

func (v *verifier) ConfirmPhoneCode(ctx context.Context, userID domain.UserID, code string) (*domain.User, error) {
	latest, err := v.storage.LatestToken(ctx, userID, domain.VerificationKindPhone)
	if err != nil {
		return nil, fmt.Errorf("could not fetch code: %w", err)
	}
	if latest == nil || latest.Used || latest.Expired(time.Now()) {
		return nil, serrors.With(serrors.ErrBadRequest, "no active verification code, request a new one")
	}

	if latest.Token != code {
		attempts, err := v.storage.IncrementTokenAttempts(ctx, latest.ID)
		if err != nil {
			return nil, fmt.Errorf("could not record attempt: %w", err)
		}
		if attempts >= domain.MaxCodeAttempts {
			return nil, serrors.With(serrors.ErrBadRequest, "too many wrong codes, request a new one")
		}

		return nil, serrors.With(serrors.ErrBadRequest, "wrong code")
	}

	consumed, err := v.storage.ConsumeToken(ctx, domain.VerificationKindPhone, code)
	if err != nil {
		return nil, fmt.Errorf("could not consume code: %w", err)
	}
	if consumed == nil || consumed.UserID != userID {
		return nil, serrors.With(serrors.ErrBadRequest, "no active verification code, request a new one")
	}

	verified := true
	user, err := v.storage.UpdateUser(ctx, userID, storage.UserUpdates{PhoneVerified: &verified})
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}

	return user, nil
}

func (v *verifier) Status(ctx context.Context, userID domain.UserID) (Status, error) {
	user, err := v.storage.UserByID(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		return Status{}, serrors.With(serrors.ErrNotFound, "user not found")
	}

	return Status{
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		KYCStatus:     user.KYCStatus,
		Level:         user.VerificationLevel,
	}, nil
}

func (v *verifier) checkCooldown(ctx context.Context, userID domain.UserID, kind domain.VerificationKind) error {
	latest, err := v.storage.LatestToken(ctx, userID, kind)
	if err != nil {
		return fmt.Errorf("could not fetch latest token: %w", err)
	}
	if latest != nil && !latest.Used && time.Since(latest.CreatedAt) < resendCooldown {
		return serrors.With(serrors.ErrRateLimited, "a code was sent recently, try again shortly")
	}

	return nil
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

// New creates a new Verifier.
func New(storage storage.Storage, email EmailSender, options Options) Verifier {
	return &verifier{
		storage: storage,
		email:   email,
		options: options,
	}
}
