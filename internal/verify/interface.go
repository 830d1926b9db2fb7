package verify

import (
	"context"

	"wefund/pkg/domain"
)

// EmailSender delivers outbound verification email.
type EmailSender interface {
	Email(ctx context.Context, to, subject, body string) error
}

// Status summarizes how far a user has progressed through verification.
type Status struct {
	EmailVerified bool                     `json:"emailVerified"`
	PhoneVerified bool                     `json:"phoneVerified"`
	KYCStatus     domain.KYCStatus         `json:"kycStatus"`
	Level         domain.VerificationLevel `json:"verificationLevel"`
}

//go:generate mockgen -package mockverify -source=interface.go -destination=mock/mockverify.go *
type Verifier interface {
	// SendEmailVerification issues a fresh email verification token for the
	// user and enqueues the verification email. A previously issued token is
	// invalidated.
	SendEmailVerification(ctx context.Context, user domain.User) error
	// ConfirmEmail consumes an emailed token and marks the account's email as
	// verified. Tokens are single use and expire.
	ConfirmEmail(ctx context.Context, token string) (*domain.User, error)

	// SendPhoneCode issues a fresh SMS code for the user's phone number. A
	// previously issued code is invalidated.
	SendPhoneCode(ctx context.Context, user domain.User) error
	// ConfirmPhoneCode checks the code against the user's latest one and marks
	// the phone as verified. Wrong guesses count against an attempt budget
	// that burns the code when exhausted.
	ConfirmPhoneCode(ctx context.Context, userID domain.UserID, code string) (*domain.User, error)

	// Status reports the user's verification progress.
	Status(ctx context.Context, userID domain.UserID) (Status, error)
}
