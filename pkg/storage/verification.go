package storage

import (
	"context"

	"wefund/pkg/domain"
)

// VerificationStorage defines persistence for single-use email and phone
// verification tokens. Consume operations are conditional updates so a token
// can only ever be redeemed once.
type VerificationStorage interface {
	// StoreVerificationToken inserts a new token, invalidating any previous
	// unused tokens of the same kind for the user.
	StoreVerificationToken(ctx context.Context, token domain.VerificationToken) (*domain.VerificationToken, error)
	// ConsumeToken marks a matching unused, unexpired token as used and returns
	// it. Returns nil when no such token exists (wrong secret, already used or
	// expired).
	ConsumeToken(ctx context.Context, kind domain.VerificationKind, token string) (*domain.VerificationToken, error)
	// LatestToken returns the user's most recent unused token of the given
	// kind, or nil when none exists.
	LatestToken(ctx context.Context, userID domain.UserID, kind domain.VerificationKind) (*domain.VerificationToken, error)
	// IncrementTokenAttempts bumps the failed-attempt counter and returns the
	// new value.
	IncrementTokenAttempts(ctx context.Context, ID domain.VerificationTokenID) (int, error)
}
