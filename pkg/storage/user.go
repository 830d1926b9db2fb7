package storage

import (
	"context"
	"time"

	"wefund/pkg/domain"
)

// UserUpdates describes a set of optional fields that can be applied to an
// existing user during an update. Only non-nil fields will be updated.
type UserUpdates struct {
	Name        *string
	Age         *int
	PhoneNumber *string

	Verified      *bool
	EmailVerified *bool
	PhoneVerified *bool
	Blocked       *bool

	KYCStatus         domain.KYCStatus
	VerificationLevel domain.VerificationLevel
}

// UserFilter narrows user counts for analytics queries. Zero-valued fields
// are ignored.
type UserFilter struct {
	// Verified restricts the count to (un)verified users when non-nil.
	Verified *bool
	// CreatedBefore counts users registered strictly before the given time.
	CreatedBefore time.Time
	// UpdatedSince approximates activity: users whose row changed since the
	// given time.
	UpdatedSince time.Time
}

// UserPage groups a page of users together with an optional NextCursor used
// for pagination.
type UserPage struct {
	Users      []domain.User
	NextCursor *time.Time
}

// UserStorage defines CRUD and query operations related to users and their
// wallets. Wallet mutations are conditional updates: they only apply when the
// row exists and, for debits, when the balance covers the amount, so callers
// can rely on them to enforce the non-negative balance invariant.
type UserStorage interface {
	// StoreUser inserts a new user and returns the stored row. Returns
	// ErrDuplicate when the email is already registered.
	StoreUser(ctx context.Context, user domain.User) (*domain.User, error)
	// UserByID fetches a user by ID, excluding soft-deleted rows. Returns nil
	// when not found.
	UserByID(ctx context.Context, ID domain.UserID) (*domain.User, error)
	// UserByEmail fetches a user by email, excluding soft-deleted rows. Returns
	// nil when not found.
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateUser applies the provided field set to a user and returns the
	// updated row, or nil when the user does not exist.
	UpdateUser(ctx context.Context, ID domain.UserID, updates UserUpdates) (*domain.User, error)
	// CreditWallet atomically adds amount to the user's wallet balance and
	// returns the updated row, or nil when the user does not exist.
	CreditWallet(ctx context.Context, ID domain.UserID, amount int64) (*domain.User, error)
	// DebitWallet atomically subtracts amount from the user's wallet balance.
	// The update only applies when the balance covers the amount; nil is
	// returned when it does not (or the user does not exist).
	DebitWallet(ctx context.Context, ID domain.UserID, amount int64) (*domain.User, error)
	// ApplyInvestment debits the wallet and credits total_invested in one
	// conditional update, with the same semantics as DebitWallet. The update
	// additionally requires total_invested + amount to stay within capLimit;
	// a capLimit of zero means unlimited.
	ApplyInvestment(ctx context.Context, ID domain.UserID, amount, capLimit int64) (*domain.User, error)
	// Users returns a page of users created before the optional cursor time,
	// newest first, limited by the given limit.
	Users(ctx context.Context, cursor time.Time, limit uint) (UserPage, error)
	// CountUsers returns the number of users matching the filter.
	CountUsers(ctx context.Context, filter UserFilter) (int64, error)
}
