package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationTokenID uniquely identifies an issued verification token.
type VerificationTokenID uuid.UUID

// VerificationKind distinguishes email links from phone codes.
type VerificationKind string

const (
	// VerificationKindEmail is a long random token delivered as a link.
	VerificationKindEmail VerificationKind = "email"
	// VerificationKindPhone is a short numeric code.
	VerificationKindPhone VerificationKind = "phone"
)

// Verification token lifetimes and limits.
const (
	EmailTokenTTL = 24 * time.Hour
	PhoneCodeTTL  = 10 * time.Minute
	// MaxCodeAttempts is the number of wrong phone codes tolerated before the
	// code is burned.
	MaxCodeAttempts = 5
)

// VerificationToken is a single-use email or phone verification secret.
type VerificationToken struct {
	ID     VerificationTokenID `json:"id"`
	UserID UserID              `json:"userId"`
	Kind   VerificationKind    `json:"kind"`

	// Token is the secret itself: a hex token for email, a 6-digit code for
	// phone.
	Token string `json:"-"`

	Attempts int       `json:"-"`
	Used     bool      `json:"-"`
	UsedAt   time.Time `json:"-"`

	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the token is past its lifetime at the given time.
func (t VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
