package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID uniquely identifies a user within the system.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// Role determines what a user is allowed to do.
type Role string

const (
	// RoleMember is the default role assigned at registration.
	RoleMember Role = "member"
	// RoleAdmin grants access to the admin surface (user management, vetting, analytics).
	RoleAdmin Role = "admin"
)

// KYCStatus tracks where a user is in the compliance pipeline.
type KYCStatus string

const (
	KYCStatusNotSubmitted KYCStatus = "not_submitted"
	KYCStatusPending      KYCStatus = "pending"
	KYCStatusUnderReview  KYCStatus = "under_review"
	KYCStatusApproved     KYCStatus = "approved"
	KYCStatusRejected     KYCStatus = "rejected"
)

// VerificationLevel gates how much a user may invest.
type VerificationLevel string

const (
	VerificationLevelUnverified VerificationLevel = "unverified"
	VerificationLevelVerified   VerificationLevel = "verified"
	VerificationLevelPremium    VerificationLevel = "premium"
)

// MinRegistrationAge is the youngest age accepted at registration.
const MinRegistrationAge = 15

// User is a platform account. Monetary fields are in minor units of XAF
// (which has no subunit, so 1 == 1 XAF).
type User struct {
	// ID is the unique identifier of the user.
	ID UserID `json:"id"`

	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Age          int    `json:"age"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Role         Role   `json:"role"`

	// WalletBalance is the user's spendable platform balance.
	WalletBalance int64 `json:"walletBalance"`
	// TotalInvested accumulates every completed investment.
	TotalInvested int64 `json:"totalInvested"`
	// TotalReturns accumulates payouts credited back to the user.
	TotalReturns int64 `json:"totalReturns"`

	// Verified reflects the admin-granted account verification flag.
	Verified      bool `json:"verified"`
	EmailVerified bool `json:"emailVerified"`
	PhoneVerified bool `json:"phoneVerified"`

	KYCStatus         KYCStatus         `json:"kycStatus"`
	VerificationLevel VerificationLevel `json:"verificationLevel"`

	// Blocked accounts cannot authenticate.
	Blocked bool `json:"-"`

	CreatedAt time.Time `json:"memberSince"`
	UpdatedAt time.Time `json:"-"`
	DeletedAt time.Time `json:"-"`
}
