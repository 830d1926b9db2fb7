package storage

import (
	"context"

	"wefund/pkg/domain"
)

// KYCRecordUpdates describes the review fields that can be applied to a KYC
// submission. Only non-zero fields will be updated.
type KYCRecordUpdates struct {
	Status domain.KYCStatus
	// Result stores the AML screening outcome.
	Result     *domain.ScreeningResult
	ReviewedBy domain.UserID
}

// KYCStorage defines persistence for compliance submissions.
type KYCStorage interface {
	// StoreKYCRecord inserts a new submission and returns the stored row.
	StoreKYCRecord(ctx context.Context, record domain.KYCRecord) (*domain.KYCRecord, error)
	// KYCRecordByID fetches a submission by ID. Returns nil when not found.
	KYCRecordByID(ctx context.Context, ID domain.KYCRecordID) (*domain.KYCRecord, error)
	// KYCRecordsByUser returns all of the user's submissions, newest first.
	KYCRecordsByUser(ctx context.Context, userID domain.UserID) ([]domain.KYCRecord, error)
	// LatestKYCRecord returns the user's most recent submission of the given
	// kind, or nil when none exists.
	LatestKYCRecord(ctx context.Context, userID domain.UserID, kind domain.KYCRecordKind) (*domain.KYCRecord, error)
	// UpdateKYCRecord applies review fields and returns the updated row, or nil
	// when the record does not exist.
	UpdateKYCRecord(ctx context.Context, ID domain.KYCRecordID, updates KYCRecordUpdates) (*domain.KYCRecord, error)
	// PendingKYCRecords returns submissions awaiting review, oldest first.
	PendingKYCRecords(ctx context.Context, limit uint) ([]domain.KYCRecord, error)
}
