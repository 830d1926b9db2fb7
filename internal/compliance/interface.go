package compliance

import (
	"context"

	"wefund/pkg/domain"
)

// Notifier delivers notifications raised by compliance decisions.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	Email(ctx context.Context, to, subject, body string) error
}

// InformationParams carries a structured identity submission.
type InformationParams struct {
	FullName    string
	DateOfBirth string
	Address     string
	IDNumber    string
	Country     string
}

// DocumentParams carries the metadata of an uploaded identity document.
type DocumentParams struct {
	Type    domain.DocumentType
	Country string
	// SizeBytes is the size of the uploaded payload, checked against the
	// configured limit.
	SizeBytes int64
}

//go:generate mockgen -package mockcompliance -source=interface.go -destination=mock/mockcompliance.go *
type Compliance interface {
	// SubmitInformation records an identity submission and runs the basic AML
	// screen against it. A sanctions hit rejects the submission outright;
	// otherwise it lands under review for an admin decision.
	SubmitInformation(ctx context.Context, user domain.User, params InformationParams) (*domain.KYCRecord, error)
	// SubmitDocument records an uploaded identity document.
	SubmitDocument(ctx context.Context, user domain.User, params DocumentParams) (*domain.KYCRecord, error)
	// Records returns the user's KYC submissions, newest first.
	Records(ctx context.Context, userID domain.UserID) ([]domain.KYCRecord, error)

	// Screen reruns the AML screen on an identity submission at the given
	// depth and stores the result.
	Screen(ctx context.Context, ID domain.KYCRecordID, level domain.ScreeningLevel) (*domain.KYCRecord, error)
	// PendingRecords returns submissions awaiting an admin decision.
	PendingRecords(ctx context.Context, limit uint) ([]domain.KYCRecord, error)
	// Decide records the admin decision on a submission. Approval marks the
	// account KYC-approved and raises its verification level.
	Decide(ctx context.Context, reviewer domain.User,
		ID domain.KYCRecordID, approve bool) (*domain.KYCRecord, error)
}
