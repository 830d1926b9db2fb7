package domain

import (
	"time"

	"github.com/google/uuid"
)

// KYCRecordID uniquely identifies a KYC submission.
type KYCRecordID uuid.UUID

// KYCRecordKind distinguishes identity-information submissions from document uploads.
type KYCRecordKind string

const (
	// KYCRecordKindInformation is a structured identity submission.
	KYCRecordKindInformation KYCRecordKind = "information"
	// KYCRecordKindDocument is an uploaded identity document.
	KYCRecordKindDocument KYCRecordKind = "document"
)

// DocumentType is the kind of identity document uploaded for KYC.
type DocumentType string

const (
	DocumentTypeIDCard         DocumentType = "id_card"
	DocumentTypePassport       DocumentType = "passport"
	DocumentTypeDriversLicense DocumentType = "drivers_license"
	DocumentTypeUtilityBill    DocumentType = "utility_bill"
)

// ValidDocumentType reports whether t names a supported document kind.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocumentTypeIDCard, DocumentTypePassport, DocumentTypeDriversLicense, DocumentTypeUtilityBill:
		return true
	}

	return false
}

// ScreeningLevel is the depth of an AML screen.
type ScreeningLevel string

const (
	ScreeningLevelBasic    ScreeningLevel = "basic"
	ScreeningLevelEnhanced ScreeningLevel = "enhanced"
	ScreeningLevelFull     ScreeningLevel = "full"
)

// ScreeningResult is the outcome of an AML screen from the compliance provider.
type ScreeningResult struct {
	// RiskLevel is the provider's overall risk verdict (low, medium, high).
	RiskLevel string `json:"risk_level"`
	// SanctionsMatch reports a hit against a sanctions list.
	SanctionsMatch bool `json:"sanctions_match"`
	// PEPMatch reports a politically-exposed-person hit.
	PEPMatch bool `json:"pep_match"`
	// Recommendation is the provider's suggested action (approve, review, reject).
	Recommendation string `json:"recommendation"`
}

// KYCRecord is one compliance submission by a user, either structured
// identity information or a document upload.
type KYCRecord struct {
	ID     KYCRecordID   `json:"id"`
	UserID UserID        `json:"userId"`
	Kind   KYCRecordKind `json:"kind"`

	// Document fields, set when Kind is KYCRecordKindDocument.
	DocumentType DocumentType `json:"documentType,omitempty"`
	Country      string       `json:"country,omitempty"`

	// Identity fields, set when Kind is KYCRecordKindInformation.
	FullName    string `json:"fullName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
	IDNumber    string `json:"idNumber,omitempty"`

	Status KYCStatus `json:"status"`
	// Result holds the provider screening outcome, when one has run.
	Result *ScreeningResult `json:"result,omitempty"`

	SubmittedAt time.Time `json:"submittedAt"`
	ReviewedAt  time.Time `json:"reviewedAt,omitempty"`
	ReviewedBy  UserID    `json:"-"`
}
