package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID uniquely identifies a fundraising project.
type ProjectID uuid.UUID

// ProjectStatus represents the vetting and funding lifecycle of a project.
type ProjectStatus string

const (
	// ProjectStatusPending indicates the project was created but not yet reviewed.
	ProjectStatusPending ProjectStatus = "pending"
	// ProjectStatusUnderReview indicates an admin has picked the project up for vetting.
	ProjectStatusUnderReview ProjectStatus = "under_review"
	// ProjectStatusOpen indicates the project was approved and accepts investments.
	ProjectStatusOpen ProjectStatus = "open"
	// ProjectStatusFunded indicates the funding goal was reached.
	ProjectStatusFunded ProjectStatus = "funded"
	// ProjectStatusRejected indicates vetting rejected the project.
	ProjectStatusRejected ProjectStatus = "rejected"
	// ProjectStatusClosed indicates the project no longer accepts investments.
	ProjectStatusClosed ProjectStatus = "closed"
)

// RiskLevel is the coarse risk categorization shown to investors.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// Review holds the outcome of an admin vetting pass over a project.
type Review struct {
	// Notes is free-form reviewer commentary shared with the owner.
	Notes string `json:"notes"`
	// RiskRating is the reviewer's risk score on a 1-5 scale.
	RiskRating int `json:"riskRating"`
	// ViabilityScore is the reviewer's viability score on a 1-10 scale.
	ViabilityScore int `json:"viabilityScore"`
	// ReviewedBy is the admin who made the decision.
	ReviewedBy UserID    `json:"-"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// Project is a fundraising listing. Monetary fields are in minor units of XAF.
type Project struct {
	ID      ProjectID `json:"id"`
	OwnerID UserID    `json:"ownerId"`

	Title       string `json:"title"`
	Description string `json:"description"`
	// ROI is the advertised return on investment, in percent.
	ROI      float64 `json:"roi"`
	Duration string  `json:"duration"`
	Category string  `json:"category"`
	Image    string  `json:"image"`

	FundingGoal   int64 `json:"fundingGoal"`
	FundedAmount  int64 `json:"fundedAmount"`
	MinInvestment int64 `json:"minInvestment"`
	InvestorCount int   `json:"investors"`

	RiskLevel RiskLevel     `json:"riskLevel"`
	Status    ProjectStatus `json:"status"`
	Verified  bool          `json:"verified"`
	Blocked   bool          `json:"-"`

	// Review is nil until an admin has vetted the project.
	Review *Review `json:"review,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
	DeletedAt time.Time `json:"-"`
}

// Investable reports whether the project currently accepts investments.
func (p Project) Investable() bool {
	return p.Status == ProjectStatusOpen && p.Verified && !p.Blocked && p.DeletedAt.IsZero()
}

// InvestmentID uniquely identifies a single investment into a project.
type InvestmentID uuid.UUID

// Investment records one user's stake in a project.
type Investment struct {
	ID        InvestmentID `json:"id"`
	ProjectID ProjectID    `json:"projectId"`
	UserID    UserID       `json:"userId"`
	Amount    int64        `json:"amount"`
	CreatedAt time.Time    `json:"createdAt"`
}
