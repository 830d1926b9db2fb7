package funding

import (
	"context"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"
)

// Notifier delivers in-app notifications raised by funding events.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	Email(ctx context.Context, to, subject, body string) error
}

// CreateProjectParams carries the listing payload.
type CreateProjectParams struct {
	Title         string
	Description   string
	ROI           float64
	Duration      string
	Category      string
	Image         string
	FundingGoal   int64
	MinInvestment int64
	RiskLevel     domain.RiskLevel
}

// ReviewParams carries an admin vetting decision.
type ReviewParams struct {
	Approve        bool
	Notes          string
	RiskRating     int
	ViabilityScore int
}

//go:generate mockgen -package mockfunding -source=interface.go -destination=mock/mockfunding.go *
type Funding interface {
	// CreateProject stores a new listing in pending state, awaiting vetting.
	CreateProject(ctx context.Context, owner domain.User, params CreateProjectParams) (*domain.Project, error)
	// Projects returns a page of publicly visible listings, optionally
	// filtered by category.
	Projects(ctx context.Context, category string, cursor time.Time, limit uint) (storage.ProjectPage, error)
	// Project returns one listing. Listings that are not publicly visible are
	// only returned to their owner and to admins.
	Project(ctx context.Context, viewer domain.User, ID domain.ProjectID) (*domain.Project, error)

	// Invest places the investor's money into the project: it debits the
	// wallet, grows the project's funded amount (flipping it to funded when
	// the goal is reached) and records the investment, all atomically.
	Invest(ctx context.Context, investor domain.User,
		ID domain.ProjectID, amount int64) (*domain.Investment, error)

	// AllProjects returns a page of every listing regardless of state.
	AllProjects(ctx context.Context, cursor time.Time, limit uint) (storage.ProjectPage, error)
	// PendingProjects returns a page of listings awaiting vetting.
	PendingProjects(ctx context.Context, cursor time.Time, limit uint) (storage.ProjectPage, error)
	// StartReview moves a pending listing to under review.
	StartReview(ctx context.Context, ID domain.ProjectID) (*domain.Project, error)
	// ReviewProject records the vetting decision. Approval opens the listing
	// for investment; either way the owner is notified.
	ReviewProject(ctx context.Context, reviewer domain.User,
		ID domain.ProjectID, params ReviewParams) (*domain.Project, error)
	// SetProjectBlocked hides or unhides a listing from the public surface.
	SetProjectBlocked(ctx context.Context, ID domain.ProjectID, blocked bool) (*domain.Project, error)

	// DeleteProject soft deletes a listing. Only the owner or an admin may
	// delete, and only while nothing has been invested.
	DeleteProject(ctx context.Context, actor domain.User, ID domain.ProjectID) error
}
