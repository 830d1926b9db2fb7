package storage

import (
	"context"
	"time"

	"wefund/pkg/domain"
)

// ProjectUpdates describes a set of optional fields that can be applied to an
// existing project during an update. Only non-nil fields will be updated.
type ProjectUpdates struct {
	Status   domain.ProjectStatus
	Verified *bool
	Blocked  *bool
	// Review, when provided, stores the vetting outcome fields.
	Review *domain.Review
}

// ProjectListFilter selects which projects a listing query returns.
type ProjectListFilter struct {
	// PublicOnly restricts results to verified, unblocked, non-pending projects.
	PublicOnly bool
	// Statuses, when non-empty, restricts results to the given statuses.
	Statuses []domain.ProjectStatus
	// Category, when non-empty, restricts results to one category.
	Category string
}

// ProjectPage groups a page of projects together with an optional NextCursor
// used for pagination.
type ProjectPage struct {
	Projects   []domain.Project
	NextCursor *time.Time
}

// ProjectStorage defines CRUD and query operations related to projects and
// investments. ApplyFunding is the single mutation used on the investment
// path and carries the funding invariants.
type ProjectStorage interface {
	// StoreProject inserts a new project and returns the stored row.
	StoreProject(ctx context.Context, project domain.Project) (*domain.Project, error)
	// ProjectByID fetches a project by ID, excluding soft-deleted rows. Returns
	// nil when not found.
	ProjectByID(ctx context.Context, ID domain.ProjectID) (*domain.Project, error)
	// Projects returns a page of projects matching the filter, newest first.
	Projects(ctx context.Context, filter ProjectListFilter, cursor time.Time, limit uint) (ProjectPage, error)
	// UpdateProject applies the provided field set and returns the updated row,
	// or nil when the project does not exist.
	UpdateProject(ctx context.Context, ID domain.ProjectID, updates ProjectUpdates) (*domain.Project, error)
	// ApplyFunding adds amount to funded_amount and bumps the investor count in
	// one conditional update that only applies while the project is open; the
	// status flips to funded in the same statement when the goal is reached.
	// Returns nil when the project is not open (or does not exist).
	ApplyFunding(ctx context.Context, ID domain.ProjectID, amount int64) (*domain.Project, error)
	// DeleteProject performs a soft delete and returns the deleted project, or
	// nil if it was not found.
	DeleteProject(ctx context.Context, ID domain.ProjectID) (*domain.Project, error)
	// CountProjects returns the number of projects with the given statuses, or
	// all projects when statuses is empty.
	CountProjects(ctx context.Context, statuses ...domain.ProjectStatus) (int64, error)

	// StoreInvestment records a single investment into a project.
	StoreInvestment(ctx context.Context, investment domain.Investment) (*domain.Investment, error)
}
