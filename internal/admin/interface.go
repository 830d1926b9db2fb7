package admin

import (
	"context"
	"io"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"
)

// Notifier delivers notifications and outbound email raised by admin actions.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	Email(ctx context.Context, to, subject, body string) error
}

// ReportKind selects which CSV report to produce.
type ReportKind string

const (
	ReportKindUsers        ReportKind = "users"
	ReportKindProjects     ReportKind = "projects"
	ReportKindTransactions ReportKind = "transactions"
)

// Dashboard is the combined admin landing view.
type Dashboard struct {
	Stats domain.PlatformStats `json:"stats"`
	// Recent is the latest transactions across the platform.
	Recent []domain.Transaction `json:"recentTransactions"`
	// PendingKYC is how many KYC submissions await review.
	PendingKYC int `json:"pendingKyc"`
}

//go:generate mockgen -package mockadmin -source=interface.go -destination=mock/mockadmin.go *
type Admin interface {
	// Users returns a page of all accounts, newest first.
	Users(ctx context.Context, cursor time.Time, limit uint) (storage.UserPage, error)
	// SetUserVerified grants or revokes the account verification flag.
	SetUserVerified(ctx context.Context, ID domain.UserID, verified bool) (*domain.User, error)
	// SetUserBlocked blocks or unblocks an account. Blocked accounts cannot
	// authenticate.
	SetUserBlocked(ctx context.Context, ID domain.UserID, blocked bool) (*domain.User, error)

	// Stats computes the live platform aggregates.
	Stats(ctx context.Context) (domain.PlatformStats, error)
	// Dashboard combines stats with recent activity.
	Dashboard(ctx context.Context) (Dashboard, error)
	// Financial buckets completed transactions by period, oldest first.
	Financial(ctx context.Context, period domain.FinancialPeriod, since time.Time) ([]domain.FinancialBucket, error)

	// SnapshotDaily persists today's stats, upserting on the day. Run by the
	// scheduler once per day.
	SnapshotDaily(ctx context.Context) (*domain.AnalyticsSnapshot, error)
	// Snapshots returns persisted daily snapshots in [since, until).
	Snapshots(ctx context.Context, since, until time.Time) ([]domain.AnalyticsSnapshot, error)

	// ReportCSV streams the requested report as CSV.
	ReportCSV(ctx context.Context, kind ReportKind, w io.Writer) error

	// EmailUser enqueues an email to one account.
	EmailUser(ctx context.Context, ID domain.UserID, subject, body string) error
	// BroadcastEmail enqueues the email for every registered account and
	// returns how many were queued.
	BroadcastEmail(ctx context.Context, subject, body string) (int, error)
}
