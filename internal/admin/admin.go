// Package admin implements the back-office surface: user management,
// platform analytics, CSV exports and the daily stats snapshot.
package admin

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// activityWindow is the lookback used to count a user as active.
const activityWindow = 30 * 24 * time.Hour

// reportPageSize is how many rows a CSV export fetches per storage round trip.
const reportPageSize = 500

type admin struct {
	storage  storage.Storage
	notifier Notifier
}

func (a *admin) Users(ctx context.Context, cursor time.Time, limit uint) (storage.UserPage, error) {
	page, err := a.storage.Users(ctx, cursor, limit)
	if err != nil {
		return storage.UserPage{}, fmt.Errorf("could not fetch users: %w", err)
	}

	return page, nil
}

func (a *admin) SetUserVerified(ctx context.Context, id domain.UserID, verified bool) (*domain.User, error) {
	user, err := a.storage.UpdateUser(ctx, id, storage.UserUpdates{Verified: &verified})
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user not found")
	}

	if verified {
		_, err := a.notifier.Notify(ctx, domain.Notification{
			UserID: user.ID,
			Title:  "Account verified",
			Body:   "Your account was verified by the WeFund team",
			Type:   domain.NotificationTypeSystem,
		})
		if err != nil {
			logger.Error(ctx, "could not notify user", zap.Error(err))
		}
	}

	return user, nil
}

func (a *admin) SetUserBlocked(ctx context.Context, id domain.UserID, blocked bool) (*domain.User, error) {
	user, err := a.storage.UpdateUser(ctx, id, storage.UserUpdates{Blocked: &blocked})
	if err != nil {
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user not found")
	}

	return user, nil
}

func (a *admin) Stats(ctx context.Context) (domain.PlatformStats, error) {
	var stats domain.PlatformStats
	var err error

	if stats.TotalUsers, err = a.storage.CountUsers(ctx, storage.UserFilter{}); err != nil {
		return stats, fmt.Errorf("could not count users: %w", err)
	}
	verified := true
	if stats.VerifiedUsers, err = a.storage.CountUsers(ctx, storage.UserFilter{
		Verified: &verified,
	}); err != nil {
		return stats, fmt.Errorf("could not count verified users: %w", err)
	}
	if stats.ActiveUsers, err = a.storage.CountUsers(ctx, storage.UserFilter{
		UpdatedSince: time.Now().Add(-activityWindow),
	}); err != nil {
		return stats, fmt.Errorf("could not count active users: %w", err)
	}

	if stats.TotalProjects, err = a.storage.CountProjects(ctx); err != nil {
		return stats, fmt.Errorf("could not count projects: %w", err)
	}
	if stats.ActiveProjects, err = a.storage.CountProjects(ctx,
		domain.ProjectStatusOpen); err != nil {
		return stats, fmt.Errorf("could not count active projects: %w", err)
	}
	if stats.PendingProjects, err = a.storage.CountProjects(ctx,
		domain.ProjectStatusPending, domain.ProjectStatusUnderReview); err != nil {
		return stats, fmt.Errorf("could not count pending projects: %w", err)
	}
	if stats.FundedProjects, err = a.storage.CountProjects(ctx,
		domain.ProjectStatusFunded); err != nil {
		return stats, fmt.Errorf("could not count funded projects: %w", err)
	}

	if stats.TotalInvestments, _, err = a.storage.SumTransactions(ctx, storage.TransactionFilter{
		Types:  []domain.TransactionType{domain.TransactionTypeInvestment},
		Status: domain.TransactionStatusCompleted,
	}); err != nil {
		return stats, fmt.Errorf("could not sum investments: %w", err)
	}
	if stats.TotalDeposits, _, err = a.storage.SumTransactions(ctx, storage.TransactionFilter{
		Types: []domain.TransactionType{
			domain.TransactionTypeDeposit,
			domain.TransactionTypeMoMoDeposit,
		},
		Status: domain.TransactionStatusCompleted,
	}); err != nil {
		return stats, fmt.Errorf("could not sum deposits: %w", err)
	}
	if stats.TotalWithdrawals, _, err = a.storage.SumTransactions(ctx, storage.TransactionFilter{
		Types: []domain.TransactionType{
			domain.TransactionTypeWithdraw,
			domain.TransactionTypeMobileWithdrawal,
		},
		Status: domain.TransactionStatusCompleted,
	}); err != nil {
		return stats, fmt.Errorf("could not sum withdrawals: %w", err)
	}

	return stats, nil
}

func (a *admin) Dashboard(ctx context.Context) (Dashboard, error) {
	stats, err := a.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	recent, err := a.storage.Transactions(ctx, storage.TransactionFilter{}, time.Time{}, 10)
	if err != nil {
		return Dashboard{}, fmt.Errorf("could not fetch recent transactions: %w", err)
	}

	pending, err := a.storage.PendingKYCRecords(ctx, 100)
	if err != nil {
		return Dashboard{}, fmt.Errorf("could not fetch pending KYC records: %w", err)
	}

	return Dashboard{
		Stats:      stats,
		Recent:     recent.Transactions,
		PendingKYC: len(pending),
	}, nil
}

func (a *admin) Financial(ctx context.Context,
	period domain.FinancialPeriod, since time.Time,
) ([]domain.FinancialBucket, error) {
	switch period {
	case domain.FinancialPeriodDaily, domain.FinancialPeriodWeekly, domain.FinancialPeriodMonthly:
	default:
		return nil, serrors.With(serrors.ErrBadRequest, "unknown period: %s", period)
	}

	series, err := a.storage.FinancialSeries(ctx, period, since)
	if err != nil {
		return nil, fmt.Errorf("could not fetch financial series: %w", err)
	}

	return series, nil
}

func (a *admin) SnapshotDaily(ctx context.Context) (*domain.AnalyticsSnapshot, error) {
	stats, err := a.Stats(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := domain.AnalyticsSnapshot{
		Day:   time.Now().UTC().Truncate(24 * time.Hour),
		Stats: stats,
	}
	if err := a.storage.StoreSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("could not store snapshot: %w", err)
	}

	return &snapshot, nil
}

func (a *admin) Snapshots(ctx context.Context, since, until time.Time) ([]domain.AnalyticsSnapshot, error) {
	snapshots, err := a.storage.Snapshots(ctx, since, until)
	if err != nil {
		return nil, fmt.Errorf("could not fetch snapshots: %w", err)
	}

	return snapshots, nil
}

func (a *admin) ReportCSV(ctx context.Context, kind ReportKind, w io.Writer) error {
	switch kind {
	case ReportKindUsers:
		return a.usersReport(ctx, w)
	case ReportKindProjects:
		return a.projectsReport(ctx, w)
	case ReportKindTransactions:
		return a.transactionsReport(ctx, w)
	default:
		return serrors.With(serrors.ErrBadRequest, "unknown report kind: %s", kind)
	}
}

func (a *admin) usersReport(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "name", "email", "role", "wallet_balance", "total_invested",
		"verified", "kyc_status", "created_at",
	}); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	cursor := time.Time{}
	for {
		page, err := a.storage.Users(ctx, cursor, reportPageSize)
		if err != nil {
			return fmt.Errorf("could not fetch users: %w", err)
		}
		for _, u := range page.Users {
			if err := cw.Write([]string{
				uuid.UUID(u.ID).String(),
				u.Name,
				u.Email,
				string(u.Role),
				strconv.FormatInt(u.WalletBalance, 10),
				strconv.FormatInt(u.TotalInvested, 10),
				strconv.FormatBool(u.Verified),
				string(u.KYCStatus),
				u.CreatedAt.UTC().Format(time.RFC3339),
			}); err != nil {
				return fmt.Errorf("could not write report: %w", err)
			}
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	cw.Flush()

	return cw.Error()
}

func (a *admin) projectsReport(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "title", "category", "status", "funding_goal", "funded_amount",
		"investors", "verified", "created_at",
	}); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	cursor := time.Time{}
	for {
		page, err := a.storage.Projects(ctx, storage.ProjectListFilter{}, cursor, reportPageSize)
		if err != nil {
			return fmt.Errorf("could not fetch projects: %w", err)
		}
		for _, p := range page.Projects {
			if err := cw.Write([]string{
				uuid.UUID(p.ID).String(),
				p.Title,
				p.Category,
				string(p.Status),
				strconv.FormatInt(p.FundingGoal, 10),
				strconv.FormatInt(p.FundedAmount, 10),
				strconv.Itoa(p.InvestorCount),
				strconv.FormatBool(p.Verified),
				p.CreatedAt.UTC().Format(time.RFC3339),
			}); err != nil {
				return fmt.Errorf("could not write report: %w", err)
			}
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	cw.Flush()

	return cw.Error()
}

func (a *admin) transactionsReport(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "user_id", "type", "status", "amount", "reference", "created_at",
	}); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}

	cursor := time.Time{}
	for {
		page, err := a.storage.Transactions(ctx, storage.TransactionFilter{}, cursor, reportPageSize)
		if err != nil {
			return fmt.Errorf("could not fetch transactions: %w", err)
		}
		for _, tx := range page.Transactions {
			if err := cw.Write([]string{
				uuid.UUID(tx.ID).String(),
				uuid.UUID(tx.UserID).String(),
				string(tx.Type),
				string(tx.Status),
				strconv.FormatInt(tx.Amount, 10),
				tx.Reference,
				tx.CreatedAt.UTC().Format(time.RFC3339),
			}); err != nil {
				return fmt.Errorf("could not write report: %w", err)
			}
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	cw.Flush()

	return cw.Error()
}

func (a *admin) EmailUser(ctx context.Context, id domain.UserID, subject, body string) error {
	if subject == "" || body == "" {
		return serrors.With(serrors.ErrBadRequest, "subject and body are required")
	}

	user, err := a.storage.UserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		return serrors.With(serrors.ErrNotFound, "user not found")
	}

	if err := a.notifier.Email(ctx, user.Email, subject, body); err != nil {
		return fmt.Errorf("could not enqueue email: %w", err)
	}

	return nil
}

// BroadcastEmail walks the full user listing page by page, the same way the
// CSV exports do, and enqueues one email per account.
func (a *admin) BroadcastEmail(ctx context.Context, subject, body string) (int, error) {
	if subject == "" || body == "" {
		return 0, serrors.With(serrors.ErrBadRequest, "subject and body are required")
	}

	queued := 0
	var cursor time.Time
	for {
		page, err := a.storage.Users(ctx, cursor, reportPageSize)
		if err != nil {
			return queued, fmt.Errorf("could not fetch users: %w", err)
		}

		for _, user := range page.Users {
			if err := a.notifier.Email(ctx, user.Email, subject, body); err != nil {
				return queued, fmt.Errorf("could not enqueue email: %w", err)
			}
			queued++
		}

		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	return queued, nil
}

// New creates a new Admin service.
func New(storage storage.Storage, notifier Notifier) Admin {
	return &admin{
		storage:  storage,
		notifier: notifier,
	}
}
