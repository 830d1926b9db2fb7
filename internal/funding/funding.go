// Package funding owns the project lifecycle (listing, vetting, funding) and
// the investment flow.
package funding

import (
	"context"
	"fmt"
	"time"

	"wefund/internal/config"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options contains the configurable parameters of the funding service.
type Options struct {
	// UnverifiedCap is the lifetime investment total allowed before KYC, in
	// XAF. Zero means unlimited.
	UnverifiedCap int64
	// VerifiedCap applies once KYC is approved.
	VerifiedCap int64
	// PremiumCap applies to premium accounts.
	PremiumCap int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		UnverifiedCap: cfg.Investment.UnverifiedCap,
		VerifiedCap:   cfg.Investment.VerifiedCap,
		PremiumCap:    cfg.Investment.PremiumCap,
	}
}

type funding struct {
	storage  storage.Storage
	notifier Notifier
	options  Options
}

func (f *funding) CreateProject(ctx context.Context,
	owner domain.User, params CreateProjectParams,
) (*domain.Project, error) {
	if params.Title == "" || params.Description == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "title and description are required")
	}
	if params.FundingGoal <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "funding goal must be positive")
	}
	if params.MinInvestment <= 0 || params.MinInvestment > params.FundingGoal {
		return nil, serrors.With(serrors.ErrBadRequest,
			"minimum investment must be positive and not exceed the funding goal")
	}

	riskLevel := params.RiskLevel
	if riskLevel == "" {
		riskLevel = domain.RiskLevelMedium
	}

	project, err := f.storage.StoreProject(ctx, domain.Project{
		OwnerID:       owner.ID,
		Title:         params.Title,
		Description:   params.Description,
		ROI:           params.ROI,
		Duration:      params.Duration,
		Category:      params.Category,
		Image:         params.Image,
		FundingGoal:   params.FundingGoal,
		MinInvestment: params.MinInvestment,
		RiskLevel:     riskLevel,
		Status:        domain.ProjectStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store project: %w", err)
	}

	return project, nil
}

func (f *funding) Projects(ctx context.Context,
	category string, cursor time.Time, limit uint,
) (storage.ProjectPage, error) {
	page, err := f.storage.Projects(ctx, storage.ProjectListFilter{
		PublicOnly: true,
		Category:   category,
	}, cursor, limit)
	if err != nil {
		return storage.ProjectPage{}, fmt.Errorf("could not fetch projects: %w", err)
	}

	return page, nil
}

func (f *funding) Project(ctx context.Context,
	viewer domain.User, id domain.ProjectID,
) (*domain.Project, error) {
	project, err := f.storage.ProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch project: %w", err)
	}
	if project == nil {
		return nil, serrors.With(serrors.ErrNotFound, "project not found")
	}
	if !publiclyVisible(*project) && project.OwnerID != viewer.ID && viewer.Role != domain.RoleAdmin {
		return nil, serrors.With(serrors.ErrNotFound, "project not found")
	}

	return project, nil
}

// publiclyVisible reports whether the listing shows up on the public surface.
func publiclyVisible(p domain.Project) bool {
	if !p.Verified || p.Blocked {
		return false
	}
	switch p.Status {
	case domain.ProjectStatusOpen, domain.ProjectStatusFunded, domain.ProjectStatusClosed:
		return true
	}

	return false
}

func (f *funding) Invest(ctx context.Context,
	investor domain.User, id domain.ProjectID, amount int64,
) (*domain.Investment, error) {
	if amount <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "amount must be positive")
	}

	project, err := f.storage.ProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch project: %w", err)
	}
	if project == nil {
		return nil, serrors.With(serrors.ErrNotFound, "project not found")
	}
	if !project.Investable() {
		return nil, serrors.With(serrors.ErrConflict, "project is not open for investment")
	}
	if amount < project.MinInvestment {
		return nil, serrors.With(serrors.ErrBadRequest,
			"minimum investment for this project is %d XAF", project.MinInvestment)
	}
	if investor.ID == project.OwnerID {
		return nil, serrors.With(serrors.ErrForbidden, "you cannot invest in your own project")
	}
	limit := f.investmentCap(investor.VerificationLevel)
	if limit > 0 && investor.TotalInvested+amount > limit {
		return nil, f.capExceeded(limit)
	}

	var investment *domain.Investment
	var funded *domain.Project
	err = f.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		// the balance and cap conditions live in the UPDATE itself, so a
		// concurrent investment cannot slip past the stale read above
		user, err := tx.ApplyInvestment(ctx, investor.ID, amount, limit)
		if err != nil {
			return fmt.Errorf("could not debit wallet: %w", err)
		}
		if user == nil {
			current, err := tx.UserByID(ctx, investor.ID)
			if err != nil {
				return fmt.Errorf("could not fetch investor: %w", err)
			}
			if current != nil && current.WalletBalance >= amount {
				return f.capExceeded(limit)
			}

			return serrors.With(serrors.ErrBadRequest, "insufficient wallet balance")
		}

		funded, err = tx.ApplyFunding(ctx, id, amount)
		if err != nil {
			return fmt.Errorf("could not apply funding: %w", err)
		}
		if funded == nil {
			return serrors.With(serrors.ErrConflict, "project is not open for investment")
		}

		investment, err = tx.StoreInvestment(ctx, domain.Investment{
			ProjectID: id,
			UserID:    investor.ID,
			Amount:    amount,
		})
		if err != nil {
			return fmt.Errorf("could not store investment: %w", err)
		}

		_, err = tx.StoreTransaction(ctx, domain.Transaction{
			UserID:       investor.ID,
			Type:         domain.TransactionTypeInvestment,
			Status:       domain.TransactionStatusCompleted,
			Amount:       amount,
			ProjectID:    id,
			ProjectTitle: project.Title,
		})
		if err != nil {
			return fmt.Errorf("could not store transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	f.notifyInvestment(ctx, *project, *funded, investor, amount)

	return investment, nil
}

func (f *funding) capExceeded(limit int64) error {
	return serrors.With(serrors.ErrForbidden,
		"this investment would exceed your limit of %d XAF, verify your account to raise it", limit)
}

func (f *funding) investmentCap(level domain.VerificationLevel) int64 {
	switch level {
	case domain.VerificationLevelVerified:
		return f.options.VerifiedCap
	case domain.VerificationLevelPremium:
		return f.options.PremiumCap
	default:
		return f.options.UnverifiedCap
	}
}

// notifyInvestment tells the owner about the new investment, and about the
// goal being reached when this one tipped it over. Best effort.
func (f *funding) notifyInvestment(ctx context.Context,
	before, after domain.Project, investor domain.User, amount int64,
) {
	_, err := f.notifier.Notify(ctx, domain.Notification{
		UserID: before.OwnerID,
		Title:  "New investment",
		Body:   fmt.Sprintf("%s invested %d XAF in %s", investor.Name, amount, before.Title),
		Type:   domain.NotificationTypeInvestment,
		Data:   map[string]string{"projectId": uuid.UUID(before.ID).String()},
	})
	if err != nil {
		logger.Error(ctx, "could not notify project owner", zap.Error(err))
	}

	if after.Status == domain.ProjectStatusFunded && before.Status != domain.ProjectStatusFunded {
		_, err := f.notifier.Notify(ctx, domain.Notification{
			UserID: before.OwnerID,
			Title:  "Funding goal reached",
			Body:   fmt.Sprintf("%s is fully funded at %d XAF", before.Title, after.FundedAmount),
			Type:   domain.NotificationTypeProject,
			Data:   map[string]string{"projectId": uuid.UUID(before.ID).String()},
		})
		if err != nil {
			logger.Error(ctx, "could not notify project owner", zap.Error(err))
		}
	}
}

func (f *funding) AllProjects(ctx context.Context, cursor time.Time, limit uint) (storage.ProjectPage, error) {
	page, err := f.storage.Projects(ctx, storage.ProjectListFilter{}, cursor, limit)
	if err != nil {
		return storage.ProjectPage{}, fmt.Errorf("could not fetch projects: %w", err)
	}

	return page, nil
}

func (f *funding) PendingProjects(ctx context.Context, cursor time.Time, limit uint) (storage.ProjectPage, error) {
	page, err := f.storage.Projects(ctx, storage.ProjectListFilter{
		Statuses: []domain.ProjectStatus{domain.ProjectStatusPending, domain.ProjectStatusUnderReview},
	}, cursor, limit)
	if err != nil {
		return storage.ProjectPage{}, fmt.Errorf("could not fetch pending projects: %w", err)
	}

	return page, nil
}

func (f *funding) StartReview(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	project, err := f.mustProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectStatusPending {
		return nil, serrors.With(serrors.ErrConflict, "project is not awaiting review")
	}

	updated, err := f.storage.UpdateProject(ctx, id, storage.ProjectUpdates{
		Status: domain.ProjectStatusUnderReview,
	})
	if err != nil {
		return nil, fmt.Errorf("could not update project: %w", err)
	}

	return updated, nil
}

func (f *funding) ReviewProject(ctx context.Context,
	reviewer domain.User, id domain.ProjectID, params ReviewParams,
) (*domain.Project, error) {
	if params.RiskRating < 1 || params.RiskRating > 5 {
		return nil, serrors.With(serrors.ErrBadRequest, "risk rating must be between 1 and 5")
	}
	if params.ViabilityScore < 1 || params.ViabilityScore > 10 {
		return nil, serrors.With(serrors.ErrBadRequest, "viability score must be between 1 and 10")
	}

	project, err := f.mustProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.ProjectStatusPending && project.Status != domain.ProjectStatusUnderReview {
		return nil, serrors.With(serrors.ErrConflict, "project has already been reviewed")
	}

	status := domain.ProjectStatusRejected
	verified := false
	if params.Approve {
		status = domain.ProjectStatusOpen
		verified = true
	}

	updated, err := f.storage.UpdateProject(ctx, id, storage.ProjectUpdates{
		Status:   status,
		Verified: &verified,
		Review: &domain.Review{
			Notes:          params.Notes,
			RiskRating:     params.RiskRating,
			ViabilityScore: params.ViabilityScore,
			ReviewedBy:     reviewer.ID,
			ReviewedAt:     time.Now(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not update project: %w", err)
	}

	f.notifyDecision(ctx, *updated, params)

	return updated, nil
}

func (f *funding) notifyDecision(ctx context.Context, project domain.Project, params ReviewParams) {
	title := "Project rejected"
	body := fmt.Sprintf("%s did not pass review", project.Title)
	if params.Approve {
		title = "Project approved"
		body = fmt.Sprintf("%s passed review and is now open for investment", project.Title)
	}
	if params.Notes != "" {
		body += ": " + params.Notes
	}

	_, err := f.notifier.Notify(ctx, domain.Notification{
		UserID: project.OwnerID,
		Title:  title,
		Body:   body,
		Type:   domain.NotificationTypeProject,
		Data:   map[string]string{"projectId": uuid.UUID(project.ID).String()},
	})
	if err != nil {
		logger.Error(ctx, "could not notify project owner", zap.Error(err))
	}
}

func (f *funding) SetProjectBlocked(ctx context.Context,
	id domain.ProjectID, blocked bool,
) (*domain.Project, error) {
	if _, err := f.mustProject(ctx, id); err != nil {
		return nil, err
	}

	updated, err := f.storage.UpdateProject(ctx, id, storage.ProjectUpdates{Blocked: &blocked})
	if err != nil {
		return nil, fmt.Errorf("could not update project: %w", err)
	}

	return updated, nil
}

func (f *funding) DeleteProject(ctx context.Context, actor domain.User, id domain.ProjectID) error {
	project, err := f.mustProject(ctx, id)
	if err != nil {
		return err
	}
	if project.OwnerID != actor.ID && actor.Role != domain.RoleAdmin {
		return serrors.With(serrors.ErrForbidden, "only the owner or an admin can delete a project")
	}
	if project.FundedAmount > 0 {
		return serrors.With(serrors.ErrConflict, "projects with investments cannot be deleted")
	}

	if _, err := f.storage.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("could not delete project: %w", err)
	}

	return nil
}

func (f *funding) mustProject(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	project, err := f.storage.ProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch project: %w", err)
	}
	if project == nil {
		return nil, serrors.With(serrors.ErrNotFound, "project not found")
	}

	return project, nil
}

// New creates a new Funding service.
func New(storage storage.Storage, notifier Notifier, options Options) Funding {
	return &funding{
		storage:  storage,
		notifier: notifier,
		options:  options,
	}
}
