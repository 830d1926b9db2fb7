package postgres

import (
	"context"
	"fmt"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	projectsTable    = "projects"
	investmentsTable = "investments"
)

func (p *PgSQL) StoreProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	var row PgProject
	row.FromDomain(project)

	var result PgProject
	found, err := p.Builder.Insert(projectsTable).
		Rows(row).
		Returning(&PgProject{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store project into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store project into pg: no row returned")
	}

	return result.ToDomain(), nil
}

func (p *PgSQL) ProjectByID(ctx context.Context, ID domain.ProjectID) (*domain.Project, error) {
	var row PgProject
	found, err := p.Builder.From(projectsTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch project by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// Projects returns a page of projects ordered by created_at DESC, id DESC.
func (p *PgSQL) Projects(ctx context.Context,
	filter storage.ProjectListFilter,
	cursor time.Time,
	limit uint) (storage.ProjectPage, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if filter.PublicOnly {
		w = append(w,
			goqu.I("verified").IsTrue(),
			goqu.I("blocked").IsFalse(),
			goqu.I("status").In(
				string(domain.ProjectStatusOpen),
				string(domain.ProjectStatusFunded),
				string(domain.ProjectStatusClosed),
			),
		)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		w = append(w, goqu.I("status").In(statuses))
	}
	if filter.Category != "" {
		w = append(w, goqu.I("category").Eq(filter.Category))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	fetch := limit + 1
	var rows []PgProject
	if err := p.Builder.From(projectsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.ProjectPage{}, fmt.Errorf("could not fetch projects from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].CreatedAt
		rows = trimmed
	}

	return storage.ProjectPage{
		Projects:   pgProjectsToDomain(rows),
		NextCursor: nextCursor,
	}, nil
}

func (p *PgSQL) UpdateProject(ctx context.Context,
	ID domain.ProjectID,
	updates storage.ProjectUpdates) (*domain.Project, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Status != "" {
		rec["status"] = string(updates.Status)
	}
	if updates.Verified != nil {
		rec["verified"] = *updates.Verified
	}
	if updates.Blocked != nil {
		rec["blocked"] = *updates.Blocked
	}
	if updates.Review != nil {
		rec["review_notes"] = updates.Review.Notes
		rec["risk_rating"] = updates.Review.RiskRating
		rec["viability_score"] = updates.Review.ViabilityScore
		rec["reviewed_by"] = uuid.UUID(updates.Review.ReviewedBy)
		rec["reviewed_at"] = goqu.L("CURRENT_TIMESTAMP")
	}

	var row PgProject
	found, err := p.Builder.Update(projectsTable).
		Set(rec).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgProject{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update project in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// ApplyFunding only applies while the project is open, and flips the status
// to funded in the same statement when the goal is reached, so the transition
// happens exactly once even under concurrent investments.
func (p *PgSQL) ApplyFunding(ctx context.Context, ID domain.ProjectID, amount int64) (*domain.Project, error) {
	var row PgProject
	found, err := p.Builder.Update(projectsTable).
		Set(goqu.Record{
			"funded_amount":  goqu.L("funded_amount + ?", amount),
			"investor_count": goqu.L("investor_count + 1"),
			"status": goqu.L("CASE WHEN funded_amount + ? >= funding_goal THEN ? ELSE status END",
				amount, string(domain.ProjectStatusFunded)),
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("status").Eq(string(domain.ProjectStatusOpen)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgProject{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not apply funding in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DeleteProject performs a soft delete by setting deleted_at, returning the
// deleted record.
func (p *PgSQL) DeleteProject(ctx context.Context, ID domain.ProjectID) (*domain.Project, error) {
	var row PgProject
	found, err := p.Builder.Update(projectsTable).
		Set(goqu.Record{
			"deleted_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgProject{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete project in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) CountProjects(ctx context.Context, statuses ...domain.ProjectStatus) (int64, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if len(statuses) > 0 {
		in := make([]string, 0, len(statuses))
		for _, s := range statuses {
			in = append(in, string(s))
		}
		w = append(w, goqu.I("status").In(in))
	}

	var count int64
	if _, err := p.Builder.From(projectsTable).
		Select(goqu.COUNT("*")).
		Where(w...).
		Executor().ScanValContext(ctx, &count); err != nil {
		return 0, fmt.Errorf("could not count projects in pg: %w", err)
	}

	return count, nil
}

func (p *PgSQL) StoreInvestment(ctx context.Context, investment domain.Investment) (*domain.Investment, error) {
	row := PgInvestment{
		ProjectID: uuid.UUID(investment.ProjectID),
		UserID:    uuid.UUID(investment.UserID),
		Amount:    investment.Amount,
	}

	var result PgInvestment
	found, err := p.Builder.Insert(investmentsTable).
		Rows(row).
		Returning(&PgInvestment{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store investment into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store investment into pg: no row returned")
	}

	return result.ToDomain(), nil
}
