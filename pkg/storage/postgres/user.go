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

const usersTable = "users"

func (p *PgSQL) StoreUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var row PgUser
	row.FromDomain(user)

	var result PgUser
	found, err := p.Builder.Insert(usersTable).
		Rows(row).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrDuplicate
		}

		return nil, fmt.Errorf("could not store user into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store user into pg: no row returned")
	}

	return result.ToDomain(), nil
}

func (p *PgSQL) UserByID(ctx context.Context, ID domain.UserID) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(
			goqu.I("email").Eq(email),
			goqu.I("deleted_at").IsNull(),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user by email: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// UpdateUser applies only the non-zero fields from updates and returns the
// updated row.
func (p *PgSQL) UpdateUser(ctx context.Context, ID domain.UserID, updates storage.UserUpdates) (*domain.User, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Name != nil {
		rec["name"] = *updates.Name
	}
	if updates.Age != nil {
		rec["age"] = *updates.Age
	}
	if updates.PhoneNumber != nil {
		rec["phone_number"] = *updates.PhoneNumber
	}
	if updates.Verified != nil {
		rec["verified"] = *updates.Verified
	}
	if updates.EmailVerified != nil {
		rec["email_verified"] = *updates.EmailVerified
	}
	if updates.PhoneVerified != nil {
		rec["phone_verified"] = *updates.PhoneVerified
	}
	if updates.Blocked != nil {
		rec["blocked"] = *updates.Blocked
	}
	if updates.KYCStatus != "" {
		rec["kyc_status"] = string(updates.KYCStatus)
	}
	if updates.VerificationLevel != "" {
		rec["verification_level"] = string(updates.VerificationLevel)
	}

	var row PgUser
	found, err := p.Builder.Update(usersTable).
		Set(rec).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update user in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) CreditWallet(ctx context.Context, ID domain.UserID, amount int64) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"wallet_balance": goqu.L("wallet_balance + ?", amount),
			"updated_at":     goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not credit wallet in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// DebitWallet only applies when the balance covers the amount, so concurrent
// debits cannot drive the balance negative.
func (p *PgSQL) DebitWallet(ctx context.Context, ID domain.UserID, amount int64) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"wallet_balance": goqu.L("wallet_balance - ?", amount),
			"updated_at":     goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("wallet_balance").Gte(amount),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not debit wallet in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// ApplyInvestment enforces both the balance and the investment cap inside
// the UPDATE's WHERE, so concurrent investments cannot race past a stale
// read of total_invested.
func (p *PgSQL) ApplyInvestment(ctx context.Context, ID domain.UserID, amount, capLimit int64) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.Update(usersTable).
		Set(goqu.Record{
			"wallet_balance": goqu.L("wallet_balance - ?", amount),
			"total_invested": goqu.L("total_invested + ?", amount),
			"updated_at":     goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("wallet_balance").Gte(amount),
			goqu.L("(? = 0 OR total_invested + ? <= ?)", capLimit, amount, capLimit),
			goqu.I("deleted_at").IsNull(),
		).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not apply investment in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// Users returns a page of users ordered by created_at DESC, id DESC. The
// cursor, when non-zero, bounds created_at from above.
func (p *PgSQL) Users(ctx context.Context, cursor time.Time, limit uint) (storage.UserPage, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	fetch := limit + 1
	var rows []PgUser
	if err := p.Builder.From(usersTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.UserPage{}, fmt.Errorf("could not fetch users from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].CreatedAt
		rows = trimmed
	}

	out := make([]domain.User, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return storage.UserPage{
		Users:      out,
		NextCursor: nextCursor,
	}, nil
}

func (p *PgSQL) CountUsers(ctx context.Context, filter storage.UserFilter) (int64, error) {
	w := []goqu.Expression{
		goqu.I("deleted_at").IsNull(),
	}
	if filter.Verified != nil {
		w = append(w, goqu.I("verified").Eq(*filter.Verified))
	}
	if !filter.CreatedBefore.IsZero() {
		w = append(w, goqu.I("created_at").Lt(filter.CreatedBefore))
	}
	if !filter.UpdatedSince.IsZero() {
		w = append(w, goqu.L("COALESCE(updated_at, created_at) >= ?", filter.UpdatedSince))
	}

	var count int64
	if _, err := p.Builder.From(usersTable).
		Select(goqu.COUNT("*")).
		Where(w...).
		Executor().ScanValContext(ctx, &count); err != nil {
		return 0, fmt.Errorf("could not count users in pg: %w", err)
	}

	return count, nil
}
