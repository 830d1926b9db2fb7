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
	transactionsTable = "transactions"
	transfersTable    = "momo_transfers"
)

func transactionWhere(filter storage.TransactionFilter) []goqu.Expression {
	var w []goqu.Expression
	if filter.UserID != (domain.UserID{}) {
		w = append(w, goqu.I("user_id").Eq(uuid.UUID(filter.UserID)))
	}
	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		w = append(w, goqu.I("type").In(types))
	}
	if filter.Status != "" {
		w = append(w, goqu.I("status").Eq(string(filter.Status)))
	}
	if !filter.Since.IsZero() {
		w = append(w, goqu.I("created_at").Gte(filter.Since))
	}
	if !filter.Until.IsZero() {
		w = append(w, goqu.I("created_at").Lt(filter.Until))
	}

	return w
}

func (p *PgSQL) StoreTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	var row PgTransaction
	row.FromDomain(tx)

	var result PgTransaction
	found, err := p.Builder.Insert(transactionsTable).
		Rows(row).
		Returning(&PgTransaction{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrDuplicate
		}

		return nil, fmt.Errorf("could not store transaction into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store transaction into pg: no row returned")
	}

	return result.ToDomain(), nil
}

func (p *PgSQL) TransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	var row PgTransaction
	found, err := p.Builder.From(transactionsTable).
		Where(goqu.I("reference").Eq(reference)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch transaction by reference: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// MarkTransactionCompleted only applies while the transaction is pending, so
// a deposit can be confirmed at most once.
func (p *PgSQL) MarkTransactionCompleted(ctx context.Context,
	ID domain.TransactionID,
	notes string) (*domain.Transaction, error) {
	return p.settleTransaction(ctx, ID, domain.TransactionStatusCompleted, notes)
}

// MarkTransactionFailed has the same conditional semantics as
// MarkTransactionCompleted.
func (p *PgSQL) MarkTransactionFailed(ctx context.Context,
	ID domain.TransactionID,
	notes string) (*domain.Transaction, error) {
	return p.settleTransaction(ctx, ID, domain.TransactionStatusFailed, notes)
}

func (p *PgSQL) settleTransaction(ctx context.Context,
	ID domain.TransactionID,
	status domain.TransactionStatus,
	notes string) (*domain.Transaction, error) {
	rec := goqu.Record{
		"status":     string(status),
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if notes != "" {
		rec["notes"] = notes
	}

	var row PgTransaction
	found, err := p.Builder.Update(transactionsTable).
		Set(rec).
		Where(
			goqu.I("id").Eq(uuid.UUID(ID)),
			goqu.I("status").Eq(string(domain.TransactionStatusPending)),
		).
		Returning(&PgTransaction{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not settle transaction in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

// Transactions returns a page of transactions ordered by created_at DESC,
// id DESC.
func (p *PgSQL) Transactions(ctx context.Context,
	filter storage.TransactionFilter,
	cursor time.Time,
	limit uint) (storage.TransactionPage, error) {
	w := transactionWhere(filter)
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	fetch := limit + 1
	var rows []PgTransaction
	if err := p.Builder.From(transactionsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.TransactionPage{}, fmt.Errorf("could not fetch transactions from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].CreatedAt
		rows = trimmed
	}

	return storage.TransactionPage{
		Transactions: pgTransactionsToDomain(rows),
		NextCursor:   nextCursor,
	}, nil
}

func (p *PgSQL) SumTransactions(ctx context.Context,
	filter storage.TransactionFilter) (total int64, count int64, err error) {
	var row struct {
		Total int64 `db:"total"`
		Count int64 `db:"count"`
	}
	if _, err := p.Builder.From(transactionsTable).
		Select(
			goqu.L("COALESCE(SUM(amount), 0)").As("total"),
			goqu.COUNT("*").As("count"),
		).
		Where(transactionWhere(filter)...).
		Executor().ScanStructContext(ctx, &row); err != nil {
		return 0, 0, fmt.Errorf("could not sum transactions in pg: %w", err)
	}

	return row.Total, row.Count, nil
}

// FinancialSeries buckets completed transactions by calendar period using
// date_trunc and returns one row per period with activity, oldest first.
func (p *PgSQL) FinancialSeries(ctx context.Context,
	period domain.FinancialPeriod,
	since time.Time) ([]domain.FinancialBucket, error) {
	var trunc, format string
	switch period {
	case domain.FinancialPeriodDaily:
		trunc, format = "day", "YYYY-MM-DD"
	case domain.FinancialPeriodWeekly:
		trunc, format = "week", `IYYY-"W"IW`
	case domain.FinancialPeriodMonthly:
		trunc, format = "month", "YYYY-MM"
	default:
		return nil, fmt.Errorf("unknown financial period: %q", period)
	}

	w := []goqu.Expression{
		goqu.I("status").Eq(string(domain.TransactionStatusCompleted)),
	}
	if !since.IsZero() {
		w = append(w, goqu.I("created_at").Gte(since))
	}

	var rows []struct {
		Bucket      string `db:"bucket"`
		Deposits    int64  `db:"deposits"`
		Investments int64  `db:"investments"`
		Withdrawals int64  `db:"withdrawals"`
		Count       int64  `db:"count"`
	}
	if err := p.Builder.From(transactionsTable).
		Select(
			goqu.L("to_char(date_trunc(?, created_at), ?)", trunc, format).As("bucket"),
			goqu.L("COALESCE(SUM(amount) FILTER (WHERE type IN (?, ?)), 0)",
				string(domain.TransactionTypeDeposit),
				string(domain.TransactionTypeMoMoDeposit)).As("deposits"),
			goqu.L("COALESCE(SUM(amount) FILTER (WHERE type = ?), 0)",
				string(domain.TransactionTypeInvestment)).As("investments"),
			goqu.L("COALESCE(SUM(amount) FILTER (WHERE type IN (?, ?)), 0)",
				string(domain.TransactionTypeWithdraw),
				string(domain.TransactionTypeMobileWithdrawal)).As("withdrawals"),
			goqu.COUNT("*").As("count"),
		).
		Where(w...).
		GroupBy(goqu.L("date_trunc(?, created_at)", trunc)).
		Order(goqu.L("date_trunc(?, created_at)", trunc).Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch financial series from pg: %w", err)
	}

	out := make([]domain.FinancialBucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.FinancialBucket{
			Bucket:           row.Bucket,
			Deposits:         row.Deposits,
			Investments:      row.Investments,
			Withdrawals:      row.Withdrawals,
			TransactionCount: row.Count,
		})
	}

	return out, nil
}

func (p *PgSQL) StoreTransfer(ctx context.Context, transfer domain.Transfer) (*domain.Transfer, error) {
	var row PgTransfer
	row.FromDomain(transfer)

	var result PgTransfer
	found, err := p.Builder.Insert(transfersTable).
		Rows(row).
		Returning(&PgTransfer{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store transfer into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store transfer into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// MarkTransferProcessed only applies while the transfer is pending, mirroring
// the transaction settlement semantics.
func (p *PgSQL) MarkTransferProcessed(ctx context.Context,
	reference string,
	status domain.TransactionStatus) (*domain.Transfer, error) {
	var row PgTransfer
	found, err := p.Builder.Update(transfersTable).
		Set(goqu.Record{
			"status":       string(status),
			"processed_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("reference").Eq(reference),
			goqu.I("status").Eq(string(domain.TransactionStatusPending)),
		).
		Returning(&PgTransfer{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not settle transfer in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) Transfers(ctx context.Context,
	direction domain.TransferDirection,
	cursor time.Time,
	limit uint) ([]domain.Transfer, error) {
	var w []goqu.Expression
	if direction != "" {
		w = append(w, goqu.I("direction").Eq(string(direction)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	var rows []PgTransfer
	if err := p.Builder.From(transfersTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch transfers from pg: %w", err)
	}

	out := make([]domain.Transfer, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) SumTransfers(ctx context.Context, direction domain.TransferDirection) (int64, error) {
	w := []goqu.Expression{
		goqu.I("status").Eq(string(domain.TransactionStatusCompleted)),
	}
	if direction != "" {
		w = append(w, goqu.I("direction").Eq(string(direction)))
	}

	var total int64
	if _, err := p.Builder.From(transfersTable).
		Select(goqu.L("COALESCE(SUM(amount), 0)")).
		Where(w...).
		Executor().ScanValContext(ctx, &total); err != nil {
		return 0, fmt.Errorf("could not sum transfers in pg: %w", err)
	}

	return total, nil
}
