package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wefund/pkg/domain"

	"github.com/doug-martin/goqu/v9"
)

const analyticsTable = "app_analytics"

// StoreSnapshot upserts the snapshot for its day, so re-running the daily job
// overwrites rather than duplicates.
func (p *PgSQL) StoreSnapshot(ctx context.Context, snapshot domain.AnalyticsSnapshot) error {
	b, err := json.Marshal(snapshot.Stats)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot stats: %w", err)
	}

	if _, err := p.Builder.Insert(analyticsTable).
		Rows(PgAnalyticsSnapshot{
			Day:   snapshot.Day,
			Stats: b,
		}).
		OnConflict(goqu.DoUpdate("day", goqu.Record{
			"stats":      b,
			"created_at": goqu.L("CURRENT_TIMESTAMP"),
		})).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not store snapshot into pg: %w", err)
	}

	return nil
}

func (p *PgSQL) Snapshots(ctx context.Context, since, until time.Time) ([]domain.AnalyticsSnapshot, error) {
	w := []goqu.Expression{}
	if !since.IsZero() {
		w = append(w, goqu.I("day").Gte(since))
	}
	if !until.IsZero() {
		w = append(w, goqu.I("day").Lt(until))
	}

	var rows []PgAnalyticsSnapshot
	if err := p.Builder.From(analyticsTable).
		Where(w...).
		Order(goqu.I("day").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch snapshots from pg: %w", err)
	}

	out := make([]domain.AnalyticsSnapshot, 0, len(rows))
	for i := range rows {
		d, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
