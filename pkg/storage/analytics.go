package storage

import (
	"context"
	"time"

	"wefund/pkg/domain"
)

// AnalyticsStorage defines persistence for daily platform stat snapshots.
type AnalyticsStorage interface {
	// StoreSnapshot upserts the snapshot for its day, so re-running the daily
	// job overwrites rather than duplicates.
	StoreSnapshot(ctx context.Context, snapshot domain.AnalyticsSnapshot) error
	// Snapshots returns snapshots for days in [since, until), oldest first.
	Snapshots(ctx context.Context, since, until time.Time) ([]domain.AnalyticsSnapshot, error)
}
