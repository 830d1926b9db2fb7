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
	notificationsTable = "notifications"
	deviceTokensTable  = "device_tokens"
)

func (p *PgSQL) StoreNotification(ctx context.Context,
	notification domain.Notification) (*domain.Notification, error) {
	var row PgNotification
	if err := row.FromDomain(notification); err != nil {
		return nil, err
	}

	var result PgNotification
	found, err := p.Builder.Insert(notificationsTable).
		Rows(row).
		Returning(&PgNotification{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store notification into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store notification into pg: no row returned")
	}

	return result.ToDomain()
}

func (p *PgSQL) UserNotifications(ctx context.Context,
	userID domain.UserID,
	cursor time.Time,
	limit uint) (storage.NotificationPage, error) {
	w := []goqu.Expression{
		goqu.I("user_id").Eq(uuid.UUID(userID)),
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	fetch := limit + 1
	var rows []PgNotification
	if err := p.Builder.From(notificationsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(fetch).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.NotificationPage{}, fmt.Errorf("could not fetch notifications from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		trimmed := rows[:limit]
		nextCursor = &trimmed[len(trimmed)-1].CreatedAt
		rows = trimmed
	}

	out := make([]domain.Notification, 0, len(rows))
	for i := range rows {
		d, err := rows[i].ToDomain()
		if err != nil {
			return storage.NotificationPage{}, err
		}

		out = append(out, *d)
	}

	return storage.NotificationPage{
		Notifications: out,
		NextCursor:    nextCursor,
	}, nil
}

func (p *PgSQL) MarkNotificationsRead(ctx context.Context, userID domain.UserID) (int64, error) {
	res, err := p.Builder.Update(notificationsTable).
		Set(goqu.Record{
			"read":    true,
			"read_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("read").IsFalse(),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not mark notifications read in pg: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read affected rows: %w", err)
	}

	return affected, nil
}

func (p *PgSQL) MarkNotificationSent(ctx context.Context, ID domain.NotificationID) error {
	_, err := p.Builder.Update(notificationsTable).
		Set(goqu.Record{
			"sent":    true,
			"sent_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(goqu.I("id").Eq(uuid.UUID(ID))).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("could not mark notification sent in pg: %w", err)
	}

	return nil
}

// StoreDeviceToken re-registers an existing token to the given user instead
// of failing, since devices move between accounts.
func (p *PgSQL) StoreDeviceToken(ctx context.Context, token domain.DeviceToken) (*domain.DeviceToken, error) {
	row := PgDeviceToken{
		UserID:   uuid.UUID(token.UserID),
		Token:    token.Token,
		Platform: string(token.Platform),
	}

	var result PgDeviceToken
	found, err := p.Builder.Insert(deviceTokensTable).
		Rows(row).
		OnConflict(goqu.DoUpdate("token", goqu.Record{
			"user_id":  uuid.UUID(token.UserID),
			"platform": string(token.Platform),
		})).
		Returning(&PgDeviceToken{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store device token into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store device token into pg: no row returned")
	}

	return result.ToDomain(), nil
}

func (p *PgSQL) DeviceTokens(ctx context.Context, userID domain.UserID) ([]domain.DeviceToken, error) {
	var rows []PgDeviceToken
	if err := p.Builder.From(deviceTokensTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("created_at").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch device tokens from pg: %w", err)
	}

	out := make([]domain.DeviceToken, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) DeleteDeviceToken(ctx context.Context, token string) error {
	// hard delete, invalid tokens have no value as history
	_, err := p.DB.ExecContext(ctx, "DELETE FROM device_tokens WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("could not delete device token in pg: %w", err)
	}

	return nil
}
