package postgres

import (
	"context"
	"fmt"

	"wefund/pkg/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const messagesTable = "messages"

func (p *PgSQL) StoreMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	row := PgMessage{
		SenderID:   uuid.UUID(message.SenderID),
		ReceiverID: uuid.UUID(message.ReceiverID),
		Body:       message.Body,
		Read:       message.Read,
	}

	var result PgMessage
	found, err := p.Builder.Insert(messagesTable).
		Rows(row).
		Returning(&PgMessage{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store message into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store message into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// Thread returns all messages between the two users, oldest first.
func (p *PgSQL) Thread(ctx context.Context, userID, peerID domain.UserID) ([]domain.Message, error) {
	var rows []PgMessage
	if err := p.Builder.From(messagesTable).
		Where(goqu.Or(
			goqu.And(
				goqu.I("sender_id").Eq(uuid.UUID(userID)),
				goqu.I("receiver_id").Eq(uuid.UUID(peerID)),
			),
			goqu.And(
				goqu.I("sender_id").Eq(uuid.UUID(peerID)),
				goqu.I("receiver_id").Eq(uuid.UUID(userID)),
			),
		)).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch thread from pg: %w", err)
	}

	out := make([]domain.Message, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) MarkThreadRead(ctx context.Context, userID, peerID domain.UserID) (int64, error) {
	res, err := p.Builder.Update(messagesTable).
		Set(goqu.Record{"read": true}).
		Where(
			goqu.I("receiver_id").Eq(uuid.UUID(userID)),
			goqu.I("sender_id").Eq(uuid.UUID(peerID)),
			goqu.I("read").IsFalse(),
		).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not mark thread read in pg: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not read affected rows: %w", err)
	}

	return affected, nil
}

// Conversations folds the user's messages into one summary per peer, most
// recent thread first. Peer names are resolved in a second query.
func (p *PgSQL) Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error) {
	var rows []PgMessage
	if err := p.Builder.From(messagesTable).
		Where(goqu.Or(
			goqu.I("sender_id").Eq(uuid.UUID(userID)),
			goqu.I("receiver_id").Eq(uuid.UUID(userID)),
		)).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch conversations from pg: %w", err)
	}

	// rows are newest first, so the first message seen per peer is the last
	// one in the thread
	var order []uuid.UUID
	latest := map[uuid.UUID]PgMessage{}
	unread := map[uuid.UUID]bool{}
	for _, row := range rows {
		peer := row.SenderID
		if peer == uuid.UUID(userID) {
			peer = row.ReceiverID
		}
		if _, ok := latest[peer]; !ok {
			latest[peer] = row
			order = append(order, peer)
		}
		if row.ReceiverID == uuid.UUID(userID) && !row.Read {
			unread[peer] = true
		}
	}

	if len(order) == 0 {
		return nil, nil
	}

	var users []PgUser
	if err := p.Builder.From(usersTable).
		Where(goqu.I("id").In(order)).
		Executor().ScanStructsContext(ctx, &users); err != nil {
		return nil, fmt.Errorf("could not fetch conversation peers from pg: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	out := make([]domain.Conversation, 0, len(order))
	for _, peer := range order {
		row := latest[peer]
		out = append(out, domain.Conversation{
			PeerID:      domain.UserID(peer),
			PeerName:    names[peer],
			LastMessage: row.Body,
			LastAt:      row.CreatedAt,
			Unread:      unread[peer],
		})
	}

	return out, nil
}
