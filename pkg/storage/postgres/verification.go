package postgres

import (
	"context"
	"fmt"

	"wefund/pkg/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const verificationTokensTable = "verification_tokens"

// StoreVerificationToken burns any previous unused tokens of the same kind
// for the user before inserting the new one, so only the latest secret works.
func (p *PgSQL) StoreVerificationToken(ctx context.Context,
	token domain.VerificationToken) (*domain.VerificationToken, error) {
	if _, err := p.Builder.Update(verificationTokensTable).
		Set(goqu.Record{
			"consumed_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("user_id").Eq(uuid.UUID(token.UserID)),
			goqu.I("kind").Eq(string(token.Kind)),
			goqu.I("consumed_at").IsNull(),
		).
		Executor().ExecContext(ctx); err != nil {
		return nil, fmt.Errorf("could not invalidate previous tokens in pg: %w", err)
	}

	row := PgVerificationToken{
		UserID:    uuid.UUID(token.UserID),
		Kind:      string(token.Kind),
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}

	var result PgVerificationToken
	found, err := p.Builder.Insert(verificationTokensTable).
		Rows(row).
		Returning(&PgVerificationToken{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store verification token into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store verification token into pg: no row returned")
	}

	return result.ToDomain(), nil
}

// ConsumeToken is a conditional update, so a matching token can only ever be
// redeemed once even under concurrent requests.
func (p *PgSQL) ConsumeToken(ctx context.Context,
	kind domain.VerificationKind,
	token string) (*domain.VerificationToken, error) {
	var row PgVerificationToken
	found, err := p.Builder.Update(verificationTokensTable).
		Set(goqu.Record{
			"consumed_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(
			goqu.I("kind").Eq(string(kind)),
			goqu.I("token").Eq(token),
			goqu.I("consumed_at").IsNull(),
			goqu.I("expires_at").Gt(goqu.L("CURRENT_TIMESTAMP")),
			goqu.I("attempts").Lt(domain.MaxCodeAttempts),
		).
		Returning(&PgVerificationToken{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not consume verification token in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) LatestToken(ctx context.Context,
	userID domain.UserID,
	kind domain.VerificationKind) (*domain.VerificationToken, error) {
	var row PgVerificationToken
	found, err := p.Builder.From(verificationTokensTable).
		Where(
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("kind").Eq(string(kind)),
			goqu.I("consumed_at").IsNull(),
		).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(1).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch latest verification token: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) IncrementTokenAttempts(ctx context.Context, ID domain.VerificationTokenID) (int, error) {
	var attempts int
	found, err := p.Builder.Update(verificationTokensTable).
		Set(goqu.Record{
			"attempts": goqu.L("attempts + 1"),
		}).
		Where(goqu.I("id").Eq(uuid.UUID(ID))).
		Returning(goqu.I("attempts")).
		Executor().ScanValContext(ctx, &attempts)
	if err != nil {
		return 0, fmt.Errorf("could not increment token attempts in pg: %w", err)
	}
	if !found {
		return 0, nil
	}

	return attempts, nil
}
