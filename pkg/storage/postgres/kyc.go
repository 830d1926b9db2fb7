package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"wefund/pkg/domain"
	"wefund/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const kycRecordsTable = "kyc_records"

func (p *PgSQL) StoreKYCRecord(ctx context.Context, record domain.KYCRecord) (*domain.KYCRecord, error) {
	var row PgKYCRecord
	row.FromDomain(record)

	var result PgKYCRecord
	found, err := p.Builder.Insert(kycRecordsTable).
		Rows(row).
		Returning(&PgKYCRecord{}).
		Executor().ScanStructContext(ctx, &result)
	if err != nil {
		return nil, fmt.Errorf("could not store kyc record into pg: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("could not store kyc record into pg: no row returned")
	}

	return result.ToDomain()
}

func (p *PgSQL) KYCRecordByID(ctx context.Context, ID domain.KYCRecordID) (*domain.KYCRecord, error) {
	var row PgKYCRecord
	found, err := p.Builder.From(kycRecordsTable).
		Where(goqu.I("id").Eq(uuid.UUID(ID))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch kyc record by id: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) KYCRecordsByUser(ctx context.Context, userID domain.UserID) ([]domain.KYCRecord, error) {
	var rows []PgKYCRecord
	if err := p.Builder.From(kycRecordsTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("submitted_at").Desc(), goqu.I("id").Desc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch kyc records from pg: %w", err)
	}

	return pgKYCRecordsToDomain(rows)
}

func (p *PgSQL) LatestKYCRecord(ctx context.Context,
	userID domain.UserID,
	kind domain.KYCRecordKind) (*domain.KYCRecord, error) {
	var row PgKYCRecord
	found, err := p.Builder.From(kycRecordsTable).
		Where(
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("kind").Eq(string(kind)),
		).
		Order(goqu.I("submitted_at").Desc(), goqu.I("id").Desc()).
		Limit(1).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch latest kyc record: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) UpdateKYCRecord(ctx context.Context,
	ID domain.KYCRecordID,
	updates storage.KYCRecordUpdates) (*domain.KYCRecord, error) {
	rec := goqu.Record{}
	if updates.Status != "" {
		rec["status"] = string(updates.Status)
	}
	if updates.Result != nil {
		b, err := json.Marshal(updates.Result)
		if err != nil {
			return nil, fmt.Errorf("could not marshal screening result: %w", err)
		}

		rec["result"] = b
	}
	if updates.ReviewedBy != (domain.UserID{}) {
		rec["reviewed_by"] = uuid.UUID(updates.ReviewedBy)
		rec["reviewed_at"] = goqu.L("CURRENT_TIMESTAMP")
	}
	if len(rec) == 0 {
		return p.KYCRecordByID(ctx, ID)
	}

	var row PgKYCRecord
	found, err := p.Builder.Update(kycRecordsTable).
		Set(rec).
		Where(goqu.I("id").Eq(uuid.UUID(ID))).
		Returning(&PgKYCRecord{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update kyc record in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

func (p *PgSQL) PendingKYCRecords(ctx context.Context, limit uint) ([]domain.KYCRecord, error) {
	var rows []PgKYCRecord
	if err := p.Builder.From(kycRecordsTable).
		Where(goqu.I("status").In(
			string(domain.KYCStatusPending),
			string(domain.KYCStatusUnderReview),
		)).
		Order(goqu.I("submitted_at").Asc(), goqu.I("id").Asc()).
		Limit(limit).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch pending kyc records from pg: %w", err)
	}

	return pgKYCRecordsToDomain(rows)
}
