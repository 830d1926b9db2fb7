// Package compliance owns the KYC pipeline: identity submissions, document
// uploads, AML screening and the admin decision that raises an account's
// verification level.
package compliance

import (
	"context"
	"fmt"

	"wefund/internal/config"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/screening"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"go.uber.org/zap"
)

// Options contains the configurable parameters of the compliance service.
type Options struct {
	// MaxDocumentBytes limits uploaded KYC document payloads.
	MaxDocumentBytes int64
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxDocumentBytes: cfg.Compliance.MaxDocumentBytes,
	}
}

type compliance struct {
	storage  storage.Storage
	screener screening.Screener
	notifier Notifier
	options  Options
}

func (c *compliance) SubmitInformation(ctx context.Context,
	user domain.User, params InformationParams,
) (*domain.KYCRecord, error) {
	if params.FullName == "" || params.DateOfBirth == "" || params.IDNumber == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "full name, date of birth and ID number are required")
	}
	if user.KYCStatus == domain.KYCStatusApproved {
		return nil, serrors.With(serrors.ErrConflict, "account is already KYC approved")
	}

	var record *domain.KYCRecord
	err := c.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		record, err = tx.StoreKYCRecord(ctx, domain.KYCRecord{
			UserID:      user.ID,
			Kind:        domain.KYCRecordKindInformation,
			FullName:    params.FullName,
			DateOfBirth: params.DateOfBirth,
			Address:     params.Address,
			IDNumber:    params.IDNumber,
			Country:     params.Country,
			Status:      domain.KYCStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store KYC record: %w", err)
		}

		if _, err := tx.UpdateUser(ctx, user.ID, storage.UserUpdates{
			KYCStatus: domain.KYCStatusPending,
		}); err != nil {
			return fmt.Errorf("could not update user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// The basic screen runs inline. A provider outage leaves the record
	// pending, which an admin can rescreen later.
	screened, err := c.screen(ctx, *record, domain.ScreeningLevelBasic)
	if err != nil {
		logger.Warn(ctx, "AML screen failed, record left pending", zap.Error(err))

		return record, nil
	}

	return screened, nil
}

// screen runs the AML screen and applies its outcome: a sanctions hit rejects
// the record and the account, anything else moves the record under review.
func (c *compliance) screen(ctx context.Context,
	record domain.KYCRecord, level domain.ScreeningLevel,
) (*domain.KYCRecord, error) {
	result, err := c.screener.Screen(ctx, screening.Request{
		FullName:    record.FullName,
		DateOfBirth: record.DateOfBirth,
		Country:     record.Country,
		IDNumber:    record.IDNumber,
		Level:       level,
	})
	if err != nil {
		return nil, fmt.Errorf("could not screen: %w", err)
	}

	status := domain.KYCStatusUnderReview
	if result.SanctionsMatch {
		status = domain.KYCStatusRejected
	}

	var updated *domain.KYCRecord
	err = c.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		updated, err = tx.UpdateKYCRecord(ctx, record.ID, storage.KYCRecordUpdates{
			Status: status,
			Result: &result,
		})
		if err != nil {
			return fmt.Errorf("could not update KYC record: %w", err)
		}

		if status == domain.KYCStatusRejected {
			if _, err := tx.UpdateUser(ctx, record.UserID, storage.UserUpdates{
				KYCStatus: domain.KYCStatusRejected,
			}); err != nil {
				return fmt.Errorf("could not update user: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == domain.KYCStatusRejected {
		c.notifyDecision(ctx, *updated, false)
	}

	return updated, nil
}

func (c *compliance) SubmitDocument(ctx context.Context,
	user domain.User, params DocumentParams,
) (*domain.KYCRecord, error) {
	if !domain.ValidDocumentType(params.Type) {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported document type: %s", params.Type)
	}
	if params.SizeBytes <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "document is empty")
	}
	if params.SizeBytes > c.options.MaxDocumentBytes {
		return nil, serrors.With(serrors.ErrBadRequest,
			"document exceeds the %d byte limit", c.options.MaxDocumentBytes)
	}
	if user.KYCStatus == domain.KYCStatusApproved {
		return nil, serrors.With(serrors.ErrConflict, "account is already KYC approved")
	}

	record, err := c.storage.StoreKYCRecord(ctx, domain.KYCRecord{
		UserID:       user.ID,
		Kind:         domain.KYCRecordKindDocument,
		DocumentType: params.Type,
		Country:      params.Country,
		Status:       domain.KYCStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store KYC record: %w", err)
	}

	return record, nil
}

func (c *compliance) Records(ctx context.Context, userID domain.UserID) ([]domain.KYCRecord, error) {
	records, err := c.storage.KYCRecordsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch KYC records: %w", err)
	}

	return records, nil
}

func (c *compliance) Screen(ctx context.Context,
	id domain.KYCRecordID, level domain.ScreeningLevel,
) (*domain.KYCRecord, error) {
	record, err := c.mustRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Kind != domain.KYCRecordKindInformation {
		return nil, serrors.With(serrors.ErrBadRequest, "only identity submissions can be screened")
	}

	return c.screen(ctx, *record, level)
}

func (c *compliance) PendingRecords(ctx context.Context, limit uint) ([]domain.KYCRecord, error) {
	records, err := c.storage.PendingKYCRecords(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("could not fetch pending KYC records: %w", err)
	}

	return records, nil
}

func (c *compliance) Decide(ctx context.Context,
	reviewer domain.User, id domain.KYCRecordID, approve bool,
) (*domain.KYCRecord, error) {
	record, err := c.mustRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.KYCStatusPending && record.Status != domain.KYCStatusUnderReview {
		return nil, serrors.With(serrors.ErrConflict, "submission has already been decided")
	}

	status := domain.KYCStatusRejected
	if approve {
		status = domain.KYCStatusApproved
	}

	var updated *domain.KYCRecord
	err = c.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		updated, err = tx.UpdateKYCRecord(ctx, id, storage.KYCRecordUpdates{
			Status:     status,
			ReviewedBy: reviewer.ID,
		})
		if err != nil {
			return fmt.Errorf("could not update KYC record: %w", err)
		}

		userUpdates := storage.UserUpdates{KYCStatus: status}
		if approve {
			verified := true
			userUpdates.Verified = &verified
			userUpdates.VerificationLevel = domain.VerificationLevelVerified
		}
		if _, err := tx.UpdateUser(ctx, record.UserID, userUpdates); err != nil {
			return fmt.Errorf("could not update user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	c.notifyDecision(ctx, *updated, approve)

	return updated, nil
}

func (c *compliance) notifyDecision(ctx context.Context, record domain.KYCRecord, approved bool) {
	title := "Identity verification rejected"
	body := "Your identity verification was rejected. You can submit again with corrected details."
	if approved {
		title = "Identity verified"
		body = "Your identity was verified. Your investment limit has been raised."
	}

	_, err := c.notifier.Notify(ctx, domain.Notification{
		UserID: record.UserID,
		Title:  title,
		Body:   body,
		Type:   domain.NotificationTypeSystem,
	})
	if err != nil {
		logger.Error(ctx, "could not notify user", zap.Error(err))
	}
}

func (c *compliance) mustRecord(ctx context.Context, id domain.KYCRecordID) (*domain.KYCRecord, error) {
	record, err := c.storage.KYCRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch KYC record: %w", err)
	}
	if record == nil {
		return nil, serrors.With(serrors.ErrNotFound, "KYC record not found")
	}

	return record, nil
}

// New creates a new Compliance service.
func New(storage storage.Storage, screener screening.Screener, notifier Notifier, options Options) Compliance {
	return &compliance{
		storage:  storage,
		screener: screener,
		notifier: notifier,
		options:  options,
	}
}
