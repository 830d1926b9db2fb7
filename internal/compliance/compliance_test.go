package compliance_test

import (
	"context"
	"testing"

	"wefund/internal/compliance"
	"wefund/internal/storagetest"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/screening"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// screenerFunc allows using a function as a screening.Screener.
type screenerFunc func(ctx context.Context, request screening.Request) (domain.ScreeningResult, error)

func (f screenerFunc) Screen(ctx context.Context, request screening.Request) (domain.ScreeningResult, error) {
	return f(ctx, request)
}

type notificationRecorder struct {
	notifications []domain.Notification
}

func (r *notificationRecorder) Notify(_ context.Context,
	n domain.Notification,
) (*domain.Notification, error) {
	r.notifications = append(r.notifications, n)

	return &n, nil
}

func (r *notificationRecorder) Email(context.Context, string, string, string) error { return nil }

func cleanScreener() screening.Screener {
	return screenerFunc(func(context.Context, screening.Request) (domain.ScreeningResult, error) {
		return domain.ScreeningResult{RiskLevel: "low", Recommendation: "approve"}, nil
	})
}

func testOptions() compliance.Options {
	return compliance.Options{MaxDocumentBytes: 5 * 1024 * 1024}
}

func informationParams() compliance.InformationParams {
	return compliance.InformationParams{
		FullName:    "Jane Doe",
		DateOfBirth: "1990-04-01",
		Address:     "Douala",
		IDNumber:    "CM123456",
		Country:     "CM",
	}
}

// recordTracker wires StoreKYCRecord and UpdateKYCRecord to a single record
// so status transitions can be observed.
func recordTracker() (*storagetest.FakeStorage, *domain.KYCRecord) {
	record := &domain.KYCRecord{}

	fake := &storagetest.FakeStorage{
		StoreKYCRecordFunc: func(_ context.Context, r domain.KYCRecord) (*domain.KYCRecord, error) {
			r.ID = domain.KYCRecordID(uuid.New())
			*record = r

			return record, nil
		},
		UpdateKYCRecordFunc: func(_ context.Context,
			_ domain.KYCRecordID, updates storage.KYCRecordUpdates,
		) (*domain.KYCRecord, error) {
			if updates.Status != "" {
				record.Status = updates.Status
			}
			if updates.Result != nil {
				record.Result = updates.Result
			}
			if updates.ReviewedBy != (domain.UserID{}) {
				record.ReviewedBy = updates.ReviewedBy
			}

			return record, nil
		},
		KYCRecordByIDFunc: func(context.Context, domain.KYCRecordID) (*domain.KYCRecord, error) {
			return record, nil
		},
	}

	return fake, record
}

func TestCompliance_SubmitInformation_CleanScreen(t *testing.T) {
	fake, record := recordTracker()
	c := compliance.New(fake, cleanScreener(), &notificationRecorder{}, testOptions())

	submitted, err := c.SubmitInformation(context.Background(),
		domain.User{ID: domain.UserID(uuid.New())}, informationParams())
	require.NoError(t, err)
	require.Equal(t, domain.KYCStatusUnderReview, submitted.Status)
	require.NotNil(t, record.Result)
	require.Equal(t, "low", record.Result.RiskLevel)
}

func TestCompliance_SubmitInformation_SanctionsHit(t *testing.T) {
	fake, _ := recordTracker()
	var userStatus domain.KYCStatus
	fake.UpdateUserFunc = func(_ context.Context,
		id domain.UserID, updates storage.UserUpdates,
	) (*domain.User, error) {
		userStatus = updates.KYCStatus

		return &domain.User{ID: id}, nil
	}
	screener := screenerFunc(func(context.Context, screening.Request) (domain.ScreeningResult, error) {
		return domain.ScreeningResult{RiskLevel: "high", SanctionsMatch: true, Recommendation: "reject"}, nil
	})
	recorder := &notificationRecorder{}
	c := compliance.New(fake, screener, recorder, testOptions())

	submitted, err := c.SubmitInformation(context.Background(),
		domain.User{ID: domain.UserID(uuid.New())}, informationParams())
	require.NoError(t, err)
	require.Equal(t, domain.KYCStatusRejected, submitted.Status)
	require.Equal(t, domain.KYCStatusRejected, userStatus)
	require.Len(t, recorder.notifications, 1)
	require.Equal(t, "Identity verification rejected", recorder.notifications[0].Title)
}

func TestCompliance_SubmitInformation_ScreenerDown(t *testing.T) {
	fake, _ := recordTracker()
	screener := screenerFunc(func(context.Context, screening.Request) (domain.ScreeningResult, error) {
		return domain.ScreeningResult{}, serrors.KindOnly(serrors.ErrUnavailable)
	})
	c := compliance.New(fake, screener, &notificationRecorder{}, testOptions())

	submitted, err := c.SubmitInformation(context.Background(),
		domain.User{ID: domain.UserID(uuid.New())}, informationParams())
	require.NoError(t, err)
	// left pending for a later rescreen
	require.Equal(t, domain.KYCStatusPending, submitted.Status)
}

func TestCompliance_SubmitInformation_Validation(t *testing.T) {
	c := compliance.New(&storagetest.FakeStorage{}, cleanScreener(), &notificationRecorder{}, testOptions())

	_, err := c.SubmitInformation(context.Background(), domain.User{},
		compliance.InformationParams{FullName: "Jane"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = c.SubmitInformation(context.Background(),
		domain.User{KYCStatus: domain.KYCStatusApproved}, informationParams())
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestCompliance_SubmitDocument(t *testing.T) {
	c := compliance.New(&storagetest.FakeStorage{}, cleanScreener(), &notificationRecorder{}, testOptions())
	user := domain.User{ID: domain.UserID(uuid.New())}

	record, err := c.SubmitDocument(context.Background(), user, compliance.DocumentParams{
		Type:      domain.DocumentTypePassport,
		Country:   "CM",
		SizeBytes: 1024,
	})
	require.NoError(t, err)
	require.Equal(t, domain.KYCRecordKindDocument, record.Kind)
	require.Equal(t, domain.KYCStatusPending, record.Status)

	_, err = c.SubmitDocument(context.Background(), user, compliance.DocumentParams{
		Type:      "selfie",
		SizeBytes: 1024,
	})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = c.SubmitDocument(context.Background(), user, compliance.DocumentParams{
		Type:      domain.DocumentTypeIDCard,
		SizeBytes: testOptions().MaxDocumentBytes + 1,
	})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestCompliance_Decide_Approve(t *testing.T) {
	userID := domain.UserID(uuid.New())
	fake, record := recordTracker()
	record.ID = domain.KYCRecordID(uuid.New())
	record.UserID = userID
	record.Status = domain.KYCStatusUnderReview

	var applied storage.UserUpdates
	fake.UpdateUserFunc = func(_ context.Context,
		id domain.UserID, updates storage.UserUpdates,
	) (*domain.User, error) {
		require.Equal(t, userID, id)
		applied = updates

		return &domain.User{ID: id}, nil
	}
	recorder := &notificationRecorder{}
	c := compliance.New(fake, cleanScreener(), recorder, testOptions())
	reviewer := domain.User{ID: domain.UserID(uuid.New()), Role: domain.RoleAdmin}

	decided, err := c.Decide(context.Background(), reviewer, record.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.KYCStatusApproved, decided.Status)
	require.Equal(t, reviewer.ID, decided.ReviewedBy)

	require.Equal(t, domain.KYCStatusApproved, applied.KYCStatus)
	require.Equal(t, domain.VerificationLevelVerified, applied.VerificationLevel)
	require.NotNil(t, applied.Verified)
	require.True(t, *applied.Verified)

	require.Len(t, recorder.notifications, 1)
	require.Equal(t, "Identity verified", recorder.notifications[0].Title)

	// already decided
	_, err = c.Decide(context.Background(), reviewer, record.ID, true)
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestCompliance_Decide_NotFound(t *testing.T) {
	c := compliance.New(&storagetest.FakeStorage{}, cleanScreener(), &notificationRecorder{}, testOptions())

	_, err := c.Decide(context.Background(), domain.User{}, domain.KYCRecordID(uuid.New()), true)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}
