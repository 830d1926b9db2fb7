// Package storagetest provides an in-process storage.Storage fake for service
// tests. Each method delegates to an optional function field; unset fields
// return zero values, so a test only wires the calls it cares about.
package storagetest

import (
	"context"
	"time"

	"wefund/pkg/domain"
	"wefund/pkg/storage"

	"github.com/riverqueue/river"
)

// FakeStorage implements storage.Storage by delegating to function fields.
// WithTx runs the callback against the fake itself, so per-method hooks keep
// working inside transactions.
type FakeStorage struct {
	StoreUserFunc       func(ctx context.Context, user domain.User) (*domain.User, error)
	UserByIDFunc        func(ctx context.Context, ID domain.UserID) (*domain.User, error)
	UserByEmailFunc     func(ctx context.Context, email string) (*domain.User, error)
	UpdateUserFunc      func(ctx context.Context, ID domain.UserID, updates storage.UserUpdates) (*domain.User, error)
	CreditWalletFunc    func(ctx context.Context, ID domain.UserID, amount int64) (*domain.User, error)
	DebitWalletFunc     func(ctx context.Context, ID domain.UserID, amount int64) (*domain.User, error)
	ApplyInvestmentFunc func(ctx context.Context, ID domain.UserID, amount, capLimit int64) (*domain.User, error)
	UsersFunc           func(ctx context.Context, cursor time.Time, limit uint) (storage.UserPage, error)
	CountUsersFunc      func(ctx context.Context, filter storage.UserFilter) (int64, error)

	StoreProjectFunc    func(ctx context.Context, project domain.Project) (*domain.Project, error)
	ProjectByIDFunc     func(ctx context.Context, ID domain.ProjectID) (*domain.Project, error)
	ProjectsFunc        func(ctx context.Context, filter storage.ProjectListFilter, cursor time.Time, limit uint) (storage.ProjectPage, error)
	UpdateProjectFunc   func(ctx context.Context, ID domain.ProjectID, updates storage.ProjectUpdates) (*domain.Project, error)
	ApplyFundingFunc    func(ctx context.Context, ID domain.ProjectID, amount int64) (*domain.Project, error)
	DeleteProjectFunc   func(ctx context.Context, ID domain.ProjectID) (*domain.Project, error)
	CountProjectsFunc   func(ctx context.Context, statuses ...domain.ProjectStatus) (int64, error)
	StoreInvestmentFunc func(ctx context.Context, investment domain.Investment) (*domain.Investment, error)

	StoreTransactionFunc         func(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	TransactionByReferenceFunc   func(ctx context.Context, reference string) (*domain.Transaction, error)
	MarkTransactionCompletedFunc func(ctx context.Context, ID domain.TransactionID, notes string) (*domain.Transaction, error)
	MarkTransactionFailedFunc    func(ctx context.Context, ID domain.TransactionID, notes string) (*domain.Transaction, error)
	TransactionsFunc             func(ctx context.Context, filter storage.TransactionFilter, cursor time.Time, limit uint) (storage.TransactionPage, error)
	SumTransactionsFunc          func(ctx context.Context, filter storage.TransactionFilter) (int64, int64, error)
	FinancialSeriesFunc          func(ctx context.Context, period domain.FinancialPeriod, since time.Time) ([]domain.FinancialBucket, error)
	StoreTransferFunc            func(ctx context.Context, transfer domain.Transfer) (*domain.Transfer, error)
	MarkTransferProcessedFunc    func(ctx context.Context, reference string, status domain.TransactionStatus) (*domain.Transfer, error)
	TransfersFunc                func(ctx context.Context, direction domain.TransferDirection, cursor time.Time, limit uint) ([]domain.Transfer, error)
	SumTransfersFunc             func(ctx context.Context, direction domain.TransferDirection) (int64, error)

	StoreMessageFunc   func(ctx context.Context, message domain.Message) (*domain.Message, error)
	ThreadFunc         func(ctx context.Context, userID, peerID domain.UserID) ([]domain.Message, error)
	MarkThreadReadFunc func(ctx context.Context, userID, peerID domain.UserID) (int64, error)
	ConversationsFunc  func(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error)

	StoreNotificationFunc     func(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	UserNotificationsFunc     func(ctx context.Context, userID domain.UserID, cursor time.Time, limit uint) (storage.NotificationPage, error)
	MarkNotificationsReadFunc func(ctx context.Context, userID domain.UserID) (int64, error)
	MarkNotificationSentFunc  func(ctx context.Context, ID domain.NotificationID) error
	StoreDeviceTokenFunc      func(ctx context.Context, token domain.DeviceToken) (*domain.DeviceToken, error)
	DeviceTokensFunc          func(ctx context.Context, userID domain.UserID) ([]domain.DeviceToken, error)
	DeleteDeviceTokenFunc     func(ctx context.Context, token string) error

	StoreKYCRecordFunc    func(ctx context.Context, record domain.KYCRecord) (*domain.KYCRecord, error)
	KYCRecordByIDFunc     func(ctx context.Context, ID domain.KYCRecordID) (*domain.KYCRecord, error)
	KYCRecordsByUserFunc  func(ctx context.Context, userID domain.UserID) ([]domain.KYCRecord, error)
	LatestKYCRecordFunc   func(ctx context.Context, userID domain.UserID, kind domain.KYCRecordKind) (*domain.KYCRecord, error)
	UpdateKYCRecordFunc   func(ctx context.Context, ID domain.KYCRecordID, updates storage.KYCRecordUpdates) (*domain.KYCRecord, error)
	PendingKYCRecordsFunc func(ctx context.Context, limit uint) ([]domain.KYCRecord, error)

	StoreVerificationTokenFunc func(ctx context.Context, token domain.VerificationToken) (*domain.VerificationToken, error)
	ConsumeTokenFunc           func(ctx context.Context, kind domain.VerificationKind, token string) (*domain.VerificationToken, error)
	LatestTokenFunc            func(ctx context.Context, userID domain.UserID, kind domain.VerificationKind) (*domain.VerificationToken, error)
	IncrementTokenAttemptsFunc func(ctx context.Context, ID domain.VerificationTokenID) (int, error)

	StoreSnapshotFunc func(ctx context.Context, snapshot domain.AnalyticsSnapshot) error
	SnapshotsFunc     func(ctx context.Context, since, until time.Time) ([]domain.AnalyticsSnapshot, error)

	AddJobFunc func(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}

var _ storage.Storage = (*FakeStorage)(nil)

func (f *FakeStorage) StoreUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if f.StoreUserFunc == nil {
		return &user, nil
	}

	return f.StoreUserFunc(ctx, user)
}

func (f *FakeStorage) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if f.UserByIDFunc == nil {
		return nil, nil
	}

	return f.UserByIDFunc(ctx, id)
}

func (f *FakeStorage) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.UserByEmailFunc == nil {
		return nil, nil
	}

	return f.UserByEmailFunc(ctx, email)
}

func (f *FakeStorage) UpdateUser(ctx context.Context,
	id domain.UserID, updates storage.UserUpdates,
) (*domain.User, error) {
	if f.UpdateUserFunc == nil {
		return &domain.User{ID: id}, nil
	}

	return f.UpdateUserFunc(ctx, id, updates)
}

func (f *FakeStorage) CreditWallet(ctx context.Context, id domain.UserID, amount int64) (*domain.User, error) {
	if f.CreditWalletFunc == nil {
		return &domain.User{ID: id, WalletBalance: amount}, nil
	}

	return f.CreditWalletFunc(ctx, id, amount)
}

func (f *FakeStorage) DebitWallet(ctx context.Context, id domain.UserID, amount int64) (*domain.User, error) {
	if f.DebitWalletFunc == nil {
		return &domain.User{ID: id}, nil
	}

	return f.DebitWalletFunc(ctx, id, amount)
}

func (f *FakeStorage) ApplyInvestment(ctx context.Context,
	id domain.UserID, amount, capLimit int64,
) (*domain.User, error) {
	if f.ApplyInvestmentFunc == nil {
		return &domain.User{ID: id, TotalInvested: amount}, nil
	}

	return f.ApplyInvestmentFunc(ctx, id, amount, capLimit)
}

func (f *FakeStorage) Users(ctx context.Context, cursor time.Time, limit uint) (storage.UserPage, error) {
	if f.UsersFunc == nil {
		return storage.UserPage{}, nil
	}

	return f.UsersFunc(ctx, cursor, limit)
}

func (f *FakeStorage) CountUsers(ctx context.Context, filter storage.UserFilter) (int64, error) {
	if f.CountUsersFunc == nil {
		return 0, nil
	}

	return f.CountUsersFunc(ctx, filter)
}

func (f *FakeStorage) StoreProject(ctx context.Context, project domain.Project) (*domain.Project, error) {
	if f.StoreProjectFunc == nil {
		return &project, nil
	}

	return f.StoreProjectFunc(ctx, project)
}

func (f *FakeStorage) ProjectByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	if f.ProjectByIDFunc == nil {
		return nil, nil
	}

	return f.ProjectByIDFunc(ctx, id)
}

func (f *FakeStorage) Projects(ctx context.Context,
	filter storage.ProjectListFilter, cursor time.Time, limit uint,
) (storage.ProjectPage, error) {
	if f.ProjectsFunc == nil {
		return storage.ProjectPage{}, nil
	}

	return f.ProjectsFunc(ctx, filter, cursor, limit)
}

func (f *FakeStorage) UpdateProject(ctx context.Context,
	id domain.ProjectID, updates storage.ProjectUpdates,
) (*domain.Project, error) {
	if f.UpdateProjectFunc == nil {
		return &domain.Project{ID: id}, nil
	}

	return f.UpdateProjectFunc(ctx, id, updates)
}

func (f *FakeStorage) ApplyFunding(ctx context.Context, id domain.ProjectID, amount int64) (*domain.Project, error) {
	if f.ApplyFundingFunc == nil {
		return &domain.Project{ID: id, FundedAmount: amount}, nil
	}

	return f.ApplyFundingFunc(ctx, id, amount)
}

func (f *FakeStorage) DeleteProject(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	if f.DeleteProjectFunc == nil {
		return &domain.Project{ID: id}, nil
	}

	return f.DeleteProjectFunc(ctx, id)
}

func (f *FakeStorage) CountProjects(ctx context.Context, statuses ...domain.ProjectStatus) (int64, error) {
	if f.CountProjectsFunc == nil {
		return 0, nil
	}

	return f.CountProjectsFunc(ctx, statuses...)
}

func (f *FakeStorage) StoreInvestment(ctx context.Context,
	investment domain.Investment,
) (*domain.Investment, error) {
	if f.StoreInvestmentFunc == nil {
		return &investment, nil
	}

	return f.StoreInvestmentFunc(ctx, investment)
}

func (f *FakeStorage) StoreTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if f.StoreTransactionFunc == nil {
		return &tx, nil
	}

	return f.StoreTransactionFunc(ctx, tx)
}

func (f *FakeStorage) TransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	if f.TransactionByReferenceFunc == nil {
		return nil, nil
	}

	return f.TransactionByReferenceFunc(ctx, reference)
}

func (f *FakeStorage) MarkTransactionCompleted(ctx context.Context,
	id domain.TransactionID, notes string,
) (*domain.Transaction, error) {
	if f.MarkTransactionCompletedFunc == nil {
		return &domain.Transaction{ID: id, Status: domain.TransactionStatusCompleted}, nil
	}

	return f.MarkTransactionCompletedFunc(ctx, id, notes)
}

func (f *FakeStorage) MarkTransactionFailed(ctx context.Context,
	id domain.TransactionID, notes string,
) (*domain.Transaction, error) {
	if f.MarkTransactionFailedFunc == nil {
		return &domain.Transaction{ID: id, Status: domain.TransactionStatusFailed}, nil
	}

	return f.MarkTransactionFailedFunc(ctx, id, notes)
}

func (f *FakeStorage) Transactions(ctx context.Context,
	filter storage.TransactionFilter, cursor time.Time, limit uint,
) (storage.TransactionPage, error) {
	if f.TransactionsFunc == nil {
		return storage.TransactionPage{}, nil
	}

	return f.TransactionsFunc(ctx, filter, cursor, limit)
}

func (f *FakeStorage) SumTransactions(ctx context.Context,
	filter storage.TransactionFilter,
) (int64, int64, error) {
	if f.SumTransactionsFunc == nil {
		return 0, 0, nil
	}

	return f.SumTransactionsFunc(ctx, filter)
}

func (f *FakeStorage) FinancialSeries(ctx context.Context,
	period domain.FinancialPeriod, since time.Time,
) ([]domain.FinancialBucket, error) {
	if f.FinancialSeriesFunc == nil {
		return nil, nil
	}

	return f.FinancialSeriesFunc(ctx, period, since)
}

func (f *FakeStorage) StoreTransfer(ctx context.Context, transfer domain.Transfer) (*domain.Transfer, error) {
	if f.StoreTransferFunc == nil {
		return &transfer, nil
	}

	return f.StoreTransferFunc(ctx, transfer)
}

func (f *FakeStorage) MarkTransferProcessed(ctx context.Context,
	reference string, status domain.TransactionStatus,
) (*domain.Transfer, error) {
	if f.MarkTransferProcessedFunc == nil {
		return &domain.Transfer{Reference: reference, Status: status}, nil
	}

	return f.MarkTransferProcessedFunc(ctx, reference, status)
}

func (f *FakeStorage) Transfers(ctx context.Context,
	direction domain.TransferDirection, cursor time.Time, limit uint,
) ([]domain.Transfer, error) {
	if f.TransfersFunc == nil {
		return nil, nil
	}

	return f.TransfersFunc(ctx, direction, cursor, limit)
}

func (f *FakeStorage) SumTransfers(ctx context.Context, direction domain.TransferDirection) (int64, error) {
	if f.SumTransfersFunc == nil {
		return 0, nil
	}

	return f.SumTransfersFunc(ctx, direction)
}

func (f *FakeStorage) StoreMessage(ctx context.Context, message domain.Message) (*domain.Message, error) {
	if f.StoreMessageFunc == nil {
		return &message, nil
	}

	return f.StoreMessageFunc(ctx, message)
}

func (f *FakeStorage) Thread(ctx context.Context, userID, peerID domain.UserID) ([]domain.Message, error) {
	if f.ThreadFunc == nil {
		return nil, nil
	}

	return f.ThreadFunc(ctx, userID, peerID)
}

func (f *FakeStorage) MarkThreadRead(ctx context.Context, userID, peerID domain.UserID) (int64, error) {
	if f.MarkThreadReadFunc == nil {
		return 0, nil
	}

	return f.MarkThreadReadFunc(ctx, userID, peerID)
}

func (f *FakeStorage) Conversations(ctx context.Context, userID domain.UserID) ([]domain.Conversation, error) {
	if f.ConversationsFunc == nil {
		return nil, nil
	}

	return f.ConversationsFunc(ctx, userID)
}

func (f *FakeStorage) StoreNotification(ctx context.Context,
	notification domain.Notification,
) (*domain.Notification, error) {
	if f.StoreNotificationFunc == nil {
		return &notification, nil
	}

	return f.StoreNotificationFunc(ctx, notification)
}

func (f *FakeStorage) UserNotifications(ctx context.Context,
	userID domain.UserID, cursor time.Time, limit uint,
) (storage.NotificationPage, error) {
	if f.UserNotificationsFunc == nil {
		return storage.NotificationPage{}, nil
	}

	return f.UserNotificationsFunc(ctx, userID, cursor, limit)
}

func (f *FakeStorage) MarkNotificationsRead(ctx context.Context, userID domain.UserID) (int64, error) {
	if f.MarkNotificationsReadFunc == nil {
		return 0, nil
	}

	return f.MarkNotificationsReadFunc(ctx, userID)
}

func (f *FakeStorage) MarkNotificationSent(ctx context.Context, id domain.NotificationID) error {
	if f.MarkNotificationSentFunc == nil {
		return nil
	}

	return f.MarkNotificationSentFunc(ctx, id)
}

func (f *FakeStorage) StoreDeviceToken(ctx context.Context, token domain.DeviceToken) (*domain.DeviceToken, error) {
	if f.StoreDeviceTokenFunc == nil {
		return &token, nil
	}

	return f.StoreDeviceTokenFunc(ctx, token)
}

func (f *FakeStorage) DeviceTokens(ctx context.Context, userID domain.UserID) ([]domain.DeviceToken, error) {
	if f.DeviceTokensFunc == nil {
		return nil, nil
	}

	return f.DeviceTokensFunc(ctx, userID)
}

func (f *FakeStorage) DeleteDeviceToken(ctx context.Context, token string) error {
	if f.DeleteDeviceTokenFunc == nil {
		return nil
	}

	return f.DeleteDeviceTokenFunc(ctx, token)
}

func (f *FakeStorage) StoreKYCRecord(ctx context.Context, record domain.KYCRecord) (*domain.KYCRecord, error) {
	if f.StoreKYCRecordFunc == nil {
		return &record, nil
	}

	return f.StoreKYCRecordFunc(ctx, record)
}

func (f *FakeStorage) KYCRecordByID(ctx context.Context, id domain.KYCRecordID) (*domain.KYCRecord, error) {
	if f.KYCRecordByIDFunc == nil {
		return nil, nil
	}

	return f.KYCRecordByIDFunc(ctx, id)
}

func (f *FakeStorage) KYCRecordsByUser(ctx context.Context, userID domain.UserID) ([]domain.KYCRecord, error) {
	if f.KYCRecordsByUserFunc == nil {
		return nil, nil
	}

	return f.KYCRecordsByUserFunc(ctx, userID)
}

func (f *FakeStorage) LatestKYCRecord(ctx context.Context,
	userID domain.UserID, kind domain.KYCRecordKind,
) (*domain.KYCRecord, error) {
	if f.LatestKYCRecordFunc == nil {
		return nil, nil
	}

	return f.LatestKYCRecordFunc(ctx, userID, kind)
}

func (f *FakeStorage) UpdateKYCRecord(ctx context.Context,
	id domain.KYCRecordID, updates storage.KYCRecordUpdates,
) (*domain.KYCRecord, error) {
	if f.UpdateKYCRecordFunc == nil {
		return &domain.KYCRecord{ID: id}, nil
	}

	return f.UpdateKYCRecordFunc(ctx, id, updates)
}

func (f *FakeStorage) PendingKYCRecords(ctx context.Context, limit uint) ([]domain.KYCRecord, error) {
	if f.PendingKYCRecordsFunc == nil {
		return nil, nil
	}

	return f.PendingKYCRecordsFunc(ctx, limit)
}

func (f *FakeStorage) StoreVerificationToken(ctx context.Context,
	token domain.VerificationToken,
) (*domain.VerificationToken, error) {
	if f.StoreVerificationTokenFunc == nil {
		return &token, nil
	}

	return f.StoreVerificationTokenFunc(ctx, token)
}

func (f *FakeStorage) ConsumeToken(ctx context.Context,
	kind domain.VerificationKind, token string,
) (*domain.VerificationToken, error) {
	if f.ConsumeTokenFunc == nil {
		return nil, nil
	}

	return f.ConsumeTokenFunc(ctx, kind, token)
}

func (f *FakeStorage) LatestToken(ctx context.Context,
	userID domain.UserID, kind domain.VerificationKind,
) (*domain.VerificationToken, error) {
	if f.LatestTokenFunc == nil {
		return nil, nil
	}

	return f.LatestTokenFunc(ctx, userID, kind)
}

func (f *FakeStorage) IncrementTokenAttempts(ctx context.Context,
	id domain.VerificationTokenID,
) (int, error) {
	if f.IncrementTokenAttemptsFunc == nil {
		return 0, nil
	}

	return f.IncrementTokenAttemptsFunc(ctx, id)
}

func (f *FakeStorage) StoreSnapshot(ctx context.Context, snapshot domain.AnalyticsSnapshot) error {
	if f.StoreSnapshotFunc == nil {
		return nil
	}

	return f.StoreSnapshotFunc(ctx, snapshot)
}

func (f *FakeStorage) Snapshots(ctx context.Context, since, until time.Time) ([]domain.AnalyticsSnapshot, error) {
	if f.SnapshotsFunc == nil {
		return nil, nil
	}

	return f.SnapshotsFunc(ctx, since, until)
}

func (f *FakeStorage) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	if f.AddJobFunc == nil {
		return true, nil
	}

	return f.AddJobFunc(ctx, args, opts)
}

func (f *FakeStorage) Close() error { return nil }

// Begin returns a transactional view of the same fake. Commit and Rollback are
// no-ops since the fake has no transactional state.
func (f *FakeStorage) Begin(context.Context) (storage.TxStorage, error) {
	return &fakeTx{FakeStorage: f}, nil
}

// WithTx runs cb against the fake itself.
func (f *FakeStorage) WithTx(_ context.Context, cb func(storage storage.AllStorage) error) error {
	return cb(f)
}

type fakeTx struct {
	*FakeStorage
}

func (*fakeTx) Commit() error   { return nil }
func (*fakeTx) Rollback() error { return nil }
