// Package wallet owns the user wallet ledger and the mobile-money flows on
// top of it.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wefund/internal/config"
	"wefund/pkg/domain"
	"wefund/pkg/logger"
	"wefund/pkg/momo"
	"wefund/pkg/serrors"
	"wefund/pkg/storage"

	"go.uber.org/zap"
)

// Options contains the configurable parameters of the wallet service.
type Options struct {
	// MinDeposit is the smallest accepted mobile-money deposit in XAF.
	MinDeposit int64
	// MinWithdrawal is the smallest accepted mobile-money withdrawal in XAF.
	MinWithdrawal int64
	// BankTransfersEnabled gates sweeps from the collection number to the bank.
	BankTransfersEnabled bool
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MinDeposit:           cfg.MoMo.MinDeposit,
		MinWithdrawal:        cfg.MoMo.MinWithdrawal,
		BankTransfersEnabled: cfg.MoMo.BankTransfersEnabled,
	}
}

type wallet struct {
	storage  storage.Storage
	gateway  momo.Gateway
	notifier Notifier
	options  Options
}

func (w *wallet) Deposit(ctx context.Context, user domain.User, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "amount must be positive")
	}

	var stored *domain.Transaction
	err := w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if _, err := tx.CreditWallet(ctx, user.ID, amount); err != nil {
			return fmt.Errorf("could not credit wallet: %w", err)
		}

		var err error
		stored, err = tx.StoreTransaction(ctx, domain.Transaction{
			UserID: user.ID,
			Type:   domain.TransactionTypeDeposit,
			Status: domain.TransactionStatusCompleted,
			Amount: amount,
		})
		if err != nil {
			return fmt.Errorf("could not store transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (w *wallet) Withdraw(ctx context.Context, user domain.User, amount int64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "amount must be positive")
	}

	var stored *domain.Transaction
	err := w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		debited, err := tx.DebitWallet(ctx, user.ID, amount)
		if err != nil {
			return fmt.Errorf("could not debit wallet: %w", err)
		}
		if debited == nil {
			return serrors.With(serrors.ErrBadRequest, "insufficient wallet balance")
		}

		stored, err = tx.StoreTransaction(ctx, domain.Transaction{
			UserID: user.ID,
			Type:   domain.TransactionTypeWithdraw,
			Status: domain.TransactionStatusCompleted,
			Amount: amount,
		})
		if err != nil {
			return fmt.Errorf("could not store transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (w *wallet) Transactions(ctx context.Context, userID domain.UserID,
	types []domain.TransactionType, cursor time.Time, limit uint,
) (storage.TransactionPage, error) {
	page, err := w.storage.Transactions(ctx, storage.TransactionFilter{
		UserID: userID,
		Types:  types,
	}, cursor, limit)
	if err != nil {
		return storage.TransactionPage{}, fmt.Errorf("could not fetch transactions: %w", err)
	}

	return page, nil
}

func (w *wallet) MoMoDeposit(ctx context.Context, user domain.User, amount int64,
	phoneNumber string, provider domain.MoMoProvider,
) (*domain.Transaction, momo.DepositInstructions, error) {
	if amount < w.options.MinDeposit {
		return nil, momo.DepositInstructions{}, serrors.With(serrors.ErrBadRequest,
			"minimum deposit is %d XAF", w.options.MinDeposit)
	}
	if phoneNumber == "" {
		return nil, momo.DepositInstructions{}, serrors.With(serrors.ErrBadRequest, "phone number is required")
	}
	if !domain.ValidMoMoProvider(provider) {
		return nil, momo.DepositInstructions{}, serrors.With(serrors.ErrBadRequest,
			"unsupported provider: %s", provider)
	}

	reference := momo.NewReference(time.Now())
	collectionNumber, collectionProvider := w.gateway.CollectionNumber()

	var stored *domain.Transaction
	err := w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		stored, err = tx.StoreTransaction(ctx, domain.Transaction{
			UserID:      user.ID,
			Type:        domain.TransactionTypeMoMoDeposit,
			Status:      domain.TransactionStatusPending,
			Amount:      amount,
			Provider:    provider,
			PhoneNumber: phoneNumber,
			Reference:   reference,
		})
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return serrors.With(serrors.ErrConflict, "reference collision, retry the deposit")
			}

			return fmt.Errorf("could not store transaction: %w", err)
		}

		_, err = tx.StoreTransfer(ctx, domain.Transfer{
			UserID:    user.ID,
			Direction: domain.TransferDirectionIn,
			FromPhone: phoneNumber,
			ToPhone:   collectionNumber,
			Amount:    amount,
			Provider:  collectionProvider,
			Reference: reference,
			Status:    domain.TransactionStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, momo.DepositInstructions{}, err
	}

	instructions, err := w.gateway.DepositInstructions(ctx, amount, reference)
	if err != nil {
		return nil, momo.DepositInstructions{}, fmt.Errorf("could not build deposit instructions: %w", err)
	}

	return stored, instructions, nil
}

func (w *wallet) MoMoWithdraw(ctx context.Context, user domain.User, amount int64,
	phoneNumber string, provider domain.MoMoProvider,
) (*domain.Transaction, error) {
	if amount < w.options.MinWithdrawal {
		return nil, serrors.With(serrors.ErrBadRequest,
			"minimum withdrawal is %d XAF", w.options.MinWithdrawal)
	}
	if phoneNumber == "" {
		return nil, serrors.With(serrors.ErrBadRequest, "phone number is required")
	}
	if !domain.ValidMoMoProvider(provider) {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported provider: %s", provider)
	}

	reference := momo.NewReference(time.Now())
	if err := w.gateway.Payout(ctx, phoneNumber, provider, amount, reference); err != nil {
		return nil, fmt.Errorf("payout rejected: %w", err)
	}

	collectionNumber, _ := w.gateway.CollectionNumber()

	var stored *domain.Transaction
	err := w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		debited, err := tx.DebitWallet(ctx, user.ID, amount)
		if err != nil {
			return fmt.Errorf("could not debit wallet: %w", err)
		}
		if debited == nil {
			return serrors.With(serrors.ErrBadRequest, "insufficient wallet balance")
		}

		stored, err = tx.StoreTransaction(ctx, domain.Transaction{
			UserID:      user.ID,
			Type:        domain.TransactionTypeMobileWithdrawal,
			Status:      domain.TransactionStatusPending,
			Amount:      amount,
			Provider:    provider,
			PhoneNumber: phoneNumber,
			Reference:   reference,
		})
		if err != nil {
			return fmt.Errorf("could not store transaction: %w", err)
		}

		_, err = tx.StoreTransfer(ctx, domain.Transfer{
			UserID:    user.ID,
			Direction: domain.TransferDirectionOut,
			FromPhone: collectionNumber,
			ToPhone:   phoneNumber,
			Amount:    amount,
			Provider:  provider,
			Reference: reference,
			Status:    domain.TransactionStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (w *wallet) DepositInstructions(ctx context.Context) (momo.DepositInstructions, error) {
	instructions, err := w.gateway.DepositInstructions(ctx, 0, "")
	if err != nil {
		return momo.DepositInstructions{}, fmt.Errorf("could not build deposit instructions: %w", err)
	}

	return instructions, nil
}

// ConfirmMoMo settles the pending transaction behind the reference. The
// conditional settlement update makes the wallet credit exactly once even
// when two admins confirm concurrently.
func (w *wallet) ConfirmMoMo(ctx context.Context, reference, notes string) (*domain.Transaction, error) {
	pending, err := w.mustPendingMoMo(ctx, reference)
	if err != nil {
		return nil, err
	}

	var settled *domain.Transaction
	err = w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		settled, err = tx.MarkTransactionCompleted(ctx, pending.ID, notes)
		if err != nil {
			return fmt.Errorf("could not settle transaction: %w", err)
		}
		if settled == nil {
			return serrors.With(serrors.ErrConflict, "transaction is already settled")
		}

		if settled.Type == domain.TransactionTypeMoMoDeposit {
			if _, err := tx.CreditWallet(ctx, settled.UserID, settled.Amount); err != nil {
				return fmt.Errorf("could not credit wallet: %w", err)
			}
		}

		if _, err := tx.MarkTransferProcessed(ctx, reference, domain.TransactionStatusCompleted); err != nil {
			return fmt.Errorf("could not settle transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	w.notifySettled(ctx, *settled)

	return settled, nil
}

// RejectMoMo fails the pending transaction behind the reference. A rejected
// withdrawal refunds the amount that was debited up front.
func (w *wallet) RejectMoMo(ctx context.Context, reference, notes string) (*domain.Transaction, error) {
	pending, err := w.mustPendingMoMo(ctx, reference)
	if err != nil {
		return nil, err
	}

	var settled *domain.Transaction
	err = w.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		var err error
		settled, err = tx.MarkTransactionFailed(ctx, pending.ID, notes)
		if err != nil {
			return fmt.Errorf("could not settle transaction: %w", err)
		}
		if settled == nil {
			return serrors.With(serrors.ErrConflict, "transaction is already settled")
		}

		if settled.Type == domain.TransactionTypeMobileWithdrawal {
			if _, err := tx.CreditWallet(ctx, settled.UserID, settled.Amount); err != nil {
				return fmt.Errorf("could not refund wallet: %w", err)
			}
		}

		if _, err := tx.MarkTransferProcessed(ctx, reference, domain.TransactionStatusFailed); err != nil {
			return fmt.Errorf("could not settle transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	w.notifySettled(ctx, *settled)

	return settled, nil
}

func (w *wallet) mustPendingMoMo(ctx context.Context, reference string) (*domain.Transaction, error) {
	tx, err := w.storage.TransactionByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("could not fetch transaction: %w", err)
	}
	if tx == nil {
		return nil, serrors.With(serrors.ErrNotFound, "no transaction with reference %s", reference)
	}
	if tx.Type != domain.TransactionTypeMoMoDeposit && tx.Type != domain.TransactionTypeMobileWithdrawal {
		return nil, serrors.With(serrors.ErrBadRequest, "transaction %s is not a mobile-money transaction", reference)
	}

	return tx, nil
}

func (w *wallet) notifySettled(ctx context.Context, tx domain.Transaction) {
	var title, body string
	switch {
	case tx.Type == domain.TransactionTypeMoMoDeposit && tx.Status == domain.TransactionStatusCompleted:
		title = "Deposit confirmed"
		body = fmt.Sprintf("Your deposit of %d XAF was confirmed and credited to your wallet", tx.Amount)
	case tx.Type == domain.TransactionTypeMoMoDeposit:
		title = "Deposit rejected"
		body = fmt.Sprintf("Your deposit of %d XAF could not be matched, contact support", tx.Amount)
	case tx.Status == domain.TransactionStatusCompleted:
		title = "Withdrawal sent"
		body = fmt.Sprintf("Your withdrawal of %d XAF was sent to %s", tx.Amount, tx.PhoneNumber)
	default:
		title = "Withdrawal failed"
		body = fmt.Sprintf("Your withdrawal of %d XAF failed and was refunded to your wallet", tx.Amount)
	}

	_, err := w.notifier.Notify(ctx, domain.Notification{
		UserID: tx.UserID,
		Title:  title,
		Body:   body,
		Type:   domain.NotificationTypeSystem,
		Data:   map[string]string{"reference": tx.Reference},
	})
	if err != nil {
		logger.Error(ctx, "could not notify user", zap.Error(err))
	}
}

func (w *wallet) MoMoTransfers(ctx context.Context, direction domain.TransferDirection,
	cursor time.Time, limit uint,
) ([]domain.Transfer, error) {
	transfers, err := w.storage.Transfers(ctx, direction, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("could not fetch transfers: %w", err)
	}

	return transfers, nil
}

func (w *wallet) MoMoStats(ctx context.Context) (MoMoStats, error) {
	in, err := w.storage.SumTransfers(ctx, domain.TransferDirectionIn)
	if err != nil {
		return MoMoStats{}, fmt.Errorf("could not sum inbound transfers: %w", err)
	}
	out, err := w.storage.SumTransfers(ctx, domain.TransferDirectionOut)
	if err != nil {
		return MoMoStats{}, fmt.Errorf("could not sum outbound transfers: %w", err)
	}
	_, pending, err := w.storage.SumTransactions(ctx, storage.TransactionFilter{
		Types: []domain.TransactionType{
			domain.TransactionTypeMoMoDeposit,
			domain.TransactionTypeMobileWithdrawal,
		},
		Status: domain.TransactionStatusPending,
	})
	if err != nil {
		return MoMoStats{}, fmt.Errorf("could not count pending transactions: %w", err)
	}

	return MoMoStats{
		TotalIn:      in,
		TotalOut:     out,
		Net:          in - out,
		PendingCount: pending,
	}, nil
}

func (w *wallet) TransferToBank(ctx context.Context, amount int64, notes string) (*domain.Transfer, error) {
	if !w.options.BankTransfersEnabled {
		return nil, serrors.With(serrors.ErrUnavailable, "bank transfers are not enabled")
	}
	if amount <= 0 {
		return nil, serrors.With(serrors.ErrBadRequest, "amount must be positive")
	}

	collectionNumber, provider := w.gateway.CollectionNumber()
	transfer, err := w.storage.StoreTransfer(ctx, domain.Transfer{
		Direction: domain.TransferDirectionOut,
		FromPhone: collectionNumber,
		ToPhone:   "bank",
		Amount:    amount,
		Provider:  provider,
		Reference: momo.NewReference(time.Now()),
		Status:    domain.TransactionStatusPending,
		Notes:     notes,
	})
	if err != nil {
		return nil, fmt.Errorf("could not store transfer: %w", err)
	}

	return transfer, nil
}

// New creates a new Wallet service.
func New(storage storage.Storage, gateway momo.Gateway, notifier Notifier, options Options) Wallet {
	return &wallet{
		storage:  storage,
		gateway:  gateway,
		notifier: notifier,
		options:  options,
	}
}
