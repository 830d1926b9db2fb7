// Package personal implements the momo.Gateway against a single personal
// mobile-money number. There is no provider API behind it: deposits arrive
// because users send money to the number, and payouts are executed manually
// by an operator from the same number.
package personal

import (
	"context"
	"fmt"

	"wefund/pkg/domain"
	"wefund/pkg/momo"
	"wefund/pkg/serrors"
)

// Gateway holds the collection number configuration.
type Gateway struct {
	phoneNumber string
	provider    domain.MoMoProvider
	accountName string
}

// CollectionNumber returns the configured personal number and its rail.
func (g *Gateway) CollectionNumber() (string, domain.MoMoProvider) {
	return g.phoneNumber, g.provider
}

// DepositInstructions returns the manual transfer steps for the personal
// number. A zero amount and empty reference produce the generic instructions
// shown before a deposit is started.
func (g *Gateway) DepositInstructions(_ context.Context,
	amount int64,
	reference string) (momo.DepositInstructions, error) {
	steps := []string{
		fmt.Sprintf("Dial your %s transfer menu", providerLabel(g.provider)),
	}
	if amount > 0 {
		steps = append(steps, fmt.Sprintf("Send %d XAF to %s (%s)", amount, g.phoneNumber, g.accountName))
	} else {
		steps = append(steps, fmt.Sprintf("Send your deposit amount to %s (%s)", g.phoneNumber, g.accountName))
	}
	if reference != "" {
		steps = append(steps, fmt.Sprintf("Enter %s as the transfer reason or reference", reference))
	} else {
		steps = append(steps, "Quote the reference shown when you start the deposit")
	}
	steps = append(steps, "Your wallet is credited once the transfer is confirmed")

	return momo.DepositInstructions{
		PhoneNumber: g.phoneNumber,
		Provider:    g.provider,
		AccountName: g.accountName,
		Reference:   reference,
		Amount:      amount,
		Steps:       steps,
	}, nil
}

// Payout validates the request and accepts it for manual processing. The
// caller records the pending transaction; an operator settles it from the
// personal number.
func (g *Gateway) Payout(_ context.Context,
	phoneNumber string,
	provider domain.MoMoProvider,
	amount int64,
	_ string) error {
	if phoneNumber == "" {
		return serrors.With(serrors.ErrBadRequest, "phone number is required")
	}
	if !domain.ValidMoMoProvider(provider) {
		return serrors.With(serrors.ErrBadRequest, "unsupported provider: %s", provider)
	}
	if amount <= 0 {
		return serrors.With(serrors.ErrBadRequest, "amount must be positive")
	}

	return nil
}

func providerLabel(p domain.MoMoProvider) string {
	switch p {
	case domain.MoMoProviderMTNMoney:
		return "MTN Mobile Money"
	case domain.MoMoProviderOrangeMoney:
		return "Orange Money"
	case domain.MoMoProviderMPesa:
		return "M-Pesa"
	default:
		return string(p)
	}
}

// Ensure Gateway conforms to the momo.Gateway interface at compile time.
var _ momo.Gateway = (*Gateway)(nil)

// New constructs a Gateway collecting on the given personal number.
func New(phoneNumber string, provider domain.MoMoProvider, accountName string) *Gateway {
	return &Gateway{
		phoneNumber: phoneNumber,
		provider:    provider,
		accountName: accountName,
	}
}
