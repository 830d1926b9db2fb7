// Package momo defines the mobile-money gateway abstraction. Until a real
// provider integration lands, the platform collects deposits on a single
// personal number and pays out manually, so the gateway mostly shapes
// instructions and references.
package momo

import (
	"context"
	"time"

	"wefund/pkg/domain"
)

// DepositInstructions tells a user how to move money to the platform.
type DepositInstructions struct {
	// PhoneNumber is the collection number deposits must be sent to.
	PhoneNumber string `json:"phoneNumber"`
	// Provider is the rail the collection number lives on.
	Provider domain.MoMoProvider `json:"provider"`
	// AccountName is the registered holder of the collection number.
	AccountName string `json:"accountName"`
	// Reference must be quoted in the transfer so it can be matched.
	Reference string   `json:"reference,omitempty"`
	Amount    int64    `json:"amount,omitempty"`
	Steps     []string `json:"steps"`
}

// Gateway is the abstraction for mobile-money rails.
//
//go:generate mockgen -package mockmomo -source=interface.go -destination=mock/mockmomo.go *
type Gateway interface {
	// CollectionNumber returns the number deposits are routed to and its rail.
	CollectionNumber() (string, domain.MoMoProvider)
	// DepositInstructions returns the steps for sending amount to the platform
	// under the given reference.
	DepositInstructions(ctx context.Context, amount int64, reference string) (DepositInstructions, error)
	// Payout requests a transfer of amount from the platform to the given
	// number. Implementations may queue the payout for manual processing.
	Payout(ctx context.Context, phoneNumber string, provider domain.MoMoProvider, amount int64, reference string) error
}

// NewReference builds a deposit reference from the current time, e.g.
// WFD20240101093000.
func NewReference(now time.Time) string {
	return "WFD" + now.UTC().Format("20060102150405")
}
