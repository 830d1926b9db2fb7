// Package screening defines the AML screening abstraction used by the
// compliance pipeline.
package screening

import (
	"context"

	"wefund/pkg/domain"
)

// Request identifies the person to screen and the depth of the screen.
type Request struct {
	FullName    string
	DateOfBirth string
	Country     string
	IDNumber    string
	Level       domain.ScreeningLevel
}

// Screener is the abstraction for compliance providers. Implementations run
// a sanctions/PEP screen and return the provider's verdict.
//
//go:generate mockgen -package mockscreening -source=interface.go -destination=mock/mockscreening.go *
type Screener interface {
	Screen(ctx context.Context, request Request) (domain.ScreeningResult, error)
}
