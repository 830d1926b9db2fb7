package personal_test

import (
	"context"
	"testing"

	"wefund/pkg/domain"
	"wefund/pkg/momo/personal"
	"wefund/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestGateway_DepositInstructions(t *testing.T) {
	g := personal.New("678394294", domain.MoMoProviderMTNMoney, "WeFund Collections")

	instructions, err := g.DepositInstructions(context.Background(), 1500, "WFD20240101093000")
	require.NoError(t, err)
	require.Equal(t, "678394294", instructions.PhoneNumber)
	require.Equal(t, domain.MoMoProviderMTNMoney, instructions.Provider)
	require.Equal(t, "WFD20240101093000", instructions.Reference)
	require.EqualValues(t, 1500, instructions.Amount)
	require.NotEmpty(t, instructions.Steps)
}

func TestGateway_DepositInstructions_Generic(t *testing.T) {
	g := personal.New("678394294", domain.MoMoProviderMTNMoney, "WeFund Collections")

	instructions, err := g.DepositInstructions(context.Background(), 0, "")
	require.NoError(t, err)
	require.Equal(t, "678394294", instructions.PhoneNumber)
	require.Empty(t, instructions.Reference)
	require.Zero(t, instructions.Amount)
	require.Len(t, instructions.Steps, 4)
	for _, step := range instructions.Steps {
		require.NotContains(t, step, "0 XAF")
	}
}

func TestGateway_Payout_Validation(t *testing.T) {
	g := personal.New("678394294", domain.MoMoProviderMTNMoney, "WeFund Collections")
	ctx := context.Background()

	err := g.Payout(ctx, "", domain.MoMoProviderMTNMoney, 100, "ref")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	err = g.Payout(ctx, "670000001", "paypal", 100, "ref")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	err = g.Payout(ctx, "670000001", domain.MoMoProviderOrangeMoney, 0, "ref")
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	err = g.Payout(ctx, "670000001", domain.MoMoProviderOrangeMoney, 100, "ref")
	require.NoError(t, err)
}
