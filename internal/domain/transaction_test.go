package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewDepositRejectsNegativeAmount(t *testing.T) {
	_, err := NewDeposit(1, 1, decimal.NewFromInt(-5))
	require.Error(t, err)

	d, err := NewDeposit(1, 1, decimal.Zero)
	require.NoError(t, err)
	require.Equal(t, KindDeposit, d.Kind)
}

func TestNewWithdrawalRejectsNegativeAmount(t *testing.T) {
	_, err := NewWithdrawal(1, 1, decimal.NewFromInt(-5))
	require.Error(t, err)
}

func TestKindHasAmount(t *testing.T) {
	require.True(t, KindDeposit.HasAmount())
	require.True(t, KindWithdrawal.HasAmount())
	require.False(t, KindDispute.HasAmount())
	require.False(t, KindResolve.HasAmount())
	require.False(t, KindChargeBack.HasAmount())
}
