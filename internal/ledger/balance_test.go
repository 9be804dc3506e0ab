package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestBalanceDepositAndWithdraw(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Withdraw(dec("10")))

	require.True(t, b.Available().Equal(dec("90")))
	require.True(t, b.Total().Equal(dec("90")))
}

func TestBalanceWithdrawInsufficientFunds(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("5")))
	require.ErrorIs(t, b.Withdraw(dec("5.0001")), ErrInsufficientFunds)
	require.True(t, b.Total().Equal(dec("5")), "a rejected withdrawal must not move funds")
}

func TestBalanceDepositHoldReducesAvailable(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Hold(1, dec("100")))

	require.True(t, b.Available().Equal(decimal.Zero))
	require.True(t, b.Held().Equal(dec("100")))
	require.True(t, b.Total().Equal(dec("100")))
}

func TestBalanceWithdrawalHoldExcludedFromHeld(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Withdraw(dec("10")))
	require.NoError(t, b.Hold(2, dec("-10")))

	// The withdrawn money is gone, not held; counting it as held would
	// inflate the funds available for further withdrawals.
	require.True(t, b.Available().Equal(dec("90")))
	require.True(t, b.Held().Equal(decimal.Zero))
}

func TestBalanceMultiHoldRejected(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Hold(1, dec("100")))
	require.ErrorIs(t, b.Hold(1, dec("100")), ErrMultiHold)
}

func TestBalanceRemoveHoldReleasesFunds(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Hold(1, dec("100")))
	require.NoError(t, b.RemoveHold(1))

	require.True(t, b.Available().Equal(dec("100")))
	require.True(t, b.Total().Equal(dec("100")))
	require.ErrorIs(t, b.RemoveHold(1), ErrNoHold)
}

func TestBalanceApplyHoldReversesDeposit(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Hold(1, dec("100")))
	require.NoError(t, b.ApplyHold(1))

	require.True(t, b.Total().Equal(decimal.Zero))
	require.True(t, b.Held().Equal(decimal.Zero))
}

func TestBalanceApplyHoldRefundsWithdrawal(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Withdraw(dec("40")))
	require.NoError(t, b.Hold(2, dec("-40")))
	require.NoError(t, b.ApplyHold(2))

	// A chargeback on a withdrawal puts the money back.
	require.True(t, b.Total().Equal(dec("100")))
}

func TestBalanceApplyHoldWithoutHold(t *testing.T) {
	b := NewBalance(0)
	require.ErrorIs(t, b.ApplyHold(9), ErrNoHold)
}

func TestBalanceLockBlocksOperations(t *testing.T) {
	b := NewBalance(0)

	require.NoError(t, b.Deposit(dec("100")))
	b.Lock()

	require.True(t, b.Locked())
	require.ErrorIs(t, b.Deposit(dec("1")), ErrAccountLocked)
	require.ErrorIs(t, b.Withdraw(dec("1")), ErrAccountLocked)
	require.True(t, b.Total().Equal(dec("100")))
}

func TestBalanceSnapshot(t *testing.T) {
	b := NewBalance(7)

	require.NoError(t, b.Deposit(dec("100")))
	require.NoError(t, b.Hold(1, dec("30")))

	s := b.Snapshot()
	require.EqualValues(t, 7, s.Client)
	require.True(t, s.Available.Equal(dec("70")))
	require.True(t, s.Held.Equal(dec("30")))
	require.True(t, s.Total.Equal(dec("100")))
	require.False(t, s.Locked)
}
