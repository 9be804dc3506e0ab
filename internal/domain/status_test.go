package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusAdvanceLegalTransitions(t *testing.T) {
	disputed, err := StatusActive.Advance(KindDispute)
	require.NoError(t, err)
	require.Equal(t, StatusDisputed, disputed)

	resolved, err := StatusDisputed.Advance(KindResolve)
	require.NoError(t, err)
	require.Equal(t, StatusResolved, resolved)

	chargedBack, err := StatusDisputed.Advance(KindChargeBack)
	require.NoError(t, err)
	require.Equal(t, StatusChargedBack, chargedBack)
}

func TestStatusAdvanceIllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		from TxStatus
		kind TxKind
	}{
		{"dispute a disputed tx", StatusDisputed, KindDispute},
		{"dispute a resolved tx", StatusResolved, KindDispute},
		{"dispute a charged back tx", StatusChargedBack, KindDispute},
		{"resolve an active tx", StatusActive, KindResolve},
		{"resolve a resolved tx", StatusResolved, KindResolve},
		{"resolve a charged back tx", StatusChargedBack, KindResolve},
		{"charge back an active tx", StatusActive, KindChargeBack},
		{"charge back a resolved tx", StatusResolved, KindChargeBack},
		{"charge back a charged back tx", StatusChargedBack, KindChargeBack},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, err := tc.from.Advance(tc.kind)
			require.ErrorIs(t, err, ErrUnexpectedTxStatus)
			require.Equal(t, tc.from, next, "a failed transition must not change the status")
		})
	}
}

func TestStatusAdvanceRejectsNonDisputeKinds(t *testing.T) {
	_, err := StatusActive.Advance(KindDeposit)
	require.ErrorIs(t, err, ErrUnexpectedTxStatus)

	_, err = StatusActive.Advance(KindWithdrawal)
	require.ErrorIs(t, err, ErrUnexpectedTxStatus)
}
