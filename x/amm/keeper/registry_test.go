package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pond-exchange/pond/x/amm/keeper"
	"github.com/pond-exchange/pond/x/amm/testutil"
	"github.com/pond-exchange/pond/x/amm/types"
)

func TestCreatePair(t *testing.T) {
	fix, _ := testutil.AmmKeeper(t)
	k := fix.Keeper

	pair, err := k.CreatePair("upond", "uatom")
	require.NoError(t, err)
	require.Equal(t, "uatom", pair.Asset0)
	require.Equal(t, "upond", pair.Asset1)
	require.Equal(t, uint64(0), pair.Index)
	require.Equal(t, types.PairShareDenom(0), pair.ShareDenom)
	require.True(t, pair.Reserve0.IsZero())
	require.True(t, pair.TotalShares.IsZero())

	var found bool
	for _, ev := range k.Events() {
		if ev.Type == types.EventTypePairCreated {
			found = true
		}
	}
	require.True(t, found, "pair creation must emit an event")
}

func TestCreatePairRejections(t *testing.T) {
	fix, _ := testutil.AmmKeeper(t)
	k := fix.Keeper

	_, err := k.CreatePair("uatom", "uatom")
	require.ErrorIs(t, err, types.ErrIdenticalAssets)

	_, err = k.CreatePair("", "uatom")
	require.ErrorIs(t, err, types.ErrZeroAsset)

	_, err = k.CreatePair("uatom", "upond")
	require.NoError(t, err)

	// duplicate in either asset order
	_, err = k.CreatePair("uatom", "upond")
	require.ErrorIs(t, err, types.ErrPairExists)
	_, err = k.CreatePair("upond", "uatom")
	require.ErrorIs(t, err, types.ErrPairExists)
}

func TestGetPairCommutative(t *testing.T) {
	fix, _ := testutil.AmmKeeper(t)
	k := fix.Keeper

	created, err := k.CreatePair("upond", "uatom")
	require.NoError(t, err)

	forward, ok := k.GetPair("uatom", "upond")
	require.True(t, ok)
	backward, ok := k.GetPair("upond", "uatom")
	require.True(t, ok)
	require.Same(t, created, forward)
	require.Same(t, forward, backward)

	_, ok = k.GetPair("uatom", "uosmo")
	require.False(t, ok)
}

func TestPairEnumeration(t *testing.T) {
	fix, _ := testutil.AmmKeeper(t)
	k := fix.Keeper

	require.Zero(t, k.AllPairsLength())

	first, err := k.CreatePair("uatom", "upond")
	require.NoError(t, err)
	second, err := k.CreatePair("uatom", "uosmo")
	require.NoError(t, err)

	require.Equal(t, 2, k.AllPairsLength())
	require.Equal(t, uint64(0), first.Index)
	require.Equal(t, uint64(1), second.Index)

	got, err := k.PairByIndex(1)
	require.NoError(t, err)
	require.Same(t, second, got)

	_, err = k.PairByIndex(2)
	require.ErrorIs(t, err, types.ErrPairNotFound)
	_, err = k.PairByIndex(-1)
	require.ErrorIs(t, err, types.ErrPairNotFound)
}

func TestReentrancyGuard(t *testing.T) {
	g := keeper.NewReentrancyGuard()

	require.NoError(t, g.Lock("uatom|upond"))
	require.ErrorIs(t, g.Lock("uatom|upond"), types.ErrReentrancy)

	// other keys are independent
	require.NoError(t, g.Lock("uatom|uosmo"))

	g.Unlock("uatom|upond")
	require.NoError(t, g.Lock("uatom|upond"))

	// releasing an unheld lock is a no-op
	g.Unlock("never-held")
}
