// Package testutil builds fully wired AMM keepers backed by an in-memory
// ledger for tests.
package testutil

import (
	"context"
	"crypto/sha256"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/pond-exchange/pond/x/amm/keeper"
	"github.com/pond-exchange/pond/x/amm/ledger"
	"github.com/pond-exchange/pond/x/amm/types"
)

// NativeDenom is the unwrapped native asset used by the test wrapper.
const NativeDenom = "upond"

// WrappedDenom is the wrapped representation NativeDenom trades as.
const WrappedDenom = "wpond"

// Fixture bundles a test keeper with the ledger and wrapper behind it so
// tests can fund accounts and inspect balances directly.
type Fixture struct {
	Keeper  *keeper.Keeper
	Ledger  *ledger.Ledger
	Wrapper *ledger.Wrapper
}

// AmmKeeper creates a test keeper wired to a fresh in-memory ledger with
// default fee parameters.
func AmmKeeper(t testing.TB) (*Fixture, context.Context) {
	t.Helper()

	l := ledger.New()
	w := ledger.NewWrapper(l, NativeDenom, WrappedDenom)
	k, err := keeper.NewKeeper(l, w, log.NewNopLogger(), types.DefaultParams())
	require.NoError(t, err)

	return &Fixture{Keeper: k, Ledger: l, Wrapper: w}, context.Background()
}

// Addr derives a deterministic test account from a name.
func Addr(name string) sdk.AccAddress {
	sum := sha256.Sum256([]byte("testutil/" + name))
	return sdk.AccAddress(sum[:20])
}

// Fund credits the account with the given amount of one denom.
func (f *Fixture) Fund(t testing.TB, ctx context.Context, addr sdk.AccAddress, denom string, amount math.Int) {
	t.Helper()
	require.NoError(t, f.Ledger.MintCoins(ctx, addr, sdk.NewCoins(sdk.NewCoin(denom, amount))))
}

// Balance returns the account's balance of one denom.
func (f *Fixture) Balance(ctx context.Context, addr sdk.AccAddress, denom string) math.Int {
	return f.Ledger.GetBalance(ctx, addr, denom).Amount
}

// SeedPair creates a pair and deposits the given initial reserves from a
// throwaway funder, returning the pair and the minted shares.
func (f *Fixture) SeedPair(t testing.TB, ctx context.Context, assetA, assetB string, amountA, amountB math.Int) (*types.Pair, math.Int) {
	t.Helper()

	funder := Addr("seed/" + assetA + "/" + assetB)
	f.Fund(t, ctx, funder, assetA, amountA)
	f.Fund(t, ctx, funder, assetB, amountB)

	pair, err := f.Keeper.CreatePair(assetA, assetB)
	require.NoError(t, err)

	require.NoError(t, f.Ledger.SendCoins(ctx, funder, pair.Address,
		sdk.NewCoins(sdk.NewCoin(assetA, amountA), sdk.NewCoin(assetB, amountB))))

	shares, err := f.Keeper.Deposit(ctx, pair, funder)
	require.NoError(t, err)
	return pair, shares
}
