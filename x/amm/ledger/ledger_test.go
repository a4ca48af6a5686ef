package ledger_test

import (
	"context"
	"crypto/sha256"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/pond-exchange/pond/x/amm/ledger"
	"github.com/pond-exchange/pond/x/amm/types"
)

func addr(name string) sdk.AccAddress {
	sum := sha256.Sum256([]byte("ledger_test/" + name))
	return sdk.AccAddress(sum[:20])
}

func TestSendCoins(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	alice, bob := addr("alice"), addr("bob")

	require.NoError(t, l.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(100)))))
	require.NoError(t, l.SendCoins(ctx, alice, bob, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(40)))))

	require.Equal(t, math.NewInt(60), l.GetBalance(ctx, alice, "uatom").Amount)
	require.Equal(t, math.NewInt(40), l.GetBalance(ctx, bob, "uatom").Amount)

	err := l.SendCoins(ctx, alice, bob, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(61))))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

// A multi-coin transfer where only one denom is covered must move nothing.
func TestSendCoinsAtomic(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	alice, bob := addr("alice"), addr("bob")

	require.NoError(t, l.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(100)))))

	err := l.SendCoins(ctx, alice, bob, sdk.NewCoins(
		sdk.NewCoin("uatom", math.NewInt(50)),
		sdk.NewCoin("uosmo", math.NewInt(1)),
	))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, math.NewInt(100), l.GetBalance(ctx, alice, "uatom").Amount)
	require.True(t, l.GetBalance(ctx, bob, "uatom").Amount.IsZero())
}

func TestBurnSinkUnspendable(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	alice := addr("alice")

	require.NoError(t, l.MintCoins(ctx, types.BurnAddress, sdk.NewCoins(sdk.NewCoin("amm/pair/0", math.NewInt(1000)))))

	err := l.SendCoins(ctx, types.BurnAddress, alice, sdk.NewCoins(sdk.NewCoin("amm/pair/0", math.NewInt(1))))
	require.ErrorIs(t, err, types.ErrForbidden)

	// receiving is fine
	require.NoError(t, l.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(5)))))
	require.NoError(t, l.SendCoins(ctx, alice, types.BurnAddress, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(5)))))
}

func TestMintBurnSupply(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	alice := addr("alice")

	require.NoError(t, l.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(100)))))
	require.Equal(t, math.NewInt(100), l.TotalSupply("uatom"))

	require.NoError(t, l.BurnCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(30)))))
	require.Equal(t, math.NewInt(70), l.TotalSupply("uatom"))
	require.Equal(t, math.NewInt(70), l.GetBalance(ctx, alice, "uatom").Amount)

	err := l.BurnCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(71))))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestWrapperRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	w := ledger.NewWrapper(l, "upond", "wpond")
	alice := addr("alice")

	require.Equal(t, "wpond", w.Denom())
	require.Equal(t, "upond", w.NativeDenom())

	require.NoError(t, l.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("upond", math.NewInt(1000)))))

	require.NoError(t, w.Wrap(ctx, alice, math.NewInt(600)))
	require.Equal(t, math.NewInt(400), l.GetBalance(ctx, alice, "upond").Amount)
	require.Equal(t, math.NewInt(600), l.GetBalance(ctx, alice, "wpond").Amount)
	require.Equal(t, math.NewInt(600), l.TotalSupply("wpond"))

	require.NoError(t, w.Unwrap(ctx, alice, math.NewInt(600)))
	require.Equal(t, math.NewInt(1000), l.GetBalance(ctx, alice, "upond").Amount)
	require.True(t, l.GetBalance(ctx, alice, "wpond").Amount.IsZero())
	require.True(t, l.TotalSupply("wpond").IsZero())

	// cannot unwrap more than was wrapped
	require.Error(t, w.Unwrap(ctx, alice, math.NewInt(1)))
	require.ErrorIs(t, w.Wrap(ctx, alice, math.ZeroInt()), types.ErrInvalidAmount)
}

// Wrapped coins minted outside the wrapper have no escrow backing; a failed
// unwrap must leave the holder's wrapped balance intact.
func TestUnwrapWithoutBacking(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	w := ledger.NewWrapper(l, "upond", "wpond")
	alice := addr("alice")

	require.NoError(t, l.MintCoins(ctx, alice, sdk.NewCoins(sdk.NewCoin("wpond", math.NewInt(500)))))

	require.Error(t, w.Unwrap(ctx, alice, math.NewInt(500)))
	require.Equal(t, math.NewInt(500), l.GetBalance(ctx, alice, "wpond").Amount)
	require.True(t, l.GetBalance(ctx, alice, "upond").Amount.IsZero())
}
