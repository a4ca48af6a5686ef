package keeper_test

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/pond-exchange/pond/x/amm/testutil"
	"github.com/pond-exchange/pond/x/amm/types"
)

func TestFirstDeposit(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	lp := testutil.Addr("lp")

	pair, err := fix.Keeper.CreatePair("uatom", "upond")
	require.NoError(t, err)

	fix.Fund(t, ctx, lp, "uatom", math.NewInt(1_000_000))
	fix.Fund(t, ctx, lp, "upond", math.NewInt(4_000_000))
	require.NoError(t, fix.Ledger.SendCoins(ctx, lp, pair.Address, sdk.NewCoins(
		sdk.NewCoin("uatom", math.NewInt(1_000_000)),
		sdk.NewCoin("upond", math.NewInt(4_000_000)),
	)))

	minted, err := fix.Keeper.Deposit(ctx, pair, lp)
	require.NoError(t, err)

	// sqrt(1e6 * 4e6) = 2e6, minus the 1000 locked forever
	require.Equal(t, math.NewInt(1_999_000), minted)
	require.Equal(t, math.NewInt(2_000_000), pair.TotalShares)
	require.Equal(t, math.NewInt(1_000_000), pair.Reserve0)
	require.Equal(t, math.NewInt(4_000_000), pair.Reserve1)

	require.Equal(t, minted, fix.Balance(ctx, lp, pair.ShareDenom))
	require.Equal(t, math.NewInt(1000), fix.Balance(ctx, types.BurnAddress, pair.ShareDenom))
}

func TestFirstDepositBelowMinimum(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	lp := testutil.Addr("lp")

	pair, err := fix.Keeper.CreatePair("uatom", "upond")
	require.NoError(t, err)

	// sqrt(100*100) = 100 does not exceed the locked minimum of 1000
	fix.Fund(t, ctx, lp, "uatom", math.NewInt(100))
	fix.Fund(t, ctx, lp, "upond", math.NewInt(100))
	require.NoError(t, fix.Ledger.SendCoins(ctx, lp, pair.Address, sdk.NewCoins(
		sdk.NewCoin("uatom", math.NewInt(100)),
		sdk.NewCoin("upond", math.NewInt(100)),
	)))

	_, err = fix.Keeper.Deposit(ctx, pair, lp)
	require.ErrorIs(t, err, types.ErrInsufficientMinted)
	require.True(t, pair.TotalShares.IsZero())
	require.True(t, fix.Balance(ctx, types.BurnAddress, pair.ShareDenom).IsZero())
}

func TestDepositRequiresBothAssets(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	lp := testutil.Addr("lp")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	fix.Fund(t, ctx, lp, "uatom", math.NewInt(500))
	require.NoError(t, fix.Ledger.SendCoins(ctx, lp, pair.Address,
		sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(500)))))

	_, err := fix.Keeper.Deposit(ctx, pair, lp)
	require.ErrorIs(t, err, types.ErrInsufficientInput)
}

func TestProportionalDeposit(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	lp := testutil.Addr("lp2")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	fix.Fund(t, ctx, lp, "uatom", math.NewInt(500_000))
	fix.Fund(t, ctx, lp, "upond", math.NewInt(500_000))
	require.NoError(t, fix.Ledger.SendCoins(ctx, lp, pair.Address, sdk.NewCoins(
		sdk.NewCoin("uatom", math.NewInt(500_000)),
		sdk.NewCoin("upond", math.NewInt(500_000)),
	)))

	minted, err := fix.Keeper.Deposit(ctx, pair, lp)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500_000), minted)
	require.Equal(t, math.NewInt(1_500_000), pair.TotalShares)
}

// A lopsided deposit mints by the lesser ratio, donating the excess to the
// pool.
func TestLopsidedDeposit(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	lp := testutil.Addr("lp2")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	fix.Fund(t, ctx, lp, "uatom", math.NewInt(100_000))
	fix.Fund(t, ctx, lp, "upond", math.NewInt(900_000))
	require.NoError(t, fix.Ledger.SendCoins(ctx, lp, pair.Address, sdk.NewCoins(
		sdk.NewCoin("uatom", math.NewInt(100_000)),
		sdk.NewCoin("upond", math.NewInt(900_000)),
	)))

	minted, err := fix.Keeper.Deposit(ctx, pair, lp)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100_000), minted)
}

func TestWithdraw(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)

	pair, shares := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))
	funder := testutil.Addr("seed/uatom/upond")
	require.Equal(t, math.NewInt(999_000), shares)

	require.NoError(t, fix.Ledger.SendCoins(ctx, funder, pair.Address,
		sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, shares))))

	amount0, amount1, err := fix.Keeper.Withdraw(ctx, pair, funder)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(999_000), amount0)
	require.Equal(t, math.NewInt(999_000), amount1)

	// the locked minimum keeps a residue in the pool forever
	require.Equal(t, math.NewInt(1000), pair.Reserve0)
	require.Equal(t, math.NewInt(1000), pair.Reserve1)
	require.Equal(t, math.NewInt(1000), pair.TotalShares)

	require.Equal(t, math.NewInt(999_000), fix.Balance(ctx, funder, "uatom"))
	require.Equal(t, math.NewInt(999_000), fix.Balance(ctx, funder, "upond"))
}

func TestWithdrawWithoutShares(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	_, _, err := fix.Keeper.Withdraw(ctx, pair, testutil.Addr("nobody"))
	require.ErrorIs(t, err, types.ErrInsufficientBurned)
}

func TestSwapAtBoundary(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	trader := testutil.Addr("trader")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	fix.Fund(t, ctx, trader, "uatom", math.NewInt(1000))
	require.NoError(t, fix.Ledger.SendCoins(ctx, trader, pair.Address,
		sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(1000)))))

	// 1000 in at 0.3% fee buys exactly 996 out; one more violates the invariant
	err := fix.Keeper.Swap(ctx, pair, math.ZeroInt(), math.NewInt(997), trader)
	require.ErrorIs(t, err, types.ErrInvariantViolation)
	require.True(t, fix.Balance(ctx, trader, "upond").IsZero(), "failed swap must revert its output")

	require.NoError(t, fix.Keeper.Swap(ctx, pair, math.ZeroInt(), math.NewInt(996), trader))
	require.Equal(t, math.NewInt(996), fix.Balance(ctx, trader, "upond"))
	require.Equal(t, math.NewInt(1_001_000), pair.Reserve0)
	require.Equal(t, math.NewInt(999_004), pair.Reserve1)
}

func TestSwapWithoutInput(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	trader := testutil.Addr("trader")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	err := fix.Keeper.Swap(ctx, pair, math.ZeroInt(), math.NewInt(100), trader)
	require.ErrorIs(t, err, types.ErrInsufficientInput)
	require.True(t, fix.Balance(ctx, trader, "upond").IsZero())
	require.Equal(t, math.NewInt(1_000_000), pair.Reserve1)
}

func TestSwapValidation(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	trader := testutil.Addr("trader")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	err := fix.Keeper.Swap(ctx, pair, math.ZeroInt(), math.ZeroInt(), trader)
	require.ErrorIs(t, err, types.ErrInsufficientOutput)

	err = fix.Keeper.Swap(ctx, pair, math.NewInt(-1), math.ZeroInt(), trader)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	err = fix.Keeper.Swap(ctx, pair, math.NewInt(1_000_000), math.ZeroInt(), trader)
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)

	err = fix.Keeper.Swap(ctx, pair, math.ZeroInt(), math.NewInt(100), sdk.AccAddress{})
	require.ErrorIs(t, err, types.ErrZeroAddress)
}

// A direct donation into the pair account does not move the reserves until a
// resync commits the new balances.
func TestForceResync(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	donor := testutil.Addr("donor")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	fix.Fund(t, ctx, donor, "uatom", math.NewInt(50_000))
	require.NoError(t, fix.Ledger.SendCoins(ctx, donor, pair.Address,
		sdk.NewCoins(sdk.NewCoin("uatom", math.NewInt(50_000)))))

	require.Equal(t, math.NewInt(1_000_000), pair.Reserve0)

	require.NoError(t, fix.Keeper.ForceResync(ctx, pair))
	require.Equal(t, math.NewInt(1_050_000), pair.Reserve0)
	require.Equal(t, math.NewInt(1_000_000), pair.Reserve1)
}

func TestReserveOverflow(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	lp := testutil.Addr("whale")

	pair, err := fix.Keeper.CreatePair("uatom", "upond")
	require.NoError(t, err)

	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 113))
	fix.Fund(t, ctx, lp, "uatom", huge)
	fix.Fund(t, ctx, lp, "upond", huge)
	require.NoError(t, fix.Ledger.SendCoins(ctx, lp, pair.Address, sdk.NewCoins(
		sdk.NewCoin("uatom", huge),
		sdk.NewCoin("upond", huge),
	)))

	_, err = fix.Keeper.Deposit(ctx, pair, lp)
	require.ErrorIs(t, err, types.ErrReserveOverflow)
	require.ErrorIs(t, fix.Keeper.ForceResync(ctx, pair), types.ErrReserveOverflow)
}

// A donation pushing the pair balance past the reserve bound must fail the
// swap cleanly before the invariant arithmetic runs on the oversized balance.
func TestSwapAfterOverflowingDonation(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	trader := testutil.Addr("trader")
	donor := testutil.Addr("donor")

	pair, _ := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))

	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 250))
	fix.Fund(t, ctx, donor, "uatom", huge)
	require.NoError(t, fix.Ledger.SendCoins(ctx, donor, pair.Address,
		sdk.NewCoins(sdk.NewCoin("uatom", huge))))

	err := fix.Keeper.Swap(ctx, pair, math.ZeroInt(), math.NewInt(100), trader)
	require.ErrorIs(t, err, types.ErrReserveOverflow)
	require.True(t, fix.Balance(ctx, trader, "upond").IsZero(), "failed swap must revert its output")
	require.Equal(t, math.NewInt(1_000_000), pair.Reserve0)
	require.Equal(t, math.NewInt(1_000_000), pair.Reserve1)
}

func TestWithdrawAfterOverflowingDonation(t *testing.T) {
	fix, ctx := testutil.AmmKeeper(t)
	donor := testutil.Addr("donor")

	pair, shares := fix.SeedPair(t, ctx, "uatom", "upond", math.NewInt(1_000_000), math.NewInt(1_000_000))
	funder := testutil.Addr("seed/uatom/upond")

	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 250))
	fix.Fund(t, ctx, donor, "uatom", huge)
	require.NoError(t, fix.Ledger.SendCoins(ctx, donor, pair.Address,
		sdk.NewCoins(sdk.NewCoin("uatom", huge))))

	require.NoError(t, fix.Ledger.SendCoins(ctx, funder, pair.Address,
		sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, shares))))

	_, _, err := fix.Keeper.Withdraw(ctx, pair, funder)
	require.ErrorIs(t, err, types.ErrReserveOverflow)

	// nothing was burned or paid out
	require.Equal(t, math.NewInt(1_000_000), pair.TotalShares)
	require.True(t, fix.Balance(ctx, funder, "uatom").IsZero())
}
