package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/pricing"
	"github.com/pond-exchange/pond/x/amm/types"
)

// The router entrypoints below are stateless orchestration: they quote through
// the pricing engine, move input funds into the first pair, and drive the hop
// chain, forwarding each intermediate output directly to the next pair so the
// router itself holds user funds only transiently within one atomic operation.

func (k *Keeper) ensureDeadline(deadline time.Time) error {
	if now := k.now(); now.After(deadline) {
		return types.ErrExpired.Wrapf("deadline %s passed at %s",
			deadline.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	}
	return nil
}

// AddLiquidity resolves (or permissionlessly creates) the pair for the asset
// combination, fits the desired amounts to the current reserve ratio, moves
// both amounts into the pair, and mints shares to the recipient.
func (k *Keeper) AddLiquidity(
	ctx context.Context,
	from sdk.AccAddress,
	assetA, assetB string,
	desiredA, desiredB, minA, minB math.Int,
	recipient sdk.AccAddress,
	deadline time.Time,
) (usedA, usedB, shares math.Int, err error) {
	zero := math.ZeroInt()
	if err := k.ensureDeadline(deadline); err != nil {
		return zero, zero, zero, err
	}
	if from.Empty() || recipient.Empty() {
		return zero, zero, zero, types.ErrZeroAddress.Wrap("funder and recipient must be set")
	}
	if !desiredA.IsPositive() || !desiredB.IsPositive() {
		return zero, zero, zero, types.ErrInvalidAmount.Wrap("desired amounts must be positive")
	}

	pair, ok := k.GetPair(assetA, assetB)
	if !ok {
		pair, err = k.CreatePair(assetA, assetB)
		if err != nil {
			return zero, zero, zero, err
		}
	}

	usedA, usedB, err = k.fitLiquidity(pair, assetA, desiredA, desiredB, minA, minB)
	if err != nil {
		return zero, zero, zero, err
	}

	deposit := sdk.NewCoins(
		sdk.NewCoin(assetA, usedA),
		sdk.NewCoin(assetB, usedB),
	)
	if err := k.bank.SendCoins(ctx, from, pair.Address, deposit); err != nil {
		return zero, zero, zero, types.ErrTransferFailed.Wrapf("fund pair: %v", err)
	}

	shares, err = k.Deposit(ctx, pair, recipient)
	if err != nil {
		// Claw the funding transfer back so a failed deposit leaves nothing in
		// pair custody.
		if revertErr := k.bank.SendCoins(ctx, pair.Address, from, deposit); revertErr != nil {
			k.logger.Error("failed to return funding after deposit failure",
				"pair", pair.Key(), "funder", from.String(), "error", revertErr)
		}
		return zero, zero, zero, err
	}
	return usedA, usedB, shares, nil
}

// fitLiquidity picks the largest (amountA, amountB) at the current reserve
// ratio within the desired bounds. An empty pair takes the desired amounts
// verbatim.
func (k *Keeper) fitLiquidity(pair *types.Pair, assetA string, desiredA, desiredB, minA, minB math.Int) (math.Int, math.Int, error) {
	zero := math.ZeroInt()
	reserveA, reserveB, err := pair.OrientedReserves(assetA)
	if err != nil {
		return zero, zero, err
	}
	if reserveA.IsZero() && reserveB.IsZero() {
		return desiredA, desiredB, nil
	}

	optimalB, err := pricing.Quote(desiredA, reserveA, reserveB)
	if err != nil {
		return zero, zero, err
	}
	if optimalB.LTE(desiredB) {
		if optimalB.LT(minB) {
			return zero, zero, types.ErrInsufficientBAmount.Wrapf(
				"ratio fits %s of B, below minimum %s", optimalB, minB)
		}
		return desiredA, optimalB, nil
	}

	optimalA, err := pricing.Quote(desiredB, reserveB, reserveA)
	if err != nil {
		return zero, zero, err
	}
	if optimalA.GT(desiredA) || optimalA.LT(minA) {
		return zero, zero, types.ErrInsufficientAAmount.Wrapf(
			"ratio fits %s of A outside bounds [%s,%s]", optimalA, minA, desiredA)
	}
	return optimalA, desiredB, nil
}

// RemoveLiquidity moves the caller's shares into the pair, burns them, and
// delivers both pro-rata amounts to the recipient in the caller's requested
// asset order.
func (k *Keeper) RemoveLiquidity(
	ctx context.Context,
	from sdk.AccAddress,
	assetA, assetB string,
	shares, minA, minB math.Int,
	recipient sdk.AccAddress,
	deadline time.Time,
) (outA, outB math.Int, err error) {
	zero := math.ZeroInt()
	if err := k.ensureDeadline(deadline); err != nil {
		return zero, zero, err
	}
	if from.Empty() || recipient.Empty() {
		return zero, zero, types.ErrZeroAddress.Wrap("funder and recipient must be set")
	}
	if !shares.IsPositive() {
		return zero, zero, types.ErrInsufficientBurned.Wrap("shares must be positive")
	}
	pair, ok := k.GetPair(assetA, assetB)
	if !ok {
		return zero, zero, types.ErrPairNotFound.Wrapf("no pair for %s/%s", assetA, assetB)
	}

	// Slippage bounds are checked against the exact pro-rata amounts before
	// any value moves, so a violation aborts with no state change.
	balance0, balance1 := k.pairBalances(ctx, pair)
	if !pair.TotalShares.IsPositive() {
		return zero, zero, types.ErrInsufficientLiquidity.Wrap("pair has no outstanding shares")
	}
	expect0 := shares.Mul(balance0).Quo(pair.TotalShares)
	expect1 := shares.Mul(balance1).Quo(pair.TotalShares)
	expectA, expectB := expect0, expect1
	if assetA != pair.Asset0 {
		expectA, expectB = expect1, expect0
	}
	if expectA.LT(minA) {
		return zero, zero, types.ErrInsufficientAAmount.Wrapf("would redeem %s, below minimum %s", expectA, minA)
	}
	if expectB.LT(minB) {
		return zero, zero, types.ErrInsufficientBAmount.Wrapf("would redeem %s, below minimum %s", expectB, minB)
	}

	shareCoins := sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, shares))
	if err := k.bank.SendCoins(ctx, from, pair.Address, shareCoins); err != nil {
		return zero, zero, types.ErrTransferFailed.Wrapf("move shares: %v", err)
	}

	amount0, amount1, err := k.Withdraw(ctx, pair, recipient)
	if err != nil {
		// Return the unburned shares so a failed withdrawal leaves the caller
		// whole.
		if revertErr := k.bank.SendCoins(ctx, pair.Address, from, shareCoins); revertErr != nil {
			k.logger.Error("failed to return shares after withdraw failure",
				"pair", pair.Key(), "funder", from.String(), "error", revertErr)
		}
		return zero, zero, err
	}
	outA, outB = amount0, amount1
	if assetA != pair.Asset0 {
		outA, outB = amount1, amount0
	}
	return outA, outB, nil
}

// SwapExactIn swaps a fixed input along the path, failing if the final output
// falls below amountOutMin.
func (k *Keeper) SwapExactIn(
	ctx context.Context,
	from sdk.AccAddress,
	amountIn, amountOutMin math.Int,
	path []string,
	recipient sdk.AccAddress,
	deadline time.Time,
) ([]math.Int, error) {
	if err := k.ensureDeadline(deadline); err != nil {
		return nil, err
	}
	if from.Empty() || recipient.Empty() {
		return nil, types.ErrZeroAddress.Wrap("funder and recipient must be set")
	}

	amounts, err := k.GetAmountsOut(amountIn, path)
	if err != nil {
		return nil, err
	}
	if amounts[len(amounts)-1].LT(amountOutMin) {
		return nil, types.ErrInsufficientOutput.Wrapf(
			"final output %s below minimum %s", amounts[len(amounts)-1], amountOutMin)
	}
	if err := k.fundFirstHop(ctx, from, path, amounts[0]); err != nil {
		return nil, err
	}
	if err := k.executeHops(ctx, path, amounts, recipient); err != nil {
		return nil, err
	}
	return amounts, nil
}

// SwapExactOut swaps for a fixed output along the path, failing if the
// required input exceeds amountInMax.
func (k *Keeper) SwapExactOut(
	ctx context.Context,
	from sdk.AccAddress,
	amountOut, amountInMax math.Int,
	path []string,
	recipient sdk.AccAddress,
	deadline time.Time,
) ([]math.Int, error) {
	if err := k.ensureDeadline(deadline); err != nil {
		return nil, err
	}
	if from.Empty() || recipient.Empty() {
		return nil, types.ErrZeroAddress.Wrap("funder and recipient must be set")
	}

	amounts, err := k.GetAmountsIn(amountOut, path)
	if err != nil {
		return nil, err
	}
	if amounts[0].GT(amountInMax) {
		return nil, types.ErrExcessiveInput.Wrapf(
			"required input %s exceeds maximum %s", amounts[0], amountInMax)
	}
	if err := k.fundFirstHop(ctx, from, path, amounts[0]); err != nil {
		return nil, err
	}
	if err := k.executeHops(ctx, path, amounts, recipient); err != nil {
		return nil, err
	}
	return amounts, nil
}

func (k *Keeper) fundFirstHop(ctx context.Context, from sdk.AccAddress, path []string, amountIn math.Int) error {
	first, err := k.pairForHop(path[0], path[1])
	if err != nil {
		return err
	}
	if err := k.bank.SendCoins(ctx, from, first.Address,
		sdk.NewCoins(sdk.NewCoin(path[0], amountIn))); err != nil {
		return types.ErrTransferFailed.Wrapf("fund first hop: %v", err)
	}
	return nil
}

// executeHops drives one pair swap per hop. Each intermediate output is
// delivered straight to the next pair in the path; only the final hop pays
// the recipient. The chain needs no intermediate balance checks because each
// hop's output equals the next hop's required input by construction of the
// quote chain.
func (k *Keeper) executeHops(ctx context.Context, path []string, amounts []math.Int, recipient sdk.AccAddress) error {
	for i := 0; i < len(path)-1; i++ {
		pair, err := k.pairForHop(path[i], path[i+1])
		if err != nil {
			return err
		}

		amount0Out, amount1Out := math.ZeroInt(), math.ZeroInt()
		if path[i+1] == pair.Asset0 {
			amount0Out = amounts[i+1]
		} else {
			amount1Out = amounts[i+1]
		}

		to := recipient
		if i < len(path)-2 {
			next, err := k.pairForHop(path[i+1], path[i+2])
			if err != nil {
				return err
			}
			to = next.Address
		}

		if err := k.Swap(ctx, pair, amount0Out, amount1Out, to); err != nil {
			return err
		}
	}
	return nil
}
