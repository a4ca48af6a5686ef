package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/types"
)

// Native-value router entrypoints. These mirror the plain variants but wrap
// the caller's native balance through the Wrapper service on the way in,
// unwrap on the way out, and refund any wrapped amount the operation did not
// consume.

// AddLiquidityNative wraps desiredNative of the caller's native balance,
// pairs it with the given asset, and refunds whatever the ratio fitting left
// unused.
func (k *Keeper) AddLiquidityNative(
	ctx context.Context,
	from sdk.AccAddress,
	asset string,
	desiredAsset, desiredNative, minAsset, minNative math.Int,
	recipient sdk.AccAddress,
	deadline time.Time,
) (usedAsset, usedNative, shares math.Int, err error) {
	zero := math.ZeroInt()
	if err := k.ensureDeadline(deadline); err != nil {
		return zero, zero, zero, err
	}
	if !desiredNative.IsPositive() {
		return zero, zero, zero, types.ErrInvalidAmount.Wrap("native amount must be positive")
	}
	if err := k.wrapper.Wrap(ctx, from, desiredNative); err != nil {
		return zero, zero, zero, types.ErrTransferFailed.Wrapf("wrap native: %v", err)
	}

	usedAsset, usedNative, shares, err = k.AddLiquidity(ctx, from,
		asset, k.wrapper.Denom(),
		desiredAsset, desiredNative, minAsset, minNative,
		recipient, deadline)
	if err != nil {
		if unwrapErr := k.wrapper.Unwrap(ctx, from, desiredNative); unwrapErr != nil {
			k.logger.Error("failed to unwind native wrap", "error", unwrapErr)
		}
		return zero, zero, zero, err
	}

	if refund := desiredNative.Sub(usedNative); refund.IsPositive() {
		if err := k.wrapper.Unwrap(ctx, from, refund); err != nil {
			k.logger.Error("failed to refund unused wrapped amount",
				"amount", refund.String(), "error", err)
		}
	}
	return usedAsset, usedNative, shares, nil
}

// RemoveLiquidityNative burns shares of an asset/wrapped-native pair and
// delivers the asset side directly and the native side unwrapped.
func (k *Keeper) RemoveLiquidityNative(
	ctx context.Context,
	from sdk.AccAddress,
	asset string,
	shares, minAsset, minNative math.Int,
	recipient sdk.AccAddress,
	deadline time.Time,
) (outAsset, outNative math.Int, err error) {
	zero := math.ZeroInt()
	if recipient.Empty() {
		return zero, zero, types.ErrZeroAddress.Wrap("recipient must be set")
	}

	// Withdraw to the router's transient account, then forward.
	outAsset, outNative, err = k.RemoveLiquidity(ctx, from,
		asset, k.wrapper.Denom(),
		shares, minAsset, minNative,
		types.RouterAddress, deadline)
	if err != nil {
		return zero, zero, err
	}

	// The unwrap leg runs before the asset leg; until both clear, everything
	// still sits in router custody and can be refunded to the funder. The
	// shares are already burned at this point, so the refund pays out the
	// withdrawn coins themselves, native side still wrapped.
	if err := k.unwrapTo(ctx, recipient, outNative); err != nil {
		refund := sdk.NewCoins(
			sdk.NewCoin(asset, outAsset),
			sdk.NewCoin(k.wrapper.Denom(), outNative),
		)
		if refundErr := k.bank.SendCoins(ctx, types.RouterAddress, from, refund); refundErr != nil {
			k.logger.Error("failed to refund withdrawn coins after unwrap failure",
				"funder", from.String(), "error", refundErr)
		}
		return zero, zero, err
	}
	if err := k.bank.SendCoins(ctx, types.RouterAddress, recipient,
		sdk.NewCoins(sdk.NewCoin(asset, outAsset))); err != nil {
		return zero, zero, types.ErrTransferFailed.Wrapf("deliver asset: %v", err)
	}
	return outAsset, outNative, nil
}

// SwapExactNativeIn wraps a fixed native input and swaps it along the path,
// which must start at the wrapped denom.
func (k *Keeper) SwapExactNativeIn(
	ctx context.Context,
	from sdk.AccAddress,
	amountIn, amountOutMin math.Int,
	path []string,
	recipient sdk.AccAddress,
	deadline time.Time,
) ([]math.Int, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if path[0] != k.wrapper.Denom() {
		return nil, types.ErrInvalidPath.Wrapf("native input path must start at %s", k.wrapper.Denom())
	}
	if !amountIn.IsPositive() {
		return nil, types.ErrInvalidAmount.Wrap("native amount must be positive")
	}
	if err := k.wrapper.Wrap(ctx, from, amountIn); err != nil {
		return nil, types.ErrTransferFailed.Wrapf("wrap native: %v", err)
	}
	amounts, err := k.SwapExactIn(ctx, from, amountIn, amountOutMin, path, recipient, deadline)
	if err != nil {
		if unwrapErr := k.wrapper.Unwrap(ctx, from, amountIn); unwrapErr != nil {
			k.logger.Error("failed to unwind native wrap", "error", unwrapErr)
		}
		return nil, err
	}
	return amounts, nil
}

// SwapExactInForNative swaps a fixed input along a path ending at the wrapped
// denom and delivers the output unwrapped.
func (k *Keeper) SwapExactInForNative(
	ctx context.Context,
	from sdk.AccAddress,
	amountIn, amountOutMin math.Int,
	path []string,
	recipient sdk.AccAddress,
	deadline time.Time,
) ([]math.Int, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if path[len(path)-1] != k.wrapper.Denom() {
		return nil, types.ErrInvalidPath.Wrapf("native output path must end at %s", k.wrapper.Denom())
	}
	if recipient.Empty() {
		return nil, types.ErrZeroAddress.Wrap("recipient must be set")
	}

	amounts, err := k.SwapExactIn(ctx, from, amountIn, amountOutMin, path, types.RouterAddress, deadline)
	if err != nil {
		return nil, err
	}
	out := amounts[len(amounts)-1]
	if err := k.unwrapTo(ctx, recipient, out); err != nil {
		// The swap itself is final; hand the wrapped output to the funder
		// rather than stranding it in router custody.
		refund := sdk.NewCoins(sdk.NewCoin(k.wrapper.Denom(), out))
		if refundErr := k.bank.SendCoins(ctx, types.RouterAddress, from, refund); refundErr != nil {
			k.logger.Error("failed to refund wrapped output after unwrap failure",
				"funder", from.String(), "error", refundErr)
		}
		return nil, err
	}
	return amounts, nil
}

// unwrapTo unwraps amount held by the router account and pays the native
// coins to the recipient. On failure the router is left holding the wrapped
// amount exactly as before the call.
func (k *Keeper) unwrapTo(ctx context.Context, recipient sdk.AccAddress, amount math.Int) error {
	if err := k.wrapper.Unwrap(ctx, types.RouterAddress, amount); err != nil {
		return types.ErrTransferFailed.Wrapf("unwrap output: %v", err)
	}
	if err := k.bank.SendCoins(ctx, types.RouterAddress, recipient,
		sdk.NewCoins(sdk.NewCoin(k.wrapper.NativeDenom(), amount))); err != nil {
		if wrapErr := k.wrapper.Wrap(ctx, types.RouterAddress, amount); wrapErr != nil {
			k.logger.Error("failed to re-wrap after native delivery failure",
				"amount", amount.String(), "error", wrapErr)
		}
		return types.ErrTransferFailed.Wrapf("deliver native: %v", err)
	}
	return nil
}
