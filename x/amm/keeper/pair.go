package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/pricing"
	"github.com/pond-exchange/pond/x/amm/types"
)

// Deposit mints liquidity shares against asset amounts the caller has already
// moved into the pair's custody. The deposited amounts are measured as the
// difference between the pair's live ledger balances and its last-known
// reserves. On the very first deposit the minimum liquidity is permanently
// minted to the burn sink.
func (k *Keeper) Deposit(ctx context.Context, pair *types.Pair, recipient sdk.AccAddress) (math.Int, error) {
	if recipient.Empty() {
		return math.ZeroInt(), types.ErrZeroAddress.Wrap("deposit recipient must be set")
	}
	if err := k.guard.Lock(pair.Key()); err != nil {
		return math.ZeroInt(), err
	}
	defer k.guard.Unlock(pair.Key())

	balance0, balance1 := k.pairBalances(ctx, pair)
	if err := checkReserveBound(balance0, balance1); err != nil {
		return math.ZeroInt(), err
	}

	amount0 := balance0.Sub(pair.Reserve0)
	amount1 := balance1.Sub(pair.Reserve1)
	if !amount0.IsPositive() || !amount1.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientInput.Wrap("both assets must be supplied before deposit")
	}

	var minted math.Int
	if pair.TotalShares.IsZero() {
		// First deposit seeds supply with the geometric mean of the amounts,
		// locking MinimumLiquidity forever so total supply can never return
		// to zero while reserves are nonzero.
		liquidity := pricing.Isqrt(amount0.Mul(amount1))
		minLiquidity := k.params.MinimumLiquidity
		if liquidity.LTE(minLiquidity) {
			return math.ZeroInt(), types.ErrInsufficientMinted.Wrapf(
				"initial liquidity %s does not exceed locked minimum %s", liquidity, minLiquidity)
		}
		lockCoins := sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, minLiquidity))
		if err := k.bank.MintCoins(ctx, types.BurnAddress, lockCoins); err != nil {
			return math.ZeroInt(), types.ErrTransferFailed.Wrapf("lock minimum liquidity: %v", err)
		}
		minted = liquidity.Sub(minLiquidity)
		if err := k.bank.MintCoins(ctx, recipient, sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, minted))); err != nil {
			if burnErr := k.bank.BurnCoins(ctx, types.BurnAddress, lockCoins); burnErr != nil {
				k.logger.Error("failed to revert minimum liquidity lock",
					"pair", pair.Key(), "error", burnErr)
			}
			return math.ZeroInt(), types.ErrTransferFailed.Wrapf("mint shares: %v", err)
		}
		pair.TotalShares = liquidity
	} else {
		minted = math.MinInt(
			amount0.Mul(pair.TotalShares).Quo(pair.Reserve0),
			amount1.Mul(pair.TotalShares).Quo(pair.Reserve1),
		)
		if !minted.IsPositive() {
			return math.ZeroInt(), types.ErrInsufficientMinted.Wrap("deposit too small for one share")
		}
		if err := k.bank.MintCoins(ctx, recipient, sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, minted))); err != nil {
			return math.ZeroInt(), types.ErrTransferFailed.Wrapf("mint shares: %v", err)
		}
		pair.TotalShares = pair.TotalShares.Add(minted)
	}

	k.resync(pair, balance0, balance1)

	k.emit(sdk.NewEvent(
		types.EventTypeDeposit,
		sdk.NewAttribute(types.AttributeKeyActor, recipient.String()),
		sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
		sdk.NewAttribute(types.AttributeKeyShares, minted.String()),
	))
	k.metrics.LiquidityAdded.WithLabelValues(pair.Key(), pair.Asset0).Add(intGauge(amount0))
	k.metrics.LiquidityAdded.WithLabelValues(pair.Key(), pair.Asset1).Add(intGauge(amount1))

	return minted, nil
}

// Withdraw burns the liquidity shares held in the pair's own custody and pays
// out the pro-rata portion of the live ledger balances. Using balances rather
// than stored reserves keeps withdrawal correct even after external direct
// transfers into the pair.
func (k *Keeper) Withdraw(ctx context.Context, pair *types.Pair, recipient sdk.AccAddress) (math.Int, math.Int, error) {
	if recipient.Empty() {
		return math.ZeroInt(), math.ZeroInt(), types.ErrZeroAddress.Wrap("withdraw recipient must be set")
	}
	if err := k.guard.Lock(pair.Key()); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	defer k.guard.Unlock(pair.Key())

	liquidity := k.bank.GetBalance(ctx, pair.Address, pair.ShareDenom).Amount
	if !liquidity.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(),
			types.ErrInsufficientBurned.Wrap("no shares held by pair")
	}
	if !pair.TotalShares.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(),
			types.ErrInsufficientBurned.Wrap("pair has no outstanding shares")
	}

	balance0, balance1 := k.pairBalances(ctx, pair)
	if err := checkReserveBound(balance0, balance1); err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}
	amount0 := liquidity.Mul(balance0).Quo(pair.TotalShares)
	amount1 := liquidity.Mul(balance1).Quo(pair.TotalShares)
	if !amount0.IsPositive() || !amount1.IsPositive() {
		return math.ZeroInt(), math.ZeroInt(),
			types.ErrInsufficientBurnOut.Wrapf("%s shares redeem to %s/%s", liquidity, amount0, amount1)
	}

	shareCoins := sdk.NewCoins(sdk.NewCoin(pair.ShareDenom, liquidity))
	if err := k.bank.BurnCoins(ctx, pair.Address, shareCoins); err != nil {
		return math.ZeroInt(), math.ZeroInt(), types.ErrTransferFailed.Wrapf("burn shares: %v", err)
	}
	pair.TotalShares = pair.TotalShares.Sub(liquidity)

	payout := sdk.NewCoins(
		sdk.NewCoin(pair.Asset0, amount0),
		sdk.NewCoin(pair.Asset1, amount1),
	)
	if err := k.bank.SendCoins(ctx, pair.Address, recipient, payout); err != nil {
		// Re-mint the burned shares so the failed operation leaves no trace.
		if mintErr := k.bank.MintCoins(ctx, pair.Address, shareCoins); mintErr != nil {
			k.logger.Error("failed to restore shares after payout failure",
				"pair", pair.Key(), "error", mintErr)
		} else {
			pair.TotalShares = pair.TotalShares.Add(liquidity)
		}
		return math.ZeroInt(), math.ZeroInt(), types.ErrTransferFailed.Wrapf("pay out reserves: %v", err)
	}

	balance0, balance1 = k.pairBalances(ctx, pair)
	k.resync(pair, balance0, balance1)

	k.emit(sdk.NewEvent(
		types.EventTypeWithdraw,
		sdk.NewAttribute(types.AttributeKeyActor, recipient.String()),
		sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
		sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
	))
	k.metrics.LiquidityRemoved.WithLabelValues(pair.Key(), pair.Asset0).Add(intGauge(amount0))
	k.metrics.LiquidityRemoved.WithLabelValues(pair.Key(), pair.Asset1).Add(intGauge(amount1))

	return amount0, amount1, nil
}

// Swap transfers the requested outputs to the recipient first, then derives
// the implied inputs from the pair's post-transfer balances and validates the
// fee-adjusted constant-product invariant. The optimistic ordering is
// deliberate: a caller may deliver output, act on it, and satisfy the input
// within the same atomic operation, as long as the invariant holds at the end.
func (k *Keeper) Swap(ctx context.Context, pair *types.Pair, amount0Out, amount1Out math.Int, recipient sdk.AccAddress) error {
	if recipient.Empty() {
		return types.ErrZeroAddress.Wrap("swap recipient must be set")
	}
	if amount0Out.IsNegative() || amount1Out.IsNegative() {
		return types.ErrInvalidAmount.Wrap("swap outputs cannot be negative")
	}
	if !amount0Out.IsPositive() && !amount1Out.IsPositive() {
		return types.ErrInsufficientOutput.Wrap("at least one output must be positive")
	}
	if err := k.guard.Lock(pair.Key()); err != nil {
		return err
	}
	defer k.guard.Unlock(pair.Key())

	if amount0Out.GTE(pair.Reserve0) || amount1Out.GTE(pair.Reserve1) {
		return types.ErrInsufficientLiquidity.Wrapf(
			"outputs %s/%s not below reserves %s/%s",
			amount0Out, amount1Out, pair.Reserve0, pair.Reserve1)
	}

	start := time.Now()
	defer func() {
		k.metrics.SwapLatency.Observe(time.Since(start).Seconds())
	}()

	out := sdk.NewCoins(
		sdk.NewCoin(pair.Asset0, amount0Out),
		sdk.NewCoin(pair.Asset1, amount1Out),
	)
	if err := k.bank.SendCoins(ctx, pair.Address, recipient, out); err != nil {
		k.metrics.SwapsTotal.WithLabelValues(pair.Key(), "failed").Inc()
		return types.ErrTransferFailed.Wrapf("deliver swap output: %v", err)
	}

	balance0, balance1 := k.pairBalances(ctx, pair)
	if err := checkReserveBound(balance0, balance1); err != nil {
		k.revertSwapOutput(ctx, pair, recipient, out)
		k.metrics.SwapsTotal.WithLabelValues(pair.Key(), "failed").Inc()
		return err
	}
	amount0In := impliedInput(balance0, pair.Reserve0, amount0Out)
	amount1In := impliedInput(balance1, pair.Reserve1, amount1Out)
	if !amount0In.IsPositive() && !amount1In.IsPositive() {
		k.revertSwapOutput(ctx, pair, recipient, out)
		k.metrics.SwapsTotal.WithLabelValues(pair.Key(), "failed").Inc()
		return types.ErrInsufficientInput.Wrap("no input supplied for swap")
	}

	// Fee-adjusted invariant: charging the fee on the input side, the product
	// of the adjusted balances must not drop below the pre-swap product.
	feeNum, feeDen := k.params.FeeNumerator, k.params.FeeDenominator
	feeBps := feeDen.Sub(feeNum)
	adjusted0 := balance0.Mul(feeDen).Sub(amount0In.Mul(feeBps))
	adjusted1 := balance1.Mul(feeDen).Sub(amount1In.Mul(feeBps))
	bound := pair.Reserve0.Mul(pair.Reserve1).Mul(feeDen).Mul(feeDen)
	if adjusted0.Mul(adjusted1).LT(bound) {
		k.revertSwapOutput(ctx, pair, recipient, out)
		k.metrics.SwapsTotal.WithLabelValues(pair.Key(), "failed").Inc()
		return types.ErrInvariantViolation.Wrapf(
			"adjusted product below reserve product for pair %s", pair.Key())
	}

	k.resync(pair, balance0, balance1)

	k.emit(sdk.NewEvent(
		types.EventTypeSwap,
		sdk.NewAttribute(types.AttributeKeyActor, recipient.String()),
		sdk.NewAttribute(types.AttributeKeyAmount0In, amount0In.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1In, amount1In.String()),
		sdk.NewAttribute(types.AttributeKeyAmount0Out, amount0Out.String()),
		sdk.NewAttribute(types.AttributeKeyAmount1Out, amount1Out.String()),
		sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
	))
	k.metrics.SwapsTotal.WithLabelValues(pair.Key(), "success").Inc()
	k.metrics.SwapVolume.WithLabelValues(pair.Key(), pair.Asset0).Add(intGauge(amount0In))
	k.metrics.SwapVolume.WithLabelValues(pair.Key(), pair.Asset1).Add(intGauge(amount1In))

	return nil
}

// ForceResync unconditionally sets the reserves to the pair's current ledger
// balances. Callable by anyone; it only moves the baseline the next swap's
// invariant check is measured against.
func (k *Keeper) ForceResync(ctx context.Context, pair *types.Pair) error {
	if err := k.guard.Lock(pair.Key()); err != nil {
		return err
	}
	defer k.guard.Unlock(pair.Key())

	balance0, balance1 := k.pairBalances(ctx, pair)
	if err := checkReserveBound(balance0, balance1); err != nil {
		return err
	}
	k.resync(pair, balance0, balance1)
	return nil
}

func (k *Keeper) pairBalances(ctx context.Context, pair *types.Pair) (math.Int, math.Int) {
	balance0 := k.bank.GetBalance(ctx, pair.Address, pair.Asset0).Amount
	balance1 := k.bank.GetBalance(ctx, pair.Address, pair.Asset1).Amount
	return balance0, balance1
}

// resync commits the observed balances as the new reserves. Callers must have
// validated the reserve bound first.
func (k *Keeper) resync(pair *types.Pair, balance0, balance1 math.Int) {
	pair.Reserve0 = balance0
	pair.Reserve1 = balance1
	pair.LastSync = k.now().Unix()

	k.emit(sdk.NewEvent(
		types.EventTypeSync,
		sdk.NewAttribute(types.AttributeKeyReserve0, balance0.String()),
		sdk.NewAttribute(types.AttributeKeyReserve1, balance1.String()),
	))
}

// revertSwapOutput claws back an optimistic output delivery after a failed
// validation so the operation leaves no partial state.
func (k *Keeper) revertSwapOutput(ctx context.Context, pair *types.Pair, recipient sdk.AccAddress, out sdk.Coins) {
	if err := k.bank.SendCoins(ctx, recipient, pair.Address, out); err != nil {
		k.logger.Error("failed to revert optimistic swap output",
			"pair", pair.Key(), "recipient", recipient.String(), "error", err)
	}
}

// impliedInput computes max(0, balance - (reserve - out)).
func impliedInput(balance, reserve, out math.Int) math.Int {
	in := balance.Sub(reserve.Sub(out))
	if in.IsNegative() {
		return math.ZeroInt()
	}
	return in
}

// checkReserveBound rejects balances that no longer fit the bounded reserve
// width; truncating would corrupt the invariant, so the operation fails
// instead.
func checkReserveBound(balances ...math.Int) error {
	for _, b := range balances {
		if b.BigInt().BitLen() > types.MaxReserveBits {
			return types.ErrReserveOverflow.Wrapf(
				"balance %s exceeds %d-bit reserve bound", b, types.MaxReserveBits)
		}
	}
	return nil
}

func intGauge(v math.Int) float64 {
	f, err := v.ToLegacyDec().Float64()
	if err != nil {
		return 0
	}
	return f
}
