package keeper

import (
	"cosmossdk.io/math"

	"github.com/pond-exchange/pond/x/amm/pricing"
	"github.com/pond-exchange/pond/x/amm/types"
)

// validatePath rejects paths too short to describe a hop, too long to quote,
// or containing an immediate repeat.
func validatePath(path []string) error {
	if len(path) < 2 {
		return types.ErrInvalidPath.Wrapf("path needs at least two assets, got %d", len(path))
	}
	if len(path) > types.MaxPathHops+1 {
		return types.ErrInvalidPath.Wrapf("path exceeds %d hops", types.MaxPathHops)
	}
	for i := 0; i < len(path)-1; i++ {
		if path[i] == path[i+1] {
			return types.ErrInvalidPath.Wrapf("hop %d repeats asset %s", i, path[i])
		}
	}
	return nil
}

// GetAmountsOut chains fee-adjusted forward quotes across the path, resolving
// each hop's live reserves from the registry. amounts[0] is the input;
// amounts[i+1] is what hop i yields.
func (k *Keeper) GetAmountsOut(amountIn math.Int, path []string) ([]math.Int, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	amounts := make([]math.Int, len(path))
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		pair, err := k.pairForHop(path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		reserveIn, reserveOut, err := pair.OrientedReserves(path[i])
		if err != nil {
			return nil, err
		}
		amounts[i+1], err = pricing.GetAmountOut(amounts[i], reserveIn, reserveOut,
			k.params.FeeNumerator, k.params.FeeDenominator)
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// GetAmountsIn chains reverse quotes right to left: amounts[last] is the
// requested output, amounts[0] the minimum input that produces it.
func (k *Keeper) GetAmountsIn(amountOut math.Int, path []string) ([]math.Int, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	amounts := make([]math.Int, len(path))
	amounts[len(path)-1] = amountOut
	for i := len(path) - 1; i > 0; i-- {
		pair, err := k.pairForHop(path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		reserveIn, reserveOut, err := pair.OrientedReserves(path[i-1])
		if err != nil {
			return nil, err
		}
		amounts[i-1], err = pricing.GetAmountIn(amounts[i], reserveIn, reserveOut,
			k.params.FeeNumerator, k.params.FeeDenominator)
		if err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// GetSpotPrice returns the fee-free marginal price of assetOut in units of
// assetIn for the pair holding both.
func (k *Keeper) GetSpotPrice(assetIn, assetOut string) (math.LegacyDec, error) {
	pair, err := k.pairForHop(assetIn, assetOut)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	reserveIn, reserveOut, err := pair.OrientedReserves(assetIn)
	if err != nil {
		return math.LegacyZeroDec(), err
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.LegacyZeroDec(), types.ErrInsufficientLiquidity.Wrap("both reserves must be positive")
	}
	return math.LegacyNewDecFromInt(reserveOut).Quo(math.LegacyNewDecFromInt(reserveIn)), nil
}
