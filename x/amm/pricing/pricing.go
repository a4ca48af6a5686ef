// Package pricing implements the pure constant-product math of the exchange.
// All functions are side-effect free, operate on non-negative integers, and
// truncate division toward zero. Rounding always favors the pool: forward
// quotes floor the output, reverse quotes round the required input up.
package pricing

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/pond-exchange/pond/x/amm/types"
)

// Quote converts an asset amount to the proportional amount of the opposite
// asset at the current reserve ratio, with no fee applied:
// amountB = amountA * reserveB / reserveA.
func Quote(amountA, reserveA, reserveB math.Int) (math.Int, error) {
	if !amountA.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientAmount.Wrap("quote amount must be positive")
	}
	if !reserveA.IsPositive() || !reserveB.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientLiquidity.Wrap("both reserves must be positive")
	}
	return amountA.Mul(reserveB).Quo(reserveA), nil
}

// GetAmountOut returns the maximum output obtainable for a given input after
// applying the multiplicative fee factor feeNum/feeDen to the input:
// amountOut = floor(amountIn*feeNum*reserveOut / (reserveIn*feeDen + amountIn*feeNum)).
func GetAmountOut(amountIn, reserveIn, reserveOut, feeNum, feeDen math.Int) (math.Int, error) {
	if !amountIn.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientInput.Wrap("swap input must be positive")
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientLiquidity.Wrap("both reserves must be positive")
	}
	amountInWithFee := amountIn.Mul(feeNum)
	numerator := amountInWithFee.Mul(reserveOut)
	denominator := reserveIn.Mul(feeDen).Add(amountInWithFee)
	return numerator.Quo(denominator), nil
}

// GetAmountIn returns the minimum input that, when swapped through the forward
// formula, yields at least amountOut:
// amountIn = floor(reserveIn*amountOut*feeDen / ((reserveOut-amountOut)*feeNum)) + 1.
// The +1 compensates for the forward formula's floor.
func GetAmountIn(amountOut, reserveIn, reserveOut, feeNum, feeDen math.Int) (math.Int, error) {
	if !amountOut.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientOutput.Wrap("swap output must be positive")
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.ZeroInt(), types.ErrInsufficientLiquidity.Wrap("both reserves must be positive")
	}
	if amountOut.GTE(reserveOut) {
		return math.ZeroInt(), types.ErrInsufficientLiquidity.Wrapf(
			"requested output %s not below reserve %s", amountOut, reserveOut)
	}
	numerator := reserveIn.Mul(amountOut).Mul(feeDen)
	denominator := reserveOut.Sub(amountOut).Mul(feeNum)
	return numerator.Quo(denominator).Add(math.OneInt()), nil
}

// Isqrt returns the floor of the square root of x. Used only to seed a pair's
// initial share supply from the geometric mean of the first deposit.
func Isqrt(x math.Int) math.Int {
	if !x.IsPositive() {
		return math.ZeroInt()
	}
	return math.NewIntFromBigInt(new(big.Int).Sqrt(x.BigInt()))
}
