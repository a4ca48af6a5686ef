package types

import (
	"cosmossdk.io/math"
)

// Params holds the exchange-wide fee configuration. The fee factor
// feeNumerator/feeDenominator is applied to swap inputs by the pricing engine
// and the same values feed the pair's fee-adjusted invariant check, so the two
// can never disagree.
type Params struct {
	// FeeNumerator over FeeDenominator is the fraction of the input that
	// remains after the trading fee (997/1000 means a 0.3% fee).
	FeeNumerator   math.Int
	FeeDenominator math.Int

	// MinimumLiquidity is the share quantity permanently minted to the burn
	// sink on a pair's first deposit.
	MinimumLiquidity math.Int
}

// DefaultParams returns the reference fee configuration: 0.3% fee, 1000
// permanently locked shares.
func DefaultParams() Params {
	return Params{
		FeeNumerator:     math.NewInt(997),
		FeeDenominator:   math.NewInt(1000),
		MinimumLiquidity: math.NewInt(1000),
	}
}

// Validate checks internal consistency of the params.
func (p Params) Validate() error {
	if p.FeeDenominator.IsNil() || !p.FeeDenominator.IsPositive() {
		return ErrInvalidParams.Wrap("fee denominator must be positive")
	}
	if p.FeeNumerator.IsNil() || !p.FeeNumerator.IsPositive() {
		return ErrInvalidParams.Wrap("fee numerator must be positive")
	}
	if p.FeeNumerator.GT(p.FeeDenominator) {
		return ErrInvalidParams.Wrapf("fee numerator %s exceeds denominator %s",
			p.FeeNumerator, p.FeeDenominator)
	}
	if p.MinimumLiquidity.IsNil() || !p.MinimumLiquidity.IsPositive() {
		return ErrInvalidParams.Wrap("minimum liquidity must be positive")
	}
	return nil
}
