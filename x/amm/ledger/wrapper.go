package ledger

import (
	"context"
	"crypto/sha256"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/types"
)

// Wrapper escrows a native denom and mints a 1:1 wrapped representation that
// trades like any other asset. Implements the keeper's Wrapper expectation.
type Wrapper struct {
	ledger       *Ledger
	nativeDenom  string
	wrappedDenom string
	escrow       sdk.AccAddress
}

// NewWrapper returns a wrapper for the given native denom, issuing
// wrappedDenom against escrowed native balances.
func NewWrapper(l *Ledger, nativeDenom, wrappedDenom string) *Wrapper {
	sum := sha256.Sum256([]byte("amm/wrapper/" + wrappedDenom))
	return &Wrapper{
		ledger:       l,
		nativeDenom:  nativeDenom,
		wrappedDenom: wrappedDenom,
		escrow:       sdk.AccAddress(sum[:20]),
	}
}

// Denom returns the wrapped asset identifier.
func (w *Wrapper) Denom() string {
	return w.wrappedDenom
}

// NativeDenom returns the underlying native asset identifier.
func (w *Wrapper) NativeDenom() string {
	return w.nativeDenom
}

// Wrap escrows amount of the holder's native balance and credits the same
// amount of the wrapped denom.
func (w *Wrapper) Wrap(ctx context.Context, holder sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("wrap amount must be positive")
	}
	native := sdk.NewCoins(sdk.NewCoin(w.nativeDenom, amount))
	if err := w.ledger.SendCoins(ctx, holder, w.escrow, native); err != nil {
		return err
	}
	return w.ledger.MintCoins(ctx, holder, sdk.NewCoins(sdk.NewCoin(w.wrappedDenom, amount)))
}

// Unwrap burns amount of the holder's wrapped balance and releases the
// escrowed native coins.
func (w *Wrapper) Unwrap(ctx context.Context, holder sdk.AccAddress, amount sdkmath.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrap("unwrap amount must be positive")
	}
	wrapped := sdk.NewCoins(sdk.NewCoin(w.wrappedDenom, amount))
	if err := w.ledger.BurnCoins(ctx, holder, wrapped); err != nil {
		return err
	}
	if err := w.ledger.SendCoins(ctx, w.escrow, holder, sdk.NewCoins(sdk.NewCoin(w.nativeDenom, amount))); err != nil {
		// Restore the burned wrapped balance so a failed release changes
		// nothing.
		_ = w.ledger.MintCoins(ctx, holder, wrapped)
		return err
	}
	return nil
}
