package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the asset ledger the AMM moves value through. The core never
// touches balances directly; it only observes them and asks the ledger to move
// them. A failed transfer is fatal to the enclosing operation.
type BankKeeper interface {
	// GetBalance returns the holder's balance of one denom, zero if none.
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin

	// SendCoins moves coins between two accounts.
	SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error

	// MintCoins creates new coins in the recipient's balance. Used only for
	// liquidity shares.
	MintCoins(ctx context.Context, to sdk.AccAddress, amt sdk.Coins) error

	// BurnCoins destroys coins held by the given account. Used only for
	// liquidity shares.
	BurnCoins(ctx context.Context, from sdk.AccAddress, amt sdk.Coins) error
}

// Wrapper converts a native balance into its tradeable wrapped representation
// and back. The router's native-asset entrypoints wrap on the way in, unwrap
// on the way out, and refund any unused wrapped amount.
type Wrapper interface {
	// Denom returns the wrapped asset identifier.
	Denom() string

	// NativeDenom returns the underlying native asset identifier.
	NativeDenom() string

	// Wrap converts amount of the holder's native balance into wrapped units.
	Wrap(ctx context.Context, holder sdk.AccAddress, amount sdkmath.Int) error

	// Unwrap converts amount of the holder's wrapped balance back to native.
	Unwrap(ctx context.Context, holder sdk.AccAddress, amount sdkmath.Int) error
}
