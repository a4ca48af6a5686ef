// Package ledger provides an in-memory fungible-asset ledger implementing the
// BankKeeper expectation of the AMM keeper. It exists so the exchange can run
// self-contained (tests, local simulation); production deployments substitute
// their own ledger behind the same interface.
package ledger

import (
	"context"
	"sync"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/types"
)

// Ledger is a thread-safe balance and supply book. The AMM burn sink is baked
// in: coins may be sent to it, never out of it.
type Ledger struct {
	mu       sync.RWMutex
	balances map[string]map[string]sdkmath.Int // addr -> denom -> amount
	supply   map[string]sdkmath.Int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[string]map[string]sdkmath.Int),
		supply:   make(map[string]sdkmath.Int),
	}
}

// GetBalance returns the holder's balance of one denom, zero if none.
func (l *Ledger) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return sdk.Coin{Denom: denom, Amount: l.balanceOf(addr, denom)}
}

// TotalSupply returns the outstanding supply of one denom.
func (l *Ledger) TotalSupply(denom string) sdkmath.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if s, ok := l.supply[denom]; ok {
		return s
	}
	return sdkmath.ZeroInt()
}

// SendCoins moves coins between two accounts. Transfers out of the burn sink
// are forbidden; insufficient balance fails the whole transfer with no partial
// movement.
func (l *Ledger) SendCoins(_ context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if from.Empty() || to.Empty() {
		return types.ErrZeroAddress.Wrap("transfer endpoints must be set")
	}
	if from.Equals(types.BurnAddress) {
		return types.ErrForbidden.Wrap("burn sink balances are unspendable")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, coin := range amt {
		if l.balanceOf(from, coin.Denom).LT(coin.Amount) {
			return types.ErrInsufficientFunds.Wrapf("%s has %s%s, need %s",
				from, l.balanceOf(from, coin.Denom), coin.Denom, coin)
		}
	}
	for _, coin := range amt {
		l.credit(from, coin.Denom, coin.Amount.Neg())
		l.credit(to, coin.Denom, coin.Amount)
	}
	return nil
}

// MintCoins creates new coins in the recipient's balance and grows supply.
func (l *Ledger) MintCoins(_ context.Context, to sdk.AccAddress, amt sdk.Coins) error {
	if to.Empty() {
		return types.ErrZeroAddress.Wrap("mint recipient must be set")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, coin := range amt {
		l.credit(to, coin.Denom, coin.Amount)
		l.supply[coin.Denom] = l.supplyOf(coin.Denom).Add(coin.Amount)
	}
	return nil
}

// BurnCoins destroys coins held by the given account and shrinks supply.
func (l *Ledger) BurnCoins(_ context.Context, from sdk.AccAddress, amt sdk.Coins) error {
	if from.Empty() {
		return types.ErrZeroAddress.Wrap("burn source must be set")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, coin := range amt {
		if l.balanceOf(from, coin.Denom).LT(coin.Amount) {
			return types.ErrInsufficientFunds.Wrapf("%s has %s%s, cannot burn %s",
				from, l.balanceOf(from, coin.Denom), coin.Denom, coin)
		}
	}
	for _, coin := range amt {
		l.credit(from, coin.Denom, coin.Amount.Neg())
		l.supply[coin.Denom] = l.supplyOf(coin.Denom).Sub(coin.Amount)
	}
	return nil
}

func (l *Ledger) balanceOf(addr sdk.AccAddress, denom string) sdkmath.Int {
	if acct, ok := l.balances[addr.String()]; ok {
		if b, ok := acct[denom]; ok {
			return b
		}
	}
	return sdkmath.ZeroInt()
}

func (l *Ledger) supplyOf(denom string) sdkmath.Int {
	if s, ok := l.supply[denom]; ok {
		return s
	}
	return sdkmath.ZeroInt()
}

func (l *Ledger) credit(addr sdk.AccAddress, denom string, delta sdkmath.Int) {
	key := addr.String()
	acct, ok := l.balances[key]
	if !ok {
		acct = make(map[string]sdkmath.Int)
		l.balances[key] = acct
	}
	cur, ok := acct[denom]
	if !ok {
		cur = sdkmath.ZeroInt()
	}
	acct[denom] = cur.Add(delta)
}
