package types

import (
	"crypto/sha256"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// MaxReserveBits bounds each pair reserve. A resync that would push a
	// reserve past this width fails the whole operation instead of truncating.
	MaxReserveBits = 112

	// MaxPathHops bounds routing paths to prevent unbounded quote chains.
	MaxPathHops = 5
)

// BurnAddress is the unspendable sink that permanently holds the minimum
// liquidity shares minted on a pair's first deposit. The ledger refuses any
// transfer out of this account.
var BurnAddress = deriveAddress("amm/burn")

// RouterAddress is the transient custody account the router uses when an
// output must be unwrapped before delivery. It never holds funds across
// operations.
var RouterAddress = deriveAddress("amm/router")

// PairAddress derives the deterministic custody account for the pair holding
// the canonical (assetLow, assetHigh) combination.
func PairAddress(assetLow, assetHigh string) sdk.AccAddress {
	return deriveAddress("amm/pair/" + assetLow + "/" + assetHigh)
}

// PairShareDenom returns the liquidity share denom for the pair at the given
// enumeration index. Shares are ordinary ledger balances and trade like any
// other asset.
func PairShareDenom(index uint64) string {
	return fmt.Sprintf("amm/pair/%d", index)
}

func deriveAddress(name string) sdk.AccAddress {
	sum := sha256.Sum256([]byte(name))
	return sdk.AccAddress(sum[:20])
}
