package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pair is the reserve ledger for one unordered asset combination. Asset0 and
// Asset1 are held in canonical order (Asset0 < Asset1). Reserves are the
// engine's last-synchronized view of the pair account's ledger balances; the
// balances themselves are the source of truth and every mutating operation
// re-synchronizes against them.
type Pair struct {
	// Index is the insertion-ordered enumeration index assigned by the
	// registry at creation.
	Index uint64

	// Asset0 and Asset1 are the canonical asset identifiers, Asset0 < Asset1.
	Asset0 string
	Asset1 string

	// Address is the pair's custody account in the asset ledger.
	Address sdk.AccAddress

	// ShareDenom is the liquidity share token minted and burned by this pair.
	ShareDenom string

	Reserve0    math.Int
	Reserve1    math.Int
	TotalShares math.Int

	// LastSync is the unix time of the last reserve synchronization. Used for
	// staleness bookkeeping only, never for invariant enforcement.
	LastSync int64

	registry    string
	initialized bool
}

// NewPair returns an uninitialized pair owned by the named registry. Only that
// registry may initialize it.
func NewPair(index uint64, registry string) *Pair {
	return &Pair{
		Index:       index,
		Reserve0:    math.ZeroInt(),
		Reserve1:    math.ZeroInt(),
		TotalShares: math.ZeroInt(),
		registry:    registry,
	}
}

// Initialize sets the pair's assets exactly once, canonicalizing their order.
// Callable only by the registry that created the pair.
func (p *Pair) Initialize(caller, assetX, assetY string) error {
	if caller != p.registry {
		return ErrForbidden.Wrap("only the creating registry may initialize a pair")
	}
	if p.initialized {
		return ErrAlreadyInitialized.Wrapf("pair %d assets already set", p.Index)
	}
	if assetX == assetY {
		return ErrIdenticalAssets.Wrapf("asset %s paired with itself", assetX)
	}
	low, high, _ := SortAssets(assetX, assetY)
	p.Asset0 = low
	p.Asset1 = high
	p.Address = PairAddress(low, high)
	p.ShareDenom = PairShareDenom(p.Index)
	p.initialized = true
	return nil
}

// Initialized reports whether the pair's assets have been set.
func (p *Pair) Initialized() bool {
	return p.initialized
}

// Key returns the pair's canonical registry key.
func (p *Pair) Key() string {
	return PairKey(p.Asset0, p.Asset1)
}

// Has reports whether the given asset is one of the pair's two sides.
func (p *Pair) Has(asset string) bool {
	return asset == p.Asset0 || asset == p.Asset1
}

// Other returns the pair's opposite asset.
func (p *Pair) Other(asset string) string {
	if asset == p.Asset0 {
		return p.Asset1
	}
	return p.Asset0
}

// OrientedReserves returns the reserves ordered as (reserve of assetIn,
// reserve of the other asset). Fails if assetIn is not part of the pair.
func (p *Pair) OrientedReserves(assetIn string) (reserveIn, reserveOut math.Int, err error) {
	switch assetIn {
	case p.Asset0:
		return p.Reserve0, p.Reserve1, nil
	case p.Asset1:
		return p.Reserve1, p.Reserve0, nil
	default:
		return math.ZeroInt(), math.ZeroInt(),
			ErrPairNotFound.Wrapf("asset %s not in pair %s/%s", assetIn, p.Asset0, p.Asset1)
	}
}

// K returns the current constant product reserve0*reserve1.
func (p *Pair) K() math.Int {
	return p.Reserve0.Mul(p.Reserve1)
}
