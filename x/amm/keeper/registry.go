package keeper

import (
	"fmt"
	"sync"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/types"
)

// registryID names the keeper as the sole authority allowed to initialize the
// pairs it creates.
const registryID = "x/amm/registry"

// registry is the arena of pairs, keyed by canonical asset pair, plus the
// insertion-ordered enumeration list.
type registry struct {
	mu    sync.RWMutex
	pairs map[string]*types.Pair
	list  []*types.Pair
}

func newRegistry() *registry {
	return &registry{pairs: make(map[string]*types.Pair)}
}

// CreatePair instantiates and registers the pair for an unordered asset
// combination. Creation is permissionless and happens exactly once per
// canonical key; the pair persists for the system's lifetime.
func (k *Keeper) CreatePair(assetA, assetB string) (*types.Pair, error) {
	if assetA == assetB {
		return nil, types.ErrIdenticalAssets.Wrapf("cannot pair %s with itself", assetA)
	}
	if assetA == "" || assetB == "" {
		return nil, types.ErrZeroAsset.Wrap("both assets must be named")
	}

	low, high, _ := types.SortAssets(assetA, assetB)
	key := types.PairKey(low, high)

	r := k.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pairs[key]; exists {
		return nil, types.ErrPairExists.Wrapf("pair %s/%s already registered", low, high)
	}

	pair := types.NewPair(uint64(len(r.list)), registryID)
	if err := pair.Initialize(registryID, assetA, assetB); err != nil {
		return nil, err
	}

	r.pairs[key] = pair
	r.list = append(r.list, pair)

	k.metrics.PairsTotal.Set(float64(len(r.list)))
	k.emit(sdk.NewEvent(
		types.EventTypePairCreated,
		sdk.NewAttribute(types.AttributeKeyAsset0, pair.Asset0),
		sdk.NewAttribute(types.AttributeKeyAsset1, pair.Asset1),
		sdk.NewAttribute(types.AttributeKeyPair, pair.Address.String()),
		sdk.NewAttribute(types.AttributeKeyPairIndex, fmt.Sprintf("%d", pair.Index)),
	))
	k.logger.Info("pair created",
		"asset0", pair.Asset0,
		"asset1", pair.Asset1,
		"index", pair.Index,
	)

	return pair, nil
}

// GetPair looks up the pair for an unordered asset combination. The lookup is
// order-insensitive: GetPair(A, B) and GetPair(B, A) return the same pair.
func (k *Keeper) GetPair(assetA, assetB string) (*types.Pair, bool) {
	low, high, _ := types.SortAssets(assetA, assetB)

	r := k.registry
	r.mu.RLock()
	defer r.mu.RUnlock()

	pair, ok := r.pairs[types.PairKey(low, high)]
	return pair, ok
}

// AllPairsLength returns the number of registered pairs.
func (k *Keeper) AllPairsLength() int {
	r := k.registry
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// PairByIndex returns the i-th pair in creation order.
func (k *Keeper) PairByIndex(i int) (*types.Pair, error) {
	r := k.registry
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.list) {
		return nil, types.ErrPairNotFound.Wrapf("index %d out of range [0,%d)", i, len(r.list))
	}
	return r.list[i], nil
}

// pairForHop resolves the pair for one hop of a routing path.
func (k *Keeper) pairForHop(assetIn, assetOut string) (*types.Pair, error) {
	pair, ok := k.GetPair(assetIn, assetOut)
	if !ok {
		return nil, types.ErrPairNotFound.Wrapf("no pair for %s/%s", assetIn, assetOut)
	}
	return pair, nil
}
