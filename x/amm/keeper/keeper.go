// Package keeper owns all AMM state: the pair registry, the per-pair reserve
// ledgers, and the router entrypoints. Every externally visible operation is
// atomic; partial effects are rolled back with compensating transfers before
// the error is returned.
package keeper

import (
	"time"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/pond-exchange/pond/x/amm/types"
)

// Keeper of the AMM state
type Keeper struct {
	bank    types.BankKeeper
	wrapper types.Wrapper
	logger  log.Logger
	events  *sdk.EventManager
	metrics *Metrics
	params  types.Params
	guard   *ReentrancyGuard

	// now is injectable for deadline tests.
	now func() time.Time

	registry *registry
}

// NewKeeper creates a new AMM Keeper. Construction fails if the ledger or the
// wrapper is unset; both are immutable afterwards.
func NewKeeper(bank types.BankKeeper, wrapper types.Wrapper, logger log.Logger, params types.Params) (*Keeper, error) {
	if bank == nil {
		return nil, types.ErrZeroAddress.Wrap("asset ledger must be set")
	}
	if wrapper == nil {
		return nil, types.ErrZeroAddress.Wrap("wrapper service must be set")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Keeper{
		bank:     bank,
		wrapper:  wrapper,
		logger:   logger.With("module", "x/"+types.ModuleName),
		events:   sdk.NewEventManager(),
		metrics:  NewMetrics(),
		params:   params,
		guard:    NewReentrancyGuard(),
		now:      time.Now,
		registry: newRegistry(),
	}, nil
}

// Logger returns the module logger.
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// Params returns the exchange fee configuration.
func (k *Keeper) Params() types.Params {
	return k.params
}

// Events returns all events emitted so far.
func (k *Keeper) Events() sdk.Events {
	return k.events.Events()
}

// SetClock overrides the keeper's time source. Intended for tests.
func (k *Keeper) SetClock(now func() time.Time) {
	k.now = now
}

func (k *Keeper) emit(event sdk.Event) {
	k.events.EmitEvent(event)
}
