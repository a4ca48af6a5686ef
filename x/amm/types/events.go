package types

// Event types emitted by the AMM module
const (
	EventTypePairCreated = "amm_pair_created"
	EventTypeDeposit     = "amm_deposit"
	EventTypeWithdraw    = "amm_withdraw"
	EventTypeSwap        = "amm_swap"
	EventTypeSync        = "amm_sync"
)

// Event attribute keys
const (
	AttributeKeyAsset0     = "asset0"
	AttributeKeyAsset1     = "asset1"
	AttributeKeyPair       = "pair"
	AttributeKeyPairIndex  = "pair_index"
	AttributeKeyActor      = "actor"
	AttributeKeyRecipient  = "recipient"
	AttributeKeyAmount0    = "amount0"
	AttributeKeyAmount1    = "amount1"
	AttributeKeyAmount0In  = "amount0_in"
	AttributeKeyAmount1In  = "amount1_in"
	AttributeKeyAmount0Out = "amount0_out"
	AttributeKeyAmount1Out = "amount1_out"
	AttributeKeyShares     = "shares"
	AttributeKeyReserve0   = "reserve0"
	AttributeKeyReserve1   = "reserve1"
)
