package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrIdenticalAssets        = errors.Register(ModuleName, 1, "identical assets")
	ErrZeroAsset              = errors.Register(ModuleName, 2, "empty asset identifier")
	ErrPairExists             = errors.Register(ModuleName, 3, "pair already exists")
	ErrPairNotFound           = errors.Register(ModuleName, 4, "pair not found")
	ErrAlreadyInitialized     = errors.Register(ModuleName, 5, "pair already initialized")
	ErrForbidden              = errors.Register(ModuleName, 6, "forbidden")
	ErrZeroAddress            = errors.Register(ModuleName, 7, "empty address")
	ErrExpired                = errors.Register(ModuleName, 8, "deadline expired")
	ErrInvalidPath            = errors.Register(ModuleName, 9, "invalid swap path")
	ErrInsufficientAmount     = errors.Register(ModuleName, 10, "insufficient amount")
	ErrInsufficientInput      = errors.Register(ModuleName, 11, "insufficient input amount")
	ErrInsufficientOutput     = errors.Register(ModuleName, 12, "insufficient output amount")
	ErrInsufficientLiquidity  = errors.Register(ModuleName, 13, "insufficient liquidity")
	ErrInsufficientMinted     = errors.Register(ModuleName, 14, "insufficient liquidity minted")
	ErrInsufficientBurned     = errors.Register(ModuleName, 15, "insufficient liquidity burned")
	ErrInsufficientBurnOut    = errors.Register(ModuleName, 16, "burned liquidity yields zero amount")
	ErrExcessiveInput         = errors.Register(ModuleName, 17, "excessive input amount")
	ErrInsufficientAAmount    = errors.Register(ModuleName, 18, "insufficient A amount")
	ErrInsufficientBAmount    = errors.Register(ModuleName, 19, "insufficient B amount")
	ErrInvariantViolation     = errors.Register(ModuleName, 20, "constant product invariant violated")
	ErrTransferFailed         = errors.Register(ModuleName, 21, "asset transfer failed")
	ErrReserveOverflow        = errors.Register(ModuleName, 22, "reserve exceeds bounded width")
	ErrReentrancy             = errors.Register(ModuleName, 23, "reentrant pair operation")
	ErrInvalidParams          = errors.Register(ModuleName, 24, "invalid params")
	ErrInsufficientFunds      = errors.Register(ModuleName, 25, "insufficient funds")
	ErrInvalidAmount          = errors.Register(ModuleName, 26, "invalid amount")
)
