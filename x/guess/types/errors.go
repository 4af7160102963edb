package types

import errorsmod "cosmossdk.io/errors"

// x/guess sentinel errors.
//
// Every rejection is one of three classes; call sites wrap the class with the
// specific reason so clients can match on either.
var (
	ErrInvalidRequest = errorsmod.Register(ModuleName, 1, "invalid request")
	ErrUnauthorized   = errorsmod.Register(ModuleName, 2, "unauthorized")
	ErrInvalidState   = errorsmod.Register(ModuleName, 3, "invalid game state")
	ErrValidation     = errorsmod.Register(ModuleName, 4, "validation failed")
)
