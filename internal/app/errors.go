package app

import errorsmod "cosmossdk.io/errors"

// Codespace for host-level tx rejections; module errors keep their own.
const Codespace = "guessd"

var (
	ErrTxDecode      = errorsmod.Register(Codespace, 2, "tx parse error")
	ErrUnauthorized  = errorsmod.Register(Codespace, 3, "unauthorized")
	ErrInvalidNonce  = errorsmod.Register(Codespace, 4, "invalid nonce")
	ErrUnknownRoute  = errorsmod.Register(Codespace, 5, "unknown tx type")
	ErrUnknownQuery  = errorsmod.Register(Codespace, 6, "unknown query path")
	ErrInvalidHeight = errorsmod.Register(Codespace, 7, "invalid height")
)
