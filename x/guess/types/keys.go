package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name.
	ModuleName = "guess"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

var (
	// OwnerKey stores the game owner's address bytes. Written once at genesis.
	OwnerKey = collections.NewPrefix(0x01)

	// ParamsKey stores the mutable module params (min stake, denom).
	ParamsKey = collections.NewPrefix(0x02)

	// GameKey stores the singleton GameState.
	GameKey = collections.NewPrefix(0x03)

	// GuessesKeyPrefix stores GuessRecord by player: GuessesKeyPrefix || len(addr) || addr.
	GuessesKeyPrefix = collections.NewPrefix(0x04)

	// BalancesKeyPrefix stores withdrawable reward balances by player.
	BalancesKeyPrefix = collections.NewPrefix(0x05)
)
