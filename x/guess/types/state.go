package types

import sdkmath "cosmossdk.io/math"

// GameState is the singleton lifecycle record.
type GameState struct {
	// Round counts StartGame calls; 0 means no game was ever started.
	Round            uint64 `json:"round"`
	SecretCommitment string `json:"secretCommitment"`
	// RevealDeadline is a unix second timestamp. ResolveGame is rejected while
	// block time is strictly before it.
	RevealDeadline int64 `json:"revealDeadline"`
	Active         bool  `json:"active"`
}

// GuessRecord is one player's commitment for the current round.
type GuessRecord struct {
	Commitment string      `json:"commitment"`
	Stake      sdkmath.Int `json:"stake"`
	Revealed   bool        `json:"revealed"`
	Guess      string      `json:"guess"`
}

// PlayerGuess pairs a record with its owner, in registry order.
type PlayerGuess struct {
	Player string      `json:"player"`
	Record GuessRecord `json:"record"`
}

// PlayerBalance is a RewardLedger entry.
type PlayerBalance struct {
	Player  string      `json:"player"`
	Balance sdkmath.Int `json:"balance"`
}
