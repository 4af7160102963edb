package types

const (
	EventTypeGameStarted     = "GameStarted"
	EventTypeGuessCommitted  = "GuessCommitted"
	EventTypeGuessRevealed   = "GuessRevealed"
	EventTypeGameResolved    = "GameResolved"
	EventTypeRewardCredited  = "RewardCredited"
	EventTypeRewardWithdrawn = "RewardWithdrawn"
	EventTypeMinStakeUpdated = "MinStakeUpdated"

	AttributeKeyRound            = "round"
	AttributeKeyOwner            = "owner"
	AttributeKeyPlayer           = "player"
	AttributeKeyCommitment       = "commitment"
	AttributeKeyStake            = "stake"
	AttributeKeyRevealDeadline   = "revealDeadline"
	AttributeKeyGuess            = "guess"
	AttributeKeySecret           = "secret"
	AttributeKeyPool             = "pool"
	AttributeKeyWinners          = "winners"
	AttributeKeyReward           = "reward"
	AttributeKeyUnclaimed        = "unclaimed"
	AttributeKeyAmount           = "amount"
	AttributeKeyMinStake         = "minStake"
	AttributeKeyReplacedExisting = "replacedExisting"
)
