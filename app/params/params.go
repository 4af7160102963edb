package params

const (
	// AppName is the human-readable name reported over ABCI Info.
	AppName = "OnChainGuess"

	// BinaryName is the name of the daemon/CLI binary.
	BinaryName = "guessd"

	// Bech32Prefix is the Bech32 prefix for account addresses on this chain.
	Bech32Prefix = "guess"

	// BaseDenom is the on-chain base denomination used for stakes and rewards.
	BaseDenom = "uguess"

	// DefaultChainID is a suggested chain-id for local dev/testnets.
	// `guessd init --chain-id <...>` can override this.
	DefaultChainID = "onchainguess-1"

	// EnvPrefix is the environment variable prefix used by the CLI/config system.
	// Example: GUESSD_HOME, GUESSD_LOG_LEVEL, etc.
	EnvPrefix = "GUESSD"
)
