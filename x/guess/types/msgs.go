package types

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Tx type routes used in the host envelope.
const (
	TypeMsgStartGame   = ModuleName + "/start_game"
	TypeMsgCommitGuess = ModuleName + "/commit_guess"
	TypeMsgRevealGuess = ModuleName + "/reveal_guess"
	TypeMsgResolveGame = ModuleName + "/resolve_game"
	TypeMsgWithdraw    = ModuleName + "/withdraw"
	TypeMsgSetMinStake = ModuleName + "/set_min_stake"
)

// Msg is implemented by every x/guess transaction body.
type Msg interface {
	ValidateBasic() error
	// Signer is the bech32 address that must have authenticated the tx.
	Signer() string
}

type MsgServer interface {
	StartGame(context.Context, *MsgStartGame) (*MsgStartGameResponse, error)
	CommitGuess(context.Context, *MsgCommitGuess) (*MsgCommitGuessResponse, error)
	RevealGuess(context.Context, *MsgRevealGuess) (*MsgRevealGuessResponse, error)
	ResolveGame(context.Context, *MsgResolveGame) (*MsgResolveGameResponse, error)
	Withdraw(context.Context, *MsgWithdraw) (*MsgWithdrawResponse, error)
	SetMinStake(context.Context, *MsgSetMinStake) (*MsgSetMinStakeResponse, error)
}

// ---- StartGame ----

type MsgStartGame struct {
	Owner            string `json:"owner"`
	SecretCommitment string `json:"secretCommitment"`
	// RevealWindow is in seconds. Zero and negative windows are accepted.
	RevealWindow int64 `json:"revealWindow"`
}

type MsgStartGameResponse struct {
	Round          uint64 `json:"round"`
	RevealDeadline int64  `json:"revealDeadline"`
}

func (m MsgStartGame) Signer() string { return m.Owner }

func (m MsgStartGame) ValidateBasic() error {
	return validateAddress("owner", m.Owner)
}

// ---- CommitGuess ----

type MsgCommitGuess struct {
	Player          string      `json:"player"`
	GuessCommitment string      `json:"guessCommitment"`
	Stake           sdkmath.Int `json:"stake"`
}

type MsgCommitGuessResponse struct {
	ReplacedExisting bool `json:"replacedExisting"`
}

func (m MsgCommitGuess) Signer() string { return m.Player }

func (m MsgCommitGuess) ValidateBasic() error {
	if err := validateAddress("player", m.Player); err != nil {
		return err
	}
	return validateAmount("stake", m.Stake)
}

// ---- RevealGuess ----

type MsgRevealGuess struct {
	Player string `json:"player"`
	Guess  string `json:"guess"`
	Nonce  string `json:"nonce"`
}

type MsgRevealGuessResponse struct{}

func (m MsgRevealGuess) Signer() string { return m.Player }

func (m MsgRevealGuess) ValidateBasic() error {
	return validateAddress("player", m.Player)
}

// ---- ResolveGame ----

type MsgResolveGame struct {
	Owner  string `json:"owner"`
	Secret string `json:"secret"`
	Nonce  string `json:"nonce"`
}

type MsgResolveGameResponse struct {
	Round     uint64      `json:"round"`
	Pool      sdkmath.Int `json:"pool"`
	Winners   []string    `json:"winners"`
	Reward    sdkmath.Int `json:"reward"`
	Unclaimed sdkmath.Int `json:"unclaimed"`
}

func (m MsgResolveGame) Signer() string { return m.Owner }

func (m MsgResolveGame) ValidateBasic() error {
	return validateAddress("owner", m.Owner)
}

// ---- Withdraw ----

type MsgWithdraw struct {
	Player string `json:"player"`
}

type MsgWithdrawResponse struct {
	Amount sdkmath.Int `json:"amount"`
}

func (m MsgWithdraw) Signer() string { return m.Player }

func (m MsgWithdraw) ValidateBasic() error {
	return validateAddress("player", m.Player)
}

// ---- SetMinStake ----

type MsgSetMinStake struct {
	Owner    string      `json:"owner"`
	MinStake sdkmath.Int `json:"minStake"`
}

type MsgSetMinStakeResponse struct{}

func (m MsgSetMinStake) Signer() string { return m.Owner }

func (m MsgSetMinStake) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	return validateAmount("min_stake", m.MinStake)
}

func validateAddress(field, addr string) error {
	if addr == "" {
		return ErrInvalidRequest.Wrapf("missing %s", field)
	}
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return ErrInvalidRequest.Wrapf("invalid %s address: %v", field, err)
	}
	return nil
}

// Amounts are unsigned on the wire.
func validateAmount(field string, amt sdkmath.Int) error {
	if amt.IsNil() {
		return ErrInvalidRequest.Wrapf("missing %s", field)
	}
	if amt.IsNegative() {
		return ErrInvalidRequest.Wrapf("%s must be >= 0", field)
	}
	return nil
}
