package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultDenom is the stake/reward denomination used when genesis omits one.
	DefaultDenom = "uguess"
)

// DefaultMinStake is the stake threshold a fresh chain starts with.
var DefaultMinStake = sdkmath.OneInt()

// Params are owner-tunable module settings.
type Params struct {
	MinStake sdkmath.Int `json:"minStake"`
	Denom    string      `json:"denom"`
}

func DefaultParams() Params {
	return Params{
		MinStake: DefaultMinStake,
		Denom:    DefaultDenom,
	}
}

func (p Params) Validate() error {
	if p.MinStake.IsNil() {
		return fmt.Errorf("min_stake must be set")
	}
	if p.MinStake.IsNegative() {
		return fmt.Errorf("min_stake must be >= 0")
	}
	if err := sdk.ValidateDenom(p.Denom); err != nil {
		return fmt.Errorf("invalid denom: %w", err)
	}
	return nil
}
