package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

type QueryGameResponse struct {
	Game  GameState   `json:"game"`
	Owner string      `json:"owner"`
	Pool  sdkmath.Int `json:"pool"`
}

type QueryGuessesResponse struct {
	Guesses []PlayerGuess `json:"guesses"`
}

type QueryGuessResponse struct {
	Player string      `json:"player"`
	Guess  GuessRecord `json:"guess"`
}

type QueryBalanceResponse struct {
	Player  string      `json:"player"`
	Balance sdkmath.Int `json:"balance"`
}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryServer interface {
	Game(ctx context.Context) (*QueryGameResponse, error)
	Guesses(ctx context.Context) (*QueryGuessesResponse, error)
	Guess(ctx context.Context, player string) (*QueryGuessResponse, error)
	Balance(ctx context.Context, player string) (*QueryBalanceResponse, error)
	Params(ctx context.Context) (*QueryParamsResponse, error)
}
