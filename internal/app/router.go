package app

import (
	"context"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/internal/codec"
	"onchainguess/internal/vault"
	guesstypes "onchainguess/x/guess/types"
)

// handler decodes and validates a tx body for signer. With checkOnly set it
// stops before touching state.
type handler func(ctx context.Context, value json.RawMessage, signer sdk.AccAddress, checkOnly bool) (any, error)

func guessRoute[T any, PT interface {
	*T
	guesstypes.Msg
}, R any](call func(context.Context, *T) (R, error)) handler {
	return func(ctx context.Context, value json.RawMessage, signer sdk.AccAddress, checkOnly bool) (any, error) {
		var msg T
		if err := json.Unmarshal(value, &msg); err != nil {
			return nil, ErrTxDecode.Wrapf("bad tx value: %v", err)
		}
		pm := PT(&msg)
		if err := pm.ValidateBasic(); err != nil {
			return nil, err
		}
		if err := requireSigner(pm.Signer(), signer); err != nil {
			return nil, err
		}
		if checkOnly {
			return nil, nil
		}
		return call(ctx, &msg)
	}
}

func requireSigner(claimed string, signer sdk.AccAddress) error {
	addr, err := sdk.AccAddressFromBech32(claimed)
	if err != nil {
		return ErrTxDecode.Wrapf("invalid address %q: %v", claimed, err)
	}
	if !addr.Equals(signer) {
		return ErrUnauthorized.Wrapf("tx signer mismatch: signer=%s want=%s", signer, addr)
	}
	return nil
}

func (a *GuessApp) vaultSend(ctx context.Context, value json.RawMessage, signer sdk.AccAddress, checkOnly bool) (any, error) {
	var msg codec.VaultSendTx
	if err := json.Unmarshal(value, &msg); err != nil {
		return nil, ErrTxDecode.Wrapf("bad vault/send value: %v", err)
	}
	if err := requireSigner(msg.From, signer); err != nil {
		return nil, err
	}
	to, err := sdk.AccAddressFromBech32(msg.To)
	if err != nil {
		return nil, vault.ErrInvalidAddress.Wrapf("to: %v", err)
	}
	if msg.Amount.Empty() || !msg.Amount.IsValid() {
		return nil, vault.ErrInvalidCoins.Wrapf("%s", msg.Amount)
	}
	if checkOnly {
		return nil, nil
	}
	if err := a.VaultKeeper.SendCoins(ctx, signer, to, msg.Amount); err != nil {
		return nil, err
	}
	return map[string]string{"from": signer.String(), "to": to.String(), "amount": msg.Amount.String()}, nil
}

func (a *GuessApp) registerRoutes() {
	ms := a.guessMsgServer
	a.router = map[string]handler{
		guesstypes.TypeMsgStartGame:   guessRoute(ms.StartGame),
		guesstypes.TypeMsgCommitGuess: guessRoute(ms.CommitGuess),
		guesstypes.TypeMsgRevealGuess: guessRoute(ms.RevealGuess),
		guesstypes.TypeMsgResolveGame: guessRoute(ms.ResolveGame),
		guesstypes.TypeMsgWithdraw:    guessRoute(ms.Withdraw),
		guesstypes.TypeMsgSetMinStake: guessRoute(ms.SetMinStake),
		TypeVaultSend:                 a.vaultSend,
	}
}

const TypeVaultSend = vault.ModuleName + "/send"
