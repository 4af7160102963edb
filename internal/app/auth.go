package app

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/core/store"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"onchainguess/internal/codec"
)

const AuthStoreKey = "auth"

var NoncesKeyPrefix = collections.NewPrefix(0x01)

// nonceKeeper tracks the last accepted envelope nonce per signer.
type nonceKeeper struct {
	Nonces collections.Map[sdk.AccAddress, uint64]
}

func newNonceKeeper(storeService corestore.KVStoreService) nonceKeeper {
	sb := collections.NewSchemaBuilder(storeService)
	k := nonceKeeper{
		Nonces: collections.NewMap(sb, NoncesKeyPrefix, "nonces", sdk.AccAddressKey, collections.Uint64Value),
	}
	if _, err := sb.Build(); err != nil {
		panic(err)
	}
	return k
}

func (k nonceKeeper) last(ctx context.Context, signer sdk.AccAddress) (uint64, error) {
	n, err := k.Nonces.Get(ctx, signer)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// check rejects nonces that do not exceed the signer's last accepted one.
func (k nonceKeeper) check(ctx context.Context, signer sdk.AccAddress, nonce uint64) error {
	last, err := k.last(ctx, signer)
	if err != nil {
		return err
	}
	if nonce <= last {
		return ErrInvalidNonce.Wrapf("replayed tx.nonce: got %d, last %d", nonce, last)
	}
	return nil
}

func (k nonceKeeper) consume(ctx context.Context, signer sdk.AccAddress, nonce uint64) error {
	if err := k.check(ctx, signer, nonce); err != nil {
		return err
	}
	return k.Nonces.Set(ctx, signer, nonce)
}

// authenticate decodes tx bytes and verifies the envelope signature.
func authenticate(chainID string, txBytes []byte) (codec.TxEnvelope, sdk.AccAddress, uint64, error) {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		return codec.TxEnvelope{}, nil, 0, ErrTxDecode.Wrap(err.Error())
	}
	signer, err := env.Verify(chainID)
	if err != nil {
		return codec.TxEnvelope{}, nil, 0, ErrUnauthorized.Wrap(err.Error())
	}
	nonce, err := env.NonceValue()
	if err != nil {
		return codec.TxEnvelope{}, nil, 0, ErrInvalidNonce.Wrap(err.Error())
	}
	return env, signer, nonce, nil
}
