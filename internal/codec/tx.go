package codec

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cometbft/cometbft/v2/crypto/ed25519"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TxAuthDomain separates guess tx signatures from any other use of the key.
const TxAuthDomain = "guess/tx/v0"

// TxEnvelope is the transaction container carried in CometBFT tx bytes.
//
// Every tx is signed: Sig is an Ed25519 signature by PubKey over SignBytes.
// The signer address is derived from PubKey, never taken from the body.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	// Nonce must strictly increase per signer (decimal uint64).
	Nonce  string `json:"nonce"`
	PubKey []byte `json:"pubKey"` // base64 (32 bytes)
	Sig    []byte `json:"sig"`    // base64 (64 bytes)
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	if len(env.Value) == 0 {
		return TxEnvelope{}, fmt.Errorf("missing tx.value")
	}
	return env, nil
}

// NonceValue parses the envelope nonce.
func (env TxEnvelope) NonceValue() (uint64, error) {
	if env.Nonce == "" {
		return 0, fmt.Errorf("missing tx.nonce")
	}
	n, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tx.nonce %q: %w", env.Nonce, err)
	}
	return n, nil
}

// Signer returns the account address of the envelope's public key.
func (env TxEnvelope) Signer() (sdk.AccAddress, error) {
	if len(env.PubKey) != ed25519.PubKeySize {
		return nil, fmt.Errorf("tx.pubKey must be %d bytes, got %d", ed25519.PubKeySize, len(env.PubKey))
	}
	return sdk.AccAddress(ed25519.PubKey(env.PubKey).Address()), nil
}

// Verify checks the envelope signature for chainID and returns the signer.
func (env TxEnvelope) Verify(chainID string) (sdk.AccAddress, error) {
	signer, err := env.Signer()
	if err != nil {
		return nil, err
	}
	if _, err := env.NonceValue(); err != nil {
		return nil, err
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	msg := SignBytes(chainID, env.Type, env.Value, env.Nonce, signer.String())
	if !ed25519.PubKey(env.PubKey).VerifySignature(msg, env.Sig) {
		return nil, fmt.Errorf("invalid signature")
	}
	return signer, nil
}

// SignBytes returns the message a signer commits to:
//
//	DOMAIN || 0x00 || chainID || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
func SignBytes(chainID, typ string, value []byte, nonce string, signer string) []byte {
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(TxAuthDomain)+len(chainID)+len(typ)+len(nonce)+len(signer)+5+sha256.Size)
	out = append(out, TxAuthDomain...)
	out = append(out, 0)
	out = append(out, chainID...)
	out = append(out, 0)
	out = append(out, typ...)
	out = append(out, 0)
	out = append(out, nonce...)
	out = append(out, 0)
	out = append(out, signer...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

// SignTx builds signed tx bytes for value under priv.
func SignTx(priv ed25519.PrivKey, chainID, typ string, value any, nonce uint64) ([]byte, error) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal tx value: %w", err)
	}
	pub := priv.PubKey().(ed25519.PubKey)
	signer := sdk.AccAddress(pub.Address())
	nonceStr := strconv.FormatUint(nonce, 10)

	sig, err := priv.Sign(SignBytes(chainID, typ, valueBytes, nonceStr, signer.String()))
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	return json.Marshal(TxEnvelope{
		Type:   typ,
		Value:  valueBytes,
		Nonce:  nonceStr,
		PubKey: pub,
		Sig:    sig,
	})
}

// ---- Vault ----

// VaultSendTx moves native coins between accounts; From must be the signer.
type VaultSendTx struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Amount sdk.Coins `json:"amount"`
}
