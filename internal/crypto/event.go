package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"signet/internal/domain"
)

// serializeEvent produces the canonical form hashed into the event id:
// [0, pubkey, created_at, kind, tags, content].
func serializeEvent(ev *domain.Event) ([]byte, error) {
	tags := ev.Tags
	if tags == nil {
		tags = [][]string{}
	}
	return json.Marshal([]any{0, ev.PubKey, ev.CreatedAt, ev.Kind, tags, ev.Content})
}

// EventID computes the hex id of ev from its canonical serialisation.
func EventID(ev *domain.Event) (string, error) {
	b, err := serializeEvent(ev)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// SignEvent fills in the event's PubKey, ID and Sig using this key.
func (k *KeyPair) SignEvent(ev *domain.Event) error {
	ev.PubKey = k.PublicKeyHex()
	id, err := EventID(ev)
	if err != nil {
		return fmt.Errorf("computing event id: %w", err)
	}
	ev.ID = id
	hash, err := hex.DecodeString(id)
	if err != nil {
		return err
	}
	sig, err := schnorr.Sign(k.priv, hash)
	if err != nil {
		return fmt.Errorf("signing event: %w", err)
	}
	ev.Sig = hex.EncodeToString(sig.Serialize())
	return nil
}

// VerifyEvent checks the event id against its contents and the signature
// against the event's public key.
func VerifyEvent(ev *domain.Event) bool {
	id, err := EventID(ev)
	if err != nil || id != ev.ID {
		return false
	}
	hash, err := hex.DecodeString(ev.ID)
	if err != nil {
		return false
	}
	pubBytes, err := hex.DecodeString(ev.PubKey)
	if err != nil {
		return false
	}
	pub, err := schnorr.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}
	sigBytes, err := hex.DecodeString(ev.Sig)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false
	}
	return sig.Verify(hash, pub)
}
