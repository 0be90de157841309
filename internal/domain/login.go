package domain

import (
	"log/slog"
	"time"
)

// LoginMethod identifies how a credential was established.
type LoginMethod string

const (
	// LoginLocalKey is a raw secret key held by this application.
	LoginLocalKey LoginMethod = "local-key"
	// LoginExtension delegates to a signer capability provided by the host.
	LoginExtension LoginMethod = "extension"
	// LoginRemote delegates to a remote signer reached over a relay.
	LoginRemote LoginMethod = "remote"
	// LoginExternalApp delegates to an external signing application via the
	// callback bridge.
	LoginExternalApp LoginMethod = "external-app"
)

// LoginRecord is one persisted credential. Secret holds method-specific
// material (an nsec, a bunker descriptor, or nothing) and is exclusively
// owned by the record; it must never appear in logs.
type LoginRecord struct {
	ID        string      `json:"id"`
	Method    LoginMethod `json:"method"`
	PubKey    string      `json:"pubkey"`
	Secret    string      `json:"secret,omitempty"`
	Relay     string      `json:"relay,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// LogValue keeps secret material out of structured logs.
func (r LoginRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.String("method", string(r.Method)),
		slog.String("pubkey", r.PubKey),
	)
}

// RequestKind names an operation handed to the external signing application.
type RequestKind string

const (
	RequestPublicKey RequestKind = "get_public_key"
	RequestSignEvent RequestKind = "sign_event"
	RequestEncrypt   RequestKind = "encrypt"
	RequestDecrypt   RequestKind = "decrypt"
)

// PendingSignerRequest is the durable continuation for one external round
// trip. It is written before control transfers out and consumed exactly once
// when the matching callback arrives.
type PendingSignerRequest struct {
	ID         string      `json:"id"`
	Kind       RequestKind `json:"kind"`
	ReturnPath string      `json:"return_path"`
	CreatedAt  time.Time   `json:"created_at"`
}
