package domain

import "context"

// Signer is the capability set common to every credential backend. A signer
// can derive its public identity, sign events, and encrypt or decrypt
// payloads for a peer, without necessarily exposing a secret key.
type Signer interface {
	PublicKey(ctx context.Context) (string, error)
	SignEvent(ctx context.Context, ev *Event) error
	Encrypt(ctx context.Context, plaintext, peerPubKey string) (string, error)
	Decrypt(ctx context.Context, ciphertext, peerPubKey string) (string, error)
}

// HostSigner is a signer capability provided by the host environment, if any.
type HostSigner interface {
	Signer
}

// RelayClient is a store-and-forward endpoint exchanging protocol events over
// a URL. It is an injected collaborator, not an implementation detail of this
// module.
type RelayClient interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe delivers matching events until ctx is done, then closes the
	// channel.
	Subscribe(ctx context.Context, f Filter) (<-chan Event, error)
	Close() error
}

// DialFunc opens a fresh relay connection to the given URL.
type DialFunc func(ctx context.Context, url string) (RelayClient, error)

// KV is one storage tier: a flat string key/value space. Failures wrap
// ErrStorageAccess.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// LoginStore is the durable owner of login records. The active credential is
// tracked by explicit record id. Subscribers observe wholesale snapshots;
// in-memory state is replaced, never merged field by field.
type LoginStore interface {
	List() []LoginRecord
	Active() (LoginRecord, bool)
	// Add persists rec and makes it the active credential.
	Add(rec LoginRecord) error
	// RemoveActive drops the active record only, promoting the next one.
	RemoveActive() error
	Purge() error
	// Reload re-reads the durable tier, replacing in-memory state wholesale.
	Reload() error
	Subscribe(fn func(records []LoginRecord))
}

// PendingStore persists at most one outstanding external signer request.
type PendingStore interface {
	Put(req PendingSignerRequest) error
	// Claim removes and returns the outstanding request. The entry is deleted
	// even when the stored payload turns out to be unreadable, so a request
	// can never be consumed twice.
	Claim() (req PendingSignerRequest, ok bool, err error)
}
