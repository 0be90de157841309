package domain

import (
	"fmt"
	"net/url"
)

// Bunker is the durable descriptor of a remote-signer session:
// bunker://<remote-pubkey>?relay=<url-encoded-relay>&secret=<delegate-secret>.
// It round-trips exactly through storage and back into the fields of a
// remote delegated signer.
type Bunker struct {
	RemotePubKey string
	RelayURL     string
	Secret       string
}

// String encodes the descriptor in its canonical form.
func (b Bunker) String() string {
	q := url.Values{}
	q.Set("relay", b.RelayURL)
	q.Set("secret", b.Secret)
	u := url.URL{Scheme: "bunker", Host: b.RemotePubKey, RawQuery: q.Encode()}
	return u.String()
}

// ParseBunker decodes a bunker descriptor, validating all three fields.
func ParseBunker(s string) (Bunker, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Bunker{}, fmt.Errorf("parsing bunker descriptor: %w", err)
	}
	if u.Scheme != "bunker" {
		return Bunker{}, fmt.Errorf("parsing bunker descriptor: scheme %q is not bunker", u.Scheme)
	}
	b := Bunker{
		RemotePubKey: u.Host,
		RelayURL:     u.Query().Get("relay"),
		Secret:       u.Query().Get("secret"),
	}
	if b.RemotePubKey == "" {
		return Bunker{}, fmt.Errorf("parsing bunker descriptor: missing remote public key")
	}
	if b.RelayURL == "" {
		return Bunker{}, fmt.Errorf("parsing bunker descriptor: missing relay")
	}
	if b.Secret == "" {
		return Bunker{}, fmt.Errorf("parsing bunker descriptor: missing secret")
	}
	return b, nil
}
