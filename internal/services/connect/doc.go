// Package connect negotiates a remote delegated-signer session.
//
// The handshake walks INIT → AWAITING_ACK → ESTABLISHED | FAILED. Promotion
// into a durable credential happens only after the remote party's
// acknowledgement carrying the user's public identity; the client-generated
// delegate key alone never yields a credential, and nothing is persisted on
// failure or timeout.
package connect
