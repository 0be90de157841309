// Package crypto wraps the key, signature and payload-encryption primitives
// used by the signer backends.
//
// Keys are secp256k1; public identities are 32-byte x-only keys in hex;
// secret keys are accepted as hex or bech32 (nsec). Events are hashed over
// their canonical serialisation and signed with BIP-340 Schnorr signatures.
// Payloads exchanged with a remote signer are encrypted with one of two
// conversation schemes derived from an ECDH shared secret.
package crypto
