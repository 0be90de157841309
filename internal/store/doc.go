// Package store provides the two persistence tiers and the credential
// stores built on them.
//
// FileKV keeps a flat key/value map as one JSON document, written atomically
// via a temp file and rename. The durable tier survives full restarts; the
// session tier lives in a directory the host clears on a genuine full close.
// MemKV backs tests. LoginStore owns the persisted login records with an
// explicit active-record id; PendingStore holds the single outstanding
// external signer request with claim-once semantics.
//
// All storage failures wrap domain.ErrStorageAccess so the guard/store
// boundary can catch them and fall back to "assume empty".
package store
