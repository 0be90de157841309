// Package guard decides, before any credential is read, whether persisted
// credentials must be purged because the application was fully closed.
//
// The durable logout-on-close flag selects the policy; a marker in the
// session tier distinguishes a reload from a genuine full close. Storage
// failures are logged and the purge is skipped: the guard fails open.
package guard
