// Package auth owns the login flows: establishing a credential from a raw
// secret key, the host extension, or a bunker descriptor, reconstructing a
// signer from a persisted record, and logging out.
//
// Construction-time failures propagate as a failed login attempt; no partial
// credential is ever persisted.
package auth
