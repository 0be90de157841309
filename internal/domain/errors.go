package domain

import "errors"

// Sentinel errors for the login and session lifecycle. Services wrap these
// with %w and context; callers match with errors.Is.
var (
	// ErrInvalidSecret means a secret-key string did not decode to a valid key.
	ErrInvalidSecret = errors.New("invalid secret key")

	// ErrNoHostSigner means the host environment provides no signer capability.
	ErrNoHostSigner = errors.New("no host signer available")

	// ErrHandshake covers any failure while negotiating a remote-signer session.
	ErrHandshake = errors.New("handshake failed")

	// ErrOperationTimeout means a remote signer did not answer within the
	// configured deadline.
	ErrOperationTimeout = errors.New("signer operation timed out")

	// ErrMissingResponse means the callback entry point was invoked without a
	// response parameter.
	ErrMissingResponse = errors.New("missing response parameter")

	// ErrNoPendingRequest means no outstanding request matches the callback.
	// It covers expiry, replay and direct navigation alike.
	ErrNoPendingRequest = errors.New("no pending signer request")

	// ErrUnknownRequestType means a pending request has a kind this build does
	// not recognise.
	ErrUnknownRequestType = errors.New("unknown pending request type")

	// ErrCallbackProcessing wraps handler failures while consuming a callback.
	ErrCallbackProcessing = errors.New("callback processing failed")

	// ErrStorageAccess marks failures of the underlying storage tiers. It is
	// caught at the guard/store boundary and treated as "assume empty".
	ErrStorageAccess = errors.New("storage access failed")
)
