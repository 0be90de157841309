package store

// Storage keys owned by this module. Durable unless noted.
const (
	// KeyLoginRecords holds the serialised login-record state.
	KeyLoginRecords = "auth.login-records"
	// KeyLogoutOnClose holds the purge-on-close policy flag.
	KeyLogoutOnClose = "auth.logout-on-close"
	// KeyPendingRequest holds the outstanding external signer request.
	KeyPendingRequest = "auth.pending-request"
	// KeyWalletConnections holds wallet-connection records, opaque here but
	// purged together with the credentials.
	KeyWalletConnections = "wallet.connections"
	// KeySessionMarker lives in the session tier and is absent only after a
	// genuine full close.
	KeySessionMarker = "session.active"
)
