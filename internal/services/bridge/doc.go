// Package bridge hands signing requests to an external application and
// resumes processing when control returns through the callback entry point.
//
// The round trip is a cross-process suspension: the pending request is
// persisted in the durable tier before control transfers, and claimed
// exactly once when the callback arrives, so the flow survives the host
// being suspended or restarted in between. The entry point assumes at most
// one outstanding request; no correlation id travels with the external
// round trip itself.
package bridge
