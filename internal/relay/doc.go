// Package relay provides implementations of the domain.RelayClient
// interface used by signet.
//
// A relay is a store-and-forward endpoint exchanging signed protocol events
// between parties. WS is the production client, speaking the standard
// ["EVENT", ...] / ["REQ", id, filter] framing over a websocket. Memory is an
// in-process hub with the same semantics, backing tests and local use.
package relay
