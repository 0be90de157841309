// Package signer implements the credential backends behind domain.Signer.
//
// Four variants exist: Local (a raw secret key held here), Extension (a
// capability provided by the host environment), Remote (a delegated signer
// reached over a relay), and External (an external application reached
// through the callback bridge). Each is a plain struct implementing the same
// operation interface; there is no hierarchy.
package signer
