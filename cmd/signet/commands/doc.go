// Package commands defines the signet CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - login       Log in with a secret key (hex or nsec)
//   - connect     Negotiate a remote delegated-signer session
//   - bunker      Log in with a stored bunker descriptor
//   - callback    Resume an external signer round trip
//   - status      Show stored credentials and the active session
//   - logout      Remove the active credential
//
// # Implementation
//
// The root command loads Config and builds the dependency graph (storage
// tiers, guard, services) before any subcommand runs; the session guard has
// always completed before a credential is read.
package commands
