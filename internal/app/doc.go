// Package app wires application dependencies for the CLI.
//
// It builds the storage tiers, runs the session guard before anything reads
// credentials, and constructs the services from Config, exposing them via
// the Wire struct for commands to use.
package app
