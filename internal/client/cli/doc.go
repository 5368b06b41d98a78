// Package cli provides the interactive MemHub terminal client.
//
// It wires configuration, the backend clients, and the state synchronizers
// into an interactive REPL. Typical flow: sign in, pick a folder, then work
// with the notes in it. The presentation stays thin: every command maps to
// an operation on the state package and finishes by printing whatever the
// message channel collected.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
