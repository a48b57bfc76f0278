// Package cli provides the interactive MintVault command-line client.
//
// It wires configuration, the local record store, the pinning publisher,
// the identity provider, and the chain client into an interactive REPL.
// Typical flow: sign in, connect a wallet, then mint, list, transfer, and
// remove tokens.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
