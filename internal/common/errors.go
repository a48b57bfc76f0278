// Package common defines shared constants and sentinel errors used across
// MintVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Workflow step errors. Wrapped around the upstream failure so the
	// original message stays visible to the user.
	ErrValidation = errors.New("validation error")
	ErrPublish    = errors.New("publish error")
	ErrMint       = errors.New("mint error")
	ErrTransfer   = errors.New("transfer error")

	// Local store errors.
	ErrStorageRead = errors.New("storage read error")
	ErrNotFound    = errors.New("not found")

	// Identity errors.
	ErrUnauthorized          = errors.New("unauthorized")
	ErrUnavailable           = errors.New("service unavailable")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)
