package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the URL shortener application

// ErrStoreUnavailable is returned when a request to the key-value store fails outright
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrTransactionFailed is returned when the atomic create of a link did not commit
var ErrTransactionFailed = errors.New("transaction failed")

// ErrNotFound is returned when no well-formed record exists for a hash
var ErrNotFound = errors.New("short link not found")

// ErrInvalidURL is returned when the provided URL is invalid
var ErrInvalidURL = errors.New("invalid URL format")

// ErrCounterExhausted is returned when the counter can no longer be combined with jitter without overflow
var ErrCounterExhausted = errors.New("identifier counter exhausted")

// ErrInvalidHash is returned when a hash cannot be decoded
var ErrInvalidHash = errors.New("invalid short link hash")

// ErrClickRecordingFailed is returned when click recording fails
type ErrClickRecordingFailed struct {
	Hash   string
	Reason string
}

func (e ErrClickRecordingFailed) Error() string {
	return fmt.Sprintf("failed to record click for %s: %s", e.Hash, e.Reason)
}

// ErrURLCheckFailed is returned when URL health check fails
type ErrURLCheckFailed struct {
	URL    string
	Reason string
}

func (e ErrURLCheckFailed) Error() string {
	return fmt.Sprintf("failed to check URL %s: %s", e.URL, e.Reason)
}

// ErrConfigLoad is returned when configuration loading fails
type ErrConfigLoad struct {
	Path   string
	Reason string
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("failed to load config from %s: %s", e.Path, e.Reason)
}

// StoreUnavailable tags err as a store failure for operation op.
func StoreUnavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// TransactionFailed tags err as a failed atomic write for operation op.
func TransactionFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransactionFailed, op, err)
}
