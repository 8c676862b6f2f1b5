package domain

import "errors"

// Sentinel errors used across layers.
var (
	// ErrTransport covers unreachable hosts and non-OK HTTP statuses.
	ErrTransport = errors.New("transport failure")
	// ErrDecode means the response body was not the expected JSON.
	ErrDecode = errors.New("malformed response")
	// ErrRejected means the backend answered but flagged the request as failed.
	ErrRejected = errors.New("request not successful")

	ErrNotLive          = errors.New("liveness check not completed")
	ErrAwaitingResponse = errors.New("still awaiting a response")
	ErrEmptyMessage     = errors.New("empty message")
)
