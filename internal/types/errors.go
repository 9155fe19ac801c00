package types

import "errors"

// Error kinds shared by every component. Wrap with %w and test with errors.Is.
var (
	// ErrTransport is a network or HTTP failure against an external API.
	ErrTransport = errors.New("transport error")
	// ErrShape is an unexpected or missing field in a response.
	ErrShape = errors.New("unexpected response shape")
	// ErrAuth is a rejected credential, either ours or the caller's.
	ErrAuth = errors.New("authorization failed")
	// ErrNoFixtures means the provider listed no matches for the date.
	ErrNoFixtures = errors.New("no fixtures for date")
	// ErrNoCandidate means no outcome met the selection criteria.
	ErrNoCandidate = errors.New("no candidate met selection criteria")
)
