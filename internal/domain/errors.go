package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("domain: not found")
	ErrConflict     = errors.New("domain: conflict")
	ErrUnauthorized = errors.New("domain: unauthorized")
	ErrForbidden    = errors.New("domain: forbidden")

	// ErrVersionConflict is returned by a session store Put when the stored
	// version no longer matches the expected version.
	ErrVersionConflict = errors.New("domain: session version conflict")

	// ErrSessionBusy is returned when a second turn arrives for a session
	// whose previous turn is still in flight.
	ErrSessionBusy = errors.New("domain: session busy")

	// ErrSessionExpired is returned when a session's expiry has passed.
	ErrSessionExpired = errors.New("domain: session expired")

	// ErrGenerationUnavailable is returned when the generation provider
	// fails or times out.
	ErrGenerationUnavailable = errors.New("domain: generation provider unavailable")

	// ErrAuditAppend is returned when the audit sink rejects a record.
	// Fatal to the turn: a side-effecting action must never go unlogged.
	ErrAuditAppend = errors.New("domain: audit append failed")

	// ErrUnknownTool is returned by the tool bridge for an unregistered tool name.
	ErrUnknownTool = errors.New("domain: unknown tool")
)
