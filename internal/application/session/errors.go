package session

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown operator ID or a key
	// mismatch. The two are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrLockedOut is returned after three failed login attempts for the
	// same operator ID.
	ErrLockedOut = errors.New("account locked")

	// ErrNotAuthenticated is returned when a session token is unknown.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrCaseInFlight is returned when an operation would disturb a case
	// whose automated pipeline is still running.
	ErrCaseInFlight = errors.New("analysis already in flight")

	// ErrInvalidTransition is returned when an operation is not legal from
	// the current case state. The state is left untouched.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrEmptyJustification rejects an override confirmation without text.
	ErrEmptyJustification = errors.New("justification required")

	// ErrEmptyProjectName rejects a project submission without a name.
	ErrEmptyProjectName = errors.New("project name required")

	// ErrNoReport is returned when no analysis report exists yet.
	ErrNoReport = errors.New("no report available")

	// ErrUnknownScenario is returned for an unrecognized demo scenario key.
	ErrUnknownScenario = errors.New("unknown demo scenario")
)
