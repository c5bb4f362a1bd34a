package scheduler

import "errors"

// Engine errors. The scheduler package is transport-agnostic, so these
// are plain sentinels; the service layer maps them onto API errors.
var (
	ErrInvalidRange     = errors.New("scheduler: number of days must be positive")
	ErrInvalidDate      = errors.New("scheduler: start date is zero or malformed")
	ErrPositionNotFound = errors.New("scheduler: unknown position")
	ErrEmployeeNotFound = errors.New("scheduler: unknown employee")
	ErrLeaveNotApproved = errors.New("scheduler: leave request is not approved")
)
