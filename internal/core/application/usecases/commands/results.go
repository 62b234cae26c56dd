package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
)

// ResultCode classifies the business outcome of a command. The set is closed:
// clients switch on codes, so handlers never invent new ones ad hoc.
type ResultCode string

const (
	// CodeOK means the command succeeded.
	CodeOK ResultCode = "OK"

	// CodeNotFound means the referenced object does not exist, or the actor
	// is not a candidate of the current matching round.
	CodeNotFound ResultCode = "NOT_FOUND"

	// CodeUnauthorized means the actor may not perform the action, such as a
	// courier progressing a delivery assigned to someone else.
	CodeUnauthorized ResultCode = "UNAUTHORIZED"

	// CodeInvalidTransition means the lifecycle table forbids the move.
	CodeInvalidTransition ResultCode = "INVALID_TRANSITION"

	// CodeAlreadyAssigned means another courier won the acceptance race.
	CodeAlreadyAssigned ResultCode = "ALREADY_ASSIGNED"

	// CodeAlreadyResponded means the candidate already replied this round.
	CodeAlreadyResponded ResultCode = "ALREADY_RESPONDED"

	// CodeCourierBusy means the courier is occupied with another delivery.
	CodeCourierBusy ResultCode = "COURIER_BUSY"

	// CodeUnassignable means matching exhausted its rounds.
	CodeUnassignable ResultCode = "UNASSIGNABLE"

	// CodeNoOTP means no confirmation code exists for the delivery.
	CodeNoOTP ResultCode = "NO_OTP"

	// CodeValidation means the request payload failed validation.
	CodeValidation ResultCode = "VALIDATION"
)

// Result is the business outcome of a command. Expected domain failures such
// as a lost acceptance race or a forbidden transition are reported here, not
// as Go errors; errors are reserved for infrastructure faults.
type Result struct {
	Success bool
	Code    ResultCode
	Message string
}

// OKResult builds a successful result.
func OKResult(message string) Result {
	return Result{Success: true, Code: CodeOK, Message: message}
}

// FailedResult builds a failed result with a business reason.
func FailedResult(code ResultCode, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}

// resultFromDomainError maps known domain errors onto business results.
// Returns false for errors that should propagate as infrastructure faults.
func resultFromDomainError(err error) (Result, bool) {
	var transitionErr *delivery.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		return FailedResult(CodeInvalidTransition, transitionErr.Error()), true
	case errors.Is(err, delivery.ErrActorIsNotAssignedCourier):
		return FailedResult(CodeUnauthorized, err.Error()), true
	case errors.Is(err, delivery.ErrCourierAlreadyAssigned):
		return FailedResult(CodeAlreadyAssigned, err.Error()), true
	case errors.Is(err, delivery.ErrCandidateAlreadyResponded):
		return FailedResult(CodeAlreadyResponded, err.Error()), true
	case errors.Is(err, delivery.ErrMatchingAttemptsExhausted):
		return FailedResult(CodeUnassignable, err.Error()), true
	}
	return Result{}, false
}
