package domain

import "errors"

// ============================================================================
// Error classes
// ============================================================================

// Every concrete error below wraps exactly one class, so callers can match
// either the class (errors.Is(err, ErrNotFound)) or the concrete value.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrFinality   = errors.New("finality violation")
)

type classError struct {
	class error
	msg   string
}

func (e *classError) Error() string { return e.msg }
func (e *classError) Unwrap() error { return e.class }

func newError(class error, msg string) error {
	return &classError{class: class, msg: msg}
}

// ============================================================================
// Not found errors
// ============================================================================

var (
	ErrProjectNotFound  = newError(ErrNotFound, "project not found")
	ErrArtifactNotFound = newError(ErrNotFound, "artifact not found")
	ErrVersionNotFound  = newError(ErrNotFound, "artifact version not found")
)

// ============================================================================
// Validation errors
// ============================================================================

var (
	ErrNameRequired         = newError(ErrValidation, "name is required")
	ErrNameTooLong          = newError(ErrValidation, "name must be at most 255 characters")
	ErrArtifactTypeTooLong  = newError(ErrValidation, "artifact_type must be at most 100 characters")
	ErrURLRequired          = newError(ErrValidation, "url is required")
	ErrInvalidURL           = newError(ErrValidation, "url must be an absolute http, https, ftp or ftps URL")
	ErrSubmittedByRequired  = newError(ErrValidation, "submitted_by is required")
	ErrSubmittedByTooLong   = newError(ErrValidation, "submitted_by must be at most 255 characters")
	ErrDecidedByRequired    = newError(ErrValidation, "decided_by is required")
	ErrDecidedByTooLong     = newError(ErrValidation, "decided_by must be at most 255 characters")
	ErrReasonRequired       = newError(ErrValidation, "reason is required when rejecting")
	ErrReasonTooLong        = newError(ErrValidation, "reason must be at most 100 characters")
	ErrInvalidStatus        = newError(ErrValidation, "status must be one of AWAITING_APPROVAL, APPROVED, REJECTED")
	ErrInvalidArtifactID    = newError(ErrValidation, "artifact id is required")
	ErrInvalidDecisionKind  = newError(ErrValidation, "decision must be APPROVE or REJECT")
	ErrInconsistentDecision = errors.New("stored version status does not match its decision")
)

// ============================================================================
// Finality errors
// ============================================================================

var (
	ErrAlreadyDecided = newError(ErrFinality, "a decision already exists for this version")
)
