package connections

// FailureKind classifies a failed operation. Validation and conflict failures
// are caller mistakes; store failures are I/O errors against the user
// directory and are never retried here.
type FailureKind string

const (
	KindValidation FailureKind = "validation"
	KindConflict   FailureKind = "conflict"
	KindNotFound   FailureKind = "not_found"
	KindStore      FailureKind = "store"
)

// Result is the structured outcome of a manager operation. Nothing in this
// package panics or returns bare errors across the boundary; every failure is
// a Result with a reason.
type Result struct {
	OK      bool        `json:"success"`
	Kind    FailureKind `json:"-"`
	Message string      `json:"message,omitempty"`
}

func okResult() Result {
	return Result{OK: true}
}

func failResult(kind FailureKind, message string) Result {
	return Result{OK: false, Kind: kind, Message: message}
}
