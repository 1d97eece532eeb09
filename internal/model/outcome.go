package model

import "fmt"

// ErrorKind classifies a patch operation failure.
type ErrorKind int

const (
	// ErrNone is the zero value; no classification.
	ErrNone ErrorKind = iota
	// ErrArtifactNotFound means the resolver could not locate or read the
	// target. Non-retryable; the caller must supply an explicit path.
	ErrArtifactNotFound
	// ErrUnknownGate means the caller referenced a gate absent from the
	// patchable registry. A usage error.
	ErrUnknownGate
	// ErrSignatureNotFound means no registered signature matched, most
	// often because the artifact version's minified shape has drifted.
	ErrSignatureNotFound
	// ErrReplacementTooLong means the minimal byte-mode replacement exceeds
	// the original match's byte length. Fatal; code is never truncated.
	ErrReplacementTooLong
	// ErrBackupFailed means the pre-mutation snapshot could not be written.
	// The operation aborts before any mutation.
	ErrBackupFailed
	// ErrWriteFailed means the final write failed after a backup existed.
	ErrWriteFailed
)

// String returns the stable name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrArtifactNotFound:
		return "artifact not found"
	case ErrUnknownGate:
		return "unknown gate"
	case ErrSignatureNotFound:
		return "signature not found"
	case ErrReplacementTooLong:
		return "replacement too long"
	case ErrBackupFailed:
		return "backup failed"
	case ErrWriteFailed:
		return "write failed"
	default:
		return "none"
	}
}

// PatchError is a classified failure returned by mutating operations.
// Failures are always returned as values, never raised past the public
// operation boundary.
type PatchError struct {
	Kind ErrorKind
	Err  error
}

// NewPatchError wraps err with a classification.
func NewPatchError(kind ErrorKind, err error) *PatchError {
	return &PatchError{Kind: kind, Err: err}
}

// Patchf builds a classified error from a format string.
func Patchf(kind ErrorKind, format string, args ...any) *PatchError {
	return &PatchError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from an error, or ErrNone.
func KindOf(err error) ErrorKind {
	if pe, ok := err.(*PatchError); ok {
		return pe.Kind
	}

	return ErrNone
}

// PatchOutcome is the uniform result of every mutating operation.
type PatchOutcome struct {
	Success    bool
	BackupPath Path
	// Changed lists the gates whose status changed, with their new state.
	Changed []GateStatus
	Err     *PatchError
}

// Failure builds a failed outcome from a classified error.
func Failure(err *PatchError) PatchOutcome {
	return PatchOutcome{Err: err}
}

// NoOpSuccess builds a successful outcome that performed no write.
func NoOpSuccess() PatchOutcome {
	return PatchOutcome{Success: true}
}
