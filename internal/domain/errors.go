package domain

import (
	"errors"
	"fmt"
)

// Failure reasons. Every recoverable failure in the pipelines is classified
// as exactly one of these; none of them aborts a run.
var (
	// ErrAbsent: a requested template, key, page or cross-locale match was not found.
	ErrAbsent = errors.New("absent")
	// ErrMalformed: input could not be parsed (bad rows, undecodable documents).
	ErrMalformed = errors.New("malformed input")
	// ErrCollaborator: a network or external service call failed.
	ErrCollaborator = errors.New("collaborator failure")
	// ErrIntegrity: a collaborator answered, but its answer cannot be trusted
	// (e.g. a cleaning batch returned a different number of lines).
	ErrIntegrity = errors.New("integrity violation")
)

// Failure is a classified, recoverable failure. Reason is one of the
// sentinels above; Err is the optional underlying cause.
type Failure struct {
	Reason  error
	Subject string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Subject != "" && f.Err != nil:
		return fmt.Sprintf("%s: %s: %v", f.Subject, f.Reason, f.Err)
	case f.Subject != "":
		return fmt.Sprintf("%s: %s", f.Subject, f.Reason)
	case f.Err != nil:
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	default:
		return f.Reason.Error()
	}
}

// Unwrap exposes both the reason and the cause to errors.Is / errors.As.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Reason}
	}
	return []error{f.Reason, f.Err}
}

// Absent reports that subject was not found. err may be nil.
func Absent(subject string, err error) *Failure {
	return &Failure{Reason: ErrAbsent, Subject: subject, Err: err}
}

// Malformed reports that subject could not be parsed.
func Malformed(subject string, err error) *Failure {
	return &Failure{Reason: ErrMalformed, Subject: subject, Err: err}
}

// CollaboratorFailed reports a failed external call for subject.
func CollaboratorFailed(subject string, err error) *Failure {
	return &Failure{Reason: ErrCollaborator, Subject: subject, Err: err}
}

// IntegrityViolated reports an untrustworthy collaborator answer for subject.
func IntegrityViolated(subject string, err error) *Failure {
	return &Failure{Reason: ErrIntegrity, Subject: subject, Err: err}
}

// ReasonOf returns the failure reason carried by err, or nil when err is nil
// or unclassified.
func ReasonOf(err error) error {
	if err == nil {
		return nil
	}
	for _, reason := range []error{ErrAbsent, ErrMalformed, ErrCollaborator, ErrIntegrity} {
		if errors.Is(err, reason) {
			return reason
		}
	}
	return nil
}
