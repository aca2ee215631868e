package report

import (
	"fmt"
)

// Policy controls when recording a message aborts the scan.
type Policy struct {
	FailWarnings bool // promote any warning to an immediate abort
	FailErrors   bool // promote any error to an immediate abort
}

// AbortError is returned once a message was recorded under a fail-fast policy.
// The message is already part of the report when the error is returned.
type AbortError struct {
	Kind    Kind
	Path    string
	Message string
}

func (e *AbortError) Error() string {
	label := "Fail on Warnings"
	if e.Kind == KindError {
		label = "Fail on Errors"
	}
	return fmt.Sprintf("%s: %s: %s", label, e.Path, e.Message)
}

// Recorder appends messages to a report and applies the fail-fast policy.
type Recorder struct {
	report *Report
	policy Policy
}

// NewRecorder creates a recorder writing into r.
func NewRecorder(r *Report, policy Policy) *Recorder {
	return &Recorder{report: r, policy: policy}
}

// Report returns the underlying report.
func (rec *Recorder) Report() *Report {
	return rec.report
}

// Policy returns the fail-fast policy of the recorder.
func (rec *Recorder) Policy() Policy {
	return rec.policy
}

// Warn records a warning. It returns an *AbortError when FailWarnings is set.
func (rec *Recorder) Warn(path, message string) error {
	rec.report.AddWarning(path, message)
	if rec.policy.FailWarnings {
		return &AbortError{Kind: KindWarning, Path: rec.report.DisplayPath(path), Message: message}
	}
	return nil
}

// Error records an error. It returns an *AbortError when FailErrors is set.
func (rec *Recorder) Error(path, message string) error {
	rec.report.AddError(path, message)
	if rec.policy.FailErrors {
		return &AbortError{Kind: KindError, Path: rec.report.DisplayPath(path), Message: message}
	}
	return nil
}

// ValidSchema records a compiled schema.
func (rec *Recorder) ValidSchema(path, message string) {
	rec.report.AddValidSchema(path, message)
}

// ValidExample records an example that passed validation.
func (rec *Recorder) ValidExample(path, message string) {
	rec.report.AddValidExample(path, message)
}

// SupportedExample records an example accepted by the context broker.
func (rec *Recorder) SupportedExample(path, message string) {
	rec.report.AddSupportedExample(path, message)
}
