package ot

import (
	"errors"
	"fmt"
)

// ErrorSeverity represents the severity level of a structural error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the table unusable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error in a single lookup or subtable.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// ErrMalformed is the error every StructuralError unwraps to.
// Use errors.Is(err, ot.ErrMalformed) to test for malformed input in general,
// and errors.As for details.
var ErrMalformed = errors.New("malformed GPOS table")

// NoSubtable is used for StructuralError.Subtable if an error is not located
// within a subtable.
const NoSubtable = -1

// NoLookup is used for StructuralError.Lookup if an error is not located
// within a lookup, e.g. for errors in the script list.
const NoLookup = -1

// StructuralError represents a violation of a structural precondition of the
// GPOS object model, e.g. parallel arrays of mismatching length.
type StructuralError struct {
	Lookup   int           // index of the offending lookup in the lookup list, or NoLookup
	Subtable int           // index of the offending subtable within the lookup, or NoSubtable
	Section  string        // section of the table, e.g. "PairPos/PairSets" or "ScriptList"
	Issue    string        // human-readable description of the issue
	Severity ErrorSeverity // severity level of the error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	switch {
	case e.Lookup == NoLookup:
		return fmt.Sprintf("[%s] GPOS/%s: %s", e.Severity, e.Section, e.Issue)
	case e.Subtable == NoSubtable:
		return fmt.Sprintf("[%s] GPOS/%s in lookup #%d: %s", e.Severity, e.Section, e.Lookup, e.Issue)
	}
	return fmt.Sprintf("[%s] GPOS/%s in lookup #%d, subtable #%d: %s",
		e.Severity, e.Section, e.Lookup, e.Subtable, e.Issue)
}

// Unwrap returns ErrMalformed.
func (e *StructuralError) Unwrap() error {
	return ErrMalformed
}

// Malformed creates a StructuralError of severity major for a lookup/subtable location.
func Malformed(lookup, subtable int, section string, format string, args ...any) *StructuralError {
	err := &StructuralError{
		Lookup:   lookup,
		Subtable: subtable,
		Section:  section,
		Issue:    fmt.Sprintf(format, args...),
		Severity: SeverityMajor,
	}
	tracer().Debugf("structural error: %s", err.Error())
	return err
}
