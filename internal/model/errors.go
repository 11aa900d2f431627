package model

import "fmt"

// MalformedInputError describes a source record that could not be parsed.
// The record is skipped; siblings are unaffected.
type MalformedInputError struct {
	Record string // e.g. "Transaction/123" or "chequing.csv row 7"
	Field  string
	Value  string
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s %q in %s: %v", e.Field, e.Value, e.Record, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }
