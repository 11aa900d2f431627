// Package importlog keeps a CSV audit trail of entities an import skipped.
package importlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/budgetport/budgetport/internal/accounts"
	"github.com/budgetport/budgetport/internal/id"
	"github.com/budgetport/budgetport/internal/migrate"
	"github.com/budgetport/budgetport/internal/model"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	Budget    string
	Phase     string
	Ref       string
	Kind      string
	Message   string
}

// Header is the CSV header of the log file.
const Header = "timestamp,budget,phase,ref,kind,message"

// Error kinds written to the log.
const (
	KindUnresolvedReference = "unresolved-reference"
	KindUnknownAccount      = "unknown-account"
	KindDuplicateBinding    = "duplicate-binding"
	KindMalformedInput      = "malformed-input"
	KindTransferPayee       = "transfer-payee"
	KindOther               = "error"
)

const (
	numFields  = 6
	colTime    = 0
	colBudget  = 1
	colPhase   = 2
	colRef     = 3
	colKind    = 4
	colMessage = 5
)

// Kind classifies err by the error type it wraps.
func Kind(err error) string {
	var (
		unresolved *migrate.UnresolvedReferenceError
		unknown    *accounts.UnknownAccountError
		duplicate  *id.DuplicateBindingError
		malformed  *model.MalformedInputError
		transfer   *migrate.TransferPayeeError
	)
	switch {
	case errors.As(err, &unresolved):
		return KindUnresolvedReference
	case errors.As(err, &unknown):
		return KindUnknownAccount
	case errors.As(err, &duplicate):
		return KindDuplicateBinding
	case errors.As(err, &malformed):
		return KindMalformedInput
	case errors.As(err, &transfer):
		return KindTransferPayee
	default:
		return KindOther
	}
}

// FromReport converts the issues of an import into log entries.
func FromReport(budget string, r *migrate.Report, now time.Time) []Entry {
	issues := r.Issues()
	entries := make([]Entry, 0, len(issues))
	for _, is := range issues {
		entries = append(entries, Entry{
			Timestamp: now,
			Budget:    budget,
			Phase:     is.Phase,
			Ref:       is.Ref,
			Kind:      Kind(is.Err),
			Message:   is.Err.Error(),
		})
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colBudget] = e.Budget
	row[colPhase] = e.Phase
	row[colRef] = e.Ref
	row[colKind] = e.Kind
	row[colMessage] = e.Message
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	return Entry{
		Timestamp: ts,
		Budget:    record[colBudget],
		Phase:     record[colPhase],
		Ref:       record[colRef],
		Kind:      record[colKind],
		Message:   record[colMessage],
	}, nil
}

// Append writes entries to path, creating the file and header if needed.
func Append(path string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every entry in path, or nil if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()
	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
