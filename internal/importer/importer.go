package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/names"
)

// Parser converts a bank spreadsheet into BankTransactions.
type Parser interface {
	Parse(r io.Reader) (*Result, error)
	Format() string
}

// Result is the outcome of parsing one spreadsheet. Rows that could not be
// parsed are reported in Skipped and left out of Transactions.
type Result struct {
	Meta         string // preamble line describing the account, if the format has one
	Transactions []model.BankTransaction
	Skipped      []*model.MalformedInputError
}

// AccountFile is a parsed spreadsheet together with the account it feeds.
type AccountFile struct {
	AccountName string
	Path        string
	*Result
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&RBCParser{})
	r.Register(&GenericParser{})
	return r
}

// AccountName derives an account name from a spreadsheet file name.
// "Visa Gold.csv" -> "Visa Gold"
func AccountName(path string) string {
	base := filepath.Base(path)
	return names.Clean(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Scan returns the paths of CSV files directly inside dir, sorted by name.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// LoadFile parses one spreadsheet.
func LoadFile(path string, p Parser) (AccountFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return AccountFile{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := p.Parse(f)
	if err != nil {
		return AccountFile{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	for _, s := range res.Skipped {
		s.Record = filepath.Base(path) + " " + s.Record
	}
	return AccountFile{AccountName: AccountName(path), Path: path, Result: res}, nil
}

// LoadDir parses every spreadsheet in dir.
func LoadDir(dir string, p Parser) ([]AccountFile, error) {
	paths, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	files := make([]AccountFile, 0, len(paths))
	for _, path := range paths {
		af, err := LoadFile(path, p)
		if err != nil {
			return nil, err
		}
		files = append(files, af)
	}
	return files, nil
}
