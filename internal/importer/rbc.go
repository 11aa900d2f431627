package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/budgetport/budgetport/internal/model"
	"github.com/budgetport/budgetport/internal/money"
	"github.com/budgetport/budgetport/internal/period"
)

const (
	colDate        = "date"
	colAmount      = "amount"
	colOriginal    = "original description"
	colDescription = "description"
)

// RBCParser parses RBC exports: an account description line, a blank line,
// then a headered table with Date (DD/MM/YYYY), Amount, Original
// Description and Description columns.
type RBCParser struct{}

// Format returns the parser name.
func (p *RBCParser) Format() string { return "rbc" }

// Parse reads an RBC export.
func (p *RBCParser) Parse(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	meta, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading account line: %w", err)
	}
	meta = strings.TrimRight(meta, "\r\n")

	res, err := parseTable(br, 1)
	if err != nil {
		return nil, err
	}
	if fields := strings.SplitN(meta, ",", 2); len(fields) > 0 {
		res.Meta = strings.Trim(fields[0], `" `)
	}
	return res, nil
}

// GenericParser parses a plain headered CSV with the same columns as RBC.
type GenericParser struct{}

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a headered CSV.
func (p *GenericParser) Parse(r io.Reader) (*Result, error) {
	return parseTable(r, 0)
}

// parseTable reads a headered table. lineOffset is the number of physical
// lines consumed before r, used to report file line numbers.
func parseTable(r io.Reader, lineOffset int) (*Result, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colDate, colAmount, colOriginal} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	res := &Result{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading rows: %w", err)
		}
		line, _ := cr.FieldPos(0)
		line += lineOffset

		txn, merr := parseRow(rec, cols, line)
		if merr != nil {
			res.Skipped = append(res.Skipped, merr)
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRow(rec []string, cols map[string]int, line int) (model.BankTransaction, *model.MalformedInputError) {
	record := fmt.Sprintf("row %d", line)

	rawDate := field(rec, cols, colDate)
	date, err := period.Parse(rawDate)
	if err != nil {
		return model.BankTransaction{}, &model.MalformedInputError{Record: record, Field: "date", Value: rawDate, Err: err}
	}

	rawAmount := field(rec, cols, colAmount)
	amount, err := money.ParseDecimal(rawAmount)
	if err != nil {
		return model.BankTransaction{}, &model.MalformedInputError{Record: record, Field: "amount", Value: rawAmount, Err: err}
	}

	return model.BankTransaction{
		Row:         line,
		Date:        date,
		Amount:      amount,
		Payee:       field(rec, cols, colOriginal),
		Description: field(rec, cols, colDescription),
	}, nil
}
