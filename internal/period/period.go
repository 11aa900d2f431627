// Package period parses foreign date strings into civil dates and budget months.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Parse reads a day-first date. Accepted forms are DD/MM/YYYY, MM/YYYY and
// YYYY, plus the ISO forms YYYY-MM-DD and YYYY-MM. A missing day is the 1st
// and a missing month is January. No time zone is applied.
func Parse(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}

	var day, month, year string
	switch {
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		switch len(parts) {
		case 3:
			day, month, year = parts[0], parts[1], parts[2]
		case 2:
			month, year = parts[0], parts[1]
		default:
			return civil.Date{}, fmt.Errorf("invalid date %q", s)
		}
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		switch len(parts) {
		case 3:
			year, month, day = parts[0], parts[1], parts[2]
		case 2:
			year, month = parts[0], parts[1]
		default:
			return civil.Date{}, fmt.Errorf("invalid date %q", s)
		}
	default:
		year = s
	}

	y, err := component(year, "year", 1)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	m, err := component(month, "month", 1)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	d, err := component(day, "day", 1)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}

	date := civil.Date{Year: y, Month: time.Month(m), Day: d}
	if !date.IsValid() {
		return civil.Date{}, fmt.Errorf("invalid date %q: out of range", s)
	}
	return date, nil
}

func component(s, name string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return n, nil
}

// Month returns the budget month of d as "YYYY-MM".
func Month(d civil.Date) string {
	return fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
}

// MonthOf parses s and returns its budget month.
func MonthOf(s string) (string, error) {
	d, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Month(d), nil
}
