// Package locate finds YNAB4 budgets on disk and the data file inside them.
package locate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Budget is a YNAB4 budget package found on disk.
type Budget struct {
	Name string
	Path string
}

var (
	// "My Budget~51938D82.ynab4"
	suffixedName = regexp.MustCompile(`([^/~]*)~.*\.ynab4$`)
	// "My Budget.ynab4"
	plainName = regexp.MustCompile(`([^/]*)\.ynab4$`)
)

// BudgetName returns the display name of a .ynab4 package path, dropping
// the "~XXXXXXXX" suffix YNAB4 appends.
func BudgetName(path string) (string, bool) {
	p := strings.ReplaceAll(path, `\`, "/")
	p = p[strings.LastIndex(p, "/")+1:]
	if m := suffixedName.FindStringSubmatch(p); m != nil {
		return m[1], true
	}
	if m := plainName.FindStringSubmatch(p); m != nil {
		return m[1], true
	}
	return "", false
}

// SearchDirs returns the directories YNAB4 saves budgets to by default.
func SearchDirs(home string) []string {
	return []string{
		filepath.Join(home, "Documents", "YNAB"),
		filepath.Join(home, "Dropbox", "YNAB"),
	}
}

// FindBudgetsInDir lists the budgets directly inside dir. A missing dir
// yields no budgets.
func FindBudgetsInDir(dir string) ([]Budget, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var out []Budget
	for _, e := range entries {
		name, ok := BudgetName(e.Name())
		if !ok {
			continue
		}
		out = append(out, Budget{Name: name, Path: filepath.Join(dir, e.Name())})
	}
	return out, nil
}

// FindBudgets searches every directory in SearchDirs(home).
func FindBudgets(home string) ([]Budget, error) {
	var out []Budget
	for _, dir := range SearchDirs(home) {
		found, err := FindBudgetsInDir(dir)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

type budgetMeta struct {
	RelativeDataFolderName string `json:"relativeDataFolderName"`
}

// DataFile returns the Budget.yfull to import for path. A file path is
// returned as is. A .ynab4 package must hold exactly one device copy of
// the budget; otherwise the caller has to name the file.
func DataFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("opening budget: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	raw, err := os.ReadFile(filepath.Join(path, "Budget.ymeta"))
	if err != nil {
		return "", fmt.Errorf("reading budget metadata: %w", err)
	}
	var meta budgetMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", fmt.Errorf("parsing budget metadata: %w", err)
	}
	if meta.RelativeDataFolderName == "" {
		return "", errors.New("budget metadata has no data folder")
	}

	dataDir := filepath.Join(path, meta.RelativeDataFolderName)
	files, err := filepath.Glob(filepath.Join(dataDir, "*", "Budget.yfull"))
	if err != nil {
		return "", fmt.Errorf("listing budget files: %w", err)
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no Budget.yfull in %s", dataDir)
	case 1:
		return files[0], nil
	}
	sort.Strings(files)
	return "", fmt.Errorf("%d device copies in %s, pass one of them directly: %s",
		len(files), dataDir, strings.Join(files, ", "))
}
