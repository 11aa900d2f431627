package migrate

import (
	"sort"
	"sync"
)

// Import phases, in execution order.
const (
	PhaseAccounts     = "accounts"
	PhaseCategories   = "categories"
	PhasePayees       = "payees"
	PhaseTransactions = "transactions"
	PhaseBudgets      = "budgets"
	PhaseBankFiles    = "bank-files"
)

// Issue is a per-entity failure that was reported and skipped.
type Issue struct {
	Phase string
	Ref   string
	Err   error
}

// Report collects what an import created and what it skipped.
// Safe for concurrent use.
type Report struct {
	mu      sync.Mutex
	created map[string]int
	issues  []Issue
}

// NewReport creates an empty Report.
func NewReport() *Report {
	return &Report{created: make(map[string]int)}
}

// AddCreated records n entities written in phase.
func (r *Report) AddCreated(phase string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[phase] += n
}

// AddIssue records a skipped entity.
func (r *Report) AddIssue(phase, ref string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues = append(r.issues, Issue{Phase: phase, Ref: ref, Err: err})
}

// Created returns the number of entities written in phase.
func (r *Report) Created(phase string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created[phase]
}

// Phases returns the phases that wrote anything, sorted.
func (r *Report) Phases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.created))
	for p := range r.created {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Issues returns the recorded issues ordered by phase then reference.
func (r *Report) Issues() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Issue(nil), r.issues...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		return out[i].Ref < out[j].Ref
	})
	return out
}
