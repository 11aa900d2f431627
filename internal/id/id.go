package id

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DuplicateBindingError reports an attempt to rebind a foreign reference to a
// different target ID.
type DuplicateBindingError struct {
	Ref      string
	Existing string
	Target   string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("foreign reference %q already bound to %q, refusing %q", e.Ref, e.Existing, e.Target)
}

// Resolver maps foreign entity references to target IDs for one import run.
// Bindings are permanent once made. Safe for concurrent use.
type Resolver struct {
	mu       sync.RWMutex
	bindings map[string]string
}

// NewResolver creates an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{bindings: make(map[string]string)}
}

// Bind records that foreign ref maps to target. Binding the same pair twice is
// a no-op; binding ref to a different target returns *DuplicateBindingError.
func (r *Resolver) Bind(ref, target string) error {
	if ref == "" {
		return fmt.Errorf("binding %q: empty foreign reference", target)
	}
	if target == "" {
		return fmt.Errorf("binding %q: empty target id", ref)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bindings[ref]; ok {
		if existing == target {
			return nil
		}
		return &DuplicateBindingError{Ref: ref, Existing: existing, Target: target}
	}
	r.bindings[ref] = target
	return nil
}

// Resolve returns the target ID bound to ref. The empty reference is never bound.
func (r *Resolver) Resolve(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	target, ok := r.bindings[ref]
	return target, ok
}

// Len returns the number of bindings.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// NewTargetID issues a fresh target ID.
func NewTargetID() string {
	return uuid.NewString()
}
