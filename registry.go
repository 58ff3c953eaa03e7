package main

import (
	"log"
	"strings"
	"sync"
)

// Registry is the uniqueness oracle for handles and titles. It is seeded once
// per run from a full catalog scan (plus the ledger, when one is configured)
// and grows monotonically as the minter reserves new identifiers. Comparison
// is case-insensitive and whitespace-trimmed.
//
// The pipeline is single-threaded, but reserve-vs-contains must stay atomic
// if that ever changes, so both sets live behind one mutex.
type Registry struct {
	mu      sync.Mutex
	handles map[string]struct{}
	titles  map[string]struct{}
	ledger  Ledger
}

// NewRegistry creates an empty registry backed by the given ledger. Reserved
// identifiers are written through to the ledger so later runs see them even
// when a remote scan would not.
func NewRegistry(ledger Ledger) *Registry {
	return &Registry{
		handles: make(map[string]struct{}),
		titles:  make(map[string]struct{}),
		ledger:  ledger,
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Seed admits every handle and title from the given products without touching
// the ledger (they already exist remotely).
func (r *Registry) Seed(products []Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		if key := normalizeKey(p.Handle); key != "" {
			r.handles[key] = struct{}{}
		}
		if key := normalizeKey(p.Title); key != "" {
			r.titles[key] = struct{}{}
		}
	}
}

// SeedFromLedger unions previously minted identifiers into the registry.
// Must run before any minting begins.
func (r *Registry) SeedFromLedger() error {
	handles, titles, err := r.ledger.Load()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range handles {
		if key := normalizeKey(h); key != "" {
			r.handles[key] = struct{}{}
		}
	}
	for _, t := range titles {
		if key := normalizeKey(t); key != "" {
			r.titles[key] = struct{}{}
		}
	}
	return nil
}

// ReserveHandle admits candidate into the handle set. Returns false when the
// handle is already taken. On success the handle is also recorded in the
// ledger; a ledger write failure does not revoke the in-memory reservation.
func (r *Registry) ReserveHandle(candidate string) bool {
	key := normalizeKey(candidate)
	if key == "" {
		return false
	}

	r.mu.Lock()
	if _, taken := r.handles[key]; taken {
		r.mu.Unlock()
		return false
	}
	r.handles[key] = struct{}{}
	r.mu.Unlock()

	if err := r.ledger.RecordHandle(candidate); err != nil {
		log.Printf("⚠ Failed to record handle %q in ledger: %v", candidate, err)
	}
	return true
}

// ReserveTitle admits candidate into the title set. Same contract as
// ReserveHandle.
func (r *Registry) ReserveTitle(candidate string) bool {
	key := normalizeKey(candidate)
	if key == "" {
		return false
	}

	r.mu.Lock()
	if _, taken := r.titles[key]; taken {
		r.mu.Unlock()
		return false
	}
	r.titles[key] = struct{}{}
	r.mu.Unlock()

	if err := r.ledger.RecordTitle(candidate); err != nil {
		log.Printf("⚠ Failed to record title %q in ledger: %v", candidate, err)
	}
	return true
}

// HasHandle reports whether the handle is already reserved.
func (r *Registry) HasHandle(candidate string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handles[normalizeKey(candidate)]
	return ok
}

// HasTitle reports whether the title is already reserved.
func (r *Registry) HasTitle(candidate string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.titles[normalizeKey(candidate)]
	return ok
}
