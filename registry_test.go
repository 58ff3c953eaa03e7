package main

import (
	"strings"
	"testing"
)

func TestRegistryReserveHandle(t *testing.T) {
	r := NewRegistry(memoryLedger{})

	if !r.ReserveHandle("kettlebell-set") {
		t.Fatal("first reservation should succeed")
	}
	if r.ReserveHandle("kettlebell-set") {
		t.Error("second reservation of same handle should fail")
	}
	if r.ReserveHandle("  Kettlebell-Set  ") {
		t.Error("reservation should be case-insensitive and trimmed")
	}
	if !r.HasHandle("KETTLEBELL-SET") {
		t.Error("HasHandle should match case-insensitively")
	}
}

func TestRegistryReserveTitle(t *testing.T) {
	r := NewRegistry(memoryLedger{})

	if !r.ReserveTitle("Adjustable Kettlebell Set") {
		t.Fatal("first reservation should succeed")
	}
	if r.ReserveTitle("adjustable kettlebell set") {
		t.Error("titles compare case-insensitively")
	}
	if r.ReserveTitle(" Adjustable Kettlebell Set ") {
		t.Error("titles compare whitespace-trimmed")
	}
	if r.ReserveHandle("adjustable kettlebell set") != true {
		t.Error("handle and title sets are independent")
	}
}

func TestRegistryRejectsEmpty(t *testing.T) {
	r := NewRegistry(memoryLedger{})

	if r.ReserveHandle("") {
		t.Error("empty handle should not be reservable")
	}
	if r.ReserveTitle("   ") {
		t.Error("whitespace-only title should not be reservable")
	}
}

func TestRegistrySeed(t *testing.T) {
	r := NewRegistry(memoryLedger{})
	r.Seed([]Product{
		{Handle: "yoga-mat", Title: "Yoga Mat"},
		{Handle: "jump-rope", Title: "Jump Rope"},
		{Handle: "", Title: ""}, // ignored
	})

	for _, handle := range []string{"yoga-mat", "jump-rope"} {
		if !r.HasHandle(handle) {
			t.Errorf("seeded handle %q missing", handle)
		}
		if r.ReserveHandle(handle) {
			t.Errorf("seeded handle %q should not be reservable", handle)
		}
	}
	if !r.HasTitle("yoga mat") {
		t.Error("seeded title should match case-insensitively")
	}
}

func TestRegistryLedgerWriteThrough(t *testing.T) {
	dir := t.TempDir()
	ledger := &fileLedger{
		handlesPath: dir + "/handles.txt",
		titlesPath:  dir + "/titles.txt",
	}

	r := NewRegistry(ledger)
	if !r.ReserveHandle("massage-gun") {
		t.Fatal("reservation failed")
	}
	if !r.ReserveTitle("Deep Tissue Massage Gun") {
		t.Fatal("reservation failed")
	}

	handles, titles, err := ledger.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(handles) != 1 || handles[0] != "massage-gun" {
		t.Errorf("handles ledger = %v, want [massage-gun]", handles)
	}
	if len(titles) != 1 || titles[0] != "Deep Tissue Massage Gun" {
		t.Errorf("titles ledger = %v, want the reserved title", titles)
	}
}

func TestRegistrySeedFromLedger(t *testing.T) {
	dir := t.TempDir()
	ledger := &fileLedger{
		handlesPath: dir + "/handles.txt",
		titlesPath:  dir + "/titles.txt",
	}
	// Entries minted by an earlier run.
	if err := ledger.RecordHandle("pull-up-bar"); err != nil {
		t.Fatal(err)
	}
	if err := ledger.RecordTitle("Doorway Pull Up Bar"); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry(ledger)
	if err := r.SeedFromLedger(); err != nil {
		t.Fatalf("SeedFromLedger: %v", err)
	}

	if r.ReserveHandle("pull-up-bar") {
		t.Error("handle from ledger should already be taken")
	}
	if r.ReserveTitle("doorway pull up bar") {
		t.Error("title from ledger should already be taken")
	}
}

// Global uniqueness invariant: nothing accepted twice under case-insensitive
// comparison, no matter the mix of seeding and reservation.
func TestRegistryGlobalUniqueness(t *testing.T) {
	r := NewRegistry(memoryLedger{})
	r.Seed([]Product{{Handle: "ski-goggles", Title: "Ski Goggles"}})

	accepted := make(map[string]bool)
	candidates := []string{"ski-goggles", "Ski-Goggles", "neck-warmer", "NECK-WARMER", "neck-warmer "}
	for _, c := range candidates {
		if r.ReserveHandle(c) {
			key := strings.ToLower(strings.TrimSpace(c))
			if accepted[key] {
				t.Errorf("handle %q accepted twice", c)
			}
			accepted[key] = true
		}
	}
	if !accepted["neck-warmer"] {
		t.Error("fresh handle should have been accepted once")
	}
	if accepted["ski-goggles"] {
		t.Error("seeded handle should never be accepted")
	}
}
