package main

import (
	"errors"
	"fmt"
	"testing"
)

// stubRegen scripts the titles returned by regeneration attempts.
type stubRegen struct {
	titles []string
	err    error
	calls  int
}

func (s *stubRegen) RegenerateTitle(previous string, kw KeywordSet) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if len(s.titles) == 0 {
		return previous, nil
	}
	title := s.titles[0]
	s.titles = s.titles[1:]
	return title, nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Kettlebell Set", "kettlebell-set"},
		{"special chars", "Yoga! Mat & Strap", "yoga-mat-strap"},
		{"whitespace runs", "jump   rope   trainer", "jump-rope-trainer"},
		{"word cap", "one two three four five six seven", "one-two-three-four-five"},
		{"keeps digits and hyphens", "18kg pro-grade bell", "18kg-pro-grade-bell"},
		{"empty", "", ""},
		{"only symbols", "& % $", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.expected {
				t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMintHandleSuffixing(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	registry.Seed([]Product{{Handle: "kettlebell-set", Title: "x"}})
	m := NewMinter(registry, &stubRegen{}, nil)

	if got := m.MintHandle("kettlebell", "set"); got != "kettlebell-set-1" {
		t.Errorf("first collision mint = %q, want kettlebell-set-1", got)
	}
	if got := m.MintHandle("kettlebell", "set"); got != "kettlebell-set-2" {
		t.Errorf("second collision mint = %q, want kettlebell-set-2", got)
	}
}

func TestMintHandleReservesResult(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	m := NewMinter(registry, &stubRegen{}, nil)

	handle := m.MintHandle("massage gun", "deep tissue")
	if handle != "massage-gun-deep-tissue" {
		t.Fatalf("handle = %q", handle)
	}
	if !registry.HasHandle(handle) {
		t.Error("minted handle must be reserved before being returned")
	}
}

func TestMintHandleDeterministic(t *testing.T) {
	mint := func() string {
		registry := NewRegistry(memoryLedger{})
		registry.Seed([]Product{{Handle: "yoga-mat-strap"}})
		m := NewMinter(registry, &stubRegen{}, nil)
		return m.MintHandle("yoga mat", "strap")
	}

	first := mint()
	second := mint()
	if first != second {
		t.Errorf("same inputs and registry state produced %q then %q", first, second)
	}
}

func TestMintHandleEmptyKeywords(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	m := NewMinter(registry, &stubRegen{}, nil)

	if got := m.MintHandle("", ""); got != "product" {
		t.Errorf("empty keywords should mint %q, got %q", "product", got)
	}
}

func TestMintTitleNoCollision(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	regen := &stubRegen{}
	m := NewMinter(registry, regen, nil)

	got := m.MintTitle("Adjustable Dumbbell Set", KeywordSet{Primary: "dumbbell"})
	if got != "Adjustable Dumbbell Set" {
		t.Errorf("title = %q, want unchanged candidate", got)
	}
	if regen.calls != 0 {
		t.Errorf("regeneration called %d times without a collision", regen.calls)
	}
	if !registry.HasTitle(got) {
		t.Error("minted title must be reserved")
	}
}

// On collision, every one of the 5 remediation attempts must be a
// regeneration call; the numeric suffix appears only after all 5 fail.
func TestMintTitleRegenerationBeforeSuffix(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	registry.Seed([]Product{{Title: "Adjustable Dumbbell Set"}})
	// Every regenerated title collides too.
	regen := &stubRegen{titles: []string{
		"Adjustable Dumbbell Set",
		"Adjustable Dumbbell Set",
		"Adjustable Dumbbell Set",
		"Adjustable Dumbbell Set",
		"Adjustable Dumbbell Set",
	}}
	m := NewMinter(registry, regen, nil)

	got := m.MintTitle("Adjustable Dumbbell Set", KeywordSet{Primary: "dumbbell"})
	if regen.calls != 5 {
		t.Errorf("regeneration called %d times, want exactly 5 before suffixing", regen.calls)
	}
	if got != "Adjustable Dumbbell Set (1)" {
		t.Errorf("title = %q, want numeric-suffix fallback", got)
	}
}

func TestMintTitleRegenerationSucceeds(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	registry.Seed([]Product{{Title: "Pro Jump Rope"}})
	regen := &stubRegen{titles: []string{"Speed Jump Rope for Training"}}
	m := NewMinter(registry, regen, nil)

	got := m.MintTitle("Pro Jump Rope", KeywordSet{Primary: "jump rope"})
	if got != "Speed Jump Rope for Training" {
		t.Errorf("title = %q, want the regenerated form", got)
	}
	if regen.calls != 1 {
		t.Errorf("regeneration called %d times, want 1", regen.calls)
	}
}

func TestMintTitleRegenerationErrorsFallThrough(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	registry.Seed([]Product{{Title: "Ski Goggles"}})
	regen := &stubRegen{err: errors.New("service down")}
	m := NewMinter(registry, regen, nil)

	got := m.MintTitle("Ski Goggles", KeywordSet{Primary: "ski goggles"})
	if regen.calls != 5 {
		t.Errorf("regeneration attempted %d times, want 5", regen.calls)
	}
	if got != "Ski Goggles (1)" {
		t.Errorf("title = %q, want numeric-suffix fallback", got)
	}
}

func TestMintTitleNumericSuffixIncrements(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	registry.Seed([]Product{{Title: "Neck Warmer"}})
	registry.ReserveTitle("Neck Warmer (1)")
	registry.ReserveTitle("Neck Warmer (2)")
	m := NewMinter(registry, &stubRegen{}, nil)

	got := m.MintTitle("Neck Warmer", KeywordSet{})
	if got != "Neck Warmer (3)" {
		t.Errorf("title = %q, want Neck Warmer (3)", got)
	}
}

func TestStripBrands(t *testing.T) {
	m := NewMinter(NewRegistry(memoryLedger{}), &stubRegen{}, []string{"AcmeFit", "GymCo"})

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no brand", "Resistance Band Set", "Resistance Band Set"},
		{"brand prefix", "AcmeFit Resistance Band Set", "Resistance Band Set"},
		{"case-insensitive", "acmefit Resistance Bands", "Resistance Bands"},
		{"multiple brands", "AcmeFit Bands by GymCo", "Bands by"},
		{"whitespace tidied", "Bands  AcmeFit  Set", "Bands Set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.stripBrands(tt.input); got != tt.expected {
				t.Errorf("stripBrands(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Property check across a batch: the minter never hands out the same handle
// twice, whatever the collision pressure.
func TestMintHandleBatchUnique(t *testing.T) {
	registry := NewRegistry(memoryLedger{})
	m := NewMinter(registry, &stubRegen{}, nil)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		h := m.MintHandle("kettlebell", "set")
		if seen[h] {
			t.Fatalf("handle %q minted twice (iteration %d)", h, i)
		}
		seen[h] = true
	}
	if !seen["kettlebell-set"] || !seen[fmt.Sprintf("kettlebell-set-%d", 19)] {
		t.Error("expected base handle and increasing suffixes")
	}
}
