package main

import (
	"fmt"
	"log"
	"regexp"
	"strings"
)

// titleRetryLimit bounds how many regenerated titles are tried before the
// minter falls back to a numeric suffix.
const titleRetryLimit = 5

// handleMaxWords caps how many hyphen-delimited tokens a handle keeps.
const handleMaxWords = 5

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// titleRegenerator is the slice of the generator the minter needs for title
// collision remediation.
type titleRegenerator interface {
	RegenerateTitle(previous string, kw KeywordSet) (string, error)
}

// Minter produces collision-free handles and titles against the registry.
// Accepted identifiers are reserved before being returned, so a later
// candidate in the same run cannot collide with one whose remote mutation has
// not committed yet.
type Minter struct {
	registry     *Registry
	regen        titleRegenerator
	bannedBrands []string
}

// NewMinter creates a minter over the given registry.
func NewMinter(registry *Registry, regen titleRegenerator, bannedBrands []string) *Minter {
	return &Minter{
		registry:     registry,
		regen:        regen,
		bannedBrands: bannedBrands,
	}
}

// slugify normalizes text into a URL-safe handle: lowercase, strip every
// character outside [a-z0-9\s-], collapse whitespace runs to single hyphens,
// keep at most the first handleMaxWords hyphen-delimited tokens.
func slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugDisallowed.ReplaceAllString(slug, "")
	slug = whitespaceRun.ReplaceAllString(strings.TrimSpace(slug), "-")

	words := strings.Split(slug, "-")
	if len(words) > handleMaxWords {
		words = words[:handleMaxWords]
	}
	return strings.Join(words, "-")
}

// MintHandle derives a handle from the primary keyword and descriptor,
// resolving collisions with an increasing numeric suffix. The probe is
// unbounded: a strictly increasing suffix always eventually succeeds.
func (m *Minter) MintHandle(primaryKeyword, descriptor string) string {
	base := slugify(primaryKeyword + " " + descriptor)
	if base == "" {
		base = "product"
	}

	if m.registry.ReserveHandle(base) {
		return base
	}
	for suffix := 1; ; suffix++ {
		candidate := fmt.Sprintf("%s-%d", base, suffix)
		if m.registry.ReserveHandle(candidate) {
			return candidate
		}
	}
}

// MintTitle makes candidate unique. On collision it first asks the generator
// for a different surface form, up to titleRetryLimit attempts, keeping
// titles human-readable under collision pressure. Only after that does it
// fall back to a numeric suffix.
func (m *Minter) MintTitle(candidate string, kw KeywordSet) string {
	title := m.stripBrands(candidate)
	if title == "" {
		title = candidate
	}

	if m.registry.ReserveTitle(title) {
		return title
	}

	previous := title
	for attempt := 1; attempt <= titleRetryLimit; attempt++ {
		regenerated, err := m.regen.RegenerateTitle(previous, kw)
		if err != nil {
			log.Printf("⚠ Title regeneration attempt %d failed: %v", attempt, err)
			continue
		}
		regenerated = m.stripBrands(regenerated)
		if regenerated == "" {
			continue
		}
		if m.registry.ReserveTitle(regenerated) {
			return regenerated
		}
		previous = regenerated
	}

	for suffix := 1; ; suffix++ {
		numbered := fmt.Sprintf("%s (%d)", title, suffix)
		if m.registry.ReserveTitle(numbered) {
			return numbered
		}
	}
}

// stripBrands removes disallowed brand substrings (case-insensitive) and
// tidies the remaining whitespace.
func (m *Minter) stripBrands(title string) string {
	for _, brand := range m.bannedBrands {
		if brand == "" {
			continue
		}
		for {
			idx := strings.Index(strings.ToLower(title), strings.ToLower(brand))
			if idx < 0 {
				break
			}
			title = title[:idx] + title[idx+len(brand):]
		}
	}
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(title, " "))
}
