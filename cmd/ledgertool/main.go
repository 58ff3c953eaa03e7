package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
)

// ledgertool maintains the append-only uniqueness ledger files
// (used_handles.txt / used_titles.txt): dedupe collapses repeated entries,
// merge unions several ledgers into one.

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: ledgertool <dedupe|merge> <ledger-file> [more-ledger-files...]")
	}

	command := os.Args[1]

	switch command {
	case "dedupe":
		if err := dedupe(os.Args[2]); err != nil {
			log.Fatal(err)
		}
	case "merge":
		if len(os.Args) < 4 {
			log.Fatal("Usage: ledgertool merge <dest-file> <source-files...>")
		}
		if err := merge(os.Args[2], os.Args[3:]); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

// dedupe rewrites a ledger keeping the first occurrence of each entry.
// Comparison matches the registry: case-insensitive and trimmed.
func dedupe(path string) error {
	entries, err := readLedger(path)
	if err != nil {
		return err
	}

	kept := uniqueEntries(entries)
	removed := len(entries) - len(kept)
	if removed == 0 {
		log.Printf("%s: no duplicates", path)
		return nil
	}

	if err := writeLedger(path, kept); err != nil {
		return err
	}
	log.Printf("%s: removed %d duplicate entries (%d left)", path, removed, len(kept))
	return nil
}

// merge unions source ledgers into dest, deduplicating across all of them.
func merge(dest string, sources []string) error {
	entries, err := readLedger(dest)
	if err != nil {
		return err
	}
	for _, src := range sources {
		more, err := readLedger(src)
		if err != nil {
			return err
		}
		entries = append(entries, more...)
	}

	kept := uniqueEntries(entries)
	if err := writeLedger(dest, kept); err != nil {
		return err
	}
	log.Printf("%s: merged %d files, %d unique entries", dest, len(sources)+1, len(kept))
	return nil
}

func uniqueEntries(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	var kept []string
	for _, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, strings.TrimSpace(entry))
	}
	return kept
}

func readLedger(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entries = append(entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

func writeLedger(path string, entries []string) error {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
