package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Ledger persists minted handles and titles across runs so the registry can
// be extended beyond what a remote scan shows (covers items created by means
// other than this pipeline).
type Ledger interface {
	// Load returns every previously recorded handle and title.
	Load() (handles, titles []string, err error)
	RecordHandle(handle string) error
	RecordTitle(title string) error
}

// newLedger builds the configured ledger backend.
func newLedger(settings LedgerSettings) (Ledger, error) {
	switch settings.Backend {
	case "memory":
		return memoryLedger{}, nil
	case "file":
		return &fileLedger{
			handlesPath: settings.HandlesPath,
			titlesPath:  settings.TitlesPath,
		}, nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q (want \"file\" or \"memory\")", settings.Backend)
	}
}

// memoryLedger keeps nothing between runs; uniqueness then rests solely on
// the startup scan.
type memoryLedger struct{}

func (memoryLedger) Load() ([]string, []string, error) { return nil, nil, nil }
func (memoryLedger) RecordHandle(string) error         { return nil }
func (memoryLedger) RecordTitle(string) error          { return nil }

// fileLedger appends one identifier per line to two text files. Missing files
// are treated as empty, not as errors.
type fileLedger struct {
	handlesPath string
	titlesPath  string
}

func (l *fileLedger) Load() ([]string, []string, error) {
	handles, err := readLines(l.handlesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading handle ledger: %w", err)
	}
	titles, err := readLines(l.titlesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading title ledger: %w", err)
	}
	return handles, titles, nil
}

func (l *fileLedger) RecordHandle(handle string) error {
	return appendLine(l.handlesPath, handle)
}

func (l *fileLedger) RecordTitle(title string) error {
	return appendLine(l.titlesPath, title)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintln(f, line)
	return err
}
