package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// RunLog is the incremental CSV audit trail: one row per successfully updated
// product, flushed immediately so a crash preserves progress made so far.
type RunLog struct {
	file   *os.File
	writer *csv.Writer
}

// NewRunLog creates (truncating) the log file and writes the header row.
func NewRunLog(path string) (*RunLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating run log %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Product ID", "Old Handle", "New Handle", "Old Title", "New Title"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing run log header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flushing run log header: %w", err)
	}

	return &RunLog{file: f, writer: w}, nil
}

// Append writes one record and flushes it to disk.
func (l *RunLog) Append(rec UpdateRecord) error {
	row := []string{
		strconv.FormatInt(rec.ProductID, 10),
		rec.OldHandle,
		rec.NewHandle,
		rec.OldTitle,
		rec.NewTitle,
	}
	if err := l.writer.Write(row); err != nil {
		return fmt.Errorf("writing run log row: %w", err)
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return fmt.Errorf("flushing run log: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (l *RunLog) Close() error {
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
