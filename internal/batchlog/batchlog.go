// Package batchlog records every batch file the system generates.
package batchlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Kind distinguishes single-form batches from bulk batches.
type Kind string

const (
	KindSingle Kind = "single"
	KindBulk   Kind = "bulk"
)

// Entry is one row in the batch log.
type Entry struct {
	Timestamp time.Time
	BatchID   string
	Kind      Kind
	Filename  string
	URL       string
	FormIDs   []string
	RowCount  int
}

// Header is the CSV header for batch-log.csv.
const Header = "timestamp,batch_id,kind,filename,url,form_ids,row_count"

const (
	numFields   = 7
	logDir      = "logs"
	LogFile     = "logs/batch-log.csv"
	colTime     = 0
	colBatchID  = 1
	colKind     = 2
	colFilename = 3
	colURL      = 4
	colFormIDs  = 5
	colRowCount = 6
	idSep       = ";"
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colBatchID] = e.BatchID
	row[colKind] = string(e.Kind)
	row[colFilename] = e.Filename
	row[colURL] = e.URL
	row[colFormIDs] = strings.Join(e.FormIDs, idSep)
	row[colRowCount] = strconv.Itoa(e.RowCount)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	n, err := strconv.Atoi(record[colRowCount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing row count %q: %w", record[colRowCount], err)
	}
	kind := Kind(record[colKind])
	if kind != KindSingle && kind != KindBulk {
		return Entry{}, fmt.Errorf("unknown batch kind %q", record[colKind])
	}

	var ids []string
	if record[colFormIDs] != "" {
		ids = strings.Split(record[colFormIDs], idSep)
	}

	return Entry{
		Timestamp: ts,
		BatchID:   record[colBatchID],
		Kind:      kind,
		Filename:  record[colFilename],
		URL:       record[colURL],
		FormIDs:   ids,
		RowCount:  n,
	}, nil
}

// Append writes entries to <root>/logs/batch-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(root, LogFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening batch log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/batch-log.csv.
// Returns nil if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(root, LogFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening batch log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading batch log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Find returns the entry for batchID.
func Find(root, batchID string) (Entry, bool, error) {
	entries, err := Read(root)
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.BatchID == batchID {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}
