// Package exportlog keeps an append-only CSV record of written invoices in the
// export directory.
package exportlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/invoicer-dev/invoicer/internal/model"
	"github.com/invoicer-dev/invoicer/internal/render"
)

// FileName is the log file inside the export directory.
const FileName = "export-log.csv"

var header = []string{"timestamp", "invoice_number", "format", "file", "total", "payment_status"}

// Entry is one successful export.
type Entry struct {
	Timestamp     time.Time
	InvoiceNumber string
	Format        string
	File          string
	Total         string
	Status        model.PaymentStatus
}

// NewEntry describes an export of p in format to path.
func NewEntry(ts time.Time, p render.Preview, format, path string) Entry {
	return Entry{
		Timestamp:     ts.UTC(),
		InvoiceNumber: p.InvoiceNumber,
		Format:        format,
		File:          filepath.Base(path),
		Total:         p.Amount(render.LabelTotal),
		Status:        p.Status,
	}
}

func (e Entry) record() []string {
	return []string{
		e.Timestamp.Format(time.RFC3339),
		e.InvoiceNumber,
		e.Format,
		e.File,
		e.Total,
		string(e.Status),
	}
}

func parseRecord(rec []string) (Entry, error) {
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", rec[0], err)
	}
	return Entry{
		Timestamp:     ts,
		InvoiceNumber: rec[1],
		Format:        rec[2],
		File:          rec[3],
		Total:         rec[4],
		Status:        model.PaymentStatus(rec[5]),
	}, nil
}

// Append adds entries to <dir>/export-log.csv, writing the header first when
// the file is new.
func Append(dir string, entries ...Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening export log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(e.record()); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every entry in <dir>/export-log.csv, or nil when there is no log.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening export log: %w", err)
	}
	defer f.Close()
	return decode(f)
}

func decode(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	var entries []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading export log: %w", err)
		}
		if line == 1 {
			continue
		}
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		entries = append(entries, e)
	}
}
