// Package export writes a rendered invoice to a file. Exporters only read the
// preview they are handed; nothing here touches session state.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/invoicer-dev/invoicer/internal/render"
)

// Exporter converts a preview into one file format.
type Exporter interface {
	Format() string
	Extension() string
	Export(ctx context.Context, p render.Preview, w io.Writer) error
}

// Registry holds exporters by format name.
type Registry struct {
	exporters map[string]Exporter
}

// NewRegistry creates an empty exporter registry.
func NewRegistry() *Registry {
	return &Registry{exporters: make(map[string]Exporter)}
}

// Register adds an exporter. Panics on duplicate format.
func (r *Registry) Register(e Exporter) {
	key := strings.ToLower(e.Format())
	if _, ok := r.exporters[key]; ok {
		panic("duplicate export format: " + key)
	}
	r.exporters[key] = e
}

// Get returns the exporter for format, or nil.
func (r *Registry) Get(format string) Exporter {
	return r.exporters[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with the PDF and XLSX exporters. logoPath
// may be empty.
func DefaultRegistry(logoPath string) *Registry {
	r := NewRegistry()
	r.Register(&PDF{LogoPath: logoPath})
	r.Register(&XLSX{})
	return r
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileName returns "invoice-<invoiceNumber>.<ext>" with characters that are
// unsafe in file names replaced by "_".
func FileName(invoiceNumber, ext string) string {
	return "invoice-" + unsafeName.ReplaceAllString(invoiceNumber, "_") + "." + strings.TrimPrefix(ext, ".")
}

// Save writes the preview into dir and returns the file path. The file is
// written to a temporary name and renamed into place, so a failed or
// cancelled export leaves nothing behind.
func Save(ctx context.Context, e Exporter, p render.Preview, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".invoice-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := e.Export(ctx, p, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("exporting %s: %w", e.Format(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(p.InvoiceNumber, e.Extension()))
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("moving export into place: %w", err)
	}
	return path, nil
}

// Result is the outcome of an asynchronous export.
type Result struct {
	Format string
	Path   string
	Err    error
}

// Start runs Save on a goroutine. The returned channel receives exactly one
// Result and is then closed. Cancel ctx to abandon the export.
func Start(ctx context.Context, e Exporter, p render.Preview, dir string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		path, err := Save(ctx, e, p, dir)
		out <- Result{Format: e.Format(), Path: path, Err: err}
	}()
	return out
}
