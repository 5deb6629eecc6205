package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// Exporter writes journal entries to w in one format.
type Exporter interface {
	Export(ctx context.Context, entries []*Entry, w io.Writer) error
}

// NewExporter returns the exporter for format ("json" or "csv").
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json", "":
		return &JSONExporter{Pretty: true}, nil
	case "csv":
		return &CSVExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// JSONExporter writes entries as a JSON array.
type JSONExporter struct {
	Pretty bool
}

// Export implements Exporter.
func (e *JSONExporter) Export(_ context.Context, entries []*Entry, w io.Writer) error {
	if entries == nil {
		entries = []*Entry{}
	}

	enc := json.NewEncoder(w)
	if e.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(entries); err != nil {
		return &ExportError{Format: "json", RecordCount: len(entries), Cause: err}
	}
	return nil
}

// CSVExporter writes entries as CSV with a header row taken from the csv
// struct tags.
type CSVExporter struct{}

// Export implements Exporter.
func (e *CSVExporter) Export(_ context.Context, entries []*Entry, w io.Writer) error {
	rows := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, *entry)
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return &ExportError{Format: "csv", RecordCount: len(entries), Cause: err}
	}
	if _, err := w.Write(data); err != nil {
		return &ExportError{Format: "csv", RecordCount: len(entries), Cause: err}
	}
	return nil
}
