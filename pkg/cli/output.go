package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON output.
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat parses an --output flag value. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: text, json)", s)
	}
}

// Write prints v to w in format.
func Write(w io.Writer, format OutputFormat, v any) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if s, ok := v.(fmt.Stringer); ok {
		_, err := io.WriteString(w, s.String())
		return err
	}
	_, err := fmt.Fprintf(w, "%v\n", v)
	return err
}
