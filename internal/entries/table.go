// SPDX-License-Identifier: MPL-2.0

package entries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/internal/tableview"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatJSON renders the table as an indented JSON object.
	FormatJSON Format = "json"
	// FormatTOML renders the table as TOML key/value pairs.
	FormatTOML Format = "toml"
	// FormatTable renders a human-readable text table.
	FormatTable Format = "table"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown entry table format")

type (
	// Format selects how a Table is encoded.
	Format string

	// Table maps entry keys to absolute source paths.
	Table map[string]string
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatTOML, FormatTable}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !slices.Contains(Formats(), f) {
		return "", fmt.Errorf("%w %q (valid: json, toml, table)", ErrUnknownFormat, s)
	}
	return f, nil
}

// Keys returns the entry keys in sorted order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Encode renders the table. JSON and TOML output end with a newline and
// list keys in sorted order.
func (t Table) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]string(t)); err != nil {
			return nil, fmt.Errorf("encode entry table: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(map[string]string(t))
		if err != nil {
			return nil, fmt.Errorf("encode entry table: %w", err)
		}
		return data, nil
	case FormatTable:
		keys := t.Keys()
		rows := make([][]string, len(keys))
		for i, key := range keys {
			rows[i] = []string{key, t[key]}
		}
		return []byte(tableview.Render([]string{"Entry", "Path"}, rows) + "\n"), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteFile encodes the table and writes it to path, creating parent
// directories.
func (t Table) WriteFile(path string, format Format) error {
	data, err := t.Encode(format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return writeError(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return writeError(path, err)
	}
	return nil
}

func writeError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("write entry table").
		WithResource(path).
		WithSuggestion("Check that the output directory is writable").
		WithSuggestion("Choose another location with --output or entries.output").
		Wrap(err).
		BuildError()
}
