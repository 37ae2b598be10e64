// SPDX-License-Identifier: MPL-2.0

package entries

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/sitegen/sitegen/internal/testutil"

	"github.com/pelletier/go-toml/v2"
)

func sampleTable() Table {
	return Table{
		"project-b":    "/site/projects/b/index.html",
		"main":         "/site/index.html",
		"public-about": "/site/public/about.html",
	}
}

func TestTable_Keys(t *testing.T) {
	t.Parallel()

	want := []string{"main", "project-b", "public-about"}
	if got := sampleTable().Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestTable_EncodeJSON(t *testing.T) {
	t.Parallel()

	data, err := sampleTable().Encode(FormatJSON)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := `{
  "main": "/site/index.html",
  "project-b": "/site/projects/b/index.html",
  "public-about": "/site/public/about.html"
}
`
	if string(data) != want {
		t.Errorf("Encode(json) =\n%s\nwant\n%s", data, want)
	}

	var decoded map[string]string
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
}

func TestTable_EncodeTOML(t *testing.T) {
	t.Parallel()

	data, err := sampleTable().Encode(FormatTOML)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded map[string]string
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, data)
	}
	if decoded["public-about"] != "/site/public/about.html" || len(decoded) != 3 {
		t.Errorf("decoded TOML = %v", decoded)
	}
	if strings.Index(string(data), "main") > strings.Index(string(data), "public-about") {
		t.Errorf("TOML keys not sorted:\n%s", data)
	}
}

func TestTable_EncodeTable(t *testing.T) {
	t.Parallel()

	data, err := sampleTable().Encode(FormatTable)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"ENTRY", "PATH", "project-b", "/site/public/about.html"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		if got, err := ParseFormat(string(f)); err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(yaml) error = %v, want ErrUnknownFormat", err)
	}
	if _, err := sampleTable().Encode("yaml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Encode(yaml) error = %v, want ErrUnknownFormat", err)
	}
}

func TestTable_WriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".sitegen", "entries.json")
	if err := sampleTable().WriteFile(path, FormatJSON); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(testutil.MustReadFile(t, path), &decoded); err != nil {
		t.Fatalf("written file is not JSON: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("decoded = %v", decoded)
	}
}
