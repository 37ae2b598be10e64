// SPDX-License-Identifier: MPL-2.0

package tableview

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	t.Parallel()

	out := Render([]string{"Key", "Path"}, [][]string{
		{"main", "/site/index.html"},
		{"short"},
	})

	for _, want := range []string{"KEY", "PATH", "main", "/site/index.html", "short", "╭", "╰"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 6 {
		t.Errorf("Render() produced %d lines, want 6:\n%s", lines, out)
	}
}

func TestRender_NoColumns(t *testing.T) {
	t.Parallel()

	if out := Render(nil, [][]string{{"x"}}); out != "" {
		t.Errorf("Render(nil) = %q, want empty", out)
	}
}
