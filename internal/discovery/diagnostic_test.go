// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"testing"
)

func TestWarning(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	d := Warning(CodeDescriptorParseSkipped, "/site/projects/c/project.json", cause, "skipping %s", "c")

	if d.Severity != SeverityWarning {
		t.Errorf("Severity = %q, want %q", d.Severity, SeverityWarning)
	}
	if d.Code != CodeDescriptorParseSkipped {
		t.Errorf("Code = %q, want %q", d.Code, CodeDescriptorParseSkipped)
	}
	if d.Message != "skipping c" {
		t.Errorf("Message = %q, want %q", d.Message, "skipping c")
	}
	if d.Path != "/site/projects/c/project.json" {
		t.Errorf("Path = %q", d.Path)
	}
	if !errors.Is(d.Cause, cause) {
		t.Errorf("Cause = %v, want %v", d.Cause, cause)
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{
			"with path",
			Warning(CodeDuplicateSlug, "/p/b/project.json", nil, "slug reused"),
			"warning [duplicate_slug] /p/b/project.json: slug reused",
		},
		{
			"formatted message",
			Warning(CodeDescriptorInvalid, "/site/projects/x/project.json", nil, "bad %s", "slug"),
			"warning [descriptor_invalid] /site/projects/x/project.json: bad slug",
		},
		{
			"without path",
			Warning(CodeDescriptorInvalid, "", nil, "bad %s", "slug"),
			"warning [descriptor_invalid]: bad slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.diag.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountCode(t *testing.T) {
	t.Parallel()

	diags := []Diagnostic{
		Warning(CodeDescriptorInvalid, "a", nil, "a"),
		Warning(CodeDuplicateSlug, "b", nil, "b"),
		Warning(CodeDescriptorInvalid, "c", nil, "c"),
	}
	if got := CountCode(diags, CodeDescriptorInvalid); got != 2 {
		t.Errorf("CountCode(descriptor_invalid) = %d, want 2", got)
	}
	if got := CountCode(diags, CodeEntryKeyCollision); got != 0 {
		t.Errorf("CountCode(entry_key_collision) = %d, want 0", got)
	}
	if got := CountCode(nil, CodeDuplicateSlug); got != 0 {
		t.Errorf("CountCode(nil) = %d, want 0", got)
	}
}
