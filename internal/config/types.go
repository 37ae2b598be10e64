// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidFileName is returned when a file name is empty or contains a path separator.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInvalidEntriesConfig is the sentinel error wrapped by InvalidEntriesConfigError.
	ErrInvalidEntriesConfig = errors.New("invalid entries config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette used for rendered output.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidFileNameError is returned when a configured file or directory
	// name that must be a single path element is not.
	InvalidFileNameError struct {
		Field string
		Value string
	}

	// InvalidEntriesConfigError collects entries section problems.
	InvalidEntriesConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when Config.IsValid fails. It wraps
	// ErrInvalidConfig and carries every field error found.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// ContentConfig describes the project content area.
	ContentConfig struct {
		// Dir is the content root, relative to the site root.
		Dir string `json:"dir" mapstructure:"dir"`
		// Descriptor is the per-project descriptor file name.
		Descriptor string `json:"descriptor" mapstructure:"descriptor"`
		// Artifact is the generated page that makes a project buildable.
		Artifact string `json:"artifact" mapstructure:"artifact"`
		// Exclude lists reserved child directories of Dir.
		Exclude []string `json:"exclude" mapstructure:"exclude"`
	}

	// PublicConfig describes the loose static pages area.
	PublicConfig struct {
		// Dir is the public pages root, relative to the site root.
		Dir string `json:"dir" mapstructure:"dir"`
		// Ext is the page extension matched directly under Dir.
		Ext string `json:"ext" mapstructure:"ext"`
	}

	// ManifestConfig describes the manifest output.
	ManifestConfig struct {
		// Path is the manifest file, relative to the site root.
		Path string `json:"path" mapstructure:"path"`
	}

	// StaticEntry is a fixed bundler entry point.
	StaticEntry struct {
		Name string `json:"name" mapstructure:"name"`
		Path string `json:"path" mapstructure:"path"`
	}

	// EntriesConfig configures entry table keys and output.
	EntriesConfig struct {
		// ProjectPrefix prefixes project-derived entry keys.
		ProjectPrefix string `json:"project_prefix" mapstructure:"project_prefix"`
		// PublicPrefix prefixes public-page entry keys.
		PublicPrefix string `json:"public_prefix" mapstructure:"public_prefix"`
		// Output is where `sitegen dev` writes the entry table for the bundler.
		Output string `json:"output" mapstructure:"output"`
		// Static entries are merged ahead of discovered ones.
		Static []StaticEntry `json:"static" mapstructure:"static"`
	}

	// UIConfig contains UI-related settings.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config is the sitegen configuration.
	Config struct {
		Content  ContentConfig  `json:"content" mapstructure:"content"`
		Public   PublicConfig   `json:"public" mapstructure:"public"`
		Manifest ManifestConfig `json:"manifest" mapstructure:"manifest"`
		Entries  EntriesConfig  `json:"entries" mapstructure:"entries"`
		UI       UIConfig       `json:"ui" mapstructure:"ui"`

		// Root is the absolute site root every relative path resolves
		// against. It is set by the loader, never read from the file.
		Root string `json:"-" mapstructure:"-"`
		// Source is the configuration file that was loaded, or empty when
		// only defaults and environment variables apply.
		Source string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Dir:        "projects",
			Descriptor: "project.json",
			Artifact:   "index.html",
			Exclude:    []string{"_templates", "_schema"},
		},
		Public: PublicConfig{
			Dir: "public",
			Ext: ".html",
		},
		Manifest: ManifestConfig{
			Path: "src/data/projects.json",
		},
		Entries: EntriesConfig{
			ProjectPrefix: "project-",
			PublicPrefix:  "public-",
			Output:        ".sitegen/entries.json",
			Static: []StaticEntry{
				{Name: "main", Path: "index.html"},
				{Name: "projectsIndex", Path: "projects/index.html"},
			},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the color scheme as a plain string.
func (c ColorScheme) String() string { return string(c) }

// IsValid reports whether the color scheme is one of the known values.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidFileNameError) Error() string {
	return fmt.Sprintf("%s: %q must be a single non-empty path element", e.Field, e.Value)
}

// Unwrap returns ErrInvalidFileName for errors.Is() compatibility.
func (e *InvalidFileNameError) Unwrap() error { return ErrInvalidFileName }

// IsValid checks that prefixes are set and keep the two entry namespaces
// disjoint, and that static entries are named uniquely.
func (c EntriesConfig) IsValid() (bool, []error) {
	var errs []error
	if c.ProjectPrefix == "" {
		errs = append(errs, errors.New("entries.project_prefix must not be empty"))
	}
	if c.PublicPrefix == "" {
		errs = append(errs, errors.New("entries.public_prefix must not be empty"))
	}
	if c.ProjectPrefix != "" && c.PublicPrefix != "" &&
		(strings.HasPrefix(c.ProjectPrefix, c.PublicPrefix) || strings.HasPrefix(c.PublicPrefix, c.ProjectPrefix)) {
		errs = append(errs, fmt.Errorf("entries prefixes %q and %q overlap; project and public keys could collide",
			c.ProjectPrefix, c.PublicPrefix))
	}

	seen := make(map[string]bool, len(c.Static))
	for i, entry := range c.Static {
		if entry.Name == "" || entry.Path == "" {
			errs = append(errs, fmt.Errorf("entries.static[%d]: name and path are required", i))
			continue
		}
		if seen[entry.Name] {
			errs = append(errs, fmt.Errorf("entries.static[%d]: duplicate name %q", i, entry.Name))
		}
		seen[entry.Name] = true
	}

	if len(errs) > 0 {
		return false, []error{&InvalidEntriesConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidEntriesConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid entries config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidEntriesConfig followed by the field errors.
func (e *InvalidEntriesConfigError) Unwrap() []error {
	return append([]error{ErrInvalidEntriesConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields. Values coming from
// environment variables bypass the CUE schema, so every rule the schema
// enforces is checked again here.
func (c Config) IsValid() (bool, []error) {
	var errs []error

	if strings.TrimSpace(c.Content.Dir) == "" {
		errs = append(errs, errors.New("content.dir must not be empty"))
	}
	errs = appendFileNameErr(errs, "content.descriptor", c.Content.Descriptor)
	errs = appendFileNameErr(errs, "content.artifact", c.Content.Artifact)
	for i, name := range c.Content.Exclude {
		errs = appendFileNameErr(errs, fmt.Sprintf("content.exclude[%d]", i), name)
	}

	if strings.TrimSpace(c.Public.Dir) == "" {
		errs = append(errs, errors.New("public.dir must not be empty"))
	}
	if len(c.Public.Ext) < 2 || c.Public.Ext[0] != '.' {
		errs = append(errs, fmt.Errorf("public.ext %q must start with a dot", c.Public.Ext))
	}

	if strings.TrimSpace(c.Manifest.Path) == "" {
		errs = append(errs, errors.New("manifest.path must not be empty"))
	}

	if valid, fieldErrs := c.Entries.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so callers
// can match a specific field sentinel with errors.Is.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func appendFileNameErr(errs []error, field, value string) []error {
	if value == "" || value == "." || value == ".." || strings.ContainsAny(value, `/\`) {
		return append(errs, &InvalidFileNameError{Field: field, Value: value})
	}
	return errs
}
