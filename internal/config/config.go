// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitegen/sitegen/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "sitegen"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "sitegen"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "SITEGEN"
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigExists is returned by CreateDefaultConfig when the target file
// already exists and overwriting was not requested.
var ErrConfigExists = errors.New("config file already exists")

// FilePath returns the conventional config file location inside root.
func FilePath(root string) string {
	return filepath.Join(root, ConfigFileName+"."+ConfigFileExt)
}

// loadWithOptions performs option-driven config loading. Precedence from
// lowest to highest: defaults, the CUE file, SITEGEN_* environment variables.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	root, err := resolveRoot(opts)
	if err != nil {
		return nil, err
	}

	source := ""
	switch {
	case opts.ConfigFilePath != "":
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'sitegen config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		source = opts.ConfigFilePath
	case fileExists(FilePath(root)):
		source = FilePath(root)
	}

	if source != "" {
		if err := loadCUEIntoViper(v, source); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(source).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'sitegen config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
		source, err = filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Root = root
	cfg.Source = source

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(source).
			WithSuggestion("Check SITEGEN_* environment variables for invalid overrides").
			WithSuggestion("Keep entries.project_prefix and entries.public_prefix distinct").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("content.dir", defaults.Content.Dir)
	v.SetDefault("content.descriptor", defaults.Content.Descriptor)
	v.SetDefault("content.artifact", defaults.Content.Artifact)
	v.SetDefault("content.exclude", defaults.Content.Exclude)
	v.SetDefault("public.dir", defaults.Public.Dir)
	v.SetDefault("public.ext", defaults.Public.Ext)
	v.SetDefault("manifest.path", defaults.Manifest.Path)
	v.SetDefault("entries.project_prefix", defaults.Entries.ProjectPrefix)
	v.SetDefault("entries.public_prefix", defaults.Entries.PublicPrefix)
	v.SetDefault("entries.output", defaults.Entries.Output)

	static := make([]map[string]any, 0, len(defaults.Entries.Static))
	for _, entry := range defaults.Entries.Static {
		static = append(static, map[string]any{"name": entry.Name, "path": entry.Path})
	}
	v.SetDefault("entries.static", static)

	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
}

// resolveRoot picks the site root: the config file's directory when one is
// forced, otherwise BaseDir, otherwise the working directory.
func resolveRoot(opts LoadOptions) (string, error) {
	var root string
	switch {
	case opts.ConfigFilePath != "":
		root = filepath.Dir(opts.ConfigFilePath)
	case opts.BaseDir != "":
		root = opts.BaseDir
	default:
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve site root %s: %w", root, err)
	}
	return abs, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// Concrete(false) is used because every config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	// Merge preserves defaults and still allows env overrides.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default sitegen.cue into root and returns its
// path. An existing file is left alone unless force is set.
func CreateDefaultConfig(root string, force bool) (string, error) {
	cfgPath := FilePath(root)

	if !force && fileExists(cfgPath) {
		return cfgPath, fmt.Errorf("%s: %w", cfgPath, ErrConfigExists)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create site directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// sitegen configuration\n")
	sb.WriteString("// Paths are relative to the directory holding this file.\n\n")

	sb.WriteString("content: {\n")
	fmt.Fprintf(&sb, "\tdir:        %q\n", cfg.Content.Dir)
	fmt.Fprintf(&sb, "\tdescriptor: %q\n", cfg.Content.Descriptor)
	fmt.Fprintf(&sb, "\tartifact:   %q\n", cfg.Content.Artifact)
	sb.WriteString("\texclude: [")
	for i, name := range cfg.Content.Exclude {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", name)
	}
	sb.WriteString("]\n}\n")

	sb.WriteString("\npublic: {\n")
	fmt.Fprintf(&sb, "\tdir: %q\n", cfg.Public.Dir)
	fmt.Fprintf(&sb, "\text: %q\n", cfg.Public.Ext)
	sb.WriteString("}\n")

	sb.WriteString("\nmanifest: {\n")
	fmt.Fprintf(&sb, "\tpath: %q\n", cfg.Manifest.Path)
	sb.WriteString("}\n")

	sb.WriteString("\nentries: {\n")
	fmt.Fprintf(&sb, "\tproject_prefix: %q\n", cfg.Entries.ProjectPrefix)
	fmt.Fprintf(&sb, "\tpublic_prefix:  %q\n", cfg.Entries.PublicPrefix)
	fmt.Fprintf(&sb, "\toutput:         %q\n", cfg.Entries.Output)
	sb.WriteString("\tstatic: [\n")
	for _, entry := range cfg.Entries.Static {
		fmt.Fprintf(&sb, "\t\t{name: %q, path: %q},\n", entry.Name, entry.Path)
	}
	sb.WriteString("\t]\n}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
