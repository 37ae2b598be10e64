// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects the configuration source.
	LoadOptions struct {
		// ConfigFilePath names the config file explicitly. The site root
		// becomes the directory holding it, and a missing file is an error.
		ConfigFilePath string
		// BaseDir is the site root searched for sitegen.cue when
		// ConfigFilePath is empty. Empty means the working directory.
		BaseDir string
	}

	// Provider loads a validated Config.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// ProviderFunc adapts a plain function to Provider.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, error)
)

// NewProvider returns the Provider that reads sitegen.cue from disk and
// applies SITEGEN_* environment overrides.
func NewProvider() Provider {
	return ProviderFunc(loadWithOptions)
}

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return f(ctx, opts)
}
