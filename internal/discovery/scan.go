// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/sitegen/sitegen/internal/issue"
	"github.com/sitegen/sitegen/pkg/descriptor"
)

type (
	// ScanOptions selects what Scan looks at.
	ScanOptions struct {
		// Root is the content root whose immediate children are projects.
		Root string
		// DescriptorName is the descriptor file name looked up in each child.
		// Empty defaults to descriptor.FileName.
		DescriptorName string
		// Exclude lists child directory names that are never scanned
		// (e.g. "_templates").
		Exclude []string
	}

	// Found is one successfully parsed descriptor.
	Found struct {
		// Dir is the absolute path of the project directory.
		Dir string
		// Path is the absolute path of the descriptor file.
		Path string
		// Raw is the parsed, uninterpreted descriptor object.
		Raw descriptor.Raw
	}

	// ScanResult bundles the parsed descriptors with the diagnostics produced
	// while scanning.
	ScanResult struct {
		// Descriptors are in directory enumeration order (lexical by name).
		Descriptors []Found
		Diagnostics []Diagnostic
	}
)

// Scan finds every immediate child directory of opts.Root that is not
// excluded and contains a parsable descriptor.
//
// A child whose descriptor is missing is skipped silently. A child whose
// descriptor cannot be read or parsed is skipped with a warning diagnostic.
// An unreadable root is returned as an error.
func Scan(ctx context.Context, opts ScanOptions) (*ScanResult, error) {
	name := opts.DescriptorName
	if name == "" {
		name = descriptor.FileName
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve content root %q: %w", opts.Root, err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		errCtx := issue.NewErrorContext().
			WithOperation("scan content root").
			WithResource(root)
		if errors.Is(err, fs.ErrNotExist) {
			errCtx.WithSuggestion("Create the content directory or point content.dir at an existing one")
		} else {
			errCtx.WithSuggestion("Check that the directory is readable by the current user")
		}
		return nil, errCtx.Wrap(err).BuildError()
	}

	result := &ScanResult{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan canceled: %w", err)
		}

		if slices.Contains(opts.Exclude, entry.Name()) {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		if !isDir(dir, entry) {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			result.Diagnostics = append(result.Diagnostics, Warning(
				CodeDescriptorReadSkipped, path, err,
				"skipping project %s: cannot read %s: %v", entry.Name(), name, err))
			continue
		}

		raw, err := descriptor.Parse(data)
		if err != nil {
			result.Diagnostics = append(result.Diagnostics, Warning(
				CodeDescriptorParseSkipped, path, err,
				"skipping project %s: %v", entry.Name(), err))
			continue
		}

		result.Descriptors = append(result.Descriptors, Found{Dir: dir, Path: path, Raw: raw})
	}

	return result, nil
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(path string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
