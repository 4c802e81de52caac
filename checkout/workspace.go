/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the directory a checkout reconciles. Implementations must
// not be shared between concurrent checkouts; the engine assumes it is the
// only writer for the duration of a Checkout call.
type Workspace interface {
	// Root returns the workspace directory path.
	Root() string

	// HasRepository reports whether the workspace root directly contains
	// a repository, i.e. a .git entry.
	HasRepository() (bool, error)

	// DeleteContents empties the workspace without removing the
	// directory itself.
	DeleteContents() error
}

// Dir is a Workspace on the local filesystem rooted at the directory it
// names. The directory must already exist.
type Dir string

// Root implements Workspace.
func (d Dir) Root() string { return string(d) }

// HasRepository implements Workspace.
func (d Dir) HasRepository() (bool, error) {
	if _, err := os.Stat(filepath.Join(string(d), ".git")); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking for repository in %s: %w", string(d), err)
	}
	return true, nil
}

// DeleteContents implements Workspace.
func (d Dir) DeleteContents() error {
	entries, err := os.ReadDir(string(d))
	if err != nil {
		return fmt.Errorf("listing workspace %s: %w", string(d), err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(string(d), entry.Name())); err != nil {
			return fmt.Errorf("emptying workspace %s: %w", string(d), err)
		}
	}
	return nil
}
