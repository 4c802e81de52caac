/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitcli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chainguard-dev/clog"
)

// AddFetch adds refspec to the fetch configuration of the named remote by
// rewriting .git/config: the line is inserted directly under the remote's
// section header, and any existing copy of the same line is dropped first so
// repeated calls stay idempotent. When the remote has no section the file is
// rewritten unchanged. The rewrite goes to a temporary file and replaces the
// original only after the original has been removed; failure to remove it
// fails the operation.
func (g *Git) AddFetch(ctx context.Context, remote, refspec string) error {
	if g.sink != nil {
		fmt.Fprintf(g.sink, "adding refspec '%s' to remote '%s'\n", refspec, remote)
	}
	clog.FromContext(ctx).Debugf("Adding refspec %q to remote %q in %s", refspec, remote, g.dir)

	lineToAdd := "fetch = " + refspec
	sectionHeader := fmt.Sprintf("[remote %q]", remote)
	configPath := filepath.Join(g.dir, ".git", "config")

	in, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("opening git config: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(configPath), "config*.tmp")
	if err != nil {
		return fmt.Errorf("creating replacement config: %w", err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed != lineToAdd {
			fmt.Fprintln(w, line)
		}
		if trimmed == sectionHeader {
			fmt.Fprintln(w, "\t"+lineToAdd)
		}
	}
	if err := scanner.Err(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("reading git config: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing replacement config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing replacement config: %w", err)
	}

	if err := os.Remove(configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("removing original git config: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		return fmt.Errorf("installing replacement config: %w", err)
	}
	return nil
}
