/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"chainguard.dev/simplegit/gitcreds"
	"chainguard.dev/simplegit/gitexec"
)

// ErrNoExecutable reports a facade constructed without a git executable
// path. This is a configuration problem and surfaces before any workspace
// mutation.
var ErrNoExecutable = errors.New("git executable path is empty")

// Git issues git commands inside one workspace directory.
type Git struct {
	path   string
	dir    string
	sink   io.Writer
	cred   gitcreds.Credential
	runner gitexec.Runner
}

// New returns a facade bound to the workspace directory dir, invoking the
// git binary at gitPath.
func New(gitPath, dir string, opts ...Option) (*Git, error) {
	if strings.TrimSpace(gitPath) == "" {
		return nil, ErrNoExecutable
	}

	g := &Git{path: gitPath, dir: dir}
	for _, opt := range opts {
		opt(g)
	}
	if g.runner == nil {
		g.runner = gitexec.Local{Sink: g.sink}
	}
	return g, nil
}

// Dir returns the workspace directory the facade operates in.
func (g *Git) Dir() string { return g.dir }

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	return g.runner.Run(ctx, gitexec.Command{
		Dir:  g.dir,
		Argv: append([]string{g.path}, args...),
	})
}

// runAuth is run under the facade's credential. Only commands that touch
// the network should pay the provisioning cost.
func (g *Git) runAuth(ctx context.Context, args ...string) (string, error) {
	return gitcreds.WithCredential(ctx, g.cred, func(env []string) (string, error) {
		return g.runner.Run(ctx, gitexec.Command{
			Dir:  g.dir,
			Env:  env,
			Argv: append([]string{g.path}, args...),
		})
	})
}

// Clone clones url into the workspace directory itself, not a subdirectory.
func (g *Git) Clone(ctx context.Context, url string) error {
	_, err := g.runAuth(ctx, "clone", url, ".")
	return err
}

// Fetch fetches from the named remote. Refspecs are trimmed and blank
// entries dropped; when none survive the remote's default refspec applies.
// All surviving refspecs go out in a single fetch.
func (g *Git) Fetch(ctx context.Context, remote string, refspecs ...string) error {
	args := []string{"fetch", remote}
	for _, rs := range refspecs {
		if trimmed := strings.TrimSpace(rs); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	_, err := g.runAuth(ctx, args...)
	return err
}

// Pull pulls branch from the named remote.
func (g *Git) Pull(ctx context.Context, remote, branch string) error {
	_, err := g.runAuth(ctx, "pull", remote, branch)
	return err
}

// Checkout checks out the given commitish.
func (g *Git) Checkout(ctx context.Context, commitish string) error {
	_, err := g.run(ctx, "checkout", commitish)
	return err
}

// Reset discards local modifications with reset --hard. Extra arguments are
// passed through after --hard.
func (g *Git) Reset(ctx context.Context, extra ...string) error {
	_, err := g.run(ctx, append([]string{"reset", "--hard"}, extra...)...)
	return err
}

// Clean removes untracked files and directories, including ignored ones.
func (g *Git) Clean(ctx context.Context) error {
	_, err := g.run(ctx, "clean", "-f", "-d", "-x")
	return err
}

// RemoteGetURL returns the URL of the named remote, or "" when no remote by
// that name exists. A missing remote is not an error.
func (g *Git) RemoteGetURL(ctx context.Context, remote string) (string, error) {
	out, err := g.run(ctx, "remote", "-v")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == remote {
			return fields[1], nil
		}
	}
	return "", nil
}

// RemoteSetURL repoints the named remote at url.
func (g *Git) RemoteSetURL(ctx context.Context, remote, url string) error {
	_, err := g.run(ctx, "remote", "set-url", remote, url)
	return err
}

// Log runs git log with the given arguments and returns its output. Used
// for metadata queries with explicit --pretty formats.
func (g *Git) Log(ctx context.Context, args ...string) (string, error) {
	return g.run(ctx, append([]string{"log"}, args...)...)
}

// ShowHead returns the one-commit log of whatever HEAD points at.
func (g *Git) ShowHead(ctx context.Context) (string, error) {
	return g.run(ctx, "log", "-n1")
}

// WhatChanged returns the raw change records between start and end.
// includeMergeCommits restricts the walk to first-parent history, so merges
// appear without the commits reachable only through their other parents.
// expandMerges controls whether a merge's per-parent diffs are shown; when
// false the collapsed -m form is used. The two flags are independent.
func (g *Git) WhatChanged(ctx context.Context, start, end string, expandMerges, includeMergeCommits bool) (string, error) {
	args := []string{"whatchanged"}
	if includeMergeCommits {
		args = append(args, "--first-parent")
	}
	if !expandMerges {
		args = append(args, "-m")
	}
	args = append(args, "--pretty=raw", "--no-abbrev", "-M", start+".."+end)

	out, err := g.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if g.sink != nil {
		fmt.Fprintln(g.sink, out)
	}
	return out, nil
}

// RevParse resolves expr and writes the result to the sink. It exists only
// for the transcript: without a sink it returns immediately, skipping the
// subprocess.
func (g *Git) RevParse(ctx context.Context, expr string) error {
	if g.sink == nil {
		return nil
	}
	out, err := g.run(ctx, "rev-parse", expr)
	if err != nil {
		return err
	}
	fmt.Fprintln(g.sink, out)
	return nil
}
