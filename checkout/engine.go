/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"chainguard.dev/simplegit/gitcli"
	"chainguard.dev/simplegit/gitcreds"
	"chainguard.dev/simplegit/gitexec"
	"github.com/chainguard-dev/clog"
)

// originRemote is the remote every reconciliation pins to the spec's URL.
const originRemote = "origin"

// Engine reconciles workspaces onto the repository states specs describe.
// An Engine holds no per-checkout state and is safe for concurrent use as
// long as no two checkouts share a workspace.
type Engine struct {
	gitPath     string
	retries     int
	store       gitcreds.Store
	buildLog    io.Writer
	logCommands bool
	runner      gitexec.Runner
}

// New returns an Engine that drives the git binary at gitPath. A blank path
// is a configuration error.
func New(gitPath string, opts ...Option) (*Engine, error) {
	if strings.TrimSpace(gitPath) == "" {
		return nil, gitcli.ErrNoExecutable
	}

	e := &Engine{
		gitPath: gitPath,
		retries: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Result is what a successful checkout hands back.
type Result struct {
	// Metadata identifies the commit the workspace was left on.
	Metadata CommitMetadata

	// Changes is the raw change text for the resolved revision range.
	// Ownership passes to the caller; the engine persists nothing.
	Changes string
}

// Checkout reconciles ws onto the state spec describes and reports what it
// landed on. env is the snapshot variable references in the spec expand
// against. Attempts that fail with a git execution error empty the
// workspace and retry while budget remains; every other failure aborts
// immediately.
func (e *Engine) Checkout(ctx context.Context, ws Workspace, spec RepositorySpec, env map[string]string) (_ *Result, err error) {
	started := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "failure"
		}
		checkoutCounter.WithLabelValues(status).Inc()
		durationHistogram.Observe(time.Since(started).Seconds())
	}()

	resolved := spec.resolve(env)
	log := clog.FromContext(ctx).With("workspace", ws.Root(), "url", resolved.url)

	e.printf("SimpleGit: checking out\n")

	if spec.ClearWorkspace {
		e.printf("Clear Workspace enabled: deleting contents of %s.\n", ws.Root())
		log.Infof("Clearing workspace before checkout")
		if err := e.wipe(ws); err != nil {
			return nil, err
		}
	}

	g, err := e.facade(ws, e.lookupCredential(ctx, spec.CredentialID))
	if err != nil {
		return nil, err
	}

	attempts := e.retries
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		attemptCounter.Inc()
		rerr := e.reconcile(ctx, g, ws, resolved)
		if rerr == nil {
			break
		}
		if !isRetryable(rerr) {
			return nil, rerr
		}

		log.With("attempt", attempt, "budget", attempts).Warnf("Checkout attempt failed: %v", rerr)
		e.printf("----------------------\n")
		e.printf("An error has occurred while reconciling the repository. Cleaning workspace and checking out clean.\n")
		e.printf("----------------------\n")
		e.printf("%v\n", rerr)
		e.printf("----------------------\n")

		if werr := e.wipe(ws); werr != nil {
			return nil, werr
		}
		if attempt >= attempts {
			return nil, rerr
		}
	}

	head, err := g.ShowHead(ctx)
	if err != nil {
		return nil, err
	}
	e.printf("%s\n", head)

	metadata, err := resolveMetadata(ctx, g)
	if err != nil {
		return nil, err
	}

	changes, err := g.WhatChanged(ctx, resolved.start, resolved.end, spec.ExpandMerges, spec.IncludeMergeCommits)
	if err != nil {
		return nil, err
	}

	log.With("head", metadata.Hash).Infof("Checkout complete")
	return &Result{Metadata: *metadata, Changes: changes}, nil
}

// reconcile makes one attempt at bringing the workspace onto the resolved
// state, reusing the repository already there when one exists.
func (e *Engine) reconcile(ctx context.Context, g *gitcli.Git, ws Workspace, r resolvedSpec) error {
	hasRepo, err := ws.HasRepository()
	if err != nil {
		return err
	}
	if hasRepo {
		return e.syncExisting(ctx, g, r)
	}
	return e.cloneFresh(ctx, g, r)
}

// syncExisting discards local state in an existing repository, repoints the
// origin remote if the spec's URL moved, and brings the workspace onto the
// end revision.
func (e *Engine) syncExisting(ctx context.Context, g *gitcli.Git, r resolvedSpec) error {
	log := clog.FromContext(ctx)
	log.Debugf("Reusing existing repository in %s", g.Dir())

	if err := g.Reset(ctx); err != nil {
		return err
	}
	if err := g.Clean(ctx); err != nil {
		return err
	}

	url, err := g.RemoteGetURL(ctx, originRemote)
	if err != nil {
		return err
	}
	if url != r.url {
		log.With("old", url, "new", r.url).Infof("Repointing %s remote", originRemote)
		if err := g.RemoteSetURL(ctx, originRemote, r.url); err != nil {
			return err
		}
	}

	if err := g.Fetch(ctx, originRemote, r.refspecs...); err != nil {
		return err
	}
	if err := g.Checkout(ctx, r.end); err != nil {
		return err
	}
	return g.RevParse(ctx, "HEAD")
}

// cloneFresh populates an empty workspace from scratch.
func (e *Engine) cloneFresh(ctx context.Context, g *gitcli.Git, r resolvedSpec) error {
	clog.FromContext(ctx).Infof("Cloning %s into %s", r.url, g.Dir())

	if err := g.Clone(ctx, r.url); err != nil {
		return err
	}
	if err := g.Fetch(ctx, originRemote, r.refspecs...); err != nil {
		return err
	}
	if err := g.Checkout(ctx, r.end); err != nil {
		return err
	}
	return g.RevParse(ctx, "HEAD")
}

// facade builds the per-checkout git facade bound to the workspace root.
// The build log is only handed down when command logging is on; the
// engine's own banners go to it regardless.
func (e *Engine) facade(ws Workspace, cred gitcreds.Credential) (*gitcli.Git, error) {
	opts := []gitcli.Option{gitcli.WithCredential(cred)}
	if e.logCommands && e.buildLog != nil {
		opts = append(opts, gitcli.WithSink(e.buildLog))
	}
	if e.runner != nil {
		opts = append(opts, gitcli.WithRunner(e.runner))
	}
	return gitcli.New(e.gitPath, ws.Root(), opts...)
}

// lookupCredential resolves the spec's credential ID against the store. A
// missing store, blank ID, or unresolved ID all mean the checkout proceeds
// unauthenticated.
func (e *Engine) lookupCredential(ctx context.Context, id string) gitcreds.Credential {
	if e.store == nil || id == "" {
		return nil
	}
	cred, ok := e.store.Lookup(ctx, id)
	if !ok {
		clog.FromContext(ctx).With("credential", id).Warnf("No credential found, proceeding unauthenticated")
		return nil
	}
	return cred
}

func (e *Engine) wipe(ws Workspace) error {
	wipeCounter.Inc()
	return ws.DeleteContents()
}

func (e *Engine) printf(format string, args ...any) {
	if e.buildLog != nil {
		fmt.Fprintf(e.buildLog, format, args...)
	}
}

// isRetryable reports whether err is a git execution failure. Only those
// are worth reattempting on a wiped workspace; IO, parse, and configuration
// errors abort the checkout.
func isRetryable(err error) bool {
	var execErr *gitexec.ExecError
	return errors.As(err, &execErr)
}
