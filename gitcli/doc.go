/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitcli is a typed facade over the external git binary, scoped to
// the operation vocabulary a checkout needs: clone, fetch, checkout, reset,
// clean, pull, remote URL get/set, log, rev-parse and whatchanged.
//
// A Git value is bound to one workspace directory. Operations that reach the
// network (Clone, Fetch, Pull) run under the credential configured with
// WithCredential; everything else runs plainly. When a sink is configured
// with WithSink, command lines and diagnostic output are echoed to it as a
// human-readable transcript; without one, diagnostics such as RevParse skip
// their subprocess entirely.
//
//	g, err := gitcli.New("git", workspaceDir,
//		gitcli.WithSink(buildLog),
//		gitcli.WithCredential(cred),
//	)
//	if err != nil {
//		return err
//	}
//	if err := g.Clone(ctx, "git@github.com:org/repo.git"); err != nil {
//		return err
//	}
//	if err := g.Fetch(ctx, "origin", "+refs/heads/*:refs/remotes/origin/*"); err != nil {
//		return err
//	}
//	if err := g.Checkout(ctx, "HEAD"); err != nil {
//		return err
//	}
package gitcli
