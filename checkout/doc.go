/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package checkout reconciles build workspaces onto declared git repository
states. A RepositorySpec names the remote, an optional credential, extra
fetch refspecs, and the revision range a change report should cover; the
Engine makes the workspace match it, reusing an existing clone when it can
and starting over when it must.

# Reconciliation

A checkout first honors ClearWorkspace, then inspects the workspace. When a
repository is already present the engine discards local modifications and
untracked files, repoints the origin remote if the URL moved, fetches, and
checks out the end revision. Otherwise it clones and does the same. A
failed git invocation empties the workspace and retries from the clone path
while attempt budget remains; errors that are not git execution failures
abort immediately.

# Usage

	engine, err := checkout.New("git",
		checkout.WithRetries(3),
		checkout.WithCredentialStore(store),
		checkout.WithBuildLog(os.Stdout),
		checkout.WithCommandLogging(true),
	)
	if err != nil {
		return err
	}

	spec := checkout.NewRepositorySpec("git@github.com:example/app.git", nil, "", "${GIT_TAG}")
	result, err := engine.Checkout(ctx, checkout.Dir("/work/app"), spec, envSnapshot)
	if err != nil {
		return err
	}
	// result.Metadata identifies HEAD; result.Changes holds the raw
	// change text for the resolved revision range.

Successful checkouts report the commit they landed on as CommitMetadata,
whose EnvVars method renders the SIMPLE_GIT_* variables downstream build
steps consume.

Workspaces are not locked: the engine assumes the caller serializes
checkouts per workspace. Distinct workspaces can be reconciled concurrently
with one shared Engine.
*/
package checkout
