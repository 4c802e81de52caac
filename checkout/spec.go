/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"os"
	"strings"
)

// RepositorySpec names the repository state a workspace should be reconciled
// onto. The URL, refspecs, and revision range may reference environment
// variables as $NAME or ${NAME}; references are expanded against the
// environment snapshot handed to Checkout, not the process environment.
type RepositorySpec struct {
	// RemoteURL is where the repository lives. SSH and HTTPS forms both
	// work; the credential (if any) only ever rides the SSH transport.
	RemoteURL string `yaml:"url"`

	// RefSpecs are fetched from origin alongside the remote's defaults.
	// Entries are trimmed and blank ones dropped at fetch time.
	RefSpecs []string `yaml:"refSpecs,omitempty"`

	// RevisionRangeStart and RevisionRangeEnd bound the change report.
	// RevisionRangeEnd is also the commitish the workspace is left on.
	RevisionRangeStart string `yaml:"startRevision,omitempty"`
	RevisionRangeEnd   string `yaml:"endRevision,omitempty"`

	// ExpandMerges reports each merge as per-parent diffs instead of the
	// collapsed combined form.
	ExpandMerges bool `yaml:"expandMerges,omitempty"`

	// IncludeMergeCommits restricts the change report to first-parent
	// history, so merges appear without the commits reachable only
	// through their other parents.
	IncludeMergeCommits bool `yaml:"includeMergeCommits,omitempty"`

	// ClearWorkspace empties the workspace before the repository presence
	// check, forcing a fresh clone.
	ClearWorkspace bool `yaml:"clearWorkspace,omitempty"`

	// CredentialID names the stored credential for network operations.
	// Blank, or an ID the store cannot resolve, proceeds unauthenticated.
	CredentialID string `yaml:"credentialId,omitempty"`
}

// NewRepositorySpec returns a spec for url with the construction-time range
// defaults applied: a blank end revision becomes HEAD, and a blank start
// revision becomes the end revision's first parent (end + "^"). The defaults
// apply to the raw strings before any variable expansion, so a start default
// derived from an end like "$TAG" is "$TAG^".
func NewRepositorySpec(url string, refspecs []string, startRevision, endRevision string) RepositorySpec {
	if strings.TrimSpace(endRevision) == "" {
		endRevision = "HEAD"
	}
	if strings.TrimSpace(startRevision) == "" {
		startRevision = endRevision + "^"
	}
	return RepositorySpec{
		RemoteURL:          url,
		RefSpecs:           refspecs,
		RevisionRangeStart: startRevision,
		RevisionRangeEnd:   endRevision,
	}
}

// resolvedSpec is a RepositorySpec after environment expansion, with the
// execution-time defaults applied to whatever expanded to nothing.
type resolvedSpec struct {
	url      string
	refspecs []string
	start    string
	end      string
}

// resolve expands the spec's URL, refspecs, and revision range against env.
// Unknown variables expand to the empty string. An end revision that expands
// to nothing falls back to HEAD, and a start revision that expands to nothing
// falls back to the expanded end's first parent, spelled end + "^1" on this
// path. Specs that skipped NewRepositorySpec still end up with a usable
// range here.
func (s RepositorySpec) resolve(env map[string]string) resolvedSpec {
	expand := func(v string) string {
		return os.Expand(v, func(name string) string { return env[name] })
	}

	r := resolvedSpec{
		url:   expand(s.RemoteURL),
		start: expand(s.RevisionRangeStart),
		end:   expand(s.RevisionRangeEnd),
	}
	for _, rs := range s.RefSpecs {
		r.refspecs = append(r.refspecs, expand(rs))
	}

	if r.end == "" {
		r.end = "HEAD"
	}
	if r.start == "" {
		r.start = r.end + "^1"
	}
	return r
}
