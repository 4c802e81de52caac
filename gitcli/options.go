/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitcli

import (
	"io"

	"chainguard.dev/simplegit/gitcreds"
	"chainguard.dev/simplegit/gitexec"
)

// Option configures a Git facade.
type Option func(*Git)

// WithSink directs the command transcript and diagnostic output to w. With
// no sink, diagnostics that exist only for the transcript (RevParse) do not
// run at all.
func WithSink(w io.Writer) Option {
	return func(g *Git) {
		g.sink = w
	}
}

// WithCredential sets the credential used by network operations. Non-SSH
// credential kinds are carried but never provisioned.
func WithCredential(cred gitcreds.Credential) Option {
	return func(g *Git) {
		g.cred = cred
	}
}

// WithRunner substitutes the command execution backend. The default runs
// git as a local child process.
func WithRunner(r gitexec.Runner) Option {
	return func(g *Git) {
		g.runner = r
	}
}
