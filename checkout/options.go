/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"io"

	"chainguard.dev/simplegit/gitcreds"
	"chainguard.dev/simplegit/gitexec"
)

// Option configures the Engine.
type Option func(*Engine)

// WithRetries sets the attempt budget for a checkout. The engine always
// makes at least one attempt, so values below one behave like one.
func WithRetries(n int) Option {
	return func(e *Engine) {
		e.retries = n
	}
}

// WithCredentialStore installs the store credential IDs are resolved
// against. Without a store every checkout runs unauthenticated.
func WithCredentialStore(s gitcreds.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithBuildLog directs the human-readable checkout transcript to w.
func WithBuildLog(w io.Writer) Option {
	return func(e *Engine) {
		e.buildLog = w
	}
}

// WithCommandLogging controls whether individual git invocations and their
// interesting output are echoed to the build log. Banner lines and the head
// summary appear either way.
func WithCommandLogging(enabled bool) Option {
	return func(e *Engine) {
		e.logCommands = enabled
	}
}

// WithRunner substitutes the command runner, e.g. to execute git on a
// remote build machine instead of the local host.
func WithRunner(r gitexec.Runner) Option {
	return func(e *Engine) {
		e.runner = r
	}
}
