/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitexec runs external commands on the host that owns a checkout
// workspace and turns their outcome into structured results.
//
// The Runner interface is the execution seam: Local runs commands as child
// processes of the current one, and a remote-execution backend can be
// substituted without changing any caller. Output is always the merged
// stdout+stderr text in emission order; a non-zero exit code is returned as
// an *ExecError carrying the exit code and that same merged text, so callers
// never see partial results.
package gitexec
