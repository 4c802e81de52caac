/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gitcreds models the credentials a checkout may use for remote git
// operations and provisions them for the transport.
//
// Credentials are a closed set of kinds looked up from a Store by opaque ID.
// Only the SSH private-key kind participates in transport provisioning:
// WithCredential materializes the key and a wrapper script just long enough
// to run a single operation under GIT_SSH, then removes both files on every
// exit path. Every other kind (or no credential at all) runs the operation
// with no transport override.
//
//	cred, ok := store.Lookup(ctx, "deploy-key")
//	if !ok {
//		// proceed unauthenticated
//	}
//	out, err := gitcreds.WithCredential(ctx, cred, func(env []string) (string, error) {
//		return runner.Run(ctx, gitexec.Command{Dir: dir, Env: env, Argv: argv})
//	})
package gitcreds
