/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitcreds

import (
	"context"
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
)

// WithCredential runs op under the transport environment implied by cred.
//
// A nil credential, or any kind other than SSHPrivateKey, invokes op with no
// environment override. For a private key, the key material is written to a
// short-lived file (0700) and a wrapper script (0755) pointing ssh at it;
// op receives GIT_SSH naming that script. Both files are removed on every
// exit path, script first, and key removal does not depend on the script
// removal succeeding.
//
// Provisioning has real cost (two files per call), so only operations that
// actually reach the network should be wrapped.
func WithCredential[T any](ctx context.Context, cred Credential, op func(transportEnv []string) (T, error)) (T, error) {
	key, ok := cred.(*SSHPrivateKey)
	if !ok {
		return op(nil)
	}

	log := clog.FromContext(ctx)
	var zero T

	keyPath, err := writeTempFile("ssh", ".pem", key.PrivateKey, 0o700)
	if err != nil {
		return zero, fmt.Errorf("writing ssh key file: %w", err)
	}
	defer func() {
		if rerr := os.Remove(keyPath); rerr != nil {
			log.Warnf("Removing ssh key file: %v", rerr)
		}
	}()

	wrapper := fmt.Sprintf("#!/bin/bash\nssh -i '%s' \"$@\"", keyPath)
	wrapperPath, err := writeTempFile("gitssh", ".sh", []byte(wrapper), 0o755)
	if err != nil {
		return zero, fmt.Errorf("writing ssh wrapper script: %w", err)
	}
	defer func() {
		if rerr := os.Remove(wrapperPath); rerr != nil {
			log.Warnf("Removing ssh wrapper script: %v", rerr)
		}
	}()

	return op([]string{"GIT_SSH=" + wrapperPath})
}

func writeTempFile(prefix, suffix string, content []byte, mode os.FileMode) (string, error) {
	f, err := os.CreateTemp("", prefix+"*"+suffix)
	if err != nil {
		return "", err
	}
	path := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	if err := os.Chmod(path, mode); err != nil {
		os.Remove(path)
		return "", err
	}

	return path, nil
}
