/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/simplegit/gitcli"
)

// ErrUnexpectedLogFormat reports HEAD metadata output that does not match
// the requested log format. It is a parse failure, not an execution failure,
// and is never retried.
var ErrUnexpectedLogFormat = errors.New("unexpected git log output format")

// EnvPrefix is prepended to every variable name CommitMetadata exports.
const EnvPrefix = "SIMPLE_GIT_"

// CommitMetadata identifies the commit a checkout landed on.
type CommitMetadata struct {
	Hash           string
	CommitterName  string
	AuthorName     string
	CommitterEmail string
	AuthorEmail    string
	Message        string
}

// EnvVars renders the metadata as the fixed set of exported variables that
// downstream build steps consume.
func (m CommitMetadata) EnvVars() map[string]string {
	return map[string]string{
		EnvPrefix + "HEAD":            m.Hash,
		EnvPrefix + "COMMITTER":       m.CommitterName,
		EnvPrefix + "AUTHOR":          m.AuthorName,
		EnvPrefix + "COMMITTER_EMAIL": m.CommitterEmail,
		EnvPrefix + "AUTHOR_EMAIL":    m.AuthorEmail,
		EnvPrefix + "COMMIT_MESSAGE":  m.Message,
	}
}

// metadataFormat asks git for the five identity fields, one per line, in the
// order the parser consumes them: hash, committer name, author name,
// committer email, author email.
const metadataFormat = "--pretty=%H%n%cn%n%an%n%ce%n%ae"

// resolveMetadata reads the identity of HEAD in the repository g is bound
// to. The commit message comes from a second log call so that multi-line
// messages cannot shift the field positions.
func resolveMetadata(ctx context.Context, g *gitcli.Git) (*CommitMetadata, error) {
	out, err := g.Log(ctx, "-n1", metadataFormat)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 5 {
		return nil, fmt.Errorf("%w: want 5 lines, got %d", ErrUnexpectedLogFormat, len(lines))
	}

	message, err := g.Log(ctx, "-n1", "--pretty=%B")
	if err != nil {
		return nil, err
	}

	return &CommitMetadata{
		Hash:           lines[0],
		CommitterName:  lines[1],
		AuthorName:     lines[2],
		CommitterEmail: lines[3],
		AuthorEmail:    lines[4],
		Message:        strings.TrimSuffix(message, "\n"),
	}, nil
}
