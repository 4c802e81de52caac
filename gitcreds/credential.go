/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package gitcreds

import (
	"context"

	"golang.org/x/oauth2"
)

// Credential is one entry from a credential store. The concrete kinds are
// SSHPrivateKey and AccessToken; transport provisioning only acts on the
// private-key kind and treats everything else as "no credential".
type Credential interface {
	// CredentialID returns the opaque identifier the credential is stored
	// under.
	CredentialID() string
}

// SSHPrivateKey is private-key material for SSH remotes.
type SSHPrivateKey struct {
	ID         string
	PrivateKey []byte
}

// CredentialID implements Credential.
func (c *SSHPrivateKey) CredentialID() string { return c.ID }

// AccessToken is a bearer-token credential for HTTPS remotes. It is carried
// for hosts that exchange tokens out of band and is never provisioned onto
// the SSH transport.
type AccessToken struct {
	ID     string
	Source oauth2.TokenSource
}

// CredentialID implements Credential.
func (c *AccessToken) CredentialID() string { return c.ID }

// Store resolves an opaque credential ID to zero or one credential. A miss
// is not an error: checkouts proceed unauthenticated without a match.
type Store interface {
	Lookup(ctx context.Context, id string) (Credential, bool)
}

// StaticStore is a fixed in-memory Store.
type StaticStore map[string]Credential

// NewStaticStore builds a StaticStore from the given credentials. When two
// credentials share an ID the first one wins.
func NewStaticStore(creds ...Credential) StaticStore {
	s := make(StaticStore, len(creds))
	for _, c := range creds {
		if _, ok := s[c.CredentialID()]; !ok {
			s[c.CredentialID()] = c
		}
	}
	return s
}

// Lookup implements Store.
func (s StaticStore) Lookup(_ context.Context, id string) (Credential, bool) {
	c, ok := s[id]
	return c, ok
}
