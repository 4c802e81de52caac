/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func gitPath(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("git")
	if err != nil {
		t.Skip("no git binary on PATH")
	}
	return path
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, message string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("opening worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("staging %s: %v", name, err)
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("committing %s: %v", name, err)
	}
	return hash.String()
}

// newOrigin builds a two-commit origin repository and returns its path and
// head hash. It skips the test when this git version gates whatchanged
// (2.51 deprecated it behind --i-still-use-this).
func newOrigin(t *testing.T, gitPath string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("initializing origin: %v", err)
	}
	commitFile(t, repo, dir, "README.md", "hello\n", "Initial import")
	head := commitFile(t, repo, dir, "main.go", "package main\n", "Add entrypoint")

	probe := exec.Command(gitPath, "whatchanged", "-n1")
	probe.Dir = dir
	if out, err := probe.CombinedOutput(); err != nil {
		t.Skipf("git whatchanged unusable with this git version: %v\n%s", err, out)
	}
	return dir, head
}

func TestEngineIntegrationFreshClone(t *testing.T) {
	gp := gitPath(t)
	origin, head := newOrigin(t, gp)

	var buildLog bytes.Buffer
	e, err := New(gp, WithBuildLog(&buildLog), WithCommandLogging(true))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ws := Dir(t.TempDir())
	res, err := e.Checkout(context.Background(), ws, NewRepositorySpec(origin, nil, "", ""), nil)
	if err != nil {
		t.Fatalf("Checkout() returned error: %v", err)
	}

	if res.Metadata.Hash != head {
		t.Errorf("Hash = %q, want %q", res.Metadata.Hash, head)
	}
	if res.Metadata.AuthorName != "Test User" {
		t.Errorf("AuthorName = %q, want Test User", res.Metadata.AuthorName)
	}
	if res.Metadata.CommitterEmail != "test@example.com" {
		t.Errorf("CommitterEmail = %q, want test@example.com", res.Metadata.CommitterEmail)
	}
	if res.Metadata.Message != "Add entrypoint" {
		t.Errorf("Message = %q, want Add entrypoint", res.Metadata.Message)
	}
	if !strings.Contains(res.Changes, head) {
		t.Errorf("Changes missing head commit:\n%s", res.Changes)
	}

	if _, err := os.Stat(filepath.Join(string(ws), "main.go")); err != nil {
		t.Errorf("workspace missing cloned content: %v", err)
	}

	transcript := buildLog.String()
	for _, want := range []string{"SimpleGit: checking out", "Executing:", "commit"} {
		if !strings.Contains(transcript, want) {
			t.Errorf("transcript missing %q:\n%s", want, transcript)
		}
	}
}

func TestEngineIntegrationReusesAndCleans(t *testing.T) {
	gp := gitPath(t)
	origin, head := newOrigin(t, gp)

	e, err := New(gp)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ws := Dir(t.TempDir())
	spec := NewRepositorySpec(origin, nil, "", "")
	if _, err := e.Checkout(context.Background(), ws, spec, nil); err != nil {
		t.Fatalf("first Checkout() returned error: %v", err)
	}

	// Dirty the workspace: an untracked build artifact and a modified
	// tracked file.
	artifact := filepath.Join(string(ws), "build.out")
	if err := os.WriteFile(artifact, []byte("stale"), 0o644); err != nil {
		t.Fatalf("writing artifact: %v", err)
	}
	if err := os.WriteFile(filepath.Join(string(ws), "README.md"), []byte("scribbled\n"), 0o644); err != nil {
		t.Fatalf("modifying README: %v", err)
	}

	res, err := e.Checkout(context.Background(), ws, spec, nil)
	if err != nil {
		t.Fatalf("second Checkout() returned error: %v", err)
	}
	if res.Metadata.Hash != head {
		t.Errorf("Hash = %q, want %q", res.Metadata.Hash, head)
	}

	if _, err := os.Stat(artifact); !os.IsNotExist(err) {
		t.Errorf("untracked artifact survived the clean: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(string(ws), "README.md"))
	if err != nil {
		t.Fatalf("reading README: %v", err)
	}
	if string(b) != "hello\n" {
		t.Errorf("README = %q, want the committed content", b)
	}
}

func TestEngineIntegrationRecoversFromCorruptRepository(t *testing.T) {
	gp := gitPath(t)
	origin, head := newOrigin(t, gp)

	e, err := New(gp, WithRetries(2))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ws := Dir(t.TempDir())
	spec := NewRepositorySpec(origin, nil, "", "")
	if _, err := e.Checkout(context.Background(), ws, spec, nil); err != nil {
		t.Fatalf("first Checkout() returned error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(string(ws), ".git", "HEAD"), []byte("garbage\n"), 0o644); err != nil {
		t.Fatalf("corrupting HEAD: %v", err)
	}

	res, err := e.Checkout(context.Background(), ws, spec, nil)
	if err != nil {
		t.Fatalf("recovery Checkout() returned error: %v", err)
	}
	if res.Metadata.Hash != head {
		t.Errorf("Hash = %q, want %q", res.Metadata.Hash, head)
	}
}

func TestEngineIntegrationRepointsMovedOrigin(t *testing.T) {
	gp := gitPath(t)
	originA, headA := newOrigin(t, gp)
	originB, headB := newOrigin(t, gp)

	e, err := New(gp)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	// origin/master tracks whatever the remote's master points at, so it
	// follows the repoint where a plain HEAD would not.
	ws := Dir(t.TempDir())
	res, err := e.Checkout(context.Background(), ws, NewRepositorySpec(originA, nil, "", "origin/master"), nil)
	if err != nil {
		t.Fatalf("Checkout() from first origin returned error: %v", err)
	}
	if res.Metadata.Hash != headA {
		t.Errorf("Hash = %q, want %q", res.Metadata.Hash, headA)
	}

	res, err = e.Checkout(context.Background(), ws, NewRepositorySpec(originB, nil, "", "origin/master"), nil)
	if err != nil {
		t.Fatalf("Checkout() from moved origin returned error: %v", err)
	}
	if res.Metadata.Hash != headB {
		t.Errorf("Hash = %q, want %q", res.Metadata.Hash, headB)
	}
}
