/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the simplegit checkout runner. It reads a YAML
// manifest of checkout jobs and reconciles each workspace onto the
// repository state the job declares, writing the change report and the
// commit variables where the job asks for them.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"chainguard.dev/simplegit/checkout"
	"chainguard.dev/simplegit/gitcreds"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type config struct {
	Manifest    string `env:"SIMPLEGIT_MANIFEST,default=simplegit.yaml"`
	GitPath     string `env:"SIMPLEGIT_GIT_PATH,default=git"`
	Retries     int    `env:"SIMPLEGIT_RETRIES,default=1"`
	Concurrency int    `env:"SIMPLEGIT_CONCURRENCY,default=4"`
}

// manifest is the on-disk description of what to check out.
type manifest struct {
	Credentials []credentialEntry `yaml:"credentials,omitempty"`
	Jobs        []job             `yaml:"jobs"`
}

// credentialEntry names an SSH private key on disk.
type credentialEntry struct {
	ID             string `yaml:"id"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// job pairs a workspace with the repository state to reconcile it onto.
type job struct {
	Name       string                  `yaml:"name"`
	Workspace  string                  `yaml:"workspace"`
	Repository checkout.RepositorySpec `yaml:"repository"`

	// GitLogging echoes each git invocation into the job transcript.
	GitLogging bool `yaml:"gitLogging,omitempty"`

	// Changelog and EnvFile are output paths. Blank skips the write.
	Changelog string `yaml:"changelog,omitempty"`
	EnvFile   string `yaml:"envFile,omitempty"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	m, err := loadManifest(cfg.Manifest)
	if err != nil {
		clog.FatalContextf(ctx, "loading manifest: %v", err)
	}

	store, err := buildStore(m.Credentials)
	if err != nil {
		clog.FatalContextf(ctx, "loading credentials: %v", err)
	}

	// One snapshot for every job, taken before anything runs.
	env := environSnapshot(os.Environ())

	clog.InfoContextf(ctx, "Running %d checkout jobs from %s", len(m.Jobs), cfg.Manifest)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Concurrency)
	for _, j := range m.Jobs {
		j := j // per-iteration copy; the closure below runs concurrently
		eg.Go(func() error {
			return runJob(ctx, cfg, store, j, env)
		})
	}
	if err := eg.Wait(); err != nil {
		clog.FatalContextf(ctx, "checkout failed: %v", err)
	}
	clog.InfoContextf(ctx, "All checkouts complete")
}

// runJob reconciles one workspace and writes the job's outputs. The job
// transcript is buffered and flushed to stdout in one piece so concurrent
// jobs do not interleave.
func runJob(ctx context.Context, cfg config, store gitcreds.Store, j job, env map[string]string) error {
	log := clog.FromContext(ctx).With("job", j.Name, "workspace", j.Workspace)

	if err := os.MkdirAll(j.Workspace, 0o755); err != nil {
		return fmt.Errorf("creating workspace for %s: %w", j.Name, err)
	}

	var transcript bytes.Buffer
	engine, err := checkout.New(cfg.GitPath,
		checkout.WithRetries(cfg.Retries),
		checkout.WithCredentialStore(store),
		checkout.WithBuildLog(&transcript),
		checkout.WithCommandLogging(j.GitLogging),
	)
	if err != nil {
		return err
	}

	res, cerr := engine.Checkout(ctx, checkout.Dir(j.Workspace), j.Repository, env)
	if transcript.Len() > 0 {
		os.Stdout.Write(transcript.Bytes())
	}
	if cerr != nil {
		return fmt.Errorf("job %s: %w", j.Name, cerr)
	}

	if j.Changelog != "" {
		if err := os.WriteFile(j.Changelog, []byte(res.Changes), 0o644); err != nil {
			return fmt.Errorf("writing changelog for %s: %w", j.Name, err)
		}
	}
	if j.EnvFile != "" {
		if err := writeEnvFile(j.EnvFile, res.Metadata.EnvVars()); err != nil {
			return fmt.Errorf("writing env file for %s: %w", j.Name, err)
		}
	}

	log.With("head", res.Metadata.Hash).Infof("Checkout complete")
	return nil
}

// loadManifest reads and validates the YAML manifest at path. Every job
// needs a workspace and a repository URL, and no two jobs may share a
// workspace: checkouts are only serialized per workspace by keeping each
// one in a single job.
func loadManifest(path string) (*manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(m.Jobs) == 0 {
		return nil, fmt.Errorf("manifest %s declares no jobs", path)
	}

	seen := make(map[string]string, len(m.Jobs))
	for i, j := range m.Jobs {
		if j.Workspace == "" {
			return nil, fmt.Errorf("job %d (%s) has no workspace", i, j.Name)
		}
		if j.Repository.RemoteURL == "" {
			return nil, fmt.Errorf("job %d (%s) has no repository url", i, j.Name)
		}
		if prev, ok := seen[j.Workspace]; ok {
			return nil, fmt.Errorf("jobs %s and %s share workspace %s", prev, j.Name, j.Workspace)
		}
		seen[j.Workspace] = j.Name
	}
	return &m, nil
}

// buildStore loads the manifest's SSH keys into an in-memory store.
func buildStore(entries []credentialEntry) (gitcreds.Store, error) {
	creds := make([]gitcreds.Credential, 0, len(entries))
	for _, e := range entries {
		key, err := os.ReadFile(e.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading key for credential %q: %w", e.ID, err)
		}
		creds = append(creds, &gitcreds.SSHPrivateKey{ID: e.ID, PrivateKey: key})
	}
	return gitcreds.NewStaticStore(creds...), nil
}

// environSnapshot converts KEY=value pairs into the map the engine expands
// variable references against. Entries without a separator are dropped.
func environSnapshot(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// writeEnvFile renders vars as sorted KEY=value lines. Values stay on one
// line each: newlines in commit messages are escaped as \n.
func writeEnvFile(path string, vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		v := strings.ReplaceAll(vars[k], "\n", "\\n")
		fmt.Fprintf(&sb, "%s=%s\n", k, v)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
