/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRepositorySpecDefaults(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{{
		name:      "both blank",
		wantStart: "HEAD^",
		wantEnd:   "HEAD",
	}, {
		name:      "whitespace counts as blank",
		start:     "   ",
		end:       "\t",
		wantStart: "HEAD^",
		wantEnd:   "HEAD",
	}, {
		name:      "start derived from explicit end",
		end:       "v2",
		wantStart: "v2^",
		wantEnd:   "v2",
	}, {
		name:      "start derived from unexpanded reference",
		end:       "$TAG",
		wantStart: "$TAG^",
		wantEnd:   "$TAG",
	}, {
		name:      "both explicit",
		start:     "v1",
		end:       "v2",
		wantStart: "v1",
		wantEnd:   "v2",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := NewRepositorySpec("git@github.com:example/app.git", nil, tt.start, tt.end)
			if spec.RevisionRangeStart != tt.wantStart {
				t.Errorf("RevisionRangeStart = %q, want %q", spec.RevisionRangeStart, tt.wantStart)
			}
			if spec.RevisionRangeEnd != tt.wantEnd {
				t.Errorf("RevisionRangeEnd = %q, want %q", spec.RevisionRangeEnd, tt.wantEnd)
			}
		})
	}
}

func TestResolveExpandsAndDefaults(t *testing.T) {
	tests := []struct {
		name string
		spec RepositorySpec
		env  map[string]string
		want resolvedSpec
	}{{
		name: "constructed spec expands through the derived start",
		spec: NewRepositorySpec("${HOST}/app.git", nil, "", "$TAG"),
		env:  map[string]string{"HOST": "git@github.com:example", "TAG": "v2.0"},
		want: resolvedSpec{
			url:   "git@github.com:example/app.git",
			start: "v2.0^",
			end:   "v2.0",
		},
	}, {
		name: "unset references collapse to execution defaults",
		spec: RepositorySpec{
			RemoteURL:          "git@github.com:example/app.git",
			RevisionRangeStart: "$UNSET_START",
			RevisionRangeEnd:   "$UNSET_END",
		},
		want: resolvedSpec{
			url:   "git@github.com:example/app.git",
			start: "HEAD^1",
			end:   "HEAD",
		},
	}, {
		name: "blank start defaults against the expanded end",
		spec: RepositorySpec{
			RemoteURL:        "git@github.com:example/app.git",
			RevisionRangeEnd: "$TAG",
		},
		env: map[string]string{"TAG": "release-7"},
		want: resolvedSpec{
			url:   "git@github.com:example/app.git",
			start: "release-7^1",
			end:   "release-7",
		},
	}, {
		name: "refspecs expand entry by entry",
		spec: RepositorySpec{
			RemoteURL:          "git@github.com:example/app.git",
			RefSpecs:           []string{"+refs/tags/${TAG}:refs/tags/${TAG}", "static"},
			RevisionRangeStart: "a",
			RevisionRangeEnd:   "b",
		},
		env: map[string]string{"TAG": "v9"},
		want: resolvedSpec{
			url:      "git@github.com:example/app.git",
			refspecs: []string{"+refs/tags/v9:refs/tags/v9", "static"},
			start:    "a",
			end:      "b",
		},
	}, {
		name: "nil environment",
		spec: NewRepositorySpec("git@github.com:example/app.git", nil, "", ""),
		want: resolvedSpec{
			url:   "git@github.com:example/app.git",
			start: "HEAD^",
			end:   "HEAD",
		},
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.spec.resolve(tt.env)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(resolvedSpec{})); diff != "" {
				t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
