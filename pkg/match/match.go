// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package match implements the loose wildcard filter used to pick remote files by name.
//
// A pattern is split on '*' and a name matches when every non-empty piece occurs somewhere in
// it. Piece order and anchoring are not checked, so "A*B" matches "BA". Callers rely on this.
package match

import (
	"strings"

	"github.com/walteh/boxsync/pkg/remote"
)

// Matches reports whether name matches pattern and contains none of the comma separated
// exclusion terms in exclude. An empty pattern matches every name.
func Matches(name, pattern, exclude string) bool {
	return New(pattern, exclude).Match(name)
}

// 🎯 Matcher is a compiled pattern plus exclusions
type Matcher struct {
	pieces     []string
	exclusions []string
}

// New compiles pattern and the comma separated exclude list
func New(pattern, exclude string) *Matcher {
	return &Matcher{
		pieces:     split(pattern, "*"),
		exclusions: split(exclude, ","),
	}
}

// split drops the empty pieces produced by leading, trailing or repeated separators
func split(s, sep string) []string {
	out := []string{}
	for _, p := range strings.Split(s, sep) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Match applies the pattern and exclusions to name
func (m *Matcher) Match(name string) bool {
	for _, p := range m.pieces {
		if !strings.Contains(name, p) {
			return false
		}
	}
	for _, x := range m.exclusions {
		if strings.Contains(name, x) {
			return false
		}
	}
	return true
}

// Filter keeps the entries whose name matches, in order
func (m *Matcher) Filter(entries []remote.Entry) []remote.Entry {
	out := []remote.Entry{}
	for _, e := range entries {
		if m.Match(e.Name) {
			out = append(out, e)
		}
	}
	return out
}
