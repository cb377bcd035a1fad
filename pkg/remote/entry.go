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

package remote

import "fmt"

// Kind tags a listed Entry
type Kind int

const (
	KindUnknown Kind = iota
	KindFile
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return "unknown"
	}
}

// ParseKind maps a remote type string onto a Kind.
// Box reports "file"/"folder", GitHub reports "file"/"dir".
func ParseKind(s string) Kind {
	switch s {
	case "file":
		return KindFile
	case "folder", "dir":
		return KindFolder
	default:
		return KindUnknown
	}
}

// Entry is one listed child of a remote folder. It is a transient view of remote state.
type Entry struct {
	ID   string
	Name string
	Kind Kind
}

func (e Entry) IsFile() bool   { return e.Kind == KindFile }
func (e Entry) IsFolder() bool { return e.Kind == KindFolder }

func (e Entry) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Kind, e.Name, e.ID)
}

// Page is one batch of a folder listing.
// NextOffset is where the following page starts; HasMore reports whether the remote claims more entries exist.
type Page struct {
	Entries    []Entry
	NextOffset int
	HasMore    bool
}

// IDs returns the identifiers of entries, in order
func IDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
