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

package operation

import (
	"context"

	"github.com/walteh/boxsync/pkg/match"
	"github.com/walteh/boxsync/pkg/remote"
	"github.com/walteh/boxsync/pkg/remote/box"
	"gitlab.com/tozd/go/errors"
)

// ErrUnsupported is returned when the configured provider cannot run an operation
var ErrUnsupported = errors.Base("operation not supported by provider")

type searcher interface {
	Search(ctx context.Context, query string, opts box.SearchOptions) ([]remote.Entry, error)
}

type folderInspector interface {
	FolderInfo(ctx context.Context, folderID string) (box.FolderInfo, error)
}

// Search asks the remote for items named like pattern, then applies the loose matcher
// and the exclusions to what came back.
func (o *Operator) Search(ctx context.Context, pattern, exclude string, opts box.SearchOptions) ([]remote.Entry, error) {
	s, ok := o.client.(searcher)
	if !ok {
		return nil, errors.Errorf("search: %w", ErrUnsupported)
	}

	entries, err := s.Search(ctx, pattern, opts)
	if err != nil {
		return nil, errors.Errorf("searching: %w", err)
	}

	return match.New(pattern, exclude).Filter(entries), nil
}

// Info returns the name and owner of a folder
func (o *Operator) Info(ctx context.Context, folderID string) (box.FolderInfo, error) {
	fi, ok := o.client.(folderInspector)
	if !ok {
		return box.FolderInfo{}, errors.Errorf("folder info: %w", ErrUnsupported)
	}

	info, err := fi.FolderInfo(ctx, folderID)
	if err != nil {
		return box.FolderInfo{}, errors.Errorf("getting folder info: %w", err)
	}
	return info, nil
}
