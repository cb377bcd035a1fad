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

// Package listing enumerates the immediate children of remote folders, page by page.
package listing

import (
	"context"
	"iter"

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/metrics"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// DefaultPageSize matches the largest page Box serves
const DefaultPageSize = 1000

// 📋 Options bounds a listing
type Options struct {
	// PageSize is the number of entries requested per round trip, DefaultPageSize when <= 0
	PageSize int
	// MaxItems is a soft cap on the number of entries yielded; 0 means no cap.
	// The page in flight is always yielded in full, so up to PageSize-1 extra entries may come back.
	MaxItems int
}

func (o Options) pageSize() int {
	size := o.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if o.MaxItems > 0 && o.MaxItems < size {
		size = o.MaxItems
	}
	return size
}

// Children lazily enumerates the children of folderID. Pages are fetched one at a time, only
// when the consumer asks for more. A page error is yielded once and ends the sequence.
// The sequence can be ranged over again, which lists the folder again.
func Children(ctx context.Context, client remote.FolderClient, folderID string, opts Options) iter.Seq2[remote.Entry, error] {
	return func(yield func(remote.Entry, error) bool) {
		logger := zerolog.Ctx(ctx).With().Str("folder", folderID).Logger()
		size := opts.pageSize()

		offset, total := 0, 0
		for {
			page, err := client.ListFolderItems(ctx, folderID, size, offset)
			if err != nil {
				metrics.RecordListingPage(false, 0)
				yield(remote.Entry{}, errors.Errorf("listing %s at offset %d: %w", folderID, offset, err))
				return
			}
			metrics.RecordListingPage(true, len(page.Entries))
			logger.Trace().Int("offset", offset).Int("entries", len(page.Entries)).Msg("fetched page")

			if len(page.Entries) == 0 {
				return
			}

			for _, e := range page.Entries {
				if !yield(e, nil) {
					return
				}
			}
			total += len(page.Entries)

			if opts.MaxItems > 0 && total >= opts.MaxItems {
				logger.Debug().Int("total", total).Int("max_items", opts.MaxItems).Msg("reached max items")
				return
			}

			// advance by what came back, a short page must not skip entries
			offset += len(page.Entries)
		}
	}
}

// ListChildren collects Children into a slice
func ListChildren(ctx context.Context, client remote.FolderClient, folderID string, opts Options) ([]remote.Entry, error) {
	entries := []remote.Entry{}
	for e, err := range Children(ctx, client, folderID, opts) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ListFolders lists each folder in order and returns the concatenated files and sub-folders.
// The first failing folder aborts the whole call.
func ListFolders(ctx context.Context, client remote.FolderClient, folderIDs []string, opts Options) (files, folders []remote.Entry, err error) {
	logger := zerolog.Ctx(ctx)
	files, folders = []remote.Entry{}, []remote.Entry{}

	for _, id := range folderIDs {
		logger.Info().Str("folder", id).Msg("getting file and folder contents")

		entries, err := ListChildren(ctx, client, id, opts)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, Files(entries)...)
		folders = append(folders, Folders(entries)...)
	}

	return files, folders, nil
}

// Files keeps the file entries, in order
func Files(entries []remote.Entry) []remote.Entry {
	return filterKind(entries, remote.KindFile)
}

// Folders keeps the folder entries, in order
func Folders(entries []remote.Entry) []remote.Entry {
	return filterKind(entries, remote.KindFolder)
}

func filterKind(entries []remote.Entry, kind remote.Kind) []remote.Entry {
	out := []remote.Entry{}
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
