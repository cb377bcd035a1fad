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
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/fetch"
	"github.com/walteh/boxsync/pkg/listing"
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/match"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// 📥 GetRequest describes "download the matching files of these folders"
type GetRequest struct {
	Label       string   // shown in output, defaults to the folder ids
	Folders     []string // folder identifiers, listed in order
	Pattern     string   // loose "*" pattern, empty keeps every file
	Exclude     string   // comma separated exclusion terms
	MaxItems    int      // soft cap per folder, 0 lists everything
	Destination string   // relative to the cache directory unless absolute
}

// List enumerates the children of every folder and splits them into files and sub-folders
func (o *Operator) List(ctx context.Context, folders []string, maxItems int) (files, subfolders []remote.Entry, err error) {
	files, subfolders, err = listing.ListFolders(ctx, o.client, folders, o.listingOptions(maxItems))
	if err != nil {
		return nil, nil, errors.Errorf("listing folders: %w", err)
	}
	return files, subfolders, nil
}

func (o *Operator) listingOptions(maxItems int) listing.Options {
	return listing.Options{PageSize: o.pageSize, MaxItems: maxItems}
}

// Get lists the folders, keeps the files matching the request and downloads them.
// A listing failure is returned as an error; download failures live in the Report.
func (o *Operator) Get(ctx context.Context, req GetRequest) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	label := req.Label
	if label == "" {
		label = strings.Join(req.Folders, ",")
	}
	if len(req.Folders) == 0 {
		return nil, errors.Errorf("%s: no folders given", label)
	}

	files, _, err := listing.ListFolders(ctx, o.client, req.Folders, o.listingOptions(req.MaxItems))
	if err != nil {
		return nil, errors.Errorf("%s: %w", label, err)
	}

	matched := match.New(req.Pattern, req.Exclude).Filter(files)
	logger.Debug().
		Str("label", label).
		Int("listed", len(files)).
		Int("matched", len(matched)).
		Str("pattern", req.Pattern).
		Str("exclude", req.Exclude).
		Msg("filtered folder listing")

	report := o.download(ctx, label, o.cache.Resolve(req.Destination), remote.IDs(matched))
	report.Listed = len(files)
	return report, nil
}

// Download fetches the given item identifiers into dest
func (o *Operator) Download(ctx context.Context, ids []string, dest string) *Report {
	report := o.download(ctx, "download", o.cache.Resolve(dest), ids)
	report.Listed = len(ids)
	return report
}

func (o *Operator) download(ctx context.Context, label, dir string, ids []string) *Report {
	console := log.FromContext(ctx)
	console.StartFolderOperation(ctx, log.FolderOperation{
		Label:       label,
		Matched:     len(ids),
		Destination: dir,
	})
	defer console.EndFolderOperation(ctx)

	batch := fetch.DownloadAll(ctx, o.client, ids, dir, o.fetchOptions(ctx))

	return &Report{
		Label:   label,
		Dir:     dir,
		Matched: len(ids),
		Batch:   batch,
	}
}
