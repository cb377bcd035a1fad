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

package box

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// 🔍 SearchOptions narrows a Box search
type SearchOptions struct {
	Limit             int      // page size sent to Box, default 100
	Offset            int      // first result to return
	AncestorFolderIDs []string // only search below these folders
	FileExtensions    []string // e.g. "csv", without dots
}

// Search runs a Box full-text search and returns one page of matching entries.
// Wildcards in query are dropped before sending, callers filter results with the match package.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]remote.Entry, error) {
	terms := strings.Fields(strings.ReplaceAll(query, "*", " "))
	if len(terms) == 0 {
		return nil, errors.Errorf("search query %q has no terms", query)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	q := url.Values{
		"query":  {strings.Join(terms, " ")},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(opts.Offset)},
		"fields": {"id,type,name"},
	}
	if len(opts.AncestorFolderIDs) > 0 {
		q.Set("ancestor_folder_ids", strings.Join(opts.AncestorFolderIDs, ","))
	}
	if len(opts.FileExtensions) > 0 {
		q.Set("file_extensions", strings.Join(opts.FileExtensions, ","))
	}

	var coll itemCollection
	if err := c.getJSON(ctx, "/search", q, fmt.Sprintf("searching %q", query), &coll); err != nil {
		return nil, err
	}

	return coll.page(opts.Offset).Entries, nil
}
