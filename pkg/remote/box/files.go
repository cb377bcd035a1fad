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
	"io"
	"net/url"

	"github.com/walteh/boxsync/pkg/remote"
)

// ItemMetadata implements remote.FolderClient
func (c *Client) ItemMetadata(ctx context.Context, id string) (remote.ItemMetadata, error) {
	var it item
	query := url.Values{"fields": {"id,type,name,size"}}
	if err := c.getJSON(ctx, "/files/"+url.PathEscape(id), query, fmt.Sprintf("getting file %s", id), &it); err != nil {
		return remote.ItemMetadata{}, err
	}
	return remote.ItemMetadata{ID: it.ID, Name: it.Name, Size: it.Size}, nil
}

// ItemContent implements remote.FolderClient.
// Box answers with a redirect to a download host, which net/http follows.
func (c *Client) ItemContent(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, "/files/"+url.PathEscape(id)+"/content", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, fmt.Sprintf("downloading file %s", id))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
