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
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// DefaultUploadURL is the root of the Box upload API, which lives on its own host
const DefaultUploadURL = "https://upload.box.com/api/2.0"

type parentRef struct {
	ID string `json:"id"`
}

type uploadAttributes struct {
	Name   string     `json:"name,omitempty"`
	Parent *parentRef `json:"parent,omitempty"`
}

type fileCollection struct {
	Entries []item `json:"entries"`
}

// 📤 Upload creates a file called name in folderID from content.
// Box rejects a name already used in the folder; use UpdateContents for new versions.
func (c *Client) Upload(ctx context.Context, folderID, name string, content io.Reader) (remote.ItemMetadata, error) {
	attrs := uploadAttributes{Name: name, Parent: &parentRef{ID: folderID}}
	return c.upload(ctx, "/files/content", attrs, name, content, fmt.Sprintf("uploading %s to folder %s", name, folderID))
}

// UpdateContents uploads content as a new version of fileID, keeping its name
func (c *Client) UpdateContents(ctx context.Context, fileID, name string, content io.Reader) (remote.ItemMetadata, error) {
	path := "/files/" + url.PathEscape(fileID) + "/content"
	return c.upload(ctx, path, uploadAttributes{}, name, content, fmt.Sprintf("updating file %s", fileID))
}

// upload streams a multipart body, attributes first as Box requires, without buffering the file
func (c *Client) upload(ctx context.Context, path string, attrs uploadAttributes, name string, content io.Reader, op string) (remote.ItemMetadata, error) {
	pr, pw := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadBody(mw, attrs, name, content))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+path, pr)
	if err != nil {
		return remote.ItemMetadata{}, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.asUser != "" {
		req.Header.Set("As-User", c.asUser)
	}

	resp, err := c.do(req, op)
	if err != nil {
		return remote.ItemMetadata{}, err
	}
	defer resp.Body.Close()

	var files fileCollection
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return remote.ItemMetadata{}, remote.TransportError(op, errors.Errorf("decoding response: %w", err))
	}
	if len(files.Entries) == 0 {
		return remote.ItemMetadata{}, remote.TransportError(op, errors.New("response lists no file"))
	}

	f := files.Entries[0]
	zerolog.Ctx(ctx).Debug().Str("id", f.ID).Str("name", f.Name).Int64("size", f.Size).Msg("uploaded")
	return remote.ItemMetadata{ID: f.ID, Name: f.Name, Size: f.Size}, nil
}

func writeUploadBody(mw *multipart.Writer, attrs uploadAttributes, name string, content io.Reader) error {
	data, err := json.Marshal(attrs)
	if err != nil {
		return errors.Errorf("encoding attributes: %w", err)
	}
	if err := mw.WriteField("attributes", string(data)); err != nil {
		return errors.Errorf("writing attributes: %w", err)
	}

	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return errors.Errorf("creating file part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return errors.Errorf("reading upload content: %w", err)
	}
	return mw.Close()
}
