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
	"io"
	"os"
	"path/filepath"

	"github.com/walteh/boxsync/pkg/fetch"
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type uploader interface {
	Upload(ctx context.Context, folderID, name string, content io.Reader) (remote.ItemMetadata, error)
	UpdateContents(ctx context.Context, fileID, name string, content io.Reader) (remote.ItemMetadata, error)
}

// ⬆️ Upload sends the local file at path into folderID under its base name
func (o *Operator) Upload(ctx context.Context, folderID, path string) (remote.ItemMetadata, error) {
	u, ok := o.client.(uploader)
	if !ok {
		return remote.ItemMetadata{}, errors.Errorf("upload: %w", ErrUnsupported)
	}
	return o.send(ctx, path, func(name string, f *os.File) (remote.ItemMetadata, error) {
		return u.Upload(ctx, folderID, name, f)
	})
}

// 🔁 Update replaces the content of an existing remote file with the local file at path
func (o *Operator) Update(ctx context.Context, fileID, path string) (remote.ItemMetadata, error) {
	u, ok := o.client.(uploader)
	if !ok {
		return remote.ItemMetadata{}, errors.Errorf("update: %w", ErrUnsupported)
	}
	return o.send(ctx, path, func(name string, f *os.File) (remote.ItemMetadata, error) {
		return u.UpdateContents(ctx, fileID, name, f)
	})
}

func (o *Operator) send(ctx context.Context, path string, fn func(name string, f *os.File) (remote.ItemMetadata, error)) (remote.ItemMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return remote.ItemMetadata{}, &remote.Error{Op: "opening " + path, Kind: fetch.ErrFilesystem, Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return remote.ItemMetadata{}, &remote.Error{Op: "reading " + path, Kind: fetch.ErrFilesystem, Err: err}
	}
	if st.IsDir() {
		return remote.ItemMetadata{}, &remote.Error{Op: "reading " + path, Kind: fetch.ErrFilesystem, Err: errors.New("is a directory")}
	}

	md, err := fn(filepath.Base(path), f)
	if err != nil {
		return remote.ItemMetadata{}, errors.Errorf("sending %s: %w", path, err)
	}

	log.FromContext(ctx).Successf("uploaded %s as %s (%d bytes)", path, md.ID, md.Size)
	return md, nil
}
