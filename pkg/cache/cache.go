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

package cache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDir is used when neither the config file nor flags name a cache directory
const DefaultDir = "boxsync_cache"

// 🗄️ Dir is the local directory downloads are staged in. It is created on Open and never removed.
type Dir struct {
	path string
}

// Open resolves path to an absolute directory and creates it if absent
func Open(ctx context.Context, path string) (*Dir, error) {
	if path == "" {
		path = DefaultDir
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving cache directory: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Errorf("creating cache directory: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", abs).Msg("cache directory ready")

	return &Dir{path: abs}, nil
}

// Path returns the absolute path of the cache directory
func (d *Dir) Path() string {
	return d.path
}

// Resolve returns where a download destination lives: relative destinations are placed
// under the cache directory, absolute ones are used as is, empty means the cache root.
func (d *Dir) Resolve(dest string) string {
	switch {
	case dest == "":
		return d.path
	case filepath.IsAbs(dest):
		return filepath.Clean(dest)
	default:
		return filepath.Join(d.path, dest)
	}
}

// 📄 File is a file found in the cache directory
type File struct {
	Path string // slash separated, relative to the cache directory
	Size int64
}

// Glob lists the cached files matching a doublestar pattern ("**/*.csv"), sorted by path.
// An empty pattern lists everything. Partial downloads in flight are skipped.
func (d *Dir) Glob(pattern string) ([]File, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern %q", pattern)
	}

	fsys := os.DirFS(d.path)
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing cache directory: %w", err)
	}

	files := make([]File, 0, len(matches))
	for _, m := range matches {
		if strings.HasSuffix(m, ".part") && strings.HasPrefix(filepath.Base(m), ".") {
			continue
		}
		info, err := fs.Stat(fsys, m)
		if err != nil {
			return nil, errors.Errorf("stat %s: %w", m, err)
		}
		files = append(files, File{Path: m, Size: info.Size()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
