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

package fetch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/metrics"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultConcurrency is the worker pool size used when Options.Concurrency is unset
const DefaultConcurrency = 20

// 🔧 Options tunes DownloadAll
type Options struct {
	// Concurrency is the number of workers, DefaultConcurrency when <= 0
	Concurrency int
	// Throttle is the minimum spacing between two item starts across the whole pool; 0 disables it
	Throttle time.Duration
	// OnResult is called once per item as it reaches a terminal state. Calls are serialized.
	OnResult func(Result)
}

func (o Options) concurrency() int {
	if o.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return o.Concurrency
}

// Request is one unit of work handed to a worker
type Request struct {
	ID  string
	Dir string

	index int // position in the batch
}

// DownloadAll downloads every identifier into dir using a fixed pool of workers.
// A failing item never stops its siblings; the returned Batch holds one Result per identifier,
// in the order given. The call returns once every identifier has been attempted.
func DownloadAll(ctx context.Context, client remote.FolderClient, ids []string, dir string, opts Options) *Batch {
	logger := zerolog.Ctx(ctx)
	batch := &Batch{Results: make([]Result, len(ids))}

	var mu sync.Mutex
	finish := func(i int, r Result) {
		// each index is owned by one worker, the lock only serializes the callback
		batch.Results[i] = r
		metrics.RecordDownload(r.OK(), r.Bytes)
		if opts.OnResult != nil {
			mu.Lock()
			opts.OnResult(r)
			mu.Unlock()
		}
	}

	if err := ensureDir(dir); err != nil {
		logger.Error().Err(err).Str("dir", dir).Msg("cannot prepare destination")
		for i, id := range ids {
			finish(i, Failed(id, "", err))
		}
		return batch
	}

	var limiter *rate.Limiter
	if opts.Throttle > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Throttle), 1)
	}

	workers := opts.concurrency()
	if workers > len(ids) {
		workers = len(ids)
	}
	logger.Debug().Int("items", len(ids)).Int("workers", workers).Str("dir", dir).Msg("starting downloads")

	queue := make(chan Request)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for req := range queue {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						finish(req.index, Failed(req.ID, "", errors.Errorf("waiting for throttle: %w", err)))
						continue
					}
				}
				finish(req.index, download(ctx, client, req.ID, req.Dir))
			}
			return nil
		})
	}

	for i, id := range ids {
		queue <- Request{ID: id, Dir: dir, index: i}
	}
	close(queue)
	_ = g.Wait() // workers never return an error, failures live in the results

	logger.Debug().Int("saved", len(batch.Saved())).Int("failed", len(batch.Failed())).Msg("downloads finished")
	return batch
}

// DownloadFile downloads a single item into dir
func DownloadFile(ctx context.Context, client remote.FolderClient, id, dir string) Result {
	if err := ensureDir(dir); err != nil {
		return Failed(id, "", err)
	}
	r := download(ctx, client, id, dir)
	metrics.RecordDownload(r.OK(), r.Bytes)
	return r
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fsError("creating destination directory", err)
	}
	return nil
}

func fsError(op string, err error) error {
	return &remote.Error{Op: op, Kind: ErrFilesystem, Err: err}
}

// download runs one item from InFlight to a terminal state
func download(ctx context.Context, client remote.FolderClient, id, dir string) Result {
	logger := zerolog.Ctx(ctx).With().Str("id", id).Logger()

	if err := ctx.Err(); err != nil {
		return Failed(id, "", errors.Errorf("not started: %w", err))
	}

	done := metrics.DownloadStarted()
	defer done()

	meta, err := client.ItemMetadata(ctx, id)
	if err != nil {
		return Failed(id, "", errors.Errorf("resolving name: %w", err))
	}

	name := filepath.Base(meta.Name)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return Failed(id, meta.Name, fsError("choosing destination", errors.Errorf("unusable file name %q", meta.Name)))
	}
	path := filepath.Join(dir, name)

	content, err := client.ItemContent(ctx, id)
	if err != nil {
		return Failed(id, name, errors.Errorf("fetching content: %w", err))
	}
	defer content.Close()

	n, err := writeFileAtomic(path, content)
	if err != nil {
		return Failed(id, name, err)
	}

	logger.Debug().Str("path", path).Int64("bytes", n).Msg("saved")
	return Saved(id, name, path, n)
}

// writeFileAtomic streams r into a temp file next to path and renames it over path,
// so a failed transfer never leaves a truncated file behind. The last rename wins.
func writeFileAtomic(path string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.part")
	if err != nil {
		return 0, fsError("creating temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		cleanup()
		// a read error is the remote's fault, a write error the filesystem's
		var werr *os.PathError
		if errors.As(err, &werr) {
			return 0, fsError("writing "+path, err)
		}
		return 0, remote.TransportError("streaming content", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, fsError("closing "+path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return 0, fsError("setting mode on "+path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return 0, fsError("renaming into "+path, err)
	}
	return n, nil
}
