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
	"time"

	"github.com/walteh/boxsync/pkg/cache"
	"github.com/walteh/boxsync/pkg/fetch"
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the operator
type Options struct {
	// Client is the remote the folders live on
	Client remote.FolderClient
	// Cache is where downloads are written
	Cache *cache.Dir
	// PageSize is the listing page size, listing.DefaultPageSize when <= 0
	PageSize int
	// Concurrency is the number of download workers, fetch.DefaultConcurrency when <= 0
	Concurrency int
	// Throttle spaces download starts across the pool, 0 disables it
	Throttle time.Duration
}

// 🎮 Operator runs list, match and fetch against one remote
type Operator struct {
	client      remote.FolderClient
	cache       *cache.Dir
	pageSize    int
	concurrency int
	throttle    time.Duration
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (*Operator, error) {
	if opts.Client == nil {
		return nil, errors.Errorf("client is required")
	}
	if opts.Cache == nil {
		return nil, errors.Errorf("cache is required")
	}
	return &Operator{
		client:      opts.Client,
		cache:       opts.Cache,
		pageSize:    opts.PageSize,
		concurrency: opts.Concurrency,
		throttle:    opts.Throttle,
	}, nil
}

// Client returns the remote the operator talks to
func (o *Operator) Client() remote.FolderClient {
	return o.client
}

// fetchOptions prints every result through the context logger as it lands
func (o *Operator) fetchOptions(ctx context.Context) fetch.Options {
	console := log.FromContext(ctx)
	return fetch.Options{
		Concurrency: o.concurrency,
		Throttle:    o.throttle,
		OnResult: func(r fetch.Result) {
			console.LogItemOperation(ctx, itemOperation(r))
		},
	}
}

func itemOperation(r fetch.Result) log.ItemOperation {
	return log.ItemOperation{
		ID:     r.ID,
		Name:   r.Name,
		Path:   r.Path,
		Bytes:  r.Bytes,
		Failed: !r.OK(),
		Err:    r.Err,
	}
}
