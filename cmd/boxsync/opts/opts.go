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

package opts

import (
	"context"

	"github.com/walteh/boxsync/pkg/cache"
	"github.com/walteh/boxsync/pkg/config"
	"github.com/walteh/boxsync/pkg/operation"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// ConnectFunc builds the remote client for a loaded config
type ConnectFunc func(ctx context.Context, cfg *config.Config) (remote.FolderClient, error)

// RootOpts contains shared options used by all commands.
// It is filled in by the root command before any subcommand runs.
type RootOpts struct {
	Config  *config.Config
	Cache   *cache.Dir
	Connect ConnectFunc

	operator *operation.Operator
}

// Operator connects to the configured remote on first use.
// Commands adjust Config (workers, throttle, page size) before calling it.
func (o *RootOpts) Operator(ctx context.Context) (*operation.Operator, error) {
	if o.operator != nil {
		return o.operator, nil
	}
	if o.Config == nil || o.Cache == nil || o.Connect == nil {
		return nil, errors.New("options not initialized")
	}

	throttle, err := o.Config.ThrottleDuration()
	if err != nil {
		return nil, err
	}

	client, err := o.Connect(ctx, o.Config)
	if err != nil {
		return nil, errors.Errorf("connecting to %s: %w", o.Config.Provider, err)
	}

	op, err := operation.New(operation.Options{
		Client:      client,
		Cache:       o.Cache,
		PageSize:    o.Config.PageSize,
		Concurrency: o.Config.Concurrency,
		Throttle:    throttle,
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}

	o.operator = op
	return op, nil
}
