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

package remote

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrTransport is the cause of every network, auth or protocol failure talking to a remote service
	ErrTransport = errors.Base("transport error")
	// ErrNotFound is the cause when a folder, item or user does not exist remotely
	ErrNotFound = errors.Base("not found")
)

// 📂 FolderClient is the capability the sync core consumes from a remote service
type FolderClient interface {
	// ListFolderItems returns one page of the immediate children of a folder
	ListFolderItems(ctx context.Context, folderID string, limit, offset int) (Page, error)
	// ItemMetadata resolves the display name (and size, when known) of an item
	ItemMetadata(ctx context.Context, id string) (ItemMetadata, error)
	// ItemContent streams the bytes of an item, the caller closes the reader
	ItemContent(ctx context.Context, id string) (io.ReadCloser, error)
}

// ItemMetadata is what a fetcher needs to know about an item before writing it
type ItemMetadata struct {
	ID   string
	Name string
	Size int64 // -1 when the remote does not report a size
}

// 🏭 Factory builds a FolderClient from provider specific settings
type Factory func(ctx context.Context, settings Settings) (FolderClient, error)

// Settings carries the provider independent knobs handed to a Factory.
// Values holds provider specific keys (see each provider package for the names it reads).
type Settings struct {
	BaseURL string
	Token   string
	Values  map[string]string
}

// Get returns Values[key] or "" when unset.
func (s Settings) Get(key string) string {
	if s.Values == nil {
		return ""
	}
	return s.Values[key]
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// RegisterProvider makes a provider available to NewClient under name
func RegisterProvider(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Providers returns the registered provider names, sorted
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	options := make([]string, 0, len(registry))
	for k := range registry {
		options = append(options, k)
	}
	sort.Strings(options)
	return options
}

// NewClient builds a FolderClient using the provider registered under name
func NewClient(ctx context.Context, name string, settings Settings) (FolderClient, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(Providers(), ", "))
	}

	client, err := factory(ctx, settings)
	if err != nil {
		return nil, errors.Errorf("creating %s client: %w", name, err)
	}
	return client, nil
}
