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

// Package testutils holds test doubles for remote.FolderClient shared by the package tests.
package testutils

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// Context returns a context carrying a logger that writes to the test output
func Context(t testing.TB) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

// 🎭 MockFolderClient is a testify mock of remote.FolderClient
type MockFolderClient struct {
	mock.Mock
}

var _ remote.FolderClient = (*MockFolderClient)(nil)

func (m *MockFolderClient) ListFolderItems(ctx context.Context, folderID string, limit, offset int) (remote.Page, error) {
	args := m.Called(ctx, folderID, limit, offset)
	return args.Get(0).(remote.Page), args.Error(1)
}

func (m *MockFolderClient) ItemMetadata(ctx context.Context, id string) (remote.ItemMetadata, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(remote.ItemMetadata), args.Error(1)
}

func (m *MockFolderClient) ItemContent(ctx context.Context, id string) (io.ReadCloser, error) {
	args := m.Called(ctx, id)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

// 📄 File is an item held by FakeClient
type File struct {
	Name    string
	Content string
	Err     error // returned by ItemContent
}

// ListCall records one ListFolderItems request
type ListCall struct {
	FolderID string
	Limit    int
	Offset   int
}

// 🗂️ FakeClient is an in-memory remote that pages folder children the way Box does
type FakeClient struct {
	Folders   map[string][]remote.Entry
	Files     map[string]File
	ListErr   map[string]error // folder id -> error returned by every page request
	ListCalls []ListCall

	mu sync.Mutex
}

var _ remote.FolderClient = (*FakeClient)(nil)

// NewFakeClient returns an empty FakeClient
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Folders: map[string][]remote.Entry{},
		Files:   map[string]File{},
		ListErr: map[string]error{},
	}
}

// AddFile registers a file as a child of folderID
func (f *FakeClient) AddFile(folderID, id, name, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Files[id] = File{Name: name, Content: content}
	f.Folders[folderID] = append(f.Folders[folderID], remote.Entry{ID: id, Name: name, Kind: remote.KindFile})
}

// AddFolder registers a sub-folder of parentID
func (f *FakeClient) AddFolder(parentID, id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Folders[id]; !ok {
		f.Folders[id] = nil
	}
	f.Folders[parentID] = append(f.Folders[parentID], remote.Entry{ID: id, Name: name, Kind: remote.KindFolder})
}

func (f *FakeClient) ListFolderItems(ctx context.Context, folderID string, limit, offset int) (remote.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListCalls = append(f.ListCalls, ListCall{FolderID: folderID, Limit: limit, Offset: offset})

	if err := f.ListErr[folderID]; err != nil {
		return remote.Page{}, err
	}
	entries, ok := f.Folders[folderID]
	if !ok {
		return remote.Page{}, remote.NotFoundError("listing folder", errors.Errorf("folder %s", folderID))
	}

	if offset > len(entries) {
		offset = len(entries)
	}
	end := min(offset+limit, len(entries))
	page := append([]remote.Entry(nil), entries[offset:end]...)
	return remote.Page{Entries: page, NextOffset: end, HasMore: end < len(entries)}, nil
}

func (f *FakeClient) ItemMetadata(ctx context.Context, id string) (remote.ItemMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, ok := f.Files[id]
	if !ok {
		return remote.ItemMetadata{}, remote.NotFoundError("getting file", errors.Errorf("file %s", id))
	}
	return remote.ItemMetadata{ID: id, Name: file.Name, Size: int64(len(file.Content))}, nil
}

func (f *FakeClient) ItemContent(ctx context.Context, id string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, ok := f.Files[id]
	if !ok {
		return nil, remote.NotFoundError("downloading file", errors.Errorf("file %s", id))
	}
	if file.Err != nil {
		return nil, file.Err
	}
	return io.NopCloser(strings.NewReader(file.Content)), nil
}

// Calls returns a copy of the recorded list requests
func (f *FakeClient) Calls() []ListCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ListCall(nil), f.ListCalls...)
}
