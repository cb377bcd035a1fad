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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/boxsync/pkg/cache"
	"github.com/walteh/boxsync/pkg/config"
	"github.com/walteh/boxsync/pkg/fetch"
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/remote"
	"github.com/walteh/boxsync/pkg/remote/box"
	"github.com/walteh/boxsync/pkg/testutils"
	"gitlab.com/tozd/go/errors"
)

func setup(t *testing.T, client remote.FolderClient) (context.Context, *Operator, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	ctx := testutils.Context(t)
	console := &bytes.Buffer{}
	ctx = log.NewContext(ctx, log.NewWithZerolog(console, zerolog.Nop()))

	dir, err := cache.Open(ctx, t.TempDir())
	require.NoError(t, err, "opening cache should succeed")

	op, err := New(Options{Client: client, Cache: dir, PageSize: 2, Concurrency: 2})
	require.NoError(t, err, "creating operator should succeed")
	return ctx, op, console
}

func studyFolder() *testutils.FakeClient {
	client := testutils.NewFakeClient()
	client.AddFile("100", "a", "report 2024.csv", "a,b,c")
	client.AddFile("100", "b", "report 2024 draft.csv", "draft")
	client.AddFile("100", "c", "notes.txt", "notes")
	client.AddFolder("100", "200", "archive")
	client.AddFile("200", "d", "2024 report old.csv", "old")
	return client
}

func TestNew(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err, "missing client should fail")
	assert.Contains(t, err.Error(), "client is required", "error should name the client")

	_, err = New(Options{Client: testutils.NewFakeClient()})
	require.Error(t, err, "missing cache should fail")
	assert.Contains(t, err.Error(), "cache is required", "error should name the cache")
}

func TestGet(t *testing.T) {
	tests := []struct {
		name        string
		req         GetRequest
		wantListed  int
		wantMatched int
		wantFiles   map[string]string
	}{
		{
			name:        "pattern_and_exclusion",
			req:         GetRequest{Folders: []string{"100"}, Pattern: "report*2024", Exclude: "draft", Destination: "reports"},
			wantListed:  3,
			wantMatched: 1,
			wantFiles:   map[string]string{"reports/report 2024.csv": "a,b,c"},
		},
		{
			name:        "loose_pattern_matches_out_of_order",
			req:         GetRequest{Folders: []string{"100", "200"}, Pattern: "2024*report", Exclude: "draft,notes"},
			wantListed:  4,
			wantMatched: 2,
			wantFiles: map[string]string{
				"report 2024.csv":     "a,b,c",
				"2024 report old.csv": "old",
			},
		},
		{
			name:        "no_pattern_keeps_every_file",
			req:         GetRequest{Folders: []string{"100"}},
			wantListed:  3,
			wantMatched: 3,
			wantFiles: map[string]string{
				"report 2024.csv":       "a,b,c",
				"report 2024 draft.csv": "draft",
				"notes.txt":             "notes",
			},
		},
		{
			name:        "soft_cap_per_folder",
			req:         GetRequest{Folders: []string{"100"}, MaxItems: 1},
			wantListed:  1,
			wantMatched: 1,
			wantFiles:   map[string]string{"report 2024.csv": "a,b,c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, op, console := setup(t, studyFolder())

			report, err := op.Get(ctx, tt.req)
			require.NoError(t, err, "Get should succeed")
			require.NoError(t, report.Err(), "every download should succeed")

			assert.Equal(t, tt.wantListed, report.Listed, "listed count should match")
			assert.Equal(t, tt.wantMatched, report.Matched, "matched count should match")
			assert.Len(t, report.Batch.Saved(), len(tt.wantFiles), "saved count should match")

			root := op.cache.Path()
			for rel, want := range tt.wantFiles {
				got, err := os.ReadFile(filepath.Join(root, rel))
				require.NoError(t, err, "reading %s should succeed", rel)
				assert.Equal(t, want, string(got), "content of %s should match", rel)
			}

			assert.Contains(t, console.String(), "[syncing", "console should show the batch header")
			assert.Contains(t, console.String(), "saved", "console should show saved items")
		})
	}
}

func TestGetListingFailure(t *testing.T) {
	client := studyFolder()
	client.ListErr["200"] = remote.TransportError("listing folder", errors.New("connection reset"))
	ctx, op, _ := setup(t, client)

	report, err := op.Get(ctx, GetRequest{Label: "study", Folders: []string{"100", "200"}})
	require.Error(t, err, "Get should fail when a folder cannot be listed")
	assert.Nil(t, report, "no report should be returned")
	assert.ErrorIs(t, err, remote.ErrTransport, "error should be a transport error")
	assert.Contains(t, err.Error(), "study", "error should carry the label")

	entries, err := os.ReadDir(op.cache.Path())
	require.NoError(t, err, "reading cache should succeed")
	assert.Empty(t, entries, "nothing should be downloaded")
}

func TestGetNoFolders(t *testing.T) {
	ctx, op, _ := setup(t, studyFolder())
	_, err := op.Get(ctx, GetRequest{Label: "empty"})
	require.Error(t, err, "Get without folders should fail")
	assert.Contains(t, err.Error(), "no folders given", "error should explain")
}

func TestDownload(t *testing.T) {
	ctx, op, console := setup(t, studyFolder())

	report := op.Download(ctx, []string{"a", "missing", "c"}, "")
	require.Len(t, report.Batch.Results, 3, "every id should have a result")

	assert.Len(t, report.Batch.Saved(), 2, "two items should be saved")
	assert.Len(t, report.Batch.Failed(), 1, "one item should fail")
	assert.Equal(t, "missing", report.Batch.Failed()[0].ID, "the missing id should fail")

	err := report.Err()
	require.Error(t, err, "partial batch should be an error")
	assert.ErrorIs(t, err, fetch.ErrPartialBatch, "error should be a partial batch")
	assert.ErrorIs(t, err, remote.ErrNotFound, "cause should be kept")

	assert.FileExists(t, filepath.Join(op.cache.Path(), "report 2024.csv"), "first item should be saved")
	assert.FileExists(t, filepath.Join(op.cache.Path(), "notes.txt"), "third item should be saved")
	assert.Contains(t, console.String(), "failed", "console should show the failure")
}

func TestSync(t *testing.T) {
	client := studyFolder()
	client.ListErr["200"] = remote.NotFoundError("listing folder", errors.New("gone"))
	ctx, op, _ := setup(t, client)

	jobs := []config.Job{
		{Name: "broken", Folders: []string{"200"}},
		{Name: "reports", Folders: []string{"100"}, Pattern: "report", Exclude: "draft", Destination: "reports"},
	}

	reports, err := op.Sync(ctx, jobs)
	require.Error(t, err, "Sync should report the broken job")
	assert.ErrorIs(t, err, remote.ErrNotFound, "error should keep the cause")
	require.Len(t, reports, 2, "every job should have a report")

	assert.Equal(t, "broken", reports[0].Label, "first report should be the broken job")
	assert.Error(t, reports[0].ListErr, "broken job should record its listing error")

	assert.Equal(t, "reports", reports[1].Label, "second job should still run")
	assert.NoError(t, reports[1].Err(), "second job should succeed")
	assert.FileExists(t, filepath.Join(op.cache.Path(), "reports", "report 2024.csv"), "second job should download")

	rows := Summarize(reports)
	require.Len(t, rows, 2, "one row per report")
	assert.Equal(t, "broken (listing failed)", rows[0].Name, "failed listing should be marked")
	assert.Equal(t, 1, rows[1].Saved, "saved count should match")
	assert.Equal(t, int64(len("a,b,c")), rows[1].Bytes, "byte count should match")
}

func TestSyncCancelled(t *testing.T) {
	ctx, op, _ := setup(t, studyFolder())
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	reports, err := op.Sync(ctx, []config.Job{{Name: "late", Folders: []string{"100"}}})
	require.Error(t, err, "cancelled sync should fail")
	assert.ErrorIs(t, err, context.Canceled, "error should be the cancellation")
	require.Len(t, reports, 1, "the job should still have a report")
}

type searchingClient struct {
	*testutils.FakeClient
	query string
	opts  box.SearchOptions
	found []remote.Entry
}

func (c *searchingClient) Search(ctx context.Context, query string, opts box.SearchOptions) ([]remote.Entry, error) {
	c.query = query
	c.opts = opts
	return c.found, nil
}

func (c *searchingClient) FolderInfo(ctx context.Context, folderID string) (box.FolderInfo, error) {
	if folderID != "100" {
		return box.FolderInfo{}, remote.NotFoundError("getting folder", errors.New(folderID))
	}
	return box.FolderInfo{ID: "100", Name: "Study", Owner: "pi@example.org"}, nil
}

func TestSearch(t *testing.T) {
	client := &searchingClient{
		FakeClient: testutils.NewFakeClient(),
		found: []remote.Entry{
			{ID: "1", Name: "visit 2024 report.csv", Kind: remote.KindFile},
			{ID: "2", Name: "visit 2024 report draft.csv", Kind: remote.KindFile},
			{ID: "3", Name: "unrelated.csv", Kind: remote.KindFile},
		},
	}
	ctx, op, _ := setup(t, client)

	got, err := op.Search(ctx, "report*2024", "draft", box.SearchOptions{FileExtensions: []string{"csv"}})
	require.NoError(t, err, "Search should succeed")
	assert.Equal(t, "report*2024", client.query, "pattern should reach the remote")
	assert.Equal(t, []string{"csv"}, client.opts.FileExtensions, "options should reach the remote")
	require.Len(t, got, 1, "only one result should survive the matcher")
	assert.Equal(t, "1", got[0].ID, "matching result should be kept")
}

func TestInfo(t *testing.T) {
	client := &searchingClient{FakeClient: testutils.NewFakeClient()}
	ctx, op, _ := setup(t, client)

	info, err := op.Info(ctx, "100")
	require.NoError(t, err, "Info should succeed")
	assert.Equal(t, "Study", info.Name, "folder name should match")
	assert.Equal(t, "pi@example.org", info.Owner, "owner should match")

	_, err = op.Info(ctx, "999")
	assert.ErrorIs(t, err, remote.ErrNotFound, "unknown folder should be not found")
}

func TestUnsupported(t *testing.T) {
	ctx, op, _ := setup(t, testutils.NewFakeClient())

	_, err := op.Search(ctx, "x", "", box.SearchOptions{})
	assert.ErrorIs(t, err, ErrUnsupported, "plain clients cannot search")

	_, err = op.Info(ctx, "1")
	assert.ErrorIs(t, err, ErrUnsupported, "plain clients cannot describe folders")
}

type uploadingClient struct {
	*testutils.FakeClient
	folderID string
	fileID   string
	name     string
	content  string
}

func (c *uploadingClient) Upload(ctx context.Context, folderID, name string, content io.Reader) (remote.ItemMetadata, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return remote.ItemMetadata{}, err
	}
	c.folderID, c.name, c.content = folderID, name, string(data)
	return remote.ItemMetadata{ID: "900", Name: name, Size: int64(len(data))}, nil
}

func (c *uploadingClient) UpdateContents(ctx context.Context, fileID, name string, content io.Reader) (remote.ItemMetadata, error) {
	if fileID != "1" {
		return remote.ItemMetadata{}, remote.NotFoundError("updating file", errors.New(fileID))
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return remote.ItemMetadata{}, err
	}
	c.fileID, c.name, c.content = fileID, name, string(data)
	return remote.ItemMetadata{ID: fileID, Name: name, Size: int64(len(data))}, nil
}

func TestUpload(t *testing.T) {
	client := &uploadingClient{FakeClient: testutils.NewFakeClient()}
	ctx, op, console := setup(t, client)

	src := filepath.Join(t.TempDir(), "visit 3.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b\n1,2\n"), 0o644), "writing source should succeed")

	md, err := op.Upload(ctx, "100", src)
	require.NoError(t, err, "Upload should succeed")
	assert.Equal(t, "900", md.ID, "new file id should be returned")
	assert.Equal(t, "100", client.folderID, "folder should reach the remote")
	assert.Equal(t, "visit 3.csv", client.name, "base name should be sent")
	assert.Equal(t, "a,b\n1,2\n", client.content, "content should be sent")
	assert.Contains(t, console.String(), "uploaded", "upload should be reported")

	md, err = op.Update(ctx, "1", src)
	require.NoError(t, err, "Update should succeed")
	assert.Equal(t, "1", md.ID, "updated file id should be returned")
	assert.Equal(t, int64(8), md.Size, "size should match the local file")

	_, err = op.Update(ctx, "2", src)
	assert.ErrorIs(t, err, remote.ErrNotFound, "unknown file should be not found")
}

func TestUploadLocalFailures(t *testing.T) {
	client := &uploadingClient{FakeClient: testutils.NewFakeClient()}
	ctx, op, _ := setup(t, client)

	_, err := op.Upload(ctx, "100", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, fetch.ErrFilesystem, "missing source should be a filesystem error")

	_, err = op.Upload(ctx, "100", t.TempDir())
	assert.ErrorIs(t, err, fetch.ErrFilesystem, "directories cannot be uploaded")
	assert.Empty(t, client.name, "nothing should reach the remote")
}

func TestUploadUnsupported(t *testing.T) {
	ctx, op, _ := setup(t, testutils.NewFakeClient())
	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644), "writing source should succeed")

	_, err := op.Upload(ctx, "100", src)
	assert.ErrorIs(t, err, ErrUnsupported, "plain clients cannot upload")

	_, err = op.Update(ctx, "1", src)
	assert.ErrorIs(t, err, ErrUnsupported, "plain clients cannot update")
}
