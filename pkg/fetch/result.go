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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrFilesystem is the cause when the destination directory or file cannot be written
	ErrFilesystem = errors.Base("filesystem error")
	// ErrPartialBatch is returned by Batch.Err when at least one item failed
	ErrPartialBatch = errors.Base("partial batch failure")
)

// Status is where a download is in its lifecycle: Pending -> InFlight -> Saved | Failed.
// Only Saved and Failed are ever stored in a Result returned by this package.
type Status int

const (
	// StatusPending is the zero value, a batch slot that has not been finished yet
	StatusPending Status = iota
	// StatusInFlight names the stage between a worker picking an id up and its result; never stored
	StatusInFlight
	StatusSaved
	StatusFailed
)

// Terminal reports whether s is an outcome rather than a lifecycle stage
func (s Status) Terminal() bool {
	return s == StatusSaved || s == StatusFailed
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in-flight"
	case StatusSaved:
		return "saved"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// 📦 Result is the terminal outcome of one download
type Result struct {
	ID     string
	Status Status
	Name   string // remote display name, empty if it could not be resolved
	Path   string // destination path, set when Saved
	Bytes  int64  // bytes written, set when Saved
	Err    error  // cause, set when Failed
}

// Saved builds a successful Result
func Saved(id, name, path string, bytes int64) Result {
	return Result{ID: id, Status: StatusSaved, Name: name, Path: path, Bytes: bytes}
}

// Failed builds a failed Result
func Failed(id, name string, err error) Result {
	return Result{ID: id, Status: StatusFailed, Name: name, Err: err}
}

func (r Result) OK() bool { return r.Status == StatusSaved }

// Batch is the accounting of one DownloadAll call: exactly one Result per requested identifier, in request order
type Batch struct {
	Results []Result
}

// Saved returns the successful results
func (b *Batch) Saved() []Result {
	return b.filter(StatusSaved)
}

// Failed returns the failed results
func (b *Batch) Failed() []Result {
	return b.filter(StatusFailed)
}

func (b *Batch) filter(s Status) []Result {
	out := []Result{}
	for _, r := range b.Results {
		if r.Status == s {
			out = append(out, r)
		}
	}
	return out
}

// Bytes is the total number of bytes written by the batch
func (b *Batch) Bytes() int64 {
	var n int64
	for _, r := range b.Results {
		n += r.Bytes
	}
	return n
}

// Err returns nil when every item was saved, otherwise an ErrPartialBatch error joining the item causes.
// A slot that never reached a terminal status counts as failed.
func (b *Batch) Err() error {
	var causes []error
	for _, r := range b.Results {
		switch {
		case r.Status == StatusFailed:
			causes = append(causes, errors.Errorf("%s: %w", r.ID, r.Err))
		case !r.Status.Terminal():
			causes = append(causes, errors.Errorf("%s: download never finished (%s)", r.ID, r.Status))
		}
	}
	if len(causes) == 0 {
		return nil
	}
	return &batchError{failed: len(causes), total: len(b.Results), causes: causes}
}

type batchError struct {
	failed int
	total  int
	causes []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%s: %d of %d downloads failed", ErrPartialBatch, e.failed, e.total)
}

func (e *batchError) Unwrap() []error {
	return append([]error{ErrPartialBatch}, e.causes...)
}
