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
	"github.com/walteh/boxsync/pkg/fetch"
	"github.com/walteh/boxsync/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 📊 Report is the accounting of one run: what was listed, what matched, what was saved
type Report struct {
	Label   string
	Dir     string
	Listed  int
	Matched int
	Batch   *fetch.Batch
	ListErr error // set when listing failed and nothing was downloaded
}

// Err returns the listing error, the partial batch error, or nil
func (r *Report) Err() error {
	if r.ListErr != nil {
		return r.ListErr
	}
	if r.Batch == nil {
		return nil
	}
	if err := r.Batch.Err(); err != nil {
		return errors.Errorf("%s: %w", r.Label, err)
	}
	return nil
}

// Row converts the report into a summary table row
func (r *Report) Row() log.SummaryRow {
	row := log.SummaryRow{
		Name:    r.Label,
		Listed:  r.Listed,
		Matched: r.Matched,
	}
	if r.ListErr != nil {
		row.Name += " (listing failed)"
	}
	if r.Batch != nil {
		row.Saved = len(r.Batch.Saved())
		row.Failed = len(r.Batch.Failed())
		row.Bytes = r.Batch.Bytes()
	}
	return row
}

// Summarize turns reports into summary rows, in order
func Summarize(reports []*Report) []log.SummaryRow {
	rows := make([]log.SummaryRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, r.Row())
	}
	return rows
}
