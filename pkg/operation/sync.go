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

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// Sync runs every job in order. A failing job does not stop the next one;
// the returned error joins every job failure, partial batches included.
func (o *Operator) Sync(ctx context.Context, jobs []config.Job) ([]*Report, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Int("jobs", len(jobs)).Msg("syncing jobs")

	reports := make([]*Report, 0, len(jobs))
	var errs []error

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, errors.Errorf("job %s not started: %w", job.Name, err))
			reports = append(reports, &Report{Label: job.Name, ListErr: err})
			continue
		}

		report, err := o.Get(ctx, GetRequest{
			Label:       job.Name,
			Folders:     job.Folders,
			Pattern:     job.Pattern,
			Exclude:     job.Exclude,
			MaxItems:    job.MaxItems,
			Destination: job.Destination,
		})
		if err != nil {
			logger.Error().Err(err).Str("job", job.Name).Msg("job failed")
			errs = append(errs, err)
			reports = append(reports, &Report{Label: job.Name, ListErr: err})
			continue
		}

		reports = append(reports, report)
		if err := report.Err(); err != nil {
			errs = append(errs, err)
		}
	}

	return reports, errors.Join(errs...)
}
