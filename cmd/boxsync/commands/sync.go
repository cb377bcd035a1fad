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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/boxsync/cmd/boxsync/opts"
	"github.com/walteh/boxsync/pkg/config"
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewSyncCmd creates a new sync command
func NewSyncCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync [JOB...]",
		Short: "Run the jobs of the config file",
		Long: `Sync runs every job of the config file in order, or only the named ones.
For each job it will:
1. List the job's folders
2. Keep the files matching the job's pattern and exclusions
3. Download them into the job's destination

A failing job does not stop the next one; the command fails after the summary if any did.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			jobs, err := selectJobs(o.Config, args)
			if err != nil {
				return err
			}

			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			console := log.FromContext(ctx)
			console.Header(o.Config.String())

			reports, syncErr := op.Sync(ctx, jobs)
			if err := console.Summary(operation.Summarize(reports)); err != nil {
				return errors.Join(syncErr, err)
			}
			if syncErr != nil {
				return errors.Errorf("syncing: %w", syncErr)
			}
			console.Successf("%d jobs synced", len(reports))
			return nil
		},
	}

	return cmd
}

func selectJobs(cfg *config.Config, names []string) ([]config.Job, error) {
	if len(cfg.Jobs) == 0 {
		where := cfg.Location()
		if where == "" {
			where = "the config (no config file found)"
		}
		return nil, errors.Errorf("no jobs configured in %s", where)
	}
	if len(names) == 0 {
		return cfg.Jobs, nil
	}

	jobs := make([]config.Job, 0, len(names))
	for _, name := range names {
		job, ok := cfg.Job(name)
		if !ok {
			return nil, errors.Errorf("unknown job %q", name)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
