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
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/operation"
)

// addDownloadFlags binds the worker pool flags shared by get and download
func addDownloadFlags(cmd *cobra.Command, workers *int, throttle *string) {
	cmd.Flags().IntVar(workers, "workers", 0, "number of concurrent downloads (default from config)")
	cmd.Flags().StringVar(throttle, "throttle", "", "minimum spacing between download starts, e.g. 250ms")
}

// applyDownloadFlags copies the worker pool flags over the config before the operator is built
func applyDownloadFlags(o *opts.RootOpts, workers int, throttle string) {
	if workers > 0 {
		o.Config.Concurrency = workers
	}
	if throttle != "" {
		o.Config.Throttle = throttle
	}
}

// report prints the summary table and turns failures into the command error
func report(console *log.Logger, reports ...*operation.Report) error {
	if err := console.Summary(operation.Summarize(reports)); err != nil {
		return err
	}
	for _, r := range reports {
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}

// NewGetCmd creates the get command
func NewGetCmd(o *opts.RootOpts) *cobra.Command {
	var (
		req      operation.GetRequest
		workers  int
		throttle string
	)

	cmd := &cobra.Command{
		Use:   "get FOLDER...",
		Short: "Download the matching files of remote folders",
		Long: `Get lists every folder given, keeps the files whose names contain every piece of
--pattern (split on "*", in any order) and none of the comma separated --exclude terms,
and downloads them into --dest under the cache directory.

A failing download never stops the others; the command fails after the summary if any did.`,
		Example: `  boxsync get 12345 --pattern "visit*.csv" --exclude "draft,old" --dest study-a`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			applyDownloadFlags(o, workers, throttle)
			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			req.Folders = args
			r, err := op.Get(ctx, req)
			if err != nil {
				return err
			}
			return report(log.FromContext(ctx), r)
		},
	}

	cmd.Flags().StringVar(&req.Pattern, "pattern", "", "loose name pattern, \"*\" separates required pieces")
	cmd.Flags().StringVar(&req.Exclude, "exclude", "", "comma separated terms, names containing any are skipped")
	cmd.Flags().IntVar(&req.MaxItems, "max", 0, "stop listing a folder after this many children, 0 lists everything")
	cmd.Flags().StringVar(&req.Destination, "dest", "", "destination, relative to the cache directory unless absolute")
	addDownloadFlags(cmd, &workers, &throttle)

	return cmd
}
