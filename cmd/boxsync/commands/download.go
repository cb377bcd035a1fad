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
)

// NewDownloadCmd creates the download command
func NewDownloadCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dest     string
		workers  int
		throttle string
	)

	cmd := &cobra.Command{
		Use:   "download ID...",
		Short: "Download remote files by identifier",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			applyDownloadFlags(o, workers, throttle)
			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			return report(log.FromContext(ctx), op.Download(ctx, args, dest))
		},
	}

	cmd.Flags().StringVar(&dest, "dest", "", "destination, relative to the cache directory unless absolute")
	addDownloadFlags(cmd, &workers, &throttle)

	return cmd
}
