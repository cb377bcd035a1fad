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
	"gitlab.com/tozd/go/errors"
)

// NewLsCmd creates the ls command
func NewLsCmd(o *opts.RootOpts) *cobra.Command {
	var (
		filesOnly   bool
		foldersOnly bool
		pageSize    int
		maxItems    int
	)

	cmd := &cobra.Command{
		Use:   "ls FOLDER...",
		Short: "List the children of remote folders",
		Long: `Ls pages through every folder given and prints its sub-folders, then its files.
With --max the listing stops once that many children were seen; the last page is kept whole.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if pageSize > 0 {
				o.Config.PageSize = pageSize
			}
			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			files, folders, err := op.List(ctx, args, maxItems)
			if err != nil {
				return errors.Errorf("ls: %w", err)
			}

			console := log.FromContext(ctx)
			if !filesOnly {
				for _, e := range folders {
					console.LogEntry(ctx, e)
				}
			}
			if !foldersOnly {
				for _, e := range files {
					console.LogEntry(ctx, e)
				}
			}
			console.LogNewline()
			console.Infof("%d files, %d folders", len(files), len(folders))
			return nil
		},
	}

	cmd.Flags().BoolVar(&filesOnly, "files-only", false, "only print files")
	cmd.Flags().BoolVar(&foldersOnly, "folders-only", false, "only print folders")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "listing page size (default from config)")
	cmd.Flags().IntVar(&maxItems, "max", 0, "stop listing a folder after this many children, 0 lists everything")
	cmd.MarkFlagsMutuallyExclusive("files-only", "folders-only")

	return cmd
}
