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
	"github.com/walteh/boxsync/pkg/remote/box"
)

// NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		exclude string
		search  box.SearchOptions
	)

	cmd := &cobra.Command{
		Use:   "search PATTERN",
		Short: "Search the remote for items named like PATTERN (box only)",
		Long: `Search sends PATTERN to the remote search endpoint, then keeps only the results
that contain every "*" separated piece of it and none of the --exclude terms.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			entries, err := op.Search(ctx, args[0], exclude, search)
			if err != nil {
				return err
			}

			console := log.FromContext(ctx)
			for _, e := range entries {
				console.LogEntry(ctx, e)
			}
			console.LogNewline()
			console.Infof("%d results", len(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&exclude, "exclude", "", "comma separated terms, names containing any are skipped")
	cmd.Flags().IntVar(&search.Limit, "limit", 0, "maximum number of results requested (default 100)")
	cmd.Flags().StringSliceVar(&search.AncestorFolderIDs, "ancestor", nil, "only search below these folders")
	cmd.Flags().StringSliceVar(&search.FileExtensions, "ext", nil, "only return files with these extensions, e.g. csv")

	return cmd
}
