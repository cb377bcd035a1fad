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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/boxsync/cmd/boxsync/opts"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local cache directory",
	}

	cmd.AddCommand(newCacheLsCmd(o))
	return cmd
}

func newCacheLsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [GLOB]",
		Short:   "List cached files, optionally filtered by a doublestar glob",
		Example: `  boxsync cache ls "study-a/**/*.csv"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}

			files, err := o.Cache.Glob(pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "%d\t%s\n", f.Size, f.Path)
			}
			return nil
		},
	}
}
