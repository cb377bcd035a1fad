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

// NewInfoCmd creates the info command
func NewInfoCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "info FOLDER",
		Short: "Show the name and owner of a remote folder (box only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			info, err := op.Info(ctx, args[0])
			if err != nil {
				return err
			}

			log.FromContext(ctx).Infof("%s  %s  owned by %s", info.ID, info.Name, info.Owner)
			return nil
		},
	}
}
