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
	"gitlab.com/tozd/go/errors"
)

// NewUploadCmd creates the upload command
func NewUploadCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FOLDER FILE...",
		Short: "Upload local files into a remote folder (box only)",
		Long: `Upload sends each FILE into FOLDER under its base name. Every file is tried,
and the command fails if any of them could not be sent.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			var errs []error
			for _, path := range args[1:] {
				if _, err := op.Upload(ctx, args[0], path); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

// NewUpdateCmd creates the update command
func NewUpdateCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "update FILE_ID PATH",
		Short: "Replace the content of a remote file with a local one (box only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op, err := o.Operator(ctx)
			if err != nil {
				return err
			}

			_, err = op.Update(ctx, args[0], args[1])
			return err
		},
	}
}
