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
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/walteh/boxsync/cmd/boxsync/opts"
	"github.com/walteh/boxsync/pkg/metrics"
	"gitlab.com/tozd/go/errors"

	_ "github.com/walteh/boxsync/pkg/remote/box"
	_ "github.com/walteh/boxsync/pkg/remote/github"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, connect)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer, connect opts.ConnectFunc) int {
	o := &opts.RootOpts{Connect: connect}

	cmd := newRootCmd(o, stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	// metrics are written even when the command failed, partial runs are worth recording
	if o.Config != nil && o.Config.MetricsFile != "" {
		if merr := metrics.WriteTextfile(o.Config.MetricsFile); merr != nil {
			err = errors.Join(err, merr)
		}
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(stderr, "❌ %v\n", err)
		return 1
	}
	return 0
}
