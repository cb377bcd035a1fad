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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/boxsync/cmd/boxsync/commands"
	"github.com/walteh/boxsync/cmd/boxsync/opts"
	"github.com/walteh/boxsync/pkg/cache"
	"github.com/walteh/boxsync/pkg/config"
	"github.com/walteh/boxsync/pkg/log"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// configCandidates are looked up in the working directory when --config is not given
var configCandidates = []string{".boxsync.yaml", ".boxsync.yml", ".boxsync.hcl", ".boxsync.json"}

type rootFlags struct {
	configFile  string
	debug       bool
	provider    string
	cacheDir    string
	metricsFile string
}

// connect builds the client through the provider registry
func connect(ctx context.Context, cfg *config.Config) (remote.FolderClient, error) {
	return remote.NewClient(ctx, cfg.Provider, cfg.RemoteSettings())
}

func newRootCmd(o *opts.RootOpts, stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "boxsync",
		Short: "Pull files from remote folders into a local cache",
		Long: `boxsync lists remote folders (Box, or GitHub repositories), keeps the files whose
names match a loose pattern and downloads them concurrently into a local cache directory.

Ad-hoc commands work without a config file; sync runs the jobs of .boxsync.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := setup(cmd.Context(), flags, o, stdout, stderr)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewLsCmd(o),
		commands.NewGetCmd(o),
		commands.NewDownloadCmd(o),
		commands.NewSearchCmd(o),
		commands.NewInfoCmd(o),
		commands.NewSyncCmd(o),
		commands.NewUploadCmd(o),
		commands.NewUpdateCmd(o),
		commands.NewCacheCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (default: .boxsync.{yaml,yml,hcl,json} if present)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "remote provider (box, github)")
	cmd.PersistentFlags().StringVar(&flags.cacheDir, "cache", "", "cache directory downloads are written to")
	cmd.PersistentFlags().StringVar(&flags.metricsFile, "metrics-file", "", "write prometheus metrics to this file when done")
}

// setup configures logging, loads the config and opens the cache directory
func setup(ctx context.Context, flags *rootFlags, o *opts.RootOpts, stdout, stderr io.Writer) (context.Context, error) {
	level := zerolog.WarnLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level).With().Timestamp().Logger()
	ctx = zlog.WithContext(ctx)
	ctx = log.NewContext(ctx, log.NewWithZerolog(stdout, zlog))

	cfg, err := loadConfig(ctx, flags.configFile)
	if err != nil {
		return ctx, err
	}

	if flags.provider != "" {
		cfg.Provider = flags.provider
	}
	if flags.cacheDir != "" {
		cfg.CacheDir = flags.cacheDir
	}
	if flags.metricsFile != "" {
		cfg.MetricsFile = flags.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return ctx, errors.Errorf("validating config: %w", err)
	}
	o.Config = cfg

	dir, err := cache.Open(ctx, cfg.CacheDir)
	if err != nil {
		return ctx, err
	}
	o.Cache = dir

	zlog.Debug().Str("config", cfg.String()).Str("location", cfg.Location()).Msg("configured")
	return ctx, nil
}

// loadConfig loads the named file, else the first candidate present, else the defaults
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(ctx, path)
	}
	for _, candidate := range configCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return config.Load(ctx, candidate)
		}
	}
	return config.Default(), nil
}
