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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Defaults applied by Validate
const (
	DefaultProvider     = "box"
	DefaultCacheDir     = "boxsync_cache"
	DefaultConcurrency  = 20
	DefaultPageSize     = 1000
	DefaultSettingsFile = "~/BoxApp.json"
)

// knownProviders are the backends compiled into boxsync
var knownProviders = []string{"box", "github"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes, without validating it
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📦 BoxArgs configures the box provider
type BoxArgs struct {
	SettingsFile   string `json:"settings_file,omitempty" yaml:"settings_file,omitempty"`
	DeveloperToken string `json:"developer_token,omitempty" yaml:"developer_token,omitempty"`
	AsUser         string `json:"as_user,omitempty" yaml:"as_user,omitempty"`
	BaseURL        string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	TokenURL       string `json:"token_url,omitempty" yaml:"token_url,omitempty"`
	UploadURL      string `json:"upload_url,omitempty" yaml:"upload_url,omitempty"`
}

// 🐙 GitHubArgs configures the github provider
type GitHubArgs struct {
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// 📥 Job is one named "list these folders, keep what matches, download it" unit
type Job struct {
	Name        string   `json:"name" yaml:"name"`
	Folders     []string `json:"folders" yaml:"folders"`
	Pattern     string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Exclude     string   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	MaxItems    int      `json:"max_items,omitempty" yaml:"max_items,omitempty"`
	Destination string   `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Provider    string      `json:"provider,omitempty" yaml:"provider,omitempty"`
	CacheDir    string      `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
	Concurrency int         `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	PageSize    int         `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	Throttle    string      `json:"throttle,omitempty" yaml:"throttle,omitempty"` // Go duration, e.g. "250ms"
	MetricsFile string      `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty"`
	Box         *BoxArgs    `json:"box,omitempty" yaml:"box,omitempty"`
	GitHub      *GitHubArgs `json:"github,omitempty" yaml:"github,omitempty"`
	Jobs        []Job       `json:"jobs,omitempty" yaml:"jobs,omitempty"`

	location string
}

// Default returns a validated config with no jobs
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(path))
	}

	cfg, err := p.Parse(ctx, data, filepath.Base(path))
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Location is the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if !isKnownProvider(cfg.Provider) {
		return errors.Errorf("unknown provider %q, options: %s", cfg.Provider, strings.Join(knownProviders, ", "))
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	cfg.CacheDir = filepath.Clean(cfg.CacheDir)

	switch {
	case cfg.Concurrency < 0:
		return errors.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	case cfg.Concurrency == 0:
		cfg.Concurrency = DefaultConcurrency
	}

	switch {
	case cfg.PageSize < 0:
		return errors.Errorf("page_size must not be negative, got %d", cfg.PageSize)
	case cfg.PageSize == 0:
		cfg.PageSize = DefaultPageSize
	}

	if _, err := cfg.ThrottleDuration(); err != nil {
		return err
	}

	if cfg.Box == nil {
		cfg.Box = &BoxArgs{}
	}
	if cfg.Box.SettingsFile == "" && cfg.Box.DeveloperToken == "" {
		cfg.Box.SettingsFile = DefaultSettingsFile
	}
	if cfg.GitHub == nil {
		cfg.GitHub = &GitHubArgs{}
	}

	seen := map[string]bool{}
	for i := range cfg.Jobs {
		job := &cfg.Jobs[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if seen[job.Name] {
			return errors.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true

		if len(job.Folders) == 0 {
			return errors.Errorf("job %q needs at least one folder", job.Name)
		}
		if job.MaxItems < 0 {
			return errors.Errorf("job %q: max_items must not be negative, got %d", job.Name, job.MaxItems)
		}
	}

	return nil
}

// ThrottleDuration parses Throttle; an empty value disables throttling
func (cfg *Config) ThrottleDuration() (time.Duration, error) {
	if cfg.Throttle == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Throttle)
	if err != nil {
		return 0, errors.Errorf("parsing throttle %q: %w", cfg.Throttle, err)
	}
	if d < 0 {
		return 0, errors.Errorf("throttle must not be negative, got %s", d)
	}
	return d, nil
}

// Job returns the job called name
func (cfg *Config) Job(name string) (Job, bool) {
	for _, j := range cfg.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

// RemoteSettings translates the selected provider block into remote.Settings
func (cfg *Config) RemoteSettings() remote.Settings {
	switch cfg.Provider {
	case "github":
		gh := cfg.GitHub
		if gh == nil {
			gh = &GitHubArgs{}
		}
		return remote.Settings{BaseURL: gh.BaseURL, Token: gh.Token}
	default:
		b := cfg.Box
		if b == nil {
			b = &BoxArgs{}
		}
		return remote.Settings{
			BaseURL: b.BaseURL,
			Token:   b.DeveloperToken,
			Values: map[string]string{
				"settings_file": b.SettingsFile,
				"as_user":       b.AsUser,
				"token_url":     b.TokenURL,
				"upload_url":    b.UploadURL,
			},
		}
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (%d jobs, %d workers)", cfg.Provider, cfg.CacheDir, len(cfg.Jobs), cfg.Concurrency)
}

func isKnownProvider(name string) bool {
	for _, p := range knownProviders {
		if p == name {
			return true
		}
	}
	return false
}
