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
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(strings.TrimSpace(filename)), ".hcl")
}

type hclConfig struct {
	Provider    *string `hcl:"provider,optional"`
	CacheDir    *string `hcl:"cache_dir,optional"`
	Concurrency *int    `hcl:"concurrency,optional"`
	PageSize    *int    `hcl:"page_size,optional"`
	Throttle    *string `hcl:"throttle,optional"`
	MetricsFile *string `hcl:"metrics_file,optional"`
	Box         *struct {
		SettingsFile   *string `hcl:"settings_file,optional"`
		DeveloperToken *string `hcl:"developer_token,optional"`
		AsUser         *string `hcl:"as_user,optional"`
		BaseURL        *string `hcl:"base_url,optional"`
		TokenURL       *string `hcl:"token_url,optional"`
		UploadURL      *string `hcl:"upload_url,optional"`
	} `hcl:"box,block"`
	GitHub *struct {
		Token   *string `hcl:"token,optional"`
		BaseURL *string `hcl:"base_url,optional"`
	} `hcl:"github,block"`
	Jobs []struct {
		Name        string   `hcl:"name,label"`
		Folders     []string `hcl:"folders"`
		Pattern     *string  `hcl:"pattern,optional"`
		Exclude     *string  `hcl:"exclude,optional"`
		MaxItems    *int     `hcl:"max_items,optional"`
		Destination *string  `hcl:"destination,optional"`
	} `hcl:"job,block"`
}

// 📝 Parse parses the config from HCL. Expressions can read the process environment as env.NAME.
func (p *HCLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": environment(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Provider:    deref(hclCfg.Provider),
		CacheDir:    deref(hclCfg.CacheDir),
		Concurrency: deref(hclCfg.Concurrency),
		PageSize:    deref(hclCfg.PageSize),
		Throttle:    deref(hclCfg.Throttle),
		MetricsFile: deref(hclCfg.MetricsFile),
	}

	if b := hclCfg.Box; b != nil {
		cfg.Box = &BoxArgs{
			SettingsFile:   deref(b.SettingsFile),
			DeveloperToken: deref(b.DeveloperToken),
			AsUser:         deref(b.AsUser),
			BaseURL:        deref(b.BaseURL),
			TokenURL:       deref(b.TokenURL),
			UploadURL:      deref(b.UploadURL),
		}
	}
	if g := hclCfg.GitHub; g != nil {
		cfg.GitHub = &GitHubArgs{
			Token:   deref(g.Token),
			BaseURL: deref(g.BaseURL),
		}
	}

	for _, j := range hclCfg.Jobs {
		cfg.Jobs = append(cfg.Jobs, Job{
			Name:        j.Name,
			Folders:     j.Folders,
			Pattern:     deref(j.Pattern),
			Exclude:     deref(j.Exclude),
			MaxItems:    deref(j.MaxItems),
			Destination: deref(j.Destination),
		})
	}

	return cfg, nil
}

func environment() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !isIdent(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

// isIdent reports whether name can be used after "env."
func isIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
