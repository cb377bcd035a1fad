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

package box

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔑 AppSettings mirrors the JSON config file Box generates for a JWT app
type AppSettings struct {
	BoxAppSettings struct {
		ClientID     string `json:"clientID"`
		ClientSecret string `json:"clientSecret"`
		AppAuth      struct {
			PublicKeyID string `json:"publicKeyID"`
			PrivateKey  string `json:"privateKey"`
			Passphrase  string `json:"passphrase"`
		} `json:"appAuth"`
	} `json:"boxAppSettings"`
	EnterpriseID string `json:"enterpriseID"`
}

// LoadAppSettings reads a Box app settings file. A leading "~/" is expanded to the home directory.
func LoadAppSettings(path string) (*AppSettings, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading box app settings: %w", err)
	}

	return ParseAppSettings(data)
}

// ParseAppSettings decodes and validates the content of a Box app settings file
func ParseAppSettings(data []byte) (*AppSettings, error) {
	var s AppSettings
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, errors.Errorf("parsing box app settings: %w", err)
	}

	switch {
	case s.BoxAppSettings.ClientID == "":
		return nil, errors.New("box app settings: boxAppSettings.clientID is required")
	case s.BoxAppSettings.ClientSecret == "":
		return nil, errors.New("box app settings: boxAppSettings.clientSecret is required")
	case s.BoxAppSettings.AppAuth.PrivateKey == "":
		return nil, errors.New("box app settings: boxAppSettings.appAuth.privateKey is required")
	case s.EnterpriseID == "":
		return nil, errors.New("box app settings: enterpriseID is required")
	}

	return &s, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
