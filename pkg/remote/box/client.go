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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Box Content API root
const DefaultBaseURL = "https://api.box.com/2.0"

// Keys read from remote.Settings.Values by the registered factory
const (
	SettingsFileKey = "settings_file"
	AsUserKey       = "as_user"
	TokenURLKey     = "token_url"
	UploadURLKey    = "upload_url"
)

func init() {
	remote.RegisterProvider("box", func(ctx context.Context, s remote.Settings) (remote.FolderClient, error) {
		return New(ctx, Options{
			BaseURL:        s.BaseURL,
			TokenURL:       s.Get(TokenURLKey),
			UploadURL:      s.Get(UploadURLKey),
			SettingsFile:   s.Get(SettingsFileKey),
			DeveloperToken: s.Token,
			AsUser:         s.Get(AsUserKey),
		})
	})
}

// Options configures a Client. Exactly one of SettingsFile, Settings or DeveloperToken is required.
type Options struct {
	BaseURL        string
	TokenURL       string
	UploadURL      string
	SettingsFile   string
	Settings       *AppSettings
	DeveloperToken string
	// AsUser is the display name of the managed user to act as; empty acts as the service account
	AsUser string
	// HTTPClient is the transport underneath the oauth2 layer, mostly for tests
	HTTPClient *http.Client
}

// 📦 Client talks to the Box Content API. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	uploadURL string
	asUser    string // user id sent in the As-User header
}

var _ remote.FolderClient = (*Client)(nil)

// New builds an authenticated Client
func New(ctx context.Context, opts Options) (*Client, error) {
	logger := zerolog.Ctx(ctx)

	base := opts.HTTPClient
	if base == nil {
		base = http.DefaultClient
	}
	// oauth2.NewClient picks its underlying transport from the context
	tctx := context.WithValue(ctx, oauth2.HTTPClient, base)

	var ts oauth2.TokenSource
	switch {
	case opts.DeveloperToken != "":
		logger.Debug().Msg("using box developer token")
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.DeveloperToken, TokenType: "Bearer"})
	case opts.Settings != nil || opts.SettingsFile != "":
		settings := opts.Settings
		if settings == nil {
			var err error
			settings, err = LoadAppSettings(opts.SettingsFile)
			if err != nil {
				return nil, err
			}
		}
		src, err := newJWTSource(tctx, settings, opts.TokenURL, base)
		if err != nil {
			return nil, errors.Errorf("creating jwt token source: %w", err)
		}
		ts = oauth2.ReuseTokenSource(nil, src)
	default:
		return nil, errors.New("box client needs a settings file or a developer token")
	}

	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	uploadURL := strings.TrimSuffix(opts.UploadURL, "/")
	if uploadURL == "" {
		uploadURL = DefaultUploadURL
	}

	c := &Client{
		http:      oauth2.NewClient(tctx, ts),
		baseURL:   baseURL,
		uploadURL: uploadURL,
	}

	if opts.AsUser != "" {
		user, err := c.FindUser(ctx, opts.AsUser)
		if err != nil {
			return nil, errors.Errorf("resolving as-user %q: %w", opts.AsUser, err)
		}
		logger.Debug().Str("user", user.Name).Str("login", user.Login).Msg("acting as box user")
		c.asUser = user.ID
	}

	return c, nil
}

// newRequest builds a request against path (relative to the API root) with query parameters
func (c *Client) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	if c.asUser != "" {
		req.Header.Set("As-User", c.asUser)
	}
	return req, nil
}

// do sends req and returns the response for a 2xx status, mapping every other outcome to the remote taxonomy
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	zerolog.Ctx(req.Context()).Trace().Str("url", req.URL.String()).Msg("box request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, remote.TransportError(op, err)
	}
	if err := checkResponse(resp, op); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// getJSON performs a GET and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, op string, out any) error {
	req, err := c.newRequest(ctx, path, query)
	if err != nil {
		return err
	}

	resp, err := c.do(req, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return remote.TransportError(op, errors.Errorf("decoding response: %w", err))
	}
	return nil
}

// apiError is the body Box returns alongside non-2xx statuses
type apiError struct {
	Type      string `json:"type"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("box api status %d", e.Status)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// checkResponse turns a non-2xx response into a taxonomy error; the caller still owns resp.Body
func checkResponse(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &apiError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Status == 0 {
		apiErr.Status = resp.StatusCode
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		return remote.NotFoundError(op, apiErr)
	}
	return remote.TransportError(op, apiErr)
}
