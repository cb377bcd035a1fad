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
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is where Box exchanges JWT assertions for access tokens
	DefaultTokenURL = "https://api.box.com/oauth2/token"

	assertionLifetime = 45 * time.Second // Box rejects assertions living longer than 60s
	jwtBearerGrant    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// assertionClaims are the claims Box expects in an app auth assertion.
// aud must be a plain string, so it shadows the array-encoded RegisteredClaims.Audience.
type assertionClaims struct {
	BoxSubType string `json:"box_sub_type"`
	Audience   string `json:"aud"`
	jwt.RegisteredClaims
}

// 🎟️ jwtSource is an oauth2.TokenSource running the Box JWT bearer flow for the enterprise service account
type jwtSource struct {
	ctx      context.Context
	settings *AppSettings
	key      *rsa.PrivateKey
	tokenURL string
	http     *http.Client
	now      func() time.Time
}

func newJWTSource(ctx context.Context, settings *AppSettings, tokenURL string, hc *http.Client) (*jwtSource, error) {
	pemData := settings.BoxAppSettings.AppAuth.PrivateKey
	if strings.Contains(pemData, "ENCRYPTED") {
		return nil, errors.New("encrypted private keys are not supported, export the key without a passphrase")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, errors.Errorf("parsing box private key: %w", err)
	}

	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	return &jwtSource{
		ctx:      ctx,
		settings: settings,
		key:      key,
		tokenURL: tokenURL,
		http:     hc,
		now:      time.Now,
	}, nil
}

// assertion builds and signs the RS512 assertion sent to the token endpoint
func (s *jwtSource) assertion() (string, error) {
	now := s.now()
	claims := assertionClaims{
		BoxSubType: "enterprise",
		Audience:   s.tokenURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.settings.BoxAppSettings.ClientID,
			Subject:   s.settings.EnterpriseID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS512, claims)
	if kid := s.settings.BoxAppSettings.AppAuth.PublicKeyID; kid != "" {
		tok.Header["kid"] = kid
	}

	signed, err := tok.SignedString(s.key)
	if err != nil {
		return "", errors.Errorf("signing assertion: %w", err)
	}
	return signed, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token implements oauth2.TokenSource
func (s *jwtSource) Token() (*oauth2.Token, error) {
	zerolog.Ctx(s.ctx).Debug().Str("token_url", s.tokenURL).Msg("requesting box access token")

	assertion, err := s.assertion()
	if err != nil {
		return nil, err
	}

	form := url.Values{
		"grant_type":    {jwtBearerGrant},
		"assertion":     {assertion},
		"client_id":     {s.settings.BoxAppSettings.ClientID},
		"client_secret": {s.settings.BoxAppSettings.ClientSecret},
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, remote.TransportError("requesting access token", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp, "requesting access token"); err != nil {
		return nil, err
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, remote.TransportError("decoding access token", err)
	}
	if body.AccessToken == "" {
		return nil, remote.TransportError("requesting access token", errors.New("empty access token"))
	}

	return &oauth2.Token{
		AccessToken: body.AccessToken,
		TokenType:   "Bearer",
		Expiry:      s.now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}
