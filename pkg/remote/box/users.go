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
	"fmt"
	"net/url"

	"github.com/walteh/boxsync/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// User is a Box enterprise user
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Login string `json:"login"`
}

type userCollection struct {
	Entries []User `json:"entries"`
}

// FindUser looks up an enterprise user by exact display name
func (c *Client) FindUser(ctx context.Context, name string) (User, error) {
	var users userCollection
	query := url.Values{
		"filter_term": {name},
		"limit":       {"1000"},
		"fields":      {"id,name,login"},
	}
	op := fmt.Sprintf("finding user %q", name)
	if err := c.getJSON(ctx, "/users", query, op, &users); err != nil {
		return User{}, err
	}

	for _, u := range users.Entries {
		if u.Name == name {
			return u, nil
		}
	}
	return User{}, remote.NotFoundError(op, errors.Errorf("no user named %q among %d candidates", name, len(users.Entries)))
}
