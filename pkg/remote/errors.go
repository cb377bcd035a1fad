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

package remote

import "fmt"

// Error tags a failure with its taxonomy kind (ErrTransport, ErrNotFound, ...)
// while keeping the underlying cause reachable through errors.Is / errors.As.
type Error struct {
	Op   string // operation being performed, e.g. "listing folder 123"
	Kind error  // one of the Err* sentinels
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// TransportError wraps err as an ErrTransport failure of op
func TransportError(op string, err error) error {
	return &Error{Op: op, Kind: ErrTransport, Err: err}
}

// NotFoundError wraps err as an ErrNotFound failure of op
func NotFoundError(op string, err error) error {
	return &Error{Op: op, Kind: ErrNotFound, Err: err}
}
