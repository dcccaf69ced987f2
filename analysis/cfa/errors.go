// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cfa

import (
	"errors"
	"fmt"

	"github.com/awslabs/ar-go-cpa/analysis/lang"
)

// ErrUnsupportedConstruct is wrapped by the errors returned when a program contains a construct that cannot be
// lowered to a CFA.
var ErrUnsupportedConstruct = errors.New("unsupported construct")

// UnsupportedConstructError is returned when a statement or expression cannot be lowered
type UnsupportedConstructError struct {
	// Stmt is the statement that could not be lowered. It may be nil.
	Stmt lang.Stmt

	// Reason describes the problem
	Reason string
}

func (e *UnsupportedConstructError) Error() string {
	if e.Stmt == nil {
		return fmt.Sprintf("%s: %s", ErrUnsupportedConstruct, e.Reason)
	}
	return fmt.Sprintf("%s: %s in %q", ErrUnsupportedConstruct, e.Reason, e.Stmt.String())
}

// Unwrap returns ErrUnsupportedConstruct
func (e *UnsupportedConstructError) Unwrap() error {
	return ErrUnsupportedConstruct
}

func unsupported(s lang.Stmt, format string, args ...any) error {
	return &UnsupportedConstructError{Stmt: s, Reason: fmt.Sprintf(format, args...)}
}
