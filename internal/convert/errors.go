/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package convert

import (
	"errors"
	"fmt"
)

// Kind classifies the two fatal failures of a conversion run.
type Kind int

const (
	KindInputUnavailable Kind = iota + 1
	KindOutputUnwritable
)

func (k Kind) String() string {
	switch k {
	case KindInputUnavailable:
		return "input unavailable"
	case KindOutputUnwritable:
		return "output unwritable"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; every *Error matches the sentinel of its Kind.
var (
	ErrInputUnavailable = errors.New("input unavailable")
	ErrOutputUnwritable = errors.New("output unwritable")
)

// Error reports a boundary failure with the offending path and the cause.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInputUnavailable:
		return fmt.Sprintf("unable to read file '%s': %v", e.Path, e.Err)
	case KindOutputUnwritable:
		return fmt.Sprintf("unable to write to file '%s': %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInputUnavailable) and friends identify the kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInputUnavailable:
		return e.Kind == KindInputUnavailable
	case ErrOutputUnwritable:
		return e.Kind == KindOutputUnwritable
	}
	return false
}

func inputErr(path string, err error) error {
	return &Error{Kind: KindInputUnavailable, Path: path, Err: err}
}

func outputErr(path string, err error) error {
	return &Error{Kind: KindOutputUnwritable, Path: path, Err: err}
}
