// Copyright 2018 The CUE Authors
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

// Package errors defines the diagnostic error kinds raised by the Lark
// lexer, parser, and evaluator, along with the shared Error interface used
// to report them with source position information.
package errors

import (
	"errors"
	"fmt"

	"larklang.dev/lark/token"
)

// Kind classifies a diagnostic. See spec §7 for the full table.
type Kind int

const (
	Syntax Kind = iota
	NameUnbound
	NameRedefined
	Arity
	RefTypeMismatch
	UndefinedOp
	DotAccessRange
	DotAccessMissing
	NoDotAccess
	ImmutableString
	DuplicateLabel
	NoParent
	ImportNotFound
	Internal
)

var kindNames = [...]string{
	Syntax:           "Syntax",
	NameUnbound:      "NameUnbound",
	NameRedefined:    "NameRedefined",
	Arity:            "Arity",
	RefTypeMismatch:  "RefTypeMismatch",
	UndefinedOp:      "UndefinedOp",
	DotAccessRange:   "DotAccessRange",
	DotAccessMissing: "DotAccessMissing",
	NoDotAccess:      "NoDotAccess",
	ImmutableString:  "ImmutableString",
	DuplicateLabel:   "DuplicateLabel",
	NoParent:         "NoParent",
	ImportNotFound:   "ImportNotFound",
	Internal:         "Internal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Error is the interface implemented by all Lark diagnostics.
type Error interface {
	error
	Kind() Kind
	Position() token.Pos
	Msg() (format string, args []interface{})
}

// Is reports whether err (or an error it wraps) has the given Kind.
func Is(err error, k Kind) bool {
	var e Error
	if errors.As(err, &e) {
		return e.Kind() == k
	}
	return false
}

// As delegates to the standard library.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Unwrap delegates to the standard library.
func Unwrap(err error) error { return errors.Unwrap(err) }

type posError struct {
	kind   Kind
	pos    token.Pos
	format string
	args   []interface{}
}

// Newf creates a diagnostic of the given kind at pos.
func Newf(kind Kind, pos token.Pos, format string, args ...interface{}) Error {
	return &posError{kind: kind, pos: pos, format: format, args: args}
}

func (e *posError) Kind() Kind      { return e.kind }
func (e *posError) Position() token.Pos { return e.pos }
func (e *posError) Msg() (string, []interface{}) { return e.format, e.args }

func (e *posError) Error() string {
	msg := fmt.Sprintf(e.format, e.args...)
	if e.pos.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.pos, e.kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.kind, msg)
}

// List aggregates multiple diagnostics into a single error, matching the
// teacher's list-of-errors-as-error pattern.
type List []Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return ""
	case 1:
		return l[0].Error()
	}
	s := l[0].Error()
	for _, e := range l[1:] {
		s += "\n" + e.Error()
	}
	return s
}

// Append adds err to l, flattening any nested List.
func Append(l List, err error) List {
	if err == nil {
		return l
	}
	if sub, ok := err.(List); ok {
		return append(l, sub...)
	}
	var e Error
	if errors.As(err, &e) {
		return append(l, e)
	}
	return append(l, &posError{kind: Internal, format: "%s", args: []interface{}{err.Error()}})
}
