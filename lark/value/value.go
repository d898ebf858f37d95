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

// Package value implements Lark's tagged value model: nil, bool, int,
// float, string, tuple, and host-adapted values (spec §3, §4.1). Closures
// ("parameterized values") are defined in package mem, since they hold a
// back-pointer to their defining environment; they still implement the
// Value interface declared here.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"larklang.dev/lark/errors"
	"larklang.dev/lark/token"
)

// Kind tags the dynamic type of a Value.
type Kind int

const (
	KNil Kind = iota
	KBool
	KInt
	KFloat
	KString
	KTuple
	KClosure
	KHost
)

func (k Kind) String() string {
	switch k {
	case KNil:
		return "nil"
	case KBool:
		return "bool"
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KString:
		return "string"
	case KTuple:
		return "tuple"
	case KClosure:
		return "pval"
	case KHost:
		return "host"
	}
	return "unknown"
}

// Value is implemented by every runtime datum in Lark.
type Value interface {
	Kind() Kind
	// String renders the value for the print builtin and diagnostics.
	String() string
	// Equal reports spec §4.1 equality: tags and data must match. For
	// tuples, only positional data is compared (spec §9).
	Equal(other Value) bool
}

// Truthy reports whether v counts as true under unary `!`: not one of
// false, nil, zero, "", or (). Conditionals and loops do not use it.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(x)
	case Int:
		return x != 0
	case Float:
		return x != 0
	case String:
		return len(x) != 0
	case *Tuple:
		return x.Len() != 0 || len(x.named) != 0
	default:
		return true
	}
}

// Nil is Lark's single nil value.
type Nil struct{}

// NilValue is the interned nil singleton (spec invariant §3.6).
var NilValue = Nil{}

func (Nil) Kind() Kind        { return KNil }
func (Nil) String() string    { return "nil" }
func (Nil) Equal(o Value) bool {
	_, ok := o.(Nil)
	return ok
}

// Bool is Lark's boolean type. True and False below are the interned
// singletons referenced by spec invariant §3.6.
type Bool bool

var (
	True  = Bool(true)
	False = Bool(false)
)

func (b Bool) Kind() Kind     { return KBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (b Bool) Equal(o Value) bool {
	x, ok := o.(Bool)
	return ok && x == b
}

// Int is a 64-bit signed integer value. Overflow follows Go's native
// wraparound semantics (spec's Non-goals exclude overflow checking).
type Int int64

func (i Int) Kind() Kind     { return KInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Equal(o Value) bool {
	x, ok := o.(Int)
	return ok && x == i
}

// Float is a 64-bit floating point value.
type Float float64

func (f Float) Kind() Kind { return KFloat }
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}
func (f Float) Equal(o Value) bool {
	x, ok := o.(Float)
	return ok && x == f
}

// String is Lark's immutable byte-sequence string type.
type String string

func (s String) Kind() Kind     { return KString }
func (s String) String() string { return string(s) }
func (s String) Equal(o Value) bool {
	x, ok := o.(String)
	return ok && x == s
}

// Len reports the number of bytes (spec treats index access byte-wise,
// matching "no Unicode-aware string operations" in the Non-goals).
func (s String) Len() int { return len(s) }

// Index returns the 1-character string at position i, or a
// DotAccessRange error if i is out of bounds.
func (s String) Index(i int) (Value, error) {
	if i < 0 || i >= len(s) {
		return nil, errors.Newf(errors.DotAccessRange, token.NoPos,
			"string index %d out of range (length %d)", i, len(s))
	}
	return String(s[i : i+1]), nil
}

// Split implements the string `/` operator: split on sep, returning the
// pieces as a positional tuple. An empty separator is UndefinedOp.
func (s String) Split(sep string) (*Tuple, error) {
	if sep == "" {
		return nil, errors.Newf(errors.UndefinedOp, token.NoPos,
			"cannot split string on an empty separator")
	}
	parts := strings.Split(string(s), sep)
	t := NewTuple()
	for _, p := range parts {
		t.Append(String(p))
	}
	return t, nil
}

// HostAdapter is implemented by the optional embedder (spec §6) that
// wraps arbitrary host objects as `host`-typed Lark values.
type HostAdapter interface {
	GetMember(obj interface{}, key Value) (Value, error)
	SetMember(obj interface{}, key Value, val Value) (Value, error)
	Invoke(obj interface{}, args []Value) (Value, error)
	String(obj interface{}) string
}

// Host wraps an arbitrary host object, delegating member access and
// invocation to its Adapter.
type Host struct {
	Obj     interface{}
	Adapter HostAdapter
}

func (h *Host) Kind() Kind { return KHost }
func (h *Host) String() string {
	if h.Adapter != nil {
		return h.Adapter.String(h.Obj)
	}
	return fmt.Sprintf("<host %v>", h.Obj)
}
func (h *Host) Equal(o Value) bool {
	x, ok := o.(*Host)
	return ok && x.Obj == h.Obj
}
