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

package value

import (
	"sort"
	"strings"

	"larklang.dev/lark/errors"
	"larklang.dev/lark/token"
)

// Tuple is Lark's sole compound data type: an ordered positional sequence
// plus an unordered string-keyed map, coexisting independently (spec §3).
type Tuple struct {
	pos   []Value
	named map[string]Value
}

// NewTuple returns an empty tuple.
func NewTuple() *Tuple {
	return &Tuple{named: map[string]Value{}}
}

func (t *Tuple) Kind() Kind { return KTuple }

func (t *Tuple) String() string {
	var b strings.Builder
	b.WriteByte('(')
	first := true
	for _, v := range t.pos {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(v.String())
	}
	for _, k := range t.sortedLabels() {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(t.named[k].String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal compares positional data only. Named members are deliberately
// excluded, matching the source interpreter's `==` (spec §9).
func (t *Tuple) Equal(o Value) bool {
	x, ok := o.(*Tuple)
	if !ok || len(x.pos) != len(t.pos) {
		return false
	}
	for i, v := range t.pos {
		if !v.Equal(x.pos[i]) {
			return false
		}
	}
	return true
}

// Len returns the positional length.
func (t *Tuple) Len() int { return len(t.pos) }

// Append adds a positional element.
func (t *Tuple) Append(v Value) { t.pos = append(t.pos, v) }

// SetNamed inserts or overwrites a named member directly, failing
// DuplicateLabel if label is already present and insertOnly is true. Used
// by the tuple-literal evaluator (spec §4.5).
func (t *Tuple) SetNamed(label string, v Value, insertOnly bool) error {
	if insertOnly {
		if _, exists := t.named[label]; exists {
			return errors.Newf(errors.DuplicateLabel, token.NoPos,
				"duplicate tuple label %q", label)
		}
	}
	t.named[label] = v
	return nil
}

func (t *Tuple) sortedLabels() []string {
	keys := make([]string, 0, len(t.named))
	for k := range t.named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Labels returns the tuple's named keys as a positional tuple of strings,
// sorted for determinism.
func (t *Tuple) Labels() *Tuple {
	out := NewTuple()
	for _, k := range t.sortedLabels() {
		out.Append(String(k))
	}
	return out
}

// Elements returns every positional and named value, in no particular
// order; used by the memory manager to cascade refcount releases into
// nested values.
func (t *Tuple) Elements() []Value {
	out := make([]Value, 0, len(t.pos)+len(t.named))
	out = append(out, t.pos...)
	for _, v := range t.named {
		out = append(out, v)
	}
	return out
}

// Index returns the positional element at i, or DotAccessRange.
func (t *Tuple) Index(i int) (Value, error) {
	if i < 0 || i >= len(t.pos) {
		return nil, errors.Newf(errors.DotAccessRange, token.NoPos,
			"tuple index %d out of range (length %d)", i, len(t.pos))
	}
	return t.pos[i], nil
}

// Named returns the named member, or DotAccessMissing.
func (t *Tuple) Named(key string) (Value, error) {
	v, ok := t.named[key]
	if !ok {
		return nil, errors.Newf(errors.DotAccessMissing, token.NoPos,
			"tuple has no member %q", key)
	}
	return v, nil
}

// SetIndex overwrites an existing positional slot; it does not auto-extend
// (spec §4.1).
func (t *Tuple) SetIndex(i int, v Value) error {
	if i < 0 || i >= len(t.pos) {
		return errors.Newf(errors.DotAccessRange, token.NoPos,
			"tuple index %d out of range (length %d)", i, len(t.pos))
	}
	t.pos[i] = v
	return nil
}

// SetNamedMember inserts or overwrites a named member (mutating
// set_member, spec §4.1 — unlike SetNamed, this always overwrites).
func (t *Tuple) SetNamedMember(key string, v Value) {
	t.named[key] = v
}

// DeepCopy recursively copies every element; primitive elements alias
// since they are themselves immutable (spec §3 copy semantics, §8
// invariant 3).
func (t *Tuple) DeepCopy() *Tuple {
	out := &Tuple{
		pos:   make([]Value, len(t.pos)),
		named: make(map[string]Value, len(t.named)),
	}
	for i, v := range t.pos {
		out.pos[i] = DeepCopy(v)
	}
	for k, v := range t.named {
		out.named[k] = DeepCopy(v)
	}
	return out
}

// Concat implements tuple `+`: positional concatenation with named-member
// merge where the right operand overrides the left (spec §4.5).
func (t *Tuple) Concat(o *Tuple) *Tuple {
	out := NewTuple()
	out.pos = append(out.pos, t.pos...)
	out.pos = append(out.pos, o.pos...)
	for k, v := range t.named {
		out.named[k] = v
	}
	for k, v := range o.named {
		out.named[k] = v
	}
	return out
}

// DeepCopy copies v, recursing into tuples; all other kinds are immutable
// and alias (spec §3).
func DeepCopy(v Value) Value {
	if t, ok := v.(*Tuple); ok {
		return t.DeepCopy()
	}
	return v
}
