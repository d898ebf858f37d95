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

package mem

import (
	"strings"

	"larklang.dev/lark/errors"
	"larklang.dev/lark/token"
	"larklang.dev/lark/value"
)

// Ref is a handle to a heap slot: a (name, address) pair. A Ref is a
// handle, not the value itself (spec §3).
type Ref struct {
	Name string
	Addr int
}

// Env is one lexical scope frame: a local-name table, an optional parent
// frame, and a table of child namespaces (spec §4.2).
type Env struct {
	locals     map[string]Ref
	parent     *Env
	namespaces map[string]*Env
	mem        *Mem
}

// NewRoot returns the root environment of a fresh program run, backed by
// mem.
func NewRoot(m *Mem) *Env {
	return &Env{
		locals:     map[string]Ref{},
		namespaces: map[string]*Env{},
		mem:        m,
	}
}

// Child returns a new scope frame nested under e, sharing the same heap.
func (e *Env) Child() *Env {
	return &Env{
		locals:     map[string]Ref{},
		namespaces: map[string]*Env{},
		parent:     e,
		mem:        e.mem,
	}
}

// Parent returns e's enclosing frame, or nil at the root.
func (e *Env) Parent() *Env { return e.parent }

// Mem returns the shared heap.
func (e *Env) Mem() *Mem { return e.mem }

// MakeRef allocates a fresh slot for name in this frame. It fails
// NameRedefined if name already exists locally (spec §4.2).
func (e *Env) MakeRef(name string) (Ref, error) {
	if _, exists := e.locals[name]; exists {
		return Ref{}, errors.Newf(errors.NameRedefined, token.NoPos,
			"%q is already defined in this scope", name)
	}
	addr := e.mem.Alloc(value.NilValue)
	ref := Ref{Name: name, Addr: addr}
	e.locals[name] = ref
	return ref, nil
}

// BindRef installs an existing Ref directly into this frame's local table
// under name — used for by-reference parameter binding (spec §4.1), where
// the parameter's name generally differs from the name the argument was
// bound under at the call site — and increments the slot's refcount,
// since the frame now holds an additional live Ref to it.
func (e *Env) BindRef(name string, r Ref) {
	alias := Ref{Name: name, Addr: r.Addr}
	e.locals[name] = alias
	e.mem.Incref(r.Addr)
}

// GetOrMakeLocal returns the existing local Ref for name, or creates one.
// Used by plain assignment (spec §4.5).
func (e *Env) GetOrMakeLocal(name string) Ref {
	if r, ok := e.locals[name]; ok {
		return r
	}
	r, _ := e.MakeRef(name)
	return r
}

// GetLocal reports whether name is bound directly in this frame (not its
// parent), returning its Ref.
func (e *Env) GetLocal(name string) (Ref, bool) {
	r, ok := e.locals[name]
	return r, ok
}

// GetRef resolves a (possibly namespace-qualified, `ns::name`) name
// against the scope chain, failing NameUnbound if it cannot be found
// (spec §4.2).
func (e *Env) GetRef(qualName string) (Ref, error) {
	segs := strings.Split(qualName, "::")
	if len(segs) == 1 {
		return e.lookupChain(segs[0])
	}
	ns, err := e.resolveNamespace(segs[:len(segs)-1])
	if err != nil {
		return Ref{}, err
	}
	return ns.lookupChain(segs[len(segs)-1])
}

func (e *Env) lookupChain(name string) (Ref, error) {
	for env := e; env != nil; env = env.parent {
		if r, ok := env.locals[name]; ok {
			return r, nil
		}
	}
	return Ref{}, errors.Newf(errors.NameUnbound, token.NoPos, "undefined name %q", name)
}

// GetNS searches for a namespace named name, walking the parent chain
// starting at e (spec §4.2 "searches namespaces via get_ns up the parent
// chain").
func (e *Env) GetNS(name string) (*Env, error) {
	for env := e; env != nil; env = env.parent {
		if ns, ok := env.namespaces[name]; ok {
			return ns, nil
		}
	}
	return nil, errors.Newf(errors.NameUnbound, token.NoPos, "undefined namespace %q", name)
}

// resolveNamespace walks a `::`-separated namespace path: the first
// segment is found via GetNS (up the parent chain from e); every
// subsequent segment must be a direct child of the namespace so far.
func (e *Env) resolveNamespace(segs []string) (*Env, error) {
	cur, err := e.GetNS(segs[0])
	if err != nil {
		return nil, err
	}
	for _, seg := range segs[1:] {
		ns, ok := cur.namespaces[seg]
		if !ok {
			return nil, errors.Newf(errors.NameUnbound, token.NoPos, "undefined namespace %q", seg)
		}
		cur = ns
	}
	return cur, nil
}

// GetOrCreateNS returns the child namespace frame named name, creating it
// (with parent e) if it doesn't already exist (spec §4.2).
func (e *Env) GetOrCreateNS(name string) *Env {
	if ns, ok := e.namespaces[name]; ok {
		return ns
	}
	ns := e.Child()
	e.namespaces[name] = ns
	return ns
}

// Read returns the current value at r, or nil if the slot has been freed.
func (e *Env) Read(r Ref) value.Value {
	v, ok := e.mem.Lookup(r.Addr)
	if !ok {
		return value.NilValue
	}
	return v.Value
}

// Write stores val at r's slot, releasing whatever nested references the
// old value held (spec invariant §3.7 applied to reassignment).
func (e *Env) Write(r Ref, val value.Value) {
	v, ok := e.mem.Lookup(r.Addr)
	if !ok {
		return
	}
	old := v.Value
	v.Value = val
	if old != val {
		e.mem.Release(old)
	}
}

// Incref/Decref adjust the refcount of the slot r points to.
func (e *Env) Incref(r Ref) { e.mem.Incref(r.Addr) }
func (e *Env) Decref(r Ref) { e.mem.Decref(r.Addr) }

// Cleanup decrements every local Ref once, releasing the frame's own claim
// on each slot (spec §4.2, §5). It must run on every exit path from a
// scope, including ones taken via a non-local exit (Return/Break/Continue)
// propagating through.
//
// The name table itself is left intact rather than discarded: a nested
// closure literal evaluated in this frame may have captured it as its
// Defining env, and its captured names still need to resolve by walking
// this frame's locals on the parent chain. Decref already handles the
// case that matters — a slot nobody captured drops to refcount zero here
// and Read sees it as freed, while a captured slot's extra refcount keeps
// it alive past this point (spec invariant §3.7).
func (e *Env) Cleanup() {
	for _, r := range e.locals {
		e.mem.Decref(r.Addr)
	}
}
