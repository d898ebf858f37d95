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

package mem_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"larklang.dev/lark/mem"
	"larklang.dev/lark/value"
)

func TestMakeRefAllocatesAndRejectsRedefinition(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)

	ref, err := root.MakeRef("x")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(m.Len(), 1))
	qt.Assert(t, qt.Equals(root.Read(ref), value.Value(value.NilValue)))

	_, err = root.MakeRef("x")
	qt.Assert(t, qt.ErrorMatches(err, `.*already defined.*`))
}

func TestCleanupDecrefsAndFreesUnsharedSlots(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)
	child := root.Child()

	ref, _ := child.MakeRef("x")
	child.Write(ref, value.Int(5))
	qt.Assert(t, qt.Equals(m.Len(), 1))

	child.Cleanup()
	_, ok := m.Lookup(ref.Addr)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestCleanupLeavesCapturedSlotAlive(t *testing.T) {
	// This is the scenario that matters for closures: a nested closure
	// literal captures a name from this frame (incrementing its
	// refcount) before the frame's own Cleanup runs. The slot must
	// survive Cleanup, and — since captured names are resolved by
	// walking the env chain via GetRef, not a separate binding table —
	// the frame's name table must still resolve "n" afterward too.
	m := mem.NewMem()
	root := mem.NewRoot(m)
	child := root.Child()

	ref, _ := child.MakeRef("n")
	child.Write(ref, value.Int(2))
	child.Incref(ref) // simulates a closure capturing this ref

	child.Cleanup()

	qt.Assert(t, qt.Equals(m.Len(), 1))
	got, err := child.GetRef("n")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(child.Read(got), value.Value(value.Int(2))))

	child.Decref(got) // drop the simulated closure's claim
	qt.Assert(t, qt.Equals(m.Len(), 0))
}

func TestWriteReleasesOldNestedRefs(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)

	inner := root.Child()
	innerRef, _ := inner.MakeRef("n")
	inner.Write(innerRef, value.Int(1))

	c := &mem.Closure{Defining: inner, Captured: []mem.Ref{innerRef}}
	inner.Incref(innerRef)
	inner.Cleanup() // release inner's own claim, as a real Invoke would on return

	ref, _ := root.MakeRef("f")
	root.Write(ref, c)
	qt.Assert(t, qt.Equals(m.Len(), 2)) // f's slot + n's slot, kept alive by c's capture

	root.Write(ref, value.NilValue) // overwrite releases c's captured ref
	qt.Assert(t, qt.Equals(m.Len(), 1))
	_, ok := m.Lookup(innerRef.Addr)
	qt.Assert(t, qt.IsFalse(ok))
}

func TestReleaseCascadesThroughTupleElements(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)

	inner := root.Child()
	innerRef, _ := inner.MakeRef("n")
	inner.Write(innerRef, value.Int(7))

	c := &mem.Closure{Defining: inner, Captured: []mem.Ref{innerRef}}
	inner.Incref(innerRef)
	inner.Cleanup()

	tup := value.NewTuple()
	tup.Append(c)

	ref, _ := root.MakeRef("t")
	root.Write(ref, tup)
	qt.Assert(t, qt.Equals(m.Len(), 2))

	root.Decref(ref)
	qt.Assert(t, qt.Equals(m.Len(), 0))
}

func TestBindRefAliasesAndIncrefs(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)
	outerRef, _ := root.MakeRef("x")
	root.Write(outerRef, value.Int(5))

	callee := root.Child()
	callee.BindRef("r", outerRef)
	callee.Write(outerRef, value.Int(6))

	qt.Assert(t, qt.Equals(root.Read(outerRef), value.Value(value.Int(6))))

	callee.Cleanup()
	qt.Assert(t, qt.Equals(m.Len(), 1)) // outer's own claim still holds
	qt.Assert(t, qt.Equals(root.Read(outerRef), value.Value(value.Int(6))))
}

func TestGetRefResolvesUpParentChain(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)
	ref, _ := root.MakeRef("g")
	root.Write(ref, value.Int(1))

	child := root.Child()
	grandchild := child.Child()

	got, err := grandchild.GetRef("g")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(got.Addr, ref.Addr))

	_, err = grandchild.GetRef("missing")
	qt.Assert(t, qt.ErrorMatches(err, `.*undefined name.*`))
}

func TestNamespaceLookupWalksParentChain(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)
	ns := root.GetOrCreateNS("ns")
	ref, _ := ns.MakeRef("v")
	ns.Write(ref, value.Int(42))

	child := root.Child()
	got, err := child.GetRef("ns::v")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(child.Read(got), value.Value(value.Int(42))))
}

// TestNestedNamespaceLookup builds a multi-segment `a::b::c` namespace
// chain the way evalImport does (one GetOrCreateNS call per path
// segment, chained) and checks GetRef resolves the full qualified name
// by walking it segment-by-segment, not as one flattened key.
func TestNestedNamespaceLookup(t *testing.T) {
	m := mem.NewMem()
	root := mem.NewRoot(m)

	a := root.GetOrCreateNS("a")
	b := a.GetOrCreateNS("b")
	c := b.GetOrCreateNS("c")
	ref, _ := c.MakeRef("v")
	c.Write(ref, value.Int(7))

	got, err := root.GetRef("a::b::c::v")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(root.Read(got), value.Value(value.Int(7))))

	_, err = root.GetRef("a::b::v")
	qt.Assert(t, qt.ErrorMatches(err, `.*undefined.*`))
}
