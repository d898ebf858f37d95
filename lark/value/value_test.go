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

package value_test

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"

	"larklang.dev/lark/value"
)

func TestTruthy(t *testing.T) {
	tup := value.NewTuple()
	tup.Append(value.Int(1))

	testCases := []struct {
		name string
		in   value.Value
		want bool
	}{
		{"nil", value.NilValue, false},
		{"false", value.False, false},
		{"true", value.True, true},
		{"zero int", value.Int(0), false},
		{"nonzero int", value.Int(1), true},
		{"zero float", value.Float(0), false},
		{"empty string", value.String(""), false},
		{"nonempty string", value.String("x"), true},
		{"empty tuple", value.NewTuple(), false},
		{"nonempty tuple", tup, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qt.Assert(t, qt.Equals(value.Truthy(tc.in), tc.want))
		})
	}
}

func TestStringSplit(t *testing.T) {
	tup, err := value.String("a,b,c").Split(",")
	qt.Assert(t, qt.Equals(err != nil, false))
	qt.Assert(t, qt.Equals(tup.Len(), 3))
	v0, _ := tup.Index(0)
	qt.Assert(t, qt.Equals(v0, value.Value(value.String("a"))))

	_, err = value.String("a,b").Split("")
	qt.Assert(t, qt.ErrorMatches(err, ".*empty separator.*"))
}

func TestTupleEqualIgnoresNamed(t *testing.T) {
	a := value.NewTuple()
	a.Append(value.Int(1))
	a.SetNamed("k", value.String("v"), false)

	b := value.NewTuple()
	b.Append(value.Int(1))

	qt.Assert(t, qt.IsTrue(a.Equal(b)))
}

func TestTupleDeepCopyIsIndependent(t *testing.T) {
	inner := value.NewTuple()
	inner.Append(value.Int(1))

	outer := value.NewTuple()
	outer.Append(inner)

	clone := outer.DeepCopy()
	cloneInner, _ := clone.Index(0)
	cloneInner.(*value.Tuple).SetIndex(0, value.Int(99))

	origInner, _ := outer.Index(0)
	v0, _ := origInner.(*value.Tuple).Index(0)
	qt.Assert(t, qt.Equals(v0, value.Value(value.Int(1))))

	// The mutation above touched only clone, so two fresh DeepCopy results
	// of outer should diff as identical element slices; cmp
	// picks up Tuple's Equal(Value) method rather than walking its
	// unexported fields, same as cmp.Diff does for any Equal-implementing
	// type (spec §8 invariant on copy-on-call semantics).
	before := outer.DeepCopy()
	again := before.DeepCopy()
	if diff := cmp.Diff(before.Elements(), again.Elements()); diff != "" {
		t.Fatalf("two DeepCopy results of the same tuple differ (-before +again):\n%s", diff)
	}
}
