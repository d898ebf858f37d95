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

package lark_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/rogpeppe/go-internal/txtar"

	"larklang.dev/lark"
)

// TestGolden runs every testdata/*.txtar archive's in.lk program and
// compares stdout against its out file, exercising the seed end-to-end
// scenarios of spec §8 the same way the teacher drives its own txtar
// corpora (simplified here to a single-program-per-archive harness).
func TestGolden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(len(archives) > 0))

	for _, path := range archives {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			a, err := txtar.ParseFile(path)
			qt.Assert(t, qt.IsNil(err))

			var in, want []byte
			for _, f := range a.Files {
				switch f.Name {
				case "in.lk":
					in = f.Data
				case "out":
					want = f.Data
				}
			}
			qt.Assert(t, qt.IsTrue(in != nil))

			var out bytes.Buffer
			_, err = lark.Run(path, in, &out)
			qt.Assert(t, qt.IsNil(err))
			qt.Assert(t, qt.Equals(out.String(), string(want)))
		})
	}
}

// TestGoldenNoLeaks re-runs the closure-capture scenario directly against
// a Runtime so the heap is inspectable afterward, checking spec §8
// invariant 1: once the program's top-level locals are accounted for, no
// other slot remains live.
func TestGoldenNoLeaks(t *testing.T) {
	a, err := txtar.ParseFile(filepath.Join("testdata", "closure_capture.txtar"))
	qt.Assert(t, qt.IsNil(err))
	var in []byte
	for _, f := range a.Files {
		if f.Name == "in.lk" {
			in = f.Data
		}
	}

	var out bytes.Buffer
	rt := lark.NewRuntime(&out, nil, nil)
	_, err = rt.RunSource("closure_capture.lk", in)
	qt.Assert(t, qt.IsNil(err))

	// Live slots: the 4 builtins, make, add2, and the captured "n" slot
	// that add2's closure keeps alive after make's call frame returned.
	// add2[5]'s "x" slot is freed by its frame's Cleanup before this point;
	// make[2]'s "n" param slot survives its Cleanup only through that
	// capture.
	qt.Assert(t, qt.Equals(rt.Mem.Len(), 7))
}
