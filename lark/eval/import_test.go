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

package eval_test

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/eval"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/parser"
	"larklang.dev/lark/value"
)

// stubImporter maps a `::`-joined path straight to pre-parsed source,
// standing in for importer.FileImporter so this test exercises only
// evalImport's namespace wiring, not file I/O.
type stubImporter map[string]string

func (s stubImporter) Import(path []string) (*ast.Program, error) {
	src := s[strings.Join(path, "::")]
	return parser.ParseFile(strings.Join(path, "::"), []byte(src))
}

// TestImportNestsNamespacePerSegment checks that `import a::b` makes
// `a::b::name` reachable afterward by walking resolveNamespace's
// per-segment chain (lark/mem/env.go), not one flattened `"a::b"` key —
// the regression test for evalImport building the namespace chain one
// GetOrCreateNS call per path segment instead of a single call keyed by
// the whole joined path.
func TestImportNestsNamespacePerSegment(t *testing.T) {
	importer := stubImporter{
		"a::b": "x = 7",
	}
	ev := &eval.Evaluator{Importer: importer}
	root := mem.NewRoot(mem.NewMem())

	prog, err := parser.ParseFile("main", []byte("import a::b"))
	qt.Assert(t, qt.IsNil(err))
	_, err = ev.EvalProgram(prog, root)
	qt.Assert(t, qt.IsNil(err))

	ref, err := root.GetRef("a::b::x")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(root.Read(ref), value.Value(value.Int(7))))

	_, err = root.GetRef("a::x")
	qt.Assert(t, qt.ErrorMatches(err, `.*undefined.*`))
}
