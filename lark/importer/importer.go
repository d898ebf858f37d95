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

// Package importer implements the file-I/O side of `import` (spec §6):
// resolving a `::`-separated path to a source file and parsing it. This
// is deliberately kept out of the evaluator core (spec §1 lists file I/O
// for import as an external collaborator) and wired in at the CLI/runtime
// boundary via eval.Importer.
package importer

import (
	"os"
	"path/filepath"
	"strings"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/errors"
	"larklang.dev/lark/parser"
	"larklang.dev/lark/token"
)

// recognizedExts are tried, in order, against the final path segment
// (spec §6 "Source file layout").
var recognizedExts = []string{"", ".lk", ".lrk", ".lark"}

// FileImporter resolves import paths against a base directory on disk.
// Every import is freshly read and parsed — the spec's Non-goals exclude
// module caching across imports.
type FileImporter struct {
	Root string
}

// Import implements eval.Importer. All but the last path segment are
// walked as directories; the last is matched as a file trying each
// recognized extension in turn.
func (fi *FileImporter) Import(path []string) (*ast.Program, error) {
	if len(path) == 0 {
		return nil, errors.Newf(errors.ImportNotFound, token.NoPos, "empty import path")
	}
	dir := fi.Root
	for _, seg := range path[:len(path)-1] {
		dir = filepath.Join(dir, seg)
	}
	base := filepath.Join(dir, path[len(path)-1])

	for _, ext := range recognizedExts {
		candidate := base + ext
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		return parser.ParseFile(candidate, data)
	}
	return nil, errors.Newf(errors.ImportNotFound, token.NoPos,
		"no file found for import path %q under %s", strings.Join(path, "::"), fi.Root)
}
