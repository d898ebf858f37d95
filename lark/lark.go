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

// Package lark ties together the lexer, parser, and evaluator into a
// single entry point for running Lark source, the way a host program
// (the REPL, a test, an embedder) would use the language.
package lark

import (
	"io"

	"larklang.dev/lark/eval"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/parser"
	"larklang.dev/lark/value"
)

// Runtime bundles a heap, a root environment with builtins installed, and
// an evaluator, suitable for running one or more top-level programs that
// should share state (as a REPL does between lines).
type Runtime struct {
	Mem *mem.Mem
	Env *mem.Env
	Eval *eval.Evaluator
}

// NewRuntime constructs a fresh Runtime. Output from `print` is written
// to out.
func NewRuntime(out io.Writer, importer eval.Importer, extern eval.ExternHandler) *Runtime {
	m := mem.NewMem()
	root := mem.NewRoot(m)
	eval.InstallBuiltins(root, out)
	return &Runtime{
		Mem:  m,
		Env:  root,
		Eval: &eval.Evaluator{Importer: importer, Extern: extern},
	}
}

// RunSource parses and evaluates src in the Runtime's root environment,
// returning the value of the program's last expression.
func (rt *Runtime) RunSource(filename string, src []byte) (value.Value, error) {
	prog, err := parser.ParseFile(filename, src)
	if err != nil {
		return nil, err
	}
	return rt.Eval.RunTopLevel(prog, rt.Env)
}

// Run parses and evaluates src against a fresh one-shot Runtime.
func Run(filename string, src []byte, out io.Writer) (value.Value, error) {
	rt := NewRuntime(out, nil, nil)
	return rt.RunSource(filename, src)
}
