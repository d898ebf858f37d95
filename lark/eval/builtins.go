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

package eval

import (
	"fmt"
	"io"

	"larklang.dev/lark/errors"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/token"
	"larklang.dev/lark/value"
)

// InstallBuiltins binds the builtin pvals into root: `print`, and thin
// global wrappers around the Value-model operations of spec §4.1 that
// have no dedicated syntax (`length`, `labels`, `deep_copy`). Lark has no
// method-call sugar, so these are ordinary zero/one-arg closures invoked
// with `f[x]` like anything else.
func InstallBuiltins(root *mem.Env, out io.Writer) {
	bind(root, "print", func(args []value.Value) (value.Value, error) {
		parts := make([]interface{}, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		fmt.Fprintln(out, parts...)
		return value.NilValue, nil
	})

	bind(root, "length", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.Newf(errors.Arity, token.NoPos, "length expects 1 argument, got %d", len(args))
		}
		n, err := Length(args[0], token.NoPos)
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	})

	bind(root, "labels", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.Newf(errors.Arity, token.NoPos, "labels expects 1 argument, got %d", len(args))
		}
		t, ok := args[0].(*value.Tuple)
		if !ok {
			return nil, errors.Newf(errors.NoDotAccess, token.NoPos, "labels expects a tuple, got %s", args[0].Kind())
		}
		return t.Labels(), nil
	})

	bind(root, "deep_copy", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, errors.Newf(errors.Arity, token.NoPos, "deep_copy expects 1 argument, got %d", len(args))
		}
		return value.DeepCopy(args[0]), nil
	})
}

func bind(root *mem.Env, name string, fn mem.Native) {
	ref, err := root.MakeRef(name)
	if err != nil {
		panic(err) // root env is fresh; redefinition here is a programming error
	}
	root.Write(ref, &mem.Closure{Native: fn, Doc: name + " builtin"})
}
