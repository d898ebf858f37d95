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
	"fmt"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/value"
)

// ParamSpec is one parameter declaration of a closure.
type ParamSpec struct {
	Name  string
	ByRef bool
}

// Native is the signature of a builtin closure body, e.g. `print`.
type Native func(args []value.Value) (value.Value, error)

// Closure is a parameterized value ("pval", spec §3, §4.1): it holds its
// parameter declarations, a back-pointer to the environment it closed
// over, the Refs it captured from that environment (kept alive by a
// strong reference, spec invariant §3.7), and its body — either Lark AST
// or a native Go function.
type Closure struct {
	Params   []ParamSpec
	Defining *Env
	Captured []Ref
	Body     *ast.Program
	Native   Native
	Doc      string
}

func (c *Closure) Kind() value.Kind { return value.KClosure }

func (c *Closure) String() string {
	if c.Native != nil {
		return "<builtin>"
	}
	return fmt.Sprintf("<pval/%d>", len(c.Params))
}

// Equal compares by identity: two distinct closures are never equal even
// with identical source, matching ordinary reference-type equality.
func (c *Closure) Equal(o value.Value) bool {
	x, ok := o.(*Closure)
	return ok && x == c
}

var _ value.Value = (*Closure)(nil)
