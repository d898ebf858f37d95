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

// Package extern declares the host adapter contract of spec §6: the
// escape hatch `extern` reaches across to an embedding host language
// through a boundary object implementing eval_expression, exec_block, and
// adapt. The contract is deliberately under-specified by the language;
// this package only names it, and concrete adapters (such as
// larklang.dev/lark/extern/wasm) live in their own subpackages.
package extern

import "larklang.dev/lark/value"

// Adapter is the host adapter boundary object of spec §6. It satisfies
// both eval.ExternHandler (EvalExpression, ExecBlock) and
// value.HostAdapter's role of wrapping arbitrary host objects, via Adapt.
type Adapter interface {
	// EvalExpression runs a host expression and converts its result to a
	// Lark value.
	EvalExpression(source string) (value.Value, error)

	// ExecBlock runs a host statement block, exposing its local bindings
	// as a tuple of named members.
	ExecBlock(source string) (value.Value, error)

	// Adapt wraps an arbitrary host object as a host-typed Lark value
	// whose member access and invocation delegate back to the host.
	Adapt(hostObject interface{}) value.Value
}
