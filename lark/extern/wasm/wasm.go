// Copyright 2023 CUE Authors
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

package wasm

import (
	"fmt"
	"strings"

	"larklang.dev/lark/value"
)

// Host is an extern.Adapter backed by a single loaded Wasm module. The
// module is expected to export `allocate`/`deallocate` guest-memory
// functions (the same convention a WASI guest uses to exchange buffers
// with its host) plus `eval_expression` and `exec_block` functions that
// each take a (ptr, len) UTF-8 string and return a (ptr, len) UTF-8
// string: the textual rendering of the resulting Lark value.
type Host struct {
	inst *instance
}

// Load compiles and instantiates the Wasm module at path.
func Load(path string) (*Host, error) {
	rt := newRuntime()
	inst, err := rt.compileAndLoad(path)
	if err != nil {
		return nil, err
	}
	return &Host{inst: inst}, nil
}

// EvalExpression implements extern.Adapter.
func (h *Host) EvalExpression(source string) (value.Value, error) {
	out, err := h.inst.call("eval_expression", source)
	if err != nil {
		return nil, err
	}
	return value.String(out), nil
}

// ExecBlock implements extern.Adapter. The guest renders its block's
// local bindings as a flat `name=value` per line; this adapter parses
// that back into a named tuple of string values. Richer host languages
// wanting typed results should wrap ExecBlock's caller rather than rely
// on this adapter's plain-text convention.
func (h *Host) ExecBlock(source string) (value.Value, error) {
	out, err := h.inst.call("exec_block", source)
	if err != nil {
		return nil, err
	}
	t := value.NewTuple()
	for _, line := range strings.Split(out, "\n") {
		name, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		t.SetNamed(name, value.String(val), false)
	}
	return t, nil
}

// Adapt wraps a Wasm-side object handle (an opaque guest pointer or id,
// passed through as obj) as a host-typed Lark value. Member access and
// invocation on the returned value delegate back into the guest module
// via hostAdapter below.
func (h *Host) Adapt(obj interface{}) value.Value {
	return &value.Host{Obj: obj, Adapter: hostAdapter{h: h}}
}

// hostAdapter implements value.HostAdapter by routing member access and
// invocation through the guest module's exported get_member, set_member,
// and invoke functions, passing the object, key, and arguments as text.
type hostAdapter struct {
	h *Host
}

func (a hostAdapter) GetMember(obj interface{}, key value.Value) (value.Value, error) {
	out, err := a.h.inst.call("get_member", fmt.Sprintf("%v.%s", obj, key.String()))
	if err != nil {
		return nil, err
	}
	return value.String(out), nil
}

func (a hostAdapter) SetMember(obj interface{}, key value.Value, val value.Value) (value.Value, error) {
	_, err := a.h.inst.call("set_member", fmt.Sprintf("%v.%s=%s", obj, key.String(), val.String()))
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (a hostAdapter) Invoke(obj interface{}, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	out, err := a.h.inst.call("invoke", fmt.Sprintf("%v(%s)", obj, strings.Join(parts, ", ")))
	if err != nil {
		return nil, err
	}
	return value.String(out), nil
}

func (a hostAdapter) String(obj interface{}) string {
	return fmt.Sprintf("<wasm host %v>", obj)
}
