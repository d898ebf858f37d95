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
	"larklang.dev/lark/ast"
	"larklang.dev/lark/errors"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/token"
	"larklang.dev/lark/value"
)

// Arg is one evaluated call argument: either a plain value, or — when the
// argument expression was `^name` — the Ref it names, passed through
// uninterpreted so a by-reference parameter can alias it directly
// (spec §4.4, §4.5).
type Arg struct {
	Ref   *mem.Ref
	Value value.Value
}

func (a Arg) resolve(e *mem.Env) value.Value {
	if a.Ref != nil {
		return e.Read(*a.Ref)
	}
	return a.Value
}

// Invoke implements value invocation (spec §4.1): primitive values return
// themselves; a *mem.Closure binds parameters into a fresh child of its
// defining env, executes its body, and catches the Return exit at this
// boundary. Break/Continue escaping a closure with no enclosing loop
// propagate past Invoke uncaught, becoming fatal at the root.
//
// A call builds two nested frames, not one: an outer params frame holding
// the parameter bindings (by-value copies and by-reference aliases alike),
// and an inner body frame, a child of it, in which the body's own
// statements actually run. This mirrors core.py's call frame split (its
// upvalue assignment walks to `env.parent` to find a binding one level
// out from wherever the assignment executes) and is what makes `^name =
// expr` inside a closure body able to reach a by-reference parameter's
// alias — which lives in the params frame, the body frame's immediate
// parent — while still bypassing a same-named local the body itself
// creates (spec §4.5 "upval-assign").
func (ev *Evaluator) Invoke(fn value.Value, args []Arg, pos token.Pos, env *mem.Env) (value.Value, error) {
	if h, ok := fn.(*value.Host); ok {
		if h.Adapter == nil {
			return nil, errors.Newf(errors.NoDotAccess, pos, "host value has no adapter to invoke through")
		}
		plain := make([]value.Value, len(args))
		for i, a := range args {
			plain[i] = a.resolve(env)
		}
		return h.Adapter.Invoke(h.Obj, plain)
	}
	c, ok := fn.(*mem.Closure)
	if !ok {
		return fn, nil
	}
	if c.Native != nil {
		plain := make([]value.Value, len(args))
		for i, a := range args {
			plain[i] = a.resolve(env)
		}
		return c.Native(plain)
	}
	if len(args) != len(c.Params) {
		return nil, errors.Newf(errors.Arity, pos,
			"closure expects %d argument(s), got %d", len(c.Params), len(args))
	}

	params := c.Defining.Child()
	for i, param := range c.Params {
		a := args[i]
		if param.ByRef {
			if a.Ref == nil {
				params.Cleanup()
				return nil, errors.Newf(errors.RefTypeMismatch, pos,
					"parameter %q requires a reference argument (^name)", param.Name)
			}
			params.BindRef(param.Name, *a.Ref)
			continue
		}
		ref, _ := params.MakeRef(param.Name)
		params.Write(ref, value.DeepCopy(a.resolve(env)))
	}

	body := params.Child()
	defer params.Cleanup()
	defer body.Cleanup()
	return ev.invokeBody(c.Body, body)
}

func (ev *Evaluator) invokeBody(body *ast.Program, child *mem.Env) (result value.Value, err error) {
	var caught bool
	var exitVal value.Value
	defer func() {
		recoverExit(exitReturn, &exitVal, &caught)
		if caught {
			result, err = exitVal, nil
		}
	}()
	return ev.EvalProgram(body, child)
}

// makeClosure resolves a ClosureLit's captured-name list against env into
// Refs (incrementing each slot's refcount, per spec invariant §3.7) and
// constructs the runtime Closure.
func (ev *Evaluator) makeClosure(lit *ast.ClosureLit, env *mem.Env) (*mem.Closure, error) {
	params := make([]mem.ParamSpec, len(lit.Params))
	for i, p := range lit.Params {
		params[i] = mem.ParamSpec{Name: p.Name, ByRef: p.ByRef()}
	}
	captured := make([]mem.Ref, 0, len(lit.Captured))
	for _, name := range lit.Captured {
		ref, err := env.GetRef(name)
		if err != nil {
			return nil, err
		}
		env.Incref(ref)
		captured = append(captured, ref)
	}
	return &mem.Closure{
		Params:   params,
		Defining: env,
		Captured: captured,
		Body:     lit.Body,
		Doc:      lit.Doc,
	}, nil
}
