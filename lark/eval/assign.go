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
	"strings"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/errors"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/value"
)

func (ev *Evaluator) evalAssign(n *ast.AssignExpr, env *mem.Env) (value.Value, error) {
	switch t := n.Target.(type) {
	case *ast.Ident:
		return ev.evalAssignIdent(t, n, env)
	case *ast.RefExpr:
		return ev.evalAssignUpvalue(t, n, env)
	case *ast.SelectorExpr:
		return ev.evalAssignMember(t, n, env)
	default:
		return nil, errors.Newf(errors.Syntax, n.Pos(), "invalid assignment target")
	}
}

// evalAssignIdent implements plain and compound assignment to a bare
// name: `ns::name` resolves an existing Ref, otherwise a local is created
// if absent (spec §4.5 "assign (plain)").
func (ev *Evaluator) evalAssignIdent(id *ast.Ident, n *ast.AssignExpr, env *mem.Env) (value.Value, error) {
	var ref mem.Ref
	if strings.Contains(id.Name, "::") {
		r, err := env.GetRef(id.Name)
		if err != nil {
			return nil, err
		}
		ref = r
	} else {
		ref = env.GetOrMakeLocal(id.Name)
	}
	val, err := ev.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if opTok, isCompound := n.Op.AssignOp(); isCompound {
		val, err = ev.applyBinary(opTok, env.Read(ref), val, n.Pos())
		if err != nil {
			return nil, err
		}
	}
	env.Write(ref, val)
	return val, nil
}

// evalAssignUpvalue implements `^name = expr` (spec §4.5 "upval-assign"):
// it requires an enclosing scope and resolves name starting at env's
// parent, never the current frame, matching core.py's
// `env.parent.getref(expr[1])`. Starting one frame out is what lets
// `^name = expr` bypass a same-named local the current frame itself just
// created — the entire reason the explicit `^` syntax exists instead of
// plain assignment, which is local-only and would otherwise shadow.
func (ev *Evaluator) evalAssignUpvalue(r *ast.RefExpr, n *ast.AssignExpr, env *mem.Env) (value.Value, error) {
	if env.Parent() == nil {
		return nil, errors.Newf(errors.NoParent, n.Pos(), "^%s = ...: no parent scope", r.Name)
	}
	ref, err := env.Parent().GetRef(r.Name)
	if err != nil {
		return nil, err
	}
	val, err := ev.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	env.Write(ref, val)
	return val, nil
}

// evalAssignMember implements member and compound-member assignment
// (spec §4.5 "member-assign", "op-assign").
func (ev *Evaluator) evalAssignMember(sel *ast.SelectorExpr, n *ast.AssignExpr, env *mem.Env) (value.Value, error) {
	container, err := ev.Eval(sel.X, env)
	if err != nil {
		return nil, err
	}
	key, err := ev.selectorKey(sel, env)
	if err != nil {
		return nil, err
	}
	val, err := ev.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if opTok, isCompound := n.Op.AssignOp(); isCompound {
		old, gerr := GetMember(container, key, n.Pos())
		if gerr != nil {
			return nil, gerr
		}
		val, err = ev.applyBinary(opTok, old, val, n.Pos())
		if err != nil {
			return nil, err
		}
	}
	return SetMember(container, key, val, n.Pos())
}
