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

// Package eval implements the tree-walking evaluator: it dispatches on
// every ast.Expr tag against a mem.Env, implementing the full semantics
// of spec §4.5 — operators, assignment forms, conditionals, loops,
// closures, invocation, namespaces, import, and the extern escape hatch.
package eval

import (
	"strconv"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/errors"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/token"
	"larklang.dev/lark/value"
)

// Importer resolves `import` paths to parsed programs (spec §6); file I/O
// is an external collaborator, not part of the core evaluator.
type Importer interface {
	Import(path []string) (*ast.Program, error)
}

// ExternHandler is the host adapter boundary for `extern` (spec §6). A nil
// ExternHandler on an Evaluator makes `extern` fail at evaluation time.
type ExternHandler interface {
	EvalExpression(source string) (value.Value, error)
	ExecBlock(source string) (value.Value, error)
}

// Evaluator holds the collaborators an evaluation run may need beyond the
// pure language core.
type Evaluator struct {
	Importer Importer
	Extern   ExternHandler
}

// EvalProgram evaluates every expression in prog in order, returning the
// value of the last one (or nil for an empty program).
func (ev *Evaluator) EvalProgram(prog *ast.Program, env *mem.Env) (value.Value, error) {
	var result value.Value = value.NilValue
	for _, x := range prog.Exprs {
		v, err := ev.Eval(x, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// RunTopLevel evaluates prog as a top-level program, the way a file or a
// REPL line is run against the root env: unlike EvalProgram, it is the
// root boundary for Return/Break/Continue. A non-local exit that escapes
// every enclosing closure and loop (a bare `return`, `break`, or
// `continue` at the top level) is reported as a Syntax diagnostic rather
// than panicking out of the interpreter, matching spec §4.7/§7 ("unhandled
// at the root" is fatal to the current top-level expression, not to the
// process).
func (ev *Evaluator) RunTopLevel(prog *ast.Program, env *mem.Env) (result value.Value, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		exit, ok := r.(nonLocalExit)
		if !ok {
			panic(r)
		}
		result = nil
		err = errors.Newf(errors.Syntax, token.NoPos, "%s outside of its binding construct", exit.kind)
	}()
	return ev.EvalProgram(prog, env)
}

func (k exitKind) String() string {
	switch k {
	case exitReturn:
		return "return"
	case exitBreak:
		return "break"
	case exitContinue:
		return "continue"
	}
	return "non-local exit"
}

// Eval evaluates a single expression node against env.
func (ev *Evaluator) Eval(x ast.Expr, env *mem.Env) (value.Value, error) {
	switch n := x.(type) {
	case *ast.BadExpr:
		return nil, errors.Newf(errors.Syntax, n.Pos(), "invalid expression")
	case *ast.BasicLit:
		return ev.evalBasicLit(n)
	case *ast.Ident:
		return ev.evalIdent(n, env)
	case *ast.RefExpr:
		ref, err := env.GetRef(n.Name)
		if err != nil {
			return nil, err
		}
		return refValue{ref}, nil
	case *ast.GroupExpr:
		return ev.Eval(n.X, env)
	case *ast.TupleLit:
		return ev.evalTupleLit(n, env)
	case *ast.ClosureLit:
		c, err := ev.makeClosure(n, env)
		if err != nil {
			return nil, err
		}
		return c, nil
	case *ast.SelectorExpr:
		return ev.evalSelector(n, env)
	case *ast.CallExpr:
		return ev.evalCall(n, env)
	case *ast.UnaryExpr:
		return ev.evalUnary(n, env)
	case *ast.BinaryExpr:
		return ev.evalBinary(n, env)
	case *ast.CondExpr:
		return ev.evalCond(n, env)
	case *ast.LoopExpr:
		return ev.evalLoop(n, env)
	case *ast.AssignExpr:
		return ev.evalAssign(n, env)
	case *ast.ReturnExpr:
		v, err := ev.evalOptional(n.Value, env)
		if err != nil {
			return nil, err
		}
		raiseReturn(v)
		panic("unreachable")
	case *ast.BreakExpr:
		v, err := ev.evalOptional(n.Value, env)
		if err != nil {
			return nil, err
		}
		raiseBreak(v)
		panic("unreachable")
	case *ast.ContinueExpr:
		v, err := ev.evalOptional(n.Value, env)
		if err != nil {
			return nil, err
		}
		raiseContinue(v)
		panic("unreachable")
	case *ast.ImportExpr:
		return ev.evalImport(n, env)
	case *ast.NamespaceExpr:
		return ev.evalNamespace(n, env)
	case *ast.ExternExpr:
		return ev.evalExtern(n)
	default:
		return nil, errors.Newf(errors.Internal, x.Pos(), "unhandled AST node %T", x)
	}
}

func (ev *Evaluator) evalOptional(x ast.Expr, env *mem.Env) (value.Value, error) {
	if x == nil {
		return value.NilValue, nil
	}
	return ev.Eval(x, env)
}

// refValue is the runtime representation of a `^name` expression result:
// a first-class Ref. Eval produces one for every `^name` expression.
// evalCall turns it into a by-reference argument; everywhere else it is
// handled like any other value (its Kind reports nil), and a plain
// assignment stores it unchanged.
type refValue struct{ ref mem.Ref }

func (refValue) Kind() value.Kind      { return value.KNil }
func (r refValue) String() string      { return "<ref " + r.ref.Name + ">" }
func (r refValue) Equal(o value.Value) bool {
	x, ok := o.(refValue)
	return ok && x.ref == r.ref
}

var _ value.Value = refValue{}

func (ev *Evaluator) evalBasicLit(n *ast.BasicLit) (value.Value, error) {
	switch n.Kind {
	case token.INT:
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.Syntax, n.Pos(), "invalid integer literal %q", n.Value)
		}
		return value.Int(i), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, errors.Newf(errors.Syntax, n.Pos(), "invalid float literal %q", n.Value)
		}
		return value.Float(f), nil
	case token.STRING:
		return value.String(unquoteLiteral(n.Value, 1)), nil
	case token.DOCSTR:
		return value.String(unquoteLiteral(n.Value, 3)), nil
	case token.TRUE:
		return value.True, nil
	case token.FALSE:
		return value.False, nil
	case token.NIL:
		return value.NilValue, nil
	default:
		return nil, errors.Newf(errors.Internal, n.Pos(), "unhandled literal kind %s", n.Kind)
	}
}

// unquoteLiteral strips n quote characters from each end of lit. It does
// not interpret escapes, matching the scanner's non-greedy, non-escaping
// string lexing (spec §4.3).
func unquoteLiteral(lit string, n int) string {
	if len(lit) < 2*n {
		return lit
	}
	return lit[n : len(lit)-n]
}

// evalIdent implements "evaluation" (spec §4.5): resolve the Ref, read its
// value, and invoke it with zero arguments. Primitive values invoke to
// themselves, so this degenerates to a plain read for non-closures.
func (ev *Evaluator) evalIdent(n *ast.Ident, env *mem.Env) (value.Value, error) {
	ref, err := env.GetRef(n.Name)
	if err != nil {
		return nil, err
	}
	v := env.Read(ref)
	return ev.Invoke(v, nil, n.Pos(), env)
}

// evalCallee reads the function position of a call without the implicit
// zero-arg invocation a bare Ident otherwise carries (spec §4.5
// "param-eval").
func (ev *Evaluator) evalCallee(x ast.Expr, env *mem.Env) (value.Value, error) {
	if id, ok := x.(*ast.Ident); ok {
		ref, err := env.GetRef(id.Name)
		if err != nil {
			return nil, err
		}
		return env.Read(ref), nil
	}
	return ev.Eval(x, env)
}

func (ev *Evaluator) evalCall(n *ast.CallExpr, env *mem.Env) (value.Value, error) {
	fn, err := ev.evalCallee(n.Fun, env)
	if err != nil {
		return nil, err
	}
	args := make([]Arg, len(n.Args))
	for i, a := range n.Args {
		if r, ok := a.(*ast.RefExpr); ok {
			ref, err := env.GetRef(r.Name)
			if err != nil {
				return nil, err
			}
			args[i] = Arg{Ref: &ref}
			continue
		}
		v, err := ev.Eval(a, env)
		if err != nil {
			return nil, err
		}
		if rv, ok := v.(refValue); ok {
			args[i] = Arg{Ref: &rv.ref}
			continue
		}
		args[i] = Arg{Value: v}
	}
	return ev.Invoke(fn, args, n.Pos(), env)
}

func (ev *Evaluator) evalTupleLit(n *ast.TupleLit, env *mem.Env) (value.Value, error) {
	t := value.NewTuple()
	for _, elem := range n.Elems {
		v, err := ev.Eval(elem.Value, env)
		if err != nil {
			return nil, err
		}
		if elem.Label == nil {
			t.Append(v)
			continue
		}
		label, err := ev.evalLabel(elem.Label, env)
		if err != nil {
			return nil, err
		}
		if err := t.SetNamed(label, v, true); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// evalLabel evaluates a tuple-literal label, which must be an identifier
// (used as a literal string, not looked up), a string literal, or a
// parenthesized expression evaluating to a string or int (spec §4.4).
func (ev *Evaluator) evalLabel(x ast.Expr, env *mem.Env) (string, error) {
	if id, ok := x.(*ast.Ident); ok {
		return id.Name, nil
	}
	v, err := ev.Eval(x, env)
	if err != nil {
		return "", err
	}
	switch k := v.(type) {
	case value.String:
		return string(k), nil
	case value.Int:
		return strconv.FormatInt(int64(k), 10), nil
	default:
		return "", errors.Newf(errors.DuplicateLabel, x.Pos(),
			"tuple label must be a string or int, got %s", v.Kind())
	}
}

func (ev *Evaluator) evalSelector(n *ast.SelectorExpr, env *mem.Env) (value.Value, error) {
	container, err := ev.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	key, err := ev.selectorKey(n, env)
	if err != nil {
		return nil, err
	}
	return GetMember(container, key, n.Pos())
}

func (ev *Evaluator) selectorKey(n *ast.SelectorExpr, env *mem.Env) (value.Value, error) {
	switch {
	case n.Name != nil:
		return value.String(n.Name.Name), nil
	case n.Lit != nil:
		i, err := strconv.ParseInt(n.Lit.Value, 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.Syntax, n.Lit.Pos(), "invalid index %q", n.Lit.Value)
		}
		return value.Int(i), nil
	default:
		return ev.Eval(n.Sub, env)
	}
}

func (ev *Evaluator) evalUnary(n *ast.UnaryExpr, env *mem.Env) (value.Value, error) {
	v, err := ev.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.NOT:
		return value.Bool(!value.Truthy(v)), nil
	case token.SUB:
		switch x := v.(type) {
		case value.Int:
			return -x, nil
		case value.Float:
			return -x, nil
		default:
			return nil, errors.Newf(errors.UndefinedOp, n.Pos(), "unary - on %s", v.Kind())
		}
	default:
		return nil, errors.Newf(errors.Internal, n.Pos(), "unhandled unary operator %s", n.Op)
	}
}

func (ev *Evaluator) evalCond(n *ast.CondExpr, env *mem.Env) (value.Value, error) {
	for _, clause := range n.Clauses {
		cv, err := ev.Eval(clause.Cond, env)
		if err != nil {
			return nil, err
		}
		// Strict conditional truth: only the boolean true fires a branch,
		// never a merely-truthy value (spec §4.5, §9).
		if b, ok := cv.(value.Bool); ok && bool(b) {
			return ev.EvalProgram(clause.Body, env)
		}
	}
	if n.Else != nil {
		return ev.EvalProgram(n.Else, env)
	}
	return value.NilValue, nil
}

func (ev *Evaluator) evalLoop(n *ast.LoopExpr, env *mem.Env) (result value.Value, err error) {
	result = value.NilValue
	for {
		cv, cerr := ev.Eval(n.Cond, env)
		if cerr != nil {
			return nil, cerr
		}
		// Loop continues while the condition is not exactly false (spec
		// §4.5) — unlike `if`, any non-false value keeps the loop going.
		if b, ok := cv.(value.Bool); ok && !bool(b) {
			return result, nil
		}
		brokeOrContinued, v, berr := ev.runLoopBody(n.Body, env)
		if berr != nil {
			return nil, berr
		}
		if brokeOrContinued == exitBreak {
			return v, nil
		}
		result = v
	}
}

func (ev *Evaluator) runLoopBody(body *ast.Program, env *mem.Env) (k exitKind, result value.Value, err error) {
	var caught bool
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		exit, ok := r.(nonLocalExit)
		if !ok || (exit.kind != exitBreak && exit.kind != exitContinue) {
			panic(r)
		}
		caught = true
		k = exit.kind
		if exit.value != nil {
			result = exit.value
		} else {
			result = value.NilValue
		}
	}()
	v, perr := ev.EvalProgram(body, env)
	if perr != nil {
		return 0, nil, perr
	}
	if caught {
		return k, result, nil
	}
	return 0, v, nil
}

func (ev *Evaluator) evalNamespace(n *ast.NamespaceExpr, env *mem.Env) (value.Value, error) {
	ns := env.GetOrCreateNS(n.Name)
	return ev.EvalProgram(n.Body, ns)
}

func (ev *Evaluator) evalImport(n *ast.ImportExpr, env *mem.Env) (value.Value, error) {
	if ev.Importer == nil {
		return nil, errors.Newf(errors.ImportNotFound, n.Pos(), "no importer configured")
	}
	prog, err := ev.Importer.Import(n.Path)
	if err != nil {
		return nil, err
	}
	// Create/resolve the namespace chain one `::`-segment at a time, the
	// same way Env.GetRef's resolveNamespace walks it on lookup (spec §4.2,
	// §4.5 "import"/"namespace"): a multi-segment import must produce
	// nested namespace children, not one child keyed by the whole
	// flattened path, or a later `a::b::c::name` lookup can never find it.
	ns := env
	for _, seg := range n.Path {
		ns = ns.GetOrCreateNS(seg)
	}
	return ev.EvalProgram(prog, ns)
}

func (ev *Evaluator) evalExtern(n *ast.ExternExpr) (value.Value, error) {
	if ev.Extern == nil {
		return nil, errors.Newf(errors.Internal, n.Pos(), "extern is not supported by this runtime")
	}
	src := unquoteLiteral(n.Source.Value, map[bool]int{true: 3, false: 1}[n.Block])
	if n.Block {
		return ev.Extern.ExecBlock(src)
	}
	return ev.Extern.EvalExpression(src)
}
