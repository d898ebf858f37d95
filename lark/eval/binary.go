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
	"math"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/errors"
	"larklang.dev/lark/mem"
	"larklang.dev/lark/token"
	"larklang.dev/lark/value"
)

func (ev *Evaluator) evalBinary(n *ast.BinaryExpr, env *mem.Env) (value.Value, error) {
	x, err := ev.Eval(n.X, env)
	if err != nil {
		return nil, err
	}
	y, err := ev.Eval(n.Y, env)
	if err != nil {
		return nil, err
	}
	return ev.applyBinary(n.Op, x, y, n.Pos())
}

// applyBinary implements binary-op dispatch (spec §4.5): operands are
// evaluated by the caller; dispatch is on the left operand's type, with
// mixed int/float promoting to float.
func (ev *Evaluator) applyBinary(op token.Token, x, y value.Value, pos token.Pos) (value.Value, error) {
	switch l := x.(type) {
	case value.Int:
		switch r := y.(type) {
		case value.Int:
			return intOp(op, l, r, pos)
		case value.Float:
			return floatOp(op, value.Float(l), r, pos)
		}
	case value.Float:
		switch r := y.(type) {
		case value.Int:
			return floatOp(op, l, value.Float(r), pos)
		case value.Float:
			return floatOp(op, l, r, pos)
		}
	case value.String:
		return stringOp(op, l, y, pos)
	case *value.Tuple:
		return ev.tupleOp(op, l, y, pos)
	}
	switch op {
	case token.EQL:
		return value.Bool(x.Equal(y)), nil
	case token.NEQ:
		return value.Bool(!x.Equal(y)), nil
	}
	return nil, errors.Newf(errors.UndefinedOp, pos,
		"operator %s undefined for %s and %s", op, x.Kind(), y.Kind())
}

func intOp(op token.Token, l, r value.Int, pos token.Pos) (value.Value, error) {
	switch op {
	case token.ADD:
		return l + r, nil
	case token.SUB:
		return l - r, nil
	case token.MUL:
		return l * r, nil
	case token.QUO:
		if r == 0 {
			return nil, errors.Newf(errors.UndefinedOp, pos, "division by zero")
		}
		return l / r, nil // Go truncates toward zero; documented choice (spec §9).
	case token.REM:
		if r == 0 {
			return nil, errors.Newf(errors.UndefinedOp, pos, "division by zero")
		}
		return l % r, nil
	case token.LSS:
		return value.Bool(l < r), nil
	case token.LEQ:
		return value.Bool(l <= r), nil
	case token.GTR:
		return value.Bool(l > r), nil
	case token.GEQ:
		return value.Bool(l >= r), nil
	case token.EQL:
		return value.Bool(l == r), nil
	case token.NEQ:
		return value.Bool(l != r), nil
	}
	return nil, errors.Newf(errors.UndefinedOp, pos, "operator %s undefined for int", op)
}

func floatOp(op token.Token, l, r value.Float, pos token.Pos) (value.Value, error) {
	switch op {
	case token.ADD:
		return l + r, nil
	case token.SUB:
		return l - r, nil
	case token.MUL:
		return l * r, nil
	case token.QUO:
		return l / r, nil
	case token.REM:
		return value.Float(math.Mod(float64(l), float64(r))), nil
	case token.LSS:
		return value.Bool(l < r), nil
	case token.LEQ:
		return value.Bool(l <= r), nil
	case token.GTR:
		return value.Bool(l > r), nil
	case token.GEQ:
		return value.Bool(l >= r), nil
	case token.EQL:
		return value.Bool(l == r), nil
	case token.NEQ:
		return value.Bool(l != r), nil
	}
	return nil, errors.Newf(errors.UndefinedOp, pos, "operator %s undefined for float", op)
}

func stringOp(op token.Token, l value.String, y value.Value, pos token.Pos) (value.Value, error) {
	switch op {
	case token.ADD:
		r, ok := y.(value.String)
		if !ok {
			return nil, errors.Newf(errors.UndefinedOp, pos, "+ requires two strings")
		}
		return l + r, nil
	case token.QUO:
		r, ok := y.(value.String)
		if !ok {
			return nil, errors.Newf(errors.UndefinedOp, pos, "/ requires two strings")
		}
		t, err := l.Split(string(r))
		if err != nil {
			return nil, err
		}
		return t, nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		r, ok := y.(value.String)
		if !ok {
			return nil, errors.Newf(errors.UndefinedOp, pos, "string comparison requires two strings")
		}
		return value.Bool(compareOrdered(op, string(l) < string(r), string(l) == string(r))), nil
	case token.EQL:
		return value.Bool(l.Equal(y)), nil
	case token.NEQ:
		return value.Bool(!l.Equal(y)), nil
	}
	return nil, errors.Newf(errors.UndefinedOp, pos, "operator %s undefined for string", op)
}

// tupleOp implements spec §4.5's tuple operator rule: the operator symbol
// is first looked up as a named member (user-defined overload); if
// absent, `+` concatenates (positional append, named merge with the
// right operand winning) and ordered comparisons compare positional
// length.
func (ev *Evaluator) tupleOp(op token.Token, l *value.Tuple, y value.Value, pos token.Pos) (value.Value, error) {
	if member, err := l.Named(op.String()); err == nil {
		return ev.Invoke(member, []Arg{{Value: y}}, pos, nil)
	}
	r, ok := y.(*value.Tuple)
	switch op {
	case token.ADD:
		if !ok {
			return nil, errors.Newf(errors.UndefinedOp, pos, "+ requires two tuples")
		}
		return l.Concat(r), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		if !ok {
			return nil, errors.Newf(errors.UndefinedOp, pos, "tuple comparison requires two tuples")
		}
		return value.Bool(compareOrderedInt(op, l.Len(), r.Len())), nil
	case token.EQL:
		return value.Bool(l.Equal(y)), nil
	case token.NEQ:
		return value.Bool(!l.Equal(y)), nil
	}
	return nil, errors.Newf(errors.UndefinedOp, pos, "operator %s undefined for tuple", op)
}

func compareOrdered(op token.Token, less, equal bool) bool {
	switch op {
	case token.LSS:
		return less
	case token.LEQ:
		return less || equal
	case token.GTR:
		return !less && !equal
	case token.GEQ:
		return !less
	}
	return false
}

func compareOrderedInt(op token.Token, l, r int) bool {
	switch op {
	case token.LSS:
		return l < r
	case token.LEQ:
		return l <= r
	case token.GTR:
		return l > r
	case token.GEQ:
		return l >= r
	}
	return false
}
