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

// Package ast declares the types used to represent the syntax tree produced
// by the Lark parser. Every Lark construct is an expression: a Program is a
// sequence of expressions whose final value is the sequence's value.
package ast

import "larklang.dev/lark/token"

// A Node is any element of the syntax tree.
type Node interface {
	Pos() token.Pos // position of the first character of the node
	End() token.Pos // position immediately after the node
}

// An Expr is implemented by every expression node. Lark has no separate
// statement grammar: everything nests as an expression.
type Expr interface {
	Node
	exprNode()
}

func (*BadExpr) exprNode()        {}
func (*Ident) exprNode()          {}
func (*BasicLit) exprNode()       {}
func (*TupleLit) exprNode()       {}
func (*ClosureLit) exprNode()     {}
func (*GroupExpr) exprNode()      {}
func (*SelectorExpr) exprNode()   {}
func (*CallExpr) exprNode()       {}
func (*RefExpr) exprNode()        {}
func (*UnaryExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*CondExpr) exprNode()       {}
func (*LoopExpr) exprNode()       {}
func (*AssignExpr) exprNode()     {}
func (*ReturnExpr) exprNode()     {}
func (*BreakExpr) exprNode()      {}
func (*ContinueExpr) exprNode()   {}
func (*ImportExpr) exprNode()     {}
func (*NamespaceExpr) exprNode()  {}
func (*ExternExpr) exprNode()     {}

// Program is a sequence of expressions separated by semicolons or
// newlines; its value is the value of the last expression, or nil if empty.
type Program struct {
	Exprs    []Expr
	Lbrace   token.Pos // NoPos if the program is not brace-delimited
	Rbrace   token.Pos
}

func (p *Program) Pos() token.Pos {
	if p.Lbrace.IsValid() {
		return p.Lbrace
	}
	if len(p.Exprs) > 0 {
		return p.Exprs[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Pos {
	if p.Rbrace.IsValid() {
		return p.Rbrace.Add(1)
	}
	if n := len(p.Exprs); n > 0 {
		return p.Exprs[n-1].End()
	}
	return token.NoPos
}

// BadExpr is a placeholder for a syntax error encountered while parsing;
// it lets the parser continue and collect further diagnostics.
type BadExpr struct {
	From, To token.Pos
}

func (x *BadExpr) Pos() token.Pos { return x.From }
func (x *BadExpr) End() token.Pos { return x.To }

// Ident is a bare identifier. As an expression, evaluating an Ident reads
// its bound value and invokes it with zero arguments (spec §4.5
// "evaluation").
type Ident struct {
	NamePos token.Pos
	Name    string
}

func (x *Ident) Pos() token.Pos { return x.NamePos }
func (x *Ident) End() token.Pos { return x.NamePos.Add(len(x.Name)) }

// BasicLit is an int, float, string, docstring, bool, or nil literal.
type BasicLit struct {
	ValuePos token.Pos
	Kind     token.Token
	Value    string // raw source text, unescaped/interpreted by the caller
}

func (x *BasicLit) Pos() token.Pos { return x.ValuePos }
func (x *BasicLit) End() token.Pos { return x.ValuePos.Add(len(x.Value)) }

// TupleElem is one element of a tuple literal: `label: expr` or bare
// `expr` for a positional member.
type TupleElem struct {
	Label Expr // nil for a positional element
	Colon token.Pos
	Value Expr
}

// TupleLit is a parenthesized, comma-separated list of tuple elements.
type TupleLit struct {
	Lparen token.Pos
	Elems  []TupleElem
	Rparen token.Pos
}

func (x *TupleLit) Pos() token.Pos { return x.Lparen }
func (x *TupleLit) End() token.Pos { return x.Rparen.Add(1) }

// GroupExpr is a parenthesized expression with no tuple commas: `(expr)`.
// It is transparent — its value is the value of X.
type GroupExpr struct {
	Lparen token.Pos
	X      Expr
	Rparen token.Pos
}

func (x *GroupExpr) Pos() token.Pos { return x.Lparen }
func (x *GroupExpr) End() token.Pos { return x.Rparen.Add(1) }

// Param is one parameter declaration of a closure literal.
type Param struct {
	Caret token.Pos // valid if this is a by-reference parameter
	Name  string
}

func (p Param) ByRef() bool { return p.Caret.IsValid() }

// ClosureLit is a parameterized value literal: `{body}` or `[p1,...]{body}`.
// Captured holds the free-variable names computed by capture analysis
// during parsing (spec §4.4); the evaluator resolves these to Refs at
// construction time. Doc holds a leading docstring of the body, which the
// parser removes from Body.
type ClosureLit struct {
	Lbrack   token.Pos // NoPos if there is no parameter list
	Params   []Param
	Rbrack   token.Pos
	Body     *Program
	Captured []string
	Doc      string
}

func (x *ClosureLit) Pos() token.Pos {
	if x.Lbrack.IsValid() {
		return x.Lbrack
	}
	return x.Body.Pos()
}
func (x *ClosureLit) End() token.Pos { return x.Body.End() }

// SelectorExpr is member access: `x.name`, `x.0`, or `x.(expr)`.
type SelectorExpr struct {
	X    Expr
	Dot  token.Pos
	Name *Ident     // set for `x.name`
	Lit  *BasicLit  // set for `x.0`
	Sub  Expr       // set for `x.(expr)` (indirect access)
}

func (x *SelectorExpr) Pos() token.Pos { return x.X.Pos() }
func (x *SelectorExpr) End() token.Pos {
	switch {
	case x.Name != nil:
		return x.Name.End()
	case x.Lit != nil:
		return x.Lit.End()
	default:
		return x.Sub.End()
	}
}

// CallExpr is invocation: `f[a1, a2]`.
type CallExpr struct {
	Fun    Expr
	Lbrack token.Pos
	Args   []Expr
	Rbrack token.Pos
}

func (x *CallExpr) Pos() token.Pos { return x.Fun.Pos() }
func (x *CallExpr) End() token.Pos { return x.Rbrack.Add(1) }

// RefExpr is `^name`, used both as a by-reference call argument and as the
// parameter-declaration marker (see Param.ByRef).
type RefExpr struct {
	Caret token.Pos
	Name  string
}

func (x *RefExpr) Pos() token.Pos { return x.Caret }
func (x *RefExpr) End() token.Pos { return x.Caret.Add(1 + len(x.Name)) }

// UnaryExpr is `-x` or `!x`.
type UnaryExpr struct {
	OpPos token.Pos
	Op    token.Token
	X     Expr
}

func (x *UnaryExpr) Pos() token.Pos { return x.OpPos }
func (x *UnaryExpr) End() token.Pos { return x.X.End() }

// BinaryExpr is a left-associative binary operator application.
type BinaryExpr struct {
	X     Expr
	OpPos token.Pos
	Op    token.Token
	Y     Expr
}

func (x *BinaryExpr) Pos() token.Pos { return x.X.Pos() }
func (x *BinaryExpr) End() token.Pos { return x.Y.End() }

// CondClause is one `if`/`elif` condition and its body.
type CondClause struct {
	Cond Expr
	Body *Program
}

// CondExpr is `if cond ... elif cond ... else ... end`.
type CondExpr struct {
	If       token.Pos
	Clauses  []CondClause
	Else     *Program // nil if there is no else branch
	End_     token.Pos
}

func (x *CondExpr) Pos() token.Pos { return x.If }
func (x *CondExpr) End() token.Pos { return x.End_.Add(3) }

// LoopExpr is `loop cond ... end`.
type LoopExpr struct {
	Loop  token.Pos
	Cond  Expr
	Body  *Program
	End_  token.Pos
}

func (x *LoopExpr) Pos() token.Pos { return x.Loop }
func (x *LoopExpr) End() token.Pos { return x.End_.Add(3) }

// AssignExpr covers plain assignment (`name = expr`), upvalue assignment
// (`^name = expr`), member assignment (`x.k = expr`), and their compound
// (`+=`, `-=`, `*=`, `/=`) forms.
type AssignExpr struct {
	Target Expr // *Ident, *RefExpr (upvalue target), or *SelectorExpr
	OpPos  token.Pos
	Op     token.Token // ASSIGN or one of the *_ASSIGN tokens
	Value  Expr
}

func (x *AssignExpr) Pos() token.Pos { return x.Target.Pos() }
func (x *AssignExpr) End() token.Pos { return x.Value.End() }

// ReturnExpr, BreakExpr, ContinueExpr raise non-local exits (spec §4.5,
// §4.6). Value is nil when no payload was given.
type ReturnExpr struct {
	Return token.Pos
	Value  Expr
}

func (x *ReturnExpr) Pos() token.Pos { return x.Return }
func (x *ReturnExpr) End() token.Pos {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Return.Add(6)
}

type BreakExpr struct {
	Break token.Pos
	Value Expr
}

func (x *BreakExpr) Pos() token.Pos { return x.Break }
func (x *BreakExpr) End() token.Pos {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Break.Add(5)
}

type ContinueExpr struct {
	Continue token.Pos
	Value    Expr
}

func (x *ContinueExpr) Pos() token.Pos { return x.Continue }
func (x *ContinueExpr) End() token.Pos {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Continue.Add(8)
}

// ImportExpr is `import "path"` or `import ns::path`.
type ImportExpr struct {
	Import token.Pos
	Path   []string // path segments, split on `::`
}

func (x *ImportExpr) Pos() token.Pos { return x.Import }

// End returns the position just past the `import` keyword; the extent of
// the path is not recorded.
func (x *ImportExpr) End() token.Pos { return x.Import.Add(6) }

// NamespaceExpr is `namespace name ... end`.
type NamespaceExpr struct {
	Namespace token.Pos
	Name      string
	Body      *Program
	End_      token.Pos
}

func (x *NamespaceExpr) Pos() token.Pos { return x.Namespace }
func (x *NamespaceExpr) End() token.Pos { return x.End_.Add(3) }

// ExternExpr is `extern "expr"` or `extern """block"""`.
type ExternExpr struct {
	Extern token.Pos
	Block  bool
	Source *BasicLit
}

func (x *ExternExpr) Pos() token.Pos { return x.Extern }
func (x *ExternExpr) End() token.Pos { return x.Source.End() }
