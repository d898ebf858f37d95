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

// Package parser implements a recursive-descent parser for Lark source.
// Every construct in the grammar is an expression (spec §4.4); a Program
// is a semicolon/newline-separated sequence of expressions. Parsing also
// performs capture analysis: for every closure literal, the set of free
// names referenced by its body is computed and attached to the resulting
// ast.ClosureLit so the evaluator can resolve them to Refs at closure
// construction time.
package parser

import (
	"sort"
	"strings"

	"larklang.dev/lark/ast"
	"larklang.dev/lark/errors"
	"larklang.dev/lark/scanner"
	"larklang.dev/lark/token"
)

// ParseFile parses a complete Lark source file into a Program. The
// returned error, if non-nil, is an errors.List of Syntax diagnostics;
// the Program returned alongside it is a best-effort partial parse.
func ParseFile(filename string, src []byte) (*ast.Program, error) {
	p := &parser{filename: filename}
	p.sc.Init(filename, src, p.handleScanError)
	p.pushScope() // top-level scope; its captured set is unused
	p.next()
	prog := p.parseProgram(nil)
	p.expect(token.EOF)
	p.popScope()
	if len(p.errs) > 0 {
		return prog, p.errs
	}
	return prog, nil
}

type scope struct {
	defined    map[string]bool
	referenced map[string]bool
}

type parser struct {
	filename string
	sc       scanner.Scanner
	errs     errors.List

	pos token.Pos
	tok token.Token
	lit string

	scopes []*scope
}

func (p *parser) handleScanError(pos token.Pos, msg string) {
	p.errs = append(p.errs, errors.Newf(errors.Syntax, pos, "%s", msg))
}

func (p *parser) next() {
	p.pos, p.tok, p.lit = p.sc.Scan()
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, errors.Newf(errors.Syntax, p.pos, format, args...))
}

func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorf("expected %s, got %s (%q)", tok, p.tok, p.lit)
	} else {
		p.next()
	}
	return pos
}

// skipSemis consumes zero or more statement separators.
func (p *parser) skipSemis() {
	for p.tok == token.SEMI {
		p.next()
	}
}

// --- capture analysis -------------------------------------------------

func (p *parser) pushScope() {
	p.scopes = append(p.scopes, &scope{defined: map[string]bool{}, referenced: map[string]bool{}})
}

func (p *parser) top() *scope { return p.scopes[len(p.scopes)-1] }

func (p *parser) markDefined(name string)    { p.top().defined[name] = true }
func (p *parser) markReferenced(name string) { p.top().referenced[name] = true }

// closeClosureScope pops the innermost scope and returns its free-name
// (captured) list, propagating any name the closure itself doesn't bind
// up to the next-enclosing closure's referenced set (spec §4.4).
func (p *parser) closeClosureScope() []string {
	s := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]

	var captured []string
	for name := range s.referenced {
		if s.defined[name] {
			continue
		}
		captured = append(captured, name)
		if len(p.scopes) > 0 {
			p.top().referenced[name] = true
		}
	}
	sort.Strings(captured)
	return captured
}

// --- programs and statement separators ---------------------------------

// parseProgram parses expressions until EOF or a token in stop.
func (p *parser) parseProgram(stop map[token.Token]bool) *ast.Program {
	prog := &ast.Program{}
	p.skipSemis()
	for p.tok != token.EOF && !stop[p.tok] {
		e := p.parseExpr()
		prog.Exprs = append(prog.Exprs, e)
		if p.tok == token.SEMI {
			p.skipSemis()
			continue
		}
		break
	}
	return prog
}

// parseBracedProgram parses `{ ... }`.
func (p *parser) parseBracedProgram() *ast.Program {
	lbrace := p.expect(token.LBRACE)
	prog := p.parseProgram(map[token.Token]bool{token.RBRACE: true})
	prog.Lbrace = lbrace
	prog.Rbrace = p.pos
	p.expect(token.RBRACE)
	return prog
}

var blockEnd = map[token.Token]bool{token.END: true}

// --- expressions --------------------------------------------------------

var assignOps = map[token.Token]bool{
	token.ASSIGN:     true,
	token.ADD_ASSIGN: true,
	token.SUB_ASSIGN: true,
	token.MUL_ASSIGN: true,
	token.QUO_ASSIGN: true,
}

func (p *parser) parseExpr() ast.Expr {
	x := p.parseBinary(1)
	if assignOps[p.tok] {
		op, opPos := p.tok, p.pos
		switch t := x.(type) {
		case *ast.Ident:
			if strings.Contains(t.Name, "::") {
				p.markReferenced(t.Name)
			} else {
				p.markDefined(t.Name)
			}
		case *ast.RefExpr:
			if op != token.ASSIGN {
				p.errorf("compound assignment is not supported on upvalue targets")
			}
			p.markReferenced(t.Name)
		case *ast.SelectorExpr:
			// member assignment target; no name binding.
		default:
			p.errorf("invalid assignment target")
		}
		p.next()
		val := p.parseExpr()
		return &ast.AssignExpr{Target: x, OpPos: opPos, Op: op, Value: val}
	}
	return x
}

func precedence(tok token.Token) int {
	switch tok {
	case token.EQL, token.NEQ:
		return 1
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return 2
	case token.ADD, token.SUB:
		return 3
	case token.MUL, token.QUO, token.REM:
		return 4
	}
	return 0
}

func (p *parser) parseBinary(minPrec int) ast.Expr {
	x := p.parseUnary()
	for {
		prec := precedence(p.tok)
		if prec == 0 || prec < minPrec {
			return x
		}
		op, opPos := p.tok, p.pos
		p.next()
		y := p.parseBinary(prec + 1)
		x = &ast.BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok == token.SUB || p.tok == token.NOT {
		op, pos := p.tok, p.pos
		p.next()
		x := p.parseUnary()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.PERIOD:
			dot := p.pos
			p.next()
			sel := &ast.SelectorExpr{X: x, Dot: dot}
			switch {
			case p.tok == token.LPAREN:
				p.next()
				sel.Sub = p.parseExpr()
				p.expect(token.RPAREN)
			case p.tok == token.INT:
				sel.Lit = &ast.BasicLit{ValuePos: p.pos, Kind: token.INT, Value: p.lit}
				p.next()
			case p.tok == token.IDENT:
				sel.Name = &ast.Ident{NamePos: p.pos, Name: p.lit}
				p.next()
			default:
				p.errorf("expected member name, index, or (expr) after '.'")
				p.next()
			}
			x = sel
		case token.LBRACK:
			lbrack := p.pos
			p.next()
			var args []ast.Expr
			for p.tok != token.RBRACK && p.tok != token.EOF {
				args = append(args, p.parseCallArg())
				if p.tok == token.COMMA {
					p.next()
					continue
				}
				break
			}
			rbrack := p.expect(token.RBRACK)
			x = &ast.CallExpr{Fun: x, Lbrack: lbrack, Args: args, Rbrack: rbrack}
		default:
			return x
		}
	}
}

// parseCallArg parses one invocation argument, allowing a bare `^name` to
// pass a Ref (spec §4.4).
func (p *parser) parseCallArg() ast.Expr {
	return p.parseBinary(1)
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.XOR:
		caret := p.pos
		p.next()
		name := p.expectIdentName()
		p.markReferenced(name)
		return &ast.RefExpr{Caret: caret, Name: name}
	case token.IDENT:
		name := p.lit
		pos := p.pos
		p.next()
		for p.tok == token.COLON2 {
			p.next()
			name += "::" + p.expectIdentName()
		}
		p.markReferenced(name)
		return &ast.Ident{NamePos: pos, Name: name}
	case token.INT, token.FLOAT, token.STRING, token.DOCSTR:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: p.tok, Value: p.lit}
		p.next()
		return lit
	case token.TRUE, token.FALSE, token.NIL:
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: p.tok, Value: p.lit}
		p.next()
		return lit
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACK, token.LBRACE:
		return p.parseClosureLit()
	case token.IF:
		return p.parseCond()
	case token.LOOP:
		return p.parseLoop()
	case token.RETURN:
		pos := p.pos
		p.next()
		var val ast.Expr
		if p.tok != token.SEMI && p.tok != token.EOF && !blockEnd[p.tok] {
			val = p.parseExpr()
		}
		return &ast.ReturnExpr{Return: pos, Value: val}
	case token.BREAK:
		pos := p.pos
		p.next()
		var val ast.Expr
		if p.tok != token.SEMI && p.tok != token.EOF && !blockEnd[p.tok] {
			val = p.parseExpr()
		}
		return &ast.BreakExpr{Break: pos, Value: val}
	case token.CONTINUE:
		pos := p.pos
		p.next()
		var val ast.Expr
		if p.tok != token.SEMI && p.tok != token.EOF && !blockEnd[p.tok] {
			val = p.parseExpr()
		}
		return &ast.ContinueExpr{Continue: pos, Value: val}
	case token.IMPORT:
		return p.parseImport()
	case token.NAMESPACE:
		return p.parseNamespace()
	case token.EXTERN:
		return p.parseExtern()
	default:
		pos := p.pos
		p.errorf("unexpected token %s (%q)", p.tok, p.lit)
		p.next()
		return &ast.BadExpr{From: pos, To: p.pos}
	}
}

func (p *parser) expectIdentName() string {
	if p.tok != token.IDENT {
		p.errorf("expected identifier, got %s", p.tok)
		return ""
	}
	name := p.lit
	p.next()
	return name
}

// parseParenOrTuple disambiguates `(expr)` (a transparent GroupExpr) from
// `(e1, e2, ...)` / `(label: e)` (a TupleLit). A single unlabeled element
// with no trailing comma is a group; everything else is a tuple.
func (p *parser) parseParenOrTuple() ast.Expr {
	lparen := p.pos
	p.next()
	if p.tok == token.RPAREN {
		rparen := p.pos
		p.next()
		return &ast.TupleLit{Lparen: lparen, Rparen: rparen}
	}

	first := p.parseTupleElem()
	if p.tok == token.RPAREN && first.Label == nil {
		rparen := p.pos
		p.next()
		return &ast.GroupExpr{Lparen: lparen, X: first.Value, Rparen: rparen}
	}

	elems := []ast.TupleElem{first}
	for p.tok == token.COMMA {
		p.next()
		if p.tok == token.RPAREN {
			break
		}
		elems = append(elems, p.parseTupleElem())
	}
	rparen := p.expect(token.RPAREN)
	return &ast.TupleLit{Lparen: lparen, Elems: elems, Rparen: rparen}
}

// parseTupleElem parses `label: expr` or a bare positional `expr`. A
// label is an identifier, a string literal, or a parenthesized expression.
func (p *parser) parseTupleElem() ast.TupleElem {
	if p.tok == token.IDENT {
		name, pos := p.lit, p.pos
		if p.peekIsColonLabel() {
			p.next() // consume identifier
			colon := p.pos
			p.next() // consume ':'
			val := p.parseExpr()
			return ast.TupleElem{Label: &ast.Ident{NamePos: pos, Name: name}, Colon: colon, Value: val}
		}
	}
	if p.tok == token.STRING {
		lit := &ast.BasicLit{ValuePos: p.pos, Kind: token.STRING, Value: p.lit}
		save := *p
		p.next()
		if p.tok == token.COLON {
			colon := p.pos
			p.next()
			val := p.parseExpr()
			return ast.TupleElem{Label: lit, Colon: colon, Value: val}
		}
		*p = save
	}
	if p.tok == token.LPAREN {
		// Parse the parenthesized expression once; it is already fully
		// consumed and its identifiers correctly marked as referenced
		// whether it turns out to be a label or a plain positional value.
		x := p.parseParenOrTuple()
		if p.tok == token.COLON {
			colon := p.pos
			p.next()
			val := p.parseExpr()
			return ast.TupleElem{Label: x, Colon: colon, Value: val}
		}
		return ast.TupleElem{Value: x}
	}
	return ast.TupleElem{Value: p.parseExpr()}
}

// peekIsColonLabel reports whether the scanner, positioned just after an
// as-yet-unconsumed IDENT, is immediately followed by `:`, without
// consuming the identifier permanently. It scans ahead non-destructively
// by snapshotting parser state.
func (p *parser) peekIsColonLabel() bool {
	save := *p
	p.next()
	isColon := p.tok == token.COLON
	*p = save
	return isColon
}

// parseClosureLit parses `{body}` or `[p1, ^p2, ...]{body}`.
func (p *parser) parseClosureLit() ast.Expr {
	lit := &ast.ClosureLit{}
	if p.tok == token.LBRACK {
		lit.Lbrack = p.pos
		p.next()
		for p.tok != token.RBRACK && p.tok != token.EOF {
			var param ast.Param
			if p.tok == token.XOR {
				param.Caret = p.pos
				p.next()
			}
			param.Name = p.expectIdentName()
			lit.Params = append(lit.Params, param)
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		lit.Rbrack = p.expect(token.RBRACK)
	}

	p.pushScope()
	for _, param := range lit.Params {
		p.markDefined(param.Name)
	}
	lit.Body = p.parseBracedProgram()

	if len(lit.Body.Exprs) > 0 {
		if bl, ok := lit.Body.Exprs[0].(*ast.BasicLit); ok && bl.Kind == token.DOCSTR {
			lit.Doc = stripDocstring(bl.Value)
			lit.Body.Exprs = lit.Body.Exprs[1:]
		}
	}

	lit.Captured = p.closeClosureScope()
	return lit
}

func stripDocstring(s string) string {
	if len(s) >= 6 {
		return strings.TrimSpace(s[3 : len(s)-3])
	}
	return s
}

// parseCond parses `if cond then? ... (elif cond ...)* (else ...)? end`.
// `then` is an optional separator before the first branch's body.
func (p *parser) parseCond() ast.Expr {
	x := &ast.CondExpr{If: p.pos}
	p.next()
	stop := map[token.Token]bool{token.ELIF: true, token.ELSE: true, token.END: true}
	for {
		cond := p.parseExpr()
		if p.tok == token.THEN {
			p.next()
		}
		body := p.parseProgram(stop)
		x.Clauses = append(x.Clauses, ast.CondClause{Cond: cond, Body: body})
		if p.tok == token.ELIF {
			p.next()
			continue
		}
		break
	}
	if p.tok == token.ELSE {
		p.next()
		x.Else = p.parseProgram(map[token.Token]bool{token.END: true})
	}
	x.End_ = p.pos
	p.expect(token.END)
	return x
}

// parseLoop parses `loop cond ... end`.
func (p *parser) parseLoop() ast.Expr {
	x := &ast.LoopExpr{Loop: p.pos}
	p.next()
	x.Cond = p.parseExpr()
	x.Body = p.parseProgram(blockEnd)
	x.End_ = p.pos
	p.expect(token.END)
	return x
}

// parseImport parses `import "path"` or `import ns::path`.
func (p *parser) parseImport() ast.Expr {
	pos := p.pos
	p.next()
	var raw string
	switch p.tok {
	case token.STRING:
		raw = unquote(p.lit)
		p.next()
	case token.IDENT:
		var parts []string
		parts = append(parts, p.lit)
		p.next()
		for p.tok == token.COLON2 {
			p.next()
			parts = append(parts, p.expectIdentName())
		}
		raw = strings.Join(parts, "::")
	default:
		p.errorf("expected import path")
	}
	return &ast.ImportExpr{Import: pos, Path: strings.Split(raw, "::")}
}

// parseNamespace parses `namespace name ... end`.
func (p *parser) parseNamespace() ast.Expr {
	x := &ast.NamespaceExpr{Namespace: p.pos}
	p.next()
	x.Name = p.expectIdentName()
	x.Body = p.parseProgram(blockEnd)
	x.End_ = p.pos
	p.expect(token.END)
	return x
}

// parseExtern parses `extern "expr"` or `extern """block"""`.
func (p *parser) parseExtern() ast.Expr {
	pos := p.pos
	p.next()
	x := &ast.ExternExpr{Extern: pos}
	switch p.tok {
	case token.DOCSTR:
		x.Block = true
		x.Source = &ast.BasicLit{ValuePos: p.pos, Kind: token.DOCSTR, Value: p.lit}
		p.next()
	case token.STRING:
		x.Source = &ast.BasicLit{ValuePos: p.pos, Kind: token.STRING, Value: p.lit}
		p.next()
	default:
		p.errorf("expected string or docstring after 'extern'")
	}
	return x
}

func unquote(lit string) string {
	if len(lit) >= 2 {
		return lit[1 : len(lit)-1]
	}
	return lit
}
