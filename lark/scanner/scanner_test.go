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

package scanner_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"larklang.dev/lark/scanner"
	"larklang.dev/lark/token"
)

type tok struct {
	kind token.Token
	lit  string
}

func scanAll(src string) []tok {
	var s scanner.Scanner
	s.Init("test.lk", []byte(src), nil)
	var out []tok
	for {
		_, k, lit := s.Scan()
		if k == token.EOF {
			break
		}
		out = append(out, tok{k, lit})
	}
	return out
}

func TestScanOperatorsAndIdentifiers(t *testing.T) {
	got := scanAll("x = 1 + 2 * y?")
	want := []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, ""},
		{token.INT, "1"},
		{token.ADD, ""},
		{token.INT, "2"},
		{token.MUL, ""},
		{token.IDENT, "y?"},
		{token.SEMI, "\n"},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestScanNumberVsSelector(t *testing.T) {
	// `1.5` is a float; `x.0` is a selector on an integer label, so the
	// '.' must not be absorbed into a fraction when not followed by a
	// digit run that belongs to x.
	got := scanAll("1.5")
	qt.Assert(t, qt.DeepEquals(got, []tok{
		{token.FLOAT, "1.5"},
		{token.SEMI, "\n"},
	}))

	got = scanAll("x.0")
	qt.Assert(t, qt.DeepEquals(got, []tok{
		{token.IDENT, "x"},
		{token.PERIOD, ""},
		{token.INT, "0"},
		{token.SEMI, "\n"},
	}))
}

func TestScanStringNonGreedy(t *testing.T) {
	got := scanAll(`"ab" "cd"`)
	qt.Assert(t, qt.DeepEquals(got, []tok{
		{token.STRING, `"ab"`},
		{token.STRING, `"cd"`},
		{token.SEMI, "\n"},
	}))
}

func TestScanDocstring(t *testing.T) {
	got := scanAll(`"""hello world"""`)
	qt.Assert(t, qt.HasLen(got, 2))
	qt.Assert(t, qt.Equals(got[0].kind, token.DOCSTR))
	qt.Assert(t, qt.Equals(got[0].lit, `"""hello world"""`))
}

func TestScanAutoSemicolon(t *testing.T) {
	// An identifier, literal, `)`, `]`, `}`, or one of a fixed set of
	// keywords at end-of-line triggers an inserted SEMI, the way an
	// unterminated trailing expression does in Go source.
	got := scanAll("a\nb = 1\n")
	want := []tok{
		{token.IDENT, "a"},
		{token.SEMI, "\n"},
		{token.IDENT, "b"},
		{token.ASSIGN, ""},
		{token.INT, "1"},
		{token.SEMI, "\n"},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestScanNoSemiAfterOperator(t *testing.T) {
	// A trailing binary operator suppresses semicolon insertion, so a
	// continued expression can wrap onto the next line.
	got := scanAll("a +\nb")
	want := []tok{
		{token.IDENT, "a"},
		{token.ADD, ""},
		{token.IDENT, "b"},
		{token.SEMI, "\n"},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestScanComment(t *testing.T) {
	got := scanAll("x = 1 # trailing comment\ny = 2")
	want := []tok{
		{token.IDENT, "x"},
		{token.ASSIGN, ""},
		{token.INT, "1"},
		{token.SEMI, "\n"},
		{token.IDENT, "y"},
		{token.ASSIGN, ""},
		{token.INT, "2"},
		{token.SEMI, "\n"},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestScanRefCaret(t *testing.T) {
	got := scanAll("^x")
	want := []tok{
		{token.XOR, ""},
		{token.IDENT, "x"},
		{token.SEMI, "\n"},
	}
	qt.Assert(t, qt.DeepEquals(got, want))
}

func TestScanIllegalCharacterReported(t *testing.T) {
	var s scanner.Scanner
	var errs []string
	s.Init("test.lk", []byte("a $ b"), func(pos token.Pos, msg string) {
		errs = append(errs, msg)
	})
	for {
		_, k, _ := s.Scan()
		if k == token.EOF {
			break
		}
	}
	qt.Assert(t, qt.Equals(s.ErrorCount, 1))
	qt.Assert(t, qt.HasLen(errs, 1))
}
