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

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"larklang.dev/lark"
	"larklang.dev/lark/eval"
	"larklang.dev/lark/value"
)

// runREPL implements the interactive loop of spec §6: read lines, defer
// execution while brackets, `if`/`loop` blocks, or triple-quoted strings
// are unbalanced, then parse and run the buffered statement, printing its
// result when it is not nil. With debug set, each result is printed as a
// Go-syntax structural dump (eval.DumpValue) instead of its own String().
func runREPL(rt *lark.Runtime, in io.Reader, out io.Writer, debug bool) error {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder
	var bal balance

	prompt(out, &buf)
	for scanner.Scan() {
		line := scanner.Text()
		buf.WriteString(line)
		buf.WriteByte('\n')
		bal.consume(line)

		if bal.open() {
			prompt(out, &buf)
			continue
		}

		src := buf.String()
		buf.Reset()
		bal = balance{}

		if strings.TrimSpace(src) != "" {
			v, err := rt.RunSource("<repl>", []byte(src))
			if err != nil {
				fmt.Fprintln(out, err)
			} else if v != nil && v != value.NilValue {
				if debug {
					fmt.Fprintln(out, eval.DumpValue(v))
				} else {
					fmt.Fprintln(out, v.String())
				}
			}
		}
		prompt(out, &buf)
	}
	return scanner.Err()
}

func prompt(out io.Writer, buf *strings.Builder) {
	if buf.Len() == 0 {
		fmt.Fprint(out, "> ")
	} else {
		fmt.Fprint(out, "... ")
	}
}

// balance tracks the unmatched-opener state that defers REPL execution:
// bracket/paren/brace nesting, pending `if`/`loop` blocks awaiting `end`,
// and triple-quote parity.
type balance struct {
	depth      int
	pendingEnd int
	tripleDbl  bool
	tripleSgl  bool
}

func (b *balance) open() bool {
	return b.depth > 0 || b.pendingEnd > 0 || b.tripleDbl || b.tripleSgl
}

// consume scans one line's worth of source for balance-affecting tokens.
// It is a deliberately coarse lexical scan (not a full tokenizer): good
// enough to decide when to keep reading, not to validate syntax.
func (b *balance) consume(line string) {
	i := 0
	for i < len(line) {
		switch {
		case b.tripleDbl:
			if strings.HasPrefix(line[i:], `"""`) {
				b.tripleDbl = false
				i += 3
				continue
			}
			i++
		case b.tripleSgl:
			if strings.HasPrefix(line[i:], `'''`) {
				b.tripleSgl = false
				i += 3
				continue
			}
			i++
		case strings.HasPrefix(line[i:], `"""`):
			b.tripleDbl = true
			i += 3
		case strings.HasPrefix(line[i:], `'''`):
			b.tripleSgl = true
			i += 3
		case line[i] == '#':
			// line comment: nothing after this matters.
			i = len(line)
		case line[i] == '(' || line[i] == '[' || line[i] == '{':
			b.depth++
			i++
		case line[i] == ')' || line[i] == ']' || line[i] == '}':
			if b.depth > 0 {
				b.depth--
			}
			i++
		case hasWordAt(line, i, "if") || hasWordAt(line, i, "loop"):
			b.pendingEnd++
			i += wordLenAt(line, i)
		case hasWordAt(line, i, "end"):
			if b.pendingEnd > 0 {
				b.pendingEnd--
			}
			i += 3
		default:
			i++
		}
	}
}

func hasWordAt(s string, i int, word string) bool {
	if !strings.HasPrefix(s[i:], word) {
		return false
	}
	if i > 0 && isIdentByte(s[i-1]) {
		return false
	}
	end := i + len(word)
	if end < len(s) && isIdentByte(s[end]) {
		return false
	}
	return true
}

func wordLenAt(s string, i int) int {
	if strings.HasPrefix(s[i:], "loop") {
		return 4
	}
	return 2
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
