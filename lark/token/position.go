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

package token

import "fmt"

// Pos describes an arbitrary source position, including the file name,
// line, and column.
//
// A Pos is valid if its Line is > 0.
type Pos struct {
	Filename string
	Offset   int // byte offset, starting at 0
	Line     int // line number, starting at 1
	Column   int // column number in bytes, starting at 1
}

// NoPos is the zero value for Pos; it carries no position information.
var NoPos = Pos{}

// IsValid reports whether the position contains real line/column info.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String returns a human-readable form: "file:line:column", "line:column",
// "file", or "-".
func (p Pos) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// Add returns the position n bytes after p, on the same line.
func (p Pos) Add(n int) Pos {
	return Pos{p.Filename, p.Offset + n, p.Line, p.Column + n}
}
