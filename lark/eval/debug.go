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
	"github.com/kr/pretty"

	"larklang.dev/lark/value"
)

// DumpValue renders v as a Go-syntax structural dump (field names, tuple
// slice lengths, pointer identity of host values) rather than the
// value's own String() form, for the REPL's -debug mode and other
// diagnostics where String()'s user-facing rendering hides the shape a
// debugging session actually needs.
func DumpValue(v value.Value) string {
	return pretty.Sprint(v)
}
