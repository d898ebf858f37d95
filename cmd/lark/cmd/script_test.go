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
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain lets TestScript exec a "lark" pseudo-command that re-enters
// this test binary instead of shelling out to a separately built binary,
// the same trick the teacher's script tests use for "cue" (see e.g.
// doc/tutorial/basics/script_test.go's testscript.RunMain(m,
// map[string]func() int{"cue": cmd.MainTest})).
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"lark": MainTest,
	}))
}

// TestScript drives cmd/lark's file-mode execution and REPL buffering
// end to end (SPEC_FULL.md's Ambient Stack "Test tooling" entry), the one
// layer golden_test.go can't reach since it calls the evaluator directly
// rather than through the CLI's flag parsing, file reading, and exit-code
// behavior.
func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
