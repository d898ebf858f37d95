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

// Command lark is the language's command-line entry point (spec §6):
// `lark file` parses and runs a source file, and `lark` with no argument
// starts a line-buffering REPL. The command logic lives in the
// importable cmd/lark/cmd package so it can be driven directly by tests.
package main

import (
	"os"

	"larklang.dev/lark/cmd/lark/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
