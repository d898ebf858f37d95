// Copyright 2023 The CUE Authors
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

// lark-ast-print parses a Lark file and prints its syntax tree as YAML,
// for example:
//
//	lark-ast-print file.lk
//
// Pass -format=go to fall back to a Go-syntax dump via kr/pretty instead,
// useful when a node's YAML rendering is hard to read (unexported fields
// collapse to zero values under yaml.v3's reflection-based encoder).
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kr/pretty"
	"gopkg.in/yaml.v3"

	"larklang.dev/lark/parser"
)

func main() {
	format := flag.String("format", "yaml", `output format: "yaml" or "go"`)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: lark-ast-print [-format yaml|go] [file.lk]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	var filename string
	var src []byte
	switch flag.NArg() {
	case 0:
		filename = "<stdin>"
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		src = data
	case 1:
		filename = flag.Arg(0)
		data, err := os.ReadFile(filename)
		if err != nil {
			log.Fatal(err)
		}
		src = data
	default:
		flag.Usage()
		os.Exit(2)
	}

	prog, err := parser.ParseFile(filename, src)
	if err != nil {
		log.Fatal(err)
	}

	if *format == "go" {
		fmt.Printf("%# v\n", pretty.Formatter(prog))
		return
	}
	out, err := yaml.Marshal(prog)
	if err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(out)
}
