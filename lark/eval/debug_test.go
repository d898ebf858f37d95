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

package eval_test

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"larklang.dev/lark/eval"
	"larklang.dev/lark/value"
)

func TestDumpValueContainsUnderlyingData(t *testing.T) {
	tup := value.NewTuple()
	tup.Append(value.Int(7))
	tup.SetNamed("k", value.String("v"), false)

	dump := eval.DumpValue(tup)
	qt.Assert(t, qt.IsTrue(strings.Contains(dump, "7")))
}
