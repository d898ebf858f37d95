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

import "larklang.dev/lark/value"

// exitKind tags a non-local exit (spec §4.6, §4.7): Return, Break, and
// Continue are structured control flow, not errors. They are implemented
// as a typed panic, recovered at exactly their binding construct — a
// closure invocation boundary for Return, a loop boundary for Break and
// Continue — so that every intervening Env.Cleanup still runs via defer.
type exitKind int

const (
	exitReturn exitKind = iota
	exitBreak
	exitContinue
)

type nonLocalExit struct {
	kind  exitKind
	value value.Value
}

func raiseReturn(v value.Value)   { panic(nonLocalExit{exitReturn, v}) }
func raiseBreak(v value.Value)    { panic(nonLocalExit{exitBreak, v}) }
func raiseContinue(v value.Value) { panic(nonLocalExit{exitContinue, v}) }

// recoverExit recovers a nonLocalExit of the given kind, storing its
// payload (defaulting to nil if the exit carried none) into *out and
// setting *caught. Any other panic value is re-raised so only the exit
// kinds a boundary is actually responsible for are ever swallowed there.
func recoverExit(kind exitKind, out *value.Value, caught *bool) {
	r := recover()
	if r == nil {
		return
	}
	exit, ok := r.(nonLocalExit)
	if !ok || exit.kind != kind {
		panic(r)
	}
	*caught = true
	if exit.value != nil {
		*out = exit.value
	} else {
		*out = value.NilValue
	}
}
