// Copyright 2023 CUE Authors
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

// Package wasm implements the spec §6 host adapter by loading a single
// Wasm module and calling its exported eval_expression/exec_block (and,
// for adapted host values, get_member/set_member/invoke) functions across
// a byte-buffer ABI, the way a guest module exchanges
// arbitrary data with a Wasm host.
package wasm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// runtime is a Wasm runtime that can compile, load, and execute Wasm code.
type runtime struct {
	ctx context.Context
	wazero.Runtime
}

func newRuntime() runtime {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)
	return runtime{ctx: ctx, Runtime: r}
}

// compileAndLoad compiles the Wasm module at name and instantiates it.
func (r *runtime) compileAndLoad(name string) (*instance, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("can't read Wasm module: %w", err)
	}
	mod, err := r.Runtime.CompileModule(r.ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("can't compile Wasm module: %w", err)
	}
	cfg := wazero.NewModuleConfig().WithName(name)
	wInst, err := r.Runtime.InstantiateModule(r.ctx, mod, cfg)
	if err != nil {
		return nil, fmt.Errorf("can't instantiate Wasm module: %w", err)
	}
	return &instance{
		runtime:   r,
		instance:  wInst,
		allocFn:   wInst.ExportedFunction("allocate"),
		deallocFn: wInst.ExportedFunction("deallocate"),
	}, nil
}

// instance is a Wasm module loaded into memory, ready to be called into.
type instance struct {
	mu sync.Mutex

	*runtime
	instance  api.Module
	allocFn   api.Function
	deallocFn api.Function
}

// call invokes the named exported function with a single string argument
// encoded as a (ptr, len) pair in guest memory, and decodes a (ptr, len)
// result pair back into a string.
func (i *instance) call(name, arg string) (string, error) {
	fn := i.instance.ExportedFunction(name)
	if fn == nil {
		return "", fmt.Errorf("Wasm module has no exported function %q", name)
	}
	in := i.encode([]byte(arg))
	defer i.release(in)

	res, err := fn.Call(i.ctx, uint64(in.ptr), uint64(in.len))
	if err != nil {
		return "", fmt.Errorf("call to %q failed: %w", name, err)
	}
	if len(res) != 2 {
		return "", fmt.Errorf("call to %q returned %d values, want 2 (ptr, len)", name, len(res))
	}
	out := memory{ptr: uint32(res[0]), len: uint32(res[1])}
	return string(i.read(out)), nil
}

func (i *instance) release(m memory) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deallocFn.Call(i.ctx, uint64(m.ptr), uint64(m.len))
}

func (i *instance) encode(b []byte) memory {
	i.mu.Lock()
	defer i.mu.Unlock()
	res, err := i.allocFn.Call(i.ctx, uint64(len(b)))
	if err != nil {
		return memory{}
	}
	m := memory{ptr: uint32(res[0]), len: uint32(len(b))}
	i.instance.Memory().Write(m.ptr, b)
	return m
}

func (i *instance) read(m memory) []byte {
	i.mu.Lock()
	defer i.mu.Unlock()
	p, ok := i.instance.Memory().Read(m.ptr, m.len)
	if !ok {
		return nil
	}
	return bytes.Clone(p)
}

// memory is a reference to a (ptr, len) span of guest memory.
type memory struct {
	ptr uint32
	len uint32
}
