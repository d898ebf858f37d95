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
	"larklang.dev/lark/errors"
	"larklang.dev/lark/token"
	"larklang.dev/lark/value"
)

// GetMember implements dot-access and indirect dot-access (spec §4.1,
// §4.5): `string[int]`, `tuple[int|string]`, and host member access via
// the adapter. Every other container kind fails NoDotAccess.
func GetMember(container, key value.Value, pos token.Pos) (value.Value, error) {
	switch c := container.(type) {
	case value.String:
		i, ok := key.(value.Int)
		if !ok {
			return nil, errors.Newf(errors.DotAccessMissing, pos,
				"string member access requires an int index, got %s", key.Kind())
		}
		return c.Index(int(i))
	case *value.Tuple:
		switch k := key.(type) {
		case value.Int:
			return c.Index(int(k))
		case value.String:
			return c.Named(string(k))
		default:
			return nil, errors.Newf(errors.DotAccessMissing, pos,
				"tuple member key must be int or string, got %s", key.Kind())
		}
	case *value.Host:
		if c.Adapter == nil {
			return nil, errors.Newf(errors.NoDotAccess, pos, "host value has no adapter")
		}
		return c.Adapter.GetMember(c.Obj, key)
	default:
		return nil, errors.Newf(errors.NoDotAccess, pos,
			"%s values have no members", container.Kind())
	}
}

// SetMember implements member assignment (spec §4.1, §4.5).
func SetMember(container, key, val value.Value, pos token.Pos) (value.Value, error) {
	switch c := container.(type) {
	case value.String:
		return nil, errors.Newf(errors.ImmutableString, pos, "strings are immutable")
	case *value.Tuple:
		switch k := key.(type) {
		case value.Int:
			if err := c.SetIndex(int(k), val); err != nil {
				return nil, err
			}
			return val, nil
		case value.String:
			c.SetNamedMember(string(k), val)
			return val, nil
		default:
			return nil, errors.Newf(errors.DotAccessMissing, pos,
				"tuple member key must be int or string, got %s", key.Kind())
		}
	case *value.Host:
		if c.Adapter == nil {
			return nil, errors.Newf(errors.NoDotAccess, pos, "host value has no adapter")
		}
		return c.Adapter.SetMember(c.Obj, key, val)
	default:
		return nil, errors.Newf(errors.NoDotAccess, pos,
			"%s values have no members", container.Kind())
	}
}

// Length implements `length()` for tuples and strings (spec §4.1).
func Length(v value.Value, pos token.Pos) (int, error) {
	switch x := v.(type) {
	case value.String:
		return x.Len(), nil
	case *value.Tuple:
		return x.Len(), nil
	default:
		return 0, errors.Newf(errors.NoDotAccess, pos, "%s values have no length", v.Kind())
	}
}
