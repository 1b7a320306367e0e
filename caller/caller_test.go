/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package caller_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rewrite/caller"
	"dirpx.dev/rewrite/graph"
)

func double(c *caller.Caller, args ...any) (any, error) {
	v, err := c.CallOrigin(args...)
	if err != nil {
		return nil, err
	}
	return v.(int) * 2, nil
}

func identity(args ...any) (any, error) { return args[0], nil }

func TestCaller_InjectsItselfAndReachesOrigin(t *testing.T) {
	origin := graph.NewFunction("m.f", identity)
	c := caller.New("m.f", double, origin, map[string]any{"opset": 11}, nil)

	got, err := c.Call(21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, "m.f", c.Path())
	assert.Same(t, origin, c.Origin())
	assert.Equal(t, 11, c.Cfg()["opset"])
}

func TestCaller_WrappedDispatchesTheSameWay(t *testing.T) {
	c := caller.New("m.f", double, graph.NewFunction("m.f", identity), nil, nil)
	w := c.Wrapped()
	got, err := w(5)
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestCaller_NoOrigin(t *testing.T) {
	c := caller.New("sym", double, nil, nil, nil)
	_, err := c.Call(1)
	assert.ErrorIs(t, err, caller.ErrNoOrigin)
}

func TestCaller_NilFunc(t *testing.T) {
	c := caller.New("sym", nil, nil, nil, nil)
	_, err := c.Call()
	assert.ErrorIs(t, err, caller.ErrNilFunc)
}

func TestCaller_BindCreatesDistinctFunctions(t *testing.T) {
	c := caller.New("m.f", double, graph.NewFunction("m.f", identity), nil, nil)
	f1 := c.Bind("pkg.double", "pkg.double#1")
	assert.Same(t, f1, c.Self())
	assert.Equal(t, "pkg.double", f1.Name())
	assert.Equal(t, "pkg.double#1", f1.Scope())

	got, err := f1.Call(3)
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	f2 := c.Bind("pkg.double", "pkg.double#2")
	assert.NotSame(t, f1, f2)
}

func TestCaller_MetaIsCopied(t *testing.T) {
	meta := map[string]any{"opset": 13, "static": true}
	c := caller.New("m.f", double, nil, nil, meta)
	meta["opset"] = 9

	v, ok := c.Meta("opset")
	require.True(t, ok)
	assert.Equal(t, 13, v)

	b, ok := caller.MetaAs[bool](c, "static")
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = caller.MetaAs[string](c, "static")
	assert.False(t, ok)
	_, ok = c.Meta("missing")
	assert.False(t, ok)
}

func TestCaller_OriginErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	origin := graph.NewFunction("m.f", func(...any) (any, error) { return nil, boom })
	c := caller.New("m.f", double, origin, nil, nil)
	_, err := c.Call(1)
	assert.ErrorIs(t, err, boom)
}
