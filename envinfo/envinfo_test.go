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

package envinfo_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/checker"
	"dirpx.dev/rewrite/envinfo"
)

func TestCollect_OptionsInOrder(t *testing.T) {
	env := envinfo.Collect(apis.BackendTensorRT, apis.IRONNX,
		envinfo.WithVersions(map[string]string{"torch": "1.8.0", "onnx": "1.12.0"}),
		envinfo.WithVersion("torch", "1.9.0"),
		envinfo.WithAbsent("mmcv"),
	)
	assert.Equal(t, apis.BackendTensorRT, env.Backend())
	assert.Equal(t, apis.IRONNX, env.IR())

	v, ok := env.Version("torch")
	assert.True(t, ok)
	assert.Equal(t, "1.9.0", v)

	_, ok = env.Version("mmcv")
	assert.False(t, ok)
	assert.Equal(t, []string{"mmcv", "onnx", "torch"}, env.Libraries())
}

const goMod = `module example.com/deploy

go 1.22

require (
	github.com/yalue/onnxruntime_go v1.9.0
	gorgonia.org/tensor v0.9.24
	example.com/old v1.0.0
)

replace example.com/old => example.com/new v1.2.0
`

func TestFromModFile(t *testing.T) {
	got, err := envinfo.FromModFile("go.mod", []byte(goMod))
	require.NoError(t, err)
	assert.Equal(t, "v1.9.0", got["github.com/yalue/onnxruntime_go"])
	assert.Equal(t, "v0.9.24", got["gorgonia.org/tensor"])
	assert.Equal(t, "v1.2.0", got["example.com/old"])

	// Module versions feed version checkers directly.
	env := envinfo.Collect(apis.BackendONNXRuntime, apis.IRONNX, envinfo.WithVersions(got))
	c := checker.MustVersion("github.com/yalue/onnxruntime_go", "1.8.0", "1.10.0")
	assert.True(t, c.Check(env))
}

func TestFromModFile_Invalid(t *testing.T) {
	_, err := envinfo.FromModFile("go.mod", []byte("module\nrequire ((("))
	assert.Error(t, err)
}

func TestBuildInfo(t *testing.T) {
	// Test binaries carry build info; the result may be empty when the
	// module has no dependencies linked, but it must not fail.
	got, err := envinfo.BuildInfo()
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestDecode(t *testing.T) {
	doc := `
backend: TensorRT
ir: onnx
versions:
  torch: "1.9.0"
  mmcv: null
`
	env, err := envinfo.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, apis.BackendTensorRT, env.Backend())
	assert.Equal(t, apis.IRONNX, env.IR())
	v, ok := env.Version("torch")
	assert.True(t, ok)
	assert.Equal(t, "1.9.0", v)
	_, ok = env.Version("mmcv")
	assert.False(t, ok)
	assert.Contains(t, env.Libraries(), "mmcv")
}

func TestDecode_DefaultsAndErrors(t *testing.T) {
	env, err := envinfo.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, env.Backend().IsDefault())
	assert.True(t, env.IR().IsDefault())

	_, err = envinfo.Decode(strings.NewReader("backend: tensorflow\n"))
	assert.ErrorIs(t, err, apis.ErrUnknownBackend)
}
