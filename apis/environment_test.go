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

package apis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/rewrite/apis"
)

func TestEnvironment_Accessors(t *testing.T) {
	versions := map[string]string{"torch": "1.9.0", "mmcv": ""}
	env := apis.NewEnvironment(apis.BackendTensorRT, apis.IRONNX, versions)

	assert.Equal(t, apis.BackendTensorRT, env.Backend())
	assert.Equal(t, apis.IRONNX, env.IR())

	v, ok := env.Version("torch")
	assert.True(t, ok)
	assert.Equal(t, "1.9.0", v)

	_, ok = env.Version("mmcv")
	assert.False(t, ok, "empty version means absent")
	_, ok = env.Version("numpy")
	assert.False(t, ok)

	assert.Equal(t, []string{"mmcv", "torch"}, env.Libraries())
}

func TestEnvironment_Immutable(t *testing.T) {
	versions := map[string]string{"torch": "1.9.0"}
	env := apis.NewEnvironment(apis.BackendDefault, apis.IRDefault, versions)
	versions["torch"] = "2.0.0"

	v, _ := env.Version("torch")
	assert.Equal(t, "1.9.0", v)

	next := env.With("torch", "2.1.0")
	v, _ = env.Version("torch")
	assert.Equal(t, "1.9.0", v)
	v, _ = next.Version("torch")
	assert.Equal(t, "2.1.0", v)
}

func TestEnvironment_ZeroValue(t *testing.T) {
	var env apis.Environment
	assert.True(t, env.Backend().IsDefault())
	assert.True(t, env.IR().IsDefault())
	assert.Empty(t, env.Libraries())

	next := env.With("onnx", "1.12.0")
	v, ok := next.Version("onnx")
	assert.True(t, ok)
	assert.Equal(t, "1.12.0", v)
}
