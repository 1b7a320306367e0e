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

package apis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownBackend is returned when a backend token is not recognized.
	ErrUnknownBackend = errors.New("rewrite(apis): unknown backend")
	// ErrUnknownIR is returned when an IR token is not recognized.
	ErrUnknownIR = errors.New("rewrite(apis): unknown IR")
)

// Backend identifies the inference engine a rewrite is specialized for.
//
// BackendDefault is not an engine: a rewrite registered for it matches every
// backend and acts as a fallback.
type Backend int

const (
	// BackendDefault matches any backend.
	BackendDefault Backend = iota
	BackendTensorRT
	BackendONNXRuntime
	BackendPPLNN
	BackendNCNN
	BackendSNPE
	BackendOpenVINO
	BackendSDK
	BackendTorchScript
	BackendRKNN
	BackendAscend
	BackendCoreML
	BackendTVM
	BackendVACC
)

var backendTokens = [...]string{
	BackendDefault:     "default",
	BackendTensorRT:    "tensorrt",
	BackendONNXRuntime: "onnxruntime",
	BackendPPLNN:       "pplnn",
	BackendNCNN:        "ncnn",
	BackendSNPE:        "snpe",
	BackendOpenVINO:    "openvino",
	BackendSDK:         "sdk",
	BackendTorchScript: "torchscript",
	BackendRKNN:        "rknn",
	BackendAscend:      "ascend",
	BackendCoreML:      "coreml",
	BackendTVM:         "tvm",
	BackendVACC:        "vacc",
}

// Backends returns every known backend, BackendDefault first.
func Backends() []Backend {
	out := make([]Backend, len(backendTokens))
	for i := range backendTokens {
		out[i] = Backend(i)
	}
	return out
}

// String returns the lower-case token of b.
func (b Backend) String() string {
	if b < 0 || int(b) >= len(backendTokens) {
		return fmt.Sprintf("Unknown(%d)", int(b))
	}
	return backendTokens[b]
}

// IsDefault reports whether b is BackendDefault.
func (b Backend) IsDefault() bool { return b == BackendDefault }

// ParseBackend parses a backend token, case-insensitively.
func ParseBackend(s string) (Backend, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return BackendDefault, fmt.Errorf("%w: empty token", ErrUnknownBackend)
	}
	for i, tok := range backendTokens {
		if tok == trimmed {
			return Backend(i), nil
		}
	}
	return BackendDefault, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// MustParseBackend is like ParseBackend but panics on error.
func MustParseBackend(s string) Backend {
	b, err := ParseBackend(s)
	if err != nil {
		panic(err)
	}
	return b
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) {
	if b < 0 || int(b) >= len(backendTokens) {
		return nil, fmt.Errorf("%w: cannot marshal %d", ErrUnknownBackend, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// IR identifies the intermediate representation a rewrite is specialized for.
type IR int

const (
	// IRDefault matches any IR.
	IRDefault IR = iota
	// IRONNX is a traced ONNX graph.
	IRONNX
	// IRTorchScript is a scripted graph.
	IRTorchScript
)

var irTokens = [...]string{
	IRDefault:     "default",
	IRONNX:        "onnx",
	IRTorchScript: "torchscript",
}

// String returns the lower-case token of ir.
func (ir IR) String() string {
	if ir < 0 || int(ir) >= len(irTokens) {
		return fmt.Sprintf("Unknown(%d)", int(ir))
	}
	return irTokens[ir]
}

// IsDefault reports whether ir is IRDefault.
func (ir IR) IsDefault() bool { return ir == IRDefault }

// ParseIR parses an IR token, case-insensitively.
func ParseIR(s string) (IR, error) {
	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return IRDefault, fmt.Errorf("%w: empty token", ErrUnknownIR)
	}
	for i, tok := range irTokens {
		if tok == trimmed {
			return IR(i), nil
		}
	}
	return IRDefault, fmt.Errorf("%w: %q", ErrUnknownIR, s)
}

// MustParseIR is like ParseIR but panics on error.
func MustParseIR(s string) IR {
	ir, err := ParseIR(s)
	if err != nil {
		panic(err)
	}
	return ir
}

// MarshalText implements encoding.TextMarshaler.
func (ir IR) MarshalText() ([]byte, error) {
	if ir < 0 || int(ir) >= len(irTokens) {
		return nil, fmt.Errorf("%w: cannot marshal %d", ErrUnknownIR, int(ir))
	}
	return []byte(ir.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ir *IR) UnmarshalText(text []byte) error {
	v, err := ParseIR(string(text))
	if err != nil {
		return err
	}
	*ir = v
	return nil
}
