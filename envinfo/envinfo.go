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

// Package envinfo collects the apis.Environment a rewrite session resolves
// against: the active backend, the active IR and library versions.
//
// Versions can come from explicit options, from the build information of
// the running binary, from a go.mod file, or from a YAML document:
//
//	backend: tensorrt
//	ir: onnx
//	versions:
//	  torch: "1.9.0"
//	  mmcv: null      # reported absent
package envinfo

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"runtime/debug"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"dirpx.dev/rewrite/apis"
)

// ErrNoBuildInfo is returned when the binary carries no build information.
var ErrNoBuildInfo = errors.New("rewrite(envinfo): build info unavailable")

// Option contributes library versions to Collect.
type Option func(versions map[string]string)

// WithVersion records lib at version.
func WithVersion(lib, version string) Option {
	return func(v map[string]string) { v[lib] = version }
}

// WithAbsent records lib as not installed.
func WithAbsent(lib string) Option {
	return func(v map[string]string) { v[lib] = "" }
}

// WithVersions records every entry of m.
func WithVersions(m map[string]string) Option {
	return func(v map[string]string) { maps.Copy(v, m) }
}

// Collect builds an Environment. Options are applied in order; later ones
// override earlier ones for the same library.
func Collect(backend apis.Backend, ir apis.IR, opts ...Option) apis.Environment {
	versions := make(map[string]string)
	for _, opt := range opts {
		opt(versions)
	}
	return apis.NewEnvironment(backend, ir, versions)
}

// BuildInfo returns the module versions linked into the running binary,
// keyed by module path. Replaced modules report the replacement version.
func BuildInfo() (map[string]string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrNoBuildInfo
	}
	return fromBuildInfo(info), nil
}

func fromBuildInfo(info *debug.BuildInfo) map[string]string {
	out := make(map[string]string, len(info.Deps)+1)
	if info.Main.Path != "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		out[info.Main.Path] = info.Main.Version
	}
	for _, dep := range info.Deps {
		mod := dep
		if dep.Replace != nil && dep.Replace.Version != "" {
			mod = dep.Replace
		}
		out[dep.Path] = mod.Version
	}
	return out
}

// FromModFile returns the required module versions declared in a go.mod
// file. name is used in parse errors.
func FromModFile(name string, data []byte) (map[string]string, error) {
	f, err := modfile.Parse(name, data, nil)
	if err != nil {
		return nil, fmt.Errorf("rewrite(envinfo): parse %s: %w", name, err)
	}
	out := make(map[string]string, len(f.Require))
	for _, req := range f.Require {
		out[req.Mod.Path] = req.Mod.Version
	}
	for _, rep := range f.Replace {
		if _, ok := out[rep.Old.Path]; ok && rep.New.Version != "" {
			out[rep.Old.Path] = rep.New.Version
		}
	}
	return out, nil
}

// document is the YAML form of an Environment.
type document struct {
	Backend  apis.Backend       `yaml:"backend"`
	IR       apis.IR            `yaml:"ir"`
	Versions map[string]*string `yaml:"versions"`
}

// Decode reads a YAML environment document. Omitted backend or IR mean
// default; a null version records the library as absent.
func Decode(r io.Reader) (apis.Environment, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return apis.Environment{}, fmt.Errorf("rewrite(envinfo): decode environment: %w", err)
	}
	versions := make(map[string]string, len(doc.Versions))
	for lib, v := range doc.Versions {
		if v == nil {
			versions[lib] = ""
			continue
		}
		versions[lib] = *v
	}
	return apis.NewEnvironment(doc.Backend, doc.IR, versions), nil
}
