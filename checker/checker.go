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

// Package checker provides the standard apis.Checker variants: backend
// identity, IR identity and library version range.
package checker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"

	"dirpx.dev/rewrite/apis"
)

var (
	// ErrEmptyLibrary is returned when a version checker names no library.
	ErrEmptyLibrary = errors.New("rewrite(checker): empty library name")
	// ErrInvalidVersion is returned when a version bound does not parse.
	ErrInvalidVersion = errors.New("rewrite(checker): invalid version")
	// ErrInvertedRange is returned when min is greater than max.
	ErrInvertedRange = errors.New("rewrite(checker): min version greater than max version")
)

// Backend returns a checker that passes iff the environment's backend is b.
func Backend(b apis.Backend) apis.Checker { return backendChecker{want: b} }

type backendChecker struct{ want apis.Backend }

var _ apis.Checker = backendChecker{}

func (c backendChecker) Check(env apis.Environment) bool { return env.Backend() == c.want }
func (c backendChecker) String() string                  { return "backend==" + c.want.String() }

// IR returns a checker that passes iff the environment's IR is ir.
func IR(ir apis.IR) apis.Checker { return irChecker{want: ir} }

type irChecker struct{ want apis.IR }

var _ apis.Checker = irChecker{}

func (c irChecker) Check(env apis.Environment) bool { return env.IR() == c.want }
func (c irChecker) String() string                  { return "ir==" + c.want.String() }

// Version returns a checker that passes iff lib is reported present and its
// version lies in [min, max]. Either bound may be "" for no constraint.
//
// Versions may have any number of numeric components ("8.6.1.6"), a leading
// "v", a pre-release suffix ("2.0.0rc1", "1.0.0-beta.2") and build metadata
// ("1.9.0+cu117"). Missing components compare as zero and a pre-release sorts
// before its release.
func Version(lib, min, max string) (apis.Checker, error) {
	if strings.TrimSpace(lib) == "" {
		return nil, ErrEmptyLibrary
	}
	c := versionChecker{lib: lib}
	var err error
	if min != "" {
		if c.min, err = parse(min); err != nil {
			return nil, fmt.Errorf("%w: min %q for %s: %w", ErrInvalidVersion, min, lib, err)
		}
	}
	if max != "" {
		if c.max, err = parse(max); err != nil {
			return nil, fmt.Errorf("%w: max %q for %s: %w", ErrInvalidVersion, max, lib, err)
		}
	}
	if c.min != nil && c.max != nil && c.min.GreaterThan(c.max) {
		return nil, fmt.Errorf("%w: %s [%s, %s]", ErrInvertedRange, lib, min, max)
	}
	return c, nil
}

// MustVersion is like Version but panics on error.
func MustVersion(lib, min, max string) apis.Checker {
	c, err := Version(lib, min, max)
	if err != nil {
		panic(err)
	}
	return c
}

type versionChecker struct {
	lib      string
	min, max *version.Version
}

var _ apis.Checker = versionChecker{}

// Check fails when the library is absent or reports an unparsable version.
func (c versionChecker) Check(env apis.Environment) bool {
	raw, ok := env.Version(c.lib)
	if !ok {
		return false
	}
	v, err := parse(raw)
	if err != nil {
		return false
	}
	if c.min != nil && v.LessThan(c.min) {
		return false
	}
	if c.max != nil && v.GreaterThan(c.max) {
		return false
	}
	return true
}

func (c versionChecker) String() string {
	return fmt.Sprintf("%s in [%s, %s]", c.lib, orAny(c.min), orAny(c.max))
}

func orAny(v *version.Version) string {
	if v == nil {
		return "*"
	}
	return v.Original()
}

func parse(v string) (*version.Version, error) {
	return version.NewVersion(strings.TrimSpace(v))
}

// Func adapts an ad-hoc predicate into a Checker. name is used by String.
func Func(name string, fn func(apis.Environment) bool) apis.Checker {
	return funcChecker{name: name, fn: fn}
}

type funcChecker struct {
	name string
	fn   func(apis.Environment) bool
}

var _ apis.Checker = funcChecker{}

func (c funcChecker) Check(env apis.Environment) bool { return c.fn != nil && c.fn(env) }
func (c funcChecker) String() string                  { return c.name }
