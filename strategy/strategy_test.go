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

package strategy_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/rewrite/apis"
	"dirpx.dev/rewrite/caller"
	"dirpx.dev/rewrite/checker"
	"dirpx.dev/rewrite/strategy"
)

func first(*caller.Caller, ...any) (any, error)  { return 1, nil }
func second(*caller.Caller, ...any) (any, error) { return 2, nil }

func capture() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func trt() apis.Environment {
	return apis.NewEnvironment(apis.BackendTensorRT, apis.IRONNX, nil)
}

func TestExplicit_FirstValidWins(t *testing.T) {
	log, buf := capture()
	s := strategy.NewExplicitStrategy(log)

	cands := []apis.Record{
		{Path: "m.f", Rewrite: first, Seq: 1},
		{Path: "m.f", Rewrite: first, Seq: 2, Checkers: []apis.Checker{checker.Backend(apis.BackendNCNN)}},
		{Path: "m.f", Rewrite: first, Seq: 3, Checkers: []apis.Checker{checker.Backend(apis.BackendTensorRT)}},
		{Path: "m.f", Rewrite: second, Seq: 4, Checkers: []apis.Checker{checker.IR(apis.IRONNX)}},
	}
	rec, ok := s.TryResolve("m.f", cands, trt())
	require.True(t, ok)
	assert.Equal(t, uint64(3), rec.Seq)
	assert.Equal(t, 1, strings.Count(buf.String(), "multiple valid rewriters"))
	assert.Contains(t, buf.String(), "path=m.f")
}

func TestExplicit_AllCheckersMustPass(t *testing.T) {
	log, buf := capture()
	s := strategy.NewExplicitStrategy(log)
	cands := []apis.Record{{
		Path:    "m.f",
		Rewrite: first,
		Checkers: []apis.Checker{
			checker.Backend(apis.BackendTensorRT),
			checker.IR(apis.IRTorchScript),
		},
	}}
	_, ok := s.TryResolve("m.f", cands, trt())
	assert.False(t, ok)
	assert.Empty(t, buf.String())
}

func TestExplicit_IgnoresDefaults(t *testing.T) {
	s := strategy.NewExplicitStrategy(nil)
	_, ok := s.TryResolve("m.f", []apis.Record{{Path: "m.f", Rewrite: first}}, trt())
	assert.False(t, ok)
}

func TestExplicit_ReportsDuplicateDefaults(t *testing.T) {
	log, buf := capture()
	s := strategy.NewExplicitStrategy(log)
	cands := []apis.Record{
		{Path: "m.f", Rewrite: first, Seq: 1},
		{Path: "m.f", Rewrite: second, Seq: 2},
		{Path: "m.f", Rewrite: first, Seq: 3, Checkers: []apis.Checker{checker.Backend(apis.BackendTensorRT)}},
	}
	rec, ok := s.TryResolve("m.f", cands, trt())
	require.True(t, ok)
	assert.Equal(t, uint64(3), rec.Seq)
	assert.Equal(t, 1, strings.Count(buf.String(), "multiple valid rewriters"))
	assert.Contains(t, buf.String(), "kind=default")
	assert.Contains(t, buf.String(), "ignored_seq=2")
}

func TestExplicit_NoMatchLeavesDefaultsToDefaultStep(t *testing.T) {
	log, buf := capture()
	s := strategy.NewExplicitStrategy(log)
	cands := []apis.Record{
		{Path: "m.f", Rewrite: first, Seq: 1},
		{Path: "m.f", Rewrite: second, Seq: 2},
	}
	_, ok := s.TryResolve("m.f", cands, trt())
	assert.False(t, ok)
	assert.Empty(t, buf.String())
}

func TestDefault_FirstDefaultWinsWithWarning(t *testing.T) {
	log, buf := capture()
	s := strategy.NewDefaultStrategy(log)
	cands := []apis.Record{
		{Path: "m.g", Rewrite: first, Seq: 1, Checkers: []apis.Checker{checker.IR(apis.IRONNX)}},
		{Path: "m.g", Rewrite: first, Seq: 2},
		{Path: "m.g", Rewrite: second, Seq: 3},
	}
	rec, ok := s.TryResolve("m.g", cands, trt())
	require.True(t, ok)
	assert.Equal(t, uint64(2), rec.Seq)
	assert.Equal(t, 1, strings.Count(buf.String(), "multiple valid rewriters"))
	assert.Contains(t, buf.String(), "kind=default")
}

func TestDefault_NoDefault(t *testing.T) {
	s := strategy.NewDefaultStrategy(nil)
	cands := []apis.Record{{Path: "m.g", Rewrite: first, Checkers: []apis.Checker{checker.IR(apis.IRONNX)}}}
	_, ok := s.TryResolve("m.g", cands, trt())
	assert.False(t, ok)
}
