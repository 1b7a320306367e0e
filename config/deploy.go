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

package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrDeployNotMapping is returned when a deploy document is not a mapping.
var ErrDeployNotMapping = errors.New("rewrite(config): deploy config must be a mapping")

// LoadDeploy decodes a YAML deploy configuration. The result is handed to
// every replacement of a session as caller.Caller.Cfg. An empty document
// yields an empty map.
func LoadDeploy(r io.Reader) (map[string]any, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("rewrite(config): decode deploy config: %w", err)
	}
	doc := &node
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil, ErrDeployNotMapping
	}
	out := map[string]any{}
	if err := doc.Decode(&out); err != nil {
		return nil, fmt.Errorf("rewrite(config): decode deploy config: %w", err)
	}
	return out, nil
}

// LoadDeployFile reads and decodes the YAML deploy configuration at path.
func LoadDeployFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rewrite(config): open deploy config: %w", err)
	}
	defer f.Close()
	return LoadDeploy(f)
}

// Section returns the nested mapping stored under key, e.g. "backend_config".
func Section(deploy map[string]any, key string) (map[string]any, bool) {
	m, ok := deploy[key].(map[string]any)
	return m, ok
}
