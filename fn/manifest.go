// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package fn

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// manifest is the on-disk catalog seed format:
//
//	functions:
//	  - name: array_constructor
//	    type_param: E
//	    min_arity: 2
//	    hidden: true
//	    deterministic: true
type manifest struct {
	Functions []Template `json:"functions"`
}

// LoadManifest parses a YAML catalog manifest and
// returns the template declarations it contains.
func LoadManifest(data []byte) ([]Template, error) {
	var m manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, fmt.Errorf("fn: parsing manifest: %w", err)
	}
	for i := range m.Functions {
		t := &m.Functions[i]
		if t.Name == "" {
			return nil, fmt.Errorf("fn: manifest function %d has no name", i)
		}
		if t.TypeParam == "" {
			return nil, fmt.Errorf("fn: manifest function %q has no type parameter", t.Name)
		}
		if t.MinArity < 0 {
			return nil, fmt.Errorf("fn: manifest function %q has negative min_arity", t.Name)
		}
	}
	return m.Functions, nil
}

// SeedRegistry declares every template from a YAML
// manifest in r.
func SeedRegistry(r *Registry, data []byte) error {
	ts, err := LoadManifest(data)
	if err != nil {
		return err
	}
	for i := range ts {
		r.AddTemplate(ts[i])
	}
	return nil
}
