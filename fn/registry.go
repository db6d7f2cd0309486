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
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// Registry is the function catalog: it maps
// concrete signatures to published handles and
// lists the generic templates the planner may
// specialize. The zero Registry is ready to use.
// A Registry is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex
	// handles are interned by signature hash;
	// the inner slice resolves hash collisions
	// by full signature comparison
	handles   map[uint64][]*Handle
	templates []Template
}

// Register publishes h under its concrete
// signature. Registering the same handle twice is
// a no-op; registering a different handle under an
// already-registered signature is an error.
func (r *Registry) Register(h *Handle) error {
	hash := h.Sig.Hash()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handles == nil {
		r.handles = make(map[uint64][]*Handle)
	}
	for _, old := range r.handles[hash] {
		if !old.Sig.Equal(&h.Sig) {
			continue
		}
		if old == h {
			return nil
		}
		return fmt.Errorf("fn: %s already registered", h.Sig.String())
	}
	r.handles[hash] = append(r.handles[hash], h)
	return nil
}

// Lookup finds the handle published under sig.
func (r *Registry) Lookup(sig *Signature) (*Handle, bool) {
	hash := sig.Hash()
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.handles[hash] {
		if h.Sig.Equal(sig) {
			return h, true
		}
	}
	return nil, false
}

// AddTemplate declares a generic template in the
// catalog. Template names need not be unique with
// respect to concrete signatures.
func (r *Registry) AddTemplate(t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = append(r.templates, t)
}

// Template finds a declared template by name.
func (r *Registry) Template(name string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.templates {
		if r.templates[i].Name == name {
			return r.templates[i], true
		}
	}
	return Template{}, false
}

// Templates lists the declared templates sorted by
// name. Hidden templates are omitted unless hidden
// is set; they are internal building blocks and do
// not belong in user-facing listings.
func (r *Registry) Templates(hidden bool) []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Template
	for i := range r.templates {
		if r.templates[i].Hidden && !hidden {
			continue
		}
		out = append(out, r.templates[i])
	}
	slices.SortFunc(out, func(a, b Template) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
