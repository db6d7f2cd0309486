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
	"sync"
)

// Cache memoizes generated handles per
// specialization key for the lifetime of the
// process. The zero Cache is ready to use and
// safe for concurrent use.
//
// Generation is optimistic: callers racing on the
// same fresh key may each run gen, but exactly one
// result is published and every caller observes
// it; losing duplicates are discarded before they
// can be observed. Failed generations publish
// nothing.
type Cache struct {
	m sync.Map // key -> *Handle
}

// GetOrCreate returns the handle published under
// key, running gen to produce it on first request.
// key must be a comparable value identifying one
// (type, arity) specialization.
func (c *Cache) GetOrCreate(key any, gen func() (*Handle, error)) (*Handle, error) {
	if h, ok := c.m.Load(key); ok {
		return h.(*Handle), nil
	}
	h, err := gen()
	if err != nil {
		return nil, err
	}
	if prev, loaded := c.m.LoadOrStore(key, h); loaded {
		return prev.(*Handle), nil
	}
	return h, nil
}
