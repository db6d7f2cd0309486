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

package types

import (
	"fmt"
)

// Encode appends the wire encoding of t to dst
// and returns the extended buffer. The encoding
// is one byte per level of type nesting.
func Encode(dst []byte, t Type) []byte {
	return appendID(dst, t)
}

// Decode decodes a type from the front of buf
// and returns it along with the remaining bytes.
func Decode(buf []byte) (Type, []byte, error) {
	if len(buf) == 0 {
		return Type{}, buf, fmt.Errorf("types: truncated type encoding")
	}
	if buf[0] > byte(baseArray) {
		return Type{}, buf, fmt.Errorf("types: bad type byte %#x", buf[0])
	}
	b := base(buf[0])
	rest := buf[1:]
	if b != baseArray {
		return Type{base: b}, rest, nil
	}
	elem, rest, err := Decode(rest)
	if err != nil {
		return Type{}, buf, err
	}
	return Array(elem), rest, nil
}
