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

// Package vector implements typed-or-null columnar
// value containers and the single-use builders that
// produce them.
//
// A Column is an ordered, immutable, fixed-length
// sequence of positions; each position is either null
// or holds a value of the column's element type.
// Values are stored flat by representation category
// (see the types package) so that a Column costs a
// small constant number of allocations regardless of
// its length.
package vector

import (
	"bytes"

	"golang.org/x/exp/slices"

	"github.com/SnellerInc/colfn/types"
)

// Column is an immutable sequence of typed-or-null
// positions. The zero Column is an empty column of
// type Unknown. Columns are safe for concurrent use.
type Column struct {
	typ   types.Type
	n     int
	nulls bitmap

	// exactly one of the following backings is
	// populated, per typ.Kind(); null positions
	// occupy a zero slot so that position i maps
	// to slot i in every backing
	ints   []int64
	floats []float64
	bools  bitmap
	offs   []uint32 // len n+1; spans into blob
	blob   []byte
	refs   []any
}

// Len returns the number of positions in c.
func (c *Column) Len() int { return c.n }

// Type returns the element type of c.
func (c *Column) Type() types.Type { return c.typ }

// IsNull indicates whether position i is null.
func (c *Column) IsNull(i int) bool { return c.nulls.test(i) }

// Int returns the int64 at position i.
// The value is unspecified if position i is null
// or the column kind is not KindInt.
func (c *Column) Int(i int) int64 { return c.ints[i] }

// Float returns the float64 at position i.
func (c *Column) Float(i int) float64 { return c.floats[i] }

// Bool returns the boolean at position i.
func (c *Column) Bool(i int) bool { return c.bools.test(i) }

// Bytes returns the variable-length value at
// position i. The returned slice aliases the
// column storage and must not be modified.
func (c *Column) Bytes(i int) []byte {
	return c.blob[c.offs[i]:c.offs[i+1]]
}

// Ref returns the reference value at position i.
func (c *Column) Ref(i int) any { return c.refs[i] }

// Value returns the boxed value at position i,
// or nil if position i is null. Integer kinds box
// as int64, floats as float64, booleans as bool,
// text as string, binary as []byte.
func (c *Column) Value(i int) any {
	if c.nulls.test(i) {
		return nil
	}
	switch c.typ.Kind() {
	case types.KindInt:
		return c.ints[i]
	case types.KindFloat:
		return c.floats[i]
	case types.KindBool:
		return c.bools.test(i)
	case types.KindBytes:
		if c.typ.Text() {
			return string(c.Bytes(i))
		}
		return slices.Clone(c.Bytes(i))
	case types.KindRef:
		return c.refs[i]
	default:
		// KindVoid columns hold only nulls,
		// so position i cannot be non-null
		return nil
	}
}

// Equal indicates whether c and o have the same
// type, length, null pattern, and values.
func (c *Column) Equal(o *Column) bool {
	if !c.typ.Equal(o.typ) || c.n != o.n {
		return false
	}
	for i := 0; i < c.n; i++ {
		if c.nulls.test(i) != o.nulls.test(i) {
			return false
		}
	}
	switch c.typ.Kind() {
	case types.KindInt:
		return slices.Equal(c.ints, o.ints)
	case types.KindFloat:
		return slices.Equal(c.floats, o.floats)
	case types.KindBool:
		for i := 0; i < c.n; i++ {
			if !c.nulls.test(i) && c.bools.test(i) != o.bools.test(i) {
				return false
			}
		}
		return true
	case types.KindBytes:
		for i := 0; i < c.n; i++ {
			if !bytes.Equal(c.Bytes(i), o.Bytes(i)) {
				return false
			}
		}
		return true
	case types.KindRef:
		// reference equality only; composite
		// deep-equality is the caller's concern
		for i := 0; i < c.n; i++ {
			if c.refs[i] != o.refs[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// bitmap is a fixed-capacity bitset addressed
// by position, stored one bit per position in
// 64-bit words.
type bitmap []uint64

func makeBitmap(n int) bitmap {
	return make(bitmap, (n+63)>>6)
}

func (b bitmap) set(i int) {
	b[i>>6] |= uint64(1) << (i & 63)
}

func (b bitmap) test(i int) bool {
	if i>>6 >= len(b) {
		return false
	}
	return b[i>>6]&(uint64(1)<<(i&63)) != 0
}
