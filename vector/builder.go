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

package vector

import (
	"fmt"

	"github.com/SnellerInc/colfn/types"
)

// Builder accumulates positions for one Column.
// A Builder is single-use: positions are appended
// in order and Seal is terminal. Builders are not
// safe for concurrent use.
type Builder struct {
	col    Column
	sealed bool
}

// NewBuilder constructs a builder for a column
// of element type t with capacity for n positions.
// The capacity is a hint; appending more than n
// positions grows the builder.
func NewBuilder(t types.Type, n int) *Builder {
	b := &Builder{col: Column{typ: t, nulls: makeBitmap(n)}}
	switch t.Kind() {
	case types.KindInt:
		b.col.ints = make([]int64, 0, n)
	case types.KindFloat:
		b.col.floats = make([]float64, 0, n)
	case types.KindBool:
		b.col.bools = makeBitmap(n)
	case types.KindBytes:
		b.col.offs = make([]uint32, 1, n+1)
	case types.KindRef:
		b.col.refs = make([]any, 0, n)
	}
	return b
}

func (b *Builder) check() {
	if b.sealed {
		panic("vector: use of sealed Builder")
	}
}

// grow the null bitmap (and the boolean bitmap)
// when the capacity hint turns out to be short
func (b *Builder) grow() {
	if b.col.n>>6 >= len(b.col.nulls) {
		b.col.nulls = append(b.col.nulls, 0)
	}
	if b.col.bools != nil && b.col.n>>6 >= len(b.col.bools) {
		b.col.bools = append(b.col.bools, 0)
	}
}

// AppendNull appends a null position.
func (b *Builder) AppendNull() {
	b.check()
	b.grow()
	b.col.nulls.set(b.col.n)
	// keep slot i aligned with position i
	switch b.col.typ.Kind() {
	case types.KindInt:
		b.col.ints = append(b.col.ints, 0)
	case types.KindFloat:
		b.col.floats = append(b.col.floats, 0)
	case types.KindBytes:
		b.col.offs = append(b.col.offs, uint32(len(b.col.blob)))
	case types.KindRef:
		b.col.refs = append(b.col.refs, nil)
	}
	b.col.n++
}

// AppendInt appends an int64 position.
func (b *Builder) AppendInt(v int64) {
	b.check()
	b.grow()
	b.col.ints = append(b.col.ints, v)
	b.col.n++
}

// AppendFloat appends a float64 position.
func (b *Builder) AppendFloat(v float64) {
	b.check()
	b.grow()
	b.col.floats = append(b.col.floats, v)
	b.col.n++
}

// AppendBool appends a boolean position.
func (b *Builder) AppendBool(v bool) {
	b.check()
	b.grow()
	if v {
		b.col.bools.set(b.col.n)
	}
	b.col.n++
}

// AppendBytes appends a variable-length position.
// The contents of v are copied.
func (b *Builder) AppendBytes(v []byte) {
	b.check()
	b.grow()
	b.col.blob = append(b.col.blob, v...)
	b.col.offs = append(b.col.offs, uint32(len(b.col.blob)))
	b.col.n++
}

// AppendString appends a text position.
func (b *Builder) AppendString(v string) {
	b.check()
	b.grow()
	b.col.blob = append(b.col.blob, v...)
	b.col.offs = append(b.col.offs, uint32(len(b.col.blob)))
	b.col.n++
}

// AppendRef appends a reference position.
func (b *Builder) AppendRef(v any) {
	b.check()
	b.grow()
	b.col.refs = append(b.col.refs, v)
	b.col.n++
}

// Append appends the boxed value v, dispatching on
// the column kind: nil appends null regardless of
// kind; otherwise KindInt expects an int64, KindFloat
// a float64, KindBool a bool, KindBytes a string or
// []byte, and KindRef accepts anything. A value of
// any other dynamic type is a call-contract violation
// and panics. A KindVoid column appends null always.
func (b *Builder) Append(v any) {
	if v == nil || b.col.typ.Kind() == types.KindVoid {
		b.AppendNull()
		return
	}
	switch b.col.typ.Kind() {
	case types.KindInt:
		b.AppendInt(v.(int64))
	case types.KindFloat:
		b.AppendFloat(v.(float64))
	case types.KindBool:
		b.AppendBool(v.(bool))
	case types.KindBytes:
		switch v := v.(type) {
		case string:
			b.AppendString(v)
		case []byte:
			b.AppendBytes(v)
		default:
			panic(fmt.Sprintf("vector: cannot append %T to a %s column", v, b.col.typ))
		}
	default:
		b.AppendRef(v)
	}
}

// Seal finalizes the builder and returns the
// accumulated Column. Seal is terminal: any
// further append (or a second Seal) panics.
func (b *Builder) Seal() *Column {
	b.check()
	b.sealed = true
	c := b.col
	b.col = Column{}
	// the bitmaps were sized from the capacity
	// hint; trim them to the sealed length so the
	// column (and its wire encoding) carries
	// exactly (n+63)/64 words
	words := (c.n + 63) >> 6
	c.nulls = c.nulls[:words]
	if c.bools != nil {
		c.bools = c.bools[:words]
	}
	return &c
}

// Appender returns the append operation for a
// representation category, for callers that
// resolve the category once and then append
// many values without re-dispatching. It
// panics for KindVoid and KindInvalid, which
// have no value representation.
func Appender(k types.Kind) func(*Builder, any) {
	switch k {
	case types.KindInt:
		return func(b *Builder, v any) { b.AppendInt(v.(int64)) }
	case types.KindFloat:
		return func(b *Builder, v any) { b.AppendFloat(v.(float64)) }
	case types.KindBool:
		return func(b *Builder, v any) { b.AppendBool(v.(bool)) }
	case types.KindBytes:
		return func(b *Builder, v any) {
			switch v := v.(type) {
			case string:
				b.AppendString(v)
			case []byte:
				b.AppendBytes(v)
			default:
				panic(fmt.Sprintf("vector: cannot append %T to a bytes column", v))
			}
		}
	case types.KindRef:
		return (*Builder).AppendRef
	default:
		panic("vector: no appender for kind " + k.String())
	}
}
