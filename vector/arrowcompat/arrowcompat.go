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

// Package arrowcompat converts vector columns to and
// from Apache Arrow arrays for interchange with
// Arrow-native consumers.
package arrowcompat

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/SnellerInc/colfn/types"
	"github.com/SnellerInc/colfn/vector"
)

// ToArrow converts c into an Arrow array. Integer
// kinds map to INT64, floats to FLOAT64, booleans to
// BOOL, text to STRING, binary to BINARY, and a
// void column to a NULL array. Reference columns
// have no Arrow analogue and return an error.
// The caller owns the returned array.
func ToArrow(mem memory.Allocator, c *vector.Column) (arrow.Array, error) {
	n := c.Len()
	switch c.Type().Kind() {
	case types.KindInt:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.Reserve(n)
		for i := 0; i < n; i++ {
			if c.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(c.Int(i))
			}
		}
		return b.NewArray(), nil
	case types.KindFloat:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.Reserve(n)
		for i := 0; i < n; i++ {
			if c.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(c.Float(i))
			}
		}
		return b.NewArray(), nil
	case types.KindBool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.Reserve(n)
		for i := 0; i < n; i++ {
			if c.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(c.Bool(i))
			}
		}
		return b.NewArray(), nil
	case types.KindBytes:
		if c.Type().Text() {
			b := array.NewStringBuilder(mem)
			defer b.Release()
			b.Reserve(n)
			for i := 0; i < n; i++ {
				if c.IsNull(i) {
					b.AppendNull()
				} else {
					b.Append(string(c.Bytes(i)))
				}
			}
			return b.NewArray(), nil
		}
		b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer b.Release()
		b.Reserve(n)
		for i := 0; i < n; i++ {
			if c.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(c.Bytes(i))
			}
		}
		return b.NewArray(), nil
	case types.KindVoid:
		return array.NewNull(n), nil
	default:
		return nil, fmt.Errorf("arrowcompat: no arrow representation for %s columns", c.Type())
	}
}

// FromArrow converts an Arrow array into a vector
// column. INT64 maps to bigint, FLOAT64 to double,
// BOOL to boolean, STRING to varchar, BINARY to
// varbinary, and NULL to an unknown-typed column of
// nulls. Other array types return an error.
func FromArrow(arr arrow.Array) (*vector.Column, error) {
	n := arr.Len()
	switch arr := arr.(type) {
	case *array.Int64:
		b := vector.NewBuilder(types.Bigint, n)
		for i := 0; i < n; i++ {
			if arr.IsNull(i) {
				b.AppendNull()
			} else {
				b.AppendInt(arr.Value(i))
			}
		}
		return b.Seal(), nil
	case *array.Float64:
		b := vector.NewBuilder(types.Double, n)
		for i := 0; i < n; i++ {
			if arr.IsNull(i) {
				b.AppendNull()
			} else {
				b.AppendFloat(arr.Value(i))
			}
		}
		return b.Seal(), nil
	case *array.Boolean:
		b := vector.NewBuilder(types.Boolean, n)
		for i := 0; i < n; i++ {
			if arr.IsNull(i) {
				b.AppendNull()
			} else {
				b.AppendBool(arr.Value(i))
			}
		}
		return b.Seal(), nil
	case *array.String:
		b := vector.NewBuilder(types.Varchar, n)
		for i := 0; i < n; i++ {
			if arr.IsNull(i) {
				b.AppendNull()
			} else {
				b.AppendString(arr.Value(i))
			}
		}
		return b.Seal(), nil
	case *array.Binary:
		b := vector.NewBuilder(types.Varbinary, n)
		for i := 0; i < n; i++ {
			if arr.IsNull(i) {
				b.AppendNull()
			} else {
				b.AppendBytes(arr.Value(i))
			}
		}
		return b.Seal(), nil
	case *array.Null:
		b := vector.NewBuilder(types.Unknown, n)
		for i := 0; i < n; i++ {
			b.AppendNull()
		}
		return b.Seal(), nil
	default:
		return nil, fmt.Errorf("arrowcompat: unsupported arrow array type %s", arr.DataType())
	}
}
