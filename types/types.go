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

// Package types describes the logical SQL types
// understood by the function-specialization core
// and maps each of them onto one of a closed set
// of physical in-memory representations.
package types

import (
	"github.com/dchest/siphash"
)

// Kind is the physical representation category
// of a logical type. The set of kinds is closed;
// every Type maps to exactly one Kind.
type Kind int8

const (
	KindInvalid Kind = iota
	// KindInt is a fixed-width value carried as an int64.
	KindInt
	// KindFloat is a fixed-width value carried as a float64.
	KindFloat
	// KindBool is a boolean value carried in a bitmap.
	KindBool
	// KindBytes is a variable-length value (text or binary).
	KindBytes
	// KindRef is a reference to a composite value
	// that has no flat representation (arrays, etc.).
	KindRef
	// KindVoid is the representation of a type that
	// could not be resolved; a KindVoid position is
	// always null regardless of its argument.
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindRef:
		return "ref"
	case KindVoid:
		return "void"
	default:
		return "invalid"
	}
}

type base int8

const (
	baseUnknown base = iota
	baseInteger
	baseBigint
	baseDouble
	baseBoolean
	baseVarchar
	baseVarbinary
	baseTimestamp
	baseArray
)

// Type is a logical type identity.
// Scalar types are the predeclared values
// (Integer, Varchar, and so on); composite
// types are built with Array. The zero Type
// is Unknown.
type Type struct {
	base base
	elem *Type
}

// Predeclared scalar types.
var (
	// Unknown is the type of an expression whose
	// element type could not be inferred, for
	// example an untyped NULL literal. It is the
	// only type with KindVoid.
	Unknown = Type{base: baseUnknown}
	// Integer is a 32-bit signed integer
	// (carried as an int64 at runtime).
	Integer = Type{base: baseInteger}
	// Bigint is a 64-bit signed integer.
	Bigint = Type{base: baseBigint}
	// Double is a 64-bit IEEE float.
	Double = Type{base: baseDouble}
	// Boolean is a true/false value.
	Boolean = Type{base: baseBoolean}
	// Varchar is variable-length text.
	Varchar = Type{base: baseVarchar}
	// Varbinary is variable-length binary data.
	Varbinary = Type{base: baseVarbinary}
	// Timestamp is a point in time, carried
	// as unix microseconds in an int64.
	Timestamp = Type{base: baseTimestamp}
)

// Array constructs the array type with the
// given element type.
func Array(elem Type) Type {
	return Type{base: baseArray, elem: &elem}
}

// Elem returns the element type of an array
// type and true, or the zero Type and false
// if t is not an array.
func (t Type) Elem() (Type, bool) {
	if t.base != baseArray {
		return Type{}, false
	}
	return *t.elem, true
}

// Kind returns the physical representation
// category of t. The mapping is total.
func (t Type) Kind() Kind {
	switch t.base {
	case baseInteger, baseBigint, baseTimestamp:
		return KindInt
	case baseDouble:
		return KindFloat
	case baseBoolean:
		return KindBool
	case baseVarchar, baseVarbinary:
		return KindBytes
	case baseArray:
		return KindRef
	case baseUnknown:
		return KindVoid
	default:
		return KindInvalid
	}
}

// Text indicates whether values of t are
// character data rather than raw bytes.
func (t Type) Text() bool { return t.base == baseVarchar }

func (t Type) String() string {
	switch t.base {
	case baseInteger:
		return "integer"
	case baseBigint:
		return "bigint"
	case baseDouble:
		return "double"
	case baseBoolean:
		return "boolean"
	case baseVarchar:
		return "varchar"
	case baseVarbinary:
		return "varbinary"
	case baseTimestamp:
		return "timestamp"
	case baseArray:
		return "array<" + t.elem.String() + ">"
	default:
		return "unknown"
	}
}

// Equal indicates whether t and o name
// the same logical type.
func (t Type) Equal(o Type) bool {
	if t.base != o.base {
		return false
	}
	if t.base != baseArray {
		return true
	}
	return t.elem.Equal(*o.elem)
}

// key material for Hash; fixed so that hashes
// are stable for the lifetime of the process
const (
	hashK0 = 0x636f6c666e2e7631 // "colfn.v1"
	hashK1 = 0x747970652e686173
)

// Hash returns a 64-bit hash of the type identity,
// suitable for interning types and signatures.
// Equal types hash identically.
func (t Type) Hash() uint64 {
	return siphash.Hash(hashK0, hashK1, appendID(nil, t))
}

func appendID(dst []byte, t Type) []byte {
	dst = append(dst, byte(t.base))
	if t.base == baseArray {
		dst = appendID(dst, *t.elem)
	}
	return dst
}
