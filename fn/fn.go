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

// Package fn defines the catalog surface of the
// specialization core: generic function templates,
// concrete signatures, invocable handles bound to
// generated procedures, and the registry that maps
// one to the other.
package fn

import (
	"strings"

	"github.com/dchest/siphash"

	"github.com/SnellerInc/colfn/types"
	"github.com/SnellerInc/colfn/vector"
)

// Signature is a concrete function signature:
// a name plus fully-bound argument and return
// types. Signatures are values; equal signatures
// identify the same function in a Registry.
type Signature struct {
	Name string
	Ret  types.Type
	Args []types.Type
}

// String renders the signature as
//
//	name(arg,...)->ret
func (s *Signature) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i := range s.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s.Args[i].String())
	}
	sb.WriteString(")->")
	sb.WriteString(s.Ret.String())
	return sb.String()
}

// Equal indicates whether s and o are the
// same concrete signature.
func (s *Signature) Equal(o *Signature) bool {
	if s.Name != o.Name || !s.Ret.Equal(o.Ret) || len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if !s.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

const (
	sigHashK0 = 0x636f6c666e2e7631
	sigHashK1 = 0x7369672e68617368
)

// Hash returns a 64-bit hash of the signature,
// used to intern signatures in a Registry.
// Equal signatures hash identically.
func (s *Signature) Hash() uint64 {
	buf := append([]byte(s.Name), 0)
	for i := range s.Args {
		buf = types.Encode(buf, s.Args[i])
	}
	buf = types.Encode(buf, s.Ret)
	return siphash.Hash(sigHashK0, sigHashK1, buf)
}

// Template is the generic contract of a function
// that is specialized at plan time: it declares a
// name, one free type parameter, and a variadic
// minimum arity rather than concrete types.
type Template struct {
	// Name is the function name as it appears
	// in concrete signatures.
	Name string `json:"name"`
	// TypeParam is the name of the free type
	// parameter (conventionally "E").
	TypeParam string `json:"type_param"`
	// MinArity is the minimum argument count the
	// parser accepts; specialization itself
	// accepts any arity >= 0.
	MinArity int `json:"min_arity"`
	// Hidden templates do not appear in
	// user-facing listings; they exist only as
	// building blocks for the planner.
	Hidden bool `json:"hidden,omitempty"`
	// Deterministic templates yield identical
	// results for identical inputs.
	Deterministic bool `json:"deterministic,omitempty"`
}

// Procedure is a generated, type- and
// arity-specialized implementation. A Procedure
// must be called with exactly the argument count
// it was specialized for, and with values
// compatible with the representation baked into
// it at generation time; violating either is an
// evaluator bug, not a recoverable condition.
// Procedures are immutable and safe for unlimited
// concurrent invocation.
type Procedure func(args ...any) *vector.Column

// Handle is an invocable catalog entry binding a
// concrete Signature to one generated Procedure.
// Handles are immutable once published and safe
// for concurrent use.
type Handle struct {
	Sig Signature
	// ProcName is the unique name assigned to
	// the generated procedure; useful in
	// diagnostics and profiles.
	ProcName string
	Proc     Procedure
	// NullableArgs has one entry per argument;
	// a true entry means a null may be passed
	// at that position.
	NullableArgs  []bool
	Description   string
	Hidden        bool
	Deterministic bool
}
