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

// Package arraycons specializes the generic variadic
// array_constructor<E> template into concrete
// procedures bound to one element type and one arity.
//
// A generated procedure is branch-minimal on the hot
// path: the element representation category is
// resolved once at generation time and baked into the
// procedure, so invocation performs only the
// per-position null test. Procedures are memoized per
// (element type, arity) and safe for unlimited
// concurrent invocation; each invocation allocates a
// fresh column and touches no shared state.
package arraycons

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SnellerInc/colfn/fn"
	"github.com/SnellerInc/colfn/types"
	"github.com/SnellerInc/colfn/vector"
)

// Name is the function name of the template and of
// every specialized signature.
const Name = "array_constructor"

// TypeParam is the name of the single free type
// parameter of the template.
const TypeParam = "E"

const description = "Constructs an array of the given elements"

// Template is the generic contract: variadic with a
// minimum parser-facing arity of 2, hidden from
// user-facing listings, deterministic. The minimum
// arity binds the parser only; Specialize accepts
// any arity >= 0.
var Template = fn.Template{
	Name:          Name,
	TypeParam:     TypeParam,
	MinArity:      2,
	Hidden:        true,
	Deterministic: true,
}

// cache key; the element type identity is its
// canonical rendering, which is unique per type
type key struct {
	elem  string
	arity int
}

// published handles; at most one handle is ever
// observable per key (losers of a generation race
// are discarded before any caller can see them)
var handles fn.Cache

// Specialize binds the template's type parameter
// from env and returns the handle for the given
// arity, generating and publishing it on first
// request. env must bind exactly TypeParam; arity
// must be >= 0. Concurrent calls for the same
// (type, arity) all observe the same handle.
func Specialize(env map[string]types.Type, arity int) (*fn.Handle, error) {
	if arity < 0 {
		return nil, &fn.SpecializationError{
			Name: Name, Param: TypeParam, Arity: arity,
			Msg: "negative arity",
		}
	}
	if len(env) != 1 {
		return nil, &fn.SpecializationError{
			Name: Name, Param: TypeParam, Arity: arity,
			Msg: fmt.Sprintf("got %d type bindings; need exactly 1", len(env)),
		}
	}
	elem, ok := env[TypeParam]
	if !ok {
		return nil, &fn.SpecializationError{
			Name: Name, Param: TypeParam, Arity: arity,
			Msg: "no binding for type parameter " + TypeParam,
		}
	}
	k := key{elem: elem.String(), arity: arity}
	return handles.GetOrCreate(k, func() (*fn.Handle, error) {
		return generate(elem, arity)
	})
}

// Register specializes and publishes the handle in
// the catalog under its concrete signature. It is
// idempotent for a given (type, arity).
func Register(r *fn.Registry, env map[string]types.Type, arity int) (*fn.Handle, error) {
	h, err := Specialize(env, arity)
	if err != nil {
		return nil, err
	}
	if err := r.Register(h); err != nil {
		return nil, err
	}
	return h, nil
}

func generate(elem types.Type, arity int) (*fn.Handle, error) {
	args := make([]types.Type, arity)
	for i := range args {
		args[i] = elem
	}
	sig := fn.Signature{Name: Name, Ret: types.Array(elem), Args: args}
	kind := elem.Kind()
	if kind == types.KindInvalid {
		return nil, &fn.GenerationFailure{
			Sig: sig,
			Msg: "unsupported representation category " + kind.String(),
		}
	}
	nullable := make([]bool, arity)
	for i := range nullable {
		nullable[i] = true
	}
	return &fn.Handle{
		Sig:           sig,
		ProcName:      procName(elem, arity),
		Proc:          buildProc(elem, kind, arity),
		NullableArgs:  nullable,
		Description:   description,
		Hidden:        true,
		Deterministic: true,
	}, nil
}

// buildProc constructs the specialized procedure.
// The representation category is decided here, once,
// and never re-branched per call.
func buildProc(elem types.Type, kind types.Kind, arity int) fn.Procedure {
	if kind == types.KindVoid {
		// the element type could not be resolved
		// (every element is an untyped null), so
		// every position is null regardless of its
		// argument; kept as its own branch rather
		// than merged into the null test below
		return func(args ...any) *vector.Column {
			checkArity(len(args), arity)
			b := vector.NewBuilder(elem, arity)
			for i := 0; i < arity; i++ {
				b.AppendNull()
			}
			return b.Seal()
		}
	}
	appendv := vector.Appender(kind)
	return func(args ...any) *vector.Column {
		checkArity(len(args), arity)
		b := vector.NewBuilder(elem, arity)
		for i := range args {
			if args[i] == nil {
				b.AppendNull()
			} else {
				appendv(b, args[i])
			}
		}
		return b.Seal()
	}
}

func checkArity(got, want int) {
	if got != want {
		panic(fmt.Sprintf("arraycons: %d args passed to an arity-%d procedure", got, want))
	}
}

// procName assigns the generated procedure a unique
// human-readable name for diagnostics, e.g.
//
//	BigintX3ArrayConstructor_5f3a...
func procName(elem types.Type, arity int) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(elem.String(), func(r rune) bool {
		return r == '<' || r == '>'
	}) {
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(part[1:])
	}
	return fmt.Sprintf("%sX%dArrayConstructor_%s", sb.String(), arity, uuid.NewString())
}
