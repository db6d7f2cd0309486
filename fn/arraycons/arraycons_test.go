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

package arraycons

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/SnellerInc/colfn/fn"
	"github.com/SnellerInc/colfn/types"
)

func env(t types.Type) map[string]types.Type {
	return map[string]types.Type{TypeParam: t}
}

func specialize(t *testing.T, elem types.Type, arity int) *fn.Handle {
	t.Helper()
	h, err := Specialize(env(elem), arity)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestSpecializeSignature(t *testing.T) {
	h := specialize(t, types.Bigint, 3)
	if got, want := h.Sig.String(), "array_constructor(bigint,bigint,bigint)->array<bigint>"; got != want {
		t.Errorf("signature %q, want %q", got, want)
	}
	if len(h.NullableArgs) != 3 {
		t.Fatalf("%d nullable-arg entries, want 3", len(h.NullableArgs))
	}
	for i, ok := range h.NullableArgs {
		if !ok {
			t.Errorf("argument %d not nullable?", i)
		}
	}
	if !h.Hidden || !h.Deterministic {
		t.Error("handle should be hidden and deterministic")
	}
	if h.Description == "" {
		t.Error("handle has no description")
	}
	if !strings.HasPrefix(h.ProcName, "BigintX3ArrayConstructor_") {
		t.Errorf("unexpected procedure name %q", h.ProcName)
	}
}

func TestProcedureValuesAndNulls(t *testing.T) {
	cases := []struct {
		name string
		elem types.Type
		args []any
	}{
		{"integer", types.Integer, []any{int64(5), nil, int64(7)}},
		{"varchar", types.Varchar, []any{nil, "x"}},
		{"double", types.Double, []any{1.25, nil, nil, -2.5}},
		{"boolean", types.Boolean, []any{nil, true, false}},
		{"varbinary", types.Varbinary, []any{[]byte("ab"), nil}},
		{"timestamp", types.Timestamp, []any{int64(1698000000000000), nil}},
		{"leading-null", types.Bigint, []any{nil, int64(1)}},
		{"trailing-null", types.Bigint, []any{int64(1), nil}},
		{"all-null", types.Bigint, []any{nil, nil, nil}},
		{"single", types.Varchar, []any{"only"}},
	}
	for i := range cases {
		tc := &cases[i]
		t.Run(tc.name, func(t *testing.T) {
			h := specialize(t, tc.elem, len(tc.args))
			c := h.Proc(tc.args...)
			if c.Len() != len(tc.args) {
				t.Fatalf("len %d, want %d", c.Len(), len(tc.args))
			}
			want, _ := c.Type().Elem()
			if !want.Equal(tc.elem) {
				t.Fatalf("element type %s, want %s", want, tc.elem)
			}
			for j, arg := range tc.args {
				got := c.Value(j)
				if arg == nil {
					if !c.IsNull(j) || got != nil {
						t.Errorf("position %d: want null, got %v", j, got)
					}
					continue
				}
				if b, ok := arg.([]byte); ok {
					if gb, ok := got.([]byte); !ok || string(gb) != string(b) {
						t.Errorf("position %d: got %v, want %v", j, got, arg)
					}
					continue
				}
				if got != arg {
					t.Errorf("position %d: got %v (%T), want %v (%T)", j, got, got, arg, arg)
				}
			}
		})
	}
}

func TestZeroArity(t *testing.T) {
	h := specialize(t, types.Varchar, 0)
	c := h.Proc()
	if c.Len() != 0 {
		t.Fatalf("len %d, want 0", c.Len())
	}
}

func TestVoidElementType(t *testing.T) {
	// with an unresolved element type every
	// position is null regardless of arguments
	h := specialize(t, types.Unknown, 3)
	c := h.Proc(nil, "ignored", int64(7))
	if c.Len() != 3 {
		t.Fatalf("len %d, want 3", c.Len())
	}
	for i := 0; i < 3; i++ {
		if !c.IsNull(i) {
			t.Errorf("position %d: not null?", i)
		}
	}
}

func TestSpecializeErrors(t *testing.T) {
	cases := []struct {
		name  string
		env   map[string]types.Type
		arity int
	}{
		{"negative-arity", env(types.Bigint), -1},
		{"no-binding", map[string]types.Type{}, 2},
		{"wrong-param", map[string]types.Type{"T": types.Bigint}, 2},
		{"ambiguous", map[string]types.Type{"E": types.Bigint, "F": types.Double}, 2},
	}
	for i := range cases {
		t.Run(cases[i].name, func(t *testing.T) {
			_, err := Specialize(cases[i].env, cases[i].arity)
			var serr *fn.SpecializationError
			if err == nil {
				t.Fatal("no error?")
			}
			if !errors.As(err, &serr) {
				t.Fatalf("got %T, want *fn.SpecializationError", err)
			}
			if serr.Name != Name {
				t.Errorf("error names %q", serr.Name)
			}
		})
	}
}

func TestSpecializeIdempotent(t *testing.T) {
	h1 := specialize(t, types.Double, 4)
	h2 := specialize(t, types.Double, 4)
	if h1 != h2 {
		t.Error("same key yielded distinct handles")
	}
	if specialize(t, types.Double, 5) == h1 {
		t.Error("different arity yielded the same handle")
	}
	if specialize(t, types.Bigint, 4) == h1 {
		t.Error("different type yielded the same handle")
	}
}

func TestSpecializeConcurrent(t *testing.T) {
	// race many first-requests for the same fresh
	// key; all callers must observe one handle
	elem := types.Array(types.Array(types.Timestamp))
	const procs = 32
	got := make([]*fn.Handle, procs)
	var eg errgroup.Group
	for i := 0; i < procs; i++ {
		i := i
		eg.Go(func() error {
			h, err := Specialize(env(elem), 7)
			if err != nil {
				return err
			}
			got[i] = h
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < procs; i++ {
		if got[i] != got[0] {
			t.Fatalf("caller %d observed a different handle", i)
		}
	}
	h, err := Specialize(env(elem), 7)
	if err != nil {
		t.Fatal(err)
	}
	if h != got[0] {
		t.Error("later request observed a different handle")
	}
}

func TestProcedureArityContract(t *testing.T) {
	h := specialize(t, types.Bigint, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	h.Proc(int64(1), int64(2), int64(3))
}

func TestRegister(t *testing.T) {
	var r fn.Registry
	h, err := Register(&r, env(types.Varchar), 2)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := r.Lookup(&h.Sig)
	if !ok || got != h {
		t.Fatal("handle not published in the registry")
	}
	// idempotent: the cached handle re-registers
	// as a no-op
	again, err := Register(&r, env(types.Varchar), 2)
	if err != nil {
		t.Fatal(err)
	}
	if again != h {
		t.Error("re-registration yielded a distinct handle")
	}
}

func TestInvocationsAreIndependent(t *testing.T) {
	h := specialize(t, types.Varchar, 2)
	c1 := h.Proc("a", nil)
	c2 := h.Proc(nil, "b")
	if c1.Value(0) != "a" || !c1.IsNull(1) {
		t.Error("first invocation clobbered")
	}
	if !c2.IsNull(0) || c2.Value(1) != "b" {
		t.Error("second invocation clobbered")
	}
}

func BenchmarkInvoke(b *testing.B) {
	for _, arity := range []int{2, 8, 32} {
		h, err := Specialize(env(types.Bigint), arity)
		if err != nil {
			b.Fatal(err)
		}
		args := make([]any, arity)
		for i := range args {
			if i%3 == 1 {
				continue // leave a null
			}
			args[i] = int64(i)
		}
		b.Run(fmt.Sprintf("bigint/%d", arity), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				c := h.Proc(args...)
				if c.Len() != arity {
					b.Fatal("bad length")
				}
			}
		})
	}
}

func BenchmarkSpecializeHit(b *testing.B) {
	e := env(types.Double)
	if _, err := Specialize(e, 3); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Specialize(e, 3); err != nil {
			b.Fatal(err)
		}
	}
}
