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
	"testing"
)

func TestKindMapping(t *testing.T) {
	cases := []struct {
		typ  Type
		kind Kind
	}{
		{Integer, KindInt},
		{Bigint, KindInt},
		{Timestamp, KindInt},
		{Double, KindFloat},
		{Boolean, KindBool},
		{Varchar, KindBytes},
		{Varbinary, KindBytes},
		{Array(Bigint), KindRef},
		{Array(Array(Varchar)), KindRef},
		{Unknown, KindVoid},
		{Type{}, KindVoid},
	}
	for i := range cases {
		if got := cases[i].typ.Kind(); got != cases[i].kind {
			t.Errorf("%s: kind %s, want %s", cases[i].typ, got, cases[i].kind)
		}
	}
}

func TestTypeString(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{Integer, "integer"},
		{Unknown, "unknown"},
		{Array(Bigint), "array<bigint>"},
		{Array(Array(Double)), "array<array<double>>"},
	}
	for i := range cases {
		if got := cases[i].typ.String(); got != cases[i].want {
			t.Errorf("got %q, want %q", got, cases[i].want)
		}
	}
}

func TestTypeEqualHash(t *testing.T) {
	all := []Type{
		Unknown, Integer, Bigint, Double, Boolean,
		Varchar, Varbinary, Timestamp,
		Array(Bigint), Array(Varchar), Array(Array(Bigint)),
	}
	for i := range all {
		for j := range all {
			eq := all[i].Equal(all[j])
			if eq != (i == j) {
				t.Errorf("%s.Equal(%s) = %v", all[i], all[j], eq)
			}
			if i != j && all[i].Hash() == all[j].Hash() {
				t.Errorf("%s and %s hash identically", all[i], all[j])
			}
		}
	}
	if Array(Bigint).Hash() != Array(Bigint).Hash() {
		t.Error("hash is not stable")
	}
}

func TestTypeEncodeDecode(t *testing.T) {
	all := []Type{
		Unknown, Integer, Bigint, Double, Boolean,
		Varchar, Varbinary, Timestamp,
		Array(Bigint), Array(Array(Varchar)),
	}
	for i := range all {
		buf := Encode(nil, all[i])
		got, rest, err := Decode(buf)
		if err != nil {
			t.Fatalf("%s: %s", all[i], err)
		}
		if !got.Equal(all[i]) {
			t.Errorf("round trip of %s yielded %s", all[i], got)
		}
		if len(rest) != 0 {
			t.Errorf("%s: %d bytes left over?", all[i], len(rest))
		}
	}
	if _, _, err := Decode(nil); err == nil {
		t.Error("no error decoding empty buffer")
	}
	if _, _, err := Decode([]byte{0xff}); err == nil {
		t.Error("no error decoding bad type byte")
	}
	// array with missing element encoding
	if _, _, err := Decode(Encode(nil, Array(Bigint))[:1]); err == nil {
		t.Error("no error decoding truncated array type")
	}
}
