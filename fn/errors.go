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
	"fmt"
)

// SpecializationError is the error returned when a
// template cannot be specialized: the type binding
// for the declared parameter is missing or
// ambiguous, or the requested arity is negative.
// It is raised at plan time, before any row is
// evaluated, and identifies the offending request.
type SpecializationError struct {
	Name  string // template name
	Param string // declared type-parameter name
	Arity int
	Msg   string
}

func (e *SpecializationError) Error() string {
	return fmt.Sprintf("cannot specialize %s/%d: %s", e.Name, e.Arity, e.Msg)
}

// GenerationFailure is the error returned when
// procedure construction fails for a signature
// whose representation category is unsupported.
// It is an internal engine error: the request was
// well-formed, but no procedure can be built.
type GenerationFailure struct {
	Sig Signature
	Msg string
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generating %s: %s", e.Sig.String(), e.Msg)
}
