/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"reflect"
)

// Resolver coordinates strategies to find the registration that applies
// to a runtime type under a context.
// Typical chain: LineageStrategy -> InterfaceStrategy -> SelfStrategy.
type Resolver interface {
	// Resolve returns the nearest applicable entry for t and context.
	// A miss is not an error; callers decide how to report it.
	Resolve(t reflect.Type, context string) (Entry, bool)
}

// Strategy is a pluggable resolution step. A Resolver chains strategies in order.
type Strategy interface {
	// TryResolve returns (entry, true) if the strategy handled t under
	// context; otherwise (Entry{}, false) to fall through.
	TryResolve(t reflect.Type, context string) (Entry, bool)
}

// Hierarchy describes the linear ancestry of types.
type Hierarchy interface {
	// Declare records parents as the direct ancestors of t, most specific
	// first. A declaration replaces the embedding-derived parents of t; the
	// ancestors of each parent are followed transitively.
	Declare(t reflect.Type, parents ...reflect.Type) error
	// Chain returns t (normalized) followed by its ancestors, most specific
	// first. Entries are unique. It returns nil for types that cannot be normalized.
	Chain(t reflect.Type) []reflect.Type
	// Declarations returns a snapshot of explicit declarations.
	Declarations() []Declaration
}

// Declaration is one explicit ancestry declaration.
type Declaration struct {
	// Type is the declared type.
	Type reflect.Type
	// Parents are its ancestors, most specific first.
	Parents []reflect.Type
}
