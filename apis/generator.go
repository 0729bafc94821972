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

import "errors"

// Generator produces ordered projections.
type Generator interface {
	// Generate projects value under context. The result is an ordered
	// projection for objects, a []any for sequences, a projection or the
	// untouched input for mappings, and the input itself for scalars.
	//
	// Nil values, typed nil pointers included, are returned as-is without
	// consulting any registration: generating (*Article)(nil) yields
	// (*Article)(nil) and no error, even if *Article is unregistered.
	Generate(context string, value any) (any, error)
}

var (
	// ErrUnregisteredContext is matched (errors.Is) by errors raised when no
	// registration applies to a value's type under the requested context.
	ErrUnregisteredContext = errors.New("attrx: no attributes registered for context")
	// ErrUnknownAttribute is matched by errors raised when an attribute can be
	// answered neither by an override nor by the raw object.
	ErrUnknownAttribute = errors.New("attrx: unknown attribute")
	// ErrNoGenerator is returned by views bound without a generator when an
	// override requests nested generation.
	ErrNoGenerator = errors.New("attrx: view has no generator for nested generation")
)
