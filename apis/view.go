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

import "reflect"

// Override computes the value of one attribute from a View.
// Errors are returned to the caller of Generate unmodified.
type Override func(v View) (any, error)

// Overrides maps attribute names to override accessors.
type Overrides map[string]Override

// Clone returns a shallow copy of o, or nil when o is empty.
func (o Overrides) Clone() Overrides {
	if len(o) == 0 {
		return nil
	}
	out := make(Overrides, len(o))
	for k, fn := range o {
		out[k] = fn
	}
	return out
}

// View is a transient, read-only wrapper around one raw object.
// It answers attribute reads by override, falling back to the raw object.
type View interface {
	// Get returns the value of the named attribute.
	Get(name string) (any, error)
	// Formatee returns the wrapped raw object.
	Formatee() any
	// Delegatee returns the wrapped raw object.
	Delegatee() any
	// Raw returns the wrapped raw object.
	Raw() any
	// Context returns the context name the view was bound for.
	Context() string
	// Generate projects value under the default context.
	Generate(value any) (any, error)
	// GenerateIn projects value under the given context.
	GenerateIn(context string, value any) (any, error)
}

// ViewFactory binds raw objects to views for one registration.
type ViewFactory interface {
	// Type returns the registered type the factory was built for.
	Type() reflect.Type
	// Attributes returns the ordered attribute list.
	Attributes() AttributeList
	// Bind wraps raw in a View. gen is used for explicit nested generation
	// and may be nil, in which case nested generation fails.
	Bind(raw any, gen Generator, context string) View
}
