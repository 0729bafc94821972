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

// Package attrx provides a global, process-wide attribute projection service.
//
// attrx turns domain objects into ordered key/value projections for
// serialization. Callers register, per Go type and named context, the
// ordered list of attributes to emit and optional override functions that
// compute individual attributes:
//
//	attrx.RegisterFor[blog.Article]("", []string{"id", "title", "author"}, apis.Overrides{
//		"author": func(v apis.View) (any, error) {
//			return v.Generate(v.Raw().(*blog.Article).Author)
//		},
//	})
//	attrx.RegisterFor[blog.Article]("summary", []string{"id", "title"}, nil)
//
//	out, err := attrx.Generate(article)             // default context
//	out, err = attrx.GenerateIn("summary", articles) // []any of projections
//
// Results are *projection.Projection values (or []any of them) that
// encoding/json and gopkg.in/yaml.v3 serialize in registration order.
//
// # Resolution
//
// A value's registration is found by walking its lineage: the type itself,
// then its ancestors, most specific first. Ancestors come from explicit
// Declare calls or, by default, from embedded struct fields. The first
// ancestor with a registration for the requested context wins, so an exact
// registration always beats an inherited one. When no concrete ancestor
// matches, registrations on interface types the value implements are
// consulted, and finally types implementing apis.Projectable describe
// themselves.
//
// # Generation
//
//   - Strings (and, by default, other scalars) and nils pass through.
//   - Sequences map to a []any, element by element.
//   - Mappings are generated value by value only when every value resolves.
//     Otherwise the mapping is returned unchanged under the default context
//     and rejected under any other.
//   - Objects are bound to a view; each attribute comes from its override
//     or, failing that, from the object's tagged field, field, method or map
//     key of the same name.
//
// Nested objects are never generated implicitly; an override asks for it
// with View.Generate or View.GenerateIn.
//
// # Design
//
// The package holds a read-mostly snapshot of Config, Hierarchy, Registry,
// Resolver, Generator and the Builder that produced them. Readers load the
// snapshot atomically and never take locks. Writers (SetConfig, SetBuilder,
// SetExt, SetRegistry, SetResolver, SetAll, SetLogger) take a build mutex,
// derive a new snapshot and publish it with an atomic swap.
//
// SetRegistry and SetResolver pin the given layer: later rebuilds keep it
// until UnpinRegistry or UnpinResolver. Unpinned registries are migrated
// entry by entry into the rebuilt registry, so registrations survive a
// configuration change.
//
// The snapshot also carries an opaque ext value which attrx passes to the
// Builder on each rebuild. The default builder uses an apis.Hierarchy ext
// as the shared hierarchy.
//
// Components are usable without the globals: builder.New() composes them
// from a Config, and the manifest package loads registrations from YAML.
package attrx
