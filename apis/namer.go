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

// Namer gives a type a stable, canonical name used in diagnostics, log
// fields and declarative manifests.
//
// EntityName is a type-level contract: it is called on the zero value of
// the type and MUST NOT depend on instance state. It MUST be cheap, free of
// I/O and safe for concurrent use.
//
//	type Article struct{ ID int }
//
//	func (Article) EntityName() string { return "blog.article" }
type Namer interface {
	// EntityName returns the canonical, type-level name for this entity.
	EntityName() string
}

// Projectable lets a type describe its own attribute lists.
//
// It is consulted only after every registry-backed strategy missed, so an
// explicit registration always wins. Like Namer it is type-level: it is
// called on the zero value (or a pointer to it) and MUST NOT depend on
// instance state.
type Projectable interface {
	// ProjectionAttributes returns the ordered attribute names for context,
	// or false if the type has no attributes for that context.
	ProjectionAttributes(context string) ([]string, bool)
}
