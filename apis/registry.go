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

// Registry maps (type, context) keys to registered entries.
// Lookups are exact; ancestor-aware matching is layered on top by a Resolver.
type Registry interface {
	// Register associates the nearest named type of t and context with an
	// ordered attribute list and optional overrides. An empty context means
	// the configured default. Re-registering a key replaces the previous entry.
	Register(t reflect.Type, context string, attrs AttributeList, overrides Overrides) error
	// Lookup returns the entry registered for exactly (t, context).
	Lookup(t reflect.Type, context string) (Entry, bool)
	// Contexts returns the context names registered for t, in registration order.
	Contexts(t reflect.Type) []string
	// Entries returns a snapshot ordered by registration sequence.
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Key identifies a registration.
type Key struct {
	// Type is the normalized (nearest named) registered type.
	Type reflect.Type
	// Context is the context name.
	Context string
}

// Entry is a single registration.
type Entry struct {
	// Key is the (type, context) pair the entry is registered under.
	Key Key
	// Attributes is the ordered list of attribute names to project.
	Attributes AttributeList
	// Overrides holds the override accessors supplied at registration.
	Overrides Overrides
	// Factory binds raw objects to views for this entry.
	Factory ViewFactory
	// Seq is the registration sequence number; later registrations have larger values.
	Seq uint64
}
