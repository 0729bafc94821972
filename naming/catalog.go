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

package naming

import (
	"errors"
	"reflect"
	"sort"
	"sync"

	"dirpx.dev/attrx/apis"
	uref "dirpx.dev/attrx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("attrx(naming): nil reflect.Type provided")
	// ErrEmptyName is returned when an empty name is provided.
	ErrEmptyName = errors.New("attrx(naming): empty name provided")
	// ErrNotNamed is returned when a type has no nearest named type.
	ErrNotNamed = errors.New("attrx(naming): type is not named")
	// ErrConflictingRegistration indicates an attempt to re-register a type
	// with a different name, or to reuse a name for a different type.
	ErrConflictingRegistration = errors.New("attrx(naming): conflicting type registration")
)

// CatalogEntry is one name/type pair.
type CatalogEntry struct {
	Type reflect.Type
	Name string
}

// Catalog maps normalized types to names and back.
// It is safe for concurrent use.
type Catalog struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// byType maps reflect.Type to registered name.
	byType sync.Map // map[reflect.Type]string
	// byName maps registered name to reflect.Type.
	byName sync.Map // map[string]reflect.Type
	// count tracks the number of registered entries.
	count int
}

// NewCatalog constructs an empty Catalog that normalizes types according to cfg.
func NewCatalog(cfg apis.Config) *Catalog {
	return &Catalog{cfg: cfg}
}

// Add registers t under TypeName(t).
func (c *Catalog) Add(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	return c.Register(t, TypeName(t))
}

// Register associates the nearest named type of t with the given name.
// It is idempotent for the same (type,name) pair.
func (c *Catalog) Register(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	b, err := uref.Normalize(t, c.cfg)
	if err != nil {
		return ErrNotNamed
	}

	// Fast read path: idempotency / conflict check without locking.
	if done, err := c.check(b, name); done {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if done, err := c.check(b, name); done {
		return err
	}

	c.byType.Store(b, name)
	c.byName.Store(name, b)
	c.count++
	return nil
}

// check reports (true, nil) for an idempotent re-registration,
// (true, ErrConflictingRegistration) for a conflict and (false, nil) otherwise.
func (c *Catalog) check(t reflect.Type, name string) (bool, error) {
	if old, ok := c.byType.Load(t); ok {
		if old.(string) == name {
			return true, nil
		}
		return true, ErrConflictingRegistration
	}
	if _, ok := c.byName.Load(name); ok {
		return true, ErrConflictingRegistration
	}
	return false, nil
}

// Lookup returns the name registered for t.
func (c *Catalog) Lookup(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, c.cfg)
	if err != nil {
		return "", false
	}
	if v, ok := c.byType.Load(nt); ok {
		return v.(string), true
	}
	return "", false
}

// TypeOf returns the type registered under name.
func (c *Catalog) TypeOf(name string) (reflect.Type, bool) {
	if v, ok := c.byName.Load(name); ok {
		return v.(reflect.Type), true
	}
	return nil, false
}

// Entries returns a snapshot sorted by name.
func (c *Catalog) Entries() []CatalogEntry {
	entries := make([]CatalogEntry, 0, c.Count())
	c.byType.Range(func(key, value any) bool {
		entries = append(entries, CatalogEntry{
			Type: key.(reflect.Type),
			Name: value.(string),
		})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Count returns the number of registered entries.
func (c *Catalog) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset clears all registered entries.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byType.Clear()
	c.byName.Clear()
	c.count = 0
}
