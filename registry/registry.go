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

// Package registry stores attribute registrations keyed by (type, context).
//
// Lookups are exact. Ancestor-aware matching lives in the strategy package.
package registry

import (
	"errors"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/config"
	"dirpx.dev/attrx/naming"
	uref "dirpx.dev/attrx/utils/reflect"
	"dirpx.dev/attrx/view"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("attrx(registry): nil reflect.Type provided")
	// ErrNotNamed is returned when a type has no nearest named type and
	// therefore cannot be used as a registration key.
	ErrNotNamed = errors.New("attrx(registry): type is not named")
)

// Option configures a registry.
type Option func(*registry)

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New constructs an empty Registry that normalizes types according to cfg.
func New(cfg apis.Config, opts ...Option) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	r := &registry{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// registry is a Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for normalization and view factories.
	cfg apis.Config
	log *zap.Logger
	// mu guards write-side consistency, seq and count.
	mu sync.Mutex
	// m maps apis.Key to apis.Entry.
	m sync.Map
	// seq is the last issued registration sequence number.
	seq uint64
	// count tracks the number of registered entries.
	count int
}

var _ apis.Registry = (*registry)(nil)

// Register stores attrs and overrides for (t, context). The view factory is
// built here, once. Re-registering a key replaces the previous entry.
func (r *registry) Register(t reflect.Type, context string, attrs apis.AttributeList, overrides apis.Overrides) error {
	if t == nil {
		return ErrNilType
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return ErrNotNamed
	}
	key := apis.Key{Type: nt, Context: r.cfg.ContextName(context)}
	ov := overrides.Clone()
	factory := view.NewFactory(nt, attrs, ov, r.cfg)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	_, replaced := r.m.Load(key)
	r.m.Store(key, apis.Entry{
		Key:        key,
		Attributes: attrs,
		Overrides:  ov,
		Factory:    factory,
		Seq:        r.seq,
	})
	if !replaced {
		r.count++
	}
	r.log.Debug("attributes registered",
		zap.String("type", naming.TypeName(nt)),
		zap.String("context", key.Context),
		zap.Strings("attributes", attrs.Names()),
		zap.Int("overrides", len(ov)),
		zap.Bool("replaced", replaced))
	return nil
}

// Lookup returns the entry registered for exactly (t, context).
func (r *registry) Lookup(t reflect.Type, context string) (apis.Entry, bool) {
	if t == nil {
		return apis.Entry{}, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return apis.Entry{}, false
	}
	if v, ok := r.m.Load(apis.Key{Type: nt, Context: r.cfg.ContextName(context)}); ok {
		return v.(apis.Entry), true
	}
	return apis.Entry{}, false
}

// Contexts returns the contexts registered for t, in registration order.
func (r *registry) Contexts(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range r.Entries() {
		if e.Key.Type == nt {
			out = append(out, e.Key.Context)
		}
	}
	return out
}

// Entries returns a snapshot ordered by registration sequence.
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(_, value any) bool {
		entries = append(entries, value.(apis.Entry))
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Seq < entries[j].Seq })
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries. Sequence numbers keep increasing.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
