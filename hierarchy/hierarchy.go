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

// Package hierarchy derives the ordered ancestor chain ("lineage") of Go types.
//
// Go has no class inheritance. A type's parents are either declared
// explicitly with Declare or derived from its embedded struct fields, in
// field order. Chains are walked depth first and every type appears once.
package hierarchy

import (
	"errors"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	uref "dirpx.dev/attrx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("attrx(hierarchy): nil reflect.Type provided")
	// ErrNotNamed is returned when a declared type or parent has no nearest named type.
	ErrNotNamed = errors.New("attrx(hierarchy): type is not named")
	// ErrSelfParent is returned when a type is declared as its own parent.
	ErrSelfParent = errors.New("attrx(hierarchy): type declared as its own parent")
)

// Option configures a hierarchy.
type Option func(*hierarchy)

// WithLogger sets the logger used for declaration diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(h *hierarchy) {
		if l != nil {
			h.log = l
		}
	}
}

// New constructs an empty Hierarchy that normalizes types according to cfg.
func New(cfg apis.Config, opts ...Option) apis.Hierarchy {
	h := &hierarchy{
		cfg:   cfg,
		log:   zap.NewNop(),
		decl:  map[reflect.Type][]reflect.Type{},
		cache: map[reflect.Type][]reflect.Type{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type hierarchy struct {
	cfg apis.Config
	log *zap.Logger

	mu    sync.RWMutex
	decl  map[reflect.Type][]reflect.Type
	order []reflect.Type
	cache map[reflect.Type][]reflect.Type
	// gen is bumped by Declare so stale chains are never cached.
	gen uint64
}

var _ apis.Hierarchy = (*hierarchy)(nil)

// Declare records parents as the direct ancestors of t.
func (h *hierarchy) Declare(t reflect.Type, parents ...reflect.Type) error {
	if t == nil {
		return ErrNilType
	}
	nt, err := h.normalize(t)
	if err != nil {
		return err
	}
	ps := make([]reflect.Type, 0, len(parents))
	for _, p := range parents {
		if p == nil {
			return ErrNilType
		}
		np, err := h.normalize(p)
		if err != nil {
			return err
		}
		if np == nt {
			return ErrSelfParent
		}
		ps = append(ps, np)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.decl[nt]; !ok {
		h.order = append(h.order, nt)
	}
	h.decl[nt] = ps
	// Any cached chain may pass through nt.
	h.cache = map[reflect.Type][]reflect.Type{}
	h.gen++
	h.log.Debug("hierarchy declared",
		zap.Stringer("type", nt),
		zap.Int("parents", len(ps)))
	return nil
}

// Chain returns t followed by its ancestors, most specific first.
func (h *hierarchy) Chain(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	nt, err := h.normalize(t)
	if err != nil {
		return nil
	}

	h.mu.RLock()
	if c, ok := h.cache[nt]; ok {
		h.mu.RUnlock()
		return append([]reflect.Type(nil), c...)
	}
	seen := map[reflect.Type]struct{}{}
	var chain []reflect.Type
	h.walk(nt, seen, &chain)
	gen := h.gen
	h.mu.RUnlock()

	h.mu.Lock()
	if h.gen == gen {
		h.cache[nt] = chain
	}
	h.mu.Unlock()
	return append([]reflect.Type(nil), chain...)
}

// walk appends t and, depth first, its parents. Caller holds at least h.mu.RLock.
func (h *hierarchy) walk(t reflect.Type, seen map[reflect.Type]struct{}, out *[]reflect.Type) {
	if _, ok := seen[t]; ok {
		return
	}
	seen[t] = struct{}{}
	*out = append(*out, t)

	parents, ok := h.decl[t]
	if !ok {
		parents = uref.Embedded(t)
	}
	for _, p := range parents {
		h.walk(p, seen, out)
	}
}

// Declarations returns explicit declarations in first-declared order.
func (h *hierarchy) Declarations() []apis.Declaration {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]apis.Declaration, 0, len(h.order))
	for _, t := range h.order {
		out = append(out, apis.Declaration{
			Type:    t,
			Parents: append([]reflect.Type(nil), h.decl[t]...),
		})
	}
	return out
}

func (h *hierarchy) normalize(t reflect.Type) (reflect.Type, error) {
	nt, err := uref.Normalize(t, h.cfg)
	if err != nil {
		if errors.Is(err, uref.ErrReflectNilType) {
			return nil, ErrNilType
		}
		return nil, ErrNotNamed
	}
	return nt, nil
}
