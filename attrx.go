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

package attrx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/builder"
	"dirpx.dev/attrx/config"
	"dirpx.dev/attrx/manifest"
	"dirpx.dev/attrx/naming"
)

// init publishes the default snapshot.
func init() {
	b := builder.New()
	st.Store(rebuild(&state{}, config.DefaultConfig(), nil, b))
}

var (
	// ErrNilHierarchy is returned when a builder returns a nil hierarchy.
	ErrNilHierarchy = errors.New("attrx: builder returned nil hierarchy")
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("attrx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("attrx: builder returned nil resolver")
	// ErrNilGenerator is returned when a builder returns a nil generator.
	ErrNilGenerator = errors.New("attrx: builder returned nil generator")
)

// Register associates attrs (in order) and optional overrides with t under
// context in the global registry. An empty context means the default one.
// Registering the same (t, context) again replaces the previous entry.
func Register(t reflect.Type, context string, attrs []string, overrides apis.Overrides) error {
	return st.Load().reg.Register(t, context, apis.NewAttributeList(attrs...), overrides)
}

// RegisterDefault is Register under the default context.
func RegisterDefault(t reflect.Type, attrs []string, overrides apis.Overrides) error {
	return Register(t, "", attrs, overrides)
}

// RegisterFor is Register for the static type T. T may be an interface type.
func RegisterFor[T any](context string, attrs []string, overrides apis.Overrides) error {
	return Register(reflect.TypeOf((*T)(nil)).Elem(), context, attrs, overrides)
}

// Declare records parents as the direct ancestors of t in the global hierarchy.
func Declare(t reflect.Type, parents ...reflect.Type) error {
	return st.Load().hier.Declare(t, parents...)
}

// ApplyManifest applies m to the global registry and hierarchy, resolving
// type names through cat and override names through funcs.
func ApplyManifest(m *manifest.Manifest, cat *naming.Catalog, funcs manifest.Funcs) error {
	s := st.Load()
	return manifest.Apply(m, s.reg, s.hier, cat, funcs)
}

// Generate projects value under the default context.
func Generate(value any) (any, error) {
	s := st.Load()
	return s.gen.Generate(s.cfg.Default(), value)
}

// GenerateIn projects value under context.
func GenerateIn(context string, value any) (any, error) {
	return st.Load().gen.Generate(context, value)
}

// SetAll explicitly sets all global attrx state components.
//
// Nil arguments leave the corresponding component unchanged (or rebuilt by
// the builder), except for ext which is always replaced. A non-nil reg or
// res is pinned; nil ones are rebuilt and unpinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	n := &state{cfg: ncfg, ext: ext, bld: nbld}
	n.hier = nbld.BuildHierarchy(ncfg, old.hier, ext)
	n.reg, n.preg = reg, reg != nil
	if n.reg == nil {
		n.reg = nbld.BuildRegistry(ncfg, old.reg, ext)
	}
	n.res, n.pres = res, res != nil
	if n.res == nil {
		n.res = nbld.BuildResolver(ncfg, n.reg, n.hier, old.res, ext)
	}
	n.gen = nbld.BuildGenerator(ncfg, n.res, ext)
	n.mustBeComplete()
	st.Store(n)
}

// Config returns the global attrx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds every layer that is
// not pinned.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	st.Store(rebuild(old, cfg, old.ext, old.bld))
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces and pins the global registry. The resolver is
// rebuilt over it unless pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	n := old.with(func(s *state) {
		s.reg, s.preg = reg, true
		if !s.pres {
			s.res = s.bld.BuildResolver(s.cfg, reg, s.hier, old.res, s.ext)
		}
		s.gen = s.bld.BuildGenerator(s.cfg, s.res, s.ext)
	})
	n.mustBeComplete()
	st.Store(n)
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces and pins the global resolver.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	n := st.Load().with(func(s *state) {
		s.res, s.pres = res, true
		s.gen = s.bld.BuildGenerator(s.cfg, res, s.ext)
	})
	n.mustBeComplete()
	st.Store(n)
}

// Hierarchy returns the global type hierarchy.
func Hierarchy() apis.Hierarchy {
	return st.Load().hier
}

// Generator returns the global generator.
func Generator() apis.Generator {
	return st.Load().gen
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds every layer that is not pinned.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	st.Store(rebuild(old, old.cfg, old.ext, b))
}

// SetLogger installs the default builder with l, so every rebuilt component
// logs through it. It replaces any custom builder.
func SetLogger(l *zap.Logger) {
	SetBuilder(builder.New(builder.WithLogger(l)))
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()
	old := st.Load()
	st.Store(rebuild(old, old.cfg, ext, old.bld))
}

// ExtAs returns the global extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() { setPins(func(s *state) { s.preg = true }) }

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() { setPins(func(s *state) { s.preg = false }) }

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() { setPins(func(s *state) { s.pres = true }) }

// UnpinResolver lets the global resolver be rebuilt again.
func UnpinResolver() { setPins(func(s *state) { s.pres = false }) }

func setPins(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()
	st.Store(st.Load().with(fn))
}

// rebuild derives the next snapshot from old, rebuilding every layer that
// is not pinned. The hierarchy and generator are always rebuilt.
func rebuild(old *state, cfg apis.Config, ext any, bld apis.Builder) *state {
	n := &state{
		cfg:  cfg,
		ext:  ext,
		bld:  bld,
		reg:  old.reg,
		res:  old.res,
		preg: old.preg,
		pres: old.pres,
	}
	n.hier = bld.BuildHierarchy(cfg, old.hier, ext)
	if !n.preg {
		n.reg = bld.BuildRegistry(cfg, old.reg, ext)
	}
	if !n.pres {
		n.res = bld.BuildResolver(cfg, n.reg, n.hier, old.res, ext)
	}
	n.gen = bld.BuildGenerator(cfg, n.res, ext)
	n.mustBeComplete()
	return n
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global attrx state.
var st atomic.Pointer[state]

// state is the global attrx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the opaque extension value handed to the builder.
	ext any
	// hier is the global type hierarchy.
	hier apis.Hierarchy
	// reg is the global registry.
	reg apis.Registry
	// res is the global resolver.
	res apis.Resolver
	// gen is the global generator, always built over res.
	gen apis.Generator
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the reg is pinned (not rebuilt).
	preg bool
	// pres indicates whether the res is pinned (not rebuilt).
	pres bool
}

// with returns a modified copy of s.
func (s *state) with(fn func(*state)) *state {
	n := *s
	fn(&n)
	return &n
}

// mustBeComplete panics if a builder produced a nil layer.
func (s *state) mustBeComplete() {
	switch {
	case s.hier == nil:
		panic(ErrNilHierarchy)
	case s.reg == nil:
		panic(ErrNilRegistry)
	case s.res == nil:
		panic(ErrNilResolver)
	case s.gen == nil:
		panic(ErrNilGenerator)
	}
}
