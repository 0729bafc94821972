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

// Package builder composes the default Hierarchy, Registry, Resolver and
// Generator implementations.
package builder

import (
	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/generator"
	"dirpx.dev/attrx/hierarchy"
	"dirpx.dev/attrx/registry"
	"dirpx.dev/attrx/resolver"
	"dirpx.dev/attrx/strategy"
)

// Option configures a builder.
type Option func(*builder)

// WithLogger sets the logger handed to every built component.
func WithLogger(l *zap.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder carries the logger shared by the components it builds.
type builder struct {
	log *zap.Logger
}

// BuildHierarchy returns ext when it is an apis.Hierarchy, so one hierarchy
// can be shared across rebuilds. Otherwise it builds a new hierarchy and
// replays the declarations of prev into it.
func (b *builder) BuildHierarchy(cfg apis.Config, prev apis.Hierarchy, ext any) apis.Hierarchy {
	if h, ok := ext.(apis.Hierarchy); ok && h != nil {
		return h
	}
	nh := hierarchy.New(cfg, hierarchy.WithLogger(b.log))
	if prev != nil {
		for _, d := range prev.Declarations() {
			if err := nh.Declare(d.Type, d.Parents...); err != nil {
				b.log.Debug("declaration dropped on rebuild",
					zap.Stringer("type", d.Type), zap.Error(err))
			}
		}
	}
	return nh
}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry in registration order, so view factories are rebuilt for cfg.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg, registry.WithLogger(b.log))
	if preg != nil {
		for _, e := range preg.Entries() {
			if err := nreg.Register(e.Key.Type, e.Key.Context, e.Attributes, e.Overrides); err != nil {
				b.log.Debug("registration dropped on rebuild",
					zap.Stringer("type", e.Key.Type), zap.Error(err))
			}
		}
	}
	return nreg
}

// BuildResolver builds the standard chain: lineage, then interface, then self.
// Resolvers are stateless over reg and h, so prev is not reused.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, h apis.Hierarchy, _ apis.Resolver, _ any) apis.Resolver {
	opt := strategy.WithLogger(b.log)
	return resolver.New(
		strategy.NewLineageStrategy(reg, h, opt),
		strategy.NewInterfaceStrategy(reg, opt),
		strategy.NewSelfStrategy(cfg, opt),
	)
}

// BuildGenerator builds a generator over res.
func (b *builder) BuildGenerator(cfg apis.Config, res apis.Resolver, _ any) apis.Generator {
	return generator.New(res, cfg, generator.WithLogger(b.log))
}
