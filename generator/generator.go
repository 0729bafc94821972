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

// Package generator turns values into ordered projections.
//
// Dispatch is by shape:
//   - mappings are generated value by value when every value resolves;
//     otherwise they pass through unchanged under the default context and
//     fail under any other context;
//   - sequences become a []any of single-value results, in order;
//   - nils pass through, and so do scalars unless their user-defined
//     type has a registration;
//   - objects are resolved, bound to a view and read attribute by attribute.
//
// Nested values are never generated implicitly; overrides call
// View.Generate or View.GenerateIn for that.
package generator

import (
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/naming"
	"dirpx.dev/attrx/projection"
	"dirpx.dev/attrx/shape"
	"dirpx.dev/attrx/view"
)

// Option configures a generator.
type Option func(*generator)

// WithLogger sets the logger used for generation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(g *generator) {
		if l != nil {
			g.log = l
		}
	}
}

// New constructs a Generator over res.
func New(res apis.Resolver, cfg apis.Config, opts ...Option) apis.Generator {
	g := &generator{res: res, cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generator struct {
	res apis.Resolver
	cfg apis.Config
	log *zap.Logger
}

var _ apis.Generator = (*generator)(nil)

// pair is one key/value of a mapping, in iteration order.
type pair struct {
	key   string
	value any
}

// Generate projects value under context. An empty context means the
// configured default.
func (g *generator) Generate(context string, value any) (any, error) {
	ctx := g.cfg.ContextName(context)
	switch g.shapeOf(ctx, value) {
	case shape.Nil, shape.Scalar:
		return value, nil
	case shape.Mapping:
		return g.mapping(ctx, value)
	case shape.Sequence:
		return g.sequence(ctx, value)
	default:
		return g.object(ctx, value)
	}
}

func (g *generator) mapping(ctx string, value any) (any, error) {
	pairs := pairsOf(value)
	for _, p := range pairs {
		if g.resolvable(ctx, p.value) {
			continue
		}
		if ctx == g.cfg.Default() {
			g.log.Debug("mapping passed through",
				zap.String("context", ctx),
				zap.String("key", p.key))
			return value, nil
		}
		return nil, &UnregisteredError{Type: reflect.TypeOf(p.value), Context: ctx}
	}

	out := projection.New(len(pairs))
	for _, p := range pairs {
		if out.Has(p.key) {
			return nil, fmt.Errorf("%w: %q", ErrKeyCollision, p.key)
		}
		v, err := g.single(ctx, p.value)
		if err != nil {
			return nil, err
		}
		out.Set(p.key, v)
	}
	return out, nil
}

// resolvable reports whether v has a registration under ctx. Only objects
// and scalars of user-defined types are looked up.
func (g *generator) resolvable(ctx string, v any) bool {
	switch shape.Of(v, g.cfg) {
	case shape.Object:
	case shape.Scalar:
		if !userDefined(reflect.TypeOf(v)) {
			return false
		}
	default:
		return false
	}
	return g.resolves(ctx, v)
}

func (g *generator) resolves(ctx string, v any) bool {
	if g.res == nil {
		return false
	}
	_, ok := g.res.Resolve(reflect.TypeOf(v), ctx)
	return ok
}

// shapeOf is shape.Of, except that a scalar of a user-defined type with a
// registration under ctx is generated as an object.
func (g *generator) shapeOf(ctx string, v any) shape.Shape {
	s := shape.Of(v, g.cfg)
	if s == shape.Scalar && userDefined(reflect.TypeOf(v)) && g.resolves(ctx, v) {
		return shape.Object
	}
	return s
}

// userDefined reports whether t (or the type it points to) is a named type
// declared in a package, as opposed to a predeclared one like string or int.
func userDefined(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t != nil && t.Name() != "" && t.PkgPath() != ""
}

func (g *generator) sequence(ctx string, value any) (any, error) {
	rv := reflect.ValueOf(value)
	out := make([]any, rv.Len())
	for i := range out {
		v, err := g.single(ctx, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// single generates one element: scalars and nils pass through, anything
// else (nested sequences and mappings included) must resolve.
func (g *generator) single(ctx string, value any) (any, error) {
	switch g.shapeOf(ctx, value) {
	case shape.Nil, shape.Scalar:
		return value, nil
	}
	return g.object(ctx, value)
}

func (g *generator) object(ctx string, value any) (any, error) {
	t := reflect.TypeOf(value)
	var (
		e  apis.Entry
		ok bool
	)
	if g.res != nil {
		e, ok = g.res.Resolve(t, ctx)
	}
	if !ok {
		return nil, &UnregisteredError{Type: t, Context: ctx}
	}

	f := e.Factory
	if f == nil {
		f = view.NewFactory(e.Key.Type, e.Attributes, e.Overrides, g.cfg)
	}
	v := f.Bind(value, g, ctx)

	names := e.Attributes.Names()
	out := projection.New(len(names))
	for _, name := range names {
		val, err := v.Get(name)
		if err != nil {
			return nil, err
		}
		out.Set(name, val)
	}
	g.log.Debug("generated",
		zap.String("type", naming.TypeName(t)),
		zap.String("context", ctx),
		zap.Int("attributes", len(names)))
	return out, nil
}

// pairsOf lists the pairs of a mapping value. Go map keys are rendered
// with fmt.Sprint and ordered by that rendering; keys that render alike
// make generation fail with ErrKeyCollision.
func pairsOf(value any) []pair {
	switch m := value.(type) {
	case *projection.Projection:
		return projectionPairs(m)
	case projection.Projection:
		return projectionPairs(&m)
	}

	rv := reflect.ValueOf(value)
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{key: fmt.Sprint(iter.Key().Interface()), value: iter.Value().Interface()})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	return pairs
}

func projectionPairs(p *projection.Projection) []pair {
	pairs := make([]pair, 0, p.Len())
	p.Each(func(k string, v any) bool {
		pairs = append(pairs, pair{key: k, value: v})
		return true
	})
	return pairs
}
