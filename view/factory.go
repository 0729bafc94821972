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

// Package view binds raw objects to read-only attribute views.
//
// A Factory is built once per registration. It holds a closure table that
// maps every attribute name to either an override or a passthrough reader.
// Passthrough readers consult, in order: struct tags (Config.TagKeys),
// exported fields and zero-argument methods whose Go name matches per
// Config.MatchMode, and finally string map keys. Readers are resolved
// against the raw value's dynamic type and memoized per type.
package view

import (
	"reflect"

	"dirpx.dev/attrx/apis"
)

// accessor computes one attribute for a bound view.
type accessor func(v *bound) (any, error)

// Factory binds raw objects to views for one registration.
// It is immutable after construction and safe for concurrent use.
type Factory struct {
	typ   reflect.Type
	attrs apis.AttributeList
	cfg   apis.Config
	table map[string]accessor
}

var _ apis.ViewFactory = (*Factory)(nil)

// NewFactory builds the closure table for t. Overrides win over passthrough
// for the same name; overrides for names outside attrs are reachable
// through View.Get only. Nil overrides are ignored.
func NewFactory(t reflect.Type, attrs apis.AttributeList, overrides apis.Overrides, cfg apis.Config) *Factory {
	f := &Factory{
		typ:   t,
		attrs: attrs,
		cfg:   cfg,
		table: make(map[string]accessor, attrs.Len()+len(overrides)),
	}
	for _, name := range attrs.Names() {
		f.table[name] = passthrough(name)
	}
	for name, fn := range overrides {
		if fn == nil {
			continue
		}
		f.table[name] = override(fn)
	}
	return f
}

func passthrough(name string) accessor {
	return func(v *bound) (any, error) {
		return read(v.raw, name, v.f.cfg)
	}
}

func override(fn apis.Override) accessor {
	return func(v *bound) (any, error) {
		return fn(v)
	}
}

// Type returns the registered type.
func (f *Factory) Type() reflect.Type { return f.typ }

// Attributes returns the ordered attribute list.
func (f *Factory) Attributes() apis.AttributeList { return f.attrs }

// Bind wraps raw in a View for context.
func (f *Factory) Bind(raw any, gen apis.Generator, context string) apis.View {
	return &bound{f: f, raw: raw, gen: gen, ctx: context}
}
