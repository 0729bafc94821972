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

package view

import (
	"dirpx.dev/attrx/apis"
)

// bound is the View returned by Factory.Bind.
type bound struct {
	f   *Factory
	raw any
	gen apis.Generator
	ctx string
}

var _ apis.View = (*bound)(nil)

// Get returns the value of the named attribute. Names outside the
// factory's table are read by passthrough.
func (v *bound) Get(name string) (any, error) {
	if acc, ok := v.f.table[name]; ok {
		return acc(v)
	}
	return read(v.raw, name, v.f.cfg)
}

func (v *bound) Formatee() any   { return v.raw }
func (v *bound) Delegatee() any  { return v.raw }
func (v *bound) Raw() any        { return v.raw }
func (v *bound) Context() string { return v.ctx }

// Generate projects value under the default context.
func (v *bound) Generate(value any) (any, error) {
	return v.GenerateIn(v.f.cfg.Default(), value)
}

// GenerateIn projects value under context.
func (v *bound) GenerateIn(context string, value any) (any, error) {
	if v.gen == nil {
		return nil, apis.ErrNoGenerator
	}
	return v.gen.Generate(context, value)
}
