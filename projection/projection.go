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

// Package projection provides the ordered key/value result of generation.
//
// A Projection keeps keys in insertion order and serializes in that order
// through encoding/json and gopkg.in/yaml.v3.
package projection

import (
	"bytes"
	"encoding/json"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Projection is an insertion-ordered string-keyed map.
// The zero value is ready to use. It is not safe for concurrent mutation.
type Projection struct {
	keys []string
	vals map[string]any
}

// New returns an empty projection with room for capacity keys.
func New(capacity int) *Projection {
	if capacity < 0 {
		capacity = 0
	}
	return &Projection{
		keys: make([]string, 0, capacity),
		vals: make(map[string]any, capacity),
	}
}

// Set stores v under k. An existing key keeps its position.
func (p *Projection) Set(k string, v any) {
	if p.vals == nil {
		p.vals = map[string]any{}
	}
	if _, ok := p.vals[k]; !ok {
		p.keys = append(p.keys, k)
	}
	p.vals[k] = v
}

// Get returns the value stored under k.
func (p *Projection) Get(k string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (p *Projection) Has(k string) bool {
	_, ok := p.Get(k)
	return ok
}

// Len returns the number of keys.
func (p *Projection) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns a copy of the keys in order.
func (p *Projection) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Values returns the values in key order.
func (p *Projection) Values() []any {
	if p == nil {
		return nil
	}
	out := make([]any, len(p.keys))
	for i, k := range p.keys {
		out[i] = p.vals[k]
	}
	return out
}

// Each calls fn for every pair in order until fn returns false.
func (p *Projection) Each(fn func(k string, v any) bool) {
	if p == nil {
		return
	}
	for _, k := range p.keys {
		if !fn(k, p.vals[k]) {
			return
		}
	}
}

// ToMap returns an unordered copy.
func (p *Projection) ToMap() map[string]any {
	out := make(map[string]any, p.Len())
	p.Each(func(k string, v any) bool {
		out[k] = v
		return true
	})
	return out
}

// Equal reports whether p and o hold the same keys in the same order with
// deeply equal values.
func (p *Projection) Equal(o *Projection) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i, k := range p.Keys() {
		if o.keys[i] != k {
			return false
		}
		a, b := p.vals[k], o.vals[k]
		if pa, ok := a.(*Projection); ok {
			pb, ok := b.(*Projection)
			if !ok || !pa.Equal(pb) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(a, b) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes p as a JSON object with keys in order.
func (p *Projection) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes p as a YAML mapping node with keys in order.
func (p *Projection) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if p == nil {
		return node, nil
	}
	for _, k := range p.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(p.vals[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}
