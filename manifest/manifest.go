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


// Package manifest loads attribute registrations and type declarations
// from YAML documents and applies them to a Registry and Hierarchy.
//
// Types are referred to by catalog name (see naming.Catalog) and overrides
// by name in a Funcs table, since neither can be expressed in YAML:
//
//	registrations:
//	  - type: blog.Article
//	    context: summary
//	    attributes: [id, title]
//	    overrides: {title: upper-title}
//	hierarchy:
//	  - type: blog.PhotoArticle
//	    parents: [blog.Article]
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/naming"
)

var (
	// ErrUnknownType is returned when a manifest names a type the catalog does not know.
	ErrUnknownType = errors.New("attrx(manifest): unknown type")
	// ErrUnknownFunc is returned when an override names a function missing from Funcs.
	ErrUnknownFunc = errors.New("attrx(manifest): unknown override function")
	// ErrInvalid is returned by Validate for structurally invalid manifests.
	ErrInvalid = errors.New("attrx(manifest): invalid manifest")
)

// Manifest is a declarative set of registrations and declarations.
type Manifest struct {
	Registrations []Registration `yaml:"registrations"`
	Hierarchy     []Declaration  `yaml:"hierarchy"`
}

// Registration mirrors a single Registry.Register call.
type Registration struct {
	Type       string            `yaml:"type"`
	Context    string            `yaml:"context,omitempty"`
	Attributes []string          `yaml:"attributes"`
	Overrides  map[string]string `yaml:"overrides,omitempty"`
}

// Declaration mirrors a single Hierarchy.Declare call.
type Declaration struct {
	Type    string   `yaml:"type"`
	Parents []string `yaml:"parents"`
}

// Funcs maps override names used in manifests to their implementations.
type Funcs map[string]apis.Override

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("attrx(manifest): decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads and parses the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("attrx(manifest): read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest for missing names. It does not resolve them.
func (m *Manifest) Validate() error {
	for i, r := range m.Registrations {
		if r.Type == "" {
			return fmt.Errorf("%w: registrations[%d]: missing type", ErrInvalid, i)
		}
		for attr, fn := range r.Overrides {
			if attr == "" || fn == "" {
				return fmt.Errorf("%w: registrations[%d]: empty override %q: %q", ErrInvalid, i, attr, fn)
			}
		}
	}
	for i, d := range m.Hierarchy {
		if d.Type == "" {
			return fmt.Errorf("%w: hierarchy[%d]: missing type", ErrInvalid, i)
		}
		if len(d.Parents) == 0 {
			return fmt.Errorf("%w: hierarchy[%d]: %s has no parents", ErrInvalid, i, d.Type)
		}
	}
	return nil
}

// Apply declares m's hierarchy in h and then registers its entries in reg,
// in document order. Names are resolved through cat and funcs before
// anything is applied, so an unknown name leaves reg and h untouched.
// h may be nil when the manifest declares no hierarchy.
func Apply(m *Manifest, reg apis.Registry, h apis.Hierarchy, cat *naming.Catalog, funcs Funcs) error {
	if m == nil {
		return nil
	}
	if err := m.Validate(); err != nil {
		return err
	}

	type decl struct {
		t       reflect.Type
		parents []reflect.Type
	}
	type entry struct {
		t   reflect.Type
		r   Registration
		ovr apis.Overrides
	}

	decls := make([]decl, 0, len(m.Hierarchy))
	for i, d := range m.Hierarchy {
		t, err := typeOf(cat, d.Type)
		if err != nil {
			return fmt.Errorf("hierarchy[%d]: %w", i, err)
		}
		ps := make([]reflect.Type, 0, len(d.Parents))
		for _, p := range d.Parents {
			pt, err := typeOf(cat, p)
			if err != nil {
				return fmt.Errorf("hierarchy[%d]: %w", i, err)
			}
			ps = append(ps, pt)
		}
		decls = append(decls, decl{t: t, parents: ps})
	}

	entries := make([]entry, 0, len(m.Registrations))
	for i, r := range m.Registrations {
		t, err := typeOf(cat, r.Type)
		if err != nil {
			return fmt.Errorf("registrations[%d]: %w", i, err)
		}
		var ovr apis.Overrides
		if len(r.Overrides) > 0 {
			ovr = make(apis.Overrides, len(r.Overrides))
			for attr, name := range r.Overrides {
				fn, ok := funcs[name]
				if !ok || fn == nil {
					return fmt.Errorf("registrations[%d]: %w: %q", i, ErrUnknownFunc, name)
				}
				ovr[attr] = fn
			}
		}
		entries = append(entries, entry{t: t, r: r, ovr: ovr})
	}

	if len(decls) > 0 && h == nil {
		return fmt.Errorf("%w: hierarchy declared without a Hierarchy", ErrInvalid)
	}
	for _, d := range decls {
		if err := h.Declare(d.t, d.parents...); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := reg.Register(e.t, e.r.Context, apis.NewAttributeList(e.r.Attributes...), e.ovr); err != nil {
			return err
		}
	}
	return nil
}

func typeOf(cat *naming.Catalog, name string) (reflect.Type, error) {
	if cat != nil {
		if t, ok := cat.TypeOf(name); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}
