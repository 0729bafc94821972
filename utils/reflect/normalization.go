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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, []T, map[K]V).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not named")
)

// Normalize unwraps pointers and returns the nearest named type, or an error
// if none is found.
//
// Unwrapping policy:
//   - ptr -> Elem(), at most MaxUnwrap times;
//   - named type (struct, interface, defined scalar...) -> returned as is;
//   - anything else -> ErrReflectTypeNotNamed.
//
// Containers are deliberately not unwrapped: a []Article is a sequence, not
// an Article. If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; t.Kind() == reflect.Ptr && t.Name() == "" && i < maxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// Embedded returns the named types of t's anonymous struct fields, in field
// order. Pointer embeddings are unwrapped. Non-struct types have none.
func Embedded(t reflect.Type) []reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Ptr && ft.Name() == "" {
			ft = ft.Elem()
		}
		if ft.Name() == "" {
			continue
		}
		out = append(out, ft)
	}
	return out
}

// Indirect follows pointers on v until it reaches a non-pointer value.
// ok is false if a nil pointer (or an invalid value) was met on the way.
func Indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}
