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

// Package shape classifies values for generator dispatch.
package shape

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/projection"
)

// Shape is the dispatch class of a value.
type Shape uint8

const (
	// Nil is a nil interface, pointer, map, slice, channel or func.
	Nil Shape = iota
	// Scalar values pass through generation unchanged.
	Scalar
	// Mapping is a projection or a Go map.
	Mapping
	// Sequence is a slice or array (other than []byte).
	Sequence
	// Object is anything else; objects are resolved against the registry.
	Object
)

var timeType = reflect.TypeOf(time.Time{})

// String returns the string representation of the Shape.
func (s Shape) String() string {
	switch s {
	case Nil:
		return "nil"
	case Scalar:
		return "scalar"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Parse converts a string (case-insensitive) to a Shape.
func Parse(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nil":
		return Nil, nil
	case "scalar":
		return Scalar, nil
	case "mapping":
		return Mapping, nil
	case "sequence":
		return Sequence, nil
	case "object":
		return Object, nil
	default:
		return 0, fmt.Errorf("invalid shape %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Of classifies v. Strings are always scalars; bool, numeric, []byte and
// time.Time values (and pointers to them) are scalars when
// cfg.PassthroughScalars is set.
func Of(v any, cfg apis.Config) Shape {
	switch x := v.(type) {
	case nil:
		return Nil
	case *projection.Projection:
		if x == nil {
			return Nil
		}
		return Mapping
	case projection.Projection:
		return Mapping
	case string:
		return Scalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return Nil
		}
		if scalarType(rv.Type().Elem(), cfg) {
			return Scalar
		}
		return Object
	case reflect.Map:
		if rv.IsNil() {
			return Nil
		}
		return Mapping
	case reflect.Slice:
		if rv.IsNil() {
			return Nil
		}
		if scalarType(rv.Type(), cfg) {
			return Scalar
		}
		return Sequence
	case reflect.Array:
		return Sequence
	case reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return Nil
		}
		return Object
	}
	if scalarType(rv.Type(), cfg) {
		return Scalar
	}
	return Object
}

// scalarType reports whether values of t pass through as scalars.
func scalarType(t reflect.Type, cfg apis.Config) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.String {
		return true
	}
	if !cfg.PassthroughScalars {
		return false
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	}
	return t == timeType
}
