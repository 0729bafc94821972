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

package shape_test

import (
	"testing"
	"time"

	"dirpx.dev/attrx/config"
	"dirpx.dev/attrx/projection"
	"dirpx.dev/attrx/shape"
)

type Point struct{ X, Y int }
type Status string
type Names []string

func TestOf(t *testing.T) {
	pass := config.DefaultConfig()
	noPass := config.NewConfig(config.WithPassthroughScalars(false))
	n := 3
	var nilMap map[string]int
	var nilSlice []Point

	cases := []struct {
		name   string
		v      any
		pass   shape.Shape
		noPass shape.Shape
	}{
		{"nil", nil, shape.Nil, shape.Nil},
		{"nil ptr", (*Point)(nil), shape.Nil, shape.Nil},
		{"nil map", nilMap, shape.Nil, shape.Nil},
		{"nil slice", nilSlice, shape.Nil, shape.Nil},
		{"nil projection", (*projection.Projection)(nil), shape.Nil, shape.Nil},
		{"string", "s", shape.Scalar, shape.Scalar},
		{"named string", Status("ok"), shape.Scalar, shape.Scalar},
		{"int", 1, shape.Scalar, shape.Object},
		{"ptr int", &n, shape.Scalar, shape.Object},
		{"bytes", []byte("x"), shape.Scalar, shape.Sequence},
		{"time", time.Time{}, shape.Scalar, shape.Object},
		{"struct", Point{}, shape.Object, shape.Object},
		{"ptr struct", &Point{}, shape.Object, shape.Object},
		{"map", map[string]int{}, shape.Mapping, shape.Mapping},
		{"projection", projection.New(0), shape.Mapping, shape.Mapping},
		{"slice", []Point{}, shape.Sequence, shape.Sequence},
		{"named slice", Names{}, shape.Sequence, shape.Sequence},
		{"array", [2]int{}, shape.Sequence, shape.Sequence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shape.Of(tc.v, pass); got != tc.pass {
				t.Fatalf("Of(%#v) with passthrough = %v, want %v", tc.v, got, tc.pass)
			}
			if got := shape.Of(tc.v, noPass); got != tc.noPass {
				t.Fatalf("Of(%#v) without passthrough = %v, want %v", tc.v, got, tc.noPass)
			}
		})
	}
}

func TestStringAndParse(t *testing.T) {
	for _, s := range []shape.Shape{shape.Nil, shape.Scalar, shape.Mapping, shape.Sequence, shape.Object} {
		got, err := shape.Parse(s.String())
		if err != nil || got != s {
			t.Fatalf("Parse(%q) = %v, %v", s.String(), got, err)
		}
		b, _ := s.MarshalText()
		var back shape.Shape
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Fatalf("UnmarshalText(%q) = %v, %v", b, back, err)
		}
	}
	if got := shape.Shape(99).String(); got != "Unknown(99)" {
		t.Fatalf("String(99) = %q", got)
	}
	if _, err := shape.Parse("nope"); err == nil {
		t.Fatal("Parse(nope): expected error")
	}
}
