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

// Package naming computes stable, human-oriented names for Go types and
// keeps a catalog mapping names back to types.
//
// Names are used in diagnostics, log fields and declarative manifests.
// A type implementing apis.Namer names itself; otherwise the name is
// "pkg.Type" with generic instantiation parameters stripped.
package naming

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/config"
	uref "dirpx.dev/attrx/utils/reflect"
)

var namerType = reflect.TypeOf((*apis.Namer)(nil)).Elem()

// typeNameCache caches computed names by type.
var typeNameCache sync.Map // key: reflect.Type, val: string

// TypeName returns the canonical name of t.
//
// Pointers are unwrapped to the nearest named type. Builtins keep their
// bare name ("int"); unnamed types fall back to reflect's string form.
// A nil type yields "<nil>".
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string)
	}
	name := byType(t)
	typeNameCache.Store(t, name)
	return name
}

func byType(t reflect.Type) string {
	base, err := uref.Normalize(t, apis.Config{MaxUnwrap: config.DefaultMaxUnwrap})
	if err != nil {
		return t.String()
	}
	if n, ok := entityName(base); ok {
		return n
	}
	name := stripTypeParams(base.Name())
	if p := base.PkgPath(); p != "" {
		name = path.Base(p) + "." + name
	}
	return name
}

// entityName calls EntityName on a zero value of t when t (or *t) is an apis.Namer.
func entityName(t reflect.Type) (string, bool) {
	if t.Kind() == reflect.Interface {
		return "", false
	}
	if !reflect.PointerTo(t).Implements(namerType) {
		return "", false
	}
	n := reflect.New(t).Interface().(apis.Namer).EntityName()
	return n, n != ""
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
