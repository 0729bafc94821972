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
	"errors"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/config"
	uref "dirpx.dev/attrx/utils/reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// errMissing is returned by readers that resolved but found no value (map keys).
var errMissing = errors.New("missing")

// reader reads one attribute from an indirected raw value.
type reader func(v reflect.Value) (any, error)

// readerKey ensures memoization respects all config knobs that affect lookup.
type readerKey struct {
	t    reflect.Type
	name string
	mode apis.MatchMode
	tags string
}

// readerCache caches compiled readers; a nil reader records a miss.
var readerCache sync.Map // key: readerKey, val: reader

// read answers name from raw by passthrough.
func read(raw any, name string, cfg apis.Config) (any, error) {
	rv, ok := uref.Indirect(reflect.ValueOf(raw))
	if !ok {
		return nil, &AttributeError{Type: reflect.TypeOf(raw), Attribute: name}
	}
	r := lookupReader(rv.Type(), name, cfg)
	if r == nil {
		return nil, &AttributeError{Type: reflect.TypeOf(raw), Attribute: name}
	}
	out, err := r(rv)
	if err == errMissing {
		return nil, &AttributeError{Type: reflect.TypeOf(raw), Attribute: name}
	}
	return out, err
}

func lookupReader(t reflect.Type, name string, cfg apis.Config) reader {
	key := readerKey{t: t, name: name, mode: cfg.MatchMode, tags: cfg.TagKeys}
	if v, ok := readerCache.Load(key); ok {
		return v.(reader)
	}
	r := compile(t, name, cfg)
	readerCache.Store(key, r)
	return r
}

// compile finds the accessor for name on t. Lookup order: struct tags,
// then Go field and method names per match tier, then map keys.
func compile(t reflect.Type, name string, cfg apis.Config) reader {
	isStruct := t.Kind() == reflect.Struct
	if isStruct {
		if r := tagReader(t, name, config.TagKeyList(cfg)); r != nil {
			return r
		}
	}
	for _, match := range tiers(cfg.MatchMode) {
		if isStruct {
			if r := fieldReader(t, name, match); r != nil {
				return r
			}
		}
		if r := methodReader(t, name, match); r != nil {
			return r
		}
	}
	if t.Kind() == reflect.Map && t.Key().Kind() == reflect.String {
		return mapReader(t.Key(), name)
	}
	return nil
}

type matcher func(goName, attr string) bool

func tiers(mode apis.MatchMode) []matcher {
	switch mode {
	case apis.Strict:
		return []matcher{strictMatch}
	case apis.Fold:
		return []matcher{strictMatch, strings.EqualFold}
	default:
		return []matcher{strictMatch, strings.EqualFold, looseMatch}
	}
}

func strictMatch(goName, attr string) bool { return goName == attr }

// looseMatch compares case-insensitively, ignoring '_' and '-'.
func looseMatch(goName, attr string) bool {
	return strings.EqualFold(squash(goName), squash(attr))
}

func squash(s string) string {
	if !strings.ContainsAny(s, "_-") {
		return s
	}
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

func tagReader(t reflect.Type, name string, keys []string) reader {
	if len(keys) == 0 {
		return nil
	}
	fields := reflect.VisibleFields(t)
	for _, key := range keys {
		for _, f := range fields {
			if !f.IsExported() {
				continue
			}
			tag, ok := f.Tag.Lookup(key)
			if !ok {
				continue
			}
			tn, _, _ := strings.Cut(tag, ",")
			if tn != "" && tn != "-" && tn == name {
				return fieldAt(f.Index)
			}
		}
	}
	return nil
}

func fieldReader(t reflect.Type, name string, match matcher) reader {
	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && match(f.Name, name) {
			return fieldAt(f.Index)
		}
	}
	return nil
}

func fieldAt(index []int) reader {
	return func(v reflect.Value) (any, error) {
		fv, err := v.FieldByIndexErr(index)
		if err != nil {
			// A nil embedded pointer on the path reads as nil.
			return nil, nil
		}
		return fv.Interface(), nil
	}
}

// methodReader matches zero-argument methods returning (T) or (T, error)
// on either the value or the pointer receiver.
func methodReader(t reflect.Type, name string, match matcher) reader {
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !match(m.Name, name) || !callable(m.Type) {
			continue
		}
		_, onValue := t.MethodByName(m.Name)
		return methodCall(m.Name, !onValue)
	}
	return nil
}

// callable reports whether mt (receiver first) takes no arguments and
// returns (T) or (T, error).
func callable(mt reflect.Type) bool {
	if mt.NumIn() != 1 {
		return false
	}
	switch mt.NumOut() {
	case 1:
		return true
	case 2:
		return mt.Out(1) == errorType
	}
	return false
}

func methodCall(name string, needPtr bool) reader {
	return func(v reflect.Value) (any, error) {
		recv := v
		if needPtr {
			if v.CanAddr() {
				recv = v.Addr()
			} else {
				p := reflect.New(v.Type())
				p.Elem().Set(v)
				recv = p
			}
		}
		out := recv.MethodByName(name).Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

func mapReader(keyType reflect.Type, name string) reader {
	key := reflect.ValueOf(name).Convert(keyType)
	return func(v reflect.Value) (any, error) {
		mv := v.MapIndex(key)
		if !mv.IsValid() {
			return nil, errMissing
		}
		return mv.Interface(), nil
	}
}
