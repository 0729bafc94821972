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

package strategy

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/naming"
	uref "dirpx.dev/attrx/utils/reflect"
	"dirpx.dev/attrx/view"
)

var projectableType = reflect.TypeOf((*apis.Projectable)(nil)).Elem()

// NewSelfStrategy creates an apis.Strategy that uses apis.Projectable.
func NewSelfStrategy(cfg apis.Config, opts ...Option) apis.Strategy {
	return &selfStrategy{cfg: cfg, opts: newOptions(opts)}
}

// selfStrategy lets a type describe its own attribute lists. The contract is
// type-level, so built entries are memoized per (type, context).
type selfStrategy struct {
	cfg   apis.Config
	opts  options
	cache sync.Map // key: apis.Key, val: apis.Entry
}

// Ensure selfStrategy implements apis.Strategy.
var _ apis.Strategy = (*selfStrategy)(nil)

// TryResolve asks a zero value of t for its attributes under context.
func (s *selfStrategy) TryResolve(t reflect.Type, context string) (apis.Entry, bool) {
	if t == nil {
		return apis.Entry{}, false
	}
	nt, err := uref.Normalize(t, s.cfg)
	if err != nil || nt.Kind() == reflect.Interface {
		return apis.Entry{}, false
	}
	if !reflect.PointerTo(nt).Implements(projectableType) {
		return apis.Entry{}, false
	}

	key := apis.Key{Type: nt, Context: s.cfg.ContextName(context)}
	if v, ok := s.cache.Load(key); ok {
		return v.(apis.Entry), true
	}
	names, ok := reflect.New(nt).Interface().(apis.Projectable).ProjectionAttributes(key.Context)
	if !ok {
		return apis.Entry{}, false
	}
	attrs := apis.NewAttributeList(names...)
	e := apis.Entry{
		Key:        key,
		Attributes: attrs,
		Factory:    view.NewFactory(nt, attrs, nil, s.cfg),
	}
	s.cache.Store(key, e)
	s.opts.log.Debug("resolved by self description",
		zap.String("type", naming.TypeName(nt)),
		zap.String("context", key.Context))
	return e, true
}
