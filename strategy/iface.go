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

	"go.uber.org/zap"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/naming"
)

// NewInterfaceStrategy creates an apis.Strategy that matches registrations
// keyed by interface types against the types implementing them.
func NewInterfaceStrategy(reg apis.Registry, opts ...Option) apis.Strategy {
	return &interfaceStrategy{reg: reg, opts: newOptions(opts)}
}

// interfaceStrategy plays the role of mixed-in modules in an ancestor list.
// Among matching interface registrations for the context, the earliest
// registered wins.
type interfaceStrategy struct {
	reg  apis.Registry
	opts options
}

// Ensure interfaceStrategy implements apis.Strategy.
var _ apis.Strategy = (*interfaceStrategy)(nil)

// TryResolve returns the earliest interface registration t (or *t) satisfies.
func (s *interfaceStrategy) TryResolve(t reflect.Type, context string) (apis.Entry, bool) {
	if t == nil || s.reg == nil {
		return apis.Entry{}, false
	}
	for _, e := range s.reg.Entries() {
		it := e.Key.Type
		if it.Kind() != reflect.Interface || !implements(t, it) {
			continue
		}
		// Entries are in registration order; confirm this one is the
		// registration for the requested context.
		if ce, ok := s.reg.Lookup(it, context); ok && ce.Seq == e.Seq {
			s.opts.log.Debug("resolved by interface",
				zap.String("type", naming.TypeName(t)),
				zap.String("context", ce.Key.Context),
				zap.String("interface", naming.TypeName(it)))
			return ce, true
		}
	}
	return apis.Entry{}, false
}

func implements(t, it reflect.Type) bool {
	if t.Implements(it) {
		return true
	}
	return t.Kind() != reflect.Ptr && reflect.PointerTo(t).Implements(it)
}
