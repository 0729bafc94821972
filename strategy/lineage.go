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

// NewLineageStrategy creates an apis.Strategy that walks the ancestor chain
// of a type and returns the registration of the most specific ancestor.
func NewLineageStrategy(reg apis.Registry, h apis.Hierarchy, opts ...Option) apis.Strategy {
	return &lineageStrategy{reg: reg, h: h, opts: newOptions(opts)}
}

// lineageStrategy consults a Registry along Hierarchy.Chain. Chain order is
// most specific first, so the first hit has the smallest ancestor index and
// an exact registration always wins.
type lineageStrategy struct {
	reg  apis.Registry
	h    apis.Hierarchy
	opts options
}

// Ensure lineageStrategy implements apis.Strategy.
var _ apis.Strategy = (*lineageStrategy)(nil)

// TryResolve returns the entry of the nearest registered ancestor of t.
func (s *lineageStrategy) TryResolve(t reflect.Type, context string) (apis.Entry, bool) {
	if t == nil || s.reg == nil || s.h == nil {
		return apis.Entry{}, false
	}
	for i, a := range s.h.Chain(t) {
		if e, ok := s.reg.Lookup(a, context); ok {
			s.opts.log.Debug("resolved by lineage",
				zap.String("type", naming.TypeName(t)),
				zap.String("context", e.Key.Context),
				zap.String("matched", naming.TypeName(a)),
				zap.Int("index", i))
			return e, true
		}
	}
	return apis.Entry{}, false
}
