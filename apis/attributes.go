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

package apis

// AttributeList is an ordered, immutable list of attribute names.
// Order is preserved verbatim into generated projections. Duplicates are
// allowed; the projection keeps the first position and the last value.
type AttributeList struct {
	names []string
}

// NewAttributeList copies names into a new AttributeList.
func NewAttributeList(names ...string) AttributeList {
	if len(names) == 0 {
		return AttributeList{}
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return AttributeList{names: cp}
}

// Names returns a copy of the attribute names in order.
func (l AttributeList) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of attribute names.
func (l AttributeList) Len() int { return len(l.names) }

// At returns the i-th attribute name. It panics if i is out of range.
func (l AttributeList) At(i int) string { return l.names[i] }

// Contains reports whether name appears in the list.
func (l AttributeList) Contains(name string) bool {
	for _, n := range l.names {
		if n == name {
			return true
		}
	}
	return false
}
