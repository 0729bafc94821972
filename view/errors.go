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
	"fmt"
	"reflect"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/naming"
)

// AttributeError reports an attribute that neither an override nor the raw
// object could answer.
type AttributeError struct {
	// Type is the dynamic type of the raw object (nil for a nil object).
	Type reflect.Type
	// Attribute is the requested attribute name.
	Attribute string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attrx(view): %s has no attribute %q", naming.TypeName(e.Type), e.Attribute)
}

// Is makes errors.Is(err, apis.ErrUnknownAttribute) match.
func (e *AttributeError) Is(target error) bool {
	return target == apis.ErrUnknownAttribute
}
