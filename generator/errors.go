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

package generator

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/naming"
)

// ErrKeyCollision is returned when two keys of a Go map render to the same
// projection key.
var ErrKeyCollision = errors.New("attrx(generator): mapping keys collide")

// UnregisteredError reports a value whose type has no applicable
// registration under Context.
type UnregisteredError struct {
	// Type is the dynamic type of the value.
	Type reflect.Type
	// Context is the requested context name.
	Context string
}

func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("attrx(generator): no attributes registered for %s:%s", naming.TypeName(e.Type), e.Context)
}

// Is makes errors.Is(err, apis.ErrUnregisteredContext) match.
func (e *UnregisteredError) Is(target error) bool {
	return target == apis.ErrUnregisteredContext
}
