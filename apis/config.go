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

// DefaultContext is the reserved context name used by unqualified calls.
const DefaultContext = "default"

// Config carries read-only knobs that influence registration, attribute
// lookup and generation. It is passed by value and should be treated as
// immutable by implementations.
type Config struct {
	// MaxUnwrap limits pointer unwrapping when normalizing a type to the
	// nearest named type (e.g. **Article -> Article).
	MaxUnwrap int

	// MatchMode controls how attribute names are matched against Go field
	// and method names when no struct tag matches.
	MatchMode MatchMode

	// TagKeys is a comma separated list of struct tag keys consulted before
	// Go names (e.g. "attrx,json,yaml"). Empty disables tag matching.
	TagKeys string

	// PassthroughScalars makes bool, numeric, []byte and time.Time values pass
	// through generation unchanged. Strings always pass through.
	PassthroughScalars bool

	// DefaultContext overrides the name used for unqualified calls.
	// Empty means apis.DefaultContext.
	DefaultContext string
}

// ContextName returns name, or the configured default context when name is empty.
func (c Config) ContextName(name string) string {
	if name != "" {
		return name
	}
	return c.Default()
}

// Default returns the effective default context name.
func (c Config) Default() string {
	if c.DefaultContext != "" {
		return c.DefaultContext
	}
	return DefaultContext
}
