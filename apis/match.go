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

import (
	"fmt"
	"strings"
)

// MatchMode controls how an attribute name is matched against the Go names
// (exported fields and zero-argument methods) of a raw object.
//
// # Overview
//
// Attribute lists are usually written in the vocabulary of the output
// format ("id", "photo_url") while Go names follow Go conventions ("ID",
// "PhotoURL"). MatchMode selects how forgiving the passthrough accessor is
// when bridging the two. Struct tags are always consulted first and are
// matched exactly, regardless of MatchMode.
//
// # Values
//
//   - Loose: case-insensitive, ignoring '_' and '-'. "photo_url" matches PhotoURL.
//   - Fold: case-insensitive. "title" matches Title, "photourl" matches PhotoURL.
//   - Strict: exact Go name only. "Title" matches Title.
//
// More permissive modes still prefer stricter matches: under Loose an exact
// name wins over a case-folded one, which wins over a separator-insensitive one.
//
// # Contract
//
//   - MatchMode values are plain integers and safe to share across goroutines.
//   - The textual forms returned by String are stable and accepted by Parse.
type MatchMode int

const (
	// Loose matches case-insensitively and ignores '_' and '-' separators.
	// It is the zero value and the default.
	Loose MatchMode = iota

	// Fold matches case-insensitively.
	Fold

	// Strict matches the exact Go identifier.
	Strict
)

// String returns a stable, human-readable token for the mode.
// Unknown values render as "Unknown(<n>)" and never panic.
func (m MatchMode) String() string {
	switch m {
	case Loose:
		return "loose"
	case Fold:
		return "fold"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMatchMode parses a textual MatchMode, case-insensitively and with
// surrounding whitespace trimmed. On failure it returns Loose and a non-nil error.
func ParseMatchMode(s string) (MatchMode, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Loose, fmt.Errorf("attrx: empty match mode")
	}

	switch strings.ToLower(trimmed) {
	case "loose":
		return Loose, nil
	case "fold":
		return Fold, nil
	case "strict":
		return Strict, nil
	default:
		return Loose, fmt.Errorf("attrx: unknown match mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler. Unknown values are rejected
// rather than persisted in their diagnostic form.
func (m MatchMode) MarshalText() ([]byte, error) {
	switch m {
	case Loose, Fold, Strict:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("attrx: cannot marshal unknown match mode %d", m)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure the receiver
// is left unchanged.
func (m *MatchMode) UnmarshalText(text []byte) error {
	value, err := ParseMatchMode(string(text))
	if err != nil {
		return err
	}
	*m = value
	return nil
}
