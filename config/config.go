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

package config

import (
	"strings"

	"dirpx.dev/attrx/apis"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMatchMode represents the default for MatchMode.
	DefaultMatchMode = apis.Loose
	// DefaultTagKeys represents the default for TagKeys.
	DefaultTagKeys = "attrx,json,yaml"
	// DefaultPassthroughScalars represents the default for PassthroughScalars.
	DefaultPassthroughScalars = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxUnwrap:          DefaultMaxUnwrap,
		MatchMode:          DefaultMatchMode,
		TagKeys:            DefaultTagKeys,
		PassthroughScalars: DefaultPassthroughScalars,
		DefaultContext:     apis.DefaultContext,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMatchMode sets the MatchMode option.
func WithMatchMode(mode apis.MatchMode) Option {
	return func(c *apis.Config) {
		c.MatchMode = mode
	}
}

// WithTagKeys sets the struct tag keys consulted before Go names.
// Calling it with no keys disables tag matching.
func WithTagKeys(keys ...string) Option {
	return func(c *apis.Config) {
		c.TagKeys = joinKeys(keys)
	}
}

// WithPassthroughScalars sets the PassthroughScalars option.
func WithPassthroughScalars(pass bool) Option {
	return func(c *apis.Config) {
		c.PassthroughScalars = pass
	}
}

// WithDefaultContext sets the name used for unqualified calls.
// An empty name resets to apis.DefaultContext.
func WithDefaultContext(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			name = apis.DefaultContext
		}
		c.DefaultContext = name
	}
}

func joinKeys(keys []string) string {
	kept := make([]string, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	return strings.Join(kept, ",")
}
