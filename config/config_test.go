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


package config_test

import (
	"testing"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.MatchMode != config.DefaultMatchMode {
		t.Fatalf("MatchMode = %v, want %v", got.MatchMode, config.DefaultMatchMode)
	}
	if got.TagKeys != config.DefaultTagKeys {
		t.Fatalf("TagKeys = %q, want %q", got.TagKeys, config.DefaultTagKeys)
	}
	if got.PassthroughScalars != config.DefaultPassthroughScalars {
		t.Fatalf("PassthroughScalars = %v, want %v", got.PassthroughScalars, config.DefaultPassthroughScalars)
	}
	if got.Default() != apis.DefaultContext {
		t.Fatalf("Default() = %q, want %q", got.Default(), apis.DefaultContext)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithMatchMode(t *testing.T) {
	for _, m := range []apis.MatchMode{apis.Strict, apis.Fold, apis.Loose} {
		if c := config.NewConfig(config.WithMatchMode(m)); c.MatchMode != m {
			t.Fatalf("MatchMode = %v, want %v", c.MatchMode, m)
		}
	}
}

func TestWithTagKeys(t *testing.T) {
	c := config.NewConfig(config.WithTagKeys(" json ", "", "db"))
	if c.TagKeys != "json,db" {
		t.Fatalf("TagKeys = %q, want %q", c.TagKeys, "json,db")
	}
	if got := config.TagKeyList(c); len(got) != 2 || got[0] != "json" || got[1] != "db" {
		t.Fatalf("TagKeyList = %v", got)
	}

	off := config.NewConfig(config.WithTagKeys())
	if off.TagKeys != "" || len(config.TagKeyList(off)) != 0 {
		t.Fatalf("WithTagKeys() should disable tags, got %q", off.TagKeys)
	}
}

func TestWithPassthroughScalars(t *testing.T) {
	if c := config.NewConfig(config.WithPassthroughScalars(false)); c.PassthroughScalars {
		t.Fatalf("PassthroughScalars = true, want false")
	}
}

func TestWithDefaultContext(t *testing.T) {
	c := config.NewConfig(config.WithDefaultContext("api"))
	if c.Default() != "api" || c.ContextName("") != "api" || c.ContextName("x") != "x" {
		t.Fatalf("unexpected context names for %+v", c)
	}

	reset := config.NewConfig(config.WithDefaultContext("api"), config.WithDefaultContext(""))
	if reset.DefaultContext != apis.DefaultContext {
		t.Fatalf("DefaultContext = %q, want %q", reset.DefaultContext, apis.DefaultContext)
	}
}

func TestWithMaxUnwrap_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(3))
	if c.MaxUnwrap != 3 {
		t.Fatalf("MaxUnwrap = %d, want 3", c.MaxUnwrap)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithMatchMode(apis.Strict),
		config.WithMatchMode(apis.Fold),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithPassthroughScalars(false),
		config.WithPassthroughScalars(true),
	)

	if c.MatchMode != apis.Fold {
		t.Errorf("MatchMode = %v, want fold (last option wins)", c.MatchMode)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if !c.PassthroughScalars {
		t.Errorf("PassthroughScalars = %v, want true (last option wins)", c.PassthroughScalars)
	}
}

func TestNewConfig_Guardrails_MaxUnwrapZeroAllowed(t *testing.T) {
	// Only negative values are reset.
	c := config.NewConfig(config.WithMaxUnwrap(0))
	if c.MaxUnwrap != 0 {
		t.Fatalf("MaxUnwrap = %d, want 0 (zero is allowed)", c.MaxUnwrap)
	}
}
