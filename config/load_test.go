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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/attrx/apis"
	"dirpx.dev/attrx/config"
)

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
max_unwrap: 3
match_mode: strict
tag_keys: [json]
passthrough_scalars: false
default_context: api
`))
	require.NoError(t, err)
	assert.Equal(t, apis.Config{
		MaxUnwrap:          3,
		MatchMode:          apis.Strict,
		TagKeys:            "json",
		PassthroughScalars: false,
		DefaultContext:     "api",
	}, cfg)
}

func TestParse_AbsentKeysKeepDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("match_mode: fold\n"))
	require.NoError(t, err)

	want := config.DefaultConfig()
	want.MatchMode = apis.Fold
	assert.Equal(t, want, cfg)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":   "max_unwarp: 2\n",
		"bad mode":      "match_mode: sloppy\n",
		"bad int":       "max_unwrap: many\n",
		"bad tag shape": "tag_keys: {a: b}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "attrx(config)")
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attrx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_unwrap: 2\n"), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxUnwrap)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ATTRX_MATCH_MODE", "Fold")
	t.Setenv("ATTRX_TAG_KEYS", "json, yaml")
	t.Setenv("ATTRX_DEFAULT_CONTEXT", "api")

	cfg, err := config.FromEnv("")
	require.NoError(t, err)
	assert.Equal(t, apis.Fold, cfg.MatchMode)
	assert.Equal(t, "json,yaml", cfg.TagKeys)
	assert.Equal(t, "api", cfg.Default())
	assert.Equal(t, config.DefaultMaxUnwrap, cfg.MaxUnwrap)
}

func TestFromEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_MAX_UNWRAP=4\nAPP_PASSTHROUGH_SCALARS=false\nAPP_MATCH_MODE=loose\n"), 0o600))
	t.Setenv("APP_MATCH_MODE", "strict")

	cfg, err := config.FromEnv("APP_", path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxUnwrap)
	assert.False(t, cfg.PassthroughScalars)
	assert.Equal(t, apis.Strict, cfg.MatchMode, "process environment wins over the file")
}

func TestFromEnv_Errors(t *testing.T) {
	t.Run("bad int", func(t *testing.T) {
		t.Setenv("ATTRX_MAX_UNWRAP", "x")
		_, err := config.FromEnv("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ATTRX_MAX_UNWRAP")
	})
	t.Run("bad bool", func(t *testing.T) {
		t.Setenv("ATTRX_PASSTHROUGH_SCALARS", "perhaps")
		_, err := config.FromEnv("")
		require.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := config.FromEnv("", filepath.Join(t.TempDir(), "nope.env"))
		require.Error(t, err)
	})
}
