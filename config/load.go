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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dirpx.dev/attrx/apis"
)

// DefaultEnvPrefix is the variable prefix used by FromEnv when none is given.
const DefaultEnvPrefix = "ATTRX_"

// fileDTO is the on-disk shape of a config file. Pointer fields distinguish
// "absent" from zero values so absent keys keep their defaults.
type fileDTO struct {
	MaxUnwrap          *int            `yaml:"max_unwrap"`
	MatchMode          *apis.MatchMode `yaml:"match_mode"`
	TagKeys            *[]string       `yaml:"tag_keys"`
	PassthroughScalars *bool           `yaml:"passthrough_scalars"`
	DefaultContext     *string         `yaml:"default_context"`
}

// Parse decodes a YAML config document on top of DefaultConfig.
// Unknown keys are rejected.
func Parse(data []byte) (apis.Config, error) {
	var dto fileDTO
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("attrx(config): decode: %w", err)
	}
	return NewConfig(dto.options()...), nil
}

// LoadFile reads and parses a YAML config file.
func LoadFile(path string) (apis.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("attrx(config): read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return apis.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (d fileDTO) options() []Option {
	var opts []Option
	if d.MaxUnwrap != nil {
		opts = append(opts, WithMaxUnwrap(*d.MaxUnwrap))
	}
	if d.MatchMode != nil {
		opts = append(opts, WithMatchMode(*d.MatchMode))
	}
	if d.TagKeys != nil {
		opts = append(opts, WithTagKeys(*d.TagKeys...))
	}
	if d.PassthroughScalars != nil {
		opts = append(opts, WithPassthroughScalars(*d.PassthroughScalars))
	}
	if d.DefaultContext != nil {
		opts = append(opts, WithDefaultContext(*d.DefaultContext))
	}
	return opts
}

// FromEnv builds a config from environment variables named prefix+KEY
// (MAX_UNWRAP, MATCH_MODE, TAG_KEYS, PASSTHROUGH_SCALARS, DEFAULT_CONTEXT).
// Variables found in envFiles (dotenv format) are used when the process
// environment does not set them. The process environment is not modified.
func FromEnv(prefix string, envFiles ...string) (apis.Config, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	fileVars := map[string]string{}
	if len(envFiles) > 0 {
		vars, err := godotenv.Read(envFiles...)
		if err != nil {
			return apis.Config{}, fmt.Errorf("attrx(config): read env files: %w", err)
		}
		fileVars = vars
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(prefix + key); ok {
			return v, true
		}
		v, ok := fileVars[prefix+key]
		return v, ok
	}

	var opts []Option
	if v, ok := lookup("MAX_UNWRAP"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return apis.Config{}, fmt.Errorf("attrx(config): %sMAX_UNWRAP: %w", prefix, err)
		}
		opts = append(opts, WithMaxUnwrap(n))
	}
	if v, ok := lookup("MATCH_MODE"); ok {
		m, err := apis.ParseMatchMode(v)
		if err != nil {
			return apis.Config{}, fmt.Errorf("attrx(config): %sMATCH_MODE: %w", prefix, err)
		}
		opts = append(opts, WithMatchMode(m))
	}
	if v, ok := lookup("TAG_KEYS"); ok {
		opts = append(opts, WithTagKeys(splitKeys(v)...))
	}
	if v, ok := lookup("PASSTHROUGH_SCALARS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return apis.Config{}, fmt.Errorf("attrx(config): %sPASSTHROUGH_SCALARS: %w", prefix, err)
		}
		opts = append(opts, WithPassthroughScalars(b))
	}
	if v, ok := lookup("DEFAULT_CONTEXT"); ok {
		opts = append(opts, WithDefaultContext(strings.TrimSpace(v)))
	}
	return NewConfig(opts...), nil
}

// TagKeyList splits cfg.TagKeys into its non-empty keys.
func TagKeyList(cfg apis.Config) []string {
	return splitKeys(cfg.TagKeys)
}

func splitKeys(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
