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

// Builder composes Hierarchy, Registry, Resolver and Generator from a Config.
// Implementations may migrate state from previous instances (prev), or ignore them.
type Builder interface {
	// BuildHierarchy constructs a Hierarchy for Config. May migrate declarations from prev.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildHierarchy(cfg Config, prev Hierarchy, ext any) Hierarchy
	// BuildRegistry constructs a Registry for Config. May migrate entries from prev.
	BuildRegistry(cfg Config, prev Registry, ext any) Registry
	// BuildResolver constructs a Resolver over reg and h. May reuse state from prev.
	BuildResolver(cfg Config, reg Registry, h Hierarchy, prev Resolver, ext any) Resolver
	// BuildGenerator constructs a Generator over res.
	BuildGenerator(cfg Config, res Resolver, ext any) Generator
}
