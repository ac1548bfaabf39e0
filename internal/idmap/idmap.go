// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package idmap provides a generic map keyed by an interned identifier, used
// by the macro table to go from a name's intern.ID to its definition.
package idmap

import (
	"iter"

	"github.com/rmassaro/gocpp/internal/intern"
)

// Map associates intern.IDs with values of type V.
type Map[V any] struct {
	entries map[intern.ID]V
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{entries: make(map[intern.ID]V)}
}

// Get returns the value stored for id, and whether it was present.
func (m *Map[V]) Get(id intern.ID) (V, bool) {
	v, ok := m.entries[id]
	return v, ok
}

// Put stores v under id, replacing any previous value.
func (m *Map[V]) Put(id intern.ID, v V) {
	m.entries[id] = v
}

// Delete removes id, if present. It is a no-op otherwise.
func (m *Map[V]) Delete(id intern.ID) {
	delete(m.entries, id)
}

// Keys iterates over every key currently stored in the map.
func (m *Map[V]) Keys() iter.Seq[intern.ID] {
	return func(yield func(intern.ID) bool) {
		for k := range m.entries {
			if !yield(k) {
				return
			}
		}
	}
}

// Len returns the number of entries currently stored.
func (m *Map[V]) Len() int {
	return len(m.entries)
}
