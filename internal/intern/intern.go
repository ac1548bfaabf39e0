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

// Package intern provides an append-only string interner. Identifiers,
// string/char-constant lexemes, and file names are all interned so that the
// rest of the preprocessor can compare and store them as small integers
// rather than carrying byte slices around.
package intern

// ID identifies an interned string. The zero ID is reserved and never
// returned by Add.
type ID uint32

// Table is an append-only string interner. It is not safe for concurrent
// use; the preprocessor is single-threaded (see the concurrency model in
// SPEC_FULL.md), so no locking is needed.
type Table struct {
	strings []string
	byText  map[string]ID
}

// New returns an empty Table. ID 0 is reserved, so the first string added
// gets ID 1.
func New() *Table {
	return &Table{
		strings: make([]string, 1, 64), // index 0 reserved
		byText:  make(map[string]ID, 64),
	}
}

// Add interns s, returning its stable ID. Calling Add twice with equal
// strings returns the same ID.
func (t *Table) Add(s string) ID {
	if id, ok := t.byText[s]; ok {
		return id
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, s)
	t.byText[s] = id
	return id
}

// Get returns the string interned under id. It panics if id was never
// returned by Add on this table, since that indicates an internal bug
// rather than a recoverable condition.
func (t *Table) Get(id ID) string {
	if id == 0 || int(id) >= len(t.strings) {
		panic("intern: invalid id")
	}
	return t.strings[id]
}

// Lookup returns the ID for s without interning it.
func (t *Table) Lookup(s string) (ID, bool) {
	id, ok := t.byText[s]
	return id, ok
}
