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

package idmap

import (
	"testing"

	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	m := New[string]()
	tab := intern.New()
	id := tab.Add("x")

	_, ok := m.Get(id)
	assert.False(t, ok)

	m.Put(id, "first")
	v, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, "first", v)

	m.Put(id, "second")
	v, ok = m.Get(id)
	require.True(t, ok)
	assert.Equal(t, "second", v)

	m.Delete(id)
	_, ok = m.Get(id)
	assert.False(t, ok)

	m.Delete(id) // no-op, must not panic
}

func TestLenAndKeys(t *testing.T) {
	m := New[int]()
	tab := intern.New()
	a, b, c := tab.Add("a"), tab.Add("b"), tab.Add("c")
	m.Put(a, 1)
	m.Put(b, 2)
	m.Put(c, 3)

	assert.Equal(t, 3, m.Len())

	seen := map[intern.ID]bool{}
	for k := range m.Keys() {
		seen[k] = true
	}
	assert.Len(t, seen, 3)
	assert.True(t, seen[a])
	assert.True(t, seen[b])
	assert.True(t, seen[c])
}

func TestKeysEarlyStop(t *testing.T) {
	m := New[int]()
	tab := intern.New()
	m.Put(tab.Add("a"), 1)
	m.Put(tab.Add("b"), 2)

	count := 0
	for range m.Keys() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
