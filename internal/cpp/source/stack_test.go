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

package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePeekAndAdvance(t *testing.T) {
	f := NewFile(1, "a.c", []byte("ab"))
	b, ok := f.PeekByte()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)

	f.Advance()
	b, ok = f.PeekByte()
	require.True(t, ok)
	assert.Equal(t, byte('b'), b)

	f.Advance()
	_, ok = f.PeekByte()
	assert.False(t, ok)
}

func TestFilePeekByteAt(t *testing.T) {
	f := NewFile(1, "a.c", []byte("xyz"))
	b, ok := f.PeekByteAt(2)
	require.True(t, ok)
	assert.Equal(t, byte('z'), b)

	_, ok = f.PeekByteAt(-1)
	assert.False(t, ok)
	_, ok = f.PeekByteAt(3)
	assert.False(t, ok)
}

func TestFileRewindTo(t *testing.T) {
	f := NewFile(1, "a.c", []byte("abc"))
	f.Advance()
	f.Advance()
	assert.Equal(t, 2, f.Offset())
	f.RewindTo(0)
	assert.Equal(t, 0, f.Offset())
}

func TestFileLocationTracksLinesAndColumns(t *testing.T) {
	f := NewFile(1, "a.c", []byte("ab\ncd\nef"))
	loc := f.Location(0)
	assert.Equal(t, uint32(1), loc.Line)
	assert.Equal(t, uint32(1), loc.Col)

	loc = f.Location(3)
	assert.Equal(t, uint32(2), loc.Line)
	assert.Equal(t, uint32(1), loc.Col)

	loc = f.Location(7)
	assert.Equal(t, uint32(3), loc.Line)
	assert.Equal(t, uint32(2), loc.Col)
}

func TestFileLocationCacheHandlesOutOfOrderThenForwardQueries(t *testing.T) {
	f := NewFile(1, "a.c", []byte("ab\ncd\nef"))
	first := f.Location(7)
	second := f.Location(0)
	third := f.Location(7)
	assert.Equal(t, first, third)
	assert.Equal(t, uint32(1), second.Line)
}

func TestStackPushPopTopDepth(t *testing.T) {
	var s Stack
	assert.Nil(t, s.Top())
	assert.Equal(t, 0, s.Depth())

	f1 := NewFile(1, "a.c", []byte("a"))
	f2 := NewFile(2, "b.c", []byte("b"))
	s.Push(f1)
	s.Push(f2)
	assert.Equal(t, 2, s.Depth())
	assert.Same(t, f2, s.Top())

	popped := s.Pop()
	assert.Same(t, f2, popped)
	assert.Equal(t, 1, s.Depth())
	assert.Same(t, f1, s.Top())
}

func TestStackPopPastEmptyPanics(t *testing.T) {
	var s Stack
	assert.Panics(t, func() { s.Pop() })
}
