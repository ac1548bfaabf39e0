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

package punct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownPunctuators(t *testing.T) {
	testCases := []struct {
		text string
		want ID
	}{
		{"(", LParen},
		{"->", Arrow},
		{"...", Ellipsis},
		{"<<=", LtLtEq},
		{"##", HashHash},
		{"::", Scope},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			id, ok := Lookup(tc.text)
			require.True(t, ok)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestLookupUnknownText(t *testing.T) {
	_, ok := Lookup("@")
	assert.False(t, ok)
	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestDigraphsMapToPrimarySpellingID(t *testing.T) {
	id, ok := Lookup("<:")
	require.True(t, ok)
	assert.Equal(t, LBracket, id)
	assert.Equal(t, "[", Name(id))
}

func TestNameRoundTripsPrimarySpelling(t *testing.T) {
	testCases := []string{"(", ")", "+", "++", "<<=", "##", "::"}
	for _, text := range testCases {
		id, ok := Lookup(text)
		require.True(t, ok)
		assert.Equal(t, text, Name(id))
	}
}
