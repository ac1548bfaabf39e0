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

package macro

import (
	"bytes"
	"log"
	"testing"

	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashTok() token.Token     { return token.Token{Kind: token.Punct, PunctID: punct.Hash} }
func hashHashTok() token.Token { return token.Token{Kind: token.Punct, PunctID: punct.HashHash} }

func TestValidateDuplicateParam(t *testing.T) {
	tab := intern.New()
	x := tab.Add("x")
	def := &Def{IsFunction: true, Params: []intern.ID{x, x}}
	err := def.Validate(tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate macro parameter")
}

func TestValidateHashHashAtEdges(t *testing.T) {
	tab := intern.New()

	leading := &Def{Body: []token.Token{hashHashTok(), {Kind: token.Identifier, Text: tab.Add("a")}}}
	err := leading.Validate(tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")

	trailing := &Def{Body: []token.Token{{Kind: token.Identifier, Text: tab.Add("a")}, hashHashTok()}}
	err = trailing.Validate(tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end")
}

func TestValidateHashNotFollowedByParam(t *testing.T) {
	tab := intern.New()
	x := tab.Add("x")
	def := &Def{
		IsFunction: true,
		Params:     []intern.ID{x},
		Body:       []token.Token{hashTok(), {Kind: token.Identifier, Text: tab.Add("y")}},
	}
	err := def.Validate(tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not followed by a macro parameter")
}

func TestValidateHashFollowedByParamOK(t *testing.T) {
	tab := intern.New()
	x := tab.Add("x")
	def := &Def{
		IsFunction: true,
		Params:     []intern.ID{x},
		Body:       []token.Token{hashTok(), {Kind: token.Identifier, Text: x}},
	}
	assert.NoError(t, def.Validate(tab))
}

func TestValidateVAArgsOutsideVariadic(t *testing.T) {
	tab := intern.New()
	vaArgs := tab.Add("__VA_ARGS__")
	def := &Def{
		IsFunction: false,
		Body:       []token.Token{{Kind: token.Identifier, Text: vaArgs}},
	}
	err := def.Validate(tab)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "__VA_ARGS__")
}

func TestValidateVAArgsInsideVariadicOK(t *testing.T) {
	tab := intern.New()
	vaArgs := tab.Add("__VA_ARGS__")
	def := &Def{
		IsFunction: true,
		IsVariadic: true,
		Body:       []token.Token{{Kind: token.Identifier, Text: vaArgs}},
	}
	assert.NoError(t, def.Validate(tab))
}

func TestTableDefineReplacesAndEnables(t *testing.T) {
	tab := intern.New()
	name := tab.Add("A")
	table := NewTable()

	def := &Def{Name: name}
	table.Define(def)
	assert.True(t, def.Enabled)

	got, ok := table.Lookup(name)
	require.True(t, ok)
	assert.Same(t, def, got)

	def.Enabled = false
	redef := &Def{Name: name, Body: []token.Token{{Kind: token.Number}}}
	table.Define(redef)
	got, ok = table.Lookup(name)
	require.True(t, ok)
	assert.Same(t, redef, got)
	assert.True(t, redef.Enabled)
}

func TestTableDefineLogsRedefinitionOnlyOnSecondDefine(t *testing.T) {
	tab := intern.New()
	name := tab.Add("A")
	table := NewTable()
	var buf bytes.Buffer
	table.Configure(tab, log.New(&buf, "", 0))

	table.Define(&Def{Name: name})
	assert.Empty(t, buf.String(), "first definition of a name must not be logged as a redefinition")

	table.Define(&Def{Name: name})
	assert.Contains(t, buf.String(), `"A"`)
	assert.Contains(t, buf.String(), "redefined")
}

func TestTableDefineWithoutConfigureDoesNotPanic(t *testing.T) {
	table := NewTable()
	name := intern.ID(1)
	assert.NotPanics(t, func() {
		table.Define(&Def{Name: name})
		table.Define(&Def{Name: name})
	})
}

func TestTableUndefOfUnknownNameIsNotError(t *testing.T) {
	tab := intern.New()
	table := NewTable()
	table.Undef(tab.Add("never defined"))
	assert.False(t, table.IsDefined(tab.Add("never defined")))
}

func TestTableNamesIteratesAllDefined(t *testing.T) {
	tab := intern.New()
	table := NewTable()
	a, b := tab.Add("A"), tab.Add("B")
	table.Define(&Def{Name: a})
	table.Define(&Def{Name: b})

	seen := map[intern.ID]bool{}
	for name := range table.Names() {
		seen[name] = true
	}
	assert.Len(t, seen, 2)
	assert.True(t, seen[a])
	assert.True(t, seen[b])
	assert.Equal(t, 2, table.Count())
}

func TestArgsLen(t *testing.T) {
	args := Args{Argv: [][]token.Token{{{Kind: token.Number}}, {{Kind: token.Identifier}}}}
	assert.Equal(t, 2, args.Len())
}
