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

package directive

import (
	"testing"

	"github.com/rmassaro/gocpp/internal/cpp/lexer"
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/source"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSrc returns a Source over body, positioned right after the leading '#'
// has been consumed (the contract Process expects).
func newSrc(tab *intern.Table, body string) Source {
	file := source.NewFile(1, "test.c", []byte(body))
	return lexer.New(file, tab)
}

func TestProcessEmptyDirective(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	res, err := Process(newSrc(tab, "\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, res.Kind)
}

func TestProcessDefineObjectLike(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	res, err := Process(newSrc(tab, "define FOO 42\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindDefine, res.Kind)

	name, _ := tab.Lookup("FOO")
	def, ok := macros.Lookup(name)
	require.True(t, ok)
	assert.False(t, def.IsFunction)
	require.Len(t, def.Body, 1)
	assert.Equal(t, "42", tab.Get(def.Body[0].Text))
}

func TestProcessDefineFunctionLikeVariadic(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	res, err := Process(newSrc(tab, "define F(a,b,...) a b\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindDefine, res.Kind)

	name, _ := tab.Lookup("F")
	def, ok := macros.Lookup(name)
	require.True(t, ok)
	assert.True(t, def.IsFunction)
	assert.True(t, def.IsVariadic)
	require.Len(t, def.Params, 2)
	assert.Equal(t, "a", tab.Get(def.Params[0]))
	assert.Equal(t, "b", tab.Get(def.Params[1]))
}

func TestProcessDefineNoParamsFunctionLike(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	res, err := Process(newSrc(tab, "define G() 1\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindDefine, res.Kind)
	name, _ := tab.Lookup("G")
	def, ok := macros.Lookup(name)
	require.True(t, ok)
	assert.True(t, def.IsFunction)
	assert.Empty(t, def.Params)
}

func TestProcessUndef(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	name := tab.Add("FOO")
	macros.Define(&macro.Def{Name: name})

	res, err := Process(newSrc(tab, "undef FOO\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindUndef, res.Kind)
	assert.False(t, macros.IsDefined(name))
}

func TestProcessUndefMissingNameIsError(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	_, err := Process(newSrc(tab, "undef\n"), tab, macros)
	require.Error(t, err)
	derr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrMacroNameRequired, derr.Kind)
}

func TestProcessIncludeAngled(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	res, err := Process(newSrc(tab, "include <stdio.h>\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindInclude, res.Kind)
	assert.True(t, res.IncludeIsAngled)
	assert.Equal(t, "stdio.h", res.IncludeName)
}

func TestProcessIncludeQuoted(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	res, err := Process(newSrc(tab, `include "local.h"`+"\n"), tab, macros)
	require.NoError(t, err)
	assert.Equal(t, KindInclude, res.Kind)
	assert.False(t, res.IncludeIsAngled)
	assert.Equal(t, "local.h", res.IncludeName)
}

func TestProcessIncludeTrailingGarbageIsError(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	_, err := Process(newSrc(tab, "include <a.h> garbage\n"), tab, macros)
	require.Error(t, err)
	derr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrUnexpectedAfterInclude, derr.Kind)
}

func TestProcessUnknownReservedDirectiveNotImplemented(t *testing.T) {
	testCases := []string{"if", "ifdef", "ifndef", "elif", "else", "endif", "line", "error", "pragma", "include_next"}
	for _, name := range testCases {
		t.Run(name, func(t *testing.T) {
			tab := intern.New()
			macros := macro.NewTable()
			_, err := Process(newSrc(tab, name+"\n"), tab, macros)
			require.Error(t, err)
			derr, ok := err.(*Error)
			require.True(t, ok)
			assert.Equal(t, ErrDirectiveNotImplemented, derr.Kind)
		})
	}
}

func TestProcessCompletelyUnknownDirectiveIsInvalid(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	_, err := Process(newSrc(tab, "bogus\n"), tab, macros)
	require.Error(t, err)
	derr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidDirective, derr.Kind)
}

func TestProcessDefineRejectsInvalidMacroBody(t *testing.T) {
	tab := intern.New()
	macros := macro.NewTable()
	_, err := Process(newSrc(tab, "define A ##\n"), tab, macros)
	require.Error(t, err)
	derr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidParam, derr.Kind)
}
