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

package expand

import (
	"testing"

	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadMacroArgsAllocatesSeparateVariadicSlot exercises readMacroArgs
// directly for a variadic macro with a named leading parameter (the
// LOG(fmt, ...) shape). argv must have nParams+1 slots so the trailing
// variadic tokens land in their own slot instead of corrupting fmt's.
func TestReadMacroArgsAllocatesSeparateVariadicSlot(t *testing.T) {
	e, tab := newExpander(t, `("x",1,2)`)
	def := &macro.Def{
		Name:       tab.Add("LOG"),
		IsFunction: true,
		IsVariadic: true,
		Params:     []intern.ID{tab.Add("fmt")},
	}

	args, err := e.readMacroArgs(def)
	require.NoError(t, err)
	require.Len(t, args.Argv, 2)

	require.NotEmpty(t, args.Argv[0])
	assert.Equal(t, token.String, args.Argv[0][0].Kind)
	assert.Equal(t, `"x"`, spell(tab, args.Argv[0][0]))

	var vaKinds []token.Kind
	for _, tok := range args.Argv[1] {
		if tok.Kind == token.EndOfArg {
			continue
		}
		vaKinds = append(vaKinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{token.Number, token.Punct, token.Number}, vaKinds)
}

// TestReadMacroArgsZeroNamedParamsStillGetsOneSlot covers the pre-existing
// nParams==0 variadic shape (#define L(...) ...), which must keep working
// the same way after the slot-count fix.
func TestReadMacroArgsZeroNamedParamsStillGetsOneSlot(t *testing.T) {
	e, tab := newExpander(t, `(1,2,3)`)
	def := &macro.Def{
		Name:       tab.Add("L"),
		IsFunction: true,
		IsVariadic: true,
	}

	args, err := e.readMacroArgs(def)
	require.NoError(t, err)
	require.Len(t, args.Argv, 1)

	var kinds []token.Kind
	for _, tok := range args.Argv[0] {
		if tok.Kind == token.EndOfArg {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{token.Number, token.Punct, token.Number, token.Punct, token.Number}, kinds)
}
