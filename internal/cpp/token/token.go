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

// Package token defines the preprocessing-token representation shared by
// every later phase (§3, §5).
package token

import (
	"github.com/rmassaro/gocpp/internal/cpp/source"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

// Kind classifies a preprocessing token (ISO C 6.4).
type Kind int

const (
	Eof Kind = iota
	Space
	Newline
	HeaderName
	String
	CharConst
	Number
	Identifier
	Punct
	Other

	// EndOfArg marks the boundary between one macro argument's tokens and
	// the next while an argument list is being captured. It never reaches
	// the output stream.
	EndOfArg

	// EnableMacro is a synthetic marker pushed into the pending-token
	// stream right after a macro's expansion, naming the macro it
	// re-enables once the scanner passes it. This is how blue-painting is
	// implemented: no hideset is attached to tokens, a marker token is
	// interleaved instead (§5.5).
	EnableMacro

	// Placemarker stands in for an empty macro argument or an empty `##`
	// operand, so pasting and rescanning still have a token to operate on
	// (§5.4).
	Placemarker
)

func (k Kind) String() string {
	switch k {
	case Eof:
		return "Eof"
	case Space:
		return "Space"
	case Newline:
		return "Newline"
	case HeaderName:
		return "HeaderName"
	case String:
		return "String"
	case CharConst:
		return "CharConst"
	case Number:
		return "Number"
	case Identifier:
		return "Identifier"
	case Punct:
		return "Punct"
	case Other:
		return "Other"
	case EndOfArg:
		return "EndOfArg"
	case EnableMacro:
		return "EnableMacro"
	case Placemarker:
		return "Placemarker"
	default:
		return "Kind(?)"
	}
}

// Token is one preprocessing token. Which fields are meaningful depends on
// Kind: Text holds the spelling for HeaderName/String/CharConst/Number/
// Identifier, PunctID holds the punctuator for Punct, OtherByte holds the
// single byte for Other, and MacroName holds the macro being re-enabled for
// EnableMacro.
type Token struct {
	Kind      Kind
	Text      intern.ID
	PunctID   punct.ID
	OtherByte byte
	MacroName intern.ID
	Loc       source.Location

	// MacroDead is set on an Identifier token to mark it as permanently
	// ineligible for expansion (it was produced while the same macro name
	// was already disabled on the pending-expansion stack; §5.5).
	MacroDead bool

	// PasteDead is reserved for paste-time suppression (§3); carried on
	// every token the way the reference implementation's pp_phase123.c
	// initializes it, but nothing in this phase reads it yet.
	PasteDead bool
}

// Is reports whether t is an Identifier spelled name.
func (t Token) Is(tab *intern.Table, name string) bool {
	return t.Kind == Identifier && tab.Get(t.Text) == name
}
