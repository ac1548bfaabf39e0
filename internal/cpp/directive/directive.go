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

// Package directive recognizes and executes preprocessing directives:
// `#define`, `#undef`, and `#include` are executed here; the remaining
// reserved directives (`if`, `ifdef`, `ifndef`, `elif`, `else`, `endif`,
// `line`, `error`, `pragma`) and the supplemented `include_next` are
// recognized but rejected with DirectiveNotImplemented, matching
// process_pp_directive's dispatch table in the grounding source.
package directive

import (
	"fmt"

	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/source"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

const (
	lparenID   = punct.LParen
	rparenID   = punct.RParen
	ellipsisID = punct.Ellipsis
	commaID    = punct.Comma
)

// Source is the raw, unexpanded token stream a directive line is read
// from. Directive names, macro names, and #undef targets are never
// macro-expanded; #include's filename argument isn't either (matching the
// "TODO: allow macro expansion" left unresolved in the grounding source --
// carried forward here as a deliberate non-goal, not an oversight).
type Source interface {
	Next(parseHeader bool) (token.Token, error)
	NextCharIsLParen() bool
}

// ErrorKind classifies a directive-processing failure.
type ErrorKind int

const (
	ErrMacroNameRequired ErrorKind = iota
	ErrInvalidMacroName
	ErrBadIncludeFilename
	ErrUnexpectedAfterInclude
	ErrUnterminatedParamList
	ErrInvalidParam
	ErrExpectedCommaOrRParen
	ErrExpectedRParenAfterEllipsis
	ErrInvalidDirective
	ErrDirectiveNotImplemented
)

// Error reports a directive-processing failure at a source location.
type Error struct {
	Kind ErrorKind
	Loc  source.Location
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Detail)
}

// Kind identifies which directive a Result came from.
type Kind int

const (
	KindEmpty Kind = iota // a lone '#' on a line, a no-op
	KindDefine
	KindUndef
	KindInclude
)

// Result is what Process returns for a directive it fully executed itself
// (#define, #undef) or one whose effect the caller must carry out
// (#include, since resolving and pushing the included file is the root
// facade's job, not this package's).
type Result struct {
	Kind Kind

	// IncludeName and IncludeIsAngled are set only for KindInclude:
	// IncludeName is the filename text with its delimiters stripped, and
	// IncludeIsAngled reports whether it was written `<name>` (search the
	// system include path) rather than `"name"` (search the including
	// file's directory first).
	IncludeName     string
	IncludeIsAngled bool
}

var reservedNotImplemented = map[string]bool{
	"if": true, "ifdef": true, "ifndef": true, "elif": true, "else": true,
	"endif": true, "line": true, "error": true, "pragma": true,
	"include_next": true,
}

// Process reads and executes one directive line, starting right after the
// leading '#' has already been consumed. It installs #define/#undef
// directly into macros, and returns a Result describing what happened.
func Process(src Source, tab *intern.Table, macros *macro.Table) (Result, error) {
	tok, err := src.Next(false)
	if err != nil {
		return Result{}, err
	}
	for tok.Kind == token.Space {
		if tok, err = src.Next(false); err != nil {
			return Result{}, err
		}
	}
	if tok.Kind == token.Newline || tok.Kind == token.Eof {
		return Result{Kind: KindEmpty}, nil
	}
	if tok.Kind != token.Identifier {
		return Result{}, &Error{Kind: ErrInvalidDirective, Loc: tok.Loc, Detail: "invalid input after '#'"}
	}

	name := tab.Get(tok.Text)
	switch name {
	case "include":
		return processInclude(src, tab)
	case "define":
		return processDefine(src, tab, macros)
	case "undef":
		return processUndef(src, tab, macros)
	default:
		if reservedNotImplemented[name] {
			return Result{}, &Error{Kind: ErrDirectiveNotImplemented, Loc: tok.Loc,
				Detail: fmt.Sprintf("preprocessor directive is not implemented: '#%s'", name)}
		}
		return Result{}, &Error{Kind: ErrInvalidDirective, Loc: tok.Loc,
			Detail: fmt.Sprintf("invalid preprocessor directive: '#%s'", name)}
	}
}

func skipToNewline(src Source) error {
	for {
		tok, err := src.Next(false)
		if err != nil {
			return err
		}
		if tok.Kind == token.Newline || tok.Kind == token.Eof {
			return nil
		}
	}
}

func processInclude(src Source, tab *intern.Table) (Result, error) {
	tok, err := src.Next(true)
	if err != nil {
		return Result{}, err
	}
	if tok.Kind == token.Space {
		if tok, err = src.Next(true); err != nil {
			return Result{}, err
		}
	}
	if tok.Kind != token.String && tok.Kind != token.HeaderName {
		return Result{}, &Error{Kind: ErrBadIncludeFilename, Loc: tok.Loc, Detail: "bad include file name"}
	}
	raw := tab.Get(tok.Text)
	name := raw
	angled := false
	if len(raw) >= 2 {
		angled = raw[0] == '<'
		name = raw[1 : len(raw)-1]
	}

	next, err := src.Next(false)
	if err != nil {
		return Result{}, err
	}
	if next.Kind != token.Newline && next.Kind != token.Eof {
		return Result{}, &Error{Kind: ErrUnexpectedAfterInclude, Loc: next.Loc,
			Detail: "unexpected input after include file name"}
	}

	return Result{Kind: KindInclude, IncludeName: name, IncludeIsAngled: angled}, nil
}

func processUndef(src Source, tab *intern.Table, macros *macro.Table) (Result, error) {
	tok, err := src.Next(false)
	if err != nil {
		return Result{}, err
	}
	if tok.Kind == token.Space {
		if tok, err = src.Next(false); err != nil {
			return Result{}, err
		}
	}
	if tok.Kind == token.Newline || tok.Kind == token.Eof {
		return Result{}, &Error{Kind: ErrMacroNameRequired, Loc: tok.Loc, Detail: "macro name required"}
	}
	if tok.Kind != token.Identifier {
		return Result{}, &Error{Kind: ErrInvalidMacroName, Loc: tok.Loc, Detail: "macro name must be an identifier"}
	}
	macros.Undef(tok.Text)
	return Result{Kind: KindUndef}, skipToNewline(src)
}

func processDefine(src Source, tab *intern.Table, macros *macro.Table) (Result, error) {
	tok, err := src.Next(false)
	if err != nil {
		return Result{}, err
	}
	for tok.Kind == token.Space {
		if tok, err = src.Next(false); err != nil {
			return Result{}, err
		}
	}
	if tok.Kind == token.Newline || tok.Kind == token.Eof {
		return Result{}, &Error{Kind: ErrMacroNameRequired, Loc: tok.Loc, Detail: "macro name required"}
	}
	if tok.Kind != token.Identifier {
		return Result{}, &Error{Kind: ErrInvalidMacroName, Loc: tok.Loc, Detail: "macro name must be an identifier"}
	}
	nameID := tok.Text
	isFunction := src.NextCharIsLParen()

	def := &macro.Def{Name: nameID, IsFunction: isFunction}
	if isFunction {
		params, variadic, err := readMacroParams(src)
		if err != nil {
			return Result{}, err
		}
		def.Params = params
		def.IsVariadic = variadic
	}

	body, err := readMacroBody(src)
	if err != nil {
		return Result{}, err
	}
	def.Body = body

	if err := def.Validate(tab); err != nil {
		return Result{}, &Error{Kind: ErrInvalidParam, Loc: tok.Loc, Detail: err.Error()}
	}
	macros.Define(def)
	return Result{Kind: KindDefine}, nil
}

func readMacroParams(src Source) ([]intern.ID, bool, error) {
	tok, err := src.Next(false)
	if err != nil {
		return nil, false, err
	}
	if tok.Kind != token.Punct || tok.PunctID != lparenID {
		return nil, false, &Error{Kind: ErrInvalidDirective, Loc: tok.Loc, Detail: "expected '('"}
	}

	var params []intern.ID
	foundEllipsis := false
	for {
		if tok, err = src.Next(false); err != nil {
			return nil, false, err
		}
		if tok.Kind == token.Space {
			if tok, err = src.Next(false); err != nil {
				return nil, false, err
			}
		}
		if tok.Kind == token.Eof || tok.Kind == token.Newline {
			return nil, false, &Error{Kind: ErrUnterminatedParamList, Loc: tok.Loc, Detail: "unterminated macro parameter list"}
		}
		if tok.Kind == token.Punct && tok.PunctID == rparenID && (foundEllipsis || len(params) == 0) {
			break
		}
		if foundEllipsis {
			return nil, false, &Error{Kind: ErrExpectedRParenAfterEllipsis, Loc: tok.Loc, Detail: "expected ')' after '...'"}
		}
		if tok.Kind != token.Identifier && !(tok.Kind == token.Punct && tok.PunctID == ellipsisID) {
			return nil, false, &Error{Kind: ErrInvalidParam, Loc: tok.Loc, Detail: "invalid macro parameter"}
		}
		if tok.Kind == token.Identifier {
			params = append(params, tok.Text)
		} else {
			foundEllipsis = true
		}

		if tok, err = src.Next(false); err != nil {
			return nil, false, err
		}
		if tok.Kind == token.Space {
			if tok, err = src.Next(false); err != nil {
				return nil, false, err
			}
		}
		if tok.Kind == token.Eof || tok.Kind == token.Newline {
			return nil, false, &Error{Kind: ErrUnterminatedParamList, Loc: tok.Loc, Detail: "unterminated macro parameter list"}
		}
		if tok.Kind == token.Punct && tok.PunctID == ellipsisID {
			foundEllipsis = true
			continue
		}
		if tok.Kind == token.Punct && tok.PunctID == rparenID {
			break
		}
		if tok.Kind == token.Punct && tok.PunctID == commaID {
			continue
		}
		return nil, false, &Error{Kind: ErrExpectedCommaOrRParen, Loc: tok.Loc, Detail: "expected ',' or ')'"}
	}

	return params, foundEllipsis, nil
}

func readMacroBody(src Source) ([]token.Token, error) {
	tok, err := src.Next(false)
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Space {
		if tok, err = src.Next(false); err != nil {
			return nil, err
		}
	}

	var body []token.Token
	for {
		if tok.Kind == token.Newline || tok.Kind == token.Eof {
			break
		}
		if tok.Kind == token.Space {
			space := tok
			if tok, err = src.Next(false); err != nil {
				return nil, err
			}
			if tok.Kind == token.Newline || tok.Kind == token.Eof {
				break
			}
			body = append(body, space)
		}
		body = append(body, tok)
		if tok, err = src.Next(false); err != nil {
			return nil, err
		}
	}
	return body, nil
}
