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

// Package expand implements translation phase 4 (§5): macro expansion,
// argument capture, stringification, token pasting, and the
// pending-token-list stack that makes rescanning and blue-painting work
// without a hideset. Grounded on pp_phase4.c, generalized in two places
// where the grounding source is either incomplete or incorrect:
//
//   - paste_tokens there is a literal TODO stub; here it's a real
//     re-lex-and-validate concatenation (§5.4).
//   - the grounding's expand_macro only disables and blue-paints
//     function-like macros; its object-like branch substitutes the raw
//     body with no enable-marker at all, which would make a
//     self-referential object macro (`#define A A`) recurse forever. This
//     implementation disables and blue-paints both macro kinds uniformly.
package expand

import (
	"fmt"

	"github.com/rmassaro/gocpp/internal/arena"
	"github.com/rmassaro/gocpp/internal/cpp/directive"
	"github.com/rmassaro/gocpp/internal/cpp/lexer"
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/source"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

// ErrorKind classifies an expansion-time failure.
type ErrorKind int

const (
	ErrExpectedLParen ErrorKind = iota
	ErrTooManyArgs
	ErrTooFewArgs
	ErrWrongArgCount
	ErrUnterminatedMacroArgs
	ErrDirectiveInArgs
	ErrHashNotFollowedByParam
	ErrPasteAtEnd
	ErrInvalidPaste
	ErrEofInMacroArgs
	ErrUnknownEnableMacro
	ErrIncludeNotFound
)

// Error reports an expansion failure, optionally located.
type Error struct {
	Kind   ErrorKind
	Loc    source.Location
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Detail)
}

// Resolver turns an #include operand into file contents. The expander
// calls it with the raw name (delimiters stripped) and whether it was
// angle-bracketed, plus the name of the including file for "next to the
// includer" resolution; it owns all filesystem/search-path policy
// (internal/includepath).
type Resolver interface {
	Resolve(name string, angled bool, fromFile string) (resolvedName string, data []byte, err error)
}

// Expander drives phase 4 over a stack of source files, expanding macros
// and executing directives as it goes. It implements directive.Source
// directly, so directive.Process can read raw (unexpanded) tokens from
// whichever file is current.
type Expander struct {
	tab      *intern.Table
	macros   *macro.Table
	resolver Resolver
	arena    *arena.Arena

	stack      source.Stack
	fileNames  map[uint32]string
	nextFileID uint32

	pending *token.List

	atNewline             bool
	lastWasSpace          bool
	macroArgsReadingLevel int
	macroExpansionLevel   int

	dateStr string
	timeStr string
}

// New returns an Expander with no input pushed yet. dateStr/timeStr are
// the fixed values __DATE__/__TIME__ expand to for the whole run (the
// reference implementation computes these once at startup, not per
// expansion, since phase 4 has no notion of wall-clock time passing).
func New(tab *intern.Table, macros *macro.Table, resolver Resolver, dateStr, timeStr string) *Expander {
	return &Expander{
		tab:       tab,
		macros:    macros,
		resolver:  resolver,
		arena:     arena.New(),
		fileNames: make(map[uint32]string),
		atNewline: true,
		dateStr:   dateStr,
		timeStr:   timeStr,
	}
}

func (e *Expander) allocFileID(name string) uint32 {
	id := e.nextFileID
	e.nextFileID++
	e.fileNames[id] = name
	return id
}

// PushMainFile makes data the top-level translation unit. Must be called
// exactly once, before the first Next/ReadProcessed call.
func (e *Expander) PushMainFile(name string, data []byte) {
	id := e.allocFileID(name)
	e.stack.Push(source.NewFile(id, name, data))
}

// Reset discards all pushed input and pending expansion state and makes
// data the new top-level translation unit, so one Expander (and its macro
// table/interner) can be driven across a sequence of files the way a single
// sp_preprocessor instance services multiple sp_compile_program calls in
// the reference implementation.
func (e *Expander) Reset(name string, data []byte) {
	e.stack = source.Stack{}
	e.pending = nil
	e.atNewline = true
	e.lastWasSpace = false
	e.macroArgsReadingLevel = 0
	e.macroExpansionLevel = 0
	e.arena.Reset()
	e.PushMainFile(name, data)
}

func (e *Expander) pushInclude(name string, angled bool) error {
	from := ""
	if top := e.stack.Top(); top != nil {
		from = top.Name
	}
	resolved, data, err := e.resolver.Resolve(name, angled, from)
	if err != nil {
		return &Error{Kind: ErrIncludeNotFound, Detail: err.Error()}
	}
	id := e.allocFileID(resolved)
	e.stack.Push(source.NewFile(id, resolved, data))
	return nil
}

// Next implements directive.Source: a raw phase-3 token from the current
// top-of-stack file, bypassing macro expansion and the pending-list stack
// entirely. Directive lines are always read this way (§3).
func (e *Expander) Next(parseHeader bool) (token.Token, error) {
	lx := lexer.New(e.stack.Top(), e.tab)
	tok, err := lx.Next(parseHeader)
	if err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

// NextCharIsLParen implements directive.Source.
func (e *Expander) NextCharIsLParen() bool {
	return lexer.New(e.stack.Top(), e.tab).NextCharIsLParen()
}

func (e *Expander) pushPendingList(toks []token.Token) {
	e.pending = token.Push(e.pending, toks)
}

func (e *Expander) popPending() (token.Token, bool) {
	for e.pending != nil {
		if tok, ok := e.pending.Advance(); ok {
			return tok, true
		}
		e.pending = e.pending.Next
	}
	return token.Token{}, false
}

// peekNonblank looks at the next token that isn't Space/Newline/
// EnableMacro, across both the pending-list stack and the raw file
// stream, without consuming anything. Used to decide whether an
// identifier is followed by `(` (function-like call) or `##` (paste takes
// priority over expansion).
func (e *Expander) peekNonblank() (token.Token, bool) {
	for l := e.pending; l != nil; l = l.Next {
		for i := 0; ; i++ {
			tok, ok := l.PeekAt(i)
			if !ok {
				break
			}
			if tok.Kind != token.Space && tok.Kind != token.Newline && tok.Kind != token.EnableMacro {
				return tok, true
			}
		}
	}
	top := e.stack.Top()
	if top == nil {
		return token.Token{}, false
	}
	start := top.Offset()
	lx := lexer.New(top, e.tab)
	for {
		tok, err := lx.Next(false)
		if err != nil {
			top.RewindTo(start)
			return token.Token{}, false
		}
		if tok.Kind != token.Space && tok.Kind != token.Newline {
			top.RewindTo(start)
			return tok, true
		}
		if tok.Kind == token.Eof {
			top.RewindTo(start)
			return tok, true
		}
	}
}

// ReadProcessed returns the next fully phase-4-processed token:
// directives executed, macros expanded when expandMacros is true. This is
// the method the root facade's Next() calls once per output token (§5).
func (e *Expander) ReadProcessed(expandMacros bool) (token.Token, error) {
	for {
		tok, fromPending := e.popPending()
		if !fromPending {
			var err error
			tok, err = e.Next(false)
			if err != nil {
				return token.Token{}, err
			}
		}

		switch {
		case tok.Kind == token.EnableMacro:
			if def, ok := e.macros.Lookup(tok.MacroName); ok {
				def.Enabled = true
			}
			continue

		case tok.Kind == token.Newline:
			if e.macroArgsReadingLevel > 0 {
				if e.lastWasSpace {
					continue
				}
				tok.Kind = token.Space
				e.lastWasSpace = true
				return tok, nil
			}
			e.atNewline = true
			return tok, nil

		case tok.Kind == token.Space:
			if e.lastWasSpace {
				continue
			}
			e.lastWasSpace = true
			return tok, nil

		case tok.Kind == token.Eof:
			if !fromPending {
				if e.macroArgsReadingLevel > 0 {
					return token.Token{}, &Error{Kind: ErrUnterminatedMacroArgs, Loc: tok.Loc, Detail: "unterminated macro argument list"}
				}
				if e.stack.Depth() > 1 {
					e.stack.Pop()
					e.atNewline = true
					e.lastWasSpace = false
					continue
				}
			}
			return tok, nil

		case tok.Kind == token.Punct && tok.PunctID == punct.Hash:
			if !e.atNewline {
				return tok, nil
			}
			if e.macroArgsReadingLevel > 0 {
				return token.Token{}, &Error{Kind: ErrDirectiveInArgs, Loc: tok.Loc, Detail: "preprocessing directive in macro arguments"}
			}
			result, err := directive.Process(e, e.tab, e.macros)
			if err != nil {
				return token.Token{}, err
			}
			if result.Kind == directive.KindInclude {
				if err := e.pushInclude(result.IncludeName, result.IncludeIsAngled); err != nil {
					return token.Token{}, err
				}
			}
			e.atNewline = true
			e.lastWasSpace = false
			continue
		}

		if expandMacros && tok.Kind == token.Identifier && !tok.MacroDead {
			if expanded, handled, err := e.tryExpandIdentifier(tok); err != nil {
				return token.Token{}, err
			} else if handled {
				if expanded {
					continue
				}
				// Macro lookup found a disabled macro: blue-paint tok and
				// fall through to return it as ordinary text.
				tok.MacroDead = true
			}
		}

		e.lastWasSpace = false
		e.atNewline = false
		return tok, nil
	}
}

// tryExpandIdentifier decides whether tok (already known to be a live
// Identifier) names a macro call, and if so performs the expansion and
// pushes its result onto the pending stack. handled is true when tok was
// expanded or names a disabled macro (which the caller blue-paints); it is
// false when tok is not a macro name, is followed by `##`, or is a
// function-like name with no following '('. expanded reports whether a
// pending list was actually pushed.
func (e *Expander) tryExpandIdentifier(tok token.Token) (expanded bool, handled bool, err error) {
	next, hasNext := e.peekNonblank()
	if hasNext && next.Kind == token.Punct && next.PunctID == punct.HashHash {
		// `##` takes priority: this identifier is a paste operand, not a
		// macro invocation, at this rescan point (§5.4).
		return false, false, nil
	}

	def, ok := e.macros.Lookup(tok.Text)
	if !ok {
		return false, false, nil
	}
	if !def.Enabled {
		tok.MacroDead = true
		return false, true, nil
	}
	if def.IsFunction && !(hasNext && next.Kind == token.Punct && next.PunctID == punct.LParen) {
		return false, false, nil
	}

	e.macroExpansionLevel++
	defer func() {
		e.macroExpansionLevel--
		if e.macroExpansionLevel == 0 {
			e.arena.Reset()
		}
	}()

	var expansion []token.Token
	switch {
	case def.Predefined:
		expansion, err = e.expandPredefined(def)
	case def.IsFunction:
		var args *macro.Args
		args, err = e.readMacroArgs(def)
		if err != nil {
			return false, true, err
		}
		expansion, err = e.expandMacro(def, args)
	default:
		expansion, err = e.expandMacro(def, nil)
	}
	if err != nil {
		return false, true, err
	}
	e.pushPendingList(expansion)
	return true, true, nil
}

func (e *Expander) expandPredefined(def *macro.Def) ([]token.Token, error) {
	switch def.PredefinedKind {
	case macro.PredefinedFile:
		name := ""
		if top := e.stack.Top(); top != nil {
			name = top.Name
		}
		return []token.Token{{Kind: token.String, Text: e.tab.Add(quoteString(name))}}, nil
	case macro.PredefinedLine:
		line := uint32(1)
		if top := e.stack.Top(); top != nil {
			line = top.Location(top.Offset()).Line
		}
		return []token.Token{{Kind: token.Number, Text: e.tab.Add(fmt.Sprintf("%d", line))}}, nil
	case macro.PredefinedDate:
		return []token.Token{{Kind: token.String, Text: e.tab.Add(quoteString(e.dateStr))}}, nil
	case macro.PredefinedTime:
		return []token.Token{{Kind: token.String, Text: e.tab.Add(quoteString(e.timeStr))}}, nil
	default:
		return nil, nil
	}
}

func quoteString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '"' {
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	out = append(out, '"')
	return string(out)
}
