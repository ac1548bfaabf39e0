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

// Package macro holds macro definitions and the table of currently-defined
// macros (§3, §5.1).
package macro

import (
	"fmt"
	"log"

	"github.com/rmassaro/gocpp/internal/collections"

	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/idmap"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

const (
	hashID     = punct.Hash
	hashHashID = punct.HashHash
)

// Def is one macro definition, as installed by `#define` or a predefined
// macro registered at startup.
type Def struct {
	Name       intern.ID
	IsFunction bool
	IsVariadic bool

	// Params holds the function-like macro's parameter names in order.
	// Empty for object-like macros.
	Params []intern.ID

	// Body is the replacement list, exactly as written (not yet
	// macro-expanded).
	Body []token.Token

	// Predefined marks a macro that the expander computes dynamically
	// rather than substituting from Body (__FILE__, __LINE__, __DATE__,
	// __TIME__; §5.6). PredefinedKind identifies which one.
	Predefined     bool
	PredefinedKind PredefinedKind

	// Enabled is false while this macro's own expansion is being rescanned,
	// blocking self-reference (blue-painting, §5.5). New and redefined
	// macros start enabled.
	Enabled bool
}

// PredefinedKind names one of the dynamically-computed predefined macros.
type PredefinedKind int

const (
	NotPredefined PredefinedKind = iota
	PredefinedFile
	PredefinedLine
	PredefinedDate
	PredefinedTime
)

// ValidationError reports a malformed macro definition (§3, constraint
// 6.10.3p*).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validate checks the invariants a `#define` body must satisfy before the
// definition is installed:
//   - no duplicate parameter names
//   - `##` is never the first or last token of the replacement list
//   - every `#` is followed, after optional spaces, by a parameter name or
//     `__VA_ARGS__` (function-like macros only)
//   - `__VA_ARGS__` only appears in the body of a variadic macro
func (d *Def) Validate(tab *intern.Table) error {
	if d.IsFunction {
		if dups := collections.FindDuplicates(d.Params); len(dups) > 0 {
			return &ValidationError{Reason: fmt.Sprintf("duplicate macro parameter %q", tab.Get(dups[0]))}
		}
	}

	if n := len(d.Body); n > 0 {
		if d.Body[0].Kind == token.Punct && isHashHash(d.Body[0]) {
			return &ValidationError{Reason: "'##' cannot appear at the start of a macro replacement list"}
		}
		if d.Body[n-1].Kind == token.Punct && isHashHash(d.Body[n-1]) {
			return &ValidationError{Reason: "'##' cannot appear at the end of a macro replacement list"}
		}
	}

	if d.IsFunction {
		for i, tok := range d.Body {
			if tok.Kind != token.Punct || !isHash(tok) {
				continue
			}
			j := i + 1
			for j < len(d.Body) && d.Body[j].Kind == token.Space {
				j++
			}
			if j >= len(d.Body) || !d.isParamOrVAArgs(d.Body[j], tab) {
				return &ValidationError{Reason: "'#' is not followed by a macro parameter"}
			}
		}
	}

	vaArgsID, _ := tab.Lookup("__VA_ARGS__")
	if !d.IsVariadic && vaArgsID != 0 {
		for _, tok := range d.Body {
			if tok.Kind == token.Identifier && tok.Text == vaArgsID {
				return &ValidationError{Reason: "__VA_ARGS__ can only appear in the replacement list of a variadic macro"}
			}
		}
	}

	return nil
}

func (d *Def) isParamOrVAArgs(tok token.Token, tab *intern.Table) bool {
	if tok.Kind != token.Identifier {
		return false
	}
	if d.IsVariadic && tab.Get(tok.Text) == "__VA_ARGS__" {
		return true
	}
	for _, p := range d.Params {
		if p == tok.Text {
			return true
		}
	}
	return false
}

func isHash(tok token.Token) bool      { return tok.PunctID == hashID }
func isHashHash(tok token.Token) bool  { return tok.PunctID == hashHashID }

// Args is a captured function-like macro call's argument list: one token
// slice per parameter position, plus one for `__VA_ARGS__` in a variadic
// macro, already split on top-level commas (§5.2).
type Args struct {
	Argv [][]token.Token
}

// Len returns the number of argument slots, including a variadic slot that
// received no tokens.
func (a Args) Len() int { return len(a.Argv) }

// Table maps macro names to their current definition.
type Table struct {
	defs *idmap.Map[*Def]

	// tab and logger back Define's redefinition log line (§4, §7 of
	// SPEC_FULL.md's supplemented debug logging). Both are nil until
	// Configure is called, which most tests never do -- Define just stays
	// silent in that case.
	tab    *intern.Table
	logger *log.Logger
}

// NewTable returns an empty macro table.
func NewTable() *Table {
	return &Table{defs: idmap.New[*Def]()}
}

// Configure sets the interner and logger Define uses to report a macro
// redefinition by name. Without a call to Configure, Define still replaces
// definitions correctly, it just has no way to log the name.
func (t *Table) Configure(tab *intern.Table, logger *log.Logger) {
	t.tab = tab
	t.logger = logger
}

// Lookup returns the current definition of name, if defined.
func (t *Table) Lookup(name intern.ID) (*Def, bool) {
	return t.defs.Get(name)
}

// Define installs def, replacing any previous definition of the same name.
// Redefinition is never rejected (Open Question (a)): the replacement
// always wins, matching the reference implementation, but is logged at
// debug level via the ambient logger so a silently-shadowed definition is
// still observable.
func (t *Table) Define(def *Def) {
	if _, ok := t.defs.Get(def.Name); ok && t.logger != nil {
		t.logger.Printf("macro %q redefined", t.nameText(def.Name))
	}
	def.Enabled = true
	t.defs.Put(def.Name, def)
}

func (t *Table) nameText(name intern.ID) string {
	if t.tab == nil {
		return fmt.Sprintf("<macro id %d>", name)
	}
	return t.tab.Get(name)
}

// Undef removes name's definition, if any. Undefining a name that was
// never defined is not an error (§3).
func (t *Table) Undef(name intern.ID) {
	t.defs.Delete(name)
}

// IsDefined reports whether name currently has a definition.
func (t *Table) IsDefined(name intern.ID) bool {
	_, ok := t.defs.Get(name)
	return ok
}

// Count returns the number of currently-defined macros.
func (t *Table) Count() int { return t.defs.Len() }

// Names iterates over every currently-defined macro name.
func (t *Table) Names() func(yield func(intern.ID) bool) {
	return t.defs.Keys()
}
