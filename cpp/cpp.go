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

// Package cpp is the token-stream facade: it wires the input stack, phase
// 1-3 lexer, macro table, directive processor and phase-4 expander into the
// public surface a driver actually calls (§4.6, §6). Grounded on
// language/internal/cc/parser/token_reader.go's peek/next buffering idiom
// and original_source/src/lib/program.c's sp_compile_program read-until-EOF
// driving loop.
package cpp

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/rmassaro/gocpp/internal/collections"
	"github.com/rmassaro/gocpp/internal/cpp/expand"
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
)

// Preprocessor drains a C source file into a stream of preprocessing
// tokens, expanding macros and executing #define/#undef/#include as it
// goes. It is single-threaded and strictly sequential: Next runs to
// completion or returns an error (§5).
type Preprocessor struct {
	tab      *intern.Table
	macros   *macro.Table
	expander *expand.Expander
	logger   *log.Logger

	done bool // true once Next has surfaced Eof; every later call also returns Eof (invariant 4)

	// pending buffers whitespace tokens that arrived before it's known
	// whether anything real follows them. A run of Space/Newline tokens
	// immediately followed by Eof is dropped rather than surfaced, so a
	// file containing only whitespace and comments yields exactly one Eof
	// (§8's whitespace-idempotence law); a run followed by a real token is
	// flushed in order ahead of it.
	pending []token.Token
}

// New returns a Preprocessor ready to tokenize src, named filename for
// __FILE__/diagnostics. Predefined macros (__FILE__, __LINE__, __DATE__,
// __TIME__) are installed before the first token is read.
func New(src []byte, filename string, opts ...Option) *Preprocessor {
	cfg := &config{
		resolver: noResolver{},
		logger:   log.Default(),
		dateStr:  time.Now().Format("Jan _2 2006"),
		timeStr:  time.Now().Format("15:04:05"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tab := intern.New()
	macros := macro.NewTable()
	macros.Configure(tab, cfg.logger)
	registerPredefined(tab, macros)

	exp := expand.New(tab, macros, cfg.resolver, cfg.dateStr, cfg.timeStr)
	exp.PushMainFile(filename, src)

	return &Preprocessor{tab: tab, macros: macros, expander: exp, logger: cfg.logger}
}

// SetInput discards whatever input is currently pushed and starts fresh
// tokenizing src under filename, reusing the same interner and macro table
// (so macros defined by a prior file remain visible, matching the C
// original's single sp_preprocessor instance driving multiple
// sp_compile_program calls in sequence).
func (p *Preprocessor) SetInput(filename string, src []byte) {
	p.expander.Reset(filename, src)
	p.done = false
	p.pending = nil
}

// Next returns the next fully-processed token: macros expanded, directives
// executed, EndOfArg/EnableMacro/Placemarker filtered out (they never leave
// the expander), Space/Newline runs already collapsed by ReadProcessed, and
// a trailing run of whitespace with nothing real after it swallowed rather
// than surfaced. It reports Eof exactly once as a real transition and Eof
// forever after (invariant 4).
func (p *Preprocessor) Next() (token.Token, error) {
	if p.done {
		return token.Token{Kind: token.Eof}, nil
	}
	if len(p.pending) > 0 {
		tok := p.pending[0]
		p.pending = p.pending[1:]
		return tok, nil
	}
	for {
		tok, err := p.expander.ReadProcessed(true)
		if err != nil {
			return token.Token{}, wrapErr(err)
		}
		switch tok.Kind {
		case token.Space, token.Newline:
			p.pending = append(p.pending, tok)
		case token.Eof:
			p.pending = nil
			p.done = true
			return tok, nil
		default:
			if len(p.pending) == 0 {
				return tok, nil
			}
			p.pending = append(p.pending, tok)
			first := p.pending[0]
			p.pending = p.pending[1:]
			return first, nil
		}
	}
}

// DumpMacros writes the name, parameter list (if function-like), and body
// spelling of every currently-defined macro to w, one per line. Debug-only
// (§6, §7 of SPEC_FULL.md); grounded on sp_dump_macros/sp_dump_macro in the
// reference implementation.
func (p *Preprocessor) DumpMacros(w io.Writer) error {
	for name := range p.macros.Names() {
		def, ok := p.macros.Lookup(name)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, formatDef(p.tab, def)); err != nil {
			return err
		}
	}
	return nil
}

func formatDef(tab *intern.Table, def *macro.Def) string {
	name := tab.Get(def.Name)
	if def.Predefined {
		return fmt.Sprintf("#define %s <predefined>", name)
	}
	if !def.IsFunction {
		return fmt.Sprintf("#define %s %s", name, spellBody(tab, def.Body))
	}
	params := collections.MapSlice(def.Params, tab.Get)
	if def.IsVariadic {
		params = append(params, "...")
	}
	paramList := ""
	for i, p := range params {
		if i > 0 {
			paramList += ", "
		}
		paramList += p
	}
	return fmt.Sprintf("#define %s(%s) %s", name, paramList, spellBody(tab, def.Body))
}

func spellBody(tab *intern.Table, body []token.Token) string {
	s := ""
	for _, t := range body {
		s += spellToken(tab, t)
	}
	return s
}
