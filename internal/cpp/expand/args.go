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
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/punct"
)

// readMacroArgs captures a function-like macro call's argument list,
// starting right after the macro name has been consumed. Grounded on
// read_macro_args: tokens are read through ReadProcessed(false) (no
// expansion while capturing, matching the standard's "capture first,
// expand each argument separately" rule), split on top-level commas, and
// terminated by the matching ')'.
func (e *Expander) readMacroArgs(def *macro.Def) (*macro.Args, error) {
	e.macroArgsReadingLevel++
	defer func() { e.macroArgsReadingLevel-- }()

	var tok token.Token
	var err error
	for {
		tok, err = e.ReadProcessed(false)
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Space {
			break
		}
	}
	if !(tok.Kind == token.Punct && tok.PunctID == punct.LParen) {
		return nil, &Error{Kind: ErrExpectedLParen, Loc: tok.Loc, Detail: "expected '(' in macro invocation"}
	}

	nParams := len(def.Params)
	slots := nParams
	if def.IsVariadic {
		slots = nParams + 1
	}
	argv := make([][]token.Token, slots)
	length := 0
	parenLevel := 0
	argStart := true

	for {
		for {
			tok, err = e.ReadProcessed(false)
			if err != nil {
				return nil, err
			}
			if !argStart {
				break
			}
			if !(tok.Kind == token.Space || tok.Kind == token.Newline) {
				break
			}
		}
		argStart = false

		if parenLevel == 0 {
			if tok.Kind == token.Punct && tok.PunctID == punct.RParen {
				if length < slots {
					length++
				}
				break
			}
			if tok.Kind == token.Punct && tok.PunctID == punct.Comma {
				length++
				if length < slots {
					argStart = true
					continue
				}
				if !def.IsVariadic {
					return nil, &Error{Kind: ErrTooManyArgs, Loc: tok.Loc, Detail: "too many arguments in macro invocation"}
				}
				// length >= cap and variadic: this comma is part of the
				// trailing variadic argument's own tokens, falls through.
			}
		}
		if tok.Kind == token.Punct && tok.PunctID == punct.LParen {
			parenLevel++
		} else if tok.Kind == token.Punct && tok.PunctID == punct.RParen {
			parenLevel--
		}

		addIndex := length
		if addIndex >= slots {
			if !def.IsVariadic {
				return nil, &Error{Kind: ErrTooManyArgs, Loc: tok.Loc, Detail: "too many arguments in macro invocation"}
			}
			addIndex = slots - 1
		}
		argv[addIndex] = append(argv[addIndex], tok)
	}

	if def.IsVariadic {
		if length < nParams {
			return nil, &Error{Kind: ErrTooFewArgs, Detail: "too few arguments in macro invocation"}
		}
	} else if length != nParams {
		return nil, &Error{Kind: ErrWrongArgCount, Detail: "wrong number of arguments in macro invocation"}
	}

	for i := range argv {
		argv[i] = append(argv[i], token.Token{Kind: token.EndOfArg})
	}
	return &macro.Args{Argv: argv}, nil
}

// expandArgument macro-expands one already-captured (raw) argument, used
// for occurrences of a parameter that are not adjacent to `#`/`##`
// (§5.2). It pushes raw as a pending list terminated by an EndOfArg
// marker and drains ReadProcessed(true) until that marker comes back
// around, so any macro call spanning the argument's own tokens is
// expanded exactly as it would be in the main stream.
func (e *Expander) expandArgument(raw []token.Token) ([]token.Token, error) {
	toks := make([]token.Token, len(raw), len(raw)+1)
	copy(toks, raw)
	toks = append(toks, token.Token{Kind: token.EndOfArg})
	e.pushPendingList(toks)

	var out []token.Token
	for {
		tok, err := e.ReadProcessed(true)
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EndOfArg {
			break
		}
		if tok.Kind == token.Eof {
			return nil, &Error{Kind: ErrEofInMacroArgs, Loc: tok.Loc, Detail: "end of file found while expanding macro argument"}
		}
		out = append(out, tok)
	}
	return out, nil
}
