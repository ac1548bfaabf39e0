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
	"strings"

	"github.com/rmassaro/gocpp/internal/cpp/lexer"
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

// expandMacro produces the token sequence that replaces one macro
// invocation, ending with an EnableMacro marker so the identifier
// becomes eligible for expansion again once the rescan passes that point
// (§5.5). args is nil for object-like macros.
func (e *Expander) expandMacro(def *macro.Def, args *macro.Args) ([]token.Token, error) {
	def.Enabled = false

	var substituted []token.Token
	if def.IsFunction {
		subst, err := e.substituteParams(def, args)
		if err != nil {
			return nil, err
		}
		substituted = subst
	} else {
		substituted = def.Body
	}

	out, err := e.foldPaste(substituted)
	if err != nil {
		return nil, err
	}
	out = append(out, token.Token{Kind: token.EnableMacro, MacroName: def.Name})
	return out, nil
}

// substituteParams replaces each occurrence of a parameter (or
// `#param`/`__VA_ARGS__`) in def's body with the corresponding argument,
// per 6.10.3.1: raw (unexpanded) when the parameter sits next to `##`
// (since paste needs the literal operand spelling), expanded otherwise.
// `#param` is replaced here by a String token holding the stringified raw
// argument; `##` tokens pass through unchanged and are folded afterward
// in foldPaste.
func (e *Expander) substituteParams(def *macro.Def, args *macro.Args) ([]token.Token, error) {
	body := def.Body
	n := len(body)

	paramIndex := func(name intern.ID) (int, bool) {
		for pi, p := range def.Params {
			if p == name {
				return pi, true
			}
		}
		if def.IsVariadic && e.tab.Get(name) == "__VA_ARGS__" {
			return len(def.Params), true
		}
		return 0, false
	}
	rawArg := func(idx int) []token.Token {
		toks := args.Argv[idx]
		if len(toks) > 0 && toks[len(toks)-1].Kind == token.EndOfArg {
			toks = toks[:len(toks)-1]
		}
		return toks
	}
	prevNonSpace := func(idx int) (token.Token, bool) {
		k := idx - 1
		for k >= 0 && body[k].Kind == token.Space {
			k--
		}
		if k < 0 {
			return token.Token{}, false
		}
		return body[k], true
	}
	nextNonSpace := func(idx int) (token.Token, bool) {
		k := idx + 1
		for k < n && body[k].Kind == token.Space {
			k++
		}
		if k >= n {
			return token.Token{}, false
		}
		return body[k], true
	}
	adjacentToHashHash := func(idx int) bool {
		if p, ok := prevNonSpace(idx); ok && p.Kind == token.Punct && p.PunctID == punct.HashHash {
			return true
		}
		if nx, ok := nextNonSpace(idx); ok && nx.Kind == token.Punct && nx.PunctID == punct.HashHash {
			return true
		}
		return false
	}

	expandedCache := make(map[int][]token.Token)
	expandedArg := func(idx int) ([]token.Token, error) {
		if cached, ok := expandedCache[idx]; ok {
			return cached, nil
		}
		exp, err := e.expandArgument(rawArg(idx))
		if err != nil {
			return nil, err
		}
		expandedCache[idx] = exp
		return exp, nil
	}

	var out []token.Token
	i := 0
	for i < n {
		t := body[i]

		if t.Kind == token.Punct && t.PunctID == punct.Hash {
			j := i + 1
			found := false
			for j < n {
				if body[j].Kind != token.Identifier {
					j++
					continue
				}
				idx, ok := paramIndex(body[j].Text)
				if !ok {
					return nil, &Error{Kind: ErrHashNotFollowedByParam, Loc: body[j].Loc, Detail: "'#' is not followed by a macro parameter"}
				}
				str := stringifyArg(e.tab, rawArg(idx))
				out = append(out, token.Token{Kind: token.String, Text: e.tab.Add("\"" + str + "\"")})
				found = true
				j++
				break
			}
			if !found {
				return nil, &Error{Kind: ErrHashNotFollowedByParam, Loc: t.Loc, Detail: "'#' is not followed by a macro parameter"}
			}
			i = j
			continue
		}

		if t.Kind == token.Identifier {
			if idx, ok := paramIndex(t.Text); ok {
				if adjacentToHashHash(i) {
					raw := rawArg(idx)
					if len(raw) == 0 {
						out = append(out, token.Token{Kind: token.Placemarker})
					} else {
						out = append(out, raw...)
					}
				} else {
					exp, err := expandedArg(idx)
					if err != nil {
						return nil, err
					}
					if len(exp) == 0 {
						out = append(out, token.Token{Kind: token.Placemarker})
					} else {
						out = append(out, exp...)
					}
				}
				i++
				continue
			}
		}

		out = append(out, t)
		i++
	}
	return out, nil
}

// foldPaste performs the left-to-right `##` concatenation pass over an
// already-parameter-substituted token sequence (§5.4): each operand pair
// is pasted and re-lexed as a single token, with chains of `##` folding
// left to right. Placemarkers act as the identity element and never
// appear in the result.
func (e *Expander) foldPaste(substituted []token.Token) ([]token.Token, error) {
	n := len(substituted)
	skipSpaces := func(idx int) int {
		for idx < n && substituted[idx].Kind == token.Space {
			idx++
		}
		return idx
	}

	var out []token.Token
	i := 0
	for i < n {
		t := substituted[i]
		if t.Kind == token.Space {
			out = append(out, t)
			i++
			continue
		}
		i++
		for {
			j := skipSpaces(i)
			if !(j < n && substituted[j].Kind == token.Punct && substituted[j].PunctID == punct.HashHash) {
				break
			}
			k := skipSpaces(j + 1)
			if k >= n {
				return nil, &Error{Kind: ErrPasteAtEnd, Detail: "'##' cannot be the last token of a macro body"}
			}
			pasted, err := e.pasteTokens(t, substituted[k])
			if err != nil {
				return nil, err
			}
			t = pasted
			i = k + 1
		}
		if t.Kind != token.Placemarker {
			out = append(out, t)
		}
	}
	return out, nil
}

func (e *Expander) pasteTokens(a, b token.Token) (token.Token, error) {
	if a.Kind == token.Placemarker {
		return b, nil
	}
	if b.Kind == token.Placemarker {
		return a, nil
	}
	text := spelling(e.tab, a) + spelling(e.tab, b)
	tok, err := lexer.StringToToken(e.tab, text)
	if err != nil {
		return token.Token{}, &Error{Kind: ErrInvalidPaste, Detail: err.Error()}
	}
	return tok, nil
}

func spelling(tab *intern.Table, t token.Token) string {
	switch t.Kind {
	case token.Identifier, token.Number, token.String, token.CharConst, token.HeaderName:
		return tab.Get(t.Text)
	case token.Punct:
		return punct.Name(t.PunctID)
	case token.Other:
		return string(t.OtherByte)
	default:
		return ""
	}
}

// stringifyArg implements the `#` operator (6.10.3.2): the argument's
// spelling is reproduced with internal whitespace runs collapsed to a
// single space, leading/trailing whitespace dropped, and each `\` or `"`
// inside a string/char-const literal escaped.
func stringifyArg(tab *intern.Table, toks []token.Token) string {
	var sb strings.Builder
	lastWasSpace := false
	wroteAny := false
	for _, t := range toks {
		switch t.Kind {
		case token.EnableMacro, token.EndOfArg, token.Placemarker, token.Eof:
			continue
		case token.Newline, token.Space:
			if wroteAny {
				lastWasSpace = true
			}
			continue
		}
		if lastWasSpace {
			sb.WriteByte(' ')
			lastWasSpace = false
		}
		wroteAny = true
		switch t.Kind {
		case token.Other:
			sb.WriteByte(t.OtherByte)
		case token.Punct:
			sb.WriteString(punct.Name(t.PunctID))
		case token.String, token.CharConst:
			s := tab.Get(t.Text)
			// s already includes its own surrounding quotes; escaping every
			// `\` and `"` in it (including those two quotes) is exactly
			// what 6.10.3.2p2 requires. CharConst gets the same treatment
			// as String; the grounding source leaves this case as a TODO.
			for i := 0; i < len(s); i++ {
				c := s[i]
				if c == '\\' || c == '"' {
					sb.WriteByte('\\')
				}
				sb.WriteByte(c)
			}
		default:
			sb.WriteString(tab.Get(t.Text))
		}
	}
	return sb.String()
}
