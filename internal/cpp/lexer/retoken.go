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

package lexer

import (
	"fmt"

	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

// RetokenizeError reports that `##` pasted two operands into text that does
// not form a single valid preprocessing token (§5.4, constraint 6.10.3.3p3).
type RetokenizeError struct {
	Text string
}

func (e *RetokenizeError) Error() string {
	return fmt.Sprintf("pasting does not produce a valid preprocessing token: %q", e.Text)
}

// StringToToken re-lexes a standalone string of text as a single
// preprocessing token, used after `##` concatenates two operand spellings.
// Unlike Lexer.Next, it never consumes input incrementally: the whole
// string must resolve to exactly one token or the paste is invalid.
func StringToToken(tab *intern.Table, text string) (token.Token, error) {
	if id, ok := punct.Lookup(text); ok {
		return token.Token{Kind: token.Punct, PunctID: id}, nil
	}

	if len(text) > 0 && (isDigit(int(text[0])) || (text[0] == '.' && len(text) > 1 && isDigit(int(text[1])))) {
		if !checkPPNumber(text) {
			return token.Token{}, &RetokenizeError{Text: text}
		}
		return token.Token{Kind: token.Number, Text: tab.Add(text)}, nil
	}

	if len(text) > 0 && (text[0] == '\'' || (text[0] == 'L' && len(text) > 1 && text[1] == '\'')) {
		if !checkQuoted(text, '\'') {
			return token.Token{}, &RetokenizeError{Text: text}
		}
		return token.Token{Kind: token.CharConst, Text: tab.Add(text)}, nil
	}

	if len(text) > 0 && (text[0] == '"' || (text[0] == 'L' && len(text) > 1 && text[1] == '"')) {
		if !checkQuoted(text, '"') {
			return token.Token{}, &RetokenizeError{Text: text}
		}
		return token.Token{Kind: token.String, Text: tab.Add(text)}, nil
	}

	if len(text) > 0 && isAlpha(int(text[0])) {
		if !checkIdentifier(text) {
			return token.Token{}, &RetokenizeError{Text: text}
		}
		return token.Token{Kind: token.Identifier, Text: tab.Add(text)}, nil
	}

	if len(text) == 1 {
		return token.Token{Kind: token.Other, OtherByte: text[0]}, nil
	}

	return token.Token{}, &RetokenizeError{Text: text}
}

func skipHexQuad(s string, i int) (int, bool) {
	if i+4 > len(s) {
		return i, false
	}
	for j := 0; j < 4; j++ {
		if !isHexDigit(int(s[i+j])) {
			return i, false
		}
	}
	return i + 4, true
}

func skipEscapeSequence(s string, i int) (int, bool) {
	if i >= len(s) || s[i] != '\\' {
		return i, false
	}
	i++
	if i >= len(s) {
		return i, false
	}
	switch s[i] {
	case '\'', '"', '?', '\\', 'a', 'b', 'f', 'n', 'r', 't', 'v':
		return i + 1, true
	case 'x':
		i++
		if i >= len(s) || !isHexDigit(int(s[i])) {
			return i, false
		}
		for i < len(s) && isHexDigit(int(s[i])) {
			i++
		}
		return i, true
	case 'u':
		return skipHexQuad(s, i+1)
	case 'U':
		j, ok := skipHexQuad(s, i+1)
		if !ok {
			return j, false
		}
		return skipHexQuad(s, j)
	}
	if isOctDigit(int(s[i])) {
		n := 0
		for i < len(s) && isOctDigit(int(s[i])) && n < 3 {
			i++
			n++
		}
		return i, true
	}
	return i, false
}

func checkQuoted(s string, quote byte) bool {
	i := 0
	if i < len(s) && s[i] == 'L' {
		i++
	}
	if i >= len(s) || s[i] != quote {
		return false
	}
	i++
	for i < len(s) && s[i] != quote {
		if s[i] == '\n' {
			return false
		}
		if s[i] == '\\' {
			var ok bool
			i, ok = skipEscapeSequence(s, i)
			if !ok {
				return false
			}
			continue
		}
		i++
	}
	if i >= len(s) {
		return false
	}
	i++
	return i == len(s)
}

func checkPPNumber(s string) bool {
	i := 0
	for i < len(s) {
		switch {
		case s[i] == 'e' || s[i] == 'E' || s[i] == 'p' || s[i] == 'P':
			i++
			if i < len(s) && (s[i] == '-' || s[i] == '+') {
				i++
			}
		case s[i] == '.' || isDigit(int(s[i])) || isAlpha(int(s[i])):
			i++
		default:
			return false
		}
	}
	return true
}

func checkIdentifier(s string) bool {
	if len(s) == 0 || isDigit(int(s[0])) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(int(s[i])) {
			return false
		}
	}
	return true
}
