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

// Package lexer implements translation phases 1 through 3 (§3): backslash-
// newline splicing, comment stripping, and preprocessing-token recognition.
//
// The three phases are implemented as a single pass, not three separate
// ones, following the grounding source: splicing has to be checked between
// every pair of characters a later phase looks at (a comment's closing `*/`
// can itself be split by a spliced line), so pulling it out into its own
// pre-pass would mean re-scanning the file twice. One Lexer reads directly
// from a source.File and emits token.Token values.
package lexer

import (
	"fmt"

	"github.com/rmassaro/gocpp/internal/cpp/source"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

// ErrorKind classifies a lexical error.
type ErrorKind int

const (
	ErrUnterminatedString ErrorKind = iota
	ErrUnterminatedHeader
	ErrUnterminatedCharConst
	ErrUnterminatedComment
	ErrInvalidEscape
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedHeader:
		return "unterminated header name"
	case ErrUnterminatedCharConst:
		return "unterminated character constant"
	case ErrUnterminatedComment:
		return "unterminated comment"
	case ErrInvalidEscape:
		return "invalid escape sequence"
	default:
		return "lexical error"
	}
}

// Error reports a lexical failure at a specific source location.
type Error struct {
	Kind ErrorKind
	Loc  source.Location
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Kind)
}

// Lexer tokenizes a single source.File. A higher layer (expand.Expander)
// owns the source.Stack and creates a new Lexer over the top file for each
// read; all position state lives in the source.File, not the Lexer.
type Lexer struct {
	file     *source.File
	interner *intern.Table
	buf      []byte
}

// New returns a Lexer reading from file, interning identifier and literal
// text into tab.
func New(file *source.File, tab *intern.Table) *Lexer {
	return &Lexer{file: file, interner: tab}
}

func (lx *Lexer) cur() int {
	b, ok := lx.file.PeekByte()
	if !ok {
		return -1
	}
	return int(b)
}

func (lx *Lexer) at(offset int) int {
	b, ok := lx.file.PeekByteAt(lx.file.Offset() + offset)
	if !ok {
		return -1
	}
	return int(b)
}

func isSpace(c int) bool {
	return c == ' ' || c == '\r' || c == '\n' || c == '\t'
}
func isAlpha(c int) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}
func isDigit(c int) bool { return c >= '0' && c <= '9' }
func isAlnum(c int) bool { return isAlpha(c) || isDigit(c) }
func isOctDigit(c int) bool {
	return c >= '0' && c <= '7'
}
func isHexDigit(c int) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

// skipBSNewline implements phase 1 (§3.1): a backslash immediately
// followed by optional whitespace and a newline is deleted, splicing the
// next physical line onto the current one. It is called at every point the
// later phases look at a character, not as a separate pre-pass.
func (lx *Lexer) skipBSNewline() bool {
	skipped := false
	for lx.cur() == '\\' {
		rewind := lx.file.Offset()
		lx.file.Advance()
		for isSpace(lx.cur()) && lx.cur() != '\n' {
			lx.file.Advance()
		}
		if lx.cur() == '\n' {
			skipped = true
			lx.file.Advance()
			continue
		}
		lx.file.RewindTo(rewind)
		break
	}
	return skipped
}

func (lx *Lexer) skipSpaces() bool {
	skipped := false
	for isSpace(lx.cur()) && lx.cur() != '\n' {
		skipped = true
		for {
			lx.file.Advance()
			if !(isSpace(lx.cur()) && lx.cur() != '\n') {
				break
			}
		}
		lx.skipBSNewline()
	}
	return skipped
}

func (lx *Lexer) skipComments() (bool, *Error) {
	skipped := false
	for lx.cur() == '/' {
		if lx.at(1) == '\\' {
			rewind := lx.file.Offset()
			lx.file.Advance()
			if !lx.skipBSNewline() || (lx.cur() != '/' && lx.cur() != '*') {
				lx.file.RewindTo(rewind)
				return skipped, nil
			}
		} else if lx.at(1) == '/' || lx.at(1) == '*' {
			lx.file.Advance()
		} else {
			break
		}
		skipped = true

		if lx.cur() == '*' {
			lx.file.Advance()
			for {
				if lx.cur() < 0 {
					return false, &Error{Kind: ErrUnterminatedComment, Loc: lx.locAt(lx.file.Offset())}
				}
				if lx.cur() == '*' {
					lx.file.Advance()
					if lx.cur() == '\\' {
						lx.skipBSNewline()
					}
					if lx.cur() == '/' {
						lx.file.Advance()
						break
					}
					if lx.cur() != '*' {
						lx.file.Advance()
					}
					continue
				}
				lx.file.Advance()
			}
			for lx.skipBSNewline() || lx.skipSpaces() {
			}
			continue
		}

		// single-line
		lx.file.Advance()
		for {
			for lx.cur() >= 0 && lx.cur() != '\n' && lx.cur() != '\\' {
				lx.file.Advance()
			}
			if lx.cur() < 0 || lx.cur() == '\n' {
				break
			}
			if lx.cur() == '\\' {
				if !lx.skipBSNewline() {
					lx.file.Advance()
				}
			}
		}
		for lx.skipBSNewline() || lx.skipSpaces() {
		}
	}
	return skipped, nil
}

func (lx *Lexer) locAt(offset int) source.Location {
	return lx.file.Location(offset)
}

func (lx *Lexer) addByte(c int) {
	lx.buf = append(lx.buf, byte(c))
}

func (lx *Lexer) readHeader() (token.Kind, *Error) {
	end := byte('>')
	if lx.cur() == '"' {
		end = '"'
	}
	lx.buf = lx.buf[:0]
	lx.addByte(lx.cur())
	for {
		lx.file.Advance()
		if lx.cur() == '\\' {
			lx.skipBSNewline()
		}
		if lx.cur() < 0 || lx.cur() == '\n' {
			return 0, &Error{Kind: ErrUnterminatedHeader, Loc: lx.locAt(lx.file.Offset())}
		}
		if byte(lx.cur()) == end {
			break
		}
		lx.addByte(lx.cur())
	}
	lx.addByte(lx.cur())
	lx.file.Advance()
	return token.HeaderName, nil
}

func (lx *Lexer) readString() (token.Kind, *Error) {
	lx.buf = lx.buf[:0]
	lx.addByte(lx.cur())
	if lx.cur() == 'L' {
		lx.file.Advance()
		if lx.cur() == '\\' {
			lx.skipBSNewline()
		}
		lx.addByte(lx.cur())
	}
	for {
		lx.file.Advance()
		if lx.cur() == '\\' {
			if !lx.skipBSNewline() {
				lx.addByte(lx.cur())
				lx.file.Advance()
				if lx.cur() < 0 {
					return 0, &Error{Kind: ErrUnterminatedString, Loc: lx.locAt(lx.file.Offset())}
				}
				if lx.cur() == '\\' {
					lx.skipBSNewline()
				}
				lx.addByte(lx.cur())
				lx.file.Advance()
				if lx.cur() == '\\' {
					lx.skipBSNewline()
				}
				if lx.cur() < 0 {
					return 0, &Error{Kind: ErrUnterminatedString, Loc: lx.locAt(lx.file.Offset())}
				}
			}
		}
		if lx.cur() == '\n' || lx.cur() < 0 {
			return 0, &Error{Kind: ErrUnterminatedString, Loc: lx.locAt(lx.file.Offset())}
		}
		if lx.cur() == '"' {
			lx.addByte(lx.cur())
			lx.file.Advance()
			break
		}
		lx.addByte(lx.cur())
	}
	return token.String, nil
}

func (lx *Lexer) readCharsInSet(set string, min, max int) *Error {
	n := 0
	for {
		if lx.cur() == '\\' && !lx.skipBSNewline() {
			break
		}
		if lx.cur() < 0 {
			break
		}
		c := byte(lx.cur())
		if c != 0 && indexByte(set, c) {
			lx.addByte(int(c))
			lx.file.Advance()
			n++
			if max >= 0 && n >= max {
				break
			}
			continue
		}
		break
	}
	if n >= min && (max < 0 || n <= max) {
		return nil
	}
	return &Error{Kind: ErrInvalidEscape, Loc: lx.locAt(lx.file.Offset())}
}

func indexByte(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

func (lx *Lexer) readCharConst() (token.Kind, *Error) {
	lx.buf = lx.buf[:0]
	lx.addByte(lx.cur())
	if lx.cur() == 'L' {
		lx.file.Advance()
		if lx.cur() == '\\' {
			lx.skipBSNewline()
		}
		lx.addByte(lx.cur())
	}
	for {
		lx.file.Advance()
		if lx.cur() == '\\' {
			if !lx.skipBSNewline() {
				lx.addByte(lx.cur())
				lx.file.Advance()
				if lx.cur() < 0 {
					return 0, &Error{Kind: ErrUnterminatedString, Loc: lx.locAt(lx.file.Offset())}
				}
				if lx.cur() == '\\' {
					lx.skipBSNewline()
				}
				switch {
				case lx.cur() != 0 && indexByte(`'"?\abfnrtv`, byte(lx.cur())):
					lx.addByte(lx.cur())
					lx.file.Advance()
				case isOctDigit(lx.cur()):
					lx.addByte(lx.cur())
					lx.file.Advance()
					if err := lx.readCharsInSet("01234567", 0, 2); err != nil {
						return 0, err
					}
				case lx.cur() == 'x':
					lx.addByte(lx.cur())
					lx.file.Advance()
					if err := lx.readCharsInSet("0123456789abcdefABCDEF", 1, -1); err != nil {
						return 0, err
					}
				case lx.cur() == 'u':
					lx.addByte(lx.cur())
					lx.file.Advance()
					if err := lx.readCharsInSet("0123456789abcdefABCDEF", 4, 4); err != nil {
						return 0, err
					}
				case lx.cur() == 'U':
					lx.addByte(lx.cur())
					lx.file.Advance()
					if err := lx.readCharsInSet("0123456789abcdefABCDEF", 8, 8); err != nil {
						return 0, err
					}
				default:
					return 0, &Error{Kind: ErrInvalidEscape, Loc: lx.locAt(lx.file.Offset())}
				}
			}
		}
		if lx.cur() == '\n' || lx.cur() < 0 {
			return 0, &Error{Kind: ErrUnterminatedCharConst, Loc: lx.locAt(lx.file.Offset())}
		}
		if lx.cur() == '\'' {
			lx.addByte(lx.cur())
			lx.file.Advance()
			break
		}
		lx.addByte(lx.cur())
	}
	return token.CharConst, nil
}

func (lx *Lexer) readNumber() token.Kind {
	lx.buf = lx.buf[:0]
	lx.addByte(lx.cur())
	lx.file.Advance()
	for {
		if lx.cur() == '\\' && !lx.skipBSNewline() {
			break
		}
		if c := lx.cur(); c == 'e' || c == 'E' || c == 'p' || c == 'P' {
			rewind := lx.file.Offset()
			lx.file.Advance()
			if lx.cur() == '\\' && !lx.skipBSNewline() {
				lx.file.RewindTo(rewind)
				break
			}
			if lx.cur() == '-' || lx.cur() == '+' {
				lx.addByte(c)
				lx.addByte(lx.cur())
				lx.file.Advance()
				continue
			}
			lx.file.RewindTo(rewind)
		}
		if isDigit(lx.cur()) || isAlpha(lx.cur()) || lx.cur() == '.' {
			lx.addByte(lx.cur())
			lx.file.Advance()
			continue
		}
		break
	}
	return token.Number
}

func (lx *Lexer) readIdent() token.Kind {
	lx.buf = lx.buf[:0]
	lx.addByte(lx.cur())
	lx.file.Advance()
	for {
		if lx.cur() == '\\' && !lx.skipBSNewline() {
			break
		}
		if !isAlnum(lx.cur()) {
			break
		}
		lx.addByte(lx.cur())
		lx.file.Advance()
	}
	return token.Identifier
}

// kindResult distinguishes the handful of single-character "other" results
// that read() can return alongside the named token kinds.
type kindResult struct {
	kind      token.Kind
	otherByte byte
	isOther   bool
	isPunct   bool
	punctID   punct.ID
}

func (lx *Lexer) readPunct() (kindResult, bool) {
	// Try maximal munch: 3, then 2, then 1 bytes.
	start := lx.file.Offset()
	for try := punct.MaxLen; try > 0; try-- {
		lx.buf = lx.buf[:0]
		pos := start
		for i := 0; i < try; i++ {
			lx.file.RewindTo(pos)
			c := lx.cur()
			if c < 0 {
				lx.buf = lx.buf[:0]
				break
			}
			lx.addByte(c)
			lx.file.Advance()
			pos = lx.file.Offset()
			if lx.cur() == '\\' {
				lx.skipBSNewline()
				pos = lx.file.Offset()
			}
		}
		if len(lx.buf) == try {
			if id, ok := punct.Lookup(string(lx.buf)); ok {
				return kindResult{kind: token.Punct, isPunct: true, punctID: id}, true
			}
		}
		lx.file.RewindTo(start)
	}
	return kindResult{}, false
}

// Next reads and returns the next preprocessing token. parseHeader should
// be true only immediately after an `#include` directive keyword, so that
// `<...>` and a leading `"..."` are read as a single HeaderName token
// instead of individual punctuation and a string literal (§3.3).
func (lx *Lexer) Next(parseHeader bool) (token.Token, error) {
	if lx.cur() < 0 {
		return token.Token{Kind: token.Eof, Loc: lx.locAt(lx.file.Offset())}, nil
	}

	lx.skipBSNewline()

	if skipped, err := lx.skipComments(); err != nil {
		return token.Token{}, err
	} else if skipped {
		return lx.afterSkip(parseHeader)
	}

	if lx.skipSpaces() {
		return lx.afterSkip(parseHeader)
	}

	if lx.cur() == '\n' {
		return lx.readNewlineRun(parseHeader)
	}

	return lx.readTokenBody(parseHeader)
}

// afterSkip re-enters the same decision tree once leading whitespace or a
// comment has been consumed, matching read_token's goto-based control flow
// in the grounding source.
func (lx *Lexer) afterSkip(parseHeader bool) (token.Token, error) {
	start := lx.file.Offset()
	gotNewline := false
	for {
		sawSpace := lx.skipSpaces()
		sawSplice := lx.skipBSNewline()
		if !sawSpace && !sawSplice {
			break
		}
	}
	for lx.cur() == '\n' {
		start = lx.file.Offset()
		lx.file.Advance()
		gotNewline = true
		for lx.skipSpaces() || lx.skipBSNewline() {
		}
	}
	if skipped, err := lx.skipComments(); err != nil {
		return token.Token{}, err
	} else if skipped {
		if gotNewline {
			return lx.readNewlineRun(parseHeader)
		}
		return lx.afterSkip(parseHeader)
	}
	loc := lx.locAt(start)
	if gotNewline {
		return token.Token{Kind: token.Newline, Loc: loc}, nil
	}
	return token.Token{Kind: token.Space, Loc: loc}, nil
}

func (lx *Lexer) readNewlineRun(parseHeader bool) (token.Token, error) {
	start := lx.file.Offset()
	for {
		if lx.cur() == '\n' {
			start = lx.file.Offset()
			lx.file.Advance()
		}
		if !(lx.skipSpaces() || lx.skipBSNewline() || lx.cur() == '\n') {
			break
		}
	}
	if skipped, err := lx.skipComments(); err != nil {
		return token.Token{}, err
	} else if skipped {
		return lx.readNewlineRun(parseHeader)
	}
	return token.Token{Kind: token.Newline, Loc: lx.locAt(start)}, nil
}

func (lx *Lexer) readTokenBody(parseHeader bool) (token.Token, error) {
	start := lx.file.Offset()
	interner := lx.interner

	if parseHeader && (lx.cur() == '<' || lx.cur() == '"') {
		kind, err := lx.readHeader()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
	}

	if lx.cur() == '"' {
		kind, err := lx.readString()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
	}
	if lx.cur() == 'L' {
		rewind := lx.file.Offset()
		lx.file.Advance()
		quoted := lx.cur() == '"'
		if !quoted && lx.cur() == '\\' {
			quoted = lx.skipBSNewline() && lx.cur() == '"'
		}
		lx.file.RewindTo(rewind)
		if quoted {
			kind, err := lx.readString()
			if err != nil {
				return token.Token{}, err
			}
			return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
		}
	}

	if isDigit(lx.cur()) {
		kind := lx.readNumber()
		return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
	}
	if lx.cur() == '.' {
		rewind := lx.file.Offset()
		lx.file.Advance()
		isNum := isDigit(lx.cur())
		if !isNum && lx.cur() == '\\' {
			isNum = lx.skipBSNewline() && isDigit(lx.cur())
		}
		lx.file.RewindTo(rewind)
		if isNum {
			kind := lx.readNumber()
			return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
		}
	}

	if lx.cur() == '\'' {
		kind, err := lx.readCharConst()
		if err != nil {
			return token.Token{}, err
		}
		return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
	}
	if lx.cur() == 'L' {
		rewind := lx.file.Offset()
		lx.file.Advance()
		quoted := lx.cur() == '\''
		if !quoted && lx.cur() == '\\' {
			quoted = lx.skipBSNewline() && lx.cur() == '\''
		}
		lx.file.RewindTo(rewind)
		if quoted {
			kind, err := lx.readCharConst()
			if err != nil {
				return token.Token{}, err
			}
			return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
		}
	}

	if isAlpha(lx.cur()) {
		kind := lx.readIdent()
		return token.Token{Kind: kind, Text: interner.Add(string(lx.buf)), Loc: lx.locAt(start)}, nil
	}

	if res, ok := lx.readPunct(); ok {
		return token.Token{Kind: res.kind, PunctID: res.punctID, Loc: lx.locAt(start)}, nil
	}

	c := lx.cur()
	lx.file.Advance()
	return token.Token{Kind: token.Other, OtherByte: byte(c), Loc: lx.locAt(start)}, nil
}

// NextCharIsLParen reports whether, after skipping any splice, the next
// character is `(`, without consuming it. A function-like macro only
// expands when its name is immediately followed (after possible splices,
// but not other whitespace on the same logical line) by `(` (§5.1).
func (lx *Lexer) NextCharIsLParen() bool {
	rewind := lx.file.Offset()
	if lx.cur() == '\\' {
		lx.skipBSNewline()
	}
	isLParen := lx.cur() == '('
	lx.file.RewindTo(rewind)
	return isLParen
}
