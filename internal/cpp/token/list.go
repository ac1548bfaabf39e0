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

package token

// List is a cursor over a slice of tokens, chained to a parent List. The
// macro expander keeps a stack of these: when a macro's replacement list
// needs to be rescanned, a new List is pushed on top with Next pointing at
// whatever was being read before, and popped again once it is exhausted
// (§5.2, §5.5). The root-facing token stream always reads from the
// topmost non-exhausted List.
type List struct {
	toks []Token
	pos  int
	Next *List
}

// NewList wraps toks as a fresh, unread List with no parent.
func NewList(toks []Token) *List {
	return &List{toks: toks}
}

// Done reports whether every token in this List has been consumed. It says
// nothing about Next -- the caller walks the chain itself.
func (l *List) Done() bool {
	return l == nil || l.pos >= len(l.toks)
}

// Peek returns the next unconsumed token in this List without advancing,
// or ok=false if Done.
func (l *List) Peek() (Token, bool) {
	if l.Done() {
		return Token{}, false
	}
	return l.toks[l.pos], true
}

// PeekAt returns the unconsumed token offset positions ahead of the
// cursor, or ok=false if that position doesn't exist in this List.
func (l *List) PeekAt(offset int) (Token, bool) {
	if l == nil {
		return Token{}, false
	}
	i := l.pos + offset
	if i < 0 || i >= len(l.toks) {
		return Token{}, false
	}
	return l.toks[i], true
}

// Advance returns the next unconsumed token and advances the cursor, or
// ok=false if Done.
func (l *List) Advance() (Token, bool) {
	tok, ok := l.Peek()
	if ok {
		l.pos++
	}
	return tok, ok
}

// Remaining returns how many tokens are left unconsumed in this List.
func (l *List) Remaining() int {
	if l == nil {
		return 0
	}
	return len(l.toks) - l.pos
}

// Push inserts toks as a new top-of-stack List above l, returning the new
// head.
func Push(l *List, toks []Token) *List {
	return &List{toks: toks, Next: l}
}
