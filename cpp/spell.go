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

package cpp

import (
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/intern"
	"github.com/rmassaro/gocpp/internal/punct"
)

// Spell renders tok's original spelling, for a driver that wants to print
// preprocessed output back out as text (cmd/cpp's default mode).
func (p *Preprocessor) Spell(tok token.Token) string {
	return spellToken(p.tab, tok)
}

// spellToken renders t's original spelling, used by DumpMacros to print a
// macro body back out roughly as it was written.
func spellToken(tab *intern.Table, t token.Token) string {
	switch t.Kind {
	case token.Identifier, token.Number, token.String, token.CharConst, token.HeaderName:
		return tab.Get(t.Text)
	case token.Punct:
		return punct.Name(t.PunctID)
	case token.Other:
		return string(t.OtherByte)
	case token.Space:
		return " "
	case token.Newline:
		return "\n"
	default:
		return ""
	}
}
