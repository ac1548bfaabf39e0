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

// Package source implements the input stack (§4.1): a byte-level reader
// over a stack of source files, with line/column tracking computed lazily
// from a small cache of recently seen offsets.
package source

import "fmt"

// Location identifies a position in a translation unit: which file, and the
// 1-based line/column within it.
type Location struct {
	FileID uint32
	Line   uint32
	Col    uint32
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d:%d", l.FileID, l.Line, l.Col)
}

// IsValid reports whether every invariant-1 field is set: line and column
// are both positive (spec.md §8 invariant 1). FileID 0 is a legal file (the
// first file pushed), so it is not checked here.
func (l Location) IsValid() bool {
	return l.Line > 0 && l.Col > 0
}
