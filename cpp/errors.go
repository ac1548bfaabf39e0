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
	"fmt"

	"github.com/rmassaro/gocpp/internal/cpp/directive"
	"github.com/rmassaro/gocpp/internal/cpp/expand"
	"github.com/rmassaro/gocpp/internal/cpp/lexer"
	"github.com/rmassaro/gocpp/internal/cpp/macro"
	"github.com/rmassaro/gocpp/internal/cpp/source"
)

// ErrorKind names one of the preprocessor's semantic error categories.
type ErrorKind int

const (
	ErrUnterminatedString ErrorKind = iota
	ErrUnterminatedCharConst
	ErrUnterminatedHeader
	ErrUnterminatedComment
	ErrInvalidEscape
	ErrInvalidPunct
	ErrInvalidNumber
	ErrInvalidPaste
	ErrMacroArity
	ErrMacroMalformed
	ErrIncludeNotFound
	ErrDirectiveUnknown
	ErrDirectiveNotImplemented
	ErrOutOfMemory
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnterminatedString:
		return "UnterminatedString"
	case ErrUnterminatedCharConst:
		return "UnterminatedCharConst"
	case ErrUnterminatedHeader:
		return "UnterminatedHeader"
	case ErrUnterminatedComment:
		return "UnterminatedComment"
	case ErrInvalidEscape:
		return "InvalidEscape"
	case ErrInvalidPunct:
		return "InvalidPunct"
	case ErrInvalidNumber:
		return "InvalidNumber"
	case ErrInvalidPaste:
		return "InvalidPaste"
	case ErrMacroArity:
		return "MacroArity"
	case ErrMacroMalformed:
		return "MacroMalformed"
	case ErrIncludeNotFound:
		return "IncludeNotFound"
	case ErrDirectiveUnknown:
		return "DirectiveUnknown"
	case ErrDirectiveNotImplemented:
		return "DirectiveNotImplemented"
	case ErrOutOfMemory:
		return "OutOfMemory"
	case ErrInternal:
		return "Internal"
	default:
		return "ErrorKind(?)"
	}
}

// Error makes every ErrorKind usable as an error value. Each *Error unwraps
// to its Kind, so callers can write errors.Is(err, cpp.ErrUnterminatedComment)
// without reaching into Error's fields.
func (k ErrorKind) Error() string { return k.String() }

// Error reports a preprocessor failure at a source location. DirectiveNotImplemented
// is surfaced in the same "location: kind: detail" shape as DirectiveUnknown
// (§7); the two differ in Kind (and so in the kind name printed) and in
// Detail.
type Error struct {
	Kind   ErrorKind
	Loc    source.Location
	Detail string
}

func (e *Error) Error() string {
	if e.Loc.IsValid() {
		return fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

// wrapErr converts an error surfaced by any internal phase into a *cpp.Error
// with a Kind from the public taxonomy. Internal error types carry their own
// narrower Kind enums (one per phase); this is the single place those get
// folded into spec §7's flat list.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *lexer.Error:
		return &Error{Kind: lexErrKind(e.Kind), Loc: e.Loc, Detail: lexErrDetail(e.Kind)}
	case *lexer.RetokenizeError:
		return &Error{Kind: ErrInvalidPaste, Detail: e.Text}
	case *directive.Error:
		return &Error{Kind: directiveErrKind(e.Kind), Loc: e.Loc, Detail: e.Detail}
	case *expand.Error:
		return &Error{Kind: expandErrKind(e.Kind), Loc: e.Loc, Detail: e.Detail}
	case *macro.ValidationError:
		return &Error{Kind: ErrMacroMalformed, Detail: e.Reason}
	default:
		return &Error{Kind: ErrInternal, Detail: err.Error()}
	}
}

func lexErrKind(k lexer.ErrorKind) ErrorKind {
	switch k {
	case lexer.ErrUnterminatedString:
		return ErrUnterminatedString
	case lexer.ErrUnterminatedHeader:
		return ErrUnterminatedHeader
	case lexer.ErrUnterminatedCharConst:
		return ErrUnterminatedCharConst
	case lexer.ErrUnterminatedComment:
		return ErrUnterminatedComment
	case lexer.ErrInvalidEscape:
		return ErrInvalidEscape
	default:
		return ErrInternal
	}
}

func lexErrDetail(k lexer.ErrorKind) string {
	return k.String()
}

func directiveErrKind(k directive.ErrorKind) ErrorKind {
	switch k {
	case directive.ErrBadIncludeFilename, directive.ErrUnexpectedAfterInclude:
		return ErrDirectiveUnknown
	case directive.ErrUnterminatedParamList, directive.ErrInvalidParam,
		directive.ErrExpectedCommaOrRParen, directive.ErrExpectedRParenAfterEllipsis:
		return ErrMacroMalformed
	case directive.ErrInvalidDirective:
		return ErrDirectiveUnknown
	case directive.ErrDirectiveNotImplemented:
		return ErrDirectiveNotImplemented
	case directive.ErrMacroNameRequired, directive.ErrInvalidMacroName:
		return ErrMacroMalformed
	default:
		return ErrInternal
	}
}

func expandErrKind(k expand.ErrorKind) ErrorKind {
	switch k {
	case expand.ErrExpectedLParen, expand.ErrTooManyArgs, expand.ErrTooFewArgs,
		expand.ErrWrongArgCount, expand.ErrUnterminatedMacroArgs, expand.ErrEofInMacroArgs:
		return ErrMacroArity
	case expand.ErrDirectiveInArgs:
		return ErrMacroMalformed
	case expand.ErrHashNotFollowedByParam, expand.ErrPasteAtEnd:
		return ErrMacroMalformed
	case expand.ErrInvalidPaste:
		return ErrInvalidPaste
	case expand.ErrUnknownEnableMacro:
		return ErrInternal
	case expand.ErrIncludeNotFound:
		return ErrIncludeNotFound
	default:
		return ErrInternal
	}
}
