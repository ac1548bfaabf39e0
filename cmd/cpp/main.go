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

// Command cpp is a minimal CLI driver for the preprocessor: it reads a
// single C source file, resolves its #includes against -I search roots
// (literal directories or doublestar globs, optionally backed by a
// -fetch-headers vendored bundle), and writes the resulting phase-4 token
// stream to stdout. Flag shape grounded on index/conan/main.go and
// index/vendor/main.go.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmassaro/gocpp/cpp"
	"github.com/rmassaro/gocpp/internal/cpp/token"
	"github.com/rmassaro/gocpp/internal/headerfetch"
	"github.com/rmassaro/gocpp/internal/includepath"
)

func main() {
	var includeRoots stringList
	flag.Var(&includeRoots, "I", "Include search root (literal directory or doublestar glob); repeatable")
	fetchHeaders := flag.String("fetch-headers", "", "Path to a .tar.xz vendored header bundle to extract and add to the include search path")
	fetchOut := flag.String("fetch-headers-dir", "", "Directory to extract -fetch-headers into (default: a subdirectory of the OS temp dir)")
	dumpMacros := flag.Bool("dump-macros", false, "Dump the macro table instead of the token stream")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatal("cpp requires exactly one argument: the path to the C source file to preprocess")
	}
	inputPath := flag.Arg(0)

	src, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("cpp: %v", err)
	}

	paths := includepath.New(includeRoots.values...)
	if *fetchHeaders != "" {
		outDir := *fetchOut
		if outDir == "" {
			outDir = filepath.Join(os.TempDir(), "gocpp-fetch-headers")
		}
		if err := headerfetch.Extract(*fetchHeaders, outDir); err != nil {
			log.Fatalf("cpp: -fetch-headers: %v", err)
		}
		paths.Add(outDir)
	}

	pp := cpp.New(src, inputPath, cpp.WithIncludePath(paths))

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if *dumpMacros {
		if err := drainAll(pp); err != nil {
			log.Fatalf("cpp: %v", err)
		}
		if err := pp.DumpMacros(out); err != nil {
			log.Fatalf("cpp: %v", err)
		}
		return
	}

	if err := run(pp, out); err != nil {
		log.Fatalf("cpp: %v", err)
	}
}

// run writes every token's original spelling to w, in order, stopping at Eof.
func run(pp *cpp.Preprocessor, w io.Writer) error {
	for {
		tok, err := pp.Next()
		if err != nil {
			return err
		}
		if tok.Kind == token.Eof {
			return nil
		}
		if _, err := fmt.Fprint(w, pp.Spell(tok)); err != nil {
			return err
		}
	}
}

// drainAll runs pp to completion without writing output, since -dump-macros
// only wants the macro table's final state, but #define/#undef is only
// executed as directive lines are reached during tokenization.
func drainAll(pp *cpp.Preprocessor) error {
	for {
		tok, err := pp.Next()
		if err != nil {
			return err
		}
		if tok.Kind == token.Eof {
			return nil
		}
	}
}

// stringList accumulates repeated -I flag values.
type stringList struct {
	values []string
}

func (s *stringList) String() string {
	return strings.Join(s.values, ",")
}

func (s *stringList) Set(value string) error {
	s.values = append(s.values, value)
	return nil
}
