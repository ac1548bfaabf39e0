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

// Package headerfetch extracts a vendored header bundle (a `.tar.xz`
// archive) into a directory that can be added to an include search path.
// Grounded on index/internal/bcr/registry.go's archive-extraction flow,
// retargeted from Bazel Central Registry module tarballs to header bundles.
package headerfetch

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Extract decompresses and untars the .tar.xz archive at archivePath into
// outDir, creating it if necessary.
func Extract(archivePath, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("headerfetch: %s: %w", archivePath, err)
	}
	return untar(xzr, outDir)
}

func untar(r io.Reader, outDir string) error {
	tr := tar.NewReader(r)
	for {
		h, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		dst, err := safeJoin(outDir, h.Name)
		if err != nil {
			return err
		}

		switch h.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			out, err := os.Create(dst)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			out.Close()
		}
	}
}

// safeJoin joins name onto outDir and rejects the result if it would land
// outside outDir, since name comes from the archive itself and a crafted
// bundle could otherwise write anywhere on disk via "../" segments.
func safeJoin(outDir, name string) (string, error) {
	dst := filepath.Join(outDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(outDir, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("headerfetch: archive entry %q escapes extraction directory", name)
	}
	return dst, nil
}
