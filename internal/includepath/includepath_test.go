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

package includepath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestOpenFindsQuoteIncludeNextToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.c"), "")
	writeFile(t, filepath.Join(dir, "local.h"), "LOCAL")

	l := New()
	data, resolved, err := l.Open("local.h", filepath.Join(dir, "main.c"), false)
	require.NoError(t, err)
	assert.Equal(t, "LOCAL", string(data))
	assert.Equal(t, filepath.Join(dir, "local.h"), resolved)
}

func TestOpenSystemIncludeSkipsIncludingFileDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.c"), "")
	writeFile(t, filepath.Join(dir, "local.h"), "LOCAL")

	l := New()
	_, _, err := l.Open("local.h", filepath.Join(dir, "main.c"), true)
	require.Error(t, err)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestOpenFindsFileInLiteralRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foo.h"), "ROOTED")

	l := New(root)
	data, resolved, err := l.Open("foo.h", "", true)
	require.NoError(t, err)
	assert.Equal(t, "ROOTED", string(data))
	assert.Equal(t, filepath.Join(root, "foo.h"), resolved)
}

func TestOpenTriesRootsInOrder(t *testing.T) {
	root1 := t.TempDir()
	root2 := t.TempDir()
	writeFile(t, filepath.Join(root2, "foo.h"), "SECOND")

	l := New(root1, root2)
	data, _, err := l.Open("foo.h", "", true)
	require.NoError(t, err)
	assert.Equal(t, "SECOND", string(data))
}

func TestOpenExpandsGlobRoot(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "vendor", "pkgA", "include", "a.h"), "A")
	writeFile(t, filepath.Join(base, "vendor", "pkgB", "include", "b.h"), "B")

	l := New(filepath.Join(base, "vendor", "*", "include"))

	data, _, err := l.Open("a.h", "", true)
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))

	data, _, err = l.Open("b.h", "", true)
	require.NoError(t, err)
	assert.Equal(t, "B", string(data))
}

func TestOpenNotFoundReturnsNotFoundError(t *testing.T) {
	l := New(t.TempDir())
	_, _, err := l.Open("missing.h", "", true)
	require.Error(t, err)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "missing.h", nfe.Filename)
}

func TestAddAppendsRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "added.h"), "ADDED")

	l := New()
	l.Add(root)
	data, _, err := l.Open("added.h", "", true)
	require.NoError(t, err)
	assert.Equal(t, "ADDED", string(data))
}
