// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// testgen downloads the current testsuite from json-schema-org
// and copies the draft 3, 4 and 6 tests and the remote documents
// they refer to into the testdata directory.
// This is normally invoked by "go generate" in the internal/suite directory.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	repo = flag.String("repo", "https://github.com/json-schema-org/JSON-Schema-Test-Suite", "test suite repository")
	out  = flag.String("out", "testdata", "output directory")
)

// The directories of the suite that are copied.
// The "optional" subdirectories are not: they
// cover formats and big numbers, which we check elsewhere.
var dirs = []string{
	"tests/draft3",
	"tests/draft4",
	"tests/draft6",
	"remotes",
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("testgen: ")
	flag.Parse()

	tempDir, err := os.MkdirTemp("", "jsonschema-testgen")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tempDir)

	cmd := exec.Command("git", "clone", "--depth=1", *repo, "suite")
	cmd.Dir = tempDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Printf("> git clone %s\n", *repo)
	if err := cmd.Run(); err != nil {
		log.Fatal(err)
	}

	src := filepath.Join(tempDir, "suite")
	for _, dir := range dirs {
		copyDir(filepath.Join(src, filepath.FromSlash(dir)), filepath.Join(*out, filepath.Base(dir)))
	}
	copyFile(filepath.Join(src, "LICENSE"), filepath.Join(*out, "LICENSE"))
	if err := os.WriteFile(filepath.Join(*out, "README"), []byte(readme), 0o644); err != nil {
		log.Fatal(err)
	}
}

// copyDir mirrors the JSON files of fromDir into toDir,
// removing files of toDir that are no longer in the suite.
func copyDir(fromDir, toDir string) {
	fsys := os.DirFS(fromDir)
	keep := make(map[string]bool)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "optional" {
				return fs.SkipDir
			}
			keep[path] = true
			return os.MkdirAll(filepath.Join(toDir, filepath.FromSlash(path)), 0o755)
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		newPath := filepath.Join(toDir, filepath.FromSlash(path))
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		keep[path] = true
		if old, err := os.ReadFile(newPath); err == nil && bytes.Equal(old, data) {
			return nil
		}
		fmt.Printf("updating %s\n", newPath)
		return os.WriteFile(newPath, data, 0o644)
	})
	if err != nil {
		log.Fatal(err)
	}

	err = fs.WalkDir(os.DirFS(toDir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || keep[path] {
			return err
		}
		fmt.Printf("removing %s\n", filepath.Join(toDir, path))
		if err := os.RemoveAll(filepath.Join(toDir, filepath.FromSlash(path))); err != nil {
			return err
		}
		if d.IsDir() {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

func copyFile(fromFile, toFile string) {
	data, err := os.ReadFile(fromFile)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(toFile, data, 0o644); err != nil {
		log.Fatal(err)
	}
}

const readme = `The contents of this directory are copied from
https://github.com/json-schema-org/JSON-Schema-Test-Suite
by "go generate".

The files in this directory are covered by the LICENSE file
in this directory. They are only used for testing.
Packages that import the jsonschema packages will not import
these files, and will not be subject to this LICENSE.
`
