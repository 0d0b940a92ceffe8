// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package suite runs the JSON-Schema-Test-Suite tests for
// drafts 3, 4 and 6 against the loader and validator.
// The tests are downloaded into testdata by "go generate";
// without them the test is skipped.
package suite

//go:generate go run ../cmd/testgen
