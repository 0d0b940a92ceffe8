// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metaschema holds the meta-schemas of the supported drafts,
// so that a reference to one never needs the network.
package metaschema

import (
	"embed"
	"fmt"
	"net/url"
	"strings"

	"github.com/altshiftab/legacyschema/internal/schemacache"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
)

//go:embed metaschema/*.json
var metaFS embed.FS

// metaCache is a cache of the decoded meta-schemas.
// We use a single cache since they don't change.
// It holds JSON values rather than schemas:
// each load builds its own schema nodes from them.
var metaCache schemacache.ConcurrentCache[any]

// Name returns the draft name of a meta-schema URI, such as "draft-04",
// or "" if uri is not the URI of a supported meta-schema.
// Both http and https are recognized, with or without the
// trailing empty fragment.
func Name(uri *url.URL) string {
	if uri == nil || (uri.Scheme != "http" && uri.Scheme != "https") {
		return ""
	}
	if uri.Host != "json-schema.org" {
		return ""
	}
	name, ok := strings.CutSuffix(strings.TrimPrefix(uri.Path, "/"), "/schema")
	if !ok {
		return ""
	}
	switch name {
	case "draft-03", "draft-04", "draft-06":
		return name
	}
	return ""
}

// Load checks whether uri refers to a meta-schema,
// and returns its decoded document if it does.
// If uri is not a meta-schema, this returns nil, false, nil.
func Load(uri *url.URL) (any, bool, error) {
	name := Name(uri)
	if name == "" {
		return nil, false, nil
	}

	if doc, ok := metaCache.Load(name); ok {
		return doc, true, nil
	}

	data, err := metaFS.ReadFile("metaschema/" + name + ".json")
	if err != nil {
		return nil, false, fmt.Errorf("can't find meta-schema URI %q: %v", uri, err)
	}

	doc, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, false, fmt.Errorf("can't parse meta-schema URI %q: %v", uri, err)
	}

	return metaCache.Store(name, doc), true, nil
}

// URI returns the canonical URI of the named draft's meta-schema,
// as written in its "id".
func URI(name string) string {
	return "http://json-schema.org/" + name + "/schema#"
}
