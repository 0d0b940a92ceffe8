// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"strings"
	"sync"
)

// Vocabulary is a vocabulary type: a list of known keywords.
// Each draft defines an instance of this type.
type Vocabulary struct {
	// The name of this draft, for messages.
	// Something like draft-04.
	Name string
	// The URI that describes this draft.
	// The value of the $schema keyword.
	// Something like "http://json-schema.org/draft-04/schema#".
	Schema string
	// The draft this vocabulary describes.
	Draft Draft
	// The keywords of this draft.
	Keywords map[string]*Keyword
	// The keyword that sets the resolution scope: "id" or "$id".
	ID *Keyword
}

// The vocabularies of the supported drafts.
var (
	Draft3Vocabulary = newVocabulary(Draft3, "http://json-schema.org/draft-03/schema#", &IDKeyword)
	Draft4Vocabulary = newVocabulary(Draft4, "http://json-schema.org/draft-04/schema#", &IDKeyword)
	Draft6Vocabulary = newVocabulary(Draft6, "http://json-schema.org/draft-06/schema#", &DollarIDKeyword)
)

func newVocabulary(d Draft, schema string, id *Keyword) *Vocabulary {
	v := &Vocabulary{
		Name:     d.String(),
		Schema:   schema,
		Draft:    d,
		Keywords: make(map[string]*Keyword),
		ID:       id,
	}
	for _, k := range allKeywords {
		if k.Drafts&d == 0 {
			continue
		}
		if old, dup := v.Keywords[k.Name]; dup {
			panic(fmt.Sprintf("jsonschema: %s defines %q twice (%s and %s)", v.Name, k.Name, old.ArgType, k.ArgType))
		}
		v.Keywords[k.Name] = k
	}
	return v
}

// VocabularyFor returns the vocabulary of a single draft,
// or nil if d is not one of [Draft3], [Draft4] or [Draft6].
func VocabularyFor(d Draft) *Vocabulary {
	switch d {
	case Draft3:
		return Draft3Vocabulary
	case Draft4:
		return Draft4Vocabulary
	case Draft6:
		return Draft6Vocabulary
	}
	return nil
}

// A registry is a mapping from schema URI to Vocabulary.
type registry struct {
	mu      sync.Mutex
	mapping map[string]*Vocabulary
	defval  *Vocabulary // default vocabulary
}

// add adds an item to the registry.
func (r *registry) add(s string, v *Vocabulary, def bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mapping == nil {
		r.mapping = make(map[string]*Vocabulary)
	}
	s = normalizeSchemaURI(s)
	if _, found := r.mapping[s]; found {
		panic(fmt.Sprintf("jsonschema: multiple attempts to add %q to registry", s))
	}
	r.mapping[s] = v
	if def {
		if r.defval != nil {
			panic("jsonschema: multiple default vocabularies")
		}
		r.defval = v
	}
}

// lookup returns an element from the registry,
// or nil if not present.
func (r *registry) lookup(s string) *Vocabulary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mapping[normalizeSchemaURI(s)]
}

// def returns the default vocabulary.
func (r *registry) def() *Vocabulary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defval
}

// setDef sets the default vocabulary.
func (r *registry) setDef(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.mapping {
		if v.Name == s {
			r.defval = v
			return nil
		}
	}

	return fmt.Errorf("setting default to %q failed: unknown schema ID", s)
}

// reg is the global registry.
var reg registry

func init() {
	RegisterVocabulary(Draft3Vocabulary, false)
	RegisterVocabulary(Draft4Vocabulary, true)
	RegisterVocabulary(Draft6Vocabulary, false)
}

// normalizeSchemaURI maps the spellings of a draft URI seen in the
// wild to one key: with or without a trailing '#', and http or https.
func normalizeSchemaURI(s string) string {
	s = strings.TrimSuffix(s, "#")
	if rest, ok := strings.CutPrefix(s, "https://"); ok {
		s = "http://" + rest
	}
	return s
}

// RegisterVocabulary registers a vocabulary.
// The def argument is true for the default vocabulary.
// The three supported drafts are registered automatically.
func RegisterVocabulary(v *Vocabulary, def bool) {
	reg.add(v.Schema, v, def)
}

// LookupVocabulary returns a registered vocabulary, or nil if no vocabulary
// was registered under that name.
func LookupVocabulary(s string) *Vocabulary {
	return reg.lookup(s)
}

// DefaultVocabulary returns the vocabulary used when a schema
// has no "$schema" keyword. This is draft-04 unless changed
// by [SetDefaultSchema].
func DefaultVocabulary() *Vocabulary {
	return reg.def()
}

// SetDefaultSchema sets the default schema.
// The argument should be something like "draft-04" or "draft-06".
// This is a global property; callers should use appropriate locking.
// This is mainly for tests. Loaders take a draft option instead.
func SetDefaultSchema(s string) error {
	return reg.setDef(s)
}
