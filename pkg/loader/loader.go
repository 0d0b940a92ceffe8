// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader turns JSON schema documents of drafts 3, 4 and 6
// into [types.Schema] values.
//
// Loading happens in two phases. The first builds the schema nodes
// of a document, giving every "$ref" an empty slot in a [types.Arena].
// The second resolves the references one at a time, filling their
// slots with nodes that already exist or with nodes built from
// other parts of the document, from the embedded meta-schemas,
// or from documents retrieved by a [Fetcher]. A schema is only
// returned once every slot is filled.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/altshiftab/legacyschema/internal/metaschema"
	"github.com/altshiftab/legacyschema/internal/schemacache"
	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
)

// Loader loads schemas.
// A Loader is safe for concurrent use;
// each load uses its own cache of nodes.
type Loader struct {
	opts Options
}

// New returns a Loader configured by opts.
func New(opts ...Option) *Loader {
	l := &Loader{opts: Options{MaxRefDepth: DefaultMaxRefDepth}}
	for _, o := range opts {
		o(&l.opts)
	}
	if l.opts.Fetcher == nil {
		l.opts.Fetcher = DefaultFetcher
	}
	if l.opts.Logger == nil {
		l.opts.Logger = slog.Default()
	}
	if l.opts.MaxRefDepth <= 0 {
		l.opts.MaxRefDepth = DefaultMaxRefDepth
	}
	return l
}

// Load loads a schema from a JSON value decoded by [jsonvalue.Decode].
// The document has the URI given by [WithBaseURI], if any.
func (l *Loader) Load(ctx context.Context, doc any) (*types.Schema, error) {
	ls := l.newState(ctx)
	root, err := ls.loadDocument(l.opts.BaseURI, doc, 0)
	if err != nil {
		return nil, err
	}
	if err := ls.resolveAll(); err != nil {
		return nil, err
	}
	ls.logLoaded(root)
	return root, nil
}

// LoadBytes loads a schema from JSON text.
func (l *Loader) LoadBytes(ctx context.Context, data []byte) (*types.Schema, error) {
	doc, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, doc)
}

// LoadURI loads the schema at uri, which is resolved against
// the base URI. A fragment selects a schema within the document.
func (l *Loader) LoadURI(ctx context.Context, uri string) (*types.Schema, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: invalid schema URI %q: %w", uri, err)
	}
	if l.opts.BaseURI != nil {
		u = l.opts.BaseURI.ResolveReference(u)
	}

	ls := l.newState(ctx)
	h := ls.arena.Reserve()
	ls.pending = append(ls.pending, pendingRef{
		handle: h,
		uri:    u,
		loc:    types.NewLocation(u),
		// The requested document itself is not a nested load.
		depth: -1,
	})
	if err := ls.resolveAll(); err != nil {
		return nil, err
	}
	root := ls.arena.Node(h)
	ls.logLoaded(root)
	return root, nil
}

// loadState is the state of a single load.
// It is not safe for concurrent use.
type loadState struct {
	ctx   context.Context
	opts  *Options
	log   *slog.Logger
	arena *types.Arena
	// Every node built, by canonical URI and by
	// resolution scope URI.
	nodes schemacache.Cache[*types.Schema]
	// Documents, and nodes with an "id" that names a
	// document, by URI without fragment.
	scopes map[string]scope
	// References whose slots are not yet filled.
	pending []pendingRef
	// The number of nested reference loads that led
	// to the nodes being built.
	depth int
}

// scope is the root node of a resolution scope,
// to which the fragment of a reference is applied.
type scope struct {
	value any
	loc   types.Location
	vocab *types.Vocabulary
}

type pendingRef struct {
	handle types.Handle
	uri    *url.URL
	// The location of the "$ref" member.
	loc   types.Location
	depth int
}

func (l *Loader) newState(ctx context.Context) *loadState {
	return &loadState{
		ctx:    ctx,
		opts:   &l.opts,
		log:    l.opts.Logger,
		arena:  &types.Arena{},
		scopes: make(map[string]scope),
	}
}

// loadDocument builds the nodes of a document.
func (ls *loadState) loadDocument(uri *url.URL, doc any, depth int) (*types.Schema, error) {
	loc := types.NewLocation(uri)
	vocab, err := ls.vocabularyOf(doc, loc)
	if err != nil {
		return nil, err
	}
	key := ""
	if loc.Document != nil {
		key = loc.Document.String()
	}
	if _, ok := ls.scopes[key]; !ok {
		ls.scopes[key] = scope{value: doc, loc: loc, vocab: vocab}
	}
	ls.depth = depth
	return ls.build(doc, loc, vocab, vocab.Draft == types.Draft6)
}

// vocabularyOf returns the vocabulary named by the "$schema"
// of a document.
func (ls *loadState) vocabularyOf(doc any, loc types.Location) (*types.Vocabulary, error) {
	raw, ok := jsonvalue.Get(doc, types.SchemaKeyword.Name)
	if !ok {
		return ls.opts.vocabulary(), nil
	}
	mloc := loc.WithChildPath(nil, types.SchemaKeyword.Name)
	s, ok := raw.(string)
	if !ok {
		return nil, mloc.Errorf(types.SchemaKeyword.Name, "expected string, found %s", jsonvalue.KindOf(raw))
	}
	v := types.LookupVocabulary(s)
	if v == nil {
		return nil, mloc.Errorf(types.SchemaKeyword.Name, "unsupported schema version %q", s)
	}
	return v, nil
}

// resolveAll fills the slots of the pending references.
// Resolving a reference may add more.
func (ls *loadState) resolveAll() error {
	for len(ls.pending) > 0 {
		p := ls.pending[0]
		ls.pending = ls.pending[1:]

		target, err := ls.resolve(p)
		if err != nil {
			return err
		}
		if err := ls.arena.Set(p.handle, target); err != nil {
			return err
		}
	}
	if unfilled := ls.arena.Unfilled(); len(unfilled) > 0 {
		return fmt.Errorf("jsonschema: %d references left unresolved", len(unfilled))
	}
	return nil
}

// resolve finds or builds the target of a reference.
func (ls *loadState) resolve(p pendingRef) (*types.Schema, error) {
	key := uriKey(p.uri)
	if s, ok := ls.nodes.Load(key); ok {
		ls.log.Debug("jsonschema: reference resolved from cache", "uri", key)
		return s, nil
	}

	docURI := withoutFragment(p.uri)
	sc, ok := ls.scopes[docURI.String()]
	if !ok {
		if err := ls.checkDepth(p); err != nil {
			return nil, err
		}
		doc, err := ls.retrieve(docURI)
		if err != nil {
			return nil, err
		}
		if _, err := ls.loadDocument(docURI, doc, p.depth+1); err != nil {
			return nil, err
		}
		if s, ok := ls.nodes.Load(key); ok {
			return s, nil
		}
		sc = ls.scopes[docURI.String()]
	}

	ptr, err := fragmentPointer(p.uri.Fragment)
	if err != nil {
		return nil, p.loc.Errorf(types.RefKeyword.Name, "can't resolve reference %q", p.uri).Wrap(err)
	}
	val, err := jsonpointer.Deref(sc.value, ptr)
	if err != nil {
		return nil, p.loc.Errorf(types.RefKeyword.Name, "can't resolve reference %q", p.uri).Wrap(err)
	}

	// The target may have been built under its document path.
	loc := sc.loc.WithChildPath(nil, ptr.Segments()...)
	if s, ok := ls.nodes.Load(loc.CanonicalURI()); ok {
		return s, nil
	}

	// The target is not in the schema tree, as inside an
	// unknown keyword: build it now.
	if err := ls.checkDepth(p); err != nil {
		return nil, err
	}
	ls.depth = p.depth + 1
	return ls.build(val, loc, sc.vocab, true)
}

// checkDepth reports an error if resolving p requires
// more nested loads than permitted.
func (ls *loadState) checkDepth(p pendingRef) error {
	if p.depth+1 > ls.opts.MaxRefDepth {
		return &types.ResolutionDepthError{
			URI:   p.uri.String(),
			Depth: ls.opts.MaxRefDepth,
		}
	}
	return nil
}

// retrieve returns the decoded document at uri, which has no fragment.
// The meta-schemas never need to be fetched.
func (ls *loadState) retrieve(uri *url.URL) (any, error) {
	doc, ok, err := metaschema.Load(uri)
	if err != nil {
		return nil, err
	}
	if ok {
		ls.log.Debug("jsonschema: using embedded meta-schema", "uri", uri.String())
		return doc, nil
	}

	ls.log.Debug("jsonschema: fetching schema", "uri", uri.String())
	data, err := ls.opts.Fetcher.Fetch(ls.ctx, uri)
	if err != nil {
		return nil, err
	}
	doc, err = jsonvalue.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("jsonschema: decoding schema %s: %w", uri, err)
	}
	return doc, nil
}

// logLoaded logs the size of the tree below root.
func (ls *loadState) logLoaded(root *types.Schema) {
	if !ls.log.Enabled(ls.ctx, slog.LevelDebug) {
		return
	}
	nodes, refs := 0, 0
	root.Walk(func(s *types.Schema) bool {
		nodes++
		for range s.Refs() {
			refs++
		}
		return true
	})
	ls.log.DebugContext(ls.ctx, "jsonschema: schema loaded",
		"uri", root.Location.AbsoluteURI(), "nodes", nodes, "refs", refs, "slots", ls.arena.Len())
}

// register records a newly built node.
// A node registered earlier under the same URI is kept.
func (ls *loadState) register(s *types.Schema) {
	ls.nodes.Store(s.Location.CanonicalURI(), s)
	ls.nodes.Store(s.Location.AbsoluteURI(), s)
}

// uriKey returns the cache key of a URI. A fragment that is a JSON
// pointer is written the way [types.Location] writes it.
func uriKey(u *url.URL) string {
	base := withoutFragment(u).String()
	if p, err := fragmentPointer(u.Fragment); err == nil {
		return base + p.Fragment()
	}
	return base + "#" + u.Fragment
}

// fragmentPointer parses a decoded URI fragment as a JSON pointer.
func fragmentPointer(frag string) (jsonpointer.Pointer, error) {
	return jsonpointer.Parse(frag)
}

func withoutFragment(u *url.URL) *url.URL {
	ret := *u
	ret.Fragment = ""
	ret.RawFragment = ""
	return &ret
}
