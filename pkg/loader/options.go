// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"log/slog"
	"net/url"

	"github.com/altshiftab/legacyschema/pkg/types"
)

// DefaultMaxRefDepth is the default limit on nested reference loads.
const DefaultMaxRefDepth = 10

// Options configures a [Loader].
type Options struct {
	// Draft is the draft of documents with no "$schema" keyword.
	// If zero, the draft of [types.DefaultVocabulary] is used.
	Draft types.Draft
	// Fetcher retrieves documents named by references.
	// If nil, [DefaultFetcher] is used.
	Fetcher Fetcher
	// BaseURI is the URI of documents loaded from bytes or values.
	BaseURI *url.URL
	// Logger receives debug messages about reference resolution.
	// If nil, [slog.Default] is used.
	Logger *slog.Logger
	// MaxRefDepth is the number of nested reference loads
	// after which loading fails with a [*types.ResolutionDepthError].
	MaxRefDepth int
}

// Option is a function that modifies the Options struct.
type Option func(*Options)

// WithDraft sets the draft used for documents with no "$schema".
func WithDraft(d types.Draft) Option {
	return func(opts *Options) {
		opts.Draft = d
	}
}

// WithFetcher sets the Fetcher.
func WithFetcher(f Fetcher) Option {
	return func(opts *Options) {
		opts.Fetcher = f
	}
}

// WithBaseURI sets the BaseURI.
func WithBaseURI(u *url.URL) Option {
	return func(opts *Options) {
		opts.BaseURI = u
	}
}

// WithLogger sets the Logger.
func WithLogger(l *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithMaxRefDepth sets the MaxRefDepth.
func WithMaxRefDepth(n int) Option {
	return func(opts *Options) {
		opts.MaxRefDepth = n
	}
}

// vocabulary returns the vocabulary for documents with no "$schema".
func (o *Options) vocabulary() *types.Vocabulary {
	if v := types.VocabularyFor(o.Draft); v != nil {
		return v
	}
	return types.DefaultVocabulary()
}
