// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonschema loads JSON schemas written for draft 3, 4 or 6
// and validates JSON values against them.
//
// Loading resolves every "$ref", fetching remote documents as needed.
// The loaded [Schema] is immutable and may be used for any number of
// concurrent validations.
package jsonschema

import (
	"context"
	"fmt"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
	"github.com/altshiftab/legacyschema/internal/validator"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/loader"
	"github.com/altshiftab/legacyschema/pkg/types"
)

type (
	Schema          = types.Schema
	ValidationError = types.ValidationError
	ValidateOpts    = types.ValidateOpts
)

// New loads the schema document in data.
func New(data []byte, opts ...loader.Option) (*Schema, error) {
	doc, err := jsonvalue.Decode(data)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("json unmarshal: %w", err))
	}
	return Load(context.Background(), doc, opts...)
}

// Load loads a schema document that has already been decoded,
// normally by [jsonvalue.Decode].
func Load(ctx context.Context, doc any, opts ...loader.Option) (*Schema, error) {
	return loader.New(opts...).Load(ctx, doc)
}

// LoadURI fetches and loads the schema identified by uri.
// A fragment selects a subschema of the fetched document.
func LoadURI(ctx context.Context, uri string, opts ...loader.Option) (*Schema, error) {
	return loader.New(opts...).LoadURI(ctx, uri)
}

// Validate reports whether instance satisfies s.
// It returns nil if it does and a [*ValidationError] if it does not.
// opts may be nil.
func Validate(s *Schema, instance any, opts *ValidateOpts) error {
	return validator.Validate(s, instance, opts)
}

// ValidateBytes decodes the JSON value in data and validates it against s.
func ValidateBytes(s *Schema, data []byte, opts *ValidateOpts) error {
	instance, err := jsonvalue.Decode(data)
	if err != nil {
		return motmedelErrors.NewWithTrace(fmt.Errorf("json unmarshal: %w", err))
	}
	return validator.Validate(s, instance, opts)
}
