// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
)

// MarshalJSON marshals a [Schema] into JSON format.
// This implements [encoding/json.Marshaler].
//
// The output is equivalent to the document the schema was loaded
// from: keywords keep their document order, "$ref" is written as
// the reference rather than its target, and unknown keywords are
// written back unchanged.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.marshalSchema(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshalSchema marshals a [Schema] into JSON format,
// storing the results in buf.
func (s *Schema) marshalSchema(buf *bytes.Buffer) error {
	if s == nil {
		return fmt.Errorf("schema.MarshalJSON: nil schema")
	}
	if isBoolSchema, isTrueSchema := s.IsBoolSchema(); isBoolSchema {
		buf.WriteString(strconv.FormatBool(isTrueSchema))
		return nil
	}

	buf.WriteByte('{')

	first := true
	member := func(name string) {
		if first {
			first = false
		} else {
			buf.WriteByte(',')
		}
		jsonvalue.AppendString(buf, name)
		buf.WriteByte(':')
	}

	for _, part := range s.Parts {
		if part.Keyword.Generated {
			continue
		}

		name := part.Keyword.Name

		switch v := part.Value.(type) {
		case PartBool:
			member(name)
			buf.WriteString(strconv.FormatBool(bool(v)))
		case PartString:
			member(name)
			jsonvalue.AppendString(buf, string(v))
		case PartStrings:
			member(name)
			writeStrings(buf, v)
		case PartInt:
			member(name)
			buf.WriteString(strconv.FormatInt(int64(v), 10))
		case PartNumber:
			member(name)
			buf.WriteString(string(v))
		case PartLimit:
			member(name)
			buf.WriteString(string(v.Limit))
			if v.Form == LimitBoolean {
				member(exclusiveCompanion(part.Keyword))
				buf.WriteString(strconv.FormatBool(v.Exclusive))
			}
		case PartTypes:
			member(name)
			if v.Single && len(v.Entries) == 1 {
				if err := writeTypeEntry(buf, v.Entries[0]); err != nil {
					return err
				}
				break
			}
			buf.WriteByte('[')
			for i, e := range v.Entries {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeTypeEntry(buf, e); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
		case PartAny:
			member(name)
			if err := jsonvalue.Append(buf, v.V); err != nil {
				return err
			}
		case PartArray:
			member(name)
			if err := jsonvalue.Append(buf, []any(v)); err != nil {
				return err
			}
		case PartSchema:
			member(name)
			if err := v.S.marshalSchema(buf); err != nil {
				return err
			}
		case PartSchemas:
			member(name)
			if err := writeSchemas(buf, v); err != nil {
				return err
			}
		case PartSchemaOrSchemas:
			member(name)
			if v.Schema != nil {
				if err := v.Schema.marshalSchema(buf); err != nil {
					return err
				}
			} else if err := writeSchemas(buf, v.Schemas); err != nil {
				return err
			}
		case PartMapSchema:
			member(name)
			buf.WriteByte('{')
			for pair := v.M.Oldest(); pair != nil; pair = pair.Next() {
				if pair != v.M.Oldest() {
					buf.WriteByte(',')
				}
				jsonvalue.AppendString(buf, pair.Key)
				buf.WriteByte(':')
				if err := pair.Value.marshalSchema(buf); err != nil {
					return err
				}
			}
			buf.WriteByte('}')
		case PartItems:
			if v.IsTuple {
				member(name)
				if err := writeSchemas(buf, v.Tuple); err != nil {
					return err
				}
			} else if v.All != nil {
				member(name)
				if err := v.All.marshalSchema(buf); err != nil {
					return err
				}
			}
			if v.Additional != nil {
				member(AdditionalItemsKeyword.Name)
				if err := v.Additional.marshalSchema(buf); err != nil {
					return err
				}
			}
		case PartDependencies:
			member(name)
			buf.WriteByte('{')
			for pair := v.M.Oldest(); pair != nil; pair = pair.Next() {
				if pair != v.M.Oldest() {
					buf.WriteByte(',')
				}
				jsonvalue.AppendString(buf, pair.Key)
				buf.WriteByte(':')
				dep := pair.Value
				switch {
				case dep.Schema != nil:
					if err := dep.Schema.marshalSchema(buf); err != nil {
						return err
					}
				case dep.Single && len(dep.Properties) == 1:
					jsonvalue.AppendString(buf, dep.Properties[0])
				default:
					writeStrings(buf, dep.Properties)
				}
			}
			buf.WriteByte('}')
		case PartRef:
			member(name)
			jsonvalue.AppendString(buf, v.Ref)
		default:
			return fmt.Errorf("schema.MarshalJSON: unexpected type %T", part.Value)
		}
	}

	buf.WriteByte('}')

	return nil
}

// exclusiveCompanion returns the name of the boolean keyword
// that accompanies a draft 3/4 bound.
func exclusiveCompanion(k *Keyword) string {
	if k.Name == MaximumKeyword.Name {
		return ExclusiveMaximumFlagKeyword.Name
	}
	return ExclusiveMinimumFlagKeyword.Name
}

func writeStrings(buf *bytes.Buffer, strs []string) {
	buf.WriteByte('[')
	for i, s := range strs {
		if i > 0 {
			buf.WriteByte(',')
		}
		jsonvalue.AppendString(buf, s)
	}
	buf.WriteByte(']')
}

func writeSchemas(buf *bytes.Buffer, schemas []*Schema) error {
	buf.WriteByte('[')
	for i, schema := range schemas {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := schema.marshalSchema(buf); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeTypeEntry(buf *bytes.Buffer, e TypeEntry) error {
	if e.Schema != nil {
		return e.Schema.marshalSchema(buf)
	}
	jsonvalue.AppendString(buf, e.Name)
	return nil
}

// IsBoolSchema reports whether schema is a boolean schema,
// and reports whether it is the "true" schema.
func (s *Schema) IsBoolSchema() (isBoolSchema, isTrueSchema bool) {
	for _, part := range s.Parts {
		if part.Keyword == &BoolKeyword {
			return true, bool(part.Value.(PartBool))
		}
	}
	return false, false
}
