// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// hasFamily reports whether s has a keyword of family f.
func (s *Schema) hasFamily(f Family) bool {
	for _, part := range s.Parts {
		if !part.Keyword.Generated && part.Keyword.Family == f {
			return true
		}
	}
	return false
}

// HasStringKeywords reports whether s has keywords that constrain strings.
func (s *Schema) HasStringKeywords() bool { return s.hasFamily(FamilyString) }

// HasNumberKeywords reports whether s has keywords that constrain numbers.
func (s *Schema) HasNumberKeywords() bool { return s.hasFamily(FamilyNumber) }

// HasArrayKeywords reports whether s has keywords that constrain arrays.
func (s *Schema) HasArrayKeywords() bool { return s.hasFamily(FamilyArray) }

// HasObjectKeywords reports whether s has keywords that constrain objects.
func (s *Schema) HasObjectKeywords() bool { return s.hasFamily(FamilyObject) }

// Keyword returns the part for the named keyword.
// Generated keywords are not found.
func (s *Schema) Keyword(name string) (Part, bool) {
	for _, part := range s.Parts {
		if !part.Keyword.Generated && part.Keyword.Name == name {
			return part, true
		}
	}
	return Part{}, false
}

// ID returns the value of "id" or "$id", or "".
func (s *Schema) ID() string {
	for _, part := range s.Parts {
		if part.Keyword == &IDKeyword || part.Keyword == &DollarIDKeyword {
			return string(part.Value.(PartString))
		}
	}
	return ""
}

// Ref returns the "$ref" of s.
// The bool result reports whether s has one.
func (s *Schema) Ref() (PartRef, bool) {
	for r := range s.Refs() {
		return r, true
	}
	return PartRef{}, false
}

// PropertySchemas returns the value of "properties", or nil.
func (s *Schema) PropertySchemas() *SchemaMap {
	if v, ok := s.LookupKeyword(PropertiesKeyword.Name); ok {
		if m, ok := v.(PartMapSchema); ok {
			return m.M
		}
	}
	return nil
}

// RequiredProperties returns the names of the properties an object
// must have: the "required" list of drafts 4 and 6, or for draft 3
// the properties whose schema says "required": true.
func (s *Schema) RequiredProperties() []string {
	var ret []string
	for _, part := range s.Parts {
		if part.Keyword == &RequiredKeyword {
			ret = append(ret, part.Value.(PartStrings)...)
		}
	}
	if props := s.PropertySchemas(); props != nil {
		for pair := props.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.IsDraft3Required() {
				ret = append(ret, pair.Key)
			}
		}
	}
	return ret
}

// IsDraft3Required reports whether s has the draft 3 "required": true.
func (s *Schema) IsDraft3Required() bool {
	for _, part := range s.Parts {
		if part.Keyword == &Draft3RequiredKeyword {
			return bool(part.Value.(PartBool))
		}
	}
	return false
}

// Types returns the value of "type".
// The bool result reports whether s has one.
func (s *Schema) Types() (PartTypes, bool) {
	for _, part := range s.Parts {
		if part.Keyword == &TypeKeyword || part.Keyword == &Draft3TypeKeyword {
			return part.Value.(PartTypes), true
		}
	}
	return PartTypes{}, false
}

// ImplicitTypes returns the instance types implied by the
// type-specific keywords of a schema that has no "type" keyword.
// It returns nil if s has a "type" keyword or no such keywords.
func (s *Schema) ImplicitTypes() []string {
	for _, part := range s.Parts {
		if part.Keyword == &ImplicitTypeKeyword {
			return part.Value.(PartStrings)
		}
	}
	return nil
}

// InferTypes computes the value for [ImplicitTypeKeyword]:
// the instance types that the keywords of parts constrain,
// in the order number, string, array, object.
func InferTypes(parts []Part) []string {
	var seen [FamilyObject + 1]bool
	for _, part := range parts {
		if part.Keyword.Generated {
			continue
		}
		if part.Keyword == &TypeKeyword || part.Keyword == &Draft3TypeKeyword {
			return nil
		}
		switch f := part.Keyword.Family; f {
		case FamilyString, FamilyNumber, FamilyArray, FamilyObject:
			seen[f] = true
		}
	}
	var ret []string
	for _, f := range []Family{FamilyNumber, FamilyString, FamilyArray, FamilyObject} {
		if seen[f] {
			ret = append(ret, f.InstanceType())
		}
	}
	return ret
}
