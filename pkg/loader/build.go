// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"net/url"
	"strconv"

	"github.com/altshiftab/legacyschema/internal/recache"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
	"github.com/goccy/go-json"
)

// boundFlags maps a draft 3/4 bound to its boolean companion.
var boundFlags = map[string]string{
	"minimum": "exclusiveMinimum",
	"maximum": "exclusiveMaximum",
}

// flagBounds is the inverse of boundFlags.
var flagBounds = map[string]string{
	"exclusiveMinimum": "minimum",
	"exclusiveMaximum": "maximum",
}

// simpleTypes are the type names of drafts 4 and 6.
var simpleTypes = map[string]bool{
	"null":    true,
	"boolean": true,
	"object":  true,
	"array":   true,
	"number":  true,
	"string":  true,
	"integer": true,
}

// build builds the schema node for v at loc.
// boolOK reports whether true and false are schemas here.
func (ls *loadState) build(v any, loc types.Location, vocab *types.Vocabulary, boolOK bool) (*types.Schema, error) {
	switch k := jsonvalue.KindOf(v); k {
	case jsonvalue.KindObject:
	case jsonvalue.KindBool:
		if !boolOK {
			return nil, loc.Errorf("", "expected object, found boolean")
		}
		s := &types.Schema{
			Location: loc,
			Parts:    []types.Part{types.MakePart(&types.BoolKeyword, types.PartBool(v.(bool)))},
		}
		ls.register(s)
		return s, nil
	default:
		return nil, loc.Errorf("", "expected schema, found %s", k)
	}

	id, err := ls.idOf(v, loc, vocab)
	if err != nil {
		return nil, err
	}
	s := &types.Schema{Location: loc}
	if id != nil {
		s.Location = loc.WithScope(id)
		if id.Fragment == "" {
			key := withoutFragment(id).String()
			if _, ok := ls.scopes[key]; !ok {
				ls.scopes[key] = scope{value: v, loc: s.Location, vocab: vocab}
			}
		}
		ls.nodes.Store(uriKey(id), s)
	}
	// Register before building children,
	// so that a reference to an ancestor finds it.
	ls.register(s)

	for name, val := range jsonvalue.Members(v) {
		part, ok, err := ls.buildPart(v, name, val, s.Location, vocab)
		if err != nil {
			return nil, err
		}
		if ok {
			s.Parts = append(s.Parts, part)
		}
	}
	if implicit := types.InferTypes(s.Parts); implicit != nil {
		s.Parts = append(s.Parts, types.MakePart(&types.ImplicitTypeKeyword, types.PartStrings(implicit)))
	}
	return s, nil
}

// idOf returns the resolved identifier of the object v, or nil.
// An identifier next to a "$ref" does not change the scope.
func (ls *loadState) idOf(v any, loc types.Location, vocab *types.Vocabulary) (*url.URL, error) {
	if _, ok := jsonvalue.Get(v, types.RefKeyword.Name); ok {
		return nil, nil
	}
	name := vocab.ID.Name
	raw, ok := jsonvalue.Get(v, name)
	if !ok {
		return nil, nil
	}
	idloc := loc.WithChildPath(nil, name)
	str, ok := raw.(string)
	if !ok {
		return nil, idloc.Errorf(name, "expected string, found %s", jsonvalue.KindOf(raw))
	}
	u, err := loc.Resolve(str)
	if err != nil {
		return nil, idloc.Errorf(name, "invalid URI %q", str).Wrap(err)
	}
	return u, nil
}

// buildPart builds the part for the member name of obj.
// The bool result is false if the member is folded into another part.
func (ls *loadState) buildPart(obj any, name string, val any, loc types.Location, vocab *types.Vocabulary) (types.Part, bool, error) {
	kw, ok := vocab.Keywords[name]
	if !ok {
		return types.MakePart(types.UnknownKeyword(name), types.PartAny{V: val}), true, nil
	}
	ploc := loc.WithChildPath(nil, name)
	if err := checkAccepts(kw, val, ploc, vocab); err != nil {
		return types.Part{}, false, err
	}

	var pv types.PartValue
	switch kw.ArgType {
	case types.ArgTypeBool:
		if bound, ok := flagBounds[name]; ok {
			if _, ok := jsonvalue.Get(obj, bound); ok {
				return types.Part{}, false, nil
			}
		}
		pv = types.PartBool(val.(bool))

	case types.ArgTypeString:
		str := val.(string)
		if kw == &types.PatternKeyword {
			if _, err := recache.Compile(str); err != nil {
				return types.Part{}, false, ploc.Errorf(name, "invalid regular expression %q", str).Wrap(err)
			}
		}
		pv = types.PartString(str)

	case types.ArgTypeStrings:
		strs, err := stringList(val, ploc, name)
		if err != nil {
			return types.Part{}, false, err
		}
		pv = types.PartStrings(strs)

	case types.ArgTypeInt:
		n, ok := nonNegativeInt(val)
		if !ok {
			return types.Part{}, false, ploc.Errorf(name, "expected a non-negative integer, found %s", val)
		}
		pv = types.PartInt(n)

	case types.ArgTypeNumber:
		r, _ := jsonvalue.Rat(val)
		if r == nil || r.Sign() <= 0 {
			return types.Part{}, false, ploc.Errorf(name, "must be greater than 0, found %s", val)
		}
		lex, _ := jsonvalue.Lexical(val)
		pv = types.PartNumber(lex)

	case types.ArgTypeLimit:
		pv = buildLimit(obj, kw, val, vocab)

	case types.ArgTypeTypes:
		pt, err := ls.buildTypes(val, ploc, name, vocab)
		if err != nil {
			return types.Part{}, false, err
		}
		pv = pt

	case types.ArgTypeAny:
		pv = types.PartAny{V: val}

	case types.ArgTypeArray:
		pv = types.PartArray(val.([]any))

	case types.ArgTypeSchema:
		if kw == &types.AdditionalItemsKeyword {
			if _, ok := jsonvalue.Get(obj, types.ItemsKeyword.Name); ok {
				return types.Part{}, false, nil
			}
			add, err := ls.build(val, ploc, vocab, true)
			if err != nil {
				return types.Part{}, false, err
			}
			return types.MakePart(&types.ItemsKeyword, types.PartItems{Additional: add}), true, nil
		}
		boolOK := vocab.Draft == types.Draft6 || kw == &types.AdditionalPropertiesKeyword
		sub, err := ls.build(val, ploc, vocab, boolOK)
		if err != nil {
			return types.Part{}, false, err
		}
		pv = types.PartSchema{S: sub}

	case types.ArgTypeSchemas:
		subs, err := ls.buildList(val, ploc, vocab)
		if err != nil {
			return types.Part{}, false, err
		}
		if len(subs) == 0 {
			return types.Part{}, false, ploc.Errorf(name, "expected at least one schema")
		}
		pv = types.PartSchemas(subs)

	case types.ArgTypeSchemaOrSchemas:
		if jsonvalue.KindOf(val) == jsonvalue.KindArray {
			subs, err := ls.buildList(val, ploc, vocab)
			if err != nil {
				return types.Part{}, false, err
			}
			pv = types.PartSchemaOrSchemas{Schemas: subs}
		} else {
			sub, err := ls.build(val, ploc, vocab, vocab.Draft == types.Draft6)
			if err != nil {
				return types.Part{}, false, err
			}
			pv = types.PartSchemaOrSchemas{Schema: sub}
		}

	case types.ArgTypeMapSchema:
		m := types.NewSchemaMap()
		for key, sv := range jsonvalue.Members(val) {
			if kw == &types.PatternPropertiesKeyword {
				if _, err := recache.Compile(key); err != nil {
					return types.Part{}, false, ploc.Errorf(name, "invalid regular expression %q", key).Wrap(err)
				}
			}
			sub, err := ls.build(sv, ploc.WithChildPath(nil, key), vocab, vocab.Draft == types.Draft6)
			if err != nil {
				return types.Part{}, false, err
			}
			m.Set(key, sub)
		}
		pv = types.PartMapSchema{M: m}

	case types.ArgTypeItems:
		items, err := ls.buildItems(obj, val, loc, vocab)
		if err != nil {
			return types.Part{}, false, err
		}
		pv = items

	case types.ArgTypeDependencies:
		deps, err := ls.buildDependencies(val, ploc, vocab)
		if err != nil {
			return types.Part{}, false, err
		}
		pv = deps

	case types.ArgTypeRef:
		str := val.(string)
		u, err := loc.Resolve(str)
		if err != nil {
			return types.Part{}, false, ploc.Errorf(name, "invalid reference %q", str).Wrap(err)
		}
		h := ls.arena.Reserve()
		ls.pending = append(ls.pending, pendingRef{handle: h, uri: u, loc: ploc, depth: ls.depth})
		pv = types.PartRef{Ref: str, URI: u.String(), Target: h, Arena: ls.arena}

	default:
		return types.Part{}, false, ploc.Errorf(name, "unsupported argument type %s", kw.ArgType)
	}
	return types.MakePart(kw, pv), true, nil
}

// checkAccepts reports an error if val is not of a type kw accepts.
func checkAccepts(kw *types.Keyword, val any, loc types.Location, vocab *types.Vocabulary) error {
	accepted := kw.AcceptedTypes(vocab.Draft)
	if accepted&valueType(val) == 0 {
		return loc.Errorf(kw.Name, "expected %s, found %s", accepted, jsonvalue.KindOf(val))
	}
	return nil
}

// valueType returns the ValueType bit of a JSON value.
func valueType(v any) types.ValueType {
	switch jsonvalue.KindOf(v) {
	case jsonvalue.KindObject:
		return types.ValueObject
	case jsonvalue.KindArray:
		return types.ValueArray
	case jsonvalue.KindString:
		return types.ValueString
	case jsonvalue.KindNumber:
		return types.ValueNumber
	case jsonvalue.KindBool:
		if v.(bool) {
			return types.ValueTrue
		}
		return types.ValueFalse
	case jsonvalue.KindNull:
		return types.ValueNull
	}
	return 0
}

// buildLimit folds a bound and its draft 3/4 companion flag.
func buildLimit(obj any, kw *types.Keyword, val any, vocab *types.Vocabulary) types.PartLimit {
	lex, _ := jsonvalue.Lexical(val)
	lim := types.PartLimit{Limit: json.Number(lex)}
	switch {
	case kw == &types.ExclusiveMinimumKeyword, kw == &types.ExclusiveMaximumKeyword:
		lim.Exclusive = true
		lim.Form = types.LimitNumeric
	case vocab.Draft != types.Draft6:
		// A companion that is not a boolean is reported
		// when its own member is built.
		if b, ok := jsonvalue.Get(obj, boundFlags[kw.Name]); ok {
			if b, ok := b.(bool); ok {
				lim.Exclusive = b
				lim.Form = types.LimitBoolean
			}
		}
	}
	return lim
}

// buildTypes builds the value of "type" or "disallow".
func (ls *loadState) buildTypes(val any, loc types.Location, name string, vocab *types.Vocabulary) (types.PartTypes, error) {
	checkName := func(s string, loc types.Location) error {
		if vocab.Draft == types.Draft3 || simpleTypes[s] {
			return nil
		}
		return loc.Errorf(name, "unknown type %q", s)
	}

	if s, ok := val.(string); ok {
		if err := checkName(s, loc); err != nil {
			return types.PartTypes{}, err
		}
		return types.PartTypes{Single: true, Entries: []types.TypeEntry{{Name: s}}}, nil
	}

	var pt types.PartTypes
	for i, ev := range val.([]any) {
		eloc := loc.WithChildPath(nil, strconv.Itoa(i))
		switch jsonvalue.KindOf(ev) {
		case jsonvalue.KindString:
			s := ev.(string)
			if err := checkName(s, eloc); err != nil {
				return types.PartTypes{}, err
			}
			pt.Entries = append(pt.Entries, types.TypeEntry{Name: s})
		case jsonvalue.KindObject:
			if vocab.Draft != types.Draft3 {
				return types.PartTypes{}, eloc.Errorf(name, "expected string, found object")
			}
			sub, err := ls.build(ev, eloc, vocab, false)
			if err != nil {
				return types.PartTypes{}, err
			}
			pt.Entries = append(pt.Entries, types.TypeEntry{Schema: sub})
		default:
			return types.PartTypes{}, eloc.Errorf(name, "expected string, found %s", jsonvalue.KindOf(ev))
		}
	}
	return pt, nil
}

// buildList builds the schemas of an array.
func (ls *loadState) buildList(val any, loc types.Location, vocab *types.Vocabulary) ([]*types.Schema, error) {
	arr := val.([]any)
	subs := make([]*types.Schema, 0, len(arr))
	for i, ev := range arr {
		sub, err := ls.build(ev, loc.WithChildPath(nil, strconv.Itoa(i)), vocab, vocab.Draft == types.Draft6)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// buildItems builds "items" folded with "additionalItems".
// loc is the location of the enclosing node.
func (ls *loadState) buildItems(obj, val any, loc types.Location, vocab *types.Vocabulary) (types.PartItems, error) {
	var items types.PartItems
	iloc := loc.WithChildPath(nil, types.ItemsKeyword.Name)
	if jsonvalue.KindOf(val) == jsonvalue.KindArray {
		tuple, err := ls.buildList(val, iloc, vocab)
		if err != nil {
			return items, err
		}
		items.IsTuple = true
		items.Tuple = tuple
	} else {
		all, err := ls.build(val, iloc, vocab, vocab.Draft == types.Draft6)
		if err != nil {
			return items, err
		}
		items.All = all
	}

	if add, ok := jsonvalue.Get(obj, types.AdditionalItemsKeyword.Name); ok {
		aloc := loc.WithChildPath(nil, types.AdditionalItemsKeyword.Name)
		if err := checkAccepts(&types.AdditionalItemsKeyword, add, aloc, vocab); err != nil {
			return items, err
		}
		sub, err := ls.build(add, aloc, vocab, true)
		if err != nil {
			return items, err
		}
		items.Additional = sub
	}
	return items, nil
}

// buildDependencies builds the value of "dependencies".
func (ls *loadState) buildDependencies(val any, loc types.Location, vocab *types.Vocabulary) (types.PartDependencies, error) {
	name := types.DependenciesKeyword.Name
	deps := types.NewDependencyMap()
	for key, dv := range jsonvalue.Members(val) {
		dloc := loc.WithChildPath(nil, key)
		var dep types.Dependency
		switch k := jsonvalue.KindOf(dv); {
		case k == jsonvalue.KindArray:
			props, err := stringList(dv, dloc, name)
			if err != nil {
				return types.PartDependencies{}, err
			}
			dep.Properties = props
		case k == jsonvalue.KindString && vocab.Draft == types.Draft3:
			dep.Properties = []string{dv.(string)}
			dep.Single = true
		case k == jsonvalue.KindObject, k == jsonvalue.KindBool && vocab.Draft == types.Draft6:
			sub, err := ls.build(dv, dloc, vocab, true)
			if err != nil {
				return types.PartDependencies{}, err
			}
			dep.Schema = sub
		default:
			return types.PartDependencies{}, dloc.Errorf(name, "expected array or schema, found %s", k)
		}
		deps.Set(key, dep)
	}
	return types.PartDependencies{M: deps}, nil
}

// stringList returns the elements of an array that must all be strings.
func stringList(val any, loc types.Location, name string) ([]string, error) {
	arr := val.([]any)
	strs := make([]string, 0, len(arr))
	for i, ev := range arr {
		s, ok := ev.(string)
		if !ok {
			return nil, loc.WithChildPath(nil, strconv.Itoa(i)).Errorf(name, "expected string, found %s", jsonvalue.KindOf(ev))
		}
		strs = append(strs, s)
	}
	return strs, nil
}

// nonNegativeInt returns v as an int64
// if it is a non-negative integer that fits.
func nonNegativeInt(v any) (int64, bool) {
	r, ok := jsonvalue.Rat(v)
	if !ok || !r.IsInt() || r.Sign() < 0 || !r.Num().IsInt64() {
		return 0, false
	}
	return r.Num().Int64(), true
}
