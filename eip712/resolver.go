// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package eip712 implements the typed structured data hashing of EIP-712 on
// top of the dynamic ABI type system.
package eip712

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ethval/dynabi/abi"
	"github.com/ethval/dynabi/common"
	"github.com/ethval/dynabi/crypto"
)

// referenceTypeRegexp matches a struct type reference, with optional array
// suffixes. It may accept strings that are not valid type expressions, e.g.
// "fooo[[[["; those fail later during resolution.
var referenceTypeRegexp = regexp.MustCompile(`^[A-Za-z](\w*)(\[\d*\])*$`)

// Field is one member of a struct definition: a name and a type reference,
// which is either an ABI type string or the name of another registered
// struct, with optional array suffixes.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Types maps struct names to their ordered field lists.
type Types map[string][]Field

// typeName strips array suffixes from a type reference: "Person[3][]"
// becomes "Person".
func typeName(ref string) string {
	if i := strings.IndexByte(ref, '['); i > 0 {
		return ref[:i]
	}
	return ref
}

// Resolver holds a validated struct type graph. Validation runs once at
// construction; if it fails, every query on the resolver returns the
// construction error. A successfully built resolver is immutable and safe
// for concurrent use.
type Resolver struct {
	defs        Types
	encodeTypes map[string]string
	resolved    map[string]*abi.Type
	err         error
}

// NewResolver registers a batch of struct definitions and validates the
// resulting type graph: every field must reference a primitive type or a
// registered struct, and the reference graph must be acyclic.
func NewResolver(defs Types) *Resolver {
	r := &Resolver{
		defs:        defs,
		encodeTypes: make(map[string]string, len(defs)),
		resolved:    make(map[string]*abi.Type, len(defs)),
	}
	if r.err = r.validate(); r.err != nil {
		return r
	}
	// Precompute the queries so the built resolver is read-only.
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.encodeTypes[name] = r.encodeType(name)
		if _, err := r.buildType(name); err != nil {
			r.err = err
			return r
		}
	}
	return r
}

// Err returns the construction error, if any.
func (r *Resolver) Err() error {
	return r.err
}

// validate checks every field reference and then walks the graph for cycles.
func (r *Resolver) validate() error {
	for name, fields := range r.defs {
		if !referenceTypeRegexp.MatchString(name) || typeName(name) != name {
			return fmt.Errorf("%w: invalid struct name %q", abi.ErrInvalidTypeString, name)
		}
		for _, field := range fields {
			if field.Name == "" {
				return fmt.Errorf("%w: struct %s has an unnamed field", abi.ErrInvalidTypeString, name)
			}
			root := typeName(field.Type)
			if _, ok := r.defs[root]; ok {
				if !referenceTypeRegexp.MatchString(field.Type) {
					return fmt.Errorf("%w: %q", abi.ErrInvalidTypeString, field.Type)
				}
				continue
			}
			if err := abi.CheckBasicSolidity(field.Type); err != nil {
				if referenceTypeRegexp.MatchString(field.Type) {
					return fmt.Errorf("%w: struct %s field %s references undefined type %s",
						abi.ErrMissingType, name, field.Name, root)
				}
				return fmt.Errorf("struct %s field %s: %w", name, field.Name, err)
			}
		}
	}
	// Depth-first walk with an explicit on-path set. A registered name seen
	// again while still on the active path closes a cycle.
	onPath := make(map[string]bool)
	done := make(map[string]bool)
	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if onPath[name] {
			return fmt.Errorf("%w: type %s references itself", abi.ErrCircularDependency, name)
		}
		onPath[name] = true
		for _, field := range r.defs[name] {
			root := typeName(field.Type)
			if _, ok := r.defs[root]; ok {
				if err := visit(root); err != nil {
					return err
				}
			}
		}
		onPath[name] = false
		done[name] = true
		return nil
	}
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// dependencies collects the struct names transitively referenced by name,
// including name itself, in depth-first discovery order.
func (r *Resolver) dependencies(name string, found []string) []string {
	for _, f := range found {
		if f == name {
			return found
		}
	}
	if _, ok := r.defs[name]; !ok {
		return found
	}
	found = append(found, name)
	for _, field := range r.defs[name] {
		found = r.dependencies(typeName(field.Type), found)
	}
	return found
}

// encodeType renders the type encoding of a validated struct: the primary
// production first, then every transitively referenced struct exactly once,
// ordered lexicographically by name.
func (r *Resolver) encodeType(name string) string {
	deps := r.dependencies(name, nil)
	if len(deps) > 1 {
		tail := deps[1:]
		sort.Strings(tail)
	}
	var buf strings.Builder
	for _, dep := range deps {
		buf.WriteString(dep)
		buf.WriteByte('(')
		for i, field := range r.defs[dep] {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(field.Type)
			buf.WriteByte(' ')
			buf.WriteString(field.Name)
		}
		buf.WriteByte(')')
	}
	return buf.String()
}

// EncodeType returns the EIP-712 type encoding of the named struct, e.g.
// "Mail(Person from,Person to,string contents)Person(string name,address wallet)".
func (r *Resolver) EncodeType(name string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	enc, ok := r.encodeTypes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", abi.ErrMissingType, name)
	}
	return enc, nil
}

// TypeHash returns keccak256 of the type encoding of the named struct.
func (r *Resolver) TypeHash(name string) (common.Hash, error) {
	enc, err := r.EncodeType(name)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte(enc)), nil
}

// Resolve turns a type reference into a dynamic ABI type. Registered struct
// names resolve to named struct types; everything else follows the ABI type
// grammar.
func (r *Resolver) Resolve(ref string) (abi.Type, error) {
	if r.err != nil {
		return abi.Type{}, r.err
	}
	return abi.ParseTypeWith(ref, func(name string) (abi.Type, bool) {
		t, ok := r.resolved[name]
		if !ok {
			return abi.Type{}, false
		}
		return *t, true
	})
}

// buildType resolves a registered struct into a named tuple type, memoizing
// the result. The graph is acyclic at this point, so the recursion is
// bounded by the number of registered types.
func (r *Resolver) buildType(name string) (*abi.Type, error) {
	if t, ok := r.resolved[name]; ok {
		return t, nil
	}
	fields := r.defs[name]
	fieldNames := make([]string, len(fields))
	elems := make([]*abi.Type, len(fields))
	for i, field := range fields {
		var inner error
		t, err := abi.ParseTypeWith(field.Type, func(ref string) (abi.Type, bool) {
			if _, ok := r.defs[ref]; !ok {
				return abi.Type{}, false
			}
			sub, err := r.buildType(ref)
			if err != nil {
				inner = err
				return abi.Type{}, false
			}
			return *sub, true
		})
		if inner != nil {
			return nil, inner
		}
		if err != nil {
			return nil, fmt.Errorf("struct %s field %s: %w", name, field.Name, err)
		}
		fieldNames[i] = field.Name
		elems[i] = &t
	}
	st, err := abi.NewStructType(name, fieldNames, elems)
	if err != nil {
		return nil, err
	}
	r.resolved[name] = &st
	return &st, nil
}

// HashStruct computes keccak256(typeHash ‖ dataWord(field₁) ‖ …) for a value
// of the named struct type.
func (r *Resolver) HashStruct(name string, v abi.Value) (common.Hash, error) {
	if r.err != nil {
		return common.Hash{}, r.err
	}
	typ, ok := r.resolved[name]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", abi.ErrMissingType, name)
	}
	if err := abi.TypeCheck(typ, v); err != nil {
		return common.Hash{}, err
	}
	enc, err := r.encodeData(typ, v)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// encodeData produces typeHash ‖ field words for a struct-typed value.
func (r *Resolver) encodeData(t *abi.Type, v abi.Value) ([]byte, error) {
	th, err := r.TypeHash(t.TupleRawName)
	if err != nil {
		return nil, err
	}
	fields, err := structFields(v)
	if err != nil {
		return nil, err
	}
	enc := make([]byte, 0, 32*(len(fields)+1))
	enc = append(enc, th.Bytes()...)
	for i, field := range fields {
		w, err := r.dataWord(t.TupleElems[i], field)
		if err != nil {
			return nil, err
		}
		enc = append(enc, w[:]...)
	}
	return enc, nil
}

// dataWord computes the 32 byte EIP-712 representation of one value: atomic
// values encode as their ABI word, dynamic byte strings hash their contents,
// arrays hash the concatenation of their element words, and structs hash
// their encodeData.
func (r *Resolver) dataWord(t *abi.Type, v abi.Value) ([32]byte, error) {
	var w [32]byte
	switch t.T {
	case abi.BytesTy:
		b, ok := v.(abi.BytesValue)
		if !ok {
			return w, fmt.Errorf("%w: %T for bytes", abi.ErrTypeMismatch, v)
		}
		return crypto.Keccak256Hash(b), nil

	case abi.StringTy:
		s, ok := v.(abi.StringValue)
		if !ok {
			return w, fmt.Errorf("%w: %T for string", abi.ErrTypeMismatch, v)
		}
		return crypto.Keccak256Hash([]byte(s)), nil

	case abi.SliceTy, abi.ArrayTy:
		var elems []abi.Value
		switch v := v.(type) {
		case abi.SliceValue:
			elems = v
		case abi.ArrayValue:
			elems = v
		default:
			return w, fmt.Errorf("%w: %T for %v", abi.ErrTypeMismatch, v, t)
		}
		buf := make([]byte, 0, 32*len(elems))
		for _, elem := range elems {
			ew, err := r.dataWord(t.Elem, elem)
			if err != nil {
				return w, err
			}
			buf = append(buf, ew[:]...)
		}
		return crypto.Keccak256Hash(buf), nil

	case abi.TupleTy:
		if t.TupleRawName == "" {
			return w, fmt.Errorf("%w: anonymous tuples have no typed-data encoding", abi.ErrTypeMismatch)
		}
		enc, err := r.encodeData(t, v)
		if err != nil {
			return w, err
		}
		return crypto.Keccak256Hash(enc), nil

	default:
		tok, err := abi.Tokenize(t, v)
		if err != nil {
			return w, err
		}
		word, ok := tok.(abi.WordToken)
		if !ok {
			return w, fmt.Errorf("%w: %v is not word sized", abi.ErrTypeMismatch, t)
		}
		return [32]byte(word), nil
	}
}

// structFields extracts the ordered member values of a struct or tuple
// value.
func structFields(v abi.Value) ([]abi.Value, error) {
	switch v := v.(type) {
	case abi.StructValue:
		return v.Fields, nil
	case abi.TupleValue:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a struct", abi.ErrTypeMismatch, v)
	}
}
