// Copyright 2022 The go-ethereum Authors
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

package abi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RecursionLimit bounds the nesting depth accepted by the parser and the
// codec. Exceeding it fails with ErrRecursionLimitExceeded before the call
// stack does.
const RecursionLimit = 80

// recursionCheck is the shared depth guard. enter must be paired with exit.
type recursionCheck struct {
	current int
}

func (c *recursionCheck) enter() error {
	c.current++
	if c.current >= RecursionLimit {
		return ErrRecursionLimitExceeded
	}
	return nil
}

func (c *recursionCheck) exit() {
	c.current--
}

// TypeSpecifier is the lexical form of a type signature: a stem, which is
// either a root identifier or a tuple of nested specifiers, and a list of
// array sizes in innermost-to-outermost order. Custom identifiers are kept
// unresolved; Resolve binds them against the built-in primitive set and an
// optional lookup for named struct types.
type TypeSpecifier struct {
	Span    string           // the source text of this specifier
	Stem    string           // root identifier, empty when IsTuple
	IsTuple bool             // true when the stem is a parenthesized tuple
	Tuple   []*TypeSpecifier // tuple members, nil unless IsTuple
	Sizes   []int            // array sizes, innermost first; DynamicSize marks []
}

// DynamicSize marks a dynamic array suffix in TypeSpecifier.Sizes.
const DynamicSize = -1

// IsArray reports whether the specifier carries at least one array suffix.
func (spec *TypeSpecifier) IsArray() bool {
	return len(spec.Sizes) > 0
}

// ParseTypeSpecifier parses a type signature without resolving identifiers.
// The whole input must be consumed.
func ParseTypeSpecifier(s string) (*TypeSpecifier, error) {
	check := new(recursionCheck)
	return parseSpecifier(strings.TrimSpace(s), check)
}

// ParseType parses a type signature and resolves it against the built-in
// primitive set. Unknown identifiers fail with ErrMissingType.
func ParseType(s string) (Type, error) {
	return ParseTypeWith(s, nil)
}

// ParseTypeWith parses a type signature, resolving custom identifiers through
// the given lookup. A nil lookup rejects all custom identifiers.
func ParseTypeWith(s string, resolve func(name string) (Type, bool)) (Type, error) {
	spec, err := ParseTypeSpecifier(s)
	if err != nil {
		return Type{}, err
	}
	return spec.Resolve(resolve)
}

// CheckBasicSolidity verifies that s names a type composed entirely of the
// built-in primitive set. Out-of-range widths fail with ErrInvalidSize,
// unknown identifiers with ErrInvalidTypeString.
func CheckBasicSolidity(s string) error {
	spec, err := ParseTypeSpecifier(s)
	if err != nil {
		return err
	}
	if _, err := spec.Resolve(nil); err != nil {
		if errors.Is(err, ErrMissingType) {
			return typeStrErr("%s is not a basic solidity type", s)
		}
		return err
	}
	return nil
}

func parseSpecifier(span string, check *recursionCheck) (*TypeSpecifier, error) {
	if err := check.enter(); err != nil {
		return nil, err
	}
	defer check.exit()

	if span == "" {
		return nil, typeStrErr("empty type")
	}
	// Split the stem from the array suffixes. A tuple stem ends at the last
	// closing parenthesis; a root stem ends at the first bracket.
	var stem, suffix string
	if i := strings.LastIndexByte(span, ')'); i >= 0 {
		stem, suffix = span[:i+1], span[i+1:]
	} else if i := strings.IndexByte(span, '['); i >= 0 {
		stem, suffix = span[:i], span[i:]
	} else {
		stem, suffix = span, ""
	}
	spec := &TypeSpecifier{Span: span}

	var err error
	if spec.Sizes, err = parseSizes(suffix, check); err != nil {
		return nil, err
	}
	if strings.HasSuffix(stem, ")") {
		spec.IsTuple = true
		if spec.Tuple, err = parseTuple(stem, check); err != nil {
			return nil, err
		}
	} else {
		if !isValidIdentifier(stem) {
			return nil, typeStrErr("invalid identifier %q", stem)
		}
		spec.Stem = stem
	}
	return spec, nil
}

// parseTuple parses a parenthesized member list, optionally prefixed by the
// literal keyword "tuple".
func parseTuple(s string, check *recursionCheck) ([]*TypeSpecifier, error) {
	body, ok := strings.CutPrefix(s, "tuple")
	if ok {
		body = strings.TrimSpace(body)
	} else {
		body = s
	}
	if len(body) < 2 || body[0] != '(' || body[len(body)-1] != ')' {
		return nil, typeStrErr("malformed tuple %q", s)
	}
	members, err := splitTopLevel(body[1 : len(body)-1])
	if err != nil {
		return nil, err
	}
	specs := make([]*TypeSpecifier, 0, len(members))
	for _, member := range members {
		spec, err := parseSpecifier(strings.TrimSpace(member), check)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// splitTopLevel splits a tuple body on commas that are not nested inside
// parentheses. A single trailing comma is tolerated, matching the struct
// surface syntax some tooling emits for one-element tuples.
func splitTopLevel(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var (
		members []string
		depth   int
		start   int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, typeStrErr("unbalanced parentheses in %q", body)
			}
		case ',':
			if depth == 0 {
				members = append(members, body[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, typeStrErr("unbalanced parentheses in %q", body)
	}
	last := body[start:]
	if strings.TrimSpace(last) == "" {
		if len(members) == 0 {
			return nil, typeStrErr("empty tuple member in %q", body)
		}
		return members, nil
	}
	return append(members, last), nil
}

// parseSizes parses a run of array suffixes. Each suffix counts against the
// recursion guard because it adds one level to the resolved type tree.
func parseSizes(s string, check *recursionCheck) (sizes []int, err error) {
	entered := 0
	defer func() {
		for ; entered > 0; entered-- {
			check.exit()
		}
	}()
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, typeStrErr("unexpected trailing characters %q", s)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, typeStrErr("unclosed array suffix %q", s)
		}
		if err := check.enter(); err != nil {
			return nil, err
		}
		entered++
		digits := s[1:end]
		if digits == "" {
			sizes = append(sizes, DynamicSize)
		} else {
			size, err := parseArraySize(digits)
			if err != nil {
				return nil, err
			}
			sizes = append(sizes, size)
		}
		s = s[end+1:]
	}
	return sizes, nil
}

func parseArraySize(digits string) (int, error) {
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, typeStrErr("invalid array size %q", digits)
		}
	}
	if digits[0] == '0' {
		return 0, typeStrErr("leading zero in array size %q", digits)
	}
	size, err := strconv.Atoi(digits)
	if err != nil || size <= 0 {
		return 0, typeStrErr("invalid array size %q", digits)
	}
	return size, nil
}

// isValidIdentifier checks the Solidity identifier grammar
// [a-zA-Z$_][a-zA-Z0-9$_]*.
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '$' || c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Resolve binds the specifier against the built-in primitive set, consulting
// resolve for identifiers that are not primitives. Array suffixes are folded
// innermost first.
func (spec *TypeSpecifier) Resolve(resolve func(name string) (Type, bool)) (Type, error) {
	var t Type
	if spec.IsTuple {
		elems := make([]*Type, len(spec.Tuple))
		for i, member := range spec.Tuple {
			elem, err := member.Resolve(resolve)
			if err != nil {
				return Type{}, err
			}
			elems[i] = &elem
		}
		t = NewTupleType(elems)
	} else {
		var err error
		if t, err = resolveRoot(spec.Stem, resolve); err != nil {
			return Type{}, err
		}
	}
	for _, size := range spec.Sizes {
		if size == DynamicSize {
			t = NewSliceType(t)
		} else {
			t = NewArrayType(t, size)
		}
	}
	return t, nil
}

func resolveRoot(name string, resolve func(name string) (Type, bool)) (Type, error) {
	switch name {
	case "address":
		return Type{T: AddressTy, Size: 20, stringKind: "address"}, nil
	case "bool":
		return Type{T: BoolTy, stringKind: "bool"}, nil
	case "string":
		return Type{T: StringTy, stringKind: "string"}, nil
	case "bytes":
		return Type{T: BytesTy, stringKind: "bytes"}, nil
	case "function":
		return Type{T: FunctionTy, Size: 24, stringKind: "function"}, nil
	case "uint", "int":
		// Bare int/uint default to 256 bits.
		return resolveRoot(name+"256", resolve)
	}
	if digits, ok := strings.CutPrefix(name, "uint"); ok && isAllDigits(digits) {
		size, err := parseBitWidth(name, digits)
		if err != nil {
			return Type{}, err
		}
		return Type{T: UintTy, Size: size, stringKind: name}, nil
	}
	if digits, ok := strings.CutPrefix(name, "int"); ok && isAllDigits(digits) {
		size, err := parseBitWidth(name, digits)
		if err != nil {
			return Type{}, err
		}
		return Type{T: IntTy, Size: size, stringKind: name}, nil
	}
	if digits, ok := strings.CutPrefix(name, "bytes"); ok && isAllDigits(digits) {
		size, err := strconv.Atoi(digits)
		if err != nil || size < 1 || size > 32 {
			return Type{}, fmt.Errorf("%w: invalid bytes width in %q", ErrInvalidSize, name)
		}
		return Type{T: FixedBytesTy, Size: size, stringKind: name}, nil
	}
	if resolve != nil {
		if t, ok := resolve(name); ok {
			return t, nil
		}
	}
	return Type{}, fmt.Errorf("%w: %s", ErrMissingType, name)
}

func parseBitWidth(name, digits string) (int, error) {
	size, err := strconv.Atoi(digits)
	if err != nil || size < 8 || size > 256 || size%8 != 0 {
		return 0, fmt.Errorf("%w: invalid bit width in %q", ErrInvalidSize, name)
	}
	return size, nil
}

func isAllDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
