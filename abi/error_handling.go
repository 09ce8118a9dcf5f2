// Copyright 2016 The go-ethereum Authors
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
)

// Sentinel errors returned by the parser, the codec and the resolver. Callers
// match them with errors.Is; the wrapped instances carry position and type
// context.
var (
	// ErrInvalidTypeString is returned for lexically malformed type signatures.
	ErrInvalidTypeString = errors.New("abi: invalid type string")

	// ErrInvalidSize is returned for a syntactically valid primitive with an
	// out-of-range width, e.g. uint7 or bytes33.
	ErrInvalidSize = errors.New("abi: invalid size")

	// ErrRecursionLimitExceeded is returned when the nesting depth guard trips
	// during parsing, encoding or decoding.
	ErrRecursionLimitExceeded = errors.New("abi: recursion limit exceeded")

	// ErrTypeMismatch is returned when a value's shape does not match its
	// declared type.
	ErrTypeMismatch = errors.New("abi: type mismatch")

	// ErrOverrun is returned when decoding would read past the end of the
	// buffer.
	ErrOverrun = errors.New("abi: buffer overrun while decoding")

	// ErrExtraData is returned when unconsumed bytes remain after decoding.
	ErrExtraData = errors.New("abi: unconsumed data after decoding")

	// ErrMissingType is returned when a type references a struct that has not
	// been registered.
	ErrMissingType = errors.New("abi: missing custom type")

	// ErrCircularDependency is returned when a struct type graph contains a
	// cycle.
	ErrCircularDependency = errors.New("abi: circular type dependency")

	// ErrSelectorMismatch is returned when the leading bytes of call data do
	// not match the expected selector.
	ErrSelectorMismatch = errors.New("abi: selector does not match data")
)

var (
	errBadBool        = errors.New("abi: improperly encoded boolean value")
	errBadUint        = errors.New("abi: improperly encoded unsigned integer value")
	errBadInt         = errors.New("abi: improperly encoded signed integer value")
	errBadAddress     = errors.New("abi: improperly encoded address value")
	errBadFixedBytes  = errors.New("abi: improperly encoded fixed bytes value")
	errBadFunction    = errors.New("abi: improperly encoded function value")
	errBadPackedBytes = errors.New("abi: improperly padded byte string")
)

func typeErr(t *Type, v Value) error {
	return fmt.Errorf("%w: expected %v, got %T", ErrTypeMismatch, t, v)
}

func typeStrErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTypeString, fmt.Sprintf(format, args...))
}
