// Copyright 2015 The go-ethereum Authors
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
	"fmt"
	"math/big"
	"strings"

	"github.com/ethval/dynabi/common"
)

// Type enumerator
const (
	IntTy byte = iota
	UintTy
	BoolTy
	StringTy
	SliceTy
	ArrayTy
	TupleTy
	AddressTy
	FixedBytesTy
	BytesTy
	FunctionTy
)

// Type is the reflection of the supported argument type.
type Type struct {
	Elem *Type // nested types for SliceTy and ArrayTy
	Size int   // bit width for IntTy/UintTy, byte width for FixedBytesTy, length for ArrayTy
	T    byte  // Our own type checking

	stringKind string // holds the unparsed string for deriving signatures

	// Tuple relative fields
	TupleRawName  string   // Raw struct name defined in source code, empty for plain tuples
	TupleElems    []*Type  // Type information of all tuple fields
	TupleRawNames []string // Raw field name of all tuple fields
}

// NewTupleType constructs an anonymous tuple type from the given member types.
func NewTupleType(elems []*Type) Type {
	names := make([]string, len(elems))
	for i := range names {
		names[i] = fmt.Sprintf("arg%d", i)
	}
	t, _ := newStructType("", names, elems)
	return t
}

// NewStructType constructs a named tuple type. The number of field names must
// match the number of field types.
func NewStructType(name string, fieldNames []string, elems []*Type) (Type, error) {
	if len(fieldNames) != len(elems) {
		return Type{}, fmt.Errorf("%w: struct %s has %d names for %d fields", ErrTypeMismatch, name, len(fieldNames), len(elems))
	}
	return newStructType(name, fieldNames, elems)
}

func newStructType(name string, fieldNames []string, elems []*Type) (Type, error) {
	kinds := make([]string, len(elems))
	for i, elem := range elems {
		kinds[i] = elem.String()
	}
	return Type{
		T:             TupleTy,
		TupleRawName:  name,
		TupleElems:    elems,
		TupleRawNames: fieldNames,
		stringKind:    "(" + strings.Join(kinds, ",") + ")",
	}, nil
}

// NewSliceType constructs a dynamically sized array type over elem.
func NewSliceType(elem Type) Type {
	return Type{T: SliceTy, Elem: &elem, stringKind: elem.String() + "[]"}
}

// NewArrayType constructs a fixed size array type over elem.
func NewArrayType(elem Type, size int) Type {
	return Type{T: ArrayTy, Elem: &elem, Size: size, stringKind: fmt.Sprintf("%s[%d]", elem.String(), size)}
}

// String implements Stringer.
func (t Type) String() string {
	return t.stringKind
}

// isDynamicType returns true if the type is dynamic.
// The following types are called “dynamic”:
// * bytes
// * string
// * T[] for any T
// * T[k] for any dynamic T and any k
// * (T1,...,Tk) if Ti is dynamic for some 1 <= i <= k
func isDynamicType(t Type) bool {
	if t.T == TupleTy {
		for _, elem := range t.TupleElems {
			if isDynamicType(*elem) {
				return true
			}
		}
		return false
	}
	return t.T == StringTy || t.T == BytesTy || t.T == SliceTy || (t.T == ArrayTy && isDynamicType(*t.Elem))
}

// IsDynamic reports whether values of the type have a variable length
// encoding. Dynamic values occupy a single offset word in the head of their
// enclosing sequence, with the payload appended to the tail.
func (t Type) IsDynamic() bool {
	return isDynamicType(t)
}

// getTypeSize returns the size that this type needs to occupy in the head of
// a sequence. Dynamic types always occupy a single offset word.
func getTypeSize(t Type) int {
	if t.T == ArrayTy && !isDynamicType(*t.Elem) {
		// Recursively calculate type size if it is a nested array
		if t.Elem.T == ArrayTy || t.Elem.T == TupleTy {
			return t.Size * getTypeSize(*t.Elem)
		}
		return t.Size * 32
	} else if t.T == TupleTy && !isDynamicType(t) {
		total := 0
		for _, elem := range t.TupleElems {
			total += getTypeSize(*elem)
		}
		return total
	}
	return 32
}

// EmptyValue returns a minimal well-typed zero value for the type. Decoders
// use it to pre-allocate the value shape before filling it in.
func (t Type) EmptyValue() Value {
	switch t.T {
	case BoolTy:
		return BoolValue(false)
	case AddressTy:
		return AddressValue(common.Address{})
	case FunctionTy:
		return FunctionValue{}
	case IntTy:
		return IntValue{Size: t.Size, X: new(big.Int)}
	case UintTy:
		return UintValue{Size: t.Size, X: new(big.Int)}
	case FixedBytesTy:
		return FixedBytesValue{Size: t.Size}
	case BytesTy:
		return BytesValue(nil)
	case StringTy:
		return StringValue("")
	case SliceTy:
		return SliceValue(nil)
	case ArrayTy:
		elems := make([]Value, t.Size)
		for i := range elems {
			elems[i] = t.Elem.EmptyValue()
		}
		return ArrayValue(elems)
	case TupleTy:
		fields := make([]Value, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			fields[i] = elem.EmptyValue()
		}
		if t.TupleRawName != "" {
			return StructValue{Name: t.TupleRawName, FieldNames: append([]string(nil), t.TupleRawNames...), Fields: fields}
		}
		return TupleValue(fields)
	default:
		panic(fmt.Sprintf("abi: unknown type %d", t.T))
	}
}
