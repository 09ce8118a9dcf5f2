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

package abi

import (
	"fmt"
	"math/big"

	"github.com/ethval/dynabi/common"
)

// Value is a runtime value tree shaped like a Type. Values carry no type
// tags on the wire; TypeCheck validates the shape against a Type before
// tokenizing.
type Value interface {
	isValue()
}

// BoolValue wraps a boolean.
type BoolValue bool

// AddressValue wraps a 20 byte address.
type AddressValue common.Address

// FunctionValue wraps an address and a selector, 24 bytes on the wire.
type FunctionValue [24]byte

// UintValue holds an unsigned integer of at most Size bits.
type UintValue struct {
	Size int
	X    *big.Int
}

// IntValue holds a two's complement signed integer of at most Size bits.
type IntValue struct {
	Size int
	X    *big.Int
}

// FixedBytesValue holds a left-aligned byte string of exactly Size bytes,
// 1 <= Size <= 32.
type FixedBytesValue struct {
	Size int
	Word [32]byte
}

// BytesValue wraps a dynamic length byte string.
type BytesValue []byte

// StringValue wraps a UTF-8 string. The codec does not enforce valid UTF-8;
// it round-trips arbitrary bytes.
type StringValue string

// SliceValue is a dynamically sized array of homogeneous values.
type SliceValue []Value

// ArrayValue is a fixed size array of homogeneous values.
type ArrayValue []Value

// TupleValue is an ordered sequence of heterogeneous values.
type TupleValue []Value

// StructValue is a named tuple. Structurally it encodes exactly like
// TupleValue; the name and field names only matter for typed-data hashing.
type StructValue struct {
	Name       string
	FieldNames []string
	Fields     []Value
}

func (BoolValue) isValue()       {}
func (AddressValue) isValue()    {}
func (FunctionValue) isValue()   {}
func (UintValue) isValue()       {}
func (IntValue) isValue()        {}
func (FixedBytesValue) isValue() {}
func (BytesValue) isValue()      {}
func (StringValue) isValue()     {}
func (SliceValue) isValue()      {}
func (ArrayValue) isValue()      {}
func (TupleValue) isValue()      {}
func (StructValue) isValue()     {}

// NewFixedBytesValue builds a FixedBytesValue from b, which must be between
// 1 and 32 bytes long.
func NewFixedBytesValue(b []byte) (FixedBytesValue, error) {
	if len(b) < 1 || len(b) > 32 {
		return FixedBytesValue{}, fmt.Errorf("%w: fixed bytes length %d", ErrInvalidSize, len(b))
	}
	v := FixedBytesValue{Size: len(b)}
	copy(v.Word[:], b)
	return v, nil
}

// Bytes returns the significant bytes of the fixed byte string.
func (v FixedBytesValue) Bytes() []byte {
	return v.Word[:v.Size]
}

// TypeCheck verifies that v's shape and every leaf's width match t
// recursively.
func TypeCheck(t *Type, v Value) error {
	switch t.T {
	case BoolTy:
		if _, ok := v.(BoolValue); !ok {
			return typeErr(t, v)
		}
	case AddressTy:
		if _, ok := v.(AddressValue); !ok {
			return typeErr(t, v)
		}
	case FunctionTy:
		if _, ok := v.(FunctionValue); !ok {
			return typeErr(t, v)
		}
	case UintTy:
		u, ok := v.(UintValue)
		if !ok || u.Size != t.Size {
			return typeErr(t, v)
		}
		if u.X == nil || u.X.Sign() < 0 || u.X.BitLen() > t.Size {
			return fmt.Errorf("%w: value out of range for %v", ErrTypeMismatch, t)
		}
	case IntTy:
		i, ok := v.(IntValue)
		if !ok || i.Size != t.Size {
			return typeErr(t, v)
		}
		if i.X == nil || !fitsSigned(i.X, t.Size) {
			return fmt.Errorf("%w: value out of range for %v", ErrTypeMismatch, t)
		}
	case FixedBytesTy:
		b, ok := v.(FixedBytesValue)
		if !ok || b.Size != t.Size {
			return typeErr(t, v)
		}
	case BytesTy:
		if _, ok := v.(BytesValue); !ok {
			return typeErr(t, v)
		}
	case StringTy:
		if _, ok := v.(StringValue); !ok {
			return typeErr(t, v)
		}
	case SliceTy:
		s, ok := v.(SliceValue)
		if !ok {
			return typeErr(t, v)
		}
		for _, elem := range s {
			if err := TypeCheck(t.Elem, elem); err != nil {
				return err
			}
		}
	case ArrayTy:
		a, ok := v.(ArrayValue)
		if !ok {
			return typeErr(t, v)
		}
		if len(a) != t.Size {
			return fmt.Errorf("%w: array length %d, want %d", ErrTypeMismatch, len(a), t.Size)
		}
		for _, elem := range a {
			if err := TypeCheck(t.Elem, elem); err != nil {
				return err
			}
		}
	case TupleTy:
		fields, err := tupleFields(t, v)
		if err != nil {
			return err
		}
		if len(fields) != len(t.TupleElems) {
			return fmt.Errorf("%w: tuple length %d, want %d", ErrTypeMismatch, len(fields), len(t.TupleElems))
		}
		for i, elem := range t.TupleElems {
			if err := TypeCheck(elem, fields[i]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("abi: unknown type %d", t.T)
	}
	return nil
}

// tupleFields extracts the member values of a tuple-kinded value. A named
// struct type accepts a StructValue with the matching name, or a plain
// TupleValue.
func tupleFields(t *Type, v Value) ([]Value, error) {
	switch v := v.(type) {
	case TupleValue:
		return v, nil
	case StructValue:
		if t.TupleRawName != "" && t.TupleRawName != v.Name {
			return nil, fmt.Errorf("%w: struct %s, want %s", ErrTypeMismatch, v.Name, t.TupleRawName)
		}
		return v.Fields, nil
	default:
		return nil, typeErr(t, v)
	}
}

// fitsSigned reports whether x fits a two's complement integer of the given
// bit width.
func fitsSigned(x *big.Int, bits int) bool {
	if x.Sign() >= 0 {
		return x.BitLen() <= bits-1
	}
	// most negative value is -2**(bits-1)
	y := new(big.Int).Neg(x)
	y.Sub(y, common.Big1)
	return y.BitLen() <= bits-1
}

// Equal reports whether two values are semantically equal. Integers compare
// by magnitude, so differently normalized big.Int representations of the
// same number compare equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case BoolValue:
		b, ok := b.(BoolValue)
		return ok && a == b
	case AddressValue:
		b, ok := b.(AddressValue)
		return ok && a == b
	case FunctionValue:
		b, ok := b.(FunctionValue)
		return ok && a == b
	case UintValue:
		b, ok := b.(UintValue)
		return ok && a.Size == b.Size && a.X.Cmp(b.X) == 0
	case IntValue:
		b, ok := b.(IntValue)
		return ok && a.Size == b.Size && a.X.Cmp(b.X) == 0
	case FixedBytesValue:
		b, ok := b.(FixedBytesValue)
		return ok && a.Size == b.Size && a.Word == b.Word
	case BytesValue:
		b, ok := b.(BytesValue)
		return ok && string(a) == string(b)
	case StringValue:
		b, ok := b.(StringValue)
		return ok && a == b
	case SliceValue:
		b, ok := b.(SliceValue)
		return ok && sliceEqual(a, b)
	case ArrayValue:
		b, ok := b.(ArrayValue)
		return ok && sliceEqual(a, b)
	case TupleValue:
		b, ok := b.(TupleValue)
		return ok && sliceEqual(a, b)
	case StructValue:
		b, ok := b.(StructValue)
		if !ok || a.Name != b.Name || len(a.FieldNames) != len(b.FieldNames) {
			return false
		}
		for i := range a.FieldNames {
			if a.FieldNames[i] != b.FieldNames[i] {
				return false
			}
		}
		return sliceEqual(a.Fields, b.Fields)
	default:
		return false
	}
}

func sliceEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// TypeOf derives the type of a value where it is unambiguous. Empty slices
// are reported as slices of the unit tuple, matching their encoding.
func TypeOf(v Value) (Type, error) {
	switch v := v.(type) {
	case BoolValue:
		return Type{T: BoolTy, stringKind: "bool"}, nil
	case AddressValue:
		return Type{T: AddressTy, Size: 20, stringKind: "address"}, nil
	case FunctionValue:
		return Type{T: FunctionTy, Size: 24, stringKind: "function"}, nil
	case UintValue:
		return Type{T: UintTy, Size: v.Size, stringKind: fmt.Sprintf("uint%d", v.Size)}, nil
	case IntValue:
		return Type{T: IntTy, Size: v.Size, stringKind: fmt.Sprintf("int%d", v.Size)}, nil
	case FixedBytesValue:
		return Type{T: FixedBytesTy, Size: v.Size, stringKind: fmt.Sprintf("bytes%d", v.Size)}, nil
	case BytesValue:
		return Type{T: BytesTy, stringKind: "bytes"}, nil
	case StringValue:
		return Type{T: StringTy, stringKind: "string"}, nil
	case SliceValue:
		if len(v) == 0 {
			return NewSliceType(NewTupleType(nil)), nil
		}
		elem, err := TypeOf(v[0])
		if err != nil {
			return Type{}, err
		}
		return NewSliceType(elem), nil
	case ArrayValue:
		if len(v) == 0 {
			return NewArrayType(NewTupleType(nil), 0), nil
		}
		elem, err := TypeOf(v[0])
		if err != nil {
			return Type{}, err
		}
		return NewArrayType(elem, len(v)), nil
	case TupleValue:
		elems := make([]*Type, len(v))
		for i, field := range v {
			t, err := TypeOf(field)
			if err != nil {
				return Type{}, err
			}
			elems[i] = &t
		}
		return NewTupleType(elems), nil
	case StructValue:
		elems := make([]*Type, len(v.Fields))
		for i, field := range v.Fields {
			t, err := TypeOf(field)
			if err != nil {
				return Type{}, err
			}
			elems[i] = &t
		}
		return NewStructType(v.Name, v.FieldNames, elems)
	default:
		return Type{}, fmt.Errorf("%w: unknown value %T", ErrTypeMismatch, v)
	}
}
