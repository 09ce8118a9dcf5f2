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
	"math/big"
	"testing"

	"github.com/ethval/dynabi/common"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) Type {
	t.Helper()
	typ, err := ParseType(s)
	require.NoError(t, err, "type %q", s)
	return typ
}

func TestIsDynamic(t *testing.T) {
	tests := []struct {
		typ     string
		dynamic bool
	}{
		{"uint256", false},
		{"bool", false},
		{"address", false},
		{"bytes32", false},
		{"function", false},
		{"bytes", true},
		{"string", true},
		{"uint256[]", true},
		{"uint256[2]", false},
		{"string[2]", true},
		{"bytes32[2][4]", false},
		{"(uint256,bool)", false},
		{"(uint256,bool[])", true},
		{"(uint256,(address,bytes32))", false},
		{"(uint256,(address,string))", true},
		{"()", false},
		{"(uint256,())", false},
	}
	for _, tt := range tests {
		typ := mustParse(t, tt.typ)
		require.Equal(t, tt.dynamic, typ.IsDynamic(), "type %q", tt.typ)
	}
}

func TestTypeSize(t *testing.T) {
	tests := []struct {
		typ  string
		size int
	}{
		{"uint256", 32},
		{"bytes32", 32},
		{"(uint256,uint256)", 64},
		{"uint256[2][3]", 192},
		{"((uint256,bool),address)", 96},
		// Dynamic types occupy a single offset word in the head.
		{"bytes", 32},
		{"(uint256,string)", 32},
		{"uint256[]", 32},
	}
	for _, tt := range tests {
		typ := mustParse(t, tt.typ)
		require.Equal(t, tt.size, getTypeSize(typ), "type %q", tt.typ)
	}
}

func TestEmptyValue(t *testing.T) {
	for _, s := range []string{
		"uint256", "int8", "bool", "address", "function", "bytes", "bytes4",
		"string", "uint256[]", "uint256[3]", "(uint256,(bool,string))",
	} {
		typ := mustParse(t, s)
		v := typ.EmptyValue()
		require.NoError(t, TypeCheck(&typ, v), "type %q", s)
	}

	// Fixed arrays pre-allocate their element shape.
	typ := mustParse(t, "(uint8,bool)[2]")
	arr, ok := typ.EmptyValue().(ArrayValue)
	require.True(t, ok)
	require.Len(t, arr, 2)
	require.IsType(t, TupleValue(nil), arr[0])
}

func TestTypeCheck(t *testing.T) {
	u256 := mustParse(t, "uint256")
	require.NoError(t, TypeCheck(&u256, UintValue{Size: 256, X: big.NewInt(42)}))
	require.ErrorIs(t, TypeCheck(&u256, IntValue{Size: 256, X: big.NewInt(42)}), ErrTypeMismatch)
	require.ErrorIs(t, TypeCheck(&u256, UintValue{Size: 128, X: big.NewInt(42)}), ErrTypeMismatch)
	require.ErrorIs(t, TypeCheck(&u256, UintValue{Size: 256, X: big.NewInt(-1)}), ErrTypeMismatch)

	u8 := mustParse(t, "uint8")
	require.NoError(t, TypeCheck(&u8, UintValue{Size: 8, X: big.NewInt(255)}))
	require.ErrorIs(t, TypeCheck(&u8, UintValue{Size: 8, X: big.NewInt(256)}), ErrTypeMismatch)

	i8 := mustParse(t, "int8")
	require.NoError(t, TypeCheck(&i8, IntValue{Size: 8, X: big.NewInt(-128)}))
	require.ErrorIs(t, TypeCheck(&i8, IntValue{Size: 8, X: big.NewInt(-129)}), ErrTypeMismatch)
	require.ErrorIs(t, TypeCheck(&i8, IntValue{Size: 8, X: big.NewInt(128)}), ErrTypeMismatch)

	arr := mustParse(t, "uint256[2]")
	good := ArrayValue{UintValue{Size: 256, X: big.NewInt(1)}, UintValue{Size: 256, X: big.NewInt(2)}}
	require.NoError(t, TypeCheck(&arr, good))
	require.ErrorIs(t, TypeCheck(&arr, good[:1]), ErrTypeMismatch)

	tup := mustParse(t, "(uint256,bool)")
	require.NoError(t, TypeCheck(&tup, TupleValue{UintValue{Size: 256, X: big.NewInt(1)}, BoolValue(true)}))
	require.ErrorIs(t, TypeCheck(&tup, TupleValue{BoolValue(true), UintValue{Size: 256, X: big.NewInt(1)}}), ErrTypeMismatch)
}

func TestStructTypeCheck(t *testing.T) {
	u256 := mustParse(t, "uint256")
	st, err := NewStructType("Point", []string{"x", "y"}, []*Type{&u256, &u256})
	require.NoError(t, err)

	v := StructValue{
		Name:       "Point",
		FieldNames: []string{"x", "y"},
		Fields:     []Value{UintValue{Size: 256, X: big.NewInt(1)}, UintValue{Size: 256, X: big.NewInt(2)}},
	}
	require.NoError(t, TypeCheck(&st, v))

	// A plain tuple fits a named struct type, a differently named struct
	// does not.
	require.NoError(t, TypeCheck(&st, TupleValue(v.Fields)))
	v.Name = "NotPoint"
	require.ErrorIs(t, TypeCheck(&st, v), ErrTypeMismatch)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value Value
		typ   string
	}{
		{BoolValue(true), "bool"},
		{AddressValue(common.HexToAddress("0x01")), "address"},
		{UintValue{Size: 64, X: big.NewInt(7)}, "uint64"},
		{IntValue{Size: 256, X: big.NewInt(-7)}, "int256"},
		{BytesValue{1, 2}, "bytes"},
		{StringValue("x"), "string"},
		{SliceValue{BoolValue(true)}, "bool[]"},
		{ArrayValue{BoolValue(true), BoolValue(false)}, "bool[2]"},
		{TupleValue{BoolValue(true), StringValue("x")}, "(bool,string)"},
	}
	for _, tt := range tests {
		typ, err := TypeOf(tt.value)
		require.NoError(t, err)
		require.Equal(t, tt.typ, typ.String())
	}
}
