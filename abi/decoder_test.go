// Copyright 2017 The go-ethereum Authors
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

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// TestDecodeCorruptedDynamicArray feeds length words that no input of this
// size could satisfy. The claimed element count must be rejected before any
// allocation happens.
func TestDecodeCorruptedDynamicArray(t *testing.T) {
	typ := mustParse(t, "uint32[]")

	data := mustHex(`
		0000000000000000000000000000000000000000000000000000000000000020
		00000000000000000000000000000000000000000000000000000000ffffffff
		0000000000000000000000000000000000000000000000000000000000000001
		0000000000000000000000000000000000000000000000000000000000000002`)
	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, ErrOverrun)

	// A length that fits 32 bits but exceeds the region fails the same way.
	data = mustHex(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000100
		0000000000000000000000000000000000000000000000000000000000000001
		0000000000000000000000000000000000000000000000000000000000000002`)
	_, err = DecodeParams(&typ, data)
	require.ErrorIs(t, err, ErrOverrun)
}

// TestDecodeZeroSizedElementArray rejects a nonzero count of elements that
// occupy no bytes at all.
func TestDecodeZeroSizedElementArray(t *testing.T) {
	typ := mustParse(t, "()[]")
	data := mustHex(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000001`)
	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, ErrOverrun)

	// Zero of them is fine.
	data = mustHex(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000000`)
	v, err := DecodeParams(&typ, data)
	require.NoError(t, err)
	require.Equal(t, SliceValue{}, v)
}

// TestDecodeTrailingData covers the interaction of ErrExtraData with
// AllowExtra. A lone address against two words of input has one word spare.
func TestDecodeTrailingData(t *testing.T) {
	data := mustHex(`
		0000000000000000000000001111111111111111111111111111111111111111
		0000000000000000000000002222222222222222222222222222222222222222`)

	one := mustParse(t, "address")
	_, err := DecodeParams(&one, data)
	require.ErrorIs(t, err, ErrExtraData)

	v, err := DecodeParamsWithOpts(&one, data, DecodeOpts{Validate: true, AllowExtra: true})
	require.NoError(t, err)
	require.Equal(t, one.String(), "address")
	_, ok := v.(AddressValue)
	require.True(t, ok, "got %s", spew.Sdump(v))

	// Validate alone does not imply the trailing data check and vice versa.
	_, err = DecodeParamsWithOpts(&one, data, DecodeOpts{})
	require.ErrorIs(t, err, ErrExtraData)

	two := mustParse(t, "(address,address)")
	_, err = DecodeParams(&two, data)
	require.NoError(t, err)
}

// TestDecodeDirtyPadding checks canonical-form enforcement on fixed byte
// strings. The bytes20 word carries garbage in its padding.
func TestDecodeDirtyPadding(t *testing.T) {
	typ := mustParse(t, "(address,bytes20)")
	data := mustHex(`
		0000000000000000000000001111111111111111111111111111111111111111
		2222222222222222222222222222222222222222deadbeef0000000000000000`)

	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, errBadFixedBytes)

	// Lenient decoding zeroes the padding instead.
	v, err := DecodeParamsWithOpts(&typ, data, DecodeOpts{})
	require.NoError(t, err)
	fb := v.(TupleValue)[1].(FixedBytesValue)
	require.Equal(t, 20, fb.Size)
	require.Equal(t, mustHex("2222222222222222222222222222222222222222"), fb.Bytes())
	require.Equal(t, [12]byte{}, [12]byte(fb.Word[20:]))
}

func TestDecodeStrictBool(t *testing.T) {
	typ := mustParse(t, "bool")
	data := mustHex("0000000000000000000000000000000000000000000000000000000000000002")

	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, errBadBool)

	v, err := DecodeParamsWithOpts(&typ, data, DecodeOpts{})
	require.NoError(t, err)
	require.Equal(t, BoolValue(false), v)
}

func TestDecodeStrictUint(t *testing.T) {
	typ := mustParse(t, "uint8")
	data := mustHex("0000000000000000000000000000000000000000000000000000000000000101")

	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, errBadUint)

	v, err := DecodeParamsWithOpts(&typ, data, DecodeOpts{})
	require.NoError(t, err)
	require.True(t, Equal(UintValue{Size: 8, X: big.NewInt(1)}, v))
}

func TestDecodeStrictInt(t *testing.T) {
	typ := mustParse(t, "int8")
	// Not a canonical sign extension of an 8 bit value.
	data := mustHex("00000000000000000000000000000000000000000000000000000000000000ff")

	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, errBadInt)

	v, err := DecodeParamsWithOpts(&typ, data, DecodeOpts{})
	require.NoError(t, err)
	require.True(t, Equal(IntValue{Size: 8, X: big.NewInt(-1)}, v))

	// A full-word -1 is canonical for int8.
	data = mustHex("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	v, err = DecodeParams(&typ, data)
	require.NoError(t, err)
	require.True(t, Equal(IntValue{Size: 8, X: big.NewInt(-1)}, v))
}

func TestDecodeStrictAddress(t *testing.T) {
	typ := mustParse(t, "address")
	data := mustHex("0100000000000000000000001111111111111111111111111111111111111111")

	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, errBadAddress)

	_, err = DecodeParamsWithOpts(&typ, data, DecodeOpts{})
	require.NoError(t, err)
}

func TestDecodeStrictPackedPadding(t *testing.T) {
	typ := mustParse(t, "bytes")
	data := mustHex(`
		0000000000000000000000000000000000000000000000000000000000000020
		0000000000000000000000000000000000000000000000000000000000000002
		1234560000000000000000000000000000000000000000000000000000000000`)

	_, err := DecodeParams(&typ, data)
	require.ErrorIs(t, err, errBadPackedBytes)

	v, err := DecodeParamsWithOpts(&typ, data, DecodeOpts{})
	require.NoError(t, err)
	require.Equal(t, BytesValue{0x12, 0x34}, v)
}

func TestDecodeOverrun(t *testing.T) {
	tests := []struct {
		name string
		typ  string
		data string
	}{
		{"empty", "uint256", ""},
		{"shortWord", "uint256", "00000000000000000000000000000000000000000000000000000000000000"},
		{"missingTail", "bytes", "0000000000000000000000000000000000000000000000000000000000000020"},
		{"offsetPastEnd", "bytes", `
			0000000000000000000000000000000000000000000000000000000000000060
			0000000000000000000000000000000000000000000000000000000000000000`},
		{"stringLengthPastEnd", "string", `
			0000000000000000000000000000000000000000000000000000000000000020
			0000000000000000000000000000000000000000000000000000000000000041
			6761766f66796f726b0000000000000000000000000000000000000000000000`},
		{"hugeOffset", "uint256[]", `
			ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff
			0000000000000000000000000000000000000000000000000000000000000000`},
		{"missingTupleMember", "(uint256,uint256)", "0000000000000000000000000000000000000000000000000000000000000001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := mustParse(t, tt.typ)
			_, err := DecodeParams(&typ, mustHex(tt.data))
			require.ErrorIs(t, err, ErrOverrun)
		})
	}
}

// TestDecodeDeeplyNested exercises the shared recursion guard on decode. The
// input claims ever-deeper nested arrays through self-referential offsets.
func TestDecodeDeeplyNested(t *testing.T) {
	s := "uint8"
	for i := 0; i < RecursionLimit; i++ {
		s = "(" + s + ")"
	}
	_, err := ParseType(s)
	require.ErrorIs(t, err, ErrRecursionLimitExceeded)
}

// TestDecodeNestedDynamic round-trips a value with offsets at three levels of
// nesting, decoding both strictly and leniently.
func TestDecodeNestedDynamic(t *testing.T) {
	typ := mustParse(t, "(uint256,(string,bytes[])[])")
	v := TupleValue{
		UintValue{Size: 256, X: big.NewInt(99)},
		SliceValue{
			TupleValue{StringValue("alpha"), SliceValue{BytesValue{1}, BytesValue{2, 3}}},
			TupleValue{StringValue(""), SliceValue{}},
		},
	}
	enc, err := EncodeParams(&typ, v)
	require.NoError(t, err)

	dec, err := DecodeParams(&typ, enc)
	require.NoError(t, err)
	require.True(t, Equal(v, dec), "decoded:\n%s", spew.Sdump(dec))

	dec, err = DecodeParamsWithOpts(&typ, enc, DecodeOpts{})
	require.NoError(t, err)
	require.True(t, Equal(v, dec))
}
