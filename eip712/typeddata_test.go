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

package eip712

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethval/dynabi/abi"
	"github.com/ethval/dynabi/common"
	"github.com/ethval/dynabi/common/hexutil"
	"github.com/ethval/dynabi/common/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// mailTypedData is the worked example from the EIP-712 specification.
var mailTypedData = TypedData{
	Types: Types{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		"Person": {
			{Name: "name", Type: "string"},
			{Name: "wallet", Type: "address"},
		},
		"Mail": {
			{Name: "from", Type: "Person"},
			{Name: "to", Type: "Person"},
			{Name: "contents", Type: "string"},
		},
	},
	PrimaryType: "Mail",
	Domain: Domain{
		Name:              "Ether Mail",
		Version:           "1",
		ChainId:           math.NewHexOrDecimal256(1),
		VerifyingContract: "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC",
	},
	Message: map[string]interface{}{
		"from": map[string]interface{}{
			"name":   "Cow",
			"wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826",
		},
		"to": map[string]interface{}{
			"name":   "Bob",
			"wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB",
		},
		"contents": "Hello, Bob!",
	},
}

func TestMailExample(t *testing.T) {
	r, err := mailTypedData.resolver()
	require.NoError(t, err)

	enc, err := r.EncodeType("Mail")
	require.NoError(t, err)
	require.Equal(t, "Mail(Person from,Person to,string contents)Person(string name,address wallet)", enc)

	th, err := r.TypeHash("Mail")
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xa0cedeb2dc280ba39b857546d74f5549c3a1d7bdc2dd96bf881f76108e23dac2"), th)

	messageHash, err := mailTypedData.HashStruct("Mail", mailTypedData.Message)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e"), messageHash)

	domainSeparator, err := mailTypedData.HashStruct("EIP712Domain", mailTypedData.Domain.Map())
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f"), domainSeparator)

	digest, _, err := TypedDataAndHash(mailTypedData)
	require.NoError(t, err)
	require.Equal(t, "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", hexutil.Encode(digest))
}

// TestMailExampleFromJSON decodes the request the way an RPC endpoint would
// receive it and checks it hashes identically.
func TestMailExampleFromJSON(t *testing.T) {
	blob, err := json.Marshal(mailTypedData)
	require.NoError(t, err)

	var td TypedData
	require.NoError(t, json.Unmarshal(blob, &td))

	digest, _, err := TypedDataAndHash(td)
	require.NoError(t, err)
	require.Equal(t, "0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2", hexutil.Encode(digest))
}

func TestTypedDataDomainValidation(t *testing.T) {
	td := mailTypedData
	td.Domain = Domain{}
	_, _, err := TypedDataAndHash(td)
	require.Error(t, err)
}

func TestTypedDataMissingDomainType(t *testing.T) {
	td := mailTypedData
	td.Types = Types{
		"Person": mailTypedData.Types["Person"],
		"Mail":   mailTypedData.Types["Mail"],
	}
	_, _, err := TypedDataAndHash(td)
	require.ErrorIs(t, err, abi.ErrMissingType)
}

func TestCoerce(t *testing.T) {
	mustType := func(s string) abi.Type {
		typ, err := abi.ParseType(s)
		require.NoError(t, err)
		return typ
	}

	u256 := mustType("uint256")
	u42 := hexutil.U256(*uint256.NewInt(42))
	for _, in := range []interface{}{
		"42", "0x2a", float64(42), json.Number("42"), big.NewInt(42),
		math.NewHexOrDecimal256(42), uint256.NewInt(42), u42, &u42,
	} {
		v, err := Coerce(&u256, in)
		require.NoError(t, err, "input %v (%T)", in, in)
		require.Equal(t, int64(42), v.(abi.UintValue).X.Int64(), "input %v (%T)", in, in)
	}
	_, err := Coerce(&u256, "-1")
	require.ErrorIs(t, err, abi.ErrTypeMismatch)
	_, err = Coerce(&u256, 1.5)
	require.ErrorIs(t, err, abi.ErrTypeMismatch)

	i8 := mustType("int8")
	v, err := Coerce(&i8, "-42")
	require.NoError(t, err)
	require.Equal(t, int64(-42), v.(abi.IntValue).X.Int64())
	for _, in := range []interface{}{"-128", "127"} {
		_, err = Coerce(&i8, in)
		require.NoError(t, err, "input %v", in)
	}
	for _, in := range []interface{}{"300", "128", "-129"} {
		_, err = Coerce(&i8, in)
		require.ErrorIs(t, err, abi.ErrTypeMismatch, "input %v", in)
	}

	addr := mustType("address")
	v, err = Coerce(&addr, "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826")
	require.NoError(t, err)
	require.Equal(t, abi.AddressValue(common.HexToAddress("0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826")), v)
	_, err = Coerce(&addr, "not an address")
	require.ErrorIs(t, err, abi.ErrTypeMismatch)

	b32 := mustType("bytes32")
	v, err = Coerce(&b32, "0x0100000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)
	require.Equal(t, 32, v.(abi.FixedBytesValue).Size)
	_, err = Coerce(&b32, "0x01")
	require.ErrorIs(t, err, abi.ErrTypeMismatch)

	bytesTy := mustType("bytes")
	v, err = Coerce(&bytesTy, "0x010203")
	require.NoError(t, err)
	require.Equal(t, abi.BytesValue{1, 2, 3}, v)

	boolTy := mustType("bool")
	v, err = Coerce(&boolTy, true)
	require.NoError(t, err)
	require.Equal(t, abi.BoolValue(true), v)
	v, err = Coerce(&boolTy, "false")
	require.NoError(t, err)
	require.Equal(t, abi.BoolValue(false), v)

	slice := mustType("uint8[]")
	v, err = Coerce(&slice, []interface{}{float64(1), "2"})
	require.NoError(t, err)
	require.Len(t, v.(abi.SliceValue), 2)

	arr := mustType("uint8[2]")
	_, err = Coerce(&arr, []interface{}{float64(1)})
	require.ErrorIs(t, err, abi.ErrTypeMismatch)
}

func TestCoerceStruct(t *testing.T) {
	r := NewResolver(Types{
		"Person": {{Name: "name", Type: "string"}, {Name: "wallet", Type: "address"}},
	})
	require.NoError(t, r.Err())
	typ, err := r.Resolve("Person")
	require.NoError(t, err)

	v, err := Coerce(&typ, map[string]interface{}{
		"name":   "Cow",
		"wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826",
	})
	require.NoError(t, err)
	sv, ok := v.(abi.StructValue)
	require.True(t, ok)
	require.Equal(t, "Person", sv.Name)
	require.Equal(t, abi.StringValue("Cow"), sv.Fields[0])

	// A missing field is an error scoped to the value.
	_, err = Coerce(&typ, map[string]interface{}{"name": "Cow"})
	require.ErrorIs(t, err, abi.ErrTypeMismatch)
}
