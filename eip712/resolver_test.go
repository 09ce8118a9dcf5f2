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
	"testing"

	"github.com/ethval/dynabi/abi"
	"github.com/stretchr/testify/require"
)

func TestEncodeTypeOrdering(t *testing.T) {
	r := NewResolver(Types{
		"A": {{Name: "a", Type: "uint256"}},
		"B": {{Name: "b", Type: "bytes32"}},
		"C": {{Name: "a", Type: "A"}, {Name: "b", Type: "B"}},
		"D": {{Name: "c", Type: "C"}, {Name: "a", Type: "A"}, {Name: "b", Type: "B"}},
	})
	require.NoError(t, r.Err())

	tests := []struct {
		name string
		want string
	}{
		{"A", "A(uint256 a)"},
		{"B", "B(bytes32 b)"},
		{"C", "C(A a,B b)A(uint256 a)B(bytes32 b)"},
		{"D", "D(C c,A a,B b)A(uint256 a)B(bytes32 b)C(A a,B b)"},
	}
	for _, tt := range tests {
		enc, err := r.EncodeType(tt.name)
		require.NoError(t, err)
		require.Equal(t, tt.want, enc)
	}

	_, err := r.EncodeType("E")
	require.ErrorIs(t, err, abi.ErrMissingType)
}

func TestEncodeTypeArrayReference(t *testing.T) {
	r := NewResolver(Types{
		"Person": {{Name: "name", Type: "string"}, {Name: "wallet", Type: "address"}},
		"Group":  {{Name: "members", Type: "Person[]"}, {Name: "owner", Type: "Person"}},
	})
	require.NoError(t, r.Err())

	enc, err := r.EncodeType("Group")
	require.NoError(t, err)
	require.Equal(t, "Group(Person[] members,Person owner)Person(string name,address wallet)", enc)
}

// TestCycleDetection registers two mutually referencing structs. Construction
// fails and every subsequent query reports the same error.
func TestCycleDetection(t *testing.T) {
	r := NewResolver(Types{
		"X": {{Name: "y", Type: "Y"}},
		"Y": {{Name: "x", Type: "X"}},
	})
	require.ErrorIs(t, r.Err(), abi.ErrCircularDependency)

	_, err := r.EncodeType("X")
	require.ErrorIs(t, err, abi.ErrCircularDependency)
	_, err = r.EncodeType("Y")
	require.ErrorIs(t, err, abi.ErrCircularDependency)
	_, err = r.TypeHash("X")
	require.ErrorIs(t, err, abi.ErrCircularDependency)
	_, err = r.Resolve("X")
	require.ErrorIs(t, err, abi.ErrCircularDependency)
}

func TestSelfReferenceIsCycle(t *testing.T) {
	r := NewResolver(Types{
		"Node": {{Name: "next", Type: "Node"}},
	})
	require.ErrorIs(t, r.Err(), abi.ErrCircularDependency)
}

func TestMissingTypeDetection(t *testing.T) {
	r := NewResolver(Types{
		"Mail": {{Name: "from", Type: "Person"}},
	})
	require.ErrorIs(t, r.Err(), abi.ErrMissingType)
	require.NotErrorIs(t, r.Err(), abi.ErrCircularDependency)
}

func TestResolverResolve(t *testing.T) {
	r := NewResolver(Types{
		"Person": {{Name: "name", Type: "string"}, {Name: "wallet", Type: "address"}},
	})
	require.NoError(t, r.Err())

	typ, err := r.Resolve("Person")
	require.NoError(t, err)
	require.Equal(t, abi.TupleTy, typ.T)
	require.Equal(t, "Person", typ.TupleRawName)
	require.Equal(t, []string{"name", "wallet"}, typ.TupleRawNames)

	typ, err = r.Resolve("Person[2]")
	require.NoError(t, err)
	require.Equal(t, abi.ArrayTy, typ.T)
	require.Equal(t, "Person", typ.Elem.TupleRawName)

	typ, err = r.Resolve("uint256")
	require.NoError(t, err)
	require.Equal(t, abi.UintTy, typ.T)

	_, err = r.Resolve("Ghost")
	require.ErrorIs(t, err, abi.ErrMissingType)
}
