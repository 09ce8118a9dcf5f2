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
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTokenWordCounts pins the head and tail accounting that drives offset
// computation in the encoder.
func TestTokenWordCounts(t *testing.T) {
	tests := []struct {
		name  string
		typ   string
		value Value
		head  int
		tail  int
	}{
		{"word", "uint256", UintValue{Size: 256, X: big.NewInt(1)}, 1, 0},
		{"staticTuple", "(uint256,bool)", TupleValue{UintValue{Size: 256, X: big.NewInt(1)}, BoolValue(true)}, 2, 0},
		{"staticArray", "uint256[3]", ArrayValue{
			UintValue{Size: 256, X: big.NewInt(1)},
			UintValue{Size: 256, X: big.NewInt(2)},
			UintValue{Size: 256, X: big.NewInt(3)},
		}, 3, 0},
		{"emptyBytes", "bytes", BytesValue{}, 1, 1},
		{"shortBytes", "bytes", BytesValue{1}, 1, 2},
		{"bytes33", "bytes", BytesValue(make([]byte, 33)), 1, 3},
		{"emptySlice", "uint256[]", SliceValue{}, 1, 1},
		{"wordSlice", "uint256[]", SliceValue{UintValue{Size: 256, X: big.NewInt(1)}}, 1, 2},
		{"stringSlice", "string[]", SliceValue{StringValue("hi")}, 1, 4},
		{"dynamicTuple", "(uint256,bytes)", TupleValue{UintValue{Size: 256, X: big.NewInt(1)}, BytesValue{1}}, 1, 4},
		{"dynamicFixedArray", "bytes[2]", ArrayValue{BytesValue{1}, BytesValue{2}}, 1, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := mustParse(t, tt.typ)
			tok, err := Tokenize(&typ, tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.head, tok.headWords(), "head words")
			require.Equal(t, tt.tail, tok.tailWords(), "tail words")

			// The encoded size of a parameter list is the sum of head and
			// tail.
			enc, err := EncodeSequence([]Token{tok})
			require.NoError(t, err)
			require.Len(t, enc, totalWords(tok)*32)
		})
	}
}

func TestTokenizeRejectsMismatch(t *testing.T) {
	typ := mustParse(t, "uint256")
	_, err := Tokenize(&typ, BoolValue(true))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDetokenizeRejectsShape(t *testing.T) {
	typ := mustParse(t, "uint256[2]")
	_, err := Detokenize(&typ, FixedSeqToken{WordToken{}})
	require.ErrorIs(t, err, ErrTypeMismatch)

	str := mustParse(t, "string")
	_, err = Detokenize(&str, WordToken{})
	require.ErrorIs(t, err, ErrTypeMismatch)
}
