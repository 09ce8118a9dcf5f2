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
	"math/big"

	"github.com/ethval/dynabi/common"
	"github.com/ethval/dynabi/common/math"
)

// packBool packs a boolean into the low-order bit of a word.
func packBool(b bool) (w Word) {
	if b {
		w[31] = 1
	}
	return w
}

// packNum packs an integer as a 256 bit two's complement word.
func packNum(x *big.Int) (w Word) {
	// U256Bytes is destructive, work on a copy.
	copy(w[:], math.U256Bytes(new(big.Int).Set(x)))
	return w
}

// packAddress packs an address into the low 20 bytes of a word.
func packAddress(a common.Address) (w Word) {
	copy(w[12:], a[:])
	return w
}

// packFunction packs an address+selector pair left-aligned into a word.
func packFunction(f [24]byte) (w Word) {
	copy(w[:], f[:])
	return w
}

// packSize packs a length or offset word.
func packSize(n int) (w Word) {
	copy(w[:], math.PaddedBigBytes(big.NewInt(int64(n)), 32))
	return w
}

// padBytes right-pads b with zeros to the next 32 byte boundary.
func padBytes(b []byte) []byte {
	return common.RightPadBytes(b, (len(b)+31)/32*32)
}
