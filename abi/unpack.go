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

// readBool reads a boolean from the low-order bit of a word. When validate is
// set, any other nonzero bit is an encoding error; otherwise the word is
// truncated to bit 0.
func readBool(w Word, validate bool) (bool, error) {
	if validate {
		for _, b := range w[:31] {
			if b != 0 {
				return false, errBadBool
			}
		}
		if w[31] > 1 {
			return false, errBadBool
		}
	}
	return w[31]&1 == 1, nil
}

// readAddress reads an address from the low 20 bytes of a word. When validate
// is set, the high 12 bytes must be zero.
func readAddress(w Word, validate bool) (common.Address, error) {
	if validate {
		for _, b := range w[:12] {
			if b != 0 {
				return common.Address{}, errBadAddress
			}
		}
	}
	return common.BytesToAddress(w[12:]), nil
}

// readFunction reads an address+selector pair from the high 24 bytes of a
// word. When validate is set, the trailing 8 bytes must be zero.
func readFunction(w Word, validate bool) (f [24]byte, err error) {
	if validate {
		for _, b := range w[24:] {
			if b != 0 {
				return f, errBadFunction
			}
		}
	}
	copy(f[:], w[:24])
	return f, nil
}

// readFixedBytes reads the leading size bytes of a word. When validate is
// set, the padding bytes must be zero.
func readFixedBytes(w Word, size int, validate bool) (FixedBytesValue, error) {
	if validate {
		for _, b := range w[size:] {
			if b != 0 {
				return FixedBytesValue{}, errBadFixedBytes
			}
		}
	}
	v := FixedBytesValue{Size: size}
	copy(v.Word[:], w[:size])
	// Drop any dirty padding so equal values compare equal.
	for i := size; i < 32; i++ {
		v.Word[i] = 0
	}
	return v, nil
}

// readUint reads an unsigned integer of the given bit width. When validate is
// set the unused high bytes must be zero; otherwise the value is truncated.
func readUint(w Word, size int, validate bool) (*big.Int, error) {
	x := new(big.Int).SetBytes(w[:])
	if x.BitLen() > size {
		if validate {
			return nil, errBadUint
		}
		mask := new(big.Int).Lsh(common.Big1, uint(size))
		mask.Sub(mask, common.Big1)
		x.And(x, mask)
	}
	return x, nil
}

// readInt reads a two's complement signed integer of the given bit width.
// When validate is set, the word must be a canonical sign extension of the
// low size bits.
func readInt(w Word, size int, validate bool) (*big.Int, error) {
	full := new(big.Int).SetBytes(w[:])
	// Interpret the full word as a 256 bit two's complement number, then
	// reduce to the target width.
	if full.Bit(255) == 1 {
		full = math.S256(full)
	}
	if fitsSigned(full, size) {
		return full, nil
	}
	if validate {
		return nil, errBadInt
	}
	// Truncate to the low size bits and sign extend from there.
	mask := new(big.Int).Lsh(common.Big1, uint(size))
	mask.Sub(mask, common.Big1)
	x := new(big.Int).And(full, mask)
	if x.Bit(size-1) == 1 {
		x.Sub(x, new(big.Int).Lsh(common.Big1, uint(size)))
	}
	return x, nil
}

// readSize interprets a word as a length or offset. Values needing more than
// 32 significant bits are rejected.
func readSize(w Word) (int, bool) {
	for _, b := range w[:28] {
		if b != 0 {
			return 0, false
		}
	}
	if w[28] > 0x7f {
		// Keep sizes well inside int range on every platform.
		return 0, false
	}
	n := int(w[28])<<24 | int(w[29])<<16 | int(w[30])<<8 | int(w[31])
	return n, true
}
