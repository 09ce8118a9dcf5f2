// Copyright 2022 The go-ethereum Authors
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

	"github.com/ethval/dynabi/crypto"
)

// Selector computes the 4 byte call discriminator of a canonical signature,
// e.g. "transfer(address,uint256)".
func Selector(signature string) (sel [4]byte) {
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// DecodeCall strips and checks the 4 byte selector of call data, then
// decodes the remainder as a parameter list of type t.
func DecodeCall(signature string, t *Type, data []byte, opts DecodeOpts) (Value, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %d bytes of call data", ErrOverrun, len(data))
	}
	want := Selector(signature)
	var got [4]byte
	copy(got[:], data[:4])
	if got != want {
		return nil, fmt.Errorf("%w: got %x, want %x", ErrSelectorMismatch, got, want)
	}
	return DecodeParamsWithOpts(t, data[4:], opts)
}
