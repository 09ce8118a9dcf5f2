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

// Package abi implements a dynamic, runtime type system and binary codec for
// the Ethereum Contract ABI.
//
// Types are described by strings in the Solidity type grammar
// ("uint256[3][]", "(address,bytes32)"), parsed into Type descriptors, and
// paired with Value trees. Tokenize lowers a value into a tree of 32 byte
// words, and the encoder serializes token trees with the head/tail layout of
// the ABI wire format. Decoding reverses the pipeline, with explicit
// strictness and trailing-data controls.
package abi
