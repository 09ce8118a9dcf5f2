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
	"errors"
	"fmt"

	"github.com/ethval/dynabi/abi"
	"github.com/ethval/dynabi/common"
	"github.com/ethval/dynabi/common/math"
	"github.com/ethval/dynabi/crypto"
)

// TypedData carries a complete EIP-712 signing request: the struct type
// definitions, the name of the message's root type, the domain separator
// fields and the message itself.
type TypedData struct {
	Types       Types                  `json:"types"`
	PrimaryType string                 `json:"primaryType"`
	Domain      Domain                 `json:"domain"`
	Message     map[string]interface{} `json:"message"`
}

// Domain represents the EIP712Domain struct. Only the fields that are set
// participate in the domain separator.
type Domain struct {
	Name              string                `json:"name"`
	Version           string                `json:"version"`
	ChainId           *math.HexOrDecimal256 `json:"chainId"`
	VerifyingContract string                `json:"verifyingContract"`
	Salt              string                `json:"salt"`
}

// validate checks that the domain defines at least one field.
func (domain *Domain) validate() error {
	if domain.ChainId == nil && len(domain.Name) == 0 && len(domain.Version) == 0 &&
		len(domain.VerifyingContract) == 0 && len(domain.Salt) == 0 {
		return errors.New("eip712: domain is undefined")
	}
	return nil
}

// Map returns the domain as a message map, holding only the fields that are
// set.
func (domain *Domain) Map() map[string]interface{} {
	m := map[string]interface{}{}
	if len(domain.Name) > 0 {
		m["name"] = domain.Name
	}
	if len(domain.Version) > 0 {
		m["version"] = domain.Version
	}
	if domain.ChainId != nil {
		m["chainId"] = domain.ChainId
	}
	if len(domain.VerifyingContract) > 0 {
		m["verifyingContract"] = domain.VerifyingContract
	}
	if len(domain.Salt) > 0 {
		m["salt"] = domain.Salt
	}
	return m
}

// resolver builds the struct graph resolver for the typed data.
func (td *TypedData) resolver() (*Resolver, error) {
	r := NewResolver(td.Types)
	if err := r.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// HashStruct coerces a message map into the named struct type and hashes it
// per EIP-712.
func (td *TypedData) HashStruct(primaryType string, data map[string]interface{}) (common.Hash, error) {
	r, err := td.resolver()
	if err != nil {
		return common.Hash{}, err
	}
	typ, err := r.Resolve(primaryType)
	if err != nil {
		return common.Hash{}, err
	}
	v, err := Coerce(&typ, data)
	if err != nil {
		return common.Hash{}, err
	}
	return r.HashStruct(primaryType, v)
}

// TypedDataAndHash computes the EIP-712 signing hash
// keccak256("\x19\x01" ‖ domainSeparator ‖ hashStruct(primaryType, message))
// and also returns the raw preimage for callers that display or audit it.
func TypedDataAndHash(td TypedData) ([]byte, string, error) {
	if err := td.Domain.validate(); err != nil {
		return nil, "", err
	}
	if _, ok := td.Types["EIP712Domain"]; !ok {
		return nil, "", fmt.Errorf("%w: EIP712Domain", abi.ErrMissingType)
	}
	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return nil, "", err
	}
	messageHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return nil, "", err
	}
	rawData := fmt.Sprintf("\x19\x01%s%s", string(domainSeparator.Bytes()), string(messageHash.Bytes()))
	return crypto.Keccak256([]byte(rawData)), rawData, nil
}
