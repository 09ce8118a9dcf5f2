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
	"fmt"
)

// Encode encodes a single value. A top-level dynamic value gets one level of
// indirection: an offset word followed by the payload.
func Encode(t *Type, v Value) ([]byte, error) {
	tok, err := Tokenize(t, v)
	if err != nil {
		return nil, err
	}
	return EncodeSequence([]Token{tok})
}

// EncodeParams encodes a value as a parameter list. Tuple-kinded values
// spread their members over the top-level sequence, so a dynamic top-level
// tuple is laid out without the extra indirection Encode would add. Other
// types encode as a single-element sequence.
func EncodeParams(t *Type, v Value) ([]byte, error) {
	if t.T != TupleTy {
		return Encode(t, v)
	}
	if err := TypeCheck(t, v); err != nil {
		return nil, err
	}
	fields, err := tupleFields(t, v)
	if err != nil {
		return nil, err
	}
	check := new(recursionCheck)
	tokens := make([]Token, len(fields))
	for i, field := range fields {
		if tokens[i], err = tokenize(t.TupleElems[i], field, check); err != nil {
			return nil, err
		}
	}
	return EncodeSequence(tokens)
}

// EncodeCall encodes a parameter list prefixed with the 4 byte selector of
// the given signature.
func EncodeCall(signature string, t *Type, v Value) ([]byte, error) {
	enc, err := EncodeParams(t, v)
	if err != nil {
		return nil, err
	}
	sel := Selector(signature)
	return append(sel[:], enc...), nil
}

// EncodeSequence encodes a token sequence with the head/tail layout: one
// head slot per token, static tokens inlined, dynamic tokens referenced by a
// byte offset into the tail.
func EncodeSequence(tokens []Token) ([]byte, error) {
	check := new(recursionCheck)
	return encodeSequence(tokens, check)
}

func encodeSequence(tokens []Token, check *recursionCheck) ([]byte, error) {
	if err := check.enter(); err != nil {
		return nil, err
	}
	defer check.exit()

	headWords := 0
	tailWords := 0
	for _, tok := range tokens {
		headWords += tok.headWords()
		tailWords += tok.tailWords()
	}
	var (
		head   = make([]byte, 0, headWords*32)
		tail   = make([]byte, 0, tailWords*32)
		offset = headWords * 32
	)
	for _, tok := range tokens {
		if !tok.isDynamic() {
			var err error
			if head, err = appendStatic(head, tok); err != nil {
				return nil, err
			}
			continue
		}
		w := packSize(offset)
		head = append(head, w[:]...)
		enc, err := encodeTail(tok, check)
		if err != nil {
			return nil, err
		}
		tail = append(tail, enc...)
		offset += len(enc)
	}
	return append(head, tail...), nil
}

// appendStatic writes the words of a static token inline.
func appendStatic(buf []byte, tok Token) ([]byte, error) {
	switch tok := tok.(type) {
	case WordToken:
		return append(buf, tok[:]...), nil
	case FixedSeqToken:
		var err error
		for _, m := range tok {
			if buf, err = appendStatic(buf, m); err != nil {
				return nil, err
			}
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("abi: cannot inline dynamic token %T", tok)
	}
}

// encodeTail produces the standalone encoding region of a dynamic token.
func encodeTail(tok Token, check *recursionCheck) ([]byte, error) {
	switch tok := tok.(type) {
	case PackedSeqToken:
		w := packSize(len(tok))
		return append(w[:], padBytes(tok)...), nil
	case DynSeqToken:
		enc, err := encodeSequence(tok, check)
		if err != nil {
			return nil, err
		}
		w := packSize(len(tok))
		return append(w[:], enc...), nil
	case FixedSeqToken:
		return encodeSequence(tok, check)
	default:
		return nil, fmt.Errorf("abi: token %T is not dynamic", tok)
	}
}
