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

	"github.com/ethval/dynabi/common"
)

// Word is the 32 byte unit of ABI encoding.
type Word [32]byte

// Token is the wire-adjacent form of a value: a tree whose leaves are words
// and whose structure is positional. Head and tail word counts drive the
// head/tail layout of the encoder.
type Token interface {
	// headWords is the number of words the token occupies in the head of
	// its enclosing sequence. Dynamic tokens occupy a single offset word.
	headWords() int
	// tailWords is the number of words the token appends to the tail of
	// its enclosing sequence. Zero for static tokens.
	tailWords() int
	// isDynamic mirrors Type.IsDynamic on the token level.
	isDynamic() bool
}

// WordToken is a single static word.
type WordToken Word

// FixedSeqToken is a fixed length sequence of member tokens, the form of
// tuples and fixed size arrays.
type FixedSeqToken []Token

// DynSeqToken is a length-prefixed sequence of element tokens, the form of
// dynamically sized arrays.
type DynSeqToken []Token

// PackedSeqToken is a length-prefixed packed byte string, the form of bytes
// and string values.
type PackedSeqToken []byte

func (WordToken) headWords() int  { return 1 }
func (WordToken) tailWords() int  { return 0 }
func (WordToken) isDynamic() bool { return false }

func (t FixedSeqToken) isDynamic() bool {
	for _, m := range t {
		if m.isDynamic() {
			return true
		}
	}
	return false
}

func (t FixedSeqToken) headWords() int {
	if t.isDynamic() {
		return 1
	}
	n := 0
	for _, m := range t {
		n += m.headWords()
	}
	return n
}

func (t FixedSeqToken) tailWords() int {
	if !t.isDynamic() {
		return 0
	}
	n := 0
	for _, m := range t {
		n += m.headWords() + m.tailWords()
	}
	return n
}

func (DynSeqToken) headWords() int  { return 1 }
func (DynSeqToken) isDynamic() bool { return true }

func (t DynSeqToken) tailWords() int {
	n := 1 // length prefix
	for _, m := range t {
		n += m.headWords() + m.tailWords()
	}
	return n
}

func (PackedSeqToken) headWords() int  { return 1 }
func (PackedSeqToken) isDynamic() bool { return true }

func (t PackedSeqToken) tailWords() int {
	return 1 + (len(t)+31)/32
}

// totalWords is the full encoded size of the token in words when it forms
// its own encoding region.
func totalWords(t Token) int {
	return t.headWords() + t.tailWords()
}

// Tokenize converts a type-checked value into its token tree.
func Tokenize(t *Type, v Value) (Token, error) {
	if err := TypeCheck(t, v); err != nil {
		return nil, err
	}
	check := new(recursionCheck)
	return tokenize(t, v, check)
}

func tokenize(t *Type, v Value, check *recursionCheck) (Token, error) {
	if err := check.enter(); err != nil {
		return nil, err
	}
	defer check.exit()

	switch t.T {
	case BoolTy:
		return WordToken(packBool(bool(v.(BoolValue)))), nil
	case AddressTy:
		return WordToken(packAddress(common.Address(v.(AddressValue)))), nil
	case FunctionTy:
		return WordToken(packFunction(v.(FunctionValue))), nil
	case UintTy:
		return WordToken(packNum(v.(UintValue).X)), nil
	case IntTy:
		return WordToken(packNum(v.(IntValue).X)), nil
	case FixedBytesTy:
		return WordToken(v.(FixedBytesValue).Word), nil
	case BytesTy:
		return PackedSeqToken(v.(BytesValue)), nil
	case StringTy:
		return PackedSeqToken(v.(StringValue)), nil
	case SliceTy:
		elems := v.(SliceValue)
		seq := make(DynSeqToken, len(elems))
		for i, elem := range elems {
			tok, err := tokenize(t.Elem, elem, check)
			if err != nil {
				return nil, err
			}
			seq[i] = tok
		}
		return seq, nil
	case ArrayTy:
		elems := v.(ArrayValue)
		seq := make(FixedSeqToken, len(elems))
		for i, elem := range elems {
			tok, err := tokenize(t.Elem, elem, check)
			if err != nil {
				return nil, err
			}
			seq[i] = tok
		}
		return seq, nil
	case TupleTy:
		fields, err := tupleFields(t, v)
		if err != nil {
			return nil, err
		}
		seq := make(FixedSeqToken, len(fields))
		for i, field := range fields {
			tok, err := tokenize(t.TupleElems[i], field, check)
			if err != nil {
				return nil, err
			}
			seq[i] = tok
		}
		return seq, nil
	default:
		return nil, fmt.Errorf("abi: unknown type %d", t.T)
	}
}

// Detokenize converts a token tree back into a value of the given type. Word
// level leniency matches validate=false decoding; strict canonical checks
// happen during decode, before tokens are built.
func Detokenize(t *Type, tok Token) (Value, error) {
	check := new(recursionCheck)
	return detokenize(t, tok, check)
}

func detokenize(t *Type, tok Token, check *recursionCheck) (Value, error) {
	if err := check.enter(); err != nil {
		return nil, err
	}
	defer check.exit()

	switch t.T {
	case BoolTy, AddressTy, FunctionTy, UintTy, IntTy, FixedBytesTy:
		w, ok := tok.(WordToken)
		if !ok {
			return nil, tokenErr(t, tok)
		}
		return detokenizeWord(t, Word(w), false)
	case BytesTy:
		p, ok := tok.(PackedSeqToken)
		if !ok {
			return nil, tokenErr(t, tok)
		}
		return BytesValue(common.CopyBytes(p)), nil
	case StringTy:
		p, ok := tok.(PackedSeqToken)
		if !ok {
			return nil, tokenErr(t, tok)
		}
		return StringValue(p), nil
	case SliceTy:
		seq, ok := tok.(DynSeqToken)
		if !ok {
			return nil, tokenErr(t, tok)
		}
		elems := make(SliceValue, len(seq))
		for i, m := range seq {
			elem, err := detokenize(t.Elem, m, check)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return elems, nil
	case ArrayTy:
		seq, ok := tok.(FixedSeqToken)
		if !ok || len(seq) != t.Size {
			return nil, tokenErr(t, tok)
		}
		elems := make(ArrayValue, len(seq))
		for i, m := range seq {
			elem, err := detokenize(t.Elem, m, check)
			if err != nil {
				return nil, err
			}
			elems[i] = elem
		}
		return elems, nil
	case TupleTy:
		seq, ok := tok.(FixedSeqToken)
		if !ok || len(seq) != len(t.TupleElems) {
			return nil, tokenErr(t, tok)
		}
		fields := make([]Value, len(seq))
		for i, m := range seq {
			field, err := detokenize(t.TupleElems[i], m, check)
			if err != nil {
				return nil, err
			}
			fields[i] = field
		}
		if t.TupleRawName != "" {
			return StructValue{Name: t.TupleRawName, FieldNames: append([]string(nil), t.TupleRawNames...), Fields: fields}, nil
		}
		return TupleValue(fields), nil
	default:
		return nil, fmt.Errorf("abi: unknown type %d", t.T)
	}
}

// detokenizeWord converts a single word leaf. The validate flag applies the
// canonical-form checks of strict decoding.
func detokenizeWord(t *Type, w Word, validate bool) (Value, error) {
	switch t.T {
	case BoolTy:
		b, err := readBool(w, validate)
		if err != nil {
			return nil, err
		}
		return BoolValue(b), nil
	case AddressTy:
		a, err := readAddress(w, validate)
		if err != nil {
			return nil, err
		}
		return AddressValue(a), nil
	case FunctionTy:
		f, err := readFunction(w, validate)
		if err != nil {
			return nil, err
		}
		return FunctionValue(f), nil
	case UintTy:
		x, err := readUint(w, t.Size, validate)
		if err != nil {
			return nil, err
		}
		return UintValue{Size: t.Size, X: x}, nil
	case IntTy:
		x, err := readInt(w, t.Size, validate)
		if err != nil {
			return nil, err
		}
		return IntValue{Size: t.Size, X: x}, nil
	case FixedBytesTy:
		return readFixedBytes(w, t.Size, validate)
	default:
		return nil, fmt.Errorf("abi: type %v is not word sized", t)
	}
}

func tokenErr(t *Type, tok Token) error {
	return fmt.Errorf("%w: token %T does not fit type %v", ErrTypeMismatch, tok, t)
}
