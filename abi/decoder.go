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

// DecodeOpts configures decoding. The zero value decodes leniently but
// exhaustively; the package-level helpers default to strict decoding, which
// is the recommended mode for untrusted input.
type DecodeOpts struct {
	// Validate rejects non-canonical padding: nonzero bytes where the
	// encoding requires zero, e.g. the high bits of a bool word or the
	// padding of a packed byte string. Without it such bytes are silently
	// truncated. Validate never affects offset or length checking.
	Validate bool

	// AllowExtra permits unconsumed bytes after the final element, as seen
	// in caller-padded call data. Without it trailing bytes fail with
	// ErrExtraData.
	AllowExtra bool
}

// StrictOpts is the recommended decoding configuration: canonical padding
// enforced, trailing bytes rejected.
var StrictOpts = DecodeOpts{Validate: true}

// decoder reads words from one encoding region. Child regions are created
// for every offset indirection, so offsets are always interpreted relative
// to the region they occur in.
type decoder struct {
	data  []byte
	pos   int
	opts  DecodeOpts
	check *recursionCheck
}

func newDecoder(data []byte, opts DecodeOpts) *decoder {
	return &decoder{data: data, opts: opts, check: new(recursionCheck)}
}

// takeWord consumes the next head word.
func (d *decoder) takeWord() (w Word, err error) {
	if d.pos+32 > len(d.data) {
		return w, fmt.Errorf("%w: need %d bytes, have %d", ErrOverrun, d.pos+32, len(d.data))
	}
	copy(w[:], d.data[d.pos:d.pos+32])
	d.pos += 32
	return w, nil
}

// takeSize consumes a length or offset word.
func (d *decoder) takeSize() (int, error) {
	w, err := d.takeWord()
	if err != nil {
		return 0, err
	}
	n, ok := readSize(w)
	if !ok {
		return 0, fmt.Errorf("%w: size word exceeds 32 bits", ErrOverrun)
	}
	return n, nil
}

// child returns a decoder over the region starting at offset.
func (d *decoder) child(offset int) (*decoder, error) {
	if offset > len(d.data) {
		return nil, fmt.Errorf("%w: offset %d past end of %d byte region", ErrOverrun, offset, len(d.data))
	}
	return &decoder{data: d.data[offset:], opts: d.opts, check: d.check}, nil
}

// takeIndirection reads an offset word and returns the child region it
// points to.
func (d *decoder) takeIndirection() (*decoder, error) {
	offset, err := d.takeSize()
	if err != nil {
		return nil, err
	}
	return d.child(offset)
}

// Decode decodes a single value of type t using the strict defaults.
func Decode(t *Type, data []byte) (Value, error) {
	return DecodeWithOpts(t, data, StrictOpts)
}

// DecodeWithOpts decodes a single value of type t. This mirrors Encode: a
// top-level dynamic value is reached through one offset word.
func DecodeWithOpts(t *Type, data []byte, opts DecodeOpts) (Value, error) {
	tokens, err := decodeTopLevel([]*Type{t}, data, opts)
	if err != nil {
		return nil, err
	}
	return Detokenize(t, tokens[0])
}

// DecodeParams decodes a parameter list of type t using the strict defaults.
func DecodeParams(t *Type, data []byte) (Value, error) {
	return DecodeParamsWithOpts(t, data, StrictOpts)
}

// DecodeParamsWithOpts decodes a parameter list. Tuple-kinded types spread
// their members over the top-level sequence, mirroring EncodeParams; other
// types decode as a single value.
func DecodeParamsWithOpts(t *Type, data []byte, opts DecodeOpts) (Value, error) {
	if t.T != TupleTy {
		return DecodeWithOpts(t, data, opts)
	}
	tokens, err := decodeTopLevel(t.TupleElems, data, opts)
	if err != nil {
		return nil, err
	}
	return Detokenize(t, FixedSeqToken(tokens))
}

// decodeTopLevel decodes the outermost sequence and applies the trailing
// data check.
func decodeTopLevel(types []*Type, data []byte, opts DecodeOpts) ([]Token, error) {
	d := newDecoder(data, opts)
	tokens, err := decodeSequence(types, d)
	if err != nil {
		return nil, err
	}
	if !opts.AllowExtra {
		consumed := 0
		for _, tok := range tokens {
			consumed += totalWords(tok) * 32
		}
		if len(data) > consumed {
			return nil, fmt.Errorf("%w: %d trailing bytes", ErrExtraData, len(data)-consumed)
		}
	}
	return tokens, nil
}

// decodeSequence reads one head slot per type, following offset words into
// the tail for dynamic members.
func decodeSequence(types []*Type, d *decoder) ([]Token, error) {
	if err := d.check.enter(); err != nil {
		return nil, err
	}
	defer d.check.exit()

	tokens := make([]Token, len(types))
	for i, t := range types {
		if t.IsDynamic() {
			sub, err := d.takeIndirection()
			if err != nil {
				return nil, err
			}
			tok, err := decodeToken(t, sub)
			if err != nil {
				return nil, err
			}
			tokens[i] = tok
		} else {
			tok, err := decodeToken(t, d)
			if err != nil {
				return nil, err
			}
			tokens[i] = tok
		}
	}
	return tokens, nil
}

// decodeToken decodes one token. Static tokens are read inline from d;
// dynamic tokens expect d to be positioned at the start of their own
// encoding region.
func decodeToken(t *Type, d *decoder) (Token, error) {
	if err := d.check.enter(); err != nil {
		return nil, err
	}
	defer d.check.exit()

	switch t.T {
	case BoolTy, AddressTy, FunctionTy, UintTy, IntTy, FixedBytesTy:
		w, err := d.takeWord()
		if err != nil {
			return nil, err
		}
		if d.opts.Validate {
			// Surface canonical-form errors during decode; the word is
			// converted again, leniently, at detokenize time.
			if _, err := detokenizeWord(t, w, true); err != nil {
				return nil, err
			}
		}
		return WordToken(w), nil

	case BytesTy, StringTy:
		return decodePacked(d)

	case SliceTy:
		length, err := d.takeSize()
		if err != nil {
			return nil, err
		}
		// The element sequence forms its own region after the length word,
		// bounded before element count is trusted.
		sub, err := d.child(d.pos)
		if err != nil {
			return nil, err
		}
		// Bound the claimed element count by the head bytes each element
		// must occupy, before allocating anything.
		perElem := 32
		if !t.Elem.IsDynamic() {
			perElem = getTypeSize(*t.Elem)
		}
		if perElem == 0 {
			if length > 0 {
				return nil, fmt.Errorf("%w: array of zero-sized type", ErrOverrun)
			}
		} else if length > len(sub.data)/perElem {
			return nil, fmt.Errorf("%w: %d elements exceed %d byte region", ErrOverrun, length, len(sub.data))
		}
		types := repeatType(t.Elem, length)
		tokens, err := decodeSequence(types, sub)
		if err != nil {
			return nil, err
		}
		return DynSeqToken(tokens), nil

	case ArrayTy:
		if !t.IsDynamic() {
			// Static arrays are inlined in the head, element by element.
			tokens := make(FixedSeqToken, t.Size)
			for i := range tokens {
				tok, err := decodeToken(t.Elem, d)
				if err != nil {
					return nil, err
				}
				tokens[i] = tok
			}
			return tokens, nil
		}
		tokens, err := decodeSequence(repeatType(t.Elem, t.Size), d)
		if err != nil {
			return nil, err
		}
		return FixedSeqToken(tokens), nil

	case TupleTy:
		if !t.IsDynamic() {
			tokens := make(FixedSeqToken, len(t.TupleElems))
			for i, elem := range t.TupleElems {
				tok, err := decodeToken(elem, d)
				if err != nil {
					return nil, err
				}
				tokens[i] = tok
			}
			return tokens, nil
		}
		tokens, err := decodeSequence(t.TupleElems, d)
		if err != nil {
			return nil, err
		}
		return FixedSeqToken(tokens), nil

	default:
		return nil, fmt.Errorf("abi: unknown type %d", t.T)
	}
}

// decodePacked reads a length-prefixed packed byte string.
func decodePacked(d *decoder) (PackedSeqToken, error) {
	length, err := d.takeSize()
	if err != nil {
		return nil, err
	}
	padded := (length + 31) / 32 * 32
	if d.pos+padded > len(d.data) {
		return nil, fmt.Errorf("%w: %d byte string exceeds region", ErrOverrun, length)
	}
	payload := d.data[d.pos : d.pos+length]
	if d.opts.Validate {
		for _, b := range d.data[d.pos+length : d.pos+padded] {
			if b != 0 {
				return nil, errBadPackedBytes
			}
		}
	}
	return PackedSeqToken(payload), nil
}

func repeatType(t *Type, n int) []*Type {
	types := make([]*Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}
