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
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethval/dynabi/abi"
	"github.com/ethval/dynabi/common"
	"github.com/ethval/dynabi/common/hexutil"
	"github.com/ethval/dynabi/common/math"
	"github.com/holiman/uint256"
)

// Coerce converts a loosely typed value, typically the result of decoding
// JSON into interface{}, into a dynamic ABI value of type t. Failures are
// scoped to the offending value and wrap ErrTypeMismatch.
func Coerce(t *abi.Type, v interface{}) (abi.Value, error) {
	switch t.T {
	case abi.BoolTy:
		switch v := v.(type) {
		case bool:
			return abi.BoolValue(v), nil
		case string:
			switch v {
			case "true":
				return abi.BoolValue(true), nil
			case "false":
				return abi.BoolValue(false), nil
			}
		}
		return nil, mismatchErr(t, v)

	case abi.UintTy:
		x, err := parseInteger(t, v)
		if err != nil {
			return nil, err
		}
		u := abi.UintValue{Size: t.Size, X: x}
		if err := abi.TypeCheck(t, u); err != nil {
			return nil, err
		}
		return u, nil

	case abi.IntTy:
		x, err := parseInteger(t, v)
		if err != nil {
			return nil, err
		}
		i := abi.IntValue{Size: t.Size, X: x}
		if err := abi.TypeCheck(t, i); err != nil {
			return nil, err
		}
		return i, nil

	case abi.AddressTy:
		switch v := v.(type) {
		case common.Address:
			return abi.AddressValue(v), nil
		case [20]byte:
			return abi.AddressValue(v), nil
		case string:
			if common.IsHexAddress(v) {
				return abi.AddressValue(common.HexToAddress(v)), nil
			}
		case []byte:
			if len(v) == 20 {
				return abi.AddressValue(common.BytesToAddress(v)), nil
			}
		}
		return nil, mismatchErr(t, v)

	case abi.FunctionTy:
		b, ok := parseBytes(v)
		if !ok || len(b) != 24 {
			return nil, mismatchErr(t, v)
		}
		var f abi.FunctionValue
		copy(f[:], b)
		return f, nil

	case abi.FixedBytesTy:
		b, ok := parseBytes(v)
		if !ok || len(b) != t.Size {
			return nil, mismatchErr(t, v)
		}
		fb, err := abi.NewFixedBytesValue(b)
		if err != nil {
			return nil, err
		}
		return fb, nil

	case abi.BytesTy:
		b, ok := parseBytes(v)
		if !ok {
			return nil, mismatchErr(t, v)
		}
		return abi.BytesValue(b), nil

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, mismatchErr(t, v)
		}
		return abi.StringValue(s), nil

	case abi.SliceTy:
		elems, err := convertToSlice(v)
		if err != nil {
			return nil, mismatchErr(t, v)
		}
		out := make(abi.SliceValue, len(elems))
		for i, elem := range elems {
			if out[i], err = Coerce(t.Elem, elem); err != nil {
				return nil, err
			}
		}
		return out, nil

	case abi.ArrayTy:
		elems, err := convertToSlice(v)
		if err != nil || len(elems) != t.Size {
			return nil, mismatchErr(t, v)
		}
		out := make(abi.ArrayValue, len(elems))
		for i, elem := range elems {
			if out[i], err = Coerce(t.Elem, elem); err != nil {
				return nil, err
			}
		}
		return out, nil

	case abi.TupleTy:
		switch v := v.(type) {
		case map[string]interface{}:
			fields := make([]abi.Value, len(t.TupleElems))
			for i, elem := range t.TupleElems {
				name := t.TupleRawNames[i]
				fv, ok := v[name]
				if !ok {
					return nil, fmt.Errorf("%w: missing field %s of %s", abi.ErrTypeMismatch, name, t.TupleRawName)
				}
				var err error
				if fields[i], err = Coerce(elem, fv); err != nil {
					return nil, err
				}
			}
			if t.TupleRawName == "" {
				return abi.TupleValue(fields), nil
			}
			return abi.StructValue{
				Name:       t.TupleRawName,
				FieldNames: append([]string(nil), t.TupleRawNames...),
				Fields:     fields,
			}, nil
		case []interface{}:
			if len(v) != len(t.TupleElems) {
				return nil, mismatchErr(t, v)
			}
			fields := make([]abi.Value, len(v))
			for i, fv := range v {
				var err error
				if fields[i], err = Coerce(t.TupleElems[i], fv); err != nil {
					return nil, err
				}
			}
			return abi.TupleValue(fields), nil
		}
		return nil, mismatchErr(t, v)

	default:
		return nil, mismatchErr(t, v)
	}
}

// parseInteger accepts the integer spellings seen in JSON typed data:
// numbers, decimal strings and 0x-prefixed hex strings, plus native big and
// uint256 integers. Width and sign checking happens in Coerce, against the
// target type.
func parseInteger(t *abi.Type, v interface{}) (*big.Int, error) {
	var b *big.Int
	switch v := v.(type) {
	case *math.HexOrDecimal256:
		b = (*big.Int)(v)
	case *big.Int:
		b = v
	case *uint256.Int:
		b = v.ToBig()
	case hexutil.U256:
		b = (*uint256.Int)(&v).ToBig()
	case *hexutil.U256:
		b = (*uint256.Int)(v).ToBig()
	case string:
		var x math.HexOrDecimal256
		if err := x.UnmarshalText([]byte(v)); err != nil {
			return nil, mismatchErr(t, v)
		}
		b = (*big.Int)(&x)
	case json.Number:
		var x math.HexOrDecimal256
		if err := x.UnmarshalText([]byte(v)); err != nil {
			return nil, mismatchErr(t, v)
		}
		b = (*big.Int)(&x)
	case float64:
		// JSON decodes numbers as float64; reject lossy conversions.
		if float64(int64(v)) != v {
			return nil, mismatchErr(t, v)
		}
		b = big.NewInt(int64(v))
	case int64:
		b = big.NewInt(v)
	case int:
		b = big.NewInt(int64(v))
	default:
		return nil, mismatchErr(t, v)
	}
	return new(big.Int).Set(b), nil
}

// parseBytes accepts byte strings as []byte, fixed byte arrays, or
// 0x-prefixed hex strings.
func parseBytes(v interface{}) ([]byte, bool) {
	switch v := v.(type) {
	case []byte:
		return v, true
	case hexutil.Bytes:
		return v, true
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, false
		}
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		out := reflect.MakeSlice(reflect.TypeOf([]byte{}), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Bytes(), true
	}
	return nil, false
}

// convertToSlice normalizes slice-kinded inputs to []interface{}.
func convertToSlice(v interface{}) ([]interface{}, error) {
	if out, ok := v.([]interface{}); ok {
		return out, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("value %v is not a slice", v)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// mismatchErr reports a coercion failure naming the expected type and the
// offending fragment.
func mismatchErr(t *abi.Type, v interface{}) error {
	return fmt.Errorf("%w: cannot coerce %v (%T) to %v", abi.ErrTypeMismatch, v, v, t)
}
