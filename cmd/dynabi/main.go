// Copyright 2023 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// dynabi is a command line tool for encoding, decoding and hashing values of
// dynamically described ABI types.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethval/dynabi/abi"
	"github.com/ethval/dynabi/common/hexutil"
	"github.com/ethval/dynabi/eip712"
	"github.com/urfave/cli/v2"
)

var (
	validateFlag = &cli.BoolFlag{
		Name:  "validate",
		Usage: "Enforce canonical padding when decoding",
		Value: true,
	}
	allowExtraFlag = &cli.BoolFlag{
		Name:  "allow-extra",
		Usage: "Permit trailing bytes after the final element",
	}
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file with typed-data domain defaults",
	}
)

var app = &cli.App{
	Name:  "dynabi",
	Usage: "encode, decode and hash dynamically typed ABI values",
	Commands: []*cli.Command{
		encodeCommand,
		decodeCommand,
		typedHashCommand,
	},
}

var encodeCommand = &cli.Command{
	Name:      "encode",
	Usage:     "ABI-encode a JSON value of the given type",
	ArgsUsage: "<type> <json-value>",
	Action:    runEncode,
}

var decodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "Decode hex ABI data into a JSON value of the given type",
	ArgsUsage: "<type> <hex-data>",
	Flags:     []cli.Flag{validateFlag, allowExtraFlag},
	Action:    runDecode,
}

var typedHashCommand = &cli.Command{
	Name:      "typedhash",
	Usage:     "Compute the EIP-712 signing hash of a typed-data JSON file",
	ArgsUsage: "<typed-data.json>",
	Flags:     []cli.Flag{configFileFlag},
	Action:    runTypedHash,
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEncode(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("encode needs a type and a JSON value")
	}
	typ, err := abi.ParseType(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	var raw interface{}
	if err := json.Unmarshal([]byte(ctx.Args().Get(1)), &raw); err != nil {
		return fmt.Errorf("invalid JSON value: %v", err)
	}
	value, err := eip712.Coerce(&typ, raw)
	if err != nil {
		return err
	}
	enc, err := abi.EncodeParams(&typ, value)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(enc))
	return nil
}

func runDecode(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("decode needs a type and hex data")
	}
	typ, err := abi.ParseType(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	data, err := hexutil.Decode(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	opts := abi.DecodeOpts{
		Validate:   ctx.Bool(validateFlag.Name),
		AllowExtra: ctx.Bool(allowExtraFlag.Name),
	}
	value, err := abi.DecodeParamsWithOpts(&typ, data, opts)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(formatValue(value), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runTypedHash(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("typedhash needs a typed-data JSON file")
	}
	blob, err := os.ReadFile(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	var td eip712.TypedData
	if err := json.Unmarshal(blob, &td); err != nil {
		return fmt.Errorf("invalid typed data: %v", err)
	}
	if ctx.IsSet(configFileFlag.Name) {
		var cfg dynabiConfig
		if err := loadConfig(ctx.String(configFileFlag.Name), &cfg); err != nil {
			return err
		}
		applyDomainDefaults(&td.Domain, &cfg.Domain)
	}
	digest, _, err := eip712.TypedDataAndHash(td)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(digest))
	return nil
}

// formatValue renders a decoded value as JSON-encodable data: integers as
// decimal strings, byte strings and addresses as 0x hex, composites as
// arrays, structs as field maps.
func formatValue(v abi.Value) interface{} {
	switch v := v.(type) {
	case abi.BoolValue:
		return bool(v)
	case abi.AddressValue:
		return hexutil.Encode(v[:])
	case abi.FunctionValue:
		return hexutil.Encode(v[:])
	case abi.UintValue:
		return v.X.String()
	case abi.IntValue:
		return v.X.String()
	case abi.FixedBytesValue:
		return hexutil.Encode(v.Bytes())
	case abi.BytesValue:
		return hexutil.Encode(v)
	case abi.StringValue:
		return string(v)
	case abi.SliceValue:
		return formatSeq(v)
	case abi.ArrayValue:
		return formatSeq(v)
	case abi.TupleValue:
		return formatSeq(v)
	case abi.StructValue:
		m := make(map[string]interface{}, len(v.Fields))
		for i, name := range v.FieldNames {
			m[name] = formatValue(v.Fields[i])
		}
		return m
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatSeq(elems []abi.Value) []interface{} {
	out := make([]interface{}, len(elems))
	for i, elem := range elems {
		out[i] = formatValue(elem)
	}
	return out
}
