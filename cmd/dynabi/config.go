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

package main

import (
	"bufio"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/ethval/dynabi/eip712"
	"github.com/naoina/toml"
)

// dynabiConfig holds defaults applied to typed-data requests that leave
// domain fields unset.
type dynabiConfig struct {
	Domain eip712.Domain
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func loadConfig(file string, cfg *dynabiConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = fmt.Errorf("%v, %v", file, err)
	}
	return err
}

// applyDomainDefaults fills unset fields of dst from defaults.
func applyDomainDefaults(dst, defaults *eip712.Domain) {
	if dst.Name == "" {
		dst.Name = defaults.Name
	}
	if dst.Version == "" {
		dst.Version = defaults.Version
	}
	if dst.ChainId == nil {
		dst.ChainId = defaults.ChainId
	}
	if dst.VerifyingContract == "" {
		dst.VerifyingContract = defaults.VerifyingContract
	}
	if dst.Salt == "" {
		dst.Salt = defaults.Salt
	}
}
