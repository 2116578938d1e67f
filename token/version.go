// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ECMAScript language edition.
type Version uint16

// List of language versions.
const (
	ES5    Version = 5
	ES2015 Version = 2015
	ES2016 Version = 2016
	ES2017 Version = 2017
	ES2018 Version = 2018
	ES2019 Version = 2019
	ES2020 Version = 2020
	ES2021 Version = 2021
	ES2022 Version = 2022
	ES2023 Version = 2023
	ES2024 Version = 2024
	ESNext Version = 9999
)

func (v Version) String() string {
	switch v {
	case ES5:
		return "es5"
	case ESNext:
		return "esnext"
	}
	return "es" + strconv.Itoa(int(v))
}

// ParseVersion parses names such as "es5", "es6", "es2020", "2020" or
// "esnext".
func ParseVersion(s string) (Version, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "es")
	switch name {
	case "next", "latest":
		return ESNext, nil
	case "5":
		return ES5, nil
	case "6":
		return ES2015, nil
	}
	n, err := strconv.Atoi(name)
	if err == nil {
		if n >= 7 && n <= 15 {
			// es7 .. es15 alias es2016 .. es2024
			n += 2009
		}
		if n >= int(ES2015) && n <= int(ES2024) {
			return Version(n), nil
		}
	}
	return 0, fmt.Errorf("unknown language version %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) (err error) {
	*v, err = ParseVersion(string(text))
	return
}
