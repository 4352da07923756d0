// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package loader reads raw input bytes into an internal/charset.Text,
// transcoding from the declared source encoding into the uniform uint32
// code-unit lane every algorithm in this module operates on.
//
// Decoding runs through the standard library's unicode/utf8 and
// unicode/utf16 — no library in the example pack offers rune decoding,
// so this is one of the few components built directly on the standard
// library (see DESIGN.md).
package loader

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pbasista/stc-sub000/internal/buildfail"
	"github.com/pbasista/stc-sub000/internal/charset"
)

// Encoding identifies how the source bytes are laid out.
type Encoding int

const (
	ASCII Encoding = iota
	UTF8
	UTF16LE
	UTF32LE
)

func (e Encoding) String() string {
	switch e {
	case ASCII:
		return "ASCII"
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16LE"
	case UTF32LE:
		return "UTF-32LE"
	default:
		return "unknown"
	}
}

// Load reads all of r and transcodes it per enc into a Text.
func Load(r io.Reader, enc Encoding) (*charset.Text, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, buildfail.Wrap(buildfail.IoError, "loader.Load", err)
	}

	switch enc {
	case ASCII:
		return decodeASCII(raw)
	case UTF8:
		return decodeUTF8(raw)
	case UTF16LE:
		return decodeUTF16LE(raw)
	case UTF32LE:
		return decodeUTF32LE(raw)
	default:
		return nil, buildfail.New(buildfail.ConfigError, "loader.Load", "unknown source encoding")
	}
}

func widthFor(units []uint32) charset.Width {
	w := charset.ASCII
	for _, u := range units {
		switch {
		case u > 0xFFFF:
			return charset.UCS4
		case u > 0x7F && w < charset.UCS2:
			w = charset.UCS2
		}
	}
	return w
}

func decodeASCII(raw []byte) (*charset.Text, error) {
	units := make([]uint32, len(raw))
	for i, b := range raw {
		if b > 0x7F {
			return nil, buildfail.New(buildfail.ConfigError, "loader.decodeASCII", "non-ASCII byte in ASCII input")
		}
		units[i] = uint32(b)
	}
	return charset.New(units, charset.ASCII), nil
}

func decodeUTF8(raw []byte) (*charset.Text, error) {
	units := make([]uint32, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, buildfail.New(buildfail.ConfigError, "loader.decodeUTF8", "invalid UTF-8 sequence")
		}
		if uint32(r) == charset.Sentinel {
			return nil, buildfail.New(buildfail.ConfigError, "loader.decodeUTF8", "input collides with the reserved sentinel code point")
		}
		units = append(units, uint32(r))
		i += size
	}
	return charset.New(units, widthFor(units)), nil
}

func decodeUTF16LE(raw []byte) (*charset.Text, error) {
	if len(raw)%2 != 0 {
		return nil, buildfail.New(buildfail.ConfigError, "loader.decodeUTF16LE", "odd byte length for UTF-16LE input")
	}
	u16 := make([]uint16, len(raw)/2)
	for i := range u16 {
		u16[i] = uint16(raw[2*i]) | uint16(raw[2*i+1])<<8
	}
	runes := utf16.Decode(u16)
	units := make([]uint32, len(runes))
	for i, r := range runes {
		if uint32(r) == charset.Sentinel {
			return nil, buildfail.New(buildfail.ConfigError, "loader.decodeUTF16LE", "input collides with the reserved sentinel code point")
		}
		units[i] = uint32(r)
	}
	return charset.New(units, widthFor(units)), nil
}

func decodeUTF32LE(raw []byte) (*charset.Text, error) {
	if len(raw)%4 != 0 {
		return nil, buildfail.New(buildfail.ConfigError, "loader.decodeUTF32LE", "byte length not a multiple of 4 for UTF-32LE input")
	}
	units := make([]uint32, len(raw)/4)
	for i := range units {
		v := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		if v == charset.Sentinel {
			return nil, buildfail.New(buildfail.ConfigError, "loader.decodeUTF32LE", "input collides with the reserved sentinel code point")
		}
		units[i] = v
	}
	return charset.New(units, charset.UCS4), nil
}
