// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package loader

import (
	"bytes"
	"testing"

	"github.com/pbasista/stc-sub000/internal/charset"
)

func TestLoadASCII(t *testing.T) {
	text, err := Load(bytes.NewReader([]byte("abc")), ASCII)
	if err != nil {
		t.Fatal(err)
	}
	if text.N != 3 || text.Width != charset.ASCII {
		t.Fatalf("N=%d Width=%v, want 3, ASCII", text.N, text.Width)
	}
	if text.At(1) != 'a' || text.At(2) != 'b' || text.At(3) != 'c' {
		t.Errorf("decoded characters wrong")
	}
}

func TestLoadASCIIRejectsHighByte(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{'a', 0x80}), ASCII)
	if err == nil {
		t.Fatal("expected an error for a non-ASCII byte in ASCII mode")
	}
}

func TestLoadUTF8(t *testing.T) {
	text, err := Load(bytes.NewReader([]byte("héllo")), UTF8)
	if err != nil {
		t.Fatal(err)
	}
	if text.N != 5 {
		t.Fatalf("N = %d, want 5", text.N)
	}
	if text.At(2) != 'é' {
		t.Errorf("At(2) = %d, want %d", text.At(2), uint32('é'))
	}
}

func TestLoadUTF8RejectsInvalidSequence(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{'a', 0xFF, 'b'}), UTF8)
	if err == nil {
		t.Fatal("expected an error for an invalid UTF-8 sequence")
	}
}

func TestLoadUTF32LERejectsSentinelCollision(t *testing.T) {
	// the sentinel lies above the Unicode range, so UTF-32LE is the only
	// input encoding that can carry it.
	raw := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	_, err := Load(bytes.NewReader(raw), UTF32LE)
	if err == nil {
		t.Fatal("expected an error when input collides with the sentinel code point")
	}
}

func TestLoadUTF16LE(t *testing.T) {
	raw := []byte{'a', 0, 'b', 0, 'c', 0}
	text, err := Load(bytes.NewReader(raw), UTF16LE)
	if err != nil {
		t.Fatal(err)
	}
	if text.N != 3 {
		t.Fatalf("N = %d, want 3", text.N)
	}
	if text.At(1) != 'a' || text.At(2) != 'b' || text.At(3) != 'c' {
		t.Errorf("decoded characters wrong")
	}
}

func TestLoadUTF16LERejectsOddLength(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{'a', 0, 'b'}), UTF16LE)
	if err == nil {
		t.Fatal("expected an error for odd-length UTF-16LE input")
	}
}

func TestLoadUTF32LE(t *testing.T) {
	raw := []byte{'a', 0, 0, 0, 'b', 0, 0, 0}
	text, err := Load(bytes.NewReader(raw), UTF32LE)
	if err != nil {
		t.Fatal(err)
	}
	if text.N != 2 || text.Width != charset.UCS4 {
		t.Fatalf("N=%d Width=%v, want 2, UCS4", text.N, text.Width)
	}
	if text.At(1) != 'a' || text.At(2) != 'b' {
		t.Errorf("decoded characters wrong")
	}
}

func TestLoadUTF32LERejectsBadLength(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte{'a', 0, 0, 0, 'b', 0}), UTF32LE)
	if err == nil {
		t.Fatal("expected an error for a non-multiple-of-4 UTF-32LE length")
	}
}

func TestLoadUnknownEncoding(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("x")), Encoding(99))
	if err == nil {
		t.Fatal("expected an error for an unknown encoding")
	}
}

func TestEncodingString(t *testing.T) {
	cases := map[Encoding]string{
		ASCII:         "ASCII",
		UTF8:          "UTF-8",
		UTF16LE:       "UTF-16LE",
		UTF32LE:       "UTF-32LE",
		Encoding(123): "unknown",
	}
	for e, want := range cases {
		if got := e.String(); got != want {
			t.Errorf("Encoding(%d).String() = %q, want %q", e, got, want)
		}
	}
}
