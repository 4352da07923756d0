// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package charset implements the fixed-width code unit text model (C1):
// the internal representation of T, the sentinel, and effective-length
// arithmetic shared by every store, primitive, and builder.
package charset

import "fmt"

// Width identifies the fixed code-unit width chosen by the text loader,
// carried along purely for reporting; every algorithm operates on the
// uniform uint32 lane regardless of the original width.
type Width int

const (
	ASCII Width = 1 // 1 byte per code unit
	UCS2  Width = 2 // 2-3 input bytes, little-endian UCS-2 internal
	UCS4  Width = 4 // >=4 input bytes, little-endian UCS-4 internal
)

func (w Width) String() string {
	switch w {
	case ASCII:
		return "ASCII"
	case UCS2:
		return "UCS-2"
	case UCS4:
		return "UCS-4"
	default:
		return fmt.Sprintf("Width(%d)", int(w))
	}
}

// Sentinel is the reserved code unit value standing for $, the unique
// suffix terminator. It never occurs among real text characters; loaders
// are responsible for rejecting input that would collide with it.
const Sentinel uint32 = 1<<32 - 1

// Ordering is the three-valued result of comparing two characters, or an
// edge label against the text, throughout C4/C5/C6/C7.
type Ordering int8

const (
	Less Ordering = -1
	Equal Ordering = 0
	Greater Ordering = 1
)

func (o Ordering) String() string {
	switch o {
	case Less:
		return "Less"
	case Equal:
		return "Equal"
	case Greater:
		return "Greater"
	default:
		return "invalid"
	}
}

// Compare orders two code units with the sentinel fixed as strictly the
// smallest character in the alphabet (spec Open Question (a)). Every
// comparison in the system must go through this function so the choice
// stays consistent across stores, primitives, and builders.
func Compare(a, b uint32) Ordering {
	aSentinel := a == Sentinel
	bSentinel := b == Sentinel

	switch {
	case aSentinel && bSentinel:
		return Equal
	case aSentinel:
		return Less
	case bSentinel:
		return Greater
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

// Text is the fixed-width code unit buffer T together with its effective
// length arithmetic.
//
// Layout: Units[0] is unused, Units[1..N] are the real characters,
// Units[N+1] is the sentinel, Units[N+2] is the terminating null.
type Text struct {
	Units []uint32
	N     int   // number of real characters
	Width Width // original code-unit width, informational only
}

// New builds a Text from the real characters real (1-indexed conceptually;
// real[0] is T[1]). Appends the sentinel and the terminating null.
func New(real []uint32, width Width) *Text {
	n := len(real)
	units := make([]uint32, n+3)
	copy(units[1:], real)
	units[n+1] = Sentinel
	units[n+2] = 0
	return &Text{Units: units, N: n, Width: width}
}

// EffLen is L_eff = n+1, the length of T$ used throughout depth arithmetic.
func (t *Text) EffLen() int { return t.N + 1 }

// At returns T[i] for i in [0, n+2]. Out-of-range i panics, matching the
// fixed-size backing array contract.
func (t *Text) At(i int) uint32 { return t.Units[i] }

// CompareAt compares T[i] against c.
func (t *Text) CompareAt(i int, c uint32) Ordering {
	return Compare(t.Units[i], c)
}
