// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: versions,
// error correction levels, encoding modes, the data bit stream and
// error correction codewords.
package coding // import "github.com/unixdj/qrenc/coding"

import (
	"errors"
	"strconv"
)

var (
	ErrDataTooLong             = errors.New("qr: data too long")
	ErrUnsupportedCharacterSet = errors.New("qr: unsupported character set")
	ErrInvalidCharacter        = errors.New("qr: invalid character")
	ErrInvalidECI              = errors.New("qr: invalid ECI designator")
	ErrLevel                   = errors.New("qr: invalid level")
	ErrVersion                 = errors.New("qr: invalid version")
)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// Versions run from 1 to 40: the larger the version, the more
// information the code can store.
type Version int

// Code versions.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

// NewVersion returns n as a Version, or ErrVersion if n is out of range.
func NewVersion(n int) (Version, error) {
	v := Version(n)
	if !v.IsValid() {
		return 0, ErrVersion
	}
	return v, nil
}

// IsValid reports whether v is between MinVersion and MaxVersion.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

func (v Version) String() string { return strconv.Itoa(int(v)) }

// Width returns the number of modules on a side.
func (v Version) Width() int { return int(v)*4 + 17 }

// QR version size classes.  The width of character count fields
// depends on the size class.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// ClassMax returns the largest version in size class c.
func ClassMax(c int) Version {
	return [...]Version{9, 26, 40}[c]
}

// Bytes returns the total number of codewords, data and error
// correction, in a QR code of version v.
func (v Version) Bytes() int { return vtab[v].bytes }

// Remainder returns the number of modules left after placing all
// codewords.
func (v Version) Remainder() int { return vtab[v].remainder }

// Blocks returns the number of error correction blocks and the
// number of error correction codewords in each.
func (v Version) Blocks(l Level) (nblock, check int) {
	lev := vtab[v].level[l]
	return lev.nblock, lev.check
}

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// Alignment returns the coordinates of alignment pattern centres
// on either axis.  Pattern positions are the cartesian product of
// the list with itself.  Version 1 has none.
func (v Version) Alignment() []int {
	vt := &vtab[v]
	if vt.apos == 0 {
		return nil
	}
	pos := []int{6, vt.apos}
	if vt.astride != 0 {
		for p := vt.apos + vt.astride; p <= v.Width()-7; p += vt.astride {
			pos = append(pos, p)
		}
	}
	return pos
}

// Info returns the 18 bit version information of v, or 0 for
// versions below 7, which carry none.
func (v Version) Info() uint32 { return vinfo[v] }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota
	M
	Q
	H
)

// IsValid reports whether l is one of L, M, Q, H.
func (l Level) IsValid() bool { return L <= l && l <= H }

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// ParseLevel returns the level named by s, in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		switch s[0] | 0x20 {
		case 'l':
			return L, nil
		case 'm':
			return M, nil
		case 'q':
			return Q, nil
		case 'h':
			return H, nil
		}
	}
	return 0, ErrLevel
}

// FormatInfo returns the 15 bit format information for level l
// and mask pattern mask.
func FormatInfo(l Level, mask int) uint16 {
	return ftab[int(l^1)<<3|mask&7]
}

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.
const (
	Numeric      Mode = iota // digits 0-9
	Alphanumeric             // 0-9 A-Z SPACE $%*+-./:
	Byte                     // any data
	Kanji                    // Shift JIS double byte characters
)

var modes = [...]struct {
	name        string
	indicator   uint32
	countLength [3]int
	dataBits    func(n int) int
}{
	Numeric: {
		"numeric", 0b0001, [3]int{10, 12, 14},
		func(n int) int { return (10*n + 2) / 3 },
	},
	Alphanumeric: {
		"alphanumeric", 0b0010, [3]int{9, 11, 13},
		func(n int) int { return (11*n + 1) / 2 },
	},
	Byte: {
		"byte", 0b0100, [3]int{8, 16, 16},
		func(n int) int { return n * 8 },
	},
	Kanji: {
		"kanji", 0b1000, [3]int{8, 10, 12},
		func(n int) int { return n * 13 },
	},
}

// IsValid reports whether mode is one of the four encoding modes.
func (mode Mode) IsValid() bool { return Numeric <= mode && mode <= Kanji }

func (mode Mode) String() string {
	if mode.IsValid() {
		return modes[mode].name
	}
	return "mode(" + strconv.Itoa(int(mode)) + ")"
}

// Indicator returns the 4 bit mode indicator.
func (mode Mode) Indicator() uint32 { return modes[mode].indicator }

// LengthBits returns the width of the character count field in
// version v.
func (mode Mode) LengthBits(v Version) int {
	return modes[mode].countLength[v.SizeClass()]
}

// DataBits returns the length in bits of n characters encoded in mode.
func (mode Mode) DataBits(n int) int { return modes[mode].dataBits(n) }

// Cmp compares two modes in the partial order
// Numeric < Alphanumeric < Byte, Kanji < Byte.  It returns -1, 0 or
// +1 and true if the modes are comparable, or false otherwise.
func (mode Mode) Cmp(other Mode) (int, bool) {
	switch {
	case mode == other:
		return 0, true
	case other == Byte:
		return -1, true
	case mode == Byte:
		return 1, true
	case mode == Kanji || other == Kanji:
		return 0, false
	case mode < other:
		return -1, true
	default:
		return 1, true
	}
}

// Join returns the least mode able to encode the data of both modes.
func (mode Mode) Join(other Mode) Mode {
	switch c, ok := mode.Cmp(other); {
	case !ok:
		return Byte
	case c < 0:
		return other
	default:
		return mode
	}
}

// A Segment is a half-open range [Begin, End) of input bytes
// encoded in Mode.
type Segment struct {
	Mode       Mode
	Begin, End int
}

// Len returns the length of seg in bytes.
func (seg Segment) Len() int { return seg.End - seg.Begin }

// Chars returns the character count of seg.
func (seg Segment) Chars() int {
	if seg.Mode == Kanji {
		return seg.Len() / 2
	}
	return seg.Len()
}

// EncodedLen returns the length in bits of seg encoded in version v,
// including the mode indicator and the character count field.
func (seg Segment) EncodedLen(v Version) int {
	return 4 + seg.Mode.LengthBits(v) + seg.Mode.DataBits(seg.Chars())
}

type version struct {
	bytes     int // total codewords
	remainder int // remainder bits
	apos      int // second alignment position
	astride   int // alignment stride for version 7 and up
	level     [4]level
}

type level struct {
	nblock int // number of blocks
	check  int // error correction codewords per block
}
