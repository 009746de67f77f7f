// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Mode indicators without a character count.
const (
	indFNC1First  = 0b0101
	indECI        = 0b0111
	indFNC1Second = 0b1001
)

const (
	initialCap = 256 // initial buffer capacity in bytes
	maxChecked = 16  // widest field written by WriteChecked
	termBits   = 4   // terminator length
	maxECI     = 999999
)

// Bits is an append-only bit buffer for a QR data stream of a
// particular version.  Bits are written most significant first.
// Every Push method either succeeds or leaves the buffer unchanged.
type Bits struct {
	b   []byte
	off int // occupied high bits in the last byte, 0 if full
	v   Version
}

// NewBits returns an empty Bits for version v.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, initialCap), v: v}
}

// Version returns the version b is written for.
func (b *Bits) Version() Version { return b.v }

// Len returns the number of bits written.
func (b *Bits) Len() int {
	if b.off == 0 {
		return len(b.b) * 8
	}
	return (len(b.b)-1)*8 + b.off
}

// MaxLen returns the data capacity in bits for level l.
func (b *Bits) MaxLen(l Level) int { return b.v.DataBits(l) }

// Bytes returns the written data.  The last byte is padded with
// zero bits.
func (b *Bits) Bytes() []byte { return b.b }

// growTo doubles the capacity of b.b until it holds n bytes.
func (b *Bits) growTo(n int) {
	if n <= cap(b.b) {
		return
	}
	c := max(cap(b.b), initialCap)
	for c < n {
		c *= 2
	}
	nb := make([]byte, len(b.b), c)
	copy(nb, b.b)
	b.b = nb
}

// Write writes the low nbit bits of v, nbit <= 32.
func (b *Bits) Write(v uint32, nbit int) {
	for nbit > 0 {
		if b.off == 0 {
			b.growTo(len(b.b) + 1)
			b.b = append(b.b, 0)
		}
		n := min(8-b.off, nbit)
		nbit -= n
		b.b[len(b.b)-1] |= byte(v>>nbit&(1<<n-1)) << (8 - b.off - n)
		b.off = (b.off + n) & 7
	}
}

// WriteChecked is like Write, but fails with ErrDataTooLong if
// nbit > 16 or v does not fit in nbit bits.
func (b *Bits) WriteChecked(v uint32, nbit int) error {
	if nbit > maxChecked || v>>nbit != 0 {
		return ErrDataTooLong
	}
	b.Write(v, nbit)
	return nil
}

// truncate shortens b to n bits.
func (b *Bits) truncate(n int) {
	b.b = b.b[:(n+7)>>3]
	b.off = n & 7
	if b.off != 0 {
		b.b[len(b.b)-1] &^= 0xff >> b.off
	}
}

// PushModeIndicator writes the mode indicator of mode.
func (b *Bits) PushModeIndicator(mode Mode) error {
	if !mode.IsValid() || !b.v.IsValid() {
		return ErrUnsupportedCharacterSet
	}
	b.Write(mode.Indicator(), 4)
	return nil
}

// PushECI writes an ECI designator.
func (b *Bits) PushECI(eci int) error {
	switch {
	case eci < 0 || eci > maxECI:
		return ErrInvalidECI
	case eci <= 127:
		b.Write(indECI, 4)
		b.Write(uint32(eci), 8)
	case eci <= 16383:
		b.Write(indECI, 4)
		b.Write(0b10<<14|uint32(eci), 16)
	default:
		b.Write(indECI, 4)
		b.Write(0b110<<5|uint32(eci>>16), 8)
		b.Write(uint32(eci)&0xffff, 16)
	}
	return nil
}

// PushHeader writes the mode indicator and a character count of n.
func (b *Bits) PushHeader(mode Mode, n int) error {
	if !mode.IsValid() || !b.v.IsValid() {
		return ErrUnsupportedCharacterSet
	}
	if n < 0 || n>>mode.LengthBits(b.v) != 0 {
		return ErrDataTooLong
	}
	b.Write(mode.Indicator(), 4)
	b.Write(uint32(n), mode.LengthBits(b.v))
	return nil
}

// PushNumeric writes a numeric segment of ASCII digits.
func (b *Bits) PushNumeric(data []byte) error {
	for _, c := range data {
		if c-'0' >= 10 {
			return ErrInvalidCharacter
		}
	}
	if err := b.PushHeader(Numeric, len(data)); err != nil {
		return err
	}
	for ; len(data) >= 3; data = data[3:] {
		b.Write(uint32(data[0]-'0')*100+uint32(data[1]-'0')*10+
			uint32(data[2]-'0'), 10)
	}
	switch len(data) {
	case 2:
		b.Write(uint32(data[0]-'0')*10+uint32(data[1]-'0'), 7)
	case 1:
		b.Write(uint32(data[0]-'0'), 4)
	}
	return nil
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// IsAlphanumeric reports whether c is in the alphanumeric set.
func IsAlphanumeric(c byte) bool {
	return c >= ' ' && c < ' '+64 && alphamask>>(c-' ')&1 != 0
}

// PushAlphanumeric writes an alphanumeric segment.
func (b *Bits) PushAlphanumeric(data []byte) error {
	for _, c := range data {
		if !IsAlphanumeric(c) {
			return ErrInvalidCharacter
		}
	}
	if err := b.PushHeader(Alphanumeric, len(data)); err != nil {
		return err
	}
	for ; len(data) >= 2; data = data[2:] {
		b.Write(uint32(alpha[data[0]&0x3f])*45+
			uint32(alpha[data[1]&0x3f]), 11)
	}
	if len(data) == 1 {
		b.Write(uint32(alpha[data[0]&0x3f]), 6)
	}
	return nil
}

// PushByte writes a byte segment.
func (b *Bits) PushByte(data []byte) error {
	if err := b.PushHeader(Byte, len(data)); err != nil {
		return err
	}
	if b.off == 0 {
		b.growTo(len(b.b) + len(data))
		b.b = append(b.b, data...)
		return nil
	}
	for _, c := range data {
		b.Write(uint32(c), 8)
	}
	return nil
}

// IsKanji reports whether the Shift JIS double byte character hi, lo
// can be encoded in kanji mode.
func IsKanji(hi, lo byte) bool {
	c := uint16(hi)<<8 | uint16(lo)
	return (0x8140 <= c && c <= 0x9ffc || 0xe040 <= c && c <= 0xebbf) &&
		lo >= 0x40 && lo != 0x7f && lo <= 0xfc
}

// PushKanji writes a kanji segment of Shift JIS double byte characters.
func (b *Bits) PushKanji(data []byte) error {
	if len(data)&1 != 0 {
		return ErrInvalidCharacter
	}
	for i := 0; i < len(data); i += 2 {
		if !IsKanji(data[i], data[i+1]) {
			return ErrInvalidCharacter
		}
	}
	if err := b.PushHeader(Kanji, len(data)/2); err != nil {
		return err
	}
	for ; len(data) >= 2; data = data[2:] {
		c := uint32(data[0])<<8 | uint32(data[1])
		if c < 0xe040 {
			c -= 0x8140
		} else {
			c -= 0xc140
		}
		b.Write(c>>8*0xc0+c&0xff, 13)
	}
	return nil
}

// PushFNC1First writes the FNC1 in first position mode indicator.
func (b *Bits) PushFNC1First() error {
	b.Write(indFNC1First, 4)
	return nil
}

// PushFNC1Second writes the FNC1 in second position mode indicator
// and the application indicator ai.
func (b *Bits) PushFNC1Second(ai int) error {
	if ai < 0 || ai > 0xff {
		return ErrDataTooLong
	}
	b.Write(indFNC1Second, 4)
	b.Write(uint32(ai), 8)
	return nil
}

// PushSegment writes seg, a segment of data.
func (b *Bits) PushSegment(data []byte, seg Segment) error {
	if seg.Begin < 0 || seg.Begin > seg.End || seg.End > len(data) {
		return ErrInvalidCharacter
	}
	s := data[seg.Begin:seg.End]
	switch seg.Mode {
	case Numeric:
		return b.PushNumeric(s)
	case Alphanumeric:
		return b.PushAlphanumeric(s)
	case Byte:
		return b.PushByte(s)
	case Kanji:
		return b.PushKanji(s)
	}
	return ErrUnsupportedCharacterSet
}

// PushSegments writes segs.  On error nothing is written.
func (b *Bits) PushSegments(data []byte, segs []Segment) error {
	n := b.Len()
	for _, seg := range segs {
		if err := b.PushSegment(data, seg); err != nil {
			b.truncate(n)
			return err
		}
	}
	return nil
}

// PushTerminator adds the terminator and pads b to the capacity
// of level l.
func (b *Bits) PushTerminator(l Level) error {
	if !l.IsValid() {
		return ErrLevel
	}
	n := b.MaxLen(l)
	cur := b.Len()
	if cur > n {
		return ErrDataTooLong
	}
	b.Write(0, min(termBits, n-cur))
	if b.off != 0 {
		b.Write(0, 8-b.off)
	}
	pad := [2]uint32{0xec, 0x11}
	for i := 0; len(b.b) < n>>3; i++ {
		b.Write(pad[i&1], 8)
	}
	return nil
}
