// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package canvas lays out QR code modules.

A Canvas goes through three phases: function patterns are drawn on
an empty canvas, then data and error correction codewords are placed
along the zigzag path, then a mask is applied and the format
information drawn.  Calling a method out of phase panics.

Coordinates are x (column) and y (row), counting from the top left
corner.  Negative coordinates count from the right and bottom edges,
-1 being the last column or row.
*/
package canvas // import "github.com/unixdj/qrenc/canvas"

import (
	"strings"
	"sync"

	"github.com/unixdj/qrenc/coding"
)

// A Module is the state of one cell of a Canvas.  Bit 0 is the
// colour, 1 for dark.  Function patterns are Unmasked, data modules
// are Masked.
type Module uint8

// Module values.
const (
	Empty         Module = 0b000 // not yet drawn
	MaskedLight   Module = 0b010
	MaskedDark    Module = 0b011
	UnmaskedLight Module = 0b100
	UnmaskedDark  Module = 0b101
)

const (
	colorBit    = 0b001
	maskedBit   = 0b010
	unmaskedBit = 0b100
)

// IsDark reports whether m is dark.
func (m Module) IsDark() bool { return m&colorBit != 0 }

// IsMasked reports whether m is a data module.
func (m Module) IsMasked() bool { return m&maskedBit != 0 }

// IsFunction reports whether m belongs to a function pattern.
func (m Module) IsFunction() bool { return m&unmaskedBit != 0 }

func masked(dark bool) Module {
	if dark {
		return MaskedDark
	}
	return MaskedLight
}

func unmasked(dark bool) Module {
	if dark {
		return UnmaskedDark
	}
	return UnmaskedLight
}

type phase uint8

const (
	phaseEmpty phase = iota
	phaseFunction
	phaseData
	phaseMasked
)

var phaseNames = [...]string{"empty", "function patterns", "data", "masked"}

// bug panics with an internal error.
func bug(msg string) {
	panic("qr: internal error: " + msg)
}

// A Canvas is a square grid of modules for a particular version and
// error correction level.
type Canvas struct {
	v     coding.Version
	l     coding.Level
	width int
	m     []Module
	phase phase
	mask  MaskPattern
}

// New returns an empty Canvas.  It panics if v or l is invalid.
func New(v coding.Version, l coding.Level) *Canvas {
	if !v.IsValid() || !l.IsValid() {
		bug("invalid version or level")
	}
	w := v.Width()
	return &Canvas{v: v, l: l, width: w, m: make([]Module, w*w)}
}

var templates [coding.MaxVersion + 1]struct {
	once sync.Once
	c    *Canvas
}

// Prepare returns a Canvas with function patterns drawn.  The
// patterns depend only on the version and are drawn once per
// version.  Prepare is safe for concurrent use.
func Prepare(v coding.Version, l coding.Level) *Canvas {
	if !v.IsValid() || !l.IsValid() {
		bug("invalid version or level")
	}
	t := &templates[v]
	t.once.Do(func() {
		t.c = New(v, coding.L)
		t.c.DrawFunctionPatterns()
	})
	c := t.c.Clone()
	c.l = l
	return c
}

// Clone returns a deep copy of c.
func (c *Canvas) Clone() *Canvas {
	nc := *c
	nc.m = make([]Module, len(c.m))
	copy(nc.m, c.m)
	return &nc
}

// Version returns the version of c.
func (c *Canvas) Version() coding.Version { return c.v }

// Level returns the error correction level of c.
func (c *Canvas) Level() coding.Level { return c.l }

// Width returns the number of modules on a side.
func (c *Canvas) Width() int { return c.width }

func (c *Canvas) index(x, y int) int {
	if x < 0 {
		x += c.width
	}
	if y < 0 {
		y += c.width
	}
	return y*c.width + x
}

// At returns the module at (x, y).
func (c *Canvas) At(x, y int) Module { return c.m[c.index(x, y)] }

// IsDark reports whether the module at (x, y) is dark.
func (c *Canvas) IsDark(x, y int) bool { return c.At(x, y).IsDark() }

func (c *Canvas) set(x, y int, m Module) { c.m[c.index(x, y)] = m }

// Colors returns the colours of all modules in row major order,
// 1 for dark and 0 for light.
func (c *Canvas) Colors() []byte {
	b := make([]byte, len(c.m))
	for i, m := range c.m {
		b[i] = byte(m & colorBit)
	}
	return b
}

func (c *Canvas) expect(p phase) {
	if c.phase != p {
		bug("canvas in phase " + phaseNames[c.phase] +
			", want " + phaseNames[p])
	}
}

// DrawFunctionPatterns draws the finder, alignment and timing
// patterns and the version information, and reserves the format
// information modules.
func (c *Canvas) DrawFunctionPatterns() {
	c.expect(phaseEmpty)
	c.drawFinder(3, 3)
	c.drawFinder(-4, 3)
	c.drawFinder(3, -4)
	c.drawAlignment()
	c.drawTiming()
	c.drawFormat(0)
	c.drawVersion()
	c.phase = phaseFunction
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// drawFinder draws a finder pattern centred at (x, y) with its
// separator.  The separator is on the inner side, so the pattern
// spans 8 modules each way.
func (c *Canvas) drawFinder(x, y int) {
	x0, y0 := -3, -3
	if x < 0 {
		x0 = -4
	}
	if y < 0 {
		y0 = -4
	}
	for dy := y0; dy < y0+8; dy++ {
		for dx := x0; dx < x0+8; dx++ {
			d := max(abs(dx), abs(dy))
			c.set(x+dx, y+dy, unmasked(d != 2 && d != 4))
		}
	}
}

// drawAlignment draws alignment patterns at the version's positions,
// except where they overlap finder patterns.
func (c *Canvas) drawAlignment() {
	pos := c.v.Alignment()
	for _, y := range pos {
		for _, x := range pos {
			if c.At(x, y) != Empty {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					c.set(x+dx, y+dy, unmasked(max(abs(dx), abs(dy)) != 1))
				}
			}
		}
	}
}

func (c *Canvas) drawTiming() {
	for i := 8; i < c.width-8; i++ {
		c.set(i, 6, unmasked(i&1 == 0))
		c.set(6, i, unmasked(i&1 == 0))
	}
}

type point struct{ x, y int8 }

// Format information positions, most significant bit first.
var (
	formatMain = [15]point{
		{0, 8}, {1, 8}, {2, 8}, {3, 8}, {4, 8}, {5, 8}, {7, 8}, {8, 8},
		{8, 7}, {8, 5}, {8, 4}, {8, 3}, {8, 2}, {8, 1}, {8, 0},
	}
	formatSide = [15]point{
		{8, -1}, {8, -2}, {8, -3}, {8, -4}, {8, -5}, {8, -6}, {8, -7},
		{-8, 8}, {-7, 8}, {-6, 8}, {-5, 8}, {-4, 8}, {-3, 8}, {-2, 8}, {-1, 8},
	}
)

// drawFormat draws both copies of the format information and the
// dark module.
func (c *Canvas) drawFormat(info uint16) {
	for i := range formatMain {
		dark := info>>(14-i)&1 != 0
		c.set(int(formatMain[i].x), int(formatMain[i].y), unmasked(dark))
		c.set(int(formatSide[i].x), int(formatSide[i].y), unmasked(dark))
	}
	c.set(8, -8, UnmaskedDark)
}

// drawVersion draws both copies of the version information, for
// version 7 and up.  Bits go most significant first, from the inner
// edge outwards in blocks of three.
func (c *Canvas) drawVersion() {
	info := c.v.Info()
	if info == 0 {
		return
	}
	for i := 0; i < 18; i++ {
		dark := info>>(17-i)&1 != 0
		x, y := 5-i/3, -9-i%3
		c.set(x, y, unmasked(dark))
		c.set(y, x, unmasked(dark))
	}
}

var debugChars = [...]byte{
	Empty:         '?',
	MaskedLight:   '.',
	MaskedDark:    '#',
	UnmaskedLight: '-',
	UnmaskedDark:  '*',
}

// String returns a text dump of c, one line per row.  Empty modules
// are '?', data modules are '.' and '#', function modules are '-'
// and '*'.
func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.width + 1) * c.width)
	for y := 0; y < c.width; y++ {
		for _, m := range c.m[y*c.width : (y+1)*c.width] {
			b.WriteByte(debugChars[m])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
