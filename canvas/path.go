// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"github.com/unixdj/qrenc/coding"
)

const timingColumn = 6

// A Path walks the codeword placement order: pairs of columns from
// the right edge leftwards, alternately upwards and downwards, right
// column first.  The timing column is skipped.  Every other module
// is visited exactly once, including function pattern modules.
type Path struct {
	x, y, width int
}

// NewPath returns the placement path for version v.
func NewPath(v coding.Version) *Path {
	w := v.Width()
	return &Path{x: w - 1, y: w - 1, width: w}
}

// Next returns the next position and true, or false when the path
// is exhausted.
func (p *Path) Next() (x, y int, ok bool) {
	col := p.x
	if col <= timingColumn {
		col++
	}
	if col <= 0 {
		return 0, 0, false
	}
	x, y = p.x, p.y
	switch t := (p.width - col) % 4; {
	case t == 2 && p.y > 0:
		p.y--
		p.x++
	case t == 0 && p.y < p.width-1:
		p.y++
		p.x++
	case (t == 0 || t == 2) && p.x == timingColumn+1:
		p.x -= 2
	default:
		p.x--
	}
	return x, y, true
}

// DrawCodewords places the bits of cw, most significant first, on
// the empty modules along p.  If half is set, only the high nibble
// of the last codeword is placed.  It panics if p runs out.
func (c *Canvas) DrawCodewords(cw []byte, half bool, p *Path) {
	c.expect(phaseFunction)
	for i, b := range cw {
		low := 0
		if half && i == len(cw)-1 {
			low = 4
		}
		for k := 7; k >= low; k-- {
			x, y := c.nextEmpty(p)
			c.set(x, y, masked(b>>k&1 != 0))
		}
	}
}

func (c *Canvas) nextEmpty(p *Path) (int, int) {
	for {
		x, y, ok := p.Next()
		if !ok {
			bug("codewords do not fit")
		}
		if c.At(x, y) == Empty {
			return x, y
		}
	}
}

// DrawData places data codewords followed by error correction
// codewords.  Modules left empty are remainder bits, light before
// masking.
func (c *Canvas) DrawData(data, ec []byte) {
	if len(data)+len(ec) != c.v.Bytes() {
		bug("wrong number of codewords")
	}
	p := NewPath(c.v)
	c.DrawCodewords(data, false, p)
	c.DrawCodewords(ec, false, p)
	c.phase = phaseData
}
