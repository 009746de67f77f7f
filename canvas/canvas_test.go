// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/unixdj/qrenc/coding"
)

// lcg is a tiny deterministic generator for test data.
type lcg uint64

func (r *lcg) next(n int) int {
	*r = *r*6364136223846793005 + 1442695040888963407
	return int(uint64(*r) >> 33 % uint64(n))
}

func (r *lcg) bytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.next(256))
	}
	return b
}

func count(c *Canvas, m Module) int {
	n := 0
	for _, v := range c.m {
		if v == m {
			n++
		}
	}
	return n
}

func TestFunctionPatterns(t *testing.T) {
	for v := coding.MinVersion; v <= coding.MaxVersion; v++ {
		c := Prepare(v, coding.M)
		if got, want := count(c, Empty), v.Bytes()*8+v.Remainder(); got != want {
			t.Errorf("version %d: %d empty modules, want %d", v, got, want)
		}
		for i, m := range c.m {
			if m != Empty && !m.IsFunction() {
				t.Fatalf("version %d: module %d is %d", v, i, m)
			}
		}
		if c.At(8, -8) != UnmaskedDark {
			t.Errorf("version %d: no dark module", v)
		}
	}
}

func TestFinderPattern(t *testing.T) {
	c := Prepare(1, coding.L)
	want := []string{
		"*******-",
		"*-----*-",
		"*-***-*-",
		"*-***-*-",
		"*-***-*-",
		"*-----*-",
		"*******-",
		"--------",
	}
	rows := strings.Split(c.String(), "\n")
	for y, w := range want {
		if rows[y][:8] != w {
			t.Errorf("row %d: %q, want %q", y, rows[y][:8], w)
		}
		if got := rows[y][len(rows[y])-8:]; got != reverse(w) {
			t.Errorf("row %d right: %q, want %q", y, got, reverse(w))
		}
		if got := rows[len(want)-1-y+c.width-8][:8]; got != w {
			t.Errorf("row %d bottom: %q, want %q", y, got, w)
		}
	}
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func TestAlignmentPattern(t *testing.T) {
	c := Prepare(7, coding.L)
	// (6, 22) is crossed by the timing pattern, (22, 22) is free.
	for _, p := range [][2]int{{6, 22}, {22, 6}, {22, 22}, {38, 22}, {22, 38}, {38, 38}} {
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				dark := max(abs(dx), abs(dy)) != 1
				if m := c.At(p[0]+dx, p[1]+dy); m != unmasked(dark) {
					t.Fatalf("alignment at %v: (%d, %d) is %d", p, dx, dy, m)
				}
			}
		}
	}
}

func TestVersionInfo(t *testing.T) {
	for _, v := range []coding.Version{7, 21, 40} {
		c := Prepare(v, coding.L)
		var bl, tr uint32
		for x := 5; x >= 0; x-- {
			for y := -9; y >= -11; y-- {
				bl = bl<<1 | uint32(c.At(x, y)&colorBit)
				tr = tr<<1 | uint32(c.At(y, x)&colorBit)
			}
		}
		if bl != v.Info() || tr != v.Info() {
			t.Errorf("version %d: got %#x %#x, want %#x", v, bl, tr, v.Info())
		}
	}
}

func TestPath(t *testing.T) {
	for v := coding.MinVersion; v <= coding.MaxVersion; v++ {
		w := v.Width()
		seen := make([]bool, w*w)
		n := 0
		p := NewPath(v)
		for x, y, ok := p.Next(); ok; x, y, ok = p.Next() {
			if x < 0 || x >= w || y < 0 || y >= w || x == timingColumn {
				t.Fatalf("version %d: bad position (%d, %d)", v, x, y)
			}
			if seen[y*w+x] {
				t.Fatalf("version %d: (%d, %d) visited twice", v, x, y)
			}
			seen[y*w+x] = true
			n++
		}
		if n != w*(w-1) {
			t.Errorf("version %d: %d positions, want %d", v, n, w*(w-1))
		}
	}

	p := NewPath(1)
	for _, want := range [][2]int{{20, 20}, {19, 20}, {20, 19}, {19, 19}} {
		if x, y, _ := p.Next(); x != want[0] || y != want[1] {
			t.Errorf("got (%d, %d), want %v", x, y, want)
		}
	}
}

// readFormat reads both copies of the format information.
func readFormat(c *Canvas) (main, side uint16) {
	for i := range formatMain {
		main = main<<1 | uint16(c.At(int(formatMain[i].x), int(formatMain[i].y))&colorBit)
		side = side<<1 | uint16(c.At(int(formatSide[i].x), int(formatSide[i].y))&colorBit)
	}
	return main, side
}

func TestReadBack(t *testing.T) {
	r := lcg(1)
	for _, v := range []coding.Version{1, 2, 6, 7, 14, 40} {
		for l := coding.L; l <= coding.H; l++ {
			data := r.bytes(v.DataBytes(l))
			ec := r.bytes(v.Bytes() - len(data))
			c := Prepare(v, l)
			c.DrawData(data, ec)
			mask := MaskPattern(r.next(int(NumMasks)))
			mc := c.Clone()
			mc.ApplyMask(mask)

			if mc.Mask() != mask {
				t.Errorf("%d-%v: Mask() = %v, want %v", v, l, mc.Mask(), mask)
			}
			m, s := readFormat(mc)
			if want := coding.FormatInfo(l, int(mask)); m != want || s != want {
				t.Errorf("%d-%v: format %#x %#x, want %#x", v, l, m, s, want)
			}

			// Walk the path over the function patterns and
			// unmask the data modules.
			tmpl := Prepare(v, l)
			var got []byte
			var acc byte
			nbit := 0
			p := NewPath(v)
			for x, y, ok := p.Next(); ok; x, y, ok = p.Next() {
				if tmpl.At(x, y) != Empty {
					continue
				}
				if !mc.At(x, y).IsMasked() {
					t.Fatalf("%d-%v: (%d, %d) not a data module", v, l, x, y)
				}
				acc <<= 1
				if mc.IsDark(x, y) != mask.At(x, y) {
					acc |= 1
				}
				if nbit++; nbit%8 == 0 {
					got = append(got, acc)
				}
			}
			if want := append(data, ec...); !bytes.Equal(got, want) {
				t.Errorf("%d-%v: data differs", v, l)
			}
			if nbit%8 != v.Remainder() {
				t.Errorf("%d-%v: %d remainder bits, want %d", v, l, nbit%8, v.Remainder())
			}
		}
	}
}

func TestMasks(t *testing.T) {
	if !Checkerboard.At(1, 1) || Checkerboard.At(0, 1) {
		t.Error("checkerboard")
	}
	for m := MaskPattern(0); m < NumMasks; m++ {
		if !m.At(0, 0) {
			t.Errorf("%v not set at the origin", m)
		}
	}
	if HorizontalLines.At(5, 1) || !VerticalLines.At(3, 1) || !LargeCheckerboard.At(2, 1) ||
		LargeCheckerboard.At(3, 0) || !Fields.At(6, 1) || Fields.At(1, 1) {
		t.Error("mask formulas")
	}
	if s := MaskPattern(8).String(); s != "mask(8)" {
		t.Errorf("String() = %q", s)
	}
}

func dataCanvas(r *lcg, v coding.Version, l coding.Level) *Canvas {
	data := r.bytes(v.DataBytes(l))
	c := Prepare(v, l)
	c.DrawData(data, r.bytes(v.Bytes()-len(data)))
	return c
}

func TestBestMask(t *testing.T) {
	r := lcg(2)
	for _, v := range []coding.Version{1, 5, 10} {
		c := dataCanvas(&r, v, coding.Q)
		before := c.String()
		best, score := c.ApplyBestMask()
		if c.String() != before {
			t.Errorf("version %d: ApplyBestMask modified the canvas", v)
		}
		again, score2 := c.ApplyBestMask()
		if score != score2 || again.Mask() != best.Mask() ||
			!bytes.Equal(again.Colors(), best.Colors()) {
			t.Errorf("version %d: mask selection not deterministic", v)
		}
		if score != best.Penalty() {
			t.Errorf("version %d: score %d, penalty %d", v, score, best.Penalty())
		}
		for m := MaskPattern(0); m < NumMasks; m++ {
			_, s := c.trial(m)
			if s < score || s == score && m < best.Mask() {
				t.Errorf("version %d: %v scores %d, best %v %d", v, m, s, best.Mask(), score)
			}
		}
		par, pscore, err := c.BestMaskParallel(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if pscore != score || par.Mask() != best.Mask() ||
			!bytes.Equal(par.Colors(), best.Colors()) {
			t.Errorf("version %d: parallel result differs", v)
		}
	}
}

func TestPenalty(t *testing.T) {
	c := New(1, coding.L) // all light
	if got := c.penaltyRuns(); got != 42*19 {
		t.Errorf("runs: %d, want %d", got, 42*19)
	}
	if got := c.penaltyBlocks(); got != 20*20*3 {
		t.Errorf("blocks: %d, want %d", got, 20*20*3)
	}
	if got := c.penaltyFinders(); got != 0 {
		t.Errorf("finders: %d, want 0", got)
	}
	if got := c.penaltyBalance(); got != 100 {
		t.Errorf("balance: %d, want 100", got)
	}

	for _, x := range []int{7, 9, 10, 11, 13} {
		c.set(x, 10, MaskedDark)
	}
	if got := c.penaltyFinders(); got != 40 {
		t.Errorf("finder pattern: %d, want 40", got)
	}
	// Row 10 has two light runs of 7, five columns have two runs
	// of 10.
	if got, want := c.penaltyRuns(), 20*19+2*5+16*19+5*2*8; got != want {
		t.Errorf("runs with pattern: %d, want %d", got, want)
	}
}

func TestPenaltySymmetry(t *testing.T) {
	r := lcg(3)
	for _, v := range []coding.Version{1, 3, 8} {
		c, _ := dataCanvas(&r, v, coding.M).ApplyBestMask()
		inv := c.Clone()
		for i := range inv.m {
			inv.m[i] ^= colorBit
		}
		if c.penaltyRuns() != inv.penaltyRuns() ||
			c.penaltyBlocks() != inv.penaltyBlocks() ||
			c.penaltyFinders() != inv.penaltyFinders() {
			t.Errorf("version %d: penalty depends on polarity", v)
		}
	}
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: no panic", name)
		}
	}()
	f()
}

func TestPhases(t *testing.T) {
	cw := make([]byte, coding.Version(1).Bytes())
	mustPanic(t, "data before function patterns", func() {
		New(1, coding.L).DrawData(cw[:19], cw[19:])
	})
	mustPanic(t, "function patterns twice", func() {
		Prepare(1, coding.L).DrawFunctionPatterns()
	})
	mustPanic(t, "mask before data", func() {
		Prepare(1, coding.L).ApplyMask(0)
	})
	mustPanic(t, "mask twice", func() {
		c := Prepare(1, coding.L)
		c.DrawData(cw[:19], cw[19:])
		c.ApplyMask(0)
		c.ApplyMask(1)
	})
	mustPanic(t, "no mask", func() {
		Prepare(1, coding.L).Mask()
	})
	mustPanic(t, "wrong codeword count", func() {
		Prepare(1, coding.L).DrawData(cw, cw[:1])
	})
	mustPanic(t, "invalid version", func() { New(0, coding.L) })
}
