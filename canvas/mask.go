// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/unixdj/qrenc/coding"
)

// A MaskPattern identifies one of the eight data mask patterns.
type MaskPattern int

// Mask patterns.  Data modules at (x, y) are inverted where the
// formula holds.
const (
	Checkerboard      MaskPattern = iota // (x+y)%2 == 0
	HorizontalLines                      // y%2 == 0
	VerticalLines                        // x%3 == 0
	DiagonalLines                        // (x+y)%3 == 0
	LargeCheckerboard                    // (y/2+x/3)%2 == 0
	Fields                               // (x*y)%2+(x*y)%3 == 0
	Diamonds                             // ((x*y)%2+(x*y)%3)%2 == 0
	Meadow                               // ((x+y)%2+(x*y)%3)%2 == 0
	NumMasks
)

var maskNames = [NumMasks]string{
	"checkerboard", "horizontal lines", "vertical lines",
	"diagonal lines", "large checkerboard", "fields", "diamonds",
	"meadow",
}

// IsValid reports whether m is one of the eight mask patterns.
func (m MaskPattern) IsValid() bool { return 0 <= m && m < NumMasks }

func (m MaskPattern) String() string {
	if m.IsValid() {
		return maskNames[m]
	}
	return "mask(" + strconv.Itoa(int(m)) + ")"
}

// At reports whether m inverts the module at (x, y).
func (m MaskPattern) At(x, y int) bool {
	switch m {
	case Checkerboard:
		return (x+y)%2 == 0
	case HorizontalLines:
		return y%2 == 0
	case VerticalLines:
		return x%3 == 0
	case DiagonalLines:
		return (x+y)%3 == 0
	case LargeCheckerboard:
		return (y/2+x/3)%2 == 0
	case Fields:
		return x*y%2+x*y%3 == 0
	case Diamonds:
		return (x*y%2+x*y%3)%2 == 0
	case Meadow:
		return ((x+y)%2+x*y%3)%2 == 0
	}
	bug("invalid mask " + m.String())
	return false
}

// ApplyMask inverts the data modules of c selected by m and draws
// the format information.  Empty modules become light data modules
// before inversion.
func (c *Canvas) ApplyMask(m MaskPattern) {
	c.expect(phaseData)
	for y := 0; y < c.width; y++ {
		row := c.m[y*c.width : (y+1)*c.width]
		for x, mod := range row {
			if !mod.IsFunction() {
				row[x] = masked(mod.IsDark() != m.At(x, y))
			}
		}
	}
	c.drawFormat(coding.FormatInfo(c.l, int(m)))
	c.mask = m
	c.phase = phaseMasked
}

// Mask returns the mask pattern applied to c.  It panics if no mask
// has been applied.
func (c *Canvas) Mask() MaskPattern {
	c.expect(phaseMasked)
	return c.mask
}

// trial returns a masked copy of c and its penalty.
func (c *Canvas) trial(m MaskPattern) (*Canvas, int) {
	mc := c.Clone()
	mc.ApplyMask(m)
	return mc, mc.Penalty()
}

// ApplyBestMask tries all mask patterns on copies of c and returns
// the copy with the lowest penalty, the first one on ties, along
// with the penalty.  c is not modified.
func (c *Canvas) ApplyBestMask() (*Canvas, int) {
	c.expect(phaseData)
	var best *Canvas
	bestScore := 0
	for m := MaskPattern(0); m < NumMasks; m++ {
		mc, score := c.trial(m)
		if best == nil || score < bestScore {
			best, bestScore = mc, score
		}
	}
	return best, bestScore
}

// BestMaskParallel is like ApplyBestMask, but evaluates the patterns
// concurrently.  The result is the same as that of ApplyBestMask.
// It returns an error only if ctx is cancelled.
func (c *Canvas) BestMaskParallel(ctx context.Context) (*Canvas, int, error) {
	c.expect(phaseData)
	var (
		trials [NumMasks]*Canvas
		scores [NumMasks]int
	)
	g, ctx := errgroup.WithContext(ctx)
	for m := MaskPattern(0); m < NumMasks; m++ {
		m := m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trials[m], scores[m] = c.trial(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	best := MaskPattern(0)
	for m := best + 1; m < NumMasks; m++ {
		if scores[m] < scores[best] {
			best = m
		}
	}
	return trials[best], scores[best], nil
}
