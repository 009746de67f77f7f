// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

// Penalty weights.
const (
	penaltyRun    = 3  // plus one per module over 5 in a run
	penaltyBlock  = 3  // per 2x2 block
	penaltyFinder = 40 // per finder-like pattern
)

// Penalty returns the total mask penalty of c: runs of five or more
// modules of one colour, 2x2 blocks of one colour, finder-like
// patterns and the balance of dark and light modules.  Only colours
// are considered.
func (c *Canvas) Penalty() int {
	return c.penaltyRuns() + c.penaltyBlocks() + c.penaltyFinders() +
		c.penaltyBalance()
}

// line returns the colour accessor for row i, or column i if
// vertical is set.
func (c *Canvas) line(i int, vertical bool) func(k int) bool {
	if vertical {
		return func(k int) bool { return c.m[k*c.width+i]&colorBit != 0 }
	}
	row := c.m[i*c.width : (i+1)*c.width]
	return func(k int) bool { return row[k]&colorBit != 0 }
}

func (c *Canvas) penaltyRuns() int {
	score := 0
	for _, vertical := range []bool{false, true} {
		for i := 0; i < c.width; i++ {
			dark := c.line(i, vertical)
			run, last := 0, false
			for k := 0; k < c.width; k++ {
				d := dark(k)
				if k > 0 && d == last {
					run++
					continue
				}
				if run >= 5 {
					score += penaltyRun + run - 5
				}
				last, run = d, 1
			}
			if run >= 5 {
				score += penaltyRun + run - 5
			}
		}
	}
	return score
}

func (c *Canvas) penaltyBlocks() int {
	score := 0
	for y := 0; y < c.width-1; y++ {
		r0 := c.m[y*c.width : (y+1)*c.width]
		r1 := c.m[(y+1)*c.width : (y+2)*c.width]
		for x := 0; x < c.width-1; x++ {
			d := r0[x] & colorBit
			if r0[x+1]&colorBit == d && r1[x]&colorBit == d &&
				r1[x+1]&colorBit == d {
				score += penaltyBlock
			}
		}
	}
	return score
}

// finder is the 1:1:3:1:1 pattern.
var finder = [7]bool{true, false, true, true, true, false, true}

// penaltyFinders counts finder-like patterns with four modules of
// the outer colour on either side.  Patterns of either polarity
// count, and modules beyond the edge match the outer colour.
func (c *Canvas) penaltyFinders() int {
	score := 0
	for _, vertical := range []bool{false, true} {
		for i := 0; i < c.width; i++ {
			dark := c.line(i, vertical)
			// pad reports whether modules [from, from+4)
			// are all of colour outer.
			pad := func(from int, outer bool) bool {
				for k := from; k < from+4; k++ {
					if 0 <= k && k < c.width && dark(k) != outer {
						return false
					}
				}
				return true
			}
			for j := 0; j+len(finder) <= c.width; j++ {
				inner := dark(j)
				match := true
				for k, f := range finder[1:] {
					if dark(j+k+1) != (f == inner) {
						match = false
						break
					}
				}
				if match && (pad(j-4, !inner) || pad(j+len(finder), !inner)) {
					score += penaltyFinder
				}
			}
		}
	}
	return score
}

// penaltyBalance returns the deviation of the percentage of dark
// modules from 50, doubled.
func (c *Canvas) penaltyBalance() int {
	dark := 0
	for _, m := range c.m {
		dark += int(m & colorBit)
	}
	ratio := dark * 200 / len(c.m)
	if ratio >= 100 {
		return ratio - 100
	}
	return 100 - ratio
}
