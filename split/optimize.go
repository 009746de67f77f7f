// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split

import (
	"github.com/unixdj/qrenc/coding"
)

// optimize makes one greedy pass over segs, merging each segment
// into the accumulated one when the merged segment is no longer than
// both encoded separately.
func optimize(segs []coding.Segment, v coding.Version) []coding.Segment {
	if len(segs) == 0 {
		return nil
	}
	out := make([]coding.Segment, 0, len(segs))
	acc := segs[0]
	accLen := acc.EncodedLen(v)
	for _, seg := range segs[1:] {
		segLen := seg.EncodedLen(v)
		merged := coding.Segment{
			Mode:  acc.Mode.Join(seg.Mode),
			Begin: acc.Begin,
			End:   seg.End,
		}
		if mergedLen := merged.EncodedLen(v); accLen+segLen >= mergedLen {
			acc, accLen = merged, mergedLen
		} else {
			out = append(out, acc)
			acc, accLen = seg, segLen
		}
	}
	return append(out, acc)
}

// Optimize merges adjacent segments of segs for version v.  Passes
// are repeated until no merge happens, so Optimize is idempotent.
// The total encoded length never increases.  segs is not modified.
func Optimize(segs []coding.Segment, v coding.Version) []coding.Segment {
	out := optimize(segs, v)
	for {
		next := optimize(out, v)
		if len(next) == len(out) {
			return out
		}
		out = next
	}
}

// EncodedLen returns the total encoded length of segs in bits for
// version v.
func EncodedLen(segs []coding.Segment, v coding.Version) int {
	n := 0
	for _, seg := range segs {
		n += seg.EncodedLen(v)
	}
	return n
}

// MinVersion returns the smallest version at level l holding segs
// and extraBits of additional headers, and segs optimized for it.
// Segments are optimized for the largest version of each size
// class, as the character count widths are equal within a class.
func MinVersion(segs []coding.Segment, l coding.Level, extraBits int) ([]coding.Segment, coding.Version, error) {
	if !l.IsValid() {
		return nil, 0, coding.ErrLevel
	}
	v := coding.MinVersion
	for class := coding.Class0; class <= coding.Class2; class++ {
		max := coding.ClassMax(class)
		opt := Optimize(segs, max)
		bits := EncodedLen(opt, max) + extraBits
		if max.DataBits(l) < bits {
			v = max + 1
			continue
		}
		for v < max {
			if mid := (v + max) / 2; mid.DataBits(l) < bits {
				v = mid + 1
			} else {
				max = mid
			}
		}
		return opt, v, nil
	}
	return nil, 0, coding.ErrDataTooLong
}

// Split parses data, optimizes the segments and chooses the smallest
// version at level l holding them with extraBits of ECI or FNC1
// headers.
func Split(data []byte, l coding.Level, extraBits int) ([]coding.Segment, coding.Version, error) {
	return MinVersion(Parse(data), l, extraBits)
}
