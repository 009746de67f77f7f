// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Data is split into numeric, alphanumeric, byte and kanji mode
segments, which are merged where that makes the encoding shorter.
Unless a version is given, the smallest version holding the data is
used.  Kanji mode applies to Shift JIS double byte characters.
*/
package qr // import "github.com/unixdj/qrenc"

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/unixdj/qrenc/canvas"
	"github.com/unixdj/qrenc/coding"
	"github.com/unixdj/qrenc/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string { return coding.Level(l).String() }

// ECI assignment numbers.
const (
	Latin1ECI   = 3  // ISO/IEC 8859-1
	ShiftJISECI = 20 // Shift JIS
	UTF8ECI     = 26 // UTF-8
)

// FNC1 selects an FNC1 mode indicator.
type FNC1 int

const (
	NoFNC1     FNC1 = iota
	FNC1First       // GS1 data
	FNC1Second      // industry application, see Encoder.AppIndicator
)

// DefaultBorder is the width of the quiet zone of an encoded Code.
const DefaultBorder = 4

// An Encoder encodes QR codes.  The zero value encodes at level L
// with automatic version selection.
type Encoder struct {
	Level   Level
	Version coding.Version // 0 for the smallest fitting version
	ECI     int            // ECI designator, 0 for none

	// FNC1 adds an FNC1 mode indicator after the ECI designator.
	// AppIndicator is the application indicator for FNC1Second.
	FNC1         FNC1
	AppIndicator int

	// Parallel evaluates mask patterns concurrently.
	Parallel bool

	// Logger, if set, receives debug messages.
	Logger *log.Logger
}

var discard = log.New(io.Discard)

func (e *Encoder) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return discard
}

// pushHeader writes the ECI designator and the FNC1 mode indicator.
func (e *Encoder) pushHeader(b *coding.Bits) error {
	if e.ECI != 0 {
		if err := b.PushECI(e.ECI); err != nil {
			return err
		}
	}
	switch e.FNC1 {
	case NoFNC1:
		return nil
	case FNC1First:
		return b.PushFNC1First()
	case FNC1Second:
		return b.PushFNC1Second(e.AppIndicator)
	}
	return fmt.Errorf("qr: bad FNC1 mode %d", e.FNC1)
}

// Encode returns the QR code encoding data.
func (e *Encoder) Encode(data []byte) (*Code, error) {
	return e.EncodeContext(context.Background(), data)
}

// EncodeContext is like Encode.  ctx may cancel parallel mask
// evaluation.
func (e *Encoder) EncodeContext(ctx context.Context, data []byte) (*Code, error) {
	lg := e.logger()
	l := coding.Level(e.Level)
	if !l.IsValid() {
		return nil, coding.ErrLevel
	}

	// Header bits do not depend on the version.
	hdr := coding.NewBits(coding.MinVersion)
	if err := e.pushHeader(hdr); err != nil {
		return nil, err
	}

	var (
		segs []coding.Segment
		v    = e.Version
		err  error
	)
	if v == 0 {
		segs, v, err = split.Split(data, l, hdr.Len())
		if err != nil {
			return nil, err
		}
	} else {
		if !v.IsValid() {
			return nil, coding.ErrVersion
		}
		segs = split.Optimize(split.Parse(data), v)
	}
	lg.Debug("split", "version", v, "level", l, "segments", len(segs))

	b := coding.NewBits(v)
	if err := e.pushHeader(b); err != nil {
		return nil, err
	}
	for i, seg := range segs {
		if err := b.PushSegment(data, seg); err != nil {
			return nil, fmt.Errorf("qr: segment %d (%v): %w", i, seg.Mode, err)
		}
	}
	lg.Debug("data", "bits", b.Len(), "capacity", b.MaxLen(l))
	if err := b.PushTerminator(l); err != nil {
		return nil, err
	}

	dcw, ecw, err := coding.Codewords(b.Bytes(), v, l)
	if err != nil {
		return nil, err
	}
	c := canvas.Prepare(v, l)
	c.DrawData(dcw, ecw)
	var penalty int
	if e.Parallel {
		c, penalty, err = c.BestMaskParallel(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		c, penalty = c.ApplyBestMask()
	}
	lg.Debug("mask", "pattern", c.Mask(), "penalty", penalty)
	return newCode(c, penalty), nil
}

// Encode returns the QR code encoding data at level level.
func Encode(data []byte, level Level) (*Code, error) {
	e := Encoder{Level: level}
	return e.Encode(data)
}

// EncodeText returns the QR code encoding text at level level.
// Text is encoded as is, kanji mode applies to Shift JIS.
func EncodeText(text string, level Level) (*Code, error) {
	return Encode([]byte(text), level)
}

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Border  int  // quiet zone width for String
	Reverse bool // String inverts colours

	Version coding.Version
	Level   Level
	Mask    canvas.MaskPattern
	Penalty int // penalty of Mask
}

func newCode(c *canvas.Canvas, penalty int) *Code {
	siz := c.Width()
	stride := (siz + 7) / 8
	bm := make([]byte, stride*siz)
	for y := 0; y < siz; y++ {
		row := bm[y*stride:]
		for x := 0; x < siz; x++ {
			if c.IsDark(x, y) {
				row[x/8] |= 0x80 >> uint(x&7)
			}
		}
	}
	return &Code{
		Bitmap:  bm,
		Size:    siz,
		Stride:  stride,
		Border:  DefaultBorder,
		Version: c.Version(),
		Level:   Level(c.Level()),
		Mask:    c.Mask(),
		Penalty: penalty,
	}
}

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// String returns the code drawn with Unicode half blocks, two rows
// of pixels per line, surrounded by c.Border pixels of quiet zone.
// Black pixels are drawn, unless c.Reverse is set.
func (c *Code) String() string {
	var b strings.Builder
	ink := func(x, y int) int {
		if c.Black(x, y) != c.Reverse {
			return 1
		}
		return 0
	}
	for y := -c.Border; y < c.Size+c.Border; y += 2 {
		for x := -c.Border; x < c.Size+c.Border; x++ {
			b.WriteString(halfBlocks[ink(x, y)|ink(x, y+1)<<1])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
