// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/unixdj/qrenc"
)

var formats = []string{"utf8", "utf8i", "ascii", "asciii", "cbor", "cbori"}

var encoders = [...]func(*qr.Code, io.Writer) error{
	func(c *qr.Code, w io.Writer) error {
		_, err := io.WriteString(w, c.String())
		return err
	},
	ascii,
	writeCBOR,
}

// encoderFor returns the writer for format name and whether it
// inverts colours.
func encoderFor(name string) (func(*qr.Code, io.Writer) error, bool, error) {
	for i, v := range formats {
		if name == v {
			return encoders[i>>1], i&1 != 0, nil
		}
	}
	return nil, false, fmt.Errorf("%q: unknown format", name)
}

// randr rotates and reflects c.
func randr(c *qr.Code, cx int, inc [2]int) *qr.Code {
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	b := make([]byte, 0, len(c.Bitmap))
	var coord [2]int
	siz := c.Size
	coord[cx^1] = (siz - 1) & inc[1]
	for y := 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		var bb byte
		for x := 0; x < siz; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if x&7 == 7 {
				b = append(b, bb)
			}
			coord[cx] += inc[0]
		}
		if siz&7 != 0 {
			b = append(b, bb<<(8-siz&7))
		}
		coord[cx^1] += inc[1]
	}
	c.Bitmap = b
	return c
}

func ascii(c *qr.Code, w io.Writer) error {
	siz := c.Size
	bord := c.Border
	pix := siz + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			var p byte = ' '
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}

// record is the CBOR form of a code.  Modules holds one byte per
// module in row-major order, 1 for dark.  Reverse swaps 0 and 1.
type record struct {
	Version int    `cbor:"version"`
	Level   string `cbor:"level"`
	Mask    int    `cbor:"mask"`
	Penalty int    `cbor:"penalty"`
	Size    int    `cbor:"size"`
	Modules []byte `cbor:"modules"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	cborEncMode = em
}

func newRecord(c *qr.Code) *record {
	r := &record{
		Version: int(c.Version),
		Level:   c.Level.String(),
		Mask:    int(c.Mask),
		Penalty: c.Penalty,
		Size:    c.Size,
		Modules: make([]byte, c.Size*c.Size),
	}
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if c.Black(x, y) != c.Reverse {
				r.Modules[y*c.Size+x] = 1
			}
		}
	}
	return r
}

func writeCBOR(c *qr.Code, w io.Writer) error {
	return cborEncMode.NewEncoder(w).Encode(newRecord(c))
}
