// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/unixdj/qrenc"
	"github.com/unixdj/qrenc/coding"
)

func TestConfig(t *testing.T) {
	c := defaultConfig
	err := c.parse([]byte(`
level = "q"
version = 3
eci = 26
fnc1 = "second"
app_indicator = 37
format = "asciii"
parallel = true
`))
	if err != nil {
		t.Fatal(err)
	}
	if c.Border != qr.DefaultBorder || c.Debug || c.Invert {
		t.Errorf("defaults lost: %+v", c)
	}
	e, err := c.encoder()
	if err != nil {
		t.Fatal(err)
	}
	want := qr.Encoder{
		Level:        qr.Q,
		Version:      3,
		ECI:          qr.UTF8ECI,
		FNC1:         qr.FNC1Second,
		AppIndicator: 37,
		Parallel:     true,
	}
	if *e != want {
		t.Errorf("got %+v, want %+v", *e, want)
	}
}

func TestConfigErrors(t *testing.T) {
	for _, s := range []string{
		`level = 1`,
		`colour = "red"`,
		`format = "png"`,
		`border = -1`,
		`version = "auto"`,
	} {
		c := defaultConfig
		if err := c.parse([]byte(s)); err == nil {
			t.Errorf("%s: no error", s)
		}
	}
	for _, c := range []config{
		{Level: "x"},
		{Level: "l", FNC1: "third"},
	} {
		if _, err := c.encoder(); err == nil {
			t.Errorf("%+v: no error", c)
		}
	}
}

func encode(t *testing.T, s string) *qr.Code {
	t.Helper()
	c, err := qr.EncodeText(s, qr.M)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRandr(t *testing.T) {
	c := encode(t, "HELLO WORLD")
	orig := *c
	orig.Bitmap = append([]byte(nil), c.Bitmap...)

	// One counterclockwise turn.
	r := randr(&qr.Code{Bitmap: append([]byte(nil), c.Bitmap...),
		Size: c.Size, Stride: c.Stride}, 1, [2]int{1, -1})
	for y := 0; y < c.Size; y++ {
		for x := 0; x < c.Size; x++ {
			if r.Black(x, y) != orig.Black(c.Size-1-y, x) {
				t.Fatalf("rotated (%d, %d) differs", x, y)
			}
		}
	}

	for i := 0; i < 4; i++ {
		c = randr(c, 1, [2]int{1, -1})
	}
	if !bytes.Equal(c.Bitmap, orig.Bitmap) {
		t.Error("four turns change the code")
	}
	c = randr(randr(c, 0, [2]int{-1, 1}), 0, [2]int{-1, 1})
	if !bytes.Equal(c.Bitmap, orig.Bitmap) {
		t.Error("two flips change the code")
	}
}

func TestASCII(t *testing.T) {
	c := encode(t, "01234567")
	c.Border = 1
	var b bytes.Buffer
	if err := ascii(c, &b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
	if len(lines) != c.Size+2 {
		t.Fatalf("%d lines, want %d", len(lines), c.Size+2)
	}
	if want := "  ##############  "; !strings.HasPrefix(lines[1], want) {
		t.Errorf("line 1 = %q, want prefix %q", lines[1], want)
	}
}

func TestCBOR(t *testing.T) {
	c := encode(t, "HELLO WORLD")
	var b bytes.Buffer
	if err := writeCBOR(c, &b); err != nil {
		t.Fatal(err)
	}
	var r record
	if err := cbor.Unmarshal(b.Bytes(), &r); err != nil {
		t.Fatal(err)
	}
	if r.Version != 1 || r.Level != "M" || r.Mask != int(c.Mask) ||
		r.Penalty != c.Penalty || r.Size != coding.Version(1).Width() {
		t.Errorf("record %+v", r)
	}
	if len(r.Modules) != r.Size*r.Size || r.Modules[0] != 1 || r.Modules[7] != 0 {
		t.Errorf("modules %v", r.Modules[:8])
	}

	// Canonical encoding is deterministic.
	var b2 bytes.Buffer
	if err := writeCBOR(c, &b2); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), b2.Bytes()) {
		t.Error("encoding differs")
	}
}

func TestEncoderFor(t *testing.T) {
	for i, f := range formats {
		if _, rev, err := encoderFor(f); err != nil || rev != (i&1 != 0) {
			t.Errorf("%s: %v %v", f, rev, err)
		}
	}
	if _, _, err := encoderFor("eps"); err == nil {
		t.Error("eps: no error")
	}
}
