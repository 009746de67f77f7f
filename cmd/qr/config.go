// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/unixdj/qrenc"
	"github.com/unixdj/qrenc/coding"
)

// config holds the settings that may be read from a TOML file.
//
//	level = "m"
//	version = 0
//	eci = 26
//	fnc1 = "second"
//	app_indicator = 37
//	format = "utf8"
//	border = 4
//	parallel = true
//	debug = false
//	invert = false
type config struct {
	Level        string `toml:"level"`
	Version      int    `toml:"version"`
	ECI          int    `toml:"eci"`
	FNC1         string `toml:"fnc1"` // "", "first" or "second"
	AppIndicator int    `toml:"app_indicator"`
	Format       string `toml:"format"` // "" selects by terminal
	Border       int    `toml:"border"`
	Parallel     bool   `toml:"parallel"`
	Debug        bool   `toml:"debug"`
	Invert       bool   `toml:"invert"`
}

var defaultConfig = config{
	Level:  "l",
	Border: qr.DefaultBorder,
}

// load merges the settings in the file fn into c.
func (c *config) load(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	return c.parse(data)
}

func (c *config) parse(data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return err
	}
	if keys := md.Undecoded(); len(keys) != 0 {
		return fmt.Errorf("unknown setting %q", keys[0].String())
	}
	if c.Format != "" {
		if _, _, err := encoderFor(c.Format); err != nil {
			return err
		}
	}
	if c.Border < 0 {
		return fmt.Errorf("negative border %d", c.Border)
	}
	return nil
}

// encoder returns the Encoder described by c.
func (c *config) encoder() (*qr.Encoder, error) {
	l, err := coding.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	e := &qr.Encoder{
		Level:        qr.Level(l),
		Version:      coding.Version(c.Version),
		ECI:          c.ECI,
		AppIndicator: c.AppIndicator,
		Parallel:     c.Parallel,
	}
	switch c.FNC1 {
	case "":
	case "first":
		e.FNC1 = qr.FNC1First
	case "second":
		e.FNC1 = qr.FNC1Second
	default:
		return nil, fmt.Errorf("fnc1: %q: want first or second", c.FNC1)
	}
	return e, nil
}
