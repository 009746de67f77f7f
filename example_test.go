// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"fmt"
	"log"

	"github.com/unixdj/qrenc"
)

func ExampleEncodeText() {
	c, err := qr.EncodeText("HELLO WORLD", qr.M)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("version %d-%v, mask %v\n", c.Version, c.Level, c.Mask)
	// Light on dark, for terminals with a dark background.
	c.Reverse = true
	fmt.Print(c)
	// Output:
	// version 1-M, mask horizontal lines
	// █████████████████████████████
	// █████████████████████████████
	// ████ ▄▄▄▄▄ █▄▄  ▄█ ▄▄▄▄▄ ████
	// ████ █   █ █▄    █ █   █ ████
	// ████ █▄▄▄█ █▀▄ █▄█ █▄▄▄█ ████
	// ████▄▄▄▄▄▄▄█▄▀▄▀▄█▄▄▄▄▄▄▄████
	// ████▄█ █▀▀▄ ▀▀█▄▄▀█ ▀▀▄▀ ████
	// ████▀▄▀█▄█▄█ ▀██▀▄▄▄▄█▀▄█████
	// ███████▄▄█▄█▀▀▀▀█  ▀▄    ████
	// ████ ▄▄▄▄▄ █▄▄▀ ▄ ▀███▄ █████
	// ████ █   █ ██▀▀▄▄▄▄█▄▀▄█▄████
	// ████ █▄▄▄█ █▄▀▄█▀█▄▀███▄ ████
	// ████▄▄▄▄▄▄▄█▄█████▄██▄█▄▄████
	// █████████████████████████████
	// █████████████████████████████
}
