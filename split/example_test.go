// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split_test

import (
	"fmt"
	"log"

	"golang.org/x/text/encoding/japanese"

	"github.com/unixdj/qrenc/coding"
	"github.com/unixdj/qrenc/split"
)

func ExampleSplit() {
	// Kanji mode takes Shift JIS.
	data, err := japanese.ShiftJIS.NewEncoder().Bytes(
		[]byte("ORDER 12345678 東京都千代田区 ZONE-7"))
	if err != nil {
		log.Fatalln(err)
	}

	segs, v, err := split.Split(data, coding.M, 0)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println("version", v)
	dec := japanese.ShiftJIS.NewDecoder()
	for _, seg := range segs {
		text, err := dec.Bytes(data[seg.Begin:seg.End])
		if err != nil {
			log.Fatalln(err)
		}
		fmt.Printf("  %-12s %3d bits %q\n", seg.Mode, seg.EncodedLen(v), text)
	}
	// Output:
	// version 3
	//   alphanumeric  46 bits "ORDER "
	//   numeric       41 bits "12345678"
	//   alphanumeric  19 bits " "
	//   kanji        103 bits "東京都千代田区"
	//   alphanumeric  52 bits " ZONE-7"
}

func ExampleParser() {
	p := split.NewParser([]byte("ABC123abc"))
	for seg, ok := p.Next(); ok; seg, ok = p.Next() {
		fmt.Println(seg.Mode, seg.Begin, seg.End)
	}
	// Output:
	// alphanumeric 0 3
	// numeric 3 6
	// byte 6 9
}
