// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split splits data into QR code segments.

Parse classifies every input byte and emits maximal runs of bytes
encodable in one mode.  Optimize merges adjacent runs when the merged
segment is no longer than its parts.  Split combines both with
automatic selection of the smallest version holding the data.

Kanji mode applies to Shift JIS double byte characters.  Any other
byte outside the numeric and alphanumeric sets is encoded in byte
mode.
*/
package split // import "github.com/unixdj/qrenc/split"

import (
	"github.com/unixdj/qrenc/coding"
)

// Character classes.  Bytes 0x81-0x9f and 0xe0-0xea may begin a
// kanji character, as may 0xeb, which only pairs with second bytes
// up to 0xbf.  The remaining bytes are split by whether they may
// follow 0xeb.
const (
	end = iota // end of input
	sy         // alphanumeric symbol
	nu         // numeric
	al         // alphanumeric letter
	h1         // kanji first byte 0x81-0x9f
	h2         // kanji first byte 0xe0-0xea
	h3         // kanji first byte 0xeb
	l1         // kanji second byte in any position
	l2         // anything else
	by         // byte, not assigned to any byte value
	nclass
)

var chartbl = [256]byte{
	l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, // 0x00
	l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, // 0x10
	sy, l2, l2, l2, sy, sy, l2, l2, l2, l2, sy, sy, l2, sy, sy, sy, // 0x20
	nu, nu, nu, nu, nu, nu, nu, nu, nu, nu, sy, l2, l2, l2, l2, l2, // 0x30
	l1, al, al, al, al, al, al, al, al, al, al, al, al, al, al, al, // 0x40
	al, al, al, al, al, al, al, al, al, al, al, l1, l1, l1, l1, l1, // 0x50
	l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, // 0x60
	l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l2, // 0x70
	l1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, // 0x80
	h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, h1, // 0x90
	l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, // 0xa0
	l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, l1, // 0xb0
	l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, // 0xc0
	l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, // 0xd0
	h2, h2, h2, h2, h2, h2, h2, h2, h2, h2, h2, h3, l2, l2, l2, l2, // 0xe0
	l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, l2, // 0xf0
}

// Parser states.
type state uint8

const (
	sInit    state = iota
	sNumeric       // numeric run
	sAlpha         // alphanumeric run
	sByte          // byte run
	sHi12          // kanji first byte 0x81-0x9f or 0xe0-0xea pending
	sHi3           // kanji first byte 0xeb pending
	sKanji         // complete kanji characters
	nstate
)

// Parser actions.
type action uint8

const (
	idle     action = iota // extend the current run
	aNumeric               // emit numeric run
	aAlpha                 // emit alphanumeric run
	aByte                  // emit byte run
	aKanji                 // emit kanji run
	aKanjiSB               // emit kanji run and a lone first byte
)

type transition struct {
	next   state
	action action
}

var transitions = [nstate][nclass]transition{
	sInit: {
		end: {sInit, idle}, sy: {sAlpha, idle}, nu: {sNumeric, idle},
		al: {sAlpha, idle}, h1: {sHi12, idle}, h2: {sHi12, idle},
		h3: {sHi3, idle}, l1: {sByte, idle}, l2: {sByte, idle},
		by: {sByte, idle},
	},
	sNumeric: {
		end: {sInit, aNumeric}, sy: {sAlpha, aNumeric}, nu: {sNumeric, idle},
		al: {sAlpha, aNumeric}, h1: {sHi12, aNumeric}, h2: {sHi12, aNumeric},
		h3: {sHi3, aNumeric}, l1: {sByte, aNumeric}, l2: {sByte, aNumeric},
		by: {sByte, aNumeric},
	},
	sAlpha: {
		end: {sInit, aAlpha}, sy: {sAlpha, idle}, nu: {sNumeric, aAlpha},
		al: {sAlpha, idle}, h1: {sHi12, aAlpha}, h2: {sHi12, aAlpha},
		h3: {sHi3, aAlpha}, l1: {sByte, aAlpha}, l2: {sByte, aAlpha},
		by: {sByte, aAlpha},
	},
	sByte: {
		end: {sInit, aByte}, sy: {sAlpha, aByte}, nu: {sNumeric, aByte},
		al: {sAlpha, aByte}, h1: {sHi12, aByte}, h2: {sHi12, aByte},
		h3: {sHi3, aByte}, l1: {sByte, idle}, l2: {sByte, idle},
		by: {sByte, idle},
	},
	sHi12: {
		end: {sInit, aKanjiSB}, sy: {sAlpha, aKanjiSB}, nu: {sNumeric, aKanjiSB},
		al: {sKanji, idle}, h1: {sKanji, idle}, h2: {sKanji, idle},
		h3: {sKanji, idle}, l1: {sKanji, idle}, l2: {sKanji, idle},
		by: {sByte, aKanjiSB},
	},
	sHi3: {
		end: {sInit, aKanjiSB}, sy: {sAlpha, aKanjiSB}, nu: {sNumeric, aKanjiSB},
		al: {sKanji, idle}, h1: {sKanji, idle}, h2: {sHi12, aKanjiSB},
		h3: {sHi3, aKanjiSB}, l1: {sKanji, idle}, l2: {sByte, aKanjiSB},
		by: {sByte, aKanjiSB},
	},
	sKanji: {
		end: {sInit, aKanji}, sy: {sAlpha, aKanji}, nu: {sNumeric, aKanji},
		al: {sAlpha, aKanji}, h1: {sHi12, idle}, h2: {sHi12, idle},
		h3: {sHi3, idle}, l1: {sByte, aKanji}, l2: {sByte, aKanji},
		by: {sByte, aKanji},
	},
}

// A Parser splits data into runs of bytes encodable in one mode.
// Segments are returned in order, cover all of the data and do not
// overlap.  A Parser is not restartable.
type Parser struct {
	data  []byte
	pos   int   // index of the next class, len(data) for end
	begin int   // beginning of the pending run
	state state // current state
	out   []coding.Segment
	done  bool
}

// NewParser returns a Parser for data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Next returns the next segment and true, or false after the last
// segment.
func (p *Parser) Next() (coding.Segment, bool) {
	for len(p.out) == 0 {
		if p.done {
			return coding.Segment{}, false
		}
		p.step()
	}
	seg := p.out[0]
	p.out = p.out[1:]
	return seg, true
}

// step consumes one character class.
func (p *Parser) step() {
	i := p.pos
	class := byte(end)
	if i < len(p.data) {
		class = chartbl[p.data[i]]
	} else {
		p.done = true
	}
	p.pos++
	t := transitions[p.state][class]
	p.state = t.next
	begin := p.begin
	switch t.action {
	case idle:
		return
	case aNumeric:
		p.emit(coding.Numeric, begin, i)
	case aAlpha:
		p.emit(coding.Alphanumeric, begin, i)
	case aByte:
		p.emit(coding.Byte, begin, i)
	case aKanji:
		p.kanji(begin, i)
	case aKanjiSB:
		// The byte before i began a character that never
		// completed.
		if i-begin > 1 {
			p.kanji(begin, i-1)
		}
		p.emit(coding.Byte, i-1, i)
	}
	p.begin = i
}

func (p *Parser) emit(mode coding.Mode, begin, end int) {
	p.out = append(p.out, coding.Segment{Mode: mode, Begin: begin, End: end})
}

// kanji emits a run of double byte characters.  Pairs outside the
// kanji mode range are emitted as byte segments.
func (p *Parser) kanji(begin, end int) {
	start := begin
	for i := begin; i < end; i += 2 {
		if !coding.IsKanji(p.data[i], p.data[i+1]) {
			if start < i {
				p.emit(coding.Kanji, start, i)
			}
			p.emit(coding.Byte, i, i+2)
			start = i + 2
		}
	}
	if start < end {
		p.emit(coding.Kanji, start, end)
	}
}

// Parse returns the segments of data as returned by a Parser.
func Parse(data []byte) []coding.Segment {
	var segs []coding.Segment
	p := NewParser(data)
	for seg, ok := p.Next(); ok; seg, ok = p.Next() {
		segs = append(segs, seg)
	}
	return segs
}
