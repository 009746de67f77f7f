// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"

	"rsc.io/qr/gf256"
)

// ErrCodewords is returned by Codewords when the data length does not
// match the capacity of the version and level.
var ErrCodewords = errors.New("qr: wrong number of data codewords")

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// Codewords splits data into error correction blocks for version v
// and level l, computes the error correction codewords of each block
// and returns data and error correction codewords interleaved in
// placement order.  The length of data must be v.DataBytes(l).
func Codewords(data []byte, v Version, l Level) (dataCW, ecCW []byte, err error) {
	if !v.IsValid() {
		return nil, nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, nil, ErrLevel
	}
	nd := v.DataBytes(l)
	if len(data) != nd {
		return nil, nil, ErrCodewords
	}
	nblock, check := v.Blocks(l)
	// Short blocks come first, long blocks have one more data byte.
	db := nd / nblock
	normal := (db+1)*nblock - nd
	// RSEncoder keeps scratch space, so it is not shared.
	rs := gf256.NewRSEncoder(Field, check)
	ec := make([]byte, nblock*check)
	for i, off := 0, 0; i < nblock; i++ {
		n := db
		if i >= normal {
			n++
		}
		rs.ECC(data[off:off+n], ec[i*check:(i+1)*check])
		off += n
	}
	dataCW = make([]byte, nd)
	interleave(dataCW, data, nblock)
	ecCW = make([]byte, len(ec))
	interleave(ecCW, ec, nblock)
	return dataCW, ecCW, nil
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  The last len(src)%nblock blocks are one byte
// longer than the rest.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	normal := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= normal {
			extra[i-normal] = src[0]
			src = src[1:]
		}
	}
}
