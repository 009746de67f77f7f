// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr encodes its arguments or standard input as a QR code.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/unixdj/qrenc"
)

var g = struct {
	cfg     config // settings after the file and flags
	fn      string // output file
	cfgFile string // TOML file
	cx      int    // randr source X coordinate index in inc
	inc     [2]int // randr source X,Y coordinate increments
	eciflag bool   // ECI by charset
	latin1  bool   // Latin-1 conversion
	sjis    bool   // Shift JIS conversion
	upper   bool   // uppercase
}{
	cfg: defaultConfig,
	inc: [2]int{1, 1},
}

// lg is replaced once the options are known.
var lg = newLogger(log.WarnLevel)

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code encoder\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults: UTF-8 input, no conversion, automatic
version, no ECI segment.  Settings from the -F file are overridden by
flags.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	bb := b.Bytes()
	if n := bytes.Index(bb, []byte(" [256]")); n >= 0 {
		w.Write(bb[:n])
		bb = bb[n+len(" [256]"):]
	}
	w.Write(bb)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

func parseFlags() {
	var fl config
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.latin1, '1', "convert input from UTF-8 to Latin-1")
	getopt.Flag(&g.sjis, 'k', "convert input from UTF-8 to Shift JIS, "+
		"enabling kanji mode")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.FlagLong(&fl.Parallel, "parallel", 'p',
		"evaluate mask patterns in parallel")
	getopt.FlagLong(&fl.Debug, "debug", 'd', "log encoding decisions")
	getopt.FlagLong(&g.cfgFile, "config", 'F', "read settings from "+
		"TOML file", "file")
	getopt.Flag(&g.fn, 'o', `output file, or "-" for standard output`,
		"file")
	getopt.Flag(&g.eciflag, 'e', "encode ECI segment setting "+
		"character encoding according to -1 and -k flags")
	fnc1 := getopt.Flag(opt(func() { fl.FNC1 = "first" }), 'c',
		"set FNC1 in first position").SetFlag()
	ai := getopt.Unsigned('C', 256, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 0},
		"set FNC1 in second position to the given value", "code")
	eci := getopt.Signed('E', 0, &getopt.SignedLimit{Base: 0, Bits: 21, Min: 0, Max: 999999},
		"encode ECI segment with the given value; overrides -e", "eci")
	border := getopt.Unsigned('m', qr.DefaultBorder,
		&getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 100}, "quiet zone modules", "margin")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 for the smallest fitting", "ver")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`"cbor" writes a machine readable record; `+
		`if standard output is a TTY, default is utf8, `+
		`otherwise cbor`, "type")

	getopt.Parse()
	if fnc1.Seen() && getopt.IsSet('C') {
		fmt.Fprintln(os.Stderr, "-c and -C are incompatible")
		usage()
	}
	if g.latin1 && g.sjis {
		fmt.Fprintln(os.Stderr, "-1 and -k are incompatible")
		usage()
	}
	if g.cfgFile != "" {
		if err := g.cfg.load(g.cfgFile); err != nil {
			lg.Fatal("config", "err", err)
		}
	}

	// Flags override the file.
	if getopt.IsSet('l') {
		g.cfg.Level = *lev
	}
	if getopt.IsSet('v') {
		g.cfg.Version = int(*ver)
	}
	if getopt.IsSet('m') {
		g.cfg.Border = int(*border)
	}
	if fnc1.Seen() {
		g.cfg.FNC1 = fl.FNC1
	}
	if getopt.IsSet('C') {
		g.cfg.FNC1 = "second"
		g.cfg.AppIndicator = int(*ai)
	}
	if getopt.IsSet('p') {
		g.cfg.Parallel = fl.Parallel
	}
	if getopt.IsSet('d') {
		g.cfg.Debug = fl.Debug
	}
	switch {
	case getopt.IsSet('E'):
		g.cfg.ECI = int(*eci)
	case g.eciflag:
		switch {
		case g.latin1:
			g.cfg.ECI = qr.Latin1ECI
		case g.sjis:
			g.cfg.ECI = qr.ShiftJISECI
		default:
			g.cfg.ECI = qr.UTF8ECI
		}
	}
	if *ff != "" {
		g.cfg.Format = *ff
		g.cfg.Invert = false
	}
	if g.cfg.Format == "" {
		if g.fn == "" && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			g.cfg.Format = "utf8"
		} else {
			g.cfg.Format = "cbor"
		}
	}
	if g.fn == "-" {
		g.fn = ""
	}
}

// convert returns s in the character set selected by -1 or -k.
func convert(s string) ([]byte, error) {
	var t transform.Transformer
	switch {
	case g.latin1:
		t = charmap.ISO8859_1.NewEncoder()
	case g.sjis:
		t = japanese.ShiftJIS.NewEncoder()
	default:
		return []byte(s), nil
	}
	out, _, err := transform.String(t, s)
	return []byte(out), err
}

func main() {
	parseFlags()
	if g.cfg.Debug {
		lg = newLogger(log.DebugLevel)
	}

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			lg.Fatal("read", "err", err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}
	data, err := convert(s)
	if err != nil {
		lg.Fatal("convert", "err", err)
	}

	e, err := g.cfg.encoder()
	if err != nil {
		lg.Fatal("config", "err", err)
	}
	e.Logger = lg
	c, err := e.EncodeContext(context.Background(), data)
	if err != nil {
		lg.Fatal("encode", "err", err)
	}
	lg.Debug("encoded", "version", c.Version, "level", c.Level,
		"mask", c.Mask, "bytes", len(data))
	write(c)
}

func write(c *qr.Code) {
	w := os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			lg.Fatal("open", "err", err)
		}
	}
	c = randr(c, g.cx, g.inc)
	c.Border = g.cfg.Border
	enc, rev, err := encoderFor(g.cfg.Format)
	if err != nil {
		lg.Fatal("format", "err", err)
	}
	c.Reverse = rev != g.cfg.Invert
	err = enc(c, w)
	if g.fn != "" && err == nil {
		err = w.Close()
	}
	if err != nil {
		lg.Fatal("write", "err", err)
	}
}
