package types

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Filename is the "real name" entry: the file's name on its home file system.
// The bytes are kept verbatim; they are usually Mac OS Roman, not UTF-8.
type Filename []byte

// Comment is the comment visible in the Finder's Get Info window.
type Comment []byte

func (n Filename) String() string { return quoteBytes(n) }

// MacRoman decodes the name using the Mac OS Roman character set.
func (n Filename) MacRoman() string { return macRoman(n) }

// Valid reports whether the name is valid UTF-8.
func (n Filename) Valid() bool { return utf8.Valid(n) }

func (c Comment) String() string { return quoteBytes(c) }

// MacRoman decodes the comment using the Mac OS Roman character set.
func (c Comment) MacRoman() string { return macRoman(c) }

// Valid reports whether the comment is valid UTF-8.
func (c Comment) Valid() bool { return utf8.Valid(c) }

// quoteBytes returns a Go-quoted string. Bytes that are not valid UTF-8 come
// out as \x escapes.
func quoteBytes(b []byte) string {
	return strconv.Quote(string(b))
}

func macRoman(b []byte) string {
	out, err := charmap.Macintosh.NewDecoder().Bytes(b)
	if err != nil {
		return quoteBytes(b)
	}
	return string(out)
}
