package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a leading UTF-8 BOM and applies Unicode NFC
// normalization, so that lexically equivalent source in different
// Unicode forms (or with a stray BOM) tokenizes identically. Grounded on
// AILANG's internal/lexer/normalize.go, which does the same at the same
// boundary.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}
