package lexer

import (
	"strconv"
	"unicode/utf8"
)

// decodeRune decodes one scalar character from the front of b. Invalid
// UTF-8 is treated as a single-byte scalar so the tokenizer always makes
// forward progress instead of looping.
func decodeRune(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		if len(b) == 0 {
			return utf8.RuneError, 0
		}
		return rune(b[0]), 1
	}
	return r, size
}

// encodeRune writes r's UTF-8 encoding into buf (which must be at least
// utf8.UTFMax bytes) and returns the number of bytes written.
func encodeRune(buf []byte, r rune) int {
	return utf8.EncodeRune(buf, r)
}

// parseFloat decodes an Erlang float literal's text into an IEEE-754
// double using the mathematical -> nearest-double rounding strconv
// already implements. It errors with ErrRange when the literal overflows
// a float64 (e.g. an exponent too large to represent), which is this
// function's only failure mode since the grammar that reaches it has
// already validated digit shape.
func parseFloat(text []byte) (float64, error) {
	f, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// isAtomStart reports whether b begins a bare atom: [a-z].
func isAtomStart(b byte) bool { return isLower(b) }

// isAtomCont reports whether b continues a bare atom or quoted identifier:
// [A-Za-z0-9_@].
func isAtomCont(b byte) bool {
	return isLower(b) || isUpper(b) || isDigit(b) || b == '_' || b == '@'
}

// isVarStart reports whether b begins a variable: [A-Z_].
func isVarStart(b byte) bool { return isUpper(b) || b == '_' }

// isBaseDigit reports whether b is a valid digit in the given base
// (2..=36), using 0-9 then a-z/A-Z for digits above 9.
func isBaseDigit(b byte, base int) bool {
	v, ok := digitValue(b)
	return ok && v < base
}

// digitValue returns the numeric value of a base-36 digit character.
func digitValue(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// whitespaceKindOf classifies a single whitespace byte, or ok=false if b is
// not one of the recognized whitespace characters.
func whitespaceKindOf(b byte) (WhitespaceKind, bool) {
	switch b {
	case ' ':
		return WSSpace, true
	case '\t':
		return WSTab, true
	case '\n':
		return WSNewline, true
	case '\r':
		return WSReturn, true
	case '\f':
		return WSFormFeed, true
	case '\v':
		return WSVerticalTab, true
	default:
		return 0, false
	}
}
