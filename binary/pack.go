package binary

import (
	"fmt"

	"github.com/a9u/gowa/token"
	"github.com/a9u/gowa/waerror"
)

// validNibble reports whether s can be packed two-characters-per-byte
// using the nibble alphabet (decimal digits plus '-' and '.').
func validNibble(s string) bool {
	if len(s) > token.PackedMax {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || c == '-' || c == '.') {
			return false
		}
	}
	return true
}

// validHex reports whether s can be packed two-characters-per-byte using
// the hex alphabet.
func validHex(s string) bool {
	if len(s) > token.PackedMax {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// packNibble maps a single nibble-alphabet character (or the 0 byte used
// as odd-length padding) to its 4-bit wire value.
func packNibble(c byte) (byte, error) {
	switch {
	case c == '-':
		return 10, nil
	case c == '.':
		return 11, nil
	case c == 0:
		return 15, nil
	case c >= '0' && c <= '9':
		return c - '0', nil
	default:
		return 0, fmt.Errorf("invalid nibble character %q", c)
	}
}

// packHex maps a single hex-alphabet character (or the 0 byte used as
// odd-length padding) to its 4-bit wire value. Padding collides with the
// literal digit 'F' (both pack to 15); the encoder instead signals
// odd-length via the top bit of the length byte, so the collision never
// needs to be resolved on read.
func packHex(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return 10 + c - 'A', nil
	case c >= 'a' && c <= 'f':
		return 10 + c - 'a', nil
	case c == 0:
		return 15, nil
	default:
		return 0, fmt.Errorf("invalid hex character %q", c)
	}
}

// unpackNibble is the inverse of packNibble. Value 15 decodes to the 0
// byte, which the caller drops when the odd-length flag says the last
// nibble pair was padding.
func unpackNibble(v byte) (byte, error) {
	switch {
	case v < 10:
		return '0' + v, nil
	case v == 10:
		return '-', nil
	case v == 11:
		return '.', nil
	case v == 15:
		return 0, nil
	default:
		return 0, fmt.Errorf("invalid packed nibble value %d", v)
	}
}

// unpackHex is the inverse of packHex. Unlike unpackNibble, there is no
// dedicated padding value: 15 always decodes to 'F'. When the last nibble
// of an odd-length packed hex string was padding, it is dropped by the
// caller based on the length byte's top bit, not by inspecting the value.
func unpackHex(v byte) (byte, error) {
	switch {
	case v < 10:
		return '0' + v, nil
	case v < 16:
		return 'A' + v - 10, nil
	default:
		return 0, fmt.Errorf("invalid packed hex value %d", v)
	}
}

func unpackByte(tag byte, v byte) (byte, error) {
	switch tag {
	case token.Nibble8:
		return unpackNibble(v)
	case token.Hex8:
		return unpackHex(v)
	default:
		return 0, waerror.New(waerror.KindInvalidToken, fmt.Sprintf("unpack with unknown tag %d", tag))
	}
}
