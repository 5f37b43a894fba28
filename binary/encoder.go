package binary

import (
	"fmt"
	"math"

	"github.com/a9u/gowa/jid"
	"github.com/a9u/gowa/token"
	"github.com/a9u/gowa/waerror"
)

// tagSize is the width, in encoded "slots", a node's tag contributes to a
// list's element count.
const tagSize = 1

// Encoder accumulates the encoded form of a document. The buffer always
// starts with a single zero byte, matching the leading flag byte the
// envelope format expects (see UnpackData).
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder whose buffer has already been seeded with
// the leading envelope flag byte.
func NewEncoder() *Encoder {
	return &Encoder{buf: []byte{0}}
}

// Bytes returns the encoded buffer built so far.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// EncodeNode encodes n into a complete, envelope-framed buffer.
func EncodeNode(n Node) ([]byte, error) {
	e := NewEncoder()
	if err := e.writeNode(n); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func (e *Encoder) pushByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *Encoder) pushBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

func (e *Encoder) pushIntN(value int64, n int, littleEndian bool) {
	for i := 0; i < n; i++ {
		shift := n - i - 1
		if littleEndian {
			shift = i
		}
		e.pushByte(byte((value >> uint(shift*8)) & 0xFF))
	}
}

func (e *Encoder) pushInt20(value int32) {
	e.pushBytes([]byte{
		byte((value >> 16) & 0x0F),
		byte((value >> 8) & 0xFF),
		byte(value & 0xFF),
	})
}

// writeByteLength picks the smallest of the three size classes (BINARY8,
// BINARY20, BINARY32) that can hold length and writes its tag and value.
func (e *Encoder) writeByteLength(length int) error {
	switch {
	case length < 256:
		e.pushByte(token.Binary8)
		e.pushIntN(int64(length), 1, false)
	case length < (1 << 20):
		e.pushByte(token.Binary20)
		e.pushInt20(int32(length))
	case length <= math.MaxInt32:
		e.pushByte(token.Binary32)
		e.pushIntN(int64(length), 4, false)
	default:
		return waerror.New(waerror.KindLengthOverflow, fmt.Sprintf("length %d is too large to encode", length))
	}
	return nil
}

// writeNode encodes a full node: its list framing, tag, attributes, and
// content.
func (e *Encoder) writeNode(n Node) error {
	if n.Tag == "0" {
		e.pushByte(token.List8)
		e.pushByte(token.ListEmpty)
		return nil
	}

	hasContent := n.Content != nil
	listSize := 2*len(n.Attrs) + tagSize
	if hasContent {
		listSize++
	}

	if err := e.writeListStart(listSize); err != nil {
		return err
	}
	if err := e.writeString(n.Tag); err != nil {
		return err
	}
	if err := e.writeAttrs(n.Attrs); err != nil {
		return err
	}
	if hasContent {
		if err := e.writeContent(n.Content); err != nil {
			return err
		}
	}
	return nil
}

// writeContent dispatches a Content value to its wire representation. It
// is also the entry point write_attributes uses for each attribute value,
// so a nil Content (used nowhere in practice for an attribute, but kept
// for symmetry with the reference dispatcher) writes the LIST_EMPTY
// sentinel.
func (e *Encoder) writeContent(c Content) error {
	switch v := c.(type) {
	case nil:
		e.pushByte(token.ListEmpty)
		return nil
	case Children:
		if err := e.writeListStart(len(v)); err != nil {
			return err
		}
		for _, child := range v {
			if err := e.writeNode(child); err != nil {
				return err
			}
		}
		return nil
	case Bytes:
		return e.writeBytes([]byte(v))
	case StringContent:
		return e.writeString(string(v))
	case JIDContent:
		return e.writeJID(v.JID)
	default:
		return fmt.Errorf("binary: unsupported content type %T", c)
	}
}

// writeString writes s using the cheapest representation available: a
// single-byte dictionary token, a two-byte secondary-dictionary token, a
// packed nibble or hex string, or (failing all of those) its raw bytes.
func (e *Encoder) writeString(s string) error {
	if idx, ok := token.IndexOfSingle(s); ok {
		e.pushByte(idx)
		return nil
	}
	if dict, idx, ok := token.IndexOfDouble(s); ok {
		e.pushByte(token.Dictionary0 + dict)
		e.pushByte(idx)
		return nil
	}
	if validNibble(s) {
		return e.writePacked(s, token.Nibble8)
	}
	if validHex(s) {
		return e.writePacked(s, token.Hex8)
	}
	return e.writeStringRaw(s)
}

func (e *Encoder) writeStringRaw(s string) error {
	if err := e.writeByteLength(len(s)); err != nil {
		return err
	}
	e.pushBytes([]byte(s))
	return nil
}

func (e *Encoder) writeBytes(b []byte) error {
	if err := e.writeByteLength(len(b)); err != nil {
		return err
	}
	e.pushBytes(b)
	return nil
}

// writeJID writes j. AD-JIDs are written as (agent byte, device byte,
// user). Pair-form JIDs are written as (user-or-LIST_EMPTY, server) — the
// reference implementation's encoder writes the user twice here instead of
// the server, silently dropping the server from the wire; that bug is
// fixed here so the server always survives the round trip.
func (e *Encoder) writeJID(j jid.JID) error {
	if j.IsAD() {
		e.pushByte(token.AdJID)
		e.pushByte(*j.Agent)
		e.pushByte(*j.Device)
		return e.writeString(j.User)
	}

	e.pushByte(token.JIDPair)
	if j.User == "" {
		e.pushByte(token.ListEmpty)
	} else {
		if err := e.writeContent(StringContent(j.User)); err != nil {
			return err
		}
	}
	return e.writeContent(StringContent(j.Server))
}

// writeAttrs writes every attribute as a (key, value) pair. Empty string
// values are omitted entirely, matching the reference implementation's
// write_attributes.
func (e *Encoder) writeAttrs(attrs Attrs) error {
	for key, value := range attrs {
		if !value.IsJID() && value.StringValue() == "" {
			continue
		}
		if err := e.writeString(key); err != nil {
			return err
		}
		if value.IsJID() {
			if err := e.writeJID(value.JID()); err != nil {
				return err
			}
			continue
		}
		if err := e.writeContent(StringContent(value.StringValue())); err != nil {
			return err
		}
	}
	return nil
}

// writeListStart writes the list-size framing byte(s) for a list of
// list_size "slots" (attributes count double, tag and content count once
// each).
func (e *Encoder) writeListStart(listSize int) error {
	switch {
	case listSize == 0:
		e.pushByte(token.ListEmpty)
	case listSize < 256:
		e.pushByte(token.List8)
		e.pushIntN(int64(listSize), 1, false)
	case listSize < 65536:
		e.pushByte(token.List16)
		e.pushIntN(int64(listSize), 2, false)
	default:
		return waerror.New(waerror.KindLengthOverflow, fmt.Sprintf("list size %d exceeds LIST16's range", listSize))
	}
	return nil
}

// writePacked packs s two characters per byte using the nibble or hex
// alphabet selected by tag, padding an odd-length string with a 0 byte and
// signaling that padding via the top bit of the length byte.
func (e *Encoder) writePacked(s string, tag byte) error {
	if len(s) > token.PackedMax {
		return waerror.New(waerror.KindPackedAlphabetViolation, fmt.Sprintf("too many bytes to pack: %d", len(s)))
	}

	e.pushByte(tag)
	roundedLength := byte((len(s) + 1) / 2)
	odd := len(s)%2 != 0
	if odd {
		roundedLength |= 0x80
	}
	e.pushByte(roundedLength)

	packer := packNibble
	if tag == token.Hex8 {
		packer = packHex
	}

	n := len(s)
	for i := 0; i+1 < n; i += 2 {
		hi, err := packer(s[i])
		if err != nil {
			return waerror.Wrap(waerror.KindPackedAlphabetViolation, err, "failed to pack string")
		}
		lo, err := packer(s[i+1])
		if err != nil {
			return waerror.Wrap(waerror.KindPackedAlphabetViolation, err, "failed to pack string")
		}
		e.pushByte((hi << 4) | lo)
	}
	if odd {
		hi, err := packer(s[n-1])
		if err != nil {
			return waerror.Wrap(waerror.KindPackedAlphabetViolation, err, "failed to pack string")
		}
		lo, _ := packer(0)
		e.pushByte((hi << 4) | lo)
	}
	return nil
}
