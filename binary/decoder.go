package binary

import (
	"fmt"
	"unicode/utf8"

	"github.com/a9u/gowa/jid"
	"github.com/a9u/gowa/token"
	"github.com/a9u/gowa/waerror"
)

// Decoder reads a document out of a borrowed byte slice. It is single-use
// and not safe for concurrent reads.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder returns a Decoder positioned at the start of data. data is
// the payload already stripped of the envelope's leading flag byte (see
// UnpackData).
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// DecodeNode decodes a single top-level node from data (already stripped
// of the envelope's leading flag byte).
func DecodeNode(data []byte) (Node, error) {
	return NewDecoder(data).readNode()
}

func (d *Decoder) checkAvailable(n int) error {
	if d.pos+n > len(d.data) {
		return waerror.New(waerror.KindUnexpectedEnd, fmt.Sprintf("need %d more byte(s), have %d", n, len(d.data)-d.pos))
	}
	return nil
}

func (d *Decoder) readByte() (byte, error) {
	if err := d.checkAvailable(1); err != nil {
		return 0, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read a byte")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *Decoder) readIntN(n int, littleEndian bool) (int32, error) {
	if err := d.checkAvailable(n); err != nil {
		return 0, waerror.Wrap(waerror.KindUnexpectedEnd, err, fmt.Sprintf("failed to read a %d-byte integer", n))
	}
	var v int32
	for i := 0; i < n; i++ {
		shift := n - i - 1
		if littleEndian {
			shift = i
		}
		v |= int32(d.data[d.pos+i]) << uint(shift*8)
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) readInt20() (int32, error) {
	if err := d.checkAvailable(3); err != nil {
		return 0, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read a 20-bit integer")
	}
	v := (int32(d.data[d.pos])&0x0F)<<16 | int32(d.data[d.pos+1])<<8 | int32(d.data[d.pos+2])
	d.pos += 3
	return v, nil
}

func (d *Decoder) readBytes(length int) ([]byte, error) {
	if length < 0 {
		return nil, waerror.New(waerror.KindLengthOverflow, fmt.Sprintf("negative length %d", length))
	}
	if err := d.checkAvailable(length); err != nil {
		return nil, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read bytes")
	}
	b := make([]byte, length)
	copy(b, d.data[d.pos:d.pos+length])
	d.pos += length
	return b, nil
}

func (d *Decoder) readPacked8(tag byte) (string, error) {
	startByte, err := d.readByte()
	if err != nil {
		return "", waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read packed string")
	}

	out := make([]byte, 0, int(startByte&0x7F)*2)
	for i := 0; i < int(startByte&0x7F); i++ {
		b, err := d.readByte()
		if err != nil {
			return "", waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read packed string")
		}
		hi, err := unpackByte(tag, (b&0xF0)>>4)
		if err != nil {
			return "", waerror.Wrap(waerror.KindPackedAlphabetViolation, err, "failed to read packed string")
		}
		lo, err := unpackByte(tag, b&0x0F)
		if err != nil {
			return "", waerror.Wrap(waerror.KindPackedAlphabetViolation, err, "failed to read packed string")
		}
		out = append(out, hi, lo)
	}

	if startByte>>7 != 0 {
		if len(out) == 0 {
			return "", waerror.New(waerror.KindInvalidNode, "odd-length packed string has no bytes to trim")
		}
		out = out[:len(out)-1]
	}
	return string(out), nil
}

// rawKind tags the intermediate value read() produces, before it is
// shaped into either a Node's Content or an attribute's AttrValue.
type rawKind int

const (
	rawNone rawKind = iota
	rawChildren
	rawBytes
	rawString
	rawJID
)

type rawValue struct {
	kind     rawKind
	str      string
	bytes    []byte
	children []Node
	jid      jid.JID
}

// read is the generic value reader shared by node tags, attribute keys
// and values, JID components, and node content. asString only affects the
// BINARY8/20/32 tags: every other tag's natural result (a token/packed
// string, a JID, a child list, or nothing) is unaffected by it.
func (d *Decoder) read(asString bool) (rawValue, error) {
	tagByte, err := d.readByte()
	if err != nil {
		return rawValue{}, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read tag byte")
	}

	switch tagByte {
	case token.ListEmpty:
		return rawValue{kind: rawNone}, nil

	case token.List8, token.List16:
		children, err := d.readList(tagByte)
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindInvalidNode, err, "failed to parse list tokens")
		}
		return rawValue{kind: rawChildren, children: children}, nil

	case token.Binary8:
		n, err := d.readIntN(1, false)
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to parse BINARY8")
		}
		return d.readBinaryValue(int(n), asString)

	case token.Binary20:
		n, err := d.readInt20()
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to parse BINARY20")
		}
		return d.readBinaryValue(int(n), asString)

	case token.Binary32:
		n, err := d.readIntN(4, false)
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to parse BINARY32")
		}
		return d.readBinaryValue(int(n), asString)

	case token.Dictionary0, token.Dictionary1, token.Dictionary2, token.Dictionary3:
		idx, err := d.readIntN(1, false)
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to parse double-byte token dictionary tag")
		}
		s, err := token.Double(tagByte-token.Dictionary0, byte(idx))
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindInvalidToken, err, "failed to parse double-byte token dictionary tag")
		}
		return rawValue{kind: rawString, str: s}, nil

	case token.JIDPair:
		j, err := d.readJIDPair()
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to parse JID_PAIR")
		}
		return rawValue{kind: rawJID, jid: j}, nil

	case token.AdJID:
		j, err := d.readADJID()
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to parse ADJID")
		}
		return rawValue{kind: rawJID, jid: j}, nil

	case token.Nibble8, token.Hex8:
		s, err := d.readPacked8(tagByte)
		if err != nil {
			return rawValue{}, waerror.Wrap(waerror.KindPackedAlphabetViolation, err, "failed to parse NIBBLE8 or HEX8")
		}
		return rawValue{kind: rawString, str: s}, nil

	default:
		if tagByte >= 1 && tagByte < token.Dictionary0 {
			s, err := token.Single(tagByte)
			if err != nil {
				return rawValue{}, waerror.Wrap(waerror.KindInvalidToken, err, "failed to parse single-byte token")
			}
			return rawValue{kind: rawString, str: s}, nil
		}
		return rawValue{}, waerror.New(waerror.KindInvalidToken, fmt.Sprintf("invalid token %d at position %d", tagByte, d.pos))
	}
}

func (d *Decoder) readBinaryValue(length int, asString bool) (rawValue, error) {
	b, err := d.readBytes(length)
	if err != nil {
		return rawValue{}, err
	}
	if !asString {
		return rawValue{kind: rawBytes, bytes: b}, nil
	}
	if !utf8.Valid(b) {
		return rawValue{}, waerror.New(waerror.KindInvalidUTF8, "failed to convert bytes to a string")
	}
	return rawValue{kind: rawString, str: string(b)}, nil
}

func (d *Decoder) readJIDPair() (jid.JID, error) {
	user, err := d.read(true)
	if err != nil {
		return jid.JID{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to read JID pair")
	}
	server, err := d.read(true)
	if err != nil {
		return jid.JID{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to read JID pair")
	}
	if server.kind != rawString {
		return jid.JID{}, waerror.New(waerror.KindInvalidJIDType, "JID pair server is not a string")
	}
	switch user.kind {
	case rawNone:
		return jid.New("", server.str), nil
	case rawString:
		return jid.New(user.str, server.str), nil
	default:
		return jid.JID{}, waerror.New(waerror.KindInvalidJIDType, "JID pair user is neither absent nor a string")
	}
}

func (d *Decoder) readADJID() (jid.JID, error) {
	agent, err := d.readByte()
	if err != nil {
		return jid.JID{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to read AD-JID")
	}
	device, err := d.readByte()
	if err != nil {
		return jid.JID{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to read AD-JID")
	}
	user, err := d.read(true)
	if err != nil {
		return jid.JID{}, waerror.Wrap(waerror.KindInvalidJIDType, err, "failed to read AD-JID")
	}
	if user.kind != rawString {
		return jid.JID{}, waerror.New(waerror.KindInvalidJIDType, "AD-JID user is not a string")
	}
	return jid.NewAD(user.str, agent, device), nil
}

func (d *Decoder) readAttributes(n int) (Attrs, error) {
	if n <= 0 {
		return Attrs{}, nil
	}
	attrs := make(Attrs, n)
	for i := 0; i < n; i++ {
		key, err := d.read(true)
		if err != nil {
			return nil, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read attributes")
		}
		if key.kind != rawString {
			return nil, waerror.New(waerror.KindNonStringKey, fmt.Sprintf("attribute key at position %d is not a string", d.pos))
		}
		value, err := d.read(true)
		if err != nil {
			return nil, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read attributes")
		}
		switch value.kind {
		case rawJID:
			attrs[key.str] = JIDAttr(value.jid)
		case rawString:
			attrs[key.str] = StringAttr(value.str)
		default:
			return nil, waerror.New(waerror.KindInvalidNode, fmt.Sprintf("attribute %q has an invalid value type at position %d", key.str, d.pos))
		}
	}
	return attrs, nil
}

func (d *Decoder) readListSize(tag byte) (int, error) {
	switch tag {
	case token.ListEmpty:
		return 0, nil
	case token.List8:
		n, err := d.readIntN(1, false)
		return int(n), err
	case token.List16:
		n, err := d.readIntN(2, false)
		return int(n), err
	default:
		return 0, waerror.New(waerror.KindInvalidToken, fmt.Sprintf("read_list_size with unknown tag %d at position %d", tag, d.pos))
	}
}

func (d *Decoder) readList(tag byte) ([]Node, error) {
	size, err := d.readListSize(tag)
	if err != nil {
		return nil, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read node list")
	}
	nodes := make([]Node, 0, size)
	for i := 0; i < size; i++ {
		n, err := d.readNode()
		if err != nil {
			return nil, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read node list")
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// readNode reads a single node's framing, tag, attributes, and (if
// present) content.
func (d *Decoder) readNode() (Node, error) {
	sizeTag, err := d.readByte()
	if err != nil {
		return Node{}, waerror.Wrap(waerror.KindUnexpectedEnd, err, "failed to read node")
	}
	listSize, err := d.readListSize(sizeTag)
	if err != nil {
		return Node{}, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read node")
	}
	if listSize == 0 {
		return Node{}, waerror.New(waerror.KindInvalidNode, "node has an empty list size")
	}

	tag, err := d.read(true)
	if err != nil {
		return Node{}, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read node")
	}
	if tag.kind != rawString || tag.str == "" {
		return Node{}, waerror.New(waerror.KindInvalidNode, "node tag is missing or not a string")
	}

	node := Node{Tag: tag.str}

	attrs, err := d.readAttributes((listSize - 1) >> 1)
	if err != nil {
		return Node{}, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read node")
	}
	node.Attrs = attrs

	if listSize%2 == 1 {
		return node, nil
	}

	content, err := d.read(false)
	if err != nil {
		return Node{}, waerror.Wrap(waerror.KindInvalidNode, err, "failed to read node")
	}
	node.Content = rawToContent(content)
	return node, nil
}

func rawToContent(v rawValue) Content {
	switch v.kind {
	case rawNone:
		return nil
	case rawChildren:
		return Children(v.children)
	case rawBytes:
		return Bytes(v.bytes)
	case rawString:
		return StringContent(v.str)
	case rawJID:
		return JIDContent{JID: v.jid}
	default:
		return nil
	}
}
