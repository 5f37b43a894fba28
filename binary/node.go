package binary

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/a9u/gowa/jid"
)

// maxBytesToPrintAsHex is the threshold above which Node.XMLString renders
// byte content as a byte-count comment instead of inline text or hex.
const maxBytesToPrintAsHex = 128

// Content is the tagged union a Node carries as its body. The concrete
// types below are the only values that satisfy it: Children (an ordered
// list of child nodes), Bytes (a raw octet string), StringContent (text,
// produced both by the encoder-only scalar constructors and by decoding a
// tokenized/packed string), and JIDContent (a JID written or read directly
// as a node's content rather than as an attribute). A nil Content means the
// node carries no content at all.
type Content interface {
	isNodeContent()
}

// Children is an ordered list of child nodes.
type Children []Node

func (Children) isNodeContent() {}

// Bytes is a raw, untyped octet string.
type Bytes []byte

func (Bytes) isNodeContent() {}

// StringContent is textual content. The encoder writes it through the same
// token/dictionary/packed-alphabet dispatch used for attribute values and
// tag names; the decoder produces it whenever the wire bytes it reads
// naturally resolve to a string (a dictionary token, a single-byte token,
// or a packed nibble/hex string).
type StringContent string

func (StringContent) isNodeContent() {}

// JIDContent is a JID written or read directly as node content (as opposed
// to as an attribute value).
type JIDContent struct {
	JID jid.JID
}

func (JIDContent) isNodeContent() {}

// StringValue builds a text Content value.
func StringValue(s string) Content { return StringContent(s) }

// Int32Value, Uint32Value, Int64Value, Uint64Value, and BoolValue render
// their argument to its decimal/boolean textual form; the codec has no
// distinct wire representation for numeric or boolean content, it is
// always written (and later read back) as a string.
func Int32Value(v int32) Content   { return StringContent(fmt.Sprintf("%d", v)) }
func Uint32Value(v uint32) Content { return StringContent(fmt.Sprintf("%d", v)) }
func Int64Value(v int64) Content   { return StringContent(fmt.Sprintf("%d", v)) }
func Uint64Value(v uint64) Content { return StringContent(fmt.Sprintf("%d", v)) }
func BoolValue(v bool) Content     { return StringContent(fmt.Sprintf("%t", v)) }

// JIDValue builds a Content value that encodes a JID directly (ADJID or
// JID_PAIR on the wire) rather than its string rendering.
func JIDValue(j jid.JID) Content { return JIDContent{JID: j} }

// attrKind distinguishes the two shapes an attribute value can take.
type attrKind uint8

const (
	attrKindString attrKind = iota
	attrKindJID
)

// AttrValue is the tagged union of values an attribute can hold: either a
// plain string or a JID.
type AttrValue struct {
	kind attrKind
	str  string
	jid  jid.JID
}

// StringAttr builds a string-valued attribute.
func StringAttr(s string) AttrValue { return AttrValue{kind: attrKindString, str: s} }

// JIDAttr builds a JID-valued attribute.
func JIDAttr(j jid.JID) AttrValue { return AttrValue{kind: attrKindJID, jid: j} }

// IsJID reports whether v holds a JID rather than a string.
func (v AttrValue) IsJID() bool { return v.kind == attrKindJID }

// JID returns the JID held by v. It is the zero JID if v is not JID-typed.
func (v AttrValue) JID() jid.JID { return v.jid }

// StringValue returns the string held by v. It is empty if v is JID-typed.
func (v AttrValue) StringValue() string { return v.str }

// Text renders v the way it appears in the node's pretty-printed XML form.
func (v AttrValue) Text() string {
	if v.kind == attrKindJID {
		return v.jid.String()
	}
	return v.str
}

// Attrs is the set of attributes carried by a Node.
type Attrs map[string]AttrValue

// Node is a single element of the document model: a tag name, its
// attributes, and its content.
type Node struct {
	Tag     string
	Attrs   Attrs
	Content Content
}

// GetChildren returns the node's children if its content is a Children
// list, and false otherwise.
func (n Node) GetChildren() ([]Node, bool) {
	children, ok := n.Content.(Children)
	if !ok {
		return nil, false
	}
	return []Node(children), true
}

// GetChildrenByTag returns the subset of GetChildren whose Tag matches tag.
func (n Node) GetChildrenByTag(tag string) []Node {
	children, ok := n.GetChildren()
	if !ok {
		return nil
	}
	var matched []Node
	for _, c := range children {
		if c.Tag == tag {
			matched = append(matched, c)
		}
	}
	return matched
}

// GetChildByPath walks the node's descendants one tag at a time, returning
// the first matching child at each level. It reports false if any segment
// of the path is missing.
func (n Node) GetChildByPath(tags ...string) (Node, bool) {
	cur := n
	for _, tag := range tags {
		children, ok := cur.GetChildren()
		if !ok {
			return Node{}, false
		}
		found := false
		for _, c := range children {
			if c.Tag == tag {
				cur = c
				found = true
				break
			}
		}
		if !found {
			return Node{}, false
		}
	}
	return cur, true
}

// AttrGetter returns an AttrGetter bound to this node's attributes.
func (n Node) AttrGetter() *AttrGetter {
	return &AttrGetter{attrs: n.Attrs}
}

// XMLString renders the node as a human-readable approximation of its XML
// form, for logging and debugging. Attributes are sorted by key; byte
// content that is not entirely alphanumeric is rendered as hex, and any
// byte content longer than maxBytesToPrintAsHex bytes is collapsed to a
// byte count comment.
func (n Node) XMLString() string {
	attrs := n.attributeString()
	switch c := n.Content.(type) {
	case nil:
		if attrs == "" {
			return fmt.Sprintf("<%s />", n.Tag)
		}
		return fmt.Sprintf("<%s %s />", n.Tag, attrs)
	case Children:
		var b strings.Builder
		b.WriteByte('<')
		b.WriteString(n.Tag)
		if attrs != "" {
			b.WriteByte(' ')
			b.WriteString(attrs)
		}
		b.WriteByte('>')
		for _, child := range c {
			b.WriteString(child.XMLString())
		}
		fmt.Fprintf(&b, "</%s>", n.Tag)
		return b.String()
	case Bytes:
		return wrapTag(n.Tag, attrs, bytesToText([]byte(c)))
	case StringContent:
		return wrapTag(n.Tag, attrs, string(c))
	case JIDContent:
		return wrapTag(n.Tag, attrs, c.JID.String())
	default:
		return wrapTag(n.Tag, attrs, "")
	}
}

func wrapTag(tag, attrs, content string) string {
	if attrs == "" {
		return fmt.Sprintf("<%s>%s</%s>", tag, content, tag)
	}
	return fmt.Sprintf("<%s %s>%s</%s>", tag, attrs, content, tag)
}

func (n Node) attributeString() string {
	if len(n.Attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf(`%s=%q`, k, n.Attrs[k].Text()))
	}
	return strings.Join(parts, " ")
}

// bytesToText renders printable (alphanumeric) content inline, and
// anything else as hex, collapsing long runs to a byte count.
func bytesToText(b []byte) string {
	if len(b) > maxBytesToPrintAsHex {
		return fmt.Sprintf("<!-- %d bytes -->", len(b))
	}
	if printable(b) {
		return string(b)
	}
	return hex.EncodeToString(b)
}

func printable(b []byte) bool {
	for _, c := range b {
		isAlnum := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isAlnum {
			return false
		}
	}
	return len(b) > 0
}
