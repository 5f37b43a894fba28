package binary_test

import (
	"bytes"
	"testing"

	"github.com/a9u/gowa/binary"
	"github.com/a9u/gowa/jid"
	"github.com/a9u/gowa/token"
)

func encodeDecode(t *testing.T, n binary.Node) binary.Node {
	t.Helper()
	encoded, err := binary.EncodeNode(n)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := binary.DecodeNode(encoded[1:]) // strip the envelope flag byte
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return decoded
}

// S1: an <iq> node with attributes and a single child round-trips. The id
// "abc123" is hex-packed on the wire, and packed hex decodes upper-case.
func TestRoundTripIQNode(t *testing.T) {
	n := binary.Node{
		Tag: "iq",
		Attrs: binary.Attrs{
			"id":    binary.StringAttr("abc123"),
			"type":  binary.StringAttr("get"),
			"xmlns": binary.StringAttr("w:g2"),
		},
		Content: binary.Children{
			{Tag: "query"},
		},
	}
	got := encodeDecode(t, n)

	if got.Tag != "iq" {
		t.Fatalf("got tag %q", got.Tag)
	}
	if got.Attrs["id"].StringValue() != "ABC123" || got.Attrs["type"].StringValue() != "get" || got.Attrs["xmlns"].StringValue() != "w:g2" {
		t.Fatalf("got attrs %+v", got.Attrs)
	}
	children, ok := got.GetChildren()
	if !ok || len(children) != 1 || children[0].Tag != "query" {
		t.Fatalf("got children %+v", children)
	}
}

// S2: an AD-JID attribute plus raw byte content round-trips.
func TestRoundTripADJIDAttributeAndBytes(t *testing.T) {
	from := jid.NewAD("123456", 0, 1)
	n := binary.Node{
		Tag: "receipt",
		Attrs: binary.Attrs{
			"from": binary.JIDAttr(from),
		},
		Content: binary.Bytes([]byte{0xDE, 0xAD, 0xBE, 0xEF}),
	}
	got := encodeDecode(t, n)

	gotFrom := got.Attrs["from"]
	if !gotFrom.IsJID() {
		t.Fatal("expected the from attribute to decode as a JID")
	}
	// Agent and Device are pointers, so compare the pointed-to values.
	gj := gotFrom.JID()
	if !gj.IsAD() || gj.User != from.User || gj.Server != from.Server || *gj.Agent != *from.Agent || *gj.Device != *from.Device {
		t.Fatalf("got %v, want %v", gj, from)
	}
	b, ok := got.Content.(binary.Bytes)
	if !ok || !bytes.Equal([]byte(b), []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("got content %+v", got.Content)
	}
}

// S5: a depth-3 tree with 300 children at the middle level crosses the
// LIST8/LIST16 boundary and still round-trips.
func TestRoundTripLargeChildListCrossesList16Boundary(t *testing.T) {
	children := make(binary.Children, 300)
	for i := range children {
		children[i] = binary.Node{Tag: "item"}
	}
	n := binary.Node{
		Tag: "root",
		Content: binary.Children{
			{Tag: "middle", Content: children},
		},
	}

	encoded, err := binary.EncodeNode(n)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// The "middle" node's content list has 300 elements, which requires
	// LIST16 framing (>= 256); find that marker byte in the stream.
	if !bytes.Contains(encoded, []byte{token.List16}) {
		t.Fatal("expected the 300-element child list to use LIST16 framing")
	}

	decoded, err := binary.DecodeNode(encoded[1:])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	top, ok := decoded.GetChildren()
	if !ok || len(top) != 1 || top[0].Tag != "middle" {
		t.Fatalf("got %+v", decoded)
	}
	middleChildren, ok := top[0].GetChildren()
	if !ok || len(middleChildren) != 300 {
		t.Fatalf("got %d children, want 300", len(middleChildren))
	}
	for _, c := range middleChildren {
		if c.Tag != "item" {
			t.Fatalf("unexpected child tag %q", c.Tag)
		}
	}
}

// Regression test: the reference implementation's write_jid writes the
// pair-form user twice instead of (user, server), silently dropping the
// server. This codec fixes that so the server always survives encoding.
func TestRoundTripPairJIDPreservesServer(t *testing.T) {
	from := jid.New("alice", jid.GroupServer)
	n := binary.Node{
		Tag:   "message",
		Attrs: binary.Attrs{"from": binary.JIDAttr(from)},
	}
	got := encodeDecode(t, n)

	gotFrom := got.Attrs["from"]
	if !gotFrom.IsJID() {
		t.Fatal("expected the from attribute to decode as a JID")
	}
	if gotFrom.JID().Server != jid.GroupServer {
		t.Fatalf("server was dropped: got %+v, want server %q", gotFrom.JID(), jid.GroupServer)
	}
	if gotFrom.JID() != from {
		t.Fatalf("got %+v, want %+v", gotFrom.JID(), from)
	}
}

// Attribute extraction accumulates errors across multiple lookups instead
// of stopping at the first one.
func TestAttrGetterAccumulatesAcrossMultipleFailures(t *testing.T) {
	n := binary.Node{Tag: "n", Attrs: binary.Attrs{}}
	g := n.AttrGetter()
	_ = g.String("a")
	_ = g.Int64("b")
	_ = g.JID("c")
	if g.Ok() {
		t.Fatal("expected three accumulated errors")
	}
	agg, ok := g.Error().(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected an aggregate error, got %T", g.Error())
	}
	if len(agg.Unwrap()) != 3 {
		t.Fatalf("got %d accumulated errors, want 3", len(agg.Unwrap()))
	}
}
