package token_test

import (
	"testing"

	"github.com/a9u/gowa/token"
)

func TestSingleRoundTrip(t *testing.T) {
	idx, ok := token.IndexOfSingle("message")
	if !ok {
		t.Fatal("expected \"message\" to be a single-byte token")
	}
	s, err := token.Single(idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "message" {
		t.Fatalf("got %q, want %q", s, "message")
	}
}

func TestSingleZeroIndexIsReserved(t *testing.T) {
	if _, err := token.Single(0); err == nil {
		t.Fatal("expected index 0 to be reserved for LIST_EMPTY")
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	dict, b, ok := token.IndexOfDouble("image/jpeg")
	if !ok {
		t.Fatal("expected \"image/jpeg\" to be a double-byte token")
	}
	s, err := token.Double(dict, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "image/jpeg" {
		t.Fatalf("got %q, want %q", s, "image/jpeg")
	}
}

func TestUnknownStringIsNotATokenEither(t *testing.T) {
	if _, ok := token.IndexOfSingle("this-string-will-never-be-a-token"); ok {
		t.Fatal("did not expect an arbitrary string to be tokenized")
	}
	if _, _, ok := token.IndexOfDouble("this-string-will-never-be-a-token"); ok {
		t.Fatal("did not expect an arbitrary string to be tokenized")
	}
}

func TestReservedBytesDoNotOverlapDictionary(t *testing.T) {
	reserved := []byte{
		token.Dictionary0, token.Dictionary1, token.Dictionary2, token.Dictionary3,
		token.AdJID, token.List8, token.List16, token.JIDPair, token.Hex8,
		token.Binary8, token.Binary20, token.Binary32, token.Nibble8,
	}
	for _, b := range reserved {
		if _, err := token.Single(b); err == nil {
			t.Fatalf("reserved byte %d unexpectedly resolved to a dictionary string", b)
		}
	}
}
