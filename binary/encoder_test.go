package binary

import (
	"bytes"
	"testing"

	"github.com/a9u/gowa/token"
)

// S3: write_string("1234567890") packs as NIBBLE8.
func TestWriteStringPacksNibble(t *testing.T) {
	e := NewEncoder()
	if err := e.writeString("1234567890"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := e.Bytes()[1:] // drop the envelope flag byte
	want := []byte{token.Nibble8, 5, 0x12, 0x34, 0x56, 0x78, 0x90}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

// S4: write_string("abcdef") packs as HEX8.
func TestWriteStringPacksHex(t *testing.T) {
	e := NewEncoder()
	if err := e.writeString("abcdef"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := e.Bytes()[1:]
	want := []byte{token.Hex8, 3, 0xAB, 0xCD, 0xEF}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestWriteStringOddLengthNibbleSetsTopBit(t *testing.T) {
	e := NewEncoder()
	if err := e.writeString("123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := e.Bytes()[1:]
	// 3 chars -> rounded_length = 2, top bit set (0x80 | 2 = 0x82).
	// Pairs: ('1','2') -> 0x12, ('3', padding 0) -> packNibble('3')=3, packNibble(0)=15 -> 0x3F.
	want := []byte{token.Nibble8, 0x82, 0x12, 0x3F}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestWriteStringPrefersDictionaryToken(t *testing.T) {
	e := NewEncoder()
	if err := e.writeString("message"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := e.Bytes()[1:]
	if len(got) != 1 {
		t.Fatalf("expected a single-byte token, got % x", got)
	}
}

func TestWriteByteLengthPicksSmallestSizeClass(t *testing.T) {
	e := NewEncoder()
	if err := e.writeByteLength(10); err != nil {
		t.Fatal(err)
	}
	if e.Bytes()[1] != token.Binary8 {
		t.Fatalf("expected BINARY8 for a small length, got %d", e.Bytes()[1])
	}

	e = NewEncoder()
	if err := e.writeByteLength(1 << 16); err != nil {
		t.Fatal(err)
	}
	if e.Bytes()[1] != token.Binary20 {
		t.Fatalf("expected BINARY20 for a mid-size length, got %d", e.Bytes()[1])
	}

	e = NewEncoder()
	if err := e.writeByteLength(1 << 21); err != nil {
		t.Fatal(err)
	}
	if e.Bytes()[1] != token.Binary32 {
		t.Fatalf("expected BINARY32 for a large length, got %d", e.Bytes()[1])
	}
}

func TestWriteListStartSizeClasses(t *testing.T) {
	e := NewEncoder()
	if err := e.writeListStart(0); err != nil {
		t.Fatal(err)
	}
	if e.Bytes()[1] != token.ListEmpty {
		t.Fatalf("expected LIST_EMPTY, got %d", e.Bytes()[1])
	}

	e = NewEncoder()
	if err := e.writeListStart(10); err != nil {
		t.Fatal(err)
	}
	if e.Bytes()[1] != token.List8 {
		t.Fatalf("expected LIST8, got %d", e.Bytes()[1])
	}

	e = NewEncoder()
	if err := e.writeListStart(300); err != nil {
		t.Fatal(err)
	}
	if e.Bytes()[1] != token.List16 {
		t.Fatalf("expected LIST16, got %d", e.Bytes()[1])
	}
}
