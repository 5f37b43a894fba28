package binary_test

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/a9u/gowa/binary"
	"github.com/a9u/gowa/waerror"
)

func TestUnpackDataUncompressed(t *testing.T) {
	buf := append([]byte{0x00}, []byte("payload")...)
	got, err := binary.UnpackData(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("got %q", got)
	}
}

func TestUnpackDataCompressed(t *testing.T) {
	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	buf := append([]byte{0x02}, compressed.Bytes()...)
	got, err := binary.UnpackData(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("got %q", got)
	}
}

func TestUnpackDataEmptyBufferErrors(t *testing.T) {
	_, err := binary.UnpackData(nil)
	if !waerror.Is(err, waerror.KindUnexpectedEnd) {
		t.Fatalf("expected KindUnexpectedEnd, got %v", err)
	}
}

func TestUnpackDataCorruptCompressedPayload(t *testing.T) {
	buf := []byte{0x02, 0xFF, 0xFF, 0xFF}
	_, err := binary.UnpackData(buf)
	if !waerror.Is(err, waerror.KindDecompressFailed) {
		t.Fatalf("expected KindDecompressFailed, got %v", err)
	}
}
