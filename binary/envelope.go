package binary

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/a9u/gowa/waerror"
)

// compressedFlag is the bit of the envelope's leading byte that marks the
// remaining payload as zlib-compressed.
const compressedFlag = 0x02

// UnpackData strips the envelope's leading flag byte from buf, inflating
// the remainder with zlib if the flag's compressed bit is set. There is no
// corresponding pack function for the compressed case: this side of the
// protocol only ever sends uncompressed frames, each with a leading zero
// byte, which is exactly what Encoder.Bytes already produces.
func UnpackData(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, waerror.New(waerror.KindUnexpectedEnd, "failed to unpack data of length 0")
	}

	flag := buf[0]
	payload := buf[1:]

	if flag&compressedFlag == 0 {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, waerror.Wrap(waerror.KindDecompressFailed, err, "failed to decompress data")
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, waerror.Wrap(waerror.KindDecompressFailed, err, "failed to decompress data")
	}
	return decoded, nil
}
