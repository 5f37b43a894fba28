// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package socket implements the thin connection-opening layer that sits
// directly on top of the binary XML codec: the connection header exchanged
// before the first framed message, and the three-byte length-prefixed
// framing used to delimit one encoded document from the next on the wire.
//
// The Noise-XX handshake and the WebSocket transport that actually carries
// these frames are treated as external collaborators — Socket is handed an
// already-open io.ReadWriteCloser and never dials one itself.
package socket

import (
	"io"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/a9u/gowa/binary"
	"github.com/a9u/gowa/token"
	"github.com/a9u/gowa/waerror"
)

// waMagic is the third byte of the connection header, identifying the
// multi-device binary protocol revision.
const waMagic = 5

// Header is the four-byte preamble the transport sends before the first
// framed message: 'W', 'A', the protocol magic byte, and the token
// dictionary version the rest of this session's frames are encoded
// against.
var Header = [4]byte{'W', 'A', waMagic, token.DictVersion}

// FrameLengthSize is the width, in bytes, of a frame's big-endian length
// prefix.
const FrameLengthSize = 3

// FrameMaxSize bounds a frame's payload: a payload must be shorter than
// FrameMaxSize bytes so that its length fits the three-byte prefix.
const FrameMaxSize = 2 << 23

var (
	// ErrFrameTooLarge is returned by WriteFrame when payload is
	// FrameMaxSize bytes or longer.
	ErrFrameTooLarge = errors.New("socket: frame is too large")
	// ErrClosed is returned by WriteFrame and ReadFrame once the socket
	// has been closed.
	ErrClosed = errors.New("socket: frame socket is closed")
)

// Socket frames binary XML documents over an already-open
// io.ReadWriteCloser. WriteFrame, SendNode and Close are safe for
// concurrent use by multiple goroutines; ReadFrame and ReceiveNode take no
// lock around the read and are for a single reading goroutine.
type Socket struct {
	logger log.Logger

	mu     sync.Mutex
	rwc    io.ReadWriteCloser
	closed bool

	headerSent bool
}

// New wraps rwc (an already-established, already-upgraded connection) in a
// Socket. logger may be nil, in which case a no-op logger is used.
func New(rwc io.ReadWriteCloser, logger log.Logger) *Socket {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Socket{rwc: rwc, logger: logger}
}

// Close closes the underlying connection; calling it again is a no-op. It
// waits for a WriteFrame in progress to finish. WriteFrame and ReadFrame
// calls that start after Close return ErrClosed.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rwc.Close()
}

// WriteFrame writes the connection header (once, before the first frame)
// followed by a length-prefixed payload.
func (s *Socket) WriteFrame(payload []byte) error {
	if len(payload) >= FrameMaxSize {
		return ErrFrameTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if !s.headerSent {
		if _, err := s.rwc.Write(Header[:]); err != nil {
			return errors.Wrap(err, "failed to write connection header")
		}
		s.headerSent = true
		level.Debug(s.logger).Log("msg", "sent connection header", "dict_version", token.DictVersion)
	}

	prefix := []byte{
		byte(len(payload) >> 16),
		byte(len(payload) >> 8),
		byte(len(payload)),
	}
	if _, err := s.rwc.Write(prefix); err != nil {
		return errors.Wrap(err, "failed to write frame length prefix")
	}
	if _, err := s.rwc.Write(payload); err != nil {
		return errors.Wrap(err, "failed to write frame payload")
	}
	level.Debug(s.logger).Log("msg", "wrote frame", "bytes", len(payload))
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its raw payload,
// still wrapped in the envelope's leading flag byte.
func (s *Socket) ReadFrame() ([]byte, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	var prefix [FrameLengthSize]byte
	if _, err := io.ReadFull(s.rwc, prefix[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read frame length prefix")
	}
	length := int(prefix[0])<<16 | int(prefix[1])<<8 | int(prefix[2])
	if length > FrameMaxSize {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(s.rwc, payload); err != nil {
		return nil, errors.Wrap(err, "failed to read frame payload")
	}
	level.Debug(s.logger).Log("msg", "read frame", "bytes", length)
	return payload, nil
}

// SendNode encodes n and writes it as a single frame.
func (s *Socket) SendNode(n binary.Node) error {
	encoded, err := binary.EncodeNode(n)
	if err != nil {
		return waerror.Wrap(waerror.KindOther, err, "failed to encode node")
	}
	return s.WriteFrame(encoded)
}

// ReceiveNode reads one frame, unwraps its compression envelope, and
// decodes the resulting document.
func (s *Socket) ReceiveNode() (binary.Node, error) {
	frame, err := s.ReadFrame()
	if err != nil {
		return binary.Node{}, err
	}
	payload, err := binary.UnpackData(frame)
	if err != nil {
		return binary.Node{}, err
	}
	return binary.DecodeNode(payload)
}
