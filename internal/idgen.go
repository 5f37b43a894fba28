// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package internal

import "io"

// idAlphabet is the character set request/message correlation IDs are
// drawn from. It has no cryptographic significance; it just keeps
// generated IDs safe to embed in a node attribute without escaping.
const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomID returns a random string of the given length, read from r. r is
// read exactly once; a short read or a read error is a programming error
// (an exhausted or misbehaving source of randomness) and panics rather
// than silently returning a weak or short ID.
func RandomID(length int, r io.Reader) string {
	return randomID(length, r)
}

// randomID is the unexported implementation RandomID wraps; it keeps the
// panic-on-short-read behavior directly testable without going through a
// particular io.Reader.
func randomID(length int, r io.Reader) string {
	b := make([]byte, length)
	n, err := r.Read(b)
	if err != nil {
		panic(err)
	}
	if n != length {
		panic("internal: short read while generating random id")
	}
	for i, c := range b {
		b[i] = idAlphabet[int(c)%len(idAlphabet)]
	}
	return string(b)
}
