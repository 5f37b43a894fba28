// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package socket

import (
	"crypto/rand"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/a9u/gowa/internal"
	"github.com/a9u/gowa/jid"
)

// Config carries the parameters a Socket needs once a transport-level
// connection is already open: who we claim to be, and in what language
// server-originated text content should come back.
type Config struct {
	// Origin is this client's own JID (populated once pairing/login has
	// associated the socket with an account; the zero JID is valid before
	// then).
	Origin jid.JID

	// Lang is the default language requested for any text content the
	// server sends back on this connection.
	Lang language.Tag

	// ConnID uniquely identifies this connection attempt for logging and
	// correlation; it has no meaning to the server.
	ConnID uuid.UUID
}

// NewConfig returns a Config with a freshly generated ConnID and the
// default (English) language tag.
func NewConfig(origin jid.JID) Config {
	return Config{
		Origin: origin,
		Lang:   language.English,
		ConnID: uuid.New(),
	}
}

// NextMessageID generates a random, WhatsApp-style correlation ID
// (alphanumeric, suitable for use unescaped as a node attribute value) for
// a request or outgoing message.
func NextMessageID() string {
	return internal.RandomID(messageIDLength, rand.Reader)
}

// messageIDLength matches the length the reference implementation uses for
// its own request IDs.
const messageIDLength = 16
