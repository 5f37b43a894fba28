// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package jid implements the WhatsApp multi-device addressing scheme used by
// the binary XML codec: a user, a server, and an optional agent/device pair
// that together identify a specific client of a specific account.
//
// Unlike the XMPP JIDs this package's ancestor used to parse, WhatsApp JIDs
// carry no resourcepart and need no stringprep profile — the user and server
// are opaque identifiers (phone numbers, server hostnames) and the
// agent/device components are single bytes. Construction is plain string
// and byte operations; Parse additionally passes the server part through
// IDNA ToUnicode normalization, which leaves plain-ASCII server names as
// they are.
package jid
