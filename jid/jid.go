// Copyright 2014 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package jid

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultUserServer is the server used by every AD-JID and by ordinary user
// accounts.
const DefaultUserServer = "s.whatsapp.net"

// Well-known servers used throughout the protocol.
const (
	GroupServer     = "g.us"
	LegacyUserServer = "c.us"
	BroadcastServer = "broadcast"
	HiddenUserServer = "lid"
)

// Empty is the shared sentinel JID with no user and no server.
var Empty = JID{}

// JID identifies a WhatsApp user, group, or a specific device of a user.
// A JID is either a pair-JID (User, Server) or an AD-JID (User, Agent,
// Device, implicitly on DefaultUserServer). The zero value is the empty
// JID.
type JID struct {
	User   string
	Server string
	Agent  *uint8
	Device *uint8
}

// New constructs a pair-form JID.
func New(user, server string) JID {
	return JID{User: user, Server: server}
}

// NewAD constructs an AD-form JID. The server is always DefaultUserServer.
func NewAD(user string, agent, device uint8) JID {
	return JID{User: user, Server: DefaultUserServer, Agent: &agent, Device: &device}
}

// IsAD reports whether j identifies a specific device (both Agent and
// Device are present).
func (j JID) IsAD() bool {
	return j.Agent != nil && j.Device != nil
}

// IsBroadcastList reports whether j is a broadcast list other than the
// status broadcast.
func (j JID) IsBroadcastList() bool {
	return j.Server == BroadcastServer && j.User != "status"
}

// IsEmpty reports whether j is the zero-value/empty JID.
func (j JID) IsEmpty() bool {
	return j.User == "" && j.Server == "" && j.Agent == nil && j.Device == nil
}

// UserInt parses the User part as a decimal integer, which is valid for
// ordinary user accounts (but not groups or broadcast lists).
func (j JID) UserInt() (uint64, bool) {
	u, err := strconv.ParseUint(j.User, 10, 64)
	if err != nil {
		return 0, false
	}
	return u, true
}

// ToNonAD returns the pair-form JID that refers to the same user, dropping
// any agent/device components.
func (j JID) ToNonAD() JID {
	if !j.IsAD() {
		return j
	}
	return JID{User: j.User, Server: DefaultUserServer}
}

// String renders the canonical textual form of j:
// "user.agent:device@server" for AD-JIDs, "user@server" for pair-JIDs with
// a user, or just "server" when the user is empty.
func (j JID) String() string {
	switch {
	case j.IsAD():
		agent, device := uint8(0), uint8(0)
		if j.Agent != nil {
			agent = *j.Agent
		}
		if j.Device != nil {
			device = *j.Device
		}
		return fmt.Sprintf("%s.%d:%d@%s", j.User, agent, device, j.Server)
	case j.User != "":
		return fmt.Sprintf("%s@%s", j.User, j.Server)
	default:
		return j.Server
	}
}

// ErrInvalidJIDFormat is returned by Parse when s does not conform to the
// canonical JID grammar.
type ErrInvalidJIDFormat struct {
	Input  string
	Reason string
}

func (e *ErrInvalidJIDFormat) Error() string {
	return fmt.Sprintf("jid: invalid JID %q: %s", e.Input, e.Reason)
}

// Parse parses the canonical string representation of a JID. The server
// part is passed through IDNA normalization (matching the domain-handling
// rules XMPP addresses use) so that JIDs compare equal regardless of
// Unicode form; for the plain-ASCII server names WhatsApp uses (e.g.
// "s.whatsapp.net") this is a no-op.
func Parse(s string) (JID, error) {
	parts := strings.SplitN(s, "@", 2)
	if len(parts) == 1 {
		server, err := normalizeServer(parts[0])
		if err != nil {
			return JID{}, &ErrInvalidJIDFormat{Input: s, Reason: err.Error()}
		}
		return New("", server), nil
	}

	left, right := parts[0], parts[1]
	dot := strings.Index(left, ".")
	colon := strings.Index(left, ":")
	if dot >= 0 && colon >= 0 && dot < colon && right == DefaultUserServer {
		return parseAD(s, left)
	}

	server, err := normalizeServer(right)
	if err != nil {
		return JID{}, &ErrInvalidJIDFormat{Input: s, Reason: err.Error()}
	}
	return New(left, server), nil
}

func parseAD(orig, left string) (JID, error) {
	dot := strings.Index(left, ".")
	colon := strings.Index(left, ":")
	if dot < 0 || colon < 0 || colon <= dot {
		return JID{}, &ErrInvalidJIDFormat{Input: orig, Reason: "missing or misordered '.' and ':' separators"}
	}

	user := left[:dot]
	agentStr := left[dot+1 : colon]
	deviceStr := left[colon+1:]

	agent, err := strconv.ParseUint(agentStr, 10, 8)
	if err != nil {
		return JID{}, &ErrInvalidJIDFormat{Input: orig, Reason: "agent is not a valid byte: " + err.Error()}
	}
	device, err := strconv.ParseUint(deviceStr, 10, 8)
	if err != nil {
		return JID{}, &ErrInvalidJIDFormat{Input: orig, Reason: "device is not a valid byte: " + err.Error()}
	}

	return NewAD(user, uint8(agent), uint8(device)), nil
}

// normalizeServer applies IDNA ToUnicode normalization to a server/domain
// part. WhatsApp's own servers are plain ASCII labels, so this is a no-op
// for every server name the protocol actually uses; it exists so that a
// server name carrying A-labels (punycode) normalizes the same way an XMPP
// domainpart would.
func normalizeServer(server string) (string, error) {
	if server == "" {
		return server, nil
	}
	normalized, err := idna.ToUnicode(server)
	if err != nil {
		// A server that fails IDNA normalization is still accepted verbatim;
		// WhatsApp server names are not registered domains in the ICANN
		// sense (e.g. internal bare words), so normalization failure is not
		// itself a format error.
		return server, nil
	}
	return normalized, nil
}
