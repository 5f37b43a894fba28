// Copyright 2015 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

package jid_test

import (
	"fmt"
	"testing"

	"github.com/a9u/gowa/jid"
)

var _ fmt.Stringer = jid.JID{}

func TestNewIsPairForm(t *testing.T) {
	j := jid.New("alice", jid.GroupServer)
	if j.IsAD() {
		t.Fatal("pair-form JID should not be AD")
	}
	if j.String() != "alice@g.us" {
		t.Fatalf("got %q", j.String())
	}
}

func TestNewADAlwaysUsesDefaultServer(t *testing.T) {
	j := jid.NewAD("555", 0, 1)
	if !j.IsAD() {
		t.Fatal("expected AD-JID")
	}
	if j.Server != jid.DefaultUserServer {
		t.Fatalf("got server %q, want %q", j.Server, jid.DefaultUserServer)
	}
	if j.String() != "555.0:1@s.whatsapp.net" {
		t.Fatalf("got %q", j.String())
	}
}

func TestServerOnlyJID(t *testing.T) {
	j := jid.New("", jid.GroupServer)
	if j.String() != jid.GroupServer {
		t.Fatalf("got %q, want %q", j.String(), jid.GroupServer)
	}
}

// S6: Parse the canonical string "447911234567.0:2@s.whatsapp.net".
func TestParseAD(t *testing.T) {
	const canonical = "447911234567.0:2@s.whatsapp.net"
	j, err := jid.Parse(canonical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !j.IsAD() {
		t.Fatal("expected AD-JID")
	}
	if j.User != "447911234567" {
		t.Fatalf("got user %q", j.User)
	}
	if *j.Agent != 0 || *j.Device != 2 {
		t.Fatalf("got agent=%d device=%d", *j.Agent, *j.Device)
	}
	if got := j.String(); got != canonical {
		t.Fatalf("round trip mismatch: got %q, want %q", got, canonical)
	}
}

func TestParsePair(t *testing.T) {
	j, err := jid.Parse("alice@g.us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.IsAD() {
		t.Fatal("did not expect AD-JID")
	}
	if j.User != "alice" || j.Server != "g.us" {
		t.Fatalf("got user=%q server=%q", j.User, j.Server)
	}
}

func TestParseServerOnly(t *testing.T) {
	j, err := jid.Parse("g.us")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.User != "" || j.Server != "g.us" {
		t.Fatalf("got user=%q server=%q", j.User, j.Server)
	}
}

// A colon before the dot does not match the AD-JID form, so the whole left
// side is taken as the user of a pair-form JID.
func TestParseColonBeforeDotIsPairForm(t *testing.T) {
	j, err := jid.Parse("447911234567:0.2@s.whatsapp.net")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.IsAD() || j.User != "447911234567:0.2" || j.Server != jid.DefaultUserServer {
		t.Fatalf("got %+v", j)
	}
}

func TestParseInvalidADByte(t *testing.T) {
	_, err := jid.Parse("447911234567.256:2@s.whatsapp.net")
	if err == nil {
		t.Fatal("expected error for out-of-range agent byte")
	}
}

func TestToNonAD(t *testing.T) {
	j := jid.NewAD("555", 0, 1)
	nonAD := j.ToNonAD()
	if nonAD.IsAD() {
		t.Fatal("expected ToNonAD to strip agent/device")
	}
	if nonAD.User != "555" || nonAD.Server != jid.DefaultUserServer {
		t.Fatalf("got %+v", nonAD)
	}
}

func TestEmptySentinel(t *testing.T) {
	if !jid.Empty.IsEmpty() {
		t.Fatal("expected the shared Empty JID to report IsEmpty")
	}
	if jid.New("alice", "g.us").IsEmpty() {
		t.Fatal("did not expect a populated JID to report IsEmpty")
	}
}

func TestIsBroadcastList(t *testing.T) {
	broadcast := jid.New("1234", jid.BroadcastServer)
	if !broadcast.IsBroadcastList() {
		t.Fatal("expected broadcast list JID to report IsBroadcastList")
	}
	status := jid.New("status", jid.BroadcastServer)
	if status.IsBroadcastList() {
		t.Fatal("status broadcast should not count as a broadcast list")
	}
}

func TestUserInt(t *testing.T) {
	j := jid.New("15551234567", jid.DefaultUserServer)
	n, ok := j.UserInt()
	if !ok || n != 15551234567 {
		t.Fatalf("got n=%d ok=%v", n, ok)
	}
	group := jid.New("not-a-number", jid.GroupServer)
	if _, ok := group.UserInt(); ok {
		t.Fatal("expected UserInt to fail for a non-numeric user")
	}
}
