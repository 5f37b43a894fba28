// Copyright 2016 Sam Whited.
// Use of this source code is governed by the BSD 2-clause
// license that can be found in the LICENSE file.

// Package token holds the two static token dictionaries the binary XML codec
// uses to replace frequently occurring tag and attribute strings with one- or
// two-byte indices. The tables are immutable once built and safe to share
// across goroutines; the reverse indices are built exactly once, on the
// first lookup.
package token

import (
	"fmt"
	"sync"
)

// Reserved tag bytes. Apart from ListEmpty (0), these values occupy the
// high end of the single-byte index space. None of them is produced by the
// dictionary lookups below; the
// encoder and decoder switch on them directly.
const (
	ListEmpty = 0

	Dictionary0 = 236
	Dictionary1 = 237
	Dictionary2 = 238
	Dictionary3 = 239

	AdJID   = 247
	List8   = 248
	List16  = 249
	JIDPair = 250
	Hex8    = 251
	Binary8 = 252
	Binary20 = 253
	Binary32 = 254
	Nibble8 = 255
)

// DictVersion is written into the connection header so that peers using
// different dictionary revisions can detect the mismatch before attempting
// to decode a frame.
const DictVersion = 2

// PackedMax bounds the length of a single nibble- or hex-packed string.
const PackedMax = 128

// single is the primary single-byte dictionary. Index 0 is reserved for
// LIST_EMPTY and indices at or above Dictionary0 are reserved tag bytes, so
// only indices 1..235 carry dictionary strings.
var single = [236]string{
	1: "account", 2: "ack", 3: "action", 4: "active", 5: "add", 6: "after",
	7: "all", 8: "allow", 9: "and", 10: "android", 11: "announce",
	12: "archive", 13: "available", 14: "battery", 15: "before", 16: "block",
	17: "body", 18: "broadcast", 19: "call", 20: "call-creator", 21: "call-id",
	22: "cancel", 23: "caption", 24: "chat", 25: "child", 26: "clear",
	27: "code", 28: "composing", 29: "config", 30: "contact", 31: "contacts",
	32: "count", 33: "create", 34: "creator", 35: "decrypt", 36: "delete",
	37: "demote", 38: "description", 39: "device", 40: "devices",
	41: "disappearing", 42: "done", 43: "download", 44: "edit", 45: "elapsed",
	46: "encoding", 47: "encrypt", 48: "end", 49: "ephemeral", 50: "error",
	51: "event", 52: "exit", 53: "expiration", 54: "failure", 55: "false",
	56: "fan_out", 57: "file", 58: "filename", 59: "format", 60: "from",
	61: "full", 62: "g.us", 63: "get", 64: "gif", 65: "group", 66: "groups",
	67: "hash", 68: "height", 69: "host", 70: "id", 71: "image", 72: "in",
	73: "inactive", 74: "index", 75: "info", 76: "interactive", 77: "invite",
	78: "ios", 79: "iq", 80: "is", 81: "item", 82: "items", 83: "jid",
	84: "keep", 85: "key", 86: "keyvalue", 87: "keys", 88: "kind",
	89: "large", 90: "last", 91: "leave", 92: "limit", 93: "linked",
	94: "list", 95: "live", 96: "location", 97: "locked", 98: "media",
	99: "media_type", 100: "member", 101: "message", 102: "messages",
	103: "meta", 104: "mime", 105: "mirror", 106: "modify", 107: "msg",
	108: "mute", 109: "name", 110: "network", 111: "new", 112: "news",
	113: "newsletter", 114: "none", 115: "not", 116: "notification",
	117: "notify", 118: "number", 119: "of", 120: "offline", 121: "opt",
	122: "order", 123: "out", 124: "owner", 125: "paid", 126: "pairing",
	127: "participant", 128: "participants", 129: "paused", 130: "phash",
	131: "phone", 132: "photo", 133: "picture", 134: "pin", 135: "pinned",
	136: "platform", 137: "pn", 138: "preview", 139: "previous",
	140: "primary", 141: "private", 142: "promote", 143: "props",
	144: "protocol", 145: "push", 146: "pushname", 147: "query", 148: "quit",
	149: "quote", 150: "rate", 151: "read", 152: "reason", 153: "receipt",
	154: "received", 155: "recipient", 156: "remove", 157: "removed",
	158: "reply", 159: "report", 160: "request", 161: "require", 162: "reset",
	163: "resource", 164: "result", 165: "retry", 166: "revoke",
	167: "s.whatsapp.net", 168: "screen", 169: "search", 170: "secret",
	171: "seen", 172: "selected", 173: "self", 174: "sender", 175: "serial",
	176: "server", 177: "session", 178: "set", 179: "settings", 180: "share",
	181: "side", 182: "sig", 183: "silent", 184: "size", 185: "source",
	186: "sponsor", 187: "srcjid", 188: "starred", 189: "start",
	190: "status", 191: "sticky", 192: "stop", 193: "subject",
	194: "subscribe", 195: "success", 196: "sync", 197: "system", 198: "t",
	199: "tag", 200: "target", 201: "template", 202: "terminate", 203: "text",
	204: "thread", 205: "ticket", 206: "time", 207: "timestamp", 208: "to",
	209: "token", 210: "true", 211: "type", 212: "unavailable",
	213: "unique", 214: "unknown", 215: "unlock", 216: "unread",
	217: "until", 218: "update", 219: "upgrade", 220: "url", 221: "user",
	222: "users", 223: "value", 224: "version", 225: "video", 226: "voip",
	227: "w:profile:picture", 228: "web", 229: "width", 230: "write",
	231: "xmlns", 232: "years", 233: "0", 234: "1", 235: "2",
}

// double holds the four secondary dictionaries. Each is addressed by a
// follow byte and is meant for strings that are common but not frequent
// enough to deserve a slot in the primary dictionary.
var double = [4]map[byte]string{
	0: {
		0: "image/jpeg", 1: "image/png", 2: "image/webp", 3: "video/mp4",
		4: "audio/ogg", 5: "audio/mp4", 6: "application/pdf",
		7: "application/octet-stream", 8: "text/vcard", 9: "text/plain",
	},
	1: {
		0: "notification", 1: "encrypt", 2: "identity", 3: "prekeys",
		4: "preview", 5: "profile", 6: "groups_v2", 7: "status",
		8: "disappearing_mode", 9: "usync",
	},
	2: {
		0: "urn:xmpp:whatsapp:account", 1: "urn:xmpp:whatsapp:dirty",
		2: "urn:xmpp:whatsapp:mms", 3: "urn:xmpp:whatsapp:push",
		4: "w:m", 5: "w:p", 6: "w:b", 7: "w:g2", 8: "w:stats", 9: "w:ux.c",
	},
	3: {
		0: "encoded_device_list", 1: "device_hash", 2: "key_index_list",
		3: "platform", 4: "signature", 5: "key_signature",
		6: "account_signature", 7: "account_signature_key",
		8: "device_signature", 9: "timestamp",
	},
}

var (
	once           sync.Once
	singleReverse  map[string]byte
	doubleReverse  map[string][2]byte
)

// buildReverse builds the reverse indices. ensureBuilt runs it once, on the
// first lookup through any of the functions below, not at package
// initialization.
func buildReverse() {
	singleReverse = make(map[string]byte, len(single))
	for i, s := range single {
		if s == "" {
			continue
		}
		singleReverse[s] = byte(i)
	}

	doubleReverse = make(map[string][2]byte)
	for dict, table := range double {
		for b, s := range table {
			doubleReverse[s] = [2]byte{byte(dict), b}
		}
	}
}

func ensureBuilt() {
	once.Do(buildReverse)
}

// Single looks up the dictionary string for a primary single-byte index.
func Single(b byte) (string, error) {
	ensureBuilt()
	if b == 0 || int(b) >= len(single) || single[b] == "" {
		return "", fmt.Errorf("token: no single-byte token at index %d", b)
	}
	return single[b], nil
}

// Double looks up the dictionary string for a secondary (dict, byte) pair.
func Double(dict byte, b byte) (string, error) {
	ensureBuilt()
	if int(dict) >= len(double) {
		return "", fmt.Errorf("token: no such dictionary %d", dict)
	}
	s, ok := double[dict][b]
	if !ok {
		return "", fmt.Errorf("token: no double-byte token at dict %d index %d", dict, b)
	}
	return s, nil
}

// IndexOfSingle returns the single-byte index for s, if s is a primary
// dictionary token.
func IndexOfSingle(s string) (byte, bool) {
	ensureBuilt()
	b, ok := singleReverse[s]
	return b, ok
}

// IndexOfDouble returns the (dictionary, byte) pair for s, if s is a
// secondary dictionary token.
func IndexOfDouble(s string) (dict byte, b byte, ok bool) {
	ensureBuilt()
	pair, found := doubleReverse[s]
	if !found {
		return 0, 0, false
	}
	return pair[0], pair[1], true
}
