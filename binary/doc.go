// Copyright 2015 Sam Whited.
// Use of this source code is governed by the BSD 2-clause license that can be
// found in the LICENSE file.

// Package binary implements the binary XML codec WhatsApp's multi-device
// protocol uses on the wire: a compact, token-substituting encoding of a
// small XML-like document model (tagged elements with attributes and
// content), plus the envelope that wraps an encoded document in an optional
// zlib compression layer.
//
// The document model (Node, Content, AttrValue) is shared symmetrically by
// the Encoder and the Decoder. Attribute extraction is done through an
// AttrGetter, which accumulates errors across several lookups instead of
// failing on the first one, mirroring how the protocol's reference
// implementation lets a handler pull every attribute it needs before
// deciding whether the node was well formed.
package binary
