package binary

import (
	"fmt"
	"strconv"
	"time"

	"github.com/a9u/gowa/jid"
	"github.com/a9u/gowa/waerror"
)

// AttrGetter pulls typed values out of a Node's attributes, accumulating
// errors across every lookup instead of stopping at the first failure. A
// handler can call as many getters as it needs and then check Ok/Error
// once, the same way the protocol's reference implementation's attribute
// utility does.
type AttrGetter struct {
	attrs Attrs
	errs  []error
}

func (g *AttrGetter) fail(err error) {
	g.errs = append(g.errs, err)
}

func (g *AttrGetter) getJID(key string, required bool) (jid.JID, bool) {
	v, ok := g.attrs[key]
	if !ok {
		if required {
			g.fail(waerror.New(waerror.KindAttributeMissing, fmt.Sprintf("didn't find required JID attribute %q", key)))
		}
		return jid.JID{}, false
	}
	if !v.IsJID() {
		if required {
			g.fail(waerror.New(waerror.KindAttributeMismatch, fmt.Sprintf("expected attribute %q to be a JID, but was a string", key)))
		}
		return jid.JID{}, false
	}
	return v.JID(), true
}

// OptionalJID returns the JID under key. If the attribute is missing or is
// not JID-typed, it returns false and records no error.
func (g *AttrGetter) OptionalJID(key string) (jid.JID, bool) {
	return g.getJID(key, false)
}

// OptionalJIDOrEmpty is like OptionalJID, but returns jid.Empty instead of
// a boolean when the attribute is absent or the wrong type.
func (g *AttrGetter) OptionalJIDOrEmpty(key string) jid.JID {
	j, ok := g.getJID(key, false)
	if !ok {
		return jid.Empty
	}
	return j
}

// JID returns the JID under key, recording an error if it is missing or
// not JID-typed.
func (g *AttrGetter) JID(key string) jid.JID {
	j, _ := g.getJID(key, true)
	return j
}

func (g *AttrGetter) getString(key string, required bool) (string, bool) {
	v, ok := g.attrs[key]
	if !ok {
		if required {
			g.fail(waerror.New(waerror.KindAttributeMissing, fmt.Sprintf("didn't find required string attribute %q", key)))
		}
		return "", false
	}
	if v.IsJID() {
		if required {
			g.fail(waerror.New(waerror.KindAttributeMismatch, fmt.Sprintf("expected attribute %q to be a string, but was a JID", key)))
		}
		return "", false
	}
	return v.StringValue(), true
}

// OptionalString returns the string under key, or false if it is missing
// or JID-typed.
func (g *AttrGetter) OptionalString(key string) (string, bool) {
	return g.getString(key, false)
}

// String returns the string under key, recording an error if it is missing
// or JID-typed.
func (g *AttrGetter) String(key string) string {
	s, _ := g.getString(key, true)
	return s
}

func (g *AttrGetter) getInt64(key string, required bool) (int64, bool) {
	s, ok := g.getString(key, required)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if required {
			g.fail(waerror.Wrap(waerror.KindAttributeParseFailure, err, fmt.Sprintf("failed to parse int64 in attribute %q", key)))
		}
		return 0, false
	}
	return v, true
}

// OptionalInt64 returns the attribute parsed as a signed 64-bit integer.
func (g *AttrGetter) OptionalInt64(key string) (int64, bool) {
	return g.getInt64(key, false)
}

// Int64 returns the attribute parsed as a signed 64-bit integer, recording
// an error if it is missing or malformed.
func (g *AttrGetter) Int64(key string) int64 {
	v, _ := g.getInt64(key, true)
	return v
}

func (g *AttrGetter) getUint64(key string, required bool) (uint64, bool) {
	s, ok := g.getString(key, required)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if required {
			g.fail(waerror.Wrap(waerror.KindAttributeParseFailure, err, fmt.Sprintf("failed to parse uint64 in attribute %q", key)))
		}
		return 0, false
	}
	return v, true
}

// OptionalUint64 returns the attribute parsed as an unsigned 64-bit
// integer.
func (g *AttrGetter) OptionalUint64(key string) (uint64, bool) {
	return g.getUint64(key, false)
}

// Uint64 returns the attribute parsed as an unsigned 64-bit integer,
// recording an error if it is missing or malformed.
func (g *AttrGetter) Uint64(key string) uint64 {
	v, _ := g.getUint64(key, true)
	return v
}

func (g *AttrGetter) getBool(key string, required bool) (bool, bool) {
	s, ok := g.getString(key, required)
	if !ok {
		return false, false
	}
	switch s {
	case "1", "t", "T", "true", "TRUE", "True":
		return true, true
	case "0", "f", "F", "false", "FALSE", "False":
		return false, true
	default:
		if required {
			g.fail(waerror.New(waerror.KindAttributeParseFailure, fmt.Sprintf("failed to parse bool in attribute %q", key)))
		}
		return false, false
	}
}

// OptionalBool returns the attribute parsed as a boolean.
func (g *AttrGetter) OptionalBool(key string) (bool, bool) {
	return g.getBool(key, false)
}

// Bool returns the attribute parsed as a boolean, recording an error if it
// is missing or not one of the accepted spellings.
func (g *AttrGetter) Bool(key string) bool {
	v, _ := g.getBool(key, true)
	return v
}

func (g *AttrGetter) getUnixTime(key string, required bool) (time.Time, bool) {
	ts, ok := g.getInt64(key, required)
	if !ok {
		return time.Time{}, false
	}
	if ts == 0 {
		return time.Unix(0, 0).UTC(), true
	}
	return time.Unix(ts, 0).UTC(), true
}

// OptionalUnixTime returns the attribute parsed as Unix seconds.
func (g *AttrGetter) OptionalUnixTime(key string) (time.Time, bool) {
	return g.getUnixTime(key, false)
}

// UnixTime returns the attribute parsed as Unix seconds, recording an
// error if it is missing or malformed. A value of zero is the Unix epoch.
func (g *AttrGetter) UnixTime(key string) time.Time {
	t, _ := g.getUnixTime(key, true)
	return t
}

// OptionalInt32 returns the attribute parsed as a signed 32-bit integer
// (via a 64-bit parse, truncated).
func (g *AttrGetter) OptionalInt32(key string) (int32, bool) {
	v, ok := g.getInt64(key, false)
	if !ok {
		return 0, false
	}
	return int32(v), true
}

// Int32 returns the attribute parsed as a signed 32-bit integer, recording
// an error if it is missing or malformed.
func (g *AttrGetter) Int32(key string) int32 {
	v, _ := g.getInt64(key, true)
	return int32(v)
}

// Ok reports whether every getter called so far has succeeded.
func (g *AttrGetter) Ok() bool {
	return len(g.errs) == 0
}

// Error returns every accumulated failure as a single error, or nil if
// none occurred.
func (g *AttrGetter) Error() error {
	if g.Ok() {
		return nil
	}
	return &waerror.AggregateError{Errors: append([]error(nil), g.errs...)}
}
