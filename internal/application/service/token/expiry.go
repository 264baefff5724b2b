package token

import (
	"encoding/json"
	"strconv"
	"time"
)

// Providers hand back expiry in three shapes: an absolute epoch number,
// an absolute ISO-8601 string, or a relative lifetime in seconds.
// expiry is the normalized, explicitly-tagged result of reading one of
// those fields; an unresolvable value is expiryNone, never an error.
type expiryKind int

const (
	expiryNone expiryKind = iota
	expiryAbsolute
)

type expiry struct {
	kind expiryKind
	at   time.Time // set when kind == expiryAbsolute
}

// isoLayouts covers the timestamp strings seen from Google and Microsoft
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// resolveExpiry normalizes a payload into an absolute expiry.
// Precedence: expires_at wins over expires_in; an expires_at that fails
// to parse yields expiryNone rather than falling through.
func resolveExpiry(payload map[string]interface{}, now time.Time) expiry {
	if v, ok := payload["expires_at"]; ok && !emptyValue(v) {
		if at, ok := parseAbsolute(v); ok {
			return expiry{kind: expiryAbsolute, at: at}
		}
		return expiry{kind: expiryNone}
	}
	if v, ok := payload["expires_in"]; ok && !emptyValue(v) {
		if seconds, ok := parseSeconds(v); ok {
			return expiry{kind: expiryAbsolute, at: now.Add(time.Duration(seconds) * time.Second)}
		}
	}
	return expiry{kind: expiryNone}
}

// parseAbsolute reads an epoch number or an ISO-8601 string
func parseAbsolute(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case float64:
		return epochToTime(t), true
	case int:
		return epochToTime(float64(t)), true
	case int64:
		return epochToTime(float64(t)), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return epochToTime(f), true
		}
		return time.Time{}, false
	case string:
		return parseISO(t)
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

func parseISO(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if at, err := time.Parse(layout, s); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

// parseSeconds reads a relative lifetime given as a number or a numeric
// string
func parseSeconds(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		return 0, false
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
		return 0, false
	}
	return 0, false
}

func epochToTime(epoch float64) time.Time {
	seconds := int64(epoch)
	nanos := int64((epoch - float64(seconds)) * float64(time.Second))
	return time.Unix(seconds, nanos).UTC()
}

// emptyValue mirrors provider payloads where an absent field may arrive
// as null or an empty string
func emptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
