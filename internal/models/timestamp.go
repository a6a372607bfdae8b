package models

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// Timestamp is the single internal representation for next-review times.
// It is either an absolute time in epoch milliseconds or unset. Unset means
// "due immediately" and sorts before every set value.
//
// Stored deck payloads are heterogeneous: older clients wrote epoch-millisecond
// numbers, document-store exports wrote {seconds, nanoseconds} pairs, and some
// wrote RFC 3339 strings. All of them normalize here, once, at ingestion.
// Anything unrecognized decodes as unset rather than failing the load.
type Timestamp struct {
	millis int64
	set    bool
}

// TimestampFromMillis returns a set Timestamp at the given epoch milliseconds.
func TimestampFromMillis(ms int64) Timestamp {
	return Timestamp{millis: ms, set: true}
}

// TimestampFromTime returns a set Timestamp for t.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{millis: t.UnixMilli(), set: true}
}

// IsSet reports whether the timestamp carries a value.
func (t Timestamp) IsSet() bool { return t.set }

// Millis returns the epoch milliseconds. Only meaningful when IsSet.
func (t Timestamp) Millis() int64 { return t.millis }

// Time converts to time.Time. Only meaningful when IsSet.
func (t Timestamp) Time() time.Time { return time.UnixMilli(t.millis) }

// SortKey returns the value used for due ordering: unset sorts first.
func (t Timestamp) SortKey() int64 {
	if !t.set {
		return math.MinInt64
	}
	return t.millis
}

// MarshalJSON writes epoch milliseconds, or null when unset. The overlay and
// canonical serialization contracts both require plain integers so stored
// payloads stay storage-representation-agnostic.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.millis)
}

type secondsNanos struct {
	Seconds     *int64  `json:"seconds"`
	Nanoseconds float64 `json:"nanoseconds"`
}

// UnmarshalJSON accepts null, an epoch-millisecond number, a
// {seconds, nanoseconds} pair, or an RFC 3339 string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*t = TimestampFromMillis(int64(math.Round(num)))
		return nil
	}

	var pair secondsNanos
	if err := json.Unmarshal(data, &pair); err == nil && pair.Seconds != nil {
		ms := *pair.Seconds*1000 + int64(math.Round(pair.Nanoseconds/1e6))
		*t = TimestampFromMillis(ms)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			*t = TimestampFromTime(parsed)
		}
		return nil
	}

	// Unrecognized shape: treat as unset (due immediately), never fatal.
	return nil
}
