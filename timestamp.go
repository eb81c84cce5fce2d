package kdbxcore

import (
	"encoding/base64"
	"encoding/binary"
	"time"
)

// iso8601Layout is the legacy (pre-KDBX4) timestamp encoding.
const iso8601Layout = "2006-01-02T15:04:05Z"

// epochYearOne is the fixed reference point ("0001-01-01T00:00:00") that
// the Base64-epoch encoding's delta is measured from.
var epochYearOne = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// parseTimestamp decodes a timestamp in either accepted dialect: ISO-8601
// is tried first, and a Base64-encoded little-endian seconds-since-
// epochYearOne value is tried on ISO-8601 failure.
func parseTimestamp(text string) (time.Time, error) {
	if t, err := time.Parse(iso8601Layout, text); err == nil {
		return t.UTC(), nil
	}

	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return time.Time{}, NewDatabaseIntegrityError("timestamp", err)
	}
	if len(raw) != 8 {
		return time.Time{}, NewDatabaseIntegrityError("timestamp", ErrMissingText)
	}

	seconds := int64(binary.LittleEndian.Uint64(raw))
	return time.Unix(epochYearOne.Unix()+seconds, 0).UTC(), nil
}

// encodeTimestamp always emits the Base64-epoch form: the little-endian
// 8-byte signed seconds elapsed since epochYearOne, Base64-encoded.
func encodeTimestamp(t time.Time) string {
	// Computed directly in seconds rather than via time.Sub/Duration:
	// a Duration is int64 nanoseconds and saturates long before a
	// year-1-relative delta of this size would overflow it.
	delta := t.UTC().Unix() - epochYearOne.Unix()
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], uint64(delta))
	return base64.StdEncoding.EncodeToString(raw[:])
}
