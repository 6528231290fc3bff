package render

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// InvalidDate is written into elements whose text is not a usable epoch
// timestamp.
const InvalidDate = "Invalid Date"

// maxEpochMillis bounds representable instants to ±100,000,000 days around
// the epoch, the same range browsers accept.
const maxEpochMillis = 8.64e15

var decimalLiteral = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// ParseEpoch interprets text as seconds since the Unix epoch. Surrounding
// whitespace is ignored and blank text means the epoch itself. Only decimal
// literals are accepted; fractional seconds are truncated to milliseconds.
// Unlike JavaScript's Number, hex, octal and binary prefixes ("0x10") are
// rejected: timestamps are always base 10.
// ok is false for anything that does not denote a representable instant.
func ParseEpoch(text string) (t time.Time, ok bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.UnixMilli(0), true
	}
	if !decimalLiteral.MatchString(s) {
		return time.Time{}, false
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return time.Time{}, false
	}
	ms := math.Trunc(secs * 1000)
	if math.IsInf(ms, 0) || math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}
