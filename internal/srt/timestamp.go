package srt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Timestamp is a duration since media start, decomposed the way SRT timing
// lines spell it. Values produced by this package always satisfy
// 0 <= Minutes,Seconds < 60 and 0 <= Millis < 1000.
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
	Millis  int
}

// ParseTimestamp decodes an "HH:MM:SS,mmm" value. SRT uses a comma before
// the millisecond field; anything else is rejected.
func ParseTimestamp(value string) (Timestamp, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Timestamp{}, fmt.Errorf("empty timestamp")
	}
	fields := strings.Split(trimmed, ",")
	if len(fields) != 2 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(fields[0], ":")
	if len(hms) != 3 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(fields[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || millis > 999 {
		return Timestamp{}, fmt.Errorf("timestamp %q out of range", value)
	}
	return Timestamp{Hours: hours, Minutes: minutes, Seconds: seconds, Millis: millis}, nil
}

// String renders the timestamp back into SRT form. Hour width is a minimum,
// not a maximum: values past 99 hours keep all their digits.
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", t.Hours, t.Minutes, t.Seconds, t.Millis)
}

// TotalSeconds returns the timestamp as fractional seconds.
func (t Timestamp) TotalSeconds() float64 {
	return float64(t.Hours*3600+t.Minutes*60+t.Seconds) + float64(t.Millis)/1000
}

// Shift moves the timestamp by offsetSeconds, clamping at zero. Sub-millisecond
// remainders are truncated, so repeated shifts compose only to millisecond
// precision.
func (t Timestamp) Shift(offsetSeconds float64) Timestamp {
	total := t.TotalSeconds() + offsetSeconds
	if total < 0 {
		total = 0
	}
	// Truncate to whole milliseconds. The tiny epsilon absorbs float64
	// representation noise (0.29s parses as 289.999...ms) without letting a
	// genuine half-millisecond remainder round up.
	totalMillis := int64(math.Floor(total*1000 + 1e-6))
	return Timestamp{
		Hours:   int(totalMillis / 3_600_000),
		Minutes: int(totalMillis % 3_600_000 / 60_000),
		Seconds: int(totalMillis % 60_000 / 1000),
		Millis:  int(totalMillis % 1000),
	}
}
