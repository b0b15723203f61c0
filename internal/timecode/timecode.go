// Package timecode converts millisecond offsets to and from the timecode
// syntax of the supported subtitle container formats. All conversions
// truncate sub-unit remainders so an encoded end time never exceeds the
// source end time.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Format identifies a subtitle container timecode syntax.
type Format string

const (
	FormatSRT  Format = "srt"  // HH:MM:SS,mmm
	FormatVTT  Format = "vtt"  // HH:MM:SS.mmm
	FormatASS  Format = "ass"  // H:MM:SS.cc (centiseconds, unpadded hour)
	FormatTTML Format = "ttml" // S.SSSs (total seconds with trailing "s")
)

// Formats lists every supported format in canonical order.
func Formats() []Format {
	return []Format{FormatSRT, FormatVTT, FormatASS, FormatTTML}
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSRT:
		return FormatSRT, true
	case FormatVTT:
		return FormatVTT, true
	case FormatASS:
		return FormatASS, true
	case FormatTTML:
		return FormatTTML, true
	default:
		return "", false
	}
}

// Encode renders a millisecond offset in the given format's timecode syntax.
// Negative input is a contract violation; callers must never pass ms < 0.
func Encode(ms int64, format Format) string {
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000
	millis := ms % 1000

	switch format {
	case FormatVTT:
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	case FormatASS:
		return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, millis/10)
	case FormatTTML:
		return fmt.Sprintf("%d.%03ds", ms/1000, millis)
	default: // SRT
		return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
	}
}

// Decode parses a timecode in the given format back to milliseconds. The
// result is truncated to the format's resolution (ASS loses sub-centisecond
// precision). Returns false for malformed input.
func Decode(s string, format Format) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch format {
	case FormatSRT:
		return decodeClock(s, ",", 3)
	case FormatVTT:
		return decodeClock(s, ".", 3)
	case FormatASS:
		return decodeClock(s, ".", 2)
	case FormatTTML:
		return decodeSeconds(s)
	default:
		return 0, false
	}
}

func decodeClock(s, sep string, fracDigits int) (int64, bool) {
	timeParts := strings.Split(s, sep)
	if len(timeParts) != 2 {
		return 0, false
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, false
	}
	hours, errH := strconv.ParseInt(hms[0], 10, 64)
	minutes, errM := strconv.ParseInt(hms[1], 10, 64)
	seconds, errS := strconv.ParseInt(hms[2], 10, 64)
	frac, errF := strconv.ParseInt(timeParts[1], 10, 64)
	if errH != nil || errM != nil || errS != nil || errF != nil {
		return 0, false
	}
	if hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || frac < 0 {
		return 0, false
	}
	if len(timeParts[1]) != fracDigits {
		return 0, false
	}
	ms := frac
	if fracDigits == 2 {
		ms = frac * 10
	}
	return hours*3_600_000 + minutes*60_000 + seconds*1000 + ms, true
}

func decodeSeconds(s string) (int64, bool) {
	if !strings.HasSuffix(s, "s") {
		return 0, false
	}
	s = strings.TrimSuffix(s, "s")
	whole, frac, found := strings.Cut(s, ".")
	if !found || len(frac) != 3 {
		return 0, false
	}
	seconds, errW := strconv.ParseInt(whole, 10, 64)
	millis, errF := strconv.ParseInt(frac, 10, 64)
	if errW != nil || errF != nil || seconds < 0 || millis < 0 {
		return 0, false
	}
	return seconds*1000 + millis, true
}
