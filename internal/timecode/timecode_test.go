package timecode

import (
	"testing"
)

func TestEncodeKnownValues(t *testing.T) {
	tests := []struct {
		ms       int64
		format   Format
		expected string
	}{
		{0, FormatSRT, "00:00:00,000"},
		{1500, FormatSRT, "00:00:01,500"},
		{3_599_999, FormatSRT, "00:59:59,999"},
		{3_600_000, FormatSRT, "01:00:00,000"},
		{1500, FormatVTT, "00:00:01.500"},
		{45_123, FormatVTT, "00:00:45.123"},
		{1500, FormatASS, "0:00:01.50"},
		{36_000_000, FormatASS, "10:00:00.00"},
		{1509, FormatASS, "0:00:01.50"}, // sub-centisecond truncated, not rounded
		{1999, FormatASS, "0:00:01.99"},
		{1500, FormatTTML, "1.500s"},
		{0, FormatTTML, "0.000s"},
		{61_042, FormatTTML, "61.042s"},
	}
	for _, tc := range tests {
		if got := Encode(tc.ms, tc.format); got != tc.expected {
			t.Errorf("Encode(%d, %s) = %q, want %q", tc.ms, tc.format, got, tc.expected)
		}
	}
}

func TestDecodeKnownValues(t *testing.T) {
	tests := []struct {
		input    string
		format   Format
		expected int64
	}{
		{"00:00:01,500", FormatSRT, 1500},
		{"01:02:03,004", FormatSRT, 3_723_004},
		{"00:00:01.500", FormatVTT, 1500},
		{"0:00:01.50", FormatASS, 1500},
		{"10:00:00.00", FormatASS, 36_000_000},
		{"1.500s", FormatTTML, 1500},
		{"61.042s", FormatTTML, 61_042},
	}
	for _, tc := range tests {
		got, ok := Decode(tc.input, tc.format)
		if !ok {
			t.Fatalf("Decode(%q, %s) failed", tc.input, tc.format)
		}
		if got != tc.expected {
			t.Errorf("Decode(%q, %s) = %d, want %d", tc.input, tc.format, got, tc.expected)
		}
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		input  string
		format Format
	}{
		{"", FormatSRT},
		{"00:00:01.500", FormatSRT},  // wrong separator
		{"00:00:01,50", FormatSRT},   // wrong fraction width
		{"00:61:01,500", FormatSRT},  // minutes out of range
		{"0:00:01.500", FormatASS},   // milliseconds where centiseconds expected
		{"1.500", FormatTTML},        // missing trailing s
		{"1.50s", FormatTTML},        // wrong fraction width
		{"abc", FormatVTT},
	}
	for _, tc := range tests {
		if _, ok := Decode(tc.input, tc.format); ok {
			t.Errorf("Decode(%q, %s) unexpectedly succeeded", tc.input, tc.format)
		}
	}
}

// Round-tripping must land in the same bucket the encoder used: exact for
// millisecond formats, truncated to the centisecond for ASS.
func TestRoundTripBuckets(t *testing.T) {
	samples := []int64{0, 1, 9, 10, 999, 1000, 1509, 59_999, 60_000, 3_599_999, 3_600_000, 359_999_999}
	for _, ms := range samples {
		for _, format := range Formats() {
			decoded, ok := Decode(Encode(ms, format), format)
			if !ok {
				t.Fatalf("round trip decode failed for %d in %s", ms, format)
			}
			want := ms
			if format == FormatASS {
				want = (ms / 10) * 10
			}
			if decoded != want {
				t.Errorf("round trip %d in %s = %d, want %d", ms, format, decoded, want)
			}
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, ok := ParseFormat(" SRT "); !ok || f != FormatSRT {
		t.Fatalf("expected srt, got %q ok=%v", f, ok)
	}
	if _, ok := ParseFormat("sub"); ok {
		t.Fatal("expected unknown format to be rejected")
	}
}
