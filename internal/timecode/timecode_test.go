package timecode

import (
	"math"
	"testing"
)

func TestSRT(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{30, "00:00:30,000"},
		{31, "00:00:31,000"},
		{3661.5, "01:01:01,500"},
		{1.9996, "00:00:02,000"},
		{59.9996, "00:01:00,000"},
		// 0.0625s is exactly 62.5ms; half-up rounding must give 63.
		{0.0625, "00:00:00,063"},
		{-1, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := SRT(tt.seconds); got != tt.want {
			t.Errorf("SRT(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestVTT(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{125, "00:02:05.000"},
		{0.0625, "00:00:00.063"},
		{7322.25, "02:02:02.250"},
	}
	for _, tt := range tests {
		if got := VTT(tt.seconds); got != tt.want {
			t.Errorf("VTT(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{65, "01:05"},
		{59.999, "00:59"},
		{3725.9, "62:05"},
	}
	for _, tt := range tests {
		if got := Clock(tt.seconds); got != tt.want {
			t.Errorf("Clock(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		ts   string
		want float64
	}{
		{"00:00:30,000", 30},
		{"01:01:01.500", 3661.5},
		{"00:02:05.000", 125},
	}
	for _, tt := range tests {
		got, err := Parse(tt.ts)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.ts, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Parse(%q) = %v, want %v", tt.ts, got, tt.want)
		}
	}

	if _, err := Parse("not a timestamp"); err == nil {
		t.Error("Parse accepted garbage input")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 0.25, 55.3, 110.0, 125.0, 3600.125} {
		got, err := Parse(SRT(seconds))
		if err != nil {
			t.Fatalf("Parse(SRT(%v)): %v", seconds, err)
		}
		if math.Abs(got-seconds) > 0.001 {
			t.Errorf("round trip of %v via SRT gave %v", seconds, got)
		}
		got, err = Parse(VTT(seconds))
		if err != nil {
			t.Fatalf("Parse(VTT(%v)): %v", seconds, err)
		}
		if math.Abs(got-seconds) > 0.001 {
			t.Errorf("round trip of %v via VTT gave %v", seconds, got)
		}
	}
}
