// Package timecode formats and parses the subtitle timestamp notations used
// by the export renderers.
package timecode

import (
	"fmt"
	"math"
	"strings"
)

// SRT formats seconds as HH:MM:SS,mmm with a comma before the milliseconds.
// Milliseconds are rounded half up, so 1.0005 renders as 00:00:01,001.
func SRT(seconds float64) string {
	h, m, s, ms := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// VTT formats seconds as HH:MM:SS.mmm with a dot before the milliseconds.
func VTT(seconds float64) string {
	h, m, s, ms := split(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

// Clock formats seconds as MM:SS for document headings. Fractional seconds
// are truncated and minutes are not wrapped at an hour, so 3725.9 renders
// as 62:05.
func Clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Parse reads an HH:MM:SS,mmm or HH:MM:SS.mmm timestamp back into seconds.
func Parse(ts string) (float64, error) {
	ts = strings.Replace(strings.TrimSpace(ts), ",", ".", 1)
	var h, m, s, ms int
	if _, err := fmt.Sscanf(ts, "%d:%d:%d.%3d", &h, &m, &s, &ms); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	return float64(h*3600+m*60+s) + float64(ms)/1000.0, nil
}

func split(seconds float64) (h, m, s, ms int) {
	if seconds < 0 {
		seconds = 0
	}
	totalMs := int(math.Round(seconds * 1000))
	h = totalMs / 3600000
	totalMs %= 3600000
	m = totalMs / 60000
	totalMs %= 60000
	s = totalMs / 1000
	ms = totalMs % 1000
	return h, m, s, ms
}
