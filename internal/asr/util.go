package asr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode"

	"github.com/scribeflow/backend/internal/transcript"
)

// splitSentences splits text after sentence-final punctuation followed by
// whitespace or end of input. Runs like "?!" or "..." stay attached to the
// sentence they close.
func splitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		j := i
		for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
			j++
		}
		if j+1 == len(runes) || unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
		}
		i = j
	}
	if start < len(runes) {
		if s := strings.TrimSpace(string(runes[start:])); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// sentenceSegments spreads sentences evenly across the slice duration, for
// engines that return plain text without timings. The last segment is pinned
// to the slice end so rounding never leaves a tail gap.
func sentenceSegments(text string, duration float64) []transcript.Segment {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}
	if duration <= 0 {
		duration = float64(len(sentences))
	}
	per := duration / float64(len(sentences))

	segments := make([]transcript.Segment, len(sentences))
	for i, sentence := range sentences {
		segments[i] = transcript.Segment{
			Start: float64(i) * per,
			End:   float64(i+1) * per,
			Text:  sentence,
		}
	}
	segments[len(segments)-1].End = duration
	return segments
}

// transportError maps a failed HTTP round trip onto the recognition
// sentinels so callers can tell a timeout from a dead engine.
func transportError(err error) error {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return fmt.Errorf("%w: %v", transcript.ErrRecognitionTimeout, err)
	}
	return fmt.Errorf("%w: %v", transcript.ErrRecognitionUnavailable, err)
}

// statusError classifies a non-200 engine response. Server-side failures
// and throttling surface as the unavailable sentinel; client-side errors
// like a bad key stay plain because retrying cannot fix them.
func statusError(engine string, status int, body []byte) error {
	msg := fmt.Sprintf("%s error (status %d): %s", engine, status, strings.TrimSpace(string(body)))
	if status >= 500 || status == 429 {
		return fmt.Errorf("%w: %s", transcript.ErrRecognitionUnavailable, msg)
	}
	return errors.New(msg)
}
