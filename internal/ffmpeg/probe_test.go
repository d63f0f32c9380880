package ffmpeg

import (
	"math"
	"testing"
)

func TestParseProbePrefersAudioStreamDuration(t *testing.T) {
	raw := []byte(`{
		"format": {"duration": "126.000000", "size": "2048000", "bit_rate": "128000"},
		"streams": [
			{"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080},
			{"index": 1, "codec_name": "aac", "codec_type": "audio", "duration": "125.000000", "channels": 2}
		]
	}`)

	info, err := parseProbe(raw)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if math.Abs(info.Duration-125) > 1e-9 {
		t.Errorf("Duration = %v, want the audio stream's 125", info.Duration)
	}
	if !info.HasAudio || info.AudioCodec != "aac" {
		t.Errorf("audio info = %v / %q", info.HasAudio, info.AudioCodec)
	}
	if info.VideoCodec != "h264" || info.Width != 1920 {
		t.Errorf("video info = %q %dx%d", info.VideoCodec, info.Width, info.Height)
	}
}

func TestParseProbeFallsBackToFormatDuration(t *testing.T) {
	raw := []byte(`{
		"format": {"duration": "63.250000"},
		"streams": [{"index": 0, "codec_name": "mp3", "codec_type": "audio"}]
	}`)

	info, err := parseProbe(raw)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if math.Abs(info.Duration-63.25) > 1e-9 {
		t.Errorf("Duration = %v, want 63.25", info.Duration)
	}
}

func TestParseProbeNoDuration(t *testing.T) {
	info, err := parseProbe([]byte(`{"format": {}, "streams": []}`))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.Duration != 0 {
		t.Errorf("Duration = %v, want 0 for missing values", info.Duration)
	}
}

func TestParseProbeBadJSON(t *testing.T) {
	if _, err := parseProbe([]byte("not json")); err == nil {
		t.Error("expected parse error")
	}
}
