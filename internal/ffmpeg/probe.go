package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

type probeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

type ProbeFormat struct {
	Filename string `json:"filename"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

type ProbeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"` // video, audio, subtitle
	Duration   string `json:"duration,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// MediaInfo is the probe summary the API serves for a media file.
type MediaInfo struct {
	Duration   float64       `json:"duration"` // seconds
	Size       string        `json:"size"`
	BitRate    string        `json:"bit_rate"`
	VideoCodec string        `json:"video_codec,omitempty"`
	AudioCodec string        `json:"audio_codec,omitempty"`
	Width      int           `json:"width,omitempty"`
	Height     int           `json:"height,omitempty"`
	HasAudio   bool          `json:"has_audio"`
	Streams    []ProbeStream `json:"streams,omitempty"`
}

// Probe runs ffprobe on a media file and summarizes what it found.
func Probe(ctx context.Context, filePath string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", filePath, err)
	}
	return parseProbe(output)
}

// parseProbe maps raw ffprobe JSON to a MediaInfo. The duration of the
// first audio stream is preferred over the container duration; streams in
// some containers run shorter than the format header claims.
func parseProbe(output []byte) (*MediaInfo, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &MediaInfo{
		Size:    result.Format.Size,
		BitRate: result.Format.BitRate,
		Streams: result.Streams,
	}

	var audioDuration string
	for _, s := range result.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			if !info.HasAudio {
				info.HasAudio = true
				info.AudioCodec = s.CodecName
				audioDuration = s.Duration
			}
		}
	}

	for _, raw := range []string{audioDuration, result.Format.Duration} {
		if raw == "" {
			continue
		}
		if d, err := strconv.ParseFloat(raw, 64); err == nil && d > 0 {
			info.Duration = d
			break
		}
	}

	return info, nil
}

// DurationSeconds returns the playable duration of a media file.
func DurationSeconds(ctx context.Context, filePath string) (float64, error) {
	info, err := Probe(ctx, filePath)
	if err != nil {
		return 0, err
	}
	if info.Duration <= 0 {
		return 0, fmt.Errorf("no duration in ffprobe output for %s", filePath)
	}
	return info.Duration, nil
}
