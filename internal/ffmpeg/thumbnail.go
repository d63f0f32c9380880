package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Thumbnail extracts a single frame from a video file into outputDir,
// seeking to 10% of the duration for a representative frame. The result
// is cached, repeat calls return the existing file.
func Thumbnail(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	outputPath := filepath.Join(outputDir, "thumb.jpg")

	if _, err := os.Stat(outputPath); err == nil {
		return outputPath, nil
	}

	seekTime := "5" // fallback: 5 seconds
	if dur, err := DurationSeconds(ctx, inputPath); err == nil {
		seekTo := dur * 0.10
		// Clamp: at least 1s, at most 5 minutes
		if seekTo < 1 {
			seekTo = 1
		}
		if seekTo > 300 {
			seekTo = 300
		}
		seekTime = fmt.Sprintf("%.2f", seekTo)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-ss", seekTime,
		"-i", inputPath,
		"-vframes", "1",
		"-vf", "scale=320:-1",
		"-y",
		outputPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg thumbnail: %s: %w", output, err)
	}
	return outputPath, nil
}
