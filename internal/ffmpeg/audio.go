package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Available reports whether the ffmpeg and ffprobe binaries are on PATH.
func Available() bool {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}

// ExtractWAV extracts the audio track as WAV 16kHz mono, the input format
// the recognition engines expect. The caller removes the returned temp
// file.
func ExtractWAV(ctx context.Context, mediaPath string) (string, error) {
	tmpFile, err := os.CreateTemp("", "scribe-audio-*.wav")
	if err != nil {
		return "", err
	}
	tmpFile.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-i", mediaPath,
		"-vn", // no video
		"-acodec", "pcm_s16le",
		"-ar", "16000", // 16kHz
		"-ac", "1", // mono
		"-y", // overwrite
		tmpFile.Name(),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("ffmpeg: %s: %w", string(output), err)
	}

	return tmpFile.Name(), nil
}

// SliceWAV cuts a window out of a WAV file into its own temp file with
// valid RIFF headers. start and duration are seconds; the caller removes
// the returned file.
func SliceWAV(ctx context.Context, wavPath string, start, duration float64) (string, error) {
	tmpFile, err := os.CreateTemp("", "scribe-slice-*.wav")
	if err != nil {
		return "", err
	}
	tmpFile.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", duration),
		"-i", wavPath,
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		tmpFile.Name(),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("ffmpeg slice at %.3fs: %s: %w", start, string(output), err)
	}

	return tmpFile.Name(), nil
}
