// Package download fetches remote media through yt-dlp for the URL intake
// endpoint.
package download

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"path/filepath"
	"strings"
)

// Result describes a completed download.
type Result struct {
	FilePath string `json:"file_path"` // absolute path of the saved file
	Title    string `json:"title"`
}

// Downloader saves remote media into a target directory using yt-dlp.
type Downloader struct {
	dir string
}

func NewDownloader(dir string) *Downloader {
	return &Downloader{dir: dir}
}

// Available reports whether the yt-dlp binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("yt-dlp")
	return err == nil
}

// Download fetches the best audio stream for a URL. Files are named by
// media id with restricted characters so they stay safe as path segments.
func (d *Downloader) Download(ctx context.Context, url string) (*Result, error) {
	outTmpl := filepath.Join(d.dir, "%(id)s.%(ext)s")

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"-f", "bestaudio/best",
		"--no-playlist",
		"--retries", "10",
		"--restrict-filenames",
		"-o", outTmpl,
		"--no-simulate",
		"--print", "after_move:filepath",
		"--print", "after_move:title",
		"--quiet",
		url,
	)

	log.Printf("[download] fetching %s", url)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("yt-dlp: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	result, err := parsePrintOutput(string(output))
	if err != nil {
		return nil, err
	}

	log.Printf("[download] saved %s (%s)", result.FilePath, result.Title)
	return result, nil
}

// parsePrintOutput reads the two --print lines yt-dlp emits per download:
// the final file path, then the title.
func parsePrintOutput(output string) (*Result, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("yt-dlp printed no file path")
	}
	result := &Result{FilePath: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		result.Title = strings.TrimSpace(lines[1])
	}
	return result, nil
}
