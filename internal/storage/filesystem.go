// Package storage lists and resolves files under the media root.
package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileEntry is one media file visible to the API, with its path relative
// to the media root.
type FileEntry struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".flac": true,
	".aac": true, ".ogg": true, ".opus": true, ".wma": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".ts": true, ".mpg": true, ".mpeg": true,
}

func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsMediaFile reports whether the name looks like something ffmpeg can
// pull an audio track out of.
func IsMediaFile(name string) bool {
	return IsAudioFile(name) || IsVideoFile(name)
}

// SafeJoin resolves rel under base and refuses path traversal.
func SafeJoin(base, rel string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(filepath.Join(base, rel))
	if err != nil {
		return "", err
	}
	if absFull != absBase && !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", os.ErrPermission
	}
	return absFull, nil
}

// ListMedia walks the media root and returns recognized media files,
// newest first. query filters by case-insensitive name substring and
// maxResults <= 0 means no cap.
func ListMedia(basePath, query string, maxResults int) ([]*FileEntry, error) {
	query = strings.ToLower(query)
	var results []*FileEntry

	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() && path != basePath {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !IsMediaFile(info.Name()) {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(info.Name()), query) {
			return nil
		}
		rel, _ := filepath.Rel(basePath, path)
		results = append(results, &FileEntry{
			Name:    info.Name(),
			Path:    rel,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModTime.After(results[j].ModTime)
	})
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}
