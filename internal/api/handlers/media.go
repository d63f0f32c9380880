package handlers

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scribeflow/backend/internal/ffmpeg"
	"github.com/scribeflow/backend/internal/storage"
)

type MediaHandler struct {
	mediaPath string
	thumbPath string
	maxUpload int64
}

func NewMediaHandler(mediaPath, thumbPath string, maxUpload int64) *MediaHandler {
	return &MediaHandler{mediaPath: mediaPath, thumbPath: thumbPath, maxUpload: maxUpload}
}

// List returns media files under the media root, newest first.
// Supports ?q= name filtering and ?limit=.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	entries, err := storage.ListMedia(h.mediaPath, r.URL.Query().Get("q"), limit)
	if err != nil {
		jsonError(w, "failed to list media: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*storage.FileEntry{}
	}
	jsonResponse(w, entries, http.StatusOK)
}

// Upload accepts a multipart file and stores it under the media root.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	if name == "" || !storage.IsMediaFile(name) {
		jsonError(w, "unsupported file type: "+header.Filename, http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.mediaPath, 0755); err != nil {
		jsonError(w, "failed to prepare media dir", http.StatusInternalServerError)
		return
	}

	dest := filepath.Join(h.mediaPath, name)
	// Keep existing files: talk.mp3 becomes talk-2.mp3 and so on.
	for i := 2; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			break
		}
		ext := filepath.Ext(name)
		base := strings.TrimSuffix(name, ext)
		dest = filepath.Join(h.mediaPath, fmt.Sprintf("%s-%d%s", base, i, ext))
	}

	out, err := os.Create(dest)
	if err != nil {
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	size, err := io.Copy(out, file)
	if err != nil {
		os.Remove(dest)
		jsonError(w, "failed to store upload: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rel, _ := filepath.Rel(h.mediaPath, dest)
	jsonResponse(w, map[string]interface{}{
		"path": rel,
		"size": size,
	}, http.StatusCreated)
}

// Info returns the ffprobe summary for a media file.
func (h *MediaHandler) Info(w http.ResponseWriter, r *http.Request) {
	full, err := storage.SafeJoin(h.mediaPath, extractPath(r))
	if err != nil {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}
	if info, err := os.Stat(full); err != nil || info.IsDir() {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}

	info, err := ffmpeg.Probe(r.Context(), full)
	if err != nil {
		jsonError(w, "probe failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResponse(w, info, http.StatusOK)
}

// Serve streams a media file back, mostly for playback in the review UI.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	full, err := storage.SafeJoin(h.mediaPath, extractPath(r))
	if err != nil {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, full)
}

// Thumbnail serves a preview frame for a video file.
func (h *MediaHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	relPath := extractPath(r)
	full, err := storage.SafeJoin(h.mediaPath, relPath)
	if err != nil {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}
	if !storage.IsVideoFile(full) {
		jsonError(w, "thumbnails are only made for video files", http.StatusBadRequest)
		return
	}
	if _, err := os.Stat(full); err != nil {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}

	hash := sha256.Sum256([]byte(relPath))
	outDir := filepath.Join(h.thumbPath, fmt.Sprintf("%x", hash[:8]))
	thumb, err := ffmpeg.Thumbnail(r.Context(), full, outDir)
	if err != nil {
		jsonError(w, "thumbnail failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, thumb)
}

// Delete removes a media file.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	full, err := storage.SafeJoin(h.mediaPath, extractPath(r))
	if err != nil {
		jsonError(w, "invalid path", http.StatusBadRequest)
		return
	}
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		jsonError(w, "file not found", http.StatusNotFound)
		return
	}
	if err := os.Remove(full); err != nil {
		jsonError(w, "failed to delete: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sanitizeFilename strips directories and oddball characters from an
// uploaded name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_' || r == ' ':
			return r
		default:
			return '_'
		}
	}, name)
	name = strings.Trim(name, ". ")
	return name
}
