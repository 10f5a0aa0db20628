package http

import (
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/brightstep/induction-portal/internal/storage"
)

// POST /admin/assets/videos (multipart, field "file")
func UploadVideoHandler(lib *storage.MediaLibrary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		key, err := lib.SaveVideo(hdr.Filename, f)
		if err != nil {
			writeError(w, err)
			return
		}
		url, err := lib.PlaybackURL(key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"key": key, "url": url})
	}
}

// GET /assets/videos
func ListVideosHandler(lib *storage.MediaLibrary) http.HandlerFunc {
	type videoInfo struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := lib.ListVideos()
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]videoInfo, 0, len(keys))
		for _, k := range keys {
			url, err := lib.PlaybackURL(k)
			if err != nil {
				writeError(w, err)
				return
			}
			out = append(out, videoInfo{Key: k, URL: url})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /assets/videos/{name} streams the video bytes.
func StreamVideoHandler(lib *storage.MediaLibrary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		rc, err := lib.Open(name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", contentTypeFor(name))
		_, _ = io.Copy(w, rc)
	}
}

// DELETE /admin/assets/videos/{name}
func DeleteVideoHandler(lib *storage.MediaLibrary) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := lib.Delete(chi.URLParam(r, "name")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func contentTypeFor(name string) string {
	switch path.Ext(name) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".ogg":
		return "video/ogg"
	case ".mov":
		return "video/quicktime"
	}
	return "application/octet-stream"
}
