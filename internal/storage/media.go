package storage

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	ErrAssetNotFound  = errors.New("asset not found")
	ErrBadExtension   = errors.New("file extension not allowed")
	ErrAssetTooLarge  = errors.New("file exceeds size limit")
	ErrEmptyAssetName = errors.New("empty asset name")

	allowedVideoExt = map[string]bool{".mp4": true, ".webm": true, ".ogg": true, ".mov": true}
)

// MaxVideoBytes caps induction video uploads at 500 MB.
const MaxVideoBytes = 500 << 20

const videoPrefix = "videos"

// MediaLibrary stores induction videos behind a BlobStore, enforcing the
// extension allowlist and the upload size cap.
type MediaLibrary struct {
	blobs BlobStore
}

func NewMediaLibrary(blobs BlobStore) *MediaLibrary {
	return &MediaLibrary{blobs: blobs}
}

// SaveVideo streams a video in. The reader is cut off one byte past the cap
// so an oversized upload fails without buffering the whole file.
func (m *MediaLibrary) SaveVideo(name string, r io.Reader) (string, error) {
	name = path.Base(strings.TrimSpace(name))
	if name == "" || name == "." {
		return "", ErrEmptyAssetName
	}
	ext := strings.ToLower(path.Ext(name))
	if !allowedVideoExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrBadExtension, ext)
	}

	limited := &limitedReader{r: io.LimitReader(r, MaxVideoBytes+1)}
	key, err := m.blobs.Put(videoPrefix+"/"+name, limited)
	if err != nil {
		return "", err
	}
	if limited.n > MaxVideoBytes {
		m.blobs.Delete(key)
		return "", ErrAssetTooLarge
	}
	return key, nil
}

// ListVideos returns the stored video keys.
func (m *MediaLibrary) ListVideos() ([]string, error) {
	return m.blobs.List(videoPrefix)
}

// PlaybackURL resolves a stored video to a URL the client can stream.
func (m *MediaLibrary) PlaybackURL(key string) (string, error) {
	if !strings.HasPrefix(key, videoPrefix+"/") {
		key = videoPrefix + "/" + path.Base(key)
	}
	return m.blobs.SignedURL(key)
}

// Open returns the raw video stream, e.g. for proxied playback.
func (m *MediaLibrary) Open(key string) (io.ReadCloser, error) {
	if !strings.HasPrefix(key, videoPrefix+"/") {
		key = videoPrefix + "/" + path.Base(key)
	}
	return m.blobs.Get(key)
}

// Delete removes a stored video.
func (m *MediaLibrary) Delete(key string) error {
	if !strings.HasPrefix(key, videoPrefix+"/") {
		key = videoPrefix + "/" + path.Base(key)
	}
	return m.blobs.Delete(key)
}

type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	return n, err
}
