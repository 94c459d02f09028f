package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	videoExt = ".webm"
	audioExt = ".wav"

	// VideoURLPrefix is the public path under which stored raw media is served.
	VideoURLPrefix = "/media/video/"
)

var (
	// ErrObjectNotFound is returned when a named blob does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidName is returned for names that are not plain base names.
	ErrInvalidName = errors.New("invalid object name")
)

// MediaStore persists raw uploads and hands out local paths for derived audio.
// Put returns a local filesystem path for the stored blob so that external tools
// (ffmpeg) can read it regardless of the backend.
type MediaStore interface {
	Put(ctx context.Context, name string, r io.Reader) (localPath string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, name string) error
	AudioPath(name string) (string, error)
	Backend() string
}

// NewVideoName derives a fresh, collision-resistant blob name from a candidate token.
func NewVideoName(token string) string {
	return fmt.Sprintf("%s_%s%s", token, strings.ReplaceAll(uuid.NewString(), "-", ""), videoExt)
}

// AudioNameFor returns the normalized audio name that belongs to a video blob name.
func AudioNameFor(videoName string) string {
	return strings.TrimSuffix(videoName, filepath.Ext(videoName)) + audioExt
}

// ResumeName names an uploaded resume attachment for token. Only the base name of
// the client supplied filename is kept.
func ResumeName(token, originalFilename string) string {
	base := filepath.Base(strings.ReplaceAll(originalFilename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "resume"
	}
	return fmt.Sprintf("%s_resume_%s", token, base)
}

// PublicVideoURL is the retrieval path exposed to clients for a stored blob.
func PublicVideoURL(name string) string {
	return VideoURLPrefix + name
}

// ValidateName rejects anything that could escape the media directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") ||
		filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
