package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore keeps raw media under <root>/video and normalized audio under <root>/audio.
type DiskStore struct {
	VideoDir string
	AudioDir string
}

// NewDiskStore creates the media directories below root if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	s := &DiskStore{
		VideoDir: filepath.Join(root, "video"),
		AudioDir: filepath.Join(root, "audio"),
	}
	for _, dir := range []string{s.VideoDir, s.AudioDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory '%s': %w", dir, err)
		}
	}
	return s, nil
}

func (s *DiskStore) Backend() string { return "disk" }

// Put writes r to the video area under name. A partially written file is removed.
func (s *DiskStore) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.VideoDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create media file '%s': %w", path, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write media file '%s': %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close media file '%s': %w", path, err)
	}
	return path, nil
}

// Open returns a reader over the stored blob and its size.
func (s *DiskStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if err := ValidateName(name); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(filepath.Join(s.VideoDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("media '%s': %w", name, ErrObjectNotFound)
		}
		return nil, 0, fmt.Errorf("failed to open media '%s': %w", name, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat media '%s': %w", name, err)
	}
	if stat.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("media '%s': %w", name, ErrObjectNotFound)
	}
	return f, stat.Size(), nil
}

// Delete removes the blob and its derived audio, if any.
func (s *DiskStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.VideoDir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete media '%s': %w", name, err)
	}
	if err := os.Remove(filepath.Join(s.AudioDir, AudioNameFor(name))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete audio for '%s': %w", name, err)
	}
	return nil
}

// AudioPath is where the normalized audio for a video blob is written.
func (s *DiskStore) AudioPath(videoName string) (string, error) {
	if err := ValidateName(videoName); err != nil {
		return "", err
	}
	return filepath.Join(s.AudioDir, AudioNameFor(videoName)), nil
}
