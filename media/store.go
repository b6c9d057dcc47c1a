package media

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes images below a root directory.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, ErrImagesStoreRequired
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute images root.
func (s *Store) Root() string {
	return s.root
}

// Persist writes data at the slash-separated relPath, replacing any existing file.
// The write is atomic: readers see either the old file or the complete new one.
func (s *Store) Persist(relPath string, data []byte) error {
	native := filepath.FromSlash(relPath)
	if !filepath.IsLocal(native) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, relPath)
	}
	dst := filepath.Join(s.root, native)
	return writeFileAtomic(filepath.Dir(dst), filepath.Base(dst), data)
}

func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// Temp file lives next to the target so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, name))
}
