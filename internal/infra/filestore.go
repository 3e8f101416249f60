package infra

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiskFileStore keeps the raw uploaded spreadsheets on disk, one directory
// per generation, so the list of source documents survives restarts.
type DiskFileStore struct {
	baseDir string
}

func NewDiskFileStore(baseDir string) (*DiskFileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &DiskFileStore{baseDir: baseDir}, nil
}

// Save stores the uploaded document under its original name. Re-uploading
// the same filename overwrites the previous copy, mirroring how repeated
// uploads of the same export are one logical document.
func (s *DiskFileStore) Save(generation, filename string, data []byte) error {
	dir := filepath.Join(s.baseDir, generation)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, sanitizeName(filename)), data, 0o644)
}

// List returns stored document names for a generation, sorted.
func (s *DiskFileStore) List(generation string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, generation))
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every stored document of a generation. Idempotent.
func (s *DiskFileStore) Clear(generation string) error {
	err := os.RemoveAll(filepath.Join(s.baseDir, generation))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// sanitizeName strips path separators from client-supplied filenames.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "." || name == ".." || name == "" {
		return "upload.xlsx"
	}
	return name
}
