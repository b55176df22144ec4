package highscore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// UserData is the on-disk layout of the high-score file.
type UserData struct {
	BestScore int `yaml:"BestScore"`
}

// FileStore keeps the best score in a small yaml file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string {
	return f.path
}

// Load returns 0 when the file does not exist yet.
func (f *FileStore) Load(context.Context) (int, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("highscore: read %s: %w", f.path, err)
	}
	var ud UserData
	if err := yaml.Unmarshal(data, &ud); err != nil {
		return 0, fmt.Errorf("highscore: parse %s: %w", f.path, err)
	}
	return ud.BestScore, nil
}

// Save writes through a temp file so a crash never leaves a torn file.
func (f *FileStore) Save(_ context.Context, score int) error {
	data, err := yaml.Marshal(UserData{BestScore: score})
	if err != nil {
		return fmt.Errorf("highscore: encode: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("highscore: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".highscore-*")
	if err != nil {
		return fmt.Errorf("highscore: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("highscore: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("highscore: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("highscore: rename to %s: %w", f.path, err)
	}
	return nil
}
