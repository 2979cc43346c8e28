package localstore

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// File is a store persisted as one JSON document on disk, so token and cart
// survive between runs of the CLI. Writes flush immediately; a broken or
// missing file starts empty rather than failing startup.
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// NewFile loads (or initializes) the store at path.
func NewFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &f.data); err != nil {
		log.Printf("[localstore] WARN: %s is corrupt, starting empty: %v", path, err)
		f.data = make(map[string]string)
	}
	return f, nil
}

func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *File) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.flush()
}

func (f *File) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	f.flush()
}

// flush writes atomically via a sibling temp file. Callers hold f.mu.
func (f *File) flush() {
	raw, err := json.Marshal(f.data)
	if err != nil {
		log.Printf("[localstore] WARN: marshal failed: %v", err)
		return
	}

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		log.Printf("[localstore] WARN: mkdir failed: %v", err)
		return
	}
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		log.Printf("[localstore] WARN: write failed: %v", err)
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		log.Printf("[localstore] WARN: rename failed: %v", err)
	}
}
