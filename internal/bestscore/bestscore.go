// Package bestscore persists the best hit count to a flat text file.
package bestscore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
)

const DefaultPath = "aimtest_best.txt"

// ErrCorrupt marks a best score file whose content is not a non-negative integer.
var ErrCorrupt = errors.New("corrupt best score file")

// FileStore is safe for use by several controllers at once. All of them see
// the same best score because every comparison happens under the store's lock.
type FileStore struct {
	mu   sync.Mutex
	Path string
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{Path: path}
}

// Load returns the stored score. Any failure, including a missing file,
// yields 0 together with the error.
func (s *FileStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// SaveIfHigher writes n only when it beats the stored score, and returns the
// score on record afterwards. A missing or corrupt file counts as 0.
func (s *FileStore) SaveIfHigher(n int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, ErrCorrupt) {
		return 0, false, err
	}
	if n <= current {
		return current, false, nil
	}
	if err := os.WriteFile(s.Path, []byte(strconv.Itoa(n)), 0o644); err != nil {
		return current, false, fmt.Errorf("writing best score: %w", err)
	}
	return n, true, nil
}

func (s *FileStore) read() (int, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("reading best score: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, fmt.Errorf("%w: %s is empty", ErrCorrupt, s.Path)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrCorrupt, n)
	}
	return n, nil
}

// MemoryStore keeps the score in process only.
type MemoryStore struct {
	mu   sync.Mutex
	best int
}

func (m *MemoryStore) Load() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best, nil
}

func (m *MemoryStore) SaveIfHigher(n int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= m.best {
		return m.best, false, nil
	}
	m.best = n
	return n, true, nil
}
