package scratch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"reel/internal/logging"
)

// Scope owns one pipeline run's corner of the scratch directory. Paths are
// registered as they are created; Close removes everything registered plus
// the scope directory itself, regardless of which exit path the pipeline
// took.
type Scope struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	paths  []string
	closed bool
}

// NewScope creates the scratch directory root/<key>. The key must be unique
// per concurrent pipeline run; callers namespace it by session id so two
// sessions can never collide.
func NewScope(root, key string, logger *slog.Logger) (*Scope, error) {
	root = strings.TrimSpace(root)
	key = strings.TrimSpace(key)
	if root == "" || key == "" {
		return nil, fmt.Errorf("scratch scope requires root and key")
	}
	dir := filepath.Join(root, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory %q: %w", dir, err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scope{dir: dir, logger: logger}, nil
}

// Dir returns the scope's directory.
func (s *Scope) Dir() string {
	return s.dir
}

// Path returns a file path inside the scope for the given name.
func (s *Scope) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Register records a path for removal at Close.
func (s *Scope) Register(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// Remove deletes one registered path immediately. Used when an intermediate
// artifact must not outlive the step that produced it, such as raw audio
// after a failed transcode.
func (s *Scope) Remove(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	s.removeFile(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.paths[:0]
	for _, registered := range s.paths {
		if registered != path {
			remaining = append(remaining, registered)
		}
	}
	s.paths = remaining
}

// Close removes every registered path and then the scope directory. It is
// idempotent and safe to defer alongside explicit Remove calls.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	for _, path := range paths {
		s.removeFile(path)
	}
	if err := os.RemoveAll(s.dir); err != nil {
		s.logger.Warn("failed to remove scratch directory",
			logging.String("path", s.dir),
			logging.Error(err),
			logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
		)
	}
}

func (s *Scope) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove scratch artifact",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
		)
	}
}
