package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const logFilePerm = 0o600

// FileWriter is a size-rotated log file. Backups are named
// <base>.<timestamp> and pruned down to maxBackups.
type FileWriter struct {
	mu         sync.Mutex
	dir        string
	name       string
	maxSize    int64
	maxBackups int
	file       *os.File
	size       int64
}

// NewFileWriter opens (or creates) dir/name for appending.
func NewFileWriter(dir, name string, maxSizeMB, maxBackups int) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &FileWriter{
		dir:        dir,
		name:       name,
		maxSize:    int64(maxSizeMB) * 1024 * 1024,
		maxBackups: maxBackups,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// Path returns the active log file path.
func (w *FileWriter) Path() string {
	return filepath.Join(w.dir, w.name)
}

func (w *FileWriter) open() error {
	if info, err := os.Stat(w.Path()); err == nil {
		w.size = info.Size()
	}
	f, err := os.OpenFile(w.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	w.file = f
	return nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	if w.maxSize > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *FileWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	w.file = nil

	backup := fmt.Sprintf("%s.%s", w.Path(), time.Now().Format("2006-01-02-15-04-05.000"))
	if err := os.Rename(w.Path(), backup); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	w.prune()

	w.size = 0
	return w.open()
}

func (w *FileWriter) prune() {
	if w.maxBackups <= 0 {
		return
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), w.name+".") {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= w.maxBackups {
		return
	}

	// Timestamp suffixes sort chronologically.
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-w.maxBackups] {
		_ = os.Remove(filepath.Join(w.dir, name))
	}
}

// Close closes the active file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
