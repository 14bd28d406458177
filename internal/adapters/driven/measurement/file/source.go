// Package file reads the calibration measurement from a text file written by
// the mesh viewer.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/scanprep/internal/core/domain"
	"github.com/custodia-labs/scanprep/internal/core/ports/driven"
	"github.com/custodia-labs/scanprep/internal/logger"
)

// Ensure Source implements the interfaces.
var (
	_ driven.MeasurementSource = (*Source)(nil)
	_ driven.ChangeNotifier    = (*Source)(nil)
)

// Source serves the contents of a measurement file.
// It watches the file's directory so waiters wake as soon as the viewer
// writes, renames or removes the file.
type Source struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// NewSource starts watching path. The file need not exist yet, but its
// directory must.
func NewSource(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	dir := filepath.Dir(abs)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: measurement folder %s", domain.ErrNotFound, dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: creating watcher: %w", domain.ErrIO, err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("%w: watching %s: %w", domain.ErrIO, dir, err)
	}

	s := &Source{
		path:    abs,
		watcher: watcher,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.watch()
	return s, nil
}

// Path returns the watched file.
func (s *Source) Path() string {
	return s.path
}

// Measurement returns the trimmed file contents. A missing or empty file is
// reported as domain.ErrMeasurementUnavailable.
func (s *Source) Measurement(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s does not exist", domain.ErrMeasurementUnavailable, s.path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrMeasurementUnavailable, s.path)
	}
	return text, nil
}

// Changes signals when the measurement file may have changed. Signals are
// coalesced; a slow reader sees at most one pending notification.
func (s *Source) Changes() <-chan struct{} {
	return s.changes
}

// Close stops the watcher.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.watcher.Close()
	})
	return err
}

func (s *Source) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				s.notify()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("measurement watcher: %v", err)
		}
	}
}

func (s *Source) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}
