package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	_log "github.com/sirupsen/logrus"
)

var log = _log.WithField("at", "watch")

// FileSource publishes a Change for every write, create, remove or rename
// under a directory tree.
type FileSource struct {
	Feed

	root    string
	watcher *fsnotify.Watcher
}

// NewFileSource watches root and every directory below it. Directories
// created later are added as they appear.
func NewFileSource(root string) (*FileSource, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("cannot watch '%s': %w", root, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	s := &FileSource{root: root, watcher: watcher}
	if err := s.addTree(root); err != nil {
		watcher.Close()
		return nil, err
	}
	return s, nil
}

// Run forwards file system events until ctx is done or the watcher is
// closed.
func (s *FileSource) Run(ctx context.Context) error {
	log.Infof("watching %v for changes", s.root)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			s.handle(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn(err)
		}
	}
}

func (s *FileSource) Close() error {
	return s.watcher.Close()
}

func (s *FileSource) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if isEditorTemp(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := s.addTree(ev.Name); err != nil {
				log.Warn(err)
			}
		}
	}

	log.WithField("op", ev.Op.String()).Debug(ev.Name)
	s.Publish(Change{Path: ev.Name, Op: ev.Op.String()})
}

func (s *FileSource) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if err := s.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch '%s': %w", path, err)
		}
		return nil
	})
}

func isEditorTemp(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasPrefix(base, ".#")
}
