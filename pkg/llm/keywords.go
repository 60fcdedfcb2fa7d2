package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

// Keywords is the keyword set of the fallback tier: a static list plus an optional yaml file
// with a list of words, reloaded on change by Watch. Safe for concurrent use.
type Keywords struct {
	file   string
	static []string

	mu    sync.RWMutex
	words []string // lowercased union of static and file words
}

// NewKeywords makes a keyword set from the list and the file. A missing file is not an error.
func NewKeywords(list []string, file string) (*Keywords, error) {
	k := &Keywords{file: file, static: list}
	if err := k.Reload(); err != nil {
		return nil, err
	}
	return k, nil
}

// Match reports whether text contains any keyword, case-insensitively
func (k *Keywords) Match(text string) bool {
	text = strings.ToLower(text)
	k.mu.RLock()
	defer k.mu.RUnlock()
	for _, w := range k.words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// List returns the current keyword set
func (k *Keywords) List() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return append([]string(nil), k.words...)
}

// Reload re-reads the keyword file
func (k *Keywords) Reload() error {
	fileWords, err := k.readFile()
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	words := make([]string, 0, len(k.static)+len(fileWords))
	for _, w := range append(append([]string(nil), k.static...), fileWords...) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}

	k.mu.Lock()
	k.words = words
	k.mu.Unlock()
	return nil
}

func (k *Keywords) readFile() ([]string, error) {
	if k.file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(k.file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[WARN] keywords file %s not found", k.file)
			return nil, nil
		}
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	var words []string
	if err := yaml.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parse keywords file %s: %w", k.file, err)
	}
	return words, nil
}

// Watch reloads the keyword file on change until ctx is done. Does nothing without a file.
// The directory is watched, so the file may be replaced or created later.
func (k *Keywords) Watch(ctx context.Context) error {
	if k.file == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create keywords watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(k.file)); err != nil {
		return fmt.Errorf("watch keywords dir: %w", err)
	}
	target := filepath.Clean(k.file)

	// editors write in several steps, reload once things settle
	const settle = 100 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				timer.Reset(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] keywords watcher error: %v", err)
		case <-timer.C:
			if err := k.Reload(); err != nil {
				log.Printf("[WARN] failed to reload keywords, keeping previous set: %v", err)
				continue
			}
			log.Printf("[INFO] keywords reloaded from %s, %d words", k.file, len(k.List()))
		}
	}
}
