// Package attach stages local files for upload as case documents. A staging
// directory plays the role of the intake form's file picker: files dropped
// into it become selectable, and the selection order is the upload order.
package attach

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// allowedExts mirrors the picker filter of the intake surface. The filter is
// advisory only; the backend does its own validation.
var allowedExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Allowed reports whether the file name passes the document/image filter.
func Allowed(name string) bool {
	return allowedExts[strings.ToLower(filepath.Ext(name))]
}

// Picker tracks the staging directory contents and the operator's current
// selection. Safe for concurrent use; the watcher goroutine and the UI
// thread both touch it.
type Picker struct {
	dir    string
	logger *log.Logger

	mu       sync.Mutex
	files    []string // eligible candidates, sorted by name
	picked   []string // selection, in pick order
	onChange func()
}

// NewPicker returns a picker over dir. The directory is created if missing.
func NewPicker(dir string, logger *log.Logger) (*Picker, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[attach] ", log.LstdFlags)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("attach: mk staging dir: %w", err)
	}
	p := &Picker{dir: dir, logger: logger}
	if err := p.Refresh(); err != nil {
		return nil, err
	}
	return p, nil
}

// Dir returns the staging directory path.
func (p *Picker) Dir() string { return p.dir }

// SetChangeFunc installs a callback invoked after the candidate set changes
// from a watcher event. Called from the watcher goroutine.
func (p *Picker) SetChangeFunc(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Refresh rescans the staging directory. Picks referring to files that no
// longer exist are dropped; the relative order of surviving picks is kept.
func (p *Picker) Refresh() error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return fmt.Errorf("attach: read staging dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() || !Allowed(e.Name()) {
			continue
		}
		path := filepath.Join(p.dir, e.Name())
		files = append(files, path)
		present[path] = true
	}
	sort.Strings(files)

	p.mu.Lock()
	p.files = files
	kept := p.picked[:0]
	for _, path := range p.picked {
		if present[path] {
			kept = append(kept, path)
		}
	}
	p.picked = kept
	p.mu.Unlock()
	return nil
}

// Files returns the current candidates, sorted by name.
func (p *Picker) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.files))
	copy(out, p.files)
	return out
}

// Toggle flips the selection state of path and reports whether it is now
// picked. Unknown paths are ignored.
func (p *Picker) Toggle(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, pk := range p.picked {
		if pk == path {
			p.picked = append(p.picked[:i], p.picked[i+1:]...)
			return false
		}
	}
	known := false
	for _, f := range p.files {
		if f == path {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	p.picked = append(p.picked, path)
	return true
}

// IsPicked reports whether path is currently selected.
func (p *Picker) IsPicked(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pk := range p.picked {
		if pk == path {
			return true
		}
	}
	return false
}

// Picked returns the selection in pick order.
func (p *Picker) Picked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.picked))
	copy(out, p.picked)
	return out
}

// ClearPicks empties the selection, e.g. after a successful submission.
func (p *Picker) ClearPicks() {
	p.mu.Lock()
	p.picked = nil
	p.mu.Unlock()
}

// Watch follows the staging directory until ctx is done, refreshing the
// candidate set on create/remove/rename events and notifying the change
// callback so an open intake screen stays current.
func (p *Picker) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("attach: fsnotify: %w", err)
	}
	defer w.Close()

	if err := w.Add(p.dir); err != nil {
		return fmt.Errorf("attach: watch add: %w", err)
	}
	p.logger.Printf("Watching staging directory: %s", p.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			if !Allowed(filepath.Base(ev.Name)) {
				continue
			}
			if err := p.Refresh(); err != nil {
				p.logger.Printf("refresh error: %v", err)
				continue
			}
			p.mu.Lock()
			fn := p.onChange
			p.mu.Unlock()
			if fn != nil {
				fn()
			}
		case err := <-w.Errors:
			if err != nil {
				p.logger.Printf("watch error: %v", err)
			}
		}
	}
}
