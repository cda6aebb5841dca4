package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/daneel/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is a snapshot file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from a file extension; anything that is
// not .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// fileSnapshot is the on-disk shape. Uptime is given in seconds so the file
// can be written by tools that know nothing about Go durations.
type fileSnapshot struct {
	models.Snapshot `yaml:",inline"`
	UptimeSeconds   float64 `json:"uptime_seconds" yaml:"uptime_seconds"`
}

// DecodeSnapshot parses one snapshot document.
func DecodeSnapshot(format Format, data []byte) (*models.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoSnapshot
	}

	var fs fileSnapshot
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &fs)
	default:
		err = json.Unmarshal(data, &fs)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", format, err)
	}

	snap := fs.Snapshot
	if fs.UptimeSeconds > 0 {
		snap.Uptime = time.Duration(fs.UptimeSeconds * float64(time.Second))
	}
	if snap.AgentName == "" {
		snap.AgentName = DefaultAgentName
	}
	return &snap, nil
}

// FileSource publishes the snapshot held in a file and re-reads it whenever
// the file changes. A file that fails to decode keeps the previous snapshot.
type FileSource struct {
	path   string
	format Format
	out    *Latest
	logger Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu       sync.Mutex
	reloads  uint64
	failures uint64
}

// OpenFile starts watching path. The file must exist; an unreadable or
// missing file at startup is ErrSourceUnavailable.
func OpenFile(path string, out *Latest, logger Logger) (*FileSource, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	fs := &FileSource{
		path:   path,
		format: FormatForPath(path),
		out:    out,
		logger: logger,
		done:   make(chan struct{}),
	}
	if err := fs.Reload(); err != nil {
		logger.Log("initial snapshot %s: %v", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// Without a watcher the initial snapshot is all there is.
		logger.Log("snapshot watcher unavailable: %v", err)
		return fs, nil
	}
	// Watch the directory: editors and atomic writers replace the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		logger.Log("watch %s: %v", filepath.Dir(path), err)
		return fs, nil
	}
	fs.watcher = watcher

	fs.wg.Add(1)
	go fs.watch()
	return fs, nil
}

// Reload reads and publishes the file once.
func (fs *FileSource) Reload() error {
	data, err := os.ReadFile(fs.path)
	if err == nil {
		var snap *models.Snapshot
		snap, err = DecodeSnapshot(fs.format, data)
		if err == nil {
			fs.out.Publish(snap)
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err != nil {
		fs.failures++
		return err
	}
	fs.reloads++
	return nil
}

// Stats returns the number of successful and failed reloads.
func (fs *FileSource) Stats() (reloads, failures uint64) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.reloads, fs.failures
}

func (fs *FileSource) watch() {
	defer fs.wg.Done()
	name := filepath.Clean(fs.path)
	for {
		select {
		case <-fs.done:
			return
		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if err := fs.Reload(); err != nil {
				fs.logger.Log("reload %s: %v", fs.path, err)
			}
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			fs.logger.Log("snapshot watcher: %v", err)
		}
	}
}

// Close stops watching.
func (fs *FileSource) Close() error {
	select {
	case <-fs.done:
		return nil
	default:
	}
	close(fs.done)
	var err error
	if fs.watcher != nil {
		err = fs.watcher.Close()
	}
	fs.wg.Wait()
	return err
}
