package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

// File implements Store on top of a yaml file. Top level keys are plugin names, second level are keys, i.e.
//
//	options_per_feed:
//	  enabled_feeds: [12, 15]
//	  options_feeds:
//	    12: {proxy_host: proxy.example.com, proxy_port: 3128}
//
// The file is re-read on access if changed since the last read, so manual edits are picked up.
type File struct {
	FileName string

	lock    sync.Mutex
	doc     map[string]map[string]*yaml.Node
	modTime time.Time
	size    int64
}

// NewFile makes yaml-backed store. The file is created on the first Set.
func NewFile(fileName string) *File {
	return &File{FileName: fileName}
}

// Get decodes stored value into dest
func (f *File) Get(plugin, key string, dest interface{}) (bool, error) {
	if err := checkNames(plugin, key); err != nil {
		return false, err
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.load(); err != nil {
		return false, err
	}
	node, ok := f.doc[plugin][key]
	if !ok || node == nil {
		return false, nil
	}
	if err := node.Decode(dest); err != nil {
		return false, fmt.Errorf("%w %s/%s from %s: %v", ErrDecode, plugin, key, f.FileName, err)
	}
	return true, nil
}

// Set encodes value and rewrites the file
func (f *File) Set(plugin, key string, value interface{}) error {
	if err := checkNames(plugin, key); err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.load(); err != nil {
		return err
	}
	node := &yaml.Node{}
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("can't encode %s/%s: %w", plugin, key, err)
	}
	if f.doc[plugin] == nil {
		f.doc[plugin] = map[string]*yaml.Node{}
	}
	f.doc[plugin][key] = node
	return f.save()
}

// Delete removes key, no-op if missing
func (f *File) Delete(plugin, key string) error {
	if err := checkNames(plugin, key); err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.load(); err != nil {
		return err
	}
	if _, ok := f.doc[plugin][key]; !ok {
		return nil
	}
	delete(f.doc[plugin], key)
	if len(f.doc[plugin]) == 0 {
		delete(f.doc, plugin)
	}
	return f.save()
}

// load reads the file if it was changed since the last load. Missing file is an empty store.
func (f *File) load() error {
	fi, err := os.Stat(f.FileName)
	if errors.Is(err, fs.ErrNotExist) {
		if f.doc == nil || !f.modTime.IsZero() {
			f.doc = map[string]map[string]*yaml.Node{}
			f.modTime, f.size = time.Time{}, 0
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("can't stat %s: %w", f.FileName, err)
	}
	if f.doc != nil && fi.ModTime().Equal(f.modTime) && fi.Size() == f.size {
		return nil
	}

	data, err := os.ReadFile(f.FileName)
	if err != nil {
		return fmt.Errorf("can't read %s: %w", f.FileName, err)
	}
	doc := map[string]map[string]*yaml.Node{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("can't parse %s: %w", f.FileName, err)
	}
	if doc == nil {
		doc = map[string]map[string]*yaml.Node{}
	}
	if f.doc != nil {
		log.Printf("[DEBUG] settings file %s changed, %s -> %s", f.FileName,
			f.modTime.Format(time.RFC3339Nano), fi.ModTime().Format(time.RFC3339Nano))
	}
	f.doc, f.modTime, f.size = doc, fi.ModTime(), fi.Size()
	return nil
}

// save writes the whole document to a temp file and renames it over the original
func (f *File) save() error {
	data, err := yaml.Marshal(f.doc)
	if err != nil {
		return fmt.Errorf("can't marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.FileName), filepath.Base(f.FileName)+".*.tmp")
	if err != nil {
		return fmt.Errorf("can't create temp file for %s: %w", f.FileName, err)
	}
	defer os.Remove(tmp.Name()) // nolint

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("can't write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("can't close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), f.FileName); err != nil {
		return fmt.Errorf("can't replace %s: %w", f.FileName, err)
	}

	fi, err := os.Stat(f.FileName)
	if err != nil {
		return fmt.Errorf("can't stat %s: %w", f.FileName, err)
	}
	f.modTime, f.size = fi.ModTime(), fi.Size()
	return nil
}
