// Package cache reads feed bodies the host already stored in its cache directory.
// The plugin never writes there, the host owns the files.
package cache

import (
	"crypto/sha1" //nolint:gosec // file name scheme of the host, not a security hash
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	log "github.com/go-pkgz/lgr"
)

// DefaultMaxAge is how long cached file is considered fresh
const DefaultMaxAge = 30 * time.Second

// File looks up <Dir>/simplepie/<sha1(url)>.xml files
type File struct {
	Dir    string
	MaxAge time.Duration
}

// Path returns cache file name for the url
func (f File) Path(url string) string {
	h := sha1.Sum([]byte(url)) //nolint:gosec
	return filepath.Join(f.Dir, "simplepie", hex.EncodeToString(h[:])+".xml")
}

// Lookup returns cached body for the url if it can be used instead of fetching.
// Only unauthenticated fetches without previously fetched body are served from cache.
func (f File) Lookup(url, authLogin, authPass string, prevBody []byte) ([]byte, bool) {
	if f.Dir == "" || len(prevBody) > 0 || authLogin != "" || authPass != "" {
		return nil, false
	}

	fname := f.Path(url)
	fi, err := os.Stat(fname)
	if err != nil || fi.IsDir() {
		return nil, false
	}

	maxAge := f.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if time.Since(fi.ModTime()) >= maxAge {
		return nil, false
	}

	data, err := os.ReadFile(fname) //nolint:gosec // name derived from hash
	if err != nil {
		log.Printf("[DEBUG] can't read cache file %s, %v", fname, err)
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	log.Printf("[DEBUG] using local cache %s for %s", fname, url)
	return data, true
}
