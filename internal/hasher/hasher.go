// Package hasher implements the Content Hasher (C2): a stable digest of
// file contents with a persistent cache keyed by normalized relative path,
// streaming reads in 4 KiB blocks.
package hasher

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const blockSize = 4096

// Algorithm selects the digest implementation, matching root config's
// indexer.hash_algorithm.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

func newHash(alg Algorithm) hash.Hash {
	switch Algorithm(strings.ToLower(string(alg))) {
	case SHA256:
		return sha256.New()
	case SHA1:
		return sha1.New()
	}
	return md5.New()
}

// Digest streams path in 4 KiB blocks and returns its hex digest. Returns
// ("", err) if the file cannot be read.
func Digest(path string, alg Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := newHash(alg)
	buf := make([]byte, blockSize)
	// Hide *os.File's WriterTo so CopyBuffer actually reads through buf.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{f}, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Cache is the persistent hash cache for one project: a map of
// normalized-relative-path -> content digest.
type Cache struct {
	mu        sync.Mutex
	path      string
	alg       Algorithm
	entries   map[string]string
}

// cacheFile is the on-disk JSON shape.
type cacheFile struct {
	Algorithm Algorithm         `json:"algorithm"`
	Entries   map[string]string `json:"entries"`
}

// Load reads the cache from path. A missing file is treated as an empty
// cache; an unreadable or corrupt file is treated as an empty cache with a
// logged warning.
func Load(path string, alg Algorithm) *Cache {
	c := &Cache{path: path, alg: alg, entries: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("hasher: warning: failed to read cache %s: %v", path, err)
		}
		return c
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		log.Printf("hasher: warning: corrupt cache %s, starting empty: %v", path, err)
		return c
	}
	if cf.Entries != nil {
		c.entries = cf.Entries
	}
	if cf.Algorithm != "" {
		c.alg = cf.Algorithm
	}
	return c
}

// HasChanged computes the current digest of path (keyed by relPath,
// forward-slash-normalized) and compares it against the cached entry,
// updating the in-memory cache. Returns true if the digest differs from the
// previous entry or no entry existed.
func (c *Cache) HasChanged(relPath, absPath string) (bool, error) {
	relPath = filepath.ToSlash(relPath)
	digest, err := Digest(absPath, c.alg)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.entries[relPath]
	if ok && prev == digest {
		return false, nil
	}
	c.entries[relPath] = digest
	return true, nil
}

// Remove clears the cache entry for relPath (on file deletion).
func (c *Cache) Remove(relPath string) {
	relPath = filepath.ToSlash(relPath)
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, relPath)
}

// Wipe clears every entry (an explicit "reindex" request).
func (c *Cache) Wipe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

// Get returns the cached digest for relPath, if any.
func (c *Cache) Get(relPath string) (string, bool) {
	relPath = filepath.ToSlash(relPath)
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[relPath]
	return v, ok
}

// Save persists the cache as a single JSON file.
func (c *Cache) Save() error {
	c.mu.Lock()
	cf := cacheFile{Algorithm: c.alg, Entries: c.entries}
	c.mu.Unlock()

	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
