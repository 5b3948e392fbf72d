package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	cachePrefix = "snactive_"
	cacheSuffix = ".html"
)

// Cache keeps raw catalog pages on disk so a later run can start offline.
type Cache struct {
	dir      string
	maxFiles int
}

// NewCache creates a Cache that stores files in dir and keeps at most maxFiles.
func NewCache(dir string, maxFiles int) *Cache {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &Cache{
		dir:      dir,
		maxFiles: maxFiles,
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Write saves data to a timestamped file and prunes old files beyond maxFiles.
func (c *Cache) Write(data []byte, ts time.Time) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return eris.Wrap(err, "creating cache dir")
	}

	name := cachePrefix + strconv.FormatInt(ts.Unix(), 10) + cacheSuffix
	if err := os.WriteFile(filepath.Join(c.dir, name), data, 0644); err != nil {
		return eris.Wrap(err, "writing cache file")
	}

	return c.prune()
}

// LoadLatest reads the newest cached page by the timestamp in its filename.
func (c *Cache) LoadLatest() ([]byte, time.Time, error) {
	files, err := c.listFiles()
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(files) == 0 {
		return nil, time.Time{}, eris.Errorf("no cached catalog in %s", c.dir)
	}

	latest := files[len(files)-1]
	data, err := os.ReadFile(filepath.Join(c.dir, latest.name))
	if err != nil {
		return nil, time.Time{}, eris.Wrap(err, "reading cache file")
	}
	return data, latest.ts, nil
}

type cacheFile struct {
	name string
	ts   time.Time
}

// listFiles returns cache files sorted oldest first.
func (c *Cache) listFiles() ([]cacheFile, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "listing cache dir")
	}

	var files []cacheFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, cachePrefix) || !strings.HasSuffix(name, cacheSuffix) {
			continue
		}
		unix, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(name, cachePrefix), cacheSuffix), 10, 64)
		if err != nil {
			continue
		}
		files = append(files, cacheFile{name: name, ts: time.Unix(unix, 0).UTC()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ts.Before(files[j].ts)
	})
	return files, nil
}

func (c *Cache) prune() error {
	files, err := c.listFiles()
	if err != nil {
		return err
	}
	if len(files) <= c.maxFiles {
		return nil
	}

	for _, f := range files[:len(files)-c.maxFiles] {
		if err := os.Remove(filepath.Join(c.dir, f.name)); err != nil {
			return eris.Wrapf(err, "pruning cache file %s", f.name)
		}
	}
	return nil
}
