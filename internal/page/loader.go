package page

import (
	"fmt"
	"os"
	"time"

	"github.com/geocoder89/formhub/internal/cache"
)

// FileLoader reads the static home page from disk. With a positive TTL the
// contents are kept in memory for that long; a failed read is never cached.
type FileLoader struct {
	path  string
	cache *cache.Cache[[]byte]
}

func NewFileLoader(path string, ttl time.Duration) *FileLoader {
	l := &FileLoader{path: path}

	if ttl > 0 {
		l.cache = cache.New[[]byte](ttl)
	}

	return l
}

func (l *FileLoader) Load() ([]byte, error) {
	if l.cache != nil {
		if b, ok := l.cache.Get(l.path); ok {
			return b, nil
		}
	}

	b, err := os.ReadFile(l.path)

	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", l.path, err)
	}

	if l.cache != nil {
		l.cache.Set(l.path, b)
	}

	return b, nil
}
