// Package sources caches source texts by file name so diagnostics can show
// the code an error points at. The driver owns the cache; the interpreter
// never touches it.
package sources

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/zyxt-lang/zyxt/internal/diagnostics"
	"github.com/zyxt-lang/zyxt/internal/token"
)

type Cache struct {
	mu    sync.RWMutex
	files map[string]*file
}

type file struct {
	text  string
	lines []string
}

func NewCache() *Cache {
	return &Cache{files: make(map[string]*file)}
}

// Import reads path from disk and registers it.
func (c *Cache) Import(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", diagnostics.FileMissing(path)
		}
		return "", diagnostics.FileOpen(path, err)
	}
	text := string(data)
	c.Register(path, text)
	return text, nil
}

// Register stores input under name, replacing any earlier text. The REPL
// registers each line under its own name.
func (c *Cache) Register(name, input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[name] = &file{text: input, lines: strings.Split(input, "\n")}
}

func (c *Cache) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.files[name]
	if !ok {
		return "", false
	}
	return f.text, true
}

// Line returns the 1-based line n of name.
func (c *Cache) Line(name string, n int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.files[name]
	if !ok || n < 1 || n > len(f.lines) {
		return "", false
	}
	return strings.TrimRight(f.lines[n-1], "\r"), true
}

// Slice returns the source text covered by span.
func (c *Cache) Slice(span token.Span) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.files[span.File]
	if !ok {
		return "", false
	}
	start, end := span.Start.Offset, span.End.Offset
	if start < 0 || end > len(f.text) || start > end {
		return "", false
	}
	return f.text[start:end], true
}
