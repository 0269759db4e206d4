package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/canfuzz/internal/domain"
)

// CorpusWriter implements ports.CorpusSink as an append-only text file,
// one directive per line. Pointing it at an existing corpus extends it;
// lines already present are never touched.
type CorpusWriter struct {
	file *os.File
	w    *bufio.Writer
}

// NewCorpusWriter opens (or creates) the corpus file at path for appending.
func NewCorpusWriter(path string) (*CorpusWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create corpus dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	return &CorpusWriter{file: f, w: bufio.NewWriter(f)}, nil
}

// Write appends one directive line.
func (c *CorpusWriter) Write(d domain.Directive) error {
	_, err := c.w.WriteString(d.Line())
	return err
}

// Flush pushes buffered lines to the file without closing it.
func (c *CorpusWriter) Flush() error {
	return c.w.Flush()
}

// Close flushes buffered lines and closes the file.
func (c *CorpusWriter) Close() error {
	if err := c.w.Flush(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}
