package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
)

// GenerateCorpus writes count directives from gen to path, replacing
// any existing file. A bounded generator that exhausts early just
// produces a shorter corpus.
func GenerateCorpus(ctx context.Context, path string, count int, gen ports.Generator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create corpus: %w", err)
	}

	w := bufio.NewWriter(f)
	for i := 0; i < count; i++ {
		d, err := gen.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrExhausted) {
				break
			}
			f.Close()
			return err
		}
		if _, err := w.WriteString(d.Line()); err != nil {
			f.Close()
			return fmt.Errorf("write corpus: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush corpus: %w", err)
	}
	return f.Close()
}
