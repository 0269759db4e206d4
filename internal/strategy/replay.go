package strategy

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
)

// replayGen feeds a corpus file back onto the bus in line order. A
// malformed line fails the run; there is no partial skip.
type replayGen struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	line    uint64
}

func newReplay(cfg Config) (ports.Generator, error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("%w: linear replay requires a corpus file", domain.ErrMissingArgument)
	}
	f, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	g := &replayGen{
		path:    cfg.File,
		file:    f,
		scanner: bufio.NewScanner(f),
	}
	// Fast-forward past lines a previous run already dispatched. The
	// skipped region is not re-validated.
	for g.line < cfg.SkipLines && g.scanner.Scan() {
		g.line++
	}
	if err := g.scanner.Err(); err != nil {
		f.Close()
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return g, nil
}

// Next returns the next corpus line as a directive. It reports
// domain.ErrExhausted at end of file and domain.ErrInvalidDirective,
// with the offending position, on a malformed line.
func (g *replayGen) Next(ctx context.Context) (domain.Directive, error) {
	if err := ctx.Err(); err != nil {
		return domain.Directive{}, err
	}
	if !g.scanner.Scan() {
		if err := g.scanner.Err(); err != nil {
			return domain.Directive{}, fmt.Errorf("read corpus: %w", err)
		}
		return domain.Directive{}, domain.ErrExhausted
	}
	g.line++
	d, err := domain.ParseDirective(g.scanner.Text())
	if err != nil {
		return domain.Directive{}, fmt.Errorf("%s:%d: %w", g.path, g.line, err)
	}
	return d, nil
}

func (g *replayGen) Close() error {
	return g.file.Close()
}
