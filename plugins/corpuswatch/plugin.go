// Package corpuswatch provides corpus file monitoring for canfuzz.
// When enabled, it watches the corpus the run appends to and reports
// growth, plus any line that would not survive a later replay.
package corpuswatch

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/pkg/canfuzz"
	"github.com/bft-labs/canfuzz/pkg/log"
)

// Plugin implements corpus watching functionality.
// It monitors the configured corpus file and logs line-count growth as
// the run records directives. Appended lines are validated with the
// same codec the replay strategy uses, so a corrupt append is reported
// while the run is still alive instead of failing a replay weeks later.
type Plugin struct {
	mu sync.RWMutex

	// Configuration
	rescanInterval time.Duration
	debounceDelay  time.Duration

	// Runtime state
	corpusPath string
	logger     canfuzz.Logger
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	debounce   *time.Timer

	// scanMu serializes scans; a debounced scan and the backstop
	// rescan can fire close together.
	scanMu sync.Mutex

	// lastCount is the number of lines seen by the previous scan.
	// The corpus is append-only, so lines below it are never re-checked.
	lastCount int
}

// Config holds configuration options for the corpus watcher plugin.
type Config struct {
	// RescanInterval is the delay between unconditional rescans, a
	// backstop for filesystems that drop change notifications.
	// Default: 30 seconds
	RescanInterval time.Duration

	// DebounceDelay is the delay to wait after a file change before
	// rescanning. Default: 100 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		RescanInterval: 30 * time.Second,
		DebounceDelay:  100 * time.Millisecond,
	}
}

// New creates a new corpus watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.RescanInterval <= 0 {
		cfg.RescanInterval = 30 * time.Second
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 100 * time.Millisecond
	}

	return &Plugin{
		rescanInterval: cfg.RescanInterval,
		debounceDelay:  cfg.DebounceDelay,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "corpuswatch"
}

// Initialize sets up the plugin and starts the corpus watcher.
func (p *Plugin) Initialize(ctx context.Context, cfg canfuzz.PluginConfig) error {
	p.mu.Lock()
	p.corpusPath = cfg.CorpusFile
	p.logger = cfg.Logger
	p.mu.Unlock()

	if p.corpusPath == "" {
		p.logger.Warn("Corpus watcher disabled: no corpus file configured")
		return nil
	}

	// Create cancellable context for the watcher loop
	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("Corpus watcher plugin initialized")

	// Start watcher loop
	p.wg.Add(1)
	go p.watchLoop(watchCtx)

	return nil
}

// Shutdown stops the corpus watcher.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return nil
}

// watchLoop watches for corpus file changes.
func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("Corpus watcher: failed to create watcher", log.Err(err))
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: the corpus may not exist yet,
	// and a rename or recreate would detach a file-level watch.
	corpusDir := filepath.Dir(p.corpusPath)
	if err := watcher.Add(corpusDir); err != nil {
		p.logger.Error("Corpus watcher: failed to watch directory",
			log.String("dir", corpusDir), log.Err(err))
		p.scan(true)
		return
	}

	// Baseline count before any events arrive
	p.scan(true)

	ticker := time.NewTicker(p.rescanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(p.corpusPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceScan(ctx, p.debounceDelay)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("Corpus watcher: watcher error", log.Err(err))

		case <-ticker.C:
			p.scan(false)
		}
	}
}

func (p *Plugin) debounceScan(ctx context.Context, delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}

	p.debounce = time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		p.scan(false)
	})
}

// lineError records a corpus line that failed directive validation.
type lineError struct {
	line int
	err  error
}

// scan recounts the corpus and reports growth since the previous scan.
func (p *Plugin) scan(initial bool) {
	p.scanMu.Lock()
	defer p.scanMu.Unlock()

	p.mu.RLock()
	prev := p.lastCount
	p.mu.RUnlock()

	count, malformed, err := p.checkFrom(prev)
	if err != nil {
		if os.IsNotExist(err) {
			if initial {
				p.logger.Info("Corpus watcher: waiting for corpus",
					log.String("path", p.corpusPath))
			}
			return
		}
		p.logger.Error("Corpus watcher: read failed",
			log.String("path", p.corpusPath), log.Err(err))
		return
	}

	if count < prev {
		// The file was rewritten under us. Restart validation from the top.
		count, malformed, err = p.checkFrom(0)
		if err != nil {
			p.logger.Error("Corpus watcher: read failed",
				log.String("path", p.corpusPath), log.Err(err))
			return
		}
		p.logger.Warn("Corpus watcher: corpus rewritten",
			log.String("path", p.corpusPath), log.Int("lines", count))
	}

	p.mu.Lock()
	p.lastCount = count
	p.mu.Unlock()

	for _, bad := range malformed {
		p.logger.Warn("Corpus watcher: malformed directive",
			log.String("path", p.corpusPath),
			log.Int("line", bad.line),
			log.Err(bad.err))
	}

	switch {
	case initial:
		p.logger.Info("Corpus watcher: watching corpus",
			log.String("path", p.corpusPath), log.Int("lines", count))
	case count > prev:
		p.logger.Info("Corpus watcher: corpus grew",
			log.Int("lines", count), log.Int("added", count-prev))
	}
}

// checkFrom counts corpus lines, validating those at or beyond the
// given index. Replay accepts no blanks and no comments, so neither
// does the watcher.
func (p *Plugin) checkFrom(from int) (int, []lineError, error) {
	f, err := os.Open(p.corpusPath)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	var count int
	var malformed []lineError

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		idx := count
		count++
		if idx < from {
			continue
		}
		if _, perr := domain.ParseDirective(sc.Text()); perr != nil {
			malformed = append(malformed, lineError{line: idx + 1, err: perr})
		}
	}
	if err := sc.Err(); err != nil {
		return 0, nil, err
	}
	return count, malformed, nil
}

// Ensure Plugin implements canfuzz.Plugin.
var _ canfuzz.Plugin = (*Plugin)(nil)
