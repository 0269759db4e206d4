package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/canfuzz/internal/domain"
	"github.com/bft-labs/canfuzz/internal/ports"
	"github.com/bft-labs/canfuzz/pkg/log"
)

// RunnerConfig contains configuration for the dispatch loop.
type RunnerConfig struct {
	// RunID identifies the run in checkpoints and logs.
	RunID string

	// Algorithm is the active strategy name, recorded in checkpoints.
	Algorithm string

	// Count stops the run after this many directives. Zero means
	// unbounded.
	Count uint64

	// Gap is an optional pause between iterations, on top of the
	// transport's response window.
	Gap time.Duration

	// LogDepth is the bounded log capacity. Zero disables recording.
	LogDepth int

	// CheckpointEvery is the number of iterations between periodic
	// checkpoint saves. Zero disables periodic saves; a final save
	// still happens on exit.
	CheckpointEvery uint64

	// StartIteration offsets the iteration counter when resuming.
	StartIteration uint64
}

// Runner drives one generator to completion or cancellation: generate,
// send, observe, log, persist, repeat. The loop is strictly sequential;
// the only asynchronous element is the transport's response callback
// during the observation window.
type Runner struct {
	config      RunnerConfig
	gen         ports.Generator
	transport   ports.Transport
	corpus      ports.CorpusSink
	checkpoints ports.CheckpointStore
	logger      log.Logger
	emitter     DispatchEventEmitter

	mu         sync.Mutex
	recent     *domain.BoundedLog
	iterations uint64
	last       domain.Directive
}

// DispatchEventEmitter is called as directives are dispatched.
type DispatchEventEmitter interface {
	OnDirective(d domain.Directive, iteration uint64)
	OnResponse(d domain.Directive, r ports.Response)
}

// NewRunner creates a runner with the given dependencies. corpus,
// checkpoints and emitter may be nil.
func NewRunner(
	config RunnerConfig,
	gen ports.Generator,
	transport ports.Transport,
	corpus ports.CorpusSink,
	checkpoints ports.CheckpointStore,
	logger log.Logger,
	emitter DispatchEventEmitter,
) *Runner {
	return &Runner{
		config:      config,
		gen:         gen,
		transport:   transport,
		corpus:      corpus,
		checkpoints: checkpoints,
		logger:      logger,
		emitter:     emitter,
		recent:      domain.NewBoundedLog(config.LogDepth),
		iterations:  config.StartIteration,
	}
}

// Run executes the dispatch loop.
// It returns nil when a bounded strategy exhausts its space or the
// configured count is reached, and ctx.Err() on cancellation. The
// final checkpoint and corpus flush happen on every exit path.
func (r *Runner) Run(ctx context.Context) error {
	defer r.finish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if r.config.Count > 0 && r.Iterations()-r.config.StartIteration >= r.config.Count {
			r.logger.Info("directive count reached", log.Uint64("count", r.config.Count))
			return nil
		}

		d, err := r.gen.Next(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrExhausted) {
				r.logger.Info("search space exhausted", log.Uint64("iterations", r.Iterations()))
				return nil
			}
			return err
		}

		if err := r.dispatch(ctx, d); err != nil {
			return err
		}

		iteration := r.record(d)

		if r.emitter != nil {
			r.emitter.OnDirective(d, iteration)
		}
		r.logger.Debug("dispatched directive",
			log.String("directive", d.String()),
			log.Uint64("iteration", iteration),
		)

		if r.corpus != nil {
			if err := r.corpus.Write(d); err != nil {
				return fmt.Errorf("append corpus: %w", err)
			}
		}

		if r.checkpoints != nil && r.config.CheckpointEvery > 0 && iteration%r.config.CheckpointEvery == 0 {
			r.saveCheckpoint(ctx)
			if r.corpus != nil {
				if err := r.corpus.Flush(); err != nil {
					r.logger.Error("failed to flush corpus", log.Err(err))
				}
			}
		}

		if r.config.Gap > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.config.Gap):
			}
		}
	}
}

// dispatch opens a session bound to the directive's id, sends the
// payload and observes responses for the transport's window. The
// session is released on every exit path.
func (r *Runner) dispatch(ctx context.Context, d domain.Directive) error {
	id, err := d.IDValue()
	if err != nil {
		return err
	}
	payload, err := d.PayloadBytes()
	if err != nil {
		return err
	}

	session, err := r.transport.Open(ctx, id)
	if err != nil {
		return fmt.Errorf("open session for %s: %w", d, err)
	}
	defer session.Close()

	// The callback binds the directive it belongs to, not a loop
	// variable that changes before the response arrives.
	sent := d
	callback := func(resp ports.Response) {
		r.logger.Info("response observed",
			log.String("directive", sent.String()),
			log.Uint32("response_id", resp.ID),
			log.String("response_data", fmt.Sprintf("%X", resp.Data)),
		)
		if r.emitter != nil {
			r.emitter.OnResponse(sent, resp)
		}
	}

	if err := session.SendWithCallback(ctx, payload, callback); err != nil {
		return fmt.Errorf("send %s: %w", d, err)
	}
	return nil
}

// record appends the directive to the bounded log and returns the new
// iteration number.
func (r *Runner) record(d domain.Directive) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.iterations++
	r.last = d
	r.recent.Append(d.String())
	return r.iterations
}

// Iterations returns the number of directives dispatched so far,
// including those of the resumed-from run.
func (r *Runner) Iterations() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.iterations
}

// Recent returns the retained directive lines, oldest first.
func (r *Runner) Recent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recent.Snapshot()
}

// saveCheckpoint persists the resume cursor. Failures are logged, not
// fatal: losing a checkpoint must not kill a running sweep.
func (r *Runner) saveCheckpoint(ctx context.Context) {
	if r.checkpoints == nil {
		return
	}
	r.mu.Lock()
	iterations, last := r.iterations, r.last
	r.mu.Unlock()
	// Nothing dispatched yet: keep the previous checkpoint intact.
	if iterations == r.config.StartIteration {
		return
	}

	cp := domain.Checkpoint{RunID: r.config.RunID}
	cp.Update(r.config.Algorithm, iterations, last)
	if err := r.checkpoints.Save(ctx, cp); err != nil {
		r.logger.Error("failed to save checkpoint", log.Err(err))
	}
}

// finish flushes the corpus and writes the final checkpoint.
func (r *Runner) finish() {
	ctx := context.Background()
	if r.corpus != nil {
		if err := r.corpus.Flush(); err != nil {
			r.logger.Error("failed to flush corpus", log.Err(err))
		}
	}
	r.saveCheckpoint(ctx)
}
