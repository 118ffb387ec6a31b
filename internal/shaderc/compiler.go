package shaderc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// Request names one source file to (re)compile, per §4.6.
type Request struct {
	SourcePath string
}

// Compiler is the background worker described in §4.6: a single
// goroutine drains a bounded request queue, content-hashing each
// source and skipping recompilation when the hash already matches the
// persisted record. Grounded on the teacher's worker-lifecycle style
// (goroutine + explicit shutdown signal), generalized to use
// errgroup.Group for the worker's error propagation rather than a bare
// WaitGroup, matching the wider pack's errgroup usage.
type Compiler struct {
	store   *store
	lowerer Lowerer
	log     *slog.Logger

	queue     chan Request
	group     *errgroup.Group
	cancel    context.CancelFunc
	terminate atomic.Bool
}

// NewCompiler opens the persistent store at storePath and starts the
// single worker goroutine. queueSize bounds the number of pending
// requests SubmitWork can enqueue without blocking.
func NewCompiler(storePath string, lowerer Lowerer, queueSize int, log *slog.Logger) (*Compiler, error) {
	st, err := openStore(storePath)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	c := &Compiler{
		store:   st,
		lowerer: lowerer,
		log:     log,
		queue:   make(chan Request, queueSize),
		group:   group,
		cancel:  cancel,
	}
	group.Go(func() error {
		c.run(ctx)
		return nil
	})
	return c, nil
}

func (c *Compiler) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-c.queue:
			if !ok {
				return
			}
			if err := c.Compile(req); err != nil {
				c.log.Error("shaderc: compile failed", "source", req.SourcePath, "error", err)
			}
		}
	}
}

// SubmitWork enqueues req for the worker, per §4.6's public
// submit_work. It returns ErrClosed once Shutdown has been called.
func (c *Compiler) SubmitWork(req Request) error {
	if c.terminate.Load() {
		return ErrClosed
	}
	select {
	case c.queue <- req:
		return nil
	default:
		return fmt.Errorf("shaderc: request queue is full")
	}
}

// Compile runs §4.6 steps 1-6 synchronously for req. It is exported
// directly (rather than only reachable via the worker) so the
// hash-cache/store machinery is unit-testable independent of the
// worker's goroutine scheduling.
func (c *Compiler) Compile(req Request) error {
	stage, ok := StageFromExtension(req.SourcePath)
	if !ok {
		return ErrUnknownStage
	}

	source, err := os.ReadFile(req.SourcePath)
	if err != nil {
		return fmt.Errorf("shaderc: reading %s: %w", req.SourcePath, err)
	}
	newHash := blake3.Sum256(source)

	existing, found, err := c.store.get(req.SourcePath)
	if err != nil {
		return err
	}
	if found && existing.Hash == newHash {
		return nil
	}

	spirv, err := c.lowerer.Lower(stage, source)
	if err != nil {
		return fmt.Errorf("shaderc: lowering %s: %w", req.SourcePath, err)
	}

	spirvPath := req.SourcePath + ".spv"
	if err := os.WriteFile(spirvPath, spirv, 0o644); err != nil {
		return fmt.Errorf("shaderc: writing %s: %w", spirvPath, err)
	}

	return c.store.put(req.SourcePath, record{Hash: newHash, SpirvPath: spirvPath})
}

// Shutdown sets the atomic terminate flag so SubmitWork starts
// rejecting new work, signals the worker, and waits for it to drain
// its current request and exit, per §4.6's shutdown protocol.
func (c *Compiler) Shutdown() error {
	c.terminate.Store(true)
	close(c.queue)
	err := c.group.Wait()
	c.cancel()
	if closeErr := c.store.close(); err == nil {
		err = closeErr
	}
	return err
}
