package executor

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reorg/internal/conflict"
	"reorg/internal/fileutil"
	"reorg/internal/logging"
	"reorg/internal/plan"
)

// Mode selects whether a run mutates the filesystem.
type Mode string

const (
	// Preview runs all gating and conflict-resolution logic and counts every
	// would-be operation without touching the filesystem.
	Preview Mode = "preview"
	// Apply performs the planned mutations.
	Apply Mode = "apply"
)

// DefaultWorkers bounds the pool used for file-level plans when the caller
// does not set a limit.
const DefaultWorkers = 8

// ErrEmptyPlan is returned when a run is started with no operations; an
// empty resolved plan is a whole-run failure, never a silent no-op.
var ErrEmptyPlan = errors.New("executor: empty plan")

// Options configures an Executor.
type Options struct {
	Mode Mode
	// Workers bounds the pool for file-level plans. Zero means
	// DefaultWorkers. Directory-level plans always run sequentially.
	Workers  int
	Resolver *conflict.Resolver
	Progress ProgressObserver
	Logs     LogObserver
	// ProgressStep is the minimum percentage advance between intermediate
	// updates; ProgressInterval the minimum elapsed time that forces one.
	ProgressStep     float64
	ProgressInterval time.Duration
	Logger           *slog.Logger
}

// ItemError records a per-entry failure. Item errors never abort the batch.
type ItemError struct {
	Op     plan.Operation
	Reason string
}

// Result aggregates a run's outcome tallies.
type Result struct {
	Mode      Mode
	Planned   int
	Succeeded int
	Skipped   int
	Failed    int
	// Transferred counts the succeeded move and copy items, excluding
	// directory bookkeeping operations. A merge counts as one item.
	Transferred int
	// Applied lists the operations actually performed, in application
	// order, with effective destinations and timestamps. Empty in preview.
	Applied    []plan.Operation
	ItemErrors []ItemError
}

// Executor applies or previews plans.
type Executor struct {
	mode     Mode
	workers  int
	resolver *conflict.Resolver
	progress ProgressObserver
	logs     LogObserver
	step     float64
	interval time.Duration
	logger   *slog.Logger
}

// New constructs an executor. A nil resolver gets the auto policies.
func New(opts Options) *Executor {
	mode := opts.Mode
	if mode == "" {
		mode = Preview
	}
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = conflict.NewResolver(conflict.PolicyAuto, conflict.PolicyAuto)
	}
	return &Executor{
		mode:     mode,
		workers:  workers,
		resolver: resolver,
		progress: opts.Progress,
		logs:     opts.Logs,
		step:     opts.ProgressStep,
		interval: opts.ProgressInterval,
		logger:   logging.NewComponentLogger(opts.Logger, "executor"),
	}
}

// Run executes the plan. File-level plans fan out across the worker pool in
// apply mode; dissolve and direct-migration plans run sequentially since
// they mutate shared parent directories.
func (e *Executor) Run(p *plan.Plan) (*Result, error) {
	if p == nil || p.IsEmpty() {
		return nil, ErrEmptyPlan
	}
	ops := p.Operations()
	r := &run{
		e:        e,
		throttle: newThrottle(e.progress, e.step, e.interval),
		result:   &Result{Mode: e.mode, Planned: len(ops)},
		total:    len(ops),
	}
	r.throttle.publish(Progress{Total: r.total})

	if e.mode == Apply && p.FileLevel() && e.workers > 1 {
		// Leading CreateDir ops establish the target before workers start.
		for len(ops) > 0 && ops[0].Type == plan.OpCreateDir {
			r.execute(ops[0])
			ops = ops[1:]
		}
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.workers)
		for _, op := range ops {
			wg.Add(1)
			sem <- struct{}{}
			go func(op plan.Operation) {
				defer wg.Done()
				defer func() { <-sem }()
				r.execute(op)
			}(op)
		}
		wg.Wait()
	} else {
		for _, op := range ops {
			r.execute(op)
		}
	}

	// The final advance publishes 100% unconditionally; flush covers any
	// update still held by the throttle before the run reports completion.
	r.throttle.flush()
	return r.result, nil
}

// run holds the per-invocation state; a single mutex guards the shared
// tallies across workers.
type run struct {
	e        *Executor
	throttle *throttle

	mu     sync.Mutex
	result *Result
	done   int
	total  int
}

func (r *run) execute(op plan.Operation) {
	defer r.advance()
	switch op.Type {
	case plan.OpCreateDir:
		r.createDir(op)
	case plan.OpMove, plan.OpCopy:
		r.transfer(op)
	case plan.OpDeleteDir:
		r.deleteDir(op)
	default:
		r.fail(op, fmt.Sprintf("unknown operation type %q", op.Type))
	}
}

func (r *run) transfer(op plan.Operation) {
	dec, err := r.e.resolver.Resolve(op.Src, op.Dst)
	if err != nil {
		r.fail(op, err.Error())
		return
	}
	switch dec.Outcome {
	case conflict.OutcomeSkip:
		r.skip(op, "destination exists")
		return
	case conflict.OutcomeRename:
		r.log("info", fmt.Sprintf("conflict: %s renamed to %s", op.Dst, dec.Dst))
	case conflict.OutcomeReplace:
		r.log("info", fmt.Sprintf("conflict: replacing %s", dec.Dst))
	case conflict.OutcomeMerge:
		r.mergeTransfer(op)
		return
	}

	if r.e.mode == Preview {
		r.succeedTransfer()
		return
	}
	if dec.Outcome == conflict.OutcomeReplace {
		if err := os.RemoveAll(dec.Dst); err != nil {
			r.fail(op, err.Error())
			return
		}
	}
	if err := r.performTransfer(op.Type, op.Src, dec.Dst); err != nil {
		r.fail(op, err.Error())
		return
	}
	r.applied(plan.Operation{Type: op.Type, Src: op.Src, Dst: dec.Dst})
	r.succeedTransfer()
}

func (r *run) performTransfer(typ plan.OpType, src, dst string) error {
	if typ == plan.OpCopy {
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fileutil.CopyTree(src, dst)
		}
		return fileutil.CopyFile(src, dst)
	}
	return fileutil.MoveFile(src, dst)
}

// mergeTransfer folds the source directory into an existing destination
// directory, resolving every nested collision under the same policies. The
// whole merge counts as one item.
func (r *run) mergeTransfer(op plan.Operation) {
	if r.e.mode == Preview {
		r.succeedTransfer()
		return
	}
	if err := r.mergeInto(op.Type, op.Src, op.Dst); err != nil {
		r.fail(op, err.Error())
		return
	}
	if op.Type == plan.OpMove {
		if _, err := fileutil.RemoveEmptyTree(op.Src); err != nil {
			r.fail(op, err.Error())
			return
		}
	}
	r.succeedTransfer()
}

func (r *run) mergeInto(typ plan.OpType, src, dst string) error {
	entries, err := fileutil.SortedEntries(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		s := filepath.Join(src, entry.Name())
		d := filepath.Join(dst, entry.Name())
		dec, err := r.e.resolver.Resolve(s, d)
		if err != nil {
			return err
		}
		switch dec.Outcome {
		case conflict.OutcomeSkip:
			r.log("info", fmt.Sprintf("merge: keeping existing %s", d))
			continue
		case conflict.OutcomeMerge:
			if err := r.mergeInto(typ, s, d); err != nil {
				return err
			}
			if typ == plan.OpMove {
				if _, err := fileutil.RemoveEmptyTree(s); err != nil {
					return err
				}
			}
			continue
		case conflict.OutcomeReplace:
			if err := os.RemoveAll(dec.Dst); err != nil {
				return err
			}
		}
		if err := r.performTransfer(typ, s, dec.Dst); err != nil {
			return err
		}
		if typ == plan.OpMove {
			r.applied(plan.Operation{Type: plan.OpMove, Src: s, Dst: dec.Dst})
		}
	}
	return nil
}

func (r *run) createDir(op plan.Operation) {
	if r.e.mode == Preview {
		r.succeed()
		return
	}
	if _, err := os.Stat(op.Src); err == nil {
		r.succeed()
		return
	}
	if err := os.MkdirAll(op.Src, 0o755); err != nil {
		r.fail(op, err.Error())
		return
	}
	r.applied(plan.Operation{Type: plan.OpCreateDir, Src: op.Src})
	r.succeed()
}

func (r *run) deleteDir(op plan.Operation) {
	if r.e.mode == Preview {
		r.succeed()
		return
	}
	removed, err := fileutil.RemoveEmptyTree(op.Src)
	if err != nil {
		if os.IsNotExist(err) {
			r.skip(op, "already removed")
			return
		}
		r.fail(op, err.Error())
		return
	}
	if !removed {
		// Content survived earlier skips; leaving the directory in place is
		// a deliberate outcome, not a failure.
		r.skip(op, "directory not empty")
		return
	}
	r.applied(plan.Operation{Type: plan.OpDeleteDir, Src: op.Src})
	r.succeed()
}

func (r *run) succeed() {
	r.mu.Lock()
	r.result.Succeeded++
	r.mu.Unlock()
}

func (r *run) succeedTransfer() {
	r.mu.Lock()
	r.result.Succeeded++
	r.result.Transferred++
	r.mu.Unlock()
}

func (r *run) skip(op plan.Operation, reason string) {
	r.mu.Lock()
	r.result.Skipped++
	r.mu.Unlock()
	r.log("info", fmt.Sprintf("skipped %s: %s", op.Src, reason))
}

func (r *run) fail(op plan.Operation, reason string) {
	r.mu.Lock()
	r.result.Failed++
	r.result.ItemErrors = append(r.result.ItemErrors, ItemError{Op: op, Reason: reason})
	r.mu.Unlock()
	r.e.logger.Warn("item failed",
		logging.String("op", string(op.Type)),
		logging.String("src", op.Src),
		logging.String("reason", reason))
	r.log("error", fmt.Sprintf("%s %s: %s", op.Type, op.Src, reason))
}

func (r *run) applied(op plan.Operation) {
	op.Timestamp = time.Now().UTC()
	r.mu.Lock()
	r.result.Applied = append(r.result.Applied, op)
	r.mu.Unlock()
}

func (r *run) advance() {
	r.mu.Lock()
	r.done++
	done := r.done
	r.mu.Unlock()
	pct := float64(done) / float64(r.total) * 100
	r.throttle.publish(Progress{Done: done, Total: r.total, Percent: pct})
}

func (r *run) log(level, message string) {
	if r.e.logs != nil {
		r.e.logs.OnLog(level, message)
	}
}
