package core

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// =============================================================================
// LauncherState
// =============================================================================

// LauncherState is a step of the launch sequence. States only move forward;
// a failure at any step jumps straight to StateExit.
type LauncherState int

const (
	StateParsing LauncherState = iota
	StateBarrierInit
	StateSpawning
	StateAwaitingStart
	StateJoining
	StateTeardown
	StateExit
)

func (s LauncherState) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateBarrierInit:
		return "barrier-init"
	case StateSpawning:
		return "spawning"
	case StateAwaitingStart:
		return "awaiting-start"
	case StateJoining:
		return "joining"
	case StateTeardown:
		return "teardown"
	case StateExit:
		return "exit"
	default:
		return "unknown"
	}
}

// =============================================================================
// Launcher
// =============================================================================

// Launcher creates the configured workers one by one, releases them together
// through a barrier, and joins them in creation order.
//
// The launcher owns the barrier for its whole lifetime. It runs once.
type Launcher struct {
	cfg   LaunchConfig
	specs []ThreadSpec
	opts  LauncherOptions

	barrier *Barrier
	workers []*Worker
	threads []Thread

	mu      sync.Mutex
	state   LauncherState
	created int
	joined  int
	err     error
	ran     bool
}

// NewLauncher validates cfg and prepares a launcher. No thread is created yet.
func NewLauncher(cfg LaunchConfig, opts *LauncherOptions) (*Launcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := opts.withDefaults()
	if o.Platform == nil {
		return nil, errors.New("launcher needs a platform")
	}
	o.Output = newLockedWriter(o.Output)

	return &Launcher{
		cfg:   cfg,
		specs: cfg.ThreadSpecs(),
		opts:  o,
		state: StateParsing,
	}, nil
}

// Run executes the full launch sequence and returns the first fatal error.
// The returned error is an *OpError naming the failing operation.
func (l *Launcher) Run() error {
	l.mu.Lock()
	if l.ran {
		l.mu.Unlock()
		return ErrAlreadyRun
	}
	l.ran = true
	l.mu.Unlock()

	steps := []struct {
		state LauncherState
		fn    func() error
	}{
		{StateBarrierInit, l.initializeBarrier},
		{StateSpawning, l.spawnWorkers},
		{StateAwaitingStart, l.releaseAndWait},
		{StateJoining, l.joinAll},
		{StateTeardown, l.teardownBarrier},
	}
	for _, step := range steps {
		l.setState(step.state)
		if err := step.fn(); err != nil {
			return l.fail(err)
		}
	}
	l.setState(StateExit)
	l.opts.Logger.Debug("launch complete", F("threads", len(l.specs)))
	return nil
}

func (l *Launcher) initializeBarrier() error {
	parties := len(l.specs) + 1
	b, err := NewBarrier(parties, l.onAllReady)
	if err != nil {
		return newOpError(OpBarrierInit, noThread, err)
	}
	l.barrier = b
	l.opts.Logger.Debug("barrier initialized", F("parties", parties))
	return nil
}

// onAllReady runs on the last party to reach the barrier, before any release.
func (l *Launcher) onAllReady() {
	l.opts.Logger.Info("workers released", F("threads", len(l.specs)))
}

func (l *Launcher) spawnWorkers() error {
	workload := l.cfg.Workload()
	l.mu.Lock()
	l.workers = make([]*Worker, 0, len(l.specs))
	l.threads = make([]Thread, 0, len(l.specs))
	l.mu.Unlock()

	for _, spec := range l.specs {
		if l.barrier.Broken() != nil {
			// An earlier worker failed its setup; releaseAndWait reports it.
			break
		}
		w := newWorker(spec, workload, l.barrier, l.opts)
		th, err := l.spawn(spec, w)
		if err != nil {
			// Release the workers already blocked at the barrier; none of them runs its workload.
			l.barrier.Break(err)
			return err
		}
		l.mu.Lock()
		l.workers = append(l.workers, w)
		l.threads = append(l.threads, th)
		l.created++
		l.mu.Unlock()
		l.opts.Metrics.RecordThreadCreated(spec)
		l.opts.Logger.Debug("thread created",
			F("thread", spec.Index),
			F("tid", th.ID()),
			F("policy", spec.Policy.Name()),
			F("priority", spec.Priority))
	}
	return nil
}

// spawn builds the descriptor for one worker, creates its thread and destroys
// the descriptor. Scheduling is always explicit, never inherited from the launcher.
func (l *Launcher) spawn(spec ThreadSpec, w *Worker) (Thread, error) {
	attr := NewThreadAttr()
	if err := attr.SetInheritSched(InheritSchedExplicit); err != nil {
		return nil, newOpError(OpAttrSetInherit, spec.Index, err)
	}
	if err := attr.SetSchedPolicy(spec.Policy); err != nil {
		return nil, newOpError(OpAttrSetPolicy, spec.Index, err)
	}
	if spec.HasPriority() {
		if err := attr.SetSchedParam(spec.Priority); err != nil {
			return nil, newOpError(OpAttrSetParam, spec.Index, err)
		}
	}

	th, err := l.opts.Platform.CreateThread(attr, func() { _ = w.Run() })
	if err != nil {
		return nil, newOpError(OpThreadCreate, spec.Index, err)
	}

	if err := attr.Destroy(); err != nil {
		return nil, newOpError(OpAttrDestroy, spec.Index, err)
	}
	return th, nil
}

// releaseAndWait makes the launcher the last of the N+1 parties.
func (l *Launcher) releaseAndWait() error {
	start := time.Now()
	if err := l.barrier.Wait(); err != nil {
		// A worker that failed its setup broke the barrier with its own OpError.
		var opErr *OpError
		if errors.As(err, &opErr) {
			return opErr
		}
		return newOpError(OpBarrierWait, noThread, err)
	}
	l.opts.Metrics.RecordBarrierWait(time.Since(start))
	return nil
}

func (l *Launcher) joinAll() error {
	for i, th := range l.threads {
		if err := th.Join(); err != nil {
			return newOpError(OpThreadJoin, i, err)
		}
		l.mu.Lock()
		l.joined++
		l.mu.Unlock()
		l.opts.Logger.Debug("thread joined", F("thread", i))
	}
	return nil
}

func (l *Launcher) teardownBarrier() error {
	if err := l.barrier.Destroy(); err != nil {
		return newOpError(OpBarrierDestroy, noThread, err)
	}
	return nil
}

func (l *Launcher) fail(err error) error {
	var opErr *OpError
	if errors.As(err, &opErr) {
		l.opts.Metrics.RecordFailure(opErr.Op)
	}
	l.mu.Lock()
	l.state = StateExit
	l.err = err
	l.mu.Unlock()
	return err
}

func (l *Launcher) setState(s LauncherState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// State returns the current step of the launch sequence.
func (l *Launcher) State() LauncherState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Stats returns a snapshot of the launcher's progress.
func (l *Launcher) Stats() LauncherStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LauncherStats{
		State:   l.state,
		Threads: len(l.specs),
		Created: l.created,
		Joined:  l.joined,
		Err:     l.err,
	}
}

// Workers returns the workers created so far, in creation order.
func (l *Launcher) Workers() []*Worker {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Worker, len(l.workers))
	copy(out, l.workers)
	return out
}
