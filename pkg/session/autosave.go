package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/io"
	"github.com/matzehuels/formwork/pkg/observability"
	"github.com/matzehuels/formwork/pkg/store"
	"github.com/matzehuels/formwork/pkg/template"
)

// DefaultSaveTimeout bounds a single autosave write.
const DefaultSaveTimeout = 10 * time.Second

type snapshot struct {
	id   string
	data []byte
}

// Autosaver writes template snapshots to a store on a background goroutine.
//
// The queue holds at most one pending snapshot: enqueueing replaces whatever
// has not been written yet, so a burst of edits costs one write and the
// store always ends up with the latest state. The autosaver is the only
// writer it starts, and it never touches the live definition.
type Autosaver struct {
	store    store.Store
	logger   *log.Logger
	hooks    observability.StoreHooks
	debounce time.Duration
	timeout  time.Duration

	queue chan snapshot
	stop  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once

	mu      sync.Mutex
	started bool
	closed  bool
	saved   int
	lastErr error
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithDebounce waits d after a snapshot arrives before writing it, so that
// snapshots arriving in the meantime replace it.
func WithDebounce(d time.Duration) AutosaveOption {
	return func(a *Autosaver) { a.debounce = d }
}

// WithSaveTimeout bounds each write. The default is DefaultSaveTimeout.
func WithSaveTimeout(d time.Duration) AutosaveOption {
	return func(a *Autosaver) { a.timeout = d }
}

// WithAutosaveLogger sets the logger. The default is log.Default().
func WithAutosaveLogger(l *log.Logger) AutosaveOption {
	return func(a *Autosaver) { a.logger = l }
}

// WithStoreHooks sets the hooks that observe each write.
func WithStoreHooks(h observability.StoreHooks) AutosaveOption {
	return func(a *Autosaver) { a.hooks = h }
}

// NewAutosaver returns an autosaver writing to st. It starts when a session
// takes it (or on the first Enqueue) and stops on Close.
func NewAutosaver(st store.Store, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		store:   st,
		timeout: DefaultSaveTimeout,
		queue:   make(chan snapshot, 1),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	if a.hooks == nil {
		a.hooks = observability.NoopStoreHooks{}
	}
	return a
}

func (a *Autosaver) start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started || a.closed {
		return
	}
	a.started = true
	a.wg.Add(1)
	go a.loop()
}

// Enqueue encodes d on the calling goroutine and queues the snapshot,
// replacing any snapshot that has not been written yet.
func (a *Autosaver) Enqueue(d *template.Definition) error {
	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if closed {
		return ferrors.New(ferrors.ErrCodeUnsupported, "autosaver is closed")
	}
	data, err := io.Marshal(d)
	if err != nil {
		return err
	}
	a.start()

	snap := snapshot{id: d.ID, data: data}
	for {
		select {
		case a.queue <- snap:
			return nil
		default:
		}
		// Drop the stale pending snapshot and try again.
		select {
		case <-a.queue:
		default:
		}
	}
}

func (a *Autosaver) loop() {
	defer a.wg.Done()
	for {
		select {
		case snap := <-a.queue:
			snap, stopped := a.settle(snap)
			a.write(snap)
			if stopped {
				a.drain()
				return
			}
		case <-a.stop:
			a.drain()
			return
		}
	}
}

// settle waits out the debounce window, keeping the newest snapshot.
func (a *Autosaver) settle(snap snapshot) (snapshot, bool) {
	if a.debounce <= 0 {
		return snap, false
	}
	timer := time.NewTimer(a.debounce)
	defer timer.Stop()
	for {
		select {
		case newer := <-a.queue:
			snap = newer
		case <-timer.C:
			return snap, false
		case <-a.stop:
			return snap, true
		}
	}
}

func (a *Autosaver) drain() {
	select {
	case snap := <-a.queue:
		a.write(snap)
	default:
	}
}

func (a *Autosaver) write(snap snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	start := time.Now()
	d, err := io.Unmarshal(snap.data)
	if err == nil {
		err = a.store.Put(ctx, d)
	}
	a.hooks.OnSave(ctx, snap.id, len(snap.data), time.Since(start), err)

	a.mu.Lock()
	a.lastErr = err
	if err == nil {
		a.saved++
	}
	a.mu.Unlock()

	if err != nil {
		a.logger.Warn("autosave failed", "id", snap.id, "err", err)
		return
	}
	a.logger.Debug("autosaved", "id", snap.id, "bytes", len(snap.data))
}

// Saved returns the number of successful writes.
func (a *Autosaver) Saved() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saved
}

// Err returns the error of the most recent write, or nil if it succeeded.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close writes any pending snapshot, stops the goroutine and returns the
// error of the last write. Further Enqueue calls fail.
func (a *Autosaver) Close() error {
	a.once.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.mu.Unlock()
		close(a.stop)
		a.wg.Wait()
	})
	return a.Err()
}
