// Package sphere implements the sphere coordinator of spec 4.G: it owns
// sphere metadata and panel worker handles, runs the frame lifecycle
// (start_frame -> ready_to_commit barrier -> commit broadcast ->
// frame_complete), and carries an inactivity timer with hibernation and
// parent notification (spec 9's "richer variant" open-question
// decision). The coordinator is itself a single goroutine multiplexing
// commands and worker events over channels, generalizing the
// fan-out-then-barrier-collect shape of render/vertex.go:writeVertices
// and render/fewrite.go:writeFE into a long-lived actor instead of a
// one-shot call.
package sphere

import (
	"sync"
	"time"

	"github.com/geof/geof/geoferr"
	"github.com/geof/geof/internal/partition"
	"github.com/geof/geof/internal/topology"
	"github.com/geof/geof/panel"
	"github.com/geof/geof/registry"
)

// FrameEvent is delivered to a start_frame caller's replyTo channel
// exactly once per accepted start_frame: Err is nil for frame_complete,
// non-nil for a failed frame (PerFieldEvaluationFailed or a worker
// crash). The sphere remains usable after a failed frame.
type FrameEvent struct {
	SphereID string
	Err      error
}

// InactiveEvent is emitted to a sphere's parent channel when no
// operation has arrived within the configured inactivity timeout. It is
// a soft signal: no state is lost, and the next operation resumes
// normally.
type InactiveEvent struct {
	SphereID string
}

const defaultInactivityTimeout = 5 * time.Minute

// Option configures a Coordinator at construction, in the teacher's
// functional-option style (render.NewMarchingCubesFEUniform,
// dev.NewDevRenderer's OptMWatchFiles/Opt3Cam).
type Option func(*config)

type config struct {
	panelCount        int
	inactivityTimeout time.Duration
	parent            chan<- InactiveEvent
	initial           map[int]panel.FieldValue
	registry          *registry.Registry
}

// WithPanelCount overrides the automatic hardware-parallelism choice of
// spec 4.E (normally 4 or 8).
func WithPanelCount(n int) Option {
	return func(c *config) { c.panelCount = n }
}

// WithInactivityTimeout overrides the default inactivity timeout.
func WithInactivityTimeout(d time.Duration) Option {
	return func(c *config) { c.inactivityTimeout = d }
}

// WithParent registers a channel that receives InactiveEvent when the
// sphere has been idle past its inactivity timeout.
func WithParent(ch chan<- InactiveEvent) Option {
	return func(c *config) { c.parent = ch }
}

// WithInitialData seeds every field's current value before the first
// frame. Fields not present default to nil.
func WithInitialData(initial map[int]panel.FieldValue) Option {
	return func(c *config) { c.initial = initial }
}

// WithRegistry has every spawned (and later respawned) panel worker
// register its handle under (sphere id, panel index) in r, per spec
// 4.H's (sphereId, panelIndex) -> worker handle directory.
func WithRegistry(r *registry.Registry) Option {
	return func(c *config) { c.registry = r }
}

// Coordinator owns one sphere's panel workers and frame lifecycle.
type Coordinator struct {
	ID         string
	Divisions  int
	PanelCount int

	part *partition.Partition

	workersMu sync.RWMutex
	workers   []*panel.Worker

	readyCh   chan panel.ReadyToCommit
	failCh    chan panel.EvaluationFailure
	crashedCh chan int
	cmds      chan any

	parent            chan<- InactiveEvent
	inactivityTimeout time.Duration
	registry          *registry.Registry

	closed chan struct{}
}

// New creates a sphere coordinator: computes centroids, partitions
// fields into panels, and spawns one worker per panel. Returns
// geoferr.InvalidDivisions if divisions < 1.
func New(id string, divisions int, opts ...Option) (*Coordinator, error) {
	if divisions < 1 {
		return nil, &geoferr.InvalidDivisions{Divisions: divisions}
	}

	cfg := config{
		panelCount:        partition.ChoosePanelCount(),
		inactivityTimeout: defaultInactivityTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	part := partition.Build(divisions, cfg.panelCount)

	c := &Coordinator{
		ID:                id,
		Divisions:         divisions,
		PanelCount:        part.PanelCount,
		part:              part,
		workers:           make([]*panel.Worker, part.PanelCount),
		readyCh:           make(chan panel.ReadyToCommit, part.PanelCount),
		failCh:            make(chan panel.EvaluationFailure, part.PanelCount),
		crashedCh:         make(chan int, part.PanelCount),
		cmds:              make(chan any),
		parent:            cfg.parent,
		inactivityTimeout: cfg.inactivityTimeout,
		registry:          cfg.registry,
		closed:            make(chan struct{}),
	}

	for panelIdx, fields := range part.Fields {
		initial := make(map[int]panel.FieldValue, len(fields))
		for _, f := range fields {
			idx := topology.FlattenedIndex(f, divisions)
			initial[idx] = cfg.initial[idx]
		}
		c.spawnWorker(panelIdx, fields, initial)
	}

	go c.run()
	return c, nil
}

func (c *Coordinator) spawnWorker(panelIdx int, fields []topology.Field, initial map[int]panel.FieldValue) {
	w := panel.NewWorker(panelIdx, c.Divisions, fields, initial, coordinatorPeers{c}, c.readyCh, c.failCh)
	c.workersMu.Lock()
	c.workers[panelIdx] = w
	c.workersMu.Unlock()
	if c.registry != nil {
		c.registry.RegisterPanel(c.ID, panelIdx, w)
	}
	go func() {
		select {
		case <-w.Crashed():
			select {
			case c.crashedCh <- panelIdx:
			case <-c.closed:
			}
		case <-c.closed:
		}
	}()
}

type coordinatorPeers struct{ c *Coordinator }

func (p coordinatorPeers) ReadField(idx int) (panel.FieldValue, bool) {
	panelIdx, ok := p.c.part.PanelOf[idx]
	if !ok {
		return nil, false
	}
	p.c.workersMu.RLock()
	w := p.c.workers[panelIdx]
	p.c.workersMu.RUnlock()
	return w.ReadLocal(idx)
}

type startFrameCmd struct {
	fn           panel.PerFieldFunc
	sphereData   panel.FieldValue
	sphereDataFn func() panel.FieldValue
	replyTo      chan<- FrameEvent
	ack          chan<- error
}

type getAllCmd struct {
	reply chan<- map[int]panel.FieldValue
}

type inFrameCmd struct {
	reply chan<- bool
}

type teardownCmd struct {
	done chan<- struct{}
}

// StartFrame broadcasts per_field_fn to every panel. It returns
// immediately with the acceptance result (nil, or AlreadyInFrame);
// exactly one FrameEvent is later delivered to replyTo when the frame
// completes or fails.
func (c *Coordinator) StartFrame(fn panel.PerFieldFunc, sphereData panel.FieldValue, sphereDataFn func() panel.FieldValue, replyTo chan<- FrameEvent) error {
	ack := make(chan error, 1)
	c.cmds <- startFrameCmd{fn: fn, sphereData: sphereData, sphereDataFn: sphereDataFn, replyTo: replyTo, ack: ack}
	return <-ack
}

// InFrame reports whether a frame is currently in progress.
func (c *Coordinator) InFrame() bool {
	reply := make(chan bool, 1)
	c.cmds <- inFrameCmd{reply: reply}
	return <-reply
}

// GetAllFieldData fans out to every worker and merges their snapshots.
// Safe at any time; during a frame this observes pre-frame state.
func (c *Coordinator) GetAllFieldData() map[int]panel.FieldValue {
	reply := make(chan map[int]panel.FieldValue, 1)
	c.cmds <- getAllCmd{reply: reply}
	return <-reply
}

// Teardown stops the coordinator's run loop. Registered handles should
// be removed from the registry by the caller.
func (c *Coordinator) Teardown() {
	done := make(chan struct{})
	c.cmds <- teardownCmd{done: done}
	<-done
}

// Partition exposes the panel assignment, for export/meshgeo callers
// that need panel indices alongside field geometry.
func (c *Coordinator) Partition() *partition.Partition { return c.part }

func (c *Coordinator) snapshotAll() map[int]panel.FieldValue {
	c.workersMu.RLock()
	workers := append([]*panel.Worker(nil), c.workers...)
	c.workersMu.RUnlock()

	out := make(map[int]panel.FieldValue, topology.FieldCount(c.Divisions))
	for _, w := range workers {
		for idx, v := range w.Snapshot() {
			out[idx] = v
		}
	}
	return out
}

func (c *Coordinator) run() {
	timer := time.NewTimer(c.inactivityTimeout)
	defer timer.Stop()

	var inFrame bool
	var readySet map[int]bool
	var frameReplyTo chan<- FrameEvent
	hibernated := false

	touch := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.inactivityTimeout)
		hibernated = false
	}

	finishFrame := func(err error) {
		inFrame = false
		readySet = nil
		if frameReplyTo != nil {
			// Sent from its own goroutine so the event is not lost when
			// replyTo has no free buffer slot, without blocking the loop.
			go func(ch chan<- FrameEvent, ev FrameEvent) { ch <- ev }(frameReplyTo, FrameEvent{SphereID: c.ID, Err: err})
		}
		frameReplyTo = nil
	}

	for {
		select {
		case cmd := <-c.cmds:
			touch()
			switch m := cmd.(type) {
			case startFrameCmd:
				if inFrame {
					m.ack <- &geoferr.AlreadyInFrame{SphereID: c.ID}
					continue
				}
				data := m.sphereData
				if m.sphereDataFn != nil {
					data = m.sphereDataFn()
				}
				inFrame = true
				readySet = make(map[int]bool, c.PanelCount)
				frameReplyTo = m.replyTo
				m.ack <- nil

				c.workersMu.RLock()
				workers := append([]*panel.Worker(nil), c.workers...)
				c.workersMu.RUnlock()
				for _, w := range workers {
					w.StartFrame(m.fn, data)
				}
			case getAllCmd:
				m.reply <- c.snapshotAll()
			case inFrameCmd:
				m.reply <- inFrame
			case teardownCmd:
				close(c.closed)
				close(m.done)
				return
			}

		case r := <-c.readyCh:
			touch()
			if !inFrame {
				continue
			}
			readySet[r.PanelIndex] = true
			if len(readySet) == c.PanelCount {
				c.workersMu.RLock()
				workers := append([]*panel.Worker(nil), c.workers...)
				c.workersMu.RUnlock()
				for _, w := range workers {
					w.Commit()
				}
				finishFrame(nil)
			}

		case f := <-c.failCh:
			touch()
			if inFrame {
				finishFrame(&geoferr.PerFieldEvaluationFailed{FieldIndex: f.FieldIndex, Cause: f.Cause})
			}

		case panelIdx := <-c.crashedCh:
			touch()
			c.respawn(panelIdx)
			if inFrame {
				finishFrame(&geoferr.PerFieldEvaluationFailed{FieldIndex: -1, Cause: errWorkerCrashed})
			}

		case <-timer.C:
			if !hibernated && c.parent != nil {
				select {
				case c.parent <- InactiveEvent{SphereID: c.ID}:
				default:
				}
			}
			hibernated = true
			timer.Reset(c.inactivityTimeout)
		}
	}
}

var errWorkerCrashed = errCrashed{}

type errCrashed struct{}

func (errCrashed) Error() string { return "geof: panel worker crashed during frame" }

// respawn rebuilds a crashed worker from the known panel assignment and
// its surviving current buffer, per spec 7's recovery policy.
func (c *Coordinator) respawn(panelIdx int) {
	c.workersMu.RLock()
	dead := c.workers[panelIdx]
	c.workersMu.RUnlock()

	c.spawnWorker(panelIdx, c.part.Fields[panelIdx], dead.Snapshot())
}
