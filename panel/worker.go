// Package panel implements the panel worker state machine of spec 4.F: a
// long-lived goroutine owning a double-buffered slice of a sphere's
// fields, driven entirely by channel messages (spec 9: "task-per-panel",
// not "process-per-panel"). The concurrency shape is lifted from the
// teacher's worker pools (render/march3.go:evalRoutines,
// render/dev/implcommon.go:implCommonRender): a channel of jobs feeding a
// fixed pool of goroutines, collected with a sync.WaitGroup.
package panel

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/geof/geof/internal/topology"
)

// FieldValue is an opaque per-field payload, owned entirely by the
// per-field function supplied to a frame.
type FieldValue any

// Adjacents maps a direction to the pre-frame value of the neighbour in
// that direction. A pentagonal field's record has no NE entry.
type Adjacents map[topology.Direction]FieldValue

// PerFieldFunc is the per-field function signature of spec §6.
type PerFieldFunc func(fieldIndex int, fieldData FieldValue, adjacents Adjacents, sphereData FieldValue) (FieldValue, error)

// PeerReader resolves the current (pre-frame) value of any field in the
// sphere, regardless of which panel owns it. The sphere coordinator
// implements this by routing to the owning panel's ReadLocal.
type PeerReader interface {
	ReadField(idx int) (FieldValue, bool)
}

// State is one of the three states of spec 4.F.
type State int32

const (
	Idle State = iota
	Computing
	WaitCommit
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Computing:
		return "computing"
	case WaitCommit:
		return "wait_commit"
	default:
		return "?"
	}
}

// ReadyToCommit is sent to the coordinator when a panel finishes
// computing a frame without error.
type ReadyToCommit struct {
	PanelIndex int
}

// EvaluationFailure is sent to the coordinator when a per-field function
// returns an error during a frame; the panel discards next and returns
// to Idle without waiting for commit.
type EvaluationFailure struct {
	PanelIndex int
	FieldIndex int
	Cause      error
}

// Worker owns one panel: its field set, its double buffer, and the
// goroutine that drives its state machine.
type Worker struct {
	Index     int
	Divisions int
	Fields    []topology.Field

	position map[int]int // flattened field index -> slot in Fields/nextVal

	current atomic.Pointer[map[int]FieldValue]
	nextVal []FieldValue

	state atomic.Int32

	commands chan any
	peers    PeerReader

	readyCh chan<- ReadyToCommit
	failCh  chan<- EvaluationFailure

	crashed   chan struct{}
	crashOnce sync.Once
	lastPanic atomic.Value
}

type startFrameCmd struct {
	fn         PerFieldFunc
	sphereData FieldValue
}

type commitCmd struct {
	done chan struct{}
}

type snapshotCmd struct {
	reply chan map[int]FieldValue
}

// NewWorker constructs a panel worker for the given fields, seeds its
// current buffer with initial, and starts its command loop. peers
// resolves neighbour reads that land outside this panel.
func NewWorker(index, divisions int, fields []topology.Field, initial map[int]FieldValue, peers PeerReader, readyCh chan<- ReadyToCommit, failCh chan<- EvaluationFailure) *Worker {
	w := &Worker{
		Index:     index,
		Divisions: divisions,
		Fields:    fields,
		position:  make(map[int]int, len(fields)),
		commands:  make(chan any),
		peers:     peers,
		readyCh:   readyCh,
		failCh:    failCh,
		crashed:   make(chan struct{}),
	}
	for i, f := range fields {
		w.position[topology.FlattenedIndex(f, divisions)] = i
	}
	seed := make(map[int]FieldValue, len(fields))
	for idx, v := range initial {
		seed[idx] = v
	}
	w.current.Store(&seed)
	go w.run()
	return w
}

// State returns the worker's current state without blocking.
func (w *Worker) State() State { return State(w.state.Load()) }

// Crashed is closed if the worker's command loop panicked and exited.
func (w *Worker) Crashed() <-chan struct{} { return w.crashed }

// LastPanic returns the value recovered from a crashed run loop, if any.
func (w *Worker) LastPanic() any { return w.lastPanic.Load() }

// ReadLocal returns the current (pre-frame) value of a field this panel
// owns. Safe to call concurrently from any goroutine: current is
// replaced wholesale on commit and never mutated in place.
func (w *Worker) ReadLocal(flattenedIdx int) (FieldValue, bool) {
	cur := *w.current.Load()
	v, ok := cur[flattenedIdx]
	return v, ok
}

// Snapshot returns a copy of the current buffer, for get_all_field_data
// and for seeding a respawned worker. It reads current directly rather
// than through the command loop, so it does not wait for a frame in
// progress and observes the pre-frame state during one.
func (w *Worker) Snapshot() map[int]FieldValue {
	cur := *w.current.Load()
	out := make(map[int]FieldValue, len(cur))
	for k, v := range cur {
		out[k] = v
	}
	return out
}

// StartFrame begins evaluating fn over every field this panel owns.
// Returns immediately; completion is signalled on readyCh or failCh.
func (w *Worker) StartFrame(fn PerFieldFunc, sphereData FieldValue) {
	w.commands <- startFrameCmd{fn: fn, sphereData: sphereData}
}

// Commit atomically replaces current with the computed next buffer and
// returns the panel to Idle. Blocks until the swap has happened.
func (w *Worker) Commit() {
	done := make(chan struct{})
	w.commands <- commitCmd{done: done}
	<-done
}

func (w *Worker) run() {
	defer func() {
		if r := recover(); r != nil {
			w.lastPanic.Store(r)
			w.crashOnce.Do(func() { close(w.crashed) })
		}
	}()
	for cmd := range w.commands {
		switch c := cmd.(type) {
		case startFrameCmd:
			w.compute(c.fn, c.sphereData)
		case commitCmd:
			w.commit()
			close(c.done)
		case snapshotCmd:
			cur := *w.current.Load()
			out := make(map[int]FieldValue, len(cur))
			for k, v := range cur {
				out[k] = v
			}
			c.reply <- out
		}
	}
}

type fieldError struct {
	fieldIdx int
	err      error
}

// compute evaluates fn over every field in this panel, writing results
// into next. Internal ordering is unspecified: a fixed-size pool of
// goroutines drains a job channel, each writing to a distinct slot of
// nextVal so there is no write contention (spec 4.F: "every write
// targets next only ... This makes evaluations commutative").
func (w *Worker) compute(fn PerFieldFunc, sphereData FieldValue) {
	w.state.Store(int32(Computing))
	w.nextVal = make([]FieldValue, len(w.Fields))

	type job struct{ pos int }
	jobs := make(chan job)
	var wg sync.WaitGroup
	var firstErr atomic.Pointer[fieldError]

	workers := runtime.NumCPU()
	if workers > len(w.Fields) {
		workers = len(w.Fields)
	}
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				f := w.Fields[j.pos]
				idx := topology.FlattenedIndex(f, w.Divisions)
				cur, _ := w.ReadLocal(idx)
				adj := w.gatherAdjacents(f)
				out, err := func() (out FieldValue, err error) {
					defer func() {
						if r := recover(); r != nil {
							err = fmt.Errorf("per-field function panicked: %v", r)
						}
					}()
					return fn(idx, cur, adj, sphereData)
				}()
				if err != nil {
					firstErr.CompareAndSwap(nil, &fieldError{fieldIdx: idx, err: err})
					continue
				}
				w.nextVal[j.pos] = out
			}
		}()
	}
	for pos := range w.Fields {
		jobs <- job{pos: pos}
	}
	close(jobs)
	wg.Wait()

	if fe := firstErr.Load(); fe != nil {
		w.nextVal = nil
		w.state.Store(int32(Idle))
		w.failCh <- EvaluationFailure{PanelIndex: w.Index, FieldIndex: fe.fieldIdx, Cause: fe.err}
		return
	}

	w.state.Store(int32(WaitCommit))
	w.readyCh <- ReadyToCommit{PanelIndex: w.Index}
}

func (w *Worker) gatherAdjacents(f topology.Field) Adjacents {
	adj := topology.Neighbors(f, w.Divisions)
	out := make(Adjacents, 6)
	for _, dir := range topology.Directions() {
		n := adj.Get(dir)
		if !n.Present {
			continue
		}
		idx := topology.FlattenedIndex(n.Field, w.Divisions)
		if v, ok := w.ReadLocal(idx); ok {
			out[dir] = v
			continue
		}
		if v, ok := w.peers.ReadField(idx); ok {
			out[dir] = v
		}
	}
	return out
}

func (w *Worker) commit() {
	next := make(map[int]FieldValue, len(w.Fields))
	for i, f := range w.Fields {
		next[topology.FlattenedIndex(f, w.Divisions)] = w.nextVal[i]
	}
	w.current.Store(&next)
	w.nextVal = nil
	w.state.Store(int32(Idle))
}
