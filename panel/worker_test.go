package panel

import (
	"testing"
	"time"

	"github.com/geof/geof/internal/iterate"
	"github.com/geof/geof/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noPeers struct{}

func (noPeers) ReadField(int) (FieldValue, bool) { return nil, false }

func singlePanelWorker(t *testing.T, divisions int, initial map[int]FieldValue) (*Worker, chan ReadyToCommit, chan EvaluationFailure) {
	t.Helper()
	fields := iterate.All(divisions)
	ready := make(chan ReadyToCommit, 1)
	fail := make(chan EvaluationFailure, 1)
	w := NewWorker(0, divisions, fields, initial, noPeers{}, ready, fail)
	return w, ready, fail
}

func allOnes(divisions int) map[int]FieldValue {
	m := make(map[int]FieldValue)
	for _, f := range iterate.All(divisions) {
		m[topology.FlattenedIndex(f, divisions)] = 1
	}
	return m
}

func TestWorkerIdentityFrameRoundTrips(t *testing.T) {
	w, ready, _ := singlePanelWorker(t, 2, allOnes(2))
	assert.Equal(t, Idle, w.State())

	identity := func(_ int, data FieldValue, _ Adjacents, _ FieldValue) (FieldValue, error) {
		return data, nil
	}
	w.StartFrame(identity, nil)

	select {
	case r := <-ready:
		assert.Equal(t, 0, r.PanelIndex)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for ready_to_commit")
	}
	assert.Equal(t, WaitCommit, w.State())

	w.Commit()
	assert.Equal(t, Idle, w.State())

	snap := w.Snapshot()
	for idx, v := range allOnes(2) {
		assert.Equal(t, v, snap[idx])
	}
}

func TestWorkerFrameIsolation(t *testing.T) {
	// Every field's new value is one more than its own pre-frame value,
	// read via its own adjacency only, never another field's post-frame
	// value (there is no way for a purely additive function to observe
	// post-frame values unless the implementation leaks next early).
	w, ready, _ := singlePanelWorker(t, 2, allOnes(2))
	increment := func(_ int, data FieldValue, _ Adjacents, _ FieldValue) (FieldValue, error) {
		return data.(int) + 1, nil
	}
	w.StartFrame(increment, nil)
	<-ready
	w.Commit()

	snap := w.Snapshot()
	for _, v := range snap {
		assert.Equal(t, 2, v)
	}
}

func TestWorkerEvaluationFailureAbortsFrame(t *testing.T) {
	w, ready, fail := singlePanelWorker(t, 1, allOnes(1))
	boom := func(idx int, _ FieldValue, _ Adjacents, _ FieldValue) (FieldValue, error) {
		return nil, assert.AnError
	}
	w.StartFrame(boom, nil)

	select {
	case f := <-fail:
		assert.Equal(t, 0, f.PanelIndex)
		assert.ErrorIs(t, f.Cause, assert.AnError)
	case <-ready:
		t.Fatal("expected failure, got ready_to_commit")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for evaluation failure")
	}
	assert.Equal(t, Idle, w.State())

	snap := w.Snapshot()
	for idx, v := range allOnes(1) {
		assert.Equal(t, v, snap[idx])
	}
}

func TestWorkerGatherAdjacentsOmitsMissingNE(t *testing.T) {
	w, ready, _ := singlePanelWorker(t, 2, allOnes(2))
	var sawMissingNE bool
	check := func(idx int, data FieldValue, adj Adjacents, _ FieldValue) (FieldValue, error) {
		f, err := topology.Unflatten(idx, 2)
		require.NoError(t, err)
		if topology.IsPentagonal(f, 2) {
			if _, ok := adj[topology.NE]; !ok {
				sawMissingNE = true
			}
		}
		return data, nil
	}
	w.StartFrame(check, nil)
	<-ready
	w.Commit()
	assert.True(t, sawMissingNE)
}
