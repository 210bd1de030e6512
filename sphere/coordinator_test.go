package sphere

import (
	"testing"
	"time"

	"github.com/geof/geof/geoferr"
	"github.com/geof/geof/internal/topology"
	"github.com/geof/geof/panel"
	"github.com/geof/geof/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoordinator(t *testing.T, divisions int, opts ...Option) *Coordinator {
	t.Helper()
	c, err := New("test-sphere", divisions, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Teardown)
	return c
}

func runFrame(t *testing.T, c *Coordinator, fn panel.PerFieldFunc) {
	t.Helper()
	events := make(chan FrameEvent, 1)
	require.NoError(t, c.StartFrame(fn, nil, nil, events))
	select {
	case ev := <-events:
		require.NoError(t, ev.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for frame_complete")
	}
}

func TestNewRejectsInvalidDivisions(t *testing.T) {
	_, err := New("s", 0)
	var want *geoferr.InvalidDivisions
	assert.ErrorAs(t, err, &want)
}

func TestIdentityFrameLeavesDataUnchanged(t *testing.T) {
	divisions := 3
	initial := make(map[int]panel.FieldValue)
	for idx := 0; idx < topology.FieldCount(divisions); idx++ {
		initial[idx] = idx * 7
	}
	c := newTestCoordinator(t, divisions, WithInitialData(initial))

	identity := func(_ int, data panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		return data, nil
	}
	for i := 0; i < 3; i++ {
		runFrame(t, c, identity)
	}

	got := c.GetAllFieldData()
	for idx, want := range initial {
		assert.Equal(t, want, got[idx])
	}
}

func TestNeighbourCountFrame(t *testing.T) {
	divisions := 4
	c := newTestCoordinator(t, divisions)

	countNeighbours := func(_ int, _ panel.FieldValue, adj panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		return len(adj), nil
	}
	runFrame(t, c, countNeighbours)

	got := c.GetAllFieldData()
	assert.Len(t, got, topology.FieldCount(divisions))

	fives, sixes := 0, 0
	for _, v := range got {
		switch v.(int) {
		case 5:
			fives++
		case 6:
			sixes++
		default:
			t.Fatalf("unexpected neighbour count %v", v)
		}
	}
	assert.Equal(t, 12, fives)
	assert.Equal(t, topology.FieldCount(divisions)-12, sixes)
}

func TestConcurrentGetAllFieldDataDuringFrameSeesPreFrameState(t *testing.T) {
	divisions := 2
	initial := make(map[int]panel.FieldValue)
	for idx := 0; idx < topology.FieldCount(divisions); idx++ {
		initial[idx] = 1
	}
	c := newTestCoordinator(t, divisions, WithInitialData(initial))

	release := make(chan struct{})
	slowIncrement := func(_ int, data panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		<-release
		return data.(int) + 1, nil
	}

	events := make(chan FrameEvent, 1)
	require.NoError(t, c.StartFrame(slowIncrement, nil, nil, events))

	pre := c.GetAllFieldData()
	for _, v := range pre {
		assert.Equal(t, 1, v)
	}

	close(release)
	select {
	case ev := <-events:
		require.NoError(t, ev.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for frame_complete")
	}

	post := c.GetAllFieldData()
	for _, v := range post {
		assert.Equal(t, 2, v)
	}
}

func TestStartFrameWhileInFrameFailsWithAlreadyInFrame(t *testing.T) {
	divisions := 2
	c := newTestCoordinator(t, divisions)

	release := make(chan struct{})
	slow := func(idx int, data panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		<-release
		return data, nil
	}

	first := make(chan FrameEvent, 1)
	require.NoError(t, c.StartFrame(slow, nil, nil, first))
	assert.True(t, c.InFrame())

	second := make(chan FrameEvent, 1)
	err := c.StartFrame(func(_ int, d panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		return d, nil
	}, nil, nil, second)
	var want *geoferr.AlreadyInFrame
	assert.ErrorAs(t, err, &want)

	close(release)
	select {
	case ev := <-first:
		assert.NoError(t, ev.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight frame never completed")
	}
}

func TestPanelOrderCommutativity(t *testing.T) {
	divisions := 3
	c1 := newTestCoordinator(t, divisions, WithPanelCount(4))
	c2 := newTestCoordinator(t, divisions, WithPanelCount(8))

	fn := func(idx int, _ panel.FieldValue, adj panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		return len(adj), nil
	}
	runFrame(t, c1, fn)
	runFrame(t, c2, fn)

	assert.Equal(t, c1.GetAllFieldData(), c2.GetAllFieldData())
}

func TestGetAllFieldDataIsIdempotentBetweenFrames(t *testing.T) {
	c := newTestCoordinator(t, 2)
	identity := func(_ int, d panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		return d, nil
	}
	runFrame(t, c, identity)

	first := c.GetAllFieldData()
	second := c.GetAllFieldData()
	assert.Equal(t, first, second)
}

func TestPerFieldEvaluationFailureLeavesSphereUsable(t *testing.T) {
	divisions := 2
	initial := make(map[int]panel.FieldValue)
	for idx := 0; idx < topology.FieldCount(divisions); idx++ {
		initial[idx] = 1
	}
	c := newTestCoordinator(t, divisions, WithInitialData(initial))

	failing := func(idx int, data panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		if idx == 0 {
			return nil, assert.AnError
		}
		return data.(int) + 1, nil
	}
	events := make(chan FrameEvent, 1)
	require.NoError(t, c.StartFrame(failing, nil, nil, events))
	select {
	case ev := <-events:
		var want *geoferr.PerFieldEvaluationFailed
		assert.ErrorAs(t, ev.Err, &want)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for failed frame")
	}
	assert.False(t, c.InFrame())

	for _, v := range c.GetAllFieldData() {
		assert.Equal(t, 1, v)
	}

	identity := func(_ int, d panel.FieldValue, _ panel.Adjacents, _ panel.FieldValue) (panel.FieldValue, error) {
		return d, nil
	}
	runFrame(t, c, identity)
}

func TestWithRegistryRegistersEveryPanel(t *testing.T) {
	reg := registry.New()
	c := newTestCoordinator(t, 2, WithPanelCount(4), WithRegistry(reg))

	for i := 0; i < c.PanelCount; i++ {
		h, ok := reg.Panel(c.ID, i)
		require.True(t, ok, "panel %d not registered", i)
		assert.Same(t, c.workers[i], h)
	}

	_, ok := reg.Coordinator(c.ID)
	assert.False(t, ok, "coordinator registered by WithRegistry alone; that is geof.Engine.Create's job")
}

func TestWithRegistryTracksRespawnedWorker(t *testing.T) {
	reg := registry.New()
	c := newTestCoordinator(t, 2, WithPanelCount(4), WithRegistry(reg))

	before, ok := reg.Panel(c.ID, 0)
	require.True(t, ok)

	c.respawn(0)

	after, ok := reg.Panel(c.ID, 0)
	require.True(t, ok)
	assert.NotSame(t, before, after)
	assert.Same(t, c.workers[0], after)
}
