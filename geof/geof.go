// Package geof is the public facade of the engine (spec §6): Create
// sphere, Start frame, Get all field data, Query mesh, Query wireframe.
// It wires together sphere.Coordinator, registry.Registry and
// frame.Registry the way examples/spiral/main.go strings together a
// build-evaluate-export call sequence above the teacher's domain
// packages.
package geof

import (
	"fmt"
	"sync/atomic"

	"github.com/geof/geof/frame"
	"github.com/geof/geof/geoferr"
	"github.com/geof/geof/internal/meshgeo"
	"github.com/geof/geof/internal/partition"
	"github.com/geof/geof/panel"
	"github.com/geof/geof/registry"
	"github.com/geof/geof/sphere"
)

// Engine owns every sphere created through it, the process-wide
// registry of their handles, and the function registry used to resolve
// (module, function) references.
type Engine struct {
	reg       *registry.Registry
	functions *frame.Registry
}

// nextSphereID is shared by every Engine so sphere ids are unique
// across the process, not only within one Engine.
var nextSphereID atomic.Int64

// NewEngine returns an Engine with the built-in per-field functions
// pre-registered under the "geof" module.
func NewEngine() *Engine {
	return &Engine{
		reg:       registry.New(),
		functions: frame.NewDefaultRegistry(),
	}
}

// Functions exposes the function registry so callers can register their
// own per-field functions before starting a frame.
func (e *Engine) Functions() *frame.Registry { return e.functions }

// Create builds a new sphere with the given divisions and returns its
// opaque, process-unique id.
func (e *Engine) Create(divisions int, opts ...sphere.Option) (string, error) {
	id := fmt.Sprintf("sphere-%d", nextSphereID.Add(1))
	opts = append([]sphere.Option{sphere.WithRegistry(e.reg)}, opts...)
	c, err := sphere.New(id, divisions, opts...)
	if err != nil {
		return "", err
	}
	e.reg.RegisterCoordinator(id, c)
	return id, nil
}

func (e *Engine) coordinator(sphereID string) (*sphere.Coordinator, error) {
	h, ok := e.reg.Coordinator(sphereID)
	if !ok {
		return nil, &geoferr.UnknownSphere{SphereID: sphereID}
	}
	return h.(*sphere.Coordinator), nil
}

// StartFrame resolves per_field_fn_ref (and, if given, sphere_data_fn_ref)
// in the function registry and starts a frame. See sphere.Coordinator.StartFrame
// for the acknowledgement/frame_complete contract.
func (e *Engine) StartFrame(sphereID string, perFieldFnRef, sphereDataFnRef [2]string, literalSphereData panel.FieldValue, replyTo chan<- sphere.FrameEvent) error {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return err
	}
	fn, err := e.functions.Resolve(perFieldFnRef[0], perFieldFnRef[1])
	if err != nil {
		return err
	}

	var sphereDataFn func() panel.FieldValue
	if sphereDataFnRef != ([2]string{}) {
		sdFn, err := e.functions.Resolve(sphereDataFnRef[0], sphereDataFnRef[1])
		if err != nil {
			return err
		}
		sphereDataFn = func() panel.FieldValue {
			v, _ := sdFn(-1, nil, nil, nil)
			return v
		}
	}

	return c.StartFrame(fn, literalSphereData, sphereDataFn, replyTo)
}

// InFrame reports whether sphereID currently has a frame in progress.
func (e *Engine) InFrame(sphereID string) (bool, error) {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return false, err
	}
	return c.InFrame(), nil
}

// GetAllFieldData returns the flattened-index -> value map for a sphere.
func (e *Engine) GetAllFieldData(sphereID string) (map[int]panel.FieldValue, error) {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return nil, err
	}
	return c.GetAllFieldData(), nil
}

// QueryMesh returns triangle-list geometry for a sphere (5 triangles
// per pentagon, 6 per hexagon).
func (e *Engine) QueryMesh(sphereID string) (*meshgeo.Mesh, error) {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return nil, err
	}
	return meshgeo.BuildMesh(c.Divisions), nil
}

// QueryWireframe returns edge-list geometry for a sphere.
func (e *Engine) QueryWireframe(sphereID string) (*meshgeo.Wireframe, error) {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return nil, err
	}
	return meshgeo.BuildWireframe(c.Divisions), nil
}

// Partition exposes a sphere's panel assignment, for export callers
// that need it alongside the sphere's divisions (e.g. PNGPanelMap).
func (e *Engine) Partition(sphereID string) (*partition.Partition, error) {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return nil, err
	}
	return c.Partition(), nil
}

// Teardown stops a sphere's coordinator and removes it and its panels
// from the registry.
func (e *Engine) Teardown(sphereID string) error {
	c, err := e.coordinator(sphereID)
	if err != nil {
		return err
	}
	c.Teardown()
	e.reg.Teardown(sphereID, c.PanelCount)
	return nil
}
