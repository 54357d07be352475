package floorplan

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/store"
)

// SVGSource fetches the background artwork of a floor.
type SVGSource interface {
	GetFloorSVG(ctx context.Context, floorNumber int) (string, error)
}

type State int

const (
	Idle State = iota
	Loading
	Rendered
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the renderer state.
type Status struct {
	State       State
	FloorNumber int
	Err         error
}

type Options struct {
	MinScale     float64
	MaxScale     float64
	InitialScale float64
}

func DefaultOptions() Options {
	return Options{
		MinScale:     DefaultMinScale,
		MaxScale:     DefaultMaxScale,
		InitialScale: DefaultInitialScale,
	}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	if o.MinScale <= 0 {
		o.MinScale = DefaultMinScale
	}
	if o.MaxScale <= 0 {
		o.MaxScale = math.Max(DefaultMaxScale, o.MinScale)
	}
	if o.InitialScale <= 0 {
		o.InitialScale = DefaultInitialScale
	}
	return o
}

// Frame is one rendered plan. SVG is owned by the receiver.
type Frame struct {
	Seq         uint64
	FloorNumber int
	SVG         []byte
	Transform   Transform
	ViewBox     ViewBox
	Placeholder bool
}

// Compose builds a document from artwork text and floor data and applies
// the initial fit. Text without an svg root yields a placeholder.
func Compose(text string, floor *models.Floor, vp *Viewport, initialScale float64) *Document {
	doc, err := Parse(text)
	if err != nil {
		return Placeholder(fmt.Sprintf("Floor plan unavailable: %v", err))
	}
	if floor != nil {
		doc.SetFloor(floor)
	}
	doc.SetTransform(vp.Fit(doc.ViewBox(), initialScale))
	return doc
}

// Renderer drives the floor-plan state machine and pushes frames to an
// attached Surface. Renders that happen while no surface is attached are
// held and flushed on Attach.
type Renderer struct {
	source SVGSource
	logger *zap.Logger
	opts   Options

	mu          sync.Mutex
	state       State
	floorNumber int
	err         error
	generation  uint64
	seq         uint64
	doc         *Document
	floor       *models.Floor
	viewport    *Viewport
	surface     Surface
	pending     bool
}

func NewRenderer(source SVGSource, logger *zap.Logger, opts Options) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.WithDefaults()
	return &Renderer{
		source:   source,
		logger:   logger,
		opts:     opts,
		viewport: NewViewport(opts.MinScale, opts.MaxScale),
	}
}

func (r *Renderer) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{State: r.state, FloorNumber: r.floorNumber, Err: r.err}
}

// Select loads the plan of floorNumber. Selecting the floor that is already
// rendered or loading does nothing. A response that arrives after a newer
// Select is discarded with store.ErrStale.
func (r *Renderer) Select(ctx context.Context, floorNumber int) error {
	r.mu.Lock()
	if r.floorNumber == floorNumber && (r.state == Rendered || r.state == Loading) {
		r.mu.Unlock()
		return nil
	}
	r.state = Loading
	r.floorNumber = floorNumber
	r.err = nil
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	text, err := r.source.GetFloorSVG(ctx, floorNumber)

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		r.logger.Debug("discarding stale floor plan", zap.Int("floor_number", floorNumber))
		return store.ErrStale
	}
	if err != nil {
		r.state = Error
		r.err = err
		r.doc = Placeholder(fmt.Sprintf("Failed to load floor %d", floorNumber))
		frame, ok := r.frameLocked()
		r.mu.Unlock()
		r.logger.Error("failed to load floor plan", zap.Int("floor_number", floorNumber), zap.Error(err))
		r.deliver(frame, ok)
		return fmt.Errorf("failed to load floor plan %d: %w", floorNumber, err)
	}

	var floor *models.Floor
	if r.floor != nil && r.floor.FloorNumber == floorNumber {
		floor = r.floor
	}
	doc := Compose(text, floor, r.viewport, r.opts.InitialScale)
	r.doc = doc
	if doc.IsPlaceholder() {
		r.state = Error
		r.err = ErrNoSVGRoot
	} else {
		r.state = Rendered
	}
	frame, ok := r.frameLocked()
	r.mu.Unlock()

	if doc.IsPlaceholder() {
		r.logger.Warn("floor plan has no svg root", zap.Int("floor_number", floorNumber))
	} else {
		r.logger.Debug("floor plan rendered",
			zap.Int("floor_number", floorNumber),
			zap.String("view_box", doc.ViewBox().String()),
			zap.Bool("computed_view_box", doc.ComputedViewBox()),
		)
	}
	r.deliver(frame, ok)
	return nil
}

// SetFloor replaces the room and seat data drawn on the interactive layer.
// Data for a floor other than the selected one is kept for its next render.
func (r *Renderer) SetFloor(floor *models.Floor) {
	r.mu.Lock()
	r.floor = floor
	if floor == nil || r.doc == nil || r.doc.IsPlaceholder() || floor.FloorNumber != r.floorNumber {
		r.mu.Unlock()
		return
	}
	r.doc.SetFloor(floor)
	frame, ok := r.frameLocked()
	r.mu.Unlock()
	r.deliver(frame, ok)
}

// Bind keeps the interactive layer in step with the store's selected floor.
func (r *Renderer) Bind(st *store.Store) (unbind func()) {
	if f := st.SelectedFloor(); f != nil {
		r.SetFloor(f)
	}
	return st.Subscribe(func(ev store.Event) {
		switch ev.Type {
		case store.SelectedFloorChanged, store.SeatUpdated:
			if ev.Floor != nil {
				r.SetFloor(ev.Floor)
			}
		}
	})
}

// Attach sets the surface frames are shown on and flushes a held render.
func (r *Renderer) Attach(s Surface) {
	r.mu.Lock()
	r.surface = s
	var frame Frame
	var ok bool
	if r.pending && r.doc != nil {
		frame, ok = r.frameLocked()
	}
	r.mu.Unlock()
	r.deliver(frame, ok)
}

// Detach removes the surface. Later renders are held until the next Attach.
func (r *Renderer) Detach() {
	r.mu.Lock()
	r.surface = nil
	r.mu.Unlock()
}

// Pan moves both layers by (dx, dy) viewport units.
func (r *Renderer) Pan(dx, dy float64) Transform {
	return r.transform(func(v *Viewport) Transform { return v.Pan(dx, dy) })
}

// Zoom scales both layers by factor about the viewport point (cx, cy).
func (r *Renderer) Zoom(factor, cx, cy float64) Transform {
	return r.transform(func(v *Viewport) Transform { return v.ZoomAt(factor, cx, cy) })
}

// ResetView restores the initial fit.
func (r *Renderer) ResetView() Transform {
	return r.transform(func(v *Viewport) Transform {
		return v.Fit(r.doc.ViewBox(), r.opts.InitialScale)
	})
}

// SetTransform applies t, clamping its scale.
func (r *Renderer) SetTransform(t Transform) Transform {
	return r.transform(func(v *Viewport) Transform { return v.Set(t) })
}

func (r *Renderer) transform(fn func(*Viewport) Transform) Transform {
	r.mu.Lock()
	if r.doc == nil || r.doc.IsPlaceholder() {
		t := r.viewport.Transform()
		r.mu.Unlock()
		return t
	}
	t := fn(r.viewport)
	r.doc.SetTransform(t)
	frame, ok := r.frameLocked()
	r.mu.Unlock()
	r.deliver(frame, ok)
	return t
}

// Frame renders the current document without touching the surface.
func (r *Renderer) Frame() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return Frame{}, false
	}
	return r.buildFrameLocked(), true
}

// LayerTransforms reports the transform attribute on each layer of the
// current document.
func (r *Renderer) LayerTransforms() (background, interactive string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return "", ""
	}
	return r.doc.LayerTransforms()
}

// frameLocked returns a frame when a surface is attached and otherwise
// marks the render as pending.
func (r *Renderer) frameLocked() (Frame, bool) {
	if r.surface == nil {
		r.pending = true
		return Frame{}, false
	}
	r.pending = false
	return r.buildFrameLocked(), true
}

func (r *Renderer) buildFrameLocked() Frame {
	r.seq++
	return Frame{
		Seq:         r.seq,
		FloorNumber: r.floorNumber,
		SVG:         r.doc.Bytes(),
		Transform:   r.doc.Transform(),
		ViewBox:     r.doc.ViewBox(),
		Placeholder: r.doc.IsPlaceholder(),
	}
}

func (r *Renderer) deliver(frame Frame, ok bool) {
	if !ok {
		return
	}
	r.mu.Lock()
	s := r.surface
	r.mu.Unlock()
	if s == nil {
		return
	}
	if err := s.Show(frame); err != nil {
		r.logger.Error("failed to show floor plan", zap.Int("floor_number", frame.FloorNumber), zap.Error(err))
	}
}
