package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brkerd/video-to-ascii-mrd/compose"
	"github.com/brkerd/video-to-ascii-mrd/source"
)

// ErrConfig indicates an invalid engine configuration.
var ErrConfig = errors.New("invalid engine config")

// State is the playback state of an engine. Exactly one state is active at
// a time.
type State int32

const (
	// StateIdle loops the configured idle video.
	StateIdle State = iota
	// StateTransitioning blends two sources frame by frame.
	StateTransitioning
	// StatePlaying plays a requested video.
	StatePlaying
)

// String implements [fmt.Stringer].
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTransitioning:
		return "transitioning"
	case StatePlaying:
		return "playing"
	}

	return fmt.Sprintf("state(%d)", int32(s))
}

// Renderer is the frame normalization and rendering capability consumed by
// the engine. Resize normalizes a decoded frame for a cols x rows cell
// grid; Render converts a normalized frame into a character grid.
type Renderer interface {
	Resize(img image.Image, cols, rows int) *image.RGBA
	Render(frame *image.RGBA, cols, rows int) string
}

// Writer receives rendered character grids. It is assumed fast relative to
// frame pacing.
type Writer interface {
	Write(grid string)
}

// WriterFunc adapts a function to the [Writer] interface.
type WriterFunc func(grid string)

// Write calls f.
func (f WriterFunc) Write(grid string) {
	f(grid)
}

// Config configures an [Engine].
type Config struct {
	// Idle is the identifier of the idle video (required).
	Idle string
	// Opener opens video identifiers as frame sources (required).
	Opener source.Opener
	// Renderer normalizes and renders frames (required).
	Renderer Renderer
	// Writer receives rendered grids (required).
	Writer Writer
	// Cols and Rows are the initial terminal dimensions in cells.
	// Defaults: 80x24.
	Cols int
	Rows int
	// Logger receives engine events. Defaults to a discard logger.
	Logger *slog.Logger
}

// Engine is a playback state machine. Multiple engines can coexist; each
// owns its own state, queue, and source handles.
//
// Create instances with [New]. Run the blocking loop with [Engine.Run];
// [Engine.Enqueue], [Engine.RequestIdle], [Engine.Stop], and
// [Engine.SetSize] are safe to call from other goroutines.
type Engine struct {
	opener   source.Opener
	renderer Renderer
	writer   Writer
	logger   *slog.Logger
	idleID   string

	queue    requestQueue
	stop     chan struct{}
	stopOnce sync.Once
	state    atomic.Int32

	mu      sync.Mutex
	cols    int
	rows    int
	current string

	// Run-loop owned; never touched outside Run.
	slot *handle
}

// handle pairs an open source with its identifier and the last frame it
// produced, which is reused when the source runs out mid-transition.
type handle struct {
	id   string
	src  source.Source
	last *image.RGBA
}

// New creates an engine from cfg.
func New(cfg Config) (*Engine, error) {
	if cfg.Idle == "" {
		return nil, fmt.Errorf("%w: idle video identifier is required", ErrConfig)
	}

	if cfg.Opener == nil || cfg.Renderer == nil || cfg.Writer == nil {
		return nil, fmt.Errorf("%w: opener, renderer, and writer are required", ErrConfig)
	}

	if cfg.Cols < 1 {
		cfg.Cols = 80
	}

	if cfg.Rows < 1 {
		cfg.Rows = 24
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		opener:   cfg.Opener,
		renderer: cfg.Renderer,
		writer:   cfg.Writer,
		logger:   logger,
		idleID:   cfg.Idle,
		stop:     make(chan struct{}),
		cols:     cfg.Cols,
		rows:     cfg.Rows,
	}, nil
}

// Enqueue appends a video request to the pending queue. It never blocks.
func (e *Engine) Enqueue(identifier string) {
	e.queue.push(request{video: identifier})
}

// RequestIdle appends the idle-return sentinel to the pending queue. It is
// a no-op if the engine is idle when the sentinel is consumed.
func (e *Engine) RequestIdle() {
	e.queue.push(request{idle: true})
}

// Stop ends the run loop from any state, abandoning an in-progress
// transition. Idempotent and safe from any goroutine.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stop)
	})
}

// State returns the current playback state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// CurrentVideo returns the identifier of the non-idle video presently
// playing, or "" while idle.
func (e *Engine) CurrentVideo() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current
}

// SetSize updates the terminal dimensions used for subsequent frames.
func (e *Engine) SetSize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cols = cols
	e.rows = rows
}

func (e *Engine) size() (int, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cols, e.rows
}

func (e *Engine) setCurrent(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = id
}

// Run executes the playback loop until [Engine.Stop] is called or ctx is
// cancelled. It blocks the calling goroutine, which becomes the sole owner
// of all source handles.
//
// Stopping is not an error: Run returns nil after a stop request and
// ctx.Err() after context cancellation.
func (e *Engine) Run(ctx context.Context, spec compose.Spec) error {
	err := spec.Validate()
	if err != nil {
		return fmt.Errorf("transition spec: %w", err)
	}

	idle, err := e.opener.Open(ctx, e.idleID)
	if err != nil {
		return fmt.Errorf("opening idle video %q: %w", e.idleID, err)
	}

	e.slot = &handle{id: e.idleID, src: idle}
	e.state.Store(int32(StateIdle))

	defer func() {
		e.slot.src.Close()
	}()

	e.logger.Info("playback started", "idle", e.idleID, "transition", string(spec.Type))

	for {
		select {
		case <-e.stop:
			e.logger.Info("playback stopped")

			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// At most one request per rendered frame.
		if req, ok := e.queue.pop(); ok {
			e.serve(ctx, spec, req)

			continue
		}

		frame := e.readFrame(e.slot)
		if frame == nil {
			e.rollOver(ctx, spec)

			continue
		}

		e.present(frame)
		e.pace(ctx, e.slot.src.FPS())
	}
}

// serve handles one queue request according to the transition table.
func (e *Engine) serve(ctx context.Context, spec compose.Spec, req request) {
	if req.idle {
		if e.State() == StateIdle {
			e.logger.Debug("idle requested while idle; ignoring")

			return
		}

		to, err := e.openAt(ctx, e.idleID, 0)
		if err != nil {
			e.logger.Error("opening idle video", "video", e.idleID, "error", err)

			return
		}

		// Idle-bound transitions run in the reverse direction.
		rev := spec
		rev.Direction = spec.Direction.Opposite()

		e.transition(ctx, rev, to, StateIdle)

		return
	}

	to, err := e.openAt(ctx, req.video, 0)
	if err != nil {
		// Request is dropped; the engine remains in its prior state.
		e.logger.Error("opening requested video", "video", req.video, "error", err)

		return
	}

	e.transition(ctx, spec, to, StatePlaying)
}

// rollOver handles natural end of stream on the current source with an
// empty queue. While idle this is a plain rewind; while playing it runs the
// dual-handle self-loop transition, with the finished handle rewound to
// max(0, total-frames) so its remaining reads supply the ending frames.
func (e *Engine) rollOver(ctx context.Context, spec compose.Spec) {
	if e.State() == StateIdle {
		err := e.slot.src.Seek(0)
		if err != nil {
			e.logger.Error("rewinding idle video", "video", e.slot.id, "error", err)
			e.Stop()
		}

		return
	}

	fresh, err := e.opener.Open(ctx, e.slot.id)
	if err != nil {
		// Fall back to a plain rewind rather than losing the video.
		e.logger.Error("reopening video for loop", "video", e.slot.id, "error", err)

		seekErr := e.slot.src.Seek(0)
		if seekErr != nil {
			e.logger.Error("rewinding video", "video", e.slot.id, "error", seekErr)
			e.Stop()
		}

		return
	}

	offset := e.slot.src.FrameCount() - spec.Frames
	if offset < 0 {
		offset = 0
	}

	err = e.slot.src.Seek(offset)
	if err != nil {
		e.logger.Error("seeking near end for loop", "video", e.slot.id, "error", err)

		fresh.Close()

		return
	}

	e.transition(ctx, spec, &handle{id: e.slot.id, src: fresh}, StatePlaying)
}

// openAt opens identifier and positions it at the given frame.
func (e *Engine) openAt(ctx context.Context, identifier string, frame int) (*handle, error) {
	src, err := e.opener.Open(ctx, identifier)
	if err != nil {
		return nil, err
	}

	err = src.Seek(frame)
	if err != nil {
		src.Close()

		return nil, err
	}

	return &handle{id: identifier, src: src}, nil
}

// transition blends the current slot into to over spec.Frames lockstep
// steps, then promotes to as the new current slot. The old handle is
// closed. endState is the state entered on completion (StatePlaying or
// StateIdle).
//
// A pending queue request observed between steps cuts the transition short
// so queued requests are served strictly in FIFO order, each transitioned
// through at least briefly.
func (e *Engine) transition(ctx context.Context, spec compose.Spec, to *handle, endState State) {
	from := e.slot

	e.state.Store(int32(StateTransitioning))

	for i := 1; i <= spec.Frames; i++ {
		stopped := false

		select {
		case <-e.stop:
			stopped = true
		case <-ctx.Done():
			stopped = true
		default:
		}

		if stopped {
			break
		}

		ff := e.lockstepFrame(from)
		tf := e.lockstepFrame(to)

		if tf == nil {
			// The incoming source produced nothing at all; drop the
			// target and stay where we were.
			e.logger.Error("incoming video produced no frames; dropping", "video", to.id)
			to.src.Close()

			e.state.Store(int32(e.stateFor(from.id)))

			return
		}

		if ff == nil {
			// The outgoing source produced nothing at all; cut straight
			// to the target.
			e.present(tf)

			break
		}

		progress := float64(i) / float64(spec.Frames)

		comp, err := spec.Composite(ff, tf, progress)
		if err != nil {
			// Upstream normalization bug; fall back to an instantaneous
			// cut to the incoming source.
			e.logger.Error("compositor failed; cutting to target", "video", to.id, "error", err)
			e.present(tf)

			break
		}

		e.present(comp)
		e.pace(ctx, to.src.FPS())

		if i < spec.Frames && e.queue.pending() {
			e.logger.Debug("request pending; cutting transition short", "step", i)

			break
		}
	}

	from.src.Close()

	e.slot = to
	e.state.Store(int32(endState))

	if endState == StateIdle {
		e.setCurrent("")
	} else {
		e.setCurrent(to.id)
	}
}

// stateFor maps a slot identifier to the non-transitioning state it implies.
func (e *Engine) stateFor(id string) State {
	if id == e.idleID {
		return StateIdle
	}

	return StatePlaying
}

// lockstepFrame reads the next normalized frame from h, falling back to the
// last frame it produced (frozen) once the source is exhausted. Returns nil
// only if h never produced a frame.
func (e *Engine) lockstepFrame(h *handle) *image.RGBA {
	frame := e.readFrame(h)
	if frame == nil {
		return h.last
	}

	return frame
}

// readFrame reads and normalizes the next frame from h. A clean end of
// stream returns nil; a mid-stream decode failure is logged and treated the
// same way.
func (e *Engine) readFrame(h *handle) *image.RGBA {
	img, err := h.src.ReadNext()
	if err != nil {
		if !errors.Is(err, source.ErrEndOfStream) {
			e.logger.Warn("decode failed; treating as end of stream", "video", h.id, "error", err)
		}

		return nil
	}

	cols, rows := e.size()

	frame := e.renderer.Resize(img, cols, rows)
	h.last = frame

	return frame
}

// present renders a normalized frame and hands the grid to the writer.
func (e *Engine) present(frame *image.RGBA) {
	cols, rows := e.size()

	e.writer.Write(e.renderer.Render(frame, cols, rows))
}

// pace sleeps one frame interval derived from fps, returning early on stop
// or context cancellation.
func (e *Engine) pace(ctx context.Context, fps float64) {
	if fps <= 0 {
		fps = source.DefaultFPS
	}

	t := time.NewTimer(time.Duration(float64(time.Second) / fps))
	defer t.Stop()

	select {
	case <-t.C:
	case <-e.stop:
	case <-ctx.Done():
	}
}
