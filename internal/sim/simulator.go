package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/esim/internal/kinetic"
)

// Simulator owns a body set inside a fixed box and advances it one event at
// a time. It is not safe for concurrent use.
type Simulator struct {
	box       kinetic.Bounds
	bodies    []*kinetic.Body
	initial   []*kinetic.Body
	cfg       Config
	time      float64
	step      int
	metrics   []Metric
	observers []Observer
}

// New validates the box, the config and the bodies, and takes ownership of
// bodies. Bodies in a planar box must have zero Z position and velocity.
func New(box kinetic.Bounds, bodies []*kinetic.Body, cfg Config) (*Simulator, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	for i, b := range bodies {
		if b == nil || !b.IsValid() {
			return nil, fmt.Errorf("%w: body %d", kinetic.ErrInvalidBody, i)
		}
	}
	if box.Dim() == 2 && !box.Planar(bodies) {
		return nil, fmt.Errorf("%w: bodies leave the plane of a 2D box", ErrInvalidConfig)
	}

	return &Simulator{
		box:       box,
		bodies:    bodies,
		initial:   kinetic.CloneBodies(bodies),
		cfg:       cfg,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Bounds() kinetic.Bounds  { return s.box }
func (s *Simulator) Bodies() []*kinetic.Body { return s.bodies }
func (s *Simulator) Config() Config          { return s.cfg }
func (s *Simulator) Time() float64           { return s.time }
func (s *Simulator) StepCount() int          { return s.step }

// Done reports whether the configured tick or time budget is used up.
func (s *Simulator) Done() bool {
	if s.cfg.Ticks > 0 && s.step >= s.cfg.Ticks {
		return true
	}
	return s.cfg.Duration > 0 && s.time >= s.cfg.Duration
}

// Reset restores the bodies captured by New and rewinds the clock.
func (s *Simulator) Reset() {
	fresh := kinetic.CloneBodies(s.initial)
	for i := range s.bodies {
		*s.bodies[i] = *fresh[i]
	}
	s.time = 0
	s.step = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Next returns the event the following tick will process. A finite Duration
// acts as a horizon: an event beyond it is replaced by a drift up to it.
func (s *Simulator) Next() kinetic.Event {
	ev := kinetic.NextEvent(s.bodies, s.box, s.cfg.MaxAdvance)
	if s.cfg.Duration > 0 {
		if remaining := s.cfg.Duration - s.time; ev.Time > remaining {
			return kinetic.NoEvent(math.Max(remaining, 0))
		}
	}
	return ev
}

// Step processes one event and notifies metrics and observers.
func (s *Simulator) Step() (Frame, error) {
	return s.Apply(s.Next())
}

// Apply advances the bodies to ev, resolves it and emits a frame. ev is
// usually the result of Next; its indices refer to Bodies().
func (s *Simulator) Apply(ev kinetic.Event) (Frame, error) {
	s.advance(ev)

	changed, flips := false, 0
	switch ev.Kind {
	case kinetic.KindPair:
		changed = kinetic.Resolve(s.bodies[ev.A], s.bodies[ev.B])
	case kinetic.KindWall:
		flips = kinetic.Reflect(s.bodies[ev.A], s.box)
		changed = flips > 0
	}

	s.time += ev.Time
	if s.cfg.Duration > 0 && s.cfg.Duration-s.time < kinetic.Epsilon {
		s.time = math.Max(s.time, s.cfg.Duration)
	}
	s.step++

	f := s.snapshot(ev)
	f.Changed = changed
	f.Flips = flips
	if changed {
		for _, i := range ev.Participants() {
			f.Bodies[i].Highlighted = true
		}
	}

	if s.cfg.ValidateState {
		for _, b := range s.bodies {
			if !b.IsValid() {
				return f, SimError{
					Time:    s.time,
					Step:    s.step,
					Message: fmt.Sprintf("body %d has non-finite state", b.ID),
					Err:     ErrNonFinite,
				}
			}
		}
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnFrame(f)
	}
	return f, nil
}

func (s *Simulator) advance(ev kinetic.Event) {
	if ev.Time == 0 {
		return
	}
	if s.cfg.Mode == AdvancePartial && ev.Kind != kinetic.KindNone {
		for _, i := range ev.Participants() {
			s.bodies[i].Advance(ev.Time)
		}
		return
	}
	for _, b := range s.bodies {
		b.Advance(ev.Time)
	}
}

// Snapshot returns the current state as a frame with no event.
func (s *Simulator) Snapshot() Frame {
	return s.snapshot(kinetic.NoEvent(0))
}

func (s *Simulator) snapshot(ev kinetic.Event) Frame {
	f := Frame{
		Step:   s.step,
		Time:   s.time,
		Event:  ev,
		Bodies: make([]BodyState, len(s.bodies)),
	}
	for i, b := range s.bodies {
		f.Bodies[i] = BodyState{
			ID:     b.ID,
			Pos:    b.Pos,
			Vel:    b.Vel,
			Radius: b.Radius(),
			Mass:   b.Mass(),
		}
	}
	return f
}

// Run steps until the tick or time budget is used up or ctx is cancelled.
// The initial state is observed by metrics before the first tick.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.cfg.Ticks == 0 && s.cfg.Duration == 0 {
		return nil, fmt.Errorf("%w: run needs ticks or duration", ErrInvalidConfig)
	}

	result := &Result{
		Seed:    s.cfg.Seed,
		Frames:  make([]Frame, 0),
		Metrics: make(map[string]float64),
		Events:  make(map[kinetic.Kind]int),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.Snapshot()
	for _, m := range s.metrics {
		m.Observe(start)
	}
	if s.cfg.Record {
		result.Frames = append(result.Frames, start)
	}

	every := s.cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	last := start
	for !s.Done() {
		select {
		case <-ctx.Done():
			s.finish(result, start, last)
			return result, ctx.Err()
		default:
		}

		f, err := s.Step()
		if err != nil {
			result.Errors = append(result.Errors, err)
			last = f
			break
		}
		last = f
		result.Events[f.Event.Kind]++
		if s.cfg.Record && f.Step%every == 0 {
			result.Frames = append(result.Frames, f)
		}
	}

	s.finish(result, start, last)
	return result, nil
}

func (s *Simulator) finish(result *Result, start, last Frame) {
	result.Final = last
	result.StepsTaken = s.step - start.Step
	result.Time = s.time

	if e0 := start.KineticEnergy(); e0 != 0 {
		result.EnergyDrift = math.Abs(last.KineticEnergy()-e0) / math.Abs(e0)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback hands the initial snapshot and then every frame to
// callback until it returns false, the budget runs out or ctx is cancelled.
// With neither Ticks nor Duration set it runs until callback stops it.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(Frame) bool) error {
	if !callback(s.Snapshot()) {
		return nil
	}

	for !s.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := s.Step()
		if err != nil {
			return err
		}
		if !callback(f) {
			return nil
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.MaxAdvance > 0) || math.IsInf(cfg.MaxAdvance, 0) {
		return fmt.Errorf("%w: max advance must be positive and finite, got %g", ErrInvalidConfig, cfg.MaxAdvance)
	}
	if cfg.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidConfig, cfg.Ticks)
	}
	if cfg.Duration < 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be finite and not negative, got %g", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Mode != AdvanceSynchronized && cfg.Mode != AdvancePartial {
		return fmt.Errorf("%w: unknown advance mode %d", ErrInvalidConfig, cfg.Mode)
	}
	return nil
}
