package sequencer

import "github.com/google/uuid"

// TargetKind names the parameter class an automation lane drives
type TargetKind string

const (
	TargetLevel       TargetKind = "level"
	TargetPan         TargetKind = "pan"
	TargetCutoff      TargetKind = "cutoff"
	TargetResonance   TargetKind = "resonance"
	TargetEffectParam TargetKind = "effectParam"
	TargetSamplerRate TargetKind = "samplerRate"
	TargetSamplerAmp  TargetKind = "samplerAmp"
)

// AutomationTarget binds a lane to one module parameter. Comparable, so
// a duplicate lane for the same target can be detected.
type AutomationTarget struct {
	Kind   TargetKind `json:"kind"`
	Module uuid.UUID  `json:"module"`
	Effect int        `json:"effect,omitempty"` // TargetEffectParam only
	Param  string     `json:"param,omitempty"`  // TargetEffectParam only
}

// DefaultRange gives the natural value range for the target kind
func (t AutomationTarget) DefaultRange() (min, max float64) {
	switch t.Kind {
	case TargetPan:
		return -1, 1
	case TargetCutoff:
		return 20, 20000
	case TargetSamplerRate:
		return -2, 2
	default:
		return 0, 1
	}
}

// Name is a short display name for the target
func (t AutomationTarget) Name() string {
	switch t.Kind {
	case TargetLevel:
		return "Level"
	case TargetPan:
		return "Pan"
	case TargetCutoff:
		return "Cutoff"
	case TargetResonance:
		return "Resonance"
	case TargetEffectParam:
		return t.Param
	case TargetSamplerRate:
		return "Rate"
	case TargetSamplerAmp:
		return "Amp"
	}
	return string(t.Kind)
}

// CurveType selects how a segment interpolates toward the next point
type CurveType string

const (
	CurveLinear      CurveType = "linear"
	CurveExponential CurveType = "exponential"
	CurveStep        CurveType = "step"
	CurveSCurve      CurveType = "scurve"
)

// AutomationPoint is one breakpoint on a lane. Value is normalized 0..1;
// the lane's range maps it to the target's units.
type AutomationPoint struct {
	Tick  uint32    `json:"tick"`
	Value float64   `json:"value"`
	Curve CurveType `json:"curve"`
}

// NewAutomationPoint clamps value into the normalized range
func NewAutomationPoint(tick uint32, value float64) AutomationPoint {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return AutomationPoint{Tick: tick, Value: value, Curve: CurveLinear}
}

// AutomationLane is a time-indexed control curve bound to one target
type AutomationLane struct {
	ID       uuid.UUID         `json:"id"`
	Target   AutomationTarget  `json:"target"`
	Points   []AutomationPoint `json:"points"` // sorted by tick
	Enabled  bool              `json:"enabled"`
	MinValue float64           `json:"minValue"`
	MaxValue float64           `json:"maxValue"`
}

// NewAutomationLane creates an enabled lane spanning the target's
// default range
func NewAutomationLane(target AutomationTarget) *AutomationLane {
	min, max := target.DefaultRange()
	return &AutomationLane{
		ID:       uuid.New(),
		Target:   target,
		Enabled:  true,
		MinValue: min,
		MaxValue: max,
	}
}

// AddPoint places a breakpoint, replacing any point at the same tick.
// Points stay sorted.
func (l *AutomationLane) AddPoint(tick uint32, value float64) {
	l.RemovePoint(tick)

	point := NewAutomationPoint(tick, value)
	pos := len(l.Points)
	for i, p := range l.Points {
		if p.Tick > tick {
			pos = i
			break
		}
	}
	l.Points = append(l.Points, AutomationPoint{})
	copy(l.Points[pos+1:], l.Points[pos:])
	l.Points[pos] = point
}

// RemovePoint deletes the breakpoint at the given tick, if any
func (l *AutomationLane) RemovePoint(tick uint32) {
	kept := l.Points[:0]
	for _, p := range l.Points {
		if p.Tick != tick {
			kept = append(kept, p)
		}
	}
	l.Points = kept
}

// PointAt finds the breakpoint at an exact tick
func (l *AutomationLane) PointAt(tick uint32) *AutomationPoint {
	for i := range l.Points {
		if l.Points[i].Tick == tick {
			return &l.Points[i]
		}
	}
	return nil
}

// ValueAt samples the lane at a tick position, mapped into the lane's
// value range. Returns false when the lane is disabled or has no
// points - absence means "apply nothing", not "apply zero". Before the
// first point the first value holds; after the last point the last
// value holds; between points the segment interpolates with the
// earlier point's curve.
func (l *AutomationLane) ValueAt(tick uint32) (float64, bool) {
	if len(l.Points) == 0 || !l.Enabled {
		return 0, false
	}

	var prev, next *AutomationPoint
	for i := range l.Points {
		p := &l.Points[i]
		if p.Tick <= tick {
			prev = p
		} else {
			next = p
			break
		}
	}

	var normalized float64
	switch {
	case next == nil:
		normalized = prev.Value
	case prev == nil:
		normalized = next.Value
	case prev.Tick == tick:
		normalized = prev.Value
	default:
		t := float64(tick-prev.Tick) / float64(next.Tick-prev.Tick)
		normalized = interpolate(prev.Value, next.Value, t, prev.Curve)
	}

	return l.MinValue + normalized*(l.MaxValue-l.MinValue), true
}

func interpolate(from, to, t float64, curve CurveType) float64 {
	switch curve {
	case CurveStep:
		return from
	case CurveExponential:
		// Eases in, good for frequency sweeps
		return from + (to-from)*t*t
	case CurveSCurve:
		s := t * t * (3 - 2*t) // smoothstep
		return from + (to-from)*s
	}
	return from + (to-from)*t
}

// AutomationState holds every lane in the project
type AutomationState struct {
	Lanes        []*AutomationLane `json:"lanes"`
	SelectedLane int               `json:"selectedLane"`
}

// NewAutomationState creates an empty lane set
func NewAutomationState() *AutomationState {
	return &AutomationState{SelectedLane: -1}
}

// AddLane creates a lane for the target, or returns the existing lane's
// id when the target is already automated
func (a *AutomationState) AddLane(target AutomationTarget) uuid.UUID {
	for _, l := range a.Lanes {
		if l.Target == target {
			return l.ID
		}
	}

	lane := NewAutomationLane(target)
	a.Lanes = append(a.Lanes, lane)
	if a.SelectedLane < 0 {
		a.SelectedLane = len(a.Lanes) - 1
	}
	return lane.ID
}

// RemoveLane deletes a lane by id
func (a *AutomationState) RemoveLane(id uuid.UUID) {
	for i, l := range a.Lanes {
		if l.ID == id {
			a.Lanes = append(a.Lanes[:i], a.Lanes[i+1:]...)
			break
		}
	}
	if a.SelectedLane >= len(a.Lanes) {
		a.SelectedLane = len(a.Lanes) - 1
	}
}

// Lane finds a lane by id, or nil
func (a *AutomationState) Lane(id uuid.UUID) *AutomationLane {
	for _, l := range a.Lanes {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LaneForTarget finds the lane automating a target, or nil
func (a *AutomationState) LaneForTarget(target AutomationTarget) *AutomationLane {
	for _, l := range a.Lanes {
		if l.Target == target {
			return l
		}
	}
	return nil
}

// RemoveLanesForModule drops every lane bound to the module
func (a *AutomationState) RemoveLanesForModule(module uuid.UUID) {
	kept := a.Lanes[:0]
	for _, l := range a.Lanes {
		if l.Target.Module != module {
			kept = append(kept, l)
		}
	}
	a.Lanes = kept
	if a.SelectedLane >= len(a.Lanes) {
		a.SelectedLane = len(a.Lanes) - 1
	}
}

// Selected returns the selected lane, or nil
func (a *AutomationState) Selected() *AutomationLane {
	if a.SelectedLane < 0 || a.SelectedLane >= len(a.Lanes) {
		return nil
	}
	return a.Lanes[a.SelectedLane]
}
