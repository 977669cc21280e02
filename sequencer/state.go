package sequencer

import (
	"fmt"

	"github.com/google/uuid"
)

// S is the global state singleton
var S *State

func init() {
	S = NewState()
}

// Drum grid dimensions
const (
	NumPads      = 12
	MaxSteps     = 64
	DefaultSteps = 16
	NumPatterns  = 4
)

const (
	DefaultStepVelocity uint8   = 100
	DefaultPadLevel     float64 = 0.8

	// Sample buffers live above the range scsynth hands out for its own use
	firstBufferID int32 = 10000
)

// ModuleKind identifies what a rack module does
type ModuleKind string

const (
	ModuleSynth   ModuleKind = "synth"
	ModuleSampler ModuleKind = "sampler"
)

// State is the single source of truth for one project
type State struct {
	ProjectName string `json:"-"` // set on save/load, not persisted inside the file

	PianoRoll  *PianoRollState  `json:"pianoRoll"`
	Modules    []*ModuleState   `json:"modules"`
	Automation *AutomationState `json:"automation"`
	MidiMap    *MidiMapState    `json:"midiMap"`
}

// NewState creates an empty project
func NewState() *State {
	return &State{
		PianoRoll:  NewPianoRollState(),
		Automation: NewAutomationState(),
		MidiMap:    NewMidiMapState(),
	}
}

// Module returns the module with the given id, or nil
func (s *State) Module(id uuid.UUID) *ModuleState {
	for _, m := range s.Modules {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// AddModule creates a module plus its piano roll track. Samplers also
// get a drum sequencer.
func (s *State) AddModule(name string, kind ModuleKind) *ModuleState {
	m := &ModuleState{
		ID:    uuid.New(),
		Name:  name,
		Kind:  kind,
		Level: 1.0,
	}
	switch kind {
	case ModuleSynth:
		m.Waveform = "saw"
	case ModuleSampler:
		m.Drum = NewDrumState()
	}
	s.Modules = append(s.Modules, m)
	s.PianoRoll.AddTrack(m.ID)
	return m
}

// RemoveModule drops the module, its track and its automation lanes
func (s *State) RemoveModule(id uuid.UUID) {
	for i, m := range s.Modules {
		if m.ID == id {
			s.Modules = append(s.Modules[:i], s.Modules[i+1:]...)
			break
		}
	}
	s.PianoRoll.RemoveTrack(id)
	s.Automation.RemoveLanesForModule(id)
}

// ModuleState is one rack module (instrument)
type ModuleState struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Kind     ModuleKind `json:"kind"`
	Waveform string     `json:"waveform,omitempty"` // synth voices only
	Muted    bool       `json:"muted"`
	Level    float64    `json:"level"`

	Drum *DrumState `json:"drum,omitempty"` // samplers only
}

// NoteState is one placed note. At most one note may start at a given
// (pitch, tick) within a track.
type NoteState struct {
	Tick     uint32 `json:"tick"`
	Duration uint32 `json:"duration"`
	Pitch    uint8  `json:"pitch"`
	Velocity uint8  `json:"velocity"`
}

// TrackState holds the notes for one module
type TrackState struct {
	Module     uuid.UUID   `json:"module"`
	Notes      []NoteState `json:"notes"`
	Polyphonic bool        `json:"polyphonic"`
}

// PianoRollState owns musical time and the note data per track
type PianoRollState struct {
	Tracks     map[uuid.UUID]*TrackState `json:"tracks"`
	TrackOrder []uuid.UUID               `json:"trackOrder"`

	BPM          float64 `json:"bpm"`
	TimeSigNum   uint8   `json:"timeSigNum"`
	TimeSigDen   uint8   `json:"timeSigDen"`
	TicksPerBeat uint32  `json:"ticksPerBeat"`

	Playing   bool   `json:"playing"`
	Looping   bool   `json:"looping"`
	LoopStart uint32 `json:"loopStart"`
	LoopEnd   uint32 `json:"loopEnd"`
	Playhead  uint32 `json:"playhead"`
}

// NewPianoRollState creates a transport looping one 4/4 bar at 120 BPM
func NewPianoRollState() *PianoRollState {
	return &PianoRollState{
		Tracks:       make(map[uuid.UUID]*TrackState),
		BPM:          120,
		TimeSigNum:   4,
		TimeSigDen:   4,
		TicksPerBeat: 480,
		Looping:      true,
		LoopStart:    0,
		LoopEnd:      480 * 4,
	}
}

// DrumStepState is one trigger cell in a pattern
type DrumStepState struct {
	Active   bool  `json:"active"`
	Velocity uint8 `json:"velocity"`
}

// DrumPadState binds a pad to a sample buffer on the server. BufferID
// stays nil until a sample is loaded; a nil pad never fires.
type DrumPadState struct {
	BufferID *int32  `json:"bufferId"`
	Path     string  `json:"path,omitempty"`
	Name     string  `json:"name"`
	Level    float64 `json:"level"`
}

// DrumPatternState is a NumPads x Length trigger grid
type DrumPatternState struct {
	Length int                      `json:"length"`
	Steps  [NumPads][]DrumStepState `json:"steps"`
}

// NewDrumPatternState creates an empty pattern of the given length
func NewDrumPatternState(length int) *DrumPatternState {
	if length < 1 {
		length = 1
	}
	if length > MaxSteps {
		length = MaxSteps
	}
	p := &DrumPatternState{Length: length}
	for pad := range p.Steps {
		p.Steps[pad] = make([]DrumStepState, length)
		for i := range p.Steps[pad] {
			p.Steps[pad][i].Velocity = DefaultStepVelocity
		}
	}
	return p
}

// DrumState is one sampler module's step sequencer
type DrumState struct {
	Pads     [NumPads]DrumPadState          `json:"pads"`
	Patterns [NumPatterns]*DrumPatternState `json:"patterns"`

	CurrentPattern int `json:"currentPattern"`

	// Playback phase. CurrentStep and StepAccumulator persist so a
	// paused groove resumes at the same sub-step phase after reload.
	CurrentStep     int     `json:"currentStep"`
	StepAccumulator float64 `json:"stepAccumulator"`
	Playing         bool    `json:"playing"`

	NextBufferID int32 `json:"nextBufferId"`
}

// NewDrumState creates a sequencer with empty default-length patterns
func NewDrumState() *DrumState {
	d := &DrumState{
		NextBufferID: firstBufferID,
	}
	for i := range d.Pads {
		d.Pads[i].Name = fmt.Sprintf("Pad %d", i+1)
		d.Pads[i].Level = DefaultPadLevel
	}
	for i := range d.Patterns {
		d.Patterns[i] = NewDrumPatternState(DefaultSteps)
	}
	return d
}
