package sequencer

import (
	"math"

	"github.com/google/uuid"
)

// Common controller numbers
const (
	CcModWheel            uint8 = 1
	CcBreath              uint8 = 2
	CcFoot                uint8 = 4
	CcPortamentoTime      uint8 = 5
	CcDataEntry           uint8 = 6
	CcVolume              uint8 = 7
	CcBalance             uint8 = 8
	CcPan                 uint8 = 10
	CcExpression          uint8 = 11
	CcSustain             uint8 = 64
	CcPortamento          uint8 = 65
	CcSostenuto           uint8 = 66
	CcSoftPedal           uint8 = 67
	CcAllSoundsOff        uint8 = 120
	CcResetAllControllers uint8 = 121
	CcAllNotesOff         uint8 = 123
)

// RecordMode is the note capture state. Armed waits for the transport
// to start; Recording captures notes into the live input track.
type RecordMode int

const (
	RecordOff RecordMode = iota
	RecordArmed
	RecordRecording
)

func (m RecordMode) String() string {
	switch m {
	case RecordArmed:
		return "armed"
	case RecordRecording:
		return "recording"
	}
	return "off"
}

// CcMapping routes one controller number to an automation target.
// A nil Channel matches any channel.
type CcMapping struct {
	CcNumber uint8            `json:"ccNumber"`
	Channel  *uint8           `json:"channel,omitempty"`
	Target   AutomationTarget `json:"target"`
	MinValue float64          `json:"minValue"`
	MaxValue float64          `json:"maxValue"`
}

// MapValue scales a 0..127 controller value into the mapping's range
func (m *CcMapping) MapValue(cc uint8) float64 {
	return m.MinValue + (float64(cc)/127.0)*(m.MaxValue-m.MinValue)
}

// UnmapValue inverts MapValue, rounding to the nearest controller step
// and clamping to 0..127
func (m *CcMapping) UnmapValue(value float64) uint8 {
	span := m.MaxValue - m.MinValue
	if span == 0 {
		return 0
	}
	cc := math.Round((value - m.MinValue) / span * 127.0)
	if cc < 0 {
		cc = 0
	}
	if cc > 127 {
		cc = 127
	}
	return uint8(cc)
}

// PitchBendConfig routes the bend wheel to an automation target. The
// wheel rests at CenterValue and swings by Range scaled by Sensitivity.
type PitchBendConfig struct {
	Target      AutomationTarget `json:"target"`
	CenterValue float64          `json:"centerValue"`
	Range       float64          `json:"range"`
	Sensitivity float64          `json:"sensitivity"`
}

// NewPitchBendConfig centers on the target's range midpoint at full
// sensitivity
func NewPitchBendConfig(target AutomationTarget) PitchBendConfig {
	min, max := target.DefaultRange()
	return PitchBendConfig{
		Target:      target,
		CenterValue: (min + max) / 2,
		Range:       (max - min) / 2,
		Sensitivity: 1.0,
	}
}

// SamplerRateBend is the preset for bending a sampler's playback rate
// around normal speed
func SamplerRateBend(module uuid.UUID) PitchBendConfig {
	return PitchBendConfig{
		Target:      AutomationTarget{Kind: TargetSamplerRate, Module: module},
		CenterValue: 1.0,
		Range:       1.0,
		Sensitivity: 1.0,
	}
}

// MapValue converts a signed 14-bit bend (-8192..8191) into the
// configured value range. Note the wheel's downward reach is one step
// deeper than its upward reach.
func (p *PitchBendConfig) MapValue(bend int16) float64 {
	return p.CenterValue + (float64(bend)/8192.0)*p.Range*p.Sensitivity
}

// MidiMapState holds the controller routing table and capture state
type MidiMapState struct {
	CcMappings      []CcMapping       `json:"ccMappings"`
	PitchBends      []PitchBendConfig `json:"pitchBends"`
	LiveInputModule *uuid.UUID        `json:"liveInputModule,omitempty"`
	NotePassthrough bool              `json:"notePassthrough"`
	ChannelFilter   *uint8            `json:"channelFilter,omitempty"`
	RecordMode      RecordMode        `json:"-"`
}

// NewMidiMapState creates an empty map with note passthrough on
func NewMidiMapState() *MidiMapState {
	return &MidiMapState{NotePassthrough: true}
}

// AddCcMapping installs a mapping, replacing any existing one for the
// same controller number and channel
func (m *MidiMapState) AddCcMapping(mapping CcMapping) {
	for i, existing := range m.CcMappings {
		if existing.CcNumber == mapping.CcNumber && sameChannel(existing.Channel, mapping.Channel) {
			m.CcMappings[i] = mapping
			return
		}
	}
	m.CcMappings = append(m.CcMappings, mapping)
}

// RemoveCcMapping drops the mapping for a controller number and channel
func (m *MidiMapState) RemoveCcMapping(ccNumber uint8, channel *uint8) {
	for i, existing := range m.CcMappings {
		if existing.CcNumber == ccNumber && sameChannel(existing.Channel, channel) {
			m.CcMappings = append(m.CcMappings[:i], m.CcMappings[i+1:]...)
			return
		}
	}
}

// FindCcMapping looks up the mapping for an incoming controller event.
// A mapping with a nil channel matches any channel.
func (m *MidiMapState) FindCcMapping(ccNumber, channel uint8) *CcMapping {
	for i := range m.CcMappings {
		mapping := &m.CcMappings[i]
		if mapping.CcNumber != ccNumber {
			continue
		}
		if mapping.Channel == nil || *mapping.Channel == channel {
			return mapping
		}
	}
	return nil
}

// AddPitchBend installs a bend config. Each module carries at most one,
// so a new config for the same module replaces the old one even when it
// points at a different parameter.
func (m *MidiMapState) AddPitchBend(config PitchBendConfig) {
	for i, existing := range m.PitchBends {
		if existing.Target.Module == config.Target.Module {
			m.PitchBends[i] = config
			return
		}
	}
	m.PitchBends = append(m.PitchBends, config)
}

// RemovePitchBend drops a module's bend config
func (m *MidiMapState) RemovePitchBend(module uuid.UUID) {
	for i, existing := range m.PitchBends {
		if existing.Target.Module == module {
			m.PitchBends = append(m.PitchBends[:i], m.PitchBends[i+1:]...)
			return
		}
	}
}

// FindPitchBend returns a module's bend config, or nil if the wheel is
// not mapped for it
func (m *MidiMapState) FindPitchBend(module uuid.UUID) *PitchBendConfig {
	for i := range m.PitchBends {
		if m.PitchBends[i].Target.Module == module {
			return &m.PitchBends[i]
		}
	}
	return nil
}

// ShouldProcessChannel applies the global channel filter. No filter
// means every channel passes.
func (m *MidiMapState) ShouldProcessChannel(channel uint8) bool {
	return m.ChannelFilter == nil || *m.ChannelFilter == channel
}

// Arm readies note capture for the next transport start
func (m *MidiMapState) Arm() {
	m.RecordMode = RecordArmed
}

// StartRecording promotes Armed to Recording. Off stays off, so a
// transport start without arming never records.
func (m *MidiMapState) StartRecording() {
	if m.RecordMode == RecordArmed {
		m.RecordMode = RecordRecording
	}
}

// StopRecording ends capture from any state
func (m *MidiMapState) StopRecording() {
	m.RecordMode = RecordOff
}

func sameChannel(a, b *uint8) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
