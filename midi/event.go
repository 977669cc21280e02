package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI status nibbles
const (
	NoteOff        uint8 = 0x80
	NoteOn         uint8 = 0x90
	PolyAftertouch uint8 = 0xA0
	CC             uint8 = 0xB0
	ProgramChange  uint8 = 0xC0
	Aftertouch     uint8 = 0xD0
	PitchBend      uint8 = 0xE0
)

// Event is a decoded MIDI message as routed through the engine.
// Note doubles as controller number (CC) and program number
// (ProgramChange); Velocity doubles as controller value and pressure.
type Event struct {
	Type     uint8
	Channel  uint8
	Note     uint8
	Velocity uint8
	Bend     int16 // PitchBend only, -8192..8191
}

// FromMessage decodes an incoming message into an Event. A note-on with
// velocity zero is reported as a note-off, per convention. Returns false
// for message types the engine does not route (sysex, clock, etc).
func FromMessage(msg gomidi.Message) (Event, bool) {
	var ch, a, b uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteOn(&ch, &a, &b):
		if b == 0 {
			return Event{Type: NoteOff, Channel: ch, Note: a}, true
		}
		return Event{Type: NoteOn, Channel: ch, Note: a, Velocity: b}, true
	case msg.GetNoteOff(&ch, &a, &b):
		return Event{Type: NoteOff, Channel: ch, Note: a, Velocity: b}, true
	case msg.GetPolyAfterTouch(&ch, &a, &b):
		return Event{Type: PolyAftertouch, Channel: ch, Note: a, Velocity: b}, true
	case msg.GetControlChange(&ch, &a, &b):
		return Event{Type: CC, Channel: ch, Note: a, Velocity: b}, true
	case msg.GetProgramChange(&ch, &a):
		return Event{Type: ProgramChange, Channel: ch, Note: a}, true
	case msg.GetAfterTouch(&ch, &a):
		return Event{Type: Aftertouch, Channel: ch, Velocity: a}, true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return Event{Type: PitchBend, Channel: ch, Bend: rel}, true
	}
	return Event{}, false
}

func (e Event) String() string {
	switch e.Type {
	case NoteOn:
		return fmt.Sprintf("note-on ch=%d note=%d vel=%d", e.Channel, e.Note, e.Velocity)
	case NoteOff:
		return fmt.Sprintf("note-off ch=%d note=%d", e.Channel, e.Note)
	case CC:
		return fmt.Sprintf("cc ch=%d num=%d val=%d", e.Channel, e.Note, e.Velocity)
	case PitchBend:
		return fmt.Sprintf("bend ch=%d val=%d", e.Channel, e.Bend)
	case ProgramChange:
		return fmt.Sprintf("program ch=%d num=%d", e.Channel, e.Note)
	case Aftertouch:
		return fmt.Sprintf("aftertouch ch=%d val=%d", e.Channel, e.Velocity)
	case PolyAftertouch:
		return fmt.Sprintf("poly-aftertouch ch=%d note=%d val=%d", e.Channel, e.Note, e.Velocity)
	}
	return fmt.Sprintf("midi 0x%02X ch=%d", e.Type, e.Channel)
}
