package sequencer

import (
	"github.com/google/uuid"

	"go-scseq/debug"
	"go-scseq/midi"
)

// Synth is the audio backend the player drives. Calls are fire and
// forget: a disconnected backend swallows them and playback state
// keeps advancing regardless.
type Synth interface {
	SpawnVoice(module uuid.UUID, pitch uint8, velocity float64, offsetSecs float64)
	ReleaseVoice(module uuid.UUID, pitch uint8, offsetSecs float64)
	ApplyAutomation(target AutomationTarget, value float64)
	PlayDrumHit(bufferID int32, amplitude float64, module uuid.UUID)
	SetParam(nodeID int32, param string, value float32)
}

// ActiveNote tracks a sounding voice until its remaining ticks run out
type ActiveNote struct {
	Module    uuid.UUID
	Pitch     uint8
	Remaining uint32
}

type heldNote struct {
	startTick uint32
	velocity  uint8
}

// Player turns wall-clock time into synth events. One Tick per host
// frame advances the piano roll and every drum machine, fires whatever
// the playhead crossed, and samples automation.
type Player struct {
	synth     Synth
	active    []ActiveNote
	heldNotes map[uint8]heldNote
}

func NewPlayer(synth Synth) *Player {
	return &Player{
		synth:     synth,
		heldNotes: make(map[uint8]heldNote),
	}
}

// ActiveVoices reports how many spawned notes have not yet been
// released
func (p *Player) ActiveVoices() int {
	return len(p.active)
}

// Play starts the transport. An armed recorder goes live here, so
// captured notes always line up with the run that recorded them.
func (p *Player) Play() {
	S.MidiMap.StartRecording()
	S.PianoRoll.Playing = true
	for _, m := range S.Modules {
		if m.Drum != nil {
			m.Drum.Playing = true
		}
	}
	debug.Log("playback", "play: record=%s", S.MidiMap.RecordMode)
}

// Stop halts the transport and rewinds the piano roll. Sounding voices
// are released immediately. Drum machines keep their step phase so a
// restart picks up where they left off.
func (p *Player) Stop() {
	S.PianoRoll.Playing = false
	S.PianoRoll.Playhead = 0
	for _, m := range S.Modules {
		if m.Drum != nil {
			m.Drum.Playing = false
		}
	}

	for _, n := range p.active {
		p.synth.ReleaseVoice(n.Module, n.Pitch, 0)
	}
	p.active = p.active[:0]
	p.heldNotes = make(map[uint8]heldNote)
	S.MidiMap.StopRecording()
	debug.Log("playback", "stop")
}

// TogglePlay flips between Play and Stop
func (p *Player) TogglePlay() {
	if S.PianoRoll.Playing {
		p.Stop()
	} else {
		p.Play()
	}
}

// Tick advances playback by elapsed wall-clock seconds. Sub-tick
// remainders are dropped each frame; at sequencer resolutions a frame
// of drift is inaudible.
func (p *Player) Tick(elapsedSeconds float64) {
	p.tickPianoRoll(elapsedSeconds)
	p.tickDrums(elapsedSeconds)
}

func (p *Player) tickPianoRoll(elapsedSeconds float64) {
	pr := S.PianoRoll
	if !pr.Playing {
		return
	}

	ticksF := elapsedSeconds * (pr.BPM / 60.0) * float64(pr.TicksPerBeat)
	delta := uint32(ticksF)
	if delta == 0 {
		return
	}

	oldTick := pr.Playhead
	pr.Advance(delta)
	newTick := pr.Playhead
	secsPerTick := pr.SecsPerTick()

	// A playhead that moved backwards means the loop wrapped; rescan
	// from the loop start so notes there fire on every pass
	scanStart, scanEnd := oldTick, newTick
	if newTick < oldTick {
		scanStart = pr.LoopStart
	}

	for _, moduleID := range pr.TrackOrder {
		track := pr.Tracks[moduleID]
		if track == nil {
			continue
		}
		module := S.Module(moduleID)
		if module == nil || module.Muted {
			continue
		}
		for _, note := range track.NotesInRange(scanStart, scanEnd) {
			// Notes ahead of the old playhead get a sub-frame delay so
			// they sound on time; notes behind it (post-wrap) fire now
			offset := 0.0
			if note.Tick >= oldTick {
				offset = float64(note.Tick-oldTick) * secsPerTick
			}
			p.synth.SpawnVoice(moduleID, note.Pitch, float64(note.Velocity)/127.0, offset)
			p.active = append(p.active, ActiveNote{
				Module:    moduleID,
				Pitch:     note.Pitch,
				Remaining: note.Duration,
			})
		}
	}

	for _, lane := range S.Automation.Lanes {
		if value, ok := lane.ValueAt(newTick); ok {
			p.synth.ApplyAutomation(lane.Target, value)
		}
	}

	// Count down sounding notes, including ones spawned just above, so
	// a note shorter than this frame's delta still gets its release
	kept := p.active[:0]
	for _, n := range p.active {
		if n.Remaining <= delta {
			p.synth.ReleaseVoice(n.Module, n.Pitch, float64(n.Remaining)*secsPerTick)
			continue
		}
		n.Remaining -= delta
		kept = append(kept, n)
	}
	p.active = kept
}

func (p *Player) tickDrums(elapsedSeconds float64) {
	bpm := S.PianoRoll.BPM
	for _, module := range S.Modules {
		if module.Drum == nil {
			continue
		}
		crossed := module.Drum.Advance(elapsedSeconds, bpm)
		if module.Muted {
			// Phase advanced above; a muted kit stays in sync with the
			// rest of the transport and fires again on unmute
			continue
		}
		for _, step := range crossed {
			for _, hit := range module.Drum.Hits(step) {
				p.synth.PlayDrumHit(hit.BufferID, hit.Amplitude, module.ID)
			}
		}
	}
}

// HandleMIDI routes one incoming event: controller and bend events
// through the mapping tables, notes to the live input module, and
// into the piano roll when recording.
func (p *Player) HandleMIDI(ev midi.Event) {
	if !S.MidiMap.ShouldProcessChannel(ev.Channel) {
		return
	}

	switch ev.Type {
	case midi.CC:
		if mapping := S.MidiMap.FindCcMapping(ev.Note, ev.Channel); mapping != nil {
			p.synth.ApplyAutomation(mapping.Target, mapping.MapValue(ev.Velocity))
		}

	case midi.PitchBend:
		for i := range S.MidiMap.PitchBends {
			config := &S.MidiMap.PitchBends[i]
			p.synth.ApplyAutomation(config.Target, config.MapValue(ev.Bend))
		}

	case midi.NoteOn:
		module := S.MidiMap.LiveInputModule
		if module == nil {
			return
		}
		if S.MidiMap.NotePassthrough {
			p.synth.SpawnVoice(*module, ev.Note, float64(ev.Velocity)/127.0, 0)
		}
		if S.MidiMap.RecordMode == RecordRecording && S.PianoRoll.Playing {
			p.heldNotes[ev.Note] = heldNote{
				startTick: S.PianoRoll.Playhead,
				velocity:  ev.Velocity,
			}
		}

	case midi.NoteOff:
		module := S.MidiMap.LiveInputModule
		if module == nil {
			return
		}
		if S.MidiMap.NotePassthrough {
			p.synth.ReleaseVoice(*module, ev.Note, 0)
		}
		if held, ok := p.heldNotes[ev.Note]; ok {
			delete(p.heldNotes, ev.Note)
			if S.MidiMap.RecordMode == RecordRecording {
				duration := uint32(1)
				if now := S.PianoRoll.Playhead; now > held.startTick {
					duration = now - held.startTick
				}
				S.PianoRoll.ToggleNote(*module, ev.Note, held.startTick, duration, held.velocity)
			}
		}
	}
}
