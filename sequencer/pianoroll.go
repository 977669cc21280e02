package sequencer

import "github.com/google/uuid"

// AddTrack creates an empty polyphonic track for a module. No-op if the
// track already exists.
func (pr *PianoRollState) AddTrack(module uuid.UUID) {
	if _, ok := pr.Tracks[module]; ok {
		return
	}
	pr.Tracks[module] = &TrackState{Module: module, Polyphonic: true}
	pr.TrackOrder = append(pr.TrackOrder, module)
}

// RemoveTrack drops a module's track and its place in the track order
func (pr *PianoRollState) RemoveTrack(module uuid.UUID) {
	delete(pr.Tracks, module)
	for i, id := range pr.TrackOrder {
		if id == module {
			pr.TrackOrder = append(pr.TrackOrder[:i], pr.TrackOrder[i+1:]...)
			break
		}
	}
}

// Track returns the track for a module, or nil
func (pr *PianoRollState) Track(module uuid.UUID) *TrackState {
	return pr.Tracks[module]
}

// ToggleNote removes the note at (pitch, tick) if one exists, otherwise
// inserts one. This is the sole note editing primitive: a second toggle
// with the same pitch and tick undoes the first.
func (pr *PianoRollState) ToggleNote(module uuid.UUID, pitch uint8, tick, duration uint32, velocity uint8) {
	track := pr.Tracks[module]
	if track == nil {
		return
	}
	for i, n := range track.Notes {
		if n.Pitch == pitch && n.Tick == tick {
			track.Notes = append(track.Notes[:i], track.Notes[i+1:]...)
			return
		}
	}
	track.Notes = append(track.Notes, NoteState{
		Tick:     tick,
		Duration: duration,
		Pitch:    pitch,
		Velocity: velocity,
	})
}

// NotesInRange returns the notes with start <= tick < end
func (t *TrackState) NotesInRange(start, end uint32) []NoteState {
	var out []NoteState
	for _, n := range t.Notes {
		if n.Tick >= start && n.Tick < end {
			out = append(out, n)
		}
	}
	return out
}

// Advance moves the playhead forward by delta ticks and reports
// whether it wrapped. No-op while stopped. When looping and the
// playhead reaches or passes LoopEnd it wraps to LoopStart plus the
// overshoot, so a large delta lands at the correct phase. The wrap
// happens at most once per call; a delta longer than the whole loop is
// not corrected further. On a wrapping advance the consumer scans
// [LoopStart, playhead) only - ticks between the pre-wrap playhead and
// LoopEnd are skipped for that frame.
func (pr *PianoRollState) Advance(delta uint32) bool {
	if !pr.Playing {
		return false
	}
	pr.Playhead += delta
	if pr.Looping && pr.Playhead >= pr.LoopEnd {
		pr.Playhead = pr.LoopStart + (pr.Playhead - pr.LoopEnd)
		return true
	}
	return false
}

// BeatToTick converts a beat position to ticks
func (pr *PianoRollState) BeatToTick(beat float64) uint32 {
	return uint32(beat * float64(pr.TicksPerBeat))
}

// TickToBeat converts a tick position to beats
func (pr *PianoRollState) TickToBeat(tick uint32) float64 {
	return float64(tick) / float64(pr.TicksPerBeat)
}

// TicksPerBar derives the bar length from the time signature numerator
func (pr *PianoRollState) TicksPerBar() uint32 {
	return pr.TicksPerBeat * uint32(pr.TimeSigNum)
}

// SecsPerTick is the wall-clock duration of one tick at the current tempo
func (pr *PianoRollState) SecsPerTick() float64 {
	return 60.0 / (pr.BPM * float64(pr.TicksPerBeat))
}
