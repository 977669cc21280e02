package sequencer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleNote(t *testing.T) {
	pr := NewPianoRollState()
	module := uuid.New()
	pr.AddTrack(module)

	t.Run("toggle places then removes", func(t *testing.T) {
		pr.ToggleNote(module, 60, 480, 240, 100)
		require.Len(t, pr.Track(module).Notes, 1)
		assert.Equal(t, NoteState{Tick: 480, Duration: 240, Pitch: 60, Velocity: 100}, pr.Track(module).Notes[0])

		pr.ToggleNote(module, 60, 480, 240, 100)
		assert.Empty(t, pr.Track(module).Notes)
	})

	t.Run("removal matches on pitch and tick only", func(t *testing.T) {
		pr.ToggleNote(module, 60, 480, 240, 100)
		pr.ToggleNote(module, 60, 480, 960, 20) // different duration and velocity
		assert.Empty(t, pr.Track(module).Notes)
	})

	t.Run("same tick different pitch coexist", func(t *testing.T) {
		pr.ToggleNote(module, 60, 0, 240, 100)
		pr.ToggleNote(module, 64, 0, 240, 100)
		assert.Len(t, pr.Track(module).Notes, 2)
	})

	t.Run("unknown module is a no-op", func(t *testing.T) {
		pr.ToggleNote(uuid.New(), 60, 0, 240, 100)
	})
}

func TestNotesInRange(t *testing.T) {
	pr := NewPianoRollState()
	module := uuid.New()
	pr.AddTrack(module)

	pr.ToggleNote(module, 60, 0, 100, 100)
	pr.ToggleNote(module, 61, 480, 100, 100)
	pr.ToggleNote(module, 62, 959, 100, 100)
	pr.ToggleNote(module, 63, 960, 100, 100)

	track := pr.Track(module)

	// Half open: start included, end excluded
	notes := track.NotesInRange(480, 960)
	require.Len(t, notes, 2)
	assert.Equal(t, uint8(61), notes[0].Pitch)
	assert.Equal(t, uint8(62), notes[1].Pitch)

	assert.Empty(t, track.NotesInRange(100, 480))
	assert.Len(t, track.NotesInRange(0, 961), 4)
}

func TestAdvance(t *testing.T) {
	newRoll := func() *PianoRollState {
		pr := NewPianoRollState()
		pr.Playing = true
		pr.LoopStart = 0
		pr.LoopEnd = 1920
		return pr
	}

	t.Run("stopped transport does not move", func(t *testing.T) {
		pr := newRoll()
		pr.Playing = false
		pr.Playhead = 100

		assert.False(t, pr.Advance(50))
		assert.Equal(t, uint32(100), pr.Playhead)
	})

	t.Run("plain advance", func(t *testing.T) {
		pr := newRoll()
		assert.False(t, pr.Advance(37))
		assert.Equal(t, uint32(37), pr.Playhead)
	})

	t.Run("wrap carries the overshoot", func(t *testing.T) {
		pr := newRoll()
		pr.Playhead = 1900

		assert.True(t, pr.Advance(100))
		assert.Equal(t, uint32(80), pr.Playhead)
	})

	t.Run("landing exactly on loop end wraps to loop start", func(t *testing.T) {
		pr := newRoll()
		pr.Playhead = 1910

		assert.True(t, pr.Advance(10))
		assert.Equal(t, uint32(0), pr.Playhead)
	})

	t.Run("wrap respects a nonzero loop start", func(t *testing.T) {
		pr := newRoll()
		pr.LoopStart = 960
		pr.Playhead = 1915

		assert.True(t, pr.Advance(10))
		assert.Equal(t, uint32(965), pr.Playhead)
	})

	t.Run("without looping the playhead runs free", func(t *testing.T) {
		pr := newRoll()
		pr.Looping = false
		pr.Playhead = 1900

		assert.False(t, pr.Advance(500))
		assert.Equal(t, uint32(2400), pr.Playhead)
	})
}

func TestTickConversions(t *testing.T) {
	pr := NewPianoRollState() // 120 BPM, 480 ticks per beat, 4/4

	assert.Equal(t, uint32(1200), pr.BeatToTick(2.5))
	assert.InDelta(t, 2.5, pr.TickToBeat(1200), 1e-9)
	assert.Equal(t, uint32(1920), pr.TicksPerBar())
	assert.InDelta(t, 60.0/(120*480), pr.SecsPerTick(), 1e-12)
}
