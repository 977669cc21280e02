package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputManagerLifecycle(t *testing.T) {
	m := NewInputManager("KeyStep")

	assert.False(t, m.Connected())
	assert.NotNil(t, m.Events())

	// Port changes and Close are safe while nothing is open
	m.SetPort("KeyStep") // same name, no-op
	m.SetPort("MPK Mini")
	assert.False(t, m.Connected())

	m.Close()
	m.Close()
}

func TestEventChannelDoesNotBlock(t *testing.T) {
	m := NewInputManager("")

	// The buffer soaks up a burst without a reader attached
	for i := 0; i < 64; i++ {
		select {
		case m.events <- Event{Type: NoteOn, Note: uint8(i)}:
		default:
			t.Fatalf("channel refused event %d", i)
		}
	}

	ev := <-m.Events()
	assert.Equal(t, uint8(0), ev.Note)
}
