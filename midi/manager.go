package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-scseq/debug"
)

// InputManager watches for the configured note-input port, connects when
// it appears and decodes its stream into Events. The port is hot-plug:
// it may come and go while the engine runs.
type InputManager struct {
	mu        sync.RWMutex
	portName  string
	connected bool
	stopFunc  func()

	events   chan Event
	pollRate time.Duration
}

// NewInputManager creates a manager for the named input port. An empty
// name means no input; SetPort can assign one later.
func NewInputManager(portName string) *InputManager {
	return &InputManager{
		portName: portName,
		events:   make(chan Event, 64),
		pollRate: time.Second,
	}
}

// Events returns the channel of decoded input events
func (im *InputManager) Events() <-chan Event {
	return im.events
}

// Connected reports whether the input port is currently open
func (im *InputManager) Connected() bool {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.connected
}

// SetPort switches to a different input port; takes effect on the next scan
func (im *InputManager) SetPort(name string) {
	im.mu.Lock()
	if im.portName == name {
		im.mu.Unlock()
		return
	}
	im.portName = name
	stop := im.stopFunc
	im.stopFunc = nil
	im.connected = false
	im.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Run starts the polling loop (blocking - run in goroutine)
func (im *InputManager) Run(ctx context.Context) {
	ticker := time.NewTicker(im.pollRate)
	defer ticker.Stop()

	// Initial scan
	im.scan()

	for {
		select {
		case <-ctx.Done():
			im.disconnect()
			close(im.events)
			return
		case <-ticker.C:
			im.scan()
		}
	}
}

func (im *InputManager) scan() {
	im.mu.RLock()
	name := im.portName
	connected := im.connected
	im.mu.RUnlock()

	if name == "" {
		return
	}

	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		// MIDI subsystem is hung - skip this scan
		return
	}

	var found drivers.In
	for i, p := range inPorts {
		if strings.EqualFold(p.String(), name) {
			found = inPorts[i]
			break
		}
	}

	if found == nil {
		if connected {
			im.disconnect()
			debug.Log("midi", "input %q disappeared", name)
		}
		return
	}
	if connected {
		return
	}

	stop, err := gomidi.ListenTo(found, func(msg gomidi.Message, timestampms int32) {
		ev, ok := FromMessage(msg)
		if !ok {
			return
		}
		select {
		case im.events <- ev:
		default:
			// Drop rather than block the driver callback
		}
	})
	if err != nil {
		debug.Log("midi", "open input %q: %v", name, err)
		return
	}

	im.mu.Lock()
	im.stopFunc = stop
	im.connected = true
	im.mu.Unlock()

	debug.Log("midi", "connected input %q", name)
}

func (im *InputManager) disconnect() {
	im.mu.Lock()
	stop := im.stopFunc
	im.stopFunc = nil
	im.connected = false
	im.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Close disconnects without waiting for the next scan
func (im *InputManager) Close() {
	im.disconnect()
}

// ListPorts returns the names of available MIDI input ports
func ListPorts() []string {
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	select {
	case ports := <-ch:
		names := make([]string, 0, len(ports))
		for _, p := range ports {
			names = append(names, p.String())
		}
		return names
	case <-time.After(3 * time.Second):
		return nil
	}
}
