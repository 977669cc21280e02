package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"go-scseq/debug"
	"go-scseq/sequencer"
)

const firstNodeID int32 = 1000

type voiceKey struct {
	module uuid.UUID
	pitch  uint8
}

// Engine drives an scsynth server from sequencer events. It implements
// sequencer.Synth: calls made while disconnected are dropped, never
// surfaced, so the transport runs the same with or without a server.
type Engine struct {
	client      *Client
	buses       *BusAllocator
	synthDefDir string

	connected  bool
	nextNodeID int32
	voices     map[voiceKey]int32
}

// NewEngine prepares an engine for the given server address. Nothing
// touches the network until Connect.
func NewEngine(addr, synthDefDir string) (*Engine, error) {
	client, err := NewClient(addr)
	if err != nil {
		return nil, err
	}
	return &Engine{
		client:      client,
		buses:       NewBusAllocator(),
		synthDefDir: synthDefDir,
		nextNodeID:  firstNodeID,
		voices:      make(map[voiceKey]int32),
	}, nil
}

// Connected reports whether Connect has succeeded
func (e *Engine) Connected() bool {
	return e.connected
}

// Buses exposes the engine's bus allocator
func (e *Engine) Buses() *BusAllocator {
	return e.buses
}

// Connect sets up the engine group on the server and pushes the local
// synthdefs over. A missing synthdef directory is logged, not fatal;
// the server may already have the defs loaded.
func (e *Engine) Connect() error {
	if err := e.client.GroupNew(defaultGroup); err != nil {
		return fmt.Errorf("create group %d: %w", defaultGroup, err)
	}
	if err := e.loadSynthDefs(); err != nil {
		debug.Log("audio", "synthdefs: %v", err)
	}
	e.connected = true
	debug.Log("audio", "connected to %s", e.client.Addr())
	return nil
}

// Disconnect silences the engine group and stops sending. Bus and node
// bookkeeping resets so a reconnect starts clean.
func (e *Engine) Disconnect() {
	if !e.connected {
		return
	}
	e.ReleaseAllVoices()
	if err := e.client.GroupFreeAll(defaultGroup); err != nil {
		debug.Log("audio", "free group: %v", err)
	}
	e.connected = false
	e.nextNodeID = firstNodeID
	e.buses.Reset()
	debug.Log("audio", "disconnected")
}

func (e *Engine) loadSynthDefs() error {
	if e.synthDefDir == "" {
		return nil
	}
	entries, err := os.ReadDir(e.synthDefDir)
	if err != nil {
		return err
	}
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".scsyndef") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(e.synthDefDir, entry.Name()))
		if err != nil {
			debug.Log("audio", "read synthdef %s: %v", entry.Name(), err)
			continue
		}
		if err := e.client.DefReceive(data); err != nil {
			debug.Log("audio", "send synthdef %s: %v", entry.Name(), err)
			continue
		}
		loaded++
	}
	debug.Log("audio", "loaded %d synthdefs from %s", loaded, e.synthDefDir)
	return nil
}

// SpawnVoice starts a synth node for a note. The node's automatable
// controls are mapped onto the module's control buses so lane values
// reach voices spawned after the lane last changed.
func (e *Engine) SpawnVoice(module uuid.UUID, pitch uint8, velocity float64, offsetSecs float64) {
	if !e.connected {
		return
	}
	m := sequencer.S.Module(module)
	if m == nil {
		return
	}

	def := VoiceDef(m.Waveform)
	if m.Kind == sequencer.ModuleSampler {
		def = samplerVoiceDef
	}

	key := voiceKey{module: module, pitch: pitch}
	if old, ok := e.voices[key]; ok {
		// Retriggering a sounding pitch releases the node it replaces
		e.setGate(old, 0, 0)
	}

	nodeID := e.nextNodeID
	e.nextNodeID++
	e.voices[key] = nodeID

	out := e.buses.AcquireAudioBus(module, "out")
	params := []Param{
		{Name: "freq", Value: midiHz(pitch)},
		{Name: "amp", Value: float32(velocity * m.Level)},
		{Name: "gate", Value: 1},
		{Name: "out", Value: float32(out)},
	}
	if err := e.client.SynthNew(def, nodeID, offsetSecs, params...); err != nil {
		debug.Log("audio", "spawn %s node=%d: %v", def, nodeID, err)
		return
	}
	e.mapControls(nodeID, module)
}

// ReleaseVoice closes a note's gate so its envelope can ring out
func (e *Engine) ReleaseVoice(module uuid.UUID, pitch uint8, offsetSecs float64) {
	if !e.connected {
		return
	}
	key := voiceKey{module: module, pitch: pitch}
	nodeID, ok := e.voices[key]
	if !ok {
		return
	}
	delete(e.voices, key)
	e.setGate(nodeID, 0, offsetSecs)
}

// ReleaseAllVoices gates off every sounding note
func (e *Engine) ReleaseAllVoices() {
	for _, nodeID := range e.voices {
		e.setGate(nodeID, 0, 0)
	}
	e.voices = make(map[voiceKey]int32)
}

func (e *Engine) setGate(nodeID int32, gate float32, offsetSecs float64) {
	if err := e.client.NodeSet(nodeID, offsetSecs, Param{Name: "gate", Value: gate}); err != nil {
		debug.Log("audio", "gate node=%d: %v", nodeID, err)
	}
}

// ApplyAutomation writes a lane value to the module's control bus for
// that parameter. Live nodes follow because their controls are mapped
// to the bus.
func (e *Engine) ApplyAutomation(target sequencer.AutomationTarget, value float64) {
	if !e.connected {
		return
	}
	bus := e.buses.AcquireControlBus(target.Module, controlName(target))
	if err := e.client.ControlSet(bus, float32(value)); err != nil {
		debug.LogEvery(100, "audio", "automation bus=%d: %v", bus, err)
	}
}

// PlayDrumHit fires a one-shot buffer player. The node frees itself
// when the sample ends, so it never enters the voice map.
func (e *Engine) PlayDrumHit(bufferID int32, amplitude float64, module uuid.UUID) {
	if !e.connected {
		return
	}
	nodeID := e.nextNodeID
	e.nextNodeID++

	out := e.buses.AcquireAudioBus(module, "out")
	params := []Param{
		{Name: "buf", Value: float32(bufferID)},
		{Name: "amp", Value: float32(amplitude)},
		{Name: "out", Value: float32(out)},
	}
	if err := e.client.SynthNew(drumDef, nodeID, 0, params...); err != nil {
		debug.Log("audio", "drum hit buf=%d: %v", bufferID, err)
		return
	}
	e.mapControls(nodeID, module)
}

// SetParam pokes a single control on a node
func (e *Engine) SetParam(nodeID int32, param string, value float32) {
	if !e.connected {
		return
	}
	if err := e.client.NodeSet(nodeID, 0, Param{Name: param, Value: value}); err != nil {
		debug.Log("audio", "set %s node=%d: %v", param, nodeID, err)
	}
}

// LoadPadSample allocates a server buffer from a sound file and assigns
// it to a drum pad, freeing the pad's previous buffer if it had one
func (e *Engine) LoadPadSample(module uuid.UUID, pad int, path string) error {
	m := sequencer.S.Module(module)
	if m == nil || m.Drum == nil {
		return fmt.Errorf("module %s has no drum machine", module)
	}
	if pad < 0 || pad >= sequencer.NumPads {
		return fmt.Errorf("pad %d out of range", pad)
	}
	if !e.connected {
		return fmt.Errorf("not connected")
	}

	if old := m.Drum.Pads[pad].BufferID; old != nil {
		if err := e.client.BufferFree(*old); err != nil {
			debug.Log("audio", "free buffer %d: %v", *old, err)
		}
	}

	bufferID := m.Drum.AllocBufferID()
	if err := e.client.BufferAllocRead(bufferID, path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m.Drum.AssignSample(pad, bufferID, path, name)
	debug.Log("audio", "pad %d <- %s (buf %d)", pad, name, bufferID)
	return nil
}

func (e *Engine) mapControls(nodeID int32, module uuid.UUID) {
	for param, bus := range e.buses.ControlBuses(module) {
		if err := e.client.NodeMapControl(nodeID, param, bus); err != nil {
			debug.Log("audio", "map %s node=%d: %v", param, nodeID, err)
		}
	}
}

func controlName(target sequencer.AutomationTarget) string {
	switch target.Kind {
	case sequencer.TargetLevel:
		return "level"
	case sequencer.TargetPan:
		return "pan"
	case sequencer.TargetCutoff:
		return "cutoff"
	case sequencer.TargetResonance:
		return "res"
	case sequencer.TargetSamplerRate:
		return "rate"
	case sequencer.TargetSamplerAmp:
		return "amp"
	case sequencer.TargetEffectParam:
		return target.Param
	}
	return string(target.Kind)
}

func midiHz(pitch uint8) float32 {
	return float32(440.0 * math.Pow(2, (float64(pitch)-69)/12))
}
