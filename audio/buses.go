package audio

import "github.com/google/uuid"

const (
	firstAudioBus    int32 = 16 // 0-15 belong to the hardware channels
	audioBusStride   int32 = 2  // stereo pairs
	firstControlBus  int32 = 0
	controlBusStride int32 = 1
)

type busKey struct {
	module uuid.UUID
	port   string
}

// BusAllocator hands out private scsynth bus indices keyed by module
// and port name. Asking again for the same key returns the same index.
// Indices are monotonic: releasing a module retires its buses for good
// and later allocations keep counting upward.
type BusAllocator struct {
	nextAudio   int32
	nextControl int32
	audio       map[busKey]int32
	control     map[busKey]int32
}

func NewBusAllocator() *BusAllocator {
	return &BusAllocator{
		nextAudio:   firstAudioBus,
		nextControl: firstControlBus,
		audio:       make(map[busKey]int32),
		control:     make(map[busKey]int32),
	}
}

// AcquireAudioBus returns the audio bus for a module port, allocating a
// fresh stereo pair on first use
func (b *BusAllocator) AcquireAudioBus(module uuid.UUID, port string) int32 {
	key := busKey{module: module, port: port}
	if bus, ok := b.audio[key]; ok {
		return bus
	}
	bus := b.nextAudio
	b.nextAudio += audioBusStride
	b.audio[key] = bus
	return bus
}

// AcquireControlBus returns the control bus for a module port,
// allocating a fresh index on first use
func (b *BusAllocator) AcquireControlBus(module uuid.UUID, port string) int32 {
	key := busKey{module: module, port: port}
	if bus, ok := b.control[key]; ok {
		return bus
	}
	bus := b.nextControl
	b.nextControl += controlBusStride
	b.control[key] = bus
	return bus
}

// AudioBus looks up an existing audio bus without allocating
func (b *BusAllocator) AudioBus(module uuid.UUID, port string) (int32, bool) {
	bus, ok := b.audio[busKey{module: module, port: port}]
	return bus, ok
}

// ControlBus looks up an existing control bus without allocating
func (b *BusAllocator) ControlBus(module uuid.UUID, port string) (int32, bool) {
	bus, ok := b.control[busKey{module: module, port: port}]
	return bus, ok
}

// ControlBuses lists a module's control buses by port name
func (b *BusAllocator) ControlBuses(module uuid.UUID) map[string]int32 {
	buses := make(map[string]int32)
	for key, bus := range b.control {
		if key.module == module {
			buses[key.port] = bus
		}
	}
	return buses
}

// ReleaseModule drops every bus owned by the module. The indices are
// not recycled.
func (b *BusAllocator) ReleaseModule(module uuid.UUID) {
	for key := range b.audio {
		if key.module == module {
			delete(b.audio, key)
		}
	}
	for key := range b.control {
		if key.module == module {
			delete(b.control, key)
		}
	}
}

// Reset forgets every allocation and starts the counters over, for use
// after the server itself has been reset
func (b *BusAllocator) Reset() {
	b.nextAudio = firstAudioBus
	b.nextControl = firstControlBus
	b.audio = make(map[busKey]int32)
	b.control = make(map[busKey]int32)
}
