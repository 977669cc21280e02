package main

import (
	"fmt"
	"os"
	"time"

	"go-scseq/audio"
	"go-scseq/config"
	"go-scseq/midi"
	"go-scseq/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "ping":
		ping()
	case "voice":
		testVoice()
	case "sweep":
		testSweep()
	case "drum":
		testDrum(os.Args[2:])
	case "defs":
		listDefs()
	case "midi":
		listMidi()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("scsynth Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ping         - Send /status to the server")
	fmt.Println("  voice        - Spawn and release a test voice")
	fmt.Println("  sweep        - Filter sweep over a held voice")
	fmt.Println("  drum <file>  - Load a sample and fire it")
	fmt.Println("  defs         - List known synthdef names")
	fmt.Println("  midi         - List MIDI input ports")
}

func connect() *audio.Engine {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	engine, err := audio.NewEngine(cfg.Server.Addr, cfg.Server.SynthDefDir)
	if err != nil {
		fmt.Printf("engine: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Connecting to scsynth at %s...\n", cfg.Server.Addr)
	if err := engine.Connect(); err != nil {
		fmt.Printf("connect: %v\n", err)
		os.Exit(1)
	}
	return engine
}

func ping() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v\n", err)
		os.Exit(1)
	}

	client, err := audio.NewClient(cfg.Server.Addr)
	if err != nil {
		fmt.Printf("client: %v\n", err)
		os.Exit(1)
	}

	if err := client.Status(); err != nil {
		fmt.Printf("send: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sent /status to %s\n", client.Addr())
	fmt.Println("Check the scsynth console for the status reply")
}

func testVoice() {
	engine := connect()
	defer engine.Disconnect()

	module := sequencer.S.AddModule("Test", sequencer.ModuleSynth)

	fmt.Println("Spawning middle C for half a second...")
	engine.SpawnVoice(module.ID, 60, 0.8, 0)
	time.Sleep(500 * time.Millisecond)

	engine.ReleaseVoice(module.ID, 60, 0)
	time.Sleep(time.Second) // let the release tail ring out

	fmt.Println("Done!")
}

func testSweep() {
	engine := connect()
	defer engine.Disconnect()

	module := sequencer.S.AddModule("Test", sequencer.ModuleSynth)
	target := sequencer.AutomationTarget{Kind: sequencer.TargetCutoff, Module: module.ID}

	// Park the cutoff low before the voice starts so the n_map catches
	engine.ApplyAutomation(target, 200)
	engine.SpawnVoice(module.ID, 48, 0.8, 0)

	fmt.Println("Sweeping cutoff 200Hz -> 8kHz over 2 seconds...")
	for i := 0; i <= 20; i++ {
		value := 200 + float64(i)/20*(8000-200)
		engine.ApplyAutomation(target, value)
		time.Sleep(100 * time.Millisecond)
	}

	engine.ReleaseVoice(module.ID, 48, 0)
	time.Sleep(time.Second)

	fmt.Println("Done!")
}

func testDrum(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: sctest drum <soundfile>")
		return
	}
	path := args[0]

	engine := connect()
	defer engine.Disconnect()

	module := sequencer.S.AddModule("Kit", sequencer.ModuleSampler)

	fmt.Printf("Loading %s into pad 0...\n", path)
	if err := engine.LoadPadSample(module.ID, 0, path); err != nil {
		fmt.Printf("load: %v\n", err)
		return
	}
	time.Sleep(500 * time.Millisecond) // give the server time to read the file

	pad := module.Drum.Pads[0]
	fmt.Printf("Firing buffer %d...\n", *pad.BufferID)
	engine.PlayDrumHit(*pad.BufferID, 0.9, module.ID)
	time.Sleep(2 * time.Second)

	fmt.Println("Done!")
}

func listDefs() {
	fmt.Println("=== Synthdefs ===")
	for _, w := range audio.Waveforms() {
		fmt.Printf("  %-10s -> %s\n", w, audio.VoiceDef(w))
	}
}

func listMidi() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ports := midi.ListPorts()
	if len(ports) == 0 {
		fmt.Println("  none found")
		return
	}
	for i, name := range ports {
		fmt.Printf("  %d: %s\n", i, name)
	}
}
