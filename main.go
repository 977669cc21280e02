package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"go-scseq/audio"
	"go-scseq/config"
	"go-scseq/debug"
	"go-scseq/midi"
	"go-scseq/sequencer"
)

const frameInterval = 16 * time.Millisecond

func main() {
	godotenv.Load() // optional .env, same keys as the environment

	debugFlag := flag.Bool("debug", false, "write category logs to the config dir")
	projectFlag := flag.String("project", "", "project to load on startup")
	flag.Parse()

	if *debugFlag {
		debug.Enable()
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if cfg.UI.LastTempo > 0 {
		sequencer.S.PianoRoll.BPM = cfg.UI.LastTempo
	}
	if cfg.Midi.ChannelFilter >= 1 && cfg.Midi.ChannelFilter <= 16 {
		ch := uint8(cfg.Midi.ChannelFilter - 1)
		sequencer.S.MidiMap.ChannelFilter = &ch
	}

	project := *projectFlag
	if project == "" {
		project = cfg.UI.LastProject
	}
	if project != "" {
		if err := sequencer.LoadProject(project, ""); err != nil {
			fmt.Fprintf(os.Stderr, "load project %s: %v\n", project, err)
		}
	}
	if len(sequencer.S.Modules) == 0 {
		lead := sequencer.S.AddModule("Lead", sequencer.ModuleSynth)
		sequencer.S.AddModule("Drums", sequencer.ModuleSampler)
		sequencer.S.MidiMap.LiveInputModule = &lead.ID
	}

	engine, err := audio.NewEngine(cfg.Server.Addr, cfg.Server.SynthDefDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio: %v\n", err)
		os.Exit(1)
	}
	if err := engine.Connect(); err != nil {
		// The transport runs either way; sends resume once the server
		// comes back and Connect is retried
		fmt.Fprintf(os.Stderr, "scsynth at %s unreachable: %v\n", cfg.Server.Addr, err)
	}

	player := sequencer.NewPlayer(engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := midi.NewInputManager(cfg.Midi.NoteInputPort)
	go input.Run(ctx)
	events := input.Events()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("go-scseq driving scsynth at %s\n", cfg.Server.Addr)
	if cfg.Midi.NoteInputPort != "" {
		fmt.Printf("listening for MIDI on %q (hot-plug)\n", cfg.Midi.NoteInputPort)
	}

	player.Play()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	last := time.Now()

	for {
		select {
		case <-sigs:
			fmt.Println("\nshutting down")
			player.Stop()
			engine.Disconnect()
			input.Close()
			cfg.UI.LastTempo = sequencer.S.PianoRoll.BPM
			cfg.UI.LastProject = sequencer.S.ProjectName
			if err := cfg.Save(); err != nil {
				fmt.Fprintf(os.Stderr, "save config: %v\n", err)
			}
			return

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			player.HandleMIDI(ev)

		case now := <-frames.C:
			player.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}
