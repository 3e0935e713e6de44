// Command midimonitor is a demo program: it lists MIDI ports and, once
// one is selected, prints every decoded event the shared MidiController
// receives from it.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/halcyonaudio/trackengine"
	"github.com/halcyonaudio/trackengine/cmd/internal/cliflags"
	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/logging"
	"github.com/halcyonaudio/trackengine/midi"
)

var flagSpecs = []cliflags.Spec{
	{Long: "--list-midi-devices", Short: "-lm"},
	{Long: "--set-midi-input", Short: "-i", TakesValue: true},
	{Long: "--verbose", Short: "-vb"},
	{Long: "--help", Short: "-h"},
	{Long: "--version", Short: "-v"},
}

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	log := logging.Default()

	args := cliflags.Parse(argv, flagSpecs, func(missing string) {
		log.Warning(nil, fmt.Sprintf("%s requires an argument, ignoring", missing))
	})

	if args.Bool("--help") {
		printUsage()
		return 0
	}
	if args.Bool("--version") {
		fmt.Println(version)
		return 0
	}
	if args.Bool("--verbose") {
		log.SetLevel(logging.Debug)
	}

	midiBackend, err := devices.NewPortMIDIBackend()
	if err != nil {
		log.Error(nil, fmt.Sprintf("initialize MIDI backend: %v", err))
		return -1
	}
	defer midiBackend.Terminate()

	ports, err := midiBackend.Ports()
	if err != nil {
		log.Error(nil, fmt.Sprintf("enumerate MIDI ports: %v", err))
		return -1
	}

	if args.Bool("--list-midi-devices") {
		for _, p := range ports {
			fmt.Printf("%d: %s\n", p.PortNumber, p.Name)
		}
		return 0
	}

	portStr, ok := args.Value("--set-midi-input")
	if !ok {
		log.Error(nil, "no --set-midi-input/-i given")
		return -1
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		log.Error(nil, fmt.Sprintf("invalid port number %q: %v", portStr, err))
		return -1
	}

	var selected devices.MIDIDevice
	found := false
	for _, p := range ports {
		if p.PortNumber == portNum {
			selected, found = p, true
			break
		}
	}
	if !found {
		log.Error(nil, fmt.Sprintf("no MIDI port numbered %d", portNum))
		return -1
	}

	controller := trackengine.NewMidiController(midiBackend, func(format string, a ...any) {
		log.Info(nil, fmt.Sprintf(format, a...))
	})

	track := trackengine.NewTrack(nil, controller)
	track.Midi.Start()
	track.Midi.OnEvent = func(ev midi.Event) {
		fmt.Println(ev.String())
	}

	if err := controller.Acquire(track, selected); err != nil {
		log.Error(nil, fmt.Sprintf("open MIDI port %d: %v", portNum, err))
		return -1
	}
	defer controller.Release(track)

	log.Info(nil, fmt.Sprintf("listening on %s, Ctrl-C to stop", selected.Name))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	return 0
}

func printUsage() {
	fmt.Println(`midimonitor - print decoded MIDI events from a port

  --list-midi-devices, -lm     list available MIDI input ports
  --set-midi-input, -i <id>    open the given port and print events
  --verbose, -vb               enable debug logging
  --help, -h                   print this message
  --version, -v                print the version`)
}
