// Command sampler is a demo program: it lists audio output devices
// and, once one is selected, plays a WAV file through a single track
// on the engine.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/halcyonaudio/trackengine"
	"github.com/halcyonaudio/trackengine/cmd/internal/cliflags"
	"github.com/halcyonaudio/trackengine/devices"
	"github.com/halcyonaudio/trackengine/logging"
	"github.com/halcyonaudio/trackengine/wavfile"
)

var flagSpecs = []cliflags.Spec{
	{Long: "--list-audio-devices", Short: "-la"},
	{Long: "--set-audio-output", Short: "-o", TakesValue: true},
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

	if len(argv) == 0 {
		printUsage()
		return -1
	}

	args := cliflags.Parse(argv[1:], flagSpecs, func(missing string) {
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

	audioBackend, err := devices.NewPortAudioBackend()
	if err != nil {
		log.Error(nil, fmt.Sprintf("initialize audio backend: %v", err))
		return -1
	}
	defer audioBackend.Terminate()

	devs, err := audioBackend.Devices()
	if err != nil {
		log.Error(nil, fmt.Sprintf("enumerate audio devices: %v", err))
		return -1
	}

	if args.Bool("--list-audio-devices") {
		for _, d := range devs {
			if !d.CanOutput() {
				continue
			}
			fmt.Printf("%d: %s (out=%d in=%d)\n", d.ID, d.Name, d.OutputChannels, d.InputChannels)
		}
		return 0
	}

	wavPath := argv[0]

	idStr, ok := args.Value("--set-audio-output")
	if !ok {
		log.Error(nil, "no --set-audio-output/-o given")
		return -1
	}
	deviceID, err := strconv.Atoi(idStr)
	if err != nil {
		log.Error(nil, fmt.Sprintf("invalid device id %q: %v", idStr, err))
		return -1
	}

	var selected devices.AudioDevice
	found := false
	for _, d := range devs {
		if d.ID == deviceID {
			selected, found = d, true
			break
		}
	}
	if !found {
		log.Error(nil, fmt.Sprintf("no audio device with id %d", deviceID))
		return -1
	}

	file, err := wavfile.Load(wavPath)
	if err != nil {
		log.Error(nil, fmt.Sprintf("load %s: %v", wavPath, err))
		return -1
	}

	engine := trackengine.NewEngine(audioBackend, nil, trackengine.EngineConfig{
		SampleRate: selected.PreferredRate,
	}, log)
	defer engine.Close()

	if err := engine.SetOutputDevice(selected); err != nil {
		log.Error(nil, fmt.Sprintf("set output device: %v", err))
		return -1
	}

	track, err := engine.Structure().CreateTrack()
	if err != nil {
		log.Error(nil, fmt.Sprintf("create track: %v", err))
		return -1
	}
	track.Audio.OutputChannels = selected.OutputChannels

	if err := track.AddAudioInput(trackengine.AudioInputBinding{Kind: trackengine.AudioInputFile, File: file}); err != nil {
		log.Error(nil, fmt.Sprintf("bind file: %v", err))
		return -1
	}

	if err := track.Play(); err != nil {
		log.Error(nil, fmt.Sprintf("play: %v", err))
		return -1
	}

	if err := engine.Start(); err != nil {
		log.Error(nil, fmt.Sprintf("start stream: %v", err))
		return -1
	}

	duration := time.Duration(file.TotalFrames) * time.Second / time.Duration(file.SampleRate)
	time.Sleep(duration)

	if err := engine.Stop(); err != nil {
		log.Error(nil, fmt.Sprintf("stop stream: %v", err))
		return -1
	}

	return 0
}

func printUsage() {
	fmt.Println(`sampler <file.wav> [flags] - play a WAV file through a track

  --list-audio-devices, -la     list available audio output devices
  --set-audio-output, -o <id>   select the output device and play
  --verbose, -vb                enable debug logging
  --help, -h                    print this message
  --version, -v                 print the version`)
}
