// Command sdrcore is a minimal demonstration harness around the DSP
// core: it reads raw I/Q blocks from a file or stdin, runs them through
// a pipeline.Pipeline built from a YAML config plus flag overrides, and
// writes the resulting PCM to a WAV file or the default audio device.
// It is not a TCP console, UDP streamer, or scanner — see the core's
// own non-goals.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/kb9rlw/sdrcore/audio"
	"github.com/kb9rlw/sdrcore/config"
	"github.com/kb9rlw/sdrcore/device"
	"github.com/kb9rlw/sdrcore/diag"
	"github.com/kb9rlw/sdrcore/indicator"
	"github.com/kb9rlw/sdrcore/internal/rtsched"
	"github.com/kb9rlw/sdrcore/pcm"
	"github.com/kb9rlw/sdrcore/pipeline"
	"github.com/kb9rlw/sdrcore/queue"
	"github.com/kb9rlw/sdrcore/squelch"
	"github.com/kb9rlw/sdrcore/tuner"
)

func main() {
	configFileName := pflag.StringP("config-file", "c", "sdrcore.yaml", "Configuration file name.")
	inputFileName := pflag.StringP("input-file", "i", "-", "Raw I/Q input file, or '-' for stdin.")
	sinkKind := pflag.StringP("sink", "s", "wav", "PCM sink: wav or portaudio.")
	wavOutFile := pflag.StringP("wav-out", "o", "", "WAV output path (default: strftime session name).")
	queueCapacity := pflag.IntP("queue-capacity", "q", queue.DefaultQueueCapacity, "Bounded I/Q queue capacity, in blocks.")
	gpioChip := pflag.String("gpio-chip", "", "GPIO chip for the squelch indicator line (e.g. gpiochip0). Empty disables it.")
	gpioLine := pflag.Int("gpio-line", 0, "GPIO line offset for the squelch indicator.")
	watchUSB := pflag.Bool("watch-usb", false, "Log USB tuner hotplug events via udev.")
	pflag.Parse()

	logger := log.Default()
	diagSink := diag.NewLogSink(logger)

	ctl, tunerCfg, err := config.Load(*configFileName)
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}

	driver, err := buildDriver(tunerCfg)
	if err != nil {
		logger.Error("tuner driver setup failed", "err", err)
		os.Exit(1)
	}

	sink, closeSink, err := buildSink(*sinkKind, *wavOutFile)
	if err != nil {
		logger.Error("pcm sink setup failed", "err", err)
		os.Exit(1)
	}
	defer closeSink()

	var squelchObserver func(squelch.Event)
	if *gpioChip != "" {
		line, err := indicator.NewSquelchLine(*gpioChip, *gpioLine)
		if err != nil {
			logger.Warn("squelch indicator unavailable, continuing without it", "err", err)
		} else {
			defer line.Close()
			squelchObserver = func(e squelch.Event) {
				if err := line.OnEvent(e); err != nil {
					logger.Warn("squelch indicator update failed", "err", err)
				}
			}
		}
	}

	q := queue.NewQueue(*queueCapacity)
	p := pipeline.New(pipeline.Config{
		Queue:           q,
		Driver:          driver,
		Sink:            sink,
		Diag:            diagSink,
		SquelchObserver: squelchObserver,
	}, ctl)

	if err := rtsched.TryElevate(rtsched.DefaultPriority); err != nil {
		logger.Warn("real-time scheduling unavailable, continuing at default priority", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *watchUSB {
		watcher, err := device.NewWatcher(ctx)
		if err != nil {
			logger.Warn("usb hotplug watcher unavailable, continuing without it", "err", err)
		} else {
			go func() {
				for ev := range watcher.Events() {
					logger.Info("usb hotplug event", "action", ev.Action, "devnode", ev.DevNode, "vendor", ev.Vendor, "product", ev.Product)
				}
			}()
		}
	}

	in, err := openInput(*inputFileName)
	if err != nil {
		logger.Error("input open failed", "err", err)
		os.Exit(1)
	}
	defer in.Close()

	go produce(ctx, in, q, logger)

	p.Run(ctx)
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

// produce reads fixed-size blocks from src and offers them to q, dropping
// malformed or excess blocks exactly as the producer task in the
// concurrency model would: it never blocks the DSP task.
func produce(ctx context.Context, src io.Reader, q *queue.Queue, logger *log.Logger) {
	blockBytes := queue.TimestampHeaderBytes + queue.DefaultPayloadBytes
	buf := make([]byte, blockBytes)
	var timestamp uint32

	for {
		if ctx.Err() != nil {
			return
		}
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			block, decErr := queue.DecodeBlock(buf[:n])
			if decErr != nil {
				logger.Warn("dropping malformed block", "err", decErr)
			} else {
				block.Timestamp = timestamp
				timestamp = queue.NextTimestamp(timestamp, len(block.Payload))
				if !q.TryEnqueue(block) {
					logger.Warn("queue full, dropped block")
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func buildDriver(cfg config.TunerSettings) (tuner.Driver, error) {
	switch cfg.Driver {
	case "hamlib":
		return tuner.OpenHamlibDriver(cfg.HamlibRig, cfg.HamlibPort)
	case "serial":
		return tuner.OpenSerialDriver(cfg.SerialPort, cfg.BaudRate)
	default:
		return tuner.NewLoopbackDriver(24), nil
	}
}

const portAudioFramesPerBuffer = 256

func buildSink(kind, wavPath string) (pcm.Sink, func(), error) {
	switch kind {
	case "portaudio":
		if err := portaudio.Initialize(); err != nil {
			return nil, func() {}, err
		}
		s, err := audio.NewPortAudioSink(portAudioFramesPerBuffer)
		if err != nil {
			return nil, func() {}, err
		}
		return s, func() { _ = s.Close(); _ = portaudio.Terminate() }, nil
	default:
		if wavPath == "" {
			name, err := audio.SessionFilename(audio.SessionFilenamePattern, time.Now())
			if err != nil {
				return nil, func() {}, err
			}
			wavPath = name
		}
		s, err := audio.NewWAVSink(wavPath)
		if err != nil {
			return nil, func() {}, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}

