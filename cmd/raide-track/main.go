// raide-track wires up a manager with a couple of demo tracks and drives
// them through a scripted editing session: select a region, analyze it, drop
// marks, zoom. It exists to exercise the routing layer end to end without a
// GUI; the interesting part is the event traffic it logs.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jlammi/raide"
	"github.com/jlammi/raide/track"
	"github.com/jlammi/raide/version"
)

var bindingsFile = flag.String("bindings", "", "load key bindings from `file` on top of the defaults")
var sessionFile = flag.String("session", "", "load track snapshots from a yaml `file` instead of the built-in demo track")
var trace = flag.Bool("trace", false, "log every event surfacing at the track roots")
var showVersion = flag.Bool("version", false, "print version and exit")

func loadSession(path string) ([]raide.TrackSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snapshots []raide.TrackSnapshot
	if err := yaml.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", path, err)
	}
	return snapshots, nil
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.VersionOrHash)
		return
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer logger.Sync()

	bindings := track.DefaultKeyBindings()
	if *bindingsFile != "" {
		bindings, err = track.LoadKeyBindings(*bindingsFile)
		if err != nil {
			logger.Fatal("loading key bindings failed", zap.Error(err))
		}
	}

	broker := track.NewBroker()
	renderer := track.NewRenderer(broker)
	go renderer.Run()

	manager := track.NewManager(broker, bindings)
	snapshots := []raide.TrackSnapshot{{
		Name:            "demo",
		State:           raide.Unlocked,
		Selections:      []raide.Selection{{Name: "verse", AnalysisType: "loudness"}},
		AnalysisTypes:   []string{"loudness", "peak"},
		Width:           1200,
		Height:          240,
		SamplesPerPixel: 256,
		Zoom:            1,
	}}
	if *sessionFile != "" {
		snapshots, err = loadSession(*sessionFile)
		if err != nil {
			logger.Fatal("loading session failed", zap.Error(err))
		}
	}
	var t *track.Track
	for _, snapshot := range snapshots {
		t = manager.AddTrack(snapshot, sineSource(44100*10, 440, 0.5))
	}
	if t == nil {
		logger.Fatal("session contains no tracks")
	}

	if *trace {
		for _, kind := range track.UpKinds() {
			kind := kind
			t.Root().SubscribeUp(kind, func(msg track.Msg) {
				logger.Debug("event", zap.Stringer("kind", msg.Kind), zap.Any("data", msg.Data))
			})
		}
	}

	// drag a selection over the first two seconds and analyze it
	leaf := t.Cursor
	leaf.EmitUp(track.MousePress, track.PointerMsg{Button: track.ButtonLeft, X: 0})
	leaf.EmitUp(track.MouseMove, track.PointerMsg{Button: track.ButtonLeft, X: 344})
	leaf.EmitUp(track.MouseRelease, track.PointerMsg{Button: track.ButtonLeft, X: 344})
	t.Buttons.Analyze().Do()

	// drop marks and skip between them
	leaf.EmitUp(track.MouseDoubleClick, track.PointerMsg{Button: track.ButtonLeft, X: 100})
	leaf.EmitUp(track.MouseDoubleClick, track.PointerMsg{Button: track.ButtonLeft, X: 600})
	t.Buttons.SkipForward().Do()

	// zooming re-requests the visible waveform blocks from the renderer
	t.Buttons.ZoomIn().Do()
	time.Sleep(100 * time.Millisecond)
	manager.ProcessMessages()

	selName := t.Buttons.Selection().Name
	if sel, ok := manager.Committed(t.Name(), selName); ok {
		logger.Info("committed selection",
			zap.String("name", sel.Name),
			zap.Int("start", sel.Range.Start),
			zap.Int("end", sel.Range.End))
	}
	if result, ok := manager.Result(t.Name(), selName); ok {
		logger.Info("analysis",
			zap.Float32("rmsLeft", float32(result.RMS[0])),
			zap.Float32("rmsRight", float32(result.RMS[1])),
			zap.Float32("peakLeft", float32(result.Peak[0])))
	}
	logger.Info("cached waveform blocks", zap.Int("blocks", t.Waveform.NumCached()))
	for {
		alert, ok := manager.Alerts().Pop()
		if !ok {
			break
		}
		logger.Info("alert", zap.String("message", alert.Message))
	}

	track.TrySend(broker.CloseRenderer, struct{}{})
	track.TimeoutReceive(broker.FinishedRenderer, 3*time.Second)
}

// sineSource synthesizes a stereo sine for the demo track.
func sineSource(n int, freq float64, amplitude float32) raide.SampleSource {
	buf := make(raide.AudioBuffer, n)
	for i := range buf {
		v := amplitude * float32(math.Sin(2*math.Pi*freq*float64(i)/44100))
		buf[i] = [2]float32{v, v}
	}
	return &raide.BufferSource{Buffer: buf}
}
