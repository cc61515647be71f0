package track_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlammi/raide"
	"github.com/jlammi/raide/track"
)

func managedSnapshot() raide.TrackSnapshot {
	return raide.TrackSnapshot{
		Name:            "test",
		State:           raide.Unlocked,
		Selections:      []raide.Selection{{Name: "verse", AnalysisType: "loudness"}},
		AnalysisTypes:   []string{"loudness", "peak"},
		Width:           100,
		Height:          50,
		SamplesPerPixel: 100,
		Zoom:            1,
	}
}

func newTestManager(t *testing.T, source raide.SampleSource) (*track.Manager, *track.Broker, *track.Track) {
	t.Helper()
	broker := track.NewBroker()
	manager := track.NewManager(broker, track.DefaultKeyBindings())
	tr := manager.AddTrack(managedSnapshot(), source)
	return manager, broker, tr
}

func drag(leaf *track.Node, from, to float64) {
	leaf.EmitUp(track.MousePress, track.PointerMsg{Button: track.ButtonLeft, X: from})
	leaf.EmitUp(track.MouseMove, track.PointerMsg{Button: track.ButtonLeft, X: (from + to) / 2})
	leaf.EmitUp(track.MouseRelease, track.PointerMsg{Button: track.ButtonLeft, X: to})
}

func TestManagerMouseDragCommitsSelection(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	drag(tr.Cursor.Node, 1, 10)

	committed, ok := manager.Committed("test", "verse")
	require.True(t, ok)
	assert.Equal(t, raide.SampleRange{Start: 100, End: 1000}, committed.Range)

	// the commit is broadcast, so the layers agree with the coordinator
	got, ok := tr.Selection.Committed("verse")
	require.True(t, ok)
	assert.Equal(t, committed.Range, got.Range)
	assert.Equal(t, committed.Range, tr.Buttons.Selection().Range)
}

func TestManagerIgnoresNonLeftDrag(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Cursor.EmitUp(track.MousePress, track.PointerMsg{Button: track.ButtonRight, X: 1})
	tr.Cursor.EmitUp(track.MouseRelease, track.PointerMsg{Button: track.ButtonRight, X: 10})
	sel, _ := manager.Committed("test", "verse")
	assert.Equal(t, raide.SampleRange{}, sel.Range)
}

func TestManagerStrayMoveAndReleaseAreIgnored(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Cursor.EmitUp(track.MouseMove, track.PointerMsg{Button: track.ButtonLeft, X: 5})
	tr.Cursor.EmitUp(track.MouseRelease, track.PointerMsg{Button: track.ButtonLeft, X: 10})
	sel, _ := manager.Committed("test", "verse")
	assert.Equal(t, raide.SampleRange{}, sel.Range)
}

func TestManagerMarksAndSkip(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Cursor.EmitUp(track.MouseDoubleClick, track.PointerMsg{Button: track.ButtonLeft, X: 2})
	tr.Cursor.EmitUp(track.MouseDoubleClick, track.PointerMsg{Button: track.ButtonLeft, X: 5})
	require.Equal(t, []raide.Mark{200, 500}, manager.Marks("test"))
	assert.Equal(t, []raide.Mark{200, 500}, tr.Marks.Marks())

	tr.Buttons.SkipForward().Do()
	assert.Equal(t, 200, tr.Cursor.Cursor())
	tr.Buttons.SkipForward().Do()
	assert.Equal(t, 500, tr.Cursor.Cursor())
	tr.Buttons.SkipForward().Do()
	assert.Equal(t, 500, tr.Cursor.Cursor(), "no mark after the last one")
	tr.Buttons.SkipBackward().Do()
	assert.Equal(t, 200, tr.Cursor.Cursor())
}

func TestManagerRequestMarkAtCursor(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	manager.UpdateCursor(12345)
	tr.Buttons.RequestMark().Do()
	assert.Equal(t, []raide.Mark{12345}, manager.Marks("test"))
}

func TestManagerPlayPause(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	require.False(t, manager.Playing())
	tr.Buttons.PlayPause().Do()
	require.True(t, manager.Playing())
	assert.True(t, tr.Buttons.Playing())
	assert.True(t, tr.Cursor.Playing())

	// the default binding for Space toggles it back
	tr.Cursor.EmitUp(track.KeyEnter, track.KeyMsg{Key: "Space"})
	require.False(t, manager.Playing())
	assert.False(t, tr.Buttons.Playing())
}

func TestManagerUnboundKeyIsIgnored(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	require.NotPanics(t, func() {
		tr.Cursor.EmitUp(track.KeyEnter, track.KeyMsg{Key: "Q"})
		tr.Cursor.EmitUp(track.KeyRelease, track.KeyMsg{Key: "Space"})
	})
	assert.False(t, manager.Playing())
}

func TestManagerZoomBroadcastsRedraw(t *testing.T) {
	manager, broker, tr := newTestManager(t, &raide.BufferSource{Buffer: make(raide.AudioBuffer, raide.BlockSize)})
	tr.Buttons.ZoomIn().Do()
	require.Equal(t, 2.0, manager.Zoom())
	assert.Equal(t, 2.0, tr.Selection.Zoom())
	assert.Equal(t, 2.0, tr.View.Zoom())

	// the redraw invalidated the waveform cache, so the visible block was
	// re-requested through the broker
	req, ok := track.TimeoutReceive(broker.ToRenderer, time.Second)
	require.True(t, ok)
	assert.Equal(t, "test", req.Track)
	assert.Equal(t, 0, req.Block)
	assert.Equal(t, 1310, req.Width)
	assert.Equal(t, 50, req.Height)
}

func TestManagerZoomClamps(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	for i := 0; i < 20; i++ {
		tr.Buttons.ZoomIn().Do()
	}
	require.Equal(t, 64.0, manager.Zoom())
	for i := 0; i < 40; i++ {
		tr.Buttons.ZoomOut().Do()
	}
	require.Equal(t, 1.0/64, manager.Zoom())
}

func TestManagerProcessMessagesCachesWaveform(t *testing.T) {
	manager, broker, tr := newTestManager(t, nil)
	broker.ToManager <- track.RenderResult{
		Track:    "test",
		Waveform: raide.Waveform{Block: 0, Width: 10, Height: 50, Mins: make([]float32, 10), Maxs: make([]float32, 10)},
	}
	broker.ToManager <- track.RenderResult{Track: "unknown"}
	manager.ProcessMessages()
	require.Equal(t, 1, tr.Waveform.NumCached())
	_, ok := tr.Waveform.Block(0)
	require.True(t, ok)
}

func TestManagerFinishAndEditSelection(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	drag(tr.Cursor.Node, 1, 10)

	tr.Buttons.FinishSelection().Do()
	require.False(t, tr.Buttons.Selection().Editable())
	require.True(t, tr.Selection.Machine().Locked())
	committed, _ := manager.Committed("test", "verse")
	assert.Equal(t, raide.Locked, committed.State)

	// drags are ignored while locked
	drag(tr.Cursor.Node, 20, 30)
	committed, _ = manager.Committed("test", "verse")
	assert.Equal(t, raide.SampleRange{Start: 100, End: 1000}, committed.Range)

	tr.Buttons.EditSelection().Do()
	require.True(t, tr.Buttons.Selection().Editable())
	require.False(t, tr.Selection.Machine().Locked())
	drag(tr.Cursor.Node, 20, 30)
	committed, _ = manager.Committed("test", "verse")
	assert.Equal(t, raide.SampleRange{Start: 2000, End: 3000}, committed.Range)
}

func TestManagerSelectionChangeSwitchesContext(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Buttons.ChangeSelection("chorus", "peak")
	drag(tr.Cursor.Node, 1, 2)

	committed, ok := manager.Committed("test", "chorus")
	require.True(t, ok)
	assert.Equal(t, raide.SampleRange{Start: 100, End: 200}, committed.Range)
	assert.Equal(t, "peak", committed.AnalysisType)
	assert.Equal(t, "chorus", tr.Buttons.Selection().Name)

	// dragging in another context and switching back restores the commit
	tr.Buttons.ChangeSelection("verse", "loudness")
	drag(tr.Cursor.Node, 5, 6)
	tr.Buttons.ChangeSelection("chorus", "peak")
	assert.Equal(t, raide.SampleRange{Start: 100, End: 200}, tr.Buttons.Selection().Range)
}

func TestManagerAnalyze(t *testing.T) {
	manager, _, tr := newTestManager(t, sineSource(raide.BlockSize, 440, 0.5))
	drag(tr.Cursor.Node, 1, 100)
	tr.Buttons.Analyze().Do()

	result, ok := manager.Result("test", "verse")
	require.True(t, ok)
	assert.InDelta(t, -9.03, float64(result.RMS[0]), 0.3, "RMS of a 0.5 sine")
	assert.InDelta(t, -6.02, float64(result.Peak[0]), 0.1, "peak of a 0.5 sine")

	alert, ok := manager.Alerts().Pop()
	require.True(t, ok)
	assert.Equal(t, track.Info, alert.Priority)
}

func TestManagerAnalyzeWithoutSelectionAlerts(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Buttons.Analyze().Do()
	_, ok := manager.Result("test", "verse")
	require.False(t, ok)
	alert, ok := manager.Alerts().Pop()
	require.True(t, ok)
	assert.Equal(t, track.Warning, alert.Priority)
}

func TestManagerDeleteTrack(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	require.Equal(t, 1, manager.NumTracks())
	tr.Buttons.DeleteTrack().Do()
	require.Equal(t, 0, manager.NumTracks())
	_, ok := manager.Track("test")
	require.False(t, ok)
	require.False(t, manager.RemoveTrack("test"))
}

func TestManagerViewChangedBroadcastsSetView(t *testing.T) {
	_, _, tr := newTestManager(t, nil)
	views := 0
	tr.Cursor.SubscribeDown(track.SetView, func(track.Msg) { views++ })
	tr.View.Scroll(50)
	require.Equal(t, 1, views)
	assert.Equal(t, 50.0, tr.View.Visible().X)
}

func TestManagerDragAfterZoomUsesCurrentZoom(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Buttons.ZoomIn().Do()
	drag(tr.Cursor.Node, 10, 100)

	committed, ok := manager.Committed("test", "verse")
	require.True(t, ok)
	assert.Equal(t, raide.SampleRange{Start: 500, End: 5000}, committed.Range,
		"pointer positions convert at the zoomed scale")
	got, ok := tr.Selection.Committed("verse")
	require.True(t, ok)
	assert.Equal(t, committed.Range, got.Range, "coordinator and layer agree on the range")

	tr.Cursor.EmitUp(track.MouseDoubleClick, track.PointerMsg{Button: track.ButtonLeft, X: 10})
	assert.Equal(t, []raide.Mark{500}, manager.Marks("test"))
}

func TestManagerAddTrackAfterZoomInheritsZoom(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Buttons.ZoomIn().Do()

	snapshot := managedSnapshot()
	snapshot.Name = "other"
	other := manager.AddTrack(snapshot, nil)
	assert.Equal(t, 2.0, other.Root().Zoom())
	assert.Equal(t, 2.0, other.Selection.Zoom())

	drag(other.Cursor.Node, 10, 100)
	committed, ok := manager.Committed("other", "verse")
	require.True(t, ok)
	assert.Equal(t, raide.SampleRange{Start: 500, End: 5000}, committed.Range)
}

func TestManagerSelectionChangeSyncsLayers(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	tr.Buttons.ChangeSelection("chorus", "peak")
	drag(tr.Cursor.Node, 1, 2)

	got, ok := tr.Selection.Committed("chorus")
	require.True(t, ok, "the layer's machine followed the context switch")
	assert.Equal(t, raide.SampleRange{Start: 100, End: 200}, got.Range)
	committed, ok := manager.Committed("test", "chorus")
	require.True(t, ok)
	assert.Equal(t, got.Range, committed.Range)

	verse, ok := tr.Selection.Committed("verse")
	require.True(t, ok)
	assert.Equal(t, raide.SampleRange{}, verse.Range, "the old context is untouched")
}

func TestManagerSelectionChangeRestoresLockState(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	drag(tr.Cursor.Node, 1, 10)
	tr.Buttons.FinishSelection().Do()

	// a fresh context is editable even though the previous one is locked
	tr.Buttons.ChangeSelection("chorus", "peak")
	drag(tr.Cursor.Node, 20, 30)
	committed, ok := manager.Committed("test", "chorus")
	require.True(t, ok)
	assert.Equal(t, raide.SampleRange{Start: 2000, End: 3000}, committed.Range)

	// switching back to the locked record blocks drags again
	tr.Buttons.ChangeSelection("verse", "loudness")
	drag(tr.Cursor.Node, 40, 50)
	committed, _ = manager.Committed("test", "verse")
	assert.Equal(t, raide.SampleRange{Start: 100, End: 1000}, committed.Range)
	require.False(t, tr.Buttons.Selection().Editable())
}

func TestManagerUpdateCursorScrollsView(t *testing.T) {
	manager, _, tr := newTestManager(t, nil)
	manager.UpdateCursor(50000) // x = 500, far outside the 100 px view
	assert.Equal(t, 50000, tr.Cursor.Cursor())
	assert.Equal(t, 450.0, tr.View.Visible().X, "the view scrolled to keep the cursor in sight")
}

// sineSource synthesizes a stereo sine for analysis and rendering tests.
func sineSource(n int, freq float64, amplitude float32) raide.SampleSource {
	buf := make(raide.AudioBuffer, n)
	for i := range buf {
		v := amplitude * float32(math.Sin(2*math.Pi*freq*float64(i)/44100))
		buf[i] = [2]float32{v, v}
	}
	return &raide.BufferSource{Buffer: buf}
}
