package track

import (
	"fmt"

	"github.com/jlammi/raide"
)

type (
	// Manager is the root coordinator of all track trees. Every upward event
	// terminates here: the Manager owns the authoritative playback, zoom,
	// mark and selection state, decides what each command means, and answers
	// with downward broadcasts into the tree the event came from (or all
	// trees, for transport-wide state like playback).
	//
	// The Manager runs entirely on the goroutine that raises the events,
	// usually the UI event loop. The only asynchronous edge is the waveform
	// renderer behind the Broker; call ProcessMessages between events to
	// drain its replies.
	Manager struct {
		broker   *Broker
		analyzer *Analyzer
		bindings KeyBindings
		alerts   Alerts

		tracks  []*managedTrack
		playing bool
		zoom    float64

		results map[string]AnalysisResult
	}

	// managedTrack is the Manager's view of one track: the tree, the sample
	// source behind it, and the root-level copy of the cursor, mark and
	// selection state.
	managedTrack struct {
		track     *Track
		source    raide.SampleSource
		subs      []Subscription
		machine   SelectionMachine
		committed map[string]raide.Selection
		marks     []raide.Mark
		cursor    int
		mouseDown bool
		selecting bool
	}
)

// keyActions maps binding action names to the command kinds they raise.
var keyActions = map[string]Kind{
	"PlayPause":       PlayPause,
	"ZoomIn":          ZoomIn,
	"ZoomOut":         ZoomOut,
	"Analyze":         Analyze,
	"FinishSelection": FinishSelection,
	"EditSelection":   EditSelection,
	"SkipForward":     SkipForward,
	"SkipBackward":    SkipBackward,
	"RequestMark":     RequestMark,
	"DeleteTrack":     Delete,
}

func NewManager(broker *Broker, bindings KeyBindings) *Manager {
	return &Manager{
		broker:   broker,
		analyzer: NewAnalyzer(),
		bindings: bindings,
		zoom:     1,
		results:  make(map[string]AnalysisResult),
	}
}

// AddTrack builds the layer stack for one track and wires the Manager to its
// root. The source is what rendering and analysis read from; it may be nil
// for a track that has no audio yet.
func (m *Manager) AddTrack(snapshot raide.TrackSnapshot, source raide.SampleSource) *Track {
	mt := &managedTrack{
		track:     NewTrack(snapshot),
		source:    source,
		committed: make(map[string]raide.Selection),
		marks:     append([]raide.Mark(nil), snapshot.Marks...),
		cursor:    snapshot.Cursor,
		machine:   NewSelectionMachine(),
		selecting: true,
	}
	for _, sel := range snapshot.Selections {
		mt.committed[sel.Name] = sel
	}
	if len(snapshot.Selections) > 0 {
		first := snapshot.Selections[0]
		mt.machine.SetContext(first.Name, first.AnalysisType)
	}
	root := mt.track.Root()
	for _, kind := range UpKinds() {
		kind := kind
		mt.subs = append(mt.subs, root.SubscribeUp(kind, func(msg Msg) {
			m.handle(mt, msg)
		}))
	}
	m.tracks = append(m.tracks, mt)
	if root.Zoom() != m.zoom {
		root.setZoom(m.zoom)
		m.broadcast(mt, Redraw, RedrawMsg{Zoom: m.zoom})
	}
	m.broadcast(mt, SetPlaying, SetPlayingMsg{Playing: m.playing})
	return mt.track
}

// RemoveTrack tears one track down: the Manager stops listening to its root
// and the layer stack detaches leaves first.
func (m *Manager) RemoveTrack(name string) bool {
	for i, mt := range m.tracks {
		if mt.track.Name() != name {
			continue
		}
		root := mt.track.Root()
		for _, s := range mt.subs {
			root.Unsubscribe(s)
		}
		mt.track.Close()
		m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
		return true
	}
	return false
}

// Track returns the managed track by name.
func (m *Manager) Track(name string) (*Track, bool) {
	if mt := m.find(name); mt != nil {
		return mt.track, true
	}
	return nil, false
}

func (m *Manager) find(name string) *managedTrack {
	for _, mt := range m.tracks {
		if mt.track.Name() == name {
			return mt
		}
	}
	return nil
}

func (m *Manager) NumTracks() int  { return len(m.tracks) }
func (m *Manager) Playing() bool   { return m.playing }
func (m *Manager) Zoom() float64   { return m.zoom }
func (m *Manager) Alerts() *Alerts { return &m.alerts }

// Result returns the stored analysis result for a track's selection.
func (m *Manager) Result(track, selection string) (AnalysisResult, bool) {
	r, ok := m.results[track+"/"+selection]
	return r, ok
}

// Marks returns the authoritative mark set of a track.
func (m *Manager) Marks(track string) []raide.Mark {
	if mt := m.find(track); mt != nil {
		return append([]raide.Mark(nil), mt.marks...)
	}
	return nil
}

// Committed returns the committed selection of a track by name.
func (m *Manager) Committed(track, selection string) (raide.Selection, bool) {
	if mt := m.find(track); mt != nil {
		sel, ok := mt.committed[selection]
		return sel, ok
	}
	return raide.Selection{}, false
}

// UpdateCursor is the playback backend's entry point: it moves the cursor of
// every track and broadcasts Update so the views follow.
func (m *Manager) UpdateCursor(sample int) {
	for _, mt := range m.tracks {
		mt.cursor = sample
		m.broadcast(mt, Update, UpdateMsg{Sample: sample})
	}
}

// SetPlaying is the playback backend reporting its actual transport state,
// e.g. stopping at the end of the audio.
func (m *Manager) SetPlaying(playing bool) {
	m.playing = playing
	for _, mt := range m.tracks {
		m.broadcast(mt, SetPlaying, SetPlayingMsg{Playing: playing})
	}
}

// ProcessMessages drains the renderer's finished waveforms and broadcasts
// them into the track they belong to. It never blocks; call it between
// events.
func (m *Manager) ProcessMessages() {
	for {
		select {
		case result := <-m.broker.ToManager:
			if mt := m.find(result.Track); mt != nil {
				m.broadcast(mt, AddWaveform, AddWaveformMsg{Waveform: result.Waveform})
			}
		default:
			return
		}
	}
}

func (m *Manager) broadcast(mt *managedTrack, kind Kind, data any) {
	mt.track.Root().EmitDown(kind, data)
}

func (m *Manager) broadcastAll(kind Kind, data any) {
	for _, mt := range m.tracks {
		m.broadcast(mt, kind, data)
	}
}

// handle terminates one upward event. This is the root coordinator's policy:
// what every button, key and pointer gesture actually does.
func (m *Manager) handle(mt *managedTrack, msg Msg) {
	switch msg.Kind {
	case MousePress:
		evt := msg.Data.(PointerMsg)
		if evt.Button != ButtonLeft || !mt.selecting {
			return
		}
		mt.mouseDown = true
		mt.machine.Start(mt.track.Root().SampleAt(evt.X))
		m.broadcast(mt, StartSelection, evt)
	case MouseMove:
		evt := msg.Data.(PointerMsg)
		if !mt.mouseDown {
			return
		}
		mt.machine.Move(mt.track.Root().SampleAt(evt.X))
		m.broadcast(mt, MoveSelection, evt)
	case MouseRelease:
		evt := msg.Data.(PointerMsg)
		if !mt.mouseDown {
			return
		}
		mt.mouseDown = false
		committed, ok := mt.machine.End(mt.track.Root().SampleAt(evt.X))
		m.broadcast(mt, EndSelection, evt)
		if ok {
			mt.committed[committed.Name] = committed
			m.broadcast(mt, SetSelection, SetSelectionMsg{Selection: committed})
		}
	case MouseDoubleClick:
		evt := msg.Data.(PointerMsg)
		m.placeMark(mt, mt.track.Root().SampleAt(evt.X))
	case KeyEnter:
		key := msg.Data.(KeyMsg)
		if action, ok := m.bindings.Lookup(key); ok {
			if kind, ok := keyActions[action]; ok {
				m.handle(mt, Msg{Kind: kind})
			}
		}
	case KeyRelease:
		// consumed; nothing is bound to releases
	case PlayPause:
		m.playing = !m.playing
		m.broadcastAll(SetPlaying, SetPlayingMsg{Playing: m.playing})
	case ZoomIn:
		m.setZoom(m.zoom * 2)
	case ZoomOut:
		m.setZoom(m.zoom / 2)
	case Analyze:
		m.analyze(mt)
	case FinishSelection:
		mt.machine.Finish()
		mt.selecting = false
		sel := mt.machine.Selection()
		mt.committed[sel.Name] = sel
		m.broadcast(mt, SetSelection, SetSelectionMsg{Selection: sel})
		m.broadcast(mt, EnableSelection, EnableSelectionMsg{Enabled: false})
	case EditSelection:
		mt.machine.Edit()
		mt.selecting = true
		sel := mt.machine.Selection()
		mt.committed[sel.Name] = sel
		m.broadcast(mt, SetSelection, SetSelectionMsg{Selection: sel})
		m.broadcast(mt, EnableSelection, EnableSelectionMsg{Enabled: true})
	case SelectionChange:
		// the layers only see the context switch through broadcasts, so a
		// SetSelection goes out even when the name was never committed;
		// a fresh name gets an empty, editable record
		change := msg.Data.(SelectionChangeMsg)
		mt.machine.SetContext(change.Name, change.AnalysisType)
		sel, ok := mt.committed[change.Name]
		if !ok {
			sel = raide.Selection{Name: change.Name, State: raide.Unlocked}
		}
		sel.AnalysisType = change.AnalysisType
		mt.committed[change.Name] = sel
		mt.machine.current.Range = sel.Range
		if sel.Editable() {
			mt.machine.Edit()
			mt.selecting = true
		} else {
			mt.machine.Finish()
			mt.selecting = false
		}
		m.broadcast(mt, SetSelection, SetSelectionMsg{Selection: sel})
		m.broadcast(mt, EnableSelection, EnableSelectionMsg{Enabled: sel.Editable()})
	case SkipForward:
		if mark, ok := raide.NextMark(mt.marks, mt.cursor); ok {
			mt.cursor = int(mark)
			m.broadcast(mt, Update, UpdateMsg{Sample: mt.cursor})
		}
	case SkipBackward:
		if mark, ok := raide.PrevMark(mt.marks, mt.cursor); ok {
			mt.cursor = int(mark)
			m.broadcast(mt, Update, UpdateMsg{Sample: mt.cursor})
		}
	case Delete:
		m.RemoveTrack(mt.track.Name())
	case RequestMark:
		m.placeMark(mt, mt.cursor)
	case RequestWaveform:
		req := msg.Data.(RequestWaveformMsg)
		if mt.source == nil {
			return
		}
		sent := TrySend(m.broker.ToRenderer, RenderRequest{
			Track:  mt.track.Name(),
			Source: mt.source,
			Block:  req.Block,
			Width:  req.Width,
			Height: req.Height,
		})
		if !sent {
			m.alerts.Add(fmt.Sprintf("Renderer busy, dropping block %d of %s", req.Block, mt.track.Name()), Warning)
		}
	case ViewChanged:
		m.broadcast(mt, SetView, msg.Data.(ViewMsg))
	}
}

func (m *Manager) placeMark(mt *managedTrack, sample int) {
	mt.marks = raide.AddMark(mt.marks, raide.Mark(sample))
	m.broadcast(mt, SetMark, SetMarkMsg{Sample: sample})
}

func (m *Manager) setZoom(zoom float64) {
	if zoom > 64 {
		zoom = 64
	}
	if zoom < 1.0/64 {
		zoom = 1.0 / 64
	}
	if zoom == m.zoom {
		return
	}
	m.zoom = zoom
	for _, mt := range m.tracks {
		// the root is not wired to its own broadcasts, but its zoom must
		// stay current: the Manager converts pointer coordinates through it
		mt.track.Root().setZoom(zoom)
		m.broadcast(mt, Redraw, RedrawMsg{Zoom: zoom})
	}
}

func (m *Manager) analyze(mt *managedTrack) {
	sel := mt.machine.Selection()
	if committed, ok := mt.committed[sel.Name]; ok {
		sel = committed
	}
	if mt.source == nil || sel.Range.Len() == 0 {
		m.alerts.Add("Nothing to analyze: no committed selection", Warning)
		return
	}
	result, err := m.analyzer.Analyze(mt.source, sel.Range)
	if err != nil {
		m.alerts.Add(fmt.Sprintf("Analysis of %q failed: %v", sel.Name, err), Error)
		return
	}
	m.results[mt.track.Name()+"/"+sel.Name] = result
	m.alerts.Add(fmt.Sprintf("%s %q: RMS %.1f/%.1f dB, peak %.1f/%.1f dB",
		sel.AnalysisType, sel.Name,
		result.RMS[0], result.RMS[1], result.Peak[0], result.Peak[1]), Info)
}
