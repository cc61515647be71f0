/*
Package track implements the event routing between the layers of an audio
track display and the coordinator that manages all tracks.

Each layer of a track is a Node. A Node owns two Channels, one for each
direction events travel in: input events (mouse, keyboard, button presses)
raised anywhere in the layer stack bubble upward until they reach the Manager
at the root, while state updates (redraw, selection, marks, playback, view)
broadcast by the Manager propagate downward to every layer. By default a Node
is a pure relay and re-emits everything unchanged one hop further; concrete
layers such as SelectionNode or WaveformNode override the kinds they care
about and decide themselves whether to keep relaying.

The Manager terminates all upward events, owns the authoritative track state,
and is the only place that starts downward broadcasts. The rendering and
playback backends stay outside the package: waveform rendering is reached
through the Broker, which carries requests to the renderer goroutine and
finished waveforms back.

All Channel dispatch is synchronous and single-goroutine; only the Broker
crosses goroutines.
*/
package track
