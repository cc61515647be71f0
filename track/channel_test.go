package track_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jlammi/raide/track"
)

func TestChannelDeliversInRegistrationOrder(t *testing.T) {
	c := track.NewChannel(track.Up)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		c.Subscribe(track.PlayPause, func(track.Msg) { got = append(got, i) })
	}
	c.Publish(track.PlayPause, nil)
	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestChannelPublishWithoutSubscribersIsNoop(t *testing.T) {
	c := track.NewChannel(track.Down)
	require.NotPanics(t, func() {
		c.Publish(track.SetPlaying, track.SetPlayingMsg{Playing: true})
	})
}

func TestChannelUnsubscribe(t *testing.T) {
	c := track.NewChannel(track.Up)
	calls := 0
	sub := c.Subscribe(track.ZoomIn, func(track.Msg) { calls++ })
	c.Publish(track.ZoomIn, nil)
	c.Unsubscribe(sub)
	c.Publish(track.ZoomIn, nil)
	require.Equal(t, 1, calls)
	require.NotPanics(t, func() { c.Unsubscribe(sub) }, "double unsubscribe is a no-op")
}

func TestChannelDoubleSubscribePolicy(t *testing.T) {
	// subscribing the same handler twice creates two registrations;
	// unsubscribing one of them leaves the other live
	c := track.NewChannel(track.Up)
	calls := 0
	handler := func(track.Msg) { calls++ }
	first := c.Subscribe(track.Analyze, handler)
	c.Subscribe(track.Analyze, handler)
	c.Publish(track.Analyze, nil)
	require.Equal(t, 2, calls)
	c.Unsubscribe(first)
	c.Publish(track.Analyze, nil)
	require.Equal(t, 3, calls)
}

func TestChannelReentrantPublish(t *testing.T) {
	c := track.NewChannel(track.Up)
	var got []string
	c.Subscribe(track.PlayPause, func(track.Msg) {
		got = append(got, "first")
		c.Publish(track.ZoomIn, nil)
	})
	c.Subscribe(track.PlayPause, func(track.Msg) { got = append(got, "second") })
	c.Subscribe(track.ZoomIn, func(track.Msg) { got = append(got, "zoom") })
	c.Publish(track.PlayPause, nil)
	// the re-entrant publish completes inline and the second subscriber of
	// the outer round still runs
	require.Equal(t, []string{"first", "zoom", "second"}, got)
}

func TestChannelSubscribeDuringPublishMissesTheRound(t *testing.T) {
	c := track.NewChannel(track.Up)
	lateCalls := 0
	c.Subscribe(track.PlayPause, func(track.Msg) {
		c.Subscribe(track.PlayPause, func(track.Msg) { lateCalls++ })
	})
	c.Publish(track.PlayPause, nil)
	require.Equal(t, 0, lateCalls, "subscriber added mid-round must not see that round")
	c.Publish(track.PlayPause, nil)
	require.Equal(t, 1, lateCalls)
}

func TestChannelUnsubscribeDuringPublishKeepsSnapshot(t *testing.T) {
	c := track.NewChannel(track.Up)
	var subs []track.Subscription
	calls := 0
	c.Subscribe(track.PlayPause, func(track.Msg) {
		for _, s := range subs {
			c.Unsubscribe(s)
		}
	})
	subs = append(subs, c.Subscribe(track.PlayPause, func(track.Msg) { calls++ }))
	c.Publish(track.PlayPause, nil)
	require.Equal(t, 1, calls, "snapshot taken at publish time still delivers")
	c.Publish(track.PlayPause, nil)
	require.Equal(t, 1, calls)
}

func TestChannelWrongDirectionPanics(t *testing.T) {
	c := track.NewChannel(track.Up)
	require.Panics(t, func() { c.Publish(track.Redraw, track.RedrawMsg{Zoom: 1}) })
	require.Panics(t, func() { c.Subscribe(track.Redraw, func(track.Msg) {}) })
}

func TestChannelInvalidKindPanics(t *testing.T) {
	c := track.NewChannel(track.Up)
	require.Panics(t, func() { c.Publish(track.Kind(999), nil) })
	require.Panics(t, func() { c.Publish(track.Kind(-1), nil) })
}

func TestChannelWrongPayloadPanics(t *testing.T) {
	c := track.NewChannel(track.Up)
	require.Panics(t, func() { c.Publish(track.MousePress, track.KeyMsg{Key: "A"}) })
	require.Panics(t, func() { c.Publish(track.MousePress, nil) })
	require.Panics(t, func() { c.Publish(track.PlayPause, track.KeyMsg{Key: "A"}) })
}
