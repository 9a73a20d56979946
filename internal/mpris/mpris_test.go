//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/muxable/playbin/internal/engine/enginetest"
	"github.com/muxable/playbin/pkg/playbin"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*playerAdapter, *enginetest.Engine) {
	t.Helper()
	e := enginetest.New()
	s, err := playbin.New(e.Factory())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &playerAdapter{session: s}, e
}

func TestPlayerAdapter_Status(t *testing.T) {
	p, _ := newTestAdapter(t)

	status, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusStopped, status)

	// play and pause without media are ignored.
	require.NoError(t, p.Play())
	require.NoError(t, p.Pause())

	require.NoError(t, p.OpenUri("file:///music/track01.flac"))
	status, err = p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusPlaying, status)

	require.NoError(t, p.PlayPause())
	status, err = p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusPaused, status)
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	p, e := newTestAdapter(t)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, types.Metadata{}, meta)

	e.SetDuration(2*time.Minute, true)
	sub := p.session.Subscribe()
	require.NoError(t, p.OpenUri("file:///music/track01.flac"))
	e.Prerolled()
	select {
	case <-sub.LoadComplete:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for media info")
	}

	meta, err = p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, dbus.ObjectPath(formatTrackID("file:///music/track01.flac")), meta.TrackId)
	assert.Equal(t, "track01.flac", meta.Title)
	assert.Equal(t, types.Microseconds(120000000), meta.Length)
}

func TestPlayerAdapter_Volume(t *testing.T) {
	p, e := newTestAdapter(t)

	require.NoError(t, p.SetVolume(0.25))
	assert.InDelta(t, 0.25, e.Volume(), 1e-9)

	v, err := p.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-9)
}

func TestPlayerAdapter_Seek(t *testing.T) {
	p, e := newTestAdapter(t)
	require.NoError(t, p.OpenUri("file:///music/track01.flac"))

	e.QueuePositions(10 * time.Second)
	require.NoError(t, p.Seek(types.Microseconds(5000000)))

	require.NoError(t, p.SetPosition(formatTrackID("file:///music/track01.flac"), types.Microseconds(1000000)))
	// a stale track id is ignored.
	require.NoError(t, p.SetPosition("/org/mpris/MediaPlayer2/Track/0", types.Microseconds(2000000)))

	assert.Equal(t, []enginetest.SeekCall{
		{Rate: 1, Position: 15 * time.Second},
		{Rate: 1, Position: time.Second},
	}, e.Seeks())
}

func TestTitle(t *testing.T) {
	for uri, want := range map[string]string{
		"file:///music/My%20Song.ogg": "My Song.ogg",
		"cdda://3":                    "cdda://3",
		"https://example.com/":        "https://example.com/",
	} {
		assert.Equal(t, want, title(uri), uri)
	}
}
