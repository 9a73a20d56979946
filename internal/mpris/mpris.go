//go:build linux

// Package mpris exposes a playback session on the session bus as an MPRIS2
// media player.
package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"path"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/muxable/playbin/pkg/playbin"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"
)

// Adapter connects a session to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts an MPRIS adapter named org.mpris.MediaPlayer2.<name>.
func New(name string, session *playbin.Session) (*Adapter, error) {
	a := &Adapter{
		server: server.NewServer(name, &rootAdapter{}, &playerAdapter{session: session}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			zap.L().Error("mpris server stopped", zap.String("name", name), zap.Error(err))
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil
}

func (r *rootAdapter) Quit() error {
	return nil
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "playbin", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https", "cdda", "dvd"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/ogg", "audio/flac", "video/mp4", "video/webm", "video/x-matroska"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	session *playbin.Session
}

func (p *playerAdapter) Next() error {
	return nil
}

func (p *playerAdapter) Previous() error {
	return nil
}

func (p *playerAdapter) Pause() error {
	return ignoreNotLoaded(p.session.Pause())
}

func (p *playerAdapter) PlayPause() error {
	if p.session.Status() == playbin.StatusPlaying {
		return p.Pause()
	}
	return p.Play()
}

// Stop pauses and rewinds; the resource stays loaded.
func (p *playerAdapter) Stop() error {
	if err := p.session.Pause(); err != nil {
		return ignoreNotLoaded(err)
	}
	return p.session.Seek(0, playbin.SeekAbsolute, p.session.Rate())
}

func (p *playerAdapter) Play() error {
	return ignoreNotLoaded(p.session.Play())
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.session.Seek(time.Duration(offset)*time.Microsecond, playbin.SeekRelative, p.session.Rate())
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	if trackID != formatTrackID(p.session.URI()) {
		return nil
	}
	return p.session.Seek(time.Duration(position)*time.Microsecond, playbin.SeekAbsolute, p.session.Rate())
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	if err := p.session.Load(uri); err != nil {
		return err
	}
	return p.session.Play()
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.session.Status() {
	case playbin.StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case playbin.StatusPaused:
		return types.PlaybackStatusPaused, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.session.Rate(), nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	return p.session.SetSpeed(rate)
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	uri := p.session.URI()
	if uri == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(uri)),
		Title:   title(uri),
	}
	if info, ok := p.session.MediaInfo(); ok && info.Duration >= 0 {
		meta.Length = types.Microseconds(info.Duration.Microseconds())
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	v := p.session.Volume()
	if v < 0 {
		return 0, playbin.ErrClosed
	}
	return float64(v) / 100, nil
}

func (p *playerAdapter) SetVolume(volume float64) error {
	return p.session.SetVolume(int(volume*100 + 0.5))
}

func (p *playerAdapter) Position() (int64, error) {
	pos := p.session.Position()
	if pos < 0 {
		return 0, nil
	}
	return pos.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return -8.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 8.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.session.Status() != playbin.StatusUnloaded, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.session.Status() != playbin.StatusUnloaded, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.session.Duration() >= 0, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func ignoreNotLoaded(err error) error {
	if errors.Is(err, playbin.ErrNotLoaded) {
		return nil
	}
	return err
}

func formatTrackID(uri string) string {
	h := fnv.New64a()
	h.Write([]byte(uri))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

// title is the last path element of uri, or uri itself.
func title(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Path == "" || u.Path == "/" {
		return uri
	}
	return path.Base(u.Path)
}
