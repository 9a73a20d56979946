package gst

/*
#cgo pkg-config: gstreamer-1.0 gstreamer-video-1.0
#include <stdlib.h>
#include <gst/gst.h>

#include "gst.h"
*/
import "C"
import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/mattn/go-pointer"
	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/zap"
)

var (
	cpropURI          = C.CString("uri")
	cpropCurrentURI   = C.CString("current-uri")
	cpropVolume       = C.CString("volume")
	cpropCurrentVideo = C.CString("current-video")
	cpropCurrentAudio = C.CString("current-audio")
)

// Playbin is a playbin element with its own bus loop. Bus messages are
// decoded and handed to the handler on the loop goroutine.
type Playbin struct {
	name    string
	p       *C.PbPlaybin
	handler func(engine.Message)
	ptr     unsafe.Pointer
	done    chan struct{}

	// native discoverer lookups still running.
	lookups sync.WaitGroup

	closeOnce sync.Once
}

// NewPlaybin creates a playbin element called name.
func NewPlaybin(name string, handler func(engine.Message)) (*Playbin, error) {
	b := &Playbin{
		name:    name,
		handler: handler,
		done:    make(chan struct{}),
	}
	b.ptr = pointer.Save(b)

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	p := C.pb_playbin_new(cname, C.gpointer(b.ptr))
	if p == nil {
		pointer.Unref(b.ptr)
		return nil, errors.New("failed to create playbin element")
	}
	b.p = p

	go func() {
		defer close(b.done)
		C.pb_playbin_run(p)
	}()

	return b, nil
}

// NewEngine is an engine.Factory backed by NewPlaybin.
func NewEngine(name string, handler func(engine.Message)) (engine.Engine, error) {
	return NewPlaybin(name, handler)
}

func (b *Playbin) element() *C.GstElement {
	return b.p.playbin
}

func (b *Playbin) SetURI(uri string) {
	curi := C.CString(uri)
	defer C.free(unsafe.Pointer(curi))
	C.pb_set_string(b.element(), cpropURI, curi)
}

func (b *Playbin) CurrentURI() string {
	curi := C.pb_get_string(b.element(), cpropCurrentURI)
	if curi == nil {
		return ""
	}
	defer C.g_free(C.gpointer(unsafe.Pointer(curi)))
	return C.GoString(curi)
}

func (b *Playbin) SetState(state engine.State) engine.StateChangeReturn {
	ret := C.gst_element_set_state(b.element(), C.GstState(state))
	return engine.StateChangeReturn(ret)
}

func (b *Playbin) WaitForStateChange(timeout time.Duration) engine.State {
	var state, pending C.GstState
	C.gst_element_get_state(b.element(), &state, &pending, C.GstClockTime(timeout.Nanoseconds()))
	return engine.State(state)
}

func (b *Playbin) QueryDuration() (time.Duration, bool) {
	var d C.gint64
	if C.gst_element_query_duration(b.element(), C.GST_FORMAT_TIME, &d) == 0 || d < 0 {
		return 0, false
	}
	return time.Duration(d), true
}

func (b *Playbin) QueryPosition() (time.Duration, bool) {
	var p C.gint64
	if C.gst_element_query_position(b.element(), C.GST_FORMAT_TIME, &p) == 0 || p < 0 {
		return 0, false
	}
	return time.Duration(p), true
}

func (b *Playbin) Seek(rate float64, position time.Duration) bool {
	return C.pb_seek(b.element(), C.double(rate), C.gint64(position.Nanoseconds())) != 0
}

// SeekTrack seeks to the zero-based track index.
func (b *Playbin) SeekTrack(rate float64, track int) bool {
	return C.pb_seek_track(b.element(), C.double(rate), C.gint64(track)) != 0
}

func (b *Playbin) SetVolume(volume float64) {
	C.pb_set_double(b.element(), cpropVolume, C.double(volume))
}

func (b *Playbin) Volume() float64 {
	return float64(C.pb_get_double(b.element(), cpropVolume))
}

func (b *Playbin) CurrentVideo() int {
	return int(C.pb_get_int(b.element(), cpropCurrentVideo))
}

func (b *Playbin) CurrentAudio() int {
	return int(C.pb_get_int(b.element(), cpropCurrentAudio))
}

func (b *Playbin) VideoSinkCaps() ([]engine.Structure, error) {
	var caps *C.GstCaps
	switch C.pb_video_sink_caps(b.element(), &caps) {
	case C.PB_CAPS_NO_SINK:
		return nil, engine.ErrNoVideoSink
	case C.PB_CAPS_NO_PAD:
		return nil, engine.ErrNoVideoPad
	case C.PB_CAPS_NO_CAPS:
		return nil, engine.ErrNoVideoCaps
	}
	defer C.gst_caps_unref(caps)
	return structures(caps), nil
}

func (b *Playbin) SetVisualization(name string) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	switch C.pb_set_visualization(b.element(), cname) {
	case C.PB_VIS_NOT_FOUND:
		return fmt.Errorf("%w: %s", engine.ErrVisualizationNotFound, name)
	case C.PB_VIS_FAILED:
		return fmt.Errorf("%w: %s", engine.ErrVisualizationFailed, name)
	}
	zap.L().Debug("visualization installed", zap.String("id", b.name), zap.String("name", name))
	return nil
}

func (b *Playbin) SetWindowHandle(handle uintptr) {
	C.pb_playbin_set_window(b.p, C.guintptr(handle))
}

// Close stops the element and its bus loop, waits for abandoned discoverer
// lookups and releases the element.
func (b *Playbin) Close() error {
	b.closeOnce.Do(func() {
		if C.gst_element_set_state(b.element(), C.GST_STATE_NULL) == C.GST_STATE_CHANGE_FAILURE {
			zap.L().Error("failed to set playbin to null", zap.String("id", b.name))
		}
		C.pb_playbin_quit(b.p)
		<-b.done
		b.lookups.Wait()
		C.pb_playbin_free(b.p)
		pointer.Unref(b.ptr)
	})
	return nil
}

var _ engine.Engine = (*Playbin)(nil)
