package gst

/*
#cgo pkg-config: gstreamer-1.0 gstreamer-pbutils-1.0
#include <stdlib.h>
#include <gst/gst.h>

#include "gst.h"
*/
import "C"
import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/muxable/playbin/internal/engine"
)

// DiscoverDuration runs a synchronous discoverer on uri. The discoverer gives
// up after timeout.
func DiscoverDuration(uri string, timeout time.Duration) (time.Duration, error) {
	curi := C.CString(uri)
	defer C.free(unsafe.Pointer(curi))

	var d C.gint64
	var cerr *C.char
	if C.pb_discover_duration(curi, C.guint64(timeout.Nanoseconds()), &d, &cerr) == 0 {
		defer C.g_free(C.gpointer(unsafe.Pointer(cerr)))
		return 0, fmt.Errorf("%w: %s", engine.ErrDiscovery, goString(cerr))
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: duration unknown", engine.ErrDiscovery)
	}
	return time.Duration(d), nil
}

// Discover looks up the duration of uri without touching the element. The
// native lookup cannot be interrupted: when ctx is done first Discover
// returns, the lookup finishes within timeout and Close waits for it.
func (b *Playbin) Discover(ctx context.Context, uri string, timeout time.Duration) (time.Duration, error) {
	type result struct {
		d   time.Duration
		err error
	}
	ch := make(chan result, 1)
	b.lookups.Add(1)
	go func() {
		defer b.lookups.Done()
		d, err := DiscoverDuration(uri, timeout)
		ch <- result{d, err}
	}()

	select {
	case r := <-ch:
		return r.d, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
