// Package gst drives a GStreamer playbin element through cgo.
package gst

/*
#cgo pkg-config: gstreamer-1.0 gstreamer-video-1.0 gstreamer-pbutils-1.0 gstreamer-tag-1.0
#include <gst/gst.h>
*/
import "C"
import "unsafe"

func init() {
	C.gst_init(nil, nil)
}

// Version reports the linked GStreamer version.
func Version() string {
	cstr := C.gst_version_string()
	defer C.g_free(C.gpointer(unsafe.Pointer(cstr)))
	return C.GoString((*C.char)(unsafe.Pointer(cstr)))
}
