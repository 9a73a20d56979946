package gst

/*
#cgo pkg-config: gstreamer-1.0
#include <gst/gst.h>

#include "gst.h"
*/
import "C"
import (
	"unsafe"

	"github.com/muxable/playbin/internal/engine"
)

// Visualizations lists the registered elements whose class contains
// "Visualization".
func Visualizations() []engine.Visualization {
	var cnames, clongNames **C.char
	n := int(C.pb_list_visualizations(&cnames, &clongNames))
	defer C.g_strfreev((**C.gchar)(unsafe.Pointer(cnames)))
	defer C.g_strfreev((**C.gchar)(unsafe.Pointer(clongNames)))

	names := unsafe.Slice(cnames, n)
	longNames := unsafe.Slice(clongNames, n)
	out := make([]engine.Visualization, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, engine.Visualization{
			Name:     goString(names[i]),
			LongName: goString(longNames[i]),
		})
	}
	return out
}

func (b *Playbin) Visualizations() []engine.Visualization {
	return Visualizations()
}
