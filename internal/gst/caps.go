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

// structures copies every structure of caps. Only int, fraction, string and
// boolean fields are kept.
func structures(caps *C.GstCaps) []engine.Structure {
	n := int(C.gst_caps_get_size(caps))
	out := make([]engine.Structure, 0, n)
	for i := 0; i < n; i++ {
		st := C.gst_caps_get_structure(caps, C.guint(i))
		s := engine.Structure{
			Name:   C.GoString((*C.char)(unsafe.Pointer(C.gst_structure_get_name(st)))),
			Fields: map[string]interface{}{},
		}
		for j := 0; j < int(C.gst_structure_n_fields(st)); j++ {
			cfield := C.gst_structure_nth_field_name(st, C.guint(j))
			field := C.GoString((*C.char)(unsafe.Pointer(cfield)))
			switch C.pb_field_kind(st, cfield) {
			case C.PB_FIELD_INT:
				var v C.gint
				if C.gst_structure_get_int(st, cfield, &v) != 0 {
					s.Fields[field] = int(v)
				}
			case C.PB_FIELD_FRACTION:
				var num, den C.gint
				if C.gst_structure_get_fraction(st, cfield, &num, &den) != 0 {
					s.Fields[field] = engine.Fraction{Num: int(num), Den: int(den)}
				}
			case C.PB_FIELD_STRING:
				if v := C.gst_structure_get_string(st, cfield); v != nil {
					s.Fields[field] = C.GoString((*C.char)(unsafe.Pointer(v)))
				}
			case C.PB_FIELD_BOOLEAN:
				var v C.gboolean
				if C.gst_structure_get_boolean(st, cfield, &v) != 0 {
					s.Fields[field] = v != 0
				}
			}
		}
		out = append(out, s)
	}
	return out
}

// ParseCaps parses a caps description such as
// "video/x-raw, width=(int)640, height=(int)480".
func ParseCaps(description string) ([]engine.Structure, bool) {
	cdesc := (*C.gchar)(unsafe.Pointer(C.CString(description)))
	defer C.g_free(C.gpointer(unsafe.Pointer(cdesc)))

	caps := C.gst_caps_from_string(cdesc)
	if caps == nil {
		return nil, false
	}
	defer C.gst_caps_unref(caps)
	return structures(caps), true
}
