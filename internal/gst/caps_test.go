package gst

import (
	"testing"

	"github.com/muxable/playbin/internal/engine"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var capstests = []struct {
	caps string
	want engine.Structure
}{
	{
		"video/x-raw, format=(string)I420, width=(int)640, height=(int)480, framerate=(fraction)30000/1001, interlaced=(boolean)false",
		engine.Structure{
			Name: "video/x-raw",
			Fields: map[string]interface{}{
				"format":     "I420",
				"width":      640,
				"height":     480,
				"framerate":  engine.Fraction{Num: 30000, Den: 1001},
				"interlaced": false,
			},
		},
	},
	{
		"audio/x-raw, rate=(int)48000, channels=(int)2",
		engine.Structure{
			Name: "audio/x-raw",
			Fields: map[string]interface{}{
				"rate":     48000,
				"channels": 2,
			},
		},
	},
}

func TestCaps_Structures(t *testing.T) {
	logger := zaptest.NewLogger(t)
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	defer goleak.VerifyNone(t)

	for _, tt := range capstests {
		t.Run(tt.caps, func(t *testing.T) {
			got, ok := ParseCaps(tt.caps)
			if !ok {
				t.Fatalf("failed to parse %s", tt.caps)
			}
			if len(got) != 1 {
				t.Fatalf("got %d structures, want 1", len(got))
			}
			if got[0].Name != tt.want.Name {
				t.Errorf("got name %s, want %s", got[0].Name, tt.want.Name)
			}
			for field, want := range tt.want.Fields {
				if got[0].Fields[field] != want {
					t.Errorf("field %s: got %v, want %v", field, got[0].Fields[field], want)
				}
			}
		})
	}
}

func TestCaps_Invalid(t *testing.T) {
	if _, ok := ParseCaps("not caps, ==="); ok {
		t.Fatal("expected invalid caps to fail")
	}
}
