package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Realistic ffprobe -show_entries output for a Matroska file with:
//   - 1 H.264 video stream
//   - 2 audio streams (AC-3, AAC)
//   - 1 ASS subtitle stream
//   - 1 MJPEG cover image
//   - 1 font attachment
const sampleMKV = `{
    "programs": [

    ],
    "streams": [
        {
            "index": 0,
            "codec_name": "h264",
            "codec_type": "video"
        },
        {
            "index": 1,
            "codec_name": "ac3",
            "codec_type": "audio"
        },
        {
            "index": 2,
            "codec_name": "aac",
            "codec_type": "audio"
        },
        {
            "index": 3,
            "codec_name": "ass",
            "codec_type": "subtitle"
        },
        {
            "index": 4,
            "codec_name": "mjpeg",
            "codec_type": "video"
        },
        {
            "index": 5,
            "codec_name": "ttf",
            "codec_type": "attachment"
        }
    ]
}`

// AVI with a data stream that ffprobe reports without a codec name.
const sampleNoCodecName = `{
  "streams": [
    { "index": 0, "codec_name": "mpeg4", "codec_type": "video" },
    { "index": 1, "codec_type": "data" }
  ]
}`

func TestParseJSON_Streams(t *testing.T) {
	streams, err := ParseJSON([]byte(sampleMKV))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	want := []Stream{
		{0, "h264", "video"},
		{1, "ac3", "audio"},
		{2, "aac", "audio"},
		{3, "ass", "subtitle"},
		{4, "mjpeg", "video"},
		{5, "ttf", "attachment"},
	}
	if len(streams) != len(want) {
		t.Fatalf("got %d streams, want %d", len(streams), len(want))
	}
	for i := range want {
		if streams[i] != want[i] {
			t.Errorf("stream %d: got %+v, want %+v", i, streams[i], want[i])
		}
	}
}

func TestParseJSON_MissingCodecName(t *testing.T) {
	streams, err := ParseJSON([]byte(sampleNoCodecName))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("got %d streams, want 2", len(streams))
	}
	if streams[1].CodecName != "" || streams[1].Index != 1 {
		t.Errorf("data stream: got %+v", streams[1])
	}
}

func TestParseJSON_EmptyStreams(t *testing.T) {
	streams, err := ParseJSON([]byte(`{"streams": []}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(streams) != 0 {
		t.Errorf("got %d streams, want 0", len(streams))
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty output", ""},
		{"not json", "Invalid data found when processing input"},
		{"truncated", `{"streams": [{"index": 0`},
		{"no streams key", `{"format": {}}`},
		{"null streams", `{"streams": null}`},
		{"streams not array", `{"streams": {"index": 0}}`},
		{"missing index", `{"streams": [{"codec_name": "h264"}]}`},
		{"string index", `{"streams": [{"index": "0", "codec_name": "h264"}]}`},
		{"negative index", `{"streams": [{"index": -1, "codec_name": "h264"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tc.data))
			if !errors.Is(err, ErrMalformedOutput) {
				t.Errorf("got %v, want ErrMalformedOutput", err)
			}
		})
	}
}

// writeScript creates an executable shell script in a temp dir.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stubs need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe-stub")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestProbe_Stub(t *testing.T) {
	stub := writeScript(t, "cat <<'EOF'\n"+sampleNoCodecName+"\nEOF\n")
	streams, err := Probe(context.Background(), stub, "/media/d.avi")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(streams) != 2 || streams[0].CodecName != "mpeg4" {
		t.Errorf("got %+v", streams)
	}
}

func TestProbe_NonZeroExit(t *testing.T) {
	stub := writeScript(t, "echo 'No such file' >&2\nexit 1\n")
	_, err := Probe(context.Background(), stub, "/media/missing.mkv")
	if !errors.Is(err, ErrProbeFailed) {
		t.Errorf("got %v, want ErrProbeFailed", err)
	}
}

func TestProbe_MissingBinary(t *testing.T) {
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "no-ffprobe"), "/media/a.mkv")
	if !errors.Is(err, ErrProbeFailed) {
		t.Errorf("got %v, want ErrProbeFailed", err)
	}
}

func TestProbe_GarbageOutput(t *testing.T) {
	stub := writeScript(t, "echo 'this is not json'\n")
	_, err := Probe(context.Background(), stub, "/media/a.mkv")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Errorf("got %v, want ErrMalformedOutput", err)
	}
}
