package video

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/ivlev/spotlight/internal/config"
)

func TestBuildSegmentArgs(t *testing.T) {
	params := config.SegmentParams{Width: 1280, Height: 720, FPS: 30, FrameCount: 60, Filter: "format=yuv420p"}

	args := strings.Join(buildSegmentArgs("/tmp/s0.mp4", params, "libx264", 23), " ")
	for _, want := range []string{
		"-f rawvideo",
		"-video_size 1280x720",
		"-framerate 30",
		"-i -",
		"-vf format=yuv420p",
		"-frames:v 60",
		"-c:v libx264",
		"-crf 23",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("Args should contain %q: %s", want, args)
		}
	}
	if !strings.HasSuffix(args, "/tmp/s0.mp4") {
		t.Errorf("Output path should be last: %s", args)
	}

	args = strings.Join(buildSegmentArgs("out.mp4", params, "h264_videotoolbox", 75), " ")
	if !strings.Contains(args, "-b:v 7500k") {
		t.Errorf("VideoToolbox should use bitrate: %s", args)
	}
	args = strings.Join(buildSegmentArgs("out.mp4", params, "h264_nvenc", 28), " ")
	if !strings.Contains(args, "-cq 28") {
		t.Errorf("NVENC should use -cq: %s", args)
	}
}

func TestBuildConcatArgs(t *testing.T) {
	args := strings.Join(buildConcatArgs("list.txt", "out.mp4", ""), " ")
	if !strings.Contains(args, "-c copy") || strings.Contains(args, "-shortest") {
		t.Errorf("Unexpected args without audio: %s", args)
	}

	args = strings.Join(buildConcatArgs("list.txt", "out.mp4", "music.mp3"), " ")
	for _, want := range []string{"-i music.mp3", "-map 0:v", "-map 1:a", "-shortest"} {
		if !strings.Contains(args, want) {
			t.Errorf("Args should contain %q: %s", want, args)
		}
	}
}

func TestWriteRawRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := writeRawRGBA(&buf, img); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), img.Pix) {
		t.Error("Contiguous frame should be written as is")
	}

	sub := img.SubImage(image.Rect(1, 0, 3, 2)).(*image.RGBA)
	buf.Reset()
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatal(err)
	}
	want := append(append([]byte{}, img.Pix[4:12]...), img.Pix[16:24]...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("Sub-image rows: expected %v, got %v", want, buf.Bytes())
	}
}

func TestLimitedBuffer(t *testing.T) {
	var b limitedBuffer
	b.Write(bytes.Repeat([]byte("a"), maxOutput))
	b.Write([]byte("tail"))
	if len(b.String()) != maxOutput || !strings.HasSuffix(b.String(), "tail") {
		t.Errorf("Buffer should keep the last %d bytes", maxOutput)
	}
}
