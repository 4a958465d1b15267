package video

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ivlev/spotlight/internal/config"
	"github.com/ivlev/spotlight/internal/system"
)

type VideoEncoder interface {
	EncodeSegment(ctx context.Context, frames <-chan *image.RGBA, videoPath string, params config.SegmentParams, encoderName string, quality int) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, cfg config.Config) error
}

type FFmpegEncoder struct{}

// EncodeSegment streams raw RGBA frames into ffmpeg until frames is closed.
// Written frames are returned to the frame pool.
func (e *FFmpegEncoder) EncodeSegment(
	ctx context.Context,
	frames <-chan *image.RGBA,
	videoPath string,
	params config.SegmentParams,
	encoderName string,
	quality int,
) error {
	args := buildSegmentArgs(videoPath, params, encoderName, quality)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out limitedBuffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	written := 0
	for frame := range frames {
		err := writeRawRGBA(stdin, frame)
		system.PutFrame(frame)
		if err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("write raw error at frame %d: %w, output: %s", params.FirstFrame+written, err, out.String())
		}
		written++
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}
	if written != params.FrameCount {
		return fmt.Errorf("segment %d: got %d frames, expected %d", params.SegmentIndex, written, params.FrameCount)
	}

	return nil
}

func buildSegmentArgs(videoPath string, params config.SegmentParams, encoderName string, quality int) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
	}
	if params.Filter != "" {
		args = append(args, "-vf", params.Filter)
	}
	args = append(args,
		"-frames:v", fmt.Sprintf("%d", params.FrameCount),
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	)
	args = append(args, qualityArgs(encoderName, quality)...)
	args = append(args, videoPath)
	return args
}

func qualityArgs(encoderName string, quality int) []string {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	b := img.Bounds()
	if img.Stride == b.Dx()*4 {
		_, err := w.Write(img.Pix[:b.Dy()*img.Stride])
		return err
	}
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Concatenate joins segments with the concat demuxer and muxes the audio track if any
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, cfg config.Config) error {
	concatFilePath := filepath.Join(tmpDir, "inputs.txt")
	f, err := os.Create(concatFilePath)
	if err != nil {
		return err
	}
	for _, p := range segmentPaths {
		absPath, _ := filepath.Abs(p)
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	if err := f.Close(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", buildConcatArgs(concatFilePath, finalPath, cfg.AudioPath)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

func buildConcatArgs(listPath, finalPath, audioPath string) []string {
	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listPath}
	if audioPath == "" {
		return append(args, "-c", "copy", finalPath)
	}
	return append(args,
		"-i", audioPath,
		"-map", "0:v", "-map", "1:a",
		"-c:v", "copy", "-c:a", "aac",
		"-shortest",
		finalPath,
	)
}

// limitedBuffer keeps the tail of ffmpeg's output for error messages
type limitedBuffer struct {
	buf []byte
}

const maxOutput = 8 << 10

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if len(b.buf) > maxOutput {
		b.buf = b.buf[len(b.buf)-maxOutput:]
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return string(b.buf)
}
