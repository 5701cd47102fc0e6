package video

import (
	"fmt"
	"io"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FrameRecorder pipes RGBA frames read back from the GL framebuffer into
// an ffmpeg process for headless capture of a run. This is
// capture/diagnostics tooling around the existing render loop and is never
// wired into the default resume/step path.
type FrameRecorder struct {
	width, height int
	fps           int

	pipeWriter *io.PipeWriter
	done       chan error
}

// NewFrameRecorder starts an ffmpeg process that reads raw RGBA frames of
// width x height at fps from a pipe and encodes them to outputFile.
// ffmpegPath overrides the ffmpeg binary lookup; empty uses $PATH.
func NewFrameRecorder(width, height, fps int, outputFile, ffmpegPath string) (*FrameRecorder, error) {
	pr, pw := io.Pipe()

	cmd := ffmpeg.Input("pipe:",
		ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
			"s":       fmt.Sprintf("%dx%d", width, height),
			"r":       fmt.Sprintf("%d", fps),
		},
	).Output(outputFile,
		ffmpeg.KwArgs{
			"c:v":     "libx264",
			"pix_fmt": "yuv420p",
		},
	).OverWriteOutput().WithInput(pr).ErrorToStdOut()

	if ffmpegPath != "" {
		cmd = cmd.SetFfmpegPath(ffmpegPath)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Run() }()

	return &FrameRecorder{
		width:      width,
		height:     height,
		fps:        fps,
		pipeWriter: pw,
		done:       done,
	}, nil
}

// WriteFrame pushes one RGBA frame (width*height*4 bytes) into the encoder.
func (r *FrameRecorder) WriteFrame(rgba []byte) error {
	want := r.width * r.height * 4
	if len(rgba) != want {
		return fmt.Errorf("video: frame recorder expected %d bytes, got %d", want, len(rgba))
	}
	_, err := r.pipeWriter.Write(rgba)
	return err
}

// Close finishes the stream and waits for ffmpeg to exit.
func (r *FrameRecorder) Close() error {
	r.pipeWriter.Close()
	return <-r.done
}
