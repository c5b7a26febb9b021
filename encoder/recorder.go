// Package encoder streams rendered frames into an ffmpeg process.
package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"

	options "github.com/richinsley/goquad/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Recorder feeds raw RGBA frames, bottom row first as glReadPixels returns
// them, to ffmpeg over a pipe.
type Recorder struct {
	width, height int
	frameSize     int
	pipeWriter    *io.PipeWriter
	errc          chan error
	frames        int
}

// getArgs builds the ffmpeg input and output arguments.
func getArgs(width, height, fps int, codec, outputFile string) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       fps,
	}

	outputArgs = ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
	}

	switch runtime.GOOS {
	case "darwin":
		if codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if codec == "hevc" && strings.HasSuffix(outputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// NewRecorder starts ffmpeg writing to the file named in opts.
func NewRecorder(opts *options.QuadOptions, width, height int) (*Recorder, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid recording size %dx%d", width, height)
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(width, height, *opts.FPS, *opts.Codec, *opts.OutputFile)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(*opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if *opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(*opts.FFMPEGPath)
	}

	r := &Recorder{
		width:      width,
		height:     height,
		frameSize:  width * height * 4,
		pipeWriter: pipeWriter,
		errc:       make(chan error, 1),
	}
	go func() {
		err := ffmpegCmd.Run()
		// unblock a writer stuck on a pipe nobody reads anymore
		pipeReader.CloseWithError(io.ErrClosedPipe)
		r.errc <- err
	}()

	log.Printf("Recording %dx%d @ %d fps to %s", width, height, *opts.FPS, *opts.OutputFile)
	return r, nil
}

// Size returns the frame dimensions.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// WriteFrame sends one frame to ffmpeg.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if len(pixels) != r.frameSize {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), r.frameSize)
	}
	if _, err := r.pipeWriter.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Close ends the stream and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	r.pipeWriter.Close()
	if err := <-r.errc; err != nil {
		return fmt.Errorf("ffmpeg failed after %d frames: %w", r.frames, err)
	}
	log.Printf("Recorded %d frames", r.frames)
	return nil
}
