package options

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderEnv names the environment variable consulted when -shader is empty.
const ShaderEnv = "GOQUAD_SHADER"

type QuadOptions struct {
	ShaderPath *string
	Help       *bool
	Width      *int
	Height     *int
	Title      *string
	Color      *string
	Frames     *int  // 0 renders until the window is closed
	Headless   *bool // EGL pbuffer instead of a window (linux only)
	Translate  *bool // sources are WebGL2 and go through the shader translator
	GLHalt     *bool // panic on the first OpenGL error instead of returning it
	Strict     *bool // exit when the shader program cannot be built
	// Recording options
	OutputFile *string
	FPS        *int
	Codec      *string
	FFMPEGPath *string
}

// New registers every option on fs.
func New(fs *flag.FlagSet) *QuadOptions {
	return &QuadOptions{
		ShaderPath: fs.String("shader", "", "Path to a #shader sectioned file ("+ShaderEnv+" env var if not set, built-in shader if neither)"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 640, "Width of the window"),
		Height:     fs.Int("height", 480, "Height of the window"),
		Title:      fs.String("title", "Hello World", "Window title"),
		Color:      fs.String("color", "0.5,0.2,0.1,1.0", "Value of the u_Color uniform as r,g,b,a"),
		Frames:     fs.Int("frames", 0, "Number of frames to render (0 = until the window is closed)"),
		Headless:   fs.Bool("headless", false, "Render into an offscreen EGL surface"),
		Translate:  fs.Bool("translate", false, "Translate WebGL2 shader sources to the native GLSL dialect"),
		GLHalt:     fs.Bool("gl-halt", false, "Halt on the first OpenGL error"),
		Strict:     fs.Bool("strict", false, "Exit if the shader program fails to build"),
		OutputFile: fs.String("record", "", "Record rendered frames to this video file"),
		FPS:        fs.Int("fps", 60, "Frames per second of the recording"),
		Codec:      fs.String("codec", "h264", "Recording codec (h264 or hevc)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
	}
}

// Shader returns the shader path from the flag or, failing that, the
// environment. An empty result selects the built-in shader.
func (o *QuadOptions) Shader() string {
	if *o.ShaderPath != "" {
		return *o.ShaderPath
	}
	return os.Getenv(ShaderEnv)
}

// Recording reports whether frames should be sent to the encoder.
func (o *QuadOptions) Recording() bool {
	return *o.OutputFile != ""
}

// ParseColor parses "r,g,b,a" into a vector. Missing trailing components
// default to 1.
func ParseColor(s string) (mgl32.Vec4, error) {
	c := mgl32.Vec4{1, 1, 1, 1}
	parts := strings.Split(s, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return c, fmt.Errorf("color %q: want 3 or 4 components", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, fmt.Errorf("color %q: %w", s, err)
		}
		if v < 0 || v > 1 {
			return c, fmt.Errorf("color %q: component %d out of range [0,1]", s, i)
		}
		c[i] = float32(v)
	}
	return c, nil
}

// UniformColor returns the parsed -color value.
func (o *QuadOptions) UniformColor() (mgl32.Vec4, error) {
	return ParseColor(*o.Color)
}

// Validate checks option combinations before any window is created.
func (o *QuadOptions) Validate() error {
	var errs []error
	if *o.Width <= 0 || *o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height))
	}
	if *o.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative"))
	}
	if _, err := o.UniformColor(); err != nil {
		errs = append(errs, err)
	}
	if *o.Headless && *o.Frames == 0 && o.Recording() {
		errs = append(errs, fmt.Errorf("recording headless needs -frames"))
	}
	if o.Recording() {
		if *o.FPS <= 0 {
			errs = append(errs, fmt.Errorf("fps must be positive"))
		}
		if *o.Codec != "h264" && *o.Codec != "hevc" {
			errs = append(errs, fmt.Errorf("unknown codec %q", *o.Codec))
		}
	}
	return errors.Join(errs...)
}
