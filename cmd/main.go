package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	encoder "github.com/richinsley/goquad/encoder"
	gldriver "github.com/richinsley/goquad/gldriver"
	glerror "github.com/richinsley/goquad/glerror"
	glfwcontext "github.com/richinsley/goquad/glfwcontext"
	graphics "github.com/richinsley/goquad/graphics"
	headless "github.com/richinsley/goquad/headless"
	options "github.com/richinsley/goquad/options"
	renderer "github.com/richinsley/goquad/renderer"
	shader "github.com/richinsley/goquad/shader"
	translator "github.com/richinsley/goquad/translator"
)

const exitFailure = -1

func init() {
	runtime.LockOSThread()
}

// newContext creates the window or headless surface and loads GL for it.
// The returned cleanup tears the context down again.
func newContext(opts *options.QuadOptions) (graphics.Context, func(), error) {
	if *opts.Headless {
		h, err := headless.NewHeadless(*opts.Width, *opts.Height, *opts.Frames)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create headless context: %w", err)
		}
		return h, h.Shutdown, nil
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	win, err := glfwcontext.New(opts)
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}
	win.MakeCurrent()
	if err := gldriver.Init(); err != nil {
		win.Shutdown()
		glfwcontext.TerminateGraphics()
		return nil, nil, err
	}
	return win, func() {
		win.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

// loadSource reads the configured shader file, or the built-in shader. A
// file that cannot be read leaves both stages empty.
func loadSource(opts *options.QuadOptions, isGLES bool) shader.Source {
	path := opts.Shader()
	if path == "" {
		log.Println("Using built-in shader")
		return shader.Default(isGLES)
	}

	src, err := shader.ParseFile(path)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	if src.Dropped > 0 {
		log.Printf("Warning: %s: %d line(s) before the first #shader marker were ignored", path, src.Dropped)
	}
	return src
}

// scene is the part of the renderer that builds the shader program.
type scene interface {
	Setup(src shader.Source) error
}

// setupScene builds the program for src. A failure is only fatal when strict
// is set; otherwise the loop runs on without a program.
func setupScene(s scene, src shader.Source, strict bool) error {
	err := s.Setup(src)
	if err == nil {
		return nil
	}
	log.Printf("Failed to initialize scene: %v", err)
	if strict {
		return err
	}
	log.Println("Continuing without a shader program")
	return nil
}

func run(opts *options.QuadOptions) int {
	color, err := opts.UniformColor()
	if err != nil {
		log.Printf("Invalid options: %v", err)
		return exitFailure
	}

	gctx, cleanup, err := newContext(opts)
	if err != nil {
		log.Printf("%v", err)
		return exitFailure
	}
	defer cleanup()

	cfg := renderer.Config{
		Color:  color,
		Frames: *opts.Frames,
		Policy: glerror.Report,
	}
	if *opts.GLHalt {
		cfg.Policy = glerror.Halt
	}

	src := loadSource(opts, gctx.IsGLES())
	if *opts.Translate && src.Complete() {
		res, err := translator.Translate(context.Background(), src, gctx.IsGLES())
		if err != nil {
			log.Printf("Shader translation failed: %v", err)
			return exitFailure
		}
		src = res.Source
		cfg.UniformName = res.Lookup
	}

	if opts.Recording() {
		width, height := gctx.GetFramebufferSize()
		rec, err := encoder.NewRecorder(opts, width, height)
		if err != nil {
			log.Printf("Failed to start recorder: %v", err)
			return exitFailure
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("Recording failed: %v", err)
			}
		}()
		cfg.Sink = rec
	}

	r := renderer.New(gctx, gldriver.Driver{}, cfg)
	defer r.Shutdown()

	if err := setupScene(r, src, *opts.Strict); err != nil {
		return exitFailure
	}

	if err := r.Run(); err != nil {
		log.Printf("Render loop aborted: %v", err)
		return exitFailure
	}
	log.Printf("Rendered %d frames in %.2fs", r.Frames(), r.Elapsed())
	return 0
}

func main() {
	opts := options.New(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("goquad: draws a shaded quad with OpenGL")
		flag.PrintDefaults()
		return
	}

	if err := opts.Validate(); err != nil {
		log.Printf("Invalid options: %v", err)
		os.Exit(exitFailure)
	}

	os.Exit(run(opts))
}
