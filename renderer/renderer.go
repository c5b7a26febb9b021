package renderer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	glerror "github.com/richinsley/goquad/glerror"
	graphics "github.com/richinsley/goquad/graphics"
	mesh "github.com/richinsley/goquad/mesh"
	program "github.com/richinsley/goquad/program"
	shader "github.com/richinsley/goquad/shader"
)

// State is the lifecycle phase of a Renderer.
type State int

const (
	Uninitialized State = iota
	ContextCurrent
	Rendering
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ContextCurrent:
		return "context-current"
	case Rendering:
		return "rendering"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ColorUniform is the uniform the fragment stage reads its color from.
const ColorUniform = "u_Color"

var ErrTerminated = errors.New("renderer has been shut down")

// Config controls a Renderer.
type Config struct {
	Color mgl32.Vec4
	// Frames stops the loop after this many frames; 0 means no limit.
	Frames int
	Policy glerror.Policy
	// Diagnostics receives the GL version, compiler output and GL error
	// reports; nil means stdout.
	Diagnostics io.Writer
	// UniformName maps a declared uniform name to the name in the compiled
	// program, for translated sources. nil leaves names unchanged.
	UniformName func(string) string
	Sink        FrameSink
}

// Renderer owns the quad geometry and the shader program and runs the frame
// loop against a graphics.Context.
type Renderer struct {
	context graphics.Context
	device  Device
	probe   *glerror.Probe
	cfg     Config

	quad          *mesh.Quad
	vao, vbo, ibo uint32
	program       *program.Program
	pixels        []byte

	state   State
	frames  int
	elapsed float64
}

// New makes ctx current and prepares a Renderer drawing through device. The
// GL function pointers must already be loaded for ctx.
func New(ctx graphics.Context, device Device, cfg Config) *Renderer {
	r := &Renderer{
		context: ctx,
		device:  device,
		cfg:     cfg,
		quad:    mesh.NewQuad(0.5),
		state:   Uninitialized,
	}
	r.probe = glerror.New(device.GetError,
		glerror.WithPolicy(cfg.Policy),
		glerror.WithLogger(log.New(r.diagnostics(), "", 0)))

	r.context.MakeCurrent()
	fmt.Fprintln(r.diagnostics(), device.Version())
	r.state = ContextCurrent
	return r
}

// State returns the current lifecycle phase.
func (r *Renderer) State() State {
	return r.state
}

// Frames returns the number of frames presented so far.
func (r *Renderer) Frames() int {
	return r.frames
}

// Elapsed returns the context time spent in the last Run, in seconds.
func (r *Renderer) Elapsed() float64 {
	return r.elapsed
}

// Program returns the active program, or nil when none could be built.
func (r *Renderer) Program() *program.Program {
	return r.program
}

// glStep is a queued GL call and the line that queued it.
type glStep struct {
	name string
	fn   func()
	file string
	line int
}

func step(name string, fn func()) glStep {
	file, line := glerror.Site(1)
	return glStep{name: name, fn: fn, file: file, line: line}
}

func (r *Renderer) run(steps ...glStep) error {
	for _, s := range steps {
		if err := r.probe.CallAt(s.name, s.file, s.line, s.fn); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (r *Renderer) uploadGeometry() error {
	d := r.device
	return r.run(
		step("glClearColor", func() { d.ClearColor(0, 0, 0, 1) }),
		step("glGenVertexArrays", func() { r.vao = d.GenVertexArray() }),
		step("glBindVertexArray", func() { d.BindVertexArray(r.vao) }),
		step("glGenBuffers", func() { r.vbo = d.GenBuffer() }),
		step("glBindBuffer", func() { d.BindBuffer(ArrayBuffer, r.vbo) }),
		step("glBufferData", func() { d.BufferFloat32(ArrayBuffer, r.quad.Vertices()) }),
		step("glVertexAttribPointer", func() { d.VertexAttribFloat(0, mesh.ComponentsPerVertex, mesh.Stride) }),
		step("glGenBuffers", func() { r.ibo = d.GenBuffer() }),
		step("glBindBuffer", func() { d.BindBuffer(ElementArrayBuffer, r.ibo) }),
		step("glBufferData", func() { d.BufferUint32(ElementArrayBuffer, r.quad.Indices) }),
	)
}

func (r *Renderer) diagnostics() io.Writer {
	if r.cfg.Diagnostics != nil {
		return r.cfg.Diagnostics
	}
	return os.Stdout
}

func (r *Renderer) uniformName(name string) string {
	if r.cfg.UniformName != nil {
		return r.cfg.UniformName(name)
	}
	return name
}

// Setup uploads the quad and builds the program from src. The geometry is
// bound first so that program validation sees a complete vertex state. When
// the program cannot be built the error is returned and the renderer keeps
// running without one; frames are then only cleared.
func (r *Renderer) Setup(src shader.Source) error {
	if r.state == Terminated {
		return ErrTerminated
	}
	if err := r.uploadGeometry(); err != nil {
		return fmt.Errorf("failed to upload geometry: %w", err)
	}

	compiler := program.NewCompiler(r.device, r.cfg.Diagnostics)
	var (
		p   *program.Program
		err error
	)
	if cerr := r.probe.Call("CreateShader", func() { p, err = compiler.Build(src) }); cerr != nil {
		if p != nil {
			p.Delete(r.device)
		}
		return cerr
	}
	if err != nil {
		return fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = p

	if err := r.probe.Call("glUseProgram", func() { p.Use(r.device) }); err != nil {
		return err
	}

	loc, err := p.Uniform(r.device, r.uniformName(ColorUniform))
	if err != nil {
		log.Printf("Warning: %v", err)
		return nil
	}
	c := r.cfg.Color
	return r.probe.Call("glUniform4f", func() { r.device.Uniform4f(loc, c[0], c[1], c[2], c[3]) })
}

// RenderFrame clears the framebuffer and draws the quad with the program.
func (r *Renderer) RenderFrame() error {
	d := r.device
	width, height := r.context.GetFramebufferSize()
	steps := []glStep{
		step("glViewport", func() { d.Viewport(0, 0, int32(width), int32(height)) }),
		step("glClear", func() { d.Clear() }),
	}
	if r.program != nil {
		steps = append(steps, step("glDrawElements", func() { d.DrawTriangles(r.quad.IndexCount()) }))
	}
	return r.run(steps...)
}

func (r *Renderer) capture() error {
	width, height := r.cfg.Sink.Size()
	if len(r.pixels) != width*height*4 {
		r.pixels = make([]byte, width*height*4)
	}
	if err := r.probe.Call("glReadPixels", func() { r.device.ReadPixels(width, height, r.pixels) }); err != nil {
		return err
	}
	return r.cfg.Sink.WriteFrame(r.pixels)
}

// Run draws frames until the context asks to close or the frame budget is
// used up. The first OpenGL or recording error ends the loop.
func (r *Renderer) Run() error {
	if r.state == Terminated {
		return ErrTerminated
	}
	r.state = Rendering
	log.Println("Starting render loop...")
	start := r.context.Time()
	defer func() { r.elapsed = r.context.Time() - start }()

	for !r.context.ShouldClose() {
		if r.cfg.Frames > 0 && r.frames >= r.cfg.Frames {
			break
		}
		if err := r.RenderFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", r.frames, err)
		}
		if r.cfg.Sink != nil {
			if err := r.capture(); err != nil {
				return fmt.Errorf("frame %d: %w", r.frames, err)
			}
		}
		r.context.EndFrame()
		r.frames++
	}

	return nil
}

// Shutdown releases the program and geometry. The context itself is shut
// down by its owner.
func (r *Renderer) Shutdown() {
	if r.state == Terminated {
		return
	}
	d := r.device
	if r.program != nil {
		r.program.Delete(d)
		r.program = nil
	}
	if r.ibo != 0 {
		d.DeleteBuffer(r.ibo)
	}
	if r.vbo != 0 {
		d.DeleteBuffer(r.vbo)
	}
	if r.vao != 0 {
		d.DeleteVertexArray(r.vao)
	}
	r.vao, r.vbo, r.ibo = 0, 0, 0
	r.state = Terminated
}
