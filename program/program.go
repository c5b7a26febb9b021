package program

import (
	"errors"
	"fmt"
	"io"
	"os"

	shader "github.com/richinsley/goquad/shader"
)

// OpenGL enums used by the compiler. They match the values in go-gl.
const (
	FragmentShader uint32 = 0x8B30
	VertexShader   uint32 = 0x8B31
	CompileStatus  uint32 = 0x8B81
	LinkStatus     uint32 = 0x8B82
	ValidateStatus uint32 = 0x8B83
)

// API is the subset of OpenGL the compiler drives.
type API interface {
	CreateShader(kind uint32) uint32
	ShaderSource(id uint32, source string)
	CompileShader(id uint32)
	GetShaderiv(id uint32, pname uint32) int32
	GetShaderInfoLog(id uint32) string
	DeleteShader(id uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	GetUniformLocation(program uint32, name string) int32
	Uniform4f(location int32, v0, v1, v2, v3 float32)
}

var (
	ErrEmptySource     = errors.New("shader source is incomplete")
	ErrUniformNotFound = errors.New("uniform not found")
)

// CompileError carries the driver's info log for a stage that failed to
// compile.
type CompileError struct {
	Stage shader.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError carries the info log of a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// Program is a linked, executable shader program.
type Program struct {
	Handle uint32
	// ValidateLog is set when validation against the current state failed.
	ValidateLog string
}

// Use installs the program as part of the current rendering state.
func (p *Program) Use(api API) {
	api.UseProgram(p.Handle)
}

// Uniform looks up the location of a named uniform.
func (p *Program) Uniform(api API, name string) (int32, error) {
	loc := api.GetUniformLocation(p.Handle, name)
	if loc == -1 {
		return -1, fmt.Errorf("%w: %s", ErrUniformNotFound, name)
	}
	return loc, nil
}

// Delete releases the program object.
func (p *Program) Delete(api API) {
	if p.Handle != 0 {
		api.DeleteProgram(p.Handle)
		p.Handle = 0
	}
}

// Compiler turns shader sources into linked programs. Compile diagnostics
// are written to its output.
type Compiler struct {
	api API
	out io.Writer
}

// NewCompiler returns a Compiler writing diagnostics to out, or to stdout
// when out is nil.
func NewCompiler(api API, out io.Writer) *Compiler {
	if out == nil {
		out = os.Stdout
	}
	return &Compiler{api: api, out: out}
}

func glStage(stage shader.Stage) (uint32, error) {
	switch stage {
	case shader.StageVertex:
		return VertexShader, nil
	case shader.StageFragment:
		return FragmentShader, nil
	}
	return 0, fmt.Errorf("no shader type for stage %s", stage)
}

// CompileStage compiles source for one stage and returns the shader object.
// On failure the object is released and a *CompileError is returned.
func (c *Compiler) CompileStage(stage shader.Stage, source string) (uint32, error) {
	kind, err := glStage(stage)
	if err != nil {
		return 0, err
	}

	id := c.api.CreateShader(kind)
	c.api.ShaderSource(id, source)
	c.api.CompileShader(id)

	if c.api.GetShaderiv(id, CompileStatus) == 0 {
		logText := c.api.GetShaderInfoLog(id)
		fmt.Fprintf(c.out, "%s Shader compilation Failed\n", stage)
		fmt.Fprintln(c.out, logText)
		c.api.DeleteShader(id)
		return 0, &CompileError{Stage: stage, Log: logText}
	}
	return id, nil
}

// Build compiles both stages of src and links them into a program. Both
// stages are always compiled so that every diagnostic is reported.
func (c *Compiler) Build(src shader.Source) (*Program, error) {
	if !src.Complete() {
		return nil, ErrEmptySource
	}

	vs, vErr := c.CompileStage(shader.StageVertex, src.Vertex)
	fs, fErr := c.CompileStage(shader.StageFragment, src.Fragment)
	if err := errors.Join(vErr, fErr); err != nil {
		if vs != 0 {
			c.api.DeleteShader(vs)
		}
		if fs != 0 {
			c.api.DeleteShader(fs)
		}
		return nil, err
	}

	handle := c.api.CreateProgram()
	c.api.AttachShader(handle, vs)
	c.api.AttachShader(handle, fs)
	c.api.LinkProgram(handle)

	// the stage objects are flagged for deletion; the program keeps them
	// alive for as long as they are attached.
	c.api.DeleteShader(vs)
	c.api.DeleteShader(fs)

	if c.api.GetProgramiv(handle, LinkStatus) == 0 {
		logText := c.api.GetProgramInfoLog(handle)
		c.api.DeleteProgram(handle)
		return nil, &LinkError{Log: logText}
	}

	p := &Program{Handle: handle}
	c.api.ValidateProgram(handle)
	if c.api.GetProgramiv(handle, ValidateStatus) == 0 {
		p.ValidateLog = c.api.GetProgramInfoLog(handle)
		fmt.Fprintf(c.out, "Program validation Failed\n%s\n", p.ValidateLog)
	}
	return p, nil
}
