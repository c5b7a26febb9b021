// Package gldriver implements the renderer's Device with go-gl.
package gldriver

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	program "github.com/richinsley/goquad/program"
	renderer "github.com/richinsley/goquad/renderer"
)

var (
	glInitOnce sync.Once
	glInitErr  error
)

// Init loads the OpenGL function pointers for the current context. Only the
// first call does any work.
func Init() error {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}
	return nil
}

// Driver implements renderer.Device, and with it program.API, on top of
// go-gl.
type Driver struct{}

var (
	_ program.API     = Driver{}
	_ renderer.Device = Driver{}
)

func (Driver) CreateShader(kind uint32) uint32 { return gl.CreateShader(kind) }

func (Driver) ShaderSource(id uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
}

func (Driver) CompileShader(id uint32) { gl.CompileShader(id) }

func (Driver) GetShaderiv(id uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(id, pname, &v)
	return v
}

func (d Driver) GetShaderInfoLog(id uint32) string {
	logLength := d.GetShaderiv(id, gl.INFO_LOG_LENGTH)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(id, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Driver) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (Driver) CreateProgram() uint32 { return gl.CreateProgram() }

func (Driver) AttachShader(p, s uint32) { gl.AttachShader(p, s) }

func (Driver) LinkProgram(p uint32) { gl.LinkProgram(p) }

func (Driver) ValidateProgram(p uint32) { gl.ValidateProgram(p) }

func (Driver) GetProgramiv(p uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(p, pname, &v)
	return v
}

func (d Driver) GetProgramInfoLog(p uint32) string {
	logLength := d.GetProgramiv(p, gl.INFO_LOG_LENGTH)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(p, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (Driver) DeleteProgram(p uint32) { gl.DeleteProgram(p) }

func (Driver) UseProgram(p uint32) { gl.UseProgram(p) }

func (Driver) GetUniformLocation(p uint32, name string) int32 {
	return gl.GetUniformLocation(p, gl.Str(name+"\x00"))
}

func (Driver) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

// Version returns the GL_VERSION string of the current context.
func (Driver) Version() string { return gl.GoStr(gl.GetString(gl.VERSION)) }

func (Driver) GetError() uint32 { return gl.GetError() }

func (Driver) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (Driver) BindVertexArray(id uint32) { gl.BindVertexArray(id) }

func (Driver) DeleteVertexArray(id uint32) { gl.DeleteVertexArrays(1, &id) }

func (Driver) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (Driver) BindBuffer(target, id uint32) { gl.BindBuffer(target, id) }

func (Driver) BufferFloat32(target uint32, data []float32) {
	gl.BufferData(target, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Driver) BufferUint32(target uint32, data []uint32) {
	gl.BufferData(target, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

func (Driver) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (Driver) VertexAttribFloat(index uint32, size, stride int32) {
	gl.VertexAttribPointer(index, size, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(index)
}

func (Driver) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (Driver) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (Driver) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT) }

func (Driver) DrawTriangles(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (Driver) ReadPixels(width, height int, dst []byte) {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst))
}
