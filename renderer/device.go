package renderer

import program "github.com/richinsley/goquad/program"

// Buffer binding targets, matching the OpenGL enums.
const (
	ArrayBuffer        uint32 = 0x8892
	ElementArrayBuffer uint32 = 0x8893
)

// Device is the OpenGL surface the renderer draws through. Calls operate on
// the context current on the calling thread.
type Device interface {
	program.API

	Version() string
	GetError() uint32

	GenVertexArray() uint32
	BindVertexArray(id uint32)
	DeleteVertexArray(id uint32)

	GenBuffer() uint32
	BindBuffer(target, id uint32)
	BufferFloat32(target uint32, data []float32)
	BufferUint32(target uint32, data []uint32)
	DeleteBuffer(id uint32)

	// VertexAttribFloat describes a tightly packed float attribute and
	// enables it.
	VertexAttribFloat(index uint32, size, stride int32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear()
	DrawTriangles(count int32)
	// ReadPixels reads width x height RGBA8 pixels from the origin of the
	// current framebuffer into dst.
	ReadPixels(width, height int, dst []byte)
}

// FrameSink receives every rendered frame.
type FrameSink interface {
	Size() (int, int)
	WriteFrame(pixels []byte) error
}
