// Package mesh holds the static geometry drawn by the renderer.
package mesh

import "github.com/go-gl/mathgl/mgl32"

// Quad is an indexed rectangle in normalized device coordinates.
type Quad struct {
	Positions []mgl32.Vec2
	Indices   []uint32
}

// NewQuad returns a quad spanning ±halfExtent on both axes, wound
// counter-clockwise as two triangles.
func NewQuad(halfExtent float32) *Quad {
	h := halfExtent
	return &Quad{
		Positions: []mgl32.Vec2{
			{-h, -h}, // 0
			{h, -h},  // 1
			{h, h},   // 2
			{-h, h},  // 3
		},
		Indices: []uint32{
			0, 1, 2,
			2, 3, 0,
		},
	}
}

// Vertices flattens the positions into the layout uploaded to the vertex
// buffer: two floats per vertex.
func (q *Quad) Vertices() []float32 {
	out := make([]float32, 0, len(q.Positions)*2)
	for _, p := range q.Positions {
		out = append(out, p.X(), p.Y())
	}
	return out
}

// ComponentsPerVertex is the size of the position attribute.
const ComponentsPerVertex = 2

// Stride is the byte distance between consecutive vertices.
const Stride = ComponentsPerVertex * 4

// IndexCount is the element count passed to the draw call.
func (q *Quad) IndexCount() int32 { return int32(len(q.Indices)) }
