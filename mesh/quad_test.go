package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQuad(t *testing.T) {
	q := NewQuad(0.5)

	assert.Equal(t, []float32{
		-0.5, -0.5,
		0.5, -0.5,
		0.5, 0.5,
		-0.5, 0.5,
	}, q.Vertices())
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0}, q.Indices)

	assert.Equal(t, len(q.Positions)*Stride, len(q.Vertices())*4)
	assert.Equal(t, int32(6), q.IndexCount())
}

func TestQuadIndicesInRange(t *testing.T) {
	q := NewQuad(1)
	for _, i := range q.Indices {
		assert.Less(t, int(i), len(q.Positions))
	}
}

func TestQuadWindingIsCounterClockwise(t *testing.T) {
	q := NewQuad(0.5)
	for tri := 0; tri < len(q.Indices); tri += 3 {
		a := q.Positions[q.Indices[tri]]
		b := q.Positions[q.Indices[tri+1]]
		c := q.Positions[q.Indices[tri+2]]
		ab := b.Sub(a).Vec3(0)
		ac := c.Sub(a).Vec3(0)
		assert.Positive(t, ab.Cross(ac).Z(), "triangle %d", tri/3)
	}
}
