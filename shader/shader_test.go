package shader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTwoSections(t *testing.T) {
	in := strings.Join([]string{
		"#shader vertex",
		"#version 410 core",
		"layout(location = 0) in vec4 position;",
		"void main() { gl_Position = position; }",
		"#shader fragment",
		"#version 410 core",
		"out vec4 color;",
		"void main() { color = vec4(1.0); }",
	}, "\n")

	src, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "#version 410 core\nlayout(location = 0) in vec4 position;\nvoid main() { gl_Position = position; }\n", src.Vertex)
	assert.Equal(t, "#version 410 core\nout vec4 color;\nvoid main() { color = vec4(1.0); }\n", src.Fragment)
	assert.Zero(t, src.Dropped)
	assert.True(t, src.Complete())
}

func TestParseFragmentFirst(t *testing.T) {
	src, err := Parse(strings.NewReader("#shader fragment\nf1\n#shader vertex\nv1\nv2\n"))
	require.NoError(t, err)
	assert.Equal(t, "v1\nv2\n", src.Vertex)
	assert.Equal(t, "f1\n", src.Fragment)
}

func TestParseEndToEnd(t *testing.T) {
	src, err := Parse(strings.NewReader("#shader vertex\nvalid code\n#shader fragment\nvalid code"))
	require.NoError(t, err)
	assert.Equal(t, "valid code\n", src.Vertex)
	assert.Equal(t, "valid code\n", src.Fragment)
}

func TestParseNoMarkers(t *testing.T) {
	src, err := Parse(strings.NewReader("void main() {}\nint x;\n"))
	require.NoError(t, err)
	assert.Empty(t, src.Vertex)
	assert.Empty(t, src.Fragment)
	assert.Equal(t, 2, src.Dropped)
	assert.False(t, src.Complete())
}

func TestParseDropsPreamble(t *testing.T) {
	src, err := Parse(strings.NewReader("// header\n\n#shader vertex\nv\n#shader fragment\nf\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, src.Dropped)
	assert.Equal(t, "v\n", src.Vertex)
	assert.Equal(t, "f\n", src.Fragment)
}

func TestParseUnknownMarkerKeepsStage(t *testing.T) {
	in := "#shader vertex\na\n#shader geometry\nb\n#shader fragment\nc\n"
	src, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", src.Vertex)
	assert.Equal(t, "c\n", src.Fragment)
}

func TestParseUnknownMarkerBeforeAnySection(t *testing.T) {
	src, err := Parse(strings.NewReader("#shader compute\nx\n#shader vertex\ny\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, src.Dropped)
	assert.Equal(t, "y\n", src.Vertex)
	assert.Empty(t, src.Fragment)
}

func TestParseKeywordSearch(t *testing.T) {
	// Markers are matched by substring, and vertex wins when both appear.
	src, err := Parse(strings.NewReader("  #shader   vertex // main\nv\n#shader vertex-fragment\nw\n"))
	require.NoError(t, err)
	assert.Equal(t, "v\nw\n", src.Vertex)
	assert.Empty(t, src.Fragment)
}

func TestParseRepeatedMarkerAppends(t *testing.T) {
	src, err := Parse(strings.NewReader("#shader vertex\na\n#shader fragment\nb\n#shader vertex\nc\n"))
	require.NoError(t, err)
	assert.Equal(t, "a\nc\n", src.Vertex)
	assert.Equal(t, "b\n", src.Fragment)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParseReadError(t *testing.T) {
	src, err := Parse(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Empty(t, src.Vertex)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Basic.shader")
	require.NoError(t, os.WriteFile(path, []byte("#shader vertex\nv\n#shader fragment\nf\n"), 0o644))

	src, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v\n", src.Vertex)
	assert.Equal(t, "f\n", src.Fragment)
}

func TestParseFileMissing(t *testing.T) {
	src, err := ParseFile(filepath.Join(t.TempDir(), "nope.shader"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, Source{}, src)
}

func TestSourceStage(t *testing.T) {
	src := Source{Vertex: "v", Fragment: "f"}
	assert.Equal(t, "v", src.Stage(StageVertex))
	assert.Equal(t, "f", src.Stage(StageFragment))
	assert.Empty(t, src.Stage(StageNone))
	assert.Equal(t, "Vertex", StageVertex.String())
	assert.Equal(t, "Fragment", StageFragment.String())
	assert.Equal(t, "None", StageNone.String())
}

func TestDefault(t *testing.T) {
	for _, gles := range []bool{false, true} {
		src := Default(gles)
		require.True(t, src.Complete())
		assert.Zero(t, src.Dropped)
		assert.Contains(t, src.Fragment, "uniform vec4 u_Color;")
		if gles {
			assert.True(t, strings.HasPrefix(src.Vertex, "#version 300 es"))
		} else {
			assert.True(t, strings.HasPrefix(src.Vertex, "#version 410 core"))
		}
	}
}
